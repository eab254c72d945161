package core

// gate.go serializes import runs. A run that finds the gate held fails
// immediately with ErrImportInProgress instead of queueing behind it.

import (
	"context"
	"sync"
	"time"
)

// RunGate admits one import run at a time.
type RunGate struct {
	slot chan struct{}

	mu      sync.RWMutex
	current string
	started time.Time
}

// NewRunGate creates an open gate.
func NewRunGate() *RunGate {
	return &RunGate{slot: make(chan struct{}, 1)}
}

// Acquire takes the gate for runID without blocking.
// The caller MUST call Release when the run completes (use defer).
func (g *RunGate) Acquire(runID string) error {
	select {
	case g.slot <- struct{}{}:
		g.mu.Lock()
		g.current = runID
		g.started = time.Now()
		g.mu.Unlock()
		return nil
	default:
		return ErrImportInProgress
	}
}

// Release frees the gate. Must be called exactly once per successful Acquire.
func (g *RunGate) Release() {
	g.mu.Lock()
	g.current = ""
	g.started = time.Time{}
	g.mu.Unlock()

	<-g.slot
}

// GateStatus is a snapshot of the gate.
type GateStatus struct {
	Running bool      `json:"running"`
	RunID   string    `json:"run_id,omitempty"`
	Started time.Time `json:"started,omitempty"`
}

// Status reports the run holding the gate, if any.
func (g *RunGate) Status() GateStatus {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return GateStatus{Running: g.current != "", RunID: g.current, Started: g.started}
}

// WaitIdle blocks until no run holds the gate or ctx is done. Used on
// shutdown so an interrupted process does not exit mid-write.
func (g *RunGate) WaitIdle(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if len(g.slot) == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
