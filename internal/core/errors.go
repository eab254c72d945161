package core

import "errors"

var (
	// ErrHeaderRowOutOfRange indicates the configured header row is below 1
	// or past the end of the grid.
	ErrHeaderRowOutOfRange = errors.New("header row out of range")

	// ErrHeaderNotFound indicates no scanned row looked like a header.
	ErrHeaderNotFound = errors.New("header row not found")

	// ErrMissingRequiredColumn indicates the name field could not be mapped.
	ErrMissingRequiredColumn = errors.New("missing required column")

	// ErrInvalidMapping indicates a mapping value or field key that cannot be used.
	ErrInvalidMapping = errors.New("invalid column mapping")

	// ErrEmptyResultSet indicates extraction produced no records.
	ErrEmptyResultSet = errors.New("no records extracted")

	// ErrImportInProgress indicates another run holds the gate.
	ErrImportInProgress = errors.New("import already in progress")

	// ErrNoSource indicates neither a file nor a configured URL was given.
	ErrNoSource = errors.New("no source configured")

	// ErrStore wraps persistence failures.
	ErrStore = errors.New("store failure")
)
