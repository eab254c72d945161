package sheet

import "errors"

// ErrInvalidSourceURL indicates the URL carries no recognizable spreadsheet id.
var ErrInvalidSourceURL = errors.New("invalid source url")

// ErrSourceUnreachable indicates every export strategy failed.
var ErrSourceUnreachable = errors.New("source unreachable")

// ErrUnsupportedFormat indicates a file extension no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrFileTooLarge indicates the payload exceeds the configured size limit.
var ErrFileTooLarge = errors.New("file too large")

// ErrEmptySource indicates a source with neither a URL nor file bytes.
var ErrEmptySource = errors.New("empty source")
