package textextract

import "errors"

var (
	// ErrFileNotFound is returned when the input path does not exist.
	ErrFileNotFound = errors.New("textextract: file not found")

	// ErrNotAFile is returned when the input path is a directory.
	ErrNotAFile = errors.New("textextract: path is not a regular file")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("textextract: invalid configuration")

	// ErrAnalyticsDisabled is returned when an analytics operation is
	// requested but no analytics store was configured.
	ErrAnalyticsDisabled = errors.New("textextract: analytics not enabled")

	// ErrUnsupportedExport is returned for unrecognized export formats.
	ErrUnsupportedExport = errors.New("textextract: unsupported export format")
)
