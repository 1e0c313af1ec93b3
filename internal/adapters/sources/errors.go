package sources

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrDataDir         = errors.New("data directory not found")
	ErrNoSources       = errors.New("no sources loaded")
	ErrFileUnreadable  = errors.New("file unreadable")
	ErrMalformedFile   = errors.New("malformed file")
	ErrEmptyFile       = errors.New("empty file")
	ErrSchemaViolation = errors.New("schema violation")
)

// skipReason maps a load error to a metrics label.
func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrFileUnreadable):
		return "missing_file"
	case errors.Is(err, ErrMalformedFile):
		return "malformed_file"
	case errors.Is(err, ErrEmptyFile):
		return "empty_file"
	case errors.Is(err, ErrSchemaViolation):
		return "schema_violation"
	default:
		return "unknown"
	}
}
