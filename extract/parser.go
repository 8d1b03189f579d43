package extract

import (
	"context"
	"errors"
)

var (
	// ErrUnsupportedFormat is returned for file types no parser handles.
	ErrUnsupportedFormat = errors.New("extract: unsupported document format")

	// ErrDecode is returned when a file of a supported type cannot be decoded.
	ErrDecode = errors.New("extract: document could not be decoded")
)

// Parser pulls raw text out of a document file of a specific format.
type Parser interface {
	Parse(ctx context.Context, path string) (string, error)
	SupportedFormats() []string
}
