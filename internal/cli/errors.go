package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/aidanlsb/cite/internal/cache"
	"github.com/aidanlsb/cite/internal/parser"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	ErrConfigInvalid  = "CONFIG_INVALID"
	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"
	ErrParseError     = "PARSE_ERROR"
	ErrInvalidInput   = "INVALID_INPUT"
	ErrCanceled       = "CANCELED"

	// ErrValidationFailed is reported when links fail validation.
	ErrValidationFailed = "VALIDATION_FAILED"
	// ErrExtractionFailed is reported when an eligible link yields no content.
	ErrExtractionFailed = "EXTRACTION_FAILED"

	ErrInternal = "INTERNAL_ERROR"
)

// exitError ends the process with code after output has been written.
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// errorCode maps an error to its stable code.
func errorCode(err error) string {
	var pe *cache.ParseError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrFileNotFound
	case errors.Is(err, parser.ErrInvalidEncoding):
		return ErrParseError
	case errors.Is(err, cache.ErrEmptyPath):
		return ErrInvalidInput
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCanceled
	case errors.As(err, &pe):
		return ErrFileReadError
	default:
		return ErrInternal
	}
}

// handleError reports err in the active output mode. In JSON mode the
// envelope is written to w and a silent exit error is returned; otherwise
// err is returned for Execute to print.
func handleError(w io.Writer, code string, err error, suggestion string) error {
	if jsonOutput {
		outputError(w, code, err.Error(), suggestion)
		return exitError{code: 1}
	}
	if suggestion != "" {
		return fmt.Errorf("%w\n\n%s", err, suggestion)
	}
	return err
}
