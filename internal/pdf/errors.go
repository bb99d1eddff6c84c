package pdf

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Callers match them with errors.Is.
var (
	// ErrNotFound is returned when the document path does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrNotAPDF is returned when the path does not name a PDF document.
	ErrNotAPDF = errors.New("file is not a PDF")

	// ErrCredentialRequired is returned when the document is encrypted and no
	// password was supplied.
	ErrCredentialRequired = errors.New("PDF is password protected")

	// ErrCredentialInvalid is returned when the supplied password does not open
	// the document.
	ErrCredentialInvalid = errors.New("incorrect PDF password")

	// ErrExtractionFailed is returned when the document cannot be parsed.
	ErrExtractionFailed = errors.New("failed to parse PDF")

	// ErrToolUnavailable is returned by optional collaborators (external table
	// extractors, OCR engines) that are not installed or not configured. It is
	// never fatal for an operation.
	ErrToolUnavailable = errors.New("tool unavailable")
)

// Error wraps errors with the operation that failed.
type Error struct {
	// Op is the operation that failed (e.g., "ExtractText", "ExtractImages").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("pdf: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("pdf: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapError wraps err as an *Error unless it already is one.
func WrapError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var pdfErr *Error
	if errors.As(err, &pdfErr) {
		return err
	}

	return &Error{Op: op, Err: err, Details: details}
}

// UserMessage renders an error the way it is reported to tool callers.
func UserMessage(err error) string {
	var pdfErr *Error
	switch {
	case errors.Is(err, ErrCredentialRequired), errors.Is(err, ErrCredentialInvalid):
		return "PDF is password protected. Please provide the correct password using the password parameter."
	case errors.Is(err, ErrNotFound) && errors.As(err, &pdfErr):
		return "File not found: " + pdfErr.Details
	case errors.Is(err, ErrNotAPDF) && errors.As(err, &pdfErr):
		return "File is not a PDF: " + pdfErr.Details
	default:
		return err.Error()
	}
}
