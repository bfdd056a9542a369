package errors

import (
	"errors"
	"fmt"
)

// AcquisitionError is a failure to get text or pixels out of a label PDF
type AcquisitionError struct {
	Type        ErrorType `json:"type"`
	Message     string    `json:"message"`
	Context     string    `json:"context,omitempty"`
	FilePath    string    `json:"file_path,omitempty"`
	PageNumber  int       `json:"page_number,omitempty"`
	Recoverable bool      `json:"recoverable"`
	Cause       error     `json:"-"`
}

// ErrorType represents the categories of acquisition failures
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeInvalidFile
	ErrorTypeUnreadable
	ErrorTypeNoPages
	ErrorTypeNoImage
	ErrorTypeImageDecode
	ErrorTypeOCR
)

// Error implements the error interface
func (e *AcquisitionError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
	if e.PageNumber > 0 {
		msg = fmt.Sprintf("%s (page %d)", msg, e.PageNumber)
	}
	if e.Context != "" {
		msg += ": " + e.Context
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *AcquisitionError) Unwrap() error {
	return e.Cause
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeInvalidFile:
		return "INVALID_FILE"
	case ErrorTypeUnreadable:
		return "UNREADABLE"
	case ErrorTypeNoPages:
		return "NO_PAGES"
	case ErrorTypeNoImage:
		return "NO_IMAGE"
	case ErrorTypeImageDecode:
		return "IMAGE_DECODE"
	case ErrorTypeOCR:
		return "OCR"
	default:
		return "UNKNOWN"
	}
}

// IsRecoverable reports whether extraction can continue with degraded input.
// A file that cannot be parsed at all is not recoverable; a page without an
// image or a failed OCR call only loses the OCR passes.
func (et ErrorType) IsRecoverable() bool {
	switch et {
	case ErrorTypeNoImage, ErrorTypeImageDecode, ErrorTypeOCR:
		return true
	default:
		return false
	}
}

// New creates an AcquisitionError
func New(errorType ErrorType, message string) *AcquisitionError {
	return &AcquisitionError{
		Type:        errorType,
		Message:     message,
		Recoverable: errorType.IsRecoverable(),
	}
}

// Wrap wraps err as an AcquisitionError of the given type
func Wrap(errorType ErrorType, message string, err error) *AcquisitionError {
	e := New(errorType, message)
	e.Cause = err
	return e
}

// WithContext adds context to an existing AcquisitionError
func (e *AcquisitionError) WithContext(context string) *AcquisitionError {
	e.Context = context
	return e
}

// WithFile adds file path information to an existing AcquisitionError
func (e *AcquisitionError) WithFile(filePath string) *AcquisitionError {
	e.FilePath = filePath
	return e
}

// WithPage adds page number information to an existing AcquisitionError
func (e *AcquisitionError) WithPage(pageNumber int) *AcquisitionError {
	e.PageNumber = pageNumber
	return e
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown when err is not an
// AcquisitionError.
func TypeOf(err error) ErrorType {
	var ae *AcquisitionError
	if errors.As(err, &ae) {
		return ae.Type
	}
	return ErrorTypeUnknown
}

// IsUnreadable reports whether err means the input could not be parsed as a PDF
func IsUnreadable(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeUnreadable, ErrorTypeInvalidFile, ErrorTypeNoPages:
		return true
	}
	return false
}

// IsRecoverable reports whether err allows extraction to continue
func IsRecoverable(err error) bool {
	var ae *AcquisitionError
	return errors.As(err, &ae) && ae.Recoverable
}
