// =============================================================================
// Enrollment Converter - Error Taxonomy
// =============================================================================
//
// Every stage of the conversion reports failures with one of the types below.
// Stages only wrap to add context; nothing is retried and nothing is
// swallowed. Callers match with errors.As:
//
//   var nf *types.NotFoundError
//   if errors.As(err, &nf) { ... }
//
// =============================================================================

package types

import "fmt"

// NotFoundError is returned when the input path does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file '%s' not found", e.Path)
}

// DecodeError is returned when the input contains a byte that is not defined
// in the input encoding.
type DecodeError struct {
	Path     string
	Encoding string

	// Offset is the zero-based byte offset of the first invalid byte.
	Offset int

	// Byte is the offending byte value.
	Byte byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode file '%s' with %s encoding: invalid byte 0x%02X at offset %d",
		e.Path, e.Encoding, e.Byte, e.Offset)
}

// EmptyFileError is returned when the first line of the input is blank.
type EmptyFileError struct {
	Path string
}

func (e *EmptyFileError) Error() string {
	return fmt.Sprintf("file '%s' is empty", e.Path)
}

// EmptyDataError is returned when the input has a header but no data rows.
type EmptyDataError struct {
	Path string
}

func (e *EmptyDataError) Error() string {
	return fmt.Sprintf("file '%s' contains no data rows", e.Path)
}

// ValidationError is returned when the input is structurally unusable, for
// example a header row without any field names.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input '%s': %s", e.Path, e.Message)
}

// RenderError wraps a failure while drawing or writing the output document.
type RenderError struct {
	// Path is the output document path.
	Path string

	// Page is the one-based page being drawn, or 0 when the failure happened
	// while flushing the document.
	Page int

	Err error
}

func (e *RenderError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("error creating PDF '%s' (page %d): %v", e.Path, e.Page, e.Err)
	}
	return fmt.Sprintf("error creating PDF '%s': %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
