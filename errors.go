package pixmap

import (
	"fmt"

	"github.com/pkg/errors"
)

// A HeaderError is returned when a pixmap header cannot be understood:
// bad magic, a missing field, or a field that fails to parse.
type HeaderError struct {
	Reason error
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("invalid pixmap header: %s", e.Reason)
}

// Unwrap returns the underlying cause.
func (e *HeaderError) Unwrap() error {
	return e.Reason
}

func newHeaderError(format string, args ...interface{}) *HeaderError {
	return &HeaderError{Reason: errors.Errorf(format, args...)}
}

// A PixelDataError is returned when the pixel region of a pixmap does
// not match its header: a malformed sample token or a sample count
// that disagrees with the declared dimensions.
type PixelDataError struct {
	Reason error
}

func (e *PixelDataError) Error() string {
	return fmt.Sprintf("invalid pixel data: %s", e.Reason)
}

// Unwrap returns the underlying cause.
func (e *PixelDataError) Unwrap() error {
	return e.Reason
}

func newPixelDataError(format string, args ...interface{}) *PixelDataError {
	return &PixelDataError{Reason: errors.Errorf(format, args...)}
}

// A CodecError is returned when the external image codec fails to
// decode or encode.
type CodecError struct {
	Reason error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("codec failure: %s", e.Reason)
}

// Unwrap returns the underlying cause.
func (e *CodecError) Unwrap() error {
	return e.Reason
}

func newCodecError(err error) *CodecError {
	return &CodecError{Reason: err}
}
