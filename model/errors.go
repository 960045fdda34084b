package model

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds. Every ingest failure matches exactly one of these with errors.Is.
var (
	ErrUnknownFormat     = errors.New("unknown format")
	ErrEmptyPackage      = errors.New("empty package")
	ErrMalformedMetadata = errors.New("malformed metadata")
	ErrAssetDerivation   = errors.New("asset derivation failure")
	ErrCatalogWrite      = errors.New("catalog write failure")
)

// KindError tags a cause with one of the error kinds above.
// errors.Is matches both the kind and anything in the cause chain.
type KindError struct {
	Kind    error
	Message string
	Cause   error
}

// NewKindError builds a KindError; cause may be nil
func NewKindError(kind error, cause error, format string, args ...interface{}) error {
	return errors.WithStack(&KindError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	})
}

func (e *KindError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Message, e.Cause)
}

// Is reports whether target is this error's kind
func (e *KindError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the cause
func (e *KindError) Unwrap() error {
	return e.Cause
}

// ErrorKind returns the kind an error was tagged with, or nil
func ErrorKind(err error) error {
	for _, kind := range []error{ErrUnknownFormat, ErrEmptyPackage, ErrMalformedMetadata, ErrAssetDerivation, ErrCatalogWrite} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
