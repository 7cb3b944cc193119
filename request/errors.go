package request

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvalidURLError is returned when a base URL and a path cannot be composed
// into an absolute URL.
type InvalidURLError struct {
	BaseURL string
	Path    string
	Reason  string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL (base=%q, path=%q): %s", e.BaseURL, e.Path, e.Reason)
}

func newInvalidURLError(baseURL, path, reason string) error {
	return errors.WithStack(&InvalidURLError{BaseURL: baseURL, Path: path, Reason: reason})
}

// UnsupportedParameterTypeError is returned when a parameter value cannot be
// serialized under the chosen ParameterStyle.
type UnsupportedParameterTypeError struct {
	Key   string
	Value interface{}
}

func (e *UnsupportedParameterTypeError) Error() string {
	return fmt.Sprintf("unsupported type %T for parameter '%s'", e.Value, e.Key)
}

func newUnsupportedParameterTypeError(key string, value interface{}) error {
	return errors.WithStack(&UnsupportedParameterTypeError{Key: key, Value: value})
}
