package publication

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/common"
)

// ValidationError carries one message per offending field. The advisory it
// was raised for is left untouched.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return common.ErrorValidation }

// TransitionError reports an action the current state does not allow.
type TransitionError struct {
	ID     string
	From   models.Status
	Action Action
}

func (e *TransitionError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("cannot %s a %s advisory", e.Action, e.From)
	}
	return fmt.Sprintf("cannot %s advisory %s: it is %s", e.Action, e.ID, e.From)
}

// IsValidationError reports whether err carries field-level messages.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransitionError reports whether err is an illegal transition.
func IsTransitionError(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}

type fieldErrors map[string]string

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}
