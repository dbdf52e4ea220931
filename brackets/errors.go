package brackets

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyRoster           = errors.New("cannot generate bracket with zero players")
	ErrBracketTooSmall       = errors.New("bracket smaller than player count")
	ErrMixedCategory         = errors.New("bracket requested for players of mixed categories")
	ErrMalformedCategoryHash = errors.New("malformed category hash")
	ErrTooManyGroups         = errors.New("too many groups for the available group letters")
	ErrInvalidGroupSize      = errors.New("group size must be positive")
)

// ValidationError is returned for input the engine refuses to place. Kind is
// one of the sentinels above, so callers can keep using errors.Is.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// Name is the short machine-readable kind ("BracketTooSmall", ...).
func (e *ValidationError) Name() string {
	if name, ok := validationNames[e.Kind]; ok {
		return name
	}
	return "ValidationError"
}

var validationNames = map[error]string{
	ErrEmptyRoster:           "EmptyRoster",
	ErrBracketTooSmall:       "BracketTooSmall",
	ErrMixedCategory:         "MixedCategory",
	ErrMalformedCategoryHash: "MalformedCategoryHash",
	ErrTooManyGroups:         "TooManyGroups",
	ErrInvalidGroupSize:      "InvalidGroupSize",
}

func validationErrorf(kind error, format string, args ...any) error {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
