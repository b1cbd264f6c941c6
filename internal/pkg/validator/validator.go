package validator

import (
	"context"
	"errors"
)

// DefaultGroup is the group every validation run starts with.
const DefaultGroup = "default"

var (
	// ErrInvalidGroup indicates a group name that cannot be mapped to a struct tag.
	ErrInvalidGroup = errors.New("validator: invalid group name")

	// ErrInvalidTarget indicates the value passed for validation is not a struct.
	ErrInvalidTarget = errors.New("validator: target must be a struct or pointer to struct")
)

// Validator validates a struct against the default group.
type Validator interface {
	Validate(data any) error
}

// GroupValidator validates a struct against an ordered list of groups and
// reports every constraint violation found.
//
// Violations are not errors: a nil error with a non-empty slice means the
// target is invalid. A non-nil error means the engine itself failed.
type GroupValidator interface {
	ValidateGroups(ctx context.Context, data any, groups []string) ([]Violation, error)
}

// Violation is a single failed constraint.
type Violation struct {
	// Path identifies the offending field, e.g. "email" or "address.city".
	Path string
	// Message is the translated, human readable failure message.
	Message string
	// Group is the validation group that reported the violation.
	Group string
	// Tag is the failed constraint (e.g. "required", "email").
	Tag string
	// InvalidValue is the rejected value, nil when absent.
	InvalidValue any
}
