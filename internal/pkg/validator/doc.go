// Package validator provides the constraint engine used to validate bound
// actions and dependency structs.
//
// Business code should depend on the Validator or GroupValidator interfaces so
// validation can be shared and tested consistently. The concrete implementation
// is backed by go-playground/validator v10 and supports named validation
// groups: constraints of the default group live in the `validate` struct tag,
// constraints of group "x" live in the `validate_x` tag (the prefix is
// configurable).
package validator
