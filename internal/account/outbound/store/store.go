// Package store persists accounts.
package store

import "errors"

// ErrEmailTaken is returned when an account with the same email exists.
var ErrEmailTaken = errors.New("email already taken")
