// Package uid generates identifiers for correlation IDs and flash entries.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}
