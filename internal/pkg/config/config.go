// Package config exposes typed access to runtime configuration.
package config

import (
	"io"
	"time"
)

// Config defines a set of methods for retrieving configuration values of various types.
// Implementations of this interface should handle the retrieval and type conversion
// of configuration data, returning the zero value (or a registered default) when a
// key is missing or cannot be converted.
type Config interface {
	io.Closer

	// GetBool retrieves the configuration value associated with the given key as a bool.
	GetBool(key string) bool

	// GetInt retrieves the configuration value associated with the given key as an int.
	GetInt(key string) int

	// GetFloat64 retrieves the configuration value associated with the given key as a float64.
	GetFloat64(key string) float64

	// GetString retrieves the configuration value associated with the given key as a string.
	GetString(key string) string

	// GetSecond retrieves the configuration value associated with the given key as seconds.
	GetSecond(key string) time.Duration

	// GetArray retrieves the configuration value associated with the given key as a slice of strings.
	// Both YAML sequences and the "<element1>,<element2>,..." string form are accepted.
	GetArray(key string) []string
}
