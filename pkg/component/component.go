// Package component defines the configuration contract shared by
// backing-store components.
package component

import "github.com/spf13/pflag"

// ConfigOptions is the interface every component options type implements.
// It keeps configuration behavior uniform: fill defaults, validate, and
// expose command-line flags.
//
// Complete must be called before Validate so derived fields (for example
// a database name resolved from a URI) are populated before they are
// checked.
type ConfigOptions interface {
	// Complete fills in any fields not set that are required to have
	// valid data. Derived values are computed here.
	Complete() error

	// Validate checks that required fields are populated and values are
	// within acceptable ranges. Returns nil if all validations pass.
	Validate() error

	// AddFlags registers flags for the options on the given FlagSet.
	// namePrefix is prepended to flag names to avoid conflicts
	// (e.g. "mongo." yields --mongo.uri, --mongo.database).
	AddFlags(fs *pflag.FlagSet, namePrefix string)
}
