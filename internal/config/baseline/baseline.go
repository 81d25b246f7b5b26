// Package baseline loads the bundled default configuration.
//
// The baseline is a TOML resource embedded at build time. Loading is pure
// and synchronous; failure is not transient (the bundle is static), so
// there are no retries and the caller decides the fallback.
package baseline

import (
	_ "embed"

	"github.com/seatwise/flightconfig/internal/config"
)

//go:embed baseline.toml
var resource []byte

// Loader decodes a bundled configuration resource.
type Loader struct {
	resource []byte
}

// New returns a loader over the embedded baseline resource.
func New() *Loader {
	return &Loader{resource: resource}
}

// NewFromBytes returns a loader over an explicit resource, mainly for
// tests and alternate bundles.
func NewFromBytes(data []byte) *Loader {
	return &Loader{resource: data}
}

// Load decodes and validates the bundled configuration. Returns
// config.ErrAbsent when the resource is empty, or a decode-class error
// when it is malformed.
func (l *Loader) Load() (*config.Configuration, error) {
	if len(l.resource) == 0 {
		return nil, config.ErrAbsent
	}
	return config.DecodeTOML(l.resource)
}
