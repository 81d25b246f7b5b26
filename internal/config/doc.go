// Package config implements the layered configuration resolution engine
// for the flightconfig system.
//
// A Configuration value aggregates the validation patterns and UI text the
// scanning application needs. The Resolver reconciles three sources of
// decreasing authority: a remotely managed override, a locally cached
// last-known-good copy, and a bundled baseline. A consumer always has a
// usable configuration: the baseline (or a built-in default) is adopted
// synchronously before the resolver is ready, and the upgrade to higher
// authority data happens asynchronously without ever exposing an empty or
// partial value.
//
// Subpackages provide the concrete sources: baseline (embedded resource),
// cache (durable single-key file store), and remote (record store backed
// override source). The notify subpackage broadcasts configuration
// replacements to observers.
package config
