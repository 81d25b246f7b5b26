package config

import (
	"regexp"
	"sync"
)

// Provider supplies the current configuration value for lookups.
// *Resolver implements it.
type Provider interface {
	Current() *Configuration
}

// Accessor translates symbolic field, message, and button identifiers into
// strings from the provider's current configuration. Every lookup reads
// the configuration at call time, never a snapshot, so UI text updates
// live when reconciliation replaces the value mid-display.
type Accessor struct {
	provider Provider

	// Compiled patterns, keyed by pattern text so a configuration swap
	// naturally misses the stale entries.
	patterns sync.Map // map[string]*regexp.Regexp
}

// NewAccessor creates an accessor over a configuration provider.
func NewAccessor(p Provider) *Accessor {
	return &Accessor{provider: p}
}

// Pattern returns the validation pattern for a field.
func (a *Accessor) Pattern(f Field) string {
	return a.provider.Current().Pattern(f)
}

// Placeholder returns the placeholder text for a field.
func (a *Accessor) Placeholder(f Field) string {
	return a.provider.Current().Placeholder(f)
}

// ErrorMessage returns the user-facing text for a message kind.
func (a *Accessor) ErrorMessage(m Message) string {
	return a.provider.Current().ErrorMessage(m)
}

// ButtonLabel returns the label for a button.
func (a *Accessor) ButtonLabel(b Button) string {
	return a.provider.Current().ButtonLabel(b)
}

// Validate reports whether input matches the field's current validation
// pattern. Patterns are compiled on first use and cached by pattern text;
// the schema invariant guarantees they compile.
func (a *Accessor) Validate(f Field, input string) bool {
	pattern := a.Pattern(f)
	if pattern == "" {
		return false
	}

	if cached, ok := a.patterns.Load(pattern); ok {
		return cached.(*regexp.Regexp).MatchString(input)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	a.patterns.Store(pattern, re)
	return re.MatchString(input)
}
