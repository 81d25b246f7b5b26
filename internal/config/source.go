package config

// Source indicates which loading stage produced a Configuration value.
// Provenance is used for logging and change notification only; consumers
// never branch on it.
type Source uint8

const (
	// SourceBaseline is the bundled (or built-in default) configuration.
	SourceBaseline Source = iota

	// SourceCache is the locally cached last-known-good configuration.
	SourceCache

	// SourceRemote is a remotely managed override.
	SourceRemote
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceBaseline:
		return "baseline"
	case SourceCache:
		return "cache"
	case SourceRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Authority levels for configuration sources. A higher value wins whenever
// more than one source yields a usable configuration.
const (
	// AuthorityBaseline is the lowest authority: build-time defaults.
	AuthorityBaseline = 0

	// AuthorityCache is the last-known-good copy from a previous run.
	AuthorityCache = 100

	// AuthorityRemote is the highest authority: the managed override.
	AuthorityRemote = 200
)

// Authority returns the authority level of a source.
func (s Source) Authority() int {
	switch s {
	case SourceCache:
		return AuthorityCache
	case SourceRemote:
		return AuthorityRemote
	default:
		return AuthorityBaseline
	}
}

// State describes the resolver's position in its lifecycle. The machine
// never terminates: a publish can re-enter StateRemoteActive at any time.
type State uint8

const (
	// StateUninitialized means Load has not run yet.
	StateUninitialized State = iota

	// StateBaselineActive means the baseline (or built-in default) stands.
	StateBaselineActive

	// StateReconciling means the startup reconciliation is in flight; the
	// baseline remains published meanwhile.
	StateReconciling

	// StateCacheActive means the cached last-known-good copy stands.
	StateCacheActive

	// StateRemoteActive means a remote override stands.
	StateRemoteActive
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBaselineActive:
		return "baseline-active"
	case StateReconciling:
		return "reconciling"
	case StateCacheActive:
		return "cache-active"
	case StateRemoteActive:
		return "remote-active"
	default:
		return "unknown"
	}
}
