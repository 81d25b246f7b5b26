package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/seatwise/flightconfig/internal/config/notify"
	"github.com/seatwise/flightconfig/internal/config/watcher"
)

// BaselineLoader loads the bundled baseline configuration.
type BaselineLoader interface {
	// Load returns the bundled configuration, or an error when the
	// resource is missing or malformed. The caller decides the fallback.
	Load() (*Configuration, error)
}

// CacheStore persists the last successfully adopted configuration.
type CacheStore interface {
	// Read returns the cached configuration. ErrAbsent when no cache
	// exists; decode failures are treated identically by the resolver.
	Read() (*Configuration, error)

	// Write replaces the cached configuration atomically.
	Write(cfg *Configuration) error
}

// OverrideSource fetches and publishes remotely managed overrides.
type OverrideSource interface {
	// Fetch returns the authoritative override. ErrAbsent when no
	// decodable override record exists; ErrTransient on transport
	// failure. The resolver depends on that distinction only for
	// diagnostics: both fall through to the cache.
	Fetch(ctx context.Context) (*Configuration, error)

	// Publish creates a new override record.
	Publish(ctx context.Context, cfg *Configuration) error
}

// Resolver owns the single current Configuration and reconciles the three
// sources by authority: remote override > local cache > bundled baseline.
//
// Load adopts the baseline synchronously, so every query made after Load
// returns a defined string for every valid identifier. One asynchronous
// reconciliation per process then attempts the upgrade to remote (or
// cached) data. All writes replace the value atomically; readers never
// observe a torn or empty configuration.
type Resolver struct {
	mu      sync.RWMutex
	current *Configuration
	state   State
	source  Source

	// gen counts adoptions. A reconciliation captures it before fetching
	// and its result is dropped if a publish landed in between, so a
	// concurrent publish always wins over older in-flight remote state.
	gen uint64

	baseline BaselineLoader
	cache    CacheStore
	remote   OverrideSource

	notifier *notify.Notifier
	log      *slog.Logger

	watchPath     string
	watchInterval time.Duration
	cacheWatcher  *watcher.Watcher

	reconciled chan struct{}
	loadOnce   sync.Once
	wg         sync.WaitGroup
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBaseline sets the bundled baseline loader. Without one the built-in
// Default is adopted at Load.
func WithBaseline(l BaselineLoader) Option {
	return func(r *Resolver) {
		r.baseline = l
	}
}

// WithCache sets the durable cache store.
func WithCache(s CacheStore) Option {
	return func(r *Resolver) {
		r.cache = s
	}
}

// WithRemote sets the remote override source.
func WithRemote(s OverrideSource) Option {
	return func(r *Resolver) {
		r.remote = s
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithAsyncNotify makes observer delivery asynchronous with the given
// buffer size.
func WithAsyncNotify(bufferSize int) Option {
	return func(r *Resolver) {
		r.notifier = notify.New(notify.WithAsync(bufferSize))
	}
}

// WithCacheWatch polls the cache file at path and adopts updates written
// by a sibling process, as long as remote authority is not already active.
func WithCacheWatch(path string, interval time.Duration) Option {
	return func(r *Resolver) {
		r.watchPath = path
		r.watchInterval = interval
	}
}

// New creates a Resolver. The built-in default configuration is published
// immediately so even queries made before Load return defined strings.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		current:    Default(),
		state:      StateUninitialized,
		source:     SourceBaseline,
		notifier:   notify.New(),
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		reconciled: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Load initializes the resolver. The baseline is adopted synchronously
// before Load returns; the single reconciliation against the remote source
// runs in the background. Load never leaves the resolver without a usable
// configuration. Subsequent calls are no-ops.
func (r *Resolver) Load(ctx context.Context) {
	r.loadOnce.Do(func() {
		r.adopt(r.loadBaseline(), SourceBaseline, 0)

		if r.remote != nil {
			r.mu.Lock()
			r.state = StateReconciling
			r.mu.Unlock()

			r.wg.Add(1)
			go func() {
				defer r.wg.Done()
				defer close(r.reconciled)
				r.reconcile(ctx)
			}()
		} else {
			close(r.reconciled)
		}

		if r.watchPath != "" && r.cache != nil {
			r.cacheWatcher = watcher.New(r.watchPath, r.watchInterval, func(watcher.Event) {
				r.adoptFromCache()
			})
			r.cacheWatcher.Start()
		}
	})
}

// Close stops the cache watcher, waits for a running reconciliation, and
// shuts down observer delivery.
func (r *Resolver) Close() {
	if r.cacheWatcher != nil {
		r.cacheWatcher.Stop()
	}
	r.wg.Wait()
	r.notifier.Close()
}

// Reconciled returns a channel closed once the startup reconciliation has
// settled (remote adopted, cache adopted, or baseline confirmed).
func (r *Resolver) Reconciled() <-chan struct{} {
	return r.reconciled
}

// Current returns a copy of the published configuration.
func (r *Resolver) Current() *Configuration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.Clone()
}

// State returns the resolver's lifecycle state.
func (r *Resolver) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Source returns the provenance of the published configuration.
func (r *Resolver) Source() Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.source
}

// Pattern returns the validation pattern for a field from the current
// configuration. Never fails: the schema invariant guarantees every
// declared identifier an entry.
func (r *Resolver) Pattern(f Field) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.Pattern(f)
}

// Placeholder returns the placeholder text for a field.
func (r *Resolver) Placeholder(f Field) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.Placeholder(f)
}

// ErrorMessage returns the user-facing text for a message kind.
func (r *Resolver) ErrorMessage(m Message) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.ErrorMessage(m)
}

// ButtonLabel returns the label for a button.
func (r *Resolver) ButtonLabel(b Button) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.ButtonLabel(b)
}

// Subscribe registers an observer for configuration replacements.
func (r *Resolver) Subscribe(observer notify.Observer) *notify.Subscription {
	return r.notifier.Subscribe(observer)
}

// Publish validates cfg, creates a new override record, and on remote
// success adopts cfg as the current configuration and persists it to the
// cache. Remote failure leaves the current configuration and the cache
// untouched and is returned to the caller; this is the only resolver
// operation that surfaces errors.
func (r *Resolver) Publish(ctx context.Context, cfg *Configuration) error {
	if cfg == nil {
		return errors.New("nil configuration")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if r.remote == nil {
		return errors.New("no override source configured")
	}

	snap := cfg.Clone()
	if err := r.remote.Publish(ctx, snap); err != nil {
		r.log.Warn("override publish failed", "error", err)
		return err
	}

	r.adopt(snap, SourceRemote, 0)
	r.writeCache(snap)
	r.log.Info("override published and adopted")
	return nil
}

// loadBaseline returns the bundled baseline, or the built-in default when
// the bundle is missing or malformed. Bundled resources are static, so
// failure is not transient and there are no retries.
func (r *Resolver) loadBaseline() *Configuration {
	if r.baseline != nil {
		cfg, err := r.baseline.Load()
		if err == nil {
			return cfg
		}
		r.log.Warn("bundled baseline unavailable, using built-in defaults", "error", err)
	}
	return Default()
}

// reconcile performs the one startup attempt to upgrade from the baseline
// to the highest-authority available source. Source errors are absorbed
// into fallback decisions; nothing propagates to query callers.
func (r *Resolver) reconcile(ctx context.Context) {
	expect := r.generation()

	cfg, err := r.remote.Fetch(ctx)
	if err == nil {
		if r.adopt(cfg, SourceRemote, expect) {
			r.writeCache(cfg)
			r.log.Info("remote override adopted")
		}
		return
	}

	switch {
	case errors.Is(err, ErrAbsent):
		r.log.Info("no remote override available")
	case errors.Is(err, ErrTransient):
		r.log.Warn("remote override unreachable", "error", err)
	default:
		r.log.Warn("remote override fetch failed", "error", err)
	}

	if r.cache == nil {
		r.settleBaseline(expect)
		return
	}

	cached, cerr := r.cache.Read()
	if cerr != nil {
		if !errors.Is(cerr, ErrAbsent) {
			r.log.Warn("cached configuration unreadable", "error", cerr)
		}
		r.settleBaseline(expect)
		return
	}

	if r.adopt(cached, SourceCache, expect) {
		r.log.Info("cached configuration adopted")
	}
}

// adopt atomically replaces the published configuration. A zero expect
// always wins; a non-zero expect drops the adoption when another writer
// has landed since the generation was captured. Observers are notified
// after the swap, outside the lock.
func (r *Resolver) adopt(cfg *Configuration, src Source, expect uint64) bool {
	r.mu.Lock()
	if expect != 0 && r.gen != expect {
		r.mu.Unlock()
		return false
	}
	old := r.current
	r.current = cfg
	r.source = src
	r.gen++
	switch src {
	case SourceRemote:
		r.state = StateRemoteActive
	case SourceCache:
		r.state = StateCacheActive
	default:
		r.state = StateBaselineActive
	}
	r.mu.Unlock()

	r.notifier.Notify(notify.Change{Source: src.String(), Old: old, New: cfg})
	return true
}

// settleBaseline ends a reconciliation that produced nothing: the baseline
// adopted at Load stands, with no replacement and no notification.
func (r *Resolver) settleBaseline(expect uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen == expect && r.state == StateReconciling {
		r.state = StateBaselineActive
	}
}

// adoptFromCache adopts a cache update written by a sibling process.
// Remote authority outranks the shared cache, so nothing happens while a
// remote override is active.
func (r *Resolver) adoptFromCache() {
	r.mu.RLock()
	src := r.source
	r.mu.RUnlock()
	if src == SourceRemote {
		return
	}

	cached, err := r.cache.Read()
	if err != nil {
		return
	}

	r.mu.RLock()
	same := r.current.Equal(cached)
	r.mu.RUnlock()
	if same {
		return
	}

	if r.adopt(cached, SourceCache, 0) {
		r.log.Info("cache update adopted")
	}
}

// writeCache persists cfg as the last-known-good copy. Failure is
// non-fatal and only logged.
func (r *Resolver) writeCache(cfg *Configuration) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Write(cfg); err != nil {
		r.log.Warn("cache write failed", "error", err)
	}
}

// generation returns the current adoption generation.
func (r *Resolver) generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gen
}
