package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/seatwise/flightconfig/internal/config"
	"github.com/seatwise/flightconfig/internal/config/baseline"
	"github.com/seatwise/flightconfig/internal/config/cache"
	"github.com/seatwise/flightconfig/internal/config/remote"
)

// failingRecordStore simulates an unreachable remote store.
type failingRecordStore struct{}

func (failingRecordStore) Query(context.Context, string) ([]remote.Record, error) {
	return nil, errors.New("connection refused")
}

func (failingRecordStore) Save(context.Context, remote.Record) error {
	return errors.New("connection refused")
}

func newResolver(records remote.RecordStore, cacheDir string) *config.Resolver {
	return config.New(
		config.WithBaseline(baseline.New()),
		config.WithCache(cache.New(cacheDir)),
		config.WithRemote(remote.New(records)),
	)
}

func settle(t *testing.T, r *config.Resolver) {
	t.Helper()
	r.Load(context.Background())
	select {
	case <-r.Reconciled():
	case <-time.After(5 * time.Second):
		t.Fatal("reconciliation did not settle")
	}
}

func TestPublishRoundTrip(t *testing.T) {
	records := remote.NewMemoryRecordStore()
	dir := t.TempDir()

	publisher := newResolver(records, dir)
	settle(t, publisher)

	override := config.Default()
	override.Buttons[config.ButtonSubmit] = "Round Trip"
	if err := publisher.Publish(context.Background(), override); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	publisher.Close()

	// A fresh resolver against the same store reconciles to the
	// published configuration.
	fresh := newResolver(records, t.TempDir())
	defer fresh.Close()
	settle(t, fresh)

	if !fresh.Current().Equal(override) {
		t.Error("fresh resolver did not converge on the published configuration")
	}
	if fresh.Source() != config.SourceRemote {
		t.Errorf("Source() = %v, want remote", fresh.Source())
	}
}

func TestCacheSurvivesRemoteOutage(t *testing.T) {
	records := remote.NewMemoryRecordStore()
	dir := t.TempDir()

	// First run: remote reachable, override adopted and cached.
	override := config.Default()
	override.Messages[config.MessageScanFailed] = "from a previous run"

	first := newResolver(records, dir)
	settle(t, first)
	if err := first.Publish(context.Background(), override); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	first.Close()

	// Second run: remote unreachable, the cached copy stands in.
	second := newResolver(failingRecordStore{}, dir)
	defer second.Close()
	settle(t, second)

	if got := second.ErrorMessage(config.MessageScanFailed); got != "from a previous run" {
		t.Errorf("ErrorMessage(scanFailed) = %q, want the cached value", got)
	}
	if second.Source() != config.SourceCache {
		t.Errorf("Source() = %v, want cache", second.Source())
	}
}

func TestRemoteAbsentNoCacheLeavesBaseline(t *testing.T) {
	r := newResolver(remote.NewMemoryRecordStore(), t.TempDir())
	defer r.Close()
	settle(t, r)

	if r.Source() != config.SourceBaseline {
		t.Errorf("Source() = %v, want baseline", r.Source())
	}
	if !r.Current().Equal(config.Default()) {
		t.Error("baseline configuration differs from the bundled defaults")
	}
}

func TestCacheWatchAdoptsSiblingWrite(t *testing.T) {
	dir := t.TempDir()
	store := cache.New(dir)

	r := config.New(
		config.WithBaseline(baseline.New()),
		config.WithCache(store),
		config.WithCacheWatch(store.Path(), 20*time.Millisecond),
	)
	defer r.Close()
	r.Load(context.Background())

	// A sibling process (e.g. the CLI after a publish) writes the cache.
	sibling := cache.New(dir)
	updated := config.Default()
	updated.Buttons[config.ButtonSubmit] = "From Sibling"
	if err := sibling.Write(updated); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if r.ButtonLabel(config.ButtonSubmit) == "From Sibling" {
			if r.Source() != config.SourceCache {
				t.Errorf("Source() = %v, want cache", r.Source())
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("cache update by sibling process not adopted")
}

func TestAccessorOverResolver(t *testing.T) {
	records := remote.NewMemoryRecordStore()

	r := newResolver(records, t.TempDir())
	defer r.Close()
	settle(t, r)

	accessor := config.NewAccessor(r)
	if !accessor.Validate(config.FieldFlightNumber, "LH2047") {
		t.Error("accessor rejected a valid flight number")
	}

	relaxed := config.Default()
	relaxed.Patterns[config.FieldFlightNumber] = `^.{1,10}$`
	if err := r.Publish(context.Background(), relaxed); err != nil {
		t.Fatal(err)
	}

	// The accessor reads the resolver's current configuration at call
	// time, so the published pattern applies immediately.
	if !accessor.Validate(config.FieldFlightNumber, "anything") {
		t.Error("accessor used a stale pattern after publish")
	}
}
