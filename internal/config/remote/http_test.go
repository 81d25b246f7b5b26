package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/seatwise/flightconfig/internal/config"
)

func devStore(t *testing.T) (*HTTPRecordStore, *MemoryRecordStore) {
	t.Helper()
	backing := NewMemoryRecordStore()
	srv := httptest.NewServer(NewDevServer(backing).Handler())
	t.Cleanup(srv.Close)
	return NewHTTPRecordStore(srv.URL), backing
}

func TestHTTPRecordStore_RoundTrip(t *testing.T) {
	client, _ := devStore(t)

	modified := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
	rec := Record{
		ID:         "rec-1",
		Type:       RecordType,
		ModifiedAt: modified,
		Payload:    payload(t, "Over HTTP"),
	}

	if err := client.Save(context.Background(), rec); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	records, err := client.Query(context.Background(), RecordType)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Query() returned %d records, want 1", len(records))
	}

	got := records[0]
	if got.ID != "rec-1" {
		t.Errorf("record ID = %q, want rec-1", got.ID)
	}
	if !got.ModifiedAt.Equal(modified) {
		t.Errorf("record ModifiedAt = %v, want %v", got.ModifiedAt, modified)
	}

	cfg, derr := config.DecodeJSON(got.Payload)
	if derr != nil {
		t.Fatalf("payload does not decode: %v", derr)
	}
	if cfg.ButtonLabel(config.ButtonSubmit) != "Over HTTP" {
		t.Error("payload content lost in transit")
	}
}

func TestHTTPRecordStore_FetchThroughSource(t *testing.T) {
	client, _ := devStore(t)
	src := New(client)

	cfg := config.Default()
	cfg.Buttons[config.ButtonSubmit] = "Via Source"
	if err := src.Publish(context.Background(), cfg); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	fetched, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if !fetched.Equal(cfg) {
		t.Error("fetched configuration differs from published one")
	}
}

func TestHTTPRecordStore_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewHTTPRecordStore(srv.URL, WithTimeout(30*time.Millisecond))

	_, err := client.Query(context.Background(), RecordType)
	if !errors.Is(err, config.ErrTransient) {
		t.Errorf("Query() error = %v, want transient", err)
	}
}

func TestHTTPRecordStore_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPRecordStore(srv.URL)

	_, err := client.Query(context.Background(), RecordType)
	if !errors.Is(err, config.ErrTransient) {
		t.Errorf("Query() error = %v, want transient", err)
	}
}

func TestHTTPRecordStore_NotFoundIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewHTTPRecordStore(srv.URL)

	records, err := client.Query(context.Background(), RecordType)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Query() = %d records, want 0", len(records))
	}
}

func TestHTTPRecordStore_MalformedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("definitely not json"))
	}))
	defer srv.Close()

	client := NewHTTPRecordStore(srv.URL)

	_, err := client.Query(context.Background(), RecordType)
	if !errors.Is(err, config.ErrDecode) {
		t.Errorf("Query() error = %v, want decode-class", err)
	}

	// Through the source, a malformed store response reads as Absent so
	// the resolver falls through to the cache instead of treating it as
	// a retryable outage.
	_, err = New(client).Fetch(context.Background())
	if !errors.Is(err, config.ErrAbsent) {
		t.Errorf("Fetch() error = %v, want ErrAbsent", err)
	}
}

func TestDevServer_RejectsInvalidBody(t *testing.T) {
	srv := httptest.NewServer(NewDevServer(NewMemoryRecordStore()).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/records/"+RecordType, "application/json", strings.NewReader("{broken"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDevServer_AssignsRecordID(t *testing.T) {
	backing := NewMemoryRecordStore()
	srv := httptest.NewServer(NewDevServer(backing).Handler())
	defer srv.Close()

	body := `{"payload":{"x":1}}`
	resp, err := http.Post(srv.URL+"/records/"+RecordType, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	records, err := backing.Query(context.Background(), RecordType)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].ID == "" {
		t.Errorf("stored records = %+v, want one with a generated ID", records)
	}
}
