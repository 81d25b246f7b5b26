package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/seatwise/flightconfig/internal/config"
)

// defaultTimeout bounds every remote call so reconciliation always
// terminates and the fallback path stays reachable.
const defaultTimeout = 10 * time.Second

// HTTPRecordStore talks to a record server over a JSON envelope:
//
//	GET  {base}/records/{type}  -> {"records":[{"id","modifiedAt","payload"},...]}
//	POST {base}/records/{type}  <- {"id","modifiedAt","payload"}
//
// Network errors, timeouts, and unexpected statuses are transient; a
// garbled envelope is a decode-class failure.
type HTTPRecordStore struct {
	base   string
	client *http.Client
}

// HTTPOption configures an HTTPRecordStore.
type HTTPOption func(*HTTPRecordStore)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPRecordStore) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client entirely.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPRecordStore) {
		if c != nil {
			s.client = c
		}
	}
}

// NewHTTPRecordStore creates a store client for the given base URL.
func NewHTTPRecordStore(baseURL string, opts ...HTTPOption) *HTTPRecordStore {
	s := &HTTPRecordStore{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Query implements RecordStore.
func (s *HTTPRecordStore) Query(ctx context.Context, recordType string) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.recordsURL(recordType), nil)
	if err != nil {
		return nil, &config.TransientError{Op: "query", Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &config.TransientError{Op: "query", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &config.TransientError{Op: "query", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &config.TransientError{Op: "query", Err: err}
	}

	return decodeEnvelope(body)
}

// Save implements RecordStore.
func (s *HTTPRecordStore) Save(ctx context.Context, rec Record) error {
	body, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.recordsURL(rec.Type), bytes.NewReader(body))
	if err != nil {
		return &config.TransientError{Op: "save", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &config.TransientError{Op: "save", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return &config.TransientError{Op: "save", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return nil
}

func (s *HTTPRecordStore) recordsURL(recordType string) string {
	return s.base + "/records/" + url.PathEscape(recordType)
}

// decodeEnvelope parses the query response envelope into records.
func decodeEnvelope(body []byte) ([]Record, error) {
	if !gjson.ValidBytes(body) {
		return nil, &config.DecodeError{Format: "envelope", Err: fmt.Errorf("response is not valid JSON")}
	}

	list := gjson.GetBytes(body, "records")
	if !list.Exists() || !list.IsArray() {
		return nil, &config.DecodeError{Format: "envelope", Err: fmt.Errorf("missing records array")}
	}

	var records []Record
	for _, item := range list.Array() {
		rec := Record{
			ID:   item.Get("id").String(),
			Type: RecordType,
		}
		if mod := item.Get("modifiedAt"); mod.Exists() {
			if t, err := time.Parse(time.RFC3339, mod.String()); err == nil {
				rec.ModifiedAt = t
			}
		}
		// The payload is carried inline; keep its raw JSON for the codec.
		if payload := item.Get("payload"); payload.Exists() {
			rec.Payload = []byte(payload.Raw)
		}
		records = append(records, rec)
	}
	return records, nil
}

// encodeRecord builds the JSON body for a save request.
func encodeRecord(rec Record) ([]byte, error) {
	body := []byte(`{}`)

	body, err := sjson.SetBytes(body, "id", rec.ID)
	if err != nil {
		return nil, &config.DecodeError{Format: "envelope", Err: err}
	}
	body, err = sjson.SetBytes(body, "modifiedAt", rec.ModifiedAt.Format(time.RFC3339))
	if err != nil {
		return nil, &config.DecodeError{Format: "envelope", Err: err}
	}
	body, err = sjson.SetRawBytes(body, "payload", rec.Payload)
	if err != nil {
		return nil, &config.DecodeError{Format: "envelope", Err: err}
	}
	return body, nil
}
