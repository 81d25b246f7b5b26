package remote

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DevServer serves a RecordStore over the HTTP envelope that
// HTTPRecordStore speaks. It backs authoring and demo workflows; the
// production record store is an external system.
type DevServer struct {
	store RecordStore
	log   *slog.Logger
}

// DevServerOption configures a DevServer.
type DevServerOption func(*DevServer)

// WithDevLogger sets the logger. Defaults to a discarding logger.
func WithDevLogger(log *slog.Logger) DevServerOption {
	return func(s *DevServer) {
		if log != nil {
			s.log = log
		}
	}
}

// NewDevServer creates a server over the given store.
func NewDevServer(store RecordStore, opts ...DevServerOption) *DevServer {
	s := &DevServer{
		store: store,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler for the record endpoints.
func (s *DevServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/records/{type}", s.handleQuery)
	r.Post("/records/{type}", s.handleSave)
	return r
}

func (s *DevServer) handleQuery(w http.ResponseWriter, req *http.Request) {
	recordType := chi.URLParam(req, "type")

	records, err := s.store.Query(req.Context(), recordType)
	if err != nil {
		s.log.Warn("record query failed", "type", recordType, "error", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}

	body := []byte(`{"records":[]}`)
	for i, rec := range records {
		prefix := "records." + strconv.Itoa(i)
		body, _ = sjson.SetBytes(body, prefix+".id", rec.ID)
		body, _ = sjson.SetBytes(body, prefix+".modifiedAt", rec.ModifiedAt.Format(time.RFC3339))
		payload := rec.Payload
		if len(payload) == 0 {
			payload = []byte(`null`)
		}
		body, _ = sjson.SetRawBytes(body, prefix+".payload", payload)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (s *DevServer) handleSave(w http.ResponseWriter, req *http.Request) {
	recordType := chi.URLParam(req, "type")

	body, err := io.ReadAll(req.Body)
	if err != nil || !gjson.ValidBytes(body) {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	rec := Record{
		ID:         gjson.GetBytes(body, "id").String(),
		Type:       recordType,
		ModifiedAt: time.Now().UTC(),
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if mod := gjson.GetBytes(body, "modifiedAt"); mod.Exists() {
		if t, perr := time.Parse(time.RFC3339, mod.String()); perr == nil {
			rec.ModifiedAt = t
		}
	}
	if payload := gjson.GetBytes(body, "payload"); payload.Exists() {
		rec.Payload = []byte(payload.Raw)
	}

	if err := s.store.Save(req.Context(), rec); err != nil {
		s.log.Warn("record save failed", "type", recordType, "error", err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}

	s.log.Info("record created", "type", recordType, "id", rec.ID)
	w.WriteHeader(http.StatusCreated)
}
