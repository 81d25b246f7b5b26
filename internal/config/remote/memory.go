package remote

import (
	"context"
	"sync"
)

// MemoryRecordStore is an in-process RecordStore for tests and the dev
// server.
type MemoryRecordStore struct {
	mu      sync.Mutex
	records []Record
}

// NewMemoryRecordStore creates an empty store.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{}
}

// Query implements RecordStore.
func (m *MemoryRecordStore) Query(_ context.Context, recordType string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Record
	for _, rec := range m.records {
		if rec.Type == recordType {
			out = append(out, cloneRecord(rec))
		}
	}
	return out, nil
}

// Save implements RecordStore.
func (m *MemoryRecordStore) Save(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, cloneRecord(rec))
	return nil
}

// Len returns the number of stored records.
func (m *MemoryRecordStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func cloneRecord(rec Record) Record {
	out := rec
	out.Payload = append([]byte(nil), rec.Payload...)
	return out
}
