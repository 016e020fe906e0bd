package audit

// #region imports
import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"
)

// #endregion

// #region mem-store
// MemStore is an in-memory Store for tests. It keeps serialized documents
// rather than pointers, so callers get the same isolation the SQLite
// store provides.
type MemStore struct {
	mu      sync.Mutex
	records map[string][]byte
	inputs  map[string]StoredInputs
}

// NewMemStore returns an empty in-memory audit store.
func NewMemStore() *MemStore {
	return &MemStore{
		records: map[string][]byte{},
		inputs:  map[string]StoredInputs{},
	}
}

// #endregion mem-store

// #region mem-ops

// Record stores the record document and its replay inputs. Idempotent per
// audit id.
func (m *MemStore) Record(rec *recommend.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[rec.AuditLogID]; exists {
		return nil
	}
	m.records[rec.AuditLogID] = data
	m.inputs[rec.AuditLogID] = StoredInputs{
		Domain:    rec.Domain,
		RawInputs: rec.RawInputs,
		IssuedAt:  rec.IssuedAt,
	}
	return nil
}

// Fetch returns a fresh copy of the stored record.
func (m *MemStore) Fetch(id string) (*recommend.Record, error) {
	m.mu.Lock()
	data, ok := m.records[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	var rec recommend.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record %s: %w", id, err)
	}
	return &rec, nil
}

// FetchInputs returns the replay companion document.
func (m *MemStore) FetchInputs(id string) (StoredInputs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	si, ok := m.inputs[id]
	if !ok {
		return StoredInputs{}, ErrNotFound
	}
	return si, nil
}

// ListAll returns copies of every stored record.
func (m *MemStore) ListAll() ([]*recommend.Record, error) {
	m.mu.Lock()
	docs := make([][]byte, 0, len(m.records))
	for _, data := range m.records {
		docs = append(docs, data)
	}
	m.mu.Unlock()

	recs := make([]*recommend.Record, 0, len(docs))
	for _, data := range docs {
		var rec recommend.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		recs = append(recs, &rec)
	}
	return recs, nil
}

// UpdateConfirmation stamps confirmed_at, preserving an existing value.
func (m *MemStore) UpdateConfirmation(id string, ts time.Time) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.records[id]
	if !ok {
		return time.Time{}, ErrNotFound
	}

	var rec recommend.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return time.Time{}, fmt.Errorf("unmarshal record %s: %w", id, err)
	}
	if rec.ConfirmedAt != nil {
		return *rec.ConfirmedAt, nil
	}

	rec.ConfirmedAt = &ts
	updated, err := json.Marshal(&rec)
	if err != nil {
		return time.Time{}, fmt.Errorf("marshal record: %w", err)
	}
	m.records[id] = updated
	return ts, nil
}

// #endregion mem-ops
