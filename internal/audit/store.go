// Package audit persists every recommendation together with the raw
// inputs that produced it, keyed by audit log id, so any past verdict can
// be replayed and verified.
package audit

// #region imports
import (
	"errors"
	"time"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"
)

// #endregion

// #region errors
// ErrNotFound is returned when an audit id has no stored record or inputs.
var ErrNotFound = errors.New("audit id not found")

// #endregion errors

// #region stored-inputs
// StoredInputs is the replay companion document: the domain, the exact
// input mapping, and when the original verdict was issued.
type StoredInputs struct {
	Domain    string         `json:"domain"`
	RawInputs map[string]any `json:"raw_inputs"`
	IssuedAt  time.Time      `json:"issued_at"`
}

// #endregion stored-inputs

// #region store-interface
// Store is the durable audit log. Record is idempotent per audit id; all
// reads go to the store, never a cache.
type Store interface {
	// Record persists the record and its replay inputs. A second call
	// with the same audit id is a no-op.
	Record(rec *recommend.Record) error

	// Fetch returns the stored record, or ErrNotFound.
	Fetch(id string) (*recommend.Record, error)

	// FetchInputs returns the replay companion document, or ErrNotFound.
	FetchInputs(id string) (StoredInputs, error)

	// ListAll returns every stored record, in no particular order.
	ListAll() ([]*recommend.Record, error)

	// UpdateConfirmation stamps confirmed_at on a stored record as one
	// atomic replace. An already-set confirmation time is preserved; the
	// effective stored time is returned either way.
	UpdateConfirmation(id string, ts time.Time) (time.Time, error)
}

// #endregion store-interface
