// Package replay verifies the audit trail: any stored recommendation can
// be reproduced by running its recorded inputs back through the engines.
package replay

// #region imports
import (
	"fmt"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/audit"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/engine"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"
)

// #endregion

// #region types
// Result pairs a stored record with its replayed counterpart. Match
// compares base verdicts only: timestamps and audit ids necessarily
// differ between the two.
type Result struct {
	Original      *recommend.Record `json:"original"`
	Reconstructed *recommend.Record `json:"reconstructed"`
	Match         bool              `json:"match"`
}

// Reconstructor replays stored inputs through the engine registry.
// Replayed records are never persisted; replays must not grow the audit
// trail they are verifying.
type Reconstructor struct {
	store    audit.Store
	registry *engine.Registry
}

// NewReconstructor wires a reconstructor against a store and registry.
func NewReconstructor(store audit.Store, registry *engine.Registry) *Reconstructor {
	return &Reconstructor{store: store, registry: registry}
}

// #endregion types

// #region reconstruct
// Reconstruct replays the stored inputs for an audit id and checks that
// the engine reaches the same verdict. Because engines are pure functions
// of (inputs, catalog), a mismatch signals non-determinism or a threshold
// catalog change and should be treated as a correctness alarm.
func (r *Reconstructor) Reconstruct(id string) (Result, error) {
	original, err := r.store.Fetch(id)
	if err != nil {
		return Result{}, fmt.Errorf("reconstruct %s: %w", id, err)
	}

	stored, err := r.store.FetchInputs(id)
	if err != nil {
		return Result{}, fmt.Errorf("reconstruct %s: %w", id, err)
	}

	eng, ok := r.registry.Get(stored.Domain)
	if !ok {
		return Result{}, fmt.Errorf("reconstruct %s: unknown domain %q", id, stored.Domain)
	}

	reconstructed := eng.Generate(engine.Inputs(stored.RawInputs))
	return Result{
		Original:      original,
		Reconstructed: reconstructed,
		Match:         reconstructed.Base == original.Base,
	}, nil
}

// #endregion reconstruct
