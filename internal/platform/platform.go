// Package platform is the orchestrator: it routes domain requests to the
// right engine, persists every verdict to the audit store, filters
// expired records from operator view, and aggregates KPIs across the
// stored history.
package platform

// #region imports
import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/audit"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/engine"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/ingest"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/replay"
)

// #endregion

// #region errors
// ErrUnknownDomain rejects a request before any engine runs.
var ErrUnknownDomain = errors.New("unknown domain")

// ErrIngestion marks an external data fetch that failed or timed out.
// Propagated, never silently defaulted.
var ErrIngestion = errors.New("ingestion failure")

// #endregion errors

// #region views

// View is what an operator sees for one recommendation: either the full
// record or, for an already-expired record, only its status and audit id.
type View struct {
	Record *recommend.Record
	// Expired is set instead of Record when the record fell outside its
	// validity window before it could be served.
	Expired bool
	// AuditLogID accompanies the expired form.
	AuditLogID string
}

// MarshalJSON emits the full record document, or the expired stub.
func (v View) MarshalJSON() ([]byte, error) {
	if v.Record != nil {
		return json.Marshal(v.Record)
	}
	return json.Marshal(struct {
		Status     string `json:"status"`
		AuditLogID string `json:"audit_log_id"`
	}{"EXPIRED", v.AuditLogID})
}

// ConfirmResult reports the outcome of an emergency confirmation.
type ConfirmResult struct {
	Status      string     `json:"status"` // "CONFIRMED" | "NO_EMERGENCY"
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	AuditLogID  string     `json:"audit_log_id"`
}

// BatchEntry is one domain's outcome in a batch call. Either View or Err
// is set; a failing domain never suppresses the others.
type BatchEntry struct {
	View View
	Err  error
}

// MarshalJSON emits the view, or an error payload with a timestamp.
func (b BatchEntry) MarshalJSON() ([]byte, error) {
	if b.Err != nil {
		return json.Marshal(struct {
			Error     string    `json:"error"`
			Timestamp time.Time `json:"timestamp"`
		}{b.Err.Error(), time.Now().UTC()})
	}
	return json.Marshal(b.View)
}

// #endregion views

// #region platform-struct

// EnvironmentalSource fetches measured conditions for a location. The
// call blocks on the network and must honor the context deadline.
type EnvironmentalSource interface {
	FetchSnapshot(ctx context.Context, lat, lon float64) (ingest.Snapshot, error)
}

// Platform wires the engine registry, audit store, reconstructor, and
// ingestion source together.
type Platform struct {
	registry *engine.Registry
	store    audit.Store
	recon    *replay.Reconstructor
	source   EnvironmentalSource
	log      *zap.Logger
}

// New builds a platform. source may be nil when no external data
// ingestion is configured; logger may be nil for a silent platform.
func New(registry *engine.Registry, store audit.Store, source EnvironmentalSource, logger *zap.Logger) *Platform {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Platform{
		registry: registry,
		store:    store,
		recon:    replay.NewReconstructor(store, registry),
		source:   source,
		log:      logger,
	}
}

// #endregion platform-struct

// #region get-recommendation

// GetRecommendation validates the domain, runs its engine, persists the
// result, and returns the operator view. Unknown domains fail with
// ErrUnknownDomain before any engine runs.
func (p *Platform) GetRecommendation(domain string, inputs engine.Inputs) (View, error) {
	eng, ok := p.registry.Get(domain)
	if !ok {
		return View{}, fmt.Errorf("%w: %s", ErrUnknownDomain, domain)
	}

	rec := eng.Generate(inputs)
	if err := p.store.Record(rec); err != nil {
		return View{}, fmt.Errorf("persist recommendation: %w", err)
	}

	p.log.Info("recommendation issued",
		zap.String("domain", rec.Domain),
		zap.String("base", string(rec.Base)),
		zap.String("urgency", string(rec.Urgency())),
		zap.String("audit_log_id", rec.AuditLogID),
	)

	// Defensive: a freshly minted record should always be inside its
	// validity window, but an expired one must never reach an operator.
	if !rec.IsValid() {
		return View{Expired: true, AuditLogID: rec.AuditLogID}, nil
	}
	return View{Record: rec}, nil
}

// GetRecommendationWithExternalData fetches measured conditions for the
// location, maps them into engine inputs, merges manual overrides on top
// (manual wins on key collision), and delegates to GetRecommendation.
func (p *Platform) GetRecommendationWithExternalData(ctx context.Context, domain string, lat, lon float64, overrides map[string]any) (View, error) {
	if _, ok := p.registry.Get(domain); !ok {
		return View{}, fmt.Errorf("%w: %s", ErrUnknownDomain, domain)
	}
	if p.source == nil {
		return View{}, errors.New("no environmental source configured")
	}

	snap, err := p.source.FetchSnapshot(ctx, lat, lon)
	if err != nil {
		return View{}, fmt.Errorf("%w: %v", ErrIngestion, err)
	}

	inputs := ingest.MapInputs(snap)
	for k, v := range overrides {
		inputs[k] = v
	}
	return p.GetRecommendation(domain, inputs)
}

// #endregion get-recommendation

// #region confirm-emergency

// ConfirmEmergency records explicit human sign-off on an EMERGENCY
// recommendation. Records without the overlay come back NO_EMERGENCY
// untouched; repeat confirmations are idempotent and keep the first
// confirmation time.
func (p *Platform) ConfirmEmergency(id string) (ConfirmResult, error) {
	rec, err := p.store.Fetch(id)
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("confirm %s: %w", id, err)
	}

	if !rec.HasOverlay(recommend.Emergency) {
		return ConfirmResult{Status: "NO_EMERGENCY", AuditLogID: id}, nil
	}

	ts, err := p.store.UpdateConfirmation(id, time.Now().UTC())
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("confirm %s: %w", id, err)
	}

	p.log.Info("emergency confirmed",
		zap.String("audit_log_id", id),
		zap.Time("confirmed_at", ts),
	)
	return ConfirmResult{Status: "CONFIRMED", ConfirmedAt: &ts, AuditLogID: id}, nil
}

// #endregion confirm-emergency

// #region batch

// GetAllRecommendations fans out across all eleven domains, one call
// each. Domains missing from the input map run on empty inputs. Failures
// are isolated per domain.
func (p *Platform) GetAllRecommendations(perDomain map[string]engine.Inputs) map[string]BatchEntry {
	results := make(map[string]BatchEntry, len(engine.Domains))
	for _, domain := range engine.Domains {
		inputs := perDomain[domain]
		if inputs == nil {
			inputs = engine.Inputs{}
		}
		view, err := p.GetRecommendation(domain, inputs)
		if err != nil {
			p.log.Warn("batch domain failed", zap.String("domain", domain), zap.Error(err))
			results[domain] = BatchEntry{Err: err}
			continue
		}
		results[domain] = BatchEntry{View: view}
	}
	return results
}

// #endregion batch

// #region reconstruct

// Reconstruct replays a stored recommendation and verifies the verdict.
func (p *Platform) Reconstruct(id string) (replay.Result, error) {
	return p.recon.Reconstruct(id)
}

// #endregion reconstruct

// #region aggregate-kpis

// AggregateKPIs averages each numeric KPI name across all stored records,
// optionally filtered to one domain (case-insensitive), rounded to two
// decimal places. Categorical KPI values and records without a domain are
// skipped.
func (p *Platform) AggregateKPIs(domain string) (map[string]float64, error) {
	recs, err := p.store.ListAll()
	if err != nil {
		return nil, fmt.Errorf("aggregate kpis: %w", err)
	}

	sums := map[string]float64{}
	counts := map[string]int{}
	for _, rec := range recs {
		if rec.Domain == "" {
			continue
		}
		if domain != "" && !strings.EqualFold(rec.Domain, domain) {
			continue
		}
		for name, value := range rec.KPIs {
			num, ok := kpiNumber(value)
			if !ok {
				continue
			}
			sums[name] += num
			counts[name]++
		}
	}

	aggregated := make(map[string]float64, len(sums))
	for name, sum := range sums {
		aggregated[name] = math.Round(sum/float64(counts[name])*100) / 100
	}
	return aggregated, nil
}

// kpiNumber extracts a numeric KPI value; categorical statuses are not
// aggregatable.
func kpiNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// #endregion aggregate-kpis
