package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/audit"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/engine"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/ingest"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/thresholds"
)

func newTestPlatform(t *testing.T, source EnvironmentalSource) (*Platform, *audit.MemStore) {
	t.Helper()
	store := audit.NewMemStore()
	registry := engine.NewRegistry(thresholds.Default())
	return New(registry, store, source, nil), store
}

func TestGetRecommendationUnknownDomain(t *testing.T) {
	p, _ := newTestPlatform(t, nil)
	_, err := p.GetRecommendation("weather", engine.Inputs{})
	if !errors.Is(err, ErrUnknownDomain) {
		t.Fatalf("want ErrUnknownDomain, got %v", err)
	}
}

func TestGetRecommendationPersistsBeforeServing(t *testing.T) {
	p, store := newTestPlatform(t, nil)
	view, err := p.GetRecommendation("irrigation", engine.Inputs{"awc": 20.0})
	if err != nil {
		t.Fatalf("get recommendation: %v", err)
	}
	if view.Record == nil {
		t.Fatal("fresh record should be served in full")
	}
	if view.Record.Base != recommend.Now {
		t.Fatalf("awc 20 should recommend NOW, got %s", view.Record.Base)
	}

	stored, err := store.Fetch(view.Record.AuditLogID)
	if err != nil {
		t.Fatalf("served record must be in the audit store: %v", err)
	}
	if stored.Base != view.Record.Base {
		t.Fatalf("stored verdict %s differs from served %s", stored.Base, view.Record.Base)
	}
}

func TestConfirmEmergency(t *testing.T) {
	p, _ := newTestPlatform(t, nil)

	// An emergency verdict requires confirmation.
	view, err := p.GetRecommendation("irrigation", engine.Inputs{"awc": 20.0})
	if err != nil {
		t.Fatalf("get recommendation: %v", err)
	}
	if !view.Record.RequiresConfirmation {
		t.Fatal("emergency record must require confirmation")
	}

	res, err := p.ConfirmEmergency(view.Record.AuditLogID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if res.Status != "CONFIRMED" || res.ConfirmedAt == nil {
		t.Fatalf("want CONFIRMED with timestamp, got %+v", res)
	}

	// Repeats are idempotent and keep the first timestamp.
	first := *res.ConfirmedAt
	time.Sleep(5 * time.Millisecond)
	again, err := p.ConfirmEmergency(view.Record.AuditLogID)
	if err != nil {
		t.Fatalf("repeat confirm: %v", err)
	}
	if again.Status != "CONFIRMED" || !again.ConfirmedAt.Equal(first) {
		t.Fatalf("repeat confirmation changed the timestamp: %v vs %v", again.ConfirmedAt, first)
	}
}

func TestConfirmEmergencyNoOverlay(t *testing.T) {
	p, _ := newTestPlatform(t, nil)
	view, err := p.GetRecommendation("irrigation", engine.Inputs{"awc": 90.0})
	if err != nil {
		t.Fatalf("get recommendation: %v", err)
	}
	res, err := p.ConfirmEmergency(view.Record.AuditLogID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if res.Status != "NO_EMERGENCY" {
		t.Fatalf("want NO_EMERGENCY, got %s", res.Status)
	}
	if res.ConfirmedAt != nil {
		t.Fatal("NO_EMERGENCY must not stamp a confirmation time")
	}
}

func TestConfirmEmergencyUnknownID(t *testing.T) {
	p, _ := newTestPlatform(t, nil)
	if _, err := p.ConfirmEmergency("missing"); !errors.Is(err, audit.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetAllRecommendationsCoversEveryDomain(t *testing.T) {
	p, store := newTestPlatform(t, nil)
	results := p.GetAllRecommendations(map[string]engine.Inputs{
		"irrigation": {"awc": 50.0},
	})
	if len(results) != len(engine.Domains) {
		t.Fatalf("expected %d entries, got %d", len(engine.Domains), len(results))
	}
	for _, domain := range engine.Domains {
		entry, ok := results[domain]
		if !ok {
			t.Fatalf("domain %s missing from batch", domain)
		}
		if entry.Err != nil {
			t.Fatalf("domain %s failed: %v", domain, entry.Err)
		}
		if entry.View.Record == nil {
			t.Fatalf("domain %s served no record", domain)
		}
	}

	all, err := store.ListAll()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != len(engine.Domains) {
		t.Fatalf("batch must persist every verdict, stored %d", len(all))
	}
}

// failingStore rejects writes for one domain so batch isolation can be
// observed.
type failingStore struct {
	*audit.MemStore
	failDomain string
}

func (f *failingStore) Record(rec *recommend.Record) error {
	if strings.EqualFold(rec.Domain, f.failDomain) {
		return fmt.Errorf("disk full")
	}
	return f.MemStore.Record(rec)
}

func TestBatchIsolatesFailures(t *testing.T) {
	store := &failingStore{MemStore: audit.NewMemStore(), failDomain: "harvest"}
	registry := engine.NewRegistry(thresholds.Default())
	p := New(registry, store, nil, nil)

	results := p.GetAllRecommendations(nil)
	if results["harvest"].Err == nil {
		t.Fatal("harvest write failure must surface in its entry")
	}
	for _, domain := range engine.Domains {
		if domain == "harvest" {
			continue
		}
		if results[domain].Err != nil {
			t.Fatalf("domain %s must not be suppressed by harvest failure: %v",
				domain, results[domain].Err)
		}
	}
}

// stubSource serves a canned snapshot or a canned error.
type stubSource struct {
	snap ingest.Snapshot
	err  error
}

func (s stubSource) FetchSnapshot(ctx context.Context, lat, lon float64) (ingest.Snapshot, error) {
	return s.snap, s.err
}

func TestExternalDataPath(t *testing.T) {
	snap := ingest.Snapshot{}
	snap.Current.SoilMoisture = 0.08 // awc 20
	snap.Hourly.SoilMoisture = []float64{0.12}
	snap.Hourly.Precip = []float64{0, 0, 0, 0, 0, 0, 9}

	p, store := newTestPlatform(t, stubSource{snap: snap})
	view, err := p.GetRecommendationWithExternalData(context.Background(), "irrigation", 45.0, -122.0, nil)
	if err != nil {
		t.Fatalf("external data path: %v", err)
	}
	if view.Record.Base != recommend.Now {
		t.Fatalf("mapped awc 20 should recommend NOW, got %s", view.Record.Base)
	}
	if view.Record.RawInputs["awc"] != 20.0 {
		t.Fatalf("mapped awc: want 20, got %v", view.Record.RawInputs["awc"])
	}
	if _, err := store.Fetch(view.Record.AuditLogID); err != nil {
		t.Fatalf("external-data verdict must be persisted: %v", err)
	}
}

func TestExternalDataOverridesWin(t *testing.T) {
	snap := ingest.Snapshot{}
	snap.Current.SoilMoisture = 0.08
	snap.Hourly.SoilMoisture = []float64{0.12}

	p, _ := newTestPlatform(t, stubSource{snap: snap})
	view, err := p.GetRecommendationWithExternalData(context.Background(), "irrigation", 45.0, -122.0,
		map[string]any{"awc": 90.0})
	if err != nil {
		t.Fatalf("external data path: %v", err)
	}
	if view.Record.Base != recommend.Wait {
		t.Fatalf("manual awc 90 must win over measured 20, got %s", view.Record.Base)
	}
}

func TestExternalDataFetchFailure(t *testing.T) {
	p, _ := newTestPlatform(t, stubSource{err: errors.New("connection refused")})
	_, err := p.GetRecommendationWithExternalData(context.Background(), "irrigation", 45.0, -122.0, nil)
	if !errors.Is(err, ErrIngestion) {
		t.Fatalf("want ErrIngestion, got %v", err)
	}
}

func TestExternalDataUnknownDomainBeforeFetch(t *testing.T) {
	// The domain check must come first: a bad domain never hits the wire.
	p, _ := newTestPlatform(t, stubSource{err: errors.New("must not be called")})
	_, err := p.GetRecommendationWithExternalData(context.Background(), "weather", 45.0, -122.0, nil)
	if !errors.Is(err, ErrUnknownDomain) {
		t.Fatalf("want ErrUnknownDomain, got %v", err)
	}
}

func TestAggregateKPIs(t *testing.T) {
	p, _ := newTestPlatform(t, nil)
	for _, awc := range []float64{50.0, 30.0, 10.0} {
		if _, err := p.GetRecommendation("irrigation", engine.Inputs{"awc": awc}); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}
	// A record from another domain must not pollute the filter.
	if _, err := p.GetRecommendation("logistics", engine.Inputs{"orders_pending": 20.0}); err != nil {
		t.Fatalf("seed logistics: %v", err)
	}

	kpis, err := p.AggregateKPIs("irrigation")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if kpis["water_efficiency"] != 30.0 {
		t.Fatalf("water_efficiency: want 30, got %v", kpis["water_efficiency"])
	}
	if _, ok := kpis["dispatch_efficiency"]; ok {
		t.Fatal("logistics KPI leaked into irrigation aggregate")
	}

	all, err := p.AggregateKPIs("")
	if err != nil {
		t.Fatalf("aggregate all: %v", err)
	}
	if _, ok := all["dispatch_efficiency"]; !ok {
		t.Fatal("unfiltered aggregate must include every domain")
	}
}

func TestViewExpiredMarshal(t *testing.T) {
	data, err := json.Marshal(View{Expired: true, AuditLogID: "abc-123"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc["status"] != "EXPIRED" || doc["audit_log_id"] != "abc-123" {
		t.Fatalf("unexpected expired stub: %s", data)
	}
	if _, ok := doc["base_recommendation"]; ok {
		t.Fatal("expired stub must not carry the record body")
	}
}
