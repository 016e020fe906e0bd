package thresholds

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	cat := Default()

	if cat.Irrigation.CriticalAWC != 65 || cat.Irrigation.EmergencyAWC != 40 {
		t.Fatalf("irrigation boundaries: %+v", cat.Irrigation)
	}
	if cat.Irrigation.SoonAWC != 75 || cat.Irrigation.WeatherDelayPrecip != 5.0 {
		t.Fatalf("irrigation boundaries: %+v", cat.Irrigation)
	}
	if cat.Planting.MinSoilTemp != 7 || cat.Planting.MaxSoilTemp != 15 {
		t.Fatalf("planting window: %+v", cat.Planting)
	}
	if cat.PestWeed.PestCountThreshold != 10 || cat.PestWeed.EmergencyPestCount != 50 {
		t.Fatalf("pest boundaries: %+v", cat.PestWeed)
	}
	if cat.Harvest.MinSoilTemp != 10 || cat.Harvest.MaxSoilTemp != 18 {
		t.Fatalf("harvest window: %+v", cat.Harvest)
	}
	if cat.Warehousing.MaxTemp != 8 {
		t.Fatalf("warehousing ceiling: %+v", cat.Warehousing)
	}
}

func TestNutrientTargetFallback(t *testing.T) {
	n := Default().Nutrient
	cases := map[string]float64{
		"SPROUT_DEVELOPMENT": 50,
		"VEGETATIVE":         100,
		"TUBER_INITIATION":   150,
		"TUBER_BULKING":      120,
		"MATURITY":           50,
		"DORMANT":            100, // unknown stage falls back to default
		"":                   100,
	}
	for stage, want := range cases {
		if got := n.Target(stage); got != want {
			t.Fatalf("target(%q): want %v, got %v", stage, want, got)
		}
	}
}

func TestGrowthStagesHaveTargets(t *testing.T) {
	n := Default().Nutrient
	for _, stage := range GrowthStages {
		if _, ok := n.NitrogenTargets[stage]; !ok {
			t.Fatalf("growth stage %s has no nitrogen target", stage)
		}
	}
}

func TestLoadOverlayKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	overlay := `
irrigation:
  critical_awc: 55
pest_weed:
  emergency_pest_count: 75
`
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatalf("write overlay: %v", err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cat.Irrigation.CriticalAWC != 55 {
		t.Fatalf("overridden critical_awc: want 55, got %v", cat.Irrigation.CriticalAWC)
	}
	if cat.PestWeed.EmergencyPestCount != 75 {
		t.Fatalf("overridden emergency_pest_count: want 75, got %v", cat.PestWeed.EmergencyPestCount)
	}
	// Everything the overlay did not touch keeps its default.
	if cat.Irrigation.EmergencyAWC != 40 {
		t.Fatalf("emergency_awc must keep its default, got %v", cat.Irrigation.EmergencyAWC)
	}
	if cat.Planting.MinSoilTemp != 7 || cat.Logistics.OrdersNow != 10 {
		t.Fatal("untouched domains must keep their defaults")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file must be an error, not silent defaults")
	}
}
