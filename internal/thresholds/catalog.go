package thresholds

// #region imports
import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #endregion

// #region growth-stages
// GrowthStages lists the potato growth stages in order.
var GrowthStages = []string{
	"SPROUT_DEVELOPMENT",
	"VEGETATIVE",
	"TUBER_INITIATION",
	"TUBER_BULKING",
	"MATURITY",
}

// #endregion growth-stages

// #region catalog

// Irrigation holds available-water-content boundaries in percent and the
// precipitation forecast (mm) above which field work waits for weather.
type Irrigation struct {
	CriticalAWC        float64 `yaml:"critical_awc"`
	EmergencyAWC       float64 `yaml:"emergency_awc"`
	SoonAWC            float64 `yaml:"soon_awc"`
	WeatherDelayPrecip float64 `yaml:"weather_delay_precip"`
}

// Planting holds the soil temperature window in Celsius.
type Planting struct {
	MinSoilTemp     float64 `yaml:"min_soil_temp"`
	MaxSoilTemp     float64 `yaml:"max_soil_temp"`
	OptimalSoilTemp float64 `yaml:"optimal_soil_temp"`
}

// Nutrient holds nitrogen targets keyed by growth stage.
type Nutrient struct {
	NitrogenTargets map[string]float64 `yaml:"nitrogen_targets"`
	DefaultTarget   float64            `yaml:"default_target"`
}

// Target returns the nitrogen target for a growth stage, falling back to
// the default for unknown stages.
func (n Nutrient) Target(stage string) float64 {
	if t, ok := n.NitrogenTargets[stage]; ok {
		return t
	}
	return n.DefaultTarget
}

// PestWeed holds infestation and disease-risk boundaries.
type PestWeed struct {
	HumidityThreshold  float64 `yaml:"humidity_threshold"`
	PestCountThreshold float64 `yaml:"pest_count_threshold"`
	EmergencyPestCount float64 `yaml:"emergency_pest_count"`
}

// Harvest holds the soil temperature window for lifting.
type Harvest struct {
	MinSoilTemp float64 `yaml:"min_soil_temp"`
	MaxSoilTemp float64 `yaml:"max_soil_temp"`
}

// Warehousing holds storage temperature limits in Celsius.
type Warehousing struct {
	OptimalTemp float64 `yaml:"optimal_temp"`
	MaxTemp     float64 `yaml:"max_temp"`
}

// FieldPrep holds the soil readiness boundaries for tillage.
type FieldPrep struct {
	MaxAWC        float64 `yaml:"max_awc"`
	MinCompaction float64 `yaml:"min_compaction"`
	PrecipDelay   float64 `yaml:"precip_delay"`
}

// Processing holds queue depth boundaries.
type Processing struct {
	QueueNow  float64 `yaml:"queue_now"`
	QueueSoon float64 `yaml:"queue_soon"`
}

// Packaging holds the inventory boundary for a packaging run.
type Packaging struct {
	InventoryNow float64 `yaml:"inventory_now"`
}

// Logistics holds pending-order boundaries for dispatch.
type Logistics struct {
	OrdersNow  float64 `yaml:"orders_now"`
	OrdersSoon float64 `yaml:"orders_soon"`
}

// Catalog is the full per-domain threshold set. Loaded once at process
// start and treated as read-only thereafter.
type Catalog struct {
	Irrigation  Irrigation  `yaml:"irrigation"`
	Planting    Planting    `yaml:"planting"`
	Nutrient    Nutrient    `yaml:"nutrient"`
	PestWeed    PestWeed    `yaml:"pest_weed"`
	Harvest     Harvest     `yaml:"harvest"`
	Warehousing Warehousing `yaml:"warehousing"`
	FieldPrep   FieldPrep   `yaml:"field_prep"`
	Processing  Processing  `yaml:"processing"`
	Packaging   Packaging   `yaml:"packaging"`
	Logistics   Logistics   `yaml:"logistics"`
}

// #endregion catalog

// #region defaults

// Default returns the potato threshold catalog.
func Default() Catalog {
	return Catalog{
		Irrigation: Irrigation{
			CriticalAWC:        65,
			EmergencyAWC:       40,
			SoonAWC:            75,
			WeatherDelayPrecip: 5.0,
		},
		Planting: Planting{
			MinSoilTemp:     7,
			MaxSoilTemp:     15,
			OptimalSoilTemp: 12,
		},
		Nutrient: Nutrient{
			NitrogenTargets: map[string]float64{
				"SPROUT_DEVELOPMENT": 50,
				"VEGETATIVE":         100,
				"TUBER_INITIATION":   150,
				"TUBER_BULKING":      120,
				"MATURITY":           50,
			},
			DefaultTarget: 100,
		},
		PestWeed: PestWeed{
			HumidityThreshold:  85,
			PestCountThreshold: 10,
			EmergencyPestCount: 50,
		},
		Harvest: Harvest{
			MinSoilTemp: 10,
			MaxSoilTemp: 18,
		},
		Warehousing: Warehousing{
			OptimalTemp: 4,
			MaxTemp:     8,
		},
		FieldPrep: FieldPrep{
			MaxAWC:        30,
			MinCompaction: 70,
			PrecipDelay:   5.0,
		},
		Processing: Processing{
			QueueNow:  50,
			QueueSoon: 20,
		},
		Packaging: Packaging{
			InventoryNow: 1000,
		},
		Logistics: Logistics{
			OrdersNow:  10,
			OrdersSoon: 5,
		},
	}
}

// #endregion defaults

// #region load

// Load reads a YAML overlay on top of the default catalog. Keys absent
// from the file keep their default values.
func Load(path string) (Catalog, error) {
	cat := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read thresholds: %w", err)
	}
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalog{}, fmt.Errorf("parse thresholds: %w", err)
	}
	return cat, nil
}

// #endregion load
