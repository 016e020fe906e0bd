package engine

import (
	"fmt"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/thresholds"
)

// #region field-prep
// fieldPrepEngine decides when to till: dry, compacted soil wants work
// now, but forecast rain delays everything.
type fieldPrepEngine struct {
	t thresholds.FieldPrep
}

func (fieldPrepEngine) Domain() string { return DomainFieldPrep }

func (e fieldPrepEngine) Generate(inputs Inputs) *recommend.Record {
	awc := inputs.Float("awc", 100)
	compaction := inputs.Float("compaction_level", 0)
	precipForecast := inputs.Float("precipitation_forecast", 0)
	equipmentAvailable := inputs.Bool("equipment_available", true)

	var flags []recommend.ContextFlag
	var crossed []string
	kpis := map[string]any{"soil_health_index": 100 - compaction}
	predicted := recommend.Wait

	var base recommend.Base
	switch {
	case !equipmentAvailable:
		flags = append(flags, recommend.EquipmentConstraint)
		base = recommend.Wait
	case precipForecast > e.t.PrecipDelay:
		flags = append(flags, recommend.WeatherDelay)
		base = recommend.Wait
		crossed = append(crossed, fmt.Sprintf(
			"Precipitation forecast (%smm) exceeds the %smm threshold for field work.",
			num(precipForecast), num(e.t.PrecipDelay)))
		kpis["operational_delay_risk"] = 100.0
		predicted = recommend.Soon
	case awc < e.t.MaxAWC && compaction > e.t.MinCompaction:
		base = recommend.Now
		crossed = append(crossed, fmt.Sprintf(
			"Soil moisture (%s%%) is low and compaction (%s) is high, requiring immediate preparation.",
			num(awc), num(compaction)))
		kpis["stress_avoidance_potential"] = 100.0
		predicted = recommend.Wait
	default:
		base = recommend.Wait
	}

	return recommend.New(recommend.Draft{
		Domain:       "FIELD_PREP",
		Base:         base,
		ContextFlags: flags,
		Explain: recommend.Explainability{
			InputsUsed:        []string{"awc", "compaction_level", "precipitation_forecast", "equipment_available"},
			ThresholdsCrossed: crossed,
			TrendsConsidered:  []string{"Soil moisture and compaction trends"},
			CropStage:         "PRE-PLANTING",
		},
		KPIs:          kpis,
		PredictedNext: predicted,
		RawInputs:     inputs,
	})
}

// #endregion field-prep
