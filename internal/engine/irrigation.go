package engine

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/thresholds"
)

// #region irrigation
// irrigationEngine is the primary water-timing engine. The ladder:
// equipment constraint wins, then the critical AWC boundary (deferred to
// WAIT when enough rain is forecast, escalated to EMERGENCY below the
// emergency boundary), then the approach band where a falling trend
// separates SOON from LATER.
type irrigationEngine struct {
	t thresholds.Irrigation
}

func (irrigationEngine) Domain() string { return DomainIrrigation }

func (e irrigationEngine) Generate(inputs Inputs) *recommend.Record {
	awc := inputs.Float("awc", 100)
	prevAWC := inputs.MaybeFloat("prev_awc")
	precipForecast := inputs.Float("precipitation_forecast", 0)
	equipmentAvailable := inputs.Bool("equipment_available", true)
	stage := inputs.String("crop_stage", "VEGETATIVE")

	trend := ClassifyTrend(awc, prevAWC, nil)

	var flags []recommend.ContextFlag
	var overlays []recommend.Overlay
	var crossed []string
	var approaching []string
	kpis := map[string]any{"water_efficiency": awc, "stress_avoidance": 100.0}
	predicted := recommend.Wait

	var base recommend.Base
	switch {
	case !equipmentAvailable:
		flags = append(flags, recommend.EquipmentConstraint)
		base = recommend.Wait
	case awc < e.t.CriticalAWC:
		crossed = append(crossed, fmt.Sprintf(
			"Available Water Content (%s%%) has dropped below the critical threshold (%s%%).",
			num(awc), num(e.t.CriticalAWC)))
		kpis["stress_avoidance"] = math.Max(0, 100-(e.t.CriticalAWC-awc)*5)
		if precipForecast > e.t.WeatherDelayPrecip {
			base = recommend.Wait
			flags = append(flags, recommend.WeatherDelay)
			kpis["water_savings_potential"] = precipForecast * 10
			predicted = recommend.Now
		} else {
			base = recommend.Now
			if awc < e.t.EmergencyAWC {
				overlays = append(overlays, recommend.Emergency)
				crossed = append(crossed, fmt.Sprintf(
					"Available Water Content (%s%%) is at a dangerous level (below %s%%).",
					num(awc), num(e.t.EmergencyAWC)))
			}
			predicted = recommend.Wait
		}
	case awc < e.t.SoonAWC:
		approaching = append(approaching, fmt.Sprintf(
			"Available Water Content (%s%%) is nearing the critical irrigation threshold (%s%%).",
			num(awc), num(e.t.CriticalAWC)))
		if trend == TrendDecreasing {
			base = recommend.Soon
			predicted = recommend.Now
		} else {
			base = recommend.Later
			predicted = recommend.Soon
		}
	default:
		base = recommend.Wait
	}

	return recommend.New(recommend.Draft{
		Domain:       "IRRIGATION",
		Base:         base,
		ContextFlags: flags,
		Overlays:     overlays,
		Explain: recommend.Explainability{
			InputsUsed:            []string{"awc", "prev_awc", "precipitation_forecast", "equipment_available"},
			ThresholdsCrossed:     crossed,
			ThresholdsApproaching: approaching,
			TrendsConsidered:      []string{fmt.Sprintf("Available Water Content is %s", trend)},
			CropStage:             stage,
		},
		KPIs:          kpis,
		PredictedNext: predicted,
		RawInputs:     inputs,
	})
}

// #endregion irrigation
