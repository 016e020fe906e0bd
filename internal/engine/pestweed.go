package engine

import (
	"fmt"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/thresholds"
)

// #region pest-weed
// pestWeedEngine triggers on either infestation pressure or disease-risk
// humidity. A rising count below threshold is MONITOR, not WAIT.
type pestWeedEngine struct {
	t thresholds.PestWeed
}

func (pestWeedEngine) Domain() string { return DomainPestWeed }

func (e pestWeedEngine) Generate(inputs Inputs) *recommend.Record {
	pestCount := inputs.Float("pest_count", 0)
	prevPest := inputs.MaybeFloat("prev_pest_count")
	humidity := inputs.Float("humidity", 0)
	equipmentAvailable := inputs.Bool("equipment_available", true)

	trend := ClassifyTrend(pestCount, prevPest, nil)

	var overlays []recommend.Overlay
	var crossed []string
	var approaching []string
	var flags []recommend.ContextFlag
	kpis := map[string]any{"crop_health_protection": 100 - pestCount}
	predicted := recommend.Wait

	var base recommend.Base
	switch {
	case !equipmentAvailable:
		flags = append(flags, recommend.EquipmentConstraint)
		base = recommend.Wait
	case pestCount > e.t.PestCountThreshold || humidity > e.t.HumidityThreshold:
		base = recommend.Now
		if pestCount > e.t.PestCountThreshold {
			crossed = append(crossed, fmt.Sprintf(
				"Pest count (%s) exceeds the threshold (%s).",
				num(pestCount), num(e.t.PestCountThreshold)))
		}
		if humidity > e.t.HumidityThreshold {
			crossed = append(crossed, fmt.Sprintf(
				"Humidity (%s%%) exceeds the disease risk threshold (%s%%).",
				num(humidity), num(e.t.HumidityThreshold)))
		}
		if pestCount > e.t.EmergencyPestCount {
			overlays = append(overlays, recommend.Emergency)
			crossed = append(crossed, fmt.Sprintf(
				"Pest count (%s) is at an emergency level (above %s).",
				num(pestCount), num(e.t.EmergencyPestCount)))
		}
		predicted = recommend.Wait
	case trend == TrendIncreasing:
		base = recommend.Monitor
		approaching = append(approaching, fmt.Sprintf(
			"Pest count (%s) is increasing toward the threshold (%s).",
			num(pestCount), num(e.t.PestCountThreshold)))
		predicted = recommend.Now
	default:
		base = recommend.Wait
	}

	return recommend.New(recommend.Draft{
		Domain:       "PEST_WEED",
		Base:         base,
		ContextFlags: flags,
		Overlays:     overlays,
		Explain: recommend.Explainability{
			InputsUsed:            []string{"pest_count", "prev_pest_count", "humidity", "equipment_available"},
			ThresholdsCrossed:     crossed,
			ThresholdsApproaching: approaching,
			TrendsConsidered:      []string{fmt.Sprintf("Pest count is %s", trend)},
			CropStage:             "GROWTH",
		},
		KPIs:          kpis,
		PredictedNext: predicted,
		RawInputs:     inputs,
	})
}

// #endregion pest-weed
