package engine

import (
	"fmt"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/thresholds"
)

// #region planting
// plantingEngine watches the soil temperature window. Below the window
// with a warming trend the verdict is SOON; below without warming it is
// MONITOR rather than WAIT, since the window may still open.
type plantingEngine struct {
	t thresholds.Planting
}

func (plantingEngine) Domain() string { return DomainPlanting }

func (e plantingEngine) Generate(inputs Inputs) *recommend.Record {
	soilTemp := inputs.Float("soil_temp", 0)
	prevTemp := inputs.MaybeFloat("prev_soil_temp")
	seedReady := inputs.Bool("seed_ready", true)
	laborAvailable := inputs.Bool("labor_available", true)

	trend := ClassifyTrend(soilTemp, prevTemp, nil)

	var crossed []string
	var approaching []string
	var flags []recommend.ContextFlag
	kpis := map[string]any{"planting_window_optimization": 0.0}
	predicted := recommend.Wait

	var base recommend.Base
	switch {
	case !laborAvailable:
		flags = append(flags, recommend.LaborConstraint)
		base = recommend.Wait
	case seedReady && e.t.MinSoilTemp <= soilTemp && soilTemp <= e.t.MaxSoilTemp:
		base = recommend.Now
		crossed = append(crossed, fmt.Sprintf(
			"Soil temperature (%s°C) is within the optimal planting range (%s°C to %s°C).",
			num(soilTemp), num(e.t.MinSoilTemp), num(e.t.MaxSoilTemp)))
		kpis["planting_window_optimization"] = 100.0
		predicted = recommend.Wait
	case seedReady && soilTemp < e.t.MinSoilTemp && trend == TrendIncreasing:
		base = recommend.Soon
		approaching = append(approaching, fmt.Sprintf(
			"Soil temperature (%s°C) is warming toward the minimum planting threshold (%s°C).",
			num(soilTemp), num(e.t.MinSoilTemp)))
		kpis["planting_window_optimization"] = 50.0
		predicted = recommend.Now
	case seedReady && soilTemp < e.t.MinSoilTemp:
		base = recommend.Monitor
		predicted = recommend.Soon
	default:
		base = recommend.Wait
	}

	return recommend.New(recommend.Draft{
		Domain:       "PLANTING",
		Base:         base,
		ContextFlags: flags,
		Explain: recommend.Explainability{
			InputsUsed:            []string{"soil_temp", "prev_soil_temp", "seed_ready", "labor_available"},
			ThresholdsCrossed:     crossed,
			ThresholdsApproaching: approaching,
			TrendsConsidered:      []string{fmt.Sprintf("Soil temperature is %s", trend)},
			CropStage:             "PLANTING",
		},
		KPIs:          kpis,
		PredictedNext: predicted,
		RawInputs:     inputs,
	})
}

// #endregion planting
