package engine

import (
	"fmt"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/thresholds"
)

// #region warehousing
// warehousingEngine guards cold storage. Any reading above the safety
// ceiling is both NOW and EMERGENCY; a rising temperature below it is
// MONITOR.
type warehousingEngine struct {
	t thresholds.Warehousing
}

func (warehousingEngine) Domain() string { return DomainWarehousing }

func (e warehousingEngine) Generate(inputs Inputs) *recommend.Record {
	temp := inputs.Float("storage_temp", 4)
	prevTemp := inputs.MaybeFloat("prev_storage_temp")
	capacityAvailable := inputs.Bool("capacity_available", true)

	trend := ClassifyTrend(temp, prevTemp, nil)

	var overlays []recommend.Overlay
	var crossed []string
	var approaching []string
	var flags []recommend.ContextFlag
	loss := 100.0
	if temp > e.t.MaxTemp {
		loss = 100 - (temp-e.t.MaxTemp)*10
	}
	kpis := map[string]any{"post_harvest_loss_reduction": loss}
	predicted := recommend.Wait

	var base recommend.Base
	switch {
	case !capacityAvailable:
		flags = append(flags, recommend.CapacityConstraint)
		base = recommend.Wait
	case temp > e.t.MaxTemp:
		base = recommend.Now
		overlays = append(overlays, recommend.Emergency)
		crossed = append(crossed, fmt.Sprintf(
			"Storage temperature (%s°C) exceeds the maximum safe threshold (%s°C).",
			num(temp), num(e.t.MaxTemp)))
		predicted = recommend.Wait
	case trend == TrendIncreasing:
		base = recommend.Monitor
		approaching = append(approaching, fmt.Sprintf(
			"Storage temperature (%s°C) is increasing toward the maximum threshold (%s°C).",
			num(temp), num(e.t.MaxTemp)))
		predicted = recommend.Now
	default:
		base = recommend.Wait
	}

	return recommend.New(recommend.Draft{
		Domain:       "WAREHOUSING",
		Base:         base,
		ContextFlags: flags,
		Overlays:     overlays,
		Explain: recommend.Explainability{
			InputsUsed:            []string{"storage_temp", "prev_storage_temp", "capacity_available"},
			ThresholdsCrossed:     crossed,
			ThresholdsApproaching: approaching,
			TrendsConsidered:      []string{fmt.Sprintf("Storage temperature is %s", trend)},
			CropStage:             "STORAGE",
		},
		KPIs:          kpis,
		PredictedNext: predicted,
		RawInputs:     inputs,
	})
}

// #endregion warehousing
