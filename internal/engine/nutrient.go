package engine

import (
	"fmt"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/thresholds"
)

// #region nutrient
// nutrientEngine compares the measured nitrogen level against a
// stage-specific target. Within 10% above target the verdict is SOON.
type nutrientEngine struct {
	t thresholds.Nutrient
}

func (nutrientEngine) Domain() string { return DomainNutrient }

func (e nutrientEngine) Generate(inputs Inputs) *recommend.Record {
	nLevel := inputs.Float("nitrogen", 100)
	prevN := inputs.MaybeFloat("prev_nitrogen")
	stage := inputs.String("crop_stage", "VEGETATIVE")
	materialsAvailable := inputs.Bool("materials_available", true)
	target := e.t.Target(stage)

	trend := ClassifyTrend(nLevel, prevN, nil)

	var crossed []string
	var approaching []string
	var flags []recommend.ContextFlag
	efficiency := 100.0
	if nLevel < target {
		efficiency = nLevel / target * 100
	}
	kpis := map[string]any{"nutrient_use_efficiency": efficiency}
	predicted := recommend.Wait

	var base recommend.Base
	switch {
	case !materialsAvailable:
		flags = append(flags, recommend.MaterialsConstraint)
		base = recommend.Wait
	case nLevel < target:
		base = recommend.Now
		crossed = append(crossed, fmt.Sprintf(
			"Nitrogen level (%s) is below the target (%s) for the %s stage.",
			num(nLevel), num(target), stage))
		predicted = recommend.Wait
	case nLevel < target*1.1:
		base = recommend.Soon
		approaching = append(approaching, fmt.Sprintf(
			"Nitrogen level (%s) is approaching the target (%s).",
			num(nLevel), num(target)))
		predicted = recommend.Now
	default:
		base = recommend.Wait
	}

	return recommend.New(recommend.Draft{
		Domain:       "NUTRIENT",
		Base:         base,
		ContextFlags: flags,
		Explain: recommend.Explainability{
			InputsUsed:            []string{"nitrogen", "prev_nitrogen", "crop_stage", "materials_available"},
			ThresholdsCrossed:     crossed,
			ThresholdsApproaching: approaching,
			TrendsConsidered:      []string{fmt.Sprintf("Nitrogen level is %s", trend)},
			CropStage:             stage,
		},
		KPIs:          kpis,
		PredictedNext: predicted,
		RawInputs:     inputs,
	})
}

// #endregion nutrient
