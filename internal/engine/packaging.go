package engine

import (
	"fmt"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/thresholds"
)

// #region packaging
// packagingEngine schedules a packaging run once graded inventory piles up.
type packagingEngine struct {
	t thresholds.Packaging
}

func (packagingEngine) Domain() string { return DomainPackaging }

func (e packagingEngine) Generate(inputs Inputs) *recommend.Record {
	inventory := inputs.Float("inventory_level", 0)
	materialsAvailable := inputs.Bool("materials_available", true)

	var crossed []string
	var flags []recommend.ContextFlag
	kpis := map[string]any{"inventory_turnover_potential": inventory / 10}
	predicted := recommend.Wait

	var base recommend.Base
	switch {
	case !materialsAvailable:
		flags = append(flags, recommend.MaterialsConstraint)
		base = recommend.Wait
	case inventory > e.t.InventoryNow:
		base = recommend.Now
		crossed = append(crossed, fmt.Sprintf(
			"Inventory level (%s) exceeds the packaging threshold (%s).",
			num(inventory), num(e.t.InventoryNow)))
		predicted = recommend.Wait
	default:
		base = recommend.Wait
	}

	return recommend.New(recommend.Draft{
		Domain:       "PACKAGING",
		Base:         base,
		ContextFlags: flags,
		Explain: recommend.Explainability{
			InputsUsed:        []string{"inventory_level", "materials_available"},
			ThresholdsCrossed: crossed,
			TrendsConsidered:  []string{"Inventory accumulation rate"},
			CropStage:         "POST-HARVEST",
		},
		KPIs:          kpis,
		PredictedNext: predicted,
		RawInputs:     inputs,
	})
}

// #endregion packaging
