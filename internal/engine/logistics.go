package engine

import (
	"fmt"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/thresholds"
)

// #region logistics
// logisticsEngine paces dispatch off the pending order backlog. No trucks
// reads as an equipment constraint.
type logisticsEngine struct {
	t thresholds.Logistics
}

func (logisticsEngine) Domain() string { return DomainLogistics }

func (e logisticsEngine) Generate(inputs Inputs) *recommend.Record {
	orders := inputs.Float("orders_pending", 0)
	trucksAvailable := inputs.Bool("trucks_available", true)

	var crossed []string
	var flags []recommend.ContextFlag
	kpis := map[string]any{"dispatch_efficiency": 100 - orders}
	predicted := recommend.Wait

	var base recommend.Base
	switch {
	case !trucksAvailable:
		flags = append(flags, recommend.EquipmentConstraint)
		base = recommend.Wait
	case orders > e.t.OrdersNow:
		base = recommend.Now
		crossed = append(crossed, fmt.Sprintf(
			"Pending orders (%s) exceed the immediate dispatch threshold (%s).",
			num(orders), num(e.t.OrdersNow)))
		predicted = recommend.Wait
	case orders > e.t.OrdersSoon:
		base = recommend.Soon
		predicted = recommend.Now
	default:
		base = recommend.Wait
	}

	return recommend.New(recommend.Draft{
		Domain:       "LOGISTICS",
		Base:         base,
		ContextFlags: flags,
		Explain: recommend.Explainability{
			InputsUsed:        []string{"orders_pending", "trucks_available"},
			ThresholdsCrossed: crossed,
			TrendsConsidered:  []string{"Order fulfillment rate"},
			CropStage:         "DISTRIBUTION",
		},
		KPIs:          kpis,
		PredictedNext: predicted,
		RawInputs:     inputs,
	})
}

// #endregion logistics
