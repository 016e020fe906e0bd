package engine

import "github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"

// #region planning
// planningEngine decides when to finalize the season plan. It has no
// numeric thresholds; readiness of market data is the trigger.
type planningEngine struct{}

func (planningEngine) Domain() string { return DomainPlanning }

func (planningEngine) Generate(inputs Inputs) *recommend.Record {
	planFinalized := inputs.Bool("plan_finalized", false)
	marketDataReady := inputs.Bool("market_data_ready", false)
	laborAvailable := inputs.Bool("labor_available", true)

	var crossed []string
	var flags []recommend.ContextFlag
	kpis := map[string]any{"operational_readiness": 0.0}
	predicted := recommend.Wait

	var base recommend.Base
	switch {
	case !laborAvailable:
		flags = append(flags, recommend.LaborConstraint)
		base = recommend.Wait
	case !planFinalized && marketDataReady:
		base = recommend.Now
		crossed = append(crossed, "Market data is ready for final planning.")
		kpis["operational_readiness"] = 100.0
		predicted = recommend.Wait
	default:
		base = recommend.Wait
	}

	return recommend.New(recommend.Draft{
		Domain:       "PLANNING",
		Base:         base,
		ContextFlags: flags,
		Explain: recommend.Explainability{
			InputsUsed:        []string{"plan_finalized", "market_data_ready", "labor_available"},
			ThresholdsCrossed: crossed,
			TrendsConsidered:  []string{"Market data availability"},
			CropStage:         "PRE-SEASON",
		},
		KPIs:          kpis,
		PredictedNext: predicted,
		RawInputs:     inputs,
	})
}

// #endregion planning
