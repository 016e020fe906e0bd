package engine

import (
	"github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/thresholds"
)

// #region harvest
// harvestEngine needs skin set plus a workable soil temperature. Labor is
// checked before equipment; either constraint wins over readiness.
type harvestEngine struct {
	t thresholds.Harvest
}

func (harvestEngine) Domain() string { return DomainHarvest }

func (e harvestEngine) Generate(inputs Inputs) *recommend.Record {
	skinSet := inputs.Bool("skin_set", false)
	soilTemp := inputs.Float("soil_temp", 0)
	laborAvailable := inputs.Bool("labor_available", true)
	equipmentAvailable := inputs.Bool("equipment_available", true)

	var crossed []string
	var flags []recommend.ContextFlag
	readiness := 50.0
	if skinSet {
		readiness = 100.0
	}
	kpis := map[string]any{"harvest_readiness": readiness}
	predicted := recommend.Wait

	var base recommend.Base
	switch {
	case !laborAvailable:
		flags = append(flags, recommend.LaborConstraint)
		base = recommend.Wait
	case !equipmentAvailable:
		flags = append(flags, recommend.EquipmentConstraint)
		base = recommend.Wait
	case skinSet && e.t.MinSoilTemp <= soilTemp && soilTemp <= e.t.MaxSoilTemp:
		base = recommend.Now
		crossed = append(crossed, "Skin set is complete and soil temperature is optimal for harvest.")
		predicted = recommend.Wait
	case skinSet:
		base = recommend.Monitor
		predicted = recommend.Now
	default:
		base = recommend.Wait
	}

	return recommend.New(recommend.Draft{
		Domain:       "HARVEST",
		Base:         base,
		ContextFlags: flags,
		Explain: recommend.Explainability{
			InputsUsed:        []string{"skin_set", "soil_temp", "labor_available", "equipment_available"},
			ThresholdsCrossed: crossed,
			TrendsConsidered:  []string{"Maturity and soil temp trends"},
			CropStage:         "MATURITY",
		},
		KPIs:          kpis,
		PredictedNext: predicted,
		RawInputs:     inputs,
	})
}

// #endregion harvest
