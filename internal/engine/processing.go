package engine

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/thresholds"
)

// #region processing
// processingEngine paces line runs off queue depth.
type processingEngine struct {
	t thresholds.Processing
}

func (processingEngine) Domain() string { return DomainProcessing }

func (e processingEngine) Generate(inputs Inputs) *recommend.Record {
	queue := inputs.Float("queue_size", 0)
	capacityAvailable := inputs.Bool("capacity_available", true)

	var crossed []string
	var flags []recommend.ContextFlag
	kpis := map[string]any{"throughput_efficiency": math.Max(0, 100-queue)}
	predicted := recommend.Wait

	var base recommend.Base
	switch {
	case !capacityAvailable:
		flags = append(flags, recommend.CapacityConstraint)
		base = recommend.Wait
	case queue > e.t.QueueNow:
		base = recommend.Now
		crossed = append(crossed, fmt.Sprintf(
			"Processing queue (%s) exceeds the high-priority threshold (%s).",
			num(queue), num(e.t.QueueNow)))
		predicted = recommend.Wait
	case queue > e.t.QueueSoon:
		base = recommend.Soon
		predicted = recommend.Now
	default:
		base = recommend.Wait
	}

	return recommend.New(recommend.Draft{
		Domain:       "PROCESSING",
		Base:         base,
		ContextFlags: flags,
		Explain: recommend.Explainability{
			InputsUsed:        []string{"queue_size", "capacity_available"},
			ThresholdsCrossed: crossed,
			TrendsConsidered:  []string{"Throughput trends"},
			CropStage:         "POST-HARVEST",
		},
		KPIs:          kpis,
		PredictedNext: predicted,
		RawInputs:     inputs,
	})
}

// #endregion processing
