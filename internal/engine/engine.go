// Package engine implements the eleven deterministic domain rule engines.
// Each engine is a pure function of (inputs, threshold catalog): same
// inputs, same catalog, same verdict. That purity is what makes audit
// reconstruction possible.
package engine

// #region imports
import (
	"strings"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/recommend"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/thresholds"
)

// #endregion

// #region contract
// Engine is the single contract every domain variant implements.
// Generate never fails: malformed or missing inputs degrade to defaults.
type Engine interface {
	Domain() string
	Generate(inputs Inputs) *recommend.Record
}

// #endregion contract

// #region domains
// Domain name constants, lowercase as used for routing.
const (
	DomainPlanning    = "planning"
	DomainFieldPrep   = "field_prep"
	DomainPlanting    = "planting"
	DomainIrrigation  = "irrigation"
	DomainNutrient    = "nutrient"
	DomainPestWeed    = "pest_weed"
	DomainHarvest     = "harvest"
	DomainProcessing  = "processing"
	DomainPackaging   = "packaging"
	DomainWarehousing = "warehousing"
	DomainLogistics   = "logistics"
)

// Domains lists every domain in workflow order.
var Domains = []string{
	DomainPlanning,
	DomainFieldPrep,
	DomainPlanting,
	DomainIrrigation,
	DomainNutrient,
	DomainPestWeed,
	DomainHarvest,
	DomainProcessing,
	DomainPackaging,
	DomainWarehousing,
	DomainLogistics,
}

// #endregion domains

// #region registry

// Registry routes a domain name to its engine. Built once at startup
// against an immutable threshold catalog.
type Registry struct {
	engines map[string]Engine
}

// NewRegistry wires all eleven engines against the given catalog.
func NewRegistry(cat thresholds.Catalog) *Registry {
	all := []Engine{
		planningEngine{},
		fieldPrepEngine{t: cat.FieldPrep},
		plantingEngine{t: cat.Planting},
		irrigationEngine{t: cat.Irrigation},
		nutrientEngine{t: cat.Nutrient},
		pestWeedEngine{t: cat.PestWeed},
		harvestEngine{t: cat.Harvest},
		processingEngine{t: cat.Processing},
		packagingEngine{t: cat.Packaging},
		warehousingEngine{t: cat.Warehousing},
		logisticsEngine{t: cat.Logistics},
	}

	engines := make(map[string]Engine, len(all))
	for _, e := range all {
		engines[e.Domain()] = e
	}
	return &Registry{engines: engines}
}

// Get returns the engine for a domain name. Matching is case-insensitive.
func (r *Registry) Get(domain string) (Engine, bool) {
	e, ok := r.engines[strings.ToLower(domain)]
	return e, ok
}

// #endregion registry
