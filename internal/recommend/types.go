package recommend

// #region base
// Base is the unified action verdict every domain engine must emit.
// Exactly one value per record.
type Base string

const (
	Now     Base = "NOW"
	Soon    Base = "SOON"
	Later   Base = "LATER"
	Wait    Base = "WAIT"
	Monitor Base = "MONITOR"
)

// #endregion base

// #region context-flags
// ContextFlag annotates an operational constraint that influenced the verdict.
type ContextFlag string

const (
	WeatherDelay        ContextFlag = "WEATHER_DELAY"
	LaborConstraint     ContextFlag = "LABOR_CONSTRAINT"
	EquipmentConstraint ContextFlag = "EQUIPMENT_CONSTRAINT"
	CapacityConstraint  ContextFlag = "CAPACITY_CONSTRAINT"
	MaterialsConstraint ContextFlag = "MATERIALS_CONSTRAINT"
)

// #endregion context-flags

// #region overlays
// Overlay is a severity escalation layered on top of a base verdict.
type Overlay string

const (
	Emergency Overlay = "EMERGENCY"
)

// #endregion overlays

// #region urgency
// Urgency is derived from the base verdict for operator display,
// overridden to CRITICAL whenever an EMERGENCY overlay is present.
type Urgency string

const (
	UrgencyCritical Urgency = "CRITICAL"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyLow      Urgency = "LOW"
	UrgencyNone     Urgency = "NONE"
	UrgencyInfo     Urgency = "INFO"
)

// #endregion urgency

// #region explainability
// Explainability records which inputs, thresholds, and trends produced a
// verdict. All fields are always present; CropStage defaults to "UNKNOWN".
type Explainability struct {
	InputsUsed            []string `json:"inputs_used"`
	ThresholdsCrossed     []string `json:"thresholds_crossed"`
	ThresholdsApproaching []string `json:"thresholds_approaching"`
	TrendsConsidered      []string `json:"trends_considered"`
	CropStage             string   `json:"crop_stage"`
}

// #endregion explainability
