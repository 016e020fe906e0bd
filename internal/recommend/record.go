package recommend

// #region imports
import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// #endregion

// #region validity
// DefaultValidity is how long a recommendation stays actionable unless the
// engine asks for a different window.
const DefaultValidity = 4 * time.Hour

// #endregion validity

// #region record
// Record is the atomic unit of output and audit: one verdict, its
// explanation, its KPIs, and the raw inputs needed to replay it.
type Record struct {
	Domain               string
	IssuedAt             time.Time
	ValidUntil           time.Time
	Base                 Base
	ContextFlags         []ContextFlag
	SeverityOverlays     []Overlay
	RequiresConfirmation bool
	ConfirmedAt          *time.Time
	Explain              Explainability
	KPIs                 map[string]any
	PredictedNext        Base
	AuditLogID           string
	RawInputs            map[string]any
}

// #endregion record

// #region draft
// Draft carries everything an engine decides; New fills in the rest
// (timestamps, audit id, derived confirmation requirement).
type Draft struct {
	Domain        string
	Base          Base
	ContextFlags  []ContextFlag
	Overlays      []Overlay
	Explain       Explainability
	KPIs          map[string]any
	PredictedNext Base
	RawInputs     map[string]any
	Validity      time.Duration // zero means DefaultValidity
}

// New mints a Record from a Draft: stamps issue/expiry times, assigns a
// fresh audit id, derives requires_human_confirmation from the overlays,
// and normalizes every collection so the wire form never carries nulls.
func New(d Draft) *Record {
	validity := d.Validity
	if validity <= 0 {
		validity = DefaultValidity
	}
	now := time.Now().UTC()

	rec := &Record{
		Domain:           d.Domain,
		IssuedAt:         now,
		ValidUntil:       now.Add(validity),
		Base:             d.Base,
		ContextFlags:     d.ContextFlags,
		SeverityOverlays: d.Overlays,
		Explain:          d.Explain,
		KPIs:             d.KPIs,
		PredictedNext:    d.PredictedNext,
		AuditLogID:       uuid.New().String(),
		RawInputs:        d.RawInputs,
	}

	if rec.ContextFlags == nil {
		rec.ContextFlags = []ContextFlag{}
	}
	if rec.SeverityOverlays == nil {
		rec.SeverityOverlays = []Overlay{}
	}
	if rec.KPIs == nil {
		rec.KPIs = map[string]any{}
	}
	if rec.RawInputs == nil {
		rec.RawInputs = map[string]any{}
	}
	if rec.Explain.InputsUsed == nil {
		rec.Explain.InputsUsed = []string{}
	}
	if rec.Explain.ThresholdsCrossed == nil {
		rec.Explain.ThresholdsCrossed = []string{}
	}
	if rec.Explain.ThresholdsApproaching == nil {
		rec.Explain.ThresholdsApproaching = []string{}
	}
	if rec.Explain.TrendsConsidered == nil {
		rec.Explain.TrendsConsidered = []string{}
	}
	if rec.Explain.CropStage == "" {
		rec.Explain.CropStage = "UNKNOWN"
	}

	rec.RequiresConfirmation = rec.HasOverlay(Emergency)
	return rec
}

// #endregion draft

// #region derived

// HasOverlay reports whether the given severity overlay is present.
func (r *Record) HasOverlay(o Overlay) bool {
	for _, have := range r.SeverityOverlays {
		if have == o {
			return true
		}
	}
	return false
}

// Urgency derives the operator-facing urgency level from the base verdict,
// overridden to CRITICAL whenever EMERGENCY is present.
func (r *Record) Urgency() Urgency {
	if r.HasOverlay(Emergency) {
		return UrgencyCritical
	}
	switch r.Base {
	case Now:
		return UrgencyHigh
	case Soon:
		return UrgencyMedium
	case Later:
		return UrgencyLow
	case Monitor:
		return UrgencyInfo
	default:
		return UrgencyNone
	}
}

// DisplayColor maps the base verdict to a fixed UX color token.
func (r *Record) DisplayColor() string {
	switch r.Base {
	case Now:
		return "ORANGE"
	case Soon:
		return "YELLOW"
	case Later:
		return "BLUE"
	case Wait:
		return "GREEN"
	case Monitor:
		return "CYAN"
	default:
		return "WHITE"
	}
}

// IsValid reports whether the record is still inside its validity window.
func (r *Record) IsValid() bool {
	return r.IsValidAt(time.Now())
}

// IsValidAt reports validity against an explicit clock reading.
func (r *Record) IsValidAt(now time.Time) bool {
	return now.Before(r.ValidUntil)
}

// RemainingTime formats the time left in the validity window as HH:MM:SS,
// clamped at "00:00:00" once the window has closed.
func (r *Record) RemainingTime() string {
	return r.RemainingTimeAt(time.Now())
}

// RemainingTimeAt is RemainingTime against an explicit clock reading.
func (r *Record) RemainingTimeAt(now time.Time) string {
	remaining := r.ValidUntil.Sub(now)
	if remaining <= 0 {
		return "00:00:00"
	}
	total := int(remaining.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// #endregion derived

// #region wire

// wireRecord is the flat persisted document: every Record attribute plus
// the derived urgency_level, display_color, and remaining_time fields.
type wireRecord struct {
	Domain               string         `json:"domain"`
	IssuedAt             time.Time      `json:"issued_at"`
	ValidUntil           time.Time      `json:"valid_until"`
	RemainingTime        string         `json:"remaining_time"`
	Base                 Base           `json:"base_recommendation"`
	UrgencyLevel         Urgency        `json:"urgency_level"`
	DisplayColor         string         `json:"display_color"`
	ContextFlags         []ContextFlag  `json:"context_flags"`
	SeverityOverlays     []Overlay      `json:"severity_overlays"`
	RequiresConfirmation bool           `json:"requires_human_confirmation"`
	ConfirmedAt          *time.Time     `json:"confirmed_at"`
	Explain              Explainability `json:"explainability"`
	KPIs                 map[string]any `json:"kpis"`
	PredictedNext        Base           `json:"predicted_next_recommendation,omitempty"`
	AuditLogID           string         `json:"audit_log_id"`
	RawInputs            map[string]any `json:"raw_inputs"`
}

// MarshalJSON serializes the flat persisted document, recomputing the
// derived display fields from the current clock.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRecord{
		Domain:               r.Domain,
		IssuedAt:             r.IssuedAt,
		ValidUntil:           r.ValidUntil,
		RemainingTime:        r.RemainingTime(),
		Base:                 r.Base,
		UrgencyLevel:         r.Urgency(),
		DisplayColor:         r.DisplayColor(),
		ContextFlags:         r.ContextFlags,
		SeverityOverlays:     r.SeverityOverlays,
		RequiresConfirmation: r.RequiresConfirmation,
		ConfirmedAt:          r.ConfirmedAt,
		Explain:              r.Explain,
		KPIs:                 r.KPIs,
		PredictedNext:        r.PredictedNext,
		AuditLogID:           r.AuditLogID,
		RawInputs:            r.RawInputs,
	})
}

// UnmarshalJSON reads a persisted document back into a Record. Derived
// fields are dropped; they are recomputed on the next marshal.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Domain = w.Domain
	r.IssuedAt = w.IssuedAt
	r.ValidUntil = w.ValidUntil
	r.Base = w.Base
	r.ContextFlags = w.ContextFlags
	r.SeverityOverlays = w.SeverityOverlays
	r.RequiresConfirmation = w.RequiresConfirmation
	r.ConfirmedAt = w.ConfirmedAt
	r.Explain = w.Explain
	r.KPIs = w.KPIs
	r.PredictedNext = w.PredictedNext
	r.AuditLogID = w.AuditLogID
	r.RawInputs = w.RawInputs
	return nil
}

// #endregion wire
