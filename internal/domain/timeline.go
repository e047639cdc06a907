package domain

import "time"

// DrugExposure is an administration interval of a drug on the patient timeline.
// End before Start is accepted; renderers clamp the visual width instead.
type DrugExposure struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ClinicalNote is a timestamped SOAP note on the patient timeline.
type ClinicalNote struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Fields    []string  `json:"fields"`
}

// SOAP field positions within ClinicalNote.Fields.
const (
	SOAPSubjective = iota
	SOAPObjective
	SOAPAssessment
	SOAPPlan
)

// Field returns the SOAP field at idx, or "" if absent.
func (n ClinicalNote) Field(idx int) string {
	if idx < 0 || idx >= len(n.Fields) {
		return ""
	}
	return n.Fields[idx]
}

// TimeWindow is the buffered span a timeline is drawn over. Seconds is End-Start.
type TimeWindow struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Seconds float64   `json:"seconds"`
}
