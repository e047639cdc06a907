// Package domain contains core entities for Naranjo adverse drug reaction (ADR) assessment.
//
// Reference: Naranjo CA, et al. A method for estimating the probability of adverse drug
// reactions. Clin Pharmacol Ther. 1981;30:239-245.
package domain

import (
	"fmt"
	"strings"
)

// QuestionCount is the fixed number of Naranjo questions in every locale catalog.
const QuestionCount = 10

// Interpretation is the ordinal Naranjo probability category.
type Interpretation string

const (
	DOUBTFUL Interpretation = "Doubtful"
	POSSIBLE Interpretation = "Possible"
	PROBABLE Interpretation = "Probable"
	DEFINITE Interpretation = "Definite"
)

// Canonical Naranjo banding thresholds (inclusive lower bounds).
const (
	DefiniteThreshold = 9
	ProbableThreshold = 5
	PossibleThreshold = 1
)

// Classify maps a total Naranjo score to its interpretation.
// The banding is locale-independent; only display labels are translated.
func Classify(score int) Interpretation {
	switch {
	case score >= DefiniteThreshold:
		return DEFINITE
	case score >= ProbableThreshold:
		return PROBABLE
	case score >= PossibleThreshold:
		return POSSIBLE
	default:
		return DOUBTFUL
	}
}

// IsValid reports whether the interpretation is one of the four Naranjo categories.
func (i Interpretation) IsValid() bool {
	switch i {
	case DOUBTFUL, POSSIBLE, PROBABLE, DEFINITE:
		return true
	default:
		return false
	}
}

// Rank returns the ordinal position of the interpretation (Doubtful=0 .. Definite=3),
// or -1 for an unknown value.
func (i Interpretation) Rank() int {
	switch i {
	case DOUBTFUL:
		return 0
	case POSSIBLE:
		return 1
	case PROBABLE:
		return 2
	case DEFINITE:
		return 3
	default:
		return -1
	}
}

// Severity returns the colour band renderers use for the score badge.
func (i Interpretation) Severity() string {
	switch i {
	case DEFINITE:
		return "red"
	case PROBABLE:
		return "orange"
	case POSSIBLE:
		return "yellow"
	default:
		return "slate"
	}
}

// String returns the string representation of the interpretation.
func (i Interpretation) String() string {
	return string(i)
}

// AnswerValue is a pharmacist's answer to a single Naranjo question.
type AnswerValue string

const (
	ANSWER_YES        AnswerValue = "Yes"
	ANSWER_NO         AnswerValue = "No"
	ANSWER_DONT_KNOW  AnswerValue = "DontKnow"
	ANSWER_UNANSWERED AnswerValue = ""
)

// IsAnswered reports whether the value is Yes, No or DontKnow.
func (a AnswerValue) IsAnswered() bool {
	switch a {
	case ANSWER_YES, ANSWER_NO, ANSWER_DONT_KNOW:
		return true
	default:
		return false
	}
}

// String returns the string representation of the answer.
func (a AnswerValue) String() string {
	if a == ANSWER_UNANSWERED {
		return "Unanswered"
	}
	return string(a)
}

// ParseAnswerValue accepts the canonical names plus the usual short and lower-case forms.
// An empty string or "unanswered" clears the answer.
func ParseAnswerValue(s string) (AnswerValue, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return ANSWER_YES, nil
	case "no", "n":
		return ANSWER_NO, nil
	case "dontknow", "dont_know", "don't know", "dk", "unknown":
		return ANSWER_DONT_KNOW, nil
	case "", "unanswered", "null":
		return ANSWER_UNANSWERED, nil
	default:
		return ANSWER_UNANSWERED, fmt.Errorf("%w: %q", ErrInvalidAnswer, s)
	}
}

// Question is one entry of a locale's Naranjo catalog.
type Question struct {
	ID            int    `json:"id"`
	Text          string `json:"text"`
	YesScore      int    `json:"yes_score"`
	NoScore       int    `json:"no_score"`
	DontKnowScore int    `json:"dont_know_score"`
}

// ScoreFor returns the weight selected by the answer. Unanswered contributes 0.
func (q Question) ScoreFor(answer AnswerValue) int {
	switch answer {
	case ANSWER_YES:
		return q.YesScore
	case ANSWER_NO:
		return q.NoScore
	case ANSWER_DONT_KNOW:
		return q.DontKnowScore
	default:
		return 0
	}
}

// AssessmentState maps question IDs to answers. A missing key means Unanswered.
type AssessmentState map[int]AnswerValue

// Answered returns how many of the catalog's questions carry an answer.
func (s AssessmentState) Answered(catalog []Question) int {
	n := 0
	for _, q := range catalog {
		if s[q.ID].IsAnswered() {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the state.
func (s AssessmentState) Clone() AssessmentState {
	out := make(AssessmentState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// AnswerBreakdown is one row of a report's per-question breakdown.
type AnswerBreakdown struct {
	QuestionID int          `json:"question_id"`
	Answer     *AnswerValue `json:"answer"`
	Score      int          `json:"score"`
}

// HistoryItem is a previously known drug allergy recorded on the patient.
type HistoryItem struct {
	ID           string `json:"id"`
	DrugName     string `json:"drug_name"`
	Symptoms     string `json:"symptoms"`
	ReactionDate string `json:"reaction_date,omitempty"`
}

// PatientDetails is the patient and assessor context attached to a report.
type PatientDetails struct {
	FullName       string        `json:"full_name"`
	HN             string        `json:"hn"`
	Unit           string        `json:"unit"`
	Date           string        `json:"date"`
	PharmacistName string        `json:"pharmacist_name"`
	LicenseNo      string        `json:"license_no"`
	History        []HistoryItem `json:"history"`
}

// Report is the immutable result of a completed Naranjo assessment.
type Report struct {
	DrugName            string            `json:"drug_name"`
	ReactionDescription string            `json:"reaction_description"`
	TotalScore          int               `json:"total_score"`
	Interpretation      Interpretation    `json:"interpretation"`
	Answers             []AnswerBreakdown `json:"answers"`
	Locale              Locale            `json:"locale"`
	PatientContext      *PatientDetails   `json:"patient_context,omitempty"`
}

// LogFields returns structured logging fields for audit trails. Patient identifiers
// are deliberately left out.
func (r *Report) LogFields() map[string]any {
	return map[string]any{
		"drug_name":      r.DrugName,
		"total_score":    r.TotalScore,
		"interpretation": r.Interpretation.String(),
		"locale":         string(r.Locale),
	}
}
