package service

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/naranjo-adr-assessor/internal/domain"
)

// ReportAssembler builds Reports from a completed assessment
type ReportAssembler struct {
	logger *logrus.Logger
}

// NewReportAssembler creates a new report assembler
func NewReportAssembler(logger *logrus.Logger) *ReportAssembler {
	return &ReportAssembler{logger: logger}
}

// AssembleParams carries the free-text and patient context of a report
type AssembleParams struct {
	Locale              domain.Locale
	DrugName            string
	ReactionDescription string
	Patient             *domain.PatientDetails
}

// Assemble combines the answers with their catalog into a Report. It returns
// domain.ErrIncompleteAssessment while any catalog question is unanswered.
func (a *ReportAssembler) Assemble(state domain.AssessmentState, catalog []domain.Question, params AssembleParams) (*domain.Report, error) {
	if len(catalog) != domain.QuestionCount {
		return nil, fmt.Errorf("catalog has %d questions, expected %d", len(catalog), domain.QuestionCount)
	}

	answered := state.Answered(catalog)
	if answered < len(catalog) {
		return nil, fmt.Errorf("%w (%d of %d answered)", domain.ErrIncompleteAssessment, answered, len(catalog))
	}

	total := Score(catalog, state)
	report := &domain.Report{
		DrugName:            params.DrugName,
		ReactionDescription: params.ReactionDescription,
		TotalScore:          total,
		Interpretation:      domain.Classify(total),
		Answers:             Breakdown(catalog, state),
		Locale:              params.Locale,
		PatientContext:      clonePatient(params.Patient),
	}

	if a.logger != nil {
		a.logger.WithFields(logrus.Fields(report.LogFields())).Debug("Assembled Naranjo report")
	}
	return report, nil
}

func clonePatient(p *domain.PatientDetails) *domain.PatientDetails {
	if p == nil {
		return nil
	}
	out := *p
	out.History = append([]domain.HistoryItem(nil), p.History...)
	return &out
}
