// Package session holds the state of one pharmacist's working session: the Naranjo
// assessment in progress, patient context, the last AI analysis and the timeline board.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/naranjo-adr-assessor/internal/catalog"
	"github.com/naranjo-adr-assessor/internal/domain"
	"github.com/naranjo-adr-assessor/internal/service"
	"github.com/naranjo-adr-assessor/internal/timeline"
)

// Analyzer produces an AI analysis for a completed report.
type Analyzer interface {
	Analyze(ctx context.Context, report *domain.Report, cfg domain.AIConfig) (*domain.AIAnalysisResult, error)
}

// Session is safe for concurrent use by request handlers, but models a single user.
type Session struct {
	logger    *logrus.Logger
	assembler *service.ReportAssembler
	analyzer  Analyzer
	settings  domain.SettingsStore

	mu         sync.Mutex
	locale     domain.Locale
	patient    domain.PatientDetails
	drugName   string
	reaction   string
	answers    domain.AssessmentState
	analysis   *domain.AIAnalysisResult
	generation uint64
	board      *timeline.Board
}

// New creates an empty session in the default locale.
func New(logger *logrus.Logger, analyzer Analyzer, settings domain.SettingsStore, loc *time.Location) *Session {
	return &Session{
		logger:    logger,
		assembler: service.NewReportAssembler(logger),
		analyzer:  analyzer,
		settings:  settings,
		locale:    domain.DefaultLocale,
		answers:   make(domain.AssessmentState),
		board:     timeline.NewBoard(loc),
	}
}

// QuestionView pairs a catalog question with its current answer.
type QuestionView struct {
	domain.Question
	Answer domain.AnswerValue `json:"answer"`
}

// State is a point-in-time copy of the session for rendering.
type State struct {
	Locale              domain.Locale            `json:"locale"`
	Patient             domain.PatientDetails    `json:"patient"`
	DrugName            string                   `json:"drug_name"`
	ReactionDescription string                   `json:"reaction_description"`
	Questions           []QuestionView           `json:"questions"`
	Answered            int                      `json:"answered"`
	Total               int                      `json:"total"`
	Complete            bool                     `json:"complete"`
	Score               int                      `json:"score"`
	Interpretation      domain.Interpretation    `json:"interpretation"`
	InterpretationLabel string                   `json:"interpretation_label"`
	Severity            string                   `json:"severity"`
	Analysis            *domain.AIAnalysisResult `json:"analysis,omitempty"`
}

// Snapshot returns the current state. Score and interpretation are provisional until
// Complete is set.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions := catalog.MustQuestions(s.locale)
	views := make([]QuestionView, len(questions))
	for i, q := range questions {
		views[i] = QuestionView{Question: q, Answer: s.answers[q.ID]}
	}

	score := service.Score(questions, s.answers)
	interp := domain.Classify(score)
	answered := s.answers.Answered(questions)

	return State{
		Locale:              s.locale,
		Patient:             clonePatient(s.patient),
		DrugName:            s.drugName,
		ReactionDescription: s.reaction,
		Questions:           views,
		Answered:            answered,
		Total:               len(questions),
		Complete:            answered == len(questions),
		Score:               score,
		Interpretation:      interp,
		InterpretationLabel: catalog.InterpretationLabel(s.locale, interp),
		Severity:            interp.Severity(),
		Analysis:            cloneAnalysis(s.analysis),
	}
}

// Locale returns the session language.
func (s *Session) Locale() domain.Locale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locale
}

// SetLocale switches the language. Answers are keyed by question ID and survive the switch.
func (s *Session) SetLocale(value string) error {
	locale, err := domain.ParseLocale(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locale != locale {
		s.locale = locale
		s.invalidateLocked()
	}
	return nil
}

// Questions returns the catalog for the current locale.
func (s *Session) Questions() []domain.Question {
	return catalog.MustQuestions(s.Locale())
}

// SetPatient replaces the demographic fields. The allergy history is managed separately.
func (s *Session) SetPatient(p domain.PatientDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.patient.History
	s.patient = p
	s.patient.History = history
}

// AddHistory records a known drug allergy.
func (s *Session) AddHistory(item domain.HistoryItem) (domain.HistoryItem, error) {
	item.DrugName = strings.TrimSpace(item.DrugName)
	item.Symptoms = strings.TrimSpace(item.Symptoms)
	if item.DrugName == "" {
		return domain.HistoryItem{}, domain.NewValidationError("drug_name", "drug name is required", item.DrugName)
	}
	item.ID = uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.patient.History = append(s.patient.History, item)
	s.invalidateLocked()
	return item, nil
}

// RemoveHistory deletes an allergy history entry.
func (s *Session) RemoveHistory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, h := range s.patient.History {
		if h.ID == id {
			s.patient.History = append(s.patient.History[:i], s.patient.History[i+1:]...)
			s.invalidateLocked()
			return nil
		}
	}
	return fmt.Errorf("history item %s: %w", id, domain.ErrNotFound)
}

// SetEvent sets the suspected drug and reaction under assessment.
func (s *Session) SetEvent(drugName, reaction string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drugName = strings.TrimSpace(drugName)
	s.reaction = strings.TrimSpace(reaction)
	s.invalidateLocked()
}

// SetAnswer records one answer. Unanswered clears it.
func (s *Session) SetAnswer(questionID int, value domain.AnswerValue) error {
	if !catalog.IsQuestionID(questionID) {
		return fmt.Errorf("%w: %d", domain.ErrUnknownQuestion, questionID)
	}
	if value != domain.ANSWER_UNANSWERED && !value.IsAnswered() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidAnswer, value)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if value == domain.ANSWER_UNANSWERED {
		delete(s.answers, questionID)
	} else {
		s.answers[questionID] = value
	}
	s.invalidateLocked()

	s.logger.WithFields(logrus.Fields{
		"question_id": questionID,
		"answer":      value.String(),
		"answered":    len(s.answers),
	}).Debug("Answer recorded")
	return nil
}

// Reset clears the answers, the suspected drug and reaction, and any analysis.
// Patient details and the timeline are kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.answers = make(domain.AssessmentState)
	s.drugName = ""
	s.reaction = ""
	s.invalidateLocked()
	s.logger.Info("Assessment reset")
}

// Progress returns how many questions are answered out of the catalog size.
func (s *Session) Progress() (answered, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions := catalog.MustQuestions(s.locale)
	return s.answers.Answered(questions), len(questions)
}

// Report assembles the current report, or fails with domain.ErrIncompleteAssessment.
func (s *Session) Report() (*domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reportLocked()
}

func (s *Session) reportLocked() (*domain.Report, error) {
	patient := clonePatient(s.patient)
	return s.assembler.Assemble(s.answers, catalog.MustQuestions(s.locale), service.AssembleParams{
		Locale:              s.locale,
		DrugName:            s.drugName,
		ReactionDescription: s.reaction,
		Patient:             &patient,
	})
}

// Analyze requests an AI analysis of the current report. Settings are loaded for this
// call only. The lock is not held during the provider call; a result that arrives after
// the assessment changed is returned but not kept.
func (s *Session) Analyze(ctx context.Context) (*domain.AIAnalysisResult, error) {
	s.mu.Lock()
	report, err := s.reportLocked()
	generation := s.generation
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AI settings: %w", err)
	}

	result, err := s.analyzer.Analyze(ctx, report, cfg)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == generation {
		s.analysis = result
	} else {
		s.logger.Debug("Discarding analysis for an assessment that has since changed")
	}
	return cloneAnalysis(result), nil
}

// Analysis returns the last kept analysis, if any.
func (s *Session) Analysis() *domain.AIAnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAnalysis(s.analysis)
}

// ClearAnalysis discards the kept analysis so a new one can be requested.
func (s *Session) ClearAnalysis() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysis = nil
}

// invalidateLocked drops the analysis because the report it described has changed.
func (s *Session) invalidateLocked() {
	s.generation++
	s.analysis = nil
}

// AddExposure adds a drug exposure to the timeline.
func (s *Session) AddExposure(in timeline.ExposureInput) (domain.DrugExposure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exposure, err := s.board.AddExposure(in)
	if err != nil {
		return exposure, err
	}
	s.logger.WithFields(logrus.Fields{"id": exposure.ID, "label": exposure.Label}).Debug("Exposure added")
	return exposure, nil
}

// RemoveExposure removes a drug exposure from the timeline.
func (s *Session) RemoveExposure(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.RemoveExposure(id)
}

// AddNote adds a SOAP note to the timeline.
func (s *Session) AddNote(in timeline.NoteInput) (domain.ClinicalNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, err := s.board.AddNote(in)
	if err != nil {
		return note, err
	}
	s.logger.WithField("id", note.ID).Debug("Note added")
	return note, nil
}

// RemoveNote removes a SOAP note from the timeline.
func (s *Session) RemoveNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.RemoveNote(id)
}

// TimelineView is the timeline's events together with their layout.
type TimelineView struct {
	Exposures []domain.DrugExposure `json:"exposures"`
	Notes     []domain.ClinicalNote `json:"notes"`
	Layout    timeline.Layout       `json:"layout"`
}

// Timeline lays out the current events relative to now.
func (s *Session) Timeline(now time.Time) TimelineView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return TimelineView{
		Exposures: s.board.Exposures(),
		Notes:     s.board.Notes(),
		Layout:    s.board.Layout(now),
	}
}

func clonePatient(p domain.PatientDetails) domain.PatientDetails {
	p.History = append([]domain.HistoryItem(nil), p.History...)
	return p
}

func cloneAnalysis(a *domain.AIAnalysisResult) *domain.AIAnalysisResult {
	if a == nil {
		return nil
	}
	out := *a
	out.Recommendations = append([]string(nil), a.Recommendations...)
	return &out
}
