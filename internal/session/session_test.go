package session

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naranjo-adr-assessor/internal/domain"
	"github.com/naranjo-adr-assessor/internal/settings"
	"github.com/naranjo-adr-assessor/internal/timeline"
)

type stubAnalyzer struct {
	result  *domain.AIAnalysisResult
	err     error
	calls   int
	reports []*domain.Report
	configs []domain.AIConfig
	during  func()
}

func (a *stubAnalyzer) Analyze(ctx context.Context, report *domain.Report, cfg domain.AIConfig) (*domain.AIAnalysisResult, error) {
	a.calls++
	a.reports = append(a.reports, report)
	a.configs = append(a.configs, cfg)
	if a.during != nil {
		a.during()
	}
	return a.result, a.err
}

func newTestSession(analyzer Analyzer, store domain.SettingsStore) *Session {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if store == nil {
		store = settings.NewMemoryStore(nil)
	}
	return New(logger, analyzer, store, time.UTC)
}

func answerAll(t *testing.T, s *Session, value domain.AnswerValue) {
	t.Helper()
	for id := 1; id <= domain.QuestionCount; id++ {
		require.NoError(t, s.SetAnswer(id, value))
	}
}

func okResult() *domain.AIAnalysisResult {
	return &domain.AIAnalysisResult{Analysis: "x", Recommendations: []string{"a", "b", "c"}, RiskFactor: domain.RISK_MEDIUM}
}

func TestSession_Defaults(t *testing.T) {
	s := newTestSession(&stubAnalyzer{}, nil)

	state := s.Snapshot()
	assert.Equal(t, domain.LOCALE_TH, state.Locale)
	assert.Len(t, state.Questions, domain.QuestionCount)
	assert.Equal(t, 0, state.Answered)
	assert.Equal(t, domain.QuestionCount, state.Total)
	assert.False(t, state.Complete)
	assert.Equal(t, domain.DOUBTFUL, state.Interpretation)
	assert.Equal(t, "slate", state.Severity)
}

func TestSession_AnswersAndProgress(t *testing.T) {
	s := newTestSession(&stubAnalyzer{}, nil)

	require.NoError(t, s.SetAnswer(1, domain.ANSWER_YES))
	require.NoError(t, s.SetAnswer(2, domain.ANSWER_YES))
	answered, total := s.Progress()
	assert.Equal(t, 2, answered)
	assert.Equal(t, 10, total)

	require.NoError(t, s.SetAnswer(2, domain.ANSWER_UNANSWERED))
	answered, _ = s.Progress()
	assert.Equal(t, 1, answered)

	assert.ErrorIs(t, s.SetAnswer(11, domain.ANSWER_YES), domain.ErrUnknownQuestion)
	assert.ErrorIs(t, s.SetAnswer(3, domain.AnswerValue("Maybe")), domain.ErrInvalidAnswer)

	state := s.Snapshot()
	assert.Equal(t, 1, state.Score)
	assert.Equal(t, domain.POSSIBLE, state.Interpretation)
	assert.Equal(t, domain.ANSWER_YES, state.Questions[0].Answer)
}

func TestSession_Report(t *testing.T) {
	s := newTestSession(&stubAnalyzer{}, nil)
	require.NoError(t, s.SetLocale("en"))
	s.SetEvent(" Amoxicillin ", "Rash")

	_, err := s.Report()
	assert.ErrorIs(t, err, domain.ErrIncompleteAssessment)

	answerAll(t, s, domain.ANSWER_YES)
	report, err := s.Report()
	require.NoError(t, err)
	assert.Equal(t, 8, report.TotalScore)
	assert.Equal(t, domain.PROBABLE, report.Interpretation)
	assert.Equal(t, "Amoxicillin", report.DrugName)
	assert.Equal(t, domain.LOCALE_EN, report.Locale)
	assert.True(t, s.Snapshot().Complete)
}

func TestSession_LocaleSwitchKeepsAnswers(t *testing.T) {
	s := newTestSession(&stubAnalyzer{}, nil)
	answerAll(t, s, domain.ANSWER_NO)

	require.NoError(t, s.SetLocale("lo"))
	assert.ErrorIs(t, s.SetLocale("fr"), domain.ErrUnknownLocale)

	state := s.Snapshot()
	assert.Equal(t, domain.LOCALE_LO, state.Locale)
	assert.True(t, state.Complete)
	assert.Equal(t, 1, state.Score)
}

func TestSession_Reset(t *testing.T) {
	s := newTestSession(&stubAnalyzer{result: okResult()}, nil)
	s.SetPatient(domain.PatientDetails{FullName: "Patient A", HN: "HN1"})
	s.SetEvent("Drug", "Reaction")
	answerAll(t, s, domain.ANSWER_YES)
	_, err := s.Analyze(context.Background())
	require.NoError(t, err)

	s.Reset()

	state := s.Snapshot()
	assert.Equal(t, 0, state.Answered)
	assert.Empty(t, state.DrugName)
	assert.Empty(t, state.ReactionDescription)
	assert.Nil(t, state.Analysis)
	assert.Equal(t, "Patient A", state.Patient.FullName, "patient details survive a reset")
}

func TestSession_History(t *testing.T) {
	s := newTestSession(&stubAnalyzer{}, nil)

	_, err := s.AddHistory(domain.HistoryItem{Symptoms: "rash"})
	assert.Error(t, err)

	item, err := s.AddHistory(domain.HistoryItem{DrugName: " Penicillin ", Symptoms: "Urticaria"})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Penicillin", item.DrugName)

	s.SetPatient(domain.PatientDetails{FullName: "Patient B"})
	state := s.Snapshot()
	require.Len(t, state.Patient.History, 1, "SetPatient keeps history")
	assert.Equal(t, "Patient B", state.Patient.FullName)

	answerAll(t, s, domain.ANSWER_YES)
	report, err := s.Report()
	require.NoError(t, err)
	require.NotNil(t, report.PatientContext)
	assert.Len(t, report.PatientContext.History, 1)

	require.NoError(t, s.RemoveHistory(item.ID))
	assert.ErrorIs(t, s.RemoveHistory(item.ID), domain.ErrNotFound)
	assert.Empty(t, s.Snapshot().Patient.History)
}

func TestSession_Analyze(t *testing.T) {
	store := settings.NewMemoryStore(nil)
	analyzer := &stubAnalyzer{result: okResult()}
	s := newTestSession(analyzer, store)

	_, err := s.Analyze(context.Background())
	assert.ErrorIs(t, err, domain.ErrIncompleteAssessment)
	assert.Equal(t, 0, analyzer.calls, "incomplete assessments never reach the provider")

	answerAll(t, s, domain.ANSWER_YES)
	result, err := s.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", result.Analysis)
	assert.Equal(t, domain.DefaultAIConfig(), analyzer.configs[0])
	require.NotNil(t, s.Analysis())

	// settings are read fresh for every call
	require.NoError(t, store.Save(context.Background(), domain.AIConfig{Provider: domain.PROVIDER_CLOUD, ModelName: "gemini-2.5-flash", Credential: "k"}))
	_, err = s.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PROVIDER_CLOUD, analyzer.configs[1].Provider)

	s.ClearAnalysis()
	assert.Nil(t, s.Analysis())
}

func TestSession_AnalyzeFailureKeepsNoResult(t *testing.T) {
	analyzer := &stubAnalyzer{err: domain.NewParseError("local", "invalid", "I cannot comply.", nil)}
	s := newTestSession(analyzer, nil)
	answerAll(t, s, domain.ANSWER_YES)

	result, err := s.Analyze(context.Background())

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrParse))
	assert.Nil(t, s.Analysis())
}

func TestSession_StaleAnalysisDiscarded(t *testing.T) {
	analyzer := &stubAnalyzer{result: okResult()}
	s := newTestSession(analyzer, nil)
	answerAll(t, s, domain.ANSWER_YES)
	analyzer.during = func() {
		require.NoError(t, s.SetAnswer(1, domain.ANSWER_NO))
	}

	result, err := s.Analyze(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Nil(t, s.Analysis(), "result for the old answers must not be kept")
}

func TestSession_AnswerChangeClearsAnalysis(t *testing.T) {
	s := newTestSession(&stubAnalyzer{result: okResult()}, nil)
	answerAll(t, s, domain.ANSWER_YES)
	_, err := s.Analyze(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s.Analysis())

	require.NoError(t, s.SetAnswer(4, domain.ANSWER_DONT_KNOW))
	assert.Nil(t, s.Analysis())
}

func TestSession_Timeline(t *testing.T) {
	s := newTestSession(&stubAnalyzer{}, nil)

	assert.True(t, s.Timeline(time.Now()).Layout.Empty)

	exposure, err := s.AddExposure(timeline.ExposureInput{DrugName: "Vancomycin", Reaction: "Red man", Start: "2024-01-01T00:00"})
	require.NoError(t, err)
	note, err := s.AddNote(timeline.NoteInput{Timestamp: "2024-01-01T06:00", Assessment: "infusion reaction"})
	require.NoError(t, err)

	view := s.Timeline(time.Time{})
	require.False(t, view.Layout.Empty)
	assert.Len(t, view.Exposures, 1)
	assert.Len(t, view.Notes, 1)
	assert.Contains(t, view.Layout.Positions, exposure.ID)
	assert.Contains(t, view.Layout.Positions, note.ID)

	require.NoError(t, s.RemoveExposure(exposure.ID))
	require.NoError(t, s.RemoveNote(note.ID))
	assert.ErrorIs(t, s.RemoveNote(note.ID), domain.ErrNotFound)
	assert.True(t, s.Timeline(time.Now()).Layout.Empty)
}
