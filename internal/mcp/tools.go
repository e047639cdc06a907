package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/naranjo-adr-assessor/internal/catalog"
	"github.com/naranjo-adr-assessor/internal/domain"
	"github.com/naranjo-adr-assessor/internal/service"
	"github.com/naranjo-adr-assessor/internal/timeline"
)

// ListQuestionsInput selects the catalog language.
type ListQuestionsInput struct {
	Locale string `json:"locale,omitempty" jsonschema:"language code: th, en, lo or my (default th)"`
}

// ListQuestionsOutput is one locale's question catalog.
type ListQuestionsOutput struct {
	Locale    string            `json:"locale"`
	Language  string            `json:"language"`
	Questions []domain.Question `json:"questions"`
}

// AssessInput is a full, possibly partial, Naranjo assessment.
type AssessInput struct {
	Locale              string            `json:"locale,omitempty" jsonschema:"language code: th, en, lo or my (default th)"`
	DrugName            string            `json:"drug_name,omitempty" jsonschema:"suspected drug"`
	ReactionDescription string            `json:"reaction_description,omitempty" jsonschema:"observed adverse reaction"`
	Answers             map[string]string `json:"answers" jsonschema:"question ID (1-10) to Yes, No or DontKnow"`
}

// AnswerRow is one question's answer and score contribution.
type AnswerRow struct {
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
	Score      int    `json:"score"`
}

// AssessOutput is the scored assessment.
type AssessOutput struct {
	Locale              string      `json:"locale"`
	DrugName            string      `json:"drug_name"`
	TotalScore          int         `json:"total_score"`
	Interpretation      string      `json:"interpretation"`
	InterpretationLabel string      `json:"interpretation_label"`
	Severity            string      `json:"severity"`
	Answered            int         `json:"answered"`
	Complete            bool        `json:"complete"`
	Answers             []AnswerRow `json:"answers"`
}

// AllergyInput is a previously known drug allergy.
type AllergyInput struct {
	DrugName     string `json:"drug_name"`
	Symptoms     string `json:"symptoms,omitempty"`
	ReactionDate string `json:"reaction_date,omitempty"`
}

// AnalyzeInput is a complete assessment plus optional provider overrides.
type AnalyzeInput struct {
	Locale              string            `json:"locale,omitempty" jsonschema:"language code: th, en, lo or my (default th)"`
	DrugName            string            `json:"drug_name" jsonschema:"suspected drug"`
	ReactionDescription string            `json:"reaction_description,omitempty" jsonschema:"observed adverse reaction"`
	Answers             map[string]string `json:"answers" jsonschema:"question ID (1-10) to Yes, No or DontKnow; all ten are required"`
	AllergyHistory      []AllergyInput    `json:"allergy_history,omitempty" jsonschema:"known drug allergies of the patient"`
	Provider            string            `json:"provider,omitempty" jsonschema:"override the saved provider: local or cloud"`
	ModelName           string            `json:"model_name,omitempty" jsonschema:"override the saved model name"`
}

// AnalyzeOutput is the AI analysis of an assessment.
type AnalyzeOutput struct {
	TotalScore      int      `json:"total_score"`
	Interpretation  string   `json:"interpretation"`
	Analysis        string   `json:"analysis"`
	Recommendations []string `json:"recommendations"`
	RiskFactor      string   `json:"riskFactor"`
	RiskLabel       string   `json:"risk_label"`
}

// LayoutInput is the timeline to lay out.
type LayoutInput struct {
	Exposures []timeline.ExposureInput `json:"exposures,omitempty" jsonschema:"drug administrations; times as YYYY-MM-DDTHH:MM"`
	Notes     []timeline.NoteInput     `json:"notes,omitempty" jsonschema:"SOAP notes; timestamp as YYYY-MM-DDTHH:MM"`
	Now       string                   `json:"now,omitempty" jsonschema:"reference time for the now marker (default current time)"`
}

// PlacedEvent is one event's horizontal placement.
type PlacedEvent struct {
	ID    string  `json:"id"`
	Kind  string  `json:"kind"`
	Label string  `json:"label"`
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// GridlineOutput is one labelled tick on the time axis.
type GridlineOutput struct {
	Percent float64 `json:"percent"`
	Label   string  `json:"label"`
}

// LayoutOutput is the computed timeline geometry.
type LayoutOutput struct {
	Empty       bool             `json:"empty"`
	WindowStart string           `json:"window_start,omitempty"`
	WindowEnd   string           `json:"window_end,omitempty"`
	Events      []PlacedEvent    `json:"events"`
	Gridlines   []GridlineOutput `json:"gridlines"`
	NowVisible  bool             `json:"now_visible"`
	NowPercent  float64          `json:"now_percent"`
}

func (s *Server) handleListQuestions(ctx context.Context, req *mcp.CallToolRequest, in ListQuestionsInput) (*mcp.CallToolResult, ListQuestionsOutput, error) {
	locale, err := parseLocale(in.Locale)
	if err != nil {
		return nil, ListQuestionsOutput{}, err
	}
	questions, err := catalog.Questions(locale)
	if err != nil {
		return nil, ListQuestionsOutput{}, err
	}
	return nil, ListQuestionsOutput{
		Locale:    string(locale),
		Language:  catalog.LanguageName(locale),
		Questions: questions,
	}, nil
}

func (s *Server) handleAssess(ctx context.Context, req *mcp.CallToolRequest, in AssessInput) (*mcp.CallToolResult, AssessOutput, error) {
	locale, questions, state, err := parseAssessment(in)
	if err != nil {
		return nil, AssessOutput{}, err
	}

	score := service.Score(questions, state)
	interp := domain.Classify(score)
	answered := state.Answered(questions)

	rows := make([]AnswerRow, 0, len(questions))
	for _, b := range service.Breakdown(questions, state) {
		row := AnswerRow{QuestionID: b.QuestionID, Answer: domain.ANSWER_UNANSWERED.String(), Score: b.Score}
		if b.Answer != nil {
			row.Answer = b.Answer.String()
		}
		rows = append(rows, row)
	}

	s.logger.WithFields(logrus.Fields{
		"tool":        "assess_naranjo",
		"answered":    answered,
		"total_score": score,
	}).Info("Tool invoked")

	return nil, AssessOutput{
		Locale:              string(locale),
		DrugName:            strings.TrimSpace(in.DrugName),
		TotalScore:          score,
		Interpretation:      interp.String(),
		InterpretationLabel: catalog.InterpretationLabel(locale, interp),
		Severity:            interp.Severity(),
		Answered:            answered,
		Complete:            answered == len(questions),
		Answers:             rows,
	}, nil
}

func (s *Server) handleAnalyze(ctx context.Context, req *mcp.CallToolRequest, in AnalyzeInput) (*mcp.CallToolResult, AnalyzeOutput, error) {
	locale, questions, state, err := parseAssessment(AssessInput{Locale: in.Locale, Answers: in.Answers})
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}

	patient := &domain.PatientDetails{}
	for _, a := range in.AllergyHistory {
		patient.History = append(patient.History, domain.HistoryItem{
			DrugName:     a.DrugName,
			Symptoms:     a.Symptoms,
			ReactionDate: a.ReactionDate,
		})
	}

	report, err := s.assembler.Assemble(state, questions, service.AssembleParams{
		Locale:              locale,
		DrugName:            in.DrugName,
		ReactionDescription: in.ReactionDescription,
		Patient:             patient,
	})
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}

	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return nil, AnalyzeOutput{}, fmt.Errorf("failed to load AI settings: %w", err)
	}
	if in.Provider != "" {
		cfg.Provider = domain.ProviderKind(strings.ToLower(strings.TrimSpace(in.Provider)))
	}
	if in.ModelName != "" {
		cfg.ModelName = strings.TrimSpace(in.ModelName)
	}

	result, err := s.analyzer.Analyze(ctx, report, cfg)
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}

	return nil, AnalyzeOutput{
		TotalScore:      report.TotalScore,
		Interpretation:  report.Interpretation.String(),
		Analysis:        result.Analysis,
		Recommendations: result.Recommendations,
		RiskFactor:      result.RiskFactor.String(),
		RiskLabel:       catalog.RiskLabel(locale, result.RiskFactor),
	}, nil
}

func (s *Server) handleLayoutTimeline(ctx context.Context, req *mcp.CallToolRequest, in LayoutInput) (*mcp.CallToolResult, LayoutOutput, error) {
	board := timeline.NewBoard(s.loc)
	for _, e := range in.Exposures {
		if _, err := board.AddExposure(e); err != nil {
			return nil, LayoutOutput{}, err
		}
	}
	for _, n := range in.Notes {
		if _, err := board.AddNote(n); err != nil {
			return nil, LayoutOutput{}, err
		}
	}

	now := s.now()
	if in.Now != "" {
		parsed, err := timeline.ParseTimestamp(in.Now, s.loc)
		if err != nil {
			return nil, LayoutOutput{}, domain.NewValidationError("now", err.Error(), in.Now)
		}
		now = parsed
	}

	layout := board.Layout(now)
	out := LayoutOutput{Empty: layout.Empty, Events: []PlacedEvent{}, Gridlines: []GridlineOutput{}}
	if layout.Empty {
		return nil, out, nil
	}

	out.WindowStart = layout.Window.Start.Format(time.RFC3339)
	out.WindowEnd = layout.Window.End.Format(time.RFC3339)
	for _, e := range board.Exposures() {
		p := layout.Positions[e.ID]
		out.Events = append(out.Events, PlacedEvent{ID: e.ID, Kind: "exposure", Label: e.Label, Left: p.Left, Width: p.Width})
	}
	for _, n := range board.Notes() {
		p := layout.Positions[n.ID]
		out.Events = append(out.Events, PlacedEvent{ID: n.ID, Kind: "note", Label: n.Field(domain.SOAPSubjective), Left: p.Left, Width: p.Width})
	}
	for _, g := range layout.Gridlines {
		out.Gridlines = append(out.Gridlines, GridlineOutput{Percent: g.Percent, Label: g.Label})
	}
	if layout.Now != nil {
		out.NowVisible = true
		out.NowPercent = *layout.Now
	}
	return nil, out, nil
}

func parseLocale(value string) (domain.Locale, error) {
	if value == "" {
		return domain.DefaultLocale, nil
	}
	return domain.ParseLocale(value)
}

// parseAssessment converts the wire form of an assessment into catalog and state.
func parseAssessment(in AssessInput) (domain.Locale, []domain.Question, domain.AssessmentState, error) {
	locale, err := parseLocale(in.Locale)
	if err != nil {
		return "", nil, nil, err
	}
	questions, err := catalog.Questions(locale)
	if err != nil {
		return "", nil, nil, err
	}

	state := make(domain.AssessmentState, len(in.Answers))
	seen := make(map[int]string, len(in.Answers))
	for key, raw := range in.Answers {
		id, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(strings.ToUpper(key), "Q")))
		if err != nil || !catalog.IsQuestionID(id) {
			return "", nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownQuestion, key)
		}
		if prev, dup := seen[id]; dup {
			return "", nil, nil, fmt.Errorf("%w: question %d given twice (%q and %q)", domain.ErrInvalidAnswer, id, prev, key)
		}
		seen[id] = key
		value, err := domain.ParseAnswerValue(raw)
		if err != nil {
			return "", nil, nil, err
		}
		if value.IsAnswered() {
			state[id] = value
		}
	}
	return locale, questions, state, nil
}
