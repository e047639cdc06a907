package service

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naranjo-adr-assessor/internal/catalog"
	"github.com/naranjo-adr-assessor/internal/domain"
)

func fill(value domain.AnswerValue) domain.AssessmentState {
	state := make(domain.AssessmentState)
	for id := 1; id <= domain.QuestionCount; id++ {
		state[id] = value
	}
	return state
}

func TestScore(t *testing.T) {
	english := catalog.MustQuestions(domain.LOCALE_EN)

	tests := []struct {
		name     string
		state    domain.AssessmentState
		expected int
	}{
		{"All yes", fill(domain.ANSWER_YES), 8},
		{"All no", fill(domain.ANSWER_NO), 1},
		{"All don't know", fill(domain.ANSWER_DONT_KNOW), 0},
		{"Empty", domain.AssessmentState{}, 0},
		{"Partial", domain.AssessmentState{1: domain.ANSWER_YES, 2: domain.ANSWER_YES, 5: domain.ANSWER_NO}, 5},
		{"Unknown ids ignored", domain.AssessmentState{0: domain.ANSWER_YES, 11: domain.ANSWER_YES, 42: domain.ANSWER_NO}, 0},
		{"Maximum", domain.AssessmentState{
			1: domain.ANSWER_YES, 2: domain.ANSWER_YES, 3: domain.ANSWER_YES, 4: domain.ANSWER_YES,
			5: domain.ANSWER_NO, 6: domain.ANSWER_NO, 7: domain.ANSWER_YES, 8: domain.ANSWER_YES,
			9: domain.ANSWER_YES, 10: domain.ANSWER_YES,
		}, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(english, tt.state))
		})
	}
}

func TestScoreMatchesPerQuestionSum(t *testing.T) {
	english := catalog.MustQuestions(domain.LOCALE_EN)
	values := []domain.AnswerValue{domain.ANSWER_YES, domain.ANSWER_NO, domain.ANSWER_DONT_KNOW, domain.ANSWER_UNANSWERED}
	rng := rand.New(rand.NewSource(1981))

	for i := 0; i < 500; i++ {
		state := make(domain.AssessmentState)
		expected := 0
		for _, q := range english {
			v := values[rng.Intn(len(values))]
			if v != domain.ANSWER_UNANSWERED {
				state[q.ID] = v
			}
			switch v {
			case domain.ANSWER_YES:
				expected += q.YesScore
			case domain.ANSWER_NO:
				expected += q.NoScore
			case domain.ANSWER_DONT_KNOW:
				expected += q.DontKnowScore
			}
		}
		require.Equal(t, expected, Score(english, state), "state %v", state)
	}
}

func TestScoreUsesDontKnowWeight(t *testing.T) {
	questions := catalog.MustQuestions(domain.LOCALE_EN)
	questions[0].DontKnowScore = 3

	assert.Equal(t, 3, Score(questions, domain.AssessmentState{1: domain.ANSWER_DONT_KNOW}))
}

func TestBreakdown(t *testing.T) {
	english := catalog.MustQuestions(domain.LOCALE_EN)
	rows := Breakdown(english, domain.AssessmentState{2: domain.ANSWER_NO})

	require.Len(t, rows, domain.QuestionCount)
	for i, row := range rows {
		assert.Equal(t, i+1, row.QuestionID)
	}
	assert.Nil(t, rows[0].Answer)
	assert.Equal(t, 0, rows[0].Score)
	require.NotNil(t, rows[1].Answer)
	assert.Equal(t, domain.ANSWER_NO, *rows[1].Answer)
	assert.Equal(t, -1, rows[1].Score)
}

func TestAssemble(t *testing.T) {
	english := catalog.MustQuestions(domain.LOCALE_EN)
	assembler := NewReportAssembler(logrus.New())
	params := AssembleParams{Locale: domain.LOCALE_EN, DrugName: "Amoxicillin", ReactionDescription: "Rash"}

	t.Run("incomplete", func(t *testing.T) {
		state := fill(domain.ANSWER_YES)
		delete(state, 7)

		report, err := assembler.Assemble(state, english, params)
		assert.Nil(t, report)
		assert.True(t, errors.Is(err, domain.ErrIncompleteAssessment))
	})

	t.Run("complete regardless of answer order", func(t *testing.T) {
		order := []int{10, 3, 7, 1, 9, 2, 8, 5, 4, 6}
		state := make(domain.AssessmentState)
		for i, id := range order {
			state[id] = domain.ANSWER_YES
			if i < len(order)-1 {
				_, err := assembler.Assemble(state, english, params)
				require.ErrorIs(t, err, domain.ErrIncompleteAssessment)
			}
		}

		report, err := assembler.Assemble(state, english, params)
		require.NoError(t, err)
		assert.Equal(t, 8, report.TotalScore)
		assert.Equal(t, domain.PROBABLE, report.Interpretation)
		assert.Equal(t, "Amoxicillin", report.DrugName)
		assert.Equal(t, domain.LOCALE_EN, report.Locale)
		for i, row := range report.Answers {
			assert.Equal(t, i+1, row.QuestionID, "breakdown must follow catalog order")
		}
	})

	t.Run("patient context is copied", func(t *testing.T) {
		patient := &domain.PatientDetails{FullName: "Somchai", History: []domain.HistoryItem{{ID: "h1", DrugName: "Penicillin"}}}
		p := params
		p.Patient = patient

		report, err := assembler.Assemble(fill(domain.ANSWER_NO), english, p)
		require.NoError(t, err)
		patient.History[0].DrugName = "changed"
		assert.Equal(t, "Penicillin", report.PatientContext.History[0].DrugName)
		assert.Equal(t, domain.POSSIBLE, report.Interpretation)
	})

	t.Run("rejects short catalog", func(t *testing.T) {
		_, err := assembler.Assemble(fill(domain.ANSWER_YES), english[:9], params)
		assert.Error(t, err)
	})
}
