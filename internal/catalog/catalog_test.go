package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naranjo-adr-assessor/internal/domain"
)

func TestQuestions_AllLocales(t *testing.T) {
	english := MustQuestions(domain.LOCALE_EN)

	for _, locale := range domain.SupportedLocales {
		t.Run(string(locale), func(t *testing.T) {
			questions, err := Questions(locale)
			require.NoError(t, err)
			require.Len(t, questions, domain.QuestionCount)

			for i, q := range questions {
				assert.Equal(t, i+1, q.ID)
				assert.NotEmpty(t, q.Text)
				// Only the text varies across locales.
				assert.Equal(t, english[i].YesScore, q.YesScore)
				assert.Equal(t, english[i].NoScore, q.NoScore)
				assert.Equal(t, english[i].DontKnowScore, q.DontKnowScore)
			}
		})
	}
}

func TestQuestions_ReferenceWeights(t *testing.T) {
	questions := MustQuestions(domain.LOCALE_EN)

	yes := []int{1, 2, 1, 2, -1, -1, 1, 1, 1, 1}
	no := []int{0, -1, 0, -1, 2, 1, 0, 0, 0, 0}
	for i, q := range questions {
		assert.Equal(t, yes[i], q.YesScore, "yes weight of Q%d", q.ID)
		assert.Equal(t, no[i], q.NoScore, "no weight of Q%d", q.ID)
		assert.Zero(t, q.DontKnowScore, "don't-know weight of Q%d", q.ID)
	}
}

func TestQuestions_ReturnsCopy(t *testing.T) {
	first := MustQuestions(domain.LOCALE_EN)
	first[0].YesScore = 99

	second := MustQuestions(domain.LOCALE_EN)
	assert.Equal(t, 1, second[0].YesScore)
}

func TestQuestions_UnknownLocale(t *testing.T) {
	_, err := Questions("fr")
	assert.ErrorIs(t, err, domain.ErrUnknownLocale)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Probable ADR", InterpretationLabel(domain.LOCALE_EN, domain.PROBABLE))
	assert.Equal(t, "น่าสงสัย (Doubtful)", InterpretationLabel(domain.LOCALE_TH, domain.DOUBTFUL))
	assert.Equal(t, "Definite", InterpretationLabel("fr", domain.DEFINITE))

	assert.Equal(t, "สูง", RiskLabel(domain.LOCALE_TH, domain.RISK_HIGH))
	assert.Equal(t, "Unknown", RiskLabel(domain.LOCALE_EN, domain.RISK_UNKNOWN))

	assert.Equal(t, "English", LanguageName(domain.LOCALE_EN))
	assert.Equal(t, "English", LanguageName("fr"))
	assert.Contains(t, LanguageName(domain.LOCALE_LO), "Lao")
}

func TestIsQuestionID(t *testing.T) {
	assert.True(t, IsQuestionID(1))
	assert.True(t, IsQuestionID(10))
	assert.False(t, IsQuestionID(0))
	assert.False(t, IsQuestionID(11))
}
