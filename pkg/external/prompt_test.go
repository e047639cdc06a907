package external

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/naranjo-adr-assessor/internal/domain"
)

func testReport(locale domain.Locale) *domain.Report {
	yes := domain.ANSWER_YES
	no := domain.ANSWER_NO
	answers := make([]domain.AnswerBreakdown, 0, domain.QuestionCount)
	for id := 1; id <= domain.QuestionCount; id++ {
		if id == 5 {
			answers = append(answers, domain.AnswerBreakdown{QuestionID: id, Answer: &no, Score: 2})
			continue
		}
		answers = append(answers, domain.AnswerBreakdown{QuestionID: id, Answer: &yes, Score: 1})
	}
	return &domain.Report{
		DrugName:            "Amoxicillin",
		ReactionDescription: "Maculopapular rash",
		TotalScore:          11,
		Interpretation:      domain.DEFINITE,
		Answers:             answers,
		Locale:              locale,
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(testReport(domain.LOCALE_EN))

	assert.True(t, strings.HasPrefix(prompt, systemPrompt))
	assert.Contains(t, prompt, "- Suspected Drug: Amoxicillin")
	assert.Contains(t, prompt, "- Reaction Description: Maculopapular rash")
	assert.Contains(t, prompt, "- Naranjo Total Score: 11")
	assert.Contains(t, prompt, "Q1: Yes (Score: 1)")
	assert.Contains(t, prompt, "Q5: No (Score: 2)")
	assert.Contains(t, prompt, "Q10: Yes (Score: 1)")
	assert.Contains(t, prompt, "(In English)")
	assert.Contains(t, prompt, "Return ONLY valid JSON")
}

func TestBuildPromptLocale(t *testing.T) {
	prompt := BuildPrompt(testReport(domain.LOCALE_TH))

	assert.Contains(t, prompt, "(In Thai (ภาษาไทย))")
}

func TestBuildPromptDeterministic(t *testing.T) {
	a := BuildPrompt(testReport(domain.LOCALE_EN))
	b := BuildPrompt(testReport(domain.LOCALE_EN))

	assert.Equal(t, a, b)
	assert.Equal(t, Fingerprint(testReport(domain.LOCALE_EN)), Fingerprint(testReport(domain.LOCALE_EN)))
	assert.NotEqual(t, Fingerprint(testReport(domain.LOCALE_EN)), Fingerprint(testReport(domain.LOCALE_LO)))
}

func TestBuildPromptIncludesAllergyHistory(t *testing.T) {
	report := testReport(domain.LOCALE_EN)
	report.PatientContext = &domain.PatientDetails{
		FullName: "Patient A",
		HN:       "HN-001",
		History:  []domain.HistoryItem{{DrugName: "Penicillin", Symptoms: "Urticaria", ReactionDate: "2023-04-01"}},
	}

	prompt := BuildPrompt(report)
	assert.Contains(t, prompt, "Penicillin: Urticaria (2023-04-01)")
	assert.NotContains(t, prompt, "HN-001")
}
