// Package catalog holds the static, per-locale Naranjo question tables and display labels.
// Content varies by locale; the score weights and question order never do.
package catalog

import (
	"fmt"

	"github.com/naranjo-adr-assessor/internal/domain"
)

// weights are the canonical Naranjo score weights, indexed by question ID - 1.
// Every published catalog scores "don't know" as 0; the table keeps it as data.
var weights = [domain.QuestionCount]struct {
	yes, no, dontKnow int
}{
	{1, 0, 0},
	{2, -1, 0},
	{1, 0, 0},
	{2, -1, 0},
	{-1, 2, 0},
	{-1, 1, 0},
	{1, 0, 0},
	{1, 0, 0},
	{1, 0, 0},
	{1, 0, 0},
}

// Questions returns a fresh copy of the locale's ten questions in catalog order.
func Questions(locale domain.Locale) ([]domain.Question, error) {
	texts, ok := questionTexts[locale]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownLocale, locale)
	}

	questions := make([]domain.Question, domain.QuestionCount)
	for i := range questions {
		questions[i] = domain.Question{
			ID:            i + 1,
			Text:          texts[i],
			YesScore:      weights[i].yes,
			NoScore:       weights[i].no,
			DontKnowScore: weights[i].dontKnow,
		}
	}
	return questions, nil
}

// MustQuestions is Questions for locales known at compile time.
func MustQuestions(locale domain.Locale) []domain.Question {
	q, err := Questions(locale)
	if err != nil {
		panic(err)
	}
	return q
}

// IsQuestionID reports whether id addresses a catalog question.
func IsQuestionID(id int) bool {
	return id >= 1 && id <= domain.QuestionCount
}
