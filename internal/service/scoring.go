package service

import (
	"github.com/naranjo-adr-assessor/internal/domain"
)

// Score sums the weight selected by each answer over the catalog, in catalog order.
// Answers keyed by IDs outside the catalog are ignored.
func Score(catalog []domain.Question, answers domain.AssessmentState) int {
	total := 0
	for _, q := range catalog {
		total += q.ScoreFor(answers[q.ID])
	}
	return total
}

// Breakdown returns one row per catalog question. Unanswered rows carry a nil answer.
func Breakdown(catalog []domain.Question, answers domain.AssessmentState) []domain.AnswerBreakdown {
	rows := make([]domain.AnswerBreakdown, 0, len(catalog))
	for _, q := range catalog {
		row := domain.AnswerBreakdown{QuestionID: q.ID}
		if a := answers[q.ID]; a.IsAnswered() {
			answer := a
			row.Answer = &answer
			row.Score = q.ScoreFor(a)
		}
		rows = append(rows, row)
	}
	return rows
}

// IsComplete reports whether every catalog question has an answer.
func IsComplete(catalog []domain.Question, answers domain.AssessmentState) bool {
	return answers.Answered(catalog) == len(catalog)
}
