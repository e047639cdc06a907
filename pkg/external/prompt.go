package external

import (
	"fmt"
	"strings"

	"github.com/naranjo-adr-assessor/internal/catalog"
	"github.com/naranjo-adr-assessor/internal/domain"
)

const systemPrompt = "You are an expert clinical pharmacist. Analyze the Naranjo Adverse Drug Reaction (ADR) assessment."

// BuildPrompt renders the analysis prompt for a report. The output depends only on the
// report, so both providers see identical text for the same assessment.
func BuildPrompt(report *domain.Report) string {
	language := catalog.LanguageName(report.Locale)

	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n")

	b.WriteString("Patient Context:\n")
	fmt.Fprintf(&b, "- Suspected Drug: %s\n", report.DrugName)
	fmt.Fprintf(&b, "- Reaction Description: %s\n", report.ReactionDescription)
	if p := report.PatientContext; p != nil && len(p.History) > 0 {
		b.WriteString("- Known Drug Allergy History:\n")
		for _, h := range p.History {
			fmt.Fprintf(&b, "  - %s: %s", h.DrugName, h.Symptoms)
			if h.ReactionDate != "" {
				fmt.Fprintf(&b, " (%s)", h.ReactionDate)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	b.WriteString("Assessment Result:\n")
	fmt.Fprintf(&b, "- Naranjo Total Score: %d\n", report.TotalScore)
	fmt.Fprintf(&b, "- Interpretation: %s\n\n", catalog.InterpretationLabel(report.Locale, report.Interpretation))

	b.WriteString("Breakdown of answers:\n")
	for _, a := range report.Answers {
		answer := domain.ANSWER_UNANSWERED
		if a.Answer != nil {
			answer = *a.Answer
		}
		fmt.Fprintf(&b, "Q%d: %s (Score: %d)\n", a.QuestionID, answer, a.Score)
	}
	b.WriteString("\n")

	b.WriteString("Please provide a structured clinical analysis in JSON format containing:\n")
	fmt.Fprintf(&b, "1. \"analysis\": A concise professional summary of why this score was reached and the clinical implication (In %s).\n", language)
	fmt.Fprintf(&b, "2. \"recommendations\": A list of 3-5 actionable steps for the healthcare provider (e.g., discontinuation, monitoring) (In %s).\n", language)
	b.WriteString("3. \"riskFactor\": Assess the risk as \"Low\", \"Medium\", or \"High\".\n\n")
	b.WriteString("IMPORTANT: Return ONLY valid JSON. Do not include markdown formatting or introductory text.\n")

	return b.String()
}
