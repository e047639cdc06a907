package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naranjo-adr-assessor/internal/catalog"
	"github.com/naranjo-adr-assessor/internal/domain"
	"github.com/naranjo-adr-assessor/internal/session"
)

type assessOutput struct {
	Report              *domain.Report           `json:"report"`
	InterpretationLabel string                   `json:"interpretation_label"`
	Analysis            *domain.AIAnalysisResult `json:"analysis,omitempty"`
}

func newAssessCommand() *cobra.Command {
	var (
		locale   string
		drug     string
		reaction string
		answers  map[string]string
		analyze  bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score a complete Naranjo assessment",
		Example: `  naranjo assess --locale en --drug Amoxicillin --reaction "Maculopapular rash" \
    --answer 1=yes,2=yes,3=yes,4=dk,5=no,6=no,7=dk,8=dk,9=no,10=yes --analyze`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			sess := a.newSession()
			if err := fillSession(sess, locale, drug, reaction, answers); err != nil {
				return err
			}

			report, err := sess.Report()
			if err != nil {
				return err
			}

			result := assessOutput{
				Report:              report,
				InterpretationLabel: catalog.InterpretationLabel(report.Locale, report.Interpretation),
			}
			if analyze {
				analysis, err := sess.Analyze(cmd.Context())
				if err != nil {
					return err
				}
				result.Analysis = analysis
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printAssessment(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", string(domain.DefaultLocale), "language: th, en, lo or my")
	cmd.Flags().StringVar(&drug, "drug", "", "suspected drug")
	cmd.Flags().StringVar(&reaction, "reaction", "", "observed reaction")
	cmd.Flags().StringToStringVarP(&answers, "answer", "a", nil, "answers as id=yes|no|dk, repeatable or comma separated")
	cmd.Flags().BoolVar(&analyze, "analyze", false, "request an AI analysis with the saved settings")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func fillSession(sess *session.Session, locale, drug, reaction string, answers map[string]string) error {
	if err := sess.SetLocale(locale); err != nil {
		return err
	}
	sess.SetEvent(drug, reaction)

	seen := make(map[int]string, len(answers))
	for key, raw := range answers {
		id, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(key)), "Q"))
		if err != nil {
			return fmt.Errorf("%w: %q", domain.ErrUnknownQuestion, key)
		}
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("%w: question %d given twice (%q and %q)", domain.ErrInvalidAnswer, id, prev, key)
		}
		seen[id] = key
		value, err := domain.ParseAnswerValue(raw)
		if err != nil {
			return err
		}
		if err := sess.SetAnswer(id, value); err != nil {
			return err
		}
	}
	return nil
}

func printAssessment(w io.Writer, out assessOutput) {
	r := out.Report
	if r.DrugName != "" {
		fmt.Fprintf(w, "Drug:     %s\n", r.DrugName)
	}
	if r.ReactionDescription != "" {
		fmt.Fprintf(w, "Reaction: %s\n", r.ReactionDescription)
	}
	fmt.Fprintf(w, "Score:    %d\n", r.TotalScore)
	fmt.Fprintf(w, "Result:   %s (%s)\n", out.InterpretationLabel, r.Interpretation)

	rows := append([]domain.AnswerBreakdown(nil), r.Answers...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].QuestionID < rows[j].QuestionID })
	for _, row := range rows {
		answer := domain.ANSWER_UNANSWERED
		if row.Answer != nil {
			answer = *row.Answer
		}
		fmt.Fprintf(w, "  Q%-2d %-9s %+d\n", row.QuestionID, answer, row.Score)
	}

	if a := out.Analysis; a != nil {
		fmt.Fprintf(w, "\nRisk:     %s (%s)\n", catalog.RiskLabel(r.Locale, a.RiskFactor), a.RiskFactor)
		fmt.Fprintf(w, "\n%s\n", a.Analysis)
		for _, rec := range a.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}
}
