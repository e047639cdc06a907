package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/naranjo-adr-assessor/internal/catalog"
	"github.com/naranjo-adr-assessor/internal/domain"
)

func newQuestionsCommand() *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Print the Naranjo questions and their score weights",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := domain.ParseLocale(locale)
			if err != nil {
				return err
			}
			questions, err := catalog.Questions(l)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n\n", catalog.LanguageName(l))

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tYes\tNo\tDK\tQuestion")
			for _, q := range questions {
				fmt.Fprintf(w, "%d\t%+d\t%+d\t%+d\t%s\n", q.ID, q.YesScore, q.NoScore, q.DontKnowScore, q.Text)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", string(domain.DefaultLocale), "language: th, en, lo or my")

	return cmd
}
