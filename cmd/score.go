package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/wordscore/internal/domain/scoring"
)

func scoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "score WORD...",
		Short: "Print the score of each word",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, word := range args {
				points, err := scoring.ComputeScore(word)
				if err != nil {
					_ = w.Flush()
					return fmt.Errorf("%s: %w", word, err)
				}
				fmt.Fprintf(w, "%s\t%d\n", scoring.Normalize(word), points)
			}
			return w.Flush()
		},
	}
}

func rulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the letter value table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "POINTS\tLETTERS")
			for _, band := range scoring.Rules() {
				fmt.Fprintf(w, "%d\t%s\n", band.Points, band.Letters)
			}
			return w.Flush()
		},
	}
}
