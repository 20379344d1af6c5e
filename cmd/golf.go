package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var golfCmd = &cobra.Command{
	Use:   "golf",
	Short: "Show golf scorecards",
}

var golfSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "List scorecard summaries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		summary, err := s.client.GetGolfSummary(cmd.Context())
		if err != nil {
			return err
		}
		for _, sc := range summary.ScorecardSummaries {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%d strokes\n", sc.ID, sc.StartTime, sc.CourseName, sc.Strokes)
		}
		return nil
	},
}

var golfScorecardCmd = &cobra.Command{
	Use:   "scorecard <scorecard-id>",
	Short: "Show one scorecard hole by hole",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		scorecard, err := s.client.GetGolfScorecard(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(cmd, scorecard)
	},
}

func init() {
	golfCmd.AddCommand(golfSummaryCmd, golfScorecardCmd)
	rootCmd.AddCommand(golfCmd)
}
