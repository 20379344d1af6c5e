package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sstent/garminconnect/garmin"
	"github.com/sstent/garminconnect/internal/db"
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List, inspect and delete activities",
}

var activitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List activities from Garmin Connect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, _ := cmd.Flags().GetInt("start")
		limit, _ := cmd.Flags().GetInt("limit")
		activityType, _ := cmd.Flags().GetString("type")

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		activities, err := s.client.GetActivities(cmd.Context(), garmin.ActivitiesQuery{
			Start:        start,
			Limit:        limit,
			ActivityType: activityType,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, a := range activities {
			fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%.2f km\n",
				a.ActivityID, a.StartTimeLocal, a.ActivityType.TypeKey, a.ActivityName, a.Distance/1000)
		}
		return nil
	},
}

var activitiesGetCmd = &cobra.Command{
	Use:   "get <activity-id>",
	Short: "Show one activity",
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

		activity, err := s.client.GetActivity(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(cmd, activity)
	},
}

var activitiesCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count activities by type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		counts, err := s.client.CountActivities(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, counts)
	},
}

var activitiesDeleteCmd = &cobra.Command{
	Use:   "delete <activity-id>",
	Short: "Delete an activity from Garmin Connect and the local ledger",
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

		if err := s.client.DeleteActivity(cmd.Context(), id); err != nil {
			return err
		}
		if err := s.database.DeleteActivity(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted activity %d\n", id)
		return nil
	},
}

// ledgerCmd pages through the local activity ledger filled by sync.
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "List activities in the local ledger",
	Long: `List activities recorded by sync with one of the filters:
- All activities
- Missing activities (not yet downloaded)
- Downloaded activities`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listAll, _ := cmd.Flags().GetBool("all")
		listMissing, _ := cmd.Flags().GetBool("missing")
		pageSize, _ := cmd.Flags().GetInt("page-size")
		if pageSize < 1 {
			return fmt.Errorf("page size must be positive, got %d", pageSize)
		}

		database, err := db.NewDatabase(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		out := cmd.OutOrStdout()
		in := bufio.NewScanner(cmd.InOrStdin())
		for page := 1; ; page++ {
			var activities []db.Activity
			switch {
			case listAll:
				activities, err = database.GetAllPaginated(cmd.Context(), page, pageSize)
			case listMissing:
				activities, err = database.GetMissingPaginated(cmd.Context(), page, pageSize)
			default:
				activities, err = database.GetDownloadedPaginated(cmd.Context(), page, pageSize)
			}
			if err != nil {
				return fmt.Errorf("failed to get activities: %w", err)
			}
			if len(activities) == 0 {
				if page == 1 {
					fmt.Fprintln(out, "No activities found")
				}
				return nil
			}

			for _, a := range activities {
				fmt.Fprintf(out, "Activity ID: %d, Start Time: %s, Type: %s, Filename: %s\n",
					a.ActivityID, a.StartTime.Format("2006-01-02 15:04:05"), a.ActivityType, a.Filename)
			}
			if len(activities) < pageSize {
				return nil
			}

			fmt.Fprintf(out, "\nPage %d - Show more? (y/n): ", page)
			if !in.Scan() || strings.ToLower(strings.TrimSpace(in.Text())) != "y" {
				return nil
			}
		}
	},
}

func init() {
	activitiesListCmd.Flags().Int("start", 0, "index of the first activity")
	activitiesListCmd.Flags().Int("limit", 20, "number of activities to list")
	activitiesListCmd.Flags().String("type", "", "activity type key, e.g. running")

	ledgerCmd.Flags().Bool("all", false, "List all activities")
	ledgerCmd.Flags().Bool("missing", false, "List activities that have not been downloaded")
	ledgerCmd.Flags().Bool("downloaded", false, "List activities that have been downloaded")
	ledgerCmd.Flags().Int("page-size", 20, "activities per page")
	ledgerCmd.MarkFlagsMutuallyExclusive("all", "missing", "downloaded")
	ledgerCmd.MarkFlagsOneRequired("all", "missing", "downloaded")

	activitiesCmd.AddCommand(activitiesListCmd, activitiesGetCmd, activitiesCountCmd, activitiesDeleteCmd, ledgerCmd)
	rootCmd.AddCommand(activitiesCmd)
}
