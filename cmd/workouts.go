package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sstent/garminconnect/garmin"
)

var workoutsCmd = &cobra.Command{
	Use:   "workouts",
	Short: "Manage workouts",
}

var workoutsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workouts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, _ := cmd.Flags().GetInt("start")
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		workouts, err := s.client.GetWorkouts(cmd.Context(), start, limit)
		if err != nil {
			return err
		}
		for _, w := range workouts {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", w.WorkoutID, w.SportType.SportTypeKey, w.WorkoutName)
		}
		return nil
	},
}

var workoutsGetCmd = &cobra.Command{
	Use:   "get <workout-id>",
	Short: "Show a workout with its segments",
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

		detail, err := s.client.GetWorkoutDetail(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(cmd, detail)
	},
}

var workoutsAddRunCmd = &cobra.Command{
	Use:   "add-run <name> <meters>",
	Short: "Create a single-step running workout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		meters, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid distance %q: %w", args[1], err)
		}
		description, _ := cmd.Flags().GetString("description")

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		created, err := s.client.AddRunningWorkout(cmd.Context(), args[0], meters, description)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created workout %d\n", created.WorkoutID)
		return nil
	},
}

var workoutsAddCmd = &cobra.Command{
	Use:   "add <workout.json>",
	Short: "Create a workout from a JSON workout detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read workout: %w", err)
		}
		detail := &garmin.WorkoutDetail{}
		if err := json.Unmarshal(data, detail); err != nil {
			return fmt.Errorf("failed to decode workout: %w", err)
		}

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		created, err := s.client.AddWorkout(cmd.Context(), garmin.RawWorkout(detail))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created workout %d\n", created.WorkoutID)
		return nil
	},
}

var workoutsDeleteCmd = &cobra.Command{
	Use:   "delete <workout-id>",
	Short: "Delete a workout",
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

		if err := s.client.DeleteWorkout(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted workout %d\n", id)
		return nil
	},
}

var workoutsScheduleCmd = &cobra.Command{
	Use:   "schedule <workout-id> [date]",
	Short: "Put a workout on the calendar (default today)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		date, err := parseDate(dateArg(args[1:]))
		if err != nil {
			return err
		}

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		scheduled, err := s.client.ScheduleWorkout(cmd.Context(), id, date)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Scheduled workout %d on %s\n", id, scheduled.CalendarDate)
		return nil
	},
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a month of the training calendar",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		year, _ := cmd.Flags().GetInt("year")
		month, _ := cmd.Flags().GetInt("month")
		if year == 0 {
			year = now.Year()
		}
		if month == 0 {
			month = int(now.Month())
		}
		if month < 1 || month > 12 {
			return fmt.Errorf("month must be between 1 and 12, got %d", month)
		}

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		// the calendar service counts months from zero
		calendar, err := s.client.GetCalendar(cmd.Context(), year, month-1)
		if err != nil {
			return err
		}
		for _, item := range calendar.CalendarItems {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", item.Date, item.ItemType, item.Title)
		}
		return nil
	},
}

func init() {
	workoutsListCmd.Flags().Int("start", 0, "index of the first workout")
	workoutsListCmd.Flags().Int("limit", 20, "number of workouts to list")
	workoutsAddRunCmd.Flags().String("description", "", "workout description")
	calendarCmd.Flags().Int("year", 0, "calendar year (default current)")
	calendarCmd.Flags().Int("month", 0, "calendar month 1-12 (default current)")

	workoutsCmd.AddCommand(workoutsListCmd, workoutsGetCmd, workoutsAddRunCmd, workoutsAddCmd, workoutsDeleteCmd, workoutsScheduleCmd)
	rootCmd.AddCommand(workoutsCmd, calendarCmd)
}
