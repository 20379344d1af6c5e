package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func dateArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return ""
}

var sleepCmd = &cobra.Command{
	Use:   "sleep [date]",
	Short: "Show sleep for the night ending on a day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(dateArg(args))
		if err != nil {
			return err
		}
		detailed, _ := cmd.Flags().GetBool("detail")

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		if detailed {
			sleep, err := s.client.GetSleepData(cmd.Context(), date)
			if err != nil {
				return err
			}
			return printJSON(cmd, sleep)
		}

		duration, err := s.client.GetSleepDuration(cmd.Context(), date)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Slept %dh %02dm\n", duration.Hours, duration.Minutes)
		return nil
	},
}

var weightCmd = &cobra.Command{
	Use:   "weight [date]",
	Short: "Show or record body weight in pounds",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(dateArg(args))
		if err != nil {
			return err
		}
		set, _ := cmd.Flags().GetFloat64("set")
		tz, _ := cmd.Flags().GetString("tz")

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		if set > 0 {
			if _, err := s.client.UpdateWeight(cmd.Context(), date, set, tz); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %.1f lbs\n", set)
			return nil
		}

		lbs, err := s.client.GetDailyWeightInPounds(cmd.Context(), date)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%.1f lbs\n", lbs)
		return nil
	},
}

var hydrationCmd = &cobra.Command{
	Use:   "hydration [date]",
	Short: "Show or log water intake in ounces",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(dateArg(args))
		if err != nil {
			return err
		}
		add, _ := cmd.Flags().GetFloat64("add")

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		if add != 0 {
			intake, err := s.client.UpdateHydrationLogOunces(cmd.Context(), date, add)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %.1f oz, %.0f ml today\n", add, intake.ValueInML)
			return nil
		}

		oz, err := s.client.GetDailyHydration(cmd.Context(), date)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%.1f oz\n", oz)
		return nil
	},
}

var stepsCmd = &cobra.Command{
	Use:   "steps [date]",
	Short: "Show the step count for a day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(dateArg(args))
		if err != nil {
			return err
		}

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		steps, err := s.client.GetSteps(cmd.Context(), date)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d steps\n", steps)
		return nil
	},
}

var heartRateCmd = &cobra.Command{
	Use:   "heartrate [date]",
	Short: "Show the heart rate summary for a day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(dateArg(args))
		if err != nil {
			return err
		}

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		hr, err := s.client.GetHeartRate(cmd.Context(), date)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "resting %d, min %d, max %d bpm\n", hr.RestingHeartRate, hr.MinHeartRate, hr.MaxHeartRate)
		return nil
	},
}

func init() {
	sleepCmd.Flags().Bool("detail", false, "print the full sleep record")
	weightCmd.Flags().Float64("set", 0, "record this weight in pounds instead of reading")
	weightCmd.Flags().String("tz", "Local", "IANA time zone of the recorded weight")
	hydrationCmd.Flags().Float64("add", 0, "log this many ounces instead of reading")

	rootCmd.AddCommand(sleepCmd, weightCmd, hydrationCmd, stepsCmd, heartRateCmd)
}
