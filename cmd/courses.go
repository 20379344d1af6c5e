package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List, inspect and copy courses",
}

var coursesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List owned and favorite courses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		courses, err := s.client.GetCourses(cmd.Context())
		if err != nil {
			return err
		}
		for _, c := range courses {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%.2f km\n", c.CourseID, c.CourseName, c.DistanceInMeters/1000)
		}
		return nil
	},
}

var coursesGetCmd = &cobra.Command{
	Use:   "get <course-id>",
	Short: "Show a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		asPolyline, _ := cmd.Flags().GetBool("polyline")

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		course, err := s.client.GetCourse(cmd.Context(), id)
		if err != nil {
			return err
		}
		if asPolyline {
			fmt.Fprintln(cmd.OutOrStdout(), course.Polyline())
			return nil
		}
		return printJSON(cmd, course)
	},
}

var coursesCopyCmd = &cobra.Command{
	Use:   "copy <course-id>",
	Short: "Copy a course into your account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		course, err := s.client.GetCourse(cmd.Context(), id)
		if err != nil {
			return err
		}
		if name != "" {
			course.CourseName = name
		}
		created, err := s.client.CreateCourse(cmd.Context(), course)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created course %d\n", created.CourseID)
		return nil
	},
}

func init() {
	coursesGetCmd.Flags().Bool("polyline", false, "print the track as an encoded polyline")
	coursesCopyCmd.Flags().String("name", "", "name of the copy (default: same name)")

	coursesCmd.AddCommand(coursesListCmd, coursesGetCmd, coursesCopyCmd)
	rootCmd.AddCommand(coursesCmd)
}
