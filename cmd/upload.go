package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sstent/garminconnect/garmin"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a fit, gpx or tcx activity file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		consent, _ := cmd.Flags().GetBool("consent")

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		if consent {
			if err := s.client.ConsentGrant(cmd.Context()); err != nil {
				return err
			}
		}
		result, err := s.client.UploadActivity(cmd.Context(), args[0], garmin.UploadFormat(format))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (upload %d)\n", args[0], result.DetailedImportResult.UploadID)
		return nil
	},
}

func init() {
	uploadCmd.Flags().String("format", "", "fit, gpx or tcx (default: file extension)")
	uploadCmd.Flags().Bool("consent", false, "grant the upload consent first, needed once for new accounts")
	rootCmd.AddCommand(uploadCmd)
}
