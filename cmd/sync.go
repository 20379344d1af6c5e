package cmd

import (
	"fmt"

	"github.com/cheggaaa/pb/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sstent/garminconnect/garmin"
	"github.com/sstent/garminconnect/internal/db"
)

const syncBarTemplate = `{{string . "prefix"}}{{counters . }} {{bar . }} {{percent . }} {{rtime . "ETA %s"}}`

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror the activity list locally and download missing activities",
	Long: `Pages through all Garmin Connect activities and records them in the local
ledger. With --download, every activity not yet downloaded is then saved to the
download directory. Failed downloads are reported and left for the next run.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if !garmin.ExportFormat(format).Valid() {
			return fmt.Errorf("invalid --format %q: %w", format, garmin.ErrInvalidFormat)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		download, _ := cmd.Flags().GetBool("download")
		format, _ := cmd.Flags().GetString("format")
		quiet, _ := cmd.Flags().GetBool("quiet")
		exportFormat := garmin.ExportFormat(format)

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Syncing activities with Garmin Connect...")
		result, err := s.database.SyncActivities(cmd.Context(), s.client, cfg.PageSize, exportFormat)
		if err != nil {
			return fmt.Errorf("database sync failed: %w", err)
		}
		fmt.Fprintf(out, "%d activities fetched, %d new, %d updated\n", result.Fetched, result.Inserted, result.Updated)

		if !download {
			return nil
		}

		missing, err := s.database.GetMissing(cmd.Context())
		if err != nil {
			return err
		}
		if len(missing) == 0 {
			fmt.Fprintln(out, "No activities to download")
			return nil
		}

		var bar *pb.ProgressBar
		if !quiet {
			bar = pb.ProgressBarTemplate(syncBarTemplate).New(len(missing))
			bar.SetWriter(cmd.ErrOrStderr())
			bar.Set("prefix", "Downloading: ")
			bar.Start()
		}

		failed := 0
		downloaded, err := s.database.DownloadMissing(cmd.Context(), s.client, cfg.DownloadDir, exportFormat,
			func(activity db.Activity, err error) {
				if bar != nil {
					bar.Increment()
				}
				if err != nil {
					failed++
					logrus.WithError(err).WithField("activity", activity.ActivityID).Warn("download failed")
				}
			})
		if bar != nil {
			bar.Finish()
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Download summary: %d/%d activities downloaded, %d failed\n", downloaded, len(missing), failed)
		return nil
	},
}

func init() {
	syncCmd.Flags().Bool("download", false, "download activities missing from the download directory")
	syncCmd.Flags().String("format", string(garmin.ExportZip), "export format for downloads: zip, tcx, gpx or kml")
	syncCmd.Flags().BoolP("quiet", "q", false, "hide the progress bar")
	rootCmd.AddCommand(syncCmd)
}
