package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sstent/garminconnect/garmin"
	"github.com/sstent/garminconnect/internal/db"
)

var downloadCmd = &cobra.Command{
	Use:   "download <activity-id>",
	Short: "Download an activity export",
	Long:  `Downloads one activity as zip (original FIT), tcx, gpx or kml into the download directory.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		path, err := s.client.DownloadOriginalActivityData(cmd.Context(), id, cfg.DownloadDir, garmin.ExportFormat(format))
		if err != nil {
			return err
		}
		if err := recordDownload(cmd.Context(), s.database, id, garmin.ExportFormat(format), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
		return nil
	},
}

var downloadWellnessCmd = &cobra.Command{
	Use:   "wellness [date]",
	Short: "Download the wellness archive for a day (default today)",
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

		path, err := s.client.DownloadWellnessData(cmd.Context(), date, cfg.DownloadDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
		return nil
	},
}

// recordDownload marks a ledger entry downloaded. Only the original export
// counts, and activities the ledger has never seen are left alone.
func recordDownload(ctx context.Context, database *db.SQLiteDatabase, id int64, format garmin.ExportFormat, path string) error {
	if format != "" && format != garmin.ExportZip {
		return nil
	}
	_, known, err := database.GetActivity(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up activity %d in ledger: %w", id, err)
	}
	if !known {
		logrus.WithField("activity", id).Debug("activity not in ledger")
		return nil
	}
	return database.MarkDownloaded(ctx, id, path)
}

func init() {
	downloadCmd.Flags().String("format", string(garmin.ExportZip), "export format: zip, tcx, gpx or kml")
	downloadCmd.AddCommand(downloadWellnessCmd)
	rootCmd.AddCommand(downloadCmd)
}
