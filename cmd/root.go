// Package cmd implements the garminconnect command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sstent/garminconnect/httpclient"
	"github.com/sstent/garminconnect/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	cfg      *config.Config
	registry *prometheus.Registry
	metrics  *httpclient.Metrics
)

var rootCmd = &cobra.Command{
	Use:   "garminconnect",
	Short: "Command line client for Garmin Connect",
	Long: `garminconnect talks to the Garmin Connect web API:
1. Authenticates and keeps the OAuth token pair on disk and in SQLite
2. Lists, downloads, uploads and deletes activities
3. Manages workouts, courses and the training calendar
4. Reads and records wellness data (sleep, weight, hydration, steps, heart rate)
5. Mirrors the activity list into a local ledger and downloads what is missing`,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return initConfig() },
}

// Execute runs the root command until it finishes or the process is
// interrupted. Metrics are written whether or not the command succeeded.
func Execute() (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() {
		if werr := writeMetrics(); werr != nil {
			if err == nil {
				err = werr
				return
			}
			logrus.WithError(werr).Warn("metrics not written")
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("username", "", "Garmin Connect username (env GARMIN_USERNAME)")
	flags.String("password", "", "Garmin Connect password (env GARMIN_PASSWORD)")
	flags.String("domain", "", "Garmin Connect domain, garmin.com or garmin.cn")
	flags.String("token-dir", "", "directory holding oauth1_token.json and oauth2_token.json")
	flags.String("database-path", "", "SQLite database for tokens and the activity ledger")
	flags.String("download-dir", "", "directory downloads are written to")
	flags.String("log-level", "", "log level: trace, debug, info, warn or error")
	flags.Duration("timeout", 0, "HTTP request timeout")
	flags.String("metrics-file", "", "write request metrics in Prometheus text format to this file on exit")

	viper.SetEnvPrefix("GARMIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
}

// initConfig loads the environment through config.LoadConfig and lets flags
// override it.
func initConfig() error {
	loaded, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	overlay(&loaded.GarminUsername, "username")
	overlay(&loaded.GarminPassword, "password")
	overlay(&loaded.Domain, "domain")
	overlay(&loaded.TokenDir, "token-dir")
	overlay(&loaded.DatabasePath, "database-path")
	overlay(&loaded.DownloadDir, "download-dir")
	overlay(&loaded.LogLevel, "log-level")
	if viper.IsSet("timeout") && viper.GetDuration("timeout") > 0 {
		loaded.Timeout = viper.GetDuration("timeout")
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	level, err := logrus.ParseLevel(loaded.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	logrus.SetLevel(level)

	registry = prometheus.NewRegistry()
	if metrics, err = httpclient.NewMetrics(registry); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	cfg = loaded
	return nil
}

func overlay(dst *string, key string) {
	if viper.IsSet(key) && viper.GetString(key) != "" {
		*dst = viper.GetString(key)
	}
}

func writeMetrics() error {
	path := viper.GetString("metrics-file")
	if path == "" || registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	logrus.WithField("path", path).Debug("metrics written")
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
