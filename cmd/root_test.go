package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sstent/garminconnect/garmin"
	"github.com/sstent/garminconnect/internal/config"
	"github.com/sstent/garminconnect/internal/db"
)

type staticSource []garmin.Activity

func (s staticSource) GetActivities(ctx context.Context, q garmin.ActivitiesQuery) ([]garmin.Activity, error) {
	if q.Start >= len(s) {
		return nil, nil
	}
	return s[q.Start:], nil
}

func seedLedger(t *testing.T, path string, n int) {
	t.Helper()
	database, err := db.NewDatabase(path)
	require.NoError(t, err)
	defer database.Close()

	var src staticSource
	for i := 1; i <= n; i++ {
		src = append(src, garmin.Activity{
			ActivityID:   int64(i),
			StartTimeGMT: time.Date(2024, 5, i, 6, 0, 0, 0, time.UTC).Format(garmin.ActivityTimeLayout),
		})
	}
	_, err = database.SyncActivities(context.Background(), src, 100, garmin.ExportZip)
	require.NoError(t, err)
}

func TestLedger_PagesUntilDeclined(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garmin.db")
	seedLedger(t, path, 5)
	t.Setenv("GARMIN_DATABASE_PATH", path)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader("y\nn\n"))
	rootCmd.SetArgs([]string{"activities", "ledger", "--all", "--page-size", "2"})
	t.Cleanup(func() { rootCmd.SetIn(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())

	got := out.String()
	for _, id := range []string{"5", "4", "3", "2"} {
		assert.Contains(t, got, "Activity ID: "+id+",")
	}
	assert.NotContains(t, got, "Activity ID: 1,")
	assert.Contains(t, got, "Page 2 - Show more?")
}

func TestInitConfig_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("GARMIN_DOMAIN", "garmin.com")
	t.Setenv("GARMIN_LOG_LEVEL", "warn")
	require.NoError(t, rootCmd.PersistentFlags().Set("domain", "garmin.cn"))
	t.Cleanup(func() { rootCmd.PersistentFlags().Set("domain", "") })

	require.NoError(t, initConfig())

	assert.Equal(t, "garmin.cn", cfg.Domain)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.NotNil(t, metrics)
}

func TestInitConfig_RejectsBadLogLevel(t *testing.T) {
	t.Setenv("GARMIN_LOG_LEVEL", "loud")

	assert.Error(t, initConfig())
}

func TestNewSession_RequiresCredentials(t *testing.T) {
	cfg = &config.Config{Domain: "garmin.com", DatabasePath: filepath.Join(t.TempDir(), "garmin.db")}

	_, err := newSession()

	assert.Error(t, err)
}

func TestWriteMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, rootCmd.PersistentFlags().Set("metrics-file", path))
	t.Cleanup(func() { rootCmd.PersistentFlags().Set("metrics-file", "") })
	require.NoError(t, initConfig())

	require.NoError(t, writeMetrics())

	assert.FileExists(t, path)
}

func TestSync_RejectsUnknownFormat(t *testing.T) {
	t.Setenv("GARMIN_DATABASE_PATH", filepath.Join(t.TempDir(), "garmin.db"))
	rootCmd.SetArgs([]string{"sync", "--format", "exe"})
	t.Cleanup(func() { syncCmd.Flags().Set("format", string(garmin.ExportZip)) })

	err := rootCmd.Execute()

	assert.True(t, errors.Is(err, garmin.ErrInvalidFormat))
}

func TestExecute_WritesMetricsOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.prom")
	t.Setenv("GARMIN_DATABASE_PATH", filepath.Join(t.TempDir(), "garmin.db"))
	rootCmd.SetArgs([]string{"--metrics-file", path, "sync", "--format", "exe"})
	t.Cleanup(func() {
		rootCmd.PersistentFlags().Set("metrics-file", "")
		syncCmd.Flags().Set("format", string(garmin.ExportZip))
	})

	err := Execute()

	assert.Error(t, err)
	assert.FileExists(t, path)
}

func TestRecordDownload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "garmin.db")
	seedLedger(t, path, 2)
	database, err := db.NewDatabase(path)
	require.NoError(t, err)

	require.NoError(t, recordDownload(ctx, database, 1, garmin.ExportGPX, "/data/1.gpx"))
	require.NoError(t, recordDownload(ctx, database, 99, garmin.ExportZip, "/data/99.zip"))
	require.NoError(t, recordDownload(ctx, database, 2, "", "/data/2.zip"))

	first, _, err := database.GetActivity(ctx, 1)
	require.NoError(t, err)
	assert.False(t, first.Downloaded, "only the zip export counts")
	second, _, err := database.GetActivity(ctx, 2)
	require.NoError(t, err)
	assert.True(t, second.Downloaded)
	assert.Equal(t, "/data/2.zip", second.Filename)

	require.NoError(t, database.Close())
	assert.Error(t, recordDownload(ctx, database, 2, garmin.ExportZip, "/data/2.zip"), "ledger errors are not swallowed")
}

func TestParseDate(t *testing.T) {
	date, err := parseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", garmin.DateString(date))

	_, err = parseDate("29/02/2024")
	assert.Error(t, err)

	_, err = parseID("abc")
	assert.Error(t, err)
}
