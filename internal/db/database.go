package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

const timeLayout = "2006-01-02 15:04:05"

// Activity is the local ledger entry for a Garmin Connect activity
type Activity struct {
	ActivityID   int64
	Name         string
	ActivityType string
	StartTime    time.Time
	Filename     string
	Downloaded   bool
}

// ActivityRepository provides methods for activity persistence
type ActivityRepository interface {
	GetAll(ctx context.Context) ([]Activity, error)
	GetMissing(ctx context.Context) ([]Activity, error)
	GetDownloaded(ctx context.Context) ([]Activity, error)
	MarkDownloaded(ctx context.Context, activityID int64, filename string) error
}

// SQLiteDatabase implements ActivityRepository and garmin.TokenStore using SQLite
type SQLiteDatabase struct {
	db  *sql.DB
	log logrus.FieldLogger
}

// Option configures a SQLiteDatabase.
type Option func(*SQLiteDatabase)

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *SQLiteDatabase) { d.log = l }
}

// NewDatabase opens the database at path and creates the schema if needed
func NewDatabase(path string, opts ...Option) (*SQLiteDatabase, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite serializes writers; one connection keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	d := &SQLiteDatabase{db: db, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Close closes the database connection
func (d *SQLiteDatabase) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS activities (
		activity_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		activity_type TEXT NOT NULL DEFAULT '',
		start_time TEXT NOT NULL,
		filename TEXT NOT NULL,
		downloaded BOOLEAN NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_downloaded ON activities(downloaded);
	CREATE INDEX IF NOT EXISTS idx_start_time ON activities(start_time);

	CREATE TABLE IF NOT EXISTS tokens (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		oauth1 TEXT NOT NULL,
		oauth2 TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// GetAll returns all activities, newest first
func (d *SQLiteDatabase) GetAll(ctx context.Context) ([]Activity, error) {
	return d.GetAllPaginated(ctx, 0, 0)
}

// GetMissing returns activities that haven't been downloaded yet
func (d *SQLiteDatabase) GetMissing(ctx context.Context) ([]Activity, error) {
	return d.GetMissingPaginated(ctx, 0, 0)
}

// GetDownloaded returns activities that have been downloaded
func (d *SQLiteDatabase) GetDownloaded(ctx context.Context) ([]Activity, error) {
	return d.GetDownloadedPaginated(ctx, 0, 0)
}

// GetAllPaginated returns one page of activities. Pages start at 1; a
// pageSize of 0 returns everything.
func (d *SQLiteDatabase) GetAllPaginated(ctx context.Context, page, pageSize int) ([]Activity, error) {
	activities, err := d.queryActivities(ctx, "", page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get all activities: %w", err)
	}
	return activities, nil
}

// GetMissingPaginated returns a paginated list of missing activities
func (d *SQLiteDatabase) GetMissingPaginated(ctx context.Context, page, pageSize int) ([]Activity, error) {
	activities, err := d.queryActivities(ctx, "WHERE downloaded = 0", page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get missing activities: %w", err)
	}
	return activities, nil
}

// GetDownloadedPaginated returns a paginated list of downloaded activities
func (d *SQLiteDatabase) GetDownloadedPaginated(ctx context.Context, page, pageSize int) ([]Activity, error) {
	activities, err := d.queryActivities(ctx, "WHERE downloaded = 1", page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get downloaded activities: %w", err)
	}
	return activities, nil
}

func (d *SQLiteDatabase) queryActivities(ctx context.Context, where string, page, pageSize int) ([]Activity, error) {
	query := "SELECT activity_id, name, activity_type, start_time, filename, downloaded FROM activities " +
		where + " ORDER BY start_time DESC, activity_id DESC"
	var args []any
	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, pageSize, (page-1)*pageSize)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// GetActivity returns one ledger entry; ok is false if it is unknown
func (d *SQLiteDatabase) GetActivity(ctx context.Context, activityID int64) (Activity, bool, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT activity_id, name, activity_type, start_time, filename, downloaded FROM activities WHERE activity_id = ?",
		activityID)
	if err != nil {
		return Activity{}, false, fmt.Errorf("failed to get activity %d: %w", activityID, err)
	}
	defer rows.Close()

	activities, err := scanActivities(rows)
	if err != nil || len(activities) == 0 {
		return Activity{}, false, err
	}
	return activities[0], true, nil
}

// MarkDownloaded updates the database when an activity is downloaded
func (d *SQLiteDatabase) MarkDownloaded(ctx context.Context, activityID int64, filename string) error {
	res, err := d.db.ExecContext(ctx, "UPDATE activities SET downloaded = 1, filename = ? WHERE activity_id = ?",
		filename, activityID)
	if err != nil {
		return fmt.Errorf("failed to mark activity as downloaded: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("failed to mark activity as downloaded: activity %d not found", activityID)
	}

	return nil
}

// DeleteActivity drops an activity from the ledger
func (d *SQLiteDatabase) DeleteActivity(ctx context.Context, activityID int64) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM activities WHERE activity_id = ?", activityID); err != nil {
		return fmt.Errorf("failed to delete activity %d: %w", activityID, err)
	}
	return nil
}

// scanActivities converts database rows to Activity objects
func scanActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity

	for rows.Next() {
		var activity Activity
		var startTime string

		if err := rows.Scan(&activity.ActivityID, &activity.Name, &activity.ActivityType,
			&startTime, &activity.Filename, &activity.Downloaded); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}

		parsed, err := time.ParseInLocation(timeLayout, startTime, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse start time of activity %d: %w", activity.ActivityID, err)
		}
		activity.StartTime = parsed
		activities = append(activities, activity)
	}

	return activities, rows.Err()
}
