package db

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/sstent/garminconnect/garmin"
)

// ActivitySource lists remote activities
type ActivitySource interface {
	GetActivities(ctx context.Context, q garmin.ActivitiesQuery) ([]garmin.Activity, error)
}

// ActivityDownloader saves one remote activity to a directory
type ActivityDownloader interface {
	DownloadOriginalActivityData(ctx context.Context, activityID int64, dir string, format garmin.ExportFormat) (string, error)
}

// SyncResult counts what SyncActivities changed
type SyncResult struct {
	Fetched  int
	Inserted int
	Updated  int
}

// SyncActivities pages through the remote activity list and upserts every
// activity into the ledger. Filenames of downloaded activities are kept.
func (d *SQLiteDatabase) SyncActivities(ctx context.Context, src ActivitySource, pageSize int, format garmin.ExportFormat) (SyncResult, error) {
	var result SyncResult
	if pageSize <= 0 {
		pageSize = 100
	}

	localActivities, err := d.GetAll(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to get local activities: %w", err)
	}
	localMap := make(map[int64]Activity, len(localActivities))
	for _, activity := range localActivities {
		localMap[activity.ActivityID] = activity
	}

	for start := 0; ; start += pageSize {
		page, err := src.GetActivities(ctx, garmin.ActivitiesQuery{Start: start, Limit: pageSize})
		if err != nil {
			return result, fmt.Errorf("failed to get Garmin activities: %w", err)
		}
		result.Fetched += len(page)

		for _, ga := range page {
			remote, err := ledgerEntry(ga, format)
			if err != nil {
				return result, err
			}

			local, exists := localMap[remote.ActivityID]
			if !exists {
				if err := d.insertActivity(ctx, remote); err != nil {
					return result, err
				}
				localMap[remote.ActivityID] = remote
				result.Inserted++
				continue
			}

			if local.Downloaded {
				remote.Filename = local.Filename
			}
			if local.Name != remote.Name || local.ActivityType != remote.ActivityType ||
				!local.StartTime.Equal(remote.StartTime) || local.Filename != remote.Filename {
				if err := d.updateActivity(ctx, remote); err != nil {
					return result, err
				}
				result.Updated++
			}
		}

		if len(page) < pageSize {
			break
		}
	}

	d.log.WithFields(logrus.Fields{
		"fetched":  result.Fetched,
		"inserted": result.Inserted,
		"updated":  result.Updated,
	}).Debug("activity ledger synced")
	return result, nil
}

// DownloadMissing downloads every activity not yet marked downloaded. Failures
// are reported through onDone and do not stop the batch.
func (d *SQLiteDatabase) DownloadMissing(ctx context.Context, dl ActivityDownloader, dir string, format garmin.ExportFormat,
	onDone func(activity Activity, err error)) (int, error) {
	missing, err := d.GetMissing(ctx)
	if err != nil {
		return 0, err
	}

	downloaded := 0
	for _, activity := range missing {
		if err := ctx.Err(); err != nil {
			return downloaded, err
		}
		path, err := dl.DownloadOriginalActivityData(ctx, activity.ActivityID, dir, format)
		if err == nil {
			err = d.MarkDownloaded(ctx, activity.ActivityID, path)
		}
		if err == nil {
			downloaded++
		}
		if onDone != nil {
			onDone(activity, err)
		}
	}
	return downloaded, nil
}

func ledgerEntry(ga garmin.Activity, format garmin.ExportFormat) (Activity, error) {
	start, err := ga.StartTime()
	if err != nil {
		return Activity{}, fmt.Errorf("failed to parse start time of activity %d: %w", ga.ActivityID, err)
	}
	return Activity{
		ActivityID:   ga.ActivityID,
		Name:         ga.ActivityName,
		ActivityType: ga.ActivityType.TypeKey,
		StartTime:    start,
		Filename:     strconv.FormatInt(ga.ActivityID, 10) + "." + string(format),
	}, nil
}

func (d *SQLiteDatabase) insertActivity(ctx context.Context, a Activity) error {
	_, err := d.db.ExecContext(ctx,
		"INSERT INTO activities (activity_id, name, activity_type, start_time, filename, downloaded) VALUES (?, ?, ?, ?, ?, ?)",
		a.ActivityID, a.Name, a.ActivityType, a.StartTime.UTC().Format(timeLayout), a.Filename, false,
	)
	if err != nil {
		return fmt.Errorf("failed to insert new activity %d: %w", a.ActivityID, err)
	}
	return nil
}

func (d *SQLiteDatabase) updateActivity(ctx context.Context, a Activity) error {
	_, err := d.db.ExecContext(ctx,
		"UPDATE activities SET name = ?, activity_type = ?, start_time = ?, filename = ? WHERE activity_id = ?",
		a.Name, a.ActivityType, a.StartTime.UTC().Format(timeLayout), a.Filename, a.ActivityID,
	)
	if err != nil {
		return fmt.Errorf("failed to update activity %d: %w", a.ActivityID, err)
	}
	return nil
}
