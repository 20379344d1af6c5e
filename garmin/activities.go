package garmin

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sstent/garminconnect/internal/fsutil"
)

// GetUserSettings returns the account settings of the logged in user.
func (c *Client) GetUserSettings(ctx context.Context) (*UserSettings, error) {
	settings := &UserSettings{}
	if err := c.http.Get(ctx, c.url.UserSettings(), nil, settings); err != nil {
		return nil, errors.Wrap(err, "GetUserSettings")
	}
	return settings, nil
}

// GetUserProfile returns the social profile, which carries the profile id.
func (c *Client) GetUserProfile(ctx context.Context) (*SocialProfile, error) {
	profile := &SocialProfile{}
	if err := c.http.Get(ctx, c.url.UserProfile(), nil, profile); err != nil {
		return nil, errors.Wrap(err, "GetUserProfile")
	}
	return profile, nil
}

// GetActivities lists activities, newest first.
func (c *Client) GetActivities(ctx context.Context, q ActivitiesQuery) ([]Activity, error) {
	query := url.Values{}
	query.Set("start", strconv.Itoa(q.Start))
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.ActivityType != "" {
		query.Set("activityType", q.ActivityType)
	}
	if q.SubActivityType != "" {
		query.Set("subActivityType", q.SubActivityType)
	}

	var activities []Activity
	if err := c.http.Get(ctx, c.url.Activities(), &RequestOptions{Query: query}, &activities); err != nil {
		return nil, errors.Wrap(err, "GetActivities")
	}
	return activities, nil
}

// GetActivity fetches one activity.
func (c *Client) GetActivity(ctx context.Context, activityID int64) (*Activity, error) {
	if activityID == 0 {
		return nil, errors.Wrap(ErrMissingID, "GetActivity: activityId")
	}
	activity := &Activity{}
	if err := c.http.Get(ctx, c.url.Activity(formatID(activityID)), nil, activity); err != nil {
		return nil, errors.Wrap(err, "GetActivity")
	}
	return activity, nil
}

// CountActivities returns lifetime activity totals up to today.
func (c *Client) CountActivities(ctx context.Context) (*ActivityCounts, error) {
	query := url.Values{
		"aggregation": {"lifetime"},
		"startDate":   {"1970-01-01"},
		"endDate":     {DateString(time.Now())},
		"metric":      {"duration"},
	}
	counts := &ActivityCounts{}
	if err := c.http.Get(ctx, c.url.StatActivities(), &RequestOptions{Query: query}, counts); err != nil {
		return nil, errors.Wrap(err, "CountActivities")
	}
	return counts, nil
}

// DeleteActivity removes an activity from the account.
func (c *Client) DeleteActivity(ctx context.Context, activityID int64) error {
	if activityID == 0 {
		return errors.Wrap(ErrMissingID, "DeleteActivity: activityId")
	}
	if err := c.http.Delete(ctx, c.url.Activity(formatID(activityID)), nil); err != nil {
		return errors.Wrap(err, "DeleteActivity")
	}
	return nil
}

// DownloadWellnessData saves the wellness archive for date as <date>.zip in
// dir and returns its path.
func (c *Client) DownloadWellnessData(ctx context.Context, date time.Time, dir string) (string, error) {
	day := DateString(date)
	if err := fsutil.EnsureDirectory(dir); err != nil {
		return "", errors.Wrap(err, "DownloadWellnessData")
	}

	var data []byte
	if err := c.http.Get(ctx, c.url.DownloadWellness(day), &RequestOptions{Binary: true}, &data); err != nil {
		return "", errors.Wrap(err, "DownloadWellnessData")
	}

	path := filepath.Join(dir, day+".zip")
	if err := fsutil.WriteFile(path, data); err != nil {
		return "", errors.Wrap(err, "DownloadWellnessData")
	}
	return path, nil
}

// DownloadOriginalActivityData saves an activity export as <id>.<format> in
// dir and returns its path. An empty format means zip.
func (c *Client) DownloadOriginalActivityData(ctx context.Context, activityID int64, dir string, format ExportFormat) (string, error) {
	if activityID == 0 {
		return "", errors.Wrap(ErrMissingID, "DownloadOriginalActivityData: activityId")
	}
	if format == "" {
		format = ExportZip
	}

	id := formatID(activityID)
	var endpoint string
	switch format {
	case ExportZip:
		endpoint = c.url.DownloadZip(id)
	case ExportTCX:
		endpoint = c.url.DownloadTCX(id)
	case ExportGPX:
		endpoint = c.url.DownloadGPX(id)
	case ExportKML:
		endpoint = c.url.DownloadKML(id)
	default:
		return "", errors.Wrapf(ErrInvalidFormat, "DownloadOriginalActivityData: %q", format)
	}

	if err := fsutil.EnsureDirectory(dir); err != nil {
		return "", errors.Wrap(err, "DownloadOriginalActivityData")
	}

	var data []byte
	if err := c.http.Get(ctx, endpoint, &RequestOptions{Binary: format == ExportZip}, &data); err != nil {
		return "", errors.Wrap(err, "DownloadOriginalActivityData")
	}

	path := filepath.Join(dir, id+"."+string(format))
	if err := fsutil.WriteFile(path, data); err != nil {
		return "", errors.Wrap(err, "DownloadOriginalActivityData")
	}
	c.log.WithFields(logrus.Fields{"activity": activityID, "path": path}).Debug("downloaded activity")
	return path, nil
}

// UploadActivity uploads a fit, gpx or tcx file. An empty format is taken
// from the file extension.
func (c *Client) UploadActivity(ctx context.Context, file string, format UploadFormat) (*UploadResult, error) {
	if format == "" {
		format = UploadFormat(strings.TrimPrefix(filepath.Ext(file), "."))
	}
	format = UploadFormat(strings.ToLower(string(format)))
	if !format.valid() {
		return nil, errors.Wrapf(ErrInvalidFormat, "UploadActivity: %q", format)
	}

	body, contentType, err := multipartFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "UploadActivity")
	}

	result := &UploadResult{}
	opts := &RequestOptions{Headers: map[string]string{"Content-Type": contentType}}
	if err := c.http.Post(ctx, c.url.Upload(string(format)), body, opts, result); err != nil {
		return nil, errors.Wrap(err, "UploadActivity")
	}
	return result, nil
}

// multipartFile encodes file as the "userfile" field of a multipart form.
func multipartFile(file string) (io.Reader, string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, "", errors.Wrap(err, "could not open upload")
	}
	defer f.Close()

	buf := &bytes.Buffer{}
	form := multipart.NewWriter(buf)
	part, err := form.CreateFormFile("userfile", filepath.Base(file))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", errors.Wrap(err, "could not read upload")
	}
	if err := form.Close(); err != nil {
		return nil, "", err
	}
	return buf, form.FormDataContentType(), nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
