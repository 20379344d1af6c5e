package garmin

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		wantErr    error
		wantDomain string
	}{
		{name: "missing username", cfg: Config{Password: "p"}, wantErr: ErrMissingCredentials},
		{name: "missing password", cfg: Config{Username: "u"}, wantErr: ErrMissingCredentials},
		{name: "default domain", cfg: Config{Username: "u", Password: "p"}, wantDomain: "garmin.com"},
		{name: "china", cfg: Config{Username: "u", Password: "p", Domain: "garmin.cn"}, wantDomain: "garmin.cn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.cfg)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDomain, client.Domain())
			assert.Equal(t, tt.wantDomain, client.URLs().Domain())
		})
	}
}

func TestNew_RejectsUnknownDomain(t *testing.T) {
	_, err := New(Config{Username: "u", Password: "p", Domain: "example.com"})
	assert.Error(t, err)
}

func TestLogin_OverridesCredentials(t *testing.T) {
	client, fake := newTestClient(t)

	require.NoError(t, client.Login(context.Background(), "other", "secret"))

	assert.Equal(t, "other", fake.lastCall(t).Body)
	assert.True(t, fake.session.Valid())
}

func TestMissingIDMakesNoCalls(t *testing.T) {
	ctx := context.Background()
	tests := map[string]func(c *Client) error{
		"GetActivity":    func(c *Client) error { _, err := c.GetActivity(ctx, 0); return err },
		"DeleteActivity": func(c *Client) error { return c.DeleteActivity(ctx, 0) },
		"DownloadOriginalActivityData": func(c *Client) error {
			_, err := c.DownloadOriginalActivityData(ctx, 0, t.TempDir(), ExportZip)
			return err
		},
		"GetWorkoutDetail": func(c *Client) error { _, err := c.GetWorkoutDetail(ctx, 0); return err },
		"DeleteWorkout":    func(c *Client) error { return c.DeleteWorkout(ctx, 0) },
		"ScheduleWorkout":  func(c *Client) error { _, err := c.ScheduleWorkout(ctx, 0, day); return err },
		"GetCourse":        func(c *Client) error { _, err := c.GetCourse(ctx, 0); return err },
		"GetGolfScorecard": func(c *Client) error { _, err := c.GetGolfScorecard(ctx, 0); return err },
	}
	for name, call := range tests {
		t.Run(name, func(t *testing.T) {
			client, fake := newTestClient(t)

			err := call(client)

			assert.True(t, errors.Is(err, ErrMissingID))
			assert.Empty(t, fake.calls)
		})
	}
}

func TestUpstreamErrorsCarryMethodName(t *testing.T) {
	client, fake := newTestClient(t)
	fake.err = errors.New("boom")

	_, err := client.GetSleepData(context.Background(), day)

	require.Error(t, err)
	assert.Equal(t, "GetSleepData: boom", err.Error())
}

func TestGetActivities_Query(t *testing.T) {
	client, fake := newTestClient(t)
	fake.responses[testURLs.Activities()] = `[{"activityId":11,"activityName":"Morning Run","startTimeGMT":"2024-03-01 06:00:00"}]`

	activities, err := client.GetActivities(context.Background(), ActivitiesQuery{Start: 20, Limit: 10, ActivityType: "running"})

	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, int64(11), activities[0].ActivityID)
	start, err := activities[0].StartTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC), start)

	query := fake.lastCall(t).Opts.Query
	assert.Equal(t, "20", query.Get("start"))
	assert.Equal(t, "10", query.Get("limit"))
	assert.Equal(t, "running", query.Get("activityType"))
	assert.False(t, query.Has("subActivityType"))
}

func TestCountActivities_Query(t *testing.T) {
	client, fake := newTestClient(t)

	_, err := client.CountActivities(context.Background())
	require.NoError(t, err)

	query := fake.lastCall(t).Opts.Query
	assert.Equal(t, "lifetime", query.Get("aggregation"))
	assert.Equal(t, "1970-01-01", query.Get("startDate"))
	assert.Equal(t, "duration", query.Get("metric"))
	assert.Len(t, query.Get("endDate"), len("2006-01-02"))
}

func TestUploadActivity(t *testing.T) {
	dir := t.TempDir()
	fitFile := filepath.Join(dir, "ride.fit")
	require.NoError(t, os.WriteFile(fitFile, []byte("FIT-DATA"), 0644))
	gpxFile := filepath.Join(dir, "walk.GPX")
	require.NoError(t, os.WriteFile(gpxFile, []byte("<gpx/>"), 0644))

	t.Run("exe is rejected before any call", func(t *testing.T) {
		client, fake := newTestClient(t)
		_, err := client.UploadActivity(context.Background(), fitFile, "exe")
		assert.True(t, errors.Is(err, ErrInvalidFormat))
		assert.Empty(t, fake.calls)
	})

	t.Run("fit proceeds as multipart userfile", func(t *testing.T) {
		client, fake := newTestClient(t)
		_, err := client.UploadActivity(context.Background(), fitFile, UploadFIT)
		require.NoError(t, err)

		call := fake.lastCall(t)
		assert.Equal(t, "POST", call.Method)
		assert.Equal(t, testURLs.Upload("fit"), call.URL)
		assert.True(t, strings.HasPrefix(call.Opts.Headers["Content-Type"], "multipart/form-data; boundary="))
	})

	t.Run("format inferred from extension", func(t *testing.T) {
		client, fake := newTestClient(t)
		_, err := client.UploadActivity(context.Background(), gpxFile, "")
		require.NoError(t, err)
		assert.Equal(t, testURLs.Upload("gpx"), fake.lastCall(t).URL)
	})

	t.Run("missing file", func(t *testing.T) {
		client, fake := newTestClient(t)
		_, err := client.UploadActivity(context.Background(), filepath.Join(dir, "nope.fit"), "")
		assert.Error(t, err)
		assert.Empty(t, fake.calls)
	})
}

func TestDownloadOriginalActivityData(t *testing.T) {
	t.Run("zip is binary", func(t *testing.T) {
		client, fake := newTestClient(t)
		fake.responses[testURLs.DownloadZip("42")] = "PK-zip"
		dir := filepath.Join(t.TempDir(), "exports")

		path, err := client.DownloadOriginalActivityData(context.Background(), 42, dir, "")

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "42.zip"), path)
		assert.True(t, fake.lastCall(t).Opts.Binary)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "PK-zip", string(data))
	})

	t.Run("gpx is text", func(t *testing.T) {
		client, fake := newTestClient(t)
		fake.responses[testURLs.DownloadGPX("42")] = "<gpx/>"
		dir := t.TempDir()

		path, err := client.DownloadOriginalActivityData(context.Background(), 42, dir, ExportGPX)

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "42.gpx"), path)
		assert.False(t, fake.lastCall(t).Opts.Binary)
	})

	for format, endpoint := range map[ExportFormat]string{
		ExportTCX: testURLs.DownloadTCX("42"),
		ExportKML: testURLs.DownloadKML("42"),
	} {
		t.Run(string(format)+" is text", func(t *testing.T) {
			client, fake := newTestClient(t)
			fake.responses[endpoint] = "<" + string(format) + "/>"
			dir := t.TempDir()

			path, err := client.DownloadOriginalActivityData(context.Background(), 42, dir, format)

			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "42."+string(format)), path)
			call := fake.lastCall(t)
			assert.Equal(t, endpoint, call.URL)
			assert.False(t, call.Opts.Binary)
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "<"+string(format)+"/>", string(data))
		})
	}

	t.Run("unknown type", func(t *testing.T) {
		client, fake := newTestClient(t)
		_, err := client.DownloadOriginalActivityData(context.Background(), 42, t.TempDir(), "csv")
		assert.True(t, errors.Is(err, ErrInvalidFormat))
		assert.Empty(t, fake.calls)
	})
}

func TestDownloadWellnessData(t *testing.T) {
	client, fake := newTestClient(t)
	fake.responses[testURLs.DownloadWellness("2024-03-01")] = "PK-wellness"
	dir := t.TempDir()

	path, err := client.DownloadWellnessData(context.Background(), day, dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2024-03-01.zip"), path)
	assert.True(t, fake.lastCall(t).Opts.Binary)
}

func TestGetCalendar_MonthPassedThrough(t *testing.T) {
	client, fake := newTestClient(t)

	_, err := client.GetCalendar(context.Background(), 2024, 0)

	require.NoError(t, err)
	assert.Equal(t, testURLs.Calendar(2024, 0), fake.lastCall(t).URL)
	assert.True(t, strings.HasSuffix(fake.lastCall(t).URL, "/year/2024/month/0"))
}

func TestGetCourses_DedupKeepsFirstSeen(t *testing.T) {
	client, fake := newTestClient(t)
	fake.responses[testURLs.CourseOwner()] = `{"coursesForUser":[
		{"courseId":1,"courseName":"owned loop"},
		{"courseId":2,"courseName":"owned hill"}]}`
	fake.responses[testURLs.CourseFavorite()] = `[
		{"courseId":2,"courseName":"favorite hill"},
		{"courseId":3,"courseName":"favorite river"}]`

	courses, err := client.GetCourses(context.Background())

	require.NoError(t, err)
	var names []string
	for _, c := range courses {
		names = append(names, c.CourseName)
	}
	assert.Equal(t, []string{"owned loop", "owned hill", "favorite river"}, names)
}

func TestCreateCourse_StripsServerOwnedFields(t *testing.T) {
	client, fake := newTestClient(t)
	consumer := "web"
	course := &CourseDetail{
		CourseID:      99,
		CourseName:    "Copy",
		Description:   "kept",
		DisplayName:   "someone",
		Favorite:      true,
		Consumer:      &consumer,
		DistanceMeter: 5000,
	}

	_, err := client.CreateCourse(context.Background(), course)
	require.NoError(t, err)

	body := fake.lastCall(t).Body.(map[string]any)
	for _, field := range serverOwnedCourseFields {
		assert.NotContains(t, body, field)
	}
	assert.Equal(t, "Copy", body["courseName"])
	assert.Equal(t, "kept", body["description"])
	assert.Equal(t, testURLs.Course(""), fake.lastCall(t).URL)
}

func TestGetSteps(t *testing.T) {
	client, fake := newTestClient(t)
	url := testURLs.DailySteps("2024-03-01", "2024-03-01")

	fake.responses[url] = `[{"calendarDate":"2024-02-29","totalSteps":1},{"calendarDate":"2024-03-01","totalSteps":10432}]`
	steps, err := client.GetSteps(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 10432, steps)

	fake.responses[url] = `[]`
	_, err = client.GetSteps(context.Background(), day)
	assert.True(t, errors.Is(err, ErrInvalidResponse))
}

func TestGetSleepDuration(t *testing.T) {
	start := int64(1709244000000)
	end := start + (8*60+30)*60*1000

	t.Run("eight and a half hours", func(t *testing.T) {
		client, fake := newTestClient(t)
		fake.responses[testURLs.DailySleep()] = `{"dailySleepDTO":{"sleepStartTimestampGMT":` +
			formatID(start) + `,"sleepEndTimestampGMT":` + formatID(end) + `}}`

		duration, err := client.GetSleepDuration(context.Background(), day)

		require.NoError(t, err)
		assert.Equal(t, SleepDuration{Hours: 8, Minutes: 30}, duration)
		assert.Equal(t, "2024-03-01", fake.lastCall(t).Opts.Query.Get("date"))
	})

	t.Run("missing timestamps", func(t *testing.T) {
		client, fake := newTestClient(t)
		fake.responses[testURLs.DailySleep()] = `{"dailySleepDTO":{"calendarDate":"2024-03-01"}}`

		_, err := client.GetSleepDuration(context.Background(), day)
		assert.True(t, errors.Is(err, ErrInvalidResponse))
	})

	t.Run("empty response", func(t *testing.T) {
		client, _ := newTestClient(t)
		_, err := client.GetSleepData(context.Background(), day)
		assert.True(t, errors.Is(err, ErrInvalidResponse))
	})
}

func TestGetDailyWeightInPounds(t *testing.T) {
	client, fake := newTestClient(t)
	url := testURLs.DailyWeight("2024-03-01")

	fake.responses[url] = `{"totalAverage":{"weight":453592.37}}`
	lbs, err := client.GetDailyWeightInPounds(context.Background(), day)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, lbs, 1e-6)

	fake.responses[url] = `{"totalAverage":{"weight":null}}`
	_, err = client.GetDailyWeightInPounds(context.Background(), day)
	assert.True(t, errors.Is(err, ErrInvalidResponse))
}

func TestGetDailyHydration(t *testing.T) {
	client, fake := newTestClient(t)
	url := testURLs.DailyHydration("2024-03-01")

	fake.responses[url] = `{"valueInML":591.47059125}`
	oz, err := client.GetDailyHydration(context.Background(), day)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, oz, 1e-6)

	fake.responses[url] = `{"valueInML":null}`
	_, err = client.GetDailyHydration(context.Background(), day)
	assert.True(t, errors.Is(err, ErrInvalidResponse))
}

func TestUpdateWeight_Body(t *testing.T) {
	client, fake := newTestClient(t)

	_, err := client.UpdateWeight(context.Background(), day, 172.5, "America/New_York")
	require.NoError(t, err)

	body := fake.lastCall(t).Body.(map[string]any)
	assert.Equal(t, "2024-03-01T04:30:00.000", body["dateTimestamp"])
	assert.Equal(t, "2024-03-01T09:30:00.000", body["gmtTimestamp"])
	assert.Equal(t, "lbs", body["unitKey"])
	assert.Equal(t, 172.5, body["value"])

	_, err = client.UpdateWeight(context.Background(), day, 172.5, "Not/AZone")
	assert.Error(t, err)
}

func TestUpdateHydrationLogOunces_Body(t *testing.T) {
	client, fake := newTestClient(t)
	fake.responses[testURLs.UserProfile()] = `{"profileId":777,"displayName":"runner"}`

	_, err := client.UpdateHydrationLogOunces(context.Background(), day, 16)
	require.NoError(t, err)

	call := fake.lastCall(t)
	assert.Equal(t, "PUT", call.Method)
	assert.Equal(t, testURLs.HydrationLog(), call.URL)
	body := call.Body.(map[string]any)
	assert.Equal(t, "2024-03-01", body["calendarDate"])
	assert.InDelta(t, 473.176473, body["valueInML"].(float64), 1e-6)
	assert.Equal(t, int64(777), body["userProfileId"])
}

func TestGetHeartRate(t *testing.T) {
	client, fake := newTestClient(t)
	fake.responses[testURLs.DailyHeartRate()] = `{"calendarDate":"2024-03-01","restingHeartRate":48,"heartRateValues":[[1709251200000,52],[1709251320000,null]]}`

	heartRate, err := client.GetHeartRate(context.Background(), day)

	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", fake.lastCall(t).Opts.Query.Get("date"))
	assert.Equal(t, 48, heartRate.RestingHeartRate)
	require.Len(t, heartRate.HeartRateValues, 2)
	assert.Nil(t, heartRate.HeartRateValues[1][1])
}

func TestEmptyResponsesAreInvalid(t *testing.T) {
	t.Run("heart rate", func(t *testing.T) {
		client, fake := newTestClient(t)
		fake.responses[testURLs.DailyHeartRate()] = `null`

		_, err := client.GetHeartRate(context.Background(), day)

		assert.True(t, errors.Is(err, ErrInvalidResponse))
	})

	t.Run("golf summary", func(t *testing.T) {
		client, _ := newTestClient(t)

		_, err := client.GetGolfSummary(context.Background())

		assert.True(t, errors.Is(err, ErrInvalidResponse))
	})
}

func TestGetGolfScorecard_Query(t *testing.T) {
	client, fake := newTestClient(t)
	fake.responses[testURLs.GolfScorecardDetail()] = `{"scorecardDetails":[]}`

	_, err := client.GetGolfScorecard(context.Background(), 31)

	require.NoError(t, err)
	assert.Equal(t, "31", fake.lastCall(t).Opts.Query.Get("scorecard-ids"))
}

func TestConsentGrant_Body(t *testing.T) {
	client, fake := newTestClient(t)

	require.NoError(t, client.ConsentGrant(context.Background()))

	assert.Equal(t, map[string]string{
		"consentTypeId":  "DI_CONNECT_UPLOAD",
		"consentLocale":  "en-US",
		"consentVersion": "59",
	}, fake.lastCall(t).Body)
}
