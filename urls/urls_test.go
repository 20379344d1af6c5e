package urls

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_DefaultsDomain(t *testing.T) {
	table := New("")

	assert.Equal(t, DefaultDomain, table.Domain())
	assert.Equal(t, "https://sso.garmin.com", table.SSOOrigin())
	assert.Equal(t, "https://connectapi.garmin.com", table.API())
	assert.Equal(t, "https://connect.garmin.com/modern", table.Modern())
}

func TestNew_ChinaDomain(t *testing.T) {
	table := New(ChinaDomain)

	assert.Equal(t, "https://connectapi.garmin.cn/userprofile-service/socialProfile", table.UserProfile())
	assert.Equal(t, "https://sso.garmin.cn/sso/embed", table.SSOEmbed())
}

func TestStaticEndpoints(t *testing.T) {
	table := New(DefaultDomain)

	assert.Equal(t, "https://connectapi.garmin.com/userprofile-service/userprofile/user-settings/", table.UserSettings())
	assert.Equal(t, "https://connectapi.garmin.com/activitylist-service/activities/search/activities", table.Activities())
	assert.Equal(t, "https://connectapi.garmin.com/fitnessstats-service/activity", table.StatActivities())
	assert.Equal(t, "https://connectapi.garmin.com/oauth-service/oauth/exchange/user/2.0", table.Exchange())
}

func TestParameterizedEndpoints(t *testing.T) {
	table := New(DefaultDomain)

	assert.Equal(t, "https://connectapi.garmin.com/activity-service/activity/42", table.Activity("42"))
	assert.Equal(t, "https://connectapi.garmin.com/workout-service/workout/7", table.Workout("7"))
	assert.Equal(t, "https://connectapi.garmin.com/workout-service/workout", table.Workout(""))
	assert.Equal(t, "https://connectapi.garmin.com/course-service/course/9", table.Course("9"))
	assert.Equal(t, "https://connectapi.garmin.com/course-service/course/", table.Course(""))
	assert.Equal(t, "https://connectapi.garmin.com/upload-service/upload.fit", table.Upload("fit"))
	assert.Equal(t, "https://connectapi.garmin.com/usersummary-service/stats/steps/daily/2024-01-02/2024-01-02",
		table.DailySteps("2024-01-02", "2024-01-02"))
}

func TestCalendar_MonthIsZeroBased(t *testing.T) {
	table := New(DefaultDomain)

	assert.Equal(t, "https://connectapi.garmin.com/calendar-service/year/2024/month/0", table.Calendar(2024, 0))
	assert.Equal(t, "https://connectapi.garmin.com/calendar-service/year/2024/month/11", table.Calendar(2024, 11))
}

func TestNewWithHosts_TrimsTrailingSlash(t *testing.T) {
	table := NewWithHosts("http://127.0.0.1:9000/", "http://127.0.0.1:9001/")

	assert.Equal(t, "http://127.0.0.1:9000/sso/signin", table.SignIn())
	assert.Equal(t, "http://127.0.0.1:9001/oauth-service/oauth/preauthorized", table.Preauthorized())
}
