// Package urls maps Garmin Connect operations to endpoint URLs for a domain.
package urls

import (
	"fmt"
	"strings"
)

const (
	// DefaultDomain is used when no domain override is configured.
	DefaultDomain = "garmin.com"
	// ChinaDomain serves accounts registered in mainland China.
	ChinaDomain = "garmin.cn"
)

// Table holds the base URLs derived from a domain. It carries no other state.
type Table struct {
	domain    string
	ssoOrigin string
	api       string
	modern    string
}

// New builds the URL table for domain. An empty domain means DefaultDomain.
func New(domain string) *Table {
	if domain == "" {
		domain = DefaultDomain
	}
	return &Table{
		domain:    domain,
		ssoOrigin: "https://sso." + domain,
		api:       "https://connectapi." + domain,
		modern:    "https://connect." + domain + "/modern",
	}
}

// NewWithHosts builds a table with explicit SSO and API origins, for proxies
// and local test servers.
func NewWithHosts(ssoOrigin, apiBase string) *Table {
	ssoOrigin = strings.TrimRight(ssoOrigin, "/")
	apiBase = strings.TrimRight(apiBase, "/")
	return &Table{
		domain:    DefaultDomain,
		ssoOrigin: ssoOrigin,
		api:       apiBase,
		modern:    apiBase + "/modern",
	}
}

func (t *Table) Domain() string    { return t.domain }
func (t *Table) SSOOrigin() string { return t.ssoOrigin }
func (t *Table) SSO() string       { return t.ssoOrigin + "/sso" }
func (t *Table) SSOEmbed() string  { return t.ssoOrigin + "/sso/embed" }
func (t *Table) SignIn() string    { return t.ssoOrigin + "/sso/signin" }
func (t *Table) Modern() string    { return t.modern }
func (t *Table) API() string       { return t.api }

// OAuth is the base of the OAuth1 preauthorization and OAuth2 exchange endpoints.
func (t *Table) OAuth() string         { return t.api + "/oauth-service/oauth" }
func (t *Table) Preauthorized() string { return t.OAuth() + "/preauthorized" }
func (t *Table) Exchange() string      { return t.OAuth() + "/exchange/user/2.0" }

func (t *Table) UserSettings() string {
	return t.api + "/userprofile-service/userprofile/user-settings/"
}

func (t *Table) UserProfile() string {
	return t.api + "/userprofile-service/socialProfile"
}

func (t *Table) Activities() string {
	return t.api + "/activitylist-service/activities/search/activities"
}

// Activity is the single-activity endpoint, used for GET and DELETE.
func (t *Table) Activity(id string) string {
	return t.api + "/activity-service/activity/" + id
}

func (t *Table) StatActivities() string {
	return t.api + "/fitnessstats-service/activity"
}

func (t *Table) DownloadZip(id string) string {
	return t.api + "/download-service/files/activity/" + id
}

func (t *Table) DownloadGPX(id string) string {
	return t.api + "/download-service/export/gpx/activity/" + id
}

func (t *Table) DownloadTCX(id string) string {
	return t.api + "/download-service/export/tcx/activity/" + id
}

func (t *Table) DownloadKML(id string) string {
	return t.api + "/download-service/export/kml/activity/" + id
}

// DownloadWellness takes a yyyy-mm-dd date string.
func (t *Table) DownloadWellness(date string) string {
	return t.api + "/download-service/files/wellness/" + date
}

// Upload returns the upload endpoint for a file format, e.g. ".../upload.fit".
func (t *Table) Upload(format string) string {
	return t.api + "/upload-service/upload." + format
}

func (t *Table) Workouts() string {
	return t.api + "/workout-service/workouts"
}

// Workout returns the collection path when id is empty.
func (t *Table) Workout(id string) string {
	if id == "" {
		return t.api + "/workout-service/workout"
	}
	return t.api + "/workout-service/workout/" + id
}

func (t *Table) ScheduleWorkout(id string) string {
	return t.api + "/workout-service/schedule/" + id
}

// Calendar uses Garmin's zero-based month (0 = January) without adjustment.
func (t *Table) Calendar(year, month int) string {
	return fmt.Sprintf("%s/calendar-service/year/%d/month/%d", t.api, year, month)
}

func (t *Table) DailySteps(from, to string) string {
	return t.api + "/usersummary-service/stats/steps/daily/" + from + "/" + to
}

func (t *Table) DailySleep() string {
	return t.api + "/sleep-service/sleep/dailySleepData"
}

func (t *Table) DailyWeight(date string) string {
	return t.api + "/weight-service/weight/dayview/" + date
}

func (t *Table) UpdateWeight() string {
	return t.api + "/weight-service/user-weight"
}

func (t *Table) DailyHydration(date string) string {
	return t.api + "/usersummary-service/usersummary/hydration/allData/" + date
}

func (t *Table) HydrationLog() string {
	return t.api + "/usersummary-service/usersummary/hydration/log"
}

func (t *Table) GolfScorecardSummary() string {
	return t.api + "/gcs-golfcommunity/api/v2/scorecard/summary"
}

func (t *Table) GolfScorecardDetail() string {
	return t.api + "/gcs-golfcommunity/api/v2/scorecard/detail"
}

func (t *Table) DailyHeartRate() string {
	return t.api + "/wellness-service/wellness/dailyHeartRate"
}

func (t *Table) CourseOwner() string {
	return t.api + "/web-gateway/course/owner/"
}

func (t *Table) CourseFavorite() string {
	return t.api + "/course-service/course/favorites"
}

// Course returns the collection path when id is empty.
func (t *Table) Course(id string) string {
	return t.api + "/course-service/course/" + id
}

func (t *Table) ConsentGrant() string {
	return t.api + "/consent-service/consent/grant"
}
