package garmin

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"github.com/twpayne/go-polyline"
)

// Course is the summary returned by the course lists.
type Course struct {
	CourseID              int64         `json:"courseId"`
	UserProfileID         int64         `json:"userProfileId"`
	DisplayName           string        `json:"displayName"`
	ActivityType          *ActivityType `json:"activityType"`
	CourseName            string        `json:"courseName"`
	CourseDescription     *string       `json:"courseDescription"`
	CreatedDate           int64         `json:"createdDate"`
	UpdatedDate           int64         `json:"updatedDate"`
	PrivacyRule           *PrivacyRule  `json:"privacyRule"`
	DistanceInMeters      float64       `json:"distanceInMeters"`
	ElevationGainInMeters float64       `json:"elevationGainInMeters"`
	ElevationLossInMeters float64       `json:"elevationLossInMeters"`
	StartLatitude         float64       `json:"startLatitude"`
	StartLongitude        float64       `json:"startLongitude"`
	SpeedInMetersPerSec   float64       `json:"speedInMetersPerSecond"`
	SourceTypeID          int           `json:"sourceTypeId"`
	CoordinateSystem      string        `json:"coordinateSystem"`
	Favorite              bool          `json:"favorite"`
	Public                bool          `json:"public"`
	CreatedDateFormatted  string        `json:"createdDateFormatted"`
	UpdatedDateFormatted  string        `json:"updatedDateFormatted"`
}

// PrivacyRule is the visibility of a course.
type PrivacyRule struct {
	TypeID  int    `json:"typeId"`
	TypeKey string `json:"typeKey"`
}

type coursesForUser struct {
	CoursesForUser []Course `json:"coursesForUser"`
}

// CourseDetail is a full course including its track.
type CourseDetail struct {
	CourseID                 int64        `json:"courseId,omitempty"`
	CourseName               string       `json:"courseName"`
	Description              string       `json:"description"`
	OpenStreetMap            bool         `json:"openStreetMap"`
	MatchedToSegments        bool         `json:"matchedToSegments"`
	UserProfilePK            int64        `json:"userProfilePk"`
	UserGroupPK              *int64       `json:"userGroupPk"`
	RulePK                   int          `json:"rulePK"`
	FirstName                string       `json:"firstName"`
	LastName                 *string      `json:"lastName"`
	DisplayName              string       `json:"displayName"`
	GeoRoutePK               int64        `json:"geoRoutePk"`
	SourceTypeID             int          `json:"sourceTypeId"`
	SourcePK                 *int64       `json:"sourcePk"`
	DistanceMeter            float64      `json:"distanceMeter"`
	ElevationGainMeter       float64      `json:"elevationGainMeter"`
	ElevationLossMeter       float64      `json:"elevationLossMeter"`
	StartPoint               *GeoPoint    `json:"startPoint"`
	GeoPoints                []GeoPoint   `json:"geoPoints"`
	CoursePoints             any          `json:"coursePoints"`
	BoundingBox              *BoundingBox `json:"boundingBox"`
	HasShareableEvent        bool         `json:"hasShareableEvent"`
	HasTurnDetectionDisabled bool         `json:"hasTurnDetectionDisabled"`
	ActivityTypePK           int          `json:"activityTypePk"`
	VirtualPartnerID         int64        `json:"virtualPartnerId"`
	IncludeLaps              bool         `json:"includeLaps"`
	ElapsedSeconds           *float64     `json:"elapsedSeconds"`
	SpeedMeterPerSecond      *float64     `json:"speedMeterPerSecond"`
	CreateDate               string       `json:"createDate"`
	UpdateDate               string       `json:"updateDate"`
	CourseLines              []CourseLine `json:"courseLines"`
	CoordinateSystem         string       `json:"coordinateSystem"`
	TargetCoordinateSystem   string       `json:"targetCoordinateSystem"`
	OriginalCoordinateSystem string       `json:"originalCoordinateSystem"`
	Consumer                 *string      `json:"consumer"`
	ElevationSource          int          `json:"elevationSource"`
	HasPaceBand              bool         `json:"hasPaceBand"`
	HasPowerGuide            bool         `json:"hasPowerGuide"`
	Favorite                 bool         `json:"favorite"`
	CuratedCoursePK          *int64       `json:"curatedCoursePk"`
}

// GeoPoint distance is in meters and timestamp in epoch milliseconds; both may
// be absent on a start point.
type GeoPoint struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Elevation float64  `json:"elevation"`
	Distance  *float64 `json:"distance"`
	Timestamp *int64   `json:"timestamp"`
}

// LatLng is a coordinate in degrees.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BoundingBox encloses a course track.
type BoundingBox struct {
	Center              *LatLng `json:"center"`
	LowerLeft           LatLng  `json:"lowerLeft"`
	UpperRight          LatLng  `json:"upperRight"`
	LowerLeftLatIsSet   bool    `json:"lowerLeftLatIsSet"`
	LowerLeftLongIsSet  bool    `json:"lowerLeftLongIsSet"`
	UpperRightLatIsSet  bool    `json:"upperRightLatIsSet"`
	UpperRightLongIsSet bool    `json:"upperRightLongIsSet"`
}

// CourseLine is one line of a course track.
type CourseLine struct {
	CourseID         int64   `json:"courseId"`
	SortOrder        int     `json:"sortOrder"`
	NumberOfPoints   int     `json:"numberOfPoints"`
	DistanceInMeters float64 `json:"distanceInMeters"`
	Bearing          float64 `json:"bearing"`
	Points           any     `json:"points"`
}

// serverOwnedCourseFields are assigned by Garmin and rejected on create.
var serverOwnedCourseFields = []string{
	"courseId",
	"matchedToSegments",
	"userProfilePk",
	"userGroupPk",
	"firstName",
	"lastName",
	"displayName",
	"geoRoutePk",
	"sourcePk",
	"hasShareableEvent",
	"virtualPartnerId",
	"includeLaps",
	"speedMeterPerSecond",
	"createDate",
	"updateDate",
	"targetCoordinateSystem",
	"originalCoordinateSystem",
	"consumer",
	"elevationSource",
	"hasPaceBand",
	"hasPowerGuide",
	"favorite",
	"curatedCoursePk",
}

// Polyline encodes the course track with the Google polyline algorithm.
func (d *CourseDetail) Polyline() string {
	coords := make([][]float64, 0, len(d.GeoPoints))
	for _, p := range d.GeoPoints {
		coords = append(coords, []float64{p.Latitude, p.Longitude})
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodeGeoPoints turns an encoded polyline into track points, for building
// a CourseDetail to pass to CreateCourse.
func DecodeGeoPoints(encoded string) ([]GeoPoint, error) {
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.Wrap(err, "could not decode polyline")
	}
	points := make([]GeoPoint, 0, len(coords))
	for _, c := range coords {
		points = append(points, GeoPoint{Latitude: c[0], Longitude: c[1]})
	}
	return points, nil
}

// uniqBy keeps the first element seen for each key, preserving order.
func uniqBy[T any, K comparable](items []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// omitFields marshals v to a JSON object and drops keys.
func omitFields(v any, keys ...string) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	for _, k := range keys {
		delete(fields, k)
	}
	return fields, nil
}

// GetCourses merges the user's own and favorite courses, keeping the first
// entry for each course id.
func (c *Client) GetCourses(ctx context.Context) ([]Course, error) {
	owned := coursesForUser{}
	if err := c.http.Get(ctx, c.url.CourseOwner(), nil, &owned); err != nil {
		return nil, errors.Wrap(err, "GetCourses")
	}
	var favorites []Course
	if err := c.http.Get(ctx, c.url.CourseFavorite(), nil, &favorites); err != nil {
		return nil, errors.Wrap(err, "GetCourses")
	}

	merged := append(owned.CoursesForUser, favorites...)
	return uniqBy(merged, func(course Course) int64 { return course.CourseID }), nil
}

// GetCourse fetches a course with its geo points.
func (c *Client) GetCourse(ctx context.Context, courseID int64) (*CourseDetail, error) {
	if courseID == 0 {
		return nil, errors.Wrap(ErrMissingID, "GetCourse: courseId")
	}
	detail := &CourseDetail{}
	if err := c.http.Get(ctx, c.url.Course(formatID(courseID)), nil, detail); err != nil {
		return nil, errors.Wrap(err, "GetCourse")
	}
	return detail, nil
}

// CreateCourse creates a copy of course under the current user. Fields owned
// by the server are not sent.
func (c *Client) CreateCourse(ctx context.Context, course *CourseDetail) (*CourseDetail, error) {
	if course == nil {
		return nil, errors.New("CreateCourse: missing course")
	}
	body, err := omitFields(course, serverOwnedCourseFields...)
	if err != nil {
		return nil, errors.Wrap(err, "CreateCourse: could not encode course")
	}
	created := &CourseDetail{}
	if err := c.http.Post(ctx, c.url.Course(""), body, nil, created); err != nil {
		return nil, errors.Wrap(err, "CreateCourse")
	}
	return created, nil
}
