package garmin

import "time"

// ActivityTimeLayout is the layout of Activity.StartTimeLocal and StartTimeGMT.
const ActivityTimeLayout = "2006-01-02 15:04:05"

// ActivityType classifies an activity, for example running.
type ActivityType struct {
	TypeID       int    `json:"typeId"`
	TypeKey      string `json:"typeKey"`
	ParentTypeID int    `json:"parentTypeId"`
	IsHidden     bool   `json:"isHidden,omitempty"`
	Restricted   bool   `json:"restricted,omitempty"`
	Trimmable    bool   `json:"trimmable,omitempty"`
}

// Activity is a recorded exercise session.
type Activity struct {
	ActivityID      int64        `json:"activityId"`
	ActivityName    string       `json:"activityName"`
	Description     string       `json:"description,omitempty"`
	StartTimeLocal  string       `json:"startTimeLocal"`
	StartTimeGMT    string       `json:"startTimeGMT"`
	ActivityType    ActivityType `json:"activityType"`
	Distance        float64      `json:"distance"`
	Duration        float64      `json:"duration"`
	ElapsedDuration float64      `json:"elapsedDuration"`
	MovingDuration  float64      `json:"movingDuration"`
	ElevationGain   float64      `json:"elevationGain"`
	ElevationLoss   float64      `json:"elevationLoss"`
	AverageSpeed    float64      `json:"averageSpeed"`
	MaxSpeed        float64      `json:"maxSpeed"`
	Calories        float64      `json:"calories"`
	AverageHR       float64      `json:"averageHR"`
	MaxHR           float64      `json:"maxHR"`
	Steps           int          `json:"steps,omitempty"`
	OwnerID         int64        `json:"ownerId"`
	OwnerDisplay    string       `json:"ownerDisplayName"`
	DeviceID        int64        `json:"deviceId,omitempty"`
	Favorite        bool         `json:"favorite"`
	HasPolyline     bool         `json:"hasPolyline"`
}

// StartTime parses StartTimeGMT as UTC.
func (a Activity) StartTime() (time.Time, error) {
	return time.ParseInLocation(ActivityTimeLayout, a.StartTimeGMT, time.UTC)
}

// ActivitiesQuery filters GetActivities. Zero fields are not sent.
type ActivitiesQuery struct {
	Start           int
	Limit           int
	ActivityType    string
	SubActivityType string
}

// ActivityCounts holds lifetime activity totals.
type ActivityCounts struct {
	CountOfActivities int                       `json:"countOfActivities"`
	Date              string                    `json:"date"`
	Stats             map[string]map[string]any `json:"stats"`
}

// ExportFormat selects the file type of DownloadOriginalActivityData.
type ExportFormat string

const (
	ExportZip ExportFormat = "zip"
	ExportTCX ExportFormat = "tcx"
	ExportGPX ExportFormat = "gpx"
	ExportKML ExportFormat = "kml"
)

// Valid reports whether f is one of the export formats Garmin Connect serves.
func (f ExportFormat) Valid() bool {
	switch f {
	case ExportZip, ExportTCX, ExportGPX, ExportKML:
		return true
	}
	return false
}

// UploadFormat selects the file type of UploadActivity.
type UploadFormat string

const (
	UploadFIT UploadFormat = "fit"
	UploadGPX UploadFormat = "gpx"
	UploadTCX UploadFormat = "tcx"
)

func (f UploadFormat) valid() bool {
	switch f {
	case UploadFIT, UploadGPX, UploadTCX:
		return true
	}
	return false
}

// UploadResult is the response to an activity upload.
type UploadResult struct {
	DetailedImportResult ImportResult `json:"detailedImportResult"`
}

// ImportResult reports the processing state of an upload.
type ImportResult struct {
	UploadID       int64           `json:"uploadId"`
	UploadUUID     *UploadUUID     `json:"uploadUuid"`
	Owner          int64           `json:"owner"`
	FileSize       int64           `json:"fileSize"`
	ProcessingTime int64           `json:"processingTime"`
	CreationDate   string          `json:"creationDate"`
	FileName       string          `json:"fileName"`
	Successes      []ImportMessage `json:"successes"`
	Failures       []ImportMessage `json:"failures"`
}

// UploadUUID identifies an upload while it is processed.
type UploadUUID struct {
	UUID string `json:"uuid"`
}

// ImportMessage is a success or failure note on an imported activity.
type ImportMessage struct {
	InternalID int64  `json:"internalId"`
	ExternalID string `json:"externalId"`
	Messages   []struct {
		Code    int    `json:"code"`
		Content string `json:"content"`
	} `json:"messages"`
}

// SportType is the sport a workout is for.
type SportType struct {
	SportTypeID  int    `json:"sportTypeId"`
	SportTypeKey string `json:"sportTypeKey"`
	DisplayOrder int    `json:"displayOrder,omitempty"`
}

// Author is the owner of a workout.
type Author struct {
	UserProfilePK int64  `json:"userProfilePk"`
	DisplayName   string `json:"displayName"`
	FullName      string `json:"fullName"`
}

// Workout is the summary returned by the workout list.
type Workout struct {
	WorkoutID                 int64     `json:"workoutId"`
	OwnerID                   int64     `json:"ownerId"`
	WorkoutName               string    `json:"workoutName"`
	Description               string    `json:"description,omitempty"`
	UpdatedDate               string    `json:"updatedDate"`
	CreatedDate               string    `json:"createdDate"`
	SportType                 SportType `json:"sportType"`
	TrainingPlanID            *int64    `json:"trainingPlanId"`
	Author                    *Author   `json:"author,omitempty"`
	EstimatedDurationInSecs   int64     `json:"estimatedDurationInSecs,omitempty"`
	EstimatedDistanceInMeters float64   `json:"estimatedDistanceInMeters,omitempty"`
}

// WorkoutDetail is a full workout including its segments. A nil
// WorkoutSegments means the value is a summary, not a detail.
type WorkoutDetail struct {
	Workout
	WorkoutSegments []WorkoutSegment `json:"workoutSegments"`
}

// WorkoutSegment groups the steps of a workout.
type WorkoutSegment struct {
	SegmentOrder int           `json:"segmentOrder"`
	SportType    SportType     `json:"sportType"`
	WorkoutSteps []WorkoutStep `json:"workoutSteps"`
}

// WorkoutStep is one step of a segment and ends on its EndCondition.
type WorkoutStep struct {
	Type                      string        `json:"type"`
	StepID                    int64         `json:"stepId,omitempty"`
	StepOrder                 int           `json:"stepOrder"`
	StepType                  StepType      `json:"stepType"`
	EndCondition              EndCondition  `json:"endCondition"`
	EndConditionValue         float64       `json:"endConditionValue"`
	PreferredEndConditionUnit *UnitKey      `json:"preferredEndConditionUnit,omitempty"`
	TargetType                TargetType    `json:"targetType"`
	Description               string        `json:"description,omitempty"`
	NumberOfIterations        int           `json:"numberOfIterations,omitempty"`
	WorkoutSteps              []WorkoutStep `json:"workoutSteps,omitempty"`
}

// StepType is the kind of workout step, such as interval.
type StepType struct {
	StepTypeID  int    `json:"stepTypeId"`
	StepTypeKey string `json:"stepTypeKey"`
}

// EndCondition tells when a workout step is over.
type EndCondition struct {
	ConditionTypeID  int    `json:"conditionTypeId"`
	ConditionTypeKey string `json:"conditionTypeKey"`
}

// TargetType is what a workout step aims at, such as pace.
type TargetType struct {
	WorkoutTargetTypeID  int    `json:"workoutTargetTypeId"`
	WorkoutTargetTypeKey string `json:"workoutTargetTypeKey"`
}

// UnitKey names the unit of a step end condition value.
type UnitKey struct {
	UnitKey string `json:"unitKey"`
}

// ScheduledWorkout is a workout placed on a calendar date.
type ScheduledWorkout struct {
	WorkoutScheduleID int64    `json:"workoutScheduleId"`
	Workout           *Workout `json:"workout"`
	CalendarDate      string   `json:"calendarDate"`
	CreatedDate       string   `json:"createdDate"`
	OwnerID           int64    `json:"ownerId"`
}

// Calendar is one month of the training calendar.
type Calendar struct {
	StartDayOfMonth      int            `json:"startDayOfMonth"`
	NumOfDaysInMonth     int            `json:"numOfDaysInMonth"`
	NumOfDaysInPrevMonth int            `json:"numOfDaysInPrevMonth"`
	Month                int            `json:"month"`
	Year                 int            `json:"year"`
	CalendarItems        []CalendarItem `json:"calendarItems"`
}

// CalendarItem is an activity, workout or event on the calendar.
type CalendarItem struct {
	ID             int64   `json:"id"`
	ItemType       string  `json:"itemType"`
	ActivityTypeID int     `json:"activityTypeId"`
	Title          string  `json:"title"`
	Date           string  `json:"date"`
	Duration       float64 `json:"duration"`
	Distance       float64 `json:"distance"`
	Calories       float64 `json:"calories"`
	WorkoutID      *int64  `json:"workoutId"`
}

// UserSettings is returned by GetUserSettings.
type UserSettings struct {
	ID          int64     `json:"id"`
	UserData    UserData  `json:"userData"`
	UserSleep   UserSleep `json:"userSleep"`
	ConnectDate string    `json:"connectDate"`
	SourceType  string    `json:"sourceType"`
}

// UserData holds the body and unit preferences of a user.
type UserData struct {
	Gender            string  `json:"gender"`
	Weight            float64 `json:"weight"`
	Height            float64 `json:"height"`
	TimeFormat        string  `json:"timeFormat"`
	BirthDate         string  `json:"birthDate"`
	MeasurementSystem string  `json:"measurementSystem"`
	VO2MaxRunning     float64 `json:"vo2MaxRunning"`
	LactateThreshold  float64 `json:"lactateThresholdHeartRate"`
}

// UserSleep is the usual bed and wake time, in seconds after midnight.
type UserSleep struct {
	SleepTime int `json:"sleepTime"`
	WakeTime  int `json:"wakeTime"`
}

// SocialProfile is the public profile of a user.
type SocialProfile struct {
	ID                   int64    `json:"id"`
	ProfileID            int64    `json:"profileId"`
	GarminGUID           string   `json:"garminGUID"`
	DisplayName          string   `json:"displayName"`
	FullName             string   `json:"fullName"`
	UserName             string   `json:"userName"`
	ProfileImageURLLarge string   `json:"profileImageUrlLarge"`
	Location             string   `json:"location"`
	FavoriteActivityType []string `json:"favoriteActivityTypes"`
}

// DailySteps is the step total of one calendar day.
type DailySteps struct {
	CalendarDate  string  `json:"calendarDate"`
	TotalSteps    int     `json:"totalSteps"`
	TotalDistance float64 `json:"totalDistance"`
	StepGoal      int     `json:"stepGoal"`
}

// SleepData is the sleep record of one night.
type SleepData struct {
	DailySleepDTO     *DailySleep  `json:"dailySleepDTO"`
	RemSleepData      bool         `json:"remSleepData"`
	RestingHeartRate  int          `json:"restingHeartRate"`
	AvgOvernightHrv   float64      `json:"avgOvernightHrv"`
	BodyBatteryChange int          `json:"bodyBatteryChange"`
	SleepLevels       []SleepLevel `json:"sleepLevels"`
}

// DailySleep timestamps are epoch milliseconds.
type DailySleep struct {
	ID                       int64   `json:"id"`
	UserProfilePK            int64   `json:"userProfilePK"`
	CalendarDate             string  `json:"calendarDate"`
	SleepTimeSeconds         int64   `json:"sleepTimeSeconds"`
	NapTimeSeconds           int64   `json:"napTimeSeconds"`
	SleepStartTimestampGMT   *int64  `json:"sleepStartTimestampGMT"`
	SleepEndTimestampGMT     *int64  `json:"sleepEndTimestampGMT"`
	SleepStartTimestampLocal *int64  `json:"sleepStartTimestampLocal"`
	SleepEndTimestampLocal   *int64  `json:"sleepEndTimestampLocal"`
	DeepSleepSeconds         int64   `json:"deepSleepSeconds"`
	LightSleepSeconds        int64   `json:"lightSleepSeconds"`
	RemSleepSeconds          int64   `json:"remSleepSeconds"`
	AwakeSleepSeconds        int64   `json:"awakeSleepSeconds"`
	AverageRespirationValue  float64 `json:"averageRespirationValue"`
}

// SleepLevel is a span of one sleep depth.
type SleepLevel struct {
	StartGMT      string  `json:"startGMT"`
	EndGMT        string  `json:"endGMT"`
	ActivityLevel float64 `json:"activityLevel"`
}

// SleepDuration is the length of a night's sleep.
type SleepDuration struct {
	Hours   int
	Minutes int
}

// WeightData holds the weigh-ins of a day. Weights are in grams.
type WeightData struct {
	StartDate      string         `json:"startDate"`
	EndDate        string         `json:"endDate"`
	DateWeightList []WeightEntry  `json:"dateWeightList"`
	TotalAverage   *WeightAverage `json:"totalAverage"`
}

// WeightEntry weights are in grams.
type WeightEntry struct {
	SamplePK     int64    `json:"samplePk"`
	Date         int64    `json:"date"`
	CalendarDate string   `json:"calendarDate"`
	Weight       float64  `json:"weight"`
	BMI          *float64 `json:"bmi"`
	BodyFat      *float64 `json:"bodyFat"`
	SourceType   string   `json:"sourceType"`
	TimestampGMT int64    `json:"timestampGMT"`
}

// WeightAverage holds averaged body measurements.
type WeightAverage struct {
	From    int64    `json:"from"`
	Until   int64    `json:"until"`
	Weight  *float64 `json:"weight"`
	BMI     *float64 `json:"bmi"`
	BodyFat *float64 `json:"bodyFat"`
}

// HydrationData is the water intake of a day in millilitres.
type HydrationData struct {
	UserID                  int64    `json:"userId"`
	CalendarDate            string   `json:"calendarDate"`
	ValueInML               *float64 `json:"valueInML"`
	GoalInML                float64  `json:"goalInML"`
	DailyAverageInML        *float64 `json:"dailyAverageinML"`
	LastEntryTimestampLocal string   `json:"lastEntryTimestampLocal"`
	SweatLossInML           *float64 `json:"sweatLossInML"`
	ActivityIntakeInML      *float64 `json:"activityIntakeInML"`
}

// WaterIntake is the hydration log entry returned after an update.
type WaterIntake struct {
	UserID                  int64   `json:"userId"`
	CalendarDate            string  `json:"calendarDate"`
	ValueInML               float64 `json:"valueInML"`
	GoalInML                float64 `json:"goalInML"`
	LastEntryTimestampLocal string  `json:"lastEntryTimestampLocal"`
}

// HeartRate samples are [timestamp, bpm] pairs; bpm is nil where no reading exists.
type HeartRate struct {
	UserProfilePK                    int64      `json:"userProfilePK"`
	CalendarDate                     string     `json:"calendarDate"`
	StartTimestampGMT                string     `json:"startTimestampGMT"`
	EndTimestampGMT                  string     `json:"endTimestampGMT"`
	MaxHeartRate                     int        `json:"maxHeartRate"`
	MinHeartRate                     int        `json:"minHeartRate"`
	RestingHeartRate                 int        `json:"restingHeartRate"`
	LastSevenDaysAvgRestingHeartRate int        `json:"lastSevenDaysAvgRestingHeartRate"`
	HeartRateValues                  [][]*int64 `json:"heartRateValues"`
}

// GolfSummary is returned by GetGolfSummary.
type GolfSummary struct {
	ScorecardSummaries []GolfScorecardSummary `json:"scorecardSummaries"`
}

// GolfScorecardSummary is one round in the golf summary.
type GolfScorecardSummary struct {
	ID                 int64  `json:"id"`
	CourseName         string `json:"courseName"`
	StartTime          string `json:"startTime"`
	Strokes            int    `json:"strokes"`
	HandicappedStrokes int    `json:"handicappedStrokes"`
	ScoreWithHandicap  int    `json:"scoreWithHandicap"`
	HolesCompleted     int    `json:"holesCompleted"`
}

// GolfScorecard is returned by GetGolfScorecard.
type GolfScorecard struct {
	ScorecardDetails []GolfScorecardDetail `json:"scorecardDetails"`
}

// GolfScorecardDetail is a scorecard with its holes.
type GolfScorecardDetail struct {
	Scorecard struct {
		ID         int64      `json:"id"`
		CourseName string     `json:"courseName"`
		StartTime  string     `json:"startTime"`
		Strokes    int        `json:"strokes"`
		Holes      []GolfHole `json:"holes"`
	} `json:"scorecard"`
}

// GolfHole is the score of one hole.
type GolfHole struct {
	Number  int    `json:"number"`
	Strokes int    `json:"strokes"`
	Putts   int    `json:"putts"`
	Fairway string `json:"fairwayShotOutcome"`
}
