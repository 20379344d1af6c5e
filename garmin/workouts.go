package garmin

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

const defaultWorkoutDescription = "Added by garmin-connect for Go"

// serverOwnedWorkoutFields are assigned by Garmin and dropped before a create.
var serverOwnedWorkoutFields = []string{"workoutId", "ownerId", "updatedDate", "createdDate", "author"}

// GetWorkouts lists workouts from start, at most limit of them.
func (c *Client) GetWorkouts(ctx context.Context, start, limit int) ([]Workout, error) {
	query := url.Values{
		"start": {strconv.Itoa(start)},
		"limit": {strconv.Itoa(limit)},
	}
	var workouts []Workout
	if err := c.http.Get(ctx, c.url.Workouts(), &RequestOptions{Query: query}, &workouts); err != nil {
		return nil, errors.Wrap(err, "GetWorkouts")
	}
	return workouts, nil
}

// GetWorkoutDetail fetches a workout including its segments.
func (c *Client) GetWorkoutDetail(ctx context.Context, workoutID int64) (*WorkoutDetail, error) {
	if workoutID == 0 {
		return nil, errors.Wrap(ErrMissingID, "GetWorkoutDetail: workoutId")
	}
	detail := &WorkoutDetail{}
	if err := c.http.Get(ctx, c.url.Workout(formatID(workoutID)), nil, detail); err != nil {
		return nil, errors.Wrap(err, "GetWorkoutDetail")
	}
	return detail, nil
}

// AddWorkout creates a workout. A built workout that fails its own check is
// treated like a raw workout without segments and rejected with
// ErrMissingWorkoutSegments.
func (c *Client) AddWorkout(ctx context.Context, in WorkoutInput) (*WorkoutDetail, error) {
	var detail *WorkoutDetail
	switch in.Kind {
	case WorkoutBuilt:
		if in.Running.IsValid() {
			detail = in.Running.Detail()
		}
	case WorkoutRaw:
		detail = in.Detail
	default:
		return nil, errors.New("AddWorkout: missing workout")
	}
	if detail == nil || detail.WorkoutSegments == nil {
		return nil, errors.Wrap(ErrMissingWorkoutSegments, "AddWorkout")
	}

	body, err := omitFields(detail, serverOwnedWorkoutFields...)
	if err != nil {
		return nil, errors.Wrap(err, "AddWorkout: could not encode workout")
	}
	if desc, _ := body["description"].(string); desc == "" {
		body["description"] = defaultWorkoutDescription
	}

	created := &WorkoutDetail{}
	if err := c.http.Post(ctx, c.url.Workout(""), body, nil, created); err != nil {
		return nil, errors.Wrap(err, "AddWorkout")
	}
	return created, nil
}

// AddRunningWorkout creates a single-step running workout of meters length.
func (c *Client) AddRunningWorkout(ctx context.Context, name string, meters float64, description string) (*WorkoutDetail, error) {
	return c.AddWorkout(ctx, BuiltWorkout(&Running{Name: name, Distance: meters, Description: description}))
}

// DeleteWorkout removes a workout.
func (c *Client) DeleteWorkout(ctx context.Context, workoutID int64) error {
	if workoutID == 0 {
		return errors.Wrap(ErrMissingID, "DeleteWorkout: workoutId")
	}
	if err := c.http.Delete(ctx, c.url.Workout(formatID(workoutID)), nil); err != nil {
		return errors.Wrap(err, "DeleteWorkout")
	}
	return nil
}

// ScheduleWorkout puts a workout on the calendar for date.
func (c *Client) ScheduleWorkout(ctx context.Context, workoutID int64, date time.Time) (*ScheduledWorkout, error) {
	if workoutID == 0 {
		return nil, errors.Wrap(ErrMissingID, "ScheduleWorkout: workoutId")
	}
	scheduled := &ScheduledWorkout{}
	body := map[string]string{"date": DateString(date)}
	if err := c.http.Post(ctx, c.url.ScheduleWorkout(formatID(workoutID)), body, nil, scheduled); err != nil {
		return nil, errors.Wrap(err, "ScheduleWorkout")
	}
	return scheduled, nil
}

// GetCalendar returns a month of calendar items. month is zero-based
// (0 = January) and sent as given.
func (c *Client) GetCalendar(ctx context.Context, year, month int) (*Calendar, error) {
	calendar := &Calendar{}
	if err := c.http.Get(ctx, c.url.Calendar(year, month), nil, calendar); err != nil {
		return nil, errors.Wrap(err, "GetCalendar")
	}
	return calendar, nil
}
