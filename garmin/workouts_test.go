package garmin

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunning_IsValid(t *testing.T) {
	assert.True(t, (&Running{Name: "5k", Distance: 5000}).IsValid())
	assert.False(t, (&Running{Distance: 5000}).IsValid())
	assert.False(t, (&Running{Name: "5k"}).IsValid())
	assert.False(t, (*Running)(nil).IsValid())
}

func TestRunning_Detail(t *testing.T) {
	detail := (&Running{Name: "5k", Distance: 5000, Description: "easy"}).Detail()

	assert.Equal(t, "5k", detail.WorkoutName)
	assert.Equal(t, "running", detail.SportType.SportTypeKey)
	require.Len(t, detail.WorkoutSegments, 1)
	require.Len(t, detail.WorkoutSegments[0].WorkoutSteps, 1)
	step := detail.WorkoutSegments[0].WorkoutSteps[0]
	assert.Equal(t, "ExecutableStepDTO", step.Type)
	assert.Equal(t, "distance", step.EndCondition.ConditionTypeKey)
	assert.Equal(t, 5000.0, step.EndConditionValue)
}

func TestAddWorkout(t *testing.T) {
	ctx := context.Background()

	t.Run("built running workout gets default description", func(t *testing.T) {
		client, fake := newTestClient(t)

		_, err := client.AddRunningWorkout(ctx, "Tempo", 8000, "")
		require.NoError(t, err)

		call := fake.lastCall(t)
		assert.Equal(t, testURLs.Workout(""), call.URL)
		body := call.Body.(map[string]any)
		assert.Equal(t, defaultWorkoutDescription, body["description"])
		assert.Equal(t, "Tempo", body["workoutName"])
		assert.Contains(t, body, "workoutSegments")
		assert.NotContains(t, body, "workoutId")
	})

	t.Run("invalid built workout is rejected", func(t *testing.T) {
		client, fake := newTestClient(t)

		_, err := client.AddWorkout(ctx, BuiltWorkout(&Running{Name: "no distance"}))

		assert.True(t, errors.Is(err, ErrMissingWorkoutSegments))
		assert.Empty(t, fake.calls)
	})

	t.Run("raw workout without segments is rejected", func(t *testing.T) {
		client, fake := newTestClient(t)

		_, err := client.AddWorkout(ctx, RawWorkout(&WorkoutDetail{Workout: Workout{WorkoutName: "summary"}}))

		assert.True(t, errors.Is(err, ErrMissingWorkoutSegments))
		assert.Empty(t, fake.calls)
	})

	t.Run("raw workout drops server owned fields", func(t *testing.T) {
		client, fake := newTestClient(t)
		detail := &WorkoutDetail{
			Workout: Workout{
				WorkoutID:   123,
				OwnerID:     456,
				WorkoutName: "Copied",
				Description: "mine",
				CreatedDate: "2024-01-01T00:00:00.0",
				UpdatedDate: "2024-01-02T00:00:00.0",
				Author:      &Author{DisplayName: "someone"},
			},
			WorkoutSegments: []WorkoutSegment{},
		}

		_, err := client.AddWorkout(ctx, RawWorkout(detail))
		require.NoError(t, err)

		body := fake.lastCall(t).Body.(map[string]any)
		for _, field := range serverOwnedWorkoutFields {
			assert.NotContains(t, body, field)
		}
		assert.Equal(t, "mine", body["description"])
	})

	t.Run("empty input", func(t *testing.T) {
		client, fake := newTestClient(t)
		_, err := client.AddWorkout(ctx, WorkoutInput{})
		assert.Error(t, err)
		assert.Empty(t, fake.calls)
	})
}

func TestScheduleWorkout_Body(t *testing.T) {
	client, fake := newTestClient(t)

	_, err := client.ScheduleWorkout(context.Background(), 77, time.Date(2024, 12, 24, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	call := fake.lastCall(t)
	assert.Equal(t, testURLs.ScheduleWorkout("77"), call.URL)
	assert.Equal(t, map[string]string{"date": "2024-12-24"}, call.Body)
}

func TestGetWorkouts_Query(t *testing.T) {
	client, fake := newTestClient(t)
	fake.responses[testURLs.Workouts()] = `[{"workoutId":1,"workoutName":"Intervals"}]`

	workouts, err := client.GetWorkouts(context.Background(), 0, 25)

	require.NoError(t, err)
	require.Len(t, workouts, 1)
	assert.Equal(t, "Intervals", workouts[0].WorkoutName)
	assert.Equal(t, "25", fake.lastCall(t).Opts.Query.Get("limit"))
}
