package garmin

import "github.com/pkg/errors"

// Errors returned by the client. Match them with errors.Is.
var (
	ErrMissingCredentials     = errors.New("missing credentials")
	ErrMissingID              = errors.New("missing id")
	ErrInvalidFormat          = errors.New("invalid format")
	ErrTokenNotFound          = errors.New("token not found")
	ErrInvalidResponse        = errors.New("invalid or empty response")
	ErrMissingWorkoutSegments = errors.New("missing workoutSegments, use a WorkoutDetail rather than a Workout")
)
