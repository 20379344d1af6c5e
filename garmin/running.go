package garmin

// Running builds a single-step running workout that ends after a distance.
type Running struct {
	Name        string  `validate:"required"`
	Distance    float64 `validate:"gt=0"` // meters
	Description string
}

// IsValid reports whether all required fields are populated.
func (r *Running) IsValid() bool {
	return r != nil && validate.Struct(r) == nil
}

// Detail renders the workout payload accepted by the workout service.
func (r *Running) Detail() *WorkoutDetail {
	running := SportType{SportTypeID: 1, SportTypeKey: "running"}
	return &WorkoutDetail{
		Workout: Workout{
			WorkoutName: r.Name,
			Description: r.Description,
			SportType:   running,
		},
		WorkoutSegments: []WorkoutSegment{{
			SegmentOrder: 1,
			SportType:    running,
			WorkoutSteps: []WorkoutStep{{
				Type:                      "ExecutableStepDTO",
				StepOrder:                 1,
				StepType:                  StepType{StepTypeID: 3, StepTypeKey: "interval"},
				EndCondition:              EndCondition{ConditionTypeID: 3, ConditionTypeKey: "distance"},
				EndConditionValue:         r.Distance,
				PreferredEndConditionUnit: &UnitKey{UnitKey: "kilometer"},
				TargetType:                TargetType{WorkoutTargetTypeID: 1, WorkoutTargetTypeKey: "no.target"},
			}},
		}},
	}
}

// WorkoutKind discriminates WorkoutInput.
type WorkoutKind int

const (
	WorkoutBuilt WorkoutKind = iota + 1
	WorkoutRaw
)

// WorkoutInput is either a built Running workout or a raw WorkoutDetail.
// Construct it with BuiltWorkout or RawWorkout.
type WorkoutInput struct {
	Kind    WorkoutKind
	Running *Running
	Detail  *WorkoutDetail
}

// BuiltWorkout wraps a Running workout for AddWorkout.
func BuiltWorkout(r *Running) WorkoutInput {
	return WorkoutInput{Kind: WorkoutBuilt, Running: r}
}

// RawWorkout wraps a WorkoutDetail so AddWorkout sends it as is.
func RawWorkout(d *WorkoutDetail) WorkoutInput {
	return WorkoutInput{Kind: WorkoutRaw, Detail: d}
}
