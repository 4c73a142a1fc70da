package domain

import "time"

// Exercise is a single entry inside a Workout, either planned or
// recorded from a live machine session.
type Exercise struct {
	ID              string     `json:"_id,omitempty"`
	MachineID       string     `json:"machineId,omitempty"`
	ExerciseName    string     `json:"exerciseName"`
	ExerciseType    string     `json:"exerciseType,omitempty"`
	TrainedMuscle   string     `json:"trainedMuscle,omitempty"`
	StartTime       *time.Time `json:"startTime,omitempty"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	DurationSeconds int        `json:"durationSeconds,omitempty"`
	Repetitions     *int       `json:"repetitions,omitempty"`
	Weight          *float64   `json:"weight,omitempty"`
	Sets            *int       `json:"sets,omitempty"`
	RepRange        string     `json:"repRange,omitempty"` // planned target, e.g. "8-12"
}

// ExerciseRef correlates an in-progress exercise with the server-side
// workout record it was opened under. Returned by startExercise.
type ExerciseRef struct {
	WorkoutID     string `json:"workoutId"`
	ExerciseIndex int    `json:"exerciseIndex"`
}

// ExerciseResult is the payload submitted when a live exercise ends.
// Repetitions and Weight stay nil when the user left them blank or the
// input failed validation; the fields are then omitted on the wire.
type ExerciseResult struct {
	EndTime         time.Time `json:"endTime"`
	DurationSeconds int       `json:"durationSeconds"`
	Repetitions     *int      `json:"repetitions,omitempty"`
	Weight          *float64  `json:"weight,omitempty"`
}
