package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gymtag/client/internal/domain"
)

// Workouts lists the workouts of one calendar month for the history view.
func (c *Client) Workouts(ctx context.Context, year, month int) ([]domain.Workout, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	query.Set("month", strconv.Itoa(month))

	var workouts []domain.Workout
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/workouts",
		query:  query,
		out:    &workouts,
	})
	if err != nil {
		return nil, err
	}
	return workouts, nil
}

// StartExercise opens a live exercise session server-side and returns
// the correlation identifiers the client needs to close it again.
// localDateString anchors the exercise to the client's calendar day,
// which can differ from the server's around midnight.
func (c *Client) StartExercise(ctx context.Context, machineID string, startTime time.Time) (*domain.ExerciseRef, error) {
	payload := map[string]string{
		"machineId":       machineID,
		"startTime":       startTime.UTC().Format(time.RFC3339),
		"localDateString": startTime.Format("2006-01-02"),
	}

	var ref domain.ExerciseRef
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/workouts/startExercise",
		body:   payload,
		out:    &ref,
	})
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// EndExercise closes a live exercise session with its final result.
func (c *Client) EndExercise(ctx context.Context, ref domain.ExerciseRef, result domain.ExerciseResult) error {
	path := fmt.Sprintf("/api/workouts/%s/endExercise/%d", url.PathEscape(ref.WorkoutID), ref.ExerciseIndex)
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   path,
		body:   result,
	})
}

// LatestPlanned returns the most recent planned workout, or ErrNotFound
// when the user has no plan yet.
func (c *Client) LatestPlanned(ctx context.Context) (*domain.Workout, error) {
	var workout domain.Workout
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/workouts/latestPlanned",
		out:    &workout,
	})
	if err != nil {
		return nil, err
	}
	return &workout, nil
}

// GenerateWorkout asks the backend to build a plan for planDate from the
// user's stored preferences. useAI selects the AI-backed generator.
func (c *Client) GenerateWorkout(ctx context.Context, planDate string, useAI bool) (*domain.Workout, error) {
	path := "/api/workouts/generate"
	if useAI {
		path = "/api/workouts/generateAI"
	}

	var workout domain.Workout
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   path,
		body:   map[string]string{"planDate": planDate},
		out:    &workout,
	})
	if err != nil {
		return nil, err
	}
	return &workout, nil
}

// AssignPlan assigns a plan to another client by email (admin/coach).
func (c *Client) AssignPlan(ctx context.Context, clientEmail, planDate string, exercises []domain.Exercise) error {
	payload := map[string]any{
		"clientEmail": clientEmail,
		"planDate":    planDate,
		"exercises":   exercises,
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/workouts/assignPlan",
		body:   payload,
	})
}

// SaveWorkout overwrites the exercise list of a planned workout.
func (c *Client) SaveWorkout(ctx context.Context, workoutID string, exercises []domain.Exercise) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   "/api/workouts/" + url.PathEscape(workoutID),
		body:   map[string]any{"exercises": exercises},
	})
}

// CompleteWorkout marks a planned workout as done.
func (c *Client) CompleteWorkout(ctx context.Context, workoutID string) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   "/api/workouts/" + url.PathEscape(workoutID) + "/complete",
	})
}

// DeleteWorkout removes a workout and its exercises.
func (c *Client) DeleteWorkout(ctx context.Context, workoutID string) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/api/workouts/" + url.PathEscape(workoutID),
	})
}

// AddExercise appends an exercise to an existing workout.
func (c *Client) AddExercise(ctx context.Context, workoutID string, exercise domain.Exercise) (*domain.Workout, error) {
	var workout domain.Workout
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/workouts/" + url.PathEscape(workoutID) + "/exercises",
		body:   exercise,
		out:    &workout,
	})
	if err != nil {
		return nil, err
	}
	return &workout, nil
}

// UpdateExercise replaces one exercise of a workout.
func (c *Client) UpdateExercise(ctx context.Context, workoutID, exerciseID string, exercise domain.Exercise) (*domain.Workout, error) {
	var workout domain.Workout
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/api/workouts/" + url.PathEscape(workoutID) + "/exercises/" + url.PathEscape(exerciseID),
		body:   exercise,
		out:    &workout,
	})
	if err != nil {
		return nil, err
	}
	return &workout, nil
}

// RemoveExercise deletes one exercise from a workout.
func (c *Client) RemoveExercise(ctx context.Context, workoutID, exerciseID string) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/api/workouts/" + url.PathEscape(workoutID) + "/exercises/" + url.PathEscape(exerciseID),
	})
}
