package domain

// StatisticsSummary is the headline aggregate returned by
// GET /api/statistics/summary. All aggregation happens server-side.
type StatisticsSummary struct {
	TotalWorkouts        int `json:"totalWorkouts"`
	TotalExercises       int `json:"totalExercises"`
	TotalDurationSeconds int `json:"totalDurationSeconds"`
	CurrentStreakDays    int `json:"currentStreakDays"`
}

// MuscleBreakdown is one row of the detailed statistics view.
type MuscleBreakdown struct {
	Muscle          string `json:"muscle"`
	ExerciseCount   int    `json:"exerciseCount"`
	DurationSeconds int    `json:"durationSeconds"`
}

// MonthlyActivity counts workouts per calendar month.
type MonthlyActivity struct {
	Year     int `json:"year"`
	Month    int `json:"month"`
	Workouts int `json:"workouts"`
}

// StatisticsDetailed is returned by GET /api/statistics/detailed.
type StatisticsDetailed struct {
	PerMuscle []MuscleBreakdown `json:"perMuscle"`
	PerMonth  []MonthlyActivity `json:"perMonth"`
}
