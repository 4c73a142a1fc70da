package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gymtag/client/internal/api"
	"gymtag/client/internal/domain"
)

func newHistoryCmd(configPath *string) *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the workouts of one month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(cmd.Context()); err != nil {
				return err
			}

			if year == 0 || month == 0 {
				now := time.Now()
				year, month = now.Year(), int(now.Month())
			}
			workouts, err := a.client.Workouts(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			if len(workouts) == 0 {
				fmt.Println(labelStyle.Render(fmt.Sprintf("No workouts in %04d-%02d.", year, month)))
				return nil
			}
			for _, w := range workouts {
				printWorkout(w)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "year (defaults to current)")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (defaults to current)")
	return cmd
}

func newPlanCmd(configPath *string) *cobra.Command {
	plan := &cobra.Command{Use: "plan", Short: "View, generate and manage planned workouts"}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the latest planned workout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(cmd.Context()); err != nil {
				return err
			}
			workout, err := a.client.LatestPlanned(cmd.Context())
			if err != nil {
				if errors.Is(err, api.ErrNotFound) {
					fmt.Println(labelStyle.Render("No planned workout yet. Try 'gymtag plan generate'."))
					return nil
				}
				return err
			}
			printWorkout(*workout)
			return nil
		},
	}

	var useAI bool
	var planDate string
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a plan from your stored preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(cmd.Context()); err != nil {
				return err
			}
			if planDate == "" {
				planDate = time.Now().Format("2006-01-02")
			}
			workout, err := a.client.GenerateWorkout(cmd.Context(), planDate, useAI)
			if err != nil {
				return err
			}
			fmt.Println(okStyle.Render("New plan generated:"))
			printWorkout(*workout)
			return nil
		},
	}
	generateCmd.Flags().BoolVar(&useAI, "ai", false, "use the AI-backed generator")
	generateCmd.Flags().StringVar(&planDate, "date", "", "plan date YYYY-MM-DD (defaults to today)")

	var clientEmail, assignDate string
	var machineIDs []string
	assignCmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign a plan to a client by email (coach/admin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if clientEmail == "" || len(machineIDs) == 0 {
				return errors.New("--client-email and at least one --machine are required")
			}
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(cmd.Context()); err != nil {
				return err
			}
			if assignDate == "" {
				assignDate = time.Now().Format("2006-01-02")
			}
			exercises := make([]domain.Exercise, 0, len(machineIDs))
			for _, id := range machineIDs {
				exercises = append(exercises, domain.Exercise{MachineID: id})
			}
			if err := a.client.AssignPlan(cmd.Context(), clientEmail, assignDate, exercises); err != nil {
				return err
			}
			fmt.Println(okStyle.Render("Plan assigned to " + clientEmail))
			return nil
		},
	}
	assignCmd.Flags().StringVar(&clientEmail, "client-email", "", "client account email")
	assignCmd.Flags().StringVar(&assignDate, "date", "", "plan date YYYY-MM-DD (defaults to today)")
	assignCmd.Flags().StringArrayVar(&machineIDs, "machine", nil, "machine id to include (repeatable)")

	completeCmd := &cobra.Command{
		Use:   "complete <workout-id>",
		Short: "Mark a planned workout as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(cmd.Context()); err != nil {
				return err
			}
			if err := a.client.CompleteWorkout(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println(okStyle.Render("Workout completed."))
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <workout-id>",
		Short: "Delete a workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(cmd.Context()); err != nil {
				return err
			}
			if err := a.client.DeleteWorkout(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println(okStyle.Render("Workout deleted."))
			return nil
		},
	}

	plan.AddCommand(showCmd, generateCmd, assignCmd, completeCmd, deleteCmd)
	return plan
}

func newStatsCmd(configPath *string) *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show workout statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(cmd.Context()); err != nil {
				return err
			}
			ctx := cmd.Context()

			summary, err := a.client.StatisticsSummary(ctx)
			if err != nil {
				return err
			}
			fmt.Println(titleStyle.Render("Statistics"))
			fmt.Println(labelStyle.Render("Workouts:   ") + fmt.Sprint(summary.TotalWorkouts))
			fmt.Println(labelStyle.Render("Exercises:  ") + fmt.Sprint(summary.TotalExercises))
			fmt.Println(labelStyle.Render("Total time: ") + formatClock(summary.TotalDurationSeconds))
			fmt.Println(labelStyle.Render("Streak:     ") + fmt.Sprintf("%d days", summary.CurrentStreakDays))

			if !detailed {
				return nil
			}
			det, err := a.client.StatisticsDetailed(ctx)
			if err != nil {
				return err
			}
			fmt.Println(titleStyle.Render("\nPer muscle"))
			for _, row := range det.PerMuscle {
				fmt.Printf("  %-16s %3d exercises  %s\n", row.Muscle, row.ExerciseCount, formatClock(row.DurationSeconds))
			}
			fmt.Println(titleStyle.Render("\nPer month"))
			for _, row := range det.PerMonth {
				fmt.Printf("  %04d-%02d  %d workouts\n", row.Year, row.Month, row.Workouts)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include per-muscle and per-month breakdowns")
	return cmd
}

func printWorkout(w domain.Workout) {
	status := ""
	switch {
	case w.Completed:
		status = okStyle.Render(" [done]")
	case w.Planned:
		status = labelStyle.Render(" [planned]")
	}
	fmt.Println(titleStyle.Render(w.Date) + status + labelStyle.Render("  ("+w.ID+")"))
	for _, ex := range w.Exercises {
		line := "  - " + ex.ExerciseName
		if ex.DurationSeconds > 0 {
			line += "  " + formatClock(ex.DurationSeconds)
		}
		if ex.Repetitions != nil {
			line += fmt.Sprintf("  %d reps", *ex.Repetitions)
		}
		if ex.Weight != nil {
			line += fmt.Sprintf("  %.1f kg", *ex.Weight)
		}
		fmt.Println(line)
	}
}
