package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gymtag/client/internal/api"
	"gymtag/client/internal/domain"
)

func newProfileCmd(configPath *string) *cobra.Command {
	profile := &cobra.Command{Use: "profile", Short: "View and update your profile"}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the full profile, freshly fetched",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(cmd.Context()); err != nil {
				return err
			}
			if err := a.sessions.RefreshProfile(cmd.Context()); err != nil {
				return err
			}
			user := a.sessions.User()
			fmt.Println(titleStyle.Render(user.Name))
			fmt.Println(labelStyle.Render("Email:    ") + user.Email)
			fmt.Println(labelStyle.Render("Role:     ") + string(user.Role))
			fmt.Println(labelStyle.Render("Gym:      ") + orDash(user.GymID))
			fmt.Println(labelStyle.Render("Reminder: ") + fmt.Sprintf("%d min", user.ReminderMinutes))
			if p := user.Preferences; p != nil {
				fmt.Println(labelStyle.Render("Plan preferences:"))
				fmt.Printf("  type=%s focus=%s exercises=%d reps=%s\n",
					orDash(p.WorkoutType), orDash(p.MuscleFocus), p.NumExercises, orDash(p.RepRange))
			}
			return nil
		},
	}

	var (
		name         string
		gymID        string
		reminder     int
		workoutType  string
		muscleFocus  string
		numExercises int
		repRange     string
	)
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields; only the flags you pass are changed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(cmd.Context()); err != nil {
				return err
			}

			var update api.ProfileUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				update.Name = &name
			}
			if flags.Changed("gym") {
				update.GymID = &gymID
			}
			if flags.Changed("reminder") {
				update.ReminderMinutes = &reminder
			}
			if flags.Changed("workout-type") || flags.Changed("muscle-focus") ||
				flags.Changed("num-exercises") || flags.Changed("rep-range") {
				prefs := &domain.Preferences{
					WorkoutType:  workoutType,
					MuscleFocus:  muscleFocus,
					NumExercises: numExercises,
					RepRange:     repRange,
				}
				update.Preferences = prefs
			}

			user, err := a.client.UpdateMe(cmd.Context(), update)
			if err != nil {
				return err
			}
			fmt.Println(okStyle.Render("Profile updated for " + user.Email))
			return nil
		},
	}
	setCmd.Flags().StringVar(&name, "name", "", "display name")
	setCmd.Flags().StringVar(&gymID, "gym", "", "active gym id")
	setCmd.Flags().IntVar(&reminder, "reminder", 0, "inactivity reminder in minutes, 0 disables")
	setCmd.Flags().StringVar(&workoutType, "workout-type", "Any", "preferred workout type")
	setCmd.Flags().StringVar(&muscleFocus, "muscle-focus", "Auto", "preferred muscle focus")
	setCmd.Flags().IntVar(&numExercises, "num-exercises", 5, "exercises per generated plan")
	setCmd.Flags().StringVar(&repRange, "rep-range", "8-12", "preferred rep range")

	profile.AddCommand(showCmd, setCmd)
	return profile
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
