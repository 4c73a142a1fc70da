package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gymtag/client/internal/domain"
)

func newGymsCmd(configPath *string) *cobra.Command {
	gyms := &cobra.Command{Use: "gyms", Short: "List and register gyms"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available gyms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(cmd.Context()); err != nil {
				return err
			}
			all, err := a.client.Gyms(cmd.Context())
			if err != nil {
				return err
			}
			for _, g := range all {
				line := titleStyle.Render(g.Name) + labelStyle.Render("  ("+g.ID+")")
				if g.Address != nil && g.Address.City != "" {
					line += "  " + g.Address.City
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	var name, street, city, postalCode, country string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new gym (admin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" {
				return errors.New("--name is required")
			}
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(cmd.Context()); err != nil {
				return err
			}

			gym := domain.Gym{Name: name}
			if street != "" || city != "" || postalCode != "" || country != "" {
				gym.Address = &domain.Address{
					Street: street, City: city, PostalCode: postalCode, Country: country,
				}
			}
			created, err := a.client.CreateGym(cmd.Context(), gym)
			if err != nil {
				return err
			}
			fmt.Println(okStyle.Render("Gym registered: " + created.Name + " (" + created.ID + ")"))
			return nil
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "gym name")
	addCmd.Flags().StringVar(&street, "street", "", "street address")
	addCmd.Flags().StringVar(&city, "city", "", "city")
	addCmd.Flags().StringVar(&postalCode, "postal-code", "", "postal code")
	addCmd.Flags().StringVar(&country, "country", "", "country")

	gyms.AddCommand(listCmd, addCmd)
	return gyms
}

func newMachinesCmd(configPath *string) *cobra.Command {
	machines := &cobra.Command{Use: "machines", Short: "List and register machines"}

	var gymID string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List machines, optionally filtered by gym",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(cmd.Context()); err != nil {
				return err
			}
			all, err := a.client.Machines(cmd.Context(), gymID)
			if err != nil {
				return err
			}
			for _, m := range all {
				fmt.Println(titleStyle.Render(m.ExerciseName) +
					labelStyle.Render("  tag="+m.TagID+"  muscle="+m.TrainedMuscle))
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&gymID, "gym", "", "gym id filter")

	var (
		tagID, exerciseName, exerciseType, trainedMuscle string
		instructionsLink, machineGymID                   string
		allowRewrite                                     bool
	)
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Link a physical tag to a machine (admin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tagID == "" || exerciseName == "" || exerciseType == "" ||
				trainedMuscle == "" || machineGymID == "" {
				return errors.New("--tag, --name, --type, --muscle and --gym are required")
			}
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(cmd.Context()); err != nil {
				return err
			}

			reg := domain.MachineRegistration{
				TagID:            tagID,
				ExerciseName:     exerciseName,
				ExerciseType:     exerciseType,
				TrainedMuscle:    trainedMuscle,
				InstructionsLink: instructionsLink,
				GymID:            machineGymID,
				AllowRewrite:     allowRewrite,
			}
			if err := a.client.RegisterMachine(cmd.Context(), reg); err != nil {
				return err
			}
			fmt.Println(okStyle.Render("Machine registered: " + exerciseName + " linked to tag " + tagID))
			return nil
		},
	}
	registerCmd.Flags().StringVar(&tagID, "tag", "", "scanned tag identifier")
	registerCmd.Flags().StringVar(&exerciseName, "name", "", "machine/exercise name")
	registerCmd.Flags().StringVar(&exerciseType, "type", "", "exercise type, e.g. Strength")
	registerCmd.Flags().StringVar(&trainedMuscle, "muscle", "", "primary trained muscle")
	registerCmd.Flags().StringVar(&instructionsLink, "instructions", "", "optional instructions link")
	registerCmd.Flags().StringVar(&machineGymID, "gym", "", "gym id the machine belongs to")
	registerCmd.Flags().BoolVar(&allowRewrite, "allow-rewrite", false, "re-link a tag that is already registered")

	machines.AddCommand(listCmd, registerCmd)
	return machines
}
