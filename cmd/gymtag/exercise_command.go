package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gymtag/client/internal/domain"
	"gymtag/client/internal/scan"
)

// stdinCapturer is the camera-capture collaborator for a terminal: the
// user runs an external code scanner and pastes the decoded value.
type stdinCapturer struct{}

func (stdinCapturer) Capture(_ context.Context) (string, error) {
	fmt.Print("Paste the decoded code value and press enter: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("%w: %v", scan.ErrScanCancelled, err)
	}
	value := strings.TrimSpace(line)
	if value == "" {
		return "", scan.ErrTagUnreadable
	}
	return value, nil
}

func newExerciseCmd(configPath *string) *cobra.Command {
	var (
		mode   string
		tagID  string
		reps   int
		weight float64
	)

	cmd := &cobra.Command{
		Use:   "exercise",
		Short: "Scan a machine, run the exercise timer and log the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := a.requireAuth(ctx); err != nil {
				return err
			}

			machine, err := resolveMachine(ctx, a, mode, tagID)
			if err != nil {
				if errors.Is(err, scan.ErrMachineNotFound) {
					fmt.Println(warnStyle.Render("No machine is registered for that identifier."))
					return nil
				}
				return err
			}

			fmt.Println(titleStyle.Render("Machine found: " + machine.ExerciseName))
			fmt.Println(labelStyle.Render("Type:   ") + machine.ExerciseType)
			fmt.Println(labelStyle.Render("Muscle: ") + machine.TrainedMuscle)

			if err := a.tracker.SetMachine(machine); err != nil {
				return err
			}
			if err := a.tracker.Start(ctx); err != nil {
				a.tracker.Cancel()
				return err
			}

			cancelled, err := runTimer(a.tracker, machine.ExerciseName)
			if err != nil {
				a.tracker.Cancel()
				return err
			}
			if cancelled {
				a.tracker.Cancel()
				a.scanner.Reset()
				fmt.Println(warnStyle.Render("Exercise discarded."))
				return nil
			}

			var repsPtr *int
			var weightPtr *float64
			if cmd.Flags().Changed("reps") {
				repsPtr = &reps
			}
			if cmd.Flags().Changed("weight") {
				weightPtr = &weight
			}

			result, err := a.tracker.End(ctx, repsPtr, weightPtr)
			a.scanner.Reset()
			if err != nil {
				return fmt.Errorf("recording exercise: %w", err)
			}
			fmt.Println(okStyle.Render(fmt.Sprintf(
				"Exercise recorded: %s, %s", machine.ExerciseName, formatClock(result.DurationSeconds))))
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "proximity", "scan mode: proximity or camera")
	cmd.Flags().StringVar(&tagID, "tag", "", "skip scanning and resolve this identifier directly")
	cmd.Flags().IntVar(&reps, "reps", 0, "repetitions performed (optional)")
	cmd.Flags().Float64Var(&weight, "weight", 0, "weight used, e.g. kg (optional)")
	return cmd
}

func resolveMachine(ctx context.Context, a *app, mode, tagID string) (*domain.Machine, error) {
	if tagID != "" {
		return a.scanner.ResolveIdentifier(ctx, tagID)
	}
	switch mode {
	case "camera":
		if err := a.scanner.SetMode(scan.ModeCamera); err != nil {
			return nil, err
		}
	case "proximity":
		if err := a.scanner.SetMode(scan.ModeProximity); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown scan mode %q", mode)
	}
	return a.scanner.Scan(ctx)
}
