package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(configPath *string) *cobra.Command {
	var email, password, googleIDToken string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email/password or a Google identity token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if googleIDToken != "" {
				if err := a.sessions.SignInWithGoogle(ctx, googleIDToken); err != nil {
					return err
				}
			} else {
				if email == "" || password == "" {
					return errors.New("provide --email and --password, or --google-id-token")
				}
				if err := a.sessions.Login(ctx, email, password); err != nil {
					return err
				}
			}

			if user := a.sessions.User(); user != nil {
				fmt.Println(okStyle.Render("Logged in as " + user.Name + " <" + user.Email + ">"))
			} else {
				fmt.Println(okStyle.Render("Logged in."))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&googleIDToken, "google-id-token", "", "Google identity token obtained externally")
	return cmd
}

func newRegisterCmd(configPath *string) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" || email == "" || password == "" {
				return errors.New("--name, --email and --password are required")
			}
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := a.sessions.Register(cmd.Context(), name, email, password); err != nil {
				return err
			}
			fmt.Println(okStyle.Render("Account created, you are logged in."))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			a.sessions.Logout()
			fmt.Println(okStyle.Render("Logged out."))
			return nil
		},
	}
}

func newWhoamiCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session's profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(cmd.Context()); err != nil {
				return err
			}
			user := a.sessions.User()
			fmt.Println(titleStyle.Render(user.Name))
			fmt.Println(labelStyle.Render("Email: ") + user.Email)
			fmt.Println(labelStyle.Render("Role:  ") + string(user.Role))
			if user.ReminderMinutes > 0 {
				fmt.Println(labelStyle.Render("Reminder: ") + fmt.Sprintf("%d min", user.ReminderMinutes))
			}
			return nil
		},
	}
}

func newPasswordCmd(configPath *string) *cobra.Command {
	password := &cobra.Command{Use: "password", Short: "Password reset flows"}

	var email string
	requestCmd := &cobra.Command{
		Use:   "request-reset",
		Short: "Request a password reset email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := a.sessions.RequestPasswordReset(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Println(okStyle.Render("If that account exists, a reset email is on its way."))
			return nil
		},
	}
	requestCmd.Flags().StringVar(&email, "email", "", "account email")

	var resetToken, newPassword string
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password using a reset token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if resetToken == "" || newPassword == "" {
				return errors.New("--token and --new-password are required")
			}
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := a.sessions.ResetPassword(cmd.Context(), resetToken, newPassword); err != nil {
				return err
			}
			fmt.Println(okStyle.Render("Password updated. You can log in now."))
			return nil
		},
	}
	resetCmd.Flags().StringVar(&resetToken, "token", "", "reset token from the email link")
	resetCmd.Flags().StringVar(&newPassword, "new-password", "", "new password")

	password.AddCommand(requestCmd, resetCmd)
	return password
}
