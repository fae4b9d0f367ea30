package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/totegamma/salesdesk"
)

func passwordFrom(cmd *cobra.Command) (string, error) {
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv("SALESDESK_PASSWORD")
	}
	if password == "" {
		return "", errors.New("a password is required (--password or SALESDESK_PASSWORD)")
	}
	return password, nil
}

func newLoginCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, err := passwordFrom(cmd)
			if err != nil {
				return err
			}

			user, err := a.session.Login(cmd.Context(), salesdesk.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}
			a.print(cmd, user)
			return nil
		},
	}
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			username, _ := cmd.Flags().GetString("username")
			password, err := passwordFrom(cmd)
			if err != nil {
				return err
			}

			user, err := a.session.Register(cmd.Context(), salesdesk.RegisterRequest{
				Email:    email,
				Username: username,
				Password: password,
			})
			if err != nil {
				return err
			}
			a.print(cmd, user)
			return nil
		},
	}
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("username", "", "display name")
	cmd.Flags().String("password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.session.Logout(cmd.Context())
		},
	}
}

func newMeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.session.Load(cmd.Context())
			if err != nil {
				return err
			}
			a.print(cmd, a.session.User())
			return nil
		},
	}
}

func newDashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, _ := cmd.Flags().GetBool("stats")
			if stats {
				result, err := a.client.DashboardStats(cmd.Context())
				if err != nil {
					return err
				}
				a.print(cmd, result)
				return nil
			}

			result, err := a.client.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			a.print(cmd, result)
			return nil
		},
	}
	cmd.Flags().Bool("stats", false, "show statistics instead")
	return cmd
}
