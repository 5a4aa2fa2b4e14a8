package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/xwz823/vue3-admin-better/pkg/cli/internal/output"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and keep the session for later commands",
	Long: `Log in with a username and password. The access token returned by the
backend is stored in the session file and sent with every later request.

Missing credentials are asked for interactively.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.close()

		if loginUsername == "" || loginPassword == "" {
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Username").
						Value(&loginUsername).
						Validate(func(s string) error {
							if strings.TrimSpace(s) == "" {
								return errors.New("username is required")
							}
							return nil
						}),
					huh.NewInput().
						Title("Password").
						EchoMode(huh.EchoModePassword).
						Value(&loginPassword),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}
		}

		msg, err := a.users.Login(cmd.Context(), loginUsername, loginPassword)
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(a.out, map[string]string{"username": loginUsername, "message": msg})
		}
		fmt.Fprintln(a.out, msg)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the user of the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.close()
		if !a.users.HasToken() {
			return ErrNotLoggedIn
		}
		if _, err := a.users.FetchUserInfo(cmd.Context()); err != nil {
			return err
		}

		p := a.users.Profile()
		if jsonOutput {
			return output.JSON(a.out, p)
		}
		fmt.Fprintf(a.out, "username:    %s\n", p.Username)
		fmt.Fprintf(a.out, "permissions: %s\n", strings.Join(p.Permissions, ", "))
		if p.Avatar != "" {
			fmt.Fprintf(a.out, "avatar:      %s\n", p.Avatar)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.close()
		if !a.users.HasToken() {
			return ErrNotLoggedIn
		}
		if err := a.users.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Logged out")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password")
	rootCmd.AddCommand(loginCmd, whoamiCmd, logoutCmd)
}
