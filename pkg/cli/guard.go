package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xwz823/vue3-admin-better/pkg/cli/internal/output"
	"github.com/xwz823/vue3-admin-better/pkg/guard"
)

// GuardResult is the JSON output of the guard command.
type GuardResult struct {
	Path string `json:"path"`
	guard.Decision
	Error string `json:"error,omitempty"`
}

var guardCmd = &cobra.Command{
	Use:   "guard PATH",
	Short: "Evaluate the route guard for a navigation",
	Long: `Evaluate the route guard for a navigation to PATH with the current session:
whitelisted paths, login redirects and permission loading behave as in
the admin template. Exits with status 2 when the navigation is redirected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.close()
		s := a.cfg.Settings
		g := guard.New(guard.Config{
			LoginInterception: s.LoginInterception,
			RoutesWhiteList:   s.RoutesWhiteList,
			RecordRoute:       s.RecordRoute,
			Authentication:    s.Authentication,
		}, a.users, a.log)

		d := g.Decide(cmd.Context(), args[0])
		if jsonOutput {
			res := GuardResult{Path: args[0], Decision: d}
			if d.Err != nil {
				res.Error = d.Err.Error()
			}
			if err := output.JSON(a.out, res); err != nil {
				return err
			}
		} else {
			switch {
			case d.Allow && d.Replace:
				fmt.Fprintf(a.out, "allow %s (permissions loaded: %s)\n", args[0], strings.Join(a.users.Profile().Permissions, ", "))
			case d.Allow:
				fmt.Fprintf(a.out, "allow %s\n", args[0])
			default:
				fmt.Fprintf(a.out, "redirect %s\n", d.Redirect)
			}
		}
		if !d.Allow {
			return &exitError{code: 2}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(guardCmd)
}
