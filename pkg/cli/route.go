package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/xwz823/vue3-admin-better/internal/policy"
	"github.com/xwz823/vue3-admin-better/pkg/cli/internal/output"
	"github.com/xwz823/vue3-admin-better/pkg/request"
)

// RouteResult is one routing decision.
type RouteResult struct {
	URL    string `json:"url"`
	Route  string `json:"route"`
	Target string `json:"target"`
}

// RouteOutput is the JSON output of the route command.
type RouteOutput struct {
	Policy policy.Summary `json:"policy"`
	Routes []RouteResult  `json:"routes"`
}

var routeCmd = &cobra.Command{
	Use:   "route URL...",
	Short: "Show whether URLs are served by the mock server or the real backend",
	Example: `  vab route /login /vab-mock-server/profile
  VAB_MOCK_MODE=whitelist VAB_MOCK_WHITE_LIST=/login vab route /login /table`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.close()
		resolve := request.ResolveRoute(a.client.Policy(), a.client.Settings().MockNamespace, a.log)

		out := RouteOutput{Policy: a.client.Policy().Summary()}
		for _, u := range args {
			cfg := a.client.NewConfig(http.MethodGet, u, nil)
			if err := request.Prepare(cmd.Context(), cfg, resolve); err != nil {
				return err
			}
			out.Routes = append(out.Routes, RouteResult{URL: u, Route: string(cfg.Route), Target: cfg.FullURL()})
		}

		if jsonOutput {
			return output.JSON(a.out, out)
		}
		s := out.Policy
		fmt.Fprintf(a.out, "mock enabled: %t, mode: %s, env: %s\n", s.Enabled, s.Mode, s.Env)
		tw := output.Table(a.out)
		fmt.Fprintln(tw, "URL\tROUTE\tTARGET")
		for _, r := range out.Routes {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.URL, r.Route, r.Target)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(routeCmd)
}
