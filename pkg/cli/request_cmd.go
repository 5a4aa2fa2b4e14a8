package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"

	"github.com/xwz823/vue3-admin-better/pkg/cli/internal/output"
	"github.com/xwz823/vue3-admin-better/pkg/cli/internal/parse"
	"github.com/xwz823/vue3-admin-better/pkg/request"
)

var (
	requestData      string
	requestParams    []string
	requestHeaders   []string
	requestForceMock bool
	requestForceReal bool
	requestForm      bool
	requestDryRun    bool
)

// RequestResult is the JSON output of the request command.
type RequestResult struct {
	Route      string          `json:"route"`
	URL        string          `json:"url"`
	Code       request.Code    `json:"code"`
	Msg        string          `json:"msg,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	RetryCount int             `json:"retryCount"`
}

// DryRunResult is the call as the pipeline would send it.
type DryRunResult struct {
	Route  string      `json:"route"`
	Method string      `json:"method"`
	URL    string      `json:"url"`
	Header http.Header `json:"header"`
	Body   string      `json:"body,omitempty"`
}

var requestCmd = &cobra.Command{
	Use:   "request METHOD URL",
	Short: "Send a call through the request pipeline",
	Long: `Send one call the way the front end would: routed to the mock server or
the real backend by the mock policy, with the session token attached,
retried on failure and unwrapped from its {code, msg, data} envelope.

URL is relative to network.baseURL unless absolute.`,
	Example: `  vab request get /custom/demo2/locationList
  vab request post /userInfo --data '{"accessToken": "admin-accessToken"}'
  vab request post /login --form --data '{"username": "admin"}'
  vab request get /profile --force-real --param page=1
  vab request post /login --form --data '{"username": "admin", "remember": false}' --dry-run`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.close()

		var data any
		if requestData != "" {
			if err := json.Unmarshal(jsonc.ToJSON([]byte(requestData)), &data); err != nil {
				return fmt.Errorf("invalid --data: %w", err)
			}
		}
		params, err := parse.Params(requestParams)
		if err != nil {
			return err
		}
		headers, err := parse.Headers(requestHeaders)
		if err != nil {
			return err
		}

		cfg := a.client.NewConfig(strings.ToUpper(args[0]), args[1], data)
		cfg.Params = params
		for k, v := range headers {
			cfg.Header[k] = v
		}
		switch {
		case requestForceMock:
			cfg.Force = request.ForceMock
		case requestForceReal:
			cfg.Force = request.ForceReal
		}
		if requestForm {
			cfg.Header.Set("Content-Type", request.FormContentType)
		}

		if requestDryRun {
			if err := a.client.Prepare(cmd.Context(), cfg); err != nil {
				return err
			}
			return printDryRun(a, cfg)
		}

		env, err := a.client.Do(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		if jsonOutput {
			return output.JSON(a.out, RequestResult{
				Route:      string(cfg.Route),
				URL:        cfg.FullURL(),
				Code:       env.Code,
				Msg:        env.Msg,
				Data:       env.Data,
				RetryCount: cfg.RetryCount,
			})
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, env.Raw, "", "  "); err != nil {
			_, err = a.out.Write(env.Raw)
			return err
		}
		fmt.Fprintln(a.out, pretty.String())
		return nil
	},
}

func printDryRun(a *app, cfg *request.Config) error {
	res := DryRunResult{
		Route:  string(cfg.Route),
		Method: cfg.Method,
		URL:    cfg.FullURL(),
		Header: cfg.Header,
		Body:   string(cfg.EncodedBody()),
	}
	if jsonOutput {
		return output.JSON(a.out, res)
	}
	fmt.Fprintf(a.out, "%s %s (%s)\n", res.Method, res.URL, res.Route)
	keys := make([]string, 0, len(res.Header))
	for k := range res.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(a.out, "%s: %s\n", k, strings.Join(res.Header[k], ", "))
	}
	if res.Body != "" {
		fmt.Fprintf(a.out, "\n%s\n", res.Body)
	}
	return nil
}

func init() {
	requestCmd.Flags().StringVarP(&requestData, "data", "d", "", "Request payload as JSON")
	requestCmd.Flags().StringArrayVar(&requestParams, "param", nil, "Query parameter key=value (repeatable)")
	requestCmd.Flags().StringArrayVarP(&requestHeaders, "header", "H", nil, "Header \"Name: value\" (repeatable)")
	requestCmd.Flags().BoolVar(&requestForceMock, "force-mock", false, "Route to the mock server regardless of policy")
	requestCmd.Flags().BoolVar(&requestForceReal, "force-real", false, "Route to the real backend regardless of policy")
	requestCmd.Flags().BoolVar(&requestForm, "form", false, "Send the payload form-encoded")
	requestCmd.Flags().BoolVar(&requestDryRun, "dry-run", false, "Print the call as it would be sent instead of sending it")
	requestCmd.MarkFlagsMutuallyExclusive("force-mock", "force-real")
	rootCmd.AddCommand(requestCmd)
}
