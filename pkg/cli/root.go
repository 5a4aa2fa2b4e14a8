package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Persistent flags available to all subcommands
	configFile  string
	envName     string
	jsonOutput  bool
	logLevel    string
	logFormat   string
	withMetrics bool
	withTrace   bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vab",
	Short: "vab is the development toolkit of the admin template",
	Long: `vab runs the request pipeline of the admin template from the command line.

It serves mock controller definitions, sends calls through the same
mock/real routing, retry and envelope handling the front end uses, and
keeps a login session between invocations.

Configuration is read from .vabrc.yaml (or .vabrc.json) in the working
directory, VAB_* environment variables and flags.`,
	SilenceUsage:  true,
	SilenceErrors: true, // errors are printed by Main
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (replaces the global config)")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "Runtime environment selecting mock.realApiConfig")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&withMetrics, "metrics", false, "Print request pipeline metrics to stderr when the command ends")
	rootCmd.PersistentFlags().BoolVar(&withTrace, "trace", false, "Export request spans to stderr")
}

// Main runs the command line and returns the process exit code.
func Main() int {
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// Execute runs the command line and exits on failure.
func Execute() {
	if code := Main(); code != 0 {
		os.Exit(code)
	}
}
