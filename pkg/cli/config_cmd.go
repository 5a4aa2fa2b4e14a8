package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xwz823/vue3-admin-better/pkg/cli/internal/output"
	"github.com/xwz823/vue3-admin-better/pkg/config"
)

// SourceEntry is one key of the config sources output.
type SourceEntry struct {
	Key    string `json:"key"`
	Source string `json:"source"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging defaults, config files, VAB_*
environment variables and flags. Output is YAML unless --json is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return output.JSON(out, cfg)
		}
		for _, f := range cfg.Files {
			fmt.Fprintf(out, "# from %s\n", f)
		}
		return output.YAML(out, cfg)
	},
}

var configSourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show which layer set each configuration key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}
		entries := make([]SourceEntry, 0, len(cfg.Sources))
		for _, key := range cfg.SortedSources() {
			entries = append(entries, SourceEntry{Key: key, Source: cfg.Sources[key]})
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return output.JSON(out, entries)
		}
		tw := output.Table(out)
		fmt.Fprintln(tw, "KEY\tSOURCE")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\n", e.Key, e.Source)
		}
		return tw.Flush()
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of config files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(config.Schema())
		return err
	},
}

func init() {
	configCmd.AddCommand(configSourcesCmd, configSchemaCmd)
	rootCmd.AddCommand(configCmd)
}
