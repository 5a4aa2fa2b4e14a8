package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xwz823/vue3-admin-better/pkg/cli/internal/output"
)

// VersionInfo is the output of vab version.
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

func (v VersionInfo) String() string {
	ver := v.Version
	if ver != "dev" && ver != "(devel)" && !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return fmt.Sprintf("vab %s (%s, %s)\n%s %s/%s\n", ver, v.Commit, v.Date, v.Go, v.OS, v.Arch)
}

// buildVersion prefers the -ldflags values and falls back to the VCS
// stamps of the embedded build info.
func buildVersion() VersionInfo {
	v := VersionInfo{
		Version: Version,
		Commit:  Commit,
		Date:    BuildDate,
		Go:      runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	vcs := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		vcs[s.Key] = s.Value
	}
	if v.Version == "dev" && info.Main.Version != "" {
		v.Version = info.Main.Version
	}
	if rev := vcs["vcs.revision"]; v.Commit == "none" && rev != "" {
		v.Commit = rev
		if vcs["vcs.modified"] == "true" {
			v.Commit += "-dirty"
		}
	}
	if t := vcs["vcs.time"]; v.Date == "unknown" && t != "" {
		v.Date = t
	}
	return v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show vab version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := buildVersion()
		if jsonOutput {
			return output.JSON(cmd.OutOrStdout(), v)
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), v)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
