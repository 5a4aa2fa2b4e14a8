// vab CLI - development toolkit of the admin template
package main

import (
	"github.com/xwz823/vue3-admin-better/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cli.Version, cli.Commit, cli.BuildDate = Version, Commit, BuildDate
	cli.Execute()
}
