package cmd

import (
	"fmt"
	"os"

	geobuckets "github.com/gnames/geobuckets/pkg"
	"github.com/gnames/geobuckets/pkg/config"
	"github.com/spf13/cobra"
)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", geobuckets.Version, geobuckets.Build)
		os.Exit(0)
	}
}

// flagOptions converts persistent flags that were set explicitly into
// config options. They override the config file and the environment.
func flagOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	if cmd.Flags().Changed("driver") {
		s, _ := cmd.Flags().GetString("driver")
		res = append(res, config.OptStoreDriver(s))
	}
	return res
}

func metricsFileFlag(cmd *cobra.Command) string {
	s, _ := cmd.Flags().GetString("metrics-file")
	return s
}

func limitFlag(cmd *cobra.Command) {
	cmd.Flags().IntP("limit", "l", 0,
		"maximum number of results (0 uses the configured default)")
}

func jsonFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false, "print results as JSON")
}
