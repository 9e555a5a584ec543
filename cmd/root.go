/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/internal/iofs"
	"github.com/gnames/geobuckets/internal/iologger"
	app "github.com/gnames/geobuckets/pkg"
	"github.com/gnames/geobuckets/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "geobuckets",
		Short:   "Geobuckets groups listings into named hexagonal cells",
		Long: `Geobuckets resolves free-text locations with coordinates into
geo-buckets: resolution-8 H3 cells with a canonical place name.

Features:
  - Spatial indexing of coordinates at H3 resolutions 7, 8 and 9
  - Bucket resolution with fuzzy matching in neighboring cells
  - Listing ingestion with atomic listing counts
  - Fuzzy bucket search and population statistics

Data is kept in SQLite (default) or PostgreSQL with pg_trgm.`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "geobuckets version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for geobuckets")

	rootCmd.PersistentFlags().StringP("driver", "D", "",
		"storage driver: sqlite or postgres")
	rootCmd.PersistentFlags().String("metrics-file", "",
		"write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(
		getCreateCmd(),
		getMigrateCmd(),
		getOptimizeCmd(),
		getIndexCmd(),
		getResolveCmd(),
		getIngestCmd(),
		getSeedCmd(),
		getStatsCmd(),
		getSimilarCmd(),
		getNearCmd(),
		getListingsCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	cfg.Update(flagOptions(cmd))

	// Reconfigure logging with user's settings and proper log file location
	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"driver", cfg.Store.Driver,
	)

	return nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	iologger.Close()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("GEOBUCKETS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.host", "GEOBUCKETS_DATABASE_HOST")
	v.BindEnv("database.port", "GEOBUCKETS_DATABASE_PORT")
	v.BindEnv("database.user", "GEOBUCKETS_DATABASE_USER")
	v.BindEnv("database.password", "GEOBUCKETS_DATABASE_PASSWORD")
	v.BindEnv("database.database", "GEOBUCKETS_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "GEOBUCKETS_DATABASE_SSL_MODE")

	// Store configuration
	v.BindEnv("store.driver", "GEOBUCKETS_STORE_DRIVER")
	v.BindEnv("store.sqlite_path", "GEOBUCKETS_STORE_SQLITE_PATH")

	// Bucket resolution and search
	v.BindEnv("bucket.neighbor_ring", "GEOBUCKETS_BUCKET_NEIGHBOR_RING")
	v.BindEnv("bucket.match_threshold", "GEOBUCKETS_BUCKET_MATCH_THRESHOLD")
	v.BindEnv("bucket.search_threshold", "GEOBUCKETS_BUCKET_SEARCH_THRESHOLD")
	v.BindEnv("bucket.search_limit", "GEOBUCKETS_BUCKET_SEARCH_LIMIT")
	v.BindEnv("bucket.top_buckets", "GEOBUCKETS_BUCKET_TOP_BUCKETS")
	v.BindEnv("bucket.location_search_buckets",
		"GEOBUCKETS_BUCKET_LOCATION_SEARCH_BUCKETS")

	// Stats configuration
	v.BindEnv("stats.cache_ttl", "GEOBUCKETS_STATS_CACHE_TTL")

	// Log configuration
	v.BindEnv("log.level", "GEOBUCKETS_LOG_LEVEL")
	v.BindEnv("log.format", "GEOBUCKETS_LOG_FORMAT")
	v.BindEnv("log.destination", "GEOBUCKETS_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "GEOBUCKETS_JOBS_NUMBER")

	v.AutomaticEnv()
}
