package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/internal/iofs"
	"github.com/gnames/geobuckets/pkg/config"
	"github.com/gnames/geobuckets/pkg/errcode"
	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupSQLite points the package config at a fresh SQLite file
// with the schema created.
func setupSQLite(t *testing.T) string {
	t.Helper()
	dir := useSQLite(t)
	require.NoError(t, runCreate(getCreateCmd(), nil, true))
	return dir
}

// useSQLite points the package config at a SQLite file without a schema.
func useSQLite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev := cfg
	t.Cleanup(func() { cfg = prev })

	cfg = config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(dir),
		config.OptStoreDriver("sqlite"),
		config.OptStoreSQLitePath(filepath.Join(dir, "cmd.db")),
		config.OptJobsNumber(2),
	})
	return dir
}

func TestDataCommandsArgs(t *testing.T) {
	tests := []struct {
		msg  string
		cmd  func() *cobra.Command
		good []string
		bad  []string
	}{
		{"index", getIndexCmd,
			[]string{"6.4", "3.6"}, []string{"6.4"}},
		{"resolve", getResolveCmd,
			[]string{"Ikoyi", "6.4", "3.6"}, []string{"Ikoyi"}},
		{"ingest", getIngestCmd,
			[]string{"file.yaml"}, []string{}},
		{"seed", getSeedCmd,
			[]string{}, []string{"extra"}},
		{"similar", getSimilarCmd,
			[]string{"Ajah"}, []string{}},
		{"near", getNearCmd,
			[]string{"6.4", "3.6"}, []string{"6.4", "3.6", "1"}},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			assert.NoError(t, v.cmd().ValidateArgs(v.good))
			assert.Error(t, v.cmd().ValidateArgs(v.bad))
		})
	}
}

func TestNearCmdFlags(t *testing.T) {
	cmd := getNearCmd()

	radius := cmd.Flags().Lookup("radius")
	require.NotNil(t, radius)
	assert.Equal(t, "1", radius.DefValue)
	assert.NotNil(t, cmd.Flags().Lookup("bbox"))
	assert.NotNil(t, cmd.Flags().Lookup("wkt"))

	limit := getSimilarCmd().Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "0", limit.DefValue)
	assert.NotNil(t, getListingsCmd().Flags().Lookup("json"))
}

func TestParseLatLng(t *testing.T) {
	lat, lng, err := parseLatLng("6.4698", "3.6285")
	require.NoError(t, err)
	assert.InDelta(t, 6.4698, lat, 1e-9)
	assert.InDelta(t, 3.6285, lng, 1e-9)

	_, _, err = parseLatLng("north", "3.6")
	assert.Error(t, err)
	_, _, err = parseLatLng("6.4", "east")
	assert.Error(t, err)
	_, _, err = parseLatLng("-90.5", "3.6")
	assert.Error(t, err)
}

func TestParseBBox(t *testing.T) {
	b, err := parseBBox("6.40, 3.40,6.46,3.48")
	require.NoError(t, err)
	assert.Equal(t, orb.Point{3.40, 6.40}, b.Min)
	assert.Equal(t, orb.Point{3.48, 6.46}, b.Max)

	for _, v := range []string{"6.4,3.4,6.5", "a,b,c,d", "6.4,3.4,96,3.5"} {
		_, err = parseBBox(v)
		assert.Error(t, err, v)
	}
}

func TestFilterBounds(t *testing.T) {
	in := &orb.Point{3.45, 6.45}
	out := &orb.Point{3.60, 6.47}
	bs := []geobucket.Bucket{
		{ID: 1, Center: in},
		{ID: 2, Center: out},
	}
	b := orb.Bound{Min: orb.Point{3.40, 6.40}, Max: orb.Point{3.50, 6.50}}

	res := filterBounds(bs, b)
	require.Len(t, res, 1)
	assert.Equal(t, int64(1), res[0].ID)
}

func TestIndexOutput(t *testing.T) {
	cmd := getIndexCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	require.NoError(t, runIndex(cmd, []string{"6.4698", "3.6285"}))

	var res []cellView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	require.Len(t, res, 3)
	assert.Equal(t, 7, res[0].Resolution)
	assert.Equal(t, 8, res[1].Resolution)
	assert.Equal(t, 9, res[2].Resolution)
	assert.Len(t, res[1].Cell, 15)
}

func TestSeedStatsNear(t *testing.T) {
	dir := setupSQLite(t)

	ins, err := iofs.SeedListings()
	require.NoError(t, err)

	seed := getSeedCmd()
	metricsPath := filepath.Join(dir, "metrics.prom")
	seed.Flags().String("metrics-file", metricsPath, "")
	require.NoError(t, runIngest(seed, ins, geobucket.BatchOptions{IfAbsent: true}))
	assert.FileExists(t, metricsPath)

	// repeated seeding skips stored titles
	require.NoError(t, runIngest(getSeedCmd(), ins, geobucket.BatchOptions{IfAbsent: true}))

	stats := getStatsCmd()
	buf := new(bytes.Buffer)
	stats.SetOut(buf)
	require.NoError(t, stats.Flags().Set("json", "true"))
	require.NoError(t, runStats(stats))

	var r geobucket.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &r))
	assert.Equal(t, int64(6), r.TotalBuckets)
	assert.Equal(t, int64(10), r.TotalListings)
	require.NotEmpty(t, r.TopBuckets)
	assert.Equal(t, int64(3), r.TopBuckets[0].ListingCount)

	require.NoError(t, runOptimize(getOptimizeCmd()))

	near := getNearCmd()
	buf = new(bytes.Buffer)
	near.SetOut(buf)
	near.SetArgs([]string{"6.4700", "3.6290", "--wkt"})
	require.NoError(t, near.Execute())
	assert.Contains(t, buf.String(), "POLYGON")
	assert.Contains(t, strings.ToLower(buf.String()), "sangotedo")
}

func TestCommandsNeedSchema(t *testing.T) {
	useSQLite(t)

	tests := []struct {
		msg string
		run func() error
	}{
		{"stats", func() error { return runStats(getStatsCmd()) }},
		{"optimize", func() error { return runOptimize(getOptimizeCmd()) }},
		{"similar", func() error {
			c := getSimilarCmd()
			c.SetArgs([]string{"Lekki"})
			return c.Execute()
		}},
	}

	for _, v := range tests {
		err := v.run()
		require.Error(t, err, v.msg)
		var gnErr *gn.Error
		require.ErrorAs(t, err, &gnErr, v.msg)
		assert.Equal(t, errcode.DBEmptyDatabaseError, gnErr.Code, v.msg)
		assert.Contains(t, gnErr.Msg, "geobuckets create", v.msg)
	}
}
