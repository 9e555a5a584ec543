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
	"context"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/spf13/cobra"
)

// getStatsCmd returns the stats command.
func getStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show bucket population statistics",
		Long: `Compute statistics over all geo-buckets.

The report contains bucket and listing totals, the most populated
buckets, the bounding box of bucket centers with its area on the
WGS84 ellipsoid, and a rollup of listing counts per resolution.

Examples:
  geobuckets stats
  geobuckets stats --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd)
		},
	}
	jsonFlag(statsCmd)

	return statsCmd
}

func runStats(cmd *cobra.Command) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	return withEngine(cmd, func(ctx context.Context, e *engine) error {
		res, err := e.ingester.GetStats(ctx)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, res)
		}
		printReport(res)
		return nil
	})
}

func printReport(r *geobucket.Report) {
	gn.Info("Buckets: <em>%s</em> (%s empty)",
		humanize.Comma(r.TotalBuckets), humanize.Comma(r.EmptyBuckets))
	gn.Info("Listings: <em>%s</em>", humanize.Comma(r.TotalListings))
	gn.Info("Unique locations: <em>%s</em>",
		humanize.Comma(r.Coverage.UniqueLocations))

	if bb := r.Coverage.BoundingBox; bb != nil {
		gn.Info("Bounding box: %.4f,%.4f .. %.4f,%.4f",
			bb.MinLat, bb.MinLng, bb.MaxLat, bb.MaxLng)
	}
	if r.Coverage.AreaKm2 != nil {
		gn.Info("Area: <em>%s</em> km², %.3f buckets per km²",
			humanize.CommafWithDigits(*r.Coverage.AreaKm2, 2),
			r.Coverage.AvgBucketDensity)
	}

	if len(r.TopBuckets) > 0 {
		gn.Info("\nTop buckets:")
	}
	for i, v := range r.TopBuckets {
		gn.Info("  %2d. %-25s %s listings (%s)",
			i+1, v.Name, humanize.Comma(v.ListingCount), v.Cell)
	}

	for _, v := range r.ResolutionStats {
		gn.Info("\nResolution %d: %s buckets, listings avg %.2f, min %d, max %d",
			v.Resolution, humanize.Comma(v.BucketCount),
			v.AvgListings, v.MinListings, v.MaxListings)
	}
}
