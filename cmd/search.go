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
	"fmt"
	"strconv"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/gnames/geobuckets/pkg/spatial"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/spf13/cobra"
)

// getSimilarCmd returns the similar command.
func getSimilarCmd() *cobra.Command {
	similarCmd := &cobra.Command{
		Use:   "similar NAME",
		Short: "Find buckets with similar names",
		Long: `Find geo-buckets whose normalized name is similar to NAME.

Results are ordered by similarity, most similar first. Buckets with
equal similarity are ordered by id.

Examples:
  geobuckets similar Sangotedo
  geobuckets similar "lekki phase 1" --limit 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return withEngine(cmd, func(ctx context.Context, e *engine) error {
				res, err := e.ingester.FindSimilarBuckets(ctx, args[0], limit)
				if err != nil {
					return err
				}
				printBuckets(res)
				return nil
			})
		},
	}
	limitFlag(similarCmd)

	return similarCmd
}

// getListingsCmd returns the listings command.
func getListingsCmd() *cobra.Command {
	listingsCmd := &cobra.Command{
		Use:   "listings LOCATION",
		Short: "Find listings by location name",
		Long: `Find listings stored in buckets with names similar to LOCATION.

Listings are ordered from newest to oldest.

Examples:
  geobuckets listings Sangotedo
  geobuckets listings Ajah -l 5 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			asJSON, _ := cmd.Flags().GetBool("json")
			return withEngine(cmd, func(ctx context.Context, e *engine) error {
				res, err := e.ingester.FindListingsByLocation(ctx, args[0], limit)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, res)
				}
				gn.Info("Found <em>%d</em> listings", len(res))
				for _, v := range res {
					gn.Info("  %s | %s | %s",
						v.CreatedAt.Format("2006-01-02 15:04"), v.Title, v.RawLocationName)
				}
				return nil
			})
		},
	}
	limitFlag(listingsCmd)
	jsonFlag(listingsCmd)

	return listingsCmd
}

// getNearCmd returns the near command.
func getNearCmd() *cobra.Command {
	var (
		radius  float64
		bbox    string
		withWKT bool
	)

	nearCmd := &cobra.Command{
		Use:   "near LAT LNG",
		Short: "Find buckets around a coordinate",
		Long: `Find existing geo-buckets around a coordinate, closest first.

The radius is converted into a number of hexagon rings around the
coordinate's cell (at least 1, at most 5). With --bbox only buckets
whose centers fall inside the box are shown. With --wkt bucket
boundaries are printed as WKT polygons.

Examples:
  geobuckets near 6.4700 3.6290
  geobuckets near 6.4700 3.6290 --radius 3 --wkt
  geobuckets near 6.45 3.45 -r 5 --bbox 6.40,3.40,6.46,3.48`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, lng, err := parseLatLng(args[0], args[1])
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}

			var bound *orb.Bound
			if bbox != "" {
				if bound, err = parseBBox(bbox); err != nil {
					gn.PrintErrorMessage(err)
					return err
				}
			}

			return withEngine(cmd, func(ctx context.Context, e *engine) error {
				res, err := e.ingester.BucketsWithinRadius(ctx, lat, lng, radius)
				if err != nil {
					return err
				}
				if bound != nil {
					res = filterBounds(res, *bound)
				}
				if withWKT {
					printWKT(cmd, res)
					return nil
				}
				printBuckets(res)
				return nil
			})
		},
	}

	nearCmd.Flags().Float64VarP(&radius, "radius", "r", 1,
		"search radius in kilometers")
	nearCmd.Flags().StringVarP(&bbox, "bbox", "b", "",
		"keep buckets inside minLat,minLng,maxLat,maxLng")
	nearCmd.Flags().BoolVarP(&withWKT, "wkt", "w", false,
		"print bucket boundaries as WKT")

	return nearCmd
}

func printBuckets(bs []geobucket.Bucket) {
	gn.Info("Found <em>%d</em> buckets", len(bs))
	for _, v := range bs {
		gn.Info("  %6d  %s  %-25s %d listings",
			v.ID, v.Cell(), v.CanonicalName, v.ListingCount)
	}
}

func printWKT(cmd *cobra.Command, bs []geobucket.Bucket) {
	for _, v := range bs {
		geom := v.Boundary
		if len(geom) == 0 {
			_, poly, err := spatial.GeometryOf(v.CellID)
			if err != nil {
				continue
			}
			geom = poly
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n",
			v.CanonicalName, wkt.MarshalString(geom))
	}
}

func filterBounds(bs []geobucket.Bucket, b orb.Bound) []geobucket.Bucket {
	res := make([]geobucket.Bucket, 0, len(bs))
	for _, v := range bs {
		lat, lng, err := v.CenterLatLng()
		if err != nil {
			continue
		}
		if spatial.InBounds(lat, lng, b) {
			res = append(res, v)
		}
	}
	return res
}

// parseBBox reads "minLat,minLng,maxLat,maxLng".
func parseBBox(s string) (*orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bounding box %q needs 4 numbers", s)
	}

	var vals [4]float64
	for i, v := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse bounding box %q: %w", s, err)
		}
		vals[i] = f
	}

	for _, v := range [][2]float64{{vals[0], vals[1]}, {vals[2], vals[3]}} {
		if err := spatial.ValidateCoordinate(v[0], v[1]); err != nil {
			return nil, err
		}
	}

	res := orb.Bound{
		Min: orb.Point{vals[1], vals[0]},
		Max: orb.Point{vals[3], vals[2]},
	}
	return &res, nil
}
