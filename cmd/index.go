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
	"strconv"

	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/pkg/spatial"
	"github.com/spf13/cobra"
)

type cellView struct {
	Resolution int     `json:"resolution"`
	ID         int64   `json:"id"`
	Cell       string  `json:"cell"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

// getIndexCmd returns the index command.
func getIndexCmd() *cobra.Command {
	indexCmd := &cobra.Command{
		Use:   "index LAT LNG",
		Short: "Show H3 cells of a coordinate",
		Long: `Index a coordinate on the H3 grid at resolutions 7, 8 and 9.

Resolution 8 cells are geo-buckets, resolution 7 cells are their
parents, resolution 9 cells are stored with listings.

Examples:
  geobuckets index 6.4698 3.6285
  geobuckets index -- -33.8688 151.2093`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, args)
		},
	}

	return indexCmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	lat, lng, err := parseLatLng(args[0], args[1])
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	idx, err := spatial.IndexAt(lat, lng)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	res := make([]cellView, 0, 3)
	for _, v := range []int64{idx.R7, idx.R8, idx.R9} {
		view, err := newCellView(v)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		res = append(res, view)
	}
	return printJSON(cmd, res)
}

func newCellView(cell int64) (cellView, error) {
	res, err := spatial.ResolutionOf(cell)
	if err != nil {
		return cellView{}, err
	}
	lat, lng, err := spatial.CenterOf(cell)
	if err != nil {
		return cellView{}, err
	}
	return cellView{
		Resolution: res,
		ID:         cell,
		Cell:       spatial.CellToString(cell),
		Lat:        lat,
		Lng:        lng,
	}, nil
}

func parseLatLng(latStr, lngStr string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot parse latitude %q: %w", latStr, err)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot parse longitude %q: %w", lngStr, err)
	}
	return lat, lng, spatial.ValidateCoordinate(lat, lng)
}
