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

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getResolveCmd returns the resolve command.
func getResolveCmd() *cobra.Command {
	resolveCmd := &cobra.Command{
		Use:   "resolve NAME LAT LNG",
		Short: "Find or create the bucket of a named location",
		Long: `Resolve a location name and coordinate to a geo-bucket.

The bucket of the coordinate's resolution-8 cell is returned when it
exists. Otherwise a bucket with a similar name in a neighboring cell
is used, and when there is none a new bucket is created.

Examples:
  geobuckets resolve "Sangotedo, Ajah" 6.4720 3.6301
  geobuckets resolve Ikoyi 6.4541 3.4316 --metrics-file metrics.prom`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args)
		},
	}

	return resolveCmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	lat, lng, err := parseLatLng(args[1], args[2])
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	return withEngine(cmd, func(ctx context.Context, e *engine) error {
		b, err := e.ingester.ResolveBucket(ctx, args[0], lat, lng)
		if err != nil {
			return err
		}
		gn.Info("Bucket <em>%d</em> (%s) in cell <em>%s</em>",
			b.ID, b.CanonicalName, b.Cell())
		return printJSON(cmd, b)
	})
}
