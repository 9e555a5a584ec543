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
	"github.com/gnames/geobuckets/internal/iooptimize"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// getOptimizeCmd returns the optimize command.
func getOptimizeCmd() *cobra.Command {
	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "Repair listing counts and refresh statistics",
		Long: `Optimize performs storage maintenance.

This command:
  1. Recounts listings of buckets whose listing count drifted
  2. Reports listings that are not attached to any bucket
  3. Runs VACUUM ANALYZE to update query planner statistics

Examples:
  geobuckets optimize
  geobuckets optimize -D postgres`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOptimize(cmd)
		},
	}

	return optimizeCmd
}

func runOptimize(_ *cobra.Command) error {
	ctx := context.Background()

	st, op, closeFn, err := openSchemaStore(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer closeFn()

	if err = ensureSchema(ctx, st); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	res, err := iooptimize.NewOptimizer(st, op).Optimize(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Recounted <em>%s</em> buckets in %s",
		humanize.Comma(res.RecountedBuckets),
		gnfmt.TimeString(res.Duration.Seconds()))
	if res.DetachedListings > 0 {
		gn.Warn("<warn>%s listings are not attached to a bucket</warn>",
			humanize.Comma(res.DetachedListings))
	}
	return nil
}
