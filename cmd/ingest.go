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
	"github.com/gnames/geobuckets/internal/iofs"
	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// getIngestCmd returns the ingest command.
func getIngestCmd() *cobra.Command {
	var ifAbsent, quiet bool

	ingestCmd := &cobra.Command{
		Use:   "ingest FILE",
		Short: "Ingest listings from a YAML or JSON file",
		Long: `Ingest listings from a file into geo-buckets.

The file contains a list of listings, each with title, location, lat,
lng and optional attributes. Every listing is indexed, resolved to a
bucket and stored in its own transaction by a pool of workers
(jobs_number in config.yaml). Repeated listings of the file are
ingested once. Failed listings are logged and counted.

Examples:
  geobuckets ingest listings.yaml
  geobuckets ingest listings.json --if-absent
  geobuckets ingest listings.yaml -q --metrics-file metrics.prom`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, err := iofs.ReadListings(args[0])
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			opts := geobucket.BatchOptions{
				IfAbsent:     ifAbsent,
				WithProgress: !quiet,
			}
			return runIngest(cmd, ins, opts)
		},
	}

	ingestCmd.Flags().BoolVarP(&ifAbsent, "if-absent", "a", false,
		"skip listings whose title is already stored")
	ingestCmd.Flags().BoolVarP(&quiet, "quiet", "q", false,
		"do not show progress bar")

	return ingestCmd
}

// getSeedCmd returns the seed command.
func getSeedCmd() *cobra.Command {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load built-in sample listings",
		Long: `Load sample listings from Lagos, Nigeria.

Listings whose title is already stored are skipped, so the command
can run repeatedly.

Examples:
  geobuckets seed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ins, err := iofs.SeedListings()
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			opts := geobucket.BatchOptions{IfAbsent: true}
			return runIngest(cmd, ins, opts)
		},
	}

	return seedCmd
}

func runIngest(
	cmd *cobra.Command,
	ins []geobucket.ListingInput,
	opts geobucket.BatchOptions,
) error {
	return withEngine(cmd, func(ctx context.Context, e *engine) error {
		gn.Info("Ingesting <em>%s</em> listings with %d workers...",
			humanize.Comma(int64(len(ins))), cfg.JobsNumber)

		res, err := e.ingester.IngestBatch(ctx, ins, opts)
		if err != nil {
			return err
		}

		gn.Info(
			"Ingested <em>%s</em>, skipped %s, duplicates %s, failed %s in %s",
			humanize.Comma(int64(res.Ingested)),
			humanize.Comma(int64(res.Skipped)),
			humanize.Comma(int64(res.Duplicates)),
			humanize.Comma(int64(res.Failed)),
			gnfmt.TimeString(res.Duration.Seconds()),
		)
		if res.Failed > 0 {
			gn.Warn("<warn>Some listings failed, see the log for details</warn>")
		}
		return nil
	})
}
