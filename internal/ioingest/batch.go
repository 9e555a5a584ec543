package ioingest

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/geobuckets/internal/iometrics"
	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/gnames/gnfmt"
	"golang.org/x/sync/errgroup"
)

// IngestBatch ingests listings with Config.JobsNumber workers. Each
// listing has its own transaction, so a failed listing does not affect
// the others. Repeated listings of the batch are ingested once. The
// returned error is non-nil only when ctx is canceled.
func (g *ingester) IngestBatch(
	ctx context.Context,
	ins []geobucket.ListingInput,
	opts geobucket.BatchOptions,
) (geobucket.BatchResult, error) {
	start := time.Now()
	res := geobucket.BatchResult{Total: len(ins)}

	jobs := g.dedupe(ins, opts.IfAbsent)
	res.Duplicates = len(ins) - len(jobs)

	var bar *pb.ProgressBar
	if opts.WithProgress {
		bar = pb.Full.Start(len(ins))
		bar.Set("prefix", "Ingesting listings: ")
		bar.Set(pb.CleanOnFinish, true)
		bar.Add(res.Duplicates)
		defer bar.Finish()
	}

	chIn := make(chan geobucket.ListingInput)
	chOut := make(chan string)

	eg, gCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(chIn)
		for _, v := range jobs {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case chIn <- v:
			}
		}
		return nil
	})

	workerCount := g.cfg.JobsNumber
	if workerCount <= 0 {
		workerCount = 1
	}

	var wg sync.WaitGroup
	for range workerCount {
		wg.Add(1)
		eg.Go(func() error {
			defer wg.Done()
			return g.worker(gCtx, opts.IfAbsent, chIn, chOut)
		})
	}

	go func() {
		wg.Wait()
		close(chOut)
	}()

	eg.Go(func() error {
		for outcome := range chOut {
			switch outcome {
			case iometrics.ListingIngested:
				res.Ingested++
			case iometrics.ListingSkipped:
				res.Skipped++
			default:
				res.Failed++
			}
			if bar != nil {
				bar.Increment()
			}
		}
		return nil
	})

	err := eg.Wait()
	if err == nil {
		err = ctx.Err()
	}
	res.Duration = time.Since(start)

	slog.Info("Batch ingested",
		"total", humanize.Comma(int64(res.Total)),
		"ingested", humanize.Comma(int64(res.Ingested)),
		"skipped", humanize.Comma(int64(res.Skipped)),
		"duplicates", humanize.Comma(int64(res.Duplicates)),
		"failed", humanize.Comma(int64(res.Failed)),
		"duration", gnfmt.TimeString(res.Duration.Seconds()),
	)
	return res, err
}

func (g *ingester) worker(
	ctx context.Context,
	ifAbsent bool,
	chIn <-chan geobucket.ListingInput,
	chOut chan<- string,
) error {
	for in := range chIn {
		outcome := g.ingestOne(ctx, in, ifAbsent)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chOut <- outcome:
		}
	}
	return nil
}

func (g *ingester) ingestOne(
	ctx context.Context,
	in geobucket.ListingInput,
	ifAbsent bool,
) string {
	var err error
	created := true
	if ifAbsent {
		_, created, err = g.IngestListingIfAbsent(ctx, in)
	} else {
		_, err = g.IngestListing(ctx, in)
	}

	switch {
	case err != nil:
		slog.Warn("Listing skipped after failure",
			"title", in.Title, "error", err)
		return iometrics.ListingFailed
	case !created:
		return iometrics.ListingSkipped
	default:
		return iometrics.ListingIngested
	}
}

// dedupe drops repeated listings. With ifAbsent listings are the same
// when titles match, otherwise when fingerprints match.
func (g *ingester) dedupe(
	ins []geobucket.ListingInput,
	ifAbsent bool,
) []geobucket.ListingInput {
	seen := make(map[string]struct{}, len(ins))
	res := make([]geobucket.ListingInput, 0, len(ins))
	for _, v := range ins {
		key := Fingerprint(v)
		if ifAbsent {
			key = strings.TrimSpace(v.Title)
		}
		if _, ok := seen[key]; ok {
			g.metrics.RecordListing(iometrics.ListingDuplicate)
			continue
		}
		seen[key] = struct{}{}
		res = append(res, v)
	}
	return res
}
