package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/internal/iodb"
	"github.com/gnames/geobuckets/internal/ioingest"
	"github.com/gnames/geobuckets/internal/iometrics"
	"github.com/gnames/geobuckets/internal/ioschema"
	"github.com/gnames/geobuckets/internal/iostore"
	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/gnames/gnfmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// engine bundles what the data commands need: an open store, the
// ingester built on it and optional metrics.
type engine struct {
	store       geobucket.Store
	ingester    geobucket.Ingester
	metrics     *iometrics.Metrics
	metricsFile string
}

func openEngine(ctx context.Context, cmd *cobra.Command) (*engine, error) {
	res := &engine{metricsFile: metricsFileFlag(cmd)}

	if res.metricsFile != "" {
		m, err := iometrics.New(prometheus.NewRegistry())
		if err != nil {
			return nil, err
		}
		res.metrics = m
	}

	st, err := iostore.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	res.store = st
	res.ingester = ioingest.New(cfg, st, res.metrics)

	slog.Info("Store opened", "dialect", st.Capabilities().Dialect)
	return res, nil
}

// close writes metrics, if requested, and closes the store.
func (e *engine) close() error {
	var errs []error
	if e.metricsFile != "" {
		errs = append(errs, e.metrics.WriteToTextfile(e.metricsFile))
	}
	errs = append(errs, e.store.Close())
	return errors.Join(errs...)
}

// withEngine opens the engine, runs fn and prints any error.
func withEngine(
	cmd *cobra.Command,
	fn func(context.Context, *engine) error,
) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	e, err := openEngine(ctx, cmd)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	err = ensureSchema(ctx, e.store)
	if err == nil {
		err = fn(ctx, e)
	}
	if cerr := e.close(); cerr != nil {
		slog.Error("Cannot close engine", "error", cerr)
		if err == nil {
			err = cerr
		}
	}
	if err != nil {
		gn.PrintErrorMessage(err)
	}
	return err
}

// ensureSchema returns an empty database error when the store has no
// geobuckets tables yet.
func ensureSchema(ctx context.Context, st geobucket.Store) error {
	hasTables, err := ioschema.HasTables(ctx, st)
	if err != nil {
		return err
	}
	if hasTables {
		return nil
	}

	if st.Capabilities().Dialect == iostore.DialectPostgres {
		return iodb.EmptyDatabaseError(cfg.Database.Host, cfg.Database.Database)
	}
	return iodb.EmptyDatabaseError("local disk", cfg.SQLiteFile())
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := gnfmt.GNjson{Pretty: true}
	bs, err := enc.Encode(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(bs))
	return nil
}
