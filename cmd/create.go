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
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/internal/iodb"
	"github.com/gnames/geobuckets/internal/ioschema"
	"github.com/gnames/geobuckets/internal/iostore"
	"github.com/gnames/geobuckets/pkg/db"
	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/spf13/cobra"
)

// getCreateCmd returns the create command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCreateCmd() *cobra.Command {
	var forceCreate bool

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create storage schema",
		Long: `Create the geobuckets schema from scratch.

This command:
  1. Opens SQLite or connects to PostgreSQL using configuration settings
  2. Checks for existing tables and prompts for confirmation
  3. Creates buckets and listings tables using GORM AutoMigrate
  4. On PostgreSQL enables pg_trgm and builds the trigram index
     on normalized bucket names

Use --force to skip confirmation and drop existing tables.

Examples:
  geobuckets create
  geobuckets create --force
  geobuckets create -f -D postgres`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args, forceCreate)
		},
	}

	createCmd.Flags().BoolVarP(&forceCreate, "force", "f",
		false, "drop existing tables without confirmation")

	return createCmd
}

func runCreate(
	cmd *cobra.Command,
	_ []string,
	force bool,
) error {
	ctx := context.Background()

	st, op, closeFn, err := openSchemaStore(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer closeFn()

	hasTables, err := ioschema.HasTables(ctx, st)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Handle existing tables
	if hasTables {
		if !force {
			gn.Warn("\nWarning: Storage contains existing tables.")
			gn.Warn("Creating schema will drop ALL existing buckets and listings.")
			fmt.Fprint(cmd.OutOrStdout(), "\nDo you want to continue? (yes/no): ")

			reader := bufio.NewReader(os.Stdin)
			response, err := reader.ReadString('\n')
			if err != nil {
				gn.Warn("Failed to read user input")
				return err
			}

			response = strings.TrimSpace(strings.ToLower(response))
			if response != "yes" && response != "y" {
				gn.Info("Aborted. No changes made.")
				return nil
			}
		}

		gn.Info("Dropping all existing tables...")
		if err = ioschema.DropTables(ctx, st); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		gn.Info("All tables dropped")
	}

	sm := ioschema.NewManager(st, op)

	gn.Info("Creating schema using GORM AutoMigrate...")
	if err = sm.Create(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("\nSchema creation complete!")
	gn.Info("\nNext steps:")
	gn.Info("  - Run '<em>geobuckets seed</em>' to load sample listings")
	gn.Info("  - Run '<em>geobuckets ingest FILE</em>' to import listings")

	return nil
}

// openSchemaStore opens the configured store together with the
// PostgreSQL operator that schema management needs for extensions.
// The operator is nil for SQLite.
func openSchemaStore(ctx context.Context) (
	geobucket.Store,
	db.Operator,
	func(),
	error,
) {
	if cfg.Store.Driver != iostore.DialectPostgres {
		st, err := iostore.Open(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		gn.Info("Opened SQLite database: <em>%s</em>", cfg.SQLiteFile())
		return st, nil, func() { st.Close() }, nil
	}

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, nil, nil, err
	}

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	st, err := iostore.NewPostgres(op)
	if err != nil {
		op.Close()
		return nil, nil, nil, err
	}

	closeFn := func() {
		st.Close()
		op.Close()
	}
	return st, op, closeFn, nil
}
