// Command importer loads the school and association spreadsheet exports into
// PostgreSQL and prints a report per file plus a final summary.
// Schools are imported incrementally (existing records are skipped as
// duplicates); associations are fully replaced on every run.
//
// Flags:
//
//	--config   path to YAML config file (default: CONFIG_PATH or ./config.yaml)
//	--dataset  comma-separated datasets to import: schools, associations (default: all)
//	--dry-run  read and resolve rows without writing to DB
//	--migrate  apply embedded migrations before importing
//
// Exit codes: 0 = run completed (row errors included), 1 = configuration,
// connection or migration failure, or a required table is unreachable.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/heartmarshall/membership-backend/internal/adapter/postgres"
	"github.com/heartmarshall/membership-backend/internal/adapter/postgres/store"
	"github.com/heartmarshall/membership-backend/internal/app"
	"github.com/heartmarshall/membership-backend/internal/app/importer"
	"github.com/heartmarshall/membership-backend/internal/app/importer/report"
	"github.com/heartmarshall/membership-backend/internal/config"
	"github.com/heartmarshall/membership-backend/internal/domain"
)

func main() {
	os.Exit(run())
}

// run returns the exit code; deferred cleanup runs before main exits.
func run() int {
	configFlag := flag.String("config", "", "path to YAML config file")
	datasetFlag := flag.String("dataset", "", "comma-separated datasets to import (default: all)")
	dryRunFlag := flag.Bool("dry-run", false, "read and resolve rows without writing to DB")
	migrateFlag := flag.Bool("migrate", false, "apply embedded migrations before importing")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("load .env: %v", err)
		return 1
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Printf("load config: %v", err)
		return 1
	}

	logger := app.NewLogger(cfg.Log)

	logger.Info("starting importer",
		slog.String("version", app.BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	// CLI flags override config.
	if *dryRunFlag {
		cfg.Import.DryRun = true
	}

	datasets, err := parseDatasets(*datasetFlag)
	if err != nil {
		logger.Error("parse datasets", slog.String("error", err.Error()))
		return 1
	}

	ctx := context.Background()

	if *migrateFlag {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, logger); err != nil {
			logger.Error("apply migrations", slog.String("error", err.Error()))
			return 1
		}
	}

	conn, err := postgres.NewConn(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := conn.Close(context.Background()); err != nil {
			logger.Warn("close database connection", slog.String("error", err.Error()))
		}
	}()

	rep := report.New(os.Stdout, cfg.Import.ErrorPreviewLimit, cfg.Import.TopProvinces)

	pipeline := importer.NewPipeline(logger, store.New(conn), cfg.Import,
		importer.WithRunReporter(func(r importer.ImportRun) {
			if err := rep.WriteRun(r); err != nil {
				logger.Warn("write run report", slog.String("error", err.Error()))
			}
		}),
	)

	summary, runErr := pipeline.Run(ctx, datasets)
	if err := rep.WriteSummary(summary); err != nil {
		logger.Warn("write summary report", slog.String("error", err.Error()))
	}

	if runErr != nil {
		logger.Error("import aborted", slog.String("error", runErr.Error()))
		return 1
	}
	return 0
}

// parseDatasets splits a comma-separated dataset list. Empty means all.
func parseDatasets(s string) ([]domain.DatasetKind, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []domain.DatasetKind
	for _, part := range strings.Split(s, ",") {
		kind := domain.DatasetKind(strings.ToLower(strings.TrimSpace(part)))
		if kind == "" {
			continue
		}
		if !kind.IsValid() {
			return nil, fmt.Errorf("unknown dataset %q (want schools or associations)", part)
		}
		out = append(out, kind)
	}
	return out, nil
}
