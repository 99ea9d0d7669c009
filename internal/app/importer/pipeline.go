package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/membership-backend/internal/app/importer/source"
	"github.com/heartmarshall/membership-backend/internal/config"
	"github.com/heartmarshall/membership-backend/internal/domain"
	"github.com/heartmarshall/membership-backend/pkg/ctxutil"
)

// Summary is the outcome of a whole run.
type Summary struct {
	RunID  uuid.UUID
	DryRun bool
	Runs   []ImportRun

	// Aggregates is nil when the run was aborted or the queries failed.
	Aggregates    *domain.Aggregates
	AggregatesErr error

	// Aborted is set when a store-level failure stopped the run; AbortErr holds it.
	Aborted  bool
	AbortErr error

	Duration time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRunReporter sets a callback invoked with every finished file run,
// failed ones included, before the next file starts.
func WithRunReporter(fn func(ImportRun)) Option {
	return func(p *Pipeline) { p.onRun = fn }
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id uuid.UUID) Option {
	return func(p *Pipeline) { p.runID = id }
}

// Pipeline imports the configured dataset files one after another.
// Rows are processed strictly in source order, one at a time: the duplicate
// check of a school reads what earlier rows wrote.
type Pipeline struct {
	log   *slog.Logger
	store Store
	cfg   config.ImportConfig
	runID uuid.UUID
	onRun func(ImportRun)
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, store Store, cfg config.ImportConfig, opts ...Option) *Pipeline {
	p := &Pipeline{
		log:   log,
		store: store,
		cfg:   cfg,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.runID == uuid.Nil {
		p.runID = uuid.New()
	}
	return p
}

// Run imports datasets in canonical order (all of them when datasets is empty).
// A file-level failure skips that file only. A store-level failure aborts the
// run: the remaining files are not attempted and the error is returned.
func (p *Pipeline) Run(ctx context.Context, datasets []domain.DatasetKind) (Summary, error) {
	start := time.Now()
	ctx = ctxutil.WithRunID(ctx, p.runID)

	summary := Summary{RunID: p.runID, DryRun: p.cfg.DryRun}
	log := runLogger(ctx, p.log)

	log.InfoContext(ctx, "import started", slog.Bool("dry_run", p.cfg.DryRun))

	for _, kind := range selectDatasets(datasets) {
		run, err := p.runFile(ctx, kind)
		summary.Runs = append(summary.Runs, run)

		if run.FileFailed() && p.onRun != nil {
			p.onRun(run)
		}
		p.writeAudit(ctx, log, run)

		if err != nil {
			summary.Aborted = true
			summary.AbortErr = err
			summary.Duration = time.Since(start)
			log.ErrorContext(ctx, "import aborted",
				slog.String("dataset", kind.String()),
				slog.String("error", err.Error()),
			)
			return summary, err
		}
	}

	agg, err := p.store.Aggregates(ctx)
	if err != nil {
		summary.AggregatesErr = err
		log.WarnContext(ctx, "aggregate queries failed", slog.String("error", err.Error()))
	} else {
		summary.Aggregates = &agg
	}

	summary.Duration = time.Since(start)
	log.InfoContext(ctx, "import completed",
		slog.Int("files", len(summary.Runs)),
		slog.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// runFile imports one dataset file. The returned error is non-nil only for
// failures that must abort the whole run; file-level failures are recorded
// in ImportRun.FileErr.
func (p *Pipeline) runFile(ctx context.Context, kind domain.DatasetKind) (ImportRun, error) {
	run := newImportRun(kind, p.cfg.Path(kind), p.cfg.DryRun)
	run.StartedAt = time.Now()
	if kind == domain.DatasetSchools {
		run.SchoolType = p.cfg.SchoolKind()
	}

	ctx = ctxutil.WithDataset(ctx, kind.String())
	err := p.importFile(ctx, run, runLogger(ctx, p.log).With(slog.String("path", run.Path)))

	run.Duration = time.Since(run.StartedAt)
	return *run, err
}

func (p *Pipeline) importFile(ctx context.Context, run *ImportRun, log *slog.Logger) error {
	kind, path := run.Dataset, run.Path

	if err := run.transition(StateReading); err != nil {
		return err
	}

	if err := p.store.CheckTable(ctx, kind); err != nil {
		run.fail(err)
		return fmt.Errorf("%s: %w", kind, err)
	}

	sheet, err := source.Read(path, source.Options{Sheet: p.cfg.Sheet})
	if err != nil {
		run.fail(err)
		log.WarnContext(ctx, "file skipped", slog.String("error", err.Error()))
		return nil
	}
	run.Source = &SourceInfo{
		Format:      string(sheet.Format),
		SheetName:   sheet.SheetName,
		Fingerprint: sheet.Fingerprint,
		Size:        sheet.Size,
		Header:      sheet.Header(),
		TotalRows:   len(sheet.Rows),
	}
	log.InfoContext(ctx, "file read",
		slog.Int("rows", len(sheet.Rows)),
		slog.String("format", string(sheet.Format)),
		slog.String("fingerprint", fmt.Sprintf("%016x", sheet.Fingerprint)),
	)

	if err := run.transition(StateProcessing); err != nil {
		return err
	}

	strat := p.strategyFor(kind, log)
	if err := strat.prepare(ctx, run); err != nil {
		run.fail(err)
		if isFatal(err) {
			return fmt.Errorf("%s: %w", kind, err)
		}
		log.WarnContext(ctx, "file skipped", slog.String("error", err.Error()))
		return nil
	}

	if err := p.processRows(ctx, run, sheet.Rows, strat, log); err != nil {
		run.fail(err)
		return fmt.Errorf("%s: %w", kind, err)
	}

	if err := run.transition(StateReporting); err != nil {
		return err
	}
	run.Duration = time.Since(run.StartedAt)
	log.InfoContext(ctx, "file imported",
		slog.Int("processed", run.Processed),
		slog.Int("succeeded", run.Succeeded),
		slog.Int("duplicate", run.Duplicate),
		slog.Int("skipped", run.Skipped),
		slog.Int("failed", run.Failed),
		slog.Duration("duration", run.Duration),
	)
	if p.onRun != nil {
		p.onRun(*run)
	}
	if err := run.transition(StateDone); err != nil {
		return err
	}

	return nil
}

// processRows walks rows from index 1 (index 0 is the header). No row-level
// failure stops the walk; a fatal store error does and is returned.
func (p *Pipeline) processRows(ctx context.Context, run *ImportRun, rows [][]string, strat strategy, log *slog.Logger) error {
	every := p.cfg.ProgressEvery(run.Dataset)

	for i := 1; i < len(rows); i++ {
		rowNum := i + 1

		res, err := strat.handle(ctx, rowNum, rows[i])
		switch {
		case err == nil && res == outcomeDuplicate:
			run.recordDuplicate(rowNum, "matches an existing record")
		case err == nil:
			run.recordSuccess()
			if every > 0 && run.Succeeded%every == 0 {
				log.InfoContext(ctx, "progress",
					slog.Int("succeeded", run.Succeeded),
					slog.Int("processed", run.Processed),
					slog.Int("total", len(rows)-1),
				)
			}
		case errors.Is(err, domain.ErrRowSkipped):
			run.recordSkip(rowNum, err.Error())
		case isFatal(err):
			run.recordFailure(rowNum, err.Error())
			return err
		default:
			run.recordFailure(rowNum, err.Error())
			log.DebugContext(ctx, "row failed", slog.Int("row", rowNum), slog.String("error", err.Error()))
		}
	}
	return nil
}

func (p *Pipeline) strategyFor(kind domain.DatasetKind, log *slog.Logger) strategy {
	if kind == domain.DatasetAssociations {
		return &fullReplace{store: p.store, log: log, dryRun: p.cfg.DryRun}
	}
	return &incremental{store: p.store, typ: p.cfg.SchoolKind(), dryRun: p.cfg.DryRun}
}

// runLogger attaches the run ID and dataset carried by ctx.
func runLogger(ctx context.Context, log *slog.Logger) *slog.Logger {
	if id, ok := ctxutil.RunIDFromCtx(ctx); ok {
		log = log.With(slog.String("run_id", id.String()))
	}
	if ds := ctxutil.DatasetFromCtx(ctx); ds != "" {
		log = log.With(slog.String("dataset", ds))
	}
	return log
}

func (p *Pipeline) writeAudit(ctx context.Context, log *slog.Logger, run ImportRun) {
	if p.cfg.AuditDir == "" {
		return
	}
	path, err := writeAudit(p.cfg.AuditDir, run, p.runID)
	if err != nil {
		log.WarnContext(ctx, "audit trail not written",
			slog.String("dataset", run.Dataset.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	log.InfoContext(ctx, "audit trail written",
		slog.String("dataset", run.Dataset.String()),
		slog.String("path", path),
		slog.Int("rows", len(run.Notices)),
	)
}

// isFatal reports whether err must stop the whole run.
func isFatal(err error) bool {
	return errors.Is(err, domain.ErrTableUnreachable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// selectDatasets keeps the canonical order and drops unknown or repeated kinds.
func selectDatasets(datasets []domain.DatasetKind) []domain.DatasetKind {
	all := domain.AllDatasets()
	if len(datasets) == 0 {
		return all
	}
	want := make(map[domain.DatasetKind]bool, len(datasets))
	for _, d := range datasets {
		want[d] = true
	}
	var out []domain.DatasetKind
	for _, d := range all {
		if want[d] {
			out = append(out, d)
		}
	}
	return out
}
