package importer

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/membership-backend/internal/app/importer/association"
	"github.com/heartmarshall/membership-backend/internal/app/importer/school"
	"github.com/heartmarshall/membership-backend/internal/domain"
)

type outcome int

const (
	outcomeInserted outcome = iota
	outcomeDuplicate
)

// strategy is the per-dataset duplicate resolution and write policy.
type strategy interface {
	// prepare runs once after the file is read and before any row.
	prepare(ctx context.Context, run *ImportRun) error
	// handle normalizes, resolves and writes one row. row is 1-based and
	// counts the header.
	handle(ctx context.Context, row int, cells []string) (outcome, error)
}

// incremental adds schools that the existing-record index does not know.
type incremental struct {
	store  Store
	typ    domain.SchoolType
	dryRun bool
}

func (s *incremental) prepare(context.Context, *ImportRun) error { return nil }

func (s *incremental) handle(ctx context.Context, _ int, cells []string) (outcome, error) {
	rec, err := school.Normalize(cells, s.typ)
	if err != nil {
		return 0, err
	}

	exists, err := s.store.ExistsSchool(ctx, rec.Key())
	if err != nil {
		return 0, err
	}
	if exists {
		return outcomeDuplicate, nil
	}

	if s.dryRun {
		return outcomeInserted, nil
	}
	if err := s.store.InsertSchool(ctx, rec); err != nil {
		return 0, err
	}
	return outcomeInserted, nil
}

// fullReplace empties the associations table and inserts every row.
type fullReplace struct {
	store  Store
	log    *slog.Logger
	dryRun bool
}

func (s *fullReplace) prepare(ctx context.Context, run *ImportRun) error {
	if s.dryRun {
		return nil
	}
	purged, err := s.store.ReplaceAssociations(ctx)
	if err != nil {
		return err
	}
	run.Purged = purged
	s.log.InfoContext(ctx, "associations purged", slog.Int64("rows", purged))
	return nil
}

func (s *fullReplace) handle(ctx context.Context, row int, cells []string) (outcome, error) {
	rec, notes, err := association.Normalize(cells)
	if err != nil {
		return 0, err
	}

	if notes.PhoneTruncated {
		s.log.WarnContext(ctx, "phone truncated",
			slog.Int("row", row),
			slog.Int("digits", notes.PhoneDigits),
			slog.Int("kept", association.PhoneMaxDigits),
		)
	}
	if notes.PhoneDiscarded {
		s.log.DebugContext(ctx, "phone discarded",
			slog.Int("row", row),
			slog.Int("digits", notes.PhoneDigits),
		)
	}
	if notes.Disambiguated {
		s.log.DebugContext(ctx, "placeholder name disambiguated",
			slog.Int("row", row),
			slog.String("name", rec.Name),
		)
	}

	if s.dryRun {
		return outcomeInserted, nil
	}
	if err := s.store.InsertAssociation(ctx, rec); err != nil {
		return 0, err
	}
	return outcomeInserted, nil
}
