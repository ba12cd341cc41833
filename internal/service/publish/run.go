package publish

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/heartmarshall/a1-lessons/internal/domain"
	"github.com/heartmarshall/a1-lessons/pkg/ctxutil"
)

// Run validates modules and writes the changed ones in one transaction,
// together with a publish audit record. Validation errors abort the run
// before anything touches the database.
func (s *Service) Run(ctx context.Context, modules []*domain.Module, opts Options) (*Result, error) {
	if len(modules) == 0 {
		return nil, domain.NewValidationError("modules", "nothing to publish")
	}

	runID := s.newID()
	ctx = ctxutil.WithRunID(ctx, runID)
	log := ctxutil.Logger(ctx, s.log)

	res := &Result{Run: domain.PublishRun{
		ID:          runID,
		StartedAt:   s.now().UTC(),
		ModuleCount: len(modules),
		DryRun:      opts.DryRun,
	}}

	for _, m := range modules {
		res.Issues = append(res.Issues, domain.ValidateModule(m)...)
	}
	if err := domain.IssuesError(res.Issues, opts.Strict); err != nil {
		log.Warn("publish aborted by validation", slog.Int("issues", len(res.Issues)))
		return res, err
	}

	records := make([]domain.ModuleRecord, 0, len(modules))
	keep := make([]int, 0, len(modules))
	for _, m := range modules {
		rec, err := NewRecord(m)
		if err != nil {
			return res, err
		}
		records = append(records, rec)
		keep = append(keep, m.ID)
	}

	if opts.DryRun {
		stored, err := s.repo.Fingerprints(ctx)
		if err != nil {
			return res, fmt.Errorf("read fingerprints: %w", err)
		}
		changed := diff(records, stored)
		res.Changed = ids(changed)
		if opts.PruneMissing {
			res.Pruned = missing(stored, keep)
		}
		s.finish(res, len(changed), len(res.Pruned))
		log.Info("publish dry run",
			slog.Int("modules", len(records)),
			slog.Int("would_upsert", res.Run.Upserted),
			slog.Int("would_delete", res.Run.Deleted),
		)
		return res, nil
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		stored, err := s.repo.Fingerprints(ctx)
		if err != nil {
			return fmt.Errorf("read fingerprints: %w", err)
		}

		changed := diff(records, stored)
		if _, err := s.repo.UpsertModules(ctx, changed); err != nil {
			return fmt.Errorf("upsert modules: %w", err)
		}
		res.Changed = ids(changed)

		deleted := 0
		if opts.PruneMissing {
			res.Pruned = missing(stored, keep)
			if len(res.Pruned) > 0 {
				if deleted, err = s.repo.DeleteExcept(ctx, keep); err != nil {
					return fmt.Errorf("prune modules: %w", err)
				}
			}
		}

		s.finish(res, len(changed), deleted)
		if err := s.repo.InsertPublishRun(ctx, res.Run); err != nil {
			return fmt.Errorf("record publish run: %w", err)
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	log.Info("publish finished",
		slog.Int("modules", res.Run.ModuleCount),
		slog.Int("upserted", res.Run.Upserted),
		slog.Int("unchanged", res.Run.Unchanged),
		slog.Int("deleted", res.Run.Deleted),
	)
	return res, nil
}

func (s *Service) finish(res *Result, upserted, deleted int) {
	res.Run.Upserted = upserted
	res.Run.Unchanged = res.Run.ModuleCount - upserted
	res.Run.Deleted = deleted
	res.Run.FinishedAt = s.now().UTC()
}

// diff returns the records whose fingerprint differs from the stored one.
func diff(records []domain.ModuleRecord, stored map[int]string) []domain.ModuleRecord {
	var changed []domain.ModuleRecord
	for _, r := range records {
		if fp, ok := stored[r.ID]; ok && fp == r.Fingerprint {
			continue
		}
		changed = append(changed, r)
	}
	return changed
}

// missing returns stored ids absent from keep, ascending.
func missing(stored map[int]string, keep []int) []int {
	in := make(map[int]struct{}, len(keep))
	for _, id := range keep {
		in[id] = struct{}{}
	}
	var out []int
	for id := range stored {
		if _, ok := in[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

func ids(records []domain.ModuleRecord) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	sort.Ints(out)
	return out
}
