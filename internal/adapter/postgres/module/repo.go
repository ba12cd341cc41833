// Package module implements lesson module persistence using PostgreSQL.
// Module bodies are stored as json (not jsonb) so that row field order
// survives a round trip through the database.
package module

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/a1-lessons/internal/adapter/postgres"
	"github.com/heartmarshall/a1-lessons/internal/domain"
)

const (
	modulesTable = "lesson_modules"
	runsTable    = "content_publish_runs"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides module persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new module repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Fingerprints returns the stored content fingerprint of every module.
func (r *Repo) Fingerprints(ctx context.Context) (map[int]string, error) {
	query, args, err := psql.Select("id", "fingerprint").From(modulesTable).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build fingerprints query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query fingerprints: %w", err)
	}
	defer rows.Close()

	out := make(map[int]string)
	for rows.Next() {
		var (
			id int
			fp string
		)
		if err := rows.Scan(&id, &fp); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		out[id] = fp
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fingerprints: %w", err)
	}
	return out, nil
}

// GetByID returns one published module.
// Returns domain.ErrNotFound if the module was never published.
func (r *Repo) GetByID(ctx context.Context, id int) (*domain.Module, error) {
	query, args, err := psql.Select("body").From(modulesTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get module query: %w", err)
	}

	var body []byte
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&body); err != nil {
		return nil, postgres.MapError(err, "module", id)
	}

	m, err := decodeBody(id, body)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListSummaries returns the menu index without loading module bodies.
// Returns an empty slice (not nil) when nothing is published.
func (r *Repo) ListSummaries(ctx context.Context) ([]domain.ModuleSummary, error) {
	query, args, err := psql.Select("id", "title", "description").
		From(modulesTable).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list summaries query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	out := []domain.ModuleSummary{}
	for rows.Next() {
		var s domain.ModuleSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Description); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	return out, nil
}

// LoadModules returns every published module ordered by id. It lets the
// module store be built from the database instead of the shipped files.
func (r *Repo) LoadModules(ctx context.Context) ([]domain.Module, error) {
	query, args, err := psql.Select("id", "body").From(modulesTable).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load modules query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load modules: %w", err)
	}
	defer rows.Close()

	var out []domain.Module
	for rows.Next() {
		var (
			id   int
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		m, err := decodeBody(id, body)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load modules: %w", err)
	}
	return out, nil
}

// LastPublishRun returns the most recent publish audit record.
// Returns domain.ErrNotFound when nothing was ever published.
func (r *Repo) LastPublishRun(ctx context.Context) (*domain.PublishRun, error) {
	query, args, err := psql.
		Select("id", "started_at", "finished_at", "module_count", "upserted", "unchanged", "deleted", "dry_run").
		From(runsTable).
		OrderBy("started_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build last run query: %w", err)
	}

	var run domain.PublishRun
	err = postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&run.ID, &run.StartedAt, &run.FinishedAt, &run.ModuleCount,
		&run.Upserted, &run.Unchanged, &run.Deleted, &run.DryRun,
	)
	if err != nil {
		return nil, postgres.MapError(err, "publish_run", "latest")
	}
	return &run, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// UpsertModules inserts or replaces modules using pgx.Batch.
// Returns the number of affected rows.
func (r *Repo) UpsertModules(ctx context.Context, records []domain.ModuleRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(
			`INSERT INTO lesson_modules (id, title, description, body, fingerprint)
			 VALUES ($1, $2, $3, $4::json, $5)
			 ON CONFLICT (id) DO UPDATE SET
			     title       = EXCLUDED.title,
			     description = EXCLUDED.description,
			     body        = EXCLUDED.body,
			     fingerprint = EXCLUDED.fingerprint,
			     updated_at  = now()`,
			rec.ID, rec.Title, rec.Description, string(rec.Body), rec.Fingerprint,
		)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var affected int
	for i := range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return affected, postgres.MapError(err, "module", records[i].ID)
		}
		affected += int(tag.RowsAffected())
	}

	return affected, nil
}

// DeleteExcept removes every module whose id is not in keep. An empty keep
// set is rejected instead of wiping the table.
func (r *Repo) DeleteExcept(ctx context.Context, keep []int) (int, error) {
	if len(keep) == 0 {
		return 0, domain.NewValidationError("keep", "refusing to delete every module")
	}

	query, args, err := psql.Delete(modulesTable).Where(squirrel.NotEq{"id": keep}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete modules: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// InsertPublishRun records a publish audit entry.
func (r *Repo) InsertPublishRun(ctx context.Context, run domain.PublishRun) error {
	query, args, err := psql.Insert(runsTable).
		Columns("id", "started_at", "finished_at", "module_count", "upserted", "unchanged", "deleted", "dry_run").
		Values(run.ID, run.StartedAt, run.FinishedAt, run.ModuleCount, run.Upserted, run.Unchanged, run.Deleted, run.DryRun).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert run query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "publish_run", run.ID)
	}
	return nil
}

func decodeBody(id int, body []byte) (domain.Module, error) {
	var m domain.Module
	if err := json.Unmarshal(body, &m); err != nil {
		return domain.Module{}, fmt.Errorf("module %d: decode body: %w", id, err)
	}
	if m.ID != id {
		return domain.Module{}, fmt.Errorf("module %d: body carries id %d: %w", id, m.ID, domain.ErrConflict)
	}
	return m, nil
}

