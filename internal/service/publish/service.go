// Package publish pushes validated lesson modules into PostgreSQL. Unchanged
// modules are detected by content fingerprint and left alone.
package publish

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/a1-lessons/internal/domain"
)

//go:generate moq -out module_repo_mock_test.go -pkg publish . moduleRepo
//go:generate moq -out tx_manager_mock_test.go -pkg publish . txManager

type moduleRepo interface {
	Fingerprints(ctx context.Context) (map[int]string, error)
	UpsertModules(ctx context.Context, records []domain.ModuleRecord) (int, error)
	DeleteExcept(ctx context.Context, keep []int) (int, error)
	InsertPublishRun(ctx context.Context, run domain.PublishRun) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Options controls one publish run.
type Options struct {
	DryRun bool
	// PruneMissing deletes published modules that are no longer in the store.
	PruneMissing bool
	// Strict treats validation warnings as errors.
	Strict bool
}

// Result reports what a publish run did (or would do, for a dry run).
type Result struct {
	Run     domain.PublishRun
	Issues  []domain.ValidationIssue
	Changed []int // ids upserted, ascending
	Pruned  []int // ids deleted, ascending
}

// Service publishes modules.
type Service struct {
	repo  moduleRepo
	tx    txManager
	log   *slog.Logger
	now   func() time.Time
	newID func() uuid.UUID
}

// NewService creates a publish Service.
func NewService(log *slog.Logger, repo moduleRepo, tx txManager) *Service {
	return &Service{
		repo:  repo,
		tx:    tx,
		log:   log.With("service", "publish"),
		now:   time.Now,
		newID: uuid.New,
	}
}
