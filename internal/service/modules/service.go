// Package modules is the read-only lesson store: every module is loaded once
// at construction and served from memory afterwards.
package modules

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/heartmarshall/a1-lessons/internal/domain"
)

type moduleSource interface {
	LoadModules(ctx context.Context) ([]domain.Module, error)
}

// Service holds the immutable module index. It is safe for concurrent use.
type Service struct {
	byID    map[int]*domain.Module
	ordered []*domain.Module
	log     *slog.Logger
}

// NewService loads all modules from src and indexes them by id. It fails
// without a partial store when an id is below 1 or used twice.
func NewService(ctx context.Context, log *slog.Logger, src moduleSource) (*Service, error) {
	log = log.With("service", "modules")

	loaded, err := src.LoadModules(ctx)
	if err != nil {
		return nil, fmt.Errorf("load modules: %w", err)
	}

	s := &Service{
		byID:    make(map[int]*domain.Module, len(loaded)),
		ordered: make([]*domain.Module, 0, len(loaded)),
		log:     log,
	}

	for i := range loaded {
		m := &loaded[i]
		if m.ID < 1 {
			return nil, domain.NewValidationError("id", fmt.Sprintf("module id must be >= 1 (got %d)", m.ID))
		}
		if _, dup := s.byID[m.ID]; dup {
			return nil, fmt.Errorf("module %d defined twice: %w", m.ID, domain.ErrConflict)
		}
		s.byID[m.ID] = m
		s.ordered = append(s.ordered, m)
	}

	sort.Slice(s.ordered, func(i, j int) bool { return s.ordered[i].ID < s.ordered[j].ID })

	log.Info("module store ready", slog.Int("modules", len(s.ordered)))
	return s, nil
}

// GetModule returns the module with the given id. Unknown ids yield an error
// wrapping domain.ErrNotFound.
func (s *Service) GetModule(id int) (*domain.Module, error) {
	m, ok := s.byID[id]
	if !ok {
		s.log.Debug("module not found", slog.Int("module_id", id))
		return nil, fmt.Errorf("module %d: %w", id, domain.ErrNotFound)
	}
	return m, nil
}

// ListModules returns the menu index ordered by id. Ids are whatever was
// loaded; gaps are allowed.
func (s *Service) ListModules() []domain.ModuleSummary {
	out := make([]domain.ModuleSummary, len(s.ordered))
	for i, m := range s.ordered {
		out[i] = m.Summary()
	}
	return out
}

// Modules returns all modules ordered by id. The records are shared and must
// not be modified.
func (s *Service) Modules() []*domain.Module {
	out := make([]*domain.Module, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// IDs returns the loaded module ids in ascending order.
func (s *Service) IDs() []int {
	ids := make([]int, len(s.ordered))
	for i, m := range s.ordered {
		ids[i] = m.ID
	}
	return ids
}

// Len returns the number of loaded modules.
func (s *Service) Len() int { return len(s.ordered) }
