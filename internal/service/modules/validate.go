package modules

import (
	"log/slog"

	"github.com/heartmarshall/a1-lessons/internal/domain"
)

// ValidateModule checks one module's content invariants.
func (s *Service) ValidateModule(m *domain.Module) []domain.ValidationIssue {
	return domain.ValidateModule(m)
}

// ValidateAll validates every loaded module, in id order.
func (s *Service) ValidateAll() []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	for _, m := range s.ordered {
		issues = append(issues, domain.ValidateModule(m)...)
	}

	if len(issues) > 0 {
		s.log.Warn("content issues found",
			slog.Int("issues", len(issues)),
			slog.Bool("has_errors", domain.HasErrors(issues)),
		)
	}
	return issues
}

// Stats returns the module count and per-module structural counts.
func (s *Service) Stats() domain.StoreStats {
	st := domain.StoreStats{
		Modules:   len(s.ordered),
		PerModule: make([]domain.ModuleStats, len(s.ordered)),
	}
	for i, m := range s.ordered {
		st.PerModule[i] = m.Stats()
	}
	return st
}
