package publish

import (
	"fmt"

	"github.com/heartmarshall/a1-lessons/internal/domain"
	"github.com/heartmarshall/a1-lessons/pkg/canonical"
)

// NewRecord prepares a module for storage. The body keeps field and row
// order; the fingerprint is taken over exactly those bytes, so reordering
// row fields counts as a change.
func NewRecord(m *domain.Module) (domain.ModuleRecord, error) {
	body, err := canonical.Marshal(m)
	if err != nil {
		return domain.ModuleRecord{}, fmt.Errorf("module %d: %w", m.ID, err)
	}
	return domain.ModuleRecord{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Body:        body,
		Fingerprint: canonical.Fingerprint(body),
	}, nil
}
