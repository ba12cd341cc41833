package domain

import (
	"time"

	"github.com/google/uuid"
)

// PublishRun is the audit record of one publish of the content store into
// the database.
type PublishRun struct {
	ID          uuid.UUID
	StartedAt   time.Time
	FinishedAt  time.Time
	ModuleCount int
	Upserted    int
	Unchanged   int
	Deleted     int
	DryRun      bool
}
