package manual

import (
	"time"

	"github.com/google/uuid"
)

// Revision is an immutable snapshot of an article at one version.
// Revisions are only ever inserted.
type Revision struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	ArticleID  uuid.UUID
	Version    int
	Title      string
	Content    string
	ChangeNote string
	ChangedBy  uuid.UUID
	CreatedAt  time.Time
}
