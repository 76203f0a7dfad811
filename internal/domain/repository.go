package domain

import (
	"context"
	"time"
)

// DocumentRepository persists the whole Document. There are no partial reads or writes.
type DocumentRepository interface {
	// Load returns an empty Document when nothing has been stored yet.
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
	// Update runs load, fn, save. Nothing is written when fn fails.
	Update(ctx context.Context, fn func(doc *Document) error) error
	// Export returns the document in its stored encoding.
	Export(ctx context.Context) ([]byte, error)
}

type AuditRecord struct {
	Timestamp time.Time
	Username  string
	Action    string
	Section   string
	Details   string
}

// AuditLogger is an append-only sink; records are never read back.
type AuditLogger interface {
	Append(ctx context.Context, rec AuditRecord) error
}
