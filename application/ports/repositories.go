// Package ports defines the persistence contract consumed by the
// synchronization core. Implementations live under
// infrastructure/persistence; the services never touch a store directly.
package ports

import (
	"context"

	"chatmemo/domain/core/entities"
)

// MemoUpdate carries a partial memo update. Nil fields are left
// untouched; UpdatedAt is always written.
type MemoUpdate struct {
	Title         *string
	TitleModified *bool
	IsStarred     *bool
	UpdatedAt     string
}

// MemoRepository is the remote store for memos.
type MemoRepository interface {
	// Insert persists a memo row. An empty ID lets the store assign one;
	// the returned memo is the stored row.
	Insert(ctx context.Context, memo *entities.Memo) (*entities.Memo, error)

	// SelectAll returns every memo of the owner. Server-side ordering is
	// advisory; the client re-sorts with the authoritative policy.
	SelectAll(ctx context.Context, ownerID string) ([]*entities.Memo, error)

	// Update applies a partial update and returns the updated row.
	Update(ctx context.Context, id string, update MemoUpdate) (*entities.Memo, error)

	// Delete removes the memo row permanently.
	Delete(ctx context.Context, id string) error
}

// TombstoneRepository stores recoverable snapshots of deleted memos.
type TombstoneRepository interface {
	Insert(ctx context.Context, tombstone *entities.MemoTombstone) error

	// SelectLatestByOriginalID returns the most recent tombstone for the
	// given original memo id, or a NotFound error when none exists.
	SelectLatestByOriginalID(ctx context.Context, ownerID, originalID string) (*entities.MemoTombstone, error)

	Delete(ctx context.Context, tombstone *entities.MemoTombstone) error
}

// MessageRepository is the remote store for messages.
type MessageRepository interface {
	// Insert persists a message row. An empty ID lets the store assign one.
	Insert(ctx context.Context, message *entities.Message) (*entities.Message, error)

	// SelectAllActive returns the memo's non-deleted messages ordered by
	// timestamp ascending.
	SelectAllActive(ctx context.Context, memoID string) ([]*entities.Message, error)

	// SelectAllActiveByOwner returns every non-deleted message visible to
	// the owner, across memos. Used by search.
	SelectAllActiveByOwner(ctx context.Context, ownerID string) ([]*entities.Message, error)

	// Update overwrites content and refreshes the ordering timestamp.
	// The caller archives the prior version first.
	Update(ctx context.Context, id, content string) (*entities.Message, error)

	// MarkDeleted soft-deletes the message and returns the updated row.
	MarkDeleted(ctx context.Context, id string) (*entities.Message, error)

	// MarkActive clears the soft-delete flag and returns the updated row.
	MarkActive(ctx context.Context, id string) (*entities.Message, error)
}

// HistoryRepository is the append-only edit-history log.
type HistoryRepository interface {
	Insert(ctx context.Context, entry *entities.HistoryEntry) error

	// SelectByMessage returns the message's archived versions ordered by
	// timestamp descending (most recent first).
	SelectByMessage(ctx context.Context, messageID string) ([]*entities.HistoryEntry, error)
}
