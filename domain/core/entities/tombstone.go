package entities

import (
	"chatmemo/pkg/utils"

	"github.com/google/uuid"
)

// MemoTombstone is a recoverable snapshot of a deleted memo plus its
// non-deleted messages, keyed by the memo's original id and owner. It is
// written atomically with the memo deletion, consumed on undo, and
// otherwise left for external retention cleanup.
type MemoTombstone struct {
	ID            string     `json:"id"`
	OriginalID    string     `json:"original_id"`
	UserID        string     `json:"user_id"`
	Title         string     `json:"title"`
	TitleModified bool       `json:"title_modified"`
	IsStarred     bool       `json:"is_starred"`
	CreatedAt     string     `json:"created_at"`
	UpdatedAt     string     `json:"updated_at"`
	DeletedAt     string     `json:"deleted_at"`
	Messages      []*Message `json:"messages"`
}

// NewMemoTombstone snapshots a memo and its active messages at deletion time
func NewMemoTombstone(memo *Memo, messages []*Message) *MemoTombstone {
	snapshot := make([]*Message, 0, len(messages))
	for _, m := range messages {
		snapshot = append(snapshot, m.Clone())
	}
	return &MemoTombstone{
		ID:            uuid.New().String(),
		OriginalID:    memo.ID,
		UserID:        memo.UserID,
		Title:         memo.Title,
		TitleModified: memo.TitleModified,
		IsStarred:     memo.IsStarred,
		CreatedAt:     memo.CreatedAt,
		UpdatedAt:     memo.UpdatedAt,
		DeletedAt:     utils.NowTimestamp(),
		Messages:      snapshot,
	}
}
