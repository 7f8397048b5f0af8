package entities

import (
	"chatmemo/pkg/utils"

	"github.com/google/uuid"
)

// Message is a single content entry belonging to exactly one memo.
// Timestamp is the authoritative ordering key and is distinct from the
// creation instant: editing a message refreshes it. IsDeleted marks a
// soft delete; deleted messages are hidden from listings and searches but
// retained for undo and history.
type Message struct {
	ID        string `json:"id"`
	MemoID    string `json:"chat_memo_id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	IsDeleted bool   `json:"is_deleted"`
}

// NewMessage creates an active message for the given memo
func NewMessage(memoID, content string) *Message {
	return &Message{
		ID:        uuid.New().String(),
		MemoID:    memoID,
		Content:   content,
		Timestamp: utils.NowTimestamp(),
		IsDeleted: false,
	}
}

// Clone returns a copy of the message
func (m *Message) Clone() *Message {
	c := *m
	return &c
}

// MarkDeleted transitions the message to the soft-deleted state
func (m *Message) MarkDeleted() {
	m.IsDeleted = true
}

// MarkActive restores a soft-deleted message
func (m *Message) MarkActive() {
	m.IsDeleted = false
}

// HistoryEntry is one archived (content, timestamp) pair of a message's
// edit history. The history log is append-only and keyed by message id.
type HistoryEntry struct {
	ID        string `json:"id,omitempty"`
	MessageID string `json:"message_id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}
