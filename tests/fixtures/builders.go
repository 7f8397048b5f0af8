// Package fixtures provides builders for test entities.
package fixtures

import (
	"fmt"
	"time"

	"chatmemo/domain/core/entities"

	"github.com/google/uuid"
)

// MemoBuilder helps create test memos with default values
type MemoBuilder struct {
	id            string
	userID        string
	title         string
	titleModified bool
	isStarred     bool
	createdAt     time.Time
	updatedAt     time.Time
}

func NewMemoBuilder() *MemoBuilder {
	now := time.Now().UTC()
	return &MemoBuilder{
		id:        uuid.New().String(),
		userID:    "test-user-123",
		title:     "Test Memo",
		createdAt: now,
		updatedAt: now,
	}
}

func (b *MemoBuilder) WithID(id string) *MemoBuilder {
	b.id = id
	return b
}

func (b *MemoBuilder) WithUserID(userID string) *MemoBuilder {
	b.userID = userID
	return b
}

func (b *MemoBuilder) WithTitle(title string) *MemoBuilder {
	b.title = title
	return b
}

func (b *MemoBuilder) TitleModified() *MemoBuilder {
	b.titleModified = true
	return b
}

func (b *MemoBuilder) Starred() *MemoBuilder {
	b.isStarred = true
	return b
}

func (b *MemoBuilder) WithCreatedAt(t time.Time) *MemoBuilder {
	b.createdAt = t
	return b
}

func (b *MemoBuilder) WithUpdatedAt(t time.Time) *MemoBuilder {
	b.updatedAt = t
	return b
}

func (b *MemoBuilder) Build() *entities.Memo {
	return &entities.Memo{
		ID:            b.id,
		UserID:        b.userID,
		Title:         b.title,
		TitleModified: b.titleModified,
		IsStarred:     b.isStarred,
		CreatedAt:     b.createdAt.Format(time.RFC3339Nano),
		UpdatedAt:     b.updatedAt.Format(time.RFC3339Nano),
	}
}

// MessageBuilder helps create test messages with default values
type MessageBuilder struct {
	id        string
	memoID    string
	content   string
	timestamp time.Time
	isDeleted bool
}

func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{
		id:        uuid.New().String(),
		memoID:    "test-memo-123",
		content:   "Test message",
		timestamp: time.Now().UTC(),
	}
}

func (b *MessageBuilder) WithID(id string) *MessageBuilder {
	b.id = id
	return b
}

func (b *MessageBuilder) WithMemoID(memoID string) *MessageBuilder {
	b.memoID = memoID
	return b
}

func (b *MessageBuilder) WithContent(content string) *MessageBuilder {
	b.content = content
	return b
}

func (b *MessageBuilder) WithTimestamp(t time.Time) *MessageBuilder {
	b.timestamp = t
	return b
}

func (b *MessageBuilder) Deleted() *MessageBuilder {
	b.isDeleted = true
	return b
}

func (b *MessageBuilder) Build() *entities.Message {
	return &entities.Message{
		ID:        b.id,
		MemoID:    b.memoID,
		Content:   b.content,
		Timestamp: b.timestamp.Format(time.RFC3339Nano),
		IsDeleted: b.isDeleted,
	}
}

// MessageSeries builds n messages in the same memo, one second apart
func MessageSeries(memoID string, n int, start time.Time) []*entities.Message {
	messages := make([]*entities.Message, 0, n)
	for i := 0; i < n; i++ {
		messages = append(messages, NewMessageBuilder().
			WithID(fmt.Sprintf("msg-%d", i+1)).
			WithMemoID(memoID).
			WithContent(fmt.Sprintf("message %d", i+1)).
			WithTimestamp(start.Add(time.Duration(i)*time.Second)).
			Build())
	}
	return messages
}
