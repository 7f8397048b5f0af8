// Package supabase persists the synchronization core in a Supabase
// project. Tables: chat_memos, messages, deleted_chat_memos and
// message_history; deleted_chat_memos carries the memo's messages as a
// JSON column so a restore needs no join.
package supabase

import (
	"context"
	"fmt"

	"chatmemo/application/ports"
	"chatmemo/domain/core/entities"
	"chatmemo/pkg/errors"
	"chatmemo/pkg/utils"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

const (
	memosTable      = "chat_memos"
	messagesTable   = "messages"
	tombstonesTable = "deleted_chat_memos"
	historyTable    = "message_history"
)

// Store wraps a Supabase client. The repository ports are exposed
// through the Memos, Tombstones, Messages and History accessors.
type Store struct {
	client *supabase.Client
	logger *zap.Logger
}

// NewStore creates a store over an authenticated Supabase client
func NewStore(client *supabase.Client, logger *zap.Logger) *Store {
	return &Store{client: client, logger: logger}
}

// Connect builds the Supabase client and wraps it in a store. The key
// must be the service role key, which bypasses row level security: reads
// filter by owner here, while id-keyed writes rely on the service layer
// checking ownership against the owner's collection first.
func Connect(url, key string, logger *zap.Logger) (*Store, error) {
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return NewStore(client, logger), nil
}

// Memos returns the memo repository view of the store
func (s *Store) Memos() ports.MemoRepository { return &memoRepo{s} }

// Tombstones returns the tombstone repository view of the store
func (s *Store) Tombstones() ports.TombstoneRepository { return &tombstoneRepo{s} }

// Messages returns the message repository view of the store
func (s *Store) Messages() ports.MessageRepository { return &messageRepo{s} }

// History returns the edit-history repository view of the store
func (s *Store) History() ports.HistoryRepository { return &historyRepo{s} }

// memoRow mirrors a chat_memos row. Inserts use a dedicated struct so
// the id column is omitted and assigned by the database.
type memoInsertRow struct {
	UserID        string `json:"user_id"`
	Title         string `json:"title"`
	TitleModified bool   `json:"title_modified"`
	IsStarred     bool   `json:"is_starred"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type memoRepo struct{ s *Store }

func (r *memoRepo) Insert(ctx context.Context, memo *entities.Memo) (*entities.Memo, error) {
	var rows []*entities.Memo

	if memo.ID == "" {
		row := memoInsertRow{
			UserID:        memo.UserID,
			Title:         memo.Title,
			TitleModified: memo.TitleModified,
			IsStarred:     memo.IsStarred,
			CreatedAt:     memo.CreatedAt,
			UpdatedAt:     memo.UpdatedAt,
		}
		if _, err := r.s.client.From(memosTable).
			Insert(row, false, "", "representation", "").
			ExecuteTo(&rows); err != nil {
			return nil, errors.NewRemoteError("failed to insert memo", err)
		}
	} else {
		if _, err := r.s.client.From(memosTable).
			Insert(memo, false, "", "representation", "").
			ExecuteTo(&rows); err != nil {
			return nil, errors.NewRemoteError("failed to insert memo", err)
		}
	}

	if len(rows) == 0 {
		return nil, errors.NewRemoteError("memo insert returned no row", nil)
	}
	return rows[0], nil
}

func (r *memoRepo) SelectAll(ctx context.Context, ownerID string) ([]*entities.Memo, error) {
	var rows []*entities.Memo
	if _, err := r.s.client.From(memosTable).
		Select("*", "", false).
		Eq("user_id", ownerID).
		Order("is_starred", &postgrest.OrderOpts{Ascending: false}).
		Order("updated_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows); err != nil {
		return nil, errors.NewRemoteError("failed to load memos", err)
	}
	if rows == nil {
		rows = []*entities.Memo{}
	}
	return rows, nil
}

func (r *memoRepo) Update(ctx context.Context, id string, update ports.MemoUpdate) (*entities.Memo, error) {
	patch := map[string]interface{}{}
	if update.Title != nil {
		patch["title"] = *update.Title
	}
	if update.TitleModified != nil {
		patch["title_modified"] = *update.TitleModified
	}
	if update.IsStarred != nil {
		patch["is_starred"] = *update.IsStarred
	}
	if update.UpdatedAt != "" {
		patch["updated_at"] = update.UpdatedAt
	}

	var rows []*entities.Memo
	if _, err := r.s.client.From(memosTable).
		Update(patch, "representation", "").
		Eq("id", id).
		ExecuteTo(&rows); err != nil {
		return nil, errors.NewRemoteError("failed to update memo", err)
	}
	if len(rows) == 0 {
		return nil, errors.NewNotFoundError("memo")
	}
	return rows[0], nil
}

func (r *memoRepo) Delete(ctx context.Context, id string) error {
	if _, _, err := r.s.client.From(memosTable).
		Delete("", "").
		Eq("id", id).
		Execute(); err != nil {
		return errors.NewRemoteError("failed to delete memo", err)
	}
	return nil
}

// tombstoneInsertRow mirrors a deleted_chat_memos row without the id
type tombstoneInsertRow struct {
	OriginalID    string              `json:"original_id"`
	UserID        string              `json:"user_id"`
	Title         string              `json:"title"`
	TitleModified bool                `json:"title_modified"`
	IsStarred     bool                `json:"is_starred"`
	CreatedAt     string              `json:"created_at"`
	UpdatedAt     string              `json:"updated_at"`
	DeletedAt     string              `json:"deleted_at"`
	Messages      []*entities.Message `json:"messages"`
}

type tombstoneRepo struct{ s *Store }

func (r *tombstoneRepo) Insert(ctx context.Context, tomb *entities.MemoTombstone) error {
	row := tombstoneInsertRow{
		OriginalID:    tomb.OriginalID,
		UserID:        tomb.UserID,
		Title:         tomb.Title,
		TitleModified: tomb.TitleModified,
		IsStarred:     tomb.IsStarred,
		CreatedAt:     tomb.CreatedAt,
		UpdatedAt:     tomb.UpdatedAt,
		DeletedAt:     tomb.DeletedAt,
		Messages:      tomb.Messages,
	}
	if _, _, err := r.s.client.From(tombstonesTable).
		Insert(row, false, "", "minimal", "").
		Execute(); err != nil {
		return errors.NewRemoteError("failed to archive deleted memo", err)
	}
	return nil
}

func (r *tombstoneRepo) SelectLatestByOriginalID(ctx context.Context, ownerID, originalID string) (*entities.MemoTombstone, error) {
	var rows []*entities.MemoTombstone
	if _, err := r.s.client.From(tombstonesTable).
		Select("*", "", false).
		Eq("user_id", ownerID).
		Eq("original_id", originalID).
		Order("deleted_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(1, "").
		ExecuteTo(&rows); err != nil {
		return nil, errors.NewRemoteError("failed to load deleted memo", err)
	}
	if len(rows) == 0 {
		return nil, errors.NewNotFoundError("deleted memo")
	}
	return rows[0], nil
}

func (r *tombstoneRepo) Delete(ctx context.Context, tomb *entities.MemoTombstone) error {
	if _, _, err := r.s.client.From(tombstonesTable).
		Delete("", "").
		Eq("id", tomb.ID).
		Execute(); err != nil {
		return errors.NewRemoteError("failed to discard deleted memo", err)
	}
	return nil
}

// messageInsertRow mirrors a messages row without the id
type messageInsertRow struct {
	MemoID    string `json:"chat_memo_id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	IsDeleted bool   `json:"is_deleted"`
}

type messageRepo struct{ s *Store }

func (r *messageRepo) Insert(ctx context.Context, msg *entities.Message) (*entities.Message, error) {
	var rows []*entities.Message

	if msg.ID == "" {
		row := messageInsertRow{
			MemoID:    msg.MemoID,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
			IsDeleted: msg.IsDeleted,
		}
		if _, err := r.s.client.From(messagesTable).
			Insert(row, false, "", "representation", "").
			ExecuteTo(&rows); err != nil {
			return nil, errors.NewRemoteError("failed to insert message", err)
		}
	} else {
		if _, err := r.s.client.From(messagesTable).
			Insert(msg, false, "", "representation", "").
			ExecuteTo(&rows); err != nil {
			return nil, errors.NewRemoteError("failed to insert message", err)
		}
	}

	if len(rows) == 0 {
		return nil, errors.NewRemoteError("message insert returned no row", nil)
	}
	return rows[0], nil
}

func (r *messageRepo) SelectAllActive(ctx context.Context, memoID string) ([]*entities.Message, error) {
	var rows []*entities.Message
	if _, err := r.s.client.From(messagesTable).
		Select("*", "", false).
		Eq("chat_memo_id", memoID).
		Eq("is_deleted", "false").
		Order("timestamp", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows); err != nil {
		return nil, errors.NewRemoteError("failed to load messages", err)
	}
	if rows == nil {
		rows = []*entities.Message{}
	}
	return rows, nil
}

// SelectAllActiveByOwner joins through chat_memos so only the owner's
// messages come back. PostgREST resolves the embedded filter through
// the chat_memo_id foreign key.
func (r *messageRepo) SelectAllActiveByOwner(ctx context.Context, ownerID string) ([]*entities.Message, error) {
	var rows []*entities.Message
	if _, err := r.s.client.From(messagesTable).
		Select("*, chat_memos!inner(user_id)", "", false).
		Eq("chat_memos.user_id", ownerID).
		Eq("is_deleted", "false").
		Order("timestamp", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows); err != nil {
		return nil, errors.NewRemoteError("failed to load messages", err)
	}
	if rows == nil {
		rows = []*entities.Message{}
	}
	return rows, nil
}

func (r *messageRepo) Update(ctx context.Context, id, content string) (*entities.Message, error) {
	patch := map[string]interface{}{
		"content":   content,
		"timestamp": utils.NowTimestamp(),
	}

	var rows []*entities.Message
	if _, err := r.s.client.From(messagesTable).
		Update(patch, "representation", "").
		Eq("id", id).
		ExecuteTo(&rows); err != nil {
		return nil, errors.NewRemoteError("failed to update message", err)
	}
	if len(rows) == 0 {
		return nil, errors.NewNotFoundError("message")
	}
	return rows[0], nil
}

func (r *messageRepo) MarkDeleted(ctx context.Context, id string) (*entities.Message, error) {
	return r.setDeleted(id, true)
}

func (r *messageRepo) MarkActive(ctx context.Context, id string) (*entities.Message, error) {
	return r.setDeleted(id, false)
}

func (r *messageRepo) setDeleted(id string, deleted bool) (*entities.Message, error) {
	patch := map[string]interface{}{"is_deleted": deleted}

	var rows []*entities.Message
	if _, err := r.s.client.From(messagesTable).
		Update(patch, "representation", "").
		Eq("id", id).
		ExecuteTo(&rows); err != nil {
		return nil, errors.NewRemoteError("failed to update message", err)
	}
	if len(rows) == 0 {
		return nil, errors.NewNotFoundError("message")
	}
	return rows[0], nil
}

// historyInsertRow mirrors a message_history row without the id
type historyInsertRow struct {
	MessageID string `json:"message_id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type historyRepo struct{ s *Store }

func (r *historyRepo) Insert(ctx context.Context, entry *entities.HistoryEntry) error {
	row := historyInsertRow{
		MessageID: entry.MessageID,
		Content:   entry.Content,
		Timestamp: entry.Timestamp,
	}
	if _, _, err := r.s.client.From(historyTable).
		Insert(row, false, "", "minimal", "").
		Execute(); err != nil {
		return errors.NewRemoteError("failed to archive message version", err)
	}
	return nil
}

func (r *historyRepo) SelectByMessage(ctx context.Context, messageID string) ([]*entities.HistoryEntry, error) {
	var rows []*entities.HistoryEntry
	if _, err := r.s.client.From(historyTable).
		Select("*", "", false).
		Eq("message_id", messageID).
		Order("timestamp", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows); err != nil {
		return nil, errors.NewRemoteError("failed to load message history", err)
	}
	if rows == nil {
		rows = []*entities.HistoryEntry{}
	}
	return rows, nil
}
