// Package memory provides an in-memory persistence backend used for
// development and tests. One Store backs all four repository ports.
package memory

import (
	"context"
	"sort"
	"sync"

	"chatmemo/application/ports"
	"chatmemo/domain/core/entities"
	"chatmemo/pkg/errors"
	"chatmemo/pkg/utils"

	"github.com/google/uuid"
)

// Store holds all entities in process memory. Entities are copied on
// the way in and out so callers never share state with the store. The
// repository ports are exposed through the Memos, Tombstones, Messages
// and History accessors.
type Store struct {
	mu         sync.RWMutex
	memos      map[string]*entities.Memo
	messages   map[string]*entities.Message
	tombstones map[string]*entities.MemoTombstone
	history    map[string][]*entities.HistoryEntry // keyed by message ID
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		memos:      make(map[string]*entities.Memo),
		messages:   make(map[string]*entities.Message),
		tombstones: make(map[string]*entities.MemoTombstone),
		history:    make(map[string][]*entities.HistoryEntry),
	}
}

// Memos returns the memo repository view of the store
func (s *Store) Memos() ports.MemoRepository { return &memoRepo{s} }

// Tombstones returns the tombstone repository view of the store
func (s *Store) Tombstones() ports.TombstoneRepository { return &tombstoneRepo{s} }

// Messages returns the message repository view of the store
func (s *Store) Messages() ports.MessageRepository { return &messageRepo{s} }

// History returns the edit-history repository view of the store
func (s *Store) History() ports.HistoryRepository { return &historyRepo{s} }

type memoRepo struct{ s *Store }

func (r *memoRepo) Insert(ctx context.Context, memo *entities.Memo) (*entities.Memo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := memo.Clone()
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if _, exists := r.s.memos[stored.ID]; exists {
		return nil, errors.NewConflictError("memo already exists: " + stored.ID)
	}
	r.s.memos[stored.ID] = stored
	return stored.Clone(), nil
}

func (r *memoRepo) SelectAll(ctx context.Context, ownerID string) ([]*entities.Memo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	memos := make([]*entities.Memo, 0)
	for _, memo := range r.s.memos {
		if memo.UserID == ownerID {
			memos = append(memos, memo.Clone())
		}
	}
	return memos, nil
}

func (r *memoRepo) Update(ctx context.Context, id string, update ports.MemoUpdate) (*entities.Memo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	memo, ok := r.s.memos[id]
	if !ok {
		return nil, errors.NewNotFoundError("memo")
	}
	if update.Title != nil {
		memo.Title = *update.Title
	}
	if update.TitleModified != nil {
		memo.TitleModified = *update.TitleModified
	}
	if update.IsStarred != nil {
		memo.IsStarred = *update.IsStarred
	}
	if update.UpdatedAt != "" {
		memo.UpdatedAt = update.UpdatedAt
	}
	return memo.Clone(), nil
}

// Delete removes the memo row together with its messages and their
// edit history, matching the cascade of the SQL backends.
func (r *memoRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.memos[id]; !ok {
		return errors.NewNotFoundError("memo")
	}
	delete(r.s.memos, id)
	for msgID, msg := range r.s.messages {
		if msg.MemoID == id {
			delete(r.s.messages, msgID)
			delete(r.s.history, msgID)
		}
	}
	return nil
}

type tombstoneRepo struct{ s *Store }

func (r *tombstoneRepo) Insert(ctx context.Context, tomb *entities.MemoTombstone) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *tomb
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	stored.Messages = make([]*entities.Message, len(tomb.Messages))
	for i, msg := range tomb.Messages {
		stored.Messages[i] = msg.Clone()
	}
	r.s.tombstones[stored.ID] = &stored
	return nil
}

func (r *tombstoneRepo) SelectLatestByOriginalID(ctx context.Context, ownerID, originalID string) (*entities.MemoTombstone, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var latest *entities.MemoTombstone
	for _, tomb := range r.s.tombstones {
		if tomb.UserID != ownerID || tomb.OriginalID != originalID {
			continue
		}
		if latest == nil || tomb.DeletedAt > latest.DeletedAt {
			latest = tomb
		}
	}
	if latest == nil {
		return nil, errors.NewNotFoundError("deleted memo")
	}

	out := *latest
	out.Messages = make([]*entities.Message, len(latest.Messages))
	for i, msg := range latest.Messages {
		out.Messages[i] = msg.Clone()
	}
	return &out, nil
}

func (r *tombstoneRepo) Delete(ctx context.Context, tomb *entities.MemoTombstone) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.tombstones, tomb.ID)
	return nil
}

type messageRepo struct{ s *Store }

func (r *messageRepo) Insert(ctx context.Context, msg *entities.Message) (*entities.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := msg.Clone()
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if _, exists := r.s.messages[stored.ID]; exists {
		return nil, errors.NewConflictError("message already exists: " + stored.ID)
	}
	r.s.messages[stored.ID] = stored
	return stored.Clone(), nil
}

func (r *messageRepo) SelectAllActive(ctx context.Context, memoID string) ([]*entities.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	messages := make([]*entities.Message, 0)
	for _, msg := range r.s.messages {
		if msg.MemoID == memoID && !msg.IsDeleted {
			messages = append(messages, msg.Clone())
		}
	}
	sortMessagesAscending(messages)
	return messages, nil
}

func (r *messageRepo) SelectAllActiveByOwner(ctx context.Context, ownerID string) ([]*entities.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	owned := make(map[string]bool)
	for id, memo := range r.s.memos {
		if memo.UserID == ownerID {
			owned[id] = true
		}
	}

	messages := make([]*entities.Message, 0)
	for _, msg := range r.s.messages {
		if owned[msg.MemoID] && !msg.IsDeleted {
			messages = append(messages, msg.Clone())
		}
	}
	sortMessagesAscending(messages)
	return messages, nil
}

func (r *messageRepo) Update(ctx context.Context, id, content string) (*entities.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	msg, ok := r.s.messages[id]
	if !ok {
		return nil, errors.NewNotFoundError("message")
	}
	msg.Content = content
	msg.Timestamp = utils.NowTimestamp()
	return msg.Clone(), nil
}

func (r *messageRepo) MarkDeleted(ctx context.Context, id string) (*entities.Message, error) {
	return r.setDeleted(id, true)
}

func (r *messageRepo) MarkActive(ctx context.Context, id string) (*entities.Message, error) {
	return r.setDeleted(id, false)
}

func (r *messageRepo) setDeleted(id string, deleted bool) (*entities.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	msg, ok := r.s.messages[id]
	if !ok {
		return nil, errors.NewNotFoundError("message")
	}
	msg.IsDeleted = deleted
	return msg.Clone(), nil
}

type historyRepo struct{ s *Store }

func (r *historyRepo) Insert(ctx context.Context, entry *entities.HistoryEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *entry
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	r.s.history[stored.MessageID] = append(r.s.history[stored.MessageID], &stored)
	return nil
}

func (r *historyRepo) SelectByMessage(ctx context.Context, messageID string) ([]*entities.HistoryEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	entries := make([]*entities.HistoryEntry, 0, len(r.s.history[messageID]))
	for _, entry := range r.s.history[messageID] {
		copied := *entry
		entries = append(entries, &copied)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		ti := utils.ParseTimestamp(entries[i].Timestamp)
		tj := utils.ParseTimestamp(entries[j].Timestamp)
		return ti.After(tj)
	})
	return entries, nil
}

func sortMessagesAscending(messages []*entities.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		ti := utils.ParseTimestamp(messages[i].Timestamp)
		tj := utils.ParseTimestamp(messages[j].Timestamp)
		return ti.Before(tj)
	})
}
