package services

import (
	"context"
	"sync"
	"time"

	"chatmemo/application/notify"
	"chatmemo/application/ports"
	"chatmemo/domain/core/entities"
	pkgerrors "chatmemo/pkg/errors"

	"go.uber.org/zap"
)

// MessageService owns the in-memory message list of the currently open
// memo. Its undo slot is fully independent of the memo slot: deleting a
// message and a memo back to back leaves both undoable.
type MessageService struct {
	repo     ports.MessageRepository
	history  ports.HistoryRepository
	memos    *MemoService
	undo     *UndoController[*entities.Message]
	notifier *notify.Notifier
	logger   *zap.Logger

	mu       sync.Mutex
	messages []*entities.Message
}

// NewMessageService creates a message lifecycle manager
func NewMessageService(
	repo ports.MessageRepository,
	history ports.HistoryRepository,
	memos *MemoService,
	undoWindow time.Duration,
	notifier *notify.Notifier,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		repo:     repo,
		history:  history,
		memos:    memos,
		undo:     NewUndoController[*entities.Message](undoWindow, logger),
		notifier: notifier,
		logger:   logger,
	}
}

// Messages returns a snapshot of the local message list
func (s *MessageService) Messages() []*entities.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entities.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// List loads a memo's conversation: it resolves the memo as current on
// the memo manager and replaces the local messages with the non-deleted
// remote set, timestamp ascending. A memo outside the owner's collection
// is rejected before the store is touched, and a failed load clears the
// list rather than keeping stale content.
func (s *MessageService) List(ctx context.Context, memoID string) error {
	if s.memos.SetCurrent(memoID) == nil {
		s.mu.Lock()
		s.messages = nil
		s.mu.Unlock()
		return pkgerrors.NewNotFoundError("memo")
	}

	messages, err := s.repo.SelectAllActive(ctx, memoID)

	s.mu.Lock()
	if err != nil {
		s.messages = nil
		s.mu.Unlock()
		s.notifier.Publish("Failed to load messages")
		s.logger.Error("message list failed", zap.String("memoID", memoID), zap.Error(err))
		return pkgerrors.NewRemoteError("failed to load messages", err)
	}
	s.messages = messages
	s.mu.Unlock()
	return nil
}

// Add appends a message after the remote insert succeeds. The target
// memo must be in the owner's collection. The first message of a memo
// whose title is still unmodified seeds the memo title, and every add
// finishes by bumping the memo's recency.
func (s *MessageService) Add(ctx context.Context, memoID, content string) error {
	if !s.memos.Owns(memoID) {
		return pkgerrors.NewNotFoundError("memo")
	}

	created, err := s.repo.Insert(ctx, entities.NewMessage(memoID, content))
	if err != nil {
		s.notifier.Publish("Failed to add message")
		s.logger.Error("message add failed", zap.String("memoID", memoID), zap.Error(err))
		return pkgerrors.NewRemoteError("failed to add message", err)
	}

	s.mu.Lock()
	s.messages = append(s.messages, created)
	first := len(s.messages) == 1
	s.mu.Unlock()

	current := s.memos.Current()
	if first && (current == nil || !current.TitleModified) {
		if _, err := s.memos.DeriveTitleFromFirstMessage(ctx, memoID, content); err != nil {
			s.logger.Warn("title seeding failed", zap.String("memoID", memoID), zap.Error(err))
		}
	}

	if err := s.memos.Touch(ctx, memoID); err != nil {
		s.logger.Warn("memo touch after add failed", zap.String("memoID", memoID), zap.Error(err))
	}
	return nil
}

// Edit archives the message's current (content, timestamp) pair into its
// history log, then overwrites content and refreshes the ordering
// timestamp. Only active messages can be edited.
func (s *MessageService) Edit(ctx context.Context, messageID, content string) error {
	s.mu.Lock()
	msg, _ := s.findLocked(messageID)
	if msg == nil {
		s.mu.Unlock()
		return pkgerrors.NewNotFoundError("message")
	}
	if msg.IsDeleted {
		s.mu.Unlock()
		return pkgerrors.NewValidationError("cannot edit a deleted message")
	}
	prior := msg.Clone()
	s.mu.Unlock()

	if err := s.history.Insert(ctx, &entities.HistoryEntry{
		MessageID: prior.ID,
		Content:   prior.Content,
		Timestamp: prior.Timestamp,
	}); err != nil {
		// The archive is best effort before the overwrite; a failed
		// history insert must not block the edit itself.
		s.logger.Warn("history archive failed", zap.String("messageID", messageID), zap.Error(err))
	}

	updated, err := s.repo.Update(ctx, messageID, content)
	if err != nil {
		s.notifier.Publish("Failed to edit message")
		s.logger.Error("message edit failed", zap.String("messageID", messageID), zap.Error(err))
		return pkgerrors.NewRemoteError("failed to edit message", err)
	}

	s.mu.Lock()
	if _, i := s.findLocked(messageID); i >= 0 {
		s.messages[i] = updated
	}
	s.mu.Unlock()
	return nil
}

// Delete soft-deletes a message: the local copy is flagged optimistically
// before the remote call, and a failure rolls the flag back. A successful
// delete arms the undo slot with the pre-deletion snapshot.
func (s *MessageService) Delete(ctx context.Context, messageID string) error {
	s.mu.Lock()
	msg, index := s.findLocked(messageID)
	if msg == nil {
		s.mu.Unlock()
		return nil
	}
	snapshot := msg.Clone()
	flagged := msg.Clone()
	flagged.MarkDeleted()
	s.messages[index] = flagged
	s.mu.Unlock()

	if _, err := s.repo.MarkDeleted(ctx, messageID); err != nil {
		s.mu.Lock()
		if _, i := s.findLocked(messageID); i >= 0 {
			s.messages[i] = snapshot
		}
		s.mu.Unlock()
		s.notifier.Publish("Failed to delete message")
		s.logger.Error("message delete failed", zap.String("messageID", messageID), zap.Error(err))
		return pkgerrors.NewRemoteError("failed to delete message", err)
	}

	s.undo.Register(snapshot, s.restoreMessage)
	return nil
}

// Undo restores the most recently deleted message
func (s *MessageService) Undo(ctx context.Context) error {
	return s.undo.Undo(ctx)
}

// UndoPending reports whether a message deletion is still undoable
func (s *MessageService) UndoPending() bool {
	return s.undo.Pending()
}

// restoreMessage clears the soft-delete flag locally first, then
// remotely. When the remote restore fails the local copy is re-flagged
// deleted so the view reconciles to the persisted truth, and the error
// propagates for user notification.
func (s *MessageService) restoreMessage(ctx context.Context, snapshot *entities.Message) error {
	restored := snapshot.Clone()
	restored.MarkActive()

	s.mu.Lock()
	if _, i := s.findLocked(snapshot.ID); i >= 0 {
		s.messages[i] = restored
	}
	s.mu.Unlock()

	if _, err := s.repo.MarkActive(ctx, snapshot.ID); err != nil {
		s.mu.Lock()
		if _, i := s.findLocked(snapshot.ID); i >= 0 {
			reflagged := snapshot.Clone()
			reflagged.MarkDeleted()
			s.messages[i] = reflagged
		}
		s.mu.Unlock()
		s.notifier.Publish("Failed to restore message")
		s.logger.Error("message restore failed", zap.String("messageID", snapshot.ID), zap.Error(err))
		return pkgerrors.NewRemoteError("failed to restore message", err)
	}
	return nil
}

// History returns the message's archived versions, most recent first.
// Retrieval failures surface as a notice and an empty log, never an error.
func (s *MessageService) History(ctx context.Context, messageID string) []*entities.HistoryEntry {
	entries, err := s.history.SelectByMessage(ctx, messageID)
	if err != nil {
		s.notifier.Publish("Failed to load message history")
		s.logger.Error("history load failed", zap.String("messageID", messageID), zap.Error(err))
		return []*entities.HistoryEntry{}
	}
	return entries
}

// Clear drops local state and any pending undo, e.g. on logout
func (s *MessageService) Clear() {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
	s.undo.Clear()
}

func (s *MessageService) findLocked(id string) (*entities.Message, int) {
	for i, m := range s.messages {
		if m.ID == id {
			return m, i
		}
	}
	return nil, -1
}
