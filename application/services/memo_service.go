package services

import (
	"context"
	"sync"
	"time"

	"chatmemo/application/notify"
	"chatmemo/application/ports"
	"chatmemo/domain/core/entities"
	domainservices "chatmemo/domain/services"
	pkgerrors "chatmemo/pkg/errors"
	"chatmemo/pkg/utils"

	"go.uber.org/zap"
)

// memoDeletion is the undo snapshot of a deleted memo: the memo, its
// active messages at deletion time, and its list index for positional
// restore.
type memoDeletion struct {
	memo     *entities.Memo
	messages []*entities.Message
	index    int
}

// MemoService owns the in-memory memo collection and keeps it
// synchronized with the remote store: optimistic local mutation, remote
// persistence, rollback on failure. All operations are scoped to the
// logically authenticated owner; with no owner set they are no-ops
// returning empty results rather than errors.
type MemoService struct {
	repo       ports.MemoRepository
	tombstones ports.TombstoneRepository
	messages   ports.MessageRepository
	undo       *UndoController[memoDeletion]
	notifier   *notify.Notifier
	logger     *zap.Logger

	mu       sync.Mutex
	ownerID  string
	memos    []*entities.Memo
	current  *entities.Memo
	creating bool
}

// NewMemoService creates a memo lifecycle manager
func NewMemoService(
	repo ports.MemoRepository,
	tombstones ports.TombstoneRepository,
	messages ports.MessageRepository,
	undoWindow time.Duration,
	notifier *notify.Notifier,
	logger *zap.Logger,
) *MemoService {
	return &MemoService{
		repo:       repo,
		tombstones: tombstones,
		messages:   messages,
		undo:       NewUndoController[memoDeletion](undoWindow, logger),
		notifier:   notifier,
		logger:     logger,
	}
}

// SetOwner switches the active account. Changing owners clears all local
// state and cancels any pending undo so nothing leaks across accounts.
func (s *MemoService) SetOwner(ownerID string) {
	s.mu.Lock()
	if s.ownerID == ownerID {
		s.mu.Unlock()
		return
	}
	s.ownerID = ownerID
	s.memos = nil
	s.current = nil
	s.creating = false
	s.mu.Unlock()

	s.undo.Clear()
}

// Owner returns the active account id
func (s *MemoService) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownerID
}

// Memos returns a snapshot of the local memo list in display order
func (s *MemoService) Memos() []*entities.Memo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entities.Memo, len(s.memos))
	copy(out, s.memos)
	return out
}

// Current returns the current memo, or nil
func (s *MemoService) Current() *entities.Memo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Owns reports whether the memo is in the owner's collection
func (s *MemoService) Owns(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	memo, _ := s.findLocked(id)
	return memo != nil
}

// CurrentTitle returns the current memo's title, or ""
func (s *MemoService) CurrentTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.Title
}

// Create inserts a new memo at the front of the list. Only one creation
// may be in flight at a time: a second call while one is pending returns
// an empty id without side effects, absorbing double-taps. Returns the
// new memo id.
func (s *MemoService) Create(ctx context.Context, title string) (string, error) {
	s.mu.Lock()
	if s.ownerID == "" || s.creating {
		s.mu.Unlock()
		return "", nil
	}
	s.creating = true
	owner := s.ownerID
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.creating = false
		s.mu.Unlock()
	}()

	created, err := s.repo.Insert(ctx, entities.NewMemo(owner, title))
	if err != nil {
		s.notifier.Publish("Failed to create chat memo")
		s.logger.Error("memo create failed", zap.Error(err))
		return "", pkgerrors.NewRemoteError("failed to create memo", err)
	}

	s.mu.Lock()
	s.memos = domainservices.SortMemos(append([]*entities.Memo{created}, s.memos...))
	s.mu.Unlock()

	s.logger.Info("memo created", zap.String("memoID", created.ID))
	return created.ID, nil
}

// List replaces the local collection with the remote set, sorted. On
// failure the collection is cleared rather than left stale: a failed
// refresh never serves old data.
func (s *MemoService) List(ctx context.Context) error {
	s.mu.Lock()
	owner := s.ownerID
	s.mu.Unlock()

	if owner == "" {
		s.mu.Lock()
		s.memos = nil
		s.mu.Unlock()
		return nil
	}

	memos, err := s.repo.SelectAll(ctx, owner)

	s.mu.Lock()
	if err != nil {
		s.memos = nil
		s.mu.Unlock()
		s.notifier.Publish("Failed to load chat memos")
		s.logger.Error("memo list failed", zap.Error(err))
		return pkgerrors.NewRemoteError("failed to load memos", err)
	}
	s.memos = domainservices.SortMemos(memos)
	s.mu.Unlock()
	return nil
}

// SetCurrent makes the memo with the given id current, but only when it
// is present locally and owned by the active account; anything else
// clears current so a stale selection can't leak across an owner switch.
func (s *MemoService) SetCurrent(id string) *entities.Memo {
	s.mu.Lock()
	defer s.mu.Unlock()

	memo, _ := s.findLocked(id)
	if memo != nil && memo.BelongsTo(s.ownerID) {
		s.current = memo
	} else {
		s.current = nil
	}
	return s.current
}

// Rename sets a user-chosen title, marking it modified unconditionally.
// Only memos in the owner's collection can be renamed.
func (s *MemoService) Rename(ctx context.Context, id, title string) error {
	s.mu.Lock()
	memo, _ := s.findLocked(id)
	s.mu.Unlock()
	if memo == nil {
		return pkgerrors.NewNotFoundError("memo")
	}

	modified := true
	updated, err := s.repo.Update(ctx, id, ports.MemoUpdate{
		Title:         &title,
		TitleModified: &modified,
		UpdatedAt:     utils.NowTimestamp(),
	})
	if err != nil {
		s.notifier.Publish("Failed to update chat memo title")
		s.logger.Error("memo rename failed", zap.String("memoID", id), zap.Error(err))
		return pkgerrors.NewRemoteError("failed to rename memo", err)
	}

	s.mu.Lock()
	s.replaceLocked(updated)
	s.mu.Unlock()
	return nil
}

// ToggleStar flips the starred flag and re-sorts: star changes move the
// memo between ordering groups.
func (s *MemoService) ToggleStar(ctx context.Context, id string) error {
	s.mu.Lock()
	memo, _ := s.findLocked(id)
	if memo == nil {
		s.mu.Unlock()
		return pkgerrors.NewNotFoundError("memo")
	}
	starred := !memo.IsStarred
	s.mu.Unlock()

	updated, err := s.repo.Update(ctx, id, ports.MemoUpdate{
		IsStarred: &starred,
		UpdatedAt: utils.NowTimestamp(),
	})
	if err != nil {
		s.notifier.Publish("Failed to update star")
		s.logger.Error("memo star toggle failed", zap.String("memoID", id), zap.Error(err))
		return pkgerrors.NewRemoteError("failed to toggle star", err)
	}

	s.mu.Lock()
	s.replaceLocked(updated)
	s.memos = domainservices.SortMemos(s.memos)
	s.mu.Unlock()
	return nil
}

// Touch refreshes a memo's updated_at and re-sorts, bumping its recency
// after message activity. Invoked by the message lifecycle, not by users.
func (s *MemoService) Touch(ctx context.Context, id string) error {
	updated, err := s.repo.Update(ctx, id, ports.MemoUpdate{
		UpdatedAt: utils.NowTimestamp(),
	})
	if err != nil {
		s.logger.Warn("memo touch failed", zap.String("memoID", id), zap.Error(err))
		return pkgerrors.NewRemoteError("failed to touch memo", err)
	}

	s.mu.Lock()
	s.replaceLocked(updated)
	s.memos = domainservices.SortMemos(s.memos)
	s.mu.Unlock()
	return nil
}

// Delete removes the memo optimistically, persists a tombstone of the
// memo and its active messages, deletes the remote row, and registers
// the deletion for undo. A remote failure rolls the memo back into the
// list at its prior position.
func (s *MemoService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	memo, index := s.findLocked(id)
	if memo == nil {
		s.mu.Unlock()
		return nil
	}
	s.memos = append(s.memos[:index], s.memos[index+1:]...)
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()

	err := s.deleteRemote(ctx, memo, index)
	if err != nil {
		s.mu.Lock()
		s.insertAtLocked(memo, index)
		s.mu.Unlock()
		s.notifier.Publish("Failed to delete chat memo")
		s.logger.Error("memo delete failed", zap.String("memoID", id), zap.Error(err))
		return pkgerrors.NewRemoteError("failed to delete memo", err)
	}

	s.logger.Info("memo deleted", zap.String("memoID", id))
	return nil
}

// deleteRemote snapshots the memo into a tombstone, removes the remote
// row, and arms the undo slot with the memo's prior list index.
func (s *MemoService) deleteRemote(ctx context.Context, memo *entities.Memo, index int) error {
	active, err := s.messages.SelectAllActive(ctx, memo.ID)
	if err != nil {
		return err
	}

	if err := s.tombstones.Insert(ctx, entities.NewMemoTombstone(memo, active)); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, memo.ID); err != nil {
		return err
	}

	s.undo.Register(memoDeletion{memo: memo.Clone(), messages: active, index: index}, s.restoreMemo)
	return nil
}

// Undo restores the most recently deleted memo, re-inserting it at its
// prior list position when the list still has that shape, otherwise
// appending.
func (s *MemoService) Undo(ctx context.Context) error {
	return s.undo.Undo(ctx)
}

// UndoPending reports whether a memo deletion is still undoable
func (s *MemoService) UndoPending() bool {
	return s.undo.Pending()
}

// restoreMemo recreates the memo and its messages from the tombstone.
// The restored memo gets a fresh id from the store, mirroring how the
// remote recreates rows.
func (s *MemoService) restoreMemo(ctx context.Context, d memoDeletion) error {
	s.mu.Lock()
	owner := s.ownerID
	s.mu.Unlock()

	tomb, err := s.tombstones.SelectLatestByOriginalID(ctx, owner, d.memo.ID)
	if err != nil {
		s.notifier.Publish("Failed to restore chat memo")
		s.logger.Error("memo restore failed", zap.String("memoID", d.memo.ID), zap.Error(err))
		return pkgerrors.NewRemoteError("failed to restore memo", err)
	}

	restored, err := s.repo.Insert(ctx, &entities.Memo{
		UserID:        tomb.UserID,
		Title:         tomb.Title,
		TitleModified: tomb.TitleModified,
		IsStarred:     tomb.IsStarred,
		CreatedAt:     tomb.CreatedAt,
		UpdatedAt:     utils.NowTimestamp(),
	})
	if err != nil {
		s.notifier.Publish("Failed to restore chat memo")
		s.logger.Error("memo restore failed", zap.String("memoID", d.memo.ID), zap.Error(err))
		return pkgerrors.NewRemoteError("failed to restore memo", err)
	}

	for _, m := range tomb.Messages {
		if _, err := s.messages.Insert(ctx, &entities.Message{
			MemoID:    restored.ID,
			Content:   m.Content,
			Timestamp: m.Timestamp,
			IsDeleted: false,
		}); err != nil {
			s.notifier.Publish("Failed to restore chat memo")
			s.logger.Error("memo message restore failed", zap.String("memoID", restored.ID), zap.Error(err))
			return pkgerrors.NewRemoteError("failed to restore memo messages", err)
		}
	}

	if err := s.tombstones.Delete(ctx, tomb); err != nil {
		// The memo is already restored; a dangling tombstone is left for
		// external retention cleanup.
		s.logger.Warn("tombstone cleanup failed", zap.String("memoID", restored.ID), zap.Error(err))
	}

	s.mu.Lock()
	s.insertAtLocked(restored, d.index)
	s.mu.Unlock()

	s.logger.Info("memo restored", zap.String("memoID", restored.ID))
	return nil
}

// DeriveTitleFromFirstMessage seeds the memo title from its first
// message. Guarded by TitleModified: once a manual rename or a prior
// derivation has run this is a no-op returning nil. Returns the updated
// memo on success.
func (s *MemoService) DeriveTitleFromFirstMessage(ctx context.Context, id, content string) (*entities.Memo, error) {
	s.mu.Lock()
	memo, _ := s.findLocked(id)
	if memo == nil || memo.TitleModified {
		s.mu.Unlock()
		return nil, nil
	}
	s.mu.Unlock()

	title := entities.DeriveTitle(content)
	modified := true
	updated, err := s.repo.Update(ctx, id, ports.MemoUpdate{
		Title:         &title,
		TitleModified: &modified,
		UpdatedAt:     utils.NowTimestamp(),
	})
	if err != nil {
		s.logger.Warn("title derivation failed", zap.String("memoID", id), zap.Error(err))
		return nil, pkgerrors.NewRemoteError("failed to derive memo title", err)
	}

	s.mu.Lock()
	s.replaceLocked(updated)
	s.mu.Unlock()
	return updated, nil
}

// findLocked returns the local memo and its index, or (nil, -1)
func (s *MemoService) findLocked(id string) (*entities.Memo, int) {
	for i, m := range s.memos {
		if m.ID == id {
			return m, i
		}
	}
	return nil, -1
}

// replaceLocked swaps the list entry and current pointer for an updated row
func (s *MemoService) replaceLocked(updated *entities.Memo) {
	if _, i := s.findLocked(updated.ID); i >= 0 {
		s.memos[i] = updated
	}
	if s.current != nil && s.current.ID == updated.ID {
		s.current = updated
	}
}

// insertAtLocked re-inserts a memo at index, appending when the index no
// longer fits the list shape.
func (s *MemoService) insertAtLocked(memo *entities.Memo, index int) {
	if index < 0 || index > len(s.memos) {
		s.memos = append(s.memos, memo)
		return
	}
	s.memos = append(s.memos[:index], append([]*entities.Memo{memo}, s.memos[index:]...)...)
}
