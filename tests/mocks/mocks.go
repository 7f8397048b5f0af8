// Package mocks provides testify mocks for the persistence ports.
package mocks

import (
	"context"

	"chatmemo/application/ports"
	"chatmemo/domain/core/entities"

	"github.com/stretchr/testify/mock"
)

// MockMemoRepository mocks ports.MemoRepository
type MockMemoRepository struct {
	mock.Mock
}

func (m *MockMemoRepository) Insert(ctx context.Context, memo *entities.Memo) (*entities.Memo, error) {
	args := m.Called(ctx, memo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Memo), args.Error(1)
}

func (m *MockMemoRepository) SelectAll(ctx context.Context, ownerID string) ([]*entities.Memo, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Memo), args.Error(1)
}

func (m *MockMemoRepository) Update(ctx context.Context, id string, update ports.MemoUpdate) (*entities.Memo, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Memo), args.Error(1)
}

func (m *MockMemoRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTombstoneRepository mocks ports.TombstoneRepository
type MockTombstoneRepository struct {
	mock.Mock
}

func (m *MockTombstoneRepository) Insert(ctx context.Context, tombstone *entities.MemoTombstone) error {
	args := m.Called(ctx, tombstone)
	return args.Error(0)
}

func (m *MockTombstoneRepository) SelectLatestByOriginalID(ctx context.Context, ownerID, originalID string) (*entities.MemoTombstone, error) {
	args := m.Called(ctx, ownerID, originalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MemoTombstone), args.Error(1)
}

func (m *MockTombstoneRepository) Delete(ctx context.Context, tombstone *entities.MemoTombstone) error {
	args := m.Called(ctx, tombstone)
	return args.Error(0)
}

// MockMessageRepository mocks ports.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Insert(ctx context.Context, message *entities.Message) (*entities.Message, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Message), args.Error(1)
}

func (m *MockMessageRepository) SelectAllActive(ctx context.Context, memoID string) ([]*entities.Message, error) {
	args := m.Called(ctx, memoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Message), args.Error(1)
}

func (m *MockMessageRepository) SelectAllActiveByOwner(ctx context.Context, ownerID string) ([]*entities.Message, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Message), args.Error(1)
}

func (m *MockMessageRepository) Update(ctx context.Context, id, content string) (*entities.Message, error) {
	args := m.Called(ctx, id, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Message), args.Error(1)
}

func (m *MockMessageRepository) MarkDeleted(ctx context.Context, id string) (*entities.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Message), args.Error(1)
}

func (m *MockMessageRepository) MarkActive(ctx context.Context, id string) (*entities.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Message), args.Error(1)
}

// MockHistoryRepository mocks ports.HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Insert(ctx context.Context, entry *entities.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepository) SelectByMessage(ctx context.Context, messageID string) ([]*entities.HistoryEntry, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.HistoryEntry), args.Error(1)
}
