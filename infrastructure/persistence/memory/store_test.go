package memory

import (
	"context"
	"testing"
	"time"

	"chatmemo/application/ports"
	"chatmemo/domain/core/entities"
	"chatmemo/pkg/errors"
	"chatmemo/tests/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoRepo_InsertAssignsID(t *testing.T) {
	ctx := context.Background()
	repos := NewStore()

	memo := fixtures.NewMemoBuilder().WithID("").WithUserID("user-1").Build()
	stored, err := repos.Memos().Insert(ctx, memo)

	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.Empty(t, memo.ID, "caller's copy stays untouched")
}

func TestMemoRepo_InsertDuplicateConflicts(t *testing.T) {
	ctx := context.Background()
	repos := NewStore()

	memo := fixtures.NewMemoBuilder().WithID("memo-1").WithUserID("user-1").Build()
	_, err := repos.Memos().Insert(ctx, memo)
	require.NoError(t, err)

	_, err = repos.Memos().Insert(ctx, memo)
	assert.True(t, errors.IsConflict(err))
}

func TestMemoRepo_SelectAllScopesToOwner(t *testing.T) {
	ctx := context.Background()
	repos := NewStore()

	for _, m := range []*entities.Memo{
		fixtures.NewMemoBuilder().WithID("memo-1").WithUserID("user-1").Build(),
		fixtures.NewMemoBuilder().WithID("memo-2").WithUserID("user-2").Build(),
		fixtures.NewMemoBuilder().WithID("memo-3").WithUserID("user-1").Build(),
	} {
		_, err := repos.Memos().Insert(ctx, m)
		require.NoError(t, err)
	}

	memos, err := repos.Memos().SelectAll(ctx, "user-1")

	require.NoError(t, err)
	assert.Len(t, memos, 2)
	for _, m := range memos {
		assert.Equal(t, "user-1", m.UserID)
	}
}

func TestMemoRepo_UpdateAppliesOnlySetFields(t *testing.T) {
	ctx := context.Background()
	repos := NewStore()

	memo := fixtures.NewMemoBuilder().WithID("memo-1").WithUserID("user-1").
		WithTitle("Original").Starred().Build()
	_, err := repos.Memos().Insert(ctx, memo)
	require.NoError(t, err)

	title := "Renamed"
	modified := true
	updated, err := repos.Memos().Update(ctx, "memo-1", ports.MemoUpdate{
		Title:         &title,
		TitleModified: &modified,
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.True(t, updated.TitleModified)
	assert.True(t, updated.IsStarred, "unset fields stay as they were")
	assert.Equal(t, memo.UpdatedAt, updated.UpdatedAt)
}

func TestMemoRepo_UpdateUnknownMemo(t *testing.T) {
	repos := NewStore()

	_, err := repos.Memos().Update(context.Background(), "missing", ports.MemoUpdate{})

	assert.True(t, errors.IsNotFound(err))
}

func TestMemoRepo_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	repos := NewStore()

	memo := fixtures.NewMemoBuilder().WithID("memo-1").WithUserID("user-1").Build()
	_, err := repos.Memos().Insert(ctx, memo)
	require.NoError(t, err)

	msg := fixtures.NewMessageBuilder().WithID("msg-1").WithMemoID("memo-1").Build()
	_, err = repos.Messages().Insert(ctx, msg)
	require.NoError(t, err)
	require.NoError(t, repos.History().Insert(ctx, &entities.HistoryEntry{
		MessageID: "msg-1", Content: "v1", Timestamp: msg.Timestamp,
	}))

	require.NoError(t, repos.Memos().Delete(ctx, "memo-1"))

	messages, err := repos.Messages().SelectAllActive(ctx, "memo-1")
	require.NoError(t, err)
	assert.Empty(t, messages)

	entries, err := repos.History().SelectByMessage(ctx, "msg-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTombstoneRepo_LatestWins(t *testing.T) {
	ctx := context.Background()
	repos := NewStore()

	older := &entities.MemoTombstone{
		ID: "tomb-1", OriginalID: "memo-1", UserID: "user-1",
		Title: "first deletion", DeletedAt: "2026-03-01T10:00:00Z",
	}
	newer := &entities.MemoTombstone{
		ID: "tomb-2", OriginalID: "memo-1", UserID: "user-1",
		Title: "second deletion", DeletedAt: "2026-03-01T11:00:00Z",
	}
	require.NoError(t, repos.Tombstones().Insert(ctx, older))
	require.NoError(t, repos.Tombstones().Insert(ctx, newer))

	latest, err := repos.Tombstones().SelectLatestByOriginalID(ctx, "user-1", "memo-1")

	require.NoError(t, err)
	assert.Equal(t, "second deletion", latest.Title)
}

func TestTombstoneRepo_OwnerScoped(t *testing.T) {
	ctx := context.Background()
	repos := NewStore()

	require.NoError(t, repos.Tombstones().Insert(ctx, &entities.MemoTombstone{
		ID: "tomb-1", OriginalID: "memo-1", UserID: "user-2",
		DeletedAt: "2026-03-01T10:00:00Z",
	}))

	_, err := repos.Tombstones().SelectLatestByOriginalID(ctx, "user-1", "memo-1")

	assert.True(t, errors.IsNotFound(err))
}

func TestTombstoneRepo_DeleteConsumesSnapshot(t *testing.T) {
	ctx := context.Background()
	repos := NewStore()

	tomb := &entities.MemoTombstone{
		ID: "tomb-1", OriginalID: "memo-1", UserID: "user-1",
		DeletedAt: "2026-03-01T10:00:00Z",
	}
	require.NoError(t, repos.Tombstones().Insert(ctx, tomb))
	require.NoError(t, repos.Tombstones().Delete(ctx, tomb))

	_, err := repos.Tombstones().SelectLatestByOriginalID(ctx, "user-1", "memo-1")
	assert.True(t, errors.IsNotFound(err))
}

func TestMessageRepo_SelectAllActiveSortedAscending(t *testing.T) {
	ctx := context.Background()
	repos := NewStore()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	series := fixtures.MessageSeries("memo-1", 3, start)
	// Insert out of order; reads come back in timestamp order.
	for _, i := range []int{2, 0, 1} {
		_, err := repos.Messages().Insert(ctx, series[i])
		require.NoError(t, err)
	}

	messages, err := repos.Messages().SelectAllActive(ctx, "memo-1")

	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "msg-1", messages[0].ID)
	assert.Equal(t, "msg-2", messages[1].ID)
	assert.Equal(t, "msg-3", messages[2].ID)
}

func TestMessageRepo_SelectAllActiveSkipsDeleted(t *testing.T) {
	ctx := context.Background()
	repos := NewStore()

	_, err := repos.Messages().Insert(ctx,
		fixtures.NewMessageBuilder().WithID("msg-1").WithMemoID("memo-1").Build())
	require.NoError(t, err)
	_, err = repos.Messages().Insert(ctx,
		fixtures.NewMessageBuilder().WithID("msg-2").WithMemoID("memo-1").Deleted().Build())
	require.NoError(t, err)

	messages, err := repos.Messages().SelectAllActive(ctx, "memo-1")

	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "msg-1", messages[0].ID)
}

func TestMessageRepo_SelectAllActiveByOwner(t *testing.T) {
	ctx := context.Background()
	repos := NewStore()

	for _, m := range []*entities.Memo{
		fixtures.NewMemoBuilder().WithID("memo-1").WithUserID("user-1").Build(),
		fixtures.NewMemoBuilder().WithID("memo-2").WithUserID("user-2").Build(),
	} {
		_, err := repos.Memos().Insert(ctx, m)
		require.NoError(t, err)
	}
	for _, msg := range []*entities.Message{
		fixtures.NewMessageBuilder().WithID("msg-1").WithMemoID("memo-1").Build(),
		fixtures.NewMessageBuilder().WithID("msg-2").WithMemoID("memo-2").Build(),
	} {
		_, err := repos.Messages().Insert(ctx, msg)
		require.NoError(t, err)
	}

	messages, err := repos.Messages().SelectAllActiveByOwner(ctx, "user-1")

	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "msg-1", messages[0].ID)
}

func TestMessageRepo_UpdateRefreshesTimestamp(t *testing.T) {
	ctx := context.Background()
	repos := NewStore()

	old := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := fixtures.NewMessageBuilder().WithID("msg-1").WithMemoID("memo-1").
		WithContent("before").WithTimestamp(old).Build()
	_, err := repos.Messages().Insert(ctx, msg)
	require.NoError(t, err)

	updated, err := repos.Messages().Update(ctx, "msg-1", "after")

	require.NoError(t, err)
	assert.Equal(t, "after", updated.Content)
	assert.NotEqual(t, msg.Timestamp, updated.Timestamp)
}

func TestMessageRepo_SoftDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	repos := NewStore()

	msg := fixtures.NewMessageBuilder().WithID("msg-1").WithMemoID("memo-1").Build()
	_, err := repos.Messages().Insert(ctx, msg)
	require.NoError(t, err)

	flagged, err := repos.Messages().MarkDeleted(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, flagged.IsDeleted)
	assert.Equal(t, msg.Timestamp, flagged.Timestamp, "soft delete keeps the ordering position")

	restored, err := repos.Messages().MarkActive(ctx, "msg-1")
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
	assert.Equal(t, msg.Timestamp, restored.Timestamp)
}

func TestMessageRepo_MarkDeletedUnknown(t *testing.T) {
	repos := NewStore()

	_, err := repos.Messages().MarkDeleted(context.Background(), "missing")

	assert.True(t, errors.IsNotFound(err))
}

func TestHistoryRepo_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	repos := NewStore()

	require.NoError(t, repos.History().Insert(ctx, &entities.HistoryEntry{
		MessageID: "msg-1", Content: "v1", Timestamp: "2026-03-01T12:00:00Z",
	}))
	require.NoError(t, repos.History().Insert(ctx, &entities.HistoryEntry{
		MessageID: "msg-1", Content: "v2", Timestamp: "2026-03-01T13:00:00Z",
	}))

	entries, err := repos.History().SelectByMessage(ctx, "msg-1")

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "v2", entries[0].Content)
	assert.Equal(t, "v1", entries[1].Content)
	assert.NotEmpty(t, entries[0].ID, "insert assigns entry IDs")
}

func TestStore_ReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	repos := NewStore()

	memo := fixtures.NewMemoBuilder().WithID("memo-1").WithUserID("user-1").
		WithTitle("Original").Build()
	_, err := repos.Memos().Insert(ctx, memo)
	require.NoError(t, err)

	memos, err := repos.Memos().SelectAll(ctx, "user-1")
	require.NoError(t, err)
	memos[0].Title = "mutated by caller"

	again, err := repos.Memos().SelectAll(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Original", again[0].Title)
}
