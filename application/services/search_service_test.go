package services

import (
	"context"
	"testing"
	"time"

	"chatmemo/domain/core/entities"
	"chatmemo/pkg/errors"
	"chatmemo/tests/fixtures"
	"chatmemo/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchService(t *testing.T) (*SearchService, *mocks.MockMessageRepository) {
	t.Helper()
	repo := new(mocks.MockMessageRepository)
	return NewSearchService(repo, testLogger()), repo
}

func searchFixtures() []*entities.Memo {
	return []*entities.Memo{
		fixtures.NewMemoBuilder().WithID("memo-1").WithTitle("Groceries #errands").Build(),
		fixtures.NewMemoBuilder().WithID("memo-2").WithTitle("Project notes").Build(),
		fixtures.NewMemoBuilder().WithID("memo-3").WithTitle("Travel plans").Build(),
	}
}

func TestSearchService_EmptyFilterReturnsInput(t *testing.T) {
	svc, _ := newSearchService(t)
	memos := searchFixtures()

	results := svc.SearchMemos(memos, SearchFilter{})

	assert.Equal(t, memos, results)
}

func TestSearchService_TitleMatch(t *testing.T) {
	svc, _ := newSearchService(t)
	memos := searchFixtures()

	results := svc.SearchMemos(memos, SearchFilter{Query: "GROCER"})

	require.Len(t, results, 1)
	assert.Equal(t, "memo-1", results[0].ID)
}

func TestSearchService_MessageMatchPullsInMemo(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSearchService(t)
	memos := searchFixtures()

	msgs := []*entities.Message{
		fixtures.NewMessageBuilder().WithID("msg-1").WithMemoID("memo-2").
			WithContent("book the flight to Osaka").Build(),
		fixtures.NewMessageBuilder().WithID("msg-2").WithMemoID("memo-3").
			WithContent("flight leaves at 9am").Deleted().Build(),
	}
	repo.On("SelectAllActiveByOwner", ctx, "user-1").Return(msgs, nil)
	require.NoError(t, svc.LoadAllMessages(ctx, "user-1"))

	results := svc.SearchMemos(memos, SearchFilter{Query: "flight"})

	// memo-3's only hit is a deleted message, so it stays out.
	require.Len(t, results, 1)
	assert.Equal(t, "memo-2", results[0].ID)
}

func TestSearchService_ResultsPreserveInputOrder(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSearchService(t)
	memos := searchFixtures()

	msgs := []*entities.Message{
		fixtures.NewMessageBuilder().WithID("msg-1").WithMemoID("memo-3").WithContent("plan it").Build(),
		fixtures.NewMessageBuilder().WithID("msg-2").WithMemoID("memo-1").WithContent("plan dinner").Build(),
	}
	repo.On("SelectAllActiveByOwner", ctx, "user-1").Return(msgs, nil)
	require.NoError(t, svc.LoadAllMessages(ctx, "user-1"))

	results := svc.SearchMemos(memos, SearchFilter{Query: "plan"})

	require.Len(t, results, 2)
	assert.Equal(t, "memo-1", results[0].ID)
	assert.Equal(t, "memo-3", results[1].ID)
}

func TestSearchService_HashtagOnlyMatchesTitleTag(t *testing.T) {
	svc, _ := newSearchService(t)
	memos := searchFixtures()

	results := svc.SearchMemos(memos, SearchFilter{Hashtag: "#errands"})

	require.Len(t, results, 1)
	assert.Equal(t, "memo-1", results[0].ID)
}

func TestSearchService_FailedLoadDegradesToTitles(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSearchService(t)
	memos := searchFixtures()

	msgs := []*entities.Message{
		fixtures.NewMessageBuilder().WithID("msg-1").WithMemoID("memo-2").WithContent("travel soon").Build(),
	}
	repo.On("SelectAllActiveByOwner", ctx, "user-1").Return(msgs, nil).Once()
	require.NoError(t, svc.LoadAllMessages(ctx, "user-1"))
	require.Len(t, svc.SearchMemos(memos, SearchFilter{Query: "travel"}), 2)

	repo.On("SelectAllActiveByOwner", ctx, "user-1").
		Return(nil, errors.NewRemoteError("down", nil)).Once()
	require.Error(t, svc.LoadAllMessages(ctx, "user-1"))

	results := svc.SearchMemos(memos, SearchFilter{Query: "travel"})

	require.Len(t, results, 1, "stale cache must not feed results")
	assert.Equal(t, "memo-3", results[0].ID)
}

func TestSearchService_DateRangeIsInclusive(t *testing.T) {
	svc, _ := newSearchService(t)
	memo := fixtures.NewMemoBuilder().WithID("memo-1").WithTitle("Log").Build()

	day := func(ts string) *entities.Message {
		parsed, err := time.Parse(time.RFC3339, ts)
		require.NoError(t, err)
		return fixtures.NewMessageBuilder().WithID(ts).WithMemoID("memo-1").
			WithContent("entry").WithTimestamp(parsed).Build()
	}
	messages := []*entities.Message{
		day("2026-02-28T23:59:59Z"),
		day("2026-03-01T00:00:00Z"),
		day("2026-03-02T23:59:59Z"),
		day("2026-03-03T00:00:00Z"),
	}

	results := svc.FilterMessages(memo, messages, SearchFilter{StartDate: "2026-03-01", EndDate: "2026-03-02"})

	require.Len(t, results, 2)
	assert.Equal(t, "2026-03-01T00:00:00Z", results[0].ID)
	assert.Equal(t, "2026-03-02T23:59:59Z", results[1].ID)
}

func TestSearchService_FilterMessagesNilMemo(t *testing.T) {
	svc, _ := newSearchService(t)

	results := svc.FilterMessages(nil, fixtures.MessageSeries("memo-1", 2, time.Now()), SearchFilter{})

	assert.Empty(t, results)
}

func TestSearchService_FilterMessagesDropsDeleted(t *testing.T) {
	svc, _ := newSearchService(t)
	memo := fixtures.NewMemoBuilder().WithID("memo-1").WithTitle("Notes").Build()
	messages := []*entities.Message{
		fixtures.NewMessageBuilder().WithID("msg-1").WithMemoID("memo-1").Build(),
		fixtures.NewMessageBuilder().WithID("msg-2").WithMemoID("memo-1").Deleted().Build(),
	}

	results := svc.FilterMessages(memo, messages, SearchFilter{})

	require.Len(t, results, 1)
	assert.Equal(t, "msg-1", results[0].ID)
}

func TestSearchService_TitleTagShowsWholeConversation(t *testing.T) {
	svc, _ := newSearchService(t)
	memo := fixtures.NewMemoBuilder().WithID("memo-1").WithTitle("Groceries #errands").Build()
	messages := []*entities.Message{
		fixtures.NewMessageBuilder().WithID("msg-1").WithMemoID("memo-1").WithContent("milk").Build(),
		fixtures.NewMessageBuilder().WithID("msg-2").WithMemoID("memo-1").WithContent("eggs").Build(),
	}

	// The tag appears only in the title; filtering the messages by it
	// would otherwise hide everything.
	results := svc.FilterMessages(memo, messages, SearchFilter{Hashtag: "#errands"})

	assert.Len(t, results, 2)
}

func TestSearchService_ContentTagFiltersNormally(t *testing.T) {
	svc, _ := newSearchService(t)
	memo := fixtures.NewMemoBuilder().WithID("memo-1").WithTitle("Groceries #errands").Build()
	messages := []*entities.Message{
		fixtures.NewMessageBuilder().WithID("msg-1").WithMemoID("memo-1").WithContent("milk #errands").Build(),
		fixtures.NewMessageBuilder().WithID("msg-2").WithMemoID("memo-1").WithContent("eggs").Build(),
	}

	results := svc.FilterMessages(memo, messages, SearchFilter{Hashtag: "#errands"})

	require.Len(t, results, 1)
	assert.Equal(t, "msg-1", results[0].ID)
}

func TestSearchService_AllHashtagsSortedAndDeduplicated(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSearchService(t)
	memos := []*entities.Memo{
		fixtures.NewMemoBuilder().WithID("memo-1").WithTitle("Chores #home #errands").Build(),
	}
	msgs := []*entities.Message{
		fixtures.NewMessageBuilder().WithID("msg-1").WithMemoID("memo-1").WithContent("fix sink #home").Build(),
		fixtures.NewMessageBuilder().WithID("msg-2").WithMemoID("memo-1").WithContent("old #secret").Deleted().Build(),
	}
	repo.On("SelectAllActiveByOwner", ctx, "user-1").Return(msgs, nil)
	require.NoError(t, svc.LoadAllMessages(ctx, "user-1"))

	tags := svc.AllHashtags(memos)

	assert.Equal(t, []string{"#errands", "#home"}, tags)
}
