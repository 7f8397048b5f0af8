package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"chatmemo/application/ports"
	"chatmemo/domain/core/entities"
	"chatmemo/pkg/hashtag"
	"chatmemo/pkg/utils"

	"go.uber.org/zap"
)

// SearchFilter is the full input of the derived search views. Results
// are pure functions over {filter, memo set, message set}: recompute
// whenever any of them changes.
type SearchFilter struct {
	Query     string
	Hashtag   string // with leading '#'
	StartDate string // inclusive, YYYY-MM-DD
	EndDate   string // inclusive, YYYY-MM-DD
}

// IsZero reports whether no filtering is requested
func (f SearchFilter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" && f.Hashtag == "" && f.StartDate == "" && f.EndDate == ""
}

// SearchService computes derived views over the memo and message sets:
// cross-memo search results, in-memo message filtering, and the hashtag
// index. It caches the account-wide message set needed for cross-memo
// matches; everything else is recomputed on demand.
type SearchService struct {
	repo   ports.MessageRepository
	logger *zap.Logger

	mu          sync.Mutex
	allMessages []*entities.Message
}

// NewSearchService creates a search service
func NewSearchService(repo ports.MessageRepository, logger *zap.Logger) *SearchService {
	return &SearchService{repo: repo, logger: logger}
}

// LoadAllMessages refreshes the account-wide message cache. A failed
// load clears the cache; search then degrades to title-only matching.
func (s *SearchService) LoadAllMessages(ctx context.Context, ownerID string) error {
	messages, err := s.repo.SelectAllActiveByOwner(ctx, ownerID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.allMessages = nil
		s.logger.Error("search message load failed", zap.Error(err))
		return err
	}
	s.allMessages = messages
	return nil
}

// SearchMemos returns the memos matching the filter, preserving the
// input ordering. A memo matches through its title or through any of its
// non-deleted messages. With an empty filter the input is returned as is.
func (s *SearchService) SearchMemos(memos []*entities.Memo, f SearchFilter) []*entities.Memo {
	if f.IsZero() {
		return memos
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	matched := make(map[string]bool)

	for _, memo := range memos {
		titleMatches := query != "" && strings.Contains(strings.ToLower(memo.Title), query)
		hashtagMatches := f.Hashtag == "" || hashtag.Contains(memo.Title, f.Hashtag)

		if (titleMatches && hashtagMatches) || (query == "" && f.Hashtag != "" && hashtagMatches) {
			matched[memo.ID] = true
		}
	}

	s.mu.Lock()
	allMessages := s.allMessages
	s.mu.Unlock()

	for _, msg := range allMessages {
		if msg.IsDeleted {
			continue
		}
		contentMatches := query == "" || strings.Contains(strings.ToLower(msg.Content), query)
		hashtagMatches := f.Hashtag == "" || hashtag.Contains(msg.Content, f.Hashtag)
		dateMatches := withinDateRange(msg.Timestamp, f)

		if contentMatches && hashtagMatches && dateMatches {
			matched[msg.MemoID] = true
		}
	}

	results := make([]*entities.Memo, 0, len(matched))
	for _, memo := range memos {
		if matched[memo.ID] {
			results = append(results, memo)
		}
	}
	return results
}

// FilterMessages narrows a memo's message list to the filter. When a
// hashtag is selected that appears only in the memo title, the whole
// conversation is shown rather than an empty list.
func (s *SearchService) FilterMessages(currentMemo *entities.Memo, messages []*entities.Message, f SearchFilter) []*entities.Message {
	if currentMemo == nil {
		return []*entities.Message{}
	}

	active := make([]*entities.Message, 0, len(messages))
	for _, m := range messages {
		if !m.IsDeleted {
			active = append(active, m)
		}
	}

	if f.Hashtag != "" {
		inMessages := false
		for _, m := range active {
			if hashtag.Contains(m.Content, f.Hashtag) {
				inMessages = true
				break
			}
		}
		if !inMessages && hashtag.Contains(currentMemo.Title, f.Hashtag) {
			return active
		}
	}

	if f.IsZero() {
		return active
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	results := make([]*entities.Message, 0, len(active))
	for _, m := range active {
		contentMatch := query == "" || strings.Contains(strings.ToLower(m.Content), query)
		dateMatch := withinDateRange(m.Timestamp, f)
		hashtagMatch := f.Hashtag == "" || hashtag.Contains(m.Content, f.Hashtag)

		if contentMatch && dateMatch && hashtagMatch {
			results = append(results, m)
		}
	}
	return results
}

// AllHashtags returns every hashtag appearing in memo titles or cached
// non-deleted messages, deduplicated and sorted.
func (s *SearchService) AllHashtags(memos []*entities.Memo) []string {
	seen := make(map[string]bool)

	for _, memo := range memos {
		for _, tag := range hashtag.Extract(memo.Title) {
			seen[tag] = true
		}
	}

	s.mu.Lock()
	for _, msg := range s.allMessages {
		if msg.IsDeleted {
			continue
		}
		for _, tag := range hashtag.Extract(msg.Content) {
			seen[tag] = true
		}
	}
	s.mu.Unlock()

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// withinDateRange checks a message timestamp against the filter's
// inclusive day range. Without date bounds everything passes.
func withinDateRange(timestamp string, f SearchFilter) bool {
	if f.StartDate == "" && f.EndDate == "" {
		return true
	}

	ts := utils.ParseTimestamp(timestamp)

	if f.StartDate != "" {
		start, err := time.Parse("2006-01-02", f.StartDate)
		if err == nil && ts.Before(start) {
			return false
		}
	}
	if f.EndDate != "" {
		end, err := time.Parse("2006-01-02", f.EndDate)
		if err == nil && !ts.Before(end.AddDate(0, 0, 1)) {
			return false
		}
	}
	return true
}
