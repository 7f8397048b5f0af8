// Package services holds domain-level policies that operate across
// entities without owning state.
package services

import (
	"sort"
	"time"

	"chatmemo/domain/core/entities"
	"chatmemo/pkg/utils"
)

// LatestActivity returns a memo's activity instant: the later of its
// creation and last-update timestamps. Missing or unparsable timestamps
// count as epoch-zero so ordering never errors.
func LatestActivity(memo *entities.Memo) time.Time {
	created := utils.ParseTimestamp(memo.CreatedAt)
	updated := utils.ParseTimestamp(memo.UpdatedAt)
	if updated.After(created) {
		return updated
	}
	return created
}

// SortMemos returns a new slice with the authoritative memo ordering:
// starred memos before unstarred ones, then latest activity descending
// within each group. The sort is stable (ties keep insertion order) and
// pure: the input slice is never mutated, and re-sorting sorted input
// yields identical output.
func SortMemos(memos []*entities.Memo) []*entities.Memo {
	sorted := make([]*entities.Memo, len(memos))
	copy(sorted, memos)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.IsStarred != b.IsStarred {
			return a.IsStarred
		}
		return LatestActivity(a).After(LatestActivity(b))
	})

	return sorted
}
