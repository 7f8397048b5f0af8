package entities

import (
	"strings"

	"chatmemo/pkg/utils"

	"github.com/google/uuid"
)

// DefaultMemoTitle is the placeholder title for a freshly created memo
// ("new chat memo"). A memo carrying it is considered untitled:
// TitleModified stays false until a user rename or the first-message
// heuristic replaces it.
const DefaultMemoTitle = "新しいチャットメモ"

// titleMaxLen and titleKeepLen govern title derivation from the first
// message: first lines longer than titleMaxLen runes are cut to
// titleKeepLen runes plus an ellipsis marker.
const (
	titleMaxLen  = 50
	titleKeepLen = 47
)

// Memo is a titled container of an ordered message thread, owned by one
// account. Timestamps are wire-format strings; ordering parses them and
// treats unparsable values as epoch-zero rather than failing.
type Memo struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	Title         string `json:"title"`
	TitleModified bool   `json:"title_modified"`
	IsStarred     bool   `json:"is_starred"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// NewMemo creates a memo for the given owner. An empty title selects the
// default placeholder; any explicit title immediately counts as modified.
func NewMemo(userID, title string) *Memo {
	if title == "" {
		title = DefaultMemoTitle
	}
	now := utils.NowTimestamp()
	return &Memo{
		ID:            uuid.New().String(),
		UserID:        userID,
		Title:         title,
		TitleModified: title != DefaultMemoTitle,
		IsStarred:     false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Clone returns a copy of the memo
func (m *Memo) Clone() *Memo {
	c := *m
	return &c
}

// BelongsTo reports whether the memo is owned by the given account
func (m *Memo) BelongsTo(userID string) bool {
	return userID != "" && m.UserID == userID
}

// Rename sets a user-chosen title. TitleModified is monotonic: once true
// it never resets, so the first-message heuristic can never overwrite a
// manual title.
func (m *Memo) Rename(title string) {
	m.Title = title
	m.TitleModified = true
	m.Touch()
}

// ToggleStar flips the starred flag
func (m *Memo) ToggleStar() {
	m.IsStarred = !m.IsStarred
	m.Touch()
}

// Touch refreshes the last-update timestamp
func (m *Memo) Touch() {
	m.UpdatedAt = utils.NowTimestamp()
}

// DeriveTitle computes a memo title from message content: the first line
// verbatim when it fits, otherwise its first 47 runes plus "..." for a
// 50-character total.
func DeriveTitle(content string) string {
	firstLine := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		firstLine = content[:i]
	}
	runes := []rune(firstLine)
	if len(runes) <= titleMaxLen {
		return firstLine
	}
	return string(runes[:titleKeepLen]) + "..."
}
