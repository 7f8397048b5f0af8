package hashtag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "plain text without tags", []string{}},
		{"single", "remember #groceries today", []string{"#groceries"}},
		{"multiple in order", "#work then #home then #work", []string{"#work", "#home", "#work"}},
		{"japanese", "明日は#買い物と#シゴト", []string{"#買い物と", "#シゴト"}},
		{"stops at punctuation", "done #today! next", []string{"#today"}},
		{"underscore and digits", "#tag_2 is fine", []string{"#tag_2"}},
		{"bare hash ignored", "just a # alone", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text))
		})
	}
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("notes about #golang today", "#golang"))
	assert.False(t, Contains("notes about #golang today", "#go"))
	assert.False(t, Contains("no tags here", "#golang"))
}
