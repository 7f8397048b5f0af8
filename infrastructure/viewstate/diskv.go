// Package viewstate persists client view state on disk with diskv,
// one flat file per key.
package viewstate

import (
	"chatmemo/application/viewstate"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvStore implements viewstate.Store over a diskv key-value
// directory. Keys are small (scroll positions, last edited memo) so the
// cache stays tiny.
type DiskvStore struct {
	d *diskv.Diskv
}

var _ viewstate.Store = (*DiskvStore)(nil)

// NewDiskvStore opens (or creates) a view-state directory
func NewDiskvStore(basePath string) *DiskvStore {
	return &DiskvStore{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    func(s string) []string { return []string{} },
			CacheSizeMax: 1024 * 1024,
		}),
	}
}

// Read returns the value for a key, or "" with no error when the key
// has never been written.
func (s *DiskvStore) Read(key string) (string, error) {
	if !s.d.Has(key) {
		return "", nil
	}
	raw, err := s.d.Read(key)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Write stores a value under a key
func (s *DiskvStore) Write(key, value string) error {
	return s.d.Write(key, []byte(value))
}

// Erase removes a key. Erasing an absent key is not an error.
func (s *DiskvStore) Erase(key string) error {
	if !s.d.Has(key) {
		return nil
	}
	return s.d.Erase(key)
}
