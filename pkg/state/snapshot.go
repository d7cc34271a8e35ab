package state

import (
	"crypto/sha1"
	"encoding/hex"

	"restockwatch/pkg/stock"
)

// KeyLength is the width of a hex-encoded SHA-1 digest.
const KeyLength = sha1.Size * 2

// Key returns the storage key for a tracked URL.
func Key(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Record is the persisted state of one tracked URL.
type Record struct {
	Signal stock.Signal `json:"signal"`
	// Notified is set while the last confirmed InStock has already been
	// announced, so that an Unknown in between does not re-arm the alert.
	Notified bool `json:"notified"`
}

// Snapshot is an insertion-ordered mapping of key to Record.
type Snapshot struct {
	keys    []string
	records map[string]Record
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{records: make(map[string]Record)}
}

// Get returns the record for key and whether it exists.
func (s *Snapshot) Get(key string) (Record, bool) {
	r, ok := s.records[key]
	return r, ok
}

// Set stores r under key. A new key is appended to the order; an existing
// key keeps its position.
func (s *Snapshot) Set(key string, r Record) {
	if _, ok := s.records[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.records[key] = r
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	return len(s.keys)
}

// Keys returns the keys in insertion order.
func (s *Snapshot) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Each calls fn for every record in insertion order.
func (s *Snapshot) Each(fn func(key string, r Record)) {
	for _, k := range s.keys {
		fn(k, s.records[k])
	}
}
