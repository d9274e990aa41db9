package main

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// BanList holds the blocked host names and addresses. Matching is case
// insensitive. Entries may repeat; the forgiveness trap appends without
// checking.
type BanList struct {
	mu      sync.Mutex
	blocked []string
}

func NewBanList() *BanList {
	return &BanList{blocked: []string{}}
}

// Matches reports whether any candidate is blocked.
func (b *BanList) Matches(candidates ...string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, blocked := range b.blocked {
		for _, candidate := range candidates {
			if strings.EqualFold(blocked, candidate) {
				return true
			}
		}
	}
	return false
}

// Add blocks an address. Returns false when it is already present.
func (b *BanList) Add(address string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, blocked := range b.blocked {
		if blocked == address {
			return false
		}
	}
	b.blocked = append(b.blocked, address)
	return true
}

// Append blocks an address without a duplicate check. Used by the
// forgiveness trap, which bans unconditionally.
func (b *BanList) Append(address string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blocked = append(b.blocked, address)
}

// Remove drops every occurrence of an address. Returns false when it was
// not present.
func (b *BanList) Remove(address string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.blocked[:0]
	found := false
	for _, blocked := range b.blocked {
		if blocked == address {
			found = true
			continue
		}
		kept = append(kept, blocked)
	}
	b.blocked = kept
	return found
}

// List returns a copy of the blocked addresses.
func (b *BanList) List() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.blocked...)
}

func (b *BanList) saveData() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	payload, err := json.Marshal(b.blocked)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling ban list")
	}
	return payload, nil
}

func (b *BanList) loadData(payload []byte) error {
	var blocked []string
	if err := json.Unmarshal(payload, &blocked); err != nil {
		return errors.Wrap(err, "unmarshaling ban list")
	}
	if blocked == nil {
		blocked = []string{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.blocked = blocked
	return nil
}
