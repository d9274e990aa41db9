package main

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// AccountRegistry is the authoritative name to account mapping. The
// registry lock orders before individual account locks; nothing takes the
// registry lock while holding an account lock.
type AccountRegistry struct {
	mu       sync.Mutex
	accounts map[string]*Account
}

func NewAccountRegistry() *AccountRegistry {
	return &AccountRegistry{
		accounts: make(map[string]*Account),
	}
}

func (r *AccountRegistry) Exists(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.accounts[name]
	return ok
}

// Lookup returns the account with the given name, or nil.
func (r *AccountRegistry) Lookup(name string) *Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[name]
}

func (r *AccountRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

// Names returns all account names, sorted.
func (r *AccountRegistry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.accounts))
	for name := range r.accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NamesExcept returns all account names but the given one, sorted.
func (r *AccountRegistry) NamesExcept(except string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.accounts))
	for name := range r.accounts {
		if name != except {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Accounts returns a snapshot of every account.
func (r *AccountRegistry) Accounts() []*Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	accounts := make([]*Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		accounts = append(accounts, a)
	}
	return accounts
}

// Register creates an account under name. The first account registered on
// the server becomes an administrator. Returns nil, false when the name is
// taken.
func (r *AccountRegistry) Register(name, password string) (*Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[name]; ok {
		return nil, false
	}

	account := NewAccount(len(r.accounts) == 0)
	account.Password = password
	r.accounts[name] = account
	return account, true
}

// Delete removes the account and purges the name from every other
// account's contact list and from every channel's banned, kicked, and mute
// state. The registry lock is held while the contact lists are purged; the
// channel purge happens after it is released so a channel lock is never
// taken under the registry lock.
func (r *AccountRegistry) Delete(name string, channels *ChannelRegistry) bool {
	r.mu.Lock()
	if _, ok := r.accounts[name]; !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.accounts, name)
	for _, other := range r.accounts {
		other.forgetUser(name)
	}
	r.mu.Unlock()

	if channels != nil {
		channels.purgeUser(name)
	}
	return true
}

// Deliver appends a message to the named account's inbox and notifies it
// if it is online. Returns false when the account does not exist. The
// registry lock is released before the recipient is touched; a stalled
// recipient must never block the registry.
func (r *AccountRegistry) Deliver(source, name, text string) bool {
	r.mu.Lock()
	account, ok := r.accounts[name]
	r.mu.Unlock()
	if !ok {
		return false
	}

	account.appendMessage(&Message{Source: source, Body: text, New: true})
	account.Broadcast("[EVENT] " + source + " has sent you a message.")
	return true
}

// IsAdministrator reports whether the named account exists and is an
// administrator.
func (r *AccountRegistry) IsAdministrator(name string) (admin, exists bool) {
	account := r.Lookup(name)
	if account == nil {
		return false, false
	}
	return account.IsAdministrator(), true
}

func (r *AccountRegistry) IsOnline(name string) bool {
	account := r.Lookup(name)
	if account == nil {
		return false
	}
	return account.Online()
}

// saveData serialises the full account map.
func (r *AccountRegistry) saveData() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payload, err := json.Marshal(r.accounts)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling accounts")
	}
	return payload, nil
}

// loadData replaces the account map with the serialised one. Session state
// comes back as offline.
func (r *AccountRegistry) loadData(payload []byte) error {
	accounts := make(map[string]*Account)
	if err := json.Unmarshal(payload, &accounts); err != nil {
		return errors.Wrap(err, "unmarshaling accounts")
	}
	for _, a := range accounts {
		a.restoreTransient()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = accounts
	return nil
}
