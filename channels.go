package main

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// ChannelRegistry maps channel names to channel ids and ids to channels.
// A channel stays reachable through its id for the clients already on it
// even after its name binding is deleted; only named channels are listed
// and persisted.
type ChannelRegistry struct {
	mu       sync.Mutex
	nextID   int
	names    map[string]int
	channels map[int]*Channel
}

func NewChannelRegistry() *ChannelRegistry {
	return &ChannelRegistry{
		nextID:   1,
		names:    make(map[string]int),
		channels: make(map[int]*Channel),
	}
}

func (r *ChannelRegistry) Exists(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.names[name]
	return ok
}

// Names returns the registered channel names, sorted.
func (r *ChannelRegistry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Channels returns every channel that still has a name binding.
func (r *ChannelRegistry) Channels() []*Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	channels := make([]*Channel, 0, len(r.names))
	for _, id := range r.names {
		if ch, ok := r.channels[id]; ok {
			channels = append(channels, ch)
		}
	}
	return channels
}

// OpenOrCreate returns the channel registered under name, creating it with
// the given owner when it does not exist yet.
func (r *ChannelRegistry) OpenOrCreate(name, owner string) *Channel {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.names[name]; ok {
		return r.channels[id]
	}

	ch := NewChannel(name, owner)
	r.names[name] = r.nextID
	r.channels[r.nextID] = ch
	r.nextID++
	return ch
}

// Delete drops the name binding. The channel object survives for sessions
// already connected to it.
func (r *ChannelRegistry) Delete(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[name]; !ok {
		return false
	}
	delete(r.names, name)
	return true
}

// Rename moves the binding from old to new. It fails when old is not
// registered or new is already taken.
func (r *ChannelRegistry) Rename(old, new string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.names[old]
	if !ok {
		return false
	}
	if _, taken := r.names[new]; taken {
		return false
	}
	delete(r.names, old)
	r.names[new] = id
	return true
}

// purgeUser removes every trace of a deleted account from every channel.
func (r *ChannelRegistry) purgeUser(name string) {
	r.mu.Lock()
	channels := make([]*Channel, 0, len(r.channels))
	for _, ch := range r.channels {
		channels = append(channels, ch)
	}
	r.mu.Unlock()

	for _, ch := range channels {
		ch.purgeUser(name)
	}
}

// The persistence snapshot: name bindings, the id counter, and the
// registered channels keyed by id.

func (r *ChannelRegistry) saveNames() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payload, err := json.Marshal(r.names)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling channel names")
	}
	return payload, nil
}

func (r *ChannelRegistry) saveNext() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payload, err := json.Marshal(r.nextID)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling channel counter")
	}
	return payload, nil
}

// registeredIDs returns the ids that still have a name binding, sorted.
func (r *ChannelRegistry) registeredIDs() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int, 0, len(r.names))
	for _, id := range r.names {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (r *ChannelRegistry) channelByID(id int) *Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.channels[id]
}

func (r *ChannelRegistry) loadNames(payload []byte) error {
	names := make(map[string]int)
	if err := json.Unmarshal(payload, &names); err != nil {
		return errors.Wrap(err, "unmarshaling channel names")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = names
	return nil
}

func (r *ChannelRegistry) loadNext(payload []byte) error {
	var next int
	if err := json.Unmarshal(payload, &next); err != nil {
		return errors.Wrap(err, "unmarshaling channel counter")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID = next
	return nil
}

func (r *ChannelRegistry) installChannel(id int, ch *Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[id] = ch
}

// dropName removes a name binding whose channel snapshot could not be
// loaded, so listings never point at a channel that does not exist.
func (r *ChannelRegistry) dropName(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, have := range r.names {
		if have == id {
			delete(r.names, name)
		}
	}
}
