package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Persistent state lives in one directory as flat JSON files named
// <Owner>.<FIELD>.dat. Saving happens once, after the last worker drains
// at shutdown; loading happens once, before the listener starts. Missing
// files mean a fresh server, a corrupt file aborts startup.
const persistExt = ".dat"

func persistPath(dir, owner, field string) string {
	return filepath.Join(dir, owner+"."+field+persistExt)
}

func writeStateFile(dir, owner, field string, payload []byte) error {
	path := persistPath(dir, owner, field)
	if err := os.WriteFile(path, payload, 0600); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// readStateFile returns nil with no error when the file does not exist.
func readStateFile(dir, owner, field string) ([]byte, error) {
	path := persistPath(dir, owner, field)
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return payload, nil
}

func channelField(id int) string {
	return fmt.Sprintf("CHANNEL_%d", id)
}

// saveState writes the account registry, the ban list, and the channel
// registry with every registered channel.
func saveState(dir string, s *Server) error {
	accounts, err := s.Accounts.saveData()
	if err != nil {
		return err
	}
	if err := writeStateFile(dir, "AccountRegistry", "ACCOUNTS",
		accounts); err != nil {
		return err
	}

	blocked, err := s.Bans.saveData()
	if err != nil {
		return err
	}
	if err := writeStateFile(dir, "BanFilter", "BLOCKED", blocked); err != nil {
		return err
	}

	names, err := s.Channels.saveNames()
	if err != nil {
		return err
	}
	if err := writeStateFile(dir, "ChannelRegistry", "CHANNEL_NAMES",
		names); err != nil {
		return err
	}

	next, err := s.Channels.saveNext()
	if err != nil {
		return err
	}
	if err := writeStateFile(dir, "ChannelRegistry", "NEXT_CHANNEL",
		next); err != nil {
		return err
	}

	for _, id := range s.Channels.registeredIDs() {
		ch := s.Channels.channelByID(id)
		if ch == nil {
			continue
		}
		payload, err := marshalChannel(ch)
		if err != nil {
			return err
		}
		if err := writeStateFile(dir, "ChannelRegistry", channelField(id),
			payload); err != nil {
			return err
		}
	}
	return nil
}

func marshalChannel(ch *Channel) ([]byte, error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	payload, err := json.Marshal(ch)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling channel")
	}
	return payload, nil
}

// loadState restores what saveState wrote. Channels whose snapshot file is
// gone lose their name binding so listings stay consistent.
func loadState(dir string, s *Server) error {
	if payload, err := readStateFile(dir, "AccountRegistry",
		"ACCOUNTS"); err != nil {
		return err
	} else if payload != nil {
		if err := s.Accounts.loadData(payload); err != nil {
			return err
		}
	}

	if payload, err := readStateFile(dir, "BanFilter", "BLOCKED"); err != nil {
		return err
	} else if payload != nil {
		if err := s.Bans.loadData(payload); err != nil {
			return err
		}
	}

	if payload, err := readStateFile(dir, "ChannelRegistry",
		"CHANNEL_NAMES"); err != nil {
		return err
	} else if payload != nil {
		if err := s.Channels.loadNames(payload); err != nil {
			return err
		}
	}

	if payload, err := readStateFile(dir, "ChannelRegistry",
		"NEXT_CHANNEL"); err != nil {
		return err
	} else if payload != nil {
		if err := s.Channels.loadNext(payload); err != nil {
			return err
		}
	}

	for _, id := range s.Channels.registeredIDs() {
		payload, err := readStateFile(dir, "ChannelRegistry",
			channelField(id))
		if err != nil {
			return err
		}
		if payload == nil {
			s.Channels.dropName(id)
			continue
		}

		ch := &Channel{}
		if err := json.Unmarshal(payload, ch); err != nil {
			return errors.Wrapf(err, "unmarshaling channel %d", id)
		}
		ch.restoreTransient()
		s.Channels.installChannel(id, ch)
	}
	return nil
}
