package main

import (
	"net"
	"strings"
)

// BanFilter is the root screen of every session. On first entry it checks
// the peer against the ban list; blocked peers are dropped without a word.
// When the rest of the session pops back here the connection is done, so
// it says goodbye and closes.
type BanFilter struct {
	client *Client
	passed bool
}

// banCandidates is the set of names the peer may be banned under: its IP
// and whatever reverse DNS says about it.
func banCandidates(ip string) []string {
	candidates := []string{ip}
	names, err := net.LookupAddr(ip)
	if err != nil {
		return candidates
	}
	for _, name := range names {
		candidates = append(candidates, strings.TrimSuffix(name, "."))
	}
	return candidates
}

func (f *BanFilter) Handle() (Handler, error) {
	conn := f.client.Conn

	if f.passed {
		_ = conn.Print("Disconnecting ...")
		_ = conn.Close()
		return nil, errConnClosed
	}

	if f.client.Server.Bans.Matches(banCandidates(conn.RemoteIP())...) {
		f.client.Server.log.Info().Msgf("Client %s: banned peer dropped",
			f.client)
		_ = conn.Close()
		return nil, errConnClosed
	}

	f.passed = true
	return &OutsideMenu{client: f.client}, nil
}
