package main

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Server owns the listener, the shared registries, and the set of live
// connections. Each accepted connection gets its own worker goroutine
// driving a handler stack; the server's accept loop runs on the caller's
// goroutine until shutdown.
type Server struct {
	Config   Config
	Accounts *AccountRegistry
	Channels *ChannelRegistry
	Bans     *BanList
	Metrics  *Metrics

	// WG tracks connection workers so main can wait for them to drain
	// before saving state.
	WG sync.WaitGroup

	log      zerolog.Logger
	listener net.Listener

	mu      sync.Mutex
	running bool
	clients []*Client
}

func newServer(cfg Config, log zerolog.Logger) *Server {
	return &Server{
		Config:   cfg,
		Accounts: NewAccountRegistry(),
		Channels: NewChannelRegistry(),
		Bans:     NewBanList(),
		Metrics:  NewMetrics(),
		log:      log,
	}
}

// start binds the listener and serves connections until an administrator
// shuts the server down. It blocks.
func (s *Server) start() error {
	address := net.JoinHostPort(s.Config.ListenHost, s.Config.ListenPort)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", address)
	}

	s.mu.Lock()
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	if s.Config.MetricsAddress != "" {
		go s.serveMetrics()
	}

	s.log.Info().Msgf("Listening on %s", address)
	s.acceptConnections()
	return nil
}

func (s *Server) serveMetrics() {
	srv := &http.Server{
		Addr:         s.Config.MetricsAddress,
		Handler:      s.Metrics.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		s.log.Error().Msgf("Metrics server: %s", err)
	}
}

func (s *Server) acceptConnections() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isRunning() {
				s.log.Error().Msgf("Accept: %s", err)
				continue
			}
			break
		}

		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			_ = conn.Close()
			break
		}
		client := NewClient(s, conn)
		s.clients = append(s.clients, client)
		s.mu.Unlock()

		s.Metrics.ConnectionsTotal.Inc()
		s.Metrics.SessionsActive.Inc()
		s.log.Info().Msgf("Client %s: connected", client)

		s.WG.Add(1)
		go NewStack(&BanFilter{client: client}, client).Run()
	}

	_ = s.listener.Close()
	s.log.Info().Msg("Stopped accepting connections")
}

func (s *Server) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// beginShutdown stops the accept loop and returns a snapshot of the live
// clients. already is true when the server was shut down before.
func (s *Server) beginShutdown() (clients []*Client, already bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil, true
	}
	s.running = false

	// A blocked Accept only notices the flag once it returns, so poke the
	// listener with one throwaway connection.
	go wakeListener(s.Config.ListenPort)

	return append([]*Client(nil), s.clients...), false
}

func (s *Server) removeClient(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, have := range s.clients {
		if have == client {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			return
		}
	}
}
