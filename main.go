// multichat is a multi-user text chat server. Clients connect over plain
// TCP and are walked through a tree of interactive screens: registration
// and login, a post-login hub, persistent named channels with history and
// moderation, private messages, and administration.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	args := getArgs()

	// A .env file is a convenience for development; absence is fine.
	_ = godotenv.Load()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := loadConfig(args.ConfigFile)
	if err != nil {
		log.Fatal().Msgf("Configuration error: %s", err)
	}

	server := newServer(cfg, log)
	if err := loadState(cfg.DataDir, server); err != nil {
		log.Fatal().Msgf("Unable to load state: %s", err)
	}

	if err := server.start(); err != nil {
		log.Fatal().Msgf("Unable to start: %s", err)
	}

	// The accept loop has stopped; wait for the connection workers to
	// drain before writing state out.
	server.WG.Wait()

	if err := saveState(cfg.DataDir, server); err != nil {
		log.Error().Msgf("Unable to save state: %s", err)
	}
	log.Info().Msg("Server shutdown cleanly")
}
