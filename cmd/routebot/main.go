// Copyright 2024-2026 Aiku AI

// Command routebot is a minimal echo bot built on the routing helpers. It
// listens for Mattermost posts addressed to the bot, strips the mention from
// the message text and replies with what is left, threading the answer under
// the original post. It exists mostly as a wiring example for the library.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"go.mau.fi/util/exerrors"

	"github.com/aiku/botroute/pkg/routing"
	"github.com/aiku/botroute/pkg/routing/mattermostconn"
)

// These are filled at build time with -ldflags.
var (
	Tag       = "unknown"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	generateConfig := flag.Bool("generate-config", false, "write an example config to the config path and exit")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*debug {
		log = log.Level(zerolog.InfoLevel)
	}

	if *generateConfig {
		exerrors.PanicIfNotNil(os.WriteFile(*configPath, []byte(mattermostconn.ExampleConfig), 0o600))
		fmt.Println("Wrote example config to", *configPath)
		return
	}

	cfg := exerrors.Must(mattermostconn.LoadConfig(*configPath))

	log.Info().
		Str("tag", Tag).
		Str("commit", Commit).
		Str("build_time", BuildTime).
		Str("server_url", cfg.ServerURL).
		Msg("Starting routebot")

	provider := mattermostconn.NewProvider(cfg.BotToken, cfg.ReplyInThread, log)
	dispatcher := routing.NewDispatcher(provider, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener := mattermostconn.NewListener(cfg, func(activity *routing.Activity) {
		text := routing.StripMentions(activity)
		go func() {
			err := dispatcher.ReplyTo(ctx, activity, text)
			switch {
			case errors.Is(err, routing.ErrSkippedReply):
				log.Debug().Str("activity_id", activity.ID).Msg("Nothing to echo")
			case err != nil:
				log.Error().Err(err).Str("activity_id", activity.ID).Msg("Echo reply failed")
			}
		}()
	}, log)

	if err := listener.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Mattermost")
	}
	defer listener.Disconnect()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
}
