package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/astionic/astionic/internal/config"
	"github.com/astionic/astionic/internal/discord"
	"github.com/astionic/astionic/internal/logger"
	"github.com/astionic/astionic/internal/restart"
	"github.com/astionic/astionic/internal/storage"
	v "github.com/astionic/astionic/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	logger.Init(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	log.Info().Str("version", v.AppVersion).Msgf("starting %s", v.AppName)

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("storage open failed")
	}
	defer store.Close()

	bot, err := discord.NewBot(cfg, store)
	if err != nil {
		log.Fatal().Err(err).Msg("bot setup failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.Run(ctx)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	restartRequested := false
	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("received signal, shutting down")
		cancel()
		<-errCh
	case <-bot.RestartRequested():
		log.Info().Msg("restart requested, shutting down")
		restartRequested = true
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("bot exited with error")
			return 1
		}
	}

	log.Info().Msg("exited cleanly")
	if restartRequested {
		// The launcher script treats this code as a restart request.
		return restart.ExitCode
	}
	return 0
}
