// Package discord wires the bot together: the gateway session, command
// registration and the interaction dispatch loop.
package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/astionic/astionic/internal/command"
	cmdmusic "github.com/astionic/astionic/internal/command/music"
	cmdrestart "github.com/astionic/astionic/internal/command/restart"
	cmdsay "github.com/astionic/astionic/internal/command/say"
	"github.com/astionic/astionic/internal/config"
	"github.com/astionic/astionic/internal/music/resolver"
	"github.com/astionic/astionic/internal/music/session"
	"github.com/astionic/astionic/internal/music/transport"
	"github.com/astionic/astionic/internal/restart"
	"github.com/astionic/astionic/internal/storage"
	"github.com/astionic/astionic/internal/tts"
)

// Bot is the Discord bot.
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	storage  *storage.Storage
	sessions *session.Registry
	deps     *command.Deps

	restartOnce sync.Once
	restartCh   chan struct{}
}

// NewBot builds the bot and its dependency graph. Run connects it.
func NewBot(cfg *config.Config, store *storage.Storage) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	b := &Bot{
		dg:        dg,
		cfg:       cfg,
		storage:   store,
		sessions:  session.New(transport.NewDiscordConnector(dg)),
		restartCh: make(chan struct{}),
	}
	b.deps = &command.Deps{
		Sessions:       b.sessions,
		Resolver:       resolver.New(resolver.Options{AggressiveMode: cfg.YTDLPAggressiveMode}),
		TTS:            tts.New(cfg.TTSConfigPath, cfg.TTSSpeakerID),
		Storage:        store,
		Voice:          b,
		RequestRestart: b.RequestRestart,
	}

	b.registerCommands()
	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onInteractionCreate)

	return b, nil
}

func (b *Bot) registerCommands() {
	for _, c := range []command.Command{
		&cmdmusic.PlayCommand{},
		&cmdmusic.JoinCommand{},
		&cmdmusic.LeaveCommand{},
		&cmdmusic.PauseCommand{},
		&cmdmusic.ResumeCommand{},
		&cmdmusic.SkipCommand{},
		&cmdmusic.ClearCommand{},
		&cmdmusic.ShuffleCommand{},
		&cmdmusic.QueueCommand{},
		&cmdmusic.NowPlayingCommand{},
		&cmdmusic.HistoryCommand{},
		&cmdsay.SayCommand{},
		&cmdrestart.RestartCommand{},
	} {
		command.Register(c,
			command.WithCommandLogger(),
			command.WithGuildOnly(),
		)
	}
}

func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentMessageContent
}

// Run opens the gateway connection and blocks until ctx is cancelled,
// then shuts the voice sessions down.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, cleaning up")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), transport.AcquireTimeout)
	defer cancel()
	b.sessions.Shutdown(shutdownCtx)
	return nil
}

// RequestRestart asks the main loop to exit with the restart code. Safe
// to call more than once.
func (b *Bot) RequestRestart() {
	b.restartOnce.Do(func() { close(b.restartCh) })
}

// RestartRequested is closed when a restart was requested.
func (b *Bot) RestartRequested() <-chan struct{} {
	return b.restartCh
}

// FindUserVoiceState returns the voice state of userID in guildID, or
// an error when the user is not in voice.
func (b *Bot) FindUserVoiceState(guildID, userID string) (*discordgo.VoiceState, error) {
	guild, err := b.dg.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("guild not in state: %w", err)
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs, nil
		}
	}
	return nil, fmt.Errorf("user is not in a voice channel")
}

func (b *Bot) onReady(s *discordgo.Session, _ *discordgo.Ready) {
	log.Info().Str("user", s.State.User.Username).Msg("bot is ready")

	b.confirmRestart(s)

	defs := command.SlashDefinitions()
	if _, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, "", defs); err != nil {
		log.Error().Err(err).Msg("slash command registration failed")
	}
}

// confirmRestart replies to the message that requested the previous
// restart, if one is pending.
func (b *Bot) confirmRestart(s *discordgo.Session) {
	sig, ok, err := restart.Consume()
	if err != nil {
		log.Warn().Err(err).Msg("restart signal could not be consumed")
		return
	}
	if !ok {
		return
	}

	_, err = s.ChannelMessageSendReply(sig.ChannelID, "Successfully restarted!", &discordgo.MessageReference{
		ChannelID: sig.ChannelID,
		MessageID: sig.MessageID,
	})
	if err != nil {
		log.Warn().Str("channel", sig.ChannelID).Err(err).Msg("restart confirmation failed")
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, e *discordgo.InteractionCreate) {
	if e.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := e.ApplicationCommandData().Name
	cmd, ok := command.Get(name)
	if !ok {
		log.Warn().Str("command", name).Msg("unknown command invoked")
		return
	}

	go func() {
		err := cmd.Run(&command.SlashContext{
			Session: s,
			Event:   e,
			Deps:    b.deps,
		})
		if err != nil {
			log.Error().Str("command", name).Err(err).Msg("command failed")
		}
	}()
}
