// Package say implements the text-to-speech command. The synthesized
// clip is spoken over the user's voice channel, ducking any playing
// track, and also attached to the reply so it can be replayed.
package say

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/astionic/astionic/internal/command"
	"github.com/astionic/astionic/internal/music/stream"
	"github.com/astionic/astionic/internal/music/transport"
	"github.com/astionic/astionic/internal/tts"
)

type SayCommand struct{}

func (c *SayCommand) Name() string        { return "say" }
func (c *SayCommand) Description() string { return "Generate local TTS audio and play it in voice" }
func (c *SayCommand) Aliases() []string   { return []string{} }
func (c *SayCommand) Group() string       { return "music" }
func (c *SayCommand) Category() string    { return "🎵 Music" }

func (c *SayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "text",
				Description: "Text to speak",
				Required:    true,
			},
		},
	}
}

func (c *SayCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*command.SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	session := slash.Session
	event := slash.Event
	deps := slash.Deps

	var text string
	for _, opt := range event.ApplicationCommandData().Options {
		if opt.Name == "text" {
			text = opt.StringValue()
		}
	}

	if err := command.Defer(session, event); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	if strings.TrimSpace(tts.FilterEmojis(text)) == "" {
		return command.FollowupWarning(session, event, ":warning: Please provide text to speak.", "")
	}

	wavPath, err := deps.TTS.Synthesize(context.Background(), text)
	if err != nil {
		return command.FollowupWarning(session, event, ":warning: TTS synthesis failed.", err.Error())
	}

	// The attachment goes out in every case, so the clip survives past
	// the voice playback.
	if err := c.attach(session, event, wavPath); err != nil {
		log.Warn().Err(err).Msg("tts attachment upload failed")
	}

	vs, vsErr := deps.Voice.FindUserVoiceState(event.GuildID, event.Member.User.ID)
	if vsErr != nil || vs == nil || vs.ChannelID == "" {
		// Not in voice: the attachment is the whole delivery.
		_ = os.Remove(wavPath)
		return nil
	}

	p := deps.Sessions.GetOrCreate(event.GuildID)
	joinCtx, cancel := context.WithTimeout(context.Background(), transport.AcquireTimeout)
	defer cancel()
	if err := p.Join(joinCtx, vs.ChannelID); err != nil {
		_ = os.Remove(wavPath)
		return command.FollowupWarning(session, event, ":warning: Error joining channel.", "Please ensure I have the correct permissions.")
	}

	src, err := stream.Open(wavPath)
	if err != nil {
		_ = os.Remove(wavPath)
		return command.FollowupWarning(session, event, ":warning: Failed to play announcement.", err.Error())
	}

	if err := p.Interject(src, func() {
		if err := os.Remove(wavPath); err != nil {
			log.Warn().Str("path", wavPath).Err(err).Msg("failed to remove tts temp file")
		}
	}); err != nil {
		_ = os.Remove(wavPath)
		return command.FollowupWarning(session, event, ":warning: Failed to play announcement.", err.Error())
	}

	return nil
}

func (c *SayCommand) attach(session *discordgo.Session, event *discordgo.InteractionCreate, wavPath string) error {
	f, err := os.Open(wavPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return command.FollowupFile(session, event, filepath.Base(wavPath), f)
}
