package command

import (
	"io"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Embed colours shared by all commands.
const (
	EmbedColor   = 0xffffff
	WarningColor = 0xf38ba8
)

// Defer acknowledges the interaction so the 3 second response window
// stops applying; the real reply goes out as a followup.
func Defer(s *discordgo.Session, e *discordgo.InteractionCreate) error {
	return s.InteractionRespond(e.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

// Respond sends a plain message response.
func Respond(s *discordgo.Session, e *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(e.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

// RespondEphemeral sends a plain response only the invoker can see.
func RespondEphemeral(s *discordgo.Session, e *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(e.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// FollowupEmbed sends an embed as a followup to a deferred response.
func FollowupEmbed(s *discordgo.Session, e *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	if embed.Timestamp == "" {
		embed.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := s.FollowupMessageCreate(e.Interaction, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	return err
}

// FollowupWarning sends a warning-coloured embed followup.
func FollowupWarning(s *discordgo.Session, e *discordgo.InteractionCreate, title, description string) error {
	return FollowupEmbed(s, e, &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       WarningColor,
	})
}

// FollowupFile sends a file attachment as a followup.
func FollowupFile(s *discordgo.Session, e *discordgo.InteractionCreate, name string, r io.Reader) error {
	_, err := s.FollowupMessageCreate(e.Interaction, false, &discordgo.WebhookParams{
		Files: []*discordgo.File{{Name: name, Reader: r}},
	})
	return err
}
