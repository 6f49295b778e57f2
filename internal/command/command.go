// Package command defines the command model: the interface every
// command implements, the context passed on invocation, and the shared
// dependencies commands draw on.
package command

import (
	"github.com/bwmarrin/discordgo"

	"github.com/astionic/astionic/internal/music/resolver"
	"github.com/astionic/astionic/internal/music/session"
	"github.com/astionic/astionic/internal/storage"
	"github.com/astionic/astionic/internal/tts"
)

// Command is one bot command. Run receives a *SlashContext for slash
// invocations.
type Command interface {
	Name() string
	Description() string
	Aliases() []string
	Group() string
	Category() string
	Run(ctx interface{}) error
}

// SlashProvider is implemented by commands registered as slash
// commands with Discord.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// VoiceFinder locates the voice channel a user currently sits in.
type VoiceFinder interface {
	FindUserVoiceState(guildID, userID string) (*discordgo.VoiceState, error)
}

// Deps is the shared dependency set handed to every command.
type Deps struct {
	Sessions *session.Registry
	Resolver *resolver.Resolver
	TTS      *tts.Synthesizer
	Storage  *storage.Storage
	Voice    VoiceFinder

	// RequestRestart asks the process to exit with the restart code.
	RequestRestart func()
}

// SlashContext is passed to Run for slash command interactions.
type SlashContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Deps    *Deps
}
