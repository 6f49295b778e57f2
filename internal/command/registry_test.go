package command

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	name    string
	aliases []string
}

func (c *stubCommand) Name() string        { return c.name }
func (c *stubCommand) Description() string { return "stub" }
func (c *stubCommand) Aliases() []string   { return c.aliases }
func (c *stubCommand) Group() string       { return "test" }
func (c *stubCommand) Category() string    { return "test" }
func (c *stubCommand) Run(interface{}) error {
	return nil
}

func (c *stubCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.name, Description: "stub"}
}

func TestRegisterResolvesAliases(t *testing.T) {
	Register(&stubCommand{name: "halt", aliases: []string{"cease"}})

	byName, ok := Get("halt")
	require.True(t, ok)
	byAlias, ok := Get("cease")
	require.True(t, ok)
	assert.Same(t, byName, byAlias)
}

func TestSlashDefinitionsIncludeAliases(t *testing.T) {
	Register(&stubCommand{name: "depart", aliases: []string{"begone"}})

	var names []string
	for _, def := range SlashDefinitions() {
		names = append(names, def.Name)
	}
	assert.Contains(t, names, "depart")
	assert.Contains(t, names, "begone")
}

func TestMiddlewareKeepsSlashDefinition(t *testing.T) {
	Register(&stubCommand{name: "vanish"}, WithGuildOnly())

	var names []string
	for _, def := range SlashDefinitions() {
		names = append(names, def.Name)
	}
	assert.Contains(t, names, "vanish")
}
