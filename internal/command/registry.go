package command

import "github.com/bwmarrin/discordgo"

var registry = map[string]Command{}

// Register adds a command (and its aliases) to the registry, applying
// middleware outermost-last.
func Register(cmd Command, middleware ...Middleware) {
	for _, m := range middleware {
		cmd = m(cmd)
	}
	registry[cmd.Name()] = cmd
	for _, a := range cmd.Aliases() {
		registry[a] = cmd
	}
}

// Get looks a command up by name or alias.
func Get(name string) (Command, bool) {
	cmd, ok := registry[name]
	return cmd, ok
}

// SlashDefinitions returns the application command definitions to push
// to Discord. Each alias becomes its own definition, so aliased
// commands are invokable under both names.
func SlashDefinitions() []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, cmd := range All() {
		sp, ok := cmd.(SlashProvider)
		if !ok {
			continue
		}
		def := sp.SlashDefinition()
		if def == nil {
			continue
		}
		defs = append(defs, def)
		for _, alias := range cmd.Aliases() {
			clone := *def
			clone.Name = alias
			defs = append(defs, &clone)
		}
	}
	return defs
}

// All returns each registered command once, aliases deduplicated.
func All() []Command {
	seen := map[string]bool{}
	var list []Command
	for _, cmd := range registry {
		if seen[cmd.Name()] {
			continue
		}
		list = append(list, cmd)
		seen[cmd.Name()] = true
	}
	return list
}
