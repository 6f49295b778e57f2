// Package session maps guilds to their playback sessions. Each guild
// gets at most one player; commands from any channel of the guild land
// on the same one.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/astionic/astionic/internal/music/player"
	"github.com/astionic/astionic/internal/music/transport"
)

// Registry owns the per-guild players.
type Registry struct {
	mu        sync.Mutex
	connector transport.Connector
	players   map[string]*player.Player
}

// New returns an empty registry creating players on connector.
func New(connector transport.Connector) *Registry {
	return &Registry{
		connector: connector,
		players:   make(map[string]*player.Player),
	}
}

// GetOrCreate returns the guild's player, creating it on first use.
// Concurrent callers for the same guild get the same player.
func (r *Registry) GetOrCreate(guildID string) *player.Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[guildID]
	if !ok {
		p = player.New(guildID, r.connector)
		r.players[guildID] = p
	}
	return p
}

// Get returns the guild's player if one exists.
func (r *Registry) Get(guildID string) (*player.Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[guildID]
	return p, ok
}

// Remove stops the guild's player and drops it. Removing a guild with
// no player is a no-op.
func (r *Registry) Remove(ctx context.Context, guildID string) {
	r.mu.Lock()
	p, ok := r.players[guildID]
	delete(r.players, guildID)
	r.mu.Unlock()

	if !ok {
		return
	}
	if err := p.Stop(ctx); err != nil {
		log.Warn().Str("guild", guildID).Err(err).Msg("session stop on removal failed")
	}
}

// Shutdown stops every player. Used on process exit so voice
// connections close cleanly.
func (r *Registry) Shutdown(ctx context.Context) {
	r.mu.Lock()
	players := make(map[string]*player.Player, len(r.players))
	for id, p := range r.players {
		players[id] = p
	}
	r.players = make(map[string]*player.Player)
	r.mu.Unlock()

	for id, p := range players {
		if err := p.Stop(ctx); err != nil {
			log.Warn().Str("guild", id).Err(err).Msg("session stop on shutdown failed")
		}
	}
}
