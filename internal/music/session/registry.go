package session

import (
	"context"
	"sync"

	"github.com/RosseteDev/NGC-2237/internal/lavalink"
)

// EventSource is where player events come from. *lavalink.Node
// satisfies it; installing a handler replaces any previous one for the
// same guild.
type EventSource interface {
	OnGuildEvent(guildID string, handler lavalink.EventHandler)
}

// PlayerFactory returns the player handle for a guild.
type PlayerFactory func(guildID string) Player

// Registry maps guild ids to their playback sessions. Sessions are
// created lazily and never removed implicitly; Remove exists for the
// surrounding application.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	newPlayer PlayerFactory
	notifier  Notifier
	events    EventSource
}

func NewRegistry(newPlayer PlayerFactory, notifier Notifier, events EventSource) *Registry {
	return &Registry{
		sessions:  make(map[string]*Session),
		newPlayer: newPlayer,
		notifier:  notifier,
		events:    events,
	}
}

// GetOrCreate returns the session for a guild, creating it on first
// use. Creation installs the guild's single event subscription, so
// repeated enqueues never stack duplicate listeners.
func (r *Registry) GetOrCreate(guildID string) *Session {
	r.mu.RLock()
	s, ok := r.sessions[guildID]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[guildID]; ok {
		return s
	}

	s = newSession(guildID, r.newPlayer(guildID), r.notifier)
	r.sessions[guildID] = s
	r.events.OnGuildEvent(guildID, bridge(s))
	return s
}

// Get returns the session for a guild without creating one.
func (r *Registry) Get(guildID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[guildID]
	return s, ok
}

// Remove drops a session. Callers own any player cleanup.
func (r *Registry) Remove(guildID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, guildID)
}

// bridge adapts node events to the session's entry points.
func bridge(s *Session) lavalink.EventHandler {
	return func(ev lavalink.Event) {
		ctx := context.Background()
		switch e := ev.(type) {
		case lavalink.TrackEndEvent:
			s.ReportEnd(ctx, e.Reason)
		case lavalink.TrackExceptionEvent:
			msg := e.Message
			if msg == "" {
				msg = e.Cause
			}
			s.ReportException(ctx, e.Track.Info, msg)
		}
	}
}
