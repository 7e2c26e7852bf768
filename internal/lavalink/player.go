package lavalink

import "context"

// GuildPlayer is the per-guild handle the queue engine plays through.
// It is a thin view over the node's player REST resource.
type GuildPlayer struct {
	node    *Node
	guildID string
}

// Player returns the player handle for a guild. Handles are stateless,
// so repeated calls are equivalent.
func (n *Node) Player(guildID string) *GuildPlayer {
	return &GuildPlayer{node: n, guildID: guildID}
}

// Play starts the given encoded track, replacing whatever is active.
func (p *GuildPlayer) Play(ctx context.Context, encoded string) error {
	return p.node.UpdatePlayer(ctx, p.guildID, PlayerUpdate{
		Track: &PlayerTrack{Encoded: &encoded},
	})
}

// Stop stops the active track. The node answers with a TrackEndEvent
// carrying the "stopped" reason.
func (p *GuildPlayer) Stop(ctx context.Context) error {
	return p.node.UpdatePlayer(ctx, p.guildID, PlayerUpdate{
		Track: &PlayerTrack{Encoded: nil},
	})
}

// SetVolume sets the player volume, 0-100.
func (p *GuildPlayer) SetVolume(ctx context.Context, level int) error {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	return p.node.UpdatePlayer(ctx, p.guildID, PlayerUpdate{Volume: &level})
}

// UpdateVoice forwards Discord voice credentials so the node can join
// the guild's voice server.
func (p *GuildPlayer) UpdateVoice(ctx context.Context, voice VoiceState) error {
	return p.node.UpdatePlayer(ctx, p.guildID, PlayerUpdate{Voice: &voice})
}
