package session

import (
	"context"

	"github.com/RosseteDev/NGC-2237/internal/lavalink"
)

// MessageKind says what a user-facing message announces. Rendering
// (embeds, localization) is owned by the delivery implementations.
type MessageKind int

const (
	// MessageNowPlaying announces the track that just started.
	MessageNowPlaying MessageKind = iota
	// MessageQueued confirms a track was added behind the active one.
	MessageQueued
	// MessageTrackFailed reports a track that could not be played.
	MessageTrackFailed
	// MessagePlaylistAdded aggregates a multi-track enqueue.
	MessagePlaylistAdded
	// MessageNothingLeft says playback stopped with an empty queue.
	MessageNothingLeft
)

// Message is the payload handed to a Replier or Notifier.
type Message struct {
	Kind     MessageKind
	Track    lavalink.TrackInfo
	Position int    // queue position, for MessageQueued
	Count    int    // number of tracks, for MessagePlaylistAdded
	Playlist string // playlist name, for MessagePlaylistAdded
	Reason   string // failure detail, for MessageTrackFailed
}

// Player is the audio node boundary for one guild.
// *lavalink.GuildPlayer satisfies it.
type Player interface {
	Play(ctx context.Context, encoded string) error
	Stop(ctx context.Context) error
	SetVolume(ctx context.Context, level int) error
}

// Replier delivers a message through the deferred reply of the request
// that created it. Each request carries its own Replier.
type Replier interface {
	Edit(ctx context.Context, msg Message) error
}

// Notifier posts unsolicited follow-up messages to a text channel.
type Notifier interface {
	Send(ctx context.Context, channelID string, msg Message) error
}

// Origin identifies where a request came from: the text channel for
// follow-ups and the request's own reply handle.
type Origin struct {
	ChannelID string
	Reply     Replier
}
