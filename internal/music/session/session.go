// Package session implements the per-guild playback queue engine: a
// FIFO track queue, a playing/idle flag, and the delivery policy for
// the first reply versus follow-up channel messages. Sessions advance
// automatically when the node reports that a track ended or failed.
package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/RosseteDev/NGC-2237/internal/lavalink"
)

var (
	ErrNoTrackPlaying = errors.New("no track is currently playing")
)

// Session is the playback state of one guild. Every mutating entry
// point runs under the session mutex, node calls included, so triggers
// arriving concurrently (new enqueues, end events, exceptions, stops)
// cannot interleave. The lock is per guild; a slow node call only
// stalls this guild's session.
type Session struct {
	mu sync.Mutex

	guildID  string
	player   Player
	notifier Notifier

	queue   []lavalink.Track
	playing bool

	textChannelID string
	reply         Replier
	replyConsumed bool
}

func newSession(guildID string, player Player, notifier Notifier) *Session {
	return &Session{
		guildID:  guildID,
		player:   player,
		notifier: notifier,
		queue:    make([]lavalink.Track, 0),
	}
}

// Enqueue appends a track. On an idle session this starts playback and
// the request's reply is consumed by the advance loop (now-playing or
// failure). On a playing session the track just queues up and the
// request's own reply gets the "added at position N" confirmation.
func (s *Session) Enqueue(ctx context.Context, track lavalink.Track, origin Origin) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if origin.ChannelID != "" {
		s.textChannelID = origin.ChannelID
	}

	s.queue = append(s.queue, track)
	log.Printf("[Session] %s: queued %q | QueueLen=%d", s.guildID, track.Info.Title, len(s.queue))

	if s.playing {
		msg := Message{Kind: MessageQueued, Track: track.Info, Position: len(s.queue)}
		if origin.Reply != nil {
			if err := origin.Reply.Edit(ctx, msg); err != nil {
				log.Printf("[Session] %s: failed to edit queued reply: %v", s.guildID, err)
			}
		} else {
			s.notify(ctx, msg)
		}
		return
	}

	// a fresh run: this request owns the first reply
	s.reply = origin.Reply
	s.replyConsumed = false
	s.advance(ctx)
}

// EnqueuePlaylist appends all tracks of a playlist. The reply is
// consumed immediately with an aggregate confirmation; the request is
// fulfilled by the act of queuing, so the first track's now-playing
// notice goes to the text channel like any follow-up.
func (s *Session) EnqueuePlaylist(ctx context.Context, name string, tracks []lavalink.Track, origin Origin) {
	if len(tracks) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if origin.ChannelID != "" {
		s.textChannelID = origin.ChannelID
	}

	s.queue = append(s.queue, tracks...)
	log.Printf("[Session] %s: queued playlist %q (%d tracks) | QueueLen=%d",
		s.guildID, name, len(tracks), len(s.queue))

	wasPlaying := s.playing
	if !wasPlaying {
		s.reply = origin.Reply
		s.replyConsumed = false
	}

	msg := Message{Kind: MessagePlaylistAdded, Count: len(tracks), Playlist: name}
	if wasPlaying && origin.Reply != nil {
		if err := origin.Reply.Edit(ctx, msg); err != nil {
			log.Printf("[Session] %s: failed to edit playlist reply: %v", s.guildID, err)
		}
	} else {
		s.deliver(ctx, msg)
	}

	if !wasPlaying {
		s.advance(ctx)
	}
}

// advance pops and starts the next track, skipping over tracks the node
// rejects, until one starts or the queue runs out. Callers hold s.mu.
// The loop makes at most one start attempt per queued track.
func (s *Session) advance(ctx context.Context) {
	for {
		if len(s.queue) == 0 {
			s.playing = false
			log.Printf("[Session] %s: queue empty, going idle", s.guildID)
			return
		}

		track := s.queue[0]
		s.queue = s.queue[1:]

		if err := s.player.Play(ctx, track.Encoded); err != nil {
			log.Printf("[Session] %s: failed to start %q: %v", s.guildID, track.Info.Title, err)
			s.deliver(ctx, Message{Kind: MessageTrackFailed, Track: track.Info, Reason: err.Error()})
			continue
		}

		s.playing = true
		log.Printf("[Session] %s: now playing %q | QueueLen=%d", s.guildID, track.Info.Title, len(s.queue))
		s.deliver(ctx, Message{Kind: MessageNowPlaying, Track: track.Info})
		return
	}
}

// ReportEnd handles the node's end-of-track notification. The reasons
// finished, loadFailed and stopped continue with the next queued track;
// anything else means an external actor took the player away, so the
// session goes idle without advancing. An end event for an already idle
// session is a no-op.
func (s *Session) ReportEnd(ctx context.Context, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Some players still fire an end event after a stop on an idle
	// session; a late event must not restart halted playback.
	if !s.playing {
		return
	}
	s.playing = false

	switch reason {
	case lavalink.EndReasonFinished, lavalink.EndReasonLoadFailed, lavalink.EndReasonStopped:
		s.advance(ctx)
	default:
		log.Printf("[Session] %s: playback halted (reason=%s)", s.guildID, reason)
	}
}

// ReportException handles a playback error on the active track. It is
// never fatal to the session: a notice goes to the text channel and the
// queue moves on.
func (s *Session) ReportException(ctx context.Context, track lavalink.TrackInfo, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Printf("[Session] %s: exception on %q: %s", s.guildID, track.Title, message)
	s.notify(ctx, Message{Kind: MessageTrackFailed, Track: track, Reason: message})

	s.playing = false
	s.advance(ctx)
}

// Stop asks the node to stop the active track. With tracks still
// queued it never advances by itself: the node's TrackEndEvent with the
// "stopped" reason is the one place that decides what happens next, so
// a caller-initiated stop and the player's own end notification cannot
// double-advance. With an empty queue there is nothing for the end
// event to continue with, so the session goes idle right away and says
// so; the late "stopped" event then lands on an idle session and is
// ignored. With nothing playing at all there is no end event to wait
// for and ErrNoTrackPlaying tells the caller.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing {
		return ErrNoTrackPlaying
	}
	if err := s.player.Stop(ctx); err != nil {
		return err
	}
	if len(s.queue) == 0 {
		s.playing = false
		log.Printf("[Session] %s: stopped with empty queue, going idle", s.guildID)
		s.notify(ctx, Message{Kind: MessageNothingLeft})
	}
	return nil
}

// Clear drops all queued tracks without touching the active one.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = s.queue[:0]
}

// SetVolume forwards a 0-100 volume change to the node player.
func (s *Session) SetVolume(ctx context.Context, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.SetVolume(ctx, level)
}

// IsPlaying reports whether a track is active.
func (s *Session) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// QueueLen returns the number of queued (not yet started) tracks.
func (s *Session) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// deliver routes a message through the reply policy: the first message
// of a run uses the originating request's reply, everything after goes
// to the text channel. The reply counts as consumed even if the edit
// fails; there is no second chance at a deferred reply.
func (s *Session) deliver(ctx context.Context, msg Message) {
	if !s.replyConsumed && s.reply != nil {
		s.replyConsumed = true
		if err := s.reply.Edit(ctx, msg); err != nil {
			log.Printf("[Session] %s: failed to edit reply: %v", s.guildID, err)
		}
		return
	}
	s.notify(ctx, msg)
}

// notify sends to the session's text channel. Delivery failures are
// logged and swallowed; a lost notification must not break playback.
func (s *Session) notify(ctx context.Context, msg Message) {
	if s.notifier == nil || s.textChannelID == "" {
		return
	}
	if err := s.notifier.Send(ctx, s.textChannelID, msg); err != nil {
		log.Printf("[Session] %s: failed to notify channel %s: %v", s.guildID, s.textChannelID, err)
	}
}
