package lavalink

import (
	"encoding/json"
	"sync"
)

// Track end reasons reported by the node.
const (
	EndReasonFinished   = "finished"
	EndReasonLoadFailed = "loadFailed"
	EndReasonStopped    = "stopped"
	EndReasonReplaced   = "replaced"
	EndReasonCleanup    = "cleanup"
)

// Event is a player event for one guild.
type Event interface {
	GuildID() string
}

// TrackEndEvent reports that the active track stopped, with the node's
// reason for it.
type TrackEndEvent struct {
	Guild  string
	Track  Track
	Reason string
}

func (e TrackEndEvent) GuildID() string { return e.Guild }

// TrackExceptionEvent reports a playback error on the active track.
type TrackExceptionEvent struct {
	Guild   string
	Track   Track
	Message string
	Cause   string
}

func (e TrackExceptionEvent) GuildID() string { return e.Guild }

// EventHandler receives the events of one guild.
type EventHandler func(Event)

// guildSub is one guild's subscription: the current handler plus a
// serial delivery queue, so a guild's events are handled in the order
// the node sent them.
type guildSub struct {
	mu      sync.Mutex
	handler EventHandler
	events  chan Event
}

func (g *guildSub) run() {
	for ev := range g.events {
		g.mu.Lock()
		handler := g.handler
		g.mu.Unlock()
		handler(ev)
	}
}

func (g *guildSub) setHandler(handler EventHandler) {
	g.mu.Lock()
	g.handler = handler
	g.mu.Unlock()
}

// OnGuildEvent installs the event handler for a guild, replacing any
// previous one. Handlers survive websocket reconnects; one handler per
// guild means repeated subscriptions cannot accumulate duplicates.
func (n *Node) OnGuildEvent(guildID string, handler EventHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if sub, ok := n.handlers[guildID]; ok {
		sub.setHandler(handler)
		return
	}
	sub := &guildSub{handler: handler, events: make(chan Event, 64)}
	n.handlers[guildID] = sub
	go sub.run()
}

// RemoveGuildEvent drops the event handler for a guild and stops its
// delivery queue.
func (n *Node) RemoveGuildEvent(guildID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if sub, ok := n.handlers[guildID]; ok {
		close(sub.events)
		delete(n.handlers, guildID)
	}
}

// wire shapes for the websocket frames we care about

type wsMessage struct {
	Op        string          `json:"op"`
	SessionID string          `json:"sessionId"` // op=ready
	Resumed   bool            `json:"resumed"`   // op=ready
	Type      string          `json:"type"`      // op=event
	GuildID   string          `json:"guildId"`   // op=event, op=playerUpdate
	Track     json.RawMessage `json:"track"`
	Reason    string          `json:"reason"`    // TrackEndEvent
	Exception *wsException    `json:"exception"` // TrackExceptionEvent
}

type wsException struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Cause    string `json:"cause"`
}

// dispatch queues an event for the guild's handler, if any. Delivery
// runs off the read loop so a busy session cannot stall it, but stays
// sequential per guild: a TrackExceptionEvent is always handled before
// the TrackEndEvent that follows it. The queue is dropped on overflow
// rather than blocking the read loop.
func (n *Node) dispatch(ev Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	sub, ok := n.handlers[ev.GuildID()]
	if !ok {
		return
	}
	select {
	case sub.events <- ev:
	default:
		logNode("Dropping event for guild %s: delivery queue full", ev.GuildID())
	}
}

func (n *Node) handleMessage(data []byte) {
	var msg wsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logNode("Dropping undecodable frame: %v", err)
		return
	}

	switch msg.Op {
	case "ready":
		n.mu.Lock()
		n.sessionID = msg.SessionID
		n.mu.Unlock()
		logNode("Node ready | sessionID=%s resumed=%v", msg.SessionID, msg.Resumed)

	case "event":
		n.handleEvent(msg)

	case "playerUpdate", "stats":
		// state snapshots, nothing to do

	default:
		logNode("Ignoring unknown op %q", msg.Op)
	}
}

func (n *Node) handleEvent(msg wsMessage) {
	var track Track
	if len(msg.Track) > 0 {
		if err := json.Unmarshal(msg.Track, &track); err != nil {
			logNode("Failed to decode event track for guild %s: %v", msg.GuildID, err)
		}
	}

	switch msg.Type {
	case "TrackEndEvent":
		n.dispatch(TrackEndEvent{Guild: msg.GuildID, Track: track, Reason: msg.Reason})

	case "TrackExceptionEvent":
		ev := TrackExceptionEvent{Guild: msg.GuildID, Track: track}
		if msg.Exception != nil {
			ev.Message = msg.Exception.Message
			ev.Cause = msg.Exception.Cause
		}
		n.dispatch(ev)

	case "TrackStartEvent", "TrackStuckEvent", "WebSocketClosedEvent":
		// not consumed by the queue engine

	default:
		logNode("Ignoring unknown event type %q for guild %s", msg.Type, msg.GuildID)
	}
}
