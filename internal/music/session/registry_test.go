package session

import (
	"context"
	"sync"
	"testing"

	"github.com/RosseteDev/NGC-2237/internal/lavalink"
)

type fakeEvents struct {
	mu       sync.Mutex
	installs int
	handlers map[string]lavalink.EventHandler
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{handlers: map[string]lavalink.EventHandler{}}
}

func (f *fakeEvents) OnGuildEvent(guildID string, handler lavalink.EventHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.installs++
	f.handlers[guildID] = handler
}

func (f *fakeEvents) emit(ev lavalink.Event) {
	f.mu.Lock()
	handler := f.handlers[ev.GuildID()]
	f.mu.Unlock()
	if handler != nil {
		handler(ev)
	}
}

func newTestRegistry(player *fakePlayer, events *fakeEvents) *Registry {
	return NewRegistry(
		func(guildID string) Player { return player },
		&fakeNotifier{},
		events,
	)
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	events := newFakeEvents()
	r := newTestRegistry(&fakePlayer{}, events)

	a := r.GetOrCreate("guild-1")
	b := r.GetOrCreate("guild-1")

	if a != b {
		t.Fatal("GetOrCreate returned different sessions for the same guild")
	}
	if events.installs != 1 {
		t.Fatalf("event subscriptions = %d, want exactly 1 per session", events.installs)
	}
}

func TestGetOrCreateStartsFresh(t *testing.T) {
	r := newTestRegistry(&fakePlayer{}, newFakeEvents())

	s := r.GetOrCreate("guild-1")

	if s.IsPlaying() {
		t.Fatal("fresh session IsPlaying() = true, want false")
	}
	if s.QueueLen() != 0 {
		t.Fatalf("fresh session QueueLen() = %d, want 0", s.QueueLen())
	}
}

func TestGetWithoutCreate(t *testing.T) {
	r := newTestRegistry(&fakePlayer{}, newFakeEvents())

	if _, ok := r.Get("guild-1"); ok {
		t.Fatal("Get() found a session that was never created")
	}
	r.GetOrCreate("guild-1")
	if _, ok := r.Get("guild-1"); !ok {
		t.Fatal("Get() missed an existing session")
	}
}

func TestConcurrentGetOrCreateYieldsOneSession(t *testing.T) {
	events := newFakeEvents()
	r := newTestRegistry(&fakePlayer{}, events)

	const goroutines = 16
	sessions := make([]*Session, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i] = r.GetOrCreate("guild-1")
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if sessions[i] != sessions[0] {
			t.Fatal("concurrent GetOrCreate returned different sessions")
		}
	}
	if events.installs != 1 {
		t.Fatalf("event subscriptions = %d, want 1", events.installs)
	}
}

func TestBridgeForwardsEndEvents(t *testing.T) {
	events := newFakeEvents()
	player := &fakePlayer{}
	r := newTestRegistry(player, events)

	s := r.GetOrCreate("guild-1")
	ctx := context.Background()
	s.Enqueue(ctx, track("a", "A"), Origin{ChannelID: "chan-1", Reply: &fakeReply{}})
	s.Enqueue(ctx, track("b", "B"), Origin{ChannelID: "chan-1", Reply: &fakeReply{}})

	events.emit(lavalink.TrackEndEvent{Guild: "guild-1", Reason: lavalink.EndReasonFinished})

	if len(player.started) != 2 || player.started[1] != "b" {
		t.Fatalf("started = %v, want bridge-driven advance to b", player.started)
	}
}

func TestBridgeForwardsExceptions(t *testing.T) {
	events := newFakeEvents()
	player := &fakePlayer{}
	r := newTestRegistry(player, events)

	s := r.GetOrCreate("guild-1")
	ctx := context.Background()
	s.Enqueue(ctx, track("a", "A"), Origin{ChannelID: "chan-1", Reply: &fakeReply{}})
	s.Enqueue(ctx, track("b", "B"), Origin{ChannelID: "chan-1", Reply: &fakeReply{}})

	events.emit(lavalink.TrackExceptionEvent{
		Guild:   "guild-1",
		Track:   track("a", "A"),
		Message: "stream died",
	})

	if len(player.started) != 2 || player.started[1] != "b" {
		t.Fatalf("started = %v, want advance after exception", player.started)
	}
	if s.QueueLen() != 0 {
		t.Fatalf("QueueLen() = %d, want 0", s.QueueLen())
	}
}
