package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "datastore.json"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPrefixRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	prefix, err := s.GuildPrefix("guild-1")
	if err != nil {
		t.Fatalf("GuildPrefix() error: %v", err)
	}
	if prefix != "" {
		t.Fatalf("fresh guild prefix = %q, want empty", prefix)
	}

	if err := s.SetGuildPrefix("guild-1", "?"); err != nil {
		t.Fatalf("SetGuildPrefix() error: %v", err)
	}
	prefix, err = s.GuildPrefix("guild-1")
	if err != nil {
		t.Fatalf("GuildPrefix() error: %v", err)
	}
	if prefix != "?" {
		t.Fatalf("prefix = %q, want %q", prefix, "?")
	}
}

func TestLanguageAndVolumeAreIndependentPerGuild(t *testing.T) {
	s := newTestStorage(t)

	if err := s.SetGuildLanguage("guild-a", "es"); err != nil {
		t.Fatalf("SetGuildLanguage() error: %v", err)
	}
	if err := s.SetGuildDefaultVolume("guild-a", 40); err != nil {
		t.Fatalf("SetGuildDefaultVolume() error: %v", err)
	}

	lang, err := s.GuildLanguage("guild-b")
	if err != nil {
		t.Fatalf("GuildLanguage() error: %v", err)
	}
	if lang != "" {
		t.Fatalf("guild-b language = %q, want empty", lang)
	}

	vol, err := s.GuildDefaultVolume("guild-a")
	if err != nil {
		t.Fatalf("GuildDefaultVolume() error: %v", err)
	}
	if vol != 40 {
		t.Fatalf("volume = %d, want 40", vol)
	}
}

func TestTrackHistoryIsCapped(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < trackHistoryLimit+5; i++ {
		err := s.AppendTrackToHistory("guild-1", TrackHistoryRecord{
			Title:    "track",
			URI:      "https://example.com",
			PlayedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("AppendTrackToHistory() error: %v", err)
		}
	}

	history, err := s.FetchTrackHistory("guild-1")
	if err != nil {
		t.Fatalf("FetchTrackHistory() error: %v", err)
	}
	if len(history) > trackHistoryLimit {
		t.Fatalf("track history length = %d, want at most %d", len(history), trackHistoryLimit)
	}
}

func TestRecordsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datastore.json")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := s.SetGuildPrefix("guild-1", "!!"); err != nil {
		t.Fatalf("SetGuildPrefix() error: %v", err)
	}
	if err := s.SetGuildDefaultVolume("guild-1", 75); err != nil {
		t.Fatalf("SetGuildDefaultVolume() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("New() after reopen error: %v", err)
	}
	t.Cleanup(func() { reopened.Close() })

	prefix, err := reopened.GuildPrefix("guild-1")
	if err != nil {
		t.Fatalf("GuildPrefix() error: %v", err)
	}
	if prefix != "!!" {
		t.Fatalf("prefix after reopen = %q, want %q", prefix, "!!")
	}
	vol, err := reopened.GuildDefaultVolume("guild-1")
	if err != nil {
		t.Fatalf("GuildDefaultVolume() error: %v", err)
	}
	if vol != 75 {
		t.Fatalf("volume after reopen = %d, want 75", vol)
	}
}

func TestCommandHistoryRecordsInvocation(t *testing.T) {
	s := newTestStorage(t)

	err := s.AppendCommandToHistory("guild-1", CommandHistoryRecord{
		ChannelID: "chan-1",
		UserID:    "user-1",
		Username:  "tester",
		Command:   "play",
		Param:     "never gonna give you up",
		Datetime:  time.Now(),
	})
	if err != nil {
		t.Fatalf("AppendCommandToHistory() error: %v", err)
	}

	history, err := s.FetchCommandHistory("guild-1")
	if err != nil {
		t.Fatalf("FetchCommandHistory() error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("command history length = %d, want 1", len(history))
	}
	if history[0].Command != "play" {
		t.Fatalf("command = %q, want %q", history[0].Command, "play")
	}
}
