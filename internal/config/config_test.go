package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "test-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LavalinkAddress != "localhost:2333" {
		t.Fatalf("LavalinkAddress = %q, want %q", cfg.LavalinkAddress, "localhost:2333")
	}
	if cfg.StoragePath != "datastore.json" {
		t.Fatalf("StoragePath = %q, want %q", cfg.StoragePath, "datastore.json")
	}
	if cfg.DefaultLanguage != "en" {
		t.Fatalf("DefaultLanguage = %q, want %q", cfg.DefaultLanguage, "en")
	}
	if !cfg.InitSlashCommands {
		t.Fatal("InitSlashCommands = false, want true by default")
	}
}

func TestLoadRequiresDiscordToken(t *testing.T) {
	clearEnv(t)

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want error for missing DISCORD_TOKEN")
	}
}

func TestLoadExplicitValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("LAVALINK_ADDRESS", "music.example.org:443")
	t.Setenv("LAVALINK_SECURE", "true")
	t.Setenv("DEFAULT_LANGUAGE", "es")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LavalinkAddress != "music.example.org:443" {
		t.Fatalf("LavalinkAddress = %q, want explicit value", cfg.LavalinkAddress)
	}
	if !cfg.LavalinkSecure {
		t.Fatal("LavalinkSecure = false, want true")
	}
	if cfg.DefaultLanguage != "es" {
		t.Fatalf("DefaultLanguage = %q, want %q", cfg.DefaultLanguage, "es")
	}
}

// clearEnv unsets every config variable for the test and restores the
// previous values on cleanup.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"DISCORD_TOKEN",
		"LAVALINK_ADDRESS",
		"LAVALINK_PASSWORD",
		"LAVALINK_SECURE",
		"STORAGE_PATH",
		"DEFAULT_LANGUAGE",
		"DEFAULT_PREFIX",
		"INIT_SLASH_COMMANDS",
	}
	for _, key := range keys {
		// t.Setenv registers the restore; unset for the duration of the test.
		if v, ok := os.LookupEnv(key); ok {
			t.Setenv(key, v)
		}
		os.Unsetenv(key)
	}
}
