package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

type Config struct {
	DiscordToken      string `env:"DISCORD_TOKEN,required"`
	LavalinkAddress   string `env:"LAVALINK_ADDRESS" envDefault:"localhost:2333"`
	LavalinkPassword  string `env:"LAVALINK_PASSWORD" envDefault:"youshallnotpass"`
	LavalinkSecure    bool   `env:"LAVALINK_SECURE" envDefault:"false"`
	StoragePath       string `env:"STORAGE_PATH" envDefault:"datastore.json"`
	DefaultLanguage   string `env:"DEFAULT_LANGUAGE" envDefault:"en"`
	DefaultPrefix     string `env:"DEFAULT_PREFIX" envDefault:"!"`
	InitSlashCommands bool   `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
