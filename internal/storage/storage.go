// Package storage persists per-guild settings and play history in a
// JSON-file datastore. One record per guild, keyed by guild id.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/keshon/datastore"
)

const (
	commandHistoryLimit = 20
	trackHistoryLimit   = 12
)

type Storage struct {
	ds *datastore.DataStore
}

// CommandHistoryRecord is one logged command invocation.
type CommandHistoryRecord struct {
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Param     string    `json:"param"`
	Datetime  time.Time `json:"datetime"`
}

// TrackHistoryRecord is one played track, kept for the history view.
type TrackHistoryRecord struct {
	Title    string    `json:"title"`
	URI      string    `json:"uri"`
	PlayedAt time.Time `json:"played_at"`
}

// Record is everything stored for one guild.
type Record struct {
	Prefix              string                 `json:"prefix,omitempty"`
	Language            string                 `json:"language,omitempty"`
	DefaultVolume       int                    `json:"default_volume,omitempty"`
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
	TracksHistoryList   []TrackHistoryRecord   `json:"track_history"`
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(context.Background(), filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// getOrCreateGuildRecord loads the record for a guild, creating an
// empty one on first access.
func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	var record Record
	exists, err := s.ds.Get(guildID, &record)
	if err != nil {
		return nil, fmt.Errorf("error reading guild record: %w", err)
	}
	if !exists {
		record = Record{
			CommandsHistoryList: []CommandHistoryRecord{},
			TracksHistoryList:   []TrackHistoryRecord{},
		}
		if err := s.ds.Set(guildID, &record); err != nil {
			return nil, fmt.Errorf("error creating guild record: %w", err)
		}
		return &record, nil
	}

	if len(record.CommandsHistoryList) > commandHistoryLimit {
		record.CommandsHistoryList = record.CommandsHistoryList[len(record.CommandsHistoryList)-commandHistoryLimit:]
	}
	if len(record.TracksHistoryList) > trackHistoryLimit {
		record.TracksHistoryList = record.TracksHistoryList[len(record.TracksHistoryList)-trackHistoryLimit:]
	}

	return &record, nil
}

// GuildPrefix returns the stored message-command prefix, or "" when the
// guild never set one.
func (s *Storage) GuildPrefix(guildID string) (string, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return "", err
	}
	return record.Prefix, nil
}

func (s *Storage) SetGuildPrefix(guildID, prefix string) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	record.Prefix = prefix
	return s.ds.Set(guildID, record)
}

// GuildLanguage returns the stored language code, or "" when the guild
// never set one.
func (s *Storage) GuildLanguage(guildID string) (string, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return "", err
	}
	return record.Language, nil
}

func (s *Storage) SetGuildLanguage(guildID, language string) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	record.Language = language
	return s.ds.Set(guildID, record)
}

// GuildDefaultVolume returns the stored volume, or 0 when unset.
func (s *Storage) GuildDefaultVolume(guildID string) (int, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return 0, err
	}
	return record.DefaultVolume, nil
}

func (s *Storage) SetGuildDefaultVolume(guildID string, volume int) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	record.DefaultVolume = volume
	return s.ds.Set(guildID, record)
}

// AppendCommandToHistory logs a command invocation for a guild.
func (s *Storage) AppendCommandToHistory(guildID string, command CommandHistoryRecord) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	record.CommandsHistoryList = append(record.CommandsHistoryList, command)
	return s.ds.Set(guildID, record)
}

func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistoryList, nil
}

// AppendTrackToHistory logs a played track for a guild.
func (s *Storage) AppendTrackToHistory(guildID string, track TrackHistoryRecord) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	record.TracksHistoryList = append(record.TracksHistoryList, track)
	return s.ds.Set(guildID, record)
}

func (s *Storage) FetchTrackHistory(guildID string) ([]TrackHistoryRecord, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.TracksHistoryList, nil
}
