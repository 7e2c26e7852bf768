package lavalink

import (
	"encoding/json"
	"fmt"
)

// Track is a playable track as returned by the node. Encoded is an opaque
// payload that is handed back to the node verbatim; Info is display-only
// metadata.
type Track struct {
	Encoded string    `json:"encoded"`
	Info    TrackInfo `json:"info"`
}

type TrackInfo struct {
	Identifier string `json:"identifier"`
	Author     string `json:"author"`
	Length     int64  `json:"length"` // milliseconds
	IsStream   bool   `json:"isStream"`
	Title      string `json:"title"`
	URI        string `json:"uri"`
	SourceName string `json:"sourceName"`
}

type Playlist struct {
	Info   PlaylistInfo `json:"info"`
	Tracks []Track      `json:"tracks"`
}

type PlaylistInfo struct {
	Name          string `json:"name"`
	SelectedTrack int    `json:"selectedTrack"`
}

type LoadType string

const (
	LoadTypeTrack    LoadType = "track"
	LoadTypePlaylist LoadType = "playlist"
	LoadTypeSearch   LoadType = "search"
	LoadTypeEmpty    LoadType = "empty"
	LoadTypeError    LoadType = "error"
)

// LoadResult is the raw outcome of a loadtracks call. Data is decoded
// lazily depending on LoadType.
type LoadResult struct {
	LoadType LoadType        `json:"loadType"`
	Data     json.RawMessage `json:"data"`
}

// Track decodes the single-track payload of a "track" result.
func (r *LoadResult) Track() (Track, error) {
	var t Track
	if r.LoadType != LoadTypeTrack {
		return t, fmt.Errorf("load result is %q, not a track", r.LoadType)
	}
	if err := json.Unmarshal(r.Data, &t); err != nil {
		return t, fmt.Errorf("failed to decode track data: %w", err)
	}
	return t, nil
}

// Tracks decodes the track list of a "search" result.
func (r *LoadResult) Tracks() ([]Track, error) {
	if r.LoadType != LoadTypeSearch {
		return nil, fmt.Errorf("load result is %q, not a search", r.LoadType)
	}
	var tracks []Track
	if err := json.Unmarshal(r.Data, &tracks); err != nil {
		return nil, fmt.Errorf("failed to decode search data: %w", err)
	}
	return tracks, nil
}

// Playlist decodes the playlist payload of a "playlist" result.
func (r *LoadResult) Playlist() (Playlist, error) {
	var p Playlist
	if r.LoadType != LoadTypePlaylist {
		return p, fmt.Errorf("load result is %q, not a playlist", r.LoadType)
	}
	if err := json.Unmarshal(r.Data, &p); err != nil {
		return p, fmt.Errorf("failed to decode playlist data: %w", err)
	}
	return p, nil
}

// LoadError is the decoded payload of an "error" result. It counts as a
// provider failure, distinct from an "empty" result.
type LoadError struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Cause    string `json:"cause"`
}

func (e *LoadError) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("track load failed: %s (%s)", e.Message, e.Cause)
	}
	return fmt.Sprintf("track load failed: %s", e.Message)
}
