// Package resolver turns a raw user query into playable track
// candidates. URLs go to the node directly; free text becomes a
// YouTube search with a single SoundCloud fallback when the primary
// provider fails.
package resolver

import (
	"context"
	"fmt"
	"log"

	"github.com/RosseteDev/NGC-2237/internal/lavalink"
)

// Loader is the node's track loading surface. *lavalink.Node satisfies it.
type Loader interface {
	LoadTracks(ctx context.Context, identifier string) (*lavalink.LoadResult, error)
}

type OutcomeKind int

const (
	// KindEmpty means the query matched nothing. Valid, not an error.
	KindEmpty OutcomeKind = iota
	// KindTrack is a single directly resolved track.
	KindTrack
	// KindSearch is an ordered list of search candidates.
	KindSearch
	// KindPlaylist is a named playlist with all its tracks.
	KindPlaylist
)

// Outcome is the resolved form of one query.
type Outcome struct {
	Kind     OutcomeKind
	Tracks   []lavalink.Track
	Playlist string
}

type Resolver struct {
	loader Loader
}

func New(loader Loader) *Resolver {
	return &Resolver{loader: loader}
}

// Resolve maps query to an outcome. Non-URL queries that fail on the
// primary provider get exactly one fallback search; URL failures
// surface as-is since a different provider cannot serve the same link.
func (r *Resolver) Resolve(ctx context.Context, query string) (Outcome, error) {
	identifier, isLink := BuildIdentifier(query)

	outcome, err := r.load(ctx, identifier)
	if err == nil {
		return outcome, nil
	}
	if isLink {
		return Outcome{}, err
	}

	log.Printf("[Resolver] Primary search failed for %q: %v (trying fallback)", query, err)
	outcome, fallbackErr := r.load(ctx, fallbackPrefix+query)
	if fallbackErr != nil {
		return Outcome{}, fmt.Errorf("both providers failed: %w", err)
	}
	return outcome, nil
}

func (r *Resolver) load(ctx context.Context, identifier string) (Outcome, error) {
	result, err := r.loader.LoadTracks(ctx, identifier)
	if err != nil {
		return Outcome{}, err
	}

	switch result.LoadType {
	case lavalink.LoadTypeTrack:
		track, err := result.Track()
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: KindTrack, Tracks: []lavalink.Track{track}}, nil

	case lavalink.LoadTypeSearch:
		tracks, err := result.Tracks()
		if err != nil {
			return Outcome{}, err
		}
		if len(tracks) == 0 {
			return Outcome{Kind: KindEmpty}, nil
		}
		return Outcome{Kind: KindSearch, Tracks: tracks}, nil

	case lavalink.LoadTypePlaylist:
		playlist, err := result.Playlist()
		if err != nil {
			return Outcome{}, err
		}
		if len(playlist.Tracks) == 0 {
			return Outcome{Kind: KindEmpty}, nil
		}
		return Outcome{Kind: KindPlaylist, Tracks: playlist.Tracks, Playlist: playlist.Info.Name}, nil

	default:
		return Outcome{Kind: KindEmpty}, nil
	}
}
