package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/RosseteDev/NGC-2237/internal/lavalink"
)

type fakeLoader struct {
	calls   []string
	results map[string]*lavalink.LoadResult
	errs    map[string]error
}

func (f *fakeLoader) LoadTracks(ctx context.Context, identifier string) (*lavalink.LoadResult, error) {
	f.calls = append(f.calls, identifier)
	if err := f.errs[identifier]; err != nil {
		return nil, err
	}
	if r := f.results[identifier]; r != nil {
		return r, nil
	}
	return &lavalink.LoadResult{LoadType: lavalink.LoadTypeEmpty, Data: json.RawMessage(`{}`)}, nil
}

func searchResult(titles ...string) *lavalink.LoadResult {
	tracks := make([]lavalink.Track, len(titles))
	for i, title := range titles {
		tracks[i] = lavalink.Track{Encoded: title, Info: lavalink.TrackInfo{Title: title}}
	}
	data, _ := json.Marshal(tracks)
	return &lavalink.LoadResult{LoadType: lavalink.LoadTypeSearch, Data: data}
}

func TestBuildIdentifier(t *testing.T) {
	tests := []struct {
		query  string
		want   string
		isLink bool
	}{
		{"never gonna give you up", "ytsearch:never gonna give you up", false},
		{"https://example.com/track/1", "https://example.com/track/1", true},
		{"https://www.youtube.com/watch?v=abc123&list=PLxyz&index=4", "https://www.youtube.com/watch?v=abc123", true},
		{"https://youtu.be/abc123", "https://youtu.be/abc123", true},
	}
	for _, tt := range tests {
		got, isLink := BuildIdentifier(tt.query)
		if got != tt.want || isLink != tt.isLink {
			t.Errorf("BuildIdentifier(%q) = (%q, %v), want (%q, %v)",
				tt.query, got, isLink, tt.want, tt.isLink)
		}
	}
}

func TestResolveFreeTextUsesPrimarySearch(t *testing.T) {
	loader := &fakeLoader{
		results: map[string]*lavalink.LoadResult{"ytsearch:test song": searchResult("A", "B")},
	}
	r := New(loader)

	outcome, err := r.Resolve(context.Background(), "test song")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if outcome.Kind != KindSearch || len(outcome.Tracks) != 2 {
		t.Fatalf("outcome = %+v, want search with 2 tracks", outcome)
	}
}

func TestResolveFallsBackOnceForFreeText(t *testing.T) {
	loader := &fakeLoader{
		errs:    map[string]error{"ytsearch:test song": errors.New("node unreachable")},
		results: map[string]*lavalink.LoadResult{"scsearch:test song": searchResult("C")},
	}
	r := New(loader)

	outcome, err := r.Resolve(context.Background(), "test song")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if outcome.Kind != KindSearch || outcome.Tracks[0].Info.Title != "C" {
		t.Fatalf("outcome = %+v, want fallback result C", outcome)
	}
	if len(loader.calls) != 2 {
		t.Fatalf("loader calls = %v, want primary then fallback", loader.calls)
	}
}

func TestResolveURLNeverFallsBack(t *testing.T) {
	loader := &fakeLoader{
		errs: map[string]error{"https://example.com/t": errors.New("node unreachable")},
	}
	r := New(loader)

	if _, err := r.Resolve(context.Background(), "https://example.com/t"); err == nil {
		t.Fatal("Resolve() error = nil, want surfaced failure for URL query")
	}
	if len(loader.calls) != 1 {
		t.Fatalf("loader calls = %v, want exactly one attempt", loader.calls)
	}
}

func TestResolveBothProvidersFailing(t *testing.T) {
	loader := &fakeLoader{
		errs: map[string]error{
			"ytsearch:test": errors.New("primary down"),
			"scsearch:test": errors.New("fallback down"),
		},
	}
	r := New(loader)

	if _, err := r.Resolve(context.Background(), "test"); err == nil {
		t.Fatal("Resolve() error = nil, want failure after both providers")
	}
	if len(loader.calls) != 2 {
		t.Fatalf("loader calls = %v, want exactly two attempts", loader.calls)
	}
}

func TestResolveEmptyIsNotAnError(t *testing.T) {
	loader := &fakeLoader{}
	r := New(loader)

	outcome, err := r.Resolve(context.Background(), "obscure nothing")
	if err != nil {
		t.Fatalf("Resolve() error = %v, want nil for no results", err)
	}
	if outcome.Kind != KindEmpty {
		t.Fatalf("outcome kind = %v, want KindEmpty", outcome.Kind)
	}
}

func TestResolvePlaylist(t *testing.T) {
	playlist := lavalink.Playlist{
		Info:   lavalink.PlaylistInfo{Name: "Road Trip"},
		Tracks: []lavalink.Track{{Encoded: "a"}, {Encoded: "b"}},
	}
	data, _ := json.Marshal(playlist)
	loader := &fakeLoader{
		results: map[string]*lavalink.LoadResult{
			"https://example.com/playlist/9": {LoadType: lavalink.LoadTypePlaylist, Data: data},
		},
	}
	r := New(loader)

	outcome, err := r.Resolve(context.Background(), "https://example.com/playlist/9")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if outcome.Kind != KindPlaylist || outcome.Playlist != "Road Trip" || len(outcome.Tracks) != 2 {
		t.Fatalf("outcome = %+v, want Road Trip playlist with 2 tracks", outcome)
	}
}
