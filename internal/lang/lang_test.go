package lang

import "testing"

func TestTLooksUpKnownKey(t *testing.T) {
	got := T("en", "music.embed.author", nil)
	if got != "Author" {
		t.Fatalf("T(en, music.embed.author) = %q, want %q", got, "Author")
	}
}

func TestTInterpolatesVars(t *testing.T) {
	got := T("en", "music.errors.no_results", map[string]string{"query": "daft punk"})
	want := "🎵 No results found for **daft punk**."
	if got != want {
		t.Fatalf("T() = %q, want %q", got, want)
	}
}

func TestTFallsBackToEnglish(t *testing.T) {
	got := T("fr", "music.embed.author", nil)
	if got != "Author" {
		t.Fatalf("T(fr, ...) = %q, want English fallback %q", got, "Author")
	}
}

func TestTUnknownKeyReturnsKey(t *testing.T) {
	got := T("en", "music.errors.does_not_exist", nil)
	if got != "music.errors.does_not_exist" {
		t.Fatalf("T() = %q, want the key itself", got)
	}
}

func TestSpanishDictionaryCoversEnglishKeys(t *testing.T) {
	en := load("en")
	es := load("es")
	for key := range en {
		if _, ok := es[key]; !ok {
			t.Errorf("es locale missing key %q", key)
		}
	}
}
