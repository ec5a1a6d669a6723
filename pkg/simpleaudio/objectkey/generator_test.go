package objectkey

import (
	"regexp"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "plain",
			input:    "track.mp3",
			expected: "track.mp3",
		},
		{
			name:     "with spaces",
			input:    "My  Favourite Song.mp3",
			expected: "My_Favourite_Song.mp3",
		},
		{
			name:     "tabs and newlines",
			input:    "My\tSong\nLive.mp3",
			expected: "My_Song_Live.mp3",
		},
		{
			name:     "path traversal",
			input:    "../../etc/passwd.mp3",
			expected: "etc_passwd.mp3",
		},
		{
			name:     "windows path",
			input:    `C:\music\track.wav`,
			expected: "C_music_track.wav",
		},
		{
			name:     "latin accents",
			input:    "Café Ñandú.ogg",
			expected: "Cafe_Nandu.ogg",
		},
		{
			name:     "special characters",
			input:    "song!@#$%^&*().mp3",
			expected: "song.mp3",
		},
		{
			name:     "only non-ascii",
			input:    "音楽",
			expected: "",
		},
		{
			name:     "hidden file",
			input:    ".hidden.mp3",
			expected: "hidden.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeFilename(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

var keyPattern = regexp.MustCompile(`^[0-9a-f]{32}_track\.mp3$`)

func TestRandomGenerator(t *testing.T) {
	gen := NewRandomGenerator()

	key := gen.GenerateKey("track.mp3")
	if !keyPattern.MatchString(key) {
		t.Fatalf("unexpected key format: %s", key)
	}

	other := gen.GenerateKey("track.mp3")
	if key == other {
		t.Errorf("expected distinct keys for repeated uploads, got %s twice", key)
	}
}

func TestRandomGenerator_EmptySanitizedName(t *testing.T) {
	gen := &RandomGenerator{newToken: func() string { return "abc" }}

	if got := gen.GenerateKey("音楽"); got != "abc" {
		t.Errorf("expected bare token, got %s", got)
	}
}

func TestRandomGenerator_Prefix(t *testing.T) {
	gen := NewRandomGeneratorWithPrefix("songs/")

	key := gen.GenerateKey("a b.wav")
	if !strings.HasPrefix(key, "songs/") {
		t.Errorf("expected songs/ prefix, got %s", key)
	}
	if !strings.HasSuffix(key, "_a_b.wav") {
		t.Errorf("expected sanitized suffix, got %s", key)
	}
}

func TestCustomFuncGenerator(t *testing.T) {
	gen := NewCustomFuncGenerator(func(fileName string) string {
		return "fixed/" + fileName
	})

	if got := gen.GenerateKey("x.ogg"); got != "fixed/x.ogg" {
		t.Errorf("expected fixed/x.ogg, got %s", got)
	}
}
