// Package objectkey generates object storage keys for uploaded files.
package objectkey

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RandomGenerator prefixes the sanitized file name with a random token so that
// two uploads of the same file never collide.
//
//	3f2c9e0a6b5d4c1e8f7a6b5c4d3e2f1a_My_Song.mp3
type RandomGenerator struct {
	// Prefix is prepended verbatim, e.g. "songs/". Empty by default.
	Prefix string

	newToken func() string
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{newToken: randomToken}
}

// NewRandomGeneratorWithPrefix returns a RandomGenerator that places keys under prefix
func NewRandomGeneratorWithPrefix(prefix string) *RandomGenerator {
	return &RandomGenerator{Prefix: prefix, newToken: randomToken}
}

func (g *RandomGenerator) GenerateKey(fileName string) string {
	token := g.newToken()
	name := SanitizeFilename(fileName)
	if name == "" {
		return g.Prefix + token
	}
	return g.Prefix + token + "_" + name
}

// randomToken returns 32 lowercase hex characters
func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// CustomFuncGenerator allows users to provide their own key generation function
type CustomFuncGenerator struct {
	GenerateFunc func(fileName string) string
}

func NewCustomFuncGenerator(fn func(fileName string) string) *CustomFuncGenerator {
	return &CustomFuncGenerator{
		GenerateFunc: fn,
	}
}

func (g *CustomFuncGenerator) GenerateKey(fileName string) string {
	return g.GenerateFunc(fileName)
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeFilename reduces filename to a safe, ASCII-only base name.
// Accents are folded, other non-ASCII runes dropped, path separators and
// whitespace collapse to "_", anything outside [A-Za-z0-9._-] is removed and
// leading or trailing dots and underscores are trimmed. The result may be
// empty.
func SanitizeFilename(filename string) string {
	if filename == "" {
		return ""
	}

	folded, _, err := transform.String(stripMarks, filename)
	if err != nil {
		folded = filename
	}

	var ascii strings.Builder
	ascii.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r == '/' || r == '\\' || unicode.IsSpace(r):
			ascii.WriteRune(' ')
		case r < 128 && unicode.IsPrint(r):
			ascii.WriteRune(r)
		}
	}

	joined := strings.Join(strings.Fields(ascii.String()), "_")
	safe := strings.Map(func(r rune) rune {
		if isSafeRune(r) {
			return r
		}
		return -1
	}, joined)

	return strings.Trim(safe, "._")
}

func isSafeRune(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '.' || r == '_' || r == '-'
}
