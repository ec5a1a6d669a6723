package simpleaudio

import "strings"

// DefaultAllowedExtensions lists the audio container formats accepted for upload
var DefaultAllowedExtensions = []string{"mp3", "wav", "ogg"}

// FileExtension returns the lower-cased text after the last dot of name, or ""
// when name has no dot.
func FileExtension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

func newExtensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			set[ext] = struct{}{}
		}
	}
	return set
}

func (s *service) allowedFile(name string) bool {
	ext := FileExtension(name)
	if ext == "" {
		return false
	}
	_, ok := s.allowedExtensions[ext]
	return ok
}
