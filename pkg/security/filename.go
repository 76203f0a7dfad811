package security

import (
	"path/filepath"
	"strings"
	"unicode"
)

// SanitizeFilename reduces an uploaded filename to a safe base name made of
// ASCII letters, digits, '_', '-' and '.'. Whitespace becomes '_'.
// It returns "" when nothing usable remains.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Join(strings.Fields(name), "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r > unicode.MaxASCII:
			continue
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" || out == "." || out == ".." {
		return ""
	}
	return out
}
