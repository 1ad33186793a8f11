package media

import (
	"path/filepath"
	"strings"
)

// ExtensionSet is the set of supported media extensions, lowercase with
// leading dot.
type ExtensionSet map[string]bool

// NewExtensionSet normalizes a configured extension list into a set.
func NewExtensionSet(exts []string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = true
	}
	return set
}

// Matches reports whether path has a supported media extension.
func (s ExtensionSet) Matches(path string) bool {
	return s[strings.ToLower(filepath.Ext(path))]
}
