// Package knowledge loads agent reference material from a directory of
// plain-text files so it can be injected into system prompts.
package knowledge

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Load concatenates every .txt and .md file of dir (README.md excluded),
// sorted by name, each preceded by a "--- name ---" header. Files that are
// not valid UTF-8 are re-decoded as Latin-1, which also covers the usual
// cp1252 exports. A missing directory yields an empty string.
func Load(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".txt" && ext != ".md" {
			continue
		}
		if name == "README.md" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		content, err := readTextFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("skipping unreadable knowledge file", "file", name, "error", err)
			continue
		}
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}
		parts = append(parts, "\n--- "+name+" ---\n"+content)
	}

	return strings.Join(parts, "\n")
}

func readTextFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
