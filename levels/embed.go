// Package levels holds the bundled level maps.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/milk9111/thief/tilemap"
)

//go:embed *.json
var LevelsFS embed.FS

// Dir is searched before the embedded levels.
var Dir = "maps"

// Fetch loads a level by name. TMX levels are read from Dir only.
func Fetch(name string) (*tilemap.Document, error) {
	clean := path.Clean(filepath.ToSlash(name))
	if strings.EqualFold(path.Ext(clean), ".tmx") {
		return tilemap.LoadTMX(filepath.Join(Dir, filepath.FromSlash(clean)))
	}

	data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(clean)))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, clean)
	}
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	doc, err := tilemap.ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", name, err)
	}
	return doc, nil
}

// Names lists every level available on disk or embedded.
func Names() ([]string, error) {
	seen := map[string]bool{}
	embedded, err := fs.Glob(LevelsFS, "*.json")
	if err != nil {
		return nil, err
	}
	for _, n := range embedded {
		seen[n] = true
	}

	entries, err := os.ReadDir(Dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("levels: list %s: %w", Dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".tmx":
			seen[e.Name()] = true
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
