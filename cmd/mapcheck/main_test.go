package main

import (
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/thief/levels"
)

// writeLevel copies an embedded level into dir as name, pointing its
// tileset at image.
func writeLevel(t *testing.T, dir, name, image string) {
	t.Helper()
	data, err := levels.LevelsFS.ReadFile("level1.json")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	tilesets := doc["tilesets"].([]any)
	tilesets[0].(map[string]any)["image"] = image

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), out, 0o644))
}

func writePNG(t *testing.T, p string) {
	t.Helper()
	f, err := os.Create(p)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 256, 64))))
}

func useMapsDir(t *testing.T, dir string) {
	t.Helper()
	old := levels.Dir
	levels.Dir = dir
	t.Cleanup(func() { levels.Dir = old })
}

func TestCheckResolvesTilesetNextToMap(t *testing.T) {
	dir := t.TempDir()
	useMapsDir(t, dir)
	writeLevel(t, dir, "own.json", "tiles.png")
	writePNG(t, filepath.Join(dir, "tiles.png"))

	assert.NoError(t, check("own.json", map[string]bool{"level2.json": true}))
}

func TestCheckReportsMissingTileset(t *testing.T) {
	dir := t.TempDir()
	useMapsDir(t, dir)
	writeLevel(t, dir, "own.json", "missing.png")

	err := check("own.json", map[string]bool{"level2.json": true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `tileset "tiles"`)
}

func TestCheckReportsUnknownNextMap(t *testing.T) {
	dir := t.TempDir()
	useMapsDir(t, dir)
	writeLevel(t, dir, "own.json", "tiles.png")
	writePNG(t, filepath.Join(dir, "tiles.png"))

	err := check("own.json", map[string]bool{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `nextmap "level2.json" not found`)
}

func TestCheckEmbeddedLevels(t *testing.T) {
	names, err := levels.Names()
	require.NoError(t, err)
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	for _, n := range names {
		assert.NoError(t, check(n, known), n)
	}
}
