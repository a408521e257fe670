package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadEntityDefs(t *testing.T) {
	defs, err := LoadEntityDefs("entities.yaml")
	require.NoError(t, err)

	player, ok := defs["player"]
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, player.Poses["walking"].Frames)
	assert.Equal(t, "step", player.Sounds["step"])

	guard := defs["guard"]
	for name, script := range guard.Orders {
		_, err := LoadScript(script)
		assert.NoError(t, err, "order %s", name)
	}
}

func TestEntityDefsAcceptJSON(t *testing.T) {
	var defs EntityDefs
	err := yaml.Unmarshal([]byte(`{"guard": {"poses": {"idle": {"frames": [2]}}, "sounds": {"step": "blip"}}}`), &defs)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, defs["guard"].Poses["idle"].Frames)
	assert.Equal(t, "blip", defs["guard"].Sounds["step"])
}

func TestLoadGameSpecEmbedded(t *testing.T) {
	spec, err := LoadGameSpec("")
	require.NoError(t, err)
	assert.Equal(t, 10.0, spec.EscapeSeconds)
	assert.Equal(t, 16.0, spec.Camera.Shake)
	assert.Equal(t, 6.0, spec.Camera.Friction)
	assert.Equal(t, 640, spec.Screen.Width)
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, spec.Radar.Alerted.Color)
}

func TestLoadGameSpecOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte("escape_seconds: 30\ncamera:\n  shake: 4\n"), 0o644))

	spec, err := LoadGameSpec(path)
	require.NoError(t, err)
	assert.Equal(t, 30.0, spec.EscapeSeconds)
	assert.Equal(t, 4.0, spec.Camera.Shake)
	assert.Equal(t, 5.0, spec.Camera.Laziness, "unset keys keep defaults")
	assert.Equal(t, "title.json", spec.FirstLevel)
	assert.Equal(t, color.Color(color.White), spec.Radar.Wall.Or(color.White))
}

func TestLoadGameSpecRejectsZeroFriction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte("camera:\n  friction: 0\n"), 0o644))
	_, err := LoadGameSpec(path)
	assert.Error(t, err)
}

func TestYAMLColor(t *testing.T) {
	var c struct {
		C YAMLColor `yaml:"c"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(`c: "#10203080"`), &c))
	assert.Equal(t, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x80}, c.C.Color)
	assert.Error(t, yaml.Unmarshal([]byte(`c: "#123"`), &c))
}

func TestScriptPaths(t *testing.T) {
	assert.Equal(t, "scripts/sweep.tengo", cleanScriptPath("prefabs/scripts/sweep.tengo"))
	assert.Equal(t, "scripts/sweep.tengo", cleanScriptPath("sweep.tengo"))
	assert.Equal(t, "game.yaml", cleanPrefabPath("prefabs/game.yaml"))
}

func TestWatched(t *testing.T) {
	for _, p := range []string{"maps/level1.json", "maps/level1.TMX", "prefabs/game.yaml", "x.tengo"} {
		assert.True(t, Watched(p), p)
	}
	assert.False(t, Watched("maps/tiles.png"))
}

func TestWatcherReportsMapChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiles.png"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "level1.json"), []byte("{}"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, "level1.json", filepath.Base(name))
	case <-time.After(5 * time.Second):
		t.Fatal("no watch event")
	}
}
