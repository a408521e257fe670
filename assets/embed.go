// Package assets provides the game's images and sound cues, preferring files
// on disk over the embedded copies.
package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/milk9111/thief/render"
)

//go:embed gfx/*.png sfx/*.wav
var assetsFS embed.FS

// AlertImage is the indicator drawn above an alerted guard.
const AlertImage = "gfx/alert.png"

// Cues are the sound cues the game plays.
var Cues = []string{"blip", "step", "timeup", "hit", "alerted"}

// LoadFile reads path from disk, falling back to the embedded assets.
func LoadFile(p string) ([]byte, error) {
	if b, err := os.ReadFile(filepath.FromSlash(p)); err == nil {
		return b, nil
	}
	b, err := assetsFS.ReadFile(cleanAssetPath(p))
	if err != nil {
		return nil, fmt.Errorf("assets: %s: %w", p, err)
	}
	return b, nil
}

// LoadImage decodes an image asset.
func LoadImage(p string) (image.Image, error) {
	b, err := LoadFile(p)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", p, err)
	}
	return img, nil
}

// LoadAudio returns the WAV bytes of a cue.
func LoadAudio(cue string) ([]byte, error) {
	return LoadFile(path.Join("sfx", cue+".wav"))
}

// Loader adapts LoadImage to render.ImageLoader. Convert turns decoded
// images into backend images; nil keeps the decoded image.
type Loader struct {
	Convert func(image.Image) render.Image
}

func (l Loader) LoadImage(p string) (render.Image, error) {
	img, err := LoadImage(p)
	if err != nil {
		return nil, err
	}
	if l.Convert == nil {
		return img, nil
	}
	return l.Convert(img), nil
}

func cleanAssetPath(p string) string {
	if p == "" {
		return ""
	}
	s := path.Clean(filepath.ToSlash(p))
	if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
		return s[idx+len("/assets/"):]
	}
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	for _, dir := range []string{"gfx/", "sfx/"} {
		if idx := strings.Index(s, dir); idx >= 0 {
			return s[idx:]
		}
	}
	return s
}
