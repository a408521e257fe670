// Package ebitenaudio decodes the game's WAV cues for ebiten's audio
// context.
package ebitenaudio

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	thiefaudio "github.com/milk9111/thief/audio"
)

const SampleRate = 44100

// Load decodes every cue through load and registers it on cues. A cue that
// fails to load is skipped so Play reports it as missing.
func Load(ctx *audio.Context, cues *thiefaudio.Cues, names []string, load func(cue string) ([]byte, error)) error {
	var firstErr error
	for _, name := range names {
		p, err := player(ctx, name, load)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		cues.Add(name, p)
	}
	return firstErr
}

func player(ctx *audio.Context, name string, load func(string) ([]byte, error)) (*audio.Player, error) {
	b, err := load(name)
	if err != nil {
		return nil, err
	}
	stream, err := wav.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode wav %q: %w", name, err)
	}
	return ctx.NewPlayer(stream)
}
