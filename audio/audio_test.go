package audio

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct{ rewinds, plays int }

func (s *sample) Rewind() error { s.rewinds++; return nil }
func (s *sample) Play()         { s.plays++ }

func TestPlayRewindsKnownCue(t *testing.T) {
	c := NewCues(nil)
	hit := &sample{}
	c.Add("hit", hit)

	c.Play("hit")
	c.Play("hit")
	assert.Equal(t, 2, hit.plays)
	assert.Equal(t, 2, hit.rewinds)
	assert.Equal(t, []string{"hit"}, c.Names())
}

func TestUnknownCueWarns(t *testing.T) {
	var buf bytes.Buffer
	c := NewCues(slog.New(slog.NewTextHandler(&buf, nil)))
	c.Play("explosion")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "cue=explosion")

	var nilCues *Cues
	assert.NotPanics(t, func() { nilCues.Play("hit") })
}
