// Package audio plays named sound cues.
package audio

import (
	"log/slog"
	"sort"
	"sync"
)

// Sample is a playable sound.
type Sample interface {
	Rewind() error
	Play()
}

// Cues maps cue names to samples.
type Cues struct {
	mu      sync.Mutex
	samples map[string]Sample
	logger  *slog.Logger
}

func NewCues(logger *slog.Logger) *Cues {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cues{samples: map[string]Sample{}, logger: logger}
}

func (c *Cues) Add(name string, s Sample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples[name] = s
}

// Play restarts the named sample. Unknown names are logged and skipped.
func (c *Cues) Play(name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	s, ok := c.samples[name]
	c.mu.Unlock()
	if !ok {
		c.logger.Warn("audio sample not found", "cue", name)
		return
	}
	if err := s.Rewind(); err != nil {
		c.logger.Warn("audio rewind failed", "cue", name, "err", err)
	}
	s.Play()
}

// Names lists the registered cues in order.
func (c *Cues) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.samples))
	for n := range c.samples {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
