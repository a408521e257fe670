// Package countdown implements the escape timer started when the goal opens.
package countdown

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/milk9111/thief/common"
	"github.com/milk9111/thief/event"
	"github.com/milk9111/thief/render"
)

const (
	// EventTick fires once per whole second crossed. Data is a Tick.
	EventTick event.Kind = "tick"
	// EventTimeUp fires once per run when the time runs out.
	EventTimeUp event.Kind = "timeup"
)

type Tick struct {
	Remaining time.Duration
	Text      string
}

type Countdown struct {
	Timeout   time.Duration
	Remaining time.Duration
	Failed    bool
	Events    *event.Bus

	clock    common.Clock
	start    time.Time
	running  bool
	lastSecs int
	text     string
}

func New(timeout time.Duration, clock common.Clock) *Countdown {
	if clock == nil {
		clock = common.SystemClock
	}
	c := &Countdown{Timeout: timeout, clock: clock}
	c.Events = event.NewBus(c)
	c.Reset()
	return c
}

// Reset returns to idle.
func (c *Countdown) Reset() {
	c.running = false
	c.start = time.Time{}
	c.Failed = false
	c.Remaining = 0
	c.lastSecs = wholeSeconds(c.Timeout)
	c.text = ""
}

// Start begins a run from the full timeout.
func (c *Countdown) Start() {
	c.start = c.clock()
	c.running = true
	c.Failed = false
	c.Remaining = c.Timeout
	c.lastSecs = wholeSeconds(c.Timeout)
	c.text = format(c.Timeout)
}

// Running reports whether a run is in progress and not yet expired.
func (c *Countdown) Running() bool {
	return c.running && !c.Failed
}

// Update recomputes the remaining time. It does nothing while idle or after
// the run expired.
func (c *Countdown) Update() {
	if !c.running || c.Failed {
		return
	}

	left := c.Timeout - c.clock().Sub(c.start)
	if left < 0 {
		left = 0
	}
	c.Remaining = left
	c.text = format(left)

	for secs := wholeSeconds(left); c.lastSecs > secs; {
		c.lastSecs--
		c.Events.Emit(EventTick, Tick{Remaining: left, Text: c.text})
	}

	if left <= 0 {
		c.Failed = true
		c.Events.Emit(EventTimeUp, nil)
	}
}

// String is the remaining time as 00:SS:CC.
func (c *Countdown) String() string {
	return c.text
}

// Draw writes the remaining time at the top-left corner while running.
func (c *Countdown) Draw(s render.Surface) {
	if !c.running {
		return
	}
	s.DrawText(c.text, 10, 20, color.White)
}

func wholeSeconds(d time.Duration) int {
	return int(math.Floor(d.Seconds()))
}

func format(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("00:%02d:%02d", ms/1000, (ms/10)%100)
}
