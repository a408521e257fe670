package tilemap

import (
	"strconv"
	"strings"
)

// Property keys understood by the game.
const (
	PropWalkable = "walkable"
	PropExit     = "isexit"
	PropAIOrder  = "aiorder"
)

// Properties is the normalized metadata of one tile. Map data encodes
// booleans as the strings "true"/"false"; they are converted here and nowhere
// else.
type Properties struct {
	Walkable bool
	Exit     bool
	AIOrder  string
	Raw      map[string]string
}

func parseProperties(raw StringMap) *Properties {
	if raw == nil {
		return nil
	}
	p := &Properties{Raw: make(map[string]string, len(raw))}
	for k, v := range raw {
		p.Raw[k] = v
	}
	p.Walkable = raw[PropWalkable] == "true"
	p.Exit = raw[PropExit] == "true"
	p.AIOrder = raw[PropAIOrder]
	return p
}

// Get returns a raw property value.
func (p *Properties) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.Raw[key]
	return v, ok
}

// IsWalkable is nil-safe: a cell without properties is a wall.
func (p *Properties) IsWalkable() bool {
	return p != nil && p.Walkable
}

func (p *Properties) IsExit() bool {
	return p != nil && p.Exit
}

// Float parses a numeric property, returning def when absent or malformed.
func Float(props map[string]string, key string, def float64) float64 {
	v, ok := props[key]
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// Int parses the leading integer of a property, so "3px" and "3.7" are both
// 3. It returns def when absent or when no digits lead the value.
func Int(props map[string]string, key string, def int) int {
	v := strings.TrimLeft(props[key], " \t\n\r")
	end := 0
	if end < len(v) && (v[end] == '-' || v[end] == '+') {
		end++
	}
	digits := end
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == digits {
		return def
	}
	i, err := strconv.Atoi(v[:end])
	if err != nil {
		return def
	}
	return i
}
