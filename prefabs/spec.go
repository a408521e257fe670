package prefabs

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// PoseSpec lists tile offsets from an entity's gid, one per animation frame.
type PoseSpec struct {
	Frames []int `yaml:"frames"`
}

// EntitySpec describes one entity type. JSON documents in the same shape
// decode too.
type EntitySpec struct {
	Poses  map[string]PoseSpec `yaml:"poses"`
	Sounds map[string]string   `yaml:"sounds"`
	// Orders maps an order name to a tengo script path.
	Orders map[string]string `yaml:"orders"`
}

// EntityDefs is keyed by entity type (player, treasure, guard).
type EntityDefs map[string]EntitySpec

func LoadEntityDefs(filename string) (EntityDefs, error) {
	defs, err := LoadSpec[EntityDefs](filename)
	if err != nil {
		return nil, err
	}
	if defs == nil {
		defs = EntityDefs{}
	}
	return defs, nil
}

type ScreenSpec struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

type CameraSpec struct {
	Shake    float64 `yaml:"shake"`
	Laziness float64 `yaml:"laziness"`
	Friction float64 `yaml:"friction"`
}

type SizeSpec struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type RadarSpec struct {
	Cell     int       `yaml:"cell"`
	Dot      int       `yaml:"dot"`
	Walkable YAMLColor `yaml:"walkable"`
	Wall     YAMLColor `yaml:"wall"`
	Exit     YAMLColor `yaml:"exit"`
	Player   YAMLColor `yaml:"player"`
	Guard    YAMLColor `yaml:"guard"`
	Alerted  YAMLColor `yaml:"alerted"`
	Goal     YAMLColor `yaml:"goal"`
}

// GameSpec is the game-wide configuration.
type GameSpec struct {
	EscapeSeconds float64    `yaml:"escape_seconds"`
	StepDistance  float64    `yaml:"step_distance"`
	PauseMillis   int        `yaml:"pause_millis"`
	MapsDir       string     `yaml:"maps_dir"`
	EntitiesFile  string     `yaml:"entities_file"`
	FirstLevel    string     `yaml:"first_level"`
	Screen        ScreenSpec `yaml:"screen"`
	Camera        CameraSpec `yaml:"camera"`
	Alert         SizeSpec   `yaml:"alert"`
	Radar         RadarSpec  `yaml:"radar"`
}

func DefaultGameSpec() GameSpec {
	return GameSpec{
		EscapeSeconds: 10,
		StepDistance:  10,
		PauseMillis:   1000,
		MapsDir:       "maps",
		EntitiesFile:  "entities.yaml",
		FirstLevel:    "title.json",
		Screen:        ScreenSpec{Width: 640, Height: 480, Scale: 2},
		Camera:        CameraSpec{Shake: 16, Laziness: 5, Friction: 6},
		Alert:         SizeSpec{Width: 16, Height: 16},
		Radar:         RadarSpec{Cell: 4, Dot: 2},
	}
}

// LoadGameSpec decodes path, or the prefab game.yaml when path is empty, over
// the defaults.
func LoadGameSpec(path string) (GameSpec, error) {
	spec := DefaultGameSpec()

	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		path = "game.yaml"
		data, err = Load(path)
	}
	if err != nil {
		return spec, fmt.Errorf("prefabs: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return spec, fmt.Errorf("prefabs: unmarshal %s: %w", path, err)
	}
	if spec.Camera.Friction == 0 {
		return spec, fmt.Errorf("prefabs: %s: camera friction must be non-zero", path)
	}
	return spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns c, or def when c was never set.
func (c YAMLColor) Or(def color.Color) color.Color {
	if c.Color == nil {
		return def
	}
	return c.Color
}
