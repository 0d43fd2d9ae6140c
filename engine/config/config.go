// Package config loads rig configuration from YAML and builds the rig it describes.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// View type kinds.
const (
	KindFirstPerson = "first_person"
	KindThirdPerson = "third_person"
	KindTopDown     = "top_down"
)

// Transition modes.
const (
	TransitionNone     = "none"
	TransitionTime     = "time"
	TransitionDistance = "distance"
)

// Vec3 is a YAML sequence of three numbers.
type Vec3 [3]float32

// Range is a YAML sequence of a minimum and a maximum.
type Range [2]float32

// Config describes a complete rig.
type Config struct {
	// TickRate is the fixed update rate in Hz.
	TickRate float64 `yaml:"tickRate"`
	// DefaultViewType is activated when the rig is built.
	DefaultViewType string `yaml:"defaultViewType"`
	// FirstPersonViewType and ThirdPersonViewType override the perspective toggle targets.
	FirstPersonViewType string `yaml:"firstPersonViewType,omitempty"`
	ThirdPersonViewType string `yaml:"thirdPersonViewType,omitempty"`

	ViewTypes         []ViewTypeConfig `yaml:"viewTypes"`
	Transition        TransitionConfig `yaml:"transition"`
	AimAssist         *AimAssistConfig `yaml:"aimAssist,omitempty"`
	FieldOfViewSpring *SpringConfig    `yaml:"fovSpring,omitempty"`
}

// SpringConfig mirrors the spring options. Zero fields keep the spring defaults.
type SpringConfig struct {
	Stiffness   float32 `yaml:"stiffness,omitempty"`
	Damping     float32 `yaml:"damping,omitempty"`
	MinVelocity float32 `yaml:"minVelocity,omitempty"`
	MaxVelocity float32 `yaml:"maxVelocity,omitempty"`
	FadeIn      float32 `yaml:"fadeIn,omitempty"`
}

// ViewTypeConfig describes one view type. Pointer fields are optional and fall back to the
// defaults of the view type's kind.
type ViewTypeConfig struct {
	ID   string `yaml:"id"`
	Kind string `yaml:"kind"`

	FirstPerson *bool  `yaml:"firstPerson,omitempty"`
	CanZoom     *bool  `yaml:"canZoom,omitempty"`
	PitchLimits *Range `yaml:"pitchLimits,omitempty"`
	Sensitivity *Range `yaml:"sensitivity,omitempty"`

	FieldOfView     float32 `yaml:"fov,omitempty"`
	ZoomFieldOfView float32 `yaml:"zoomFov,omitempty"`

	LookSmoothing     *bool         `yaml:"lookSmoothing,omitempty"`
	LookSpring        *SpringConfig `yaml:"lookSpring,omitempty"`
	PositionSmoothing *bool         `yaml:"positionSmoothing,omitempty"`
	PositionSpring    *SpringConfig `yaml:"positionSpring,omitempty"`
	ForceSpring       *SpringConfig `yaml:"forceSpring,omitempty"`

	LookOffset     *Vec3    `yaml:"lookOffset,omitempty"`
	PivotOffset    *Vec3    `yaml:"pivotOffset,omitempty"`
	ShoulderOffset *Vec3    `yaml:"shoulderOffset,omitempty"`
	Distance       *float32 `yaml:"distance,omitempty"`

	FixedPitch       *float32 `yaml:"fixedPitch,omitempty"`
	AlignToCharacter bool     `yaml:"alignToCharacter,omitempty"`
}

// TransitionConfig describes the view type blend.
type TransitionConfig struct {
	Mode        string  `yaml:"mode"`
	Duration    float32 `yaml:"duration,omitempty"`
	Speed       float32 `yaml:"speed,omitempty"`
	MinDuration float32 `yaml:"minDuration,omitempty"`
	MaxDuration float32 `yaml:"maxDuration,omitempty"`
}

// CurveKey is one key of the aim assist influence curve.
type CurveKey struct {
	Angle    float32 `yaml:"angle"`
	Strength float32 `yaml:"strength"`
}

// AimAssistConfig describes target acquisition.
type AimAssistConfig struct {
	Enabled        *bool      `yaml:"enabled,omitempty"`
	MaxDistance    float32    `yaml:"maxDistance"`
	BreakForce     float32    `yaml:"breakForce"`
	SwitchRadius   float32    `yaml:"switchRadius"`
	Capacity       int        `yaml:"capacity"`
	SwitchSpeed    float32    `yaml:"switchSpeed"`
	SwitchEpsilon  float32    `yaml:"switchEpsilon"`
	Influence      []CurveKey `yaml:"influence"`
	Bone           string     `yaml:"bone,omitempty"`
	Layers         []uint     `yaml:"layers,omitempty"`
	RequireAim     bool       `yaml:"requireAim,omitempty"`
	RequireVisible bool       `yaml:"requireVisible,omitempty"`
}

// Defaults returns a configuration with first-person, third-person and top-down view
// types, a half-second blend and aim assist enabled.
//
// Returns:
//   - *Config: the default configuration
func Defaults() *Config {
	return &Config{
		TickRate:        60,
		DefaultViewType: "third_person",
		ViewTypes: []ViewTypeConfig{
			{ID: "first_person", Kind: KindFirstPerson},
			{ID: "third_person", Kind: KindThirdPerson},
			{ID: "top_down", Kind: KindTopDown},
		},
		Transition: TransitionConfig{
			Mode:        TransitionTime,
			Duration:    0.5,
			MinDuration: 0.1,
			MaxDuration: 1.5,
		},
		AimAssist: &AimAssistConfig{
			MaxDistance:   30,
			BreakForce:    50,
			SwitchRadius:  10,
			Capacity:      16,
			SwitchSpeed:   360,
			SwitchEpsilon: 0.5,
			Influence: []CurveKey{
				{Angle: 0, Strength: 8},
				{Angle: 30, Strength: 0},
			},
		},
	}
}

// Parse decodes a YAML document over the defaults and validates the result.
// Lists in the document replace the default lists.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *Config: the configuration
//   - error: a parse error or a validation error wrapping ErrInvalid
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses a YAML configuration file.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - *Config: the configuration
//   - error: a read, parse or validation error
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
//
// Returns:
//   - []byte: the YAML document
//   - error: an encoding error
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks the configuration for values the rig cannot use.
//
// Returns:
//   - error: the first problem found, wrapping ErrInvalid
func (c *Config) Validate() error {
	if c.TickRate <= 0 {
		return invalid("tickRate must be positive, got %v", c.TickRate)
	}
	if len(c.ViewTypes) == 0 {
		return invalid("at least one view type is required")
	}

	ids := make(map[string]bool, len(c.ViewTypes))
	for i, vt := range c.ViewTypes {
		if vt.ID == "" {
			return invalid("viewTypes[%d]: id is required", i)
		}
		if ids[vt.ID] {
			return invalid("viewTypes[%d]: duplicate id %q", i, vt.ID)
		}
		ids[vt.ID] = true
		if err := vt.validate(); err != nil {
			return fmt.Errorf("viewTypes[%d] %q: %w", i, vt.ID, err)
		}
	}
	for _, ref := range []struct{ field, id string }{
		{"defaultViewType", c.DefaultViewType},
		{"firstPersonViewType", c.FirstPersonViewType},
		{"thirdPersonViewType", c.ThirdPersonViewType},
	} {
		if ref.id != "" && !ids[ref.id] {
			return invalid("%s %q is not a configured view type", ref.field, ref.id)
		}
	}

	if err := c.Transition.validate(); err != nil {
		return fmt.Errorf("transition: %w", err)
	}
	if c.AimAssist != nil {
		if err := c.AimAssist.validate(); err != nil {
			return fmt.Errorf("aimAssist: %w", err)
		}
	}
	return nil
}

func (vt ViewTypeConfig) validate() error {
	switch vt.Kind {
	case KindFirstPerson, KindThirdPerson, KindTopDown:
	default:
		return invalid("unknown kind %q", vt.Kind)
	}
	if vt.PitchLimits != nil && vt.PitchLimits[0] > vt.PitchLimits[1] {
		return invalid("pitchLimits min %v exceeds max %v", vt.PitchLimits[0], vt.PitchLimits[1])
	}
	for _, fov := range []float32{vt.FieldOfView, vt.ZoomFieldOfView} {
		if fov < 0 || fov >= 180 {
			return invalid("field of view %v out of range", fov)
		}
	}
	if vt.Distance != nil && *vt.Distance < 0 {
		return invalid("distance must not be negative")
	}
	return nil
}

func (t TransitionConfig) validate() error {
	switch t.Mode {
	case TransitionNone:
		return nil
	case TransitionTime:
		if t.Duration < 0 {
			return invalid("duration must not be negative")
		}
	case TransitionDistance:
		if t.Speed <= 0 {
			return invalid("speed must be positive in distance mode")
		}
		if t.MinDuration > t.MaxDuration {
			return invalid("minDuration %v exceeds maxDuration %v", t.MinDuration, t.MaxDuration)
		}
	default:
		return invalid("unknown mode %q", t.Mode)
	}
	return nil
}

func (a AimAssistConfig) validate() error {
	if a.MaxDistance <= 0 {
		return invalid("maxDistance must be positive")
	}
	if a.Capacity < 2 {
		return invalid("capacity must be at least 2, got %d", a.Capacity)
	}
	if a.SwitchSpeed <= 0 {
		return invalid("switchSpeed must be positive")
	}
	if len(a.Influence) == 0 {
		return invalid("influence needs at least one key")
	}
	for i := 1; i < len(a.Influence); i++ {
		prev, key := a.Influence[i-1], a.Influence[i]
		if key.Angle <= prev.Angle {
			return invalid("influence key %d: angles must increase", i)
		}
		if key.Strength > prev.Strength {
			return invalid("influence key %d: strength must not increase with angle", i)
		}
	}
	for _, layer := range a.Layers {
		if layer > 31 {
			return invalid("layer %d out of range [0, 31]", layer)
		}
	}
	return nil
}
