// Package scenario replays scripted input against a camera rig without a window.
// A scenario is a YAML document naming a rig configuration, an anchor, a set of targets
// and a list of steps. Each step optionally issues one command and then advances the rig
// a number of fixed frames with constant look input and anchor motion.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"gopkg.in/yaml.v3"
)

// Command names accepted in a step.
const (
	CommandSetViewType       = "set_view_type"
	CommandTogglePerspective = "toggle_perspective"
	CommandZoom              = "zoom"
	CommandSwitchTarget      = "switch_target"
	CommandSetTarget         = "set_target"
	CommandClearTarget       = "clear_target"
	CommandDestroyTarget     = "destroy_target"
	CommandForce             = "force"
	CommandAbilityStart      = "ability_start"
	CommandAbilityStop       = "ability_stop"
	CommandEquip             = "equip"
)

var (
	// ErrUnknownCommand is returned for a step command the runner does not know.
	ErrUnknownCommand = errors.New("scenario: unknown command")
	// ErrUnknownTarget is returned when a step names a target that was not declared.
	ErrUnknownTarget = errors.New("scenario: unknown target")
	// ErrInvalid is returned for a structurally invalid scenario.
	ErrInvalid = errors.New("scenario: invalid")
)

// Scenario is one scripted replay.
type Scenario struct {
	Name string `yaml:"name"`
	// ConfigPath points at a rig configuration file, relative to the scenario file.
	ConfigPath string `yaml:"configPath,omitempty"`
	// Config is an inline rig configuration decoded over config.Defaults.
	Config yaml.Node `yaml:"config,omitempty"`
	// DT is the fixed step in seconds. Zero uses 1 / tickRate from the configuration.
	DT float32 `yaml:"dt,omitempty"`

	Anchor  Anchor   `yaml:"anchor"`
	Targets []Target `yaml:"targets,omitempty"`
	Steps   []Step   `yaml:"steps"`

	dir string
}

// Anchor places the followed character.
type Anchor struct {
	Position config.Vec3 `yaml:"position"`
	// Yaw is the character heading in degrees.
	Yaw float32 `yaml:"yaw,omitempty"`
}

// Target declares an aim assist candidate.
type Target struct {
	Name     string       `yaml:"name"`
	Position config.Vec3  `yaml:"position"`
	Layer    uint         `yaml:"layer,omitempty"`
	Offset   *config.Vec3 `yaml:"offset,omitempty"`
	// Bones maps a bone name to its position relative to the target.
	Bones map[string]config.Vec3 `yaml:"bones,omitempty"`
}

// Look is constant look input held for the frames of a step.
type Look struct {
	Horizontal float32 `yaml:"horizontal"`
	Vertical   float32 `yaml:"vertical"`
}

// Step issues an optional command and then advances the rig.
type Step struct {
	Command string `yaml:"command,omitempty"`
	Frames  int    `yaml:"frames,omitempty"`
	Look    Look   `yaml:"look,omitempty"`
	// Move is the anchor velocity in units per second during the frames.
	Move config.Vec3 `yaml:"move,omitempty"`

	ViewType  string `yaml:"viewType,omitempty"`
	Immediate bool   `yaml:"immediate,omitempty"`
	Zoom      bool   `yaml:"zoom,omitempty"`
	Right     bool   `yaml:"right,omitempty"`
	Target    string `yaml:"target,omitempty"`

	Force      config.Vec3 `yaml:"force,omitempty"`
	Rotational bool        `yaml:"rotational,omitempty"`
	// Rest sends a secondary force retaining this fraction as rest bias.
	Rest *float32 `yaml:"rest,omitempty"`

	Ability string `yaml:"ability,omitempty"`
	// CanZoom is the zoom permission of the started ability or equipped item.
	CanZoom *bool `yaml:"canZoom,omitempty"`
}

// Parse decodes a scenario document. Relative config paths resolve against dir.
//
// Parameters:
//   - data: the YAML document
//   - dir: the directory relative paths resolve against
//
// Returns:
//   - *Scenario: the scenario
//   - error: a parse error or an error wrapping ErrInvalid
func Parse(data []byte, dir string) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario: parse: %w", err)
	}
	s.dir = dir
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a scenario file. A missing name defaults to the file name.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - *Scenario: the scenario
//   - error: a read, parse or validation error
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	s, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	return s, nil
}

// Validate checks the scenario structure. Command arguments are checked when run.
//
// Returns:
//   - error: the first problem found, wrapping ErrInvalid
func (s *Scenario) Validate() error {
	if s.ConfigPath != "" && !s.Config.IsZero() {
		return fmt.Errorf("%w: config and configPath are exclusive", ErrInvalid)
	}
	if s.DT < 0 {
		return fmt.Errorf("%w: dt must not be negative", ErrInvalid)
	}
	names := make(map[string]bool, len(s.Targets))
	for i, t := range s.Targets {
		if t.Name == "" {
			return fmt.Errorf("%w: targets[%d]: name is required", ErrInvalid, i)
		}
		if names[t.Name] {
			return fmt.Errorf("%w: targets[%d]: duplicate name %q", ErrInvalid, i, t.Name)
		}
		if t.Layer > 31 {
			return fmt.Errorf("%w: targets[%d]: layer %d out of range [0, 31]", ErrInvalid, i, t.Layer)
		}
		names[t.Name] = true
	}
	for i, step := range s.Steps {
		if step.Frames < 0 {
			return fmt.Errorf("%w: steps[%d]: frames must not be negative", ErrInvalid, i)
		}
		if step.Command == "" && step.Frames == 0 {
			return fmt.Errorf("%w: steps[%d]: nothing to do", ErrInvalid, i)
		}
	}
	return nil
}

// RigConfig resolves the rig configuration: the referenced file, the inline document, or
// the defaults.
//
// Returns:
//   - *config.Config: the configuration
//   - error: a load or validation error
func (s *Scenario) RigConfig() (*config.Config, error) {
	if s.ConfigPath != "" {
		path := s.ConfigPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.dir, path)
		}
		return config.Load(path)
	}
	cfg := config.Defaults()
	if !s.Config.IsZero() {
		if err := s.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("scenario: inline config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("scenario: inline config: %w", err)
		}
	}
	return cfg, nil
}
