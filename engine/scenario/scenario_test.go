package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, doc string) *Scenario {
	t.Helper()
	s, err := Parse([]byte(doc), t.TempDir())
	require.NoError(t, err)
	return s
}

const rigidOrbit = `
name: walk
dt: 0.0625
config:
  defaultViewType: boom
  viewTypes:
    - id: boom
      kind: third_person
      lookSmoothing: false
      positionSmoothing: false
      pivotOffset: [0, 0, 0]
      shoulderOffset: [0, 0, 0]
      distance: 4
anchor:
  position: [0, 0, 0]
steps:
  - frames: 16
    move: [0, 0, 1]
`

func TestRunFollowsAnchor(t *testing.T) {
	res, err := Run(parse(t, rigidOrbit))
	require.NoError(t, err)

	assert.Equal(t, "walk", res.Name)
	assert.Equal(t, 16, res.Frames)
	assert.Equal(t, "boom", res.ViewType)
	assert.False(t, res.FirstPerson)
	assert.InDelta(t, 0, res.Pose.Position.X(), 1e-3)
	assert.InDelta(t, 0, res.Pose.Position.Y(), 1e-3)
	assert.InDelta(t, -3, res.Pose.Position.Z(), 1e-3)
	assert.InDelta(t, 0, common.SignedAngle(res.Yaw), 1e-2)
}

func TestRunLookTurnsRight(t *testing.T) {
	s := parse(t, rigidOrbit)
	s.Steps = []Step{{Frames: 10, Look: Look{Horizontal: 1}}}

	res, err := Run(s)
	require.NoError(t, err)
	assert.Greater(t, common.SignedAngle(res.Yaw), float32(0))
	assert.Greater(t, res.Pose.Position.X(), float32(-4.01))
	assert.Less(t, res.Pose.Position.X(), float32(0), "orbiting right swings the camera to the left of the anchor")
}

func TestRunPerspectiveToggle(t *testing.T) {
	s := parse(t, `
name: toggle
dt: 0.02
anchor:
  position: [0, 0, 0]
steps:
  - command: toggle_perspective
    frames: 50
  - command: toggle_perspective
    immediate: true
    frames: 1
  - command: toggle_perspective
    frames: 5
`)
	res, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, 56, res.Frames)
	assert.Equal(t, "first_person", res.ViewType)
	assert.False(t, res.FirstPerson, "the last blend has not finished")
	assert.Equal(t, 2, res.PerspectiveChanges)
	assert.Equal(t, 3, res.ViewTypeActivations)
}

func TestRunZoomVeto(t *testing.T) {
	res, err := Run(parse(t, `
name: zoom
anchor: {position: [0, 0, 0]}
steps:
  - command: zoom
    zoom: true
    frames: 1
  - command: ability_start
    ability: dash
    canZoom: false
  - command: ability_stop
    ability: dash
  - command: equip
    canZoom: false
`))
	require.NoError(t, err)
	assert.False(t, res.Zoom)
	assert.Equal(t, 4, res.ZoomChanges)

	res, err = Run(parse(t, `
name: zoom
anchor: {position: [0, 0, 0]}
steps:
  - command: zoom
    zoom: true
    frames: 120
`))
	require.NoError(t, err)
	assert.True(t, res.Zoom)
	assert.InDelta(t, 40, res.FieldOfView, 0.5)
}

const targets = `
name: targets
dt: 0.02
anchor:
  position: [0, 0, 0]
targets:
  - name: left
    position: [-3, 0, 8]
  - name: right
    position: [3, 0, 8]
    bones:
      head: [0, 1.5, 0]
steps:
  - command: set_target
    target: right
    frames: 10
`

func TestRunAimAssistTargets(t *testing.T) {
	s := parse(t, targets)
	res, err := Run(s)
	require.NoError(t, err)
	assert.Equal(t, "right", res.Target)
	assert.Greater(t, common.SignedAngle(res.Yaw), float32(0), "pulled toward the right target")

	s.Steps = append(s.Steps,
		Step{Command: CommandSwitchTarget, Right: false, Frames: 100},
	)
	res, err = Run(s)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Switches)
	assert.Equal(t, "left", res.Target)
	assert.Less(t, common.SignedAngle(res.Yaw), float32(0), "turned left of forward")

	s.Steps = append(s.Steps,
		Step{Command: CommandDestroyTarget, Target: "left", Frames: 1},
	)
	res, err = Run(s)
	require.NoError(t, err)
	assert.Empty(t, res.Target, "destroyed targets are dropped")
}

func TestRunErrors(t *testing.T) {
	res, err := Run(parse(t, `
name: bad
anchor: {position: [0, 0, 0]}
steps:
  - frames: 3
  - command: teleport
`))
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Equal(t, 3, res.Frames)
	assert.Equal(t, err, res.Err)

	_, err = Run(parse(t, `
anchor: {position: [0, 0, 0]}
steps:
  - command: set_view_type
    viewType: cinematic
`))
	assert.ErrorIs(t, err, rig.ErrViewTypeNotFound)

	_, err = Run(parse(t, `
anchor: {position: [0, 0, 0]}
steps:
  - command: set_target
    target: ghost
`))
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"exclusive_config": "configPath: rig.yaml\nconfig: {tickRate: 30}",
		"negative_dt":      "dt: -1",
		"unnamed_target":   "targets: [{position: [0, 0, 0]}]",
		"duplicate_target": "targets: [{name: a}, {name: a}]",
		"target_layer":     "targets: [{name: a, layer: 32}]",
		"negative_frames":  "steps: [{frames: -1}]",
		"empty_step":       "steps: [{}]",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc), "")
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadResolvesConfigPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rig.yaml"), []byte(`
tickRate: 50
defaultViewType: eyes
viewTypes:
  - {id: eyes, kind: first_person}
`), 0o644))
	path := filepath.Join(dir, "look.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
configPath: rig.yaml
anchor: {position: [1, 0, 1]}
steps:
  - frames: 5
`), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "look.yaml", s.Name)

	cfg, err := s.RigConfig()
	require.NoError(t, err)
	assert.Equal(t, 50.0, cfg.TickRate)

	res, err := Run(s)
	require.NoError(t, err)
	assert.Equal(t, "eyes", res.ViewType)
	assert.True(t, res.FirstPerson)
}

func TestRunAll(t *testing.T) {
	good := parse(t, rigidOrbit)
	bad := parse(t, "name: bad\nanchor: {position: [0, 0, 0]}\nsteps: [{command: teleport}]")
	aim := parse(t, targets)

	results := RunAll([]*Scenario{good, bad, aim, good}, 2)
	require.Len(t, results, 4)

	assert.Equal(t, "walk", results[0].Name)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, ErrUnknownCommand)
	assert.Equal(t, "right", results[2].Target)
	assert.Equal(t, results[0].Pose, results[3].Pose, "replays are deterministic")
}
