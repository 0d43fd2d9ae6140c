package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
tickRate: 120
defaultViewType: shoulder
firstPersonViewType: eyes
thirdPersonViewType: shoulder
viewTypes:
  - id: eyes
    kind: first_person
    pitchLimits: [-70, 70]
    lookOffset: [0, 1.7, 0.1]
    fov: 80
    zoomFov: 50
  - id: shoulder
    kind: third_person
    distance: 3.5
    shoulderOffset: [0.6, 0, 0]
    positionSpring:
      stiffness: 250
      damping: 30
  - id: map
    kind: top_down
    fixedPitch: 75
    alignToCharacter: true
transition:
  mode: distance
  speed: 8
  minDuration: 0.2
  maxDuration: 1
aimAssist:
  maxDistance: 25
  breakForce: 40
  switchRadius: 12
  capacity: 8
  switchSpeed: 270
  switchEpsilon: 0.25
  influence:
    - {angle: 0, strength: 10}
    - {angle: 20, strength: 4}
    - {angle: 40, strength: 0}
  bone: head
  layers: [0, 3]
`

func TestParseAndBuild(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, 120.0, cfg.TickRate)
	require.Len(t, cfg.ViewTypes, 3)
	assert.Equal(t, Vec3{0, 1.7, 0.1}, *cfg.ViewTypes[0].LookOffset)
	assert.Equal(t, TransitionDistance, cfg.Transition.Mode)
	assert.Equal(t, []uint{0, 3}, cfg.AimAssist.Layers)

	anchor := game_object.NewGameObject()
	r, err := cfg.Build(scene.NewScene(), rig.WithAnchor(anchor))
	require.NoError(t, err)

	assert.Equal(t, "shoulder", r.Current().ID())
	assert.Equal(t, []string{"eyes", "map", "shoulder"}, r.ViewTypeIDs())
	require.NotNil(t, r.Transition())
	require.NotNil(t, r.AimAssist())

	eyes, ok := r.ViewType("eyes")
	require.True(t, ok)
	assert.Equal(t, float32(80), eyes.FieldOfView(false))
	assert.Equal(t, float32(50), eyes.FieldOfView(true))

	mapView, _ := r.ViewType("map")
	assert.False(t, mapView.CanZoom())

	require.True(t, r.TogglePerspective(true))
	assert.Equal(t, "eyes", r.Current().ID())
}

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Defaults().Validate())

	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	r, err := cfg.Build(nil)
	require.NoError(t, err)
	assert.Nil(t, r.AimAssist(), "no world, no aim assist")
}

func TestMarshalRoundTripsThroughParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)
	data, err := cfg.Marshal()
	require.NoError(t, err)
	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"tick_rate":          "tickRate: 0",
		"no_view_types":      "viewTypes: []",
		"missing_id":         "viewTypes: [{kind: first_person}]",
		"duplicate_id":       "viewTypes: [{id: a, kind: first_person}, {id: a, kind: top_down}]\ndefaultViewType: a",
		"unknown_kind":       "viewTypes: [{id: a, kind: cinematic}]\ndefaultViewType: a",
		"pitch_limits":       "viewTypes: [{id: a, kind: first_person, pitchLimits: [10, -10]}]\ndefaultViewType: a",
		"fov":                "viewTypes: [{id: a, kind: first_person, fov: 200}]\ndefaultViewType: a",
		"default_missing":    "defaultViewType: nowhere",
		"perspective_ref":    "firstPersonViewType: nowhere",
		"transition_mode":    "transition: {mode: warp}",
		"transition_speed":   "transition: {mode: distance, speed: 0}",
		"transition_bounds":  "transition: {mode: distance, speed: 1, minDuration: 2, maxDuration: 1}",
		"aim_distance":       "aimAssist: {maxDistance: 0, capacity: 4, switchSpeed: 1, influence: [{angle: 0, strength: 1}]}",
		"aim_capacity":       "aimAssist: {maxDistance: 5, capacity: 1, switchSpeed: 1, influence: [{angle: 0, strength: 1}]}",
		"influence_rising":   "aimAssist: {maxDistance: 5, capacity: 4, switchSpeed: 1, influence: [{angle: 0, strength: 1}, {angle: 10, strength: 2}]}",
		"influence_unsorted": "aimAssist: {maxDistance: 5, capacity: 4, switchSpeed: 1, influence: [{angle: 10, strength: 1}, {angle: 0, strength: 0}]}",
		"layer":              "aimAssist: {maxDistance: 5, capacity: 4, switchSpeed: 1, influence: [{angle: 0, strength: 1}], layers: [40]}",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	t.Run("syntax", func(t *testing.T) {
		_, err := Parse([]byte("viewTypes: [unterminated"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalid)
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rig.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "shoulder", cfg.DefaultViewType)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatcherReportsYAMLChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	path := filepath.Join(dir, "rig.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	select {
	case got := <-w.Events:
		assert.Equal(t, path, got)
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("no event for the YAML file")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
