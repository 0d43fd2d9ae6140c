package rig

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/aim_assist"
	"github.com/Carmen-Shannon/oxy-rig/engine/camera"
	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
	"github.com/Carmen-Shannon/oxy-rig/engine/transition"
	"github.com/Carmen-Shannon/oxy-rig/engine/view_type"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = float32(1) / 60

type ability struct {
	id      string
	canZoom bool
}

func (a ability) ID() string          { return a.id }
func (a ability) CanCameraZoom() bool { return a.canZoom }

type item bool

func (i item) CanCameraZoom() bool { return bool(i) }

func newTestRig(options ...RigBuilderOption) (Rig, game_object.GameObject) {
	anchor := game_object.NewGameObject(game_object.WithName("player"))
	base := []RigBuilderOption{
		WithViewTypes(
			view_type.NewFirstPerson("fp"),
			view_type.NewThirdPerson("tp"),
			view_type.NewTopDown("td"),
		),
		WithTransition(transition.NewTransition(transition.WithDuration(0.5))),
		WithAnchor(anchor),
		WithDefaultViewType("tp"),
	}
	return NewRig(append(base, options...)...), anchor
}

func runFrames(r Rig, n int) common.Pose {
	var pose common.Pose
	for i := 0; i < n; i++ {
		pose = r.Update(dt, LookInput{})
	}
	return pose
}

func TestSetViewTypeUnknown(t *testing.T) {
	r, _ := newTestRig()
	before := r.Pose()

	err := r.SetViewType("missing", false)
	assert.ErrorIs(t, err, ErrViewTypeNotFound)
	assert.Equal(t, "tp", r.Current().ID())
	assert.Equal(t, before, r.Pose())
}

func TestRegisterDuplicate(t *testing.T) {
	r, _ := newTestRig()
	assert.ErrorIs(t, r.Register(view_type.NewThirdPerson("tp")), ErrDuplicateViewType)
	assert.Equal(t, []string{"fp", "td", "tp"}, r.ViewTypeIDs())
}

func TestImmediateSwitchIsIdempotent(t *testing.T) {
	r, anchor := newTestRig()
	anchor.SetPosition(mgl32.Vec3{3, 0, -2})
	anchor.SetRotation(common.EulerRotation(0, 30))

	require.NoError(t, r.SetViewType("fp", true))
	require.NoError(t, r.SetViewType("tp", true))
	alone := r.Pose()

	require.NoError(t, r.SetViewType("fp", true))
	require.NoError(t, r.SetViewType("tp", true))
	assert.True(t, r.Pose().ApproxEqual(alone, 1e-4, 1e-2), "A -> B -> A reproduces A: %v vs %v", r.Pose(), alone)
	assert.False(t, r.Transition().IsTransitioning())
}

func TestSetViewTypeSameIsNoOp(t *testing.T) {
	var events []string
	r, _ := newTestRig()
	r.OnViewTypeChanged(func(id string, activated bool) {
		events = append(events, id)
	})
	require.NoError(t, r.SetViewType("tp", false))
	assert.Empty(t, events)
	assert.False(t, r.Transition().IsTransitioning())
}

func TestViewTypeChangedEvents(t *testing.T) {
	type event struct {
		id        string
		activated bool
	}
	var events []event
	r, _ := newTestRig()
	r.OnViewTypeChanged(func(id string, activated bool) {
		events = append(events, event{id, activated})
	})

	require.NoError(t, r.SetViewType("fp", true))
	assert.Equal(t, []event{{"tp", false}, {"fp", true}}, events)
}

func TestPerspectiveNotifiedOncePerFlip(t *testing.T) {
	var flips []bool
	r, _ := newTestRig()
	r.OnPerspectiveChanged(func(firstPerson bool) {
		flips = append(flips, firstPerson)
	})
	assert.False(t, r.FirstPerson())

	require.True(t, r.TogglePerspective(true))
	assert.Equal(t, []bool{true}, flips)

	require.NoError(t, r.SetViewType("td", true))
	assert.Equal(t, []bool{true, false}, flips)

	require.NoError(t, r.SetViewType("tp", true))
	assert.Equal(t, []bool{true, false}, flips, "third person to third person is not a flip")

	t.Run("announced_when_the_blend_completes", func(t *testing.T) {
		require.True(t, r.SetPerspective(true, false))
		assert.Len(t, flips, 2)
		runFrames(r, 60)
		assert.Equal(t, []bool{true, false, true}, flips)
		assert.True(t, r.FirstPerson())
	})

	t.Run("interrupted_round_trip_is_silent", func(t *testing.T) {
		require.True(t, r.TogglePerspective(false))
		runFrames(r, 5)
		require.True(t, r.TogglePerspective(false))
		runFrames(r, 60)
		assert.Equal(t, []bool{true, false, true}, flips)
		assert.Equal(t, "fp", r.Current().ID())
	})
}

func TestPerspectiveNeedsBothViewTypes(t *testing.T) {
	r := NewRig(
		WithViewTypes(view_type.NewThirdPerson("tp")),
		WithAnchor(game_object.NewGameObject()),
		WithDefaultViewType("tp"),
	)
	assert.False(t, r.TogglePerspective(true))
	assert.False(t, r.SetPerspective(true, true))
	assert.Equal(t, "tp", r.Current().ID())
}

func TestTransitionBlendsWithoutJumps(t *testing.T) {
	r, _ := newTestRig()
	runFrames(r, 10)
	start := r.Pose()

	require.NoError(t, r.SetViewType("fp", false))
	require.True(t, r.Transition().IsTransitioning())
	assert.True(t, r.Pose().ApproxEqual(start, 1e-4, 1e-2), "the blend starts from the outgoing pose")

	target := r.Current().Pose()
	gap := target.Position.Sub(start.Position).Len()
	last := start
	for i := 0; i < 60 && r.Transition().IsTransitioning(); i++ {
		pose := r.Update(dt, LookInput{})
		assert.Less(t, pose.Position.Sub(last.Position).Len(), gap/4, "frame %d jumped", i)
		last = pose
	}
	assert.False(t, r.Transition().IsTransitioning())
	pose := runFrames(r, 1)
	assert.True(t, pose.ApproxEqual(r.Current().Pose(), 1e-5, 1e-3))
	assert.True(t, common.ApproxVec3(pose.Position, target.Position, 1e-2))
}

func TestAbilityRefusesZoomUntilItEnds(t *testing.T) {
	var zooms []bool
	r, _ := newTestRig()
	r.OnZoomChanged(func(zoom bool) { zooms = append(zooms, zoom) })

	dash := ability{id: "dash", canZoom: false}
	r.AbilityStarted(dash)
	r.TryZoom(true)
	assert.True(t, r.ZoomInput(), "the request is recorded")
	assert.False(t, r.Zoom(), "but not applied")
	assert.Empty(t, zooms)

	r.AbilityStarted(ability{id: "sprint", canZoom: true})
	assert.False(t, r.Zoom())

	r.AbilityStopped(dash)
	assert.True(t, r.Zoom(), "zoom applies once the ability ends without a new request")
	assert.Equal(t, []bool{true}, zooms)

	r.TryZoom(true)
	assert.Equal(t, []bool{true}, zooms, "no notification without a change")

	r.TryZoom(false)
	assert.False(t, r.Zoom())
	assert.Equal(t, []bool{true, false}, zooms)
}

func TestZoomVetoes(t *testing.T) {
	t.Run("view_type", func(t *testing.T) {
		r, _ := newTestRig()
		r.TryZoom(true)
		require.True(t, r.Zoom())
		require.NoError(t, r.SetViewType("td", true))
		assert.False(t, r.Zoom(), "top down refuses zoom")
		assert.True(t, r.ZoomInput())
		require.NoError(t, r.SetViewType("tp", true))
		assert.True(t, r.Zoom())
	})

	t.Run("item", func(t *testing.T) {
		r, _ := newTestRig()
		r.SetEquippedItem(item(false))
		r.TryZoom(true)
		assert.False(t, r.Zoom())
		r.SetEquippedItem(item(true))
		assert.True(t, r.Zoom())
		r.SetEquippedItem(nil)
		assert.True(t, r.Zoom())
	})

	t.Run("no_anchor", func(t *testing.T) {
		r, _ := newTestRig()
		r.SetAnchor(nil)
		r.TryZoom(true)
		assert.False(t, r.Zoom())
	})
}

func TestZoomNarrowsFieldOfView(t *testing.T) {
	r, _ := newTestRig()
	runFrames(r, 1)
	wide := r.FieldOfView()
	r.TryZoom(true)
	runFrames(r, 120)
	assert.InDelta(t, r.Current().FieldOfView(true), r.FieldOfView(), 0.05)
	assert.Less(t, r.FieldOfView(), wide)
}

func TestNilAnchorHoldsPose(t *testing.T) {
	r, anchor := newTestRig()
	pose := runFrames(r, 5)

	r.SetAnchor(nil)
	anchor.SetPosition(mgl32.Vec3{100, 0, 0})
	assert.NotPanics(t, func() {
		assert.Equal(t, pose, r.Update(dt, LookInput{Horizontal: 5}))
		require.NoError(t, r.SetViewType("fp", false))
		assert.Equal(t, pose, r.Update(dt, LookInput{}))
	})

	r.SetAnchor(anchor)
	pose = runFrames(r, 1)
	assert.InDelta(t, 100, pose.Position.X(), 0.5, "per-frame work resumes with an anchor")
}

func TestRotatePriorityOrdering(t *testing.T) {
	tp := view_type.NewThirdPerson("tp",
		view_type.WithLookSmoothing(false),
		view_type.WithPositionSmoothing(false),
		view_type.WithShoulderOffset(mgl32.Vec3{}),
		view_type.WithSensitivity(1, 1),
	)
	r := NewRig(WithViewTypes(tp), WithAnchor(game_object.NewGameObject()), WithDefaultViewType("tp"))

	// with rotate-before-move the boom follows this frame's yaw, not the previous one
	pose := r.Update(dt, LookInput{Horizontal: 90})
	assert.InDelta(t, 90, tp.Yaw(), 1e-4)
	assert.True(t, common.ApproxVec3(pose.Position, mgl32.Vec3{-4, 1.8, 0}, 1e-4), "got %v", pose.Position)
}

func TestForcesReachActiveViewType(t *testing.T) {
	r, _ := newTestRig()
	rest := runFrames(r, 30)
	r.AddPositionalForce(mgl32.Vec3{0, 0, -20})
	kicked := runFrames(r, 1)
	assert.Greater(t, kicked.Position.Sub(rest.Position).Len(), float32(0.01))

	r.AddRotationalForce(mgl32.Vec3{-50, 0, 0})
	kicked = runFrames(r, 1)
	assert.Greater(t, common.QuatAngle(kicked.Rotation, rest.Rotation), float32(0.1))

	r.AddSecondaryRotationalForce(mgl32.Vec3{0, 10, 0}, 1)
	r.AddSecondaryPositionalForce(mgl32.Vec3{}, 1)
	settled := runFrames(r, 600)
	_, yaw := common.PitchYaw(settled.Rotation)
	assert.InDelta(t, 10, common.SignedAngle(yaw-r.Current().Yaw()), 0.1)
}

func TestAimAssistPullsRotation(t *testing.T) {
	s := scene.NewScene()
	aim, err := aim_assist.NewAimAssist(aim_assist.WithWorld(s))
	require.NoError(t, err)
	r, _ := newTestRig(WithAimAssist(aim))
	require.NoError(t, r.SetViewType("fp", true))

	target := s.Add(game_object.NewGameObject(game_object.WithPosition(3, 1.6, 10)))
	require.True(t, r.SetTarget(target))

	before := r.Pose().Rotation
	pose := runFrames(r, 120)
	look := common.LookRotation(mgl32.Vec3{3, 1.6, 10}.Sub(pose.Position))
	assert.Less(t, common.QuatAngle(pose.Rotation, look), common.QuatAngle(before, look))
	assert.Less(t, common.QuatAngle(pose.Rotation, look), float32(1))

	_, yaw := common.PitchYaw(pose.Rotation)
	assert.InDelta(t, yaw, r.Current().Yaw(), 0.1, "the view type is synced to the assisted rotation")
}

func TestAimAssistKeepsLookInput(t *testing.T) {
	turn := func(withTarget bool) float32 {
		s := scene.NewScene()
		aim, err := aim_assist.NewAimAssist(aim_assist.WithWorld(s))
		require.NoError(t, err)
		r, _ := newTestRig(WithAimAssist(aim))
		require.NoError(t, r.SetViewType("fp", true))
		if withTarget {
			// square to the left, outside the influence curve
			target := s.Add(game_object.NewGameObject(game_object.WithPosition(-10, 1.6, 0)))
			require.True(t, r.SetTarget(target))
		}
		for i := 0; i < 60; i++ {
			r.Update(dt, LookInput{Horizontal: 1})
		}
		if withTarget {
			require.True(t, aim.HasTarget())
		}
		_, yaw := common.PitchYaw(r.Pose().Rotation)
		return yaw
	}

	free := turn(false)
	held := turn(true)
	assert.Greater(t, free, float32(30))
	assert.InDelta(t, free, held, 0.5, "a target without pull does not eat look input")
}

func TestZoomDrivesAimActive(t *testing.T) {
	aim, err := aim_assist.NewAimAssist(aim_assist.WithWorld(scene.NewScene()))
	require.NoError(t, err)
	r, _ := newTestRig(WithAimAssist(aim))
	r.TryZoom(true)
	assert.True(t, aim.AimActive())
	r.TryZoom(false)
	assert.False(t, aim.AimActive())
}

func TestApplyWritesCamera(t *testing.T) {
	r, _ := newTestRig()
	pose := runFrames(r, 3)
	cam := camera.NewCamera()
	r.Apply(cam)
	assert.Equal(t, pose, cam.Pose())
	assert.InDelta(t, r.FieldOfView(), cam.FieldOfView(), 1e-5)
}
