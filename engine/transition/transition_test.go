package transition

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/view_type"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedAnchor struct {
	position mgl32.Vec3
	rotation mgl32.Quat
}

func (a *fixedAnchor) Position() mgl32.Vec3 { return a.position }
func (a *fixedAnchor) Rotation() mgl32.Quat { return a.rotation }

const dt = float32(1) / 60

// activate hands a view type the camera the way the rig does before a blend starts.
func activate(vt view_type.ViewType, anchor common.Anchor, pitch, yaw float32) {
	vt.Initialize(anchor)
	vt.ChangeViewType(true, pitch, yaw, mgl32.QuatIdent())
	if vt.RotatePriority() {
		vt.Rotate(0, 0, 0, true)
		vt.Move(0, true)
	} else {
		vt.Move(0, true)
		vt.Rotate(0, 0, 0, true)
	}
}

func pair() (view_type.ViewType, view_type.ViewType) {
	anchor := &fixedAnchor{rotation: mgl32.QuatIdent()}
	fp := view_type.NewFirstPerson("fp", view_type.WithLookOffset(mgl32.Vec3{0, 1.6, 0}))
	tp := view_type.NewThirdPerson("tp", view_type.WithShoulderOffset(mgl32.Vec3{}))
	activate(fp, anchor, 10, 30)
	activate(tp, anchor, 10, 30)
	return fp, tp
}

func step(tr Transition) (common.Pose, bool) {
	tr.Advance(dt)
	if !tr.IsTransitioning() {
		return tr.Pose(), false
	}
	rot := tr.Rotate(dt, 0, 0, false)
	pos := tr.Move(dt, false)
	return common.Pose{Position: pos, Rotation: rot}, true
}

func TestStartTransitionRefusals(t *testing.T) {
	fp, _ := pair()
	tr := NewTransition()
	assert.False(t, tr.StartTransition(nil, fp))
	assert.False(t, tr.StartTransition(fp, nil))
	assert.False(t, tr.StartTransition(fp, fp))
	assert.False(t, tr.IsTransitioning())
}

func TestBlendEndpointsAndMonotonicApproach(t *testing.T) {
	fp, tp := pair()
	p0 := fp.Pose()
	p1 := tp.Pose()
	require.Greater(t, p1.Position.Sub(p0.Position).Len(), float32(1))

	tr := NewTransition(WithDuration(0.5))
	completed := 0
	tr.OnComplete(func(from, to view_type.ViewType) {
		completed++
		assert.Equal(t, fp, from)
		assert.Equal(t, tp, to)
	})
	require.True(t, tr.StartTransition(fp, tp))

	// t = 0 yields the outgoing pose
	rot := tr.Rotate(0, 0, 0, false)
	pos := tr.Move(0, false)
	assert.True(t, common.Pose{Position: pos, Rotation: rot}.ApproxEqual(p0, 1e-4, 1e-2))

	lastDist := pos.Sub(p1.Position).Len()
	lastAngle := common.QuatAngle(rot, p1.Rotation)
	frames := 0
	for {
		pose, running := step(tr)
		if !running {
			break
		}
		frames++
		d := pose.Position.Sub(p1.Position).Len()
		a := common.QuatAngle(pose.Rotation, p1.Rotation)
		assert.LessOrEqual(t, d, lastDist+1e-5, "frame %d moved away", frames)
		assert.LessOrEqual(t, a, lastAngle+1e-3, "frame %d turned away", frames)
		lastDist, lastAngle = d, a
		require.Less(t, frames, 100)
	}

	assert.InDelta(t, 30, frames, 1, "half a second at 60 Hz")
	assert.False(t, tr.IsTransitioning())
	assert.Equal(t, 1, completed)
	assert.Equal(t, float32(1), tr.Progress())
	assert.True(t, tr.Pose().ApproxEqual(p1, 1e-4, 1e-2), "t >= D yields the incoming pose")
}

func TestRestartContinuesFromBlendedPose(t *testing.T) {
	fp, tp := pair()
	tr := NewTransition(WithDuration(1))
	completed := 0
	tr.OnComplete(func(_, _ view_type.ViewType) { completed++ })

	require.True(t, tr.StartTransition(fp, tp))
	var mid common.Pose
	for i := 0; i < 20; i++ {
		mid, _ = step(tr)
	}
	require.True(t, tr.IsTransitioning())

	// switching back mid-flight restarts from where the camera is now
	require.True(t, tr.StartTransition(tp, fp))
	assert.Equal(t, 0, completed, "the interrupted blend never completes")
	assert.Equal(t, float32(0), tr.Progress())
	assert.True(t, tr.Pose().ApproxEqual(mid, 1e-5, 1e-3))

	rot := tr.Rotate(0, 0, 0, false)
	pos := tr.Move(0, false)
	assert.True(t, common.Pose{Position: pos, Rotation: rot}.ApproxEqual(mid, 1e-4, 1e-2), "no jump on restart")
	assert.Equal(t, fp, tr.Target())
}

func TestStopTransition(t *testing.T) {
	t.Run("without_snap_keeps_pose", func(t *testing.T) {
		fp, tp := pair()
		tr := NewTransition(WithDuration(1))
		completed := 0
		tr.OnComplete(func(_, _ view_type.ViewType) { completed++ })
		require.True(t, tr.StartTransition(fp, tp))
		for i := 0; i < 10; i++ {
			step(tr)
		}
		blended := tr.Pose()
		tr.StopTransition(false)
		assert.False(t, tr.IsTransitioning())
		assert.Equal(t, 0, completed)
		assert.Equal(t, blended, tr.Pose())
	})

	t.Run("with_snap_completes", func(t *testing.T) {
		fp, tp := pair()
		tr := NewTransition(WithDuration(1))
		completed := 0
		tr.OnComplete(func(_, _ view_type.ViewType) { completed++ })
		require.True(t, tr.StartTransition(fp, tp))
		step(tr)
		tr.StopTransition(true)
		tr.StopTransition(true)
		assert.Equal(t, 1, completed, "stopping twice completes once")
		assert.Equal(t, tp.Pose(), tr.Pose())
	})
}

func TestDistanceModeDuration(t *testing.T) {
	fp, tp := pair()
	gap := tp.Pose().Position.Sub(fp.Pose().Position).Len()

	tr := NewTransition(WithSpeed(2), WithDurationBounds(0.1, 10))
	require.True(t, tr.StartTransition(fp, tp))
	assert.InDelta(t, gap/2, tr.Duration(), 1e-4)

	tr = NewTransition(WithSpeed(1000), WithDurationBounds(0.25, 1))
	require.True(t, tr.StartTransition(fp, tp))
	assert.Equal(t, float32(0.25), tr.Duration(), "clamped to the minimum")

	tr = NewTransition(WithSpeed(0.001), WithDurationBounds(0.25, 1))
	require.True(t, tr.StartTransition(fp, tp))
	assert.Equal(t, float32(1), tr.Duration(), "clamped to the maximum")
}

func TestZeroDurationCompletesOnFirstAdvance(t *testing.T) {
	fp, tp := pair()
	tr := NewTransition(WithDuration(0))
	require.True(t, tr.StartTransition(fp, tp))
	tr.Advance(dt)
	assert.False(t, tr.IsTransitioning())
	assert.Equal(t, "distance", ModeDistance.String())
}
