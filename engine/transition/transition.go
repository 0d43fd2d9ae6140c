package transition

import (
	"log"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/view_type"
	"github.com/go-gl/mathgl/mgl32"
)

// Mode selects how a transition's duration is derived.
type Mode int

const (
	// ModeTime blends over a fixed duration.
	ModeTime Mode = iota
	// ModeDistance derives the duration from the gap between the two poses and a speed.
	ModeDistance
)

func (m Mode) String() string {
	switch m {
	case ModeTime:
		return "time"
	case ModeDistance:
		return "distance"
	}
	return "unknown"
}

// Transition temporarily owns the camera while the rig switches between two view types.
// It blends from the outgoing pose to the incoming view type's live pose with an eased
// progress value, then hands the camera back to the incoming view type.
type Transition interface {
	// StartTransition begins blending from one view type to another. If a transition is
	// already running it is stopped without snapping and the new one starts from the
	// current blended pose.
	//
	// Parameters:
	//   - from: the outgoing view type (its last pose is the blend start)
	//   - to: the incoming view type (already activated by the caller)
	//
	// Returns:
	//   - bool: false if the transition cannot start (missing or identical view types)
	StartTransition(from, to view_type.ViewType) bool

	// IsTransitioning reports whether a blend is in progress.
	//
	// Returns:
	//   - bool: true while blending
	IsTransitioning() bool

	// Advance moves the normalized progress forward by dt. When progress reaches one the
	// transition completes: the camera is handed back to the incoming view type and the
	// completion callback fires.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Advance(dt float32)

	// Rotate updates the incoming view type and returns the blended rotation.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//   - horizontal: yaw input forwarded to the incoming view type
	//   - vertical: pitch input forwarded to the incoming view type
	//   - immediate: forwarded to the incoming view type
	//
	// Returns:
	//   - mgl32.Quat: the blended rotation
	Rotate(dt, horizontal, vertical float32, immediate bool) mgl32.Quat

	// Move updates the incoming view type and returns the blended position.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//   - immediate: forwarded to the incoming view type
	//
	// Returns:
	//   - mgl32.Vec3: the blended position
	Move(dt float32, immediate bool) mgl32.Vec3

	// StopTransition ends the blend. With snapToTarget the transition completes as if
	// progress had reached one; without it the current blended pose is kept and no
	// completion callback fires.
	//
	// Parameters:
	//   - snapToTarget: true to complete onto the incoming view type
	StopTransition(snapToTarget bool)

	// Progress returns the linear normalized progress in [0, 1].
	//
	// Returns:
	//   - float32: the progress
	Progress() float32

	// Duration returns the duration of the current or last blend in seconds.
	//
	// Returns:
	//   - float32: the duration
	Duration() float32

	// Pose returns the last blended pose.
	//
	// Returns:
	//   - common.Pose: the blended pose
	Pose() common.Pose

	// Target returns the incoming view type of the current or last blend.
	//
	// Returns:
	//   - view_type.ViewType: the incoming view type, or nil
	Target() view_type.ViewType

	// OnComplete registers a callback fired when a blend completes.
	//
	// Parameters:
	//   - callback: receives the outgoing and incoming view types
	OnComplete(callback func(from, to view_type.ViewType))
}

type transitionImpl struct {
	mode        Mode
	duration    float32
	speed       float32
	minDuration float32
	maxDuration float32
	easing      func(float32) float32

	transitioning bool
	from          view_type.ViewType
	to            view_type.ViewType
	start         common.Pose
	pose          common.Pose
	elapsed       float32
	length        float32

	onComplete []func(from, to view_type.ViewType)
}

var _ Transition = &transitionImpl{}

// NewTransition creates a Transition. The default is a half-second time-based ease-in-out.
//
// Parameters:
//   - options: functional options to configure the transition
//
// Returns:
//   - Transition: the newly created transition
func NewTransition(options ...TransitionBuilderOption) Transition {
	t := &transitionImpl{
		mode:        ModeTime,
		duration:    0.5,
		speed:       10,
		minDuration: 0.1,
		maxDuration: 1.5,
		easing:      common.EaseInOut,
		pose:        common.IdentityPose(),
	}
	for _, option := range options {
		option(t)
	}
	if t.maxDuration < t.minDuration {
		t.maxDuration = t.minDuration
	}
	return t
}

func (t *transitionImpl) StartTransition(from, to view_type.ViewType) bool {
	if from == nil || to == nil {
		log.Printf("[transition] refused: missing view type (from=%v to=%v)", from != nil, to != nil)
		return false
	}
	if from == to {
		return false
	}

	start := from.Pose()
	if t.transitioning {
		t.StopTransition(false)
		start = t.pose
	}

	t.from = from
	t.to = to
	t.start = start
	t.pose = start
	t.elapsed = 0
	t.length = t.blendLength(start, to.Pose())
	t.transitioning = true
	return true
}

func (t *transitionImpl) blendLength(start, end common.Pose) float32 {
	if t.mode == ModeDistance {
		if t.speed <= 0 {
			return t.maxDuration
		}
		gap := end.Position.Sub(start.Position).Len()
		return mgl32.Clamp(gap/t.speed, t.minDuration, t.maxDuration)
	}
	return max(t.duration, 0)
}

func (t *transitionImpl) IsTransitioning() bool {
	return t.transitioning
}

func (t *transitionImpl) Advance(dt float32) {
	if !t.transitioning {
		return
	}
	t.elapsed += max(dt, 0)
	if t.Progress() >= 1 {
		t.StopTransition(true)
	}
}

func (t *transitionImpl) eased() float32 {
	return t.easing(t.Progress())
}

func (t *transitionImpl) Rotate(dt, horizontal, vertical float32, immediate bool) mgl32.Quat {
	if !t.transitioning {
		return t.pose.Rotation
	}
	end := t.to.Rotate(dt, horizontal, vertical, immediate)
	t.pose.Rotation = common.Slerp(t.start.Rotation, end, t.eased())
	return t.pose.Rotation
}

func (t *transitionImpl) Move(dt float32, immediate bool) mgl32.Vec3 {
	if !t.transitioning {
		return t.pose.Position
	}
	end := t.to.Move(dt, immediate)
	t.pose.Position = common.Lerp(t.start.Position, end, t.eased())
	return t.pose.Position
}

func (t *transitionImpl) StopTransition(snapToTarget bool) {
	if !t.transitioning {
		return
	}
	t.transitioning = false
	if !snapToTarget {
		return
	}
	t.elapsed = t.length
	t.pose = t.to.Pose()
	for _, callback := range t.onComplete {
		callback(t.from, t.to)
	}
}

func (t *transitionImpl) Progress() float32 {
	if t.length <= 0 {
		return 1
	}
	return mgl32.Clamp(t.elapsed/t.length, 0, 1)
}

func (t *transitionImpl) Duration() float32 {
	return t.length
}

func (t *transitionImpl) Pose() common.Pose {
	return t.pose
}

func (t *transitionImpl) Target() view_type.ViewType {
	return t.to
}

func (t *transitionImpl) OnComplete(callback func(from, to view_type.ViewType)) {
	if callback != nil {
		t.onComplete = append(t.onComplete, callback)
	}
}
