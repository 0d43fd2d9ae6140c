package view_type

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/spring"
	"github.com/go-gl/mathgl/mgl32"
)

// ViewType is a camera strategy. It owns pitch and yaw state, computes a rotation from look
// input and a position from its anchor, and absorbs external impulses through springs.
// A ViewType is Inactive until ChangeViewType(true, ...) and only does per-frame work for
// the rig that activated it.
type ViewType interface {
	// ID returns the registry key of this view type.
	//
	// Returns:
	//   - string: the view type id
	ID() string

	// Initialize binds the view type to the object it follows. Calling it again with the
	// same anchor has no further effect.
	//
	// Parameters:
	//   - anchor: the followed object (nil unbinds)
	Initialize(anchor common.Anchor)

	// Anchor returns the bound anchor, or nil.
	//
	// Returns:
	//   - common.Anchor: the followed object
	Anchor() common.Anchor

	// Rotate applies look input and returns the camera rotation for this frame.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//   - horizontal: yaw input (positive turns right)
	//   - vertical: pitch input (positive looks up)
	//   - immediate: true to skip smoothing and snap to the target rotation
	//
	// Returns:
	//   - mgl32.Quat: the new camera rotation
	Rotate(dt, horizontal, vertical float32, immediate bool) mgl32.Quat

	// Move computes the camera position for this frame.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//   - immediate: true to skip smoothing and snap to the target position
	//
	// Returns:
	//   - mgl32.Vec3: the new camera position
	Move(dt float32, immediate bool) mgl32.Vec3

	// AddPositionalForce adds a camera-local impulse to the positional force spring.
	//
	// Parameters:
	//   - force: impulse in units per second
	AddPositionalForce(force mgl32.Vec3)

	// AddRotationalForce adds an impulse (pitch, yaw, roll degrees per second) to the
	// rotational force spring.
	//
	// Parameters:
	//   - force: impulse in degrees per second
	AddRotationalForce(force mgl32.Vec3)

	// AddSecondaryPositionalForce adds a positional impulse of which restAccumulation
	// (0..1) permanently biases the rest position instead of decaying.
	//
	// Parameters:
	//   - force: impulse in units per second
	//   - restAccumulation: fraction retained as rest bias
	AddSecondaryPositionalForce(force mgl32.Vec3, restAccumulation float32)

	// AddSecondaryRotationalForce adds a rotational impulse of which restAccumulation
	// (0..1) permanently biases the rest rotation instead of decaying.
	//
	// Parameters:
	//   - force: impulse in degrees per second
	//   - restAccumulation: fraction retained as rest bias
	AddSecondaryRotationalForce(force mgl32.Vec3, restAccumulation float32)

	// CanZoom reports whether the view type allows zooming.
	//
	// Returns:
	//   - bool: true if zoom requests may be applied
	CanZoom() bool

	// ChangeViewType activates or deactivates the view type. On activation the pitch and yaw
	// of the outgoing view type seed this one so the hand-off has no angular jump.
	//
	// Parameters:
	//   - activate: true to activate, false to deactivate
	//   - pitch: outgoing pitch in degrees
	//   - yaw: outgoing yaw in degrees
	//   - characterRotation: the anchor's rotation at the time of the switch
	ChangeViewType(activate bool, pitch, yaw float32, characterRotation mgl32.Quat)

	// Active reports whether the view type is currently active.
	//
	// Returns:
	//   - bool: true if active
	Active() bool

	// RotatePriority reports whether Rotate must run before Move each frame.
	//
	// Returns:
	//   - bool: true if the position depends on this frame's rotation
	RotatePriority() bool

	// FirstPersonPerspective reports whether this is a first-person strategy.
	//
	// Returns:
	//   - bool: true for first person
	FirstPersonPerspective() bool

	// Pitch returns the current pitch in degrees, always within the pitch limits.
	//
	// Returns:
	//   - float32: the pitch
	Pitch() float32

	// Yaw returns the current yaw in degrees in [0, 360).
	//
	// Returns:
	//   - float32: the yaw
	Yaw() float32

	// SyncRotation folds an external change of the last rotation (such as an aim assist pull)
	// into pitch and yaw. The change is added to both the current and target angles, so look
	// input that has not been applied yet and the smoothing velocity are kept.
	//
	// Parameters:
	//   - rotation: the externally modified camera rotation
	SyncRotation(rotation mgl32.Quat)

	// Pose returns the last pose computed by Rotate and Move.
	//
	// Returns:
	//   - common.Pose: the camera pose
	Pose() common.Pose

	// FieldOfView returns the vertical field of view in degrees.
	//
	// Parameters:
	//   - zoom: true for the zoomed field of view
	//
	// Returns:
	//   - float32: the field of view
	FieldOfView(zoom bool) float32
}

// Base carries the state shared by every strategy. Custom strategies embed *Base and
// implement Move (and Rotate when the default look behaviour does not fit) with the
// Look and Place helpers.
type Base struct {
	settings *settings

	anchor common.Anchor
	active bool

	pitch       float32
	yaw         float32
	targetPitch float32
	targetYaw   float32

	characterRotation mgl32.Quat

	lookSpring     spring.Spring
	positionSpring spring.Spring

	positionForce    spring.Spring
	rotationForce    spring.Spring
	positionOffset   mgl32.Vec3
	rotationOffset   mgl32.Vec3
	positionRestBias mgl32.Vec3
	rotationRestBias mgl32.Vec3

	position mgl32.Vec3
	pose     common.Pose
	placed   bool
}

// NewBase creates the shared state for a custom strategy.
//
// Parameters:
//   - id: the registry key
//   - options: functional options to configure the strategy
//
// Returns:
//   - *Base: the base to embed
func NewBase(id string, options ...ViewTypeBuilderOption) *Base {
	s := defaultSettings(id)
	for _, option := range options {
		option(s)
	}
	return newBase(s)
}

func newBase(s *settings) *Base {
	return &Base{
		settings:          s,
		characterRotation: mgl32.QuatIdent(),
		lookSpring:        spring.NewSpring(s.lookSpring...),
		positionSpring:    spring.NewSpring(s.positionSpring...),
		positionForce:     spring.NewSpring(s.forceSpring...),
		rotationForce:     spring.NewSpring(s.forceSpring...),
		pose:              common.IdentityPose(),
	}
}

var _ ViewType = &FirstPerson{}
var _ ViewType = &ThirdPerson{}
var _ ViewType = &TopDown{}

func (b *Base) ID() string {
	return b.settings.id
}

func (b *Base) Initialize(anchor common.Anchor) {
	if b.anchor == anchor {
		return
	}
	b.anchor = anchor
	b.placed = false
}

func (b *Base) Anchor() common.Anchor {
	return b.anchor
}

// Rotate is the plain look behaviour: accumulate input, clamp pitch, wrap yaw.
func (b *Base) Rotate(dt, horizontal, vertical float32, immediate bool) mgl32.Quat {
	return b.Look(dt, horizontal, vertical, immediate)
}

// Move places the camera on the anchor.
func (b *Base) Move(dt float32, immediate bool) mgl32.Vec3 {
	if b.anchor == nil {
		return b.pose.Position
	}
	return b.Place(dt, b.anchor.Position(), immediate)
}

// Look applies look input to the pitch and yaw targets, smooths the current angles toward
// them and stores the resulting rotation, including any rotational force offset.
//
// Parameters:
//   - dt: elapsed time in seconds
//   - horizontal: yaw input
//   - vertical: pitch input (positive looks up)
//   - immediate: true to snap
//
// Returns:
//   - mgl32.Quat: the camera rotation
func (b *Base) Look(dt, horizontal, vertical float32, immediate bool) mgl32.Quat {
	s := b.settings
	b.targetYaw = common.WrapAngle(b.targetYaw + horizontal*s.sensitivity.X())
	b.targetPitch = mgl32.Clamp(b.targetPitch-vertical*s.sensitivity.Y(), s.minPitch, s.maxPitch)

	if immediate || !s.smoothLook {
		b.pitch = b.targetPitch
		b.yaw = b.targetYaw
		b.lookSpring.Reset()
	} else {
		// yaw is smoothed on the unwrapped short arc so 359 -> 1 moves through 0
		current := mgl32.Vec3{b.pitch, b.yaw, 0}
		target := mgl32.Vec3{b.targetPitch, b.yaw + common.DeltaAngle(b.yaw, b.targetYaw), 0}
		next := b.lookSpring.Update(current, target, dt)
		b.pitch = mgl32.Clamp(next.X(), s.minPitch, s.maxPitch)
		b.yaw = common.WrapAngle(next.Y())
	}

	if immediate {
		b.rotationForce.Reset()
		b.rotationOffset = b.rotationRestBias
	} else {
		b.rotationOffset = b.rotationForce.Update(b.rotationOffset, b.rotationRestBias, dt)
	}

	pitch := mgl32.Clamp(b.pitch+b.rotationOffset.X(), s.minPitch, s.maxPitch)
	rotation := common.EulerRotation(pitch, b.yaw+b.rotationOffset.Y())
	if roll := b.rotationOffset.Z(); roll != 0 {
		rotation = rotation.Mul(mgl32.QuatRotate(mgl32.DegToRad(roll), common.Forward)).Normalize()
	}
	b.pose.Rotation = rotation
	return rotation
}

// Place smooths the camera toward a desired position and applies the positional force
// offset in camera space. Rotate must have run earlier in the frame for the offset to use
// the current rotation.
//
// Parameters:
//   - dt: elapsed time in seconds
//   - desired: the unsmoothed camera position
//   - immediate: true to snap
//
// Returns:
//   - mgl32.Vec3: the camera position
func (b *Base) Place(dt float32, desired mgl32.Vec3, immediate bool) mgl32.Vec3 {
	if immediate || !b.settings.smoothPosition || !b.placed {
		b.position = desired
		b.positionSpring.Reset()
	} else {
		b.position = b.positionSpring.Update(b.position, desired, dt)
	}
	b.placed = true

	if immediate {
		b.positionForce.Reset()
		b.positionOffset = b.positionRestBias
	} else {
		b.positionOffset = b.positionForce.Update(b.positionOffset, b.positionRestBias, dt)
	}

	b.pose.Position = b.position.Add(b.pose.Rotation.Rotate(b.positionOffset))
	return b.pose.Position
}

func (b *Base) AddPositionalForce(force mgl32.Vec3) {
	b.positionForce.AddForce(force)
}

func (b *Base) AddRotationalForce(force mgl32.Vec3) {
	b.rotationForce.AddForce(force)
}

func (b *Base) AddSecondaryPositionalForce(force mgl32.Vec3, restAccumulation float32) {
	r := mgl32.Clamp(restAccumulation, 0, 1)
	b.positionRestBias = b.positionRestBias.Add(force.Mul(r))
	b.positionForce.AddForce(force.Mul(1 - r))
}

func (b *Base) AddSecondaryRotationalForce(force mgl32.Vec3, restAccumulation float32) {
	r := mgl32.Clamp(restAccumulation, 0, 1)
	b.rotationRestBias = b.rotationRestBias.Add(force.Mul(r))
	b.rotationForce.AddForce(force.Mul(1 - r))
}

// ClearRestBias removes the permanent offsets accumulated by secondary forces.
func (b *Base) ClearRestBias() {
	b.positionRestBias = mgl32.Vec3{}
	b.rotationRestBias = mgl32.Vec3{}
}

func (b *Base) CanZoom() bool {
	return b.settings.canZoom
}

func (b *Base) ChangeViewType(activate bool, pitch, yaw float32, characterRotation mgl32.Quat) {
	b.active = activate
	if !activate {
		return
	}
	b.characterRotation = characterRotation
	b.Seed(pitch, yaw)
	b.placed = false
}

// Seed sets the current and target pitch and yaw and drops any in-flight smoothing and
// transient force offsets. Rest biases are kept.
//
// Parameters:
//   - pitch: pitch in degrees (clamped to the limits)
//   - yaw: yaw in degrees
func (b *Base) Seed(pitch, yaw float32) {
	b.pitch = mgl32.Clamp(common.SignedAngle(pitch), b.settings.minPitch, b.settings.maxPitch)
	b.yaw = common.WrapAngle(yaw)
	b.targetPitch = b.pitch
	b.targetYaw = b.yaw
	b.lookSpring.Reset()
	b.positionSpring.Reset()
	b.positionForce.Reset()
	b.rotationForce.Reset()
	b.positionOffset = b.positionRestBias
	b.rotationOffset = b.rotationRestBias
}

// CharacterRotation returns the anchor rotation recorded at the last activation.
//
// Returns:
//   - mgl32.Quat: the character rotation
func (b *Base) CharacterRotation() mgl32.Quat {
	return b.characterRotation
}

func (b *Base) Active() bool {
	return b.active
}

func (b *Base) RotatePriority() bool {
	return b.settings.rotatePriority
}

func (b *Base) FirstPersonPerspective() bool {
	return b.settings.firstPerson
}

func (b *Base) Pitch() float32 {
	return b.pitch
}

func (b *Base) Yaw() float32 {
	return b.yaw
}

func (b *Base) SyncRotation(rotation mgl32.Quat) {
	fromPitch, fromYaw := common.PitchYaw(b.pose.Rotation)
	toPitch, toYaw := common.PitchYaw(rotation)
	dPitch := common.DeltaAngle(fromPitch, toPitch)
	dYaw := common.DeltaAngle(fromYaw, toYaw)

	// targets shift with the current angles so pending look input and spring velocity survive
	s := b.settings
	b.pitch = mgl32.Clamp(b.pitch+dPitch, s.minPitch, s.maxPitch)
	b.yaw = common.WrapAngle(b.yaw + dYaw)
	b.targetPitch = mgl32.Clamp(b.targetPitch+dPitch, s.minPitch, s.maxPitch)
	b.targetYaw = common.WrapAngle(b.targetYaw + dYaw)
	b.pose.Rotation = rotation
}

func (b *Base) Pose() common.Pose {
	return b.pose
}

func (b *Base) FieldOfView(zoom bool) float32 {
	if zoom {
		return b.settings.zoomFieldOfView
	}
	return b.settings.fieldOfView
}

// PitchLimits returns the pitch clamp range in degrees.
//
// Returns:
//   - min: the lowest pitch
//   - max: the highest pitch
func (b *Base) PitchLimits() (min, max float32) {
	return b.settings.minPitch, b.settings.maxPitch
}
