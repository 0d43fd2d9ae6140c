package aim_assist

import (
	"errors"
	"log"
	"math"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/curve"
	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrInfluenceIncreasing is returned when the influence curve gains strength with angle.
var ErrInfluenceIncreasing = errors.New("aim_assist: influence curve must be non-increasing")

// TargetWorld is the part of a scene aim assist reads: handle resolution and the bounded
// overlap query used to gather switch candidates.
type TargetWorld interface {
	Resolve(h scene.Handle) (game_object.GameObject, bool)
	OverlapSphere(center mgl32.Vec3, radius float32, mask uint32, results []scene.Handle) int
}

var _ TargetWorld = scene.Scene(nil)

// AimAssist biases the camera rotation toward a selected target and cycles between nearby
// targets. The target is held as a generational handle and re-resolved on every use, so a
// target destroyed by gameplay simply stops being a target.
type AimAssist interface {
	// SetWorld sets the world targets are resolved in. Clears the current target.
	//
	// Parameters:
	//   - world: the target world
	SetWorld(world TargetWorld)

	// SetAnchor sets the character the distance limit is measured from. The anchor is
	// never selected as a switch candidate.
	//
	// Parameters:
	//   - anchor: the character anchor (nil rejects every target)
	SetAnchor(anchor common.Anchor)

	// SetTarget selects a target. It is rejected, and any current target cleared, when aim
	// assist is disabled, when active aim is required but not active, or when the candidate
	// is farther than the maximum distance from the anchor. A distance exactly equal to the
	// maximum is accepted. While a switch is animating the call is refused without changes.
	//
	// Parameters:
	//   - h: the candidate's handle
	//
	// Returns:
	//   - bool: true if the candidate became the target
	SetTarget(h scene.Handle) bool

	// HasTarget reports whether a live target is selected.
	//
	// Returns:
	//   - bool: true if TargetRotation will pull toward a target
	HasTarget() bool

	// Target returns the handle of the current target (the zero Handle when there is none).
	//
	// Returns:
	//   - scene.Handle: the target handle
	Target() scene.Handle

	// TargetPoint returns the world-space point the camera is pulled toward: the bone or
	// root position plus the target's offset.
	//
	// Returns:
	//   - mgl32.Vec3: the aim point
	//   - bool: false if there is no target
	TargetPoint() (mgl32.Vec3, bool)

	// ClearTarget drops the current target and ends any switch in progress.
	ClearTarget()

	// Switching reports whether a target switch is animating.
	//
	// Returns:
	//   - bool: true while the fast switch blend runs
	Switching() bool

	// UpdateBreakForce releases the target if force exceeds the break force.
	//
	// Parameters:
	//   - force: the magnitude of a hit or violent motion
	UpdateBreakForce(force float32)

	// TargetRotation pulls a camera rotation toward the target. During a switch it turns at
	// the fixed switch speed until within the switch epsilon; otherwise it blends by the
	// influence curve evaluated at the angular misalignment. Without a target the rotation
	// is returned unchanged.
	//
	// Parameters:
	//   - cameraPosition: world-space camera position
	//   - current: the camera rotation computed by the view type this frame
	//   - dt: elapsed time in seconds
	//
	// Returns:
	//   - mgl32.Quat: the assisted rotation
	TargetRotation(cameraPosition mgl32.Vec3, current mgl32.Quat, dt float32) mgl32.Quat

	// TrySwitchTargets moves the target to a nearby candidate on the preferred side of the
	// view, falling back to the farthest candidate on the other side. A switch that is still
	// turning the camera refuses another one.
	//
	// Parameters:
	//   - cameraPosition: world-space camera position
	//   - cameraRotation: world-space camera rotation (sides are measured in camera space)
	//   - preferRight: true to look for candidates to the right of the current target
	//
	// Returns:
	//   - bool: true if the target changed
	TrySwitchTargets(cameraPosition mgl32.Vec3, cameraRotation mgl32.Quat, preferRight bool) bool

	// SetAimActive records whether the player is aiming. Releasing aim clears the target
	// when active aim is required.
	//
	// Parameters:
	//   - active: true while aiming
	SetAimActive(active bool)

	// AimActive reports whether the player is aiming.
	//
	// Returns:
	//   - bool: the aim state
	AimActive() bool

	// SetEnabled globally enables or disables aim assist. Disabling clears the target.
	//
	// Parameters:
	//   - enabled: the new state
	SetEnabled(enabled bool)

	// Enabled reports whether aim assist is enabled.
	//
	// Returns:
	//   - bool: the enabled state
	Enabled() bool

	// SetViewFrustum sets the frustum used by the on-screen candidate filter.
	//
	// Parameters:
	//   - frustum: the camera's current frustum
	SetViewFrustum(frustum common.Frustum)

	// Update re-validates the target once per frame: targets that were destroyed, disabled
	// or moved beyond the maximum distance are released.
	Update()
}

type aimAssistImpl struct {
	world  TargetWorld
	anchor common.Anchor

	enabled        bool
	aimActive      bool
	requireAim     bool
	requireVisible bool

	maxDistance   float32
	breakForce    float32
	switchRadius  float32
	switchSpeed   float32
	switchEpsilon float32
	layerMask     uint32
	bone          string
	influence     curve.Curve

	frustum    common.Frustum
	hasFrustum bool

	target    scene.Handle
	switching bool
	// candidates is the bounded overlap buffer; its length is the query capacity.
	candidates []scene.Handle
}

var _ AimAssist = &aimAssistImpl{}

// NewAimAssist creates an AimAssist.
//
// Parameters:
//   - options: functional options to configure aim assist
//
// Returns:
//   - AimAssist: the newly created aim assist
//   - error: ErrInfluenceIncreasing if the influence curve is not non-increasing
func NewAimAssist(options ...AimAssistBuilderOption) (AimAssist, error) {
	a := &aimAssistImpl{
		enabled:       true,
		maxDistance:   30,
		breakForce:    50,
		switchRadius:  10,
		switchSpeed:   360,
		switchEpsilon: 0.5,
		layerMask:     scene.LayerAll,
		influence:     curve.Linear(0, 8, 30, 0),
		candidates:    make([]scene.Handle, 16),
	}
	for _, option := range options {
		option(a)
	}
	if a.influence.Empty() || !a.influence.NonIncreasing() {
		return nil, ErrInfluenceIncreasing
	}
	return a, nil
}

func (a *aimAssistImpl) SetWorld(world TargetWorld) {
	a.world = world
	a.ClearTarget()
}

func (a *aimAssistImpl) SetAnchor(anchor common.Anchor) {
	a.anchor = anchor
}

func (a *aimAssistImpl) SetTarget(h scene.Handle) bool {
	if a.switching {
		return false
	}
	if !a.accept(h) {
		a.ClearTarget()
		return false
	}
	a.target = h
	if obj, ok := a.world.Resolve(h); ok {
		a.checkBone(obj)
	}
	return true
}

// accept applies the target validity rules without changing state.
func (a *aimAssistImpl) accept(h scene.Handle) bool {
	if !a.enabled || a.world == nil || a.anchor == nil {
		return false
	}
	if a.requireAim && !a.aimActive {
		return false
	}
	obj, ok := a.world.Resolve(h)
	if !ok {
		return false
	}
	return a.inRange(obj.Position())
}

// inRange compares squared distances; a candidate exactly at maxDistance is in range.
func (a *aimAssistImpl) inRange(position mgl32.Vec3) bool {
	return common.DistanceSq(a.anchor.Position(), position) <= a.maxDistance*a.maxDistance
}

// resolve returns the live target object, releasing the target if it no longer resolves.
func (a *aimAssistImpl) resolve() (game_object.GameObject, bool) {
	if !a.target.Valid() || a.world == nil {
		return nil, false
	}
	obj, ok := a.world.Resolve(a.target)
	if !ok {
		a.ClearTarget()
		return nil, false
	}
	return obj, true
}

func (a *aimAssistImpl) HasTarget() bool {
	_, ok := a.resolve()
	return ok
}

func (a *aimAssistImpl) Target() scene.Handle {
	return a.target
}

func (a *aimAssistImpl) TargetPoint() (mgl32.Vec3, bool) {
	obj, ok := a.resolve()
	if !ok {
		return mgl32.Vec3{}, false
	}
	return a.aimPoint(obj), true
}

// aimPoint resolves the configured bone on every call so a re-rigged target is followed.
func (a *aimAssistImpl) aimPoint(obj game_object.GameObject) mgl32.Vec3 {
	transform := obj
	if a.bone != "" {
		if bone, ok := obj.Bone(a.bone); ok && bone.Alive() {
			transform = bone
		}
	}
	point := transform.Position()
	if offset, ok := obj.TargetOffset(); ok {
		point = point.Add(transform.Rotation().Rotate(offset))
	}
	return point
}

func (a *aimAssistImpl) ClearTarget() {
	a.target = 0
	a.switching = false
}

func (a *aimAssistImpl) Switching() bool {
	return a.switching
}

func (a *aimAssistImpl) UpdateBreakForce(force float32) {
	if force > a.breakForce {
		a.ClearTarget()
	}
}

func (a *aimAssistImpl) TargetRotation(cameraPosition mgl32.Vec3, current mgl32.Quat, dt float32) mgl32.Quat {
	obj, ok := a.resolve()
	if !ok {
		return current
	}
	look := common.LookRotation(a.aimPoint(obj).Sub(cameraPosition))

	if a.switching {
		next := common.RotateTowards(current, look, a.switchSpeed*max(dt, 0))
		if common.QuatAngle(next, look) < a.switchEpsilon {
			a.switching = false
		}
		return next
	}

	strength := a.influence.Evaluate(common.QuatAngle(current, look))
	if strength <= 0 || dt <= 0 {
		return current
	}
	// strength is a rate per second, so the pull does not depend on the tick rate
	amount := 1 - float32(math.Exp(float64(-strength*dt)))
	return common.Slerp(current, look, amount)
}

func (a *aimAssistImpl) TrySwitchTargets(cameraPosition mgl32.Vec3, cameraRotation mgl32.Quat, preferRight bool) bool {
	if !a.enabled || a.switching {
		return false
	}
	current, ok := a.resolve()
	if !ok {
		return false
	}

	n := a.world.OverlapSphere(current.Position(), a.switchRadius, a.layerMask, a.candidates)
	if n <= 1 {
		return false
	}
	currentLateral := common.InverseTransformPoint(cameraPosition, cameraRotation, current.Position()).X()

	var nearest, farthest scene.Handle
	nearestOffset := float32(math.MaxFloat32)
	farthestOffset := float32(-1)
	for _, h := range a.candidates[:n] {
		if h == a.target {
			continue
		}
		obj, ok := a.world.Resolve(h)
		if !ok || !a.candidate(obj, current) {
			continue
		}
		lateral := common.InverseTransformPoint(cameraPosition, cameraRotation, obj.Position()).X() - currentLateral
		if !preferRight {
			lateral = -lateral
		}
		// lateral is now positive on the preferred side; ties keep the first found
		if lateral > 0 {
			if lateral < nearestOffset {
				nearest, nearestOffset = h, lateral
			}
		} else if -lateral > farthestOffset {
			farthest, farthestOffset = h, -lateral
		}
	}

	next := nearest
	if !next.Valid() {
		next = farthest
	}
	if !next.Valid() {
		return false
	}
	a.target = next
	a.switching = true
	if obj, ok := a.world.Resolve(next); ok {
		a.checkBone(obj)
	}
	return true
}

// candidate applies the switch filters that do not depend on side.
func (a *aimAssistImpl) candidate(obj, current game_object.GameObject) bool {
	if a.anchor != nil && common.Anchor(obj) == a.anchor {
		return false
	}
	if obj.IsChildOf(current) {
		return false
	}
	if a.requireAim && !a.aimActive {
		return false
	}
	if a.anchor == nil || !a.inRange(obj.Position()) {
		return false
	}
	if a.requireVisible && a.hasFrustum && !a.frustum.ContainsPoint(obj.Position()) {
		return false
	}
	return true
}

// checkBone reports a target that lacks the configured bone. Aiming falls back to its root.
func (a *aimAssistImpl) checkBone(obj game_object.GameObject) {
	if a.bone == "" {
		return
	}
	if _, ok := obj.Bone(a.bone); !ok {
		log.Printf("[aim_assist] target %q has no bone %q, aiming at its root", obj.Name(), a.bone)
	}
}

func (a *aimAssistImpl) SetAimActive(active bool) {
	a.aimActive = active
	if !active && a.requireAim {
		a.ClearTarget()
	}
}

func (a *aimAssistImpl) AimActive() bool {
	return a.aimActive
}

func (a *aimAssistImpl) SetEnabled(enabled bool) {
	a.enabled = enabled
	if !enabled {
		a.ClearTarget()
	}
}

func (a *aimAssistImpl) Enabled() bool {
	return a.enabled
}

func (a *aimAssistImpl) SetViewFrustum(frustum common.Frustum) {
	a.frustum = frustum
	a.hasFrustum = true
}

func (a *aimAssistImpl) Update() {
	obj, ok := a.resolve()
	if !ok {
		return
	}
	if !obj.Enabled() || a.anchor == nil || !a.inRange(obj.Position()) {
		a.ClearTarget()
	}
}
