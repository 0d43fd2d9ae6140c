package rig

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/aim_assist"
	"github.com/Carmen-Shannon/oxy-rig/engine/camera"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
	"github.com/Carmen-Shannon/oxy-rig/engine/spring"
	"github.com/Carmen-Shannon/oxy-rig/engine/transition"
	"github.com/Carmen-Shannon/oxy-rig/engine/view_type"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrViewTypeNotFound is returned when a view type id is not registered.
	ErrViewTypeNotFound = errors.New("rig: view type not found")
	// ErrDuplicateViewType is returned when registering an id twice.
	ErrDuplicateViewType = errors.New("rig: view type already registered")
	// ErrNoAnchor is returned by operations that need an anchor when none is set.
	ErrNoAnchor = errors.New("rig: no anchor")
)

// LookInput is the look input sampled once per tick and fed to both Rotate and Move.
type LookInput struct {
	// Horizontal turns right when positive.
	Horizontal float32
	// Vertical looks up when positive.
	Vertical float32
}

// Ability is a character ability that can veto camera zoom while active.
type Ability interface {
	ID() string
	CanCameraZoom() bool
}

// Item is an equipped item that can veto camera zoom.
type Item interface {
	CanCameraZoom() bool
}

// Rig owns the registered view types and routes the per-frame camera update through the
// active view type or the transition between two of them.
// A Rig is single-threaded: every method must be called from the tick goroutine.
type Rig interface {
	// Register adds a view type to the registry. The first first-person and the first
	// third-person view types registered become the perspective toggle targets unless
	// set explicitly.
	//
	// Parameters:
	//   - vt: the view type to register
	//
	// Returns:
	//   - error: ErrDuplicateViewType if the id is taken
	Register(vt view_type.ViewType) error

	// ViewType looks up a registered view type.
	//
	// Parameters:
	//   - id: the view type id
	//
	// Returns:
	//   - view_type.ViewType: the view type
	//   - bool: false if not registered
	ViewType(id string) (view_type.ViewType, bool)

	// ViewTypeIDs returns the registered ids in sorted order.
	//
	// Returns:
	//   - []string: the ids
	ViewTypeIDs() []string

	// Current returns the active view type, or nil before the first SetViewType.
	//
	// Returns:
	//   - view_type.ViewType: the active view type
	Current() view_type.ViewType

	// SetPerspectiveViewTypes sets which registered view types the perspective toggle uses.
	//
	// Parameters:
	//   - firstPersonID: the first-person view type id
	//   - thirdPersonID: the third-person view type id
	//
	// Returns:
	//   - error: ErrViewTypeNotFound if either id is not registered
	SetPerspectiveViewTypes(firstPersonID, thirdPersonID string) error

	// SetAnchor binds the followed character. A nil anchor disables per-frame work until a
	// valid anchor is supplied; the last pose is held.
	//
	// Parameters:
	//   - anchor: the followed character
	SetAnchor(anchor common.Anchor)

	// Anchor returns the followed character, or nil.
	//
	// Returns:
	//   - common.Anchor: the anchor
	Anchor() common.Anchor

	// SetViewType switches to a registered view type. Switching to the active view type is
	// a no-op. Unless immediate, the switch is blended by the transition.
	//
	// Parameters:
	//   - id: the view type id
	//   - immediate: true to apply the incoming pose at once
	//
	// Returns:
	//   - error: ErrViewTypeNotFound if the id is not registered (state is unchanged)
	SetViewType(id string, immediate bool) error

	// SetPerspective switches between the first- and third-person view types.
	// A no-op unless both are registered.
	//
	// Parameters:
	//   - firstPerson: true for first person
	//   - immediate: true to skip the transition
	//
	// Returns:
	//   - bool: true if a switch started
	SetPerspective(firstPerson, immediate bool) bool

	// TogglePerspective flips between first and third person.
	//
	// Parameters:
	//   - immediate: true to skip the transition
	//
	// Returns:
	//   - bool: true if a switch started
	TogglePerspective(immediate bool) bool

	// FirstPerson reports the perspective last announced to listeners.
	//
	// Returns:
	//   - bool: true for first person
	FirstPerson() bool

	// Update runs one fixed step: advance the transition, rotate and move in the order the
	// authoritative view type asks for, apply aim assist to the rotation, then smooth the
	// field of view. Skipped without an anchor or active view type.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//   - input: look input for this step
	//
	// Returns:
	//   - common.Pose: the camera pose
	Update(dt float32, input LookInput) common.Pose

	// Pose returns the last computed pose.
	//
	// Returns:
	//   - common.Pose: the camera pose
	Pose() common.Pose

	// FieldOfView returns the smoothed field of view in degrees.
	//
	// Returns:
	//   - float32: the field of view
	FieldOfView() float32

	// Apply writes the pose and field of view to a camera. Called at render rate.
	//
	// Parameters:
	//   - cam: the camera to write to
	Apply(cam camera.Camera)

	// TryZoom records the zoom input and applies it unless the active view type, the
	// equipped item or an active ability refuses.
	//
	// Parameters:
	//   - want: true to request zoom
	TryZoom(want bool)

	// ZoomInput returns the last zoom request.
	//
	// Returns:
	//   - bool: true if zoom is requested
	ZoomInput() bool

	// Zoom reports whether zoom is applied.
	//
	// Returns:
	//   - bool: true if zoomed
	Zoom() bool

	// AbilityStarted records an active ability and re-evaluates zoom.
	//
	// Parameters:
	//   - ability: the ability that started
	AbilityStarted(ability Ability)

	// AbilityStopped removes an active ability and re-evaluates zoom.
	//
	// Parameters:
	//   - ability: the ability that stopped
	AbilityStopped(ability Ability)

	// SetEquippedItem sets the equipped item (nil for none) and re-evaluates zoom.
	//
	// Parameters:
	//   - item: the item
	SetEquippedItem(item Item)

	// AddPositionalForce forwards an impulse to the active view type.
	//
	// Parameters:
	//   - force: camera-local impulse
	AddPositionalForce(force mgl32.Vec3)

	// AddRotationalForce forwards an impulse to the active view type.
	//
	// Parameters:
	//   - force: pitch, yaw, roll impulse in degrees per second
	AddRotationalForce(force mgl32.Vec3)

	// AddSecondaryPositionalForce forwards an impulse with rest accumulation.
	//
	// Parameters:
	//   - force: camera-local impulse
	//   - restAccumulation: fraction retained as rest bias
	AddSecondaryPositionalForce(force mgl32.Vec3, restAccumulation float32)

	// AddSecondaryRotationalForce forwards an impulse with rest accumulation.
	//
	// Parameters:
	//   - force: pitch, yaw, roll impulse in degrees per second
	//   - restAccumulation: fraction retained as rest bias
	AddSecondaryRotationalForce(force mgl32.Vec3, restAccumulation float32)

	// Transition returns the configured transition, or nil.
	//
	// Returns:
	//   - transition.Transition: the transition
	Transition() transition.Transition

	// AimAssist returns the configured aim assist, or nil.
	//
	// Returns:
	//   - aim_assist.AimAssist: the aim assist
	AimAssist() aim_assist.AimAssist

	// SetTarget forwards a target selection to aim assist.
	//
	// Parameters:
	//   - h: the candidate handle
	//
	// Returns:
	//   - bool: true if the target was accepted
	SetTarget(h scene.Handle) bool

	// TrySwitchTargets asks aim assist to switch targets relative to the current pose.
	//
	// Parameters:
	//   - preferRight: true to prefer candidates on the right of the view
	//
	// Returns:
	//   - bool: true if the target changed
	TrySwitchTargets(preferRight bool) bool

	// OnPerspectiveChanged registers a listener fired once per first/third-person flip.
	//
	// Parameters:
	//   - listener: receives true for first person
	OnPerspectiveChanged(listener func(firstPerson bool))

	// OnZoomChanged registers a listener fired when the applied zoom changes.
	//
	// Parameters:
	//   - listener: receives the applied zoom state
	OnZoomChanged(listener func(zoom bool))

	// OnViewTypeChanged registers a listener fired when a view type starts or stops.
	//
	// Parameters:
	//   - listener: receives the view type id and true on activation
	OnViewTypeChanged(listener func(id string, activated bool))
}

type rigImpl struct {
	registry      map[string]view_type.ViewType
	firstPersonID string
	thirdPersonID string
	defaultID     string

	current    view_type.ViewType
	transition transition.Transition
	aim        aim_assist.AimAssist
	anchor     common.Anchor

	pose       common.Pose
	fov        float32
	fovSpring  spring.Spring
	fovStarted bool

	// firstPerson is the perspective last announced, so listeners see each flip once.
	firstPerson      bool
	perspectiveKnown bool

	zoomInput bool
	zoom      bool
	abilities map[string]Ability
	item      Item

	perspectiveListeners []func(bool)
	zoomListeners        []func(bool)
	viewTypeListeners    []func(string, bool)

	warnedNoAnchor bool
}

var _ Rig = &rigImpl{}

// driver is the common per-frame surface of a view type and a transition.
type driver interface {
	Rotate(dt, horizontal, vertical float32, immediate bool) mgl32.Quat
	Move(dt float32, immediate bool) mgl32.Vec3
}

// NewRig creates a Rig. If a default view type is configured it is activated immediately.
//
// Parameters:
//   - options: functional options to configure the rig
//
// Returns:
//   - Rig: the newly created rig
func NewRig(options ...RigBuilderOption) Rig {
	r := &rigImpl{
		registry:  make(map[string]view_type.ViewType),
		abilities: make(map[string]Ability),
		pose:      common.IdentityPose(),
		fovSpring: spring.NewSpring(spring.WithStiffness(150), spring.WithDamping(25)),
	}
	for _, option := range options {
		option(r)
	}
	if r.transition != nil {
		r.transition.OnComplete(func(_, to view_type.ViewType) {
			r.announcePerspective(to)
		})
	}
	if r.anchor != nil {
		for _, vt := range r.registry {
			vt.Initialize(r.anchor)
		}
	}
	if r.aim != nil {
		r.aim.SetAnchor(r.anchor)
	}
	if r.defaultID != "" {
		if err := r.SetViewType(r.defaultID, true); err != nil {
			log.Printf("[rig] default view type: %v", err)
		}
	}
	return r
}

func (r *rigImpl) Register(vt view_type.ViewType) error {
	if vt == nil {
		return errors.New("rig: nil view type")
	}
	id := vt.ID()
	if _, ok := r.registry[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateViewType, id)
	}
	r.registry[id] = vt
	if r.anchor != nil {
		vt.Initialize(r.anchor)
	}
	if vt.FirstPersonPerspective() && r.firstPersonID == "" {
		r.firstPersonID = id
	}
	if !vt.FirstPersonPerspective() && r.thirdPersonID == "" {
		r.thirdPersonID = id
	}
	return nil
}

func (r *rigImpl) ViewType(id string) (view_type.ViewType, bool) {
	vt, ok := r.registry[id]
	return vt, ok
}

func (r *rigImpl) ViewTypeIDs() []string {
	ids := make([]string, 0, len(r.registry))
	for id := range r.registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *rigImpl) Current() view_type.ViewType {
	return r.current
}

func (r *rigImpl) SetPerspectiveViewTypes(firstPersonID, thirdPersonID string) error {
	for _, id := range []string{firstPersonID, thirdPersonID} {
		if _, ok := r.registry[id]; !ok {
			return fmt.Errorf("%w: %q", ErrViewTypeNotFound, id)
		}
	}
	r.firstPersonID = firstPersonID
	r.thirdPersonID = thirdPersonID
	return nil
}

func (r *rigImpl) SetAnchor(anchor common.Anchor) {
	r.anchor = anchor
	for _, vt := range r.registry {
		vt.Initialize(anchor)
	}
	if r.aim != nil {
		r.aim.SetAnchor(anchor)
	}
	if anchor != nil {
		r.warnedNoAnchor = false
		if r.current != nil && !r.isTransitioning() {
			r.prime(r.current)
			r.pose = r.current.Pose()
		}
	}
	r.reevaluateZoom()
}

func (r *rigImpl) Anchor() common.Anchor {
	return r.anchor
}

func (r *rigImpl) SetViewType(id string, immediate bool) error {
	incoming, ok := r.registry[id]
	if !ok {
		log.Printf("[rig] view type %q is not registered", id)
		return fmt.Errorf("%w: %q", ErrViewTypeNotFound, id)
	}
	if incoming == r.current {
		return nil
	}

	characterRotation := mgl32.QuatIdent()
	if r.anchor != nil {
		characterRotation = r.anchor.Rotation()
	}

	outgoing := r.current
	var pitch, yaw float32
	if outgoing != nil {
		pitch, yaw = outgoing.Pitch(), outgoing.Yaw()
		outgoing.ChangeViewType(false, pitch, yaw, characterRotation)
		r.notifyViewType(outgoing.ID(), false)
	} else {
		_, yaw = common.PitchYaw(characterRotation)
	}

	incoming.Initialize(r.anchor)
	incoming.ChangeViewType(true, pitch, yaw, characterRotation)
	r.current = incoming
	r.notifyViewType(incoming.ID(), true)

	if r.anchor != nil {
		r.prime(incoming)
	}

	blend := !immediate && r.transition != nil && outgoing != nil && r.anchor != nil
	if blend && r.transition.StartTransition(outgoing, incoming) {
		r.pose = r.transition.Pose()
	} else {
		if r.isTransitioning() {
			r.transition.StopTransition(false)
		}
		if r.anchor != nil {
			r.pose = incoming.Pose()
		}
		r.announcePerspective(incoming)
	}

	if immediate {
		r.fov = incoming.FieldOfView(r.zoom)
		r.fovSpring.Reset()
		r.fovStarted = true
	}
	r.reevaluateZoom()
	return nil
}

// prime computes a freshly activated view type's pose without smoothing, in its own order.
func (r *rigImpl) prime(vt view_type.ViewType) {
	if vt.RotatePriority() {
		vt.Rotate(0, 0, 0, true)
		vt.Move(0, true)
		return
	}
	vt.Move(0, true)
	vt.Rotate(0, 0, 0, true)
}

func (r *rigImpl) isTransitioning() bool {
	return r.transition != nil && r.transition.IsTransitioning()
}

// announcePerspective notifies listeners only when the perspective flag actually flips.
func (r *rigImpl) announcePerspective(vt view_type.ViewType) {
	firstPerson := vt.FirstPersonPerspective()
	if !r.perspectiveKnown {
		r.firstPerson = firstPerson
		r.perspectiveKnown = true
		return
	}
	if firstPerson == r.firstPerson {
		return
	}
	r.firstPerson = firstPerson
	for _, listener := range r.perspectiveListeners {
		listener(firstPerson)
	}
}

func (r *rigImpl) SetPerspective(firstPerson, immediate bool) bool {
	if r.firstPersonID == "" || r.thirdPersonID == "" {
		return false
	}
	id := r.thirdPersonID
	if firstPerson {
		id = r.firstPersonID
	}
	if r.current != nil && r.current.ID() == id {
		return false
	}
	return r.SetViewType(id, immediate) == nil
}

func (r *rigImpl) TogglePerspective(immediate bool) bool {
	firstPerson := false
	if r.current != nil {
		firstPerson = r.current.FirstPersonPerspective()
	}
	return r.SetPerspective(!firstPerson, immediate)
}

func (r *rigImpl) FirstPerson() bool {
	return r.firstPerson
}

func (r *rigImpl) Update(dt float32, input LookInput) common.Pose {
	if r.anchor == nil {
		if !r.warnedNoAnchor {
			log.Printf("[rig] %v, holding the last pose", ErrNoAnchor)
			r.warnedNoAnchor = true
		}
		return r.pose
	}
	if r.current == nil {
		return r.pose
	}

	if r.transition != nil {
		r.transition.Advance(dt)
	}

	var d driver = r.current
	transitioning := r.isTransitioning()
	if transitioning {
		d = r.transition
	}

	var rotation mgl32.Quat
	var position mgl32.Vec3
	if r.current.RotatePriority() {
		rotation = d.Rotate(dt, input.Horizontal, input.Vertical, false)
		position = d.Move(dt, false)
	} else {
		position = d.Move(dt, false)
		rotation = d.Rotate(dt, input.Horizontal, input.Vertical, false)
	}

	if r.aim != nil {
		r.aim.Update()
		if !transitioning && r.aim.HasTarget() {
			rotation = r.aim.TargetRotation(position, rotation, dt)
			r.current.SyncRotation(rotation)
		}
	}

	target := r.current.FieldOfView(r.zoom)
	if !r.fovStarted {
		r.fov = target
		r.fovStarted = true
	} else {
		r.fov = r.fovSpring.UpdateScalar(r.fov, target, dt)
	}

	r.pose = common.Pose{Position: position, Rotation: rotation}
	return r.pose
}

func (r *rigImpl) Pose() common.Pose {
	return r.pose
}

func (r *rigImpl) FieldOfView() float32 {
	return r.fov
}

func (r *rigImpl) Apply(cam camera.Camera) {
	if cam == nil {
		return
	}
	cam.SetPose(r.pose)
	if r.fovStarted {
		cam.SetFieldOfView(r.fov)
	}
	if r.aim != nil {
		r.aim.SetViewFrustum(cam.Frustum())
	}
}

func (r *rigImpl) TryZoom(want bool) {
	r.zoomInput = want
	r.reevaluateZoom()
}

func (r *rigImpl) ZoomInput() bool {
	return r.zoomInput
}

func (r *rigImpl) Zoom() bool {
	return r.zoom
}

// canZoom is the conjunction of every zoom veto.
func (r *rigImpl) canZoom() bool {
	if r.anchor == nil || r.current == nil || !r.current.CanZoom() {
		return false
	}
	if r.item != nil && !r.item.CanCameraZoom() {
		return false
	}
	for _, ability := range r.abilities {
		if !ability.CanCameraZoom() {
			return false
		}
	}
	return true
}

func (r *rigImpl) reevaluateZoom() {
	zoom := r.zoomInput && r.canZoom()
	if zoom == r.zoom {
		return
	}
	r.zoom = zoom
	if r.aim != nil {
		r.aim.SetAimActive(zoom)
	}
	for _, listener := range r.zoomListeners {
		listener(zoom)
	}
}

func (r *rigImpl) AbilityStarted(ability Ability) {
	if ability == nil {
		return
	}
	r.abilities[ability.ID()] = ability
	r.reevaluateZoom()
}

func (r *rigImpl) AbilityStopped(ability Ability) {
	if ability == nil {
		return
	}
	delete(r.abilities, ability.ID())
	r.reevaluateZoom()
}

func (r *rigImpl) SetEquippedItem(item Item) {
	r.item = item
	r.reevaluateZoom()
}

func (r *rigImpl) AddPositionalForce(force mgl32.Vec3) {
	if r.current != nil {
		r.current.AddPositionalForce(force)
	}
}

func (r *rigImpl) AddRotationalForce(force mgl32.Vec3) {
	if r.current != nil {
		r.current.AddRotationalForce(force)
	}
}

func (r *rigImpl) AddSecondaryPositionalForce(force mgl32.Vec3, restAccumulation float32) {
	if r.current != nil {
		r.current.AddSecondaryPositionalForce(force, restAccumulation)
	}
}

func (r *rigImpl) AddSecondaryRotationalForce(force mgl32.Vec3, restAccumulation float32) {
	if r.current != nil {
		r.current.AddSecondaryRotationalForce(force, restAccumulation)
	}
}

func (r *rigImpl) Transition() transition.Transition {
	return r.transition
}

func (r *rigImpl) AimAssist() aim_assist.AimAssist {
	return r.aim
}

func (r *rigImpl) SetTarget(h scene.Handle) bool {
	if r.aim == nil {
		return false
	}
	return r.aim.SetTarget(h)
}

func (r *rigImpl) TrySwitchTargets(preferRight bool) bool {
	if r.aim == nil {
		return false
	}
	return r.aim.TrySwitchTargets(r.pose.Position, r.pose.Rotation, preferRight)
}

func (r *rigImpl) OnPerspectiveChanged(listener func(firstPerson bool)) {
	if listener != nil {
		r.perspectiveListeners = append(r.perspectiveListeners, listener)
	}
}

func (r *rigImpl) OnZoomChanged(listener func(zoom bool)) {
	if listener != nil {
		r.zoomListeners = append(r.zoomListeners, listener)
	}
}

func (r *rigImpl) OnViewTypeChanged(listener func(id string, activated bool)) {
	if listener != nil {
		r.viewTypeListeners = append(r.viewTypeListeners, listener)
	}
}

func (r *rigImpl) notifyViewType(id string, activated bool) {
	for _, listener := range r.viewTypeListeners {
		listener(id, activated)
	}
}
