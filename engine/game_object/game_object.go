package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LayerDefault is the layer bit assigned to objects created without WithLayer.
const LayerDefault uint32 = 1

type gameObject struct {
	mu *sync.RWMutex

	id      uint64
	name    string
	enabled atomic.Bool
	alive   atomic.Bool
	layer   uint32

	// local transform relative to parent (world transform when parent is nil)
	localPosition mgl32.Vec3
	localRotation mgl32.Quat

	parent   *gameObject
	children []*gameObject
	bones    map[string]*gameObject

	hasTargetOffset bool
	targetOffset    mgl32.Vec3
}

// GameObject defines the interface for a gameplay transform the camera rig can follow or target.
// Objects form a parent/child hierarchy; world position and rotation are composed from the chain.
// A destroyed object reports Alive() == false and must not be dereferenced by holders of weak handles.
// Thread-safe for concurrent access.
type GameObject interface {
	common.Anchor

	// ID returns the object's identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the object's name.
	//
	// Returns:
	//   - string: the object name
	Name() string

	// Enabled returns whether this object takes part in spatial queries.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether this object takes part in spatial queries.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Alive returns false once Destroy has been called.
	//
	// Returns:
	//   - bool: true until destroyed
	Alive() bool

	// Destroy marks this object and all of its descendants as no longer alive.
	Destroy()

	// Layer returns the object's layer bits, used to filter spatial queries.
	//
	// Returns:
	//   - uint32: layer bit mask
	Layer() uint32

	// SetPosition sets the object's world-space position.
	//
	// Parameters:
	//   - p: new world position
	SetPosition(p mgl32.Vec3)

	// SetRotation sets the object's world-space rotation.
	//
	// Parameters:
	//   - q: new world rotation
	SetRotation(q mgl32.Quat)

	// LocalPosition returns the position relative to the parent.
	//
	// Returns:
	//   - mgl32.Vec3: local position
	LocalPosition() mgl32.Vec3

	// SetLocalPosition sets the position relative to the parent.
	//
	// Parameters:
	//   - p: new local position
	SetLocalPosition(p mgl32.Vec3)

	// Parent returns the parent object, or nil for a root.
	//
	// Returns:
	//   - GameObject: the parent or nil
	Parent() GameObject

	// SetParent re-parents this object, keeping its local transform. Pass nil to detach.
	// Cycles are refused and leave the hierarchy unchanged.
	//
	// Parameters:
	//   - parent: the new parent, or nil
	//
	// Returns:
	//   - bool: false if the change would create a cycle
	SetParent(parent GameObject) bool

	// Children returns a copy of the direct children.
	//
	// Returns:
	//   - []GameObject: the children
	Children() []GameObject

	// IsChildOf reports whether this object is a strict descendant of other.
	//
	// Parameters:
	//   - other: the candidate ancestor
	//
	// Returns:
	//   - bool: true if other appears in this object's parent chain
	IsChildOf(other GameObject) bool

	// Bone returns a named bone registered with AddBone or WithBone.
	//
	// Parameters:
	//   - name: bone name
	//
	// Returns:
	//   - GameObject: the bone transform
	//   - bool: false if no bone with that name exists
	Bone(name string) (GameObject, bool)

	// AddBone registers a child object as a named bone of this object.
	//
	// Parameters:
	//   - name: bone name
	//   - bone: the bone object; it is parented to this object
	AddBone(name string, bone GameObject)

	// TargetOffset returns the optional per-target aim offset, in the object's local space.
	//
	// Returns:
	//   - mgl32.Vec3: the offset
	//   - bool: false if the object carries no offset
	TargetOffset() (mgl32.Vec3, bool)

	// SetTargetOffset attaches an aim offset to the object.
	//
	// Parameters:
	//   - offset: local-space offset
	SetTargetOffset(offset mgl32.Vec3)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject at the origin configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:            &sync.RWMutex{},
		layer:         LayerDefault,
		localRotation: mgl32.QuatIdent(),
		bones:         make(map[string]*gameObject),
	}
	obj.enabled.Store(true)
	obj.alive.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Alive() bool {
	return g.alive.Load()
}

func (g *gameObject) Destroy() {
	g.alive.Store(false)
	for _, c := range g.childrenSnapshot() {
		c.Destroy()
	}
}

func (g *gameObject) Layer() uint32 {
	return g.layer
}

// worldTransform composes the world transform from the parent chain.
func (g *gameObject) worldTransform() (mgl32.Vec3, mgl32.Quat) {
	g.mu.RLock()
	pos, rot, parent := g.localPosition, g.localRotation, g.parent
	g.mu.RUnlock()
	if parent == nil {
		return pos, rot
	}
	pp, pr := parent.worldTransform()
	return pp.Add(pr.Rotate(pos)), pr.Mul(rot).Normalize()
}

func (g *gameObject) Position() mgl32.Vec3 {
	p, _ := g.worldTransform()
	return p
}

func (g *gameObject) Rotation() mgl32.Quat {
	_, r := g.worldTransform()
	return r
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.mu.RLock()
	parent := g.parent
	g.mu.RUnlock()
	if parent != nil {
		pp, pr := parent.worldTransform()
		p = pr.Inverse().Rotate(p.Sub(pp))
	}
	g.mu.Lock()
	g.localPosition = p
	g.mu.Unlock()
}

func (g *gameObject) SetRotation(q mgl32.Quat) {
	g.mu.RLock()
	parent := g.parent
	g.mu.RUnlock()
	if parent != nil {
		_, pr := parent.worldTransform()
		q = pr.Inverse().Mul(q)
	}
	g.mu.Lock()
	g.localRotation = q.Normalize()
	g.mu.Unlock()
}

func (g *gameObject) LocalPosition() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.localPosition
}

func (g *gameObject) SetLocalPosition(p mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.localPosition = p
}

func (g *gameObject) Parent() GameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.parent == nil {
		return nil
	}
	return g.parent
}

func (g *gameObject) SetParent(parent GameObject) bool {
	var p *gameObject
	if parent != nil {
		var ok bool
		p, ok = parent.(*gameObject)
		if !ok || p == g || p.IsChildOf(g) {
			return false
		}
	}

	g.mu.Lock()
	old := g.parent
	g.parent = p
	g.mu.Unlock()

	if old != nil {
		old.removeChild(g)
	}
	if p != nil {
		p.mu.Lock()
		p.children = append(p.children, g)
		p.mu.Unlock()
	}
	return true
}

func (g *gameObject) removeChild(child *gameObject) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, c := range g.children {
		if c == child {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return
		}
	}
}

func (g *gameObject) childrenSnapshot() []*gameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	cp := make([]*gameObject, len(g.children))
	copy(cp, g.children)
	return cp
}

func (g *gameObject) Children() []GameObject {
	snap := g.childrenSnapshot()
	out := make([]GameObject, len(snap))
	for i, c := range snap {
		out[i] = c
	}
	return out
}

func (g *gameObject) IsChildOf(other GameObject) bool {
	o, ok := other.(*gameObject)
	if !ok || o == nil {
		return false
	}
	g.mu.RLock()
	cur := g.parent
	g.mu.RUnlock()
	for cur != nil {
		if cur == o {
			return true
		}
		cur.mu.RLock()
		next := cur.parent
		cur.mu.RUnlock()
		cur = next
	}
	return false
}

func (g *gameObject) Bone(name string) (GameObject, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	b, ok := g.bones[name]
	if !ok {
		return nil, false
	}
	return b, true
}

func (g *gameObject) AddBone(name string, bone GameObject) {
	b, ok := bone.(*gameObject)
	if !ok || b == nil {
		return
	}
	if !b.SetParent(g) {
		return
	}
	g.mu.Lock()
	g.bones[name] = b
	g.mu.Unlock()
}

func (g *gameObject) TargetOffset() (mgl32.Vec3, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.targetOffset, g.hasTargetOffset
}

func (g *gameObject) SetTargetOffset(offset mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.targetOffset = offset
	g.hasTargetOffset = true
}
