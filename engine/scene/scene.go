package scene

import (
	"strconv"
	"sync"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
)

// LayerAll matches every layer in a spatial query mask.
const LayerAll uint32 = ^uint32(0)

// Handle is a generational, non-owning reference to an object registered in a Scene.
// The low 32 bits hold the slot index, the high 32 bits the slot generation.
// A Handle stays safe to hold after its object is removed: Resolve simply fails.
type Handle uint64

const slotBits = 32

func makeHandle(slot, gen uint32) Handle {
	return Handle(uint64(gen)<<slotBits | uint64(slot))
}

func (h Handle) slot() uint32 {
	return uint32(h)
}

func (h Handle) generation() uint32 {
	return uint32(uint64(h) >> slotBits)
}

// Valid reports whether the handle was ever issued. The zero Handle is never issued.
func (h Handle) Valid() bool {
	return h.generation() > 0
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h.slot()), 10) + "v" + strconv.FormatUint(uint64(h.generation()), 10)
}

type slot struct {
	gen uint32
	obj game_object.GameObject
}

type sceneImpl struct {
	mu *sync.RWMutex

	name   string
	active bool

	slots []slot
	free  []uint32
	count int
}

// Scene is a registry of GameObjects addressed by generational handles, with a bounded
// sphere-overlap query used to gather aim-assist candidates.
// Iteration and query order is slot order, so results are deterministic for a given
// sequence of Add/Remove calls. Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether the scene currently takes part in queries.
	Active() bool

	// SetActive sets whether the scene takes part in queries.
	SetActive(active bool)

	// Add registers a GameObject and returns its handle.
	//
	// Parameters:
	//   - obj: the object to register (nil is ignored and yields the zero Handle)
	//
	// Returns:
	//   - Handle: the assigned handle
	Add(obj game_object.GameObject) Handle

	// Remove unregisters the object behind a handle. Outstanding copies of the handle stop resolving.
	//
	// Parameters:
	//   - h: the handle to remove
	//
	// Returns:
	//   - bool: false if the handle was stale or unknown
	Remove(h Handle) bool

	// Resolve returns the live object behind a handle.
	// Fails for stale generations, removed slots and objects that have been destroyed.
	//
	// Parameters:
	//   - h: the handle to resolve
	//
	// Returns:
	//   - game_object.GameObject: the object
	//   - bool: false if the handle no longer refers to a live object
	Resolve(h Handle) (game_object.GameObject, bool)

	// HandleOf finds the handle of a registered object.
	//
	// Parameters:
	//   - obj: the object to look up
	//
	// Returns:
	//   - Handle: the object's handle
	//   - bool: false if the object is not registered
	HandleOf(obj game_object.GameObject) (Handle, bool)

	// Count returns the number of registered objects.
	//
	// Returns:
	//   - int: registered object count
	Count() int

	// Each calls fn for every registered live object in slot order until fn returns false.
	//
	// Parameters:
	//   - fn: visitor receiving the handle and object
	Each(fn func(h Handle, obj game_object.GameObject) bool)

	// OverlapSphere collects handles of enabled, live objects whose position lies within radius
	// of center (inclusive) and whose layer intersects mask. At most len(results) handles are
	// written; objects beyond capacity are dropped.
	//
	// Parameters:
	//   - center: world-space sphere center
	//   - radius: sphere radius
	//   - mask: layer mask (LayerAll for every layer)
	//   - results: caller-owned buffer that bounds the query
	//
	// Returns:
	//   - int: the number of handles written
	OverlapSphere(center mgl32.Vec3, radius float32, mask uint32, results []Handle) int

	// Clear removes every object. All outstanding handles stop resolving.
	Clear()
}

var _ Scene = &sceneImpl{}

// NewScene creates an empty Scene.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &sceneImpl{
		mu:     &sync.RWMutex{},
		name:   "scene",
		active: true,
		slots:  make([]slot, 0, 64),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *sceneImpl) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *sceneImpl) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *sceneImpl) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *sceneImpl) Add(obj game_object.GameObject) Handle {
	if obj == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(obj)
}

// addLocked stores obj in a free slot (or a new one) and bumps the slot generation.
// Caller must hold the write lock.
func (s *sceneImpl) addLocked(obj game_object.GameObject) Handle {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.slots = append(s.slots, slot{})
		idx = uint32(len(s.slots) - 1)
	}
	sl := &s.slots[idx]
	sl.gen++
	sl.obj = obj
	s.count++
	return makeHandle(idx, sl.gen)
}

func (s *sceneImpl) Remove(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.lookupLocked(h)
	if !ok {
		return false
	}
	sl.obj = nil
	s.free = append(s.free, h.slot())
	s.count--
	return true
}

// lookupLocked returns the slot a handle refers to if its generation matches.
// Caller must hold the lock.
func (s *sceneImpl) lookupLocked(h Handle) (*slot, bool) {
	if !h.Valid() || int(h.slot()) >= len(s.slots) {
		return nil, false
	}
	sl := &s.slots[h.slot()]
	if sl.gen != h.generation() || sl.obj == nil {
		return nil, false
	}
	return sl, true
}

func (s *sceneImpl) Resolve(h Handle) (game_object.GameObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.lookupLocked(h)
	if !ok || !sl.obj.Alive() {
		return nil, false
	}
	return sl.obj, true
}

func (s *sceneImpl) HandleOf(obj game_object.GameObject) (Handle, bool) {
	if obj == nil {
		return 0, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, sl := range s.slots {
		if sl.obj == obj {
			return makeHandle(uint32(i), sl.gen), true
		}
	}
	return 0, false
}

func (s *sceneImpl) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

func (s *sceneImpl) Each(fn func(h Handle, obj game_object.GameObject) bool) {
	s.mu.RLock()
	snapshot := make([]slot, len(s.slots))
	copy(snapshot, s.slots)
	s.mu.RUnlock()

	for i, sl := range snapshot {
		if sl.obj == nil || !sl.obj.Alive() {
			continue
		}
		if !fn(makeHandle(uint32(i), sl.gen), sl.obj) {
			return
		}
	}
}

func (s *sceneImpl) OverlapSphere(center mgl32.Vec3, radius float32, mask uint32, results []Handle) int {
	if len(results) == 0 || radius < 0 {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.active {
		return 0
	}

	radiusSq := radius * radius
	n := 0
	for i, sl := range s.slots {
		obj := sl.obj
		if obj == nil || !obj.Alive() || !obj.Enabled() || obj.Layer()&mask == 0 {
			continue
		}
		if common.DistanceSq(center, obj.Position()) > radiusSq {
			continue
		}
		results[n] = makeHandle(uint32(i), sl.gen)
		n++
		if n == len(results) {
			break
		}
	}
	return n
}

func (s *sceneImpl) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.free = s.free[:0]
	for i := range s.slots {
		s.slots[i].obj = nil
		s.free = append(s.free, uint32(len(s.slots)-1-i))
	}
	s.count = 0
}
