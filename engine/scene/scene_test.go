package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleGenerations(t *testing.T) {
	s := NewScene()
	a := game_object.NewGameObject(game_object.WithName("a"))
	b := game_object.NewGameObject(game_object.WithName("b"))

	ha := s.Add(a)
	require.True(t, ha.Valid())
	got, ok := s.Resolve(ha)
	require.True(t, ok)
	assert.Equal(t, a, got)

	require.True(t, s.Remove(ha))
	assert.False(t, s.Remove(ha), "double remove")
	_, ok = s.Resolve(ha)
	assert.False(t, ok)

	hb := s.Add(b)
	assert.Equal(t, ha.slot(), hb.slot(), "slot reused")
	assert.NotEqual(t, ha, hb)
	_, ok = s.Resolve(ha)
	assert.False(t, ok, "stale handle must not resolve to the new occupant")

	assert.False(t, Handle(0).Valid())
	_, ok = s.Resolve(0)
	assert.False(t, ok)
	assert.Equal(t, Handle(0), s.Add(nil))
}

func TestResolveFailsForDestroyedObjects(t *testing.T) {
	s := NewScene()
	obj := game_object.NewGameObject()
	h := s.Add(obj)
	obj.Destroy()
	_, ok := s.Resolve(h)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Count())
}

func TestOverlapSphere(t *testing.T) {
	near := game_object.NewGameObject(game_object.WithPosition(1, 0, 0))
	edge := game_object.NewGameObject(game_object.WithPosition(0, 0, 3))
	far := game_object.NewGameObject(game_object.WithPosition(10, 0, 0))
	other := game_object.NewGameObject(game_object.WithPosition(0, 1, 0), game_object.WithLayer(2))
	disabled := game_object.NewGameObject(game_object.WithEnabled(false))
	s := NewScene(WithObjects(near, edge, far, other, disabled))

	buf := make([]Handle, 8)

	t.Run("radius_inclusive_and_ordered", func(t *testing.T) {
		n := s.OverlapSphere(mgl32.Vec3{}, 3, LayerAll, buf)
		require.Equal(t, 3, n)
		hNear, _ := s.HandleOf(near)
		hEdge, _ := s.HandleOf(edge)
		hOther, _ := s.HandleOf(other)
		assert.Equal(t, []Handle{hNear, hEdge, hOther}, buf[:n])
	})

	t.Run("mask", func(t *testing.T) {
		n := s.OverlapSphere(mgl32.Vec3{}, 3, game_object.LayerDefault, buf)
		assert.Equal(t, 2, n)
	})

	t.Run("capacity_bounded", func(t *testing.T) {
		small := make([]Handle, 1)
		assert.Equal(t, 1, s.OverlapSphere(mgl32.Vec3{}, 100, LayerAll, small))
	})

	t.Run("inactive", func(t *testing.T) {
		s.SetActive(false)
		defer s.SetActive(true)
		assert.Equal(t, 0, s.OverlapSphere(mgl32.Vec3{}, 100, LayerAll, buf))
	})
}

func TestEachAndClear(t *testing.T) {
	s := NewScene(WithName("targets"))
	for i := 0; i < 4; i++ {
		s.Add(game_object.NewGameObject(game_object.WithID(uint64(i))))
	}
	var ids []uint64
	s.Each(func(_ Handle, obj game_object.GameObject) bool {
		ids = append(ids, obj.ID())
		return len(ids) < 3
	})
	assert.Equal(t, []uint64{0, 1, 2}, ids)

	h, ok := s.HandleOf(nil)
	assert.False(t, ok)
	assert.Equal(t, Handle(0), h)

	s.Clear()
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, "targets", s.Name())
}
