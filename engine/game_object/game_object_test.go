package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldTransformComposesParentChain(t *testing.T) {
	root := NewGameObject(WithPosition(10, 0, 0), WithRotation(common.EulerRotation(0, 90)))
	child := NewGameObject(WithParent(root), WithPosition(0, 0, 2))

	// root faces +X, so the child's local +Z lands on world +X
	assert.True(t, common.ApproxVec3(child.Position(), mgl32.Vec3{12, 0, 0}, 1e-4), "got %v", child.Position())

	child.SetPosition(mgl32.Vec3{10, 5, 0})
	assert.True(t, common.ApproxVec3(child.Position(), mgl32.Vec3{10, 5, 0}, 1e-4))
	assert.True(t, common.ApproxVec3(child.LocalPosition(), mgl32.Vec3{0, 5, 0}, 1e-4))

	child.SetRotation(mgl32.QuatIdent())
	assert.InDelta(t, 0, common.QuatAngle(child.Rotation(), mgl32.QuatIdent()), 1e-3)
}

func TestHierarchy(t *testing.T) {
	root := NewGameObject(WithName("root"))
	mid := NewGameObject(WithParent(root))
	leaf := NewGameObject(WithParent(mid))
	other := NewGameObject()

	assert.True(t, leaf.IsChildOf(root))
	assert.True(t, leaf.IsChildOf(mid))
	assert.False(t, root.IsChildOf(leaf))
	assert.False(t, leaf.IsChildOf(other))
	assert.False(t, root.IsChildOf(root), "an object is not its own descendant")
	assert.False(t, leaf.IsChildOf(nil))

	t.Run("cycle_refused", func(t *testing.T) {
		assert.False(t, root.SetParent(leaf))
		assert.Nil(t, root.Parent())
	})

	t.Run("reparent", func(t *testing.T) {
		require.True(t, leaf.SetParent(other))
		assert.Len(t, mid.Children(), 0)
		assert.Len(t, other.Children(), 1)
		assert.False(t, leaf.IsChildOf(root))
	})
}

func TestBonesAndOffsets(t *testing.T) {
	head := NewGameObject(WithPosition(0, 1.7, 0))
	body := NewGameObject(WithPosition(0, 0, 5), WithBone("head", head), WithTargetOffset(0, 1, 0))

	bone, ok := body.Bone("head")
	require.True(t, ok)
	assert.True(t, common.ApproxVec3(bone.Position(), mgl32.Vec3{0, 1.7, 5}, 1e-4))
	assert.True(t, bone.IsChildOf(body))

	_, ok = body.Bone("tail")
	assert.False(t, ok)

	off, ok := body.TargetOffset()
	assert.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, off)

	_, ok = head.TargetOffset()
	assert.False(t, ok)
}

func TestDestroyPropagates(t *testing.T) {
	body := NewGameObject()
	head := NewGameObject()
	body.AddBone("head", head)

	assert.True(t, head.Alive())
	body.Destroy()
	assert.False(t, body.Alive())
	assert.False(t, head.Alive())
}
