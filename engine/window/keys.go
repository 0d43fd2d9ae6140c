package window

import "github.com/go-gl/glfw/v3.3/glfw"

// Key codes delivered to the key callbacks.
const (
	KeySpace  = uint32(glfw.KeySpace)
	KeyEscape = uint32(glfw.KeyEscape)
	KeyTab    = uint32(glfw.KeyTab)
	Key1      = uint32(glfw.Key1)
	Key2      = uint32(glfw.Key2)
	Key3      = uint32(glfw.Key3)
	KeyA      = uint32(glfw.KeyA)
	KeyD      = uint32(glfw.KeyD)
	KeyE      = uint32(glfw.KeyE)
	KeyF      = uint32(glfw.KeyF)
	KeyQ      = uint32(glfw.KeyQ)
	KeyR      = uint32(glfw.KeyR)
	KeyS      = uint32(glfw.KeyS)
	KeyT      = uint32(glfw.KeyT)
	KeyV      = uint32(glfw.KeyV)
	KeyW      = uint32(glfw.KeyW)
)
