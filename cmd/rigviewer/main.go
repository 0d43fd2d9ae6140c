package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine"
	"github.com/Carmen-Shannon/oxy-rig/engine/camera"
	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
	"github.com/Carmen-Shannon/oxy-rig/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// GLFW requires all window calls on the main thread.
func init() {
	runtime.LockOSThread()
}

const (
	mouseScale = 0.1
	walkSpeed  = 4
)

type viewer struct {
	configPath string
	watcher    *config.Watcher

	eng    engine.Engine
	win    window.Window
	cam    camera.Camera
	world  scene.Scene
	anchor game_object.GameObject
	rig    rig.Rig

	targets    []scene.Handle
	nextTarget int

	held      map[uint32]bool
	mouseSeen bool
	lastX     int32
	lastY     int32
	lookX     float32
	lookY     float32

	lastTitle time.Time
}

func main() {
	configPath := flag.String("config", "configs/rig.yaml", "Path to the rig YAML configuration")
	targetCount := flag.Int("targets", 6, "Number of aim assist dummies placed in a ring")
	profile := flag.Bool("profile", false, "Log tick and frame statistics")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	v := &viewer{
		configPath: *configPath,
		world:      scene.NewScene(scene.WithName("viewer")),
		anchor:     game_object.NewGameObject(game_object.WithName("player")),
		held:       make(map[uint32]bool),
	}
	v.world.Add(v.anchor)
	v.placeTargets(*targetCount)

	if err := v.buildRig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error building rig: %v\n", err)
		os.Exit(1)
	}

	v.watcher, err = config.NewWatcher(filepath.Dir(*configPath))
	if err != nil {
		log.Printf("[viewer] hot reload disabled: %v", err)
	} else {
		defer v.watcher.Close()
	}

	v.win = window.NewWindow(
		window.WithTitle("oxy-rig"),
		window.WithWidth(1280),
		window.WithHeight(720),
		window.WithCursorCaptured(true),
	)
	defer v.win.Close()
	v.cam = camera.NewCamera(camera.WithAspect(float32(v.win.Width()) / float32(v.win.Height())))
	v.bindInput()

	v.eng = engine.NewEngine(
		engine.WithWindow(v.win),
		engine.WithTickRate(cfg.TickRate),
		engine.WithProfiling(*profile),
	)
	v.eng.SetTickCallback(v.tick)
	v.eng.SetRenderCallback(v.render)

	log.Printf("[viewer] mouse looks, WASD walks, V toggles perspective, 1-3 pick view types, RMB zooms, Tab targets, Q/E switch targets, F clears, Esc quits")
	v.eng.Run()
}

func (v *viewer) placeTargets(n int) {
	for i := 0; i < n; i++ {
		angle := float64(i) / float64(n) * 2 * math.Pi
		x, z := float32(8*math.Sin(angle)), float32(8*math.Cos(angle))
		dummy := game_object.NewGameObject(
			game_object.WithName(fmt.Sprintf("dummy-%d", i)),
			game_object.WithPosition(x, 0, z),
			game_object.WithBone("head", game_object.NewGameObject(game_object.WithPosition(0, 1.7, 0))),
		)
		v.targets = append(v.targets, v.world.Add(dummy))
	}
}

// buildRig replaces the rig, keeping the active view type when the new config still has it.
func (v *viewer) buildRig(cfg *config.Config) error {
	r, err := cfg.Build(v.world, rig.WithAnchor(v.anchor))
	if err != nil {
		return err
	}
	if v.rig != nil && v.rig.Current() != nil {
		if err := r.SetViewType(v.rig.Current().ID(), true); err != nil {
			log.Printf("[viewer] %v, using the configured default", err)
		}
	}
	r.OnPerspectiveChanged(func(firstPerson bool) {
		log.Printf("[viewer] perspective: first person %t", firstPerson)
	})
	r.OnZoomChanged(func(zoom bool) {
		log.Printf("[viewer] zoom: %t", zoom)
	})
	r.OnViewTypeChanged(func(id string, activated bool) {
		if activated {
			log.Printf("[viewer] view type: %s", id)
		}
	})
	v.rig = r
	if v.eng != nil {
		v.eng.SetTickRate(cfg.TickRate)
	}
	return nil
}

func (v *viewer) bindInput() {
	v.win.SetResizeCallback(func(width, height int) {
		if height > 0 {
			v.cam.SetAspect(float32(width) / float32(height))
		}
	})
	v.win.SetMouseMoveCallback(func(x, y int32) {
		if v.mouseSeen {
			v.lookX += float32(x - v.lastX)
			v.lookY += float32(y - v.lastY)
		}
		v.lastX, v.lastY, v.mouseSeen = x, y, true
	})
	v.win.SetMouseButtonCallback(func(button window.MouseButton, pressed bool, _, _ int32) {
		if button == window.MouseButtonRight {
			v.rig.TryZoom(pressed)
		}
	})
	v.win.SetKeyUpCallback(func(key uint32) {
		delete(v.held, key)
	})
	v.win.SetKeyDownCallback(func(key uint32) {
		v.held[key] = true
		switch key {
		case window.KeyV:
			v.rig.TogglePerspective(false)
		case window.Key1, window.Key2, window.Key3:
			ids := v.rig.ViewTypeIDs()
			if i := int(key - window.Key1); i < len(ids) {
				if err := v.rig.SetViewType(ids[i], false); err != nil {
					log.Printf("[viewer] %v", err)
				}
			}
		case window.KeyTab:
			v.cycleTarget()
		case window.KeyQ:
			v.rig.TrySwitchTargets(false)
		case window.KeyE:
			v.rig.TrySwitchTargets(true)
		case window.KeyF:
			if aim := v.rig.AimAssist(); aim != nil {
				aim.ClearTarget()
			}
		}
	})
}

func (v *viewer) cycleTarget() {
	for range v.targets {
		h := v.targets[v.nextTarget%len(v.targets)]
		v.nextTarget++
		if v.rig.SetTarget(h) {
			return
		}
	}
	log.Printf("[viewer] no target in range")
}

func (v *viewer) tick(dt float32) {
	v.reload()
	v.walk(dt)

	input := rig.LookInput{Horizontal: v.lookX * mouseScale, Vertical: -v.lookY * mouseScale}
	v.lookX, v.lookY = 0, 0
	v.rig.Update(dt, input)
}

// walk moves the anchor on the ground plane relative to the camera heading.
func (v *viewer) walk(dt float32) {
	var dir mgl32.Vec3
	if v.held[window.KeyW] {
		dir = dir.Add(common.Forward)
	}
	if v.held[window.KeyS] {
		dir = dir.Sub(common.Forward)
	}
	if v.held[window.KeyD] {
		dir = dir.Add(common.Right)
	}
	if v.held[window.KeyA] {
		dir = dir.Sub(common.Right)
	}
	if dir.Len() == 0 {
		return
	}
	_, yaw := common.PitchYaw(v.rig.Pose().Rotation)
	heading := common.EulerRotation(0, yaw)
	step := heading.Rotate(dir.Normalize()).Mul(walkSpeed * dt)
	v.anchor.SetPosition(v.anchor.Position().Add(step))
	v.anchor.SetRotation(heading)
}

func (v *viewer) reload() {
	if v.watcher == nil {
		return
	}
	select {
	case path := <-v.watcher.Events:
		if filepath.Clean(path) != filepath.Clean(v.configPath) {
			return
		}
		cfg, err := config.Load(path)
		if err != nil {
			log.Printf("[viewer] reload: %v", err)
			return
		}
		if err := v.buildRig(cfg); err != nil {
			log.Printf("[viewer] reload: %v", err)
			return
		}
		log.Printf("[viewer] reloaded %s", path)
	case err := <-v.watcher.Errors:
		log.Printf("[viewer] watch: %v", err)
	default:
	}
}

func (v *viewer) render(float32) {
	v.rig.Apply(v.cam)
	if time.Since(v.lastTitle) < 200*time.Millisecond {
		return
	}
	v.lastTitle = time.Now()

	pose := v.cam.Pose()
	pitch, yaw := common.PitchYaw(pose.Rotation)
	id := "-"
	if vt := v.rig.Current(); vt != nil {
		id = vt.ID()
	}
	v.win.SetTitle(fmt.Sprintf("oxy-rig | %s | pos (%.1f, %.1f, %.1f) | pitch %.1f yaw %.1f | fov %.1f",
		id, pose.Position.X(), pose.Position.Y(), pose.Position.Z(), pitch, yaw, v.cam.FieldOfView()))
}
