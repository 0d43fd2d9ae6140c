package scenario

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Result is the state of a rig after a replay.
type Result struct {
	Name   string
	Frames int

	Pose        common.Pose
	Pitch       float32
	Yaw         float32
	FieldOfView float32
	ViewType    string
	FirstPerson bool
	Zoom        bool
	// Target is the name of the aim assist target, empty for none.
	Target   string
	Switches int

	PerspectiveChanges  int
	ZoomChanges         int
	ViewTypeActivations int

	Err error
}

type ability struct {
	id      string
	canZoom bool
}

func (a ability) ID() string          { return a.id }
func (a ability) CanCameraZoom() bool { return a.canZoom }

type item struct {
	canZoom bool
}

func (i item) CanCameraZoom() bool { return i.canZoom }

type runner struct {
	rig    rig.Rig
	world  scene.Scene
	anchor game_object.GameObject
	dt     float32

	targets map[string]scene.Handle
	names   map[scene.Handle]string

	result Result
}

func vec(v config.Vec3) mgl32.Vec3 {
	return mgl32.Vec3(v)
}

// Run replays a scenario on a fresh rig. The returned result is filled as far as the
// replay got, so a failing command still reports the frames before it.
//
// Parameters:
//   - s: the scenario
//
// Returns:
//   - Result: the final rig state
//   - error: a configuration or command error
func Run(s *Scenario) (Result, error) {
	r, err := newRunner(s)
	if err != nil {
		return Result{Name: s.Name, Err: err}, err
	}
	for i, step := range s.Steps {
		if err := r.step(step); err != nil {
			err = fmt.Errorf("scenario %q steps[%d]: %w", s.Name, i, err)
			r.finish()
			r.result.Err = err
			return r.result, err
		}
	}
	r.finish()
	return r.result, nil
}

func newRunner(s *Scenario) (*runner, error) {
	cfg, err := s.RigConfig()
	if err != nil {
		return nil, err
	}

	r := &runner{
		world:   scene.NewScene(scene.WithName(s.Name)),
		dt:      s.DT,
		targets: make(map[string]scene.Handle, len(s.Targets)),
		names:   make(map[scene.Handle]string, len(s.Targets)),
		result:  Result{Name: s.Name},
	}
	if r.dt == 0 {
		r.dt = float32(1 / cfg.TickRate)
	}

	p := s.Anchor.Position
	r.anchor = game_object.NewGameObject(
		game_object.WithName("anchor"),
		game_object.WithPosition(p[0], p[1], p[2]),
		game_object.WithRotation(common.EulerRotation(0, s.Anchor.Yaw)),
	)
	r.world.Add(r.anchor)

	for _, t := range s.Targets {
		options := []game_object.GameObjectBuilderOption{
			game_object.WithName(t.Name),
			game_object.WithLayer(1 << t.Layer),
			game_object.WithPosition(t.Position[0], t.Position[1], t.Position[2]),
		}
		if t.Offset != nil {
			options = append(options, game_object.WithTargetOffset(t.Offset[0], t.Offset[1], t.Offset[2]))
		}
		obj := game_object.NewGameObject(options...)
		for name, bp := range t.Bones {
			obj.AddBone(name, game_object.NewGameObject(
				game_object.WithName(name),
				game_object.WithPosition(bp[0], bp[1], bp[2]),
			))
		}
		h := r.world.Add(obj)
		r.targets[t.Name] = h
		r.names[h] = t.Name
	}

	r.rig, err = cfg.Build(r.world, rig.WithAnchor(r.anchor))
	if err != nil {
		return nil, err
	}
	r.rig.OnPerspectiveChanged(func(bool) { r.result.PerspectiveChanges++ })
	r.rig.OnZoomChanged(func(bool) { r.result.ZoomChanges++ })
	r.rig.OnViewTypeChanged(func(_ string, activated bool) {
		if activated {
			r.result.ViewTypeActivations++
		}
	})
	return r, nil
}

func (r *runner) step(step Step) error {
	if step.Command != "" {
		if err := r.command(step); err != nil {
			return err
		}
	}

	input := rig.LookInput{Horizontal: step.Look.Horizontal, Vertical: step.Look.Vertical}
	velocity := vec(step.Move)
	for i := 0; i < step.Frames; i++ {
		if velocity != (mgl32.Vec3{}) {
			r.anchor.SetPosition(r.anchor.Position().Add(velocity.Mul(r.dt)))
		}
		r.rig.Update(r.dt, input)
		r.result.Frames++
	}
	return nil
}

func (r *runner) command(step Step) error {
	switch step.Command {
	case CommandSetViewType:
		return r.rig.SetViewType(step.ViewType, step.Immediate)
	case CommandTogglePerspective:
		r.rig.TogglePerspective(step.Immediate)
	case CommandZoom:
		r.rig.TryZoom(step.Zoom)
	case CommandSwitchTarget:
		if r.rig.TrySwitchTargets(step.Right) {
			r.result.Switches++
		}
	case CommandSetTarget:
		h, ok := r.targets[step.Target]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTarget, step.Target)
		}
		if !r.rig.SetTarget(h) {
			log.Printf("[scenario] target %q rejected", step.Target)
		}
	case CommandClearTarget:
		if aim := r.rig.AimAssist(); aim != nil {
			aim.ClearTarget()
		}
	case CommandDestroyTarget:
		h, ok := r.targets[step.Target]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTarget, step.Target)
		}
		if obj, ok := r.world.Resolve(h); ok {
			obj.Destroy()
		}
	case CommandForce:
		r.force(step)
	case CommandAbilityStart:
		r.rig.AbilityStarted(ability{id: step.Ability, canZoom: step.CanZoom == nil || *step.CanZoom})
	case CommandAbilityStop:
		r.rig.AbilityStopped(ability{id: step.Ability})
	case CommandEquip:
		if step.CanZoom == nil {
			r.rig.SetEquippedItem(nil)
		} else {
			r.rig.SetEquippedItem(item{canZoom: *step.CanZoom})
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, step.Command)
	}
	return nil
}

func (r *runner) force(step Step) {
	f := vec(step.Force)
	switch {
	case step.Rest != nil && step.Rotational:
		r.rig.AddSecondaryRotationalForce(f, *step.Rest)
	case step.Rest != nil:
		r.rig.AddSecondaryPositionalForce(f, *step.Rest)
	case step.Rotational:
		r.rig.AddRotationalForce(f)
	default:
		r.rig.AddPositionalForce(f)
	}
}

func (r *runner) finish() {
	res := &r.result
	res.Pose = r.rig.Pose()
	res.Pitch, res.Yaw = common.PitchYaw(res.Pose.Rotation)
	res.FieldOfView = r.rig.FieldOfView()
	if vt := r.rig.Current(); vt != nil {
		res.ViewType = vt.ID()
	}
	res.FirstPerson = r.rig.FirstPerson()
	res.Zoom = r.rig.Zoom()
	if aim := r.rig.AimAssist(); aim != nil && aim.HasTarget() {
		res.Target = r.names[aim.Target()]
	}
}

// RunAll replays scenarios concurrently on a worker pool. Each rig is driven by a single
// task, and results keep the order of the input.
//
// Parameters:
//   - scenarios: the scenarios to replay
//   - workers: the maximum number of concurrent replays (zero or less uses the CPU count)
//
// Returns:
//   - []Result: one result per scenario
func RunAll(scenarios []*Scenario, workers int) []Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]Result, len(scenarios))
	pool := worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)

	var wg sync.WaitGroup
	for i, s := range scenarios {
		wg.Add(1)
		idx, sc := i, s
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				res, err := Run(sc)
				if err != nil {
					log.Printf("[scenario] %s: %v", sc.Name, err)
				}
				results[idx] = res
				return nil, err
			},
		})
	}
	wg.Wait()
	return results
}
