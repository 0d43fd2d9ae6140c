package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-rig/engine/scenario"
	"gopkg.in/yaml.v3"
)

type summary struct {
	Name        string     `yaml:"name"`
	Frames      int        `yaml:"frames"`
	ViewType    string     `yaml:"viewType"`
	FirstPerson bool       `yaml:"firstPerson"`
	Zoom        bool       `yaml:"zoom"`
	FieldOfView float32    `yaml:"fov"`
	Position    [3]float32 `yaml:"position"`
	Pitch       float32    `yaml:"pitch"`
	Yaw         float32    `yaml:"yaw"`
	Target      string     `yaml:"target,omitempty"`
	Events      [3]int     `yaml:"events,flow"`
	Error       string     `yaml:"error,omitempty"`
}

func main() {
	workers := flag.Int("workers", 0, "Number of concurrent replays (default: NumCPU)")
	format := flag.String("format", "text", "Output format: text or yaml")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <scenario.yaml|dir>...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	paths, err := collect(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	scenarios := make([]*scenario.Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := scenario.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
			os.Exit(1)
		}
		scenarios = append(scenarios, s)
	}

	start := time.Now()
	results := scenario.RunAll(scenarios, *workers)
	elapsed := time.Since(start)

	failed := 0
	summaries := make([]summary, len(results))
	for i, res := range results {
		summaries[i] = summarize(res)
		if res.Err != nil {
			failed++
		}
	}

	switch *format {
	case "yaml":
		out, err := yaml.Marshal(summaries)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding results: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
	default:
		for _, s := range summaries {
			printText(s)
		}
	}

	fmt.Fprintf(os.Stderr, "%d scenarios, %d failed, %v\n", len(results), failed, elapsed.Round(time.Millisecond))
	if failed > 0 {
		os.Exit(1)
	}
}

// collect expands directories to the YAML files directly inside them.
func collect(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, e := range entries {
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}

func summarize(res scenario.Result) summary {
	s := summary{
		Name:        res.Name,
		Frames:      res.Frames,
		ViewType:    res.ViewType,
		FirstPerson: res.FirstPerson,
		Zoom:        res.Zoom,
		FieldOfView: res.FieldOfView,
		Position:    res.Pose.Position,
		Pitch:       res.Pitch,
		Yaw:         res.Yaw,
		Target:      res.Target,
		Events:      [3]int{res.PerspectiveChanges, res.ZoomChanges, res.ViewTypeActivations},
	}
	if res.Err != nil {
		s.Error = res.Err.Error()
	}
	return s
}

func printText(s summary) {
	if s.Error != "" {
		fmt.Printf("FAIL %-24s %s\n", s.Name, s.Error)
		return
	}
	target := s.Target
	if target == "" {
		target = "-"
	}
	fmt.Printf("ok   %-24s %5d frames  %-14s fp=%-5t zoom=%-5t fov=%5.1f  pos=(%.2f, %.2f, %.2f)  pitch=%6.1f yaw=%6.1f  target=%s  events=%v\n",
		s.Name, s.Frames, s.ViewType, s.FirstPerson, s.Zoom, s.FieldOfView,
		s.Position[0], s.Position[1], s.Position[2], s.Pitch, s.Yaw, target, s.Events)
}
