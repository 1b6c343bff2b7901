package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.Scene.Merge {
		t.Error("expected merge to be on by default")
	}
	if len(cfg.Scene.Cubes) != 2 {
		t.Errorf("expected 2 default cubes, got %d", len(cfg.Scene.Cubes))
	}
	if cfg.Subdivide.Iterations != 2 {
		t.Errorf("expected 2 iterations, got %d", cfg.Subdivide.Iterations)
	}
	if cfg.Output.STL != "subd.stl" {
		t.Errorf("expected stl path subd.stl, got %s", cfg.Output.STL)
	}
	if cfg.Output.PNG != "" {
		t.Errorf("expected no png by default, got %s", cfg.Output.PNG)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

const sceneYAML = `
scene:
  merge: false
  cubes:
    - position: [0, 0, 0]
      sharp_edges: [TopFront, BottomBack]
      sharp_faces: [Left]
      face_tags:
        Front: window
    - position: [0, 1, 0]
      group: 1
  forbid:
    - [0, 1]
  cylinders:
    - group: 2
      sections:
        - radius: 1
          sectors: 8
          hollow: true
          thickness: 0.25
          holes:
            - sector: 3
              radius: 0.1
        - radius: 1
          sectors: 8
          hollow: true
          thickness: 0.25
          length: 2
          rotate: [0, 0, 15]

subdivide:
  iterations: 3

output:
  stl: "part.stl"
  png: "part.png"
  split_normals: true
  split_angle: 40

logging:
  level: "debug"
  log_file: "subd.log"
`

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subd.yaml")
	if err := os.WriteFile(configPath, []byte(sceneYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := LoadFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config invalid: %v", err)
	}

	s := cfg.Scene
	if s.Merge {
		t.Error("expected merge to be false")
	}
	if len(s.Cubes) != 2 {
		t.Fatalf("expected the file cubes to replace the defaults, got %d", len(s.Cubes))
	}
	if got := s.Cubes[0].SharpEdges; len(got) != 2 || got[1] != "BottomBack" {
		t.Errorf("sharp edges %v", got)
	}
	if s.Cubes[0].FaceTags["Front"] != "window" {
		t.Errorf("face tags %v", s.Cubes[0].FaceTags)
	}
	if s.Cubes[1].Position != [3]int{0, 1, 0} || s.Cubes[1].Group != 1 {
		t.Errorf("second cube %+v", s.Cubes[1])
	}
	if len(s.Forbid) != 1 || s.Forbid[0] != [2]int{0, 1} {
		t.Errorf("forbid %v", s.Forbid)
	}
	if len(s.Cylinders) != 1 || len(s.Cylinders[0].Sections) != 2 {
		t.Fatalf("cylinders %+v", s.Cylinders)
	}
	sect := s.Cylinders[0].Sections[1]
	if sect.Length != 2 || sect.Rotate[2] != 15 || !sect.Hollow {
		t.Errorf("second section %+v", sect)
	}
	if h := s.Cylinders[0].Sections[0].Holes; len(h) != 1 || h[0].Sector != 3 {
		t.Errorf("holes %v", h)
	}

	if cfg.Subdivide.Iterations != 3 {
		t.Errorf("expected 3 iterations, got %d", cfg.Subdivide.Iterations)
	}
	if cfg.Output.STL != "part.stl" || cfg.Output.PNG != "part.png" {
		t.Errorf("output paths %q %q", cfg.Output.STL, cfg.Output.PNG)
	}
	if !cfg.Output.SplitNormals || cfg.Output.SplitAngle != 40 {
		t.Errorf("output %+v", cfg.Output)
	}
	// Unset keys keep their defaults.
	if cfg.Output.Width != 1024 {
		t.Errorf("expected default width, got %d", cfg.Output.Width)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "subd.log" {
		t.Errorf("logging %+v", cfg.Logging)
	}
}

func TestLoadKeepsDefaultScene(t *testing.T) {
	cfg := Default()
	if err := Parse(cfg, []byte("subdivide:\n  iterations: 1\n")); err != nil {
		t.Fatal(err)
	}
	if len(cfg.Scene.Cubes) != 2 {
		t.Errorf("expected default scene, got %d cubes", len(cfg.Scene.Cubes))
	}
	if cfg.Subdivide.Iterations != 1 {
		t.Errorf("expected 1 iteration, got %d", cfg.Subdivide.Iterations)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
subdivide:
  iterations: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg := Default()
	if err := LoadFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := LoadFile(cfg, "/nonexistent/path/subd.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	for _, test := range []struct {
		name   string
		modify func(*Config)
		errs   []string
	}{
		{
			name:   "empty scene",
			modify: func(c *Config) { c.Scene = SceneConfig{} },
			errs:   []string{"no cubes or cylinders"},
		},
		{
			name: "bad names",
			modify: func(c *Config) {
				c.Scene.Cubes[0].SharpEdges = []string{"Sideways"}
				c.Scene.Cubes[1].SharpVerts = []string{"Middle"}
			},
			errs: []string{"scene.cubes[0]", "scene.cubes[1]"},
		},
		{
			name:   "forbid out of range",
			modify: func(c *Config) { c.Scene.Forbid = [][2]int{{0, 5}} },
			errs:   []string{"no cube 5"},
		},
		{
			name: "cylinder",
			modify: func(c *Config) {
				c.Scene.Cylinders = []CylinderConfig{{Sections: []SectionConfig{
					{Radius: 1, Sectors: 2, Hollow: true, Thickness: 1,
						Holes: []HoleConfig{{Sector: 4}}},
				}}}
			},
			errs: []string{"at least 2 sections", "at least 3 sectors", "thickness", "no sector 4", "radius or clearance"},
		},
		{
			name: "mismatched sectors",
			modify: func(c *Config) {
				c.Scene.Cylinders = []CylinderConfig{{Sections: []SectionConfig{
					{Radius: 1, Sectors: 4},
					{Radius: 1, Sectors: 6, Length: 1},
					{Radius: 1, Sectors: 8, Length: 1},
				}}}
			},
			errs: []string{"sections have 4 and 6 sectors"},
		},
		{
			name:   "negative iterations",
			modify: func(c *Config) { c.Subdivide.Iterations = -1 },
			errs:   []string{"negative"},
		},
		{
			name: "bad image",
			modify: func(c *Config) {
				c.Output.PNG = "x.png"
				c.Output.Width = 0
			},
			errs: []string{"image size"},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if got := len(multierr.Errors(err)); got != len(test.errs) {
				t.Errorf("got %d errors, want %d: %v", got, len(test.errs), err)
			}
			for _, want := range test.errs {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %q", err, want)
				}
			}
		})
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subd.yaml")
	if err := os.WriteFile(configPath, []byte(sceneYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := flag.NewFlagSet("subdtool", flag.ContinueOnError)
	f := RegisterFlags(fs)
	err := fs.Parse([]string{"-config", configPath, "-subdiv", "0", "-out", "flag.stl"})
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Subdivide.Iterations != 0 {
		t.Errorf("expected flag iterations 0, got %d", cfg.Subdivide.Iterations)
	}
	if cfg.Output.STL != "flag.stl" {
		t.Errorf("expected flag stl path, got %s", cfg.Output.STL)
	}
	// Not overridden.
	if cfg.Output.PNG != "part.png" {
		t.Errorf("expected file png path, got %s", cfg.Output.PNG)
	}
}

func TestFlagsDefaults(t *testing.T) {
	fs := flag.NewFlagSet("subdtool", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse([]string{"-debug"}); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	f.apply(cfg)
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
	if cfg.Subdivide.Iterations != 2 {
		t.Errorf("unset -subdiv changed iterations to %d", cfg.Subdivide.Iterations)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected no config file, got %s", path)
	}
	if err := os.WriteFile("subd.yaml", []byte("subdivide:\n  iterations: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if path := findConfigFile(); path != "./subd.yaml" {
		t.Errorf("expected ./subd.yaml, got %q", path)
	}
	cfg, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Subdivide.Iterations != 4 {
		t.Errorf("expected iterations from found file, got %d", cfg.Subdivide.Iterations)
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "subd.yaml")

	cfg := Default()
	cfg.Subdivide.Iterations = 5
	cfg.Scene.Cubes[0].SharpFaces = []string{"Top"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	loaded := Default()
	if err := LoadFile(loaded, path); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if loaded.Subdivide.Iterations != 5 {
		t.Errorf("expected 5 iterations, got %d", loaded.Subdivide.Iterations)
	}
	if got := loaded.Scene.Cubes[0].SharpFaces; len(got) != 1 || got[0] != "Top" {
		t.Errorf("sharp faces %v", got)
	}
}
