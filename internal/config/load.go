package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/soypat/subd/gen/cubes"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
// Flags may be nil.
func Load(f *Flags) (*Config, error) {
	cfg := Default()

	configPath := ""
	if f != nil {
		configPath = f.Config
	}
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := LoadFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	if f != nil {
		f.apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in the working directory.
func findConfigFile() string {
	for _, path := range []string{"./subd.yaml", "./subd.yml"} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadFile loads config from a YAML file, merging with existing values.
// Lists in the file replace the existing lists.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Parse(cfg, data)
}

// Parse merges YAML data into cfg.
func Parse(cfg *Config, data []byte) error {
	var probe struct {
		Scene map[string]yaml.Node `yaml:"scene"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return err
	}
	// A scene in the file replaces the default scene entirely.
	if probe.Scene != nil {
		cfg.Scene = SceneConfig{Merge: true}
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var err error
	s := c.Scene
	if len(s.Cubes) == 0 && len(s.Cylinders) == 0 {
		err = multierr.Append(err, errors.New("scene: no cubes or cylinders"))
	}
	for i, cube := range s.Cubes {
		for _, name := range cube.SharpVerts {
			if _, e := cubes.ParseVertName(name); e != nil {
				err = multierr.Append(err, fmt.Errorf("scene.cubes[%d]: %w", i, e))
			}
		}
		for _, name := range cube.SharpEdges {
			if _, e := cubes.ParseEdgeName(name); e != nil {
				err = multierr.Append(err, fmt.Errorf("scene.cubes[%d]: %w", i, e))
			}
		}
		for _, name := range cube.SharpFaces {
			if _, e := cubes.ParseFaceName(name); e != nil {
				err = multierr.Append(err, fmt.Errorf("scene.cubes[%d]: %w", i, e))
			}
		}
		for name := range cube.FaceTags {
			if _, e := cubes.ParseFaceName(name); e != nil {
				err = multierr.Append(err, fmt.Errorf("scene.cubes[%d]: %w", i, e))
			}
		}
	}
	for i, pair := range s.Forbid {
		for _, idx := range pair {
			if idx < 0 || idx >= len(s.Cubes) {
				err = multierr.Append(err, fmt.Errorf("scene.forbid[%d]: no cube %d", i, idx))
			}
		}
	}
	for i, cyl := range s.Cylinders {
		if len(cyl.Sections) < 2 {
			err = multierr.Append(err, fmt.Errorf("scene.cylinders[%d]: need at least 2 sections, got %d", i, len(cyl.Sections)))
		}
		for _, sect := range cyl.Sections {
			if first := cyl.Sections[0].Sectors; sect.Sectors != first {
				err = multierr.Append(err, fmt.Errorf("scene.cylinders[%d]: sections have %d and %d sectors", i, first, sect.Sectors))
				break
			}
		}
		for j, sect := range cyl.Sections {
			where := fmt.Sprintf("scene.cylinders[%d].sections[%d]", i, j)
			if sect.Sectors < 3 {
				err = multierr.Append(err, fmt.Errorf("%s: need at least 3 sectors, got %d", where, sect.Sectors))
			}
			if sect.Radius <= 0 {
				err = multierr.Append(err, fmt.Errorf("%s: radius must be positive", where))
			}
			if sect.Hollow && (sect.Thickness <= 0 || sect.Thickness >= sect.Radius) {
				err = multierr.Append(err, fmt.Errorf("%s: thickness %v must lie in (0, radius)", where, sect.Thickness))
			}
			for k, h := range sect.Holes {
				if h.Sector < 0 || h.Sector >= sect.Sectors {
					err = multierr.Append(err, fmt.Errorf("%s.holes[%d]: no sector %d", where, k, h.Sector))
				}
				if h.Radius <= 0 && h.Clearance <= 0 {
					err = multierr.Append(err, fmt.Errorf("%s.holes[%d]: needs a radius or clearance", where, k))
				}
			}
		}
	}
	if c.Subdivide.Iterations < 0 {
		err = multierr.Append(err, fmt.Errorf("subdivide.iterations: %d is negative", c.Subdivide.Iterations))
	}
	if c.Output.PNG != "" && (c.Output.Width <= 0 || c.Output.Height <= 0) {
		err = multierr.Append(err, fmt.Errorf("output: bad image size %dx%d", c.Output.Width, c.Output.Height))
	}
	return err
}
