// Package config handles loading the subdtool scene and output settings.
package config

// Config holds all tool settings.
type Config struct {
	Scene     SceneConfig     `yaml:"scene"`
	Subdivide SubdivideConfig `yaml:"subdivide"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SceneConfig describes the parts to generate.
type SceneConfig struct {
	// Merge fuses touching parts of the same group.
	Merge     bool             `yaml:"merge"`
	Cubes     []CubeConfig     `yaml:"cubes"`
	Forbid    [][2]int         `yaml:"forbid"` // pairs of indices into Cubes
	Cylinders []CylinderConfig `yaml:"cylinders"`
}

// CubeConfig places one lattice cube. Names are those printed by the
// cubes package, such as "TopFront" or "BottomBackLeft".
type CubeConfig struct {
	Position   [3]int            `yaml:"position"`
	Group      int               `yaml:"group"`
	SharpVerts []string          `yaml:"sharp_verts"`
	SharpEdges []string          `yaml:"sharp_edges"`
	SharpFaces []string          `yaml:"sharp_faces"` // every edge of the face
	FaceTags   map[string]string `yaml:"face_tags"`
}

// CylinderConfig stacks sections into one part.
type CylinderConfig struct {
	Group    int             `yaml:"group"`
	Sections []SectionConfig `yaml:"sections"`
}

// SectionConfig is one cylinder section. Length and Rotate place it
// relative to the previous section.
type SectionConfig struct {
	Radius    float64      `yaml:"radius"`
	Sectors   int          `yaml:"sectors"`
	Hollow    bool         `yaml:"hollow"`
	Thickness float64      `yaml:"thickness"`
	Length    float64      `yaml:"length"`
	Rotate    [3]float64   `yaml:"rotate"` // degrees about X, Y and Z
	SharpRim  bool         `yaml:"sharp_rim"`
	Holes     []HoleConfig `yaml:"holes"`
}

// HoleConfig punches a hole through one sector of a hollow section.
type HoleConfig struct {
	Sector    int     `yaml:"sector"`
	Radius    float64 `yaml:"radius"`
	Clearance float64 `yaml:"clearance"`
}

// SubdivideConfig holds subdivision settings.
type SubdivideConfig struct {
	Iterations int `yaml:"iterations"`
}

// OutputConfig holds output file settings. Empty paths are not written.
type OutputConfig struct {
	STL          string  `yaml:"stl"`
	PNG          string  `yaml:"png"`
	SplitNormals bool    `yaml:"split_normals"`
	SplitAngle   float64 `yaml:"split_angle"`
	Wireframe    bool    `yaml:"wireframe"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values: two merged cubes
// subdivided twice.
func Default() *Config {
	return &Config{
		Scene: SceneConfig{
			Merge: true,
			Cubes: []CubeConfig{
				{Position: [3]int{0, 0, 0}},
				{Position: [3]int{1, 0, 0}},
			},
		},
		Subdivide: SubdivideConfig{
			Iterations: 2,
		},
		Output: OutputConfig{
			STL:        "subd.stl",
			SplitAngle: 0,
			Width:      1024,
			Height:     768,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
