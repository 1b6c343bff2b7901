package main

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/soypat/subd"
	"github.com/soypat/subd/catmull"
	"github.com/soypat/subd/gen/cubes"
	"github.com/soypat/subd/gen/cylinder"
	"github.com/soypat/subd/internal/config"
	"github.com/soypat/subd/render"
)

// cylinderID identifies the faces of one configured cylinder.
type cylinderID int

func run(cfg *config.Config, log *zap.Logger) error {
	start := time.Now()
	s, err := buildScene(cfg.Scene, log)
	if err != nil {
		return err
	}
	log.Info("scene built",
		zap.Int("verts", s.NumVerts()),
		zap.Int("edges", s.NumEdges()),
		zap.Int("faces", s.NumFaces()),
	)

	s = catmull.SubdivideN(s, cfg.Subdivide.Iterations)
	log.Info("subdivided",
		zap.Int("iterations", cfg.Subdivide.Iterations),
		zap.Int("faces", s.NumFaces()),
	)

	m := render.ToMesh(s, render.Options{
		SplitNormals:      cfg.Output.SplitNormals,
		SplitAngleDegrees: cfg.Output.SplitAngle,
		IncludeSharp:      cfg.Output.Wireframe,
		IncludeSmooth:     cfg.Output.Wireframe,
	})
	if cfg.Output.STL != "" {
		if err := render.CreateSTL(cfg.Output.STL, m.Reader()); err != nil {
			return err
		}
		log.Info("wrote stl", zap.String("path", cfg.Output.STL), zap.Int("triangles", m.NumTriangles()))
	}
	if cfg.Output.PNG != "" {
		view := render.DefaultView()
		view.Width, view.Height = cfg.Output.Width, cfg.Output.Height
		view.Wireframe = cfg.Output.Wireframe
		if err := render.SavePNG(cfg.Output.PNG, m, view); err != nil {
			return err
		}
		log.Info("wrote png", zap.String("path", cfg.Output.PNG))
	}
	log.Debug("done", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// buildScene generates every configured part and merges them by group.
func buildScene(sc config.SceneConfig, log *zap.Logger) (*subd.Surface, error) {
	cb := cubes.Builder{Logger: log}
	added := make([]*cubes.Cube, len(sc.Cubes))
	for i, cc := range sc.Cubes {
		c, err := newCube(&cb, cc)
		if err != nil {
			return nil, fmt.Errorf("cube %d: %w", i, err)
		}
		added[i] = c
	}
	for _, pair := range sc.Forbid {
		cb.Forbid(added[pair[0]], added[pair[1]])
	}

	engine := cb.Engine()
	for i, cyl := range sc.Cylinders {
		s := buildCylinder(cyl, cylinderID(i), log.With(zap.Int("cylinder", i)))
		if s == nil {
			return nil, fmt.Errorf("cylinder %d: too few sections", i)
		}
		engine.Add(s, cyl.Group, cylinderID(i))
	}

	s := engine.Surface(sc.Merge)
	if s == nil {
		return nil, errors.New("empty scene")
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene surface: %w", err)
	}
	return s, nil
}

func newCube(cb *cubes.Builder, cc config.CubeConfig) (*cubes.Cube, error) {
	c := cb.AddCube(cc.Position, cc.Group)
	for _, name := range cc.SharpVerts {
		v, err := cubes.ParseVertName(name)
		if err != nil {
			return nil, err
		}
		c.VertSharp[v] = true
	}
	for _, name := range cc.SharpEdges {
		e, err := cubes.ParseEdgeName(name)
		if err != nil {
			return nil, err
		}
		c.EdgeSharp[e] = true
	}
	for _, name := range cc.SharpFaces {
		f, err := cubes.ParseFaceName(name)
		if err != nil {
			return nil, err
		}
		c.SetFaceSharp(f)
	}
	for name, tag := range cc.FaceTags {
		f, err := cubes.ParseFaceName(name)
		if err != nil {
			return nil, err
		}
		c.FaceTag[f] = tag
	}
	return c, nil
}

func buildCylinder(cc config.CylinderConfig, id cylinderID, log *zap.Logger) *subd.Surface {
	b := cylinder.Builder{Identity: id}
	for _, sc := range cc.Sections {
		sect := &cylinder.Section{
			Radius:    sc.Radius,
			Sectors:   sc.Sectors,
			Thickness: sc.Thickness,
			Transform: cylinder.Step(sc.Length, sc.Rotate[0], sc.Rotate[1], sc.Rotate[2]),
		}
		if sc.Hollow {
			sect.Solidity = cylinder.Hollow
		}
		if sc.SharpRim {
			sect.EdgeProps = func(s *cylinder.Section, i int, topo cylinder.Topology, typ cylinder.EdgeType) cylinder.EdgeProps {
				return cylinder.EdgeProps{Sharp: typ == cylinder.Circumferential}
			}
		}
		if len(sc.Holes) > 0 {
			holes := make(map[int]*cylinder.HoleProps, len(sc.Holes))
			for _, h := range sc.Holes {
				holes[h.Sector] = &cylinder.HoleProps{Radius: h.Radius, Clearance: h.Clearance}
			}
			sect.SectorProps = func(s *cylinder.Section, sector int) cylinder.SectorProps {
				return cylinder.SectorProps{Hole: holes[sector]}
			}
		}
		b.AddSection(sect)
	}
	s, skipped := b.Build()
	for _, sk := range skipped {
		log.Warn("hole skipped",
			zap.Int("section", sk.Section),
			zap.Int("sector", sk.Sector),
			zap.String("reason", sk.Reason),
		)
	}
	return s
}
