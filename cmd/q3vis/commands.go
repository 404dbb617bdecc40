// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"goquake3/bsp"
	"goquake3/config"
	"goquake3/engine"
	"goquake3/filesystem"
	"goquake3/image"
	"goquake3/math/vec"
	"goquake3/model"
	"goquake3/summary"
	"goquake3/texture"
)

type options struct {
	configs []string
	baseDir string
	mapName string
}

func (o options) config() (*config.Config, error) {
	cfg, err := config.Process(o.configs)
	if err != nil {
		return nil, err
	}
	if o.baseDir != "" {
		cfg.BaseDir = o.baseDir
	}
	if o.mapName != "" {
		cfg.Map = o.mapName
	}
	return cfg, nil
}

// session is a loaded map with everything needed to query it.
type session struct {
	cfg *config.Config
	fs  *filesystem.FS
	ctx *engine.Context
	m   *bsp.Map
}

func open(o options) (*session, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	fs, err := filesystem.New(cfg.BaseDir, log.Logger)
	if err != nil {
		return nil, err
	}
	ctx := engine.New(cfg, fs, texture.NewMemoryUploader(), log.Logger)
	if err := ctx.LoadMap(cfg.Map); err != nil {
		fs.Close()
		return nil, err
	}
	m, ok := ctx.Map().(*bsp.Map)
	if !ok {
		ctx.Close()
		fs.Close()
		return nil, errors.Errorf("%s is not a bsp map", cfg.Map)
	}
	return &session{cfg: cfg, fs: fs, ctx: ctx, m: m}, nil
}

func (s *session) Close() {
	s.ctx.Close()
	if err := s.fs.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close file system")
	}
}

func infoCommand(o options, format string, w io.Writer) error {
	s, err := open(o)
	if err != nil {
		return err
	}
	defer s.Close()
	b, err := summary.New(s.m).Marshal(format)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func spawnsCommand(o options, w io.Writer) error {
	s, err := open(o)
	if err != nil {
		return err
	}
	defer s.Close()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tangle\torigin\tleaf\tcluster")
	for i, sp := range s.m.SpawnPoints() {
		l, err := s.m.FindLeaf(sp.Origin)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%d\t%g\t%g %g %g\t%d\t%d\n", i, sp.Angle,
			sp.Origin.X, sp.Origin.Y, sp.Origin.Z, l, s.m.Leafs[l].Cluster)
	}
	if d := s.m.DroppedSpawnPoints(); d > 0 {
		fmt.Fprintf(tw, "(%d dropped)\n", d)
	}
	return tw.Flush()
}

func leafCommand(o options, p [3]float32, w io.Writer) error {
	s, err := open(o)
	if err != nil {
		return err
	}
	defer s.Close()
	pos := vec.VFromA(p).Swizzle()
	l, err := s.m.FindLeaf(pos)
	if err != nil {
		return err
	}
	lf := &s.m.Leafs[l]
	mins, maxs := s.m.LeafBounds(l)
	fmt.Fprintf(w, "leaf %d cluster %d area %d faces %d\n", l, lf.Cluster, lf.Area, lf.NumLeafFaces)
	fmt.Fprintf(w, "bounds %v %v\n", mins.Swizzle(), maxs.Swizzle())
	return nil
}

type countingBackend struct {
	byType map[model.FaceType]int
}

func (b *countingBackend) SubmitFace(f model.FaceDraw) {
	b.byType[f.Type]++
}

func visibleCommand(o options, spawn int, w io.Writer) error {
	s, err := open(o)
	if err != nil {
		return err
	}
	defer s.Close()
	if spawn < 0 {
		spawn = s.cfg.Spawn
	}
	if err := s.ctx.PlaceCamera(spawn); err != nil {
		return errors.Wrapf(err, "spawn %d", spawn)
	}
	b := &countingBackend{byType: map[model.FaceType]int{}}
	st, err := s.ctx.Render(b)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "spawn %d at %v\n", spawn, s.ctx.Camera().Position())
	fmt.Fprintf(w, "leafs %d pvs culled %d frustum culled %d\n", st.Leafs, st.PVSCulled, st.FrustumCulled)
	fmt.Fprintf(w, "faces %d of %d\n", st.Faces, len(s.m.Faces))
	for _, t := range []model.FaceType{model.FacePolygon, model.FacePatch, model.FaceMesh, model.FaceBillboard} {
		if n := b.byType[t]; n > 0 {
			fmt.Fprintf(w, "  %s %d\n", t, n)
		}
	}
	return nil
}

func lightmapsCommand(o options, dir, format string, scale int, w io.Writer) error {
	s, err := open(o)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i := range s.m.Lightmaps {
		rgb := make([]byte, bsp.LightmapBytes)
		copy(rgb, s.m.Lightmaps[i][:])
		bsp.ModifyGamma(rgb, s.cfg.LightmapGamma)
		img, err := image.FromRGB(rgb, bsp.LightmapSize, bsp.LightmapSize)
		if err != nil {
			return err
		}
		name := filepath.Join(dir, fmt.Sprintf("lightmap%03d.%s", i, format))
		if err := image.Write(name, image.Scale(img, scale)); err != nil {
			return err
		}
		fmt.Fprintln(w, name)
	}
	return nil
}

func mapsCommand(o options, w io.Writer) error {
	cfg, err := o.config()
	if err != nil {
		return err
	}
	fs, err := filesystem.New(cfg.BaseDir, log.Logger)
	if err != nil {
		return err
	}
	defer fs.Close()
	maps, err := fs.Maps()
	if err != nil {
		return err
	}
	for _, m := range maps {
		fmt.Fprintln(w, m)
	}
	return nil
}

func configCommand(o options, w io.Writer) error {
	cfg, err := o.config()
	if err != nil {
		return err
	}
	b, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
