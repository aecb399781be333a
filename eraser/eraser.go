// chimerax-commands - mask and alignment tools for density maps
// Copyright (C) 2025  Robert Stass
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package eraser builds masks from a map-eraser sphere.
//
// Given an existing mask and a sphere, [Create] computes two soft-edged
// masks: one covering just the sphere, and one covering the union of the
// sphere and the original mask.
package eraser

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/slog"

	"github.com/robertstass/chimerax-commands/grid"
	"github.com/robertstass/chimerax-commands/internal/float"
	"github.com/robertstass/chimerax-commands/mrc"
	"github.com/robertstass/chimerax-commands/softmask"
)

// Sphere describes a ball in grid index coordinates.
type Sphere struct {
	// Center is given in x, y, z order.
	Center [3]float64

	// Radius is measured in lattice steps.
	Radius float64
}

// SphereIn converts a sphere given in Ångström into index coordinates of m.
// The radius is converted using the voxel size along x.
func SphereIn(m *mrc.Map, center [3]float64, radius float64) Sphere {
	return Sphere{
		Center: m.IndexOf(center),
		Radius: radius / m.VoxelSize()[0],
	}
}

func (s Sphere) contains(x, y, z int) bool {
	dx := float64(x) - s.Center[0]
	dy := float64(y) - s.Center[1]
	dz := float64(z) - s.Center[2]
	return dx*dx+dy*dy+dz*dz <= s.Radius*s.Radius
}

// Params holds the softening parameters shared by both masks.
type Params struct {
	// Extend grows or shrinks the binary masks, in lattice steps.
	Extend float64

	// Width is the width of the soft edge, in lattice steps.
	Width float64

	// Logger, if set, receives progress messages.
	Logger *slog.Logger
}

// DefaultParams returns the parameters used when none are given.
func DefaultParams() *Params {
	return &Params{Width: 12}
}

// Result holds the two masks computed by [Create].
type Result struct {
	// Sphere is the softened sphere.
	Sphere *grid.Grid

	// Combined is the softened union of the sphere and the input mask.
	Combined *grid.Grid
}

// Create computes the sphere mask and the combined mask.
//
// The input mask must be a grid of shape [nz, ny, nx] with values in
// [0, 1].  It is binarized at level 0.5.
func Create(ctx context.Context, mask *grid.Grid, s Sphere, p *Params) (*Result, error) {
	if p == nil {
		p = DefaultParams()
	}
	if mask == nil || mask.Rank() != 3 {
		return nil, errors.New("eraser: mask must be a 3-dimensional grid")
	}
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return nil, fmt.Errorf("eraser: invalid sphere radius %g", s.Radius)
	}
	log := p.Logger
	if log == nil {
		log = slog.New(discard{})
	}

	log.Debug("volume threshold",
		slog.String("cmd", "minimum 2 set 1 maximum 2 setMaximum 0"))
	filled := mask.Threshold(2, 1, 2, 0)

	log.Debug("volume erase outside",
		slog.String("center", float.Point(s.Center[:], 5)),
		slog.String("radius", float.Format(s.Radius, 5)))
	sphere := eraseOutside(filled, s)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Debug("volume threshold",
		slog.String("cmd", "minimum 0.5 set 0 maximum 0.5 setMaximum 1"))
	binary := mask.Threshold(0.5, 0, 0.5, 1)

	combined, err := grid.Add(sphere, binary)
	if err != nil {
		return nil, err
	}
	combined = combined.Threshold(0.5, 0, 0.5, 1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opt := &softmask.Options{
		Extend: p.Extend,
		Width:  p.Width,
		Logger: p.Logger,
	}
	log.Info("softening sphere mask")
	softSphere, err := softmask.Soften(sphere, 0.5, opt)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Info("softening combined mask")
	softCombined, err := softmask.Soften(combined, 0.5, opt)
	if err != nil {
		return nil, err
	}

	return &Result{Sphere: softSphere, Combined: softCombined}, nil
}

// eraseOutside returns a copy of g with all samples outside the sphere
// set to zero.
func eraseOutside(g *grid.Grid, s Sphere) *grid.Grid {
	res := g.Clone()
	nz, ny, nx := g.Shape[0], g.Shape[1], g.Shape[2]
	idx := 0
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				if !s.contains(x, y, z) {
					res.Data[idx] = 0
				}
				idx++
			}
		}
	}
	return res
}

// discard is a slog handler which drops all records.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (d discard) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discard) WithGroup(string) slog.Handler           { return d }
