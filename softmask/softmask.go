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

// Package softmask turns density maps into soft-edged masks.
//
// A mask is computed in three steps:
//
//  1. The map is binarized: samples at or above the threshold level are
//     inside, all other samples are outside.
//  2. Optionally, the inside region is extended (positive distance) or
//     shrunk (negative distance).  All points within the given Euclidean
//     distance of the inside region are added, or all inside points within
//     the given distance of the outside region are removed.
//  3. Optionally, a raised cosine soft edge is added.  Outside points at
//     distance d from the inside region are set to 0.5 + 0.5*cos(π*d/w),
//     where w is the width of the soft edge.
//
// All distances are measured in lattice steps.  The input grid is never
// modified.
package softmask

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/slog"

	"github.com/robertstass/chimerax-commands/edt"
	"github.com/robertstass/chimerax-commands/grid"
)

// ErrInvalidInput is wrapped by all errors caused by invalid arguments.
var ErrInvalidInput = errors.New("invalid input")

// Options controls the extension and softening of a mask.
// The zero value binarizes the map without any further processing.
type Options struct {
	// Extend grows (if positive) or shrinks (if negative) the binary mask
	// by the given distance, in lattice steps.
	Extend float64

	// Width is the width of the raised cosine soft edge, in lattice steps.
	// The value must not be negative.  Zero gives a binary mask.
	Width float64

	// Logger, if set, receives progress messages.
	Logger *slog.Logger
}

// Soften computes a soft-edged mask from g.
//
// The result has the same shape as g, and all values are in the range
// [0, 1].  If opt is nil, the zero [Options] are used.
func Soften(g *grid.Grid, threshold float64, opt *Options) (*grid.Grid, error) {
	if opt == nil {
		opt = &Options{}
	}
	if err := opt.check(threshold); err != nil {
		return nil, err
	}
	if err := g.Check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	log := logger{opt.Logger}

	log.info("binarize map", slog.Float64("level", threshold))
	inside := Binarize(g, threshold)

	if opt.Extend != 0 {
		action := "extending"
		if opt.Extend < 0 {
			action = "shrinking"
		}
		log.info(action+" initial binary mask",
			slog.Float64("px", math.Abs(opt.Extend)))
		applied, err := Extend(g.Shape, inside, opt.Extend)
		if err != nil {
			return nil, err
		}
		if !applied {
			log.debug("mask is uniform, skipping extension")
		}
	}

	res, err := grid.New(g.Shape...)
	if err != nil {
		return nil, err
	}
	if opt.Width > 0 {
		log.info("adding soft edge", slog.Float64("px", opt.Width))
		values, err := SoftEdge(g.Shape, inside, opt.Width)
		if err != nil {
			return nil, err
		}
		res.Data = values
	} else {
		for i, in := range inside {
			if in {
				res.Data[i] = 1
			}
		}
	}
	return res, nil
}

func (opt *Options) check(threshold float64) error {
	if !finite(threshold) {
		return fmt.Errorf("%w: threshold level %g", ErrInvalidInput, threshold)
	}
	if !finite(opt.Extend) {
		return fmt.Errorf("%w: extension distance %g", ErrInvalidInput, opt.Extend)
	}
	if !finite(opt.Width) {
		return fmt.Errorf("%w: soft edge width %g", ErrInvalidInput, opt.Width)
	}
	if opt.Width < 0 {
		return fmt.Errorf("%w: negative soft edge width %g",
			ErrInvalidInput, opt.Width)
	}
	return nil
}

// Binarize returns a mask which is true exactly for the samples of g which
// are greater than or equal to threshold.
func Binarize(g *grid.Grid, threshold float64) []bool {
	inside := make([]bool, len(g.Data))
	for i, v := range g.Data {
		inside[i] = v >= threshold
	}
	return inside
}

// Extend grows or shrinks the binary mask inside, in place.
//
// For positive distance, every point whose distance to the nearest inside
// point is at most distance becomes inside.  For negative distance, every
// inside point whose distance to the nearest outside point is at most
// -distance becomes outside.
//
// If the mask is entirely inside or entirely outside, no distance can be
// computed and the mask is left unchanged.  In this case, and for distance
// zero, the returned flag is false.
func Extend(shape []int, inside []bool, distance float64) (bool, error) {
	if distance == 0 {
		return false, nil
	}
	if !finite(distance) {
		return false, fmt.Errorf("%w: extension distance %g",
			ErrInvalidInput, distance)
	}

	grow := distance > 0
	seed := inside
	if !grow {
		seed = make([]bool, len(inside))
		for i, in := range inside {
			seed[i] = !in
		}
	}

	d, err := edt.Distance(shape, seed)
	if errors.Is(err, edt.ErrNoSeed) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	limit := math.Abs(distance)
	for i, di := range d {
		if di <= limit {
			inside[i] = grow
		}
	}
	return true, nil
}

// SoftEdge returns the values of a mask with a raised cosine edge of the
// given width around the inside region.
//
// Inside points have value 1.  Outside points at distance d <= width from
// the inside region have value 0.5 + 0.5*cos(π*d/width).  All other points
// have value 0.
func SoftEdge(shape []int, inside []bool, width float64) ([]float64, error) {
	if !finite(width) || width < 0 {
		return nil, fmt.Errorf("%w: soft edge width %g", ErrInvalidInput, width)
	}

	res := make([]float64, len(inside))
	if width == 0 {
		for i, in := range inside {
			if in {
				res[i] = 1
			}
		}
		return res, nil
	}

	d, err := edt.Distance(shape, inside)
	if errors.Is(err, edt.ErrNoSeed) {
		return res, nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	for i, di := range d {
		if di <= width {
			res[i] = 0.5 + 0.5*math.Cos(math.Pi*di/width)
		}
	}
	return res, nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

type logger struct {
	l *slog.Logger
}

func (l logger) info(msg string, args ...any) {
	if l.l != nil {
		l.l.Info(msg, args...)
	}
}

func (l logger) debug(msg string, args ...any) {
	if l.l != nil {
		l.l.Debug(msg, args...)
	}
}
