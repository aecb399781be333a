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

// Package align computes the rigid motions used to center models and to
// align cyclic symmetry axes with the z axis.
package align

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/robertstass/chimerax-commands/grid"
)

var (
	// ErrNoPoints is returned when a centre is requested for an empty
	// point set.
	ErrNoPoints = errors.New("no points selected")

	// ErrNoVolume is returned when no sample of a map reaches the
	// threshold level.
	ErrNoVolume = errors.New("map has no volume above the threshold level")

	// ErrNotPlanar is returned when the points defining a symmetry plane
	// are not co-planar.
	ErrNotPlanar = errors.New("points are not co-planar")
)

// Centroid returns the centre of a point set.  If weights is nil, all
// points have the same weight.  Otherwise weights gives one weight per
// point, typically the atomic masses.
func Centroid(points []r3.Vec, weights []float64) (r3.Vec, error) {
	if len(points) == 0 {
		return r3.Vec{}, ErrNoPoints
	}
	if weights != nil && len(weights) != len(points) {
		return r3.Vec{}, fmt.Errorf("%d weights for %d points",
			len(weights), len(points))
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	zs := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}
	return r3.Vec{
		X: stat.Mean(xs, weights),
		Y: stat.Mean(ys, weights),
		Z: stat.Mean(zs, weights),
	}, nil
}

// VolumeCenter returns the centre of mass of the samples of g which are
// at or above level.  The samples are weighted by their value.  The grid
// must have shape [nz, ny, nx], and the result is given in (fractional)
// grid index coordinates x, y, z.
func VolumeCenter(g *grid.Grid, level float64) (r3.Vec, error) {
	if g.Rank() != 3 {
		return r3.Vec{}, fmt.Errorf("volume centre needs a 3D grid, got rank %d",
			g.Rank())
	}
	nz, ny, nx := g.Shape[0], g.Shape[1], g.Shape[2]

	var sum r3.Vec
	var total float64
	idx := 0
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				v := g.Data[idx]
				idx++
				if v < level || v <= 0 {
					continue
				}
				sum = r3.Add(sum, r3.Scale(v, r3.Vec{X: float64(x), Y: float64(y), Z: float64(z)}))
				total += v
			}
		}
	}
	if total == 0 {
		return r3.Vec{}, ErrNoVolume
	}
	return r3.Scale(1/total, sum), nil
}

// IsPlanar reports whether all points lie within distance tol of the plane
// through the first three points.  Three or fewer points are always
// planar.  If the first three points are collinear, no plane is defined
// and the function reports false.
func IsPlanar(points []r3.Vec, tol float64) bool {
	if len(points) < 4 {
		return true
	}
	normal, ok := planeNormal(points)
	if !ok {
		return false
	}
	p0 := points[0]
	for _, p := range points[3:] {
		if math.Abs(r3.Dot(r3.Sub(p, p0), normal)) > tol {
			return false
		}
	}
	return true
}

// planeNormal returns the unit normal of the plane through the first three
// points.
func planeNormal(points []r3.Vec) (r3.Vec, bool) {
	p0, p1, p2 := points[0], points[1], points[2]
	n := r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0))
	norm := r3.Norm(n)
	if norm < 1e-12 {
		return r3.Vec{}, false
	}
	return r3.Scale(1/norm, n), true
}

// ParseCyclic parses a cyclic symmetry name like "C3" and returns
// the symmetry order.  Only orders of three and above are accepted.
func ParseCyclic(sym string) (int, error) {
	if sym == "" || (sym[0] != 'c' && sym[0] != 'C') {
		return 0, fmt.Errorf("only cyclic symmetry is supported, not %q", sym)
	}
	n, err := strconv.Atoi(strings.TrimSpace(sym[1:]))
	if err != nil {
		return 0, fmt.Errorf("cannot parse symmetry %q, should be C2, C3, etc.", sym)
	}
	if n < 3 {
		return 0, fmt.Errorf("symmetry %q: orders below C3 are not supported", sym)
	}
	return n, nil
}

// Translation returns the shift which moves from onto to.
func Translation(from, to r3.Vec) r3.Vec {
	return r3.Sub(to, from)
}
