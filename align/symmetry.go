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

package align

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// PlanarityTolerance is the maximal distance, in Ångström, of a point from
// the symmetry plane.
const PlanarityTolerance = 1.0

// Alignment is a rotation about a centre, optionally followed by a
// translation of the centre to the origin.
type Alignment struct {
	// Center is the fixed point of the rotation.
	Center r3.Vec

	// Axis is the unit rotation axis.
	Axis r3.Vec

	// Angle is the rotation angle in radians.
	Angle float64

	// ToOrigin, if set, makes Apply move Center to the origin after the
	// rotation.
	ToOrigin bool
}

// SymmetryAxis computes the alignment which rotates the plane through
// the given points so that its normal points along +z.  The rotation is
// about the centroid of the points.  The number of points must equal the
// order of the cyclic symmetry sym, e.g. 5 points for "C5".
func SymmetryAxis(points []r3.Vec, sym string) (*Alignment, error) {
	order, err := ParseCyclic(sym)
	if err != nil {
		return nil, err
	}
	if len(points) != order {
		return nil, fmt.Errorf("number of points (%d) must match symmetry order (C%d)",
			len(points), order)
	}
	if !IsPlanar(points, PlanarityTolerance) {
		return nil, ErrNotPlanar
	}
	normal, ok := planeNormal(points)
	if !ok {
		return nil, ErrNotPlanar
	}
	center, err := Centroid(points, nil)
	if err != nil {
		return nil, err
	}

	axis, angle := RotationTo(normal, r3.Vec{Z: 1})
	return &Alignment{
		Center: center,
		Axis:   axis,
		Angle:  angle,
	}, nil
}

// RotationTo returns the axis and angle of the shortest rotation which
// turns the direction from onto the direction to.
func RotationTo(from, to r3.Vec) (r3.Vec, float64) {
	from = r3.Unit(from)
	to = r3.Unit(to)
	cos := math.Max(-1, math.Min(1, r3.Dot(from, to)))
	axis := r3.Cross(from, to)
	if r3.Norm(axis) > 1e-12 {
		return r3.Unit(axis), math.Acos(cos)
	}
	if cos > 0 {
		return r3.Vec{X: 1}, 0
	}

	// anti-parallel: rotate by 180 degrees about any perpendicular axis
	perp := r3.Cross(from, r3.Vec{X: 1})
	if r3.Norm(perp) < 1e-6 {
		perp = r3.Cross(from, r3.Vec{Y: 1})
	}
	return r3.Unit(perp), math.Pi
}

// Degrees returns the rotation angle in degrees.
func (a *Alignment) Degrees() float64 {
	return a.Angle * 180 / math.Pi
}

// Apply transforms a single point.
func (a *Alignment) Apply(p r3.Vec) r3.Vec {
	rot := r3.NewRotation(a.Angle, a.Axis)
	q := rot.Rotate(r3.Sub(p, a.Center))
	if a.ToOrigin {
		return q
	}
	return r3.Add(q, a.Center)
}

// ApplyAll transforms a list of points.
func (a *Alignment) ApplyAll(points []r3.Vec) []r3.Vec {
	rot := r3.NewRotation(a.Angle, a.Axis)
	res := make([]r3.Vec, len(points))
	for i, p := range points {
		q := rot.Rotate(r3.Sub(p, a.Center))
		if !a.ToOrigin {
			q = r3.Add(q, a.Center)
		}
		res[i] = q
	}
	return res
}
