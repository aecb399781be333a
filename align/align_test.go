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
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/robertstass/chimerax-commands/grid"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// ring returns n points on a circle of the given radius around c, in the
// plane spanned by u and v.
func ring(n int, c, u, v r3.Vec, radius float64) []r3.Vec {
	u = r3.Unit(u)
	v = r3.Unit(r3.Sub(v, r3.Scale(r3.Dot(u, v), u)))
	res := make([]r3.Vec, n)
	for i := range res {
		phi := 2 * math.Pi * float64(i) / float64(n)
		p := r3.Add(r3.Scale(radius*math.Cos(phi), u), r3.Scale(radius*math.Sin(phi), v))
		res[i] = r3.Add(c, p)
	}
	return res
}

func TestCentroid(t *testing.T) {
	points := []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 0, Y: 4, Z: 6}}
	c, err := Centroid(points, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(r3.Vec{X: 2.0 / 3, Y: 4.0 / 3, Z: 2}, c, approx); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	// the heavy atom pulls the centre towards it
	c, err = Centroid(points, []float64{1, 2, 1})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(r3.Vec{X: 1, Y: 1, Z: 1.5}, c, approx); d != "" {
		t.Errorf("weighted (-want +got):\n%s", d)
	}

	if _, err := Centroid(nil, nil); !errors.Is(err, ErrNoPoints) {
		t.Errorf("expected ErrNoPoints, got %v", err)
	}
	if _, err := Centroid(points, []float64{1}); err == nil {
		t.Error("expected error for wrong number of weights")
	}
}

func TestVolumeCenter(t *testing.T) {
	g, _ := grid.New(4, 5, 6)
	g.Set(1, 1, 2, 3)
	g.Set(3, 3, 2, 5)
	g.Set(0.1, 0, 0, 0) // below the level

	c, err := VolumeCenter(g, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	// weighted mean of (3, 2, 1) and (5, 2, 3) with weights 1 and 3
	if d := cmp.Diff(r3.Vec{X: 4.5, Y: 2, Z: 2.5}, c, approx); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	if _, err := VolumeCenter(g, 10); !errors.Is(err, ErrNoVolume) {
		t.Errorf("expected ErrNoVolume, got %v", err)
	}
	flat, _ := grid.New(3, 3)
	if _, err := VolumeCenter(flat, 0); err == nil {
		t.Error("expected error for 2D grid")
	}
}

func TestIsPlanar(t *testing.T) {
	pts := ring(6, r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{X: 1, Y: 1}, r3.Vec{Z: 1}, 10)
	if !IsPlanar(pts, 1e-9) {
		t.Error("ring is not planar")
	}
	pts[4] = r3.Add(pts[4], r3.Vec{X: 3, Y: -3})
	if IsPlanar(pts, 1) {
		t.Error("displaced point not detected")
	}
	if !IsPlanar(pts[:3], 0) {
		t.Error("three points are always planar")
	}
	line := []r3.Vec{{}, {X: 1}, {X: 2}, {X: 3}}
	if IsPlanar(line, 1) {
		t.Error("collinear first points must not be planar")
	}
}

func TestParseCyclic(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want int
		ok   bool
	}{
		{"C3", 3, true},
		{"c12", 12, true},
		{"C2", 0, false},
		{"D3", 0, false},
		{"C", 0, false},
		{"Cx", 0, false},
		{"", 0, false},
	} {
		n, err := ParseCyclic(tc.in)
		if (err == nil) != tc.ok || n != tc.want {
			t.Errorf("ParseCyclic(%q) = %d, %v", tc.in, n, err)
		}
	}
}

func TestSymmetryAxis(t *testing.T) {
	center := r3.Vec{X: 10, Y: -5, Z: 7}
	pts := ring(5, center, r3.Vec{X: 1, Y: 0, Z: 1}, r3.Vec{X: 0, Y: 1, Z: 0.5}, 8)

	a, err := SymmetryAxis(pts, "C5")
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(center, a.Center, approx); d != "" {
		t.Errorf("centre (-want +got):\n%s", d)
	}

	moved := a.ApplyAll(pts)
	for i, p := range moved {
		if math.Abs(p.Z-center.Z) > 1e-9 {
			t.Errorf("point %d has z=%g after alignment, want %g", i, p.Z, center.Z)
		}
		if d := cmp.Diff(p, a.Apply(pts[i]), approx); d != "" {
			t.Errorf("Apply and ApplyAll differ:\n%s", d)
		}
		// distances to the centre are preserved
		if math.Abs(r3.Norm(r3.Sub(p, center))-8) > 1e-9 {
			t.Errorf("point %d: radius changed", i)
		}
	}

	a.ToOrigin = true
	for i, p := range a.ApplyAll(pts) {
		if math.Abs(p.Z) > 1e-9 {
			t.Errorf("point %d: z=%g after moving to origin", i, p.Z)
		}
	}
	c, _ := Centroid(a.ApplyAll(pts), nil)
	if d := cmp.Diff(r3.Vec{}, c, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("centroid not at origin:\n%s", d)
	}
}

func TestSymmetryAxisErrors(t *testing.T) {
	pts := ring(4, r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1}, 5)
	if _, err := SymmetryAxis(pts, "C3"); err == nil {
		t.Error("expected error for wrong number of points")
	}
	pts[3].Z = 4
	if _, err := SymmetryAxis(pts, "C4"); !errors.Is(err, ErrNotPlanar) {
		t.Errorf("expected ErrNotPlanar, got %v", err)
	}
	collinear := []r3.Vec{{}, {X: 1}, {X: 2}}
	if _, err := SymmetryAxis(collinear, "C3"); !errors.Is(err, ErrNotPlanar) {
		t.Errorf("expected ErrNotPlanar, got %v", err)
	}
}

func TestRotationTo(t *testing.T) {
	z := r3.Vec{Z: 1}
	for _, from := range []r3.Vec{
		{Z: 1},
		{Z: -1},
		{X: 1},
		{X: 1, Y: 2, Z: -3},
		{X: -1, Z: -1e-3},
	} {
		axis, angle := RotationTo(from, z)
		got := r3.NewRotation(angle, axis).Rotate(r3.Unit(from))
		if d := cmp.Diff(z, got, cmpopts.EquateApprox(0, 1e-9)); d != "" {
			t.Errorf("from %v (-want +got):\n%s", from, d)
		}
	}

	_, angle := RotationTo(r3.Vec{Z: -2}, z)
	if angle != math.Pi {
		t.Errorf("anti-parallel angle %g", angle)
	}
	a := &Alignment{Angle: math.Pi / 2}
	if math.Abs(a.Degrees()-90) > 1e-12 {
		t.Errorf("Degrees() = %g", a.Degrees())
	}
}

func TestTranslation(t *testing.T) {
	d := Translation(r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{X: 0, Y: 4, Z: 3})
	if d != (r3.Vec{X: -1, Y: 2, Z: 0}) {
		t.Errorf("got %v", d)
	}
}
