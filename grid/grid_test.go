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

package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestNewErrors(t *testing.T) {
	for _, shape := range [][]int{nil, {}, {3, 0}, {-1}} {
		_, err := New(shape...)
		if !errors.Is(err, ErrEmpty) {
			t.Errorf("New(%v): expected ErrEmpty, got %v", shape, err)
		}
	}
}

func TestFromDataLength(t *testing.T) {
	_, err := FromData([]int{2, 3}, make([]float64, 5))
	if err == nil {
		t.Fatal("expected error for wrong sample count")
	}
	g, err := FromData([]int{2, 3}, make([]float64, 6))
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 6 || g.Rank() != 2 {
		t.Errorf("unexpected grid %v/%d", g.Shape, g.Len())
	}
}

func TestIndexCoords(t *testing.T) {
	g, err := New(2, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]int{12, 4, 1}, g.Strides()); d != "" {
		t.Errorf("strides (-want +got):\n%s", d)
	}
	for i := range g.Data {
		c := g.Coords(i)
		if j := g.Index(c...); j != i {
			t.Errorf("Index(Coords(%d)) = %d", i, j)
		}
	}
	g.Set(7, 1, 2, 3)
	if g.Data[23] != 7 || g.At(1, 2, 3) != 7 {
		t.Error("Set/At do not agree with row-major order")
	}
}

func TestIndexPanics(t *testing.T) {
	g, _ := New(2, 2)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	g.Index(2, 0)
}

func TestCheck(t *testing.T) {
	g, _ := New(2, 2)
	if err := g.Check(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	g.Data[3] = math.NaN()
	if err := g.Check(); !errors.Is(err, ErrNonFinite) {
		t.Errorf("expected ErrNonFinite, got %v", err)
	}
	g.Data[3] = math.Inf(-1)
	if err := g.Check(); !errors.Is(err, ErrNonFinite) {
		t.Errorf("expected ErrNonFinite, got %v", err)
	}
	if err := (&Grid{Shape: []int{2, 0}}).Check(); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestClone(t *testing.T) {
	g, _ := FromData([]int{3}, []float64{1, 2, 3})
	c := g.Clone()
	c.Data[0] = 10
	c.Shape[0] = 5
	if g.Data[0] != 1 || g.Shape[0] != 3 {
		t.Error("Clone shares memory with the original")
	}
}

func TestFlip(t *testing.T) {
	g, _ := FromData([]int{2, 3}, []float64{
		1, 2, 3,
		4, 5, 6,
	})

	type testCase struct {
		axis int
		want []float64
	}
	for _, tc := range []testCase{
		{0, []float64{4, 5, 6, 1, 2, 3}},
		{1, []float64{3, 2, 1, 6, 5, 4}},
	} {
		f, err := g.Flip(tc.axis)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(tc.want, f.Data); d != "" {
			t.Errorf("axis %d (-want +got):\n%s", tc.axis, d)
		}
		back, _ := f.Flip(tc.axis)
		if d := cmp.Diff(g.Data, back.Data); d != "" {
			t.Errorf("double flip of axis %d changed the grid:\n%s", tc.axis, d)
		}
	}

	if _, err := g.Flip(2); err == nil {
		t.Error("expected error for invalid axis")
	}
}

func TestFlip3D(t *testing.T) {
	g, _ := New(3, 2, 2)
	for i := range g.Data {
		g.Data[i] = float64(i)
	}
	f, err := g.Flip(0)
	if err != nil {
		t.Fatal(err)
	}
	for z := 0; z < 3; z++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				if f.At(z, y, x) != g.At(2-z, y, x) {
					t.Fatalf("flip mismatch at %d,%d,%d", z, y, x)
				}
			}
		}
	}
}

func TestThreshold(t *testing.T) {
	g, _ := FromData([]int{5}, []float64{0, 0.25, 0.5, 0.75, 3})

	filled := g.Threshold(2, 1, 2, 0)
	if d := cmp.Diff([]float64{1, 1, 1, 1, 0}, filled.Data); d != "" {
		t.Errorf("filled (-want +got):\n%s", d)
	}

	binary := g.Threshold(0.5, 0, 0.5, 1)
	if d := cmp.Diff([]float64{0, 0, 0.5, 1, 1}, binary.Data); d != "" {
		t.Errorf("binary (-want +got):\n%s", d)
	}

	low := g.Threshold(0.5, -1, math.NaN(), 0)
	if d := cmp.Diff([]float64{-1, -1, 0.5, 0.75, 3}, low.Data); d != "" {
		t.Errorf("one-sided (-want +got):\n%s", d)
	}

	if g.Data[0] != 0 {
		t.Error("Threshold modified its input")
	}
}

func TestAdd(t *testing.T) {
	a, _ := FromData([]int{3}, []float64{1, 2, 3})
	b, _ := FromData([]int{3}, []float64{1, 0, -3})
	s, err := Add(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]float64{2, 2, 0}, s.Data); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	c, _ := New(1, 3)
	if _, err := Add(a, c); err == nil {
		t.Error("expected shape mismatch error")
	}
}

func TestStats(t *testing.T) {
	g, _ := FromData([]int{4}, []float64{1, 2, 3, 6})
	got := g.Stats()
	want := Stats{Min: 1, Max: 6, Mean: 3, RMS: math.Sqrt(3.5)}
	if d := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	if n := g.Count(func(v float64) bool { return v >= 2 }); n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
}
