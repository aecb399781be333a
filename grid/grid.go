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

// Package grid implements dense N-dimensional sample grids.
//
// A [Grid] stores one float64 per lattice point in row-major order: the last
// axis varies fastest.  Density maps read from files use the shape
// [nz, ny, nx], so that x is the fastest varying index, matching the order
// in which the samples are stored on disk.
package grid

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Grid is a regular lattice of scalar samples.
type Grid struct {
	// Shape gives the number of lattice points along each axis.
	// All entries are at least 1.
	Shape []int

	// Data holds the samples, with the last axis varying fastest.
	Data []float64
}

var (
	// ErrEmpty indicates a grid without axes, or with an axis of size zero.
	ErrEmpty = errors.New("empty grid")

	// ErrNonFinite indicates a grid containing NaN or infinite samples.
	ErrNonFinite = errors.New("non-finite sample")

	errShape = errors.New("grid shapes differ")
)

// New allocates a zero-filled grid of the given shape.
func New(shape ...int) (*Grid, error) {
	n, err := size(shape)
	if err != nil {
		return nil, err
	}
	return &Grid{
		Shape: slices.Clone(shape),
		Data:  make([]float64, n),
	}, nil
}

// FromData wraps an existing slice of samples.  The slice is not copied.
func FromData(shape []int, data []float64) (*Grid, error) {
	n, err := size(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("grid shape %v needs %d samples, got %d",
			shape, n, len(data))
	}
	return &Grid{Shape: slices.Clone(shape), Data: data}, nil
}

func size(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, ErrEmpty
	}
	n := 1
	for _, k := range shape {
		if k < 1 {
			return 0, fmt.Errorf("shape %v: %w", shape, ErrEmpty)
		}
		if n > math.MaxInt/k {
			return 0, fmt.Errorf("shape %v is too large", shape)
		}
		n *= k
	}
	return n, nil
}

// Len returns the number of lattice points.
func (g *Grid) Len() int {
	return len(g.Data)
}

// Rank returns the number of axes.
func (g *Grid) Rank() int {
	return len(g.Shape)
}

// Strides returns, for each axis, the distance in Data between
// neighbouring lattice points along this axis.
func (g *Grid) Strides() []int {
	return Strides(g.Shape)
}

// Strides returns the row-major strides for the given shape.
func Strides(shape []int) []int {
	res := make([]int, len(shape))
	s := 1
	for i := len(shape) - 1; i >= 0; i-- {
		res[i] = s
		s *= shape[i]
	}
	return res
}

// Index converts lattice coordinates into a position in Data.
// The function panics if the coordinates are out of range.
func (g *Grid) Index(coords ...int) int {
	if len(coords) != len(g.Shape) {
		panic(fmt.Sprintf("grid: %d coordinates for rank %d grid",
			len(coords), len(g.Shape)))
	}
	idx := 0
	for i, c := range coords {
		if c < 0 || c >= g.Shape[i] {
			panic(fmt.Sprintf("grid: coordinate %d out of range [0, %d)",
				c, g.Shape[i]))
		}
		idx = idx*g.Shape[i] + c
	}
	return idx
}

// Coords converts a position in Data into lattice coordinates.
func (g *Grid) Coords(idx int) []int {
	res := make([]int, len(g.Shape))
	for i := len(g.Shape) - 1; i >= 0; i-- {
		res[i] = idx % g.Shape[i]
		idx /= g.Shape[i]
	}
	return res
}

// At returns the sample at the given lattice coordinates.
func (g *Grid) At(coords ...int) float64 {
	return g.Data[g.Index(coords...)]
}

// Set changes the sample at the given lattice coordinates.
func (g *Grid) Set(v float64, coords ...int) {
	g.Data[g.Index(coords...)] = v
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	return &Grid{
		Shape: slices.Clone(g.Shape),
		Data:  slices.Clone(g.Data),
	}
}

// SameShape reports whether g and other have identical shapes.
func (g *Grid) SameShape(other *Grid) bool {
	return slices.Equal(g.Shape, other.Shape)
}

// Check verifies that the grid is non-empty, that the number of samples
// matches the shape, and that all samples are finite.
func (g *Grid) Check() error {
	if g == nil {
		return ErrEmpty
	}
	n, err := size(g.Shape)
	if err != nil {
		return err
	}
	if len(g.Data) != n {
		return fmt.Errorf("grid shape %v needs %d samples, got %d",
			g.Shape, n, len(g.Data))
	}
	for i, v := range g.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w at %v", ErrNonFinite, g.Coords(i))
		}
	}
	return nil
}
