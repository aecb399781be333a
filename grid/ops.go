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
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Flip returns a copy of g with the given axis reversed.
// For a density map this changes the handedness.
func (g *Grid) Flip(axis int) (*Grid, error) {
	if axis < 0 || axis >= len(g.Shape) {
		return nil, fmt.Errorf("cannot flip axis %d of a rank %d grid",
			axis, len(g.Shape))
	}
	res := g.Clone()

	stride := g.Strides()[axis]
	n := g.Shape[axis]
	block := stride * n
	for start := 0; start < len(g.Data); start += block {
		for k := 0; k < n; k++ {
			src := g.Data[start+k*stride : start+(k+1)*stride]
			dst := res.Data[start+(n-1-k)*stride : start+(n-k)*stride]
			copy(dst, src)
		}
	}
	return res, nil
}

// Threshold returns a copy of g where samples below lo are replaced by
// setLo and samples above hi are replaced by setHi.  A NaN bound disables
// the corresponding side.
func (g *Grid) Threshold(lo, setLo, hi, setHi float64) *Grid {
	res := g.Clone()
	for i, v := range res.Data {
		switch {
		case !math.IsNaN(lo) && v < lo:
			res.Data[i] = setLo
		case !math.IsNaN(hi) && v > hi:
			res.Data[i] = setHi
		}
	}
	return res
}

// Add returns the elementwise sum of a and b.
func Add(a, b *Grid) (*Grid, error) {
	if !a.SameShape(b) {
		return nil, fmt.Errorf("%w: %v and %v", errShape, a.Shape, b.Shape)
	}
	res := a.Clone()
	floats.Add(res.Data, b.Data)
	return res, nil
}

// Count returns the number of samples for which keep returns true.
func (g *Grid) Count(keep func(float64) bool) int {
	n := 0
	for _, v := range g.Data {
		if keep(v) {
			n++
		}
	}
	return n
}

// Stats summarises the sample values of a grid.
type Stats struct {
	Min, Max, Mean, RMS float64
}

// Stats computes the minimum, maximum, mean and root-mean-square deviation
// from the mean of the samples.
func (g *Grid) Stats() Stats {
	if len(g.Data) == 0 {
		return Stats{}
	}
	mean := floats.Sum(g.Data) / float64(len(g.Data))
	var ss float64
	for _, v := range g.Data {
		d := v - mean
		ss += d * d
	}
	return Stats{
		Min:  floats.Min(g.Data),
		Max:  floats.Max(g.Data),
		Mean: mean,
		RMS:  math.Sqrt(ss / float64(len(g.Data))),
	}
}
