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

// Package edt computes exact Euclidean distance transforms on regular
// N-dimensional lattices with unit spacing.
//
// For every lattice point the transform gives the distance to the nearest
// seed point.  Seed points themselves have distance 0.  The implementation
// uses the lower envelope of parabolas construction of Felzenszwalb and
// Huttenlocher, applied once along every axis.  The running time is linear
// in the number of lattice points.
package edt

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoSeed is returned if the seed set is empty.  In this case no point
// has a finite distance to the seed set.
var ErrNoSeed = errors.New("empty seed set")

// Distance returns the Euclidean distance from every lattice point to the
// nearest point p with seed[p] == true.
func Distance(shape []int, seed []bool) ([]float64, error) {
	d, err := Squared(shape, seed)
	if err != nil {
		return nil, err
	}
	for i, v := range d {
		d[i] = math.Sqrt(v)
	}
	return d, nil
}

// Squared returns the squared Euclidean distance from every lattice point
// to the nearest seed point.  Squared distances between lattice points are
// integers and are represented exactly.
func Squared(shape []int, seed []bool) ([]float64, error) {
	n, err := checkShape(shape)
	if err != nil {
		return nil, err
	}
	if len(seed) != n {
		return nil, fmt.Errorf("shape %v needs %d seed flags, got %d",
			shape, n, len(seed))
	}

	d := make([]float64, n)
	found := false
	for i, s := range seed {
		if s {
			found = true
		} else {
			d[i] = math.Inf(1)
		}
	}
	if !found {
		return nil, ErrNoSeed
	}

	maxLen := 0
	for _, k := range shape {
		maxLen = max(maxLen, k)
	}
	w := newWorkspace(maxLen)

	stride := 1
	for axis := len(shape) - 1; axis >= 0; axis-- {
		length := shape[axis]
		if length > 1 {
			block := stride * length
			for start := 0; start < n; start += block {
				for off := 0; off < stride; off++ {
					w.transformLine(d, start+off, stride, length)
				}
			}
		}
		stride *= length
	}
	return d, nil
}

func checkShape(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, errors.New("shape has no axes")
	}
	n := 1
	for _, k := range shape {
		if k < 1 {
			return 0, fmt.Errorf("invalid shape %v", shape)
		}
		n *= k
	}
	return n, nil
}

// workspace holds the scratch buffers for the one-dimensional transform.
type workspace struct {
	f []float64 // input samples of the current line
	v []int     // locations of the parabolas in the lower envelope
	z []float64 // boundaries between the parabolas
}

func newWorkspace(n int) *workspace {
	return &workspace{
		f: make([]float64, n),
		v: make([]int, n),
		z: make([]float64, n+1),
	}
}

// transformLine replaces the squared distances along one lattice line by
// the minimum over the line of d[p] + (q-p)^2.
func (w *workspace) transformLine(d []float64, start, stride, n int) {
	f := w.f[:n]
	for q := range f {
		f[q] = d[start+q*stride]
	}

	v := w.v
	z := w.z
	k := -1
	for q := 0; q < n; q++ {
		fq := f[q]
		if math.IsInf(fq, 1) {
			continue
		}
		if k < 0 {
			k = 0
			v[0] = q
			z[0] = math.Inf(-1)
			z[1] = math.Inf(1)
			continue
		}
		s := intersect(f, v[k], q)
		for s <= z[k] {
			k--
			s = intersect(f, v[k], q)
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}
	if k < 0 {
		// no finite values along this line
		return
	}

	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		p := v[k]
		dq := float64(q - p)
		d[start+q*stride] = dq*dq + f[p]
	}
}

// intersect returns the position where the parabolas rooted at p and q
// (with p < q) intersect.
func intersect(f []float64, p, q int) float64 {
	fp := f[p] + float64(p*p)
	fq := f[q] + float64(q*q)
	return (fq - fp) / float64(2*(q-p))
}
