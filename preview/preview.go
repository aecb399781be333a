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

// Package preview renders sections through 3D grids as grayscale images.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"github.com/robertstass/chimerax-commands/grid"
)

// Slice selects a section through a grid of shape [nz, ny, nx], and the
// way it is rendered.
type Slice struct {
	// Axis is the grid axis perpendicular to the section: 0 for a z
	// section, 1 for a y section, 2 for an x section.
	Axis int

	// Index is the position of the section along Axis.
	Index int

	// Lo and Hi give the value window.  Lo is drawn black, Hi is drawn
	// white.  If both are zero, the window [0, 1] is used.
	Lo, Hi float64

	// Zoom is the size of one lattice step in output pixels.
	// Zero means 1.
	Zoom float64
}

// Bounds returns the size of the section in lattice points, before zooming.
func (s *Slice) Bounds(g *grid.Grid) rect.IntRect {
	w, h := s.dims(g)
	return rect.IntRect{XMin: 0, YMin: 0, XMax: w, YMax: h}
}

func (s *Slice) dims(g *grid.Grid) (int, int) {
	nz, ny, nx := g.Shape[0], g.Shape[1], g.Shape[2]
	switch s.Axis {
	case 0:
		return nx, ny
	case 1:
		return nx, nz
	default:
		return ny, nz
	}
}

// at returns the sample at position (u, v) in the section.
func (s *Slice) at(g *grid.Grid, u, v int) float64 {
	switch s.Axis {
	case 0:
		return g.At(s.Index, v, u)
	case 1:
		return g.At(v, s.Index, u)
	default:
		return g.At(v, u, s.Index)
	}
}

// Render draws the section.  The section's second axis points upwards in
// the image, so that a z section shows x to the right and y to the top.
func Render(g *grid.Grid, s *Slice) (*image.Gray, error) {
	if g == nil || g.Rank() != 3 {
		return nil, errors.New("preview: need a 3-dimensional grid")
	}
	if s.Axis < 0 || s.Axis > 2 {
		return nil, fmt.Errorf("preview: invalid axis %d", s.Axis)
	}
	if s.Index < 0 || s.Index >= g.Shape[s.Axis] {
		return nil, fmt.Errorf("preview: section %d out of range [0, %d)",
			s.Index, g.Shape[s.Axis])
	}
	lo, hi := s.Lo, s.Hi
	if lo == 0 && hi == 0 {
		hi = 1
	}
	if !(hi > lo) {
		return nil, fmt.Errorf("preview: empty value window [%g, %g]", lo, hi)
	}
	zoom := s.Zoom
	if zoom == 0 {
		zoom = 1
	}
	if !(zoom > 0) || math.IsInf(zoom, 0) {
		return nil, fmt.Errorf("preview: invalid zoom %g", zoom)
	}

	w, h := s.dims(g)
	src := image.NewGray(image.Rect(0, 0, w, h))
	for v := 0; v < h; v++ {
		for u := 0; u < w; u++ {
			src.SetGray(u, v, color.Gray{Y: toGray(s.at(g, u, v), lo, hi)})
		}
	}

	dw := max(1, int(math.Round(float64(w)*zoom)))
	dh := max(1, int(math.Round(float64(h)*zoom)))
	dst := image.NewGray(image.Rect(0, 0, dw, dh))

	// scale by the zoom factor and flip vertically
	m := matrix.Scale(zoom, -zoom).Mul(matrix.Translate(0, float64(h)*zoom))
	s2d := f64.Aff3{
		m[0], m[2], m[4],
		m[1], m[3], m[5],
	}
	xdraw.BiLinear.Transform(dst, s2d, src, src.Bounds(), xdraw.Src, nil)

	return dst, nil
}

// WritePNG encodes img as a PNG image.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func toGray(x, lo, hi float64) uint8 {
	t := (x - lo) / (hi - lo)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return uint8(math.Round(t * 255))
}
