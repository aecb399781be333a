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

package mrc

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/bits"
	"strings"

	"github.com/robertstass/chimerax-commands/grid"
)

// Read reads an MRC file.  Both byte orders are supported.  The extended
// header, if present, is skipped.
func Read(r io.Reader) (*Map, error) {
	buf := make([]byte, headerSize)
	_, err := io.ReadFull(r, buf)
	if err != nil {
		return nil, &MalformedFileError{Err: fmt.Errorf("short header: %w", err)}
	}
	raw, order, err := decodeHeader(buf)
	if err != nil {
		return nil, &MalformedFileError{Err: err}
	}

	n := [3]int{int(raw.NX), int(raw.NY), int(raw.NZ)}
	for i, ni := range n {
		if ni <= 0 {
			return nil, &MalformedFileError{
				Pos: int64(4 * i),
				Err: fmt.Errorf("invalid map size %v", n),
			}
		}
	}
	mode := Mode(raw.Mode)
	sampleSize := mode.size()
	if sampleSize == 0 {
		return nil, &MalformedFileError{
			Pos: 12,
			Err: fmt.Errorf("unsupported %s", mode),
		}
	}
	axes, err := axisOrder(raw)
	if err != nil {
		return nil, &MalformedFileError{Pos: 64, Err: err}
	}

	pos := int64(headerSize)
	if raw.NSymBT < 0 {
		return nil, &MalformedFileError{
			Pos: 92,
			Err: fmt.Errorf("invalid extended header size %d", raw.NSymBT),
		}
	}
	if raw.NSymBT > 0 {
		skipped, err := io.CopyN(io.Discard, r, int64(raw.NSymBT))
		pos += skipped
		if err != nil {
			return nil, &MalformedFileError{Pos: pos, Err: err}
		}
	}

	nBytes, ok := dataSize(n, sampleSize)
	if !ok {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("map size %dx%dx%d is too large", n[0], n[1], n[2]),
		}
	}
	data, err := io.ReadAll(io.LimitReader(r, nBytes))
	if err == nil && int64(len(data)) < nBytes {
		err = fmt.Errorf("expected %d bytes of %s samples, got %d",
			nBytes, mode, len(data))
	}
	if err != nil {
		return nil, &MalformedFileError{Pos: pos + int64(len(data)), Err: err}
	}
	samples := decodeSamples(data, mode, order)

	m := &Map{
		Header: Header{
			Mode:       mode,
			SpaceGroup: int(raw.ISPG),
			Version:    int(raw.NVersion),
			ExtType:    strings.TrimRight(string(raw.ExtType[:]), " \x00"),
			Labels:     decodeLabels(raw),
			Stats: grid.Stats{
				Min:  float64(raw.DMin),
				Max:  float64(raw.DMax),
				Mean: float64(raw.DMean),
				RMS:  float64(raw.RMS),
			},
		},
	}
	m.Sampling = [3]int{int(raw.MX), int(raw.MY), int(raw.MZ)}
	for i := 0; i < 3; i++ {
		m.CellLengths[i] = float64(raw.CellA[i])
		m.CellAngles[i] = float64(raw.CellB[i])
		m.Origin[i] = float64(raw.Origin[i])
	}
	fileStart := [3]int{int(raw.NXStart), int(raw.NYStart), int(raw.NZStart)}

	// size and start along x, y, z
	var size [3]int
	for i, a := range axes {
		size[a] = n[i]
		m.Start[a] = fileStart[i]
	}

	g, err := grid.New(size[2], size[1], size[0])
	if err != nil {
		return nil, &MalformedFileError{Err: err}
	}
	if axes == [3]int{0, 1, 2} {
		copy(g.Data, samples)
	} else {
		permute(g, samples, n, axes)
	}
	m.Grid = g

	return m, nil
}

// dataSize returns the number of bytes occupied by the samples of a map
// with n[0]*n[1]*n[2] samples.  The result is false if the samples, or the
// float64 grid they are decoded into, would not fit into memory.
func dataSize(n [3]int, sampleSize int) (int64, bool) {
	count := uint64(1)
	for _, ni := range n {
		hi, lo := bits.Mul64(count, uint64(ni))
		if hi != 0 {
			return 0, false
		}
		count = lo
	}
	if count > math.MaxInt/8 {
		return 0, false
	}
	return int64(count) * int64(sampleSize), true
}

// axisOrder returns, for columns, rows and sections, the index of the
// corresponding spatial axis (0=x, 1=y, 2=z).
func axisOrder(raw *rawHeader) ([3]int, error) {
	mapc := [3]int32{raw.MapC, raw.MapR, raw.MapS}
	if mapc == [3]int32{0, 0, 0} {
		return [3]int{0, 1, 2}, nil
	}
	var res [3]int
	var seen [3]bool
	for i, a := range mapc {
		if a < 1 || a > 3 || seen[a-1] {
			return res, fmt.Errorf("invalid axis order %v", mapc)
		}
		seen[a-1] = true
		res[i] = int(a - 1)
	}
	return res, nil
}

// permute stores samples, given in file order, into g in z, y, x order.
func permute(g *grid.Grid, samples []float64, n [3]int, axes [3]int) {
	strides := g.Strides() // z, y, x
	var axisStride [3]int
	for i, a := range axes {
		axisStride[i] = strides[2-a]
	}
	idx := 0
	for s := 0; s < n[2]; s++ {
		for r := 0; r < n[1]; r++ {
			base := s*axisStride[2] + r*axisStride[1]
			for c := 0; c < n[0]; c++ {
				g.Data[base+c*axisStride[0]] = samples[idx]
				idx++
			}
		}
	}
}

func decodeSamples(data []byte, mode Mode, order binary.ByteOrder) []float64 {
	size := mode.size()
	res := make([]float64, len(data)/size)
	for i := range res {
		b := data[i*size:]
		switch mode {
		case ModeInt8:
			res[i] = float64(int8(b[0]))
		case ModeInt16:
			res[i] = float64(int16(order.Uint16(b)))
		case ModeUint16:
			res[i] = float64(order.Uint16(b))
		case ModeFloat16:
			res[i] = float64(halfToFloat(order.Uint16(b)))
		case ModeFloat32:
			res[i] = float64(math.Float32frombits(order.Uint32(b)))
		}
	}
	return res
}

// halfToFloat converts an IEEE 754 half precision number to float32.
func halfToFloat(h uint16) float32 {
	sign := uint32(h>>15) << 31
	exp := uint32(h>>10) & 0x1f
	frac := uint32(h) & 0x3ff

	switch {
	case exp == 0 && frac == 0:
		return math.Float32frombits(sign)
	case exp == 0:
		// subnormal: normalize the fraction
		e := uint32(127 - 15 + 1)
		for frac&0x400 == 0 {
			frac <<= 1
			e--
		}
		frac &= 0x3ff
		return math.Float32frombits(sign | e<<23 | frac<<13)
	case exp == 0x1f:
		return math.Float32frombits(sign | 0xff<<23 | frac<<13)
	default:
		return math.Float32frombits(sign | (exp+127-15)<<23 | frac<<13)
	}
}
