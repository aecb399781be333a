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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Write writes m in little-endian byte order, using 32-bit floating point
// samples.  The statistics in the header are recomputed from the samples.
// No extended header is written.
func Write(w io.Writer, m *Map) error {
	g := m.Grid
	if g == nil || g.Rank() != 3 {
		return errRank
	}
	nx, ny, nz := g.Shape[2], g.Shape[1], g.Shape[0]
	if nx > math.MaxInt32 || ny > math.MaxInt32 || nz > math.MaxInt32 {
		return fmt.Errorf("mrc: map size %dx%dx%d is too large", nx, ny, nz)
	}

	stats := g.Stats()
	raw := &rawHeader{
		NX:      int32(nx),
		NY:      int32(ny),
		NZ:      int32(nz),
		Mode:    int32(ModeFloat32),
		NXStart: int32(m.Start[0]),
		NYStart: int32(m.Start[1]),
		NZStart: int32(m.Start[2]),
		MX:      int32(m.Sampling[0]),
		MY:      int32(m.Sampling[1]),
		MZ:      int32(m.Sampling[2]),
		MapC:    1,
		MapR:    2,
		MapS:    3,
		DMin:    float32(stats.Min),
		DMax:    float32(stats.Max),
		DMean:   float32(stats.Mean),
		RMS:     float32(stats.RMS),
		ISPG:    int32(m.SpaceGroup),
		Map:     mapTag,
		MachST:  stampLittle,
	}
	if raw.MX <= 0 || raw.MY <= 0 || raw.MZ <= 0 {
		raw.MX, raw.MY, raw.MZ = int32(nx), int32(ny), int32(nz)
	}
	voxel := m.VoxelSize()
	for i := 0; i < 3; i++ {
		raw.CellA[i] = float32(m.CellLengths[i])
		if m.CellLengths[i] <= 0 {
			raw.CellA[i] = float32(voxel[i] * float64(m.Size()[i]))
		}
		raw.CellB[i] = float32(m.CellAngles[i])
		if m.CellAngles[i] == 0 {
			raw.CellB[i] = 90
		}
		raw.Origin[i] = float32(m.Origin[i])
	}
	raw.NVersion = 20140
	encodeLabels(raw, m.Labels)

	out := bufio.NewWriter(w)
	_, err := out.Write(encodeHeader(raw))
	if err != nil {
		return err
	}
	var buf [4]byte
	for _, v := range g.Data {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(float32(v)))
		_, err = out.Write(buf[:])
		if err != nil {
			return err
		}
	}
	return out.Flush()
}
