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

// Package mrc reads and writes density maps in the MRC2014 file format.
//
// An MRC file consists of a 1024 byte header, an optional extended header,
// and the map samples.  The samples are stored column by column, row by row
// and section by section.  After reading, the samples are presented as a
// [grid.Grid] of shape [nz, ny, nx], with x the fastest varying index,
// independent of the axis order used in the file.
//
// See https://www.ccpem.ac.uk/mrc_format/mrc2014.php for the format
// definition.
package mrc

import (
	"errors"
	"os"
	"strconv"

	"github.com/robertstass/chimerax-commands/grid"
)

// Mode describes the encoding of the map samples.
type Mode int32

// These are the sample encodings supported by this package.
const (
	ModeInt8    Mode = 0
	ModeInt16   Mode = 1
	ModeFloat32 Mode = 2
	ModeUint16  Mode = 6
	ModeFloat16 Mode = 12
)

func (m Mode) size() int {
	switch m {
	case ModeInt8:
		return 1
	case ModeInt16, ModeUint16, ModeFloat16:
		return 2
	case ModeFloat32:
		return 4
	default:
		return 0
	}
}

func (m Mode) String() string {
	switch m {
	case ModeInt8:
		return "int8"
	case ModeInt16:
		return "int16"
	case ModeFloat32:
		return "float32"
	case ModeUint16:
		return "uint16"
	case ModeFloat16:
		return "float16"
	default:
		return "mode " + strconv.Itoa(int(m))
	}
}

// Header contains the map meta data.  All per-axis quantities are given in
// x, y, z order.
type Header struct {
	// Mode is the encoding used for the samples in the file.
	// [Write] always uses ModeFloat32.
	Mode Mode

	// Start is the grid index of the first sample along each axis.
	Start [3]int

	// Sampling is the number of grid intervals along each axis of the
	// unit cell.
	Sampling [3]int

	// CellLengths gives the unit cell dimensions in Ångström.
	CellLengths [3]float64

	// CellAngles gives the unit cell angles in degrees.
	CellAngles [3]float64

	// SpaceGroup is the space group number.  0 is used for image stacks,
	// 1 for single volumes.
	SpaceGroup int

	// Origin is the position of sample (0, 0, 0) in Ångström.
	Origin [3]float64

	// ExtType identifies the format of the extended header, if any.
	ExtType string

	// Version is the format version, e.g. 20140.
	Version int

	// Labels contains up to 10 text labels of at most 80 characters.
	Labels []string

	// Stats holds the sample statistics recorded in the header.
	Stats grid.Stats
}

// Map is a density map together with its header.
type Map struct {
	Header
	Grid *grid.Grid
}

// New creates a map for the samples of g, which must have shape
// [nz, ny, nx].  The unit cell is set so that the voxel spacing is
// voxelSize along every axis.
func New(g *grid.Grid, voxelSize float64) (*Map, error) {
	if g.Rank() != 3 {
		return nil, errRank
	}
	m := &Map{
		Header: Header{
			Mode:       ModeFloat32,
			SpaceGroup: 1,
			CellAngles: [3]float64{90, 90, 90},
			Version:    20140,
		},
		Grid: g,
	}
	nx, ny, nz := g.Shape[2], g.Shape[1], g.Shape[0]
	m.Sampling = [3]int{nx, ny, nz}
	for i, n := range m.Sampling {
		m.CellLengths[i] = float64(n) * voxelSize
	}
	return m, nil
}

// Size returns the number of samples along the x, y and z axes.
func (m *Map) Size() [3]int {
	s := m.Grid.Shape
	return [3]int{s[2], s[1], s[0]}
}

// VoxelSize returns the sample spacing along x, y and z in Ångström.
func (m *Map) VoxelSize() [3]float64 {
	var res [3]float64
	for i := range res {
		if m.Sampling[i] > 0 && m.CellLengths[i] > 0 {
			res[i] = m.CellLengths[i] / float64(m.Sampling[i])
		} else {
			res[i] = 1
		}
	}
	return res
}

// WithGrid returns a new map which shares the header of m but uses the
// samples from g.  The shape of g must equal the shape of m.Grid.
func (m *Map) WithGrid(g *grid.Grid) (*Map, error) {
	if !m.Grid.SameShape(g) {
		return nil, errors.New("mrc: grid shape does not match map")
	}
	res := &Map{Header: m.Header, Grid: g}
	res.Labels = append([]string(nil), m.Labels...)
	return res, nil
}

// ReadFile reads a map from the named file.
func ReadFile(fname string) (*Map, error) {
	fd, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return Read(fd)
}

// WriteFile writes m to the named file, replacing any existing file.
func WriteFile(fname string, m *Map) error {
	fd, err := os.Create(fname)
	if err != nil {
		return err
	}
	err = Write(fd, m)
	if err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

// MalformedFileError indicates that an MRC file could not be parsed.
type MalformedFileError struct {
	Pos int64
	Err error
}

func (err *MalformedFileError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	tail := ""
	if err.Pos > 0 {
		tail = " (at byte " + strconv.FormatInt(err.Pos, 10) + ")"
	}
	return "not a valid MRC file" + middle + tail
}

func (err *MalformedFileError) Unwrap() error {
	return err.Err
}

var (
	errRank = errors.New("mrc: only 3-dimensional grids can be stored")
)

// XYZOrigin returns the position of sample (0, 0, 0) in Ångström.
// If the origin field of the header is unset, the position is derived
// from the start indices.
func (m *Map) XYZOrigin() [3]float64 {
	if m.Origin != [3]float64{} {
		return m.Origin
	}
	var res [3]float64
	step := m.VoxelSize()
	for i := range res {
		res[i] = float64(m.Start[i]) * step[i]
	}
	return res
}

// IndexOf converts a position in Ångström into fractional grid indices
// along x, y and z.
func (m *Map) IndexOf(xyz [3]float64) [3]float64 {
	origin := m.XYZOrigin()
	step := m.VoxelSize()
	var res [3]float64
	for i := range res {
		res[i] = (xyz[i] - origin[i]) / step[i]
	}
	return res
}

// XYZOf converts fractional grid indices along x, y and z into a position
// in Ångström.  It is the inverse of [Map.IndexOf].
func (m *Map) XYZOf(ijk [3]float64) [3]float64 {
	origin := m.XYZOrigin()
	step := m.VoxelSize()
	var res [3]float64
	for i := range res {
		res[i] = origin[i] + ijk[i]*step[i]
	}
	return res
}
