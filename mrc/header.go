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
	"bytes"
	"encoding/binary"
	"strings"
)

const headerSize = 1024

// rawHeader is the on-disk layout of the main header.
type rawHeader struct {
	NX, NY, NZ int32
	Mode       int32

	NXStart, NYStart, NZStart int32
	MX, MY, MZ                int32

	CellA [3]float32
	CellB [3]float32

	MapC, MapR, MapS int32

	DMin, DMax, DMean float32

	ISPG   int32
	NSymBT int32

	Extra1   [8]byte
	ExtType  [4]byte
	NVersion int32
	Extra2   [84]byte

	Origin [3]float32
	Map    [4]byte
	MachST [4]byte
	RMS    float32

	NLabl int32
	Label [10][80]byte
}

var (
	stampLittle = [4]byte{0x44, 0x44, 0x00, 0x00}
	stampBig    = [4]byte{0x11, 0x11, 0x00, 0x00}
	mapTag      = [4]byte{'M', 'A', 'P', ' '}
)

// byteOrder determines the byte order of a header from the machine stamp.
// Older files without a valid stamp are recognised by checking whether
// the image size and the mode make sense.
func byteOrder(buf []byte) binary.ByteOrder {
	switch buf[212] {
	case 0x44:
		return binary.LittleEndian
	case 0x11:
		return binary.BigEndian
	}

	plausible := func(order binary.ByteOrder) bool {
		for i := 0; i < 3; i++ {
			n := int32(order.Uint32(buf[4*i:]))
			if n <= 0 || n > 1<<16 {
				return false
			}
		}
		mode := Mode(order.Uint32(buf[12:]))
		return mode.size() > 0
	}
	if !plausible(binary.LittleEndian) && plausible(binary.BigEndian) {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func decodeHeader(buf []byte) (*rawHeader, binary.ByteOrder, error) {
	order := byteOrder(buf)
	raw := &rawHeader{}
	err := binary.Read(bytes.NewReader(buf), order, raw)
	if err != nil {
		return nil, nil, err
	}
	return raw, order, nil
}

func encodeHeader(raw *rawHeader) []byte {
	buf := &bytes.Buffer{}
	buf.Grow(headerSize)
	// writing fixed-size values to a bytes.Buffer cannot fail
	_ = binary.Write(buf, binary.LittleEndian, raw)
	return buf.Bytes()
}

func decodeLabels(raw *rawHeader) []string {
	n := int(raw.NLabl)
	n = max(0, min(n, len(raw.Label)))
	var res []string
	for i := 0; i < n; i++ {
		l := strings.TrimRight(string(raw.Label[i][:]), " \x00")
		res = append(res, l)
	}
	return res
}

func encodeLabels(raw *rawHeader, labels []string) {
	if len(labels) > len(raw.Label) {
		labels = labels[len(labels)-len(raw.Label):]
	}
	raw.NLabl = int32(len(labels))
	for i := range raw.Label {
		for j := range raw.Label[i] {
			raw.Label[i][j] = ' '
		}
		if i < len(labels) {
			copy(raw.Label[i][:], labels[i])
		}
	}
}
