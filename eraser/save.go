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

package eraser

import (
	"path/filepath"
	"strings"

	"github.com/robertstass/chimerax-commands/mrc"
)

// Default file name suffixes used by [Result.Save].
const (
	SphereSuffix = "_sphere"
	FullSuffix   = "_plus_sphere"
)

// Names returns the output file names for the two masks.  If root has an
// extension, it is kept; otherwise ".mrc" is used.
func Names(root, sphereSuffix, fullSuffix string) (sphere, full string) {
	ext := filepath.Ext(root)
	base := strings.TrimSuffix(root, ext)
	if ext == "" {
		ext = ".mrc"
	}
	return base + sphereSuffix + ext, base + fullSuffix + ext
}

// Save writes both masks as MRC files.  The header information (voxel
// size, origin, labels) is copied from ref, which normally is the map the
// input mask was read from.  The names of the written files are returned.
func (r *Result) Save(ref *mrc.Map, root, sphereSuffix, fullSuffix string) (string, string, error) {
	sphereName, fullName := Names(root, sphereSuffix, fullSuffix)

	sm, err := ref.WithGrid(r.Sphere)
	if err != nil {
		return "", "", err
	}
	err = mrc.WriteFile(sphereName, sm)
	if err != nil {
		return "", "", err
	}

	fm, err := ref.WithGrid(r.Combined)
	if err != nil {
		return "", "", err
	}
	err = mrc.WriteFile(fullName, fm)
	if err != nil {
		return "", "", err
	}

	return sphereName, fullName, nil
}
