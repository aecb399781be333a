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

// Mapcenter prints the centre of mass of a density map.
//
// Usage:
//
//	mapcenter [-level l] [-to x,y,z] map.mrc
//
// Only samples at or above the threshold level contribute.  The centre is
// printed in Ångström, followed by the shift which moves it to the origin
// (or to the position given by -to).
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/robertstass/chimerax-commands/align"
	"github.com/robertstass/chimerax-commands/internal/buildinfo"
	"github.com/robertstass/chimerax-commands/internal/config"
	"github.com/robertstass/chimerax-commands/internal/float"
	"github.com/robertstass/chimerax-commands/mrc"
)

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		config.Exitf("mapcenter: %v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("mapcenter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	level := fs.Float64("level", 0, "threshold level")
	to := fs.String("to", "0,0,0", "target position `x,y,z` in Ångström")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintln(stdout, buildinfo.Short("mapcenter"))
		return nil
	}
	if fs.NArg() != 1 {
		return errors.New("usage: mapcenter [-level l] [-to x,y,z] map.mrc")
	}
	t, err := float.ParsePoint(*to, 3)
	if err != nil {
		return fmt.Errorf("invalid target %q: %w", *to, err)
	}

	m, err := mrc.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	ijk, err := align.VolumeCenter(m.Grid, *level)
	if err != nil {
		return err
	}
	xyz := m.XYZOf([3]float64{ijk.X, ijk.Y, ijk.Z})
	shift := align.Translation(r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]},
		r3.Vec{X: t[0], Y: t[1], Z: t[2]})

	fmt.Fprintf(stdout, "center %s\n", float.Point(xyz[:], 3))
	fmt.Fprintf(stdout, "move %s\n", float.Point([]float64{shift.X, shift.Y, shift.Z}, 3))
	return nil
}
