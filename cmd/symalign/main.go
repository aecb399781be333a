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

// Symalign aligns the cyclic symmetry axis of a model with the z axis.
//
// Usage:
//
//	symalign -sym Cn [options] [points.txt]
//
// The input lists one point per line as whitespace separated x, y and z
// coordinates, optionally followed by a weight.  Blank lines and lines
// starting with '#' are ignored.  If no file is given, the points are read
// from standard input.
//
// With -sym, exactly n co-planar points must be given, e.g. one atom from
// each subunit of a C5 ring.  The model is rotated about the centroid of
// these points, so that the normal of their plane points along +z.
// Without -sym, the points are only translated, moving their centroid to
// the origin or to the point given by -to.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/exp/slog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/robertstass/chimerax-commands/align"
	"github.com/robertstass/chimerax-commands/internal/buildinfo"
	"github.com/robertstass/chimerax-commands/internal/config"
	"github.com/robertstass/chimerax-commands/internal/float"
	"github.com/robertstass/chimerax-commands/internal/logging"
)

func main() {
	err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		config.Exitf("symalign: %v", err)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("symalign", flag.ContinueOnError)
	fs.SetOutput(stderr)
	sym := fs.String("sym", "", "cyclic symmetry of the point set, e.g. C5")
	toOrigin := fs.Bool("origin", true, "move the centre of the points to the origin after rotating")
	to := fs.String("to", "", "move the centroid to `x,y,z` instead of the origin (without -sym)")
	weighted := fs.Bool("mass", false, "weight the points by the fourth column")
	precision := fs.Int("prec", 3, "number of decimals in the output")
	verbose := fs.Bool("v", false, "log debug messages")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintln(stdout, buildinfo.Short("symalign"))
		return nil
	}
	if fs.NArg() > 1 {
		return errors.New("usage: symalign -sym Cn [options] [points.txt]")
	}
	log := logging.New(stderr, *verbose)

	in := stdin
	if fs.NArg() == 1 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	points, weights, err := readPoints(in)
	if err != nil {
		return err
	}
	log.Debug("read points", slog.Int("n", len(points)))
	if !*weighted {
		weights = nil
	}

	var moved []r3.Vec
	if *sym != "" {
		a, err := align.SymmetryAxis(points, *sym)
		if err != nil {
			return err
		}
		a.ToOrigin = *toOrigin
		log.Info("symmetry axis aligned to z",
			slog.String("center", formatVec(a.Center, *precision)),
			slog.String("axis", formatVec(a.Axis, *precision)),
			slog.String("angle", float.Format(a.Degrees(), *precision)),
			slog.Bool("origin", a.ToOrigin))
		moved = a.ApplyAll(points)
	} else {
		target := r3.Vec{}
		if *to != "" {
			p, err := float.ParsePoint(*to, 3)
			if err != nil {
				return fmt.Errorf("invalid target %q: %w", *to, err)
			}
			target = r3.Vec{X: p[0], Y: p[1], Z: p[2]}
		}
		c, err := align.Centroid(points, weights)
		if err != nil {
			return err
		}
		shift := align.Translation(c, target)
		log.Info("move",
			slog.String("by", formatVec(shift, *precision)))
		moved = make([]r3.Vec, len(points))
		for i, p := range points {
			moved[i] = r3.Add(p, shift)
		}
	}

	w := bufio.NewWriter(stdout)
	for _, p := range moved {
		fmt.Fprintln(w, strings.ReplaceAll(formatVec(p, *precision), ",", " "))
	}
	return w.Flush()
}

// readPoints reads one point per line.  An optional fourth column gives
// the weight of the point, and defaults to 1.
func readPoints(r io.Reader) ([]r3.Vec, []float64, error) {
	var points []r3.Vec
	var weights []float64
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		n := len(fields)
		if n != 3 && n != 4 {
			return nil, nil, fmt.Errorf("line %d: expected 3 or 4 columns, got %d",
				lineNo, n)
		}
		v, err := float.ParsePoint(strings.Join(fields, ","), n)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		points = append(points, r3.Vec{X: v[0], Y: v[1], Z: v[2]})
		weight := 1.0
		if n == 4 {
			weight = v[3]
		}
		weights = append(weights, weight)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return points, weights, nil
}

func formatVec(v r3.Vec, precision int) string {
	return float.Point([]float64{v.X, v.Y, v.Z}, precision)
}
