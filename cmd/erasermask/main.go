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

// Erasermask builds the masks needed to erase a spherical region from a
// density map.
//
// Usage:
//
//	erasermask -center x,y,z -radius r [options] mask.mrc
//
// The sphere is given in Ångström, in the coordinate system of the mask.
// Two soft masks are written: the sphere alone, and the union of the
// sphere with the input mask.  By default the output names are derived
// from the input name, e.g. mask_sphere.mrc and mask_plus_sphere.mrc.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/exp/slog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/robertstass/chimerax-commands/eraser"
	"github.com/robertstass/chimerax-commands/internal/buildinfo"
	"github.com/robertstass/chimerax-commands/internal/config"
	"github.com/robertstass/chimerax-commands/internal/float"
	"github.com/robertstass/chimerax-commands/internal/logging"
	"github.com/robertstass/chimerax-commands/internal/profile"
	"github.com/robertstass/chimerax-commands/mrc"
)

type settings struct {
	Extend       float64 `env:"ERASERMASK_EXTEND" envDefault:"0"`
	Width        float64 `env:"ERASERMASK_WIDTH" envDefault:"12"`
	SphereSuffix string  `env:"ERASERMASK_SPHERE_SUFFIX" envDefault:"_sphere"`
	FullSuffix   string  `env:"ERASERMASK_FULL_SUFFIX" envDefault:"_plus_sphere"`
}

var errUsage = errors.New("usage: erasermask -center x,y,z -radius r [options] mask.mrc")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		config.Exitf("erasermask: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("erasermask", flag.ContinueOnError)
	fs.SetOutput(stderr)
	center := fs.String("center", "", "sphere centre `x,y,z` in Ångström")
	radius := fs.Float64("radius", 0, "sphere radius in Ångström")
	root := fs.String("root", "", "output file name root (default: the input file name)")
	verbose := fs.Bool("v", false, "log debug messages")
	showVersion := fs.Bool("version", false, "print version information and exit")
	var prof profile.Flags
	prof.Register(fs)
	var s settings
	err := config.Load(&s, fs, args, func(s *settings) {
		fs.Float64Var(&s.Extend, "extend", s.Extend, "grow (or, if negative, shrink) both masks by this many lattice steps")
		fs.Float64Var(&s.Width, "width", s.Width, "width of the soft edge in lattice steps")
		fs.StringVar(&s.SphereSuffix, "sphere-suffix", s.SphereSuffix, "file name suffix of the sphere mask")
		fs.StringVar(&s.FullSuffix, "full-suffix", s.FullSuffix, "file name suffix of the combined mask")
	})
	if err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintln(stdout, buildinfo.Short("erasermask"))
		return nil
	}
	if fs.NArg() != 1 || *center == "" {
		return errUsage
	}
	c, err := float.ParsePoint(*center, 3)
	if err != nil {
		return fmt.Errorf("invalid centre %q: %w", *center, err)
	}
	inName := fs.Arg(0)
	if *root == "" {
		*root = inName
	}

	log := logging.New(stderr, *verbose)
	stop, err := prof.Start(log)
	if err != nil {
		return err
	}
	defer stop()

	m, err := mrc.ReadFile(inName)
	if err != nil {
		return err
	}
	sphere := eraser.SphereIn(m, [3]float64{c[0], c[1], c[2]}, *radius)
	log.Info("creating masks",
		slog.String("file", inName),
		slog.String("center", float.Point(c, 3)),
		slog.Float64("radius", *radius))

	res, err := eraser.Create(ctx, m.Grid, sphere, &eraser.Params{
		Extend: s.Extend,
		Width:  s.Width,
		Logger: log,
	})
	if err != nil {
		return err
	}
	sphereName, fullName, err := res.Save(m, *root, s.SphereSuffix, s.FullSuffix)
	if err != nil {
		return err
	}

	inside := func(v float64) bool { return v > 0 }
	p := message.NewPrinter(language.English)
	p.Fprintf(stdout, "%s: %d voxels\n", sphereName, res.Sphere.Count(inside))
	p.Fprintf(stdout, "%s: %d voxels\n", fullName, res.Combined.Count(inside))
	return nil
}
