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

// Softmask turns a density map into a mask with a soft edge.
//
// Usage:
//
//	softmask [options] in.mrc out.mrc
//
// The map is binarized at the given level, optionally grown or shrunk by
// -extend lattice steps, and then smoothed with a cosine fall-off of
// -width lattice steps.  Defaults are read from the environment variables
// SOFTMASK_LEVEL, SOFTMASK_EXTEND and SOFTMASK_WIDTH.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/robertstass/chimerax-commands/grid"
	"github.com/robertstass/chimerax-commands/internal/buildinfo"
	"github.com/robertstass/chimerax-commands/internal/config"
	"github.com/robertstass/chimerax-commands/internal/logging"
	"github.com/robertstass/chimerax-commands/internal/profile"
	"github.com/robertstass/chimerax-commands/mrc"
	"github.com/robertstass/chimerax-commands/preview"
	"github.com/robertstass/chimerax-commands/softmask"
)

type settings struct {
	Level  float64 `env:"SOFTMASK_LEVEL" envDefault:"0.5"`
	Extend float64 `env:"SOFTMASK_EXTEND" envDefault:"0"`
	Width  float64 `env:"SOFTMASK_WIDTH" envDefault:"12"`
}

var errUsage = errors.New("usage: softmask [options] in.mrc out.mrc")

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		config.Exitf("softmask: %v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("softmask", flag.ContinueOnError)
	fs.SetOutput(stderr)
	previewFile := fs.String("preview", "", "write a PNG image of one z section to `file`")
	section := fs.Int("slice", -1, "z section shown in the preview (default: middle)")
	zoom := fs.Float64("zoom", 4, "preview pixels per lattice step")
	verbose := fs.Bool("v", false, "log debug messages")
	showVersion := fs.Bool("version", false, "print version information and exit")
	var prof profile.Flags
	prof.Register(fs)
	var s settings
	err := config.Load(&s, fs, args, func(s *settings) {
		fs.Float64Var(&s.Level, "level", s.Level, "binarization threshold")
		fs.Float64Var(&s.Extend, "extend", s.Extend, "grow (or, if negative, shrink) the mask by this many lattice steps")
		fs.Float64Var(&s.Width, "width", s.Width, "width of the soft edge in lattice steps")
	})
	if err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintln(stdout, buildinfo.Short("softmask"))
		return nil
	}
	if fs.NArg() != 2 {
		return errUsage
	}
	inName, outName := fs.Arg(0), fs.Arg(1)

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
	mask, err := softmask.Soften(m.Grid, s.Level, &softmask.Options{
		Extend: s.Extend,
		Width:  s.Width,
		Logger: log,
	})
	if err != nil {
		return err
	}
	out, err := m.WithGrid(mask)
	if err != nil {
		return err
	}
	if err := mrc.WriteFile(outName, out); err != nil {
		return err
	}

	if *previewFile != "" {
		k := *section
		if k < 0 && mask.Rank() == 3 {
			k = mask.Shape[0] / 2
		}
		err := writePreview(*previewFile, mask, &preview.Slice{Index: k, Zoom: *zoom})
		if err != nil {
			return err
		}
	}

	full := mask.Count(func(v float64) bool { return v == 1 })
	edge := mask.Count(func(v float64) bool { return v > 0 && v < 1 })
	p := message.NewPrinter(language.English)
	p.Fprintf(stdout, "%s: %d of %d voxels inside, %d in the soft edge\n",
		outName, full, mask.Len(), edge)
	return nil
}

func writePreview(fname string, g *grid.Grid, s *preview.Slice) error {
	img, err := preview.Render(g, s)
	if err != nil {
		return err
	}
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	err = preview.WritePNG(f, img)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
