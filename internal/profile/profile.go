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

// Package profile adds CPU and memory profiling flags to the tools.
package profile

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"golang.org/x/exp/slog"
)

// Flags holds the output file names for the profiles.  Empty names
// disable the corresponding profile.
type Flags struct {
	CPU    string
	Memory string
}

// Register adds the -cpuprofile and -memprofile flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.CPU, "cpuprofile", "", "write CPU profile to `file`")
	fs.StringVar(&f.Memory, "memprofile", "", "write memory profile to `file`")
}

// Start begins CPU profiling and returns a function which ends it and
// writes the memory profile.  Problems writing the memory profile are
// reported to log.
func (f *Flags) Start(log *slog.Logger) (stop func(), err error) {
	var cpuFile *os.File
	if f.CPU != "" {
		cpuFile, err = os.Create(f.CPU)
		if err != nil {
			return nil, fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err = pprof.StartCPUProfile(cpuFile); err != nil {
			cpuFile.Close()
			return nil, fmt.Errorf("could not start CPU profile: %w", err)
		}
	}

	mem := f.Memory
	stop = func() {
		if cpuFile != nil {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}
		if mem == "" {
			return
		}
		if err := writeAllocs(mem); err != nil {
			log.Error("memory profile", slog.String("file", mem), slog.Any("err", err))
		}
	}
	return stop, nil
}

func writeAllocs(fname string) error {
	allocs := pprof.Lookup("allocs")
	if allocs == nil {
		return fmt.Errorf("no allocs profile")
	}
	out, err := os.Create(fname)
	if err != nil {
		return err
	}
	runtime.GC()
	err = allocs.WriteTo(out, 0)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}
