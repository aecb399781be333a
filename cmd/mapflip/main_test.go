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

package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/robertstass/chimerax-commands/grid"
	"github.com/robertstass/chimerax-commands/mrc"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	g, err := grid.New(3, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := range g.Data {
		g.Data[i] = float64(i)
	}
	m, err := mrc.New(g, 1)
	if err != nil {
		t.Fatal(err)
	}
	in := filepath.Join(dir, "in.mrc")
	if err := mrc.WriteFile(in, m); err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		axis   string
		coords [3]int // sample which ends up at (0, 0, 0)
	}{
		{"z", [3]int{2, 0, 0}},
		{"y", [3]int{0, 1, 0}},
		{"X", [3]int{0, 0, 1}},
	} {
		out := filepath.Join(dir, "out_"+tc.axis+".mrc")
		err := run([]string{"-axis", tc.axis, in, out}, &bytes.Buffer{}, &bytes.Buffer{})
		if err != nil {
			t.Fatal(err)
		}
		res, err := mrc.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		want := g.At(tc.coords[:]...)
		if got := res.Grid.At(0, 0, 0); got != want {
			t.Errorf("axis %s: got %g, want %g", tc.axis, got, want)
		}
	}
}

func TestRunErrors(t *testing.T) {
	if err := run([]string{"a.mrc"}, &bytes.Buffer{}, &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Errorf("expected usage error, got %v", err)
	}
	if err := run([]string{"-axis", "w", "a.mrc", "b.mrc"}, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for invalid axis")
	}
}

func TestGridAxis(t *testing.T) {
	for name, want := range map[string]int{"z": 0, "y": 1, "x": 2, "Z": 0} {
		got, err := gridAxis(name)
		if err != nil || got != want {
			t.Errorf("gridAxis(%q) = %d, %v", name, got, err)
		}
	}
}
