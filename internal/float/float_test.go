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

package float

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in   float64
		prec int
		out  string
	}{
		{0, 2, "0"},
		{1, 2, "1"},
		{0.5, 2, "0.5"},
		{12.000, 5, "12"},
		{-0.0001, 2, "0"},
		{3.14159, 3, "3.142"},
		{100, 0, "100"},
		{-2.50, 2, "-2.5"},
	}
	for _, c := range cases {
		got := Format(c.in, c.prec)
		if got != c.out {
			t.Errorf("Format(%g, %d) = %q, want %q", c.in, c.prec, got, c.out)
		}
	}
}

func TestPoint(t *testing.T) {
	s := Point([]float64{1, -2.5, 0.125}, 5)
	if s != "1,-2.5,0.125" {
		t.Errorf("unexpected %q", s)
	}
	p, err := ParsePoint(s, 3)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]float64{1, -2.5, 0.125}, p); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	for _, bad := range []string{"", "1,2", "1,2,x", "1,2,3,4"} {
		if _, err := ParsePoint(bad, 3); err == nil {
			t.Errorf("ParsePoint(%q) succeeded", bad)
		}
	}
}
