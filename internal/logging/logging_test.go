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

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"golang.org/x/exp/slog"
)

func TestJSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(buf, false)
	log.Info("binarize map", slog.Float64("threshold", 0.5))
	log.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["msg"] != "binarize map" || rec["level"] != "INFO" {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	New(buf, true).Debug("mask is uniform")
	if !strings.Contains(buf.String(), "mask is uniform") {
		t.Errorf("debug message missing: %q", buf.String())
	}
}
