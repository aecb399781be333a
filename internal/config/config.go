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

// Package config loads tool settings from the environment and the command
// line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills the fields of target which carry `env` tags from the
// environment.  Fields with an `envDefault` tag are set to the default if
// the variable is unset.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment into cfg and then parses args with fs.
// The bind function registers the flags which override fields of cfg; it
// runs after the environment has been read, so that the flag defaults
// show the values in effect.
func Load[T any](cfg *T, fs *flag.FlagSet, args []string, bind func(*T)) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	if err := ParseEnv(cfg); err != nil {
		return err
	}
	if bind != nil {
		bind(cfg)
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// Exitf prints an error message to stderr and exits with status 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
