// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package sys

import (
	"os"
	"path/filepath"
)

// Config captures the system configuration aspects that are necessary
// to run an installation
type Config struct {
	ConfigFile string // Path to the recipe file describing the requested build
	BinPath    string // Path to the current binary
	CurPath    string // Current path
	ScratchDir string // Where the source is fetched and built
	Prefix     string // Installation prefix where the results are staged
	Persistent string // Where persistent installs live; empty means scratch-only
	Debug      bool   // Debug mode is active/inactive
	Verbose    bool   // Verbose mode is active/inactive
}

const (
	// CmdTimeout is the maximum time in minutes we allow a command to run
	CmdTimeout = 30

	// NekBuildDirPrefix is the prefix used for the directory where the solver is built
	NekBuildDirPrefix = "nek_build_"

	// NekInstallDirPrefix is the prefix used for the directory where the solver is installed
	NekInstallDirPrefix = "nek_install_"

	// NekpackDirEnvVar is the environment variable overriding the default nekpack directory
	NekpackDirEnvVar = "NEKPACK_INSTALL_DIR"
)

// GetNekpackDir returns the directory where nekpack stores its persistent
// installs and its configuration, by default ~/.nekpack
func GetNekpackDir() string {
	if dir := os.Getenv(NekpackDirEnvVar); dir != "" {
		return dir
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".nekpack"
	}
	return filepath.Join(home, ".nekpack")
}
