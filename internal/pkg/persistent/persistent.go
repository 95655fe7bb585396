// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package persistent

import (
	"path/filepath"

	"github.com/nekpack/nekpack/internal/pkg/sys"
)

// GetInstallDir returns the path to the directory where a given version of
// the solver is installed when in persistent mode
func GetInstallDir(version string, sysCfg *sys.Config) string {
	return filepath.Join(sysCfg.Persistent, sys.NekInstallDirPrefix+version)
}

// GetScratchDir returns the default directory to use as scratch directory
// for a given version of the solver
func GetScratchDir(version string) string {
	return filepath.Join(sys.GetNekpackDir(), "scratch-"+version)
}
