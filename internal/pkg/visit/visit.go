// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// visit describes the installation of the VisIt visualization tool that the
// solver is built against when Visit support is requested.
package visit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nekpack/nekpack/internal/pkg/nekerr"
)

// InstallDirEnvVar is the environment variable pointing at the VisIt installation
const InstallDirEnvVar = "VISIT_INSTALL_DIR"

// Info gathers the details of a VisIt installation
type Info struct {
	// InstallDir is the prefix under which VisIt is installed
	InstallDir string
}

// BinDir returns the directory with the VisIt binaries, which is what the
// makenek script expects in VISIT_INSTALL
func (i *Info) BinDir() string {
	return filepath.Join(i.InstallDir, "bin")
}

// Detect returns the details of the VisIt installation to use
func Detect() (Info, error) {
	var info Info

	dir := os.Getenv(InstallDirEnvVar)
	if dir == "" {
		return info, fmt.Errorf("%w: %s is not set, cannot locate VisIt", nekerr.ErrNotAvailable, InstallDirEnvVar)
	}
	info.InstallDir = dir

	return info, nil
}
