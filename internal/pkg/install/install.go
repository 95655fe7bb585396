// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

/*
 * install is a package that stages the build results into the installation
 * prefix and verifies, with a post-install smoke test, that the install
 * produced a runnable launcher.
 */
package install

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	gutil "github.com/gvallee/go_util/pkg/util"
	"github.com/gvallee/kv/pkg/kv"

	"github.com/nekpack/nekpack/internal/pkg/buildenv"
	"github.com/nekpack/nekpack/internal/pkg/manifest"
	"github.com/nekpack/nekpack/internal/pkg/nekerr"
	"github.com/nekpack/nekpack/internal/pkg/nekexec"
	util "github.com/nekpack/nekpack/internal/pkg/util/file"
)

const (
	// SourceTreeDir is the name of the copy of the solver source under the
	// installed bin directory; the launcher locates the source there at run time
	SourceTreeDir = "Nek5000"

	// ExampleDir is the bundled example used by the smoke test
	ExampleDir = "short_tests/eddy"

	// ExampleCase is the case the smoke test builds
	ExampleCase = "eddy_uv"

	// SolverBin is the executable the launcher is expected to produce
	SolverBin = "nek5000"

	// LauncherBin is the name of the installed solver launcher
	LauncherBin = "makenek"
)

// BinDir returns the directory with the installed tools and launcher
func BinDir(installDir string) string {
	return filepath.Join(installDir, "bin")
}

// SourceRoot returns the path of the installed solver source tree
func SourceRoot(installDir string) string {
	return filepath.Join(BinDir(installDir), SourceTreeDir)
}

// Stage copies the build results into the installation prefix: the working
// bin directory into prefix/bin and the full solver source next to it
func Stage(env *buildenv.Info) error {
	log.Printf("- Installing Nek5000 in %s...", env.InstallDir)

	// Sanity checks
	if env.SrcDir == "" || env.InstallDir == "" {
		return fmt.Errorf("invalid parameter(s)")
	}

	err := util.CopyTree(env.BinDir(), BinDir(env.InstallDir))
	if err != nil {
		return fmt.Errorf("failed to install the bin directory: %s", err)
	}

	err = util.CopyTree(env.SrcDir, SourceRoot(env.InstallDir))
	if err != nil {
		return fmt.Errorf("failed to install the solver source: %s", err)
	}

	return nil
}

// WriteManifest records the resolved configuration and the fingerprints of
// the installed binaries under the prefix
func WriteManifest(env *buildenv.Info, version string, kvs []kv.KV) error {
	entries := []string{"Nek5000 version: " + version}
	entries = append(entries, kv.ToStringSlice(kvs)...)

	binDir := BinDir(env.InstallDir)
	files, err := os.ReadDir(binDir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %s", binDir, err)
	}
	var toHash []string
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		toHash = append(toHash, filepath.Join(binDir, f.Name()))
	}
	entries = append(entries, manifest.HashFiles(toHash)...)

	return manifest.Create(filepath.Join(env.InstallDir, manifest.FileName), entries)
}

// SmokeTest builds the bundled eddy example with the installed launcher and
// checks that a solver executable comes out. It is an end-to-end build
// sanity check, not a correctness test of numerical results.
func SmokeTest(env *buildenv.Info) error {
	exampleDir := filepath.Join(SourceRoot(env.InstallDir), ExampleDir)
	launcher := filepath.Join(BinDir(env.InstallDir), LauncherBin)
	solverPath := filepath.Join(exampleDir, SolverBin)

	log.Printf("- Running the post-install check in %s...", exampleDir)
	cmd := nekexec.Cmd{
		BinPath:          launcher,
		CmdArgs:          []string{ExampleCase},
		ExecDir:          exampleDir,
		ManifestDir:      exampleDir,
		ManifestFileHash: []string{solverPath},
	}
	res := cmd.Run()
	if res.Err != nil {
		log.Printf("[WARN] launcher exited with an error: %s - stdout: %s - stderr: %s", res.Err, res.Stdout, res.Stderr)
	}
	if !gutil.FileExists(solverPath) {
		return fmt.Errorf("%w: cannot build example %s, %s is missing", nekerr.ErrVerification, ExampleDir, solverPath)
	}

	log.Printf("-> Post-install check passed, %s exists", solverPath)
	return nil
}
