// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

/*
 * buildenv is a package that provides all the capabilities to deal with the
 * build environment of the solver: where the source is fetched, verified
 * and unpacked, and where the results are installed.
 */
package buildenv

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	gutil "github.com/gvallee/go_util/pkg/util"

	"github.com/nekpack/nekpack/internal/pkg/nekerr"
	"github.com/nekpack/nekpack/internal/pkg/persistent"
	"github.com/nekpack/nekpack/internal/pkg/sys"
	util "github.com/nekpack/nekpack/internal/pkg/util/file"
	"github.com/nekpack/nekpack/internal/pkg/versions"
)

// Info gathers the details of the build environment
type Info struct {
	// SrcPath is the path to the downloaded tarball or checkout
	SrcPath string

	// SrcDir is the directory where the source code is
	SrcDir string

	// ScratchDir is the directory where we can store temporary data
	ScratchDir string

	// InstallDir is the directory where the software needs to be installed
	InstallDir string

	// BuildDir is the directory where the software is built
	BuildDir string

	// Env is the environment to use with the build environment
	Env []string
}

// ToolsDir returns the directory holding the sources of the auxiliary tools
func (env *Info) ToolsDir() string {
	return filepath.Join(env.SrcDir, "tools")
}

// BinDir returns the directory where the build scripts put the built tools
// and the solver launcher
func (env *Info) BinDir() string {
	return filepath.Join(env.SrcDir, "bin")
}

// Get fetches the source of a given version of the solver
func (env *Info) Get(v *versions.Info) error {
	log.Printf("- Getting Nek5000 %s from %s...\n", v.Version, v.URL)

	// Sanity checks
	if v.URL == "" {
		return fmt.Errorf("invalid parameter(s)")
	}

	urlFormat := util.DetectURLType(v.URL)
	switch urlFormat {
	case util.FileURL:
		err := env.copyTarball(v)
		if err != nil {
			return fmt.Errorf("impossible to copy the tarball: %s", err)
		}
	case util.HttpURL:
		err := env.download(v)
		if err != nil {
			return fmt.Errorf("impossible to download Nek5000 %s: %s", v.Version, err)
		}
	case util.GitURL:
		err := env.gitCheckout(v)
		if err != nil {
			return fmt.Errorf("impossible to get Git repository %s: %s", v.URL, err)
		}
	default:
		return fmt.Errorf("impossible to detect URL type: %s", v.URL)
	}

	return nil
}

func (env *Info) copyTarball(v *versions.Info) error {
	tarball := path.Base(v.URL)
	targetTarballPath := filepath.Join(env.BuildDir, tarball)

	// The beginning of the URL starts with 'file://' which we do not want
	err := gutil.CopyFile(strings.TrimPrefix(v.URL, "file://"), targetTarballPath)
	if err != nil {
		return fmt.Errorf("cannot copy file %s to %s: %s", v.URL, targetTarballPath, err)
	}

	env.SrcPath = targetTarballPath

	return nil
}

func (env *Info) download(v *versions.Info) error {
	// Sanity checks
	if env.BuildDir == "" {
		return fmt.Errorf("invalid parameter(s)")
	}

	binPath, err := exec.LookPath("wget")
	if err != nil {
		return fmt.Errorf("cannot find wget: %s", err)
	}

	log.Printf("* Executing from %s: %s %s", env.BuildDir, binPath, v.URL)
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(binPath, v.URL)
	cmd.Dir = env.BuildDir
	cmd.Stderr = &stderr
	cmd.Stdout = &stdout
	err = cmd.Run()
	if err != nil {
		return fmt.Errorf("command failed: %s - stdout: %s - stderr: %s", err, stdout.String(), stderr.String())
	}

	env.SrcPath = filepath.Join(env.BuildDir, path.Base(v.URL))

	return nil
}

func (env *Info) gitCheckout(v *versions.Info) error {
	gitBin, err := exec.LookPath("git")
	if err != nil {
		return fmt.Errorf("failed to find git: %s", err)
	}

	repoName := strings.TrimSuffix(filepath.Base(v.URL), ".git")
	checkoutPath := filepath.Join(env.BuildDir, repoName)

	var gitCmd *exec.Cmd
	if gutil.PathExists(checkoutPath) {
		log.Printf("Running from %s: %s pull\n", checkoutPath, gitBin)
		gitCmd = exec.Command(gitBin, "pull")
		gitCmd.Dir = checkoutPath
	} else {
		args := []string{"clone"}
		if v.Branch != "" {
			args = append(args, "--branch", v.Branch)
		}
		args = append(args, v.URL)
		log.Printf("Running from %s: %s %s\n", env.BuildDir, gitBin, strings.Join(args, " "))
		gitCmd = exec.Command(gitBin, args...)
		gitCmd.Dir = env.BuildDir
	}

	var stderr, stdout bytes.Buffer
	gitCmd.Stderr = &stderr
	gitCmd.Stdout = &stdout
	err = gitCmd.Run()
	if err != nil {
		return fmt.Errorf("command failed: %s - stdout: %s - stderr: %s", err, stdout.String(), stderr.String())
	}

	// SrcPath pointing at a directory makes Unpack figure out in a safe
	// manner that there is nothing to extract
	env.SrcPath = checkoutPath
	env.SrcDir = checkoutPath

	return nil
}

// VerifyChecksum compares the MD5 checksum of the fetched tarball against
// the one recorded for the version. Versions without a recorded checksum
// (moving references, local files) are skipped.
func (env *Info) VerifyChecksum(v *versions.Info) error {
	if v.MD5 == "" {
		log.Printf("* No checksum recorded for Nek5000 %s, skipping verification...", v.Version)
		return nil
	}
	if util.IsDir(env.SrcPath) {
		return nil
	}

	f, err := os.Open(env.SrcPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %s", env.SrcPath, err)
	}
	defer f.Close()

	hasher := md5.New()
	_, err = io.Copy(hasher, f)
	if err != nil {
		return fmt.Errorf("failed to hash %s: %s", env.SrcPath, err)
	}

	sum := hex.EncodeToString(hasher.Sum(nil))
	if sum != v.MD5 {
		return fmt.Errorf("%w: checksum mismatch for %s (expected %s, got %s)", nekerr.ErrPrecondition, env.SrcPath, v.MD5, sum)
	}

	log.Printf("* Checksum of %s verified", env.SrcPath)
	return nil
}

// Unpack extracts the source code from a tarball
func (env *Info) Unpack() error {
	log.Println("- Unpacking the solver source...")

	// Sanity checks
	if env.SrcPath == "" || env.BuildDir == "" {
		return fmt.Errorf("invalid parameter(s)")
	}

	if util.IsDir(env.SrcPath) {
		// A Git checkout, nothing to do
		log.Printf("%s does not seem to need to be unpacked, skipping...", env.SrcPath)
		return nil
	}

	format := util.DetectTarballFormat(env.SrcPath)
	if format == "" {
		return fmt.Errorf("unable to detect how to unpack %s", env.SrcPath)
	}

	tarPath, err := exec.LookPath("tar")
	if err != nil {
		return fmt.Errorf("tar is not available: %s", err)
	}

	tarArg := util.GetTarArgs(format)
	if tarArg == "" {
		return fmt.Errorf("unsupported format: %s", format)
	}

	log.Printf("-> Executing from %s: %s %s %s\n", env.BuildDir, tarPath, tarArg, env.SrcPath)
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(tarPath, tarArg, env.SrcPath)
	cmd.Dir = env.BuildDir
	cmd.Stderr = &stderr
	cmd.Stdout = &stdout
	err = cmd.Run()
	if err != nil {
		return fmt.Errorf("command failed: %s - stdout: %s - stderr: %s", err, stdout.String(), stderr.String())
	}

	// We do not need the tarball anymore, delete it
	err = os.Remove(env.SrcPath)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %s", env.SrcPath, err)
	}

	// We save the directory created while untaring the tarball
	entries, err := os.ReadDir(env.BuildDir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %s", env.BuildDir, err)
	}
	if len(entries) != 1 {
		return fmt.Errorf("inconsistent temporary %s directory, %d entries instead of 1", env.BuildDir, len(entries))
	}
	env.SrcDir = filepath.Join(env.BuildDir, entries[0].Name())

	return nil
}

// CreateDefaultHostEnvCfg sets up the default directory layout to build and
// install a given version of the solver
func CreateDefaultHostEnvCfg(env *Info, version string, sysCfg *sys.Config) error {
	env.BuildDir = filepath.Join(sysCfg.ScratchDir, sys.NekBuildDirPrefix+version)
	err := gutil.DirInit(env.BuildDir)
	if err != nil {
		return fmt.Errorf("failed to initialize directory %s: %s", env.BuildDir, err)
	}

	if sysCfg.Prefix != "" {
		env.InstallDir = sysCfg.Prefix
	} else if sysCfg.Persistent != "" {
		env.InstallDir = persistent.GetInstallDir(version, sysCfg)
	} else {
		env.InstallDir = filepath.Join(sysCfg.ScratchDir, sys.NekInstallDirPrefix+version)
	}

	env.ScratchDir = filepath.Join(sysCfg.ScratchDir, "scratch_"+version)
	err = gutil.DirInit(env.ScratchDir)
	if err != nil {
		return fmt.Errorf("failed to initialize directory %s: %s", env.ScratchDir, err)
	}

	return nil
}

// Init ensures that the buildenv is correctly initialized
func (env *Info) Init() error {
	for _, dir := range []string{env.ScratchDir, env.BuildDir, env.InstallDir} {
		if dir == "" || gutil.PathExists(dir) {
			continue
		}
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return fmt.Errorf("failed to create directory %s: %s", dir, err)
		}
	}
	return nil
}
