// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

/*
 * builder is a package that drives a complete installation of the solver:
 * validation of the requested configuration, preflight checks, fetching and
 * unpacking the source, patching the vendored build scripts, building the
 * tools, staging the results into the prefix and running the post-install
 * smoke test. The sequence is linear; any failure aborts the remainder and
 * nothing is rolled back.
 */
package builder

import (
	"fmt"
	"log"

	gutil "github.com/gvallee/go_util/pkg/util"
	"github.com/gvallee/kv/pkg/kv"

	"github.com/nekpack/nekpack/internal/pkg/buildenv"
	"github.com/nekpack/nekpack/internal/pkg/checker"
	"github.com/nekpack/nekpack/internal/pkg/install"
	"github.com/nekpack/nekpack/internal/pkg/mpi"
	"github.com/nekpack/nekpack/internal/pkg/patcher"
	"github.com/nekpack/nekpack/internal/pkg/sys"
	"github.com/nekpack/nekpack/internal/pkg/toolchain"
	"github.com/nekpack/nekpack/internal/pkg/tools"
	"github.com/nekpack/nekpack/internal/pkg/variants"
	"github.com/nekpack/nekpack/internal/pkg/versions"
	"github.com/nekpack/nekpack/internal/pkg/visit"
)

// Builder gathers all the data specific to an installation of the solver
type Builder struct {
	// Version is the version of the solver being installed
	Version versions.Info

	// Variants is the resolved set of build options
	Variants []kv.KV

	// Toolchain is the resolved compiler toolchain
	Toolchain toolchain.Info

	// Visit describes the VisIt installation; only consulted when the
	// visit variant is enabled
	Visit visit.Info

	// Env is the build environment of the installation
	Env buildenv.Info

	// SysCfg is the system configuration of the installation
	SysCfg *sys.Config
}

// Load resolves a builder for a requested version and set of variants. The
// toolchain is detected from the host and, for MPI builds, replaced by the
// wrappers of the MPI implementation found on the host.
func Load(version string, kvs []kv.KV, sysCfg *sys.Config) (Builder, error) {
	var b Builder
	b.SysCfg = sysCfg
	b.Variants = kvs

	err := variants.Validate(kvs)
	if err != nil {
		return b, err
	}

	b.Version, err = versions.Lookup(version)
	if err != nil {
		return b, err
	}

	b.Toolchain = toolchain.Detect()
	if variants.IsEnabled(kvs, variants.MPI) {
		m, err := mpi.Detect()
		if err != nil {
			return b, fmt.Errorf("MPI support requested but no MPI implementation found: %s", err)
		}
		b.Toolchain.UseMPIWrappers(&m)
	}

	if variants.IsEnabled(kvs, variants.Visit) {
		b.Visit, err = visit.Detect()
		if err != nil {
			return b, fmt.Errorf("Visit support requested but no VisIt installation found: %s", err)
		}
	}

	return b, nil
}

// ResolveMakenekSettings computes the edits to apply to the makenek script
// for a given configuration
func ResolveMakenekSettings(kvs []kv.KV, vis *visit.Info, version string, installDir string) patcher.MakenekSettings {
	settings := patcher.MakenekSettings{
		DisableMPI:       !variants.IsEnabled(kvs, variants.MPI),
		DisableProfiling: !variants.IsEnabled(kvs, variants.Profiling),
		EnableVisit:      variants.IsEnabled(kvs, variants.Visit),
	}
	if settings.EnableVisit {
		settings.VisitInstallDir = vis.BinDir()
	}
	if versions.Supports(version, versions.PatchSourceRoot) {
		settings.PatchCompilers = true
		settings.SourceRoot = install.SourceRoot(installDir)
	}
	return settings
}

// Install runs the full installation sequence
func (b *Builder) Install() error {
	// The configuration is checked before any side effect
	err := variants.Validate(b.Variants)
	if err != nil {
		return err
	}

	err = checker.CheckFortranCompiler(&b.Toolchain)
	if err != nil {
		return err
	}

	log.Printf("Installing Nek5000 %s...", b.Version.Version)
	if b.SysCfg.Persistent != "" && gutil.PathExists(b.Env.InstallDir) {
		log.Printf("* %s already exists, skipping installation...\n", b.Env.InstallDir)
		return nil
	}

	err = b.Env.Init()
	if err != nil {
		return fmt.Errorf("failed to initialize the build environment: %s", err)
	}

	err = b.Env.Get(&b.Version)
	if err != nil {
		return fmt.Errorf("failed to get Nek5000 from %s: %s", b.Version.URL, err)
	}

	err = b.Env.VerifyChecksum(&b.Version)
	if err != nil {
		return fmt.Errorf("failed to verify the source of Nek5000 %s: %s", b.Version.Version, err)
	}

	err = b.Env.Unpack()
	if err != nil {
		return fmt.Errorf("failed to unpack Nek5000 %s: %s", b.Version.Version, err)
	}

	maxnel, err := variants.MaxElements(b.Variants)
	if err != nil {
		return err
	}
	err = patcher.PatchMaketools(b.Env.ToolsDir(), &b.Toolchain, maxnel)
	if err != nil {
		return fmt.Errorf("failed to patch the tools build script: %s", err)
	}

	err = tools.Build(&b.Env, tools.Select(b.Variants, b.Version.Version))
	if err != nil {
		return err
	}

	settings := ResolveMakenekSettings(b.Variants, &b.Visit, b.Version.Version, b.Env.InstallDir)
	err = patcher.PatchMakenek(b.Env.BinDir(), &b.Toolchain, &settings)
	if err != nil {
		return fmt.Errorf("failed to patch the solver build script: %s", err)
	}

	err = install.Stage(&b.Env)
	if err != nil {
		return err
	}

	err = install.WriteManifest(&b.Env, b.Version.Version, b.Variants)
	if err != nil {
		// The install itself is complete, a missing manifest is not fatal
		log.Printf("[WARN] failed to write the install manifest: %s", err)
	}

	return install.SmokeTest(&b.Env)
}
