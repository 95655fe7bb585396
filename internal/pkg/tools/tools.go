// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

/*
 * tools is a package that drives the build of the auxiliary Nek5000 tools
 * (mesh generators, converters, pre/post processors) through the vendored
 * maketools script.
 */
package tools

import (
	"fmt"
	"log"

	"github.com/gvallee/kv/pkg/kv"

	"github.com/nekpack/nekpack/internal/pkg/buildenv"
	"github.com/nekpack/nekpack/internal/pkg/nekerr"
	"github.com/nekpack/nekpack/internal/pkg/nekexec"
	"github.com/nekpack/nekpack/internal/pkg/variants"
	"github.com/nekpack/nekpack/internal/pkg/versions"
)

// MaketoolsBin is the name of the vendored script building the tools
const MaketoolsBin = "maketools"

// Eligible checks whether a tool should be built: it must be requested and,
// for version-gated tools, supported by the version being installed
func Eligible(name string, kvs []kv.KV, version string) bool {
	if !variants.IsEnabled(kvs, name) {
		return false
	}

	if name == variants.IntTp && !versions.Supports(version, versions.BuildIntTp) {
		log.Printf("* Tool %s is not available with version %s, skipping...", name, version)
		return false
	}

	return true
}

// Select returns the tools to build for a given configuration, in build order
func Select(kvs []kv.KV, version string) []string {
	var selected []string
	for _, name := range variants.Tools {
		if Eligible(name, kvs, version) {
			selected = append(selected, name)
		}
	}
	return selected
}

// Build invokes the patched maketools script once per tool, in order. The
// first failing invocation aborts the whole build; there is no
// partial-success continuation.
func Build(env *buildenv.Info, names []string) error {
	for _, name := range names {
		log.Printf("- Building tool %s...", name)
		cmd := nekexec.Cmd{
			BinPath: "./" + MaketoolsBin,
			CmdArgs: []string{name},
			ExecDir: env.ToolsDir(),
			Env:     env.Env,
		}
		res := cmd.Run()
		if res.Err != nil {
			return fmt.Errorf("%w: tool %s: %s - stdout: %s - stderr: %s", nekerr.ErrBuild, name, res.Err, res.Stdout, res.Stderr)
		}
	}

	return nil
}
