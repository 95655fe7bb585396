// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	util "github.com/gvallee/go_util/pkg/util"
	"github.com/gvallee/kv/pkg/kv"

	"github.com/nekpack/nekpack/internal/pkg/buildenv"
	"github.com/nekpack/nekpack/internal/pkg/builder"
	"github.com/nekpack/nekpack/internal/pkg/checker"
	"github.com/nekpack/nekpack/internal/pkg/persistent"
	"github.com/nekpack/nekpack/internal/pkg/sys"
	"github.com/nekpack/nekpack/internal/pkg/variants"
	"github.com/nekpack/nekpack/internal/pkg/versions"
)

func main() {

	/* Argument parsing */
	verbose := flag.Bool("v", false, "Enable verbose mode")
	debug := flag.Bool("d", false, "Enable debug mode")
	version := flag.String("version", versions.V17, "Version of Nek5000 to install")
	prefix := flag.String("prefix", "", "Installation prefix (default is a versioned directory under "+sys.GetNekpackDir()+")")
	recipe := flag.String("recipe", "", "Path to a recipe file with variant overrides")
	withMPI := flag.Bool("mpi", true, "Build with MPI")
	withProfiling := flag.Bool("profiling", true, "Build with profiling data")
	withVisit := flag.Bool("visit", false, "Build with VisIt support")
	maxnel := flag.String("maxnel", variants.DefaultMaxNEl, "Maximum number of elements for the Nek5000 tools")
	skipTools := flag.String("skip-tools", "", "Comma-separated list of tools to skip")
	noinstall := flag.Bool("noinstall", false, "Keep everything in the scratch directory instead of installing under "+sys.GetNekpackDir()+"; set "+sys.NekpackDirEnvVar+" to overwrite the default directory")

	flag.Parse()

	// Initialize the log file. Log messages will both appear on stdout and the log file if the verbose option is used
	logFile := util.OpenLogFile("nekinstall")
	defer logFile.Close()
	if *verbose || *debug {
		multiWriters := io.MultiWriter(os.Stdout, logFile)
		log.SetOutput(multiWriters)
	} else {
		log.SetOutput(ioutil.Discard)
	}

	var sysCfg sys.Config
	sysCfg.Verbose = *verbose
	sysCfg.Debug = *debug
	sysCfg.Prefix = *prefix
	if !*noinstall {
		// In persistent mode the scratch data stays under the nekpack
		// directory so a failed build can be inspected afterwards
		sysCfg.Persistent = sys.GetNekpackDir()
		sysCfg.ScratchDir = persistent.GetScratchDir(*version)
	} else {
		scratchDir, err := ioutil.TempDir("", "nekpack-")
		if err != nil {
			log.Fatalf("failed to create scratch directory: %s", err)
		}
		sysCfg.ScratchDir = scratchDir
	}

	// Assemble the requested variants: defaults, then the recipe file,
	// then the command line flags
	kvs := variants.Defaults()
	if *recipe != "" {
		loaded, err := variants.Load(*recipe)
		if err != nil {
			log.Fatalf("unable to load recipe: %s", err)
		}
		kvs = loaded
		sysCfg.ConfigFile = *recipe
	}

	overrides := []kv.KV{
		{Key: variants.MPI, Value: strconv.FormatBool(*withMPI)},
		{Key: variants.Profiling, Value: strconv.FormatBool(*withProfiling)},
		{Key: variants.Visit, Value: strconv.FormatBool(*withVisit)},
		{Key: variants.MaxNEl, Value: *maxnel},
	}
	if *skipTools != "" {
		for _, tool := range strings.Split(*skipTools, ",") {
			overrides = append(overrides, kv.KV{Key: strings.TrimSpace(tool), Value: "false"})
		}
	}
	kvs = variants.Merge(kvs, overrides)

	b, err := builder.Load(*version, kvs, &sysCfg)
	if err != nil {
		log.Fatalf("unable to resolve the installation: %s", err)
	}

	if *debug {
		err = checker.CheckSystemConfig(&b.Toolchain)
		if err != nil {
			log.Fatalf("the system is not correctly setup: %s", err)
		}
	}

	err = buildenv.CreateDefaultHostEnvCfg(&b.Env, *version, &sysCfg)
	if err != nil {
		log.Fatalf("failed to set up the build environment: %s", err)
	}

	err = b.Install()
	if err != nil {
		log.Fatalf("installation of Nek5000 %s failed: %s", *version, err)
	}

	fmt.Printf("Nek5000 %s is installed in %s\n", *version, b.Env.InstallDir)
	fmt.Printf("Add %s to your PATH to use it.\n", filepath.Join(b.Env.InstallDir, "bin"))
}
