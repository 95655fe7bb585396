// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nekpack/nekpack/internal/pkg/checker"
	"github.com/nekpack/nekpack/internal/pkg/manifest"
	"github.com/nekpack/nekpack/internal/pkg/mpi"
	"github.com/nekpack/nekpack/internal/pkg/toolchain"
	"github.com/nekpack/nekpack/internal/pkg/versions"
)

func main() {
	list := flag.Bool("list", false, "List the versions of Nek5000 that can be installed")
	manifestPath := flag.String("manifest", "", "Path to the "+manifest.FileName+" of an installation to check for drift")

	flag.Parse()

	log.SetOutput(os.Stdout)

	if *list {
		for _, v := range versions.List() {
			fmt.Println(v)
		}
		return
	}

	if *manifestPath != "" {
		err := manifest.Check(*manifestPath)
		if err != nil {
			log.Fatalf("the installation drifted from its manifest: %s", err)
		}
		fmt.Println("The installation matches its manifest.")
		return
	}

	tc := toolchain.Detect()
	err := checker.CheckSystemConfig(&tc)
	if err != nil {
		log.Fatalf("the system is not correctly setup: %s", err)
	}

	m, err := mpi.Detect()
	if err != nil {
		log.Printf("* Checking for MPI compiler wrappers\tfail (MPI builds will not be available)")
	} else {
		log.Printf("* Checking for MPI compiler wrappers\tpass (%s, %s)", m.F77, m.CC)
	}

	fmt.Println("Your system is ready to install Nek5000.")
}
