// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package checker

import (
	"fmt"
	"log"
	"os/exec"
	"strings"

	"github.com/nekpack/nekpack/internal/pkg/nekerr"
	"github.com/nekpack/nekpack/internal/pkg/toolchain"
)

const (
	prereqBinaries = "wget git tar make"
)

// CheckFortranCompiler confirms that the resolved toolchain carries a
// Fortran 77 compiler. This is a hard precondition of the installation,
// not a retryable condition.
func CheckFortranCompiler(tc *toolchain.Info) error {
	if tc.F77 == "" {
		log.Printf("* Checking for a Fortran 77 compiler\tfail")
		return fmt.Errorf("%w: cannot build Nek5000 without a Fortran 77 compiler", nekerr.ErrPrecondition)
	}

	log.Printf("* Checking for a Fortran 77 compiler\tpass")
	return nil
}

func checkPrereqBinaries() error {
	binaries := strings.Split(prereqBinaries, " ")

	for _, b := range binaries {
		_, err := exec.LookPath(b)
		if err != nil {
			log.Printf("* Checking for %s\tfail", b)
			return fmt.Errorf("%w: %s not found: %s", nekerr.ErrPrecondition, b, err)
		}
		log.Printf("* Checking for %s\tpass", b)
	}
	return nil
}

// CheckSystemConfig checks the system configuration to ensure that the tool
// can run correctly
func CheckSystemConfig(tc *toolchain.Info) error {
	err := CheckFortranCompiler(tc)
	if err != nil {
		return err
	}

	return checkPrereqBinaries()
}
