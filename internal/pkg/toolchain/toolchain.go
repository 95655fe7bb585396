// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

/*
 * toolchain is a package that resolves the compilers and compiler flags
 * used to build the solver and its tools.
 */
package toolchain

import (
	"os/exec"
	"strings"

	"github.com/nekpack/nekpack/internal/pkg/mpi"
)

// Default names of the direct (non-MPI) compilers
const (
	DefaultF77 = "gfortran"
	DefaultCC  = "gcc"
)

// Info gathers the details of a resolved toolchain
type Info struct {
	// F77 is the path to the Fortran 77 compiler
	F77 string

	// CC is the path to the C compiler
	CC string

	// FFlags is the list of extra Fortran compiler flags
	FFlags []string

	// CFlags is the list of extra C compiler flags
	CFlags []string
}

// Detect resolves the direct compilers from the PATH. A missing compiler
// leaves the corresponding path empty; whether that is fatal is for the
// preflight check to decide.
func Detect() Info {
	var tc Info

	f77Path, err := exec.LookPath(DefaultF77)
	if err == nil {
		tc.F77 = f77Path
	}
	ccPath, err := exec.LookPath(DefaultCC)
	if err == nil {
		tc.CC = ccPath
	}

	return tc
}

// UseMPIWrappers replaces the direct compilers with the wrappers of a MPI
// implementation
func (tc *Info) UseMPIWrappers(m *mpi.Info) {
	tc.F77 = m.F77
	tc.CC = m.CC
}

// FFlagsString returns the Fortran flags as a single string, the way the
// build scripts expect them
func (tc *Info) FFlagsString() string {
	return strings.Join(tc.FFlags, " ")
}

// CFlagsString returns the C flags as a single string
func (tc *Info) CFlagsString() string {
	return strings.Join(tc.CFlags, " ")
}
