// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

/*
 * mpi is a package that describes the MPI implementation used for a MPI
 * build of the solver. The implementation itself is an external
 * collaborator; all we consume from it are its compiler wrappers.
 */
package mpi

import (
	"fmt"
	"os/exec"

	"github.com/nekpack/nekpack/internal/pkg/nekerr"
)

// Default names of the MPI compiler wrappers
const (
	DefaultF77Wrapper = "mpif77"
	DefaultCCWrapper  = "mpicc"
)

// Info gathers the details of an MPI implementation available on the host
type Info struct {
	// F77 is the path to the Fortran 77 compiler wrapper
	F77 string

	// CC is the path to the C compiler wrapper
	CC string
}

// Detect locates the MPI compiler wrappers on the host
func Detect() (Info, error) {
	var info Info

	f77Path, err := exec.LookPath(DefaultF77Wrapper)
	if err != nil {
		return info, fmt.Errorf("%w: cannot find %s: %s", nekerr.ErrNotAvailable, DefaultF77Wrapper, err)
	}
	ccPath, err := exec.LookPath(DefaultCCWrapper)
	if err != nil {
		return info, fmt.Errorf("%w: cannot find %s: %s", nekerr.ErrNotAvailable, DefaultCCWrapper, err)
	}

	info.F77 = f77Path
	info.CC = ccPath

	return info, nil
}
