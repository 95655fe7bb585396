// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package checker

import (
	"errors"
	"testing"

	"github.com/nekpack/nekpack/internal/pkg/nekerr"
	"github.com/nekpack/nekpack/internal/pkg/toolchain"
)

func TestCheckFortranCompiler(t *testing.T) {
	tc := toolchain.Info{
		F77: "/usr/bin/gfortran",
		CC:  "/usr/bin/gcc",
	}
	err := CheckFortranCompiler(&tc)
	if err != nil {
		t.Fatalf("check failed with a Fortran compiler present: %s", err)
	}

	tc.F77 = ""
	err = CheckFortranCompiler(&tc)
	if err == nil {
		t.Fatalf("check passed without a Fortran compiler")
	}
	if !errors.Is(err, nekerr.ErrPrecondition) {
		t.Fatalf("missing Fortran compiler did not report a precondition error: %s", err)
	}
}
