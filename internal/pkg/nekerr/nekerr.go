// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package nekerr

import "errors"

// ErrConfiguration is the error returned when the requested build
// configuration is invalid, before any build step has run
var ErrConfiguration = errors.New("invalid configuration")

// ErrPrecondition is the error returned when a hard precondition of the
// installation is not met (e.g., no Fortran 77 compiler on the system)
var ErrPrecondition = errors.New("precondition not met")

// ErrBuild is the error returned when an external build command exits
// with a non-zero status
var ErrBuild = errors.New("build failed")

// ErrVerification is the error returned when the post-install smoke test
// cannot find the artifact it expects
var ErrVerification = errors.New("post-install verification failed")

// ErrNotAvailable is the error returned when an element that is being looked up is not available
var ErrNotAvailable = errors.New("item not available")
