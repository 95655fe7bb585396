// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

/*
 * versions is a package that tracks the versions of Nek5000 that can be
 * installed, where their source comes from, and which version-gated
 * features of the build apply to them.
 */
package versions

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/nekpack/nekpack/internal/pkg/nekerr"
)

// Known version identifiers
const (
	// Develop is the moving reference tracking the upstream master branch
	Develop = "develop"

	// V17 is the 17.0 release
	V17 = "17.0"

	// V17Beta2 is the 17.0.0-beta2 pre-release
	V17Beta2 = "17.0.0-beta2"
)

// Info gathers the details of a version of Nek5000
type Info struct {
	// Version is the identifier with which the version is requested
	Version string

	// URL is the source of the version, either a tarball or a Git repository
	URL string

	// MD5 is the checksum of the source tarball; empty when the source is
	// not a released archive
	MD5 string

	// Branch is the branch to track when the source is a Git repository
	Branch string
}

var registry = []Info{
	{
		Version: V17,
		URL:     "https://github.com/Nek5000/Nek5000/releases/download/v17.0/Nek5000-v17.0.tar.gz",
		MD5:     "6a13bfad2ce023897010dd88f54a0a87",
	},
	{
		Version: V17Beta2,
		URL:     "https://github.com/Nek5000/Nek5000/releases/download/v17.0.0-beta2/Nek5000-v17.0.0-beta2.tar.gz",
	},
	{
		Version: Develop,
		URL:     "https://github.com/Nek5000/Nek5000.git",
		Branch:  "master",
	},
}

// Lookup returns the details of a known version of Nek5000
func Lookup(version string) (Info, error) {
	for _, v := range registry {
		if v.Version == version {
			return v, nil
		}
	}

	return Info{}, fmt.Errorf("%w: unknown version %s", nekerr.ErrNotAvailable, version)
}

// List returns the identifiers of all the known versions
func List() []string {
	var ids []string
	for _, v := range registry {
		ids = append(ids, v.Version)
	}
	return ids
}

func canonical(version string) string {
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return version
}

// compare orders two version identifiers the way upstream names its
// releases: numeric components first, and an identifier that extends a
// release with extra components (17.0.0-beta2) comes after the release it
// extends (17.0). This is NOT the semver pre-release rule, which would put
// 17.0.0-beta2 below 17.0.
func compare(a string, b string) int {
	ca := canonical(a)
	cb := canonical(b)

	baseA := strings.TrimSuffix(semver.Canonical(ca), semver.Prerelease(ca))
	baseB := strings.TrimSuffix(semver.Canonical(cb), semver.Prerelease(cb))
	if res := semver.Compare(baseA, baseB); res != 0 {
		return res
	}

	return strings.Compare(semver.Prerelease(ca), semver.Prerelease(cb))
}

// AtLeast checks whether a version is at or above a threshold. The develop
// reference tracks upstream and therefore compares newer than every
// numbered release.
func AtLeast(version string, threshold string) bool {
	if version == Develop {
		return true
	}
	if threshold == Develop {
		return false
	}
	return compare(version, threshold) >= 0
}

// Is checks whether a version is exactly a given tag
func Is(version string, tag string) bool {
	if version == Develop || tag == Develop {
		return version == tag
	}
	return compare(version, tag) == 0
}

// Capability names a version-gated feature of the build
type Capability int

const (
	// BuildIntTp is the ability to build the int_tp tool, which only ships
	// with the 17.0.0-beta2 pre-release
	BuildIntTp Capability = iota

	// PatchSourceRoot is the ability to point makenek at an out-of-tree
	// copy of the solver source, introduced with the 17.0 release line
	// (its pre-releases included)
	PatchSourceRoot
)

// The version gates live in a single table so that new gates do not touch
// the build drivers
var gates = map[Capability]func(version string) bool{
	BuildIntTp:      func(version string) bool { return Is(version, V17Beta2) },
	PatchSourceRoot: func(version string) bool { return AtLeast(version, V17) },
}

// Supports checks whether a capability applies to a given version
func Supports(version string, c Capability) bool {
	gate, ok := gates[c]
	if !ok {
		return false
	}
	return gate(version)
}
