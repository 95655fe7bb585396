// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

/*
 * patcher is a package that edits the vendored Nek5000 build scripts
 * (maketools and makenek) in place, replacing their commented-out
 * placeholder assignments with the resolved build configuration.
 */
package patcher

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/nekpack/nekpack/internal/pkg/toolchain"
)

// Names of the vendored build scripts
const (
	// MaketoolsScript is the script building the auxiliary tools
	MaketoolsScript = "maketools"

	// MakenekScript is the script assembling and building the solver for a case
	MakenekScript = "makenek"
)

// FilterFile applies a substitution to a file in place. Every line matching
// the pattern is replaced by repl, and the number of replaced lines is
// returned. A pattern that matches nothing is reported as a warning, not an
// error: the script may already be patched or upstream may have changed.
func FilterFile(path string, pattern string, repl string) (int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, fmt.Errorf("invalid pattern %q: %s", pattern, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("cannot access %s: %s", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %s", path, err)
	}

	count := 0
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		if re.MatchString(line) {
			lines[i] = repl
			count++
		}
	}

	if count == 0 {
		log.Printf("[WARN] pattern %q did not match anything in %s", pattern, path)
		return 0, nil
	}

	err = os.WriteFile(path, []byte(strings.Join(lines, "\n")), info.Mode().Perm())
	if err != nil {
		return 0, fmt.Errorf("failed to write %s: %s", path, err)
	}

	return count, nil
}

// PatchMaketools updates the maketools script in a directory so that it
// uses the resolved compilers, flags and tools size limit
func PatchMaketools(dir string, tc *toolchain.Info, maxnel int) error {
	script := filepath.Join(dir, MaketoolsScript)
	log.Printf("- Patching %s...", script)

	_, err := FilterFile(script, `^#FC\s*=.*`, `FC="`+tc.F77+`"`)
	if err != nil {
		return err
	}
	_, err = FilterFile(script, `^#CC\s*=.*`, `CC="`+tc.CC+`"`)
	if err != nil {
		return err
	}

	if fflags := tc.FFlagsString(); fflags != "" {
		_, err = FilterFile(script, `^#FFLAGS=.*`, `FFLAGS="`+fflags+`"`)
		if err != nil {
			return err
		}
	}
	if cflags := tc.CFlagsString(); cflags != "" {
		_, err = FilterFile(script, `^#CFLAGS=.*`, `CFLAGS="`+cflags+`"`)
		if err != nil {
			return err
		}
	}

	_, err = FilterFile(script, `^#MAXNEL\s*=.*`, "MAXNEL="+strconv.Itoa(maxnel))
	return err
}

// MakenekSettings gathers the variant-dependent edits to apply to makenek
type MakenekSettings struct {
	// DisableMPI activates the MPI=0 line of the script
	DisableMPI bool

	// DisableProfiling activates the PROFILING=0 line of the script
	DisableProfiling bool

	// EnableVisit activates the VISIT=1 line of the script
	EnableVisit bool

	// VisitInstallDir is the VisIt bin directory the script points at when
	// Visit support is enabled
	VisitInstallDir string

	// PatchCompilers requests the FC/CC/flags edits, which only apply to
	// script versions at or above 17.0
	PatchCompilers bool

	// SourceRoot is the installed solver source tree the script points at;
	// empty skips the edit
	SourceRoot string
}

// PatchMakenek updates the makenek script in a directory according to the
// requested variants
func PatchMakenek(dir string, tc *toolchain.Info, settings *MakenekSettings) error {
	script := filepath.Join(dir, MakenekScript)
	log.Printf("- Patching %s...", script)

	if settings.DisableMPI {
		_, err := FilterFile(script, `^#MPI=0`, "MPI=0")
		if err != nil {
			return err
		}
	}

	if settings.DisableProfiling {
		_, err := FilterFile(script, `^#PROFILING=0`, "PROFILING=0")
		if err != nil {
			return err
		}
	}

	if settings.EnableVisit {
		_, err := FilterFile(script, `^#VISIT=1`, "VISIT=1")
		if err != nil {
			return err
		}
		_, err = FilterFile(script, `^#VISIT_INSTALL=.*`, `VISIT_INSTALL="`+settings.VisitInstallDir+`"`)
		if err != nil {
			return err
		}
	}

	if !settings.PatchCompilers {
		return nil
	}

	_, err := FilterFile(script, `^#FC\s*=.*`, `FC="`+tc.F77+`"`)
	if err != nil {
		return err
	}
	_, err = FilterFile(script, `^#CC\s*=.*`, `CC="`+tc.CC+`"`)
	if err != nil {
		return err
	}

	if settings.SourceRoot != "" {
		_, err = FilterFile(script, `^#SOURCE_ROOT\s*=\"\$H.*`, `SOURCE_ROOT="`+settings.SourceRoot+`"`)
		if err != nil {
			return err
		}
	}

	if fflags := tc.FFlagsString(); fflags != "" {
		_, err = FilterFile(script, `^#FFLAGS=.*`, `FFLAGS="`+fflags+`"`)
		if err != nil {
			return err
		}
	}
	if cflags := tc.CFlagsString(); cflags != "" {
		_, err = FilterFile(script, `^#CFLAGS=.*`, `CFLAGS="`+cflags+`"`)
		if err != nil {
			return err
		}
	}

	return nil
}
