// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

/*
 * variants is a package that handles the build-time options of a Nek5000
 * installation: the feature flags (MPI, profiling, Visit), the MAXNEL size
 * limit of the tools, and one flag per optional tool.
 */
package variants

import (
	"fmt"
	"strconv"

	"github.com/gvallee/go_util/pkg/util"
	"github.com/gvallee/kv/pkg/kv"

	"github.com/nekpack/nekpack/internal/pkg/nekerr"
)

// Names of the supported variants
const (
	// MPI enables the MPI build of the solver
	MPI = "mpi"

	// Profiling enables profiling data in the solver build
	Profiling = "profiling"

	// Visit enables the VisIt in-situ visualization support
	Visit = "visit"

	// MaxNEl is the maximum number of elements supported by the Nek5000 tools
	MaxNEl = "MAXNEL"

	// DefaultMaxNEl is the default value for the MAXNEL variant
	DefaultMaxNEl = "150000"
)

// Names of the optional Nek5000 tools
const (
	Genbox   = "genbox"
	IntTp    = "int_tp"
	N2to3    = "n2to3"
	Postnek  = "postnek"
	Reatore2 = "reatore2"
	Genmap   = "genmap"
	Nekmerge = "nekmerge"
	Prenek   = "prenek"
)

// Tools is the list of the optional tools, in the order in which they are built
var Tools = []string{Genbox, IntTp, N2to3, Postnek, Reatore2, Genmap, Nekmerge, Prenek}

// Defaults returns the default value for every variant
func Defaults() []kv.KV {
	kvs := []kv.KV{
		{Key: MPI, Value: "true"},
		{Key: Profiling, Value: "true"},
		{Key: Visit, Value: "false"},
		{Key: MaxNEl, Value: DefaultMaxNEl},
	}

	for _, tool := range Tools {
		kvs = append(kvs, kv.KV{Key: tool, Value: "true"})
	}

	return kvs
}

// Merge applies a set of overrides on top of a base set of variants and
// returns the result; neither input is modified
func Merge(base []kv.KV, overrides []kv.KV) []kv.KV {
	var merged []kv.KV

	for _, entry := range base {
		value := entry.Value
		if kv.KeyExists(overrides, entry.Key) {
			value = kv.GetValue(overrides, entry.Key)
		}
		merged = append(merged, kv.KV{Key: entry.Key, Value: value})
	}

	// Keys that are not known variants are rejected by Validate later on,
	// we still carry them so the error message can name them
	for _, entry := range overrides {
		if !kv.KeyExists(base, entry.Key) {
			merged = append(merged, entry)
		}
	}

	return merged
}

// Load reads a recipe file and returns its variants merged over the defaults
func Load(filepath string) ([]kv.KV, error) {
	if !util.FileExists(filepath) {
		return nil, fmt.Errorf("recipe file %s does not exist", filepath)
	}

	kvs, err := kv.LoadKeyValueConfig(filepath)
	if err != nil {
		return nil, fmt.Errorf("cannot load recipe file %s: %s", filepath, err)
	}

	return Merge(Defaults(), kvs), nil
}

// IsEnabled checks whether a boolean variant is set
func IsEnabled(kvs []kv.KV, name string) bool {
	value, err := strconv.ParseBool(kv.GetValue(kvs, name))
	if err != nil {
		return false
	}
	return value
}

// MaxElements returns the value of the MAXNEL variant
func MaxElements(kvs []kv.KV) (int, error) {
	err := checkMaxElements(kv.GetValue(kvs, MaxNEl))
	if err != nil {
		return 0, err
	}
	n, _ := strconv.Atoi(kv.GetValue(kvs, MaxNEl))
	return n, nil
}

func checkMaxElements(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		// A boolean spelling is a common way to mistype the variant and
		// deserves a dedicated message. Integers are checked first: 1 and
		// 0 parse as booleans too but are legitimate integer input here.
		if _, berr := strconv.ParseBool(value); berr == nil {
			return fmt.Errorf("%w: %s must be a positive integer, not a boolean (%s)", nekerr.ErrConfiguration, MaxNEl, value)
		}
		return fmt.Errorf("%w: %s must be a positive integer (%s)", nekerr.ErrConfiguration, MaxNEl, value)
	}
	if n <= 0 {
		return fmt.Errorf("%w: %s must be strictly positive (%d)", nekerr.ErrConfiguration, MaxNEl, n)
	}

	return nil
}

// Validate checks a full set of variants before any build step runs. The
// check is pure: no file is touched and no command is executed.
func Validate(kvs []kv.KV) error {
	known := Defaults()

	for _, entry := range kvs {
		if !kv.KeyExists(known, entry.Key) {
			return fmt.Errorf("%w: unknown variant %s", nekerr.ErrConfiguration, entry.Key)
		}

		if entry.Key == MaxNEl {
			err := checkMaxElements(entry.Value)
			if err != nil {
				return err
			}
			continue
		}

		_, err := strconv.ParseBool(entry.Value)
		if err != nil {
			return fmt.Errorf("%w: variant %s expects a boolean (%s)", nekerr.ErrConfiguration, entry.Key, entry.Value)
		}
	}

	return nil
}
