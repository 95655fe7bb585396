// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package variants

import (
	"errors"
	"testing"

	"github.com/gvallee/kv/pkg/kv"

	"github.com/nekpack/nekpack/internal/pkg/nekerr"
)

func TestValidateMaxElements(t *testing.T) {
	tests := []struct {
		value      string
		shouldPass bool
	}{
		{
			value:      "150000",
			shouldPass: true,
		},
		{
			value:      "1",
			shouldPass: true,
		},
		{
			value:      "0",
			shouldPass: false,
		},
		{
			value:      "-5",
			shouldPass: false,
		},
		{
			value:      "true",
			shouldPass: false,
		},
		{
			value:      "false",
			shouldPass: false,
		},
		{
			value:      "t",
			shouldPass: false,
		},
		{
			value:      "TRUE",
			shouldPass: false,
		},
		{
			value:      "many",
			shouldPass: false,
		},
		{
			value:      "15.5",
			shouldPass: false,
		},
		{
			value:      "",
			shouldPass: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			kvs := Merge(Defaults(), []kv.KV{{Key: MaxNEl, Value: tt.value}})
			err := Validate(kvs)
			if tt.shouldPass && err != nil {
				t.Fatalf("MAXNEL=%s was rejected: %s", tt.value, err)
			}
			if !tt.shouldPass {
				if err == nil {
					t.Fatalf("MAXNEL=%s was accepted", tt.value)
				}
				if !errors.Is(err, nekerr.ErrConfiguration) {
					t.Fatalf("MAXNEL=%s did not report a configuration error: %s", tt.value, err)
				}
			}
		})
	}
}

func TestValidateUnknownVariant(t *testing.T) {
	kvs := Merge(Defaults(), []kv.KV{{Key: "turbo", Value: "true"}})
	err := Validate(kvs)
	if err == nil {
		t.Fatalf("unknown variant was accepted")
	}
	if !errors.Is(err, nekerr.ErrConfiguration) {
		t.Fatalf("unknown variant did not report a configuration error: %s", err)
	}
}

func TestDefaults(t *testing.T) {
	kvs := Defaults()

	err := Validate(kvs)
	if err != nil {
		t.Fatalf("default variants are invalid: %s", err)
	}

	if !IsEnabled(kvs, MPI) {
		t.Fatalf("MPI is not enabled by default")
	}
	if !IsEnabled(kvs, Profiling) {
		t.Fatalf("profiling is not enabled by default")
	}
	if IsEnabled(kvs, Visit) {
		t.Fatalf("Visit is enabled by default")
	}
	for _, tool := range Tools {
		if !IsEnabled(kvs, tool) {
			t.Fatalf("tool %s is not enabled by default", tool)
		}
	}

	n, err := MaxElements(kvs)
	if err != nil {
		t.Fatalf("unable to get the default MAXNEL: %s", err)
	}
	if n != 150000 {
		t.Fatalf("default MAXNEL is %d instead of 150000", n)
	}
}

func TestMerge(t *testing.T) {
	kvs := Merge(Defaults(), []kv.KV{
		{Key: MPI, Value: "false"},
		{Key: MaxNEl, Value: "512"},
	})

	if IsEnabled(kvs, MPI) {
		t.Fatalf("MPI is still enabled after override")
	}
	n, err := MaxElements(kvs)
	if err != nil {
		t.Fatalf("unable to get MAXNEL: %s", err)
	}
	if n != 512 {
		t.Fatalf("MAXNEL is %d instead of 512", n)
	}
	if !IsEnabled(kvs, Genmap) {
		t.Fatalf("default for genmap was lost during the merge")
	}
}
