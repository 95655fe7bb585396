// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package tools

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/gvallee/kv/pkg/kv"

	"github.com/nekpack/nekpack/internal/pkg/buildenv"
	"github.com/nekpack/nekpack/internal/pkg/nekerr"
	"github.com/nekpack/nekpack/internal/pkg/variants"
	"github.com/nekpack/nekpack/internal/pkg/versions"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name          string
		overrides     []kv.KV
		version       string
		expectedTools []string
	}{
		{
			name:    "all tools at 17.0",
			version: versions.V17,
			expectedTools: []string{
				variants.Genbox, variants.N2to3, variants.Postnek,
				variants.Reatore2, variants.Genmap, variants.Nekmerge,
				variants.Prenek,
			},
		},
		{
			name:    "all tools at 17.0.0-beta2",
			version: versions.V17Beta2,
			expectedTools: []string{
				variants.Genbox, variants.IntTp, variants.N2to3,
				variants.Postnek, variants.Reatore2, variants.Genmap,
				variants.Nekmerge, variants.Prenek,
			},
		},
		{
			name:    "only genmap",
			version: versions.V17,
			overrides: []kv.KV{
				{Key: variants.Genbox, Value: "false"},
				{Key: variants.IntTp, Value: "false"},
				{Key: variants.N2to3, Value: "false"},
				{Key: variants.Postnek, Value: "false"},
				{Key: variants.Reatore2, Value: "false"},
				{Key: variants.Nekmerge, Value: "false"},
				{Key: variants.Prenek, Value: "false"},
			},
			expectedTools: []string{variants.Genmap},
		},
		{
			name:    "int_tp requested on the wrong version",
			version: versions.V17,
			overrides: []kv.KV{
				{Key: variants.Genbox, Value: "false"},
				{Key: variants.N2to3, Value: "false"},
				{Key: variants.Postnek, Value: "false"},
				{Key: variants.Reatore2, Value: "false"},
				{Key: variants.Genmap, Value: "false"},
				{Key: variants.Nekmerge, Value: "false"},
				{Key: variants.Prenek, Value: "false"},
			},
			expectedTools: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kvs := variants.Merge(variants.Defaults(), tt.overrides)
			selected := Select(kvs, tt.version)
			if !reflect.DeepEqual(selected, tt.expectedTools) {
				t.Fatalf("selected %v instead of %v", selected, tt.expectedTools)
			}
		})
	}
}

// stubMaketools creates a maketools script that records every invocation in
// a log file, so tests can check what the driver actually ran
func stubMaketools(t *testing.T, dir string, exitCode int) string {
	t.Helper()

	logPath := filepath.Join(dir, "invocations.log")
	script := "#!/bin/sh\necho \"$1\" >> " + logPath + "\nexit " + strconv.Itoa(exitCode) + "\n"
	err := os.WriteFile(filepath.Join(dir, MaketoolsBin), []byte(script), 0755)
	if err != nil {
		t.Fatalf("failed to create maketools stub: %s", err)
	}

	return logPath
}

func TestBuild(t *testing.T) {
	srcDir := t.TempDir()
	toolsDir := filepath.Join(srcDir, "tools")
	err := os.MkdirAll(toolsDir, 0755)
	if err != nil {
		t.Fatalf("failed to create tools directory: %s", err)
	}
	logPath := stubMaketools(t, toolsDir, 0)

	env := buildenv.Info{
		SrcDir: srcDir,
	}

	err = Build(&env, []string{variants.Genbox, variants.Genmap})
	if err != nil {
		t.Fatalf("build failed: %s", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read the invocation log: %s", err)
	}
	invocations := strings.Fields(string(data))
	if !reflect.DeepEqual(invocations, []string{variants.Genbox, variants.Genmap}) {
		t.Fatalf("maketools was invoked with %v", invocations)
	}
}

func TestBuildFailure(t *testing.T) {
	srcDir := t.TempDir()
	toolsDir := filepath.Join(srcDir, "tools")
	err := os.MkdirAll(toolsDir, 0755)
	if err != nil {
		t.Fatalf("failed to create tools directory: %s", err)
	}
	logPath := stubMaketools(t, toolsDir, 1)

	env := buildenv.Info{
		SrcDir: srcDir,
	}

	err = Build(&env, []string{variants.Genbox, variants.Genmap})
	if err == nil {
		t.Fatalf("build succeeded with a failing maketools")
	}
	if !errors.Is(err, nekerr.ErrBuild) {
		t.Fatalf("failure did not report a build error: %s", err)
	}

	// The first failure must abort the loop
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read the invocation log: %s", err)
	}
	invocations := strings.Fields(string(data))
	if len(invocations) != 1 {
		t.Fatalf("driver kept going after a failure: %v", invocations)
	}
}
