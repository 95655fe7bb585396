// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package nekexec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "hello")
	err := os.WriteFile(script, []byte("#!/bin/sh\necho \"hello $1\"\n"), 0755)
	if err != nil {
		t.Fatalf("failed to create test script: %s", err)
	}

	cmd := Cmd{
		BinPath: script,
		CmdArgs: []string{"world"},
		ExecDir: dir,
	}
	res := cmd.Run()
	if res.Err != nil {
		t.Fatalf("command failed: %s - stdout: %s - stderr: %s", res.Err, res.Stdout, res.Stderr)
	}
	if strings.TrimSpace(res.Stdout) != "hello world" {
		t.Fatalf("command returned %q on stdout", res.Stdout)
	}
}

func TestRunWritesManifest(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "build")
	err := os.WriteFile(script, []byte("#!/bin/sh\ntouch artifact\nexit 0\n"), 0755)
	if err != nil {
		t.Fatalf("failed to create test script: %s", err)
	}

	cmd := Cmd{
		BinPath:          script,
		ExecDir:          dir,
		ManifestDir:      dir,
		ManifestData:     []string{"Case: example"},
		ManifestFileHash: []string{filepath.Join(dir, "artifact")},
	}
	res := cmd.Run()
	if res.Err != nil {
		t.Fatalf("command failed: %s", res.Err)
	}

	manifestPath := filepath.Join(dir, "exec.MANIFEST")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("execution manifest is missing: %s", err)
	}
	for _, entry := range []string{
		"Command: " + script,
		"Execution path: " + dir,
		"Case: example",
		filepath.Join(dir, "artifact") + ": ",
	} {
		if !strings.Contains(string(data), entry) {
			t.Fatalf("execution manifest misses %q:\n%s", entry, data)
		}
	}

	// A manifest records one execution and a second run must not touch it
	before, err := os.Stat(manifestPath)
	if err != nil {
		t.Fatalf("failed to stat the manifest: %s", err)
	}
	res = cmd.Run()
	if res.Err != nil {
		t.Fatalf("second run failed: %s", res.Err)
	}
	after, err := os.Stat(manifestPath)
	if err != nil {
		t.Fatalf("failed to stat the manifest: %s", err)
	}
	if !before.ModTime().Equal(after.ModTime()) || before.Size() != after.Size() {
		t.Fatalf("execution manifest was rewritten by a second run")
	}
}
