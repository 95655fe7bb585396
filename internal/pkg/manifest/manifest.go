// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// manifest records what an installation produced: the resolved build
// configuration and the fingerprints of the installed binaries.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/gvallee/go_util/pkg/util"
)

// FileName is the name of the manifest created under the install prefix
const FileName = "install.MANIFEST"

func getFileHash(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	hasher := sha256.New()
	_, err = io.Copy(hasher, f)
	if err != nil {
		return ""
	}

	return hex.EncodeToString(hasher.Sum(nil))
}

// HashFiles returns the hash for a list of files (absolute paths)
func HashFiles(files []string) []string {
	var hashData []string

	for _, file := range files {
		hash := getFileHash(file)
		hashData = append(hashData, file+": "+hash)
	}

	return hashData
}

// Create a new manifest. The file is made read-only; a manifest is a record
// of one installation, never updated in place.
func Create(filepath string, entries []string) error {
	f, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %s", filepath, err)
	}
	defer f.Close()

	_, err = f.WriteString(strings.Join(entries, "\n"))
	if err != nil {
		return fmt.Errorf("failed to write to %s: %s", filepath, err)
	}

	err = os.Chmod(filepath, 0444)
	if err != nil {
		return fmt.Errorf("failed to set manifest to read only: %s", err)
	}

	return nil
}

// Check parses a manifest and reports the first installed file whose
// current hash no longer matches the recorded one
func Check(path string) error {
	if !util.FileExists(path) {
		// This is currently not an error, just log the fact there is no manifest
		log.Printf("%s does not exist, skipping...", path)
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("failed to read manifest %s", path)
		return nil // This is not a fatal error
	}

	for _, line := range strings.Split(string(data), "\n") {
		tokens := strings.Split(line, ": ")
		if len(tokens) != 2 {
			continue
		}
		file := tokens[0]
		recordedHash := tokens[1]
		if !util.FileExists(file) {
			continue
		}
		actualHash := getFileHash(file)
		if actualHash != recordedHash {
			return fmt.Errorf("hashes differ for %s (record: %s; actual: %s)", file, recordedHash, actualHash)
		}
	}

	return nil
}
