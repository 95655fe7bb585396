// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package util

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/gvallee/go_util/pkg/util"
)

// Constants defining the format of a source archive
const (
	// FormatBZ2 represents a bz2 file
	FormatBZ2 = "bz2"

	// FormatGZ represents a GZ file
	FormatGZ = "gz"

	// FormatTAR represents a simple TAR file
	FormatTAR = "tar"
)

// DetectTarballFormat detects the format of a source archive based on its extension
func DetectTarballFormat(filepath string) string {
	if path.Ext(filepath) == ".bz2" {
		return FormatBZ2
	}

	if path.Ext(filepath) == ".gz" {
		return FormatGZ
	}

	if path.Ext(filepath) == ".tar" {
		return FormatTAR
	}

	return ""
}

// GetTarArgs returns the arguments to pass to the tar command to extract an
// archive of a given format
func GetTarArgs(format string) string {
	switch format {
	case FormatBZ2:
		return "-xjf"
	case FormatGZ:
		return "-xzf"
	case FormatTAR:
		return "-xf"
	}

	return ""
}

// IsDir checks whether a path points at a directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CopyTree recursively copies the content of a source directory into a
// destination directory, creating the destination when necessary. Symbolic
// links are not followed; permissions of regular files are preserved.
func CopyTree(src string, dst string) error {
	srcStat, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("cannot access directory %s: %s", src, err)
	}
	if !srcStat.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}

	err = os.MkdirAll(dst, 0755)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %s", dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %s", src, err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			err = CopyTree(srcPath, dstPath)
			if err != nil {
				return err
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("failed to get details about %s: %s", srcPath, err)
		}
		if !info.Mode().IsRegular() {
			// Sockets, devices and symlinks are skipped; the solver source
			// tree only carries regular files and directories
			continue
		}

		err = util.CopyFile(srcPath, dstPath)
		if err != nil {
			return fmt.Errorf("failed to copy %s to %s: %s", srcPath, dstPath, err)
		}
		err = os.Chmod(dstPath, info.Mode().Perm())
		if err != nil {
			return fmt.Errorf("failed to set permissions on %s: %s", dstPath, err)
		}
	}

	return nil
}
