// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package util

import (
	"testing"
)

func TestDetectURLFormat(t *testing.T) {
	tests := []struct {
		url            string
		expectedResult string
	}{
		{
			url:            "file://aurl",
			expectedResult: FileURL,
		},
		{
			url:            "http://myurl",
			expectedResult: HttpURL,
		},
		{
			url:            "https://aurl",
			expectedResult: HttpURL,
		},
		{
			url:            "https://github.com/Nek5000/Nek5000.git",
			expectedResult: GitURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			res := DetectURLType(tt.url)
			if res != tt.expectedResult {
				t.Fatalf("%s returned %s instead of %s", tt.url, res, tt.expectedResult)
			}
		})
	}
}

func TestDetectTarballFormat(t *testing.T) {
	tests := []struct {
		path           string
		expectedFormat string
		expectedArgs   string
	}{
		{
			path:           "Nek5000-v17.0.tar.gz",
			expectedFormat: FormatGZ,
			expectedArgs:   "-xzf",
		},
		{
			path:           "Nek5000.tar.bz2",
			expectedFormat: FormatBZ2,
			expectedArgs:   "-xjf",
		},
		{
			path:           "Nek5000.tar",
			expectedFormat: FormatTAR,
			expectedArgs:   "-xf",
		},
		{
			path:           "Nek5000",
			expectedFormat: "",
			expectedArgs:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			format := DetectTarballFormat(tt.path)
			if format != tt.expectedFormat {
				t.Fatalf("%s returned %s instead of %s", tt.path, format, tt.expectedFormat)
			}
			args := GetTarArgs(format)
			if args != tt.expectedArgs {
				t.Fatalf("%s returned tar arguments %s instead of %s", tt.path, args, tt.expectedArgs)
			}
		})
	}
}
