// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"path/filepath"
	"testing"
)

func TestDeriveFileNames(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantIn  string
		wantOut string
	}{
		{"no extension", []string{"firmware"}, "firmware.hex", "firmware.bin"},
		{"hex extension", []string{"firmware.hex"}, "firmware.hex", "firmware.bin"},
		{"other extension", []string{"firmware.ihx"}, "firmware.ihx", "firmware.bin"},
		{"output without extension", []string{"firmware.hex", "image"}, "firmware.hex", "image.bin"},
		{"output with extension", []string{"firmware", "image.blk"}, "firmware.hex", "image.blk"},
		{"dotted directory", []string{filepath.Join("build.v2", "fw")}, filepath.Join("build.v2", "fw.hex"), filepath.Join("build.v2", "fw.bin")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out, err := deriveFileNames(tt.args)
			if err != nil {
				t.Fatalf("deriveFileNames error: %v", err)
			}
			if in != tt.wantIn || out != tt.wantOut {
				t.Errorf("got (%q, %q); want (%q, %q)", in, out, tt.wantIn, tt.wantOut)
			}
		})
	}
}

func TestDeriveFileNames_Errors(t *testing.T) {
	for _, args := range [][]string{nil, {"a", "b", "c"}, {"image.bin"}, {"fw.hex", "fw.hex"}} {
		if _, _, err := deriveFileNames(args); err == nil {
			t.Errorf("deriveFileNames(%q) should fail", args)
		}
	}
}
