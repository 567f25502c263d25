// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Default file extensions
const (
	hexExt = ".hex"
	binExt = ".bin"
)

// withDefaultExt appends ext when name has no extension
func withDefaultExt(name, ext string) string {
	if filepath.Ext(name) == "" {
		return name + ext
	}
	return name
}

// deriveFileNames returns the input and output paths for `convert IN [OUT]`.
// IN defaults to .hex; OUT defaults to IN's base name with .bin.
func deriveFileNames(args []string) (string, string, error) {
	if len(args) < 1 || len(args) > 2 {
		return "", "", fmt.Errorf("expected 1 or 2 file names, got %d", len(args))
	}

	in := args[0]
	base := strings.TrimSuffix(in, filepath.Ext(in))
	in = withDefaultExt(in, hexExt)

	var out string
	if len(args) == 2 {
		out = withDefaultExt(args[1], binExt)
	} else {
		out = base + binExt
	}

	if filepath.Clean(in) == filepath.Clean(out) {
		return "", "", fmt.Errorf("output file %s would overwrite the input", out)
	}
	return in, out, nil
}
