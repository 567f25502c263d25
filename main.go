// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// ihexbin - Intel-HEX to bootloader block converter
//
// A CLI tool for converting Intel-HEX firmware images into the packed block
// format accepted by the bootloader, and for inspecting and uploading them.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Thermoquad/ihexbin/cmd"
)

func main() {
	err := cmd.Execute()
	if err == nil {
		os.Exit(cmd.ExitOK)
	}

	var exitErr *cmd.ExitError
	if errors.As(err, &exitErr) {
		if !exitErr.Shown {
			fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.Err)
		}
		os.Exit(exitErr.Code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(cmd.ExitIO)
}
