// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The edfkit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// edftool inspects and converts EDF/EDF+ recordings.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/edfkit/edf"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "edftool",
	Short:         "Inspect and convert EDF/EDF+ recordings",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps decode failures to distinct exit codes: 2 for an unusable
// header, 3 for a truncated data region, 1 for everything else.
func exitCode(err error) int {
	switch {
	case errors.Is(err, edf.ErrTruncatedHeader),
		errors.Is(err, edf.ErrInvalidSignalCount),
		errors.Is(err, edf.ErrHeaderLengthMismatch),
		errors.Is(err, edf.ErrMalformedField):
		return 2
	case errors.Is(err, edf.ErrTruncatedRecord):
		return 3
	default:
		return 1
	}
}

// decodeFile loads and decodes path, printing any warnings. A truncated data
// region is reported but still yields the records decoded before it.
func decodeFile(path string) (*edf.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := edf.Decode(raw)
	if doc == nil {
		return nil, err
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; using the records decoded so far\n", err)
	}
	for _, w := range doc.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", w)
	}
	return doc, nil
}
