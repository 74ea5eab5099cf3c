// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The edfkit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package main

import (
	"fmt"
	"strings"

	"github.com/edfkit/edf"
	"github.com/spf13/cobra"
)

var annotationsCmd = &cobra.Command{
	Use:   "annotations <file.edf>",
	Short: "List the EDF+ annotations of a recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := decodeFile(args[0])
		if err != nil {
			return err
		}
		if len(doc.Annotations) == 0 {
			fmt.Println("No annotations.")
			return nil
		}
		for _, ann := range doc.Annotations {
			printAnnotation(ann)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(annotationsCmd)
}

func printAnnotation(ann edf.Annotation) {
	if ann.Duration != nil {
		fmt.Printf("%+10.3fs %8.3fs  %s\n", ann.Onset, *ann.Duration, strings.Join(ann.Texts, "; "))
	} else {
		fmt.Printf("%+10.3fs %9s  %s\n", ann.Onset, "-", strings.Join(ann.Texts, "; "))
	}
}
