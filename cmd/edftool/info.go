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
	"time"

	"github.com/dustin/go-humanize"
	"github.com/edfkit/edf"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.edf>",
	Short: "Show the header and signal table of a recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := decodeFile(args[0])
		if err != nil {
			return err
		}
		printInfo(doc)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func printInfo(doc *edf.Document) {
	hdr := doc.Header

	fmt.Printf("Patient:     %s\n", hdr.PatientID)
	fmt.Printf("Recording:   %s\n", hdr.RecordingID)
	fmt.Printf("Start time:  %s\n", hdr.StartTime.Format(time.DateTime))
	if hdr.Reserved != "" {
		fmt.Printf("Type:        %s\n", hdr.Reserved)
	}
	fmt.Printf("Header size: %s\n", humanize.Bytes(uint64(hdr.HeaderBytes)))
	fmt.Printf("Records:     %s of %v each (%v total)\n",
		humanize.Comma(int64(hdr.DataRecords)), hdr.DataRecordDuration, doc.Duration())
	fmt.Printf("Signals:     %d\n\n", hdr.SignalCount)

	fmt.Printf("%-3s %-16s %-8s %10s %12s  %s\n", "#", "Label", "Unit", "Rate (Hz)", "Samples", "Transducer")
	for i, sig := range hdr.Signals {
		fmt.Printf("%-3d %-16s %-8s %10.4g %12s  %s\n",
			i, sig.Label, sig.PhysicalDimension,
			sig.SampleRate(hdr.DataRecordDuration),
			humanize.Comma(int64(len(doc.Samples[i]))),
			sig.TransducerType)
	}

	if len(doc.Annotations) > 0 {
		fmt.Printf("\nAnnotations: %s\n", humanize.Comma(int64(len(doc.Annotations))))
	}
}
