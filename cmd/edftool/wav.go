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
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/edfkit/edf"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/cobra"
)

var (
	wavOutDir string
	wavSignal int
)

var wavCmd = &cobra.Command{
	Use:   "wav <file.edf>",
	Short: "Export signals as 16-bit PCM WAV files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := decodeFile(args[0])
		if err != nil {
			return err
		}
		return exportWAV(doc, filepath.Base(args[0]))
	},
}

func init() {
	wavCmd.Flags().StringVarP(&wavOutDir, "out", "o", ".", "output directory")
	wavCmd.Flags().IntVarP(&wavSignal, "signal", "s", -1, "signal index to export (default: all)")
	rootCmd.AddCommand(wavCmd)
}

func exportWAV(doc *edf.Document, baseName string) error {
	if err := os.MkdirAll(wavOutDir, 0o755); err != nil {
		return err
	}
	baseName = strings.TrimSuffix(baseName, filepath.Ext(baseName))

	exported := 0
	for i, sig := range doc.Header.Signals {
		if wavSignal >= 0 && wavSignal != i {
			continue
		}
		if sig.IsAnnotations() {
			continue
		}
		rate := int(math.Round(sig.SampleRate(doc.Header.DataRecordDuration)))
		if rate <= 0 {
			fmt.Fprintf(os.Stderr, "Skipping signal %d (%s): no usable sample rate\n", i, sig.Label)
			continue
		}
		path := filepath.Join(wavOutDir, fmt.Sprintf("%s_%s.wav", baseName, sanitizeLabel(sig.Label)))
		if err := writeWAV(path, doc.Samples[i], rate); err != nil {
			return fmt.Errorf("signal %d (%s): %w", i, sig.Label, err)
		}
		fmt.Printf("Wrote %s (%d samples at %d Hz)\n", path, len(doc.Samples[i]), rate)
		exported++
	}
	if exported == 0 {
		return fmt.Errorf("no exportable signals")
	}
	return nil
}

// writeWAV stores the raw digital samples as mono 16-bit PCM. The digital
// layer maps directly onto PCM; physical calibration stays in the EDF header.
func writeWAV(path string, samples []int16, rate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

func sanitizeLabel(label string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, label)
}
