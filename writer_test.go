// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The edfkit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edfkit/edf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	f, err := os.OpenFile(filepath.Join(t.TempDir(), "test.edf"), os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, f.Close())
	})

	hdr := edf.Header{
		Version:            edf.Version0,
		PatientID:          "Patient X",
		RecordingID:        "Recording 1",
		StartTime:          time.Date(2024, 3, 5, 23, 11, 30, 0, time.UTC),
		DataRecordDuration: 60 * time.Second,
		Signals: []edf.Signal{
			{
				Label:             "EEG Fpz-Cz",
				TransducerType:    "AgAgCl electrode",
				PhysicalDimension: "uV",
				PhysicalMin:       -500,
				PhysicalMax:       500,
				DigitalMin:        -2048,
				DigitalMax:        2047,
				SamplesPerRecord:  256,
			},
		},
	}

	ew, err := edf.Create(f, hdr)
	require.NoError(t, err)

	// Write some data records
	record := make([]float64, 256)
	for i := range record {
		record[i] = float64(i) // physical value
	}
	require.NoError(t, ew.WriteRecord([][]float64{record}))

	for i := range record {
		record[i] = float64(i + 256)
	}
	require.NoError(t, ew.WriteRecord([][]float64{record}))

	// Close the writer (this finalizes the record count in the header).
	require.NoError(t, ew.Close())

	// Read the file back and verify the samples match what was written.
	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	er, err := edf.Open(f)
	require.NoError(t, err)
	assert.Equal(t, 2, er.Header().DataRecords)

	sr, err := er.Signal(0)
	require.NoError(t, err)

	samples := make([]float64, 512)
	n, err := sr.Read(samples)
	require.NoError(t, err)
	require.Equal(t, 512, n)

	for i := range samples {
		require.InDelta(t, float64(i), samples[i], 1.0)
	}

	// Reader should now return EOF
	_, err = sr.Read(samples)
	require.Equal(t, io.EOF, err)
}

func TestWriterRecordShape(t *testing.T) {
	f, err := os.OpenFile(filepath.Join(t.TempDir(), "test.edf"), os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, f.Close())
	})

	ew, err := edf.Create(f, edf.Header{
		StartTime:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DataRecordDuration: time.Second,
		Signals: []edf.Signal{
			{Label: "A", PhysicalMin: -1, PhysicalMax: 1, DigitalMin: -2048, DigitalMax: 2047, SamplesPerRecord: 4},
		},
	})
	require.NoError(t, err)

	// Wrong signal count.
	assert.Error(t, ew.WriteRecord([][]float64{{0}, {0}}))

	// Wrong samples-per-record.
	assert.Error(t, ew.WriteRecord([][]float64{{0, 0}}))

	require.NoError(t, ew.WriteRecord([][]float64{{0, 0.5, -0.5, 1}}))
	require.NoError(t, ew.Close())
}

func TestWriterClampsOnWrite(t *testing.T) {
	f, err := os.OpenFile(filepath.Join(t.TempDir(), "test.edf"), os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, f.Close())
	})

	ew, err := edf.Create(f, edf.Header{
		StartTime:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DataRecordDuration: time.Second,
		Signals: []edf.Signal{
			{Label: "A", PhysicalMin: -1, PhysicalMax: 1, DigitalMin: -100, DigitalMax: 100, SamplesPerRecord: 2},
		},
	})
	require.NoError(t, err)

	// Values beyond the physical range saturate rather than fail.
	require.NoError(t, ew.WriteRecord([][]float64{{5, -5}}))
	require.NoError(t, ew.Close())

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	raw, err := io.ReadAll(f)
	require.NoError(t, err)

	doc, err := edf.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, []int16{100, -100}, doc.Samples[0])
}
