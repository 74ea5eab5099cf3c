// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The edfkit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHeader() Header {
	return Header{
		Version:            Version0,
		PatientID:          "X F X Patient_01",
		RecordingID:        "Startdate 05-MAR-2024 PSG",
		StartTime:          time.Date(2024, 3, 5, 23, 11, 30, 0, time.UTC),
		Reserved:           ContinuousMarker,
		DataRecords:        10,
		DataRecordDuration: time.Second,
		Signals: []Signal{
			{
				Label:             "EEG Fpz-Cz",
				TransducerType:    "AgAgCl electrode",
				PhysicalDimension: "uV",
				PhysicalMin:       -500,
				PhysicalMax:       500,
				DigitalMin:        -2048,
				DigitalMax:        2047,
				Prefiltering:      "HP:0.1Hz LP:75Hz",
				SamplesPerRecord:  4,
			},
			{
				Label:             "Body temp",
				TransducerType:    "Thermistor",
				PhysicalDimension: "degC",
				PhysicalMin:       34,
				PhysicalMax:       40,
				DigitalMin:        -2048,
				DigitalMax:        2047,
				SamplesPerRecord:  1,
			},
		},
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	want := testHeader()

	buf, err := serializeHeader(want)
	require.NoError(t, err)
	require.Len(t, buf, 256+256*2)

	got, err := parseHeader(buf)
	require.NoError(t, err)

	want.SignalCount = 2
	want.HeaderBytes = 256 + 256*2
	assert.Equal(t, want, got)
}

func TestHeaderColumnMajorLayout(t *testing.T) {
	buf, err := serializeHeader(testHeader())
	require.NoError(t, err)

	// All labels come first, one 16-byte column per signal, then the
	// transducer columns, and so on.
	assert.Equal(t, "EEG Fpz-Cz      ", string(buf[256:272]))
	assert.Equal(t, "Body temp       ", string(buf[272:288]))
	assert.Equal(t, "AgAgCl electrode", string(buf[288:304]))
}

func TestParseStartDateCenturyClip(t *testing.T) {
	for _, tc := range []struct {
		date string
		want time.Time
	}{
		{"31.01.01", time.Date(2001, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"01.01.00", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"01.01.85", time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"31.12.84", time.Date(2084, 12, 31, 0, 0, 0, 0, time.UTC)},
	} {
		got, err := parseStartTime(tc.date, "00.00.00")
		require.NoError(t, err, tc.date)
		assert.Equal(t, tc.want, got, tc.date)
	}
}

func TestParseHeaderVersion(t *testing.T) {
	buf, err := serializeHeader(testHeader())
	require.NoError(t, err)

	buf[0] = '1'
	_, err = parseHeader(buf)
	assert.ErrorIs(t, err, ErrMalformedField)

	buf[0] = '0'
	buf[3] = 'x'
	_, err = parseHeader(buf)
	assert.ErrorIs(t, err, ErrMalformedField)
}

func TestParseHeaderTruncated(t *testing.T) {
	buf, err := serializeHeader(testHeader())
	require.NoError(t, err)

	_, err = parseHeader(buf[:100])
	assert.ErrorIs(t, err, ErrTruncatedHeader)

	// Fixed header present, but shorter than the declared length.
	_, err = parseHeader(buf[:400])
	assert.ErrorIs(t, err, ErrTruncatedHeader)
}

func TestParseHeaderInvalidSignalCount(t *testing.T) {
	buf, err := serializeHeader(testHeader())
	require.NoError(t, err)

	copy(buf[offSignalCount:], "abcd")
	_, err = parseHeader(buf)
	assert.ErrorIs(t, err, ErrInvalidSignalCount)

	copy(buf[offSignalCount:], "-2  ")
	_, err = parseHeader(buf)
	assert.ErrorIs(t, err, ErrInvalidSignalCount)
}

func TestParseHeaderLengthMismatch(t *testing.T) {
	buf, err := serializeHeader(testHeader())
	require.NoError(t, err)

	copy(buf[offHeaderBytes:], "512     ")
	_, err = parseHeader(buf)
	assert.ErrorIs(t, err, ErrHeaderLengthMismatch)
}

func TestSerializeHeaderLengthMismatch(t *testing.T) {
	hdr := testHeader()
	hdr.HeaderBytes = 256 // two signals require 768

	_, err := serializeHeader(hdr)
	assert.ErrorIs(t, err, ErrHeaderLengthMismatch)
}

func TestSerializeHeaderFieldOverflow(t *testing.T) {
	hdr := testHeader()
	hdr.Signals[0].Label = "a label far too long for its sixteen byte field"

	_, err := serializeHeader(hdr)
	assert.ErrorIs(t, err, ErrFieldOverflow)
}
