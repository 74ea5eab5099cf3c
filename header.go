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
	"fmt"
	"time"
)

// Byte offsets and widths of the fixed 256-byte header region.
const (
	offVersion     = 0
	offPatientID   = 8
	offRecordingID = 88
	offStartDate   = 168
	offStartTime   = 176
	offHeaderBytes = 184
	offReserved    = 192
	offDataRecords = 236
	offDuration    = 244
	offSignalCount = 252

	widthVersion     = 8
	widthPatientID   = 80
	widthRecordingID = 80
	widthStartDate   = 8
	widthStartTime   = 8
	widthHeaderBytes = 8
	widthReserved    = 44
	widthDataRecords = 8
	widthDuration    = 8
	widthSignalCount = 4

	fixedHeaderLen = 256
)

// Per-signal field widths. The signal header stores each field as a column
// across all signals (all labels first, then all transducer types, and so
// on), so field f of signal j sits at columnBase(f) + j*width(f).
var signalFieldWidths = []int{16, 80, 8, 8, 8, 8, 8, 80, 8, 32}

const (
	fieldLabel = iota
	fieldTransducer
	fieldPhysicalDim
	fieldPhysicalMin
	fieldPhysicalMax
	fieldDigitalMin
	fieldDigitalMax
	fieldPrefiltering
	fieldSamplesPerRecord
	fieldSignalReserved
)

const (
	dateLayout = "02.01.06"
	timeLayout = "15.04.05"

	// Two-digit years before the 1985 clipping date belong to the next
	// century, per the EDF specification.
	clipYear = 1985
)

// signalFieldOffset returns the absolute offset of field f for signal j,
// given ns signals in the header.
func signalFieldOffset(f, j, ns int) int {
	off := fixedHeaderLen
	for i := 0; i < f; i++ {
		off += ns * signalFieldWidths[i]
	}
	return off + j*signalFieldWidths[f]
}

// parseHeader reads the global header and the column-major per-signal header
// array from buf. Structural problems abort the parse; there is no partially
// valid header.
func parseHeader(buf []byte) (Header, error) {
	var hdr Header

	if len(buf) < fixedHeaderLen {
		return hdr, fmt.Errorf("%w: got %d bytes, need at least %d", ErrTruncatedHeader, len(buf), fixedHeaderLen)
	}

	if err := checkVersion(buf[offVersion : offVersion+widthVersion]); err != nil {
		return hdr, err
	}
	hdr.Version = Version0

	var err error
	if hdr.PatientID, err = readText(buf, offPatientID, widthPatientID); err != nil {
		return hdr, err
	}
	if hdr.RecordingID, err = readText(buf, offRecordingID, widthRecordingID); err != nil {
		return hdr, err
	}

	dateStr, err := readText(buf, offStartDate, widthStartDate)
	if err != nil {
		return hdr, err
	}
	timeStr, err := readText(buf, offStartTime, widthStartTime)
	if err != nil {
		return hdr, err
	}
	if hdr.StartTime, err = parseStartTime(dateStr, timeStr); err != nil {
		return hdr, err
	}

	if hdr.HeaderBytes, err = readInt(buf, offHeaderBytes, widthHeaderBytes); err != nil {
		return hdr, err
	}
	if hdr.Reserved, err = readText(buf, offReserved, widthReserved); err != nil {
		return hdr, err
	}

	if hdr.DataRecords, err = readInt(buf, offDataRecords, widthDataRecords); err != nil {
		return hdr, err
	}
	if hdr.DataRecords < -1 {
		return hdr, fmt.Errorf("%w: data record count %d is negative", ErrMalformedField, hdr.DataRecords)
	}

	durationSec, err := readFloat(buf, offDuration, widthDuration)
	if err != nil {
		return hdr, err
	}
	if durationSec < 0 {
		return hdr, fmt.Errorf("%w: record duration %v is negative", ErrMalformedField, durationSec)
	}
	hdr.DataRecordDuration = time.Duration(durationSec * float64(time.Second))

	ns, err := readInt(buf, offSignalCount, widthSignalCount)
	if err != nil || ns < 0 {
		return hdr, fmt.Errorf("%w: field %q", ErrInvalidSignalCount, string(buf[offSignalCount:offSignalCount+widthSignalCount]))
	}
	hdr.SignalCount = ns

	if want := fixedHeaderLen + 256*ns; hdr.HeaderBytes != want {
		return hdr, fmt.Errorf("%w: declared %d bytes, %d signals require %d", ErrHeaderLengthMismatch, hdr.HeaderBytes, ns, want)
	}
	if len(buf) < hdr.HeaderBytes {
		return hdr, fmt.Errorf("%w: got %d bytes, header declares %d", ErrTruncatedHeader, len(buf), hdr.HeaderBytes)
	}

	hdr.Signals = make([]Signal, ns)
	for j := 0; j < ns; j++ {
		sig := &hdr.Signals[j]
		if sig.Label, err = readText(buf, signalFieldOffset(fieldLabel, j, ns), signalFieldWidths[fieldLabel]); err != nil {
			return hdr, err
		}
		if sig.TransducerType, err = readText(buf, signalFieldOffset(fieldTransducer, j, ns), signalFieldWidths[fieldTransducer]); err != nil {
			return hdr, err
		}
		if sig.PhysicalDimension, err = readText(buf, signalFieldOffset(fieldPhysicalDim, j, ns), signalFieldWidths[fieldPhysicalDim]); err != nil {
			return hdr, err
		}
		if sig.PhysicalMin, err = readFloat(buf, signalFieldOffset(fieldPhysicalMin, j, ns), signalFieldWidths[fieldPhysicalMin]); err != nil {
			return hdr, err
		}
		if sig.PhysicalMax, err = readFloat(buf, signalFieldOffset(fieldPhysicalMax, j, ns), signalFieldWidths[fieldPhysicalMax]); err != nil {
			return hdr, err
		}
		if sig.DigitalMin, err = readInt(buf, signalFieldOffset(fieldDigitalMin, j, ns), signalFieldWidths[fieldDigitalMin]); err != nil {
			return hdr, err
		}
		if sig.DigitalMax, err = readInt(buf, signalFieldOffset(fieldDigitalMax, j, ns), signalFieldWidths[fieldDigitalMax]); err != nil {
			return hdr, err
		}
		if sig.Prefiltering, err = readText(buf, signalFieldOffset(fieldPrefiltering, j, ns), signalFieldWidths[fieldPrefiltering]); err != nil {
			return hdr, err
		}
		if sig.SamplesPerRecord, err = readInt(buf, signalFieldOffset(fieldSamplesPerRecord, j, ns), signalFieldWidths[fieldSamplesPerRecord]); err != nil {
			return hdr, err
		}
		if sig.SamplesPerRecord < 0 {
			return hdr, fmt.Errorf("%w: signal %d declares %d samples per record", ErrMalformedField, j, sig.SamplesPerRecord)
		}
		if sig.Reserved, err = readText(buf, signalFieldOffset(fieldSignalReserved, j, ns), signalFieldWidths[fieldSignalReserved]); err != nil {
			return hdr, err
		}
	}

	return hdr, nil
}

// checkVersion enforces the version field byte-for-byte: an ASCII '0'
// followed by spaces.
func checkVersion(b []byte) error {
	if b[0] != '0' {
		return fmt.Errorf("%w: unsupported version %q", ErrMalformedField, string(b))
	}
	for _, c := range b[1:] {
		if c != ' ' {
			return fmt.Errorf("%w: unsupported version %q", ErrMalformedField, string(b))
		}
	}
	return nil
}

// parseStartTime combines the dd.mm.yy and hh.mm.ss header fields.
func parseStartTime(dateStr, timeStr string) (time.Time, error) {
	startDate, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: start date %q: %v", ErrMalformedField, dateStr, err)
	}
	if startDate.Year() < clipYear {
		startDate = startDate.AddDate(100, 0, 0)
	}
	startTime, err := time.Parse(timeLayout, timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: start time %q: %v", ErrMalformedField, timeStr, err)
	}
	return time.Date(startDate.Year(), startDate.Month(), startDate.Day(),
		startTime.Hour(), startTime.Minute(), startTime.Second(), 0, time.UTC), nil
}

// serializeHeader performs the column-major header write. It derives the
// header length from the signal specs and refuses a Header whose declared
// length or count disagrees with them.
func serializeHeader(hdr Header) ([]byte, error) {
	ns := len(hdr.Signals)
	if hdr.SignalCount != 0 && hdr.SignalCount != ns {
		return nil, fmt.Errorf("expected %d signals, got %d signal specs", hdr.SignalCount, ns)
	}
	headerBytes := fixedHeaderLen + 256*ns
	if hdr.HeaderBytes != 0 && hdr.HeaderBytes != headerBytes {
		return nil, fmt.Errorf("%w: declared %d bytes, %d signals require %d", ErrHeaderLengthMismatch, hdr.HeaderBytes, ns, headerBytes)
	}

	buf := make([]byte, headerBytes)
	for i := range buf {
		buf[i] = ' '
	}

	version := hdr.Version
	if version == "" {
		version = Version0
	}
	if err := writeText(buf, offVersion, widthVersion, string(version)); err != nil {
		return nil, err
	}
	if err := writeText(buf, offPatientID, widthPatientID, hdr.PatientID); err != nil {
		return nil, err
	}
	if err := writeText(buf, offRecordingID, widthRecordingID, hdr.RecordingID); err != nil {
		return nil, err
	}
	if err := writeText(buf, offStartDate, widthStartDate, hdr.StartTime.Format(dateLayout)); err != nil {
		return nil, err
	}
	if err := writeText(buf, offStartTime, widthStartTime, hdr.StartTime.Format(timeLayout)); err != nil {
		return nil, err
	}
	if err := writeInt(buf, offHeaderBytes, widthHeaderBytes, headerBytes); err != nil {
		return nil, err
	}
	if err := writeText(buf, offReserved, widthReserved, hdr.Reserved); err != nil {
		return nil, err
	}
	if err := writeInt(buf, offDataRecords, widthDataRecords, hdr.DataRecords); err != nil {
		return nil, err
	}
	if err := writeFloat(buf, offDuration, widthDuration, hdr.DataRecordDuration.Seconds()); err != nil {
		return nil, err
	}
	if err := writeInt(buf, offSignalCount, widthSignalCount, ns); err != nil {
		return nil, err
	}

	for j, sig := range hdr.Signals {
		if err := writeText(buf, signalFieldOffset(fieldLabel, j, ns), signalFieldWidths[fieldLabel], sig.Label); err != nil {
			return nil, err
		}
		if err := writeText(buf, signalFieldOffset(fieldTransducer, j, ns), signalFieldWidths[fieldTransducer], sig.TransducerType); err != nil {
			return nil, err
		}
		if err := writeText(buf, signalFieldOffset(fieldPhysicalDim, j, ns), signalFieldWidths[fieldPhysicalDim], sig.PhysicalDimension); err != nil {
			return nil, err
		}
		if err := writeFloat(buf, signalFieldOffset(fieldPhysicalMin, j, ns), signalFieldWidths[fieldPhysicalMin], sig.PhysicalMin); err != nil {
			return nil, err
		}
		if err := writeFloat(buf, signalFieldOffset(fieldPhysicalMax, j, ns), signalFieldWidths[fieldPhysicalMax], sig.PhysicalMax); err != nil {
			return nil, err
		}
		if err := writeInt(buf, signalFieldOffset(fieldDigitalMin, j, ns), signalFieldWidths[fieldDigitalMin], sig.DigitalMin); err != nil {
			return nil, err
		}
		if err := writeInt(buf, signalFieldOffset(fieldDigitalMax, j, ns), signalFieldWidths[fieldDigitalMax], sig.DigitalMax); err != nil {
			return nil, err
		}
		if err := writeText(buf, signalFieldOffset(fieldPrefiltering, j, ns), signalFieldWidths[fieldPrefiltering], sig.Prefiltering); err != nil {
			return nil, err
		}
		if err := writeInt(buf, signalFieldOffset(fieldSamplesPerRecord, j, ns), signalFieldWidths[fieldSamplesPerRecord], sig.SamplesPerRecord); err != nil {
			return nil, err
		}
		if err := writeText(buf, signalFieldOffset(fieldSignalReserved, j, ns), signalFieldWidths[fieldSignalReserved], sig.Reserved); err != nil {
			return nil, err
		}
	}

	return buf, nil
}
