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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// maxRecordBytes is the data record size cap recommended by the EDF standard.
const maxRecordBytes = 61440

// Writer writes EDF/EDF+ files record by record.
type Writer struct {
	w           io.WriteSeeker
	hdr         Header
	scalers     []*Scaler // nil for signals that cannot be physically scaled
	dataRecords int       // number of data records written so far
}

// Create writes an initial header and returns a Writer. The record count is
// left unknown until Close rewrites the header with the number of records
// actually written.
func Create(w io.WriteSeeker, hdr Header) (*Writer, error) {
	hdr.DataRecords = -1
	hdr.SignalCount = len(hdr.Signals)
	hdr.HeaderBytes = fixedHeaderLen + 256*len(hdr.Signals)

	scalers := make([]*Scaler, len(hdr.Signals))
	for i, sig := range hdr.Signals {
		// Degenerate ranges only fail if the caller later writes
		// physical values for this signal.
		scalers[i], _ = NewScaler(sig)
	}

	ew := &Writer{w: w, hdr: hdr, scalers: scalers}
	if err := ew.writeHeader(); err != nil {
		return nil, fmt.Errorf("error writing header: %w", err)
	}
	return ew, nil
}

// Close finalizes the file by rewriting the header with the total number of
// data records.
func (ew *Writer) Close() error {
	ew.hdr.DataRecords = ew.dataRecords
	if err := ew.writeHeader(); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	return nil
}

// WriteRecord writes a single data record of physical values, converting
// each sample to its digital representation. Out-of-range values saturate
// at the signal's digital limits.
func (ew *Writer) WriteRecord(signals [][]float64) error {
	if err := ew.checkRecordShape(len(signals), func(i int) int { return len(signals[i]) }); err != nil {
		return err
	}

	writer := bufio.NewWriter(ew.w)
	for i := range ew.hdr.Signals {
		if len(signals[i]) > 0 && ew.scalers[i] == nil {
			return fmt.Errorf("signal %d: %w", i, ErrDegenerateScale)
		}
		for _, sample := range signals[i] {
			if err := binary.Write(writer, binary.LittleEndian, ew.scalers[i].ToDigital(sample)); err != nil {
				return err
			}
		}
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	ew.dataRecords++
	return nil
}

// WriteDigitalRecord writes a single data record of raw digital samples.
// This is the path for pre-scaled data and for EDF+ annotation payloads.
func (ew *Writer) WriteDigitalRecord(signals [][]int16) error {
	if err := ew.checkRecordShape(len(signals), func(i int) int { return len(signals[i]) }); err != nil {
		return err
	}

	writer := bufio.NewWriter(ew.w)
	for i := range ew.hdr.Signals {
		for _, sample := range signals[i] {
			if err := binary.Write(writer, binary.LittleEndian, sample); err != nil {
				return err
			}
		}
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	ew.dataRecords++
	return nil
}

func (ew *Writer) checkRecordShape(count int, lenAt func(int) int) error {
	if count != len(ew.hdr.Signals) {
		return fmt.Errorf("expected %d signals, got %d", len(ew.hdr.Signals), count)
	}
	var totalSamples int
	for i, sig := range ew.hdr.Signals {
		if lenAt(i) != sig.SamplesPerRecord {
			return fmt.Errorf("signal %d: expected %d samples per record, got %d", i, sig.SamplesPerRecord, lenAt(i))
		}
		totalSamples += lenAt(i)
	}
	// As recommended by the EDF standard.
	if totalSamples*2 > maxRecordBytes {
		return fmt.Errorf("data record too large: %d bytes, max is %d bytes", totalSamples*2, maxRecordBytes)
	}
	return nil
}

func (ew *Writer) writeHeader() error {
	if _, err := ew.w.Seek(0, io.SeekStart); err != nil {
		return err
	}
	buf, err := serializeHeader(ew.hdr)
	if err != nil {
		return err
	}
	_, err = ew.w.Write(buf)
	return err
}
