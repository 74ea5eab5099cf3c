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
	"encoding/binary"
	"fmt"
	"io"
)

// Reader provides seek-based access to an EDF/EDF+ file without loading the
// data region into memory. For whole-file decoding use Decode instead.
type Reader struct {
	r           io.ReadSeeker
	hdr         Header
	dataRecords int // resolved record count, never -1
}

// Open reads and validates the header of an EDF/EDF+ file.
func Open(r io.ReadSeeker) (*Reader, error) {
	fixed := make([]byte, fixedHeaderLen)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedHeader, err)
	}

	ns, err := readInt(fixed, offSignalCount, widthSignalCount)
	if err != nil || ns < 0 {
		return nil, fmt.Errorf("%w: field %q", ErrInvalidSignalCount,
			string(fixed[offSignalCount:offSignalCount+widthSignalCount]))
	}

	buf := make([]byte, fixedHeaderLen+256*ns)
	copy(buf, fixed)
	if _, err := io.ReadFull(r, buf[fixedHeaderLen:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedHeader, err)
	}

	hdr, err := parseHeader(buf)
	if err != nil {
		return nil, err
	}

	dataRecords := hdr.DataRecords
	if dataRecords == -1 {
		// Unknown count: derive it from the file size.
		end, err := r.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, fmt.Errorf("error determining file size: %w", err)
		}
		if size := recordSize(hdr.Signals); size > 0 {
			dataRecords = int(end-int64(hdr.HeaderBytes)) / size
		} else {
			dataRecords = 0
		}
	}

	return &Reader{
		r:           r,
		hdr:         hdr,
		dataRecords: dataRecords,
	}, nil
}

// Header returns the parsed file header.
func (er *Reader) Header() Header {
	return er.hdr
}

// DataRecords returns the record count, resolved from the file size when the
// header declares it unknown.
func (er *Reader) DataRecords() int {
	return er.dataRecords
}

// SignalReader reads one signal's continuous physical samples.
type SignalReader struct {
	r                io.ReadSeeker
	hdr              Header
	scaler           *Scaler
	dataRecords      int
	currentRecord    int // current record being processed
	currentSample    int // current sample in the record
	recordSize       int // total size of one data record
	signalOffset     int // byte offset of the signal in a record
	samplesPerRecord int // number of samples per record for the signal
}

// Signal creates a new SignalReader for a specified signal index. It fails
// with ErrDegenerateScale when the signal cannot be physically scaled.
func (er *Reader) Signal(signalIndex int) (*SignalReader, error) {
	if signalIndex < 0 || signalIndex >= len(er.hdr.Signals) {
		return nil, fmt.Errorf("signal index %d out of range", signalIndex)
	}

	scaler, err := NewScaler(er.hdr.Signals[signalIndex])
	if err != nil {
		return nil, err
	}

	signalOffset := 0
	for _, sig := range er.hdr.Signals[:signalIndex] {
		signalOffset += sig.SamplesPerRecord * 2
	}

	return &SignalReader{
		r:                er.r,
		hdr:              er.hdr,
		scaler:           scaler,
		dataRecords:      er.dataRecords,
		recordSize:       recordSize(er.hdr.Signals),
		signalOffset:     signalOffset,
		samplesPerRecord: er.hdr.Signals[signalIndex].SamplesPerRecord,
	}, nil
}

// Read fills the provided float64 slice with the physical values from the
// signal. It returns io.EOF once the last data record is exhausted.
func (sr *SignalReader) Read(data []float64) (int, error) {
	if sr.samplesPerRecord == 0 {
		return 0, io.EOF
	}

	buf := make([]byte, 2)

	n := 0
	for n < len(data) {
		if sr.currentRecord >= sr.dataRecords {
			return n, io.EOF
		}

		pos := int64(sr.hdr.HeaderBytes) + int64(sr.currentRecord)*int64(sr.recordSize) + int64(sr.signalOffset) + int64(sr.currentSample*2)
		if _, err := sr.r.Seek(pos, io.SeekStart); err != nil {
			return n, fmt.Errorf("error seeking to sample: %w", err)
		}
		if _, err := io.ReadFull(sr.r, buf); err != nil {
			return n, fmt.Errorf("%w: %v", ErrTruncatedRecord, err)
		}

		data[n] = sr.scaler.ToPhysical(int16(binary.LittleEndian.Uint16(buf)))
		n++

		sr.currentSample++
		if sr.currentSample >= sr.samplesPerRecord {
			sr.currentSample = 0
			sr.currentRecord++
		}
	}

	return n, nil
}
