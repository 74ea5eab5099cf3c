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
)

// recordSize returns the byte length of one data record: every signal's
// samples-per-record block of little-endian int16 values, concatenated in
// declared order.
func recordSize(signals []Signal) int {
	var n int
	for _, sig := range signals {
		n += sig.SamplesPerRecord * 2
	}
	return n
}

// decodeRecords demultiplexes the data region into per-signal sample
// sequences. It returns the number of full records decoded, any trailing
// bytes warning, and ErrTruncatedRecord when the region ends inside a
// record. On truncation the samples decoded so far are still returned.
func decodeRecords(buf []byte, hdr Header) (samples [][]int16, records int, warns []Warning, err error) {
	samples = make([][]int16, len(hdr.Signals))

	size := recordSize(hdr.Signals)
	if size == 0 {
		return samples, 0, nil, nil
	}

	full := len(buf) / size
	switch {
	case hdr.DataRecords == -1:
		// Unknown count: derive it from the region length. A partial
		// record at the end is an error, not silently dropped data.
		records = full
		if rem := len(buf) % size; rem != 0 {
			err = fmt.Errorf("%w: %d bytes left after %d records of %d bytes",
				ErrTruncatedRecord, rem, full, size)
		}
	case full < hdr.DataRecords:
		records = full
		err = fmt.Errorf("%w: header declares %d records, data region holds %d",
			ErrTruncatedRecord, hdr.DataRecords, full)
	default:
		records = hdr.DataRecords
		if extra := len(buf) - records*size; extra > 0 {
			warns = append(warns, Warning{Err: ErrTrailingBytes, Record: -1, Offset: records * size})
		}
	}

	for i, sig := range hdr.Signals {
		samples[i] = make([]int16, 0, records*sig.SamplesPerRecord)
	}
	for k := 0; k < records; k++ {
		off := k * size
		for i, sig := range hdr.Signals {
			for s := 0; s < sig.SamplesPerRecord; s++ {
				samples[i] = append(samples[i], int16(binary.LittleEndian.Uint16(buf[off:off+2])))
				off += 2
			}
		}
	}

	return samples, records, warns, err
}

// encodeRecords is the inverse packing operation. Every signal's sample
// sequence must be an exact multiple of its samples-per-record, and all
// signals must imply the same record count.
func encodeRecords(hdr Header, samples [][]int16) ([]byte, error) {
	if len(samples) != len(hdr.Signals) {
		return nil, fmt.Errorf("expected %d signals, got %d", len(hdr.Signals), len(samples))
	}

	records := -1
	for i, sig := range hdr.Signals {
		if sig.SamplesPerRecord == 0 {
			if len(samples[i]) != 0 {
				return nil, fmt.Errorf("signal %d has %d samples but declares none per record", i, len(samples[i]))
			}
			continue
		}
		if len(samples[i])%sig.SamplesPerRecord != 0 {
			return nil, fmt.Errorf("signal %d has %d samples, not a multiple of %d per record",
				i, len(samples[i]), sig.SamplesPerRecord)
		}
		n := len(samples[i]) / sig.SamplesPerRecord
		if records == -1 {
			records = n
		} else if n != records {
			return nil, fmt.Errorf("signal %d implies %d records, previous signals imply %d", i, n, records)
		}
	}
	if records == -1 {
		records = 0
	}

	buf := make([]byte, 0, records*recordSize(hdr.Signals))
	for k := 0; k < records; k++ {
		for i, sig := range hdr.Signals {
			for s := 0; s < sig.SamplesPerRecord; s++ {
				buf = binary.LittleEndian.AppendUint16(buf, uint16(samples[i][k*sig.SamplesPerRecord+s]))
			}
		}
	}
	return buf, nil
}
