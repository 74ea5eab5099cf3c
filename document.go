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

// Decode parses a complete EDF or EDF+ file held in memory.
//
// Header problems abort the decode. A truncated data region returns both the
// Document holding every record decoded before the truncation point and an
// ErrTruncatedRecord error. Trailing bytes and malformed annotations never
// fail the decode; they are attached to the Document as warnings.
func Decode(data []byte) (*Document, error) {
	hdr, err := parseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	samples, records, warns, recErr := decodeRecords(data[hdr.HeaderBytes:], hdr)
	if hdr.DataRecords == -1 {
		hdr.DataRecords = records
	}

	doc := &Document{
		Header:   hdr,
		Samples:  samples,
		Warnings: warns,
	}
	for i := range doc.Warnings {
		if doc.Warnings[i].Offset >= 0 {
			doc.Warnings[i].Offset += hdr.HeaderBytes
		}
	}

	for i, sig := range hdr.Signals {
		if !sig.IsAnnotations() {
			continue
		}
		anns, annWarns := decodeSignalAnnotations(samples[i], sig.SamplesPerRecord, records)
		doc.Annotations = append(doc.Annotations, anns...)
		doc.Warnings = append(doc.Warnings, annWarns...)
	}

	if recErr != nil {
		return doc, fmt.Errorf("data region at offset %d: %w", hdr.HeaderBytes, recErr)
	}
	return doc, nil
}

// decodeSignalAnnotations runs the TAL scanner over each record's slice of
// the annotations channel. The channel's "samples" are really raw bytes
// stored two per int16, so each record's payload is reassembled before
// scanning.
func decodeSignalAnnotations(samples []int16, samplesPerRecord, records int) ([]Annotation, []Warning) {
	var (
		anns  []Annotation
		warns []Warning
	)
	payload := make([]byte, 2*samplesPerRecord)
	for k := 0; k < records; k++ {
		block := samples[k*samplesPerRecord : (k+1)*samplesPerRecord]
		for s, v := range block {
			binary.LittleEndian.PutUint16(payload[2*s:], uint16(v))
		}
		a, w := decodeAnnotations(payload)
		anns = append(anns, a...)
		for _, warn := range w {
			warn.Record = k
			warn.Offset = -1
			warns = append(warns, warn)
		}
	}
	return anns, warns
}

// Encode serializes a Document back into EDF bytes. The digital sample
// layer is authoritative: annotations already live inside the annotations
// channel's samples and are not re-encoded separately.
func Encode(doc *Document) ([]byte, error) {
	hdr := doc.Header
	implied := impliedRecords(hdr.Signals, doc.Samples)
	if hdr.DataRecords <= 0 {
		hdr.DataRecords = implied
	} else if hdr.DataRecords != implied {
		return nil, fmt.Errorf("header declares %d records, samples imply %d", hdr.DataRecords, implied)
	}

	buf, err := serializeHeader(hdr)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	records, err := encodeRecords(hdr, doc.Samples)
	if err != nil {
		return nil, fmt.Errorf("data region: %w", err)
	}
	return append(buf, records...), nil
}

// impliedRecords derives the record count from the sample sequences when
// the header does not carry one.
func impliedRecords(signals []Signal, samples [][]int16) int {
	for i, sig := range signals {
		if i < len(samples) && sig.SamplesPerRecord > 0 {
			return len(samples[i]) / sig.SamplesPerRecord
		}
	}
	return 0
}
