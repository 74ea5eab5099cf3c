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
	"errors"
	"fmt"
)

// Errors returned while decoding or encoding EDF/EDF+ data. Callers should
// match them with errors.Is since they are usually wrapped with positional
// context (byte offset or record index).
var (
	// ErrMalformedField is returned when a fixed-width ASCII field does not
	// parse as the expected text or number.
	ErrMalformedField = errors.New("malformed field")

	// ErrFieldOverflow is returned when a value's textual representation
	// does not fit its fixed field width.
	ErrFieldOverflow = errors.New("field overflow")

	// ErrTruncatedHeader is returned when the input ends before the
	// declared header length.
	ErrTruncatedHeader = errors.New("truncated header")

	// ErrInvalidSignalCount is returned when the signal count field does
	// not parse as a non-negative integer.
	ErrInvalidSignalCount = errors.New("invalid signal count")

	// ErrHeaderLengthMismatch is returned when the declared header length
	// disagrees with 256 + 256*ns.
	ErrHeaderLengthMismatch = errors.New("header length mismatch")

	// ErrTruncatedRecord is returned when the data region ends inside a
	// data record. Records decoded before the truncation point are kept.
	ErrTruncatedRecord = errors.New("truncated data record")

	// ErrTrailingBytes reports extra bytes after the declared number of
	// data records. It is surfaced as a warning, never as a failure.
	ErrTrailingBytes = errors.New("trailing bytes after last data record")

	// ErrDegenerateScale is returned when a signal's digital or physical
	// range has zero span, making the scaling transform undefined. Raw
	// digital samples remain accessible.
	ErrDegenerateScale = errors.New("degenerate scale")

	// ErrMalformedAnnotation reports an annotation list that could not be
	// tokenized. It is surfaced as a warning; later lists are still decoded.
	ErrMalformedAnnotation = errors.New("malformed annotation")
)

// Warning is a recoverable problem found during decode. Warnings are attached
// to the Document rather than aborting the decode.
type Warning struct {
	Err    error // ErrTrailingBytes or ErrMalformedAnnotation
	Record int   // data record index, or -1 when not record-scoped
	Offset int   // byte offset into the input, or -1 when unknown
}

func (w Warning) Error() string {
	switch {
	case w.Record >= 0 && w.Offset >= 0:
		return fmt.Sprintf("%v (record %d, offset %d)", w.Err, w.Record, w.Offset)
	case w.Record >= 0:
		return fmt.Sprintf("%v (record %d)", w.Err, w.Record)
	case w.Offset >= 0:
		return fmt.Sprintf("%v (offset %d)", w.Err, w.Offset)
	default:
		return w.Err.Error()
	}
}

func (w Warning) Unwrap() error { return w.Err }
