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
	"strconv"
	"strings"
)

// Fixed-width ASCII field marshalling. EDF packs every header value into a
// space-padded field at an exact byte offset; these helpers are the only
// place that knows how such fields are read and written. They carry no EDF
// semantics beyond the padding convention: values are left-justified and
// padded with trailing spaces.

func fieldSlice(buf []byte, off, width int) ([]byte, error) {
	if off < 0 || width < 0 || off+width > len(buf) {
		return nil, fmt.Errorf("%w: field at offset %d width %d exceeds buffer of %d bytes",
			ErrMalformedField, off, width, len(buf))
	}
	return buf[off : off+width], nil
}

// readText reads a fixed-width text field, trimming trailing padding.
func readText(buf []byte, off, width int) (string, error) {
	b, err := fieldSlice(buf, off, width)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), " \x00"), nil
}

// readInt reads a fixed-width ASCII decimal integer field. Leading '+'/'-'
// and surrounding space padding are accepted.
func readInt(buf []byte, off, width int) (int, error) {
	b, err := fieldSlice(buf, off, width)
	if err != nil {
		return 0, err
	}
	s := strings.Trim(string(b), " \x00")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q at offset %d is not an integer", ErrMalformedField, s, off)
	}
	return n, nil
}

// readFloat reads a fixed-width ASCII decimal field with an optional sign
// and fractional part.
func readFloat(buf []byte, off, width int) (float64, error) {
	b, err := fieldSlice(buf, off, width)
	if err != nil {
		return 0, err
	}
	s := strings.Trim(string(b), " \x00")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q at offset %d is not a number", ErrMalformedField, s, off)
	}
	return f, nil
}

// writeText writes a left-justified, space-padded text field.
func writeText(buf []byte, off, width int, s string) error {
	b, err := fieldSlice(buf, off, width)
	if err != nil {
		return err
	}
	if len(s) > width {
		return fmt.Errorf("%w: %q does not fit in %d bytes", ErrFieldOverflow, s, width)
	}
	copy(b, s)
	for i := len(s); i < width; i++ {
		b[i] = ' '
	}
	return nil
}

// writeInt writes an integer as a left-justified decimal field.
func writeInt(buf []byte, off, width int, v int) error {
	s := strconv.Itoa(v)
	if len(s) > width {
		return fmt.Errorf("%w: %d does not fit in %d bytes", ErrFieldOverflow, v, width)
	}
	return writeText(buf, off, width, s)
}

// writeFloat writes a real value, shortening the fraction until it fits the
// field width.
func writeFloat(buf []byte, off, width int, v float64) error {
	s, err := formatReal(v, width)
	if err != nil {
		return err
	}
	return writeText(buf, off, width, s)
}

// formatReal renders v in at most width bytes, dropping fractional digits
// as needed.
func formatReal(v float64, width int) (string, error) {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if len(s) <= width {
		return s, nil
	}
	for prec := width - 2; prec >= 0; prec-- {
		s = strconv.FormatFloat(v, 'f', prec, 64)
		if len(s) <= width {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %v does not fit in %d bytes", ErrFieldOverflow, v, width)
}
