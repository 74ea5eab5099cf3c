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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadText(t *testing.T) {
	buf := []byte("EEG Fpz-Cz      ")

	s, err := readText(buf, 0, 16)
	require.NoError(t, err)
	assert.Equal(t, "EEG Fpz-Cz", s)

	_, err = readText(buf, 8, 16)
	assert.ErrorIs(t, err, ErrMalformedField)
}

func TestReadInt(t *testing.T) {
	for _, tc := range []struct {
		field string
		want  int
	}{
		{"768     ", 768},
		{"-1      ", -1},
		{"+42     ", 42},
		{"   7    ", 7},
	} {
		n, err := readInt([]byte(tc.field), 0, len(tc.field))
		require.NoError(t, err, tc.field)
		assert.Equal(t, tc.want, n, tc.field)
	}

	_, err := readInt([]byte("12a4    "), 0, 8)
	assert.ErrorIs(t, err, ErrMalformedField)

	_, err = readInt([]byte("1 2     "), 0, 8)
	assert.ErrorIs(t, err, ErrMalformedField)
}

func TestReadFloat(t *testing.T) {
	f, err := readFloat([]byte("-500.25 "), 0, 8)
	require.NoError(t, err)
	assert.Equal(t, -500.25, f)

	f, err = readFloat([]byte("1       "), 0, 8)
	require.NoError(t, err)
	assert.Equal(t, 1.0, f)

	_, err = readFloat([]byte("0..5    "), 0, 8)
	assert.ErrorIs(t, err, ErrMalformedField)
}

func TestWriteText(t *testing.T) {
	buf := make([]byte, 16)
	require.NoError(t, writeText(buf, 0, 16, "EEG Fpz-Cz"))
	assert.Equal(t, "EEG Fpz-Cz      ", string(buf))

	err := writeText(buf, 0, 8, "far too long for the field")
	assert.ErrorIs(t, err, ErrFieldOverflow)
}

func TestWriteInt(t *testing.T) {
	buf := make([]byte, 8)
	require.NoError(t, writeInt(buf, 0, 8, -2048))
	assert.Equal(t, "-2048   ", string(buf))

	err := writeInt(buf, 0, 4, 99999)
	assert.ErrorIs(t, err, ErrFieldOverflow)
}

func TestWriteFloat(t *testing.T) {
	buf := make([]byte, 8)
	require.NoError(t, writeFloat(buf, 0, 8, -500.5))
	assert.Equal(t, "-500.5  ", string(buf))

	// A long fraction is shortened until it fits the field.
	require.NoError(t, writeFloat(buf, 0, 8, 123.456789))
	assert.Equal(t, "123.4568", string(buf))

	err := writeFloat(buf, 0, 4, 12345678.9)
	assert.ErrorIs(t, err, ErrFieldOverflow)
}
