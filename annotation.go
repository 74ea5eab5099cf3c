// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The edfkit Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf

import "strconv"

// EDF+ stores annotations as consecutive time-stamped annotation lists
// (TALs) inside the reserved annotations channel. A TAL is
//
//	onset [0x15 duration] 0x14 text 0x14 [text 0x14 ...] 0x00
//
// where onset starts with '+' or '-' and both onset and duration are ASCII
// decimals in seconds. Decoding is a single left-to-right byte scanner;
// a malformed TAL is reported and skipped without giving up on the TALs
// that follow it.

const (
	talTextSep     = 0x14
	talDurationSep = 0x15
	talTerminator  = 0x00
)

type talState int

const (
	talExpectOnset talState = iota
	talInOnset
	talInDuration
	talInText
)

func isTALNumber(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.'
}

// decodeAnnotations scans one record's annotation payload. TALs whose text
// list is empty only keep the record's own timestamp and are dropped.
// Warning offsets are relative to the start of the payload.
func decodeAnnotations(payload []byte) (anns []Annotation, warns []Warning) {
	var (
		state    = talExpectOnset
		token    []byte
		onset    float64
		duration *float64
		texts    []string
	)

	// On a malformed TAL, report it and skip ahead to the next terminator
	// so the following TAL decodes cleanly.
	resync := func(i int) int {
		warns = append(warns, Warning{Err: ErrMalformedAnnotation, Record: -1, Offset: i})
		for i < len(payload) && payload[i] != talTerminator {
			i++
		}
		if i < len(payload) {
			i++ // consume the terminator
		}
		state = talExpectOnset
		return i
	}

	i := 0
	for i < len(payload) {
		c := payload[i]
		switch state {
		case talExpectOnset:
			switch {
			case c == talTerminator:
				i++ // padding between TALs
			case c == '+' || c == '-':
				token = append(token[:0], c)
				duration, texts = nil, nil
				state = talInOnset
				i++
			default:
				i = resync(i)
			}

		case talInOnset:
			switch {
			case isTALNumber(c):
				token = append(token, c)
				i++
			case c == talDurationSep || c == talTextSep:
				v, err := strconv.ParseFloat(string(token), 64)
				if err != nil {
					i = resync(i)
					continue
				}
				onset = v
				token = token[:0]
				if c == talDurationSep {
					state = talInDuration
				} else {
					state = talInText
				}
				i++
			default:
				i = resync(i)
			}

		case talInDuration:
			switch {
			case isTALNumber(c):
				token = append(token, c)
				i++
			case c == talTextSep:
				v, err := strconv.ParseFloat(string(token), 64)
				if err != nil {
					i = resync(i)
					continue
				}
				duration = &v
				token = token[:0]
				state = talInText
				i++
			default:
				i = resync(i)
			}

		case talInText:
			switch c {
			case talTextSep:
				if len(token) > 0 {
					texts = append(texts, string(token))
					token = token[:0]
				}
				i++
			case talTerminator:
				if len(token) > 0 {
					texts = append(texts, string(token))
					token = token[:0]
				}
				if len(texts) > 0 {
					anns = append(anns, Annotation{Onset: onset, Duration: duration, Texts: texts})
				}
				duration, texts = nil, nil
				state = talExpectOnset
				i++
			default:
				token = append(token, c)
				i++
			}
		}
	}

	if state != talExpectOnset {
		warns = append(warns, Warning{Err: ErrMalformedAnnotation, Record: -1, Offset: len(payload)})
	}
	return anns, warns
}
