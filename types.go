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

type Version string

const (
	// Version0 represents the version of the EDF/EDF+ standard.
	Version0 Version = "0"
)

const (
	// AnnotationsLabel is the reserved label of the EDF+ annotations channel.
	AnnotationsLabel = "EDF Annotations"

	// ContinuousMarker and DiscontinuousMarker are the EDF+ recording type
	// markers carried in the reserved header field.
	ContinuousMarker    = "EDF+C"
	DiscontinuousMarker = "EDF+D"
)

// Header represents the EDF/EDF+ file header.
type Header struct {
	Version            Version       // Version of the EDF/EDF+ standard (usually "0")
	PatientID          string        // Identification of the patient
	RecordingID        string        // Identification of the recording session
	StartTime          time.Time     // Start date and time of the recording
	HeaderBytes        int           // Number of bytes in the header (256 + 256*signal count)
	Reserved           string        // EDF+C/EDF+D marker, or blank for plain EDF
	DataRecords        int           // Number of data records, -1 if unknown
	DataRecordDuration time.Duration // Duration of a single data record
	SignalCount        int           // Number of signals in each data record
	Signals            []Signal      // Details of each signal
}

// Signal represents the characteristics of each signal in the EDF/EDF+ file.
type Signal struct {
	Label             string  // Label of the signal (e.g., EEG Fpz-Cz)
	TransducerType    string  // Type of transducer used
	PhysicalDimension string  // Physical dimension (e.g., uV, mV)
	PhysicalMin       float64 // Minimum physical value
	PhysicalMax       float64 // Maximum physical value
	DigitalMin        int     // Minimum digital value
	DigitalMax        int     // Maximum digital value
	Prefiltering      string  // Pre-filtering information
	SamplesPerRecord  int     // Number of samples in each data record for this signal
	Reserved          string  // Reserved for future use
}

// IsAnnotations reports whether the signal is the reserved EDF+ annotations
// channel.
func (s Signal) IsAnnotations() bool { return s.Label == AnnotationsLabel }

// SampleRate returns the signal's sample rate in Hz given the record
// duration, or 0 when the duration is unknown.
func (s Signal) SampleRate(recordDuration time.Duration) float64 {
	if recordDuration <= 0 {
		return 0
	}
	return float64(s.SamplesPerRecord) / recordDuration.Seconds()
}

// Annotation is a single EDF+ annotation decoded from the annotations
// channel. Onset and Duration are in seconds relative to the recording
// start; Duration is nil when the annotation carries none.
type Annotation struct {
	Onset    float64
	Duration *float64
	Texts    []string
}

// Document is a fully decoded EDF/EDF+ file: the header, each signal's
// digital samples in record order, and any EDF+ annotations. Samples[i]
// holds the complete sample sequence for Header.Signals[i].
type Document struct {
	Header      Header
	Samples     [][]int16
	Annotations []Annotation
	Warnings    []Warning
}

// Duration returns the total recorded time covered by the decoded records.
func (d *Document) Duration() time.Duration {
	if d.Header.DataRecords < 0 {
		return 0
	}
	return time.Duration(d.Header.DataRecords) * d.Header.DataRecordDuration
}

// PhysicalSignal returns signal i's samples converted to physical units.
// It fails with ErrDegenerateScale when the signal's ranges have zero span;
// the raw digital samples in Samples[i] remain usable in that case.
func (d *Document) PhysicalSignal(i int) ([]float64, error) {
	if i < 0 || i >= len(d.Samples) {
		return nil, fmt.Errorf("signal index %d out of range", i)
	}
	sc, err := NewScaler(d.Header.Signals[i])
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(d.Samples[i]))
	for j, v := range d.Samples[i] {
		out[j] = sc.ToPhysical(v)
	}
	return out, nil
}
