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
	"math"
)

// Scaler converts between stored digital samples and physical units for one
// signal, using the linear calibration implied by the signal's digital and
// physical ranges.
type Scaler struct {
	physicalMin float64
	digitalMin  float64
	digitalMax  float64
	gain        float64 // physical units per digital step
	clamp       bool
}

// ScalerOption configures a Scaler.
type ScalerOption func(*Scaler)

// WithoutClamping disables saturation of out-of-range physical values in
// ToDigital. Results are still limited to the representable 16-bit range.
func WithoutClamping() ScalerOption {
	return func(s *Scaler) { s.clamp = false }
}

// NewScaler derives the calibration for sig. It fails with
// ErrDegenerateScale when either range has zero span.
func NewScaler(sig Signal, opts ...ScalerOption) (*Scaler, error) {
	if sig.DigitalMax == sig.DigitalMin {
		return nil, fmt.Errorf("%w: digital range [%d, %d] for signal %q",
			ErrDegenerateScale, sig.DigitalMin, sig.DigitalMax, sig.Label)
	}
	if sig.PhysicalMax == sig.PhysicalMin {
		return nil, fmt.Errorf("%w: physical range [%v, %v] for signal %q",
			ErrDegenerateScale, sig.PhysicalMin, sig.PhysicalMax, sig.Label)
	}
	s := &Scaler{
		physicalMin: sig.PhysicalMin,
		digitalMin:  float64(sig.DigitalMin),
		digitalMax:  float64(sig.DigitalMax),
		gain:        (sig.PhysicalMax - sig.PhysicalMin) / float64(sig.DigitalMax-sig.DigitalMin),
		clamp:       true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ToPhysical converts a stored digital sample to physical units.
func (s *Scaler) ToPhysical(d int16) float64 {
	return s.physicalMin + (float64(d)-s.digitalMin)*s.gain
}

// ToDigital converts a physical value to the nearest digital sample. Values
// outside the physical range saturate at the digital limits, matching how a
// real sensor clips rather than faults.
func (s *Scaler) ToDigital(p float64) int16 {
	d := math.Round((p-s.physicalMin)/s.gain + s.digitalMin)
	if s.clamp {
		lo, hi := s.digitalMin, s.digitalMax
		if lo > hi {
			lo, hi = hi, lo
		}
		d = math.Min(math.Max(d, lo), hi)
	}
	d = math.Min(math.Max(d, math.MinInt16), math.MaxInt16)
	return int16(d)
}
