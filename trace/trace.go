// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package trace records and replays head pose streams. A trace is a
// small uncompressed magic followed by one lz4 block stream carrying a
// gob-encoded header and samples. Replayed traces act as the pose
// source for the debug device, so machines without a headset can still
// drive the full tracking and render path with real motion data.
package trace

import (
	"errors"
	"io"
	"sort"

	"github.com/pierrec/lz4"

	"github.com/devblok/hmd/device"
)

// package errors
var (
	ErrFileFormat = errors.New("corrupted or not a pose trace")
)

var magic = [4]byte{'H', 'P', 'T', '1'}

// Header describes a recorded trace.
type Header struct {
	Author      string
	DateCreated int64
	Version     int64
}

// Sample is one recorded pose, timestamped in seconds relative to the
// start of the recording.
type Sample struct {
	T     float64
	Pose  device.Posef
	Flags device.StatusFlags
}

// Trace is a fully loaded pose recording. Read-only after Open.
type Trace struct {
	header  Header
	samples []Sample
}

// Open reads a whole trace from r.
func Open(r io.Reader) (*Trace, error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, ErrFileFormat
	}
	if m != magic {
		return nil, ErrFileFormat
	}

	dec := newDecoder(lz4.NewReader(r))

	var header Header
	if err := dec.Decode(&header); err != nil {
		return nil, ErrFileFormat
	}

	var samples []Sample
	for {
		var s Sample
		if err := dec.Decode(&s); err == io.EOF {
			break
		} else if err != nil {
			return nil, ErrFileFormat
		}
		samples = append(samples, s)
	}

	if !sort.SliceIsSorted(samples, func(i, j int) bool {
		return samples[i].T < samples[j].T
	}) {
		return nil, ErrFileFormat
	}

	return &Trace{header: header, samples: samples}, nil
}

// Header returns the trace header.
func (t *Trace) Header() Header {
	return t.header
}

// Len returns the number of recorded samples.
func (t *Trace) Len() int {
	return len(t.samples)
}

// Duration returns the timestamp of the last sample.
func (t *Trace) Duration() float64 {
	if len(t.samples) == 0 {
		return 0
	}
	return t.samples[len(t.samples)-1].T
}

// PoseAt returns the latest recorded pose at or before t. It reports
// false before the first sample, which replays as "no tracking yet".
// Implements device.PoseSource.
func (t *Trace) PoseAt(at float64) (device.Posef, bool) {
	idx := sort.Search(len(t.samples), func(i int) bool {
		return t.samples[i].T > at
	})
	if idx == 0 {
		return device.Posef{}, false
	}
	return t.samples[idx-1].Pose, true
}
