// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package trace

import (
	"encoding/gob"
	"errors"
	"io"

	"github.com/pierrec/lz4"
)

func newDecoder(r io.Reader) *gob.Decoder {
	return gob.NewDecoder(r)
}

// NewWriter starts a trace on w. Samples must be added in timestamp
// order; Close flushes the compressed stream.
func NewWriter(w io.Writer, header Header) (*Writer, error) {
	if _, err := w.Write(magic[:]); err != nil {
		return nil, err
	}

	zw := lz4.NewWriter(w)
	enc := gob.NewEncoder(zw)
	if err := enc.Encode(header); err != nil {
		return nil, err
	}

	return &Writer{
		compressor: zw,
		encoder:    enc,
	}, nil
}

// Writer streams samples into a trace.
type Writer struct {
	compressor *lz4.Writer
	encoder    *gob.Encoder
	lastT      float64
	count      int
}

// Add appends one sample to the trace.
func (w *Writer) Add(s Sample) error {
	if w.count > 0 && s.T < w.lastT {
		return errors.New("trace: samples must be added in timestamp order")
	}
	if err := w.encoder.Encode(s); err != nil {
		return err
	}
	w.lastT = s.T
	w.count++
	return nil
}

// Close flushes the sample stream. The underlying writer stays open.
func (w *Writer) Close() error {
	return w.compressor.Close()
}
