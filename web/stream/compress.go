/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package stream

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/caiflower/http-stream/pkg/e"
	"github.com/caiflower/http-stream/pkg/logger"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
)

type CompressionType int

const (
	CompressionGzip CompressionType = iota
	CompressionDeflate
	CompressionBrotli
)

func (t CompressionType) String() string {
	switch t {
	case CompressionGzip:
		return "gzip"
	case CompressionDeflate:
		return "deflate"
	case CompressionBrotli:
		return "br"
	default:
		return "unknown"
	}
}

// CompressingProducer feeds the output of a source producer through a
// streaming compressor at best-compression level. The compressor may consume
// an input buffer only partially per call; the unconsumed tail is kept and
// resubmitted before any new input is pulled.
type CompressingProducer struct {
	source    Producer
	chunkSize int
	ctype     CompressionType

	compressor io.WriteCloser
	out        bytes.Buffer
	leftover   []byte
	srcDone    bool
	finished   bool
	err        error
}

func NewCompressingProducer(source Producer, chunkSize int, ctype CompressionType) *CompressingProducer {
	return &CompressingProducer{
		source:    source,
		chunkSize: chunkSize,
		ctype:     ctype,
	}
}

func (p *CompressingProducer) Initialize() error {
	if err := p.source.Initialize(); err != nil {
		return err
	}

	switch p.ctype {
	case CompressionGzip:
		compressor, err := gzip.NewWriterLevel(&p.out, gzip.BestCompression)
		if err != nil {
			return e.NewStreamError(e.CompressInit, err.Error(), err)
		}
		p.compressor = compressor
	case CompressionDeflate:
		compressor, err := flate.NewWriter(&p.out, flate.BestCompression)
		if err != nil {
			return e.NewStreamError(e.CompressInit, err.Error(), err)
		}
		p.compressor = compressor
	case CompressionBrotli:
		p.compressor = brotli.NewWriterLevel(&p.out, brotli.BestCompression)
	default:
		return e.NewStreamError(e.CompressInit, "unsupported compression type", nil)
	}

	return nil
}

func (p *CompressingProducer) NextBuffer() *StreamBuffer {
	if p.finished {
		return nil
	}

	// keep consuming input until the compressor has produced output or the
	// stream ends; it may swallow several input chunks before emitting
	// anything
	for p.out.Len() == 0 && !p.srcDone {
		// an input buffer the compressor did not fully consume last time
		// must be resumed before any new input is pulled
		in := p.leftover
		p.leftover = nil

		if in == nil {
			buffer := p.source.NextBuffer()
			if buffer == nil {
				if err := p.source.Err(); err != nil {
					// the source already reported it
					p.err = err
					p.finished = true
					return nil
				}
				// no more input - flush and finish the compressor
				if err := p.compressor.Close(); err != nil {
					p.fail(err)
					return nil
				}
				p.srcDone = true
				break
			}
			in = buffer.Data
		}

		if !p.feed(in) {
			return nil
		}
	}

	if p.out.Len() == 0 {
		p.finished = true
		return nil
	}

	chunk := p.out.Next(p.chunkSize)
	data := make([]byte, len(chunk))
	copy(data, chunk)

	if p.srcDone && p.out.Len() == 0 {
		p.finished = true
	}

	return NewStreamBuffer(data)
}

// feed writes input in bounded strides, stopping as soon as a full output
// chunk is pending. The unconsumed tail becomes the leftover for the next
// call. Returns false on a fatal compressor error.
func (p *CompressingProducer) feed(in []byte) bool {
	consumed := 0
	for consumed < len(in) && p.out.Len() < p.chunkSize {
		stride := len(in) - consumed
		if stride > p.chunkSize {
			stride = p.chunkSize
		}
		written, err := p.compressor.Write(in[consumed : consumed+stride])
		consumed += written
		if err != nil {
			p.fail(err)
			return false
		}
	}

	if consumed < len(in) {
		p.leftover = in[consumed:]
	}
	return true
}

func (p *CompressingProducer) fail(err error) {
	p.err = e.NewStreamError(e.CompressStream, err.Error(), err)
	p.finished = true
	logger.Error("could not compress stream (%s) - %s", p.ctype.String(), err.Error())
}

func (p *CompressingProducer) Err() error {
	if p.err != nil {
		return p.err
	}
	return p.source.Err()
}

func (p *CompressingProducer) Close() error {
	var closeErr error
	if p.compressor != nil && !p.srcDone {
		closeErr = p.compressor.Close()
		p.srcDone = true
	}
	if err := p.source.Close(); err != nil {
		return err
	}
	return closeErr
}
