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

// Package stream implements pull-based body producers for chunked
// transfer-encoded responses. A producer hands out one owned buffer per
// NextBuffer call and returns nil once exhausted; exhaustion is permanent.
package stream

// StreamBuffer is an owned chunk of body data. Ownership transfers to the
// caller on every NextBuffer call; the producer never touches it again.
type StreamBuffer struct {
	Data []byte
}

func NewStreamBuffer(data []byte) *StreamBuffer {
	return &StreamBuffer{Data: data}
}

func (b *StreamBuffer) Size() int {
	return len(b.Data)
}

// Producer produces the next body buffer on demand. A response owns exactly
// one producer chain and drives it from a single goroutine, so
// implementations need no locking. Backpressure is inherent: no read or
// compression work happens until the consumer asks for it.
type Producer interface {
	// Initialize prepares the producer. All fallible setup happens here,
	// never in the constructor.
	Initialize() error

	// NextBuffer returns the next chunk of the body, or nil when the
	// stream is exhausted or has failed. Once nil is returned every
	// subsequent call returns nil.
	NextBuffer() *StreamBuffer

	// Err reports the fatal stream error, if any, once NextBuffer has
	// returned nil. A nil Err after exhaustion means a clean end of
	// stream.
	Err() error

	// Close releases the underlying resources (file handle, compressor
	// state). The consumer calls it exactly once when it stops pulling.
	Close() error
}
