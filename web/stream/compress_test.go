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
	"errors"
	"fmt"
	"io"
	"math/rand"
	"testing"

	"github.com/caiflower/http-stream/pkg/tools"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceProducer feeds fixed input chunks, for exercising the compressor with
// controlled chunk boundaries.
type sliceProducer struct {
	chunks [][]byte
	next   int
	err    error
}

func (p *sliceProducer) Initialize() error { return nil }

func (p *sliceProducer) NextBuffer() *StreamBuffer {
	if p.next >= len(p.chunks) {
		return nil
	}
	buffer := NewStreamBuffer(p.chunks[p.next])
	p.next++
	return buffer
}

func (p *sliceProducer) Err() error   { return p.err }
func (p *sliceProducer) Close() error { return nil }

func chunked(data []byte, size int) [][]byte {
	var chunks [][]byte
	for len(data) > 0 {
		n := size
		if n > len(data) {
			n = len(data)
		}
		chunks = append(chunks, data[:n])
		data = data[n:]
	}
	return chunks
}

func compressibleData(size int) []byte {
	data := make([]byte, size)
	rnd := rand.New(rand.NewSource(42))
	pattern := []byte("the quick brown fox jumps over the lazy dog. ")
	for i := range data {
		if rnd.Intn(4) == 0 {
			data[i] = byte(rnd.Intn(256))
		} else {
			data[i] = pattern[i%len(pattern)]
		}
	}
	return data
}

func decompress(t *testing.T, ctype CompressionType, data []byte) []byte {
	t.Helper()
	switch ctype {
	case CompressionGzip:
		reader, err := gzip.NewReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer reader.Close()
		out, err := io.ReadAll(reader)
		require.NoError(t, err)
		return out
	case CompressionDeflate:
		reader := flate.NewReader(bytes.NewReader(data))
		defer reader.Close()
		out, err := io.ReadAll(reader)
		require.NoError(t, err)
		return out
	case CompressionBrotli:
		out, err := tools.UnBrotil(data)
		require.NoError(t, err)
		return out
	}
	t.Fatalf("unknown compression type %v", ctype)
	return nil
}

func TestCompressingProducerRoundTrip(t *testing.T) {
	types := []CompressionType{CompressionGzip, CompressionDeflate, CompressionBrotli}
	sizes := []int{0, 10, 1024, 300000}
	inputChunks := []int{7, 512, 65536}
	outputChunks := []int{16, 512, 8192}

	for _, ctype := range types {
		for _, size := range sizes {
			for _, in := range inputChunks {
				for _, out := range outputChunks {
					name := fmt.Sprintf("%s/size=%d/in=%d/out=%d", ctype.String(), size, in, out)
					t.Run(name, func(t *testing.T) {
						data := compressibleData(size)
						source := &sliceProducer{chunks: chunked(data, in)}

						p := NewCompressingProducer(source, out, ctype)
						require.NoError(t, p.Initialize())
						defer p.Close()

						var compressed []byte
						for {
							buffer := p.NextBuffer()
							if buffer == nil {
								break
							}
							assert.LessOrEqual(t, buffer.Size(), out)
							assert.Greater(t, buffer.Size(), 0)
							compressed = append(compressed, buffer.Data...)
						}

						require.NoError(t, p.Err())
						assert.Equal(t, data, decompress(t, ctype, compressed))
					})
				}
			}
		}
	}
}

func TestCompressingProducerFileRoundTrip(t *testing.T) {
	path, content := writeTempFile(t, 100000)

	file := NewFileChunkProducer(path, 4096, false)
	p := NewCompressingProducer(file, 4096, CompressionGzip)
	require.NoError(t, p.Initialize())
	defer p.Close()

	var compressed []byte
	for {
		buffer := p.NextBuffer()
		if buffer == nil {
			break
		}
		compressed = append(compressed, buffer.Data...)
	}

	require.NoError(t, p.Err())
	assert.Equal(t, content, decompress(t, CompressionGzip, compressed))
}

func TestCompressingProducerExhaustionIsIdempotent(t *testing.T) {
	source := &sliceProducer{chunks: chunked(compressibleData(100), 10)}
	p := NewCompressingProducer(source, 512, CompressionGzip)
	require.NoError(t, p.Initialize())
	defer p.Close()

	for p.NextBuffer() != nil {
	}
	for i := 0; i < 3; i++ {
		assert.Nil(t, p.NextBuffer())
	}
	assert.NoError(t, p.Err())
}

func TestCompressingProducerSourceFailureIsFatal(t *testing.T) {
	source := &sliceProducer{err: errors.New("read failed")}
	p := NewCompressingProducer(source, 512, CompressionGzip)
	require.NoError(t, p.Initialize())
	defer p.Close()

	assert.Nil(t, p.NextBuffer())
	assert.Error(t, p.Err())
	assert.Nil(t, p.NextBuffer())
}

func TestCompressingProducerEmptyInput(t *testing.T) {
	source := &sliceProducer{}
	p := NewCompressingProducer(source, 512, CompressionDeflate)
	require.NoError(t, p.Initialize())
	defer p.Close()

	var compressed []byte
	for {
		buffer := p.NextBuffer()
		if buffer == nil {
			break
		}
		compressed = append(compressed, buffer.Data...)
	}

	require.NoError(t, p.Err())
	assert.Empty(t, decompress(t, CompressionDeflate, compressed))
}
