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
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, size int) (string, []byte) {
	t.Helper()
	content := make([]byte, size)
	rnd := rand.New(rand.NewSource(int64(size)))
	rnd.Read(content)

	path := filepath.Join(t.TempDir(), "body.bin")
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path, content
}

func drain(p Producer) []byte {
	var out []byte
	for {
		buffer := p.NextBuffer()
		if buffer == nil {
			return out
		}
		out = append(out, buffer.Data...)
	}
}

func TestFileChunkProducerReadsChunks(t *testing.T) {
	path, content := writeTempFile(t, 10000)

	p := NewFileChunkProducer(path, 4096, false)
	require.NoError(t, p.Initialize())
	defer p.Close()

	first := p.NextBuffer()
	require.NotNil(t, first)
	assert.Equal(t, 4096, first.Size())

	rest := drain(p)
	assert.Equal(t, content, append(first.Data, rest...))
	assert.NoError(t, p.Err())
}

func TestFileChunkProducerPadsSmallFiles(t *testing.T) {
	path, content := writeTempFile(t, 100)

	p := NewFileChunkProducer(path, 4096, true)
	require.NoError(t, p.Initialize())
	defer p.Close()

	first := p.NextBuffer()
	require.NotNil(t, first)
	assert.Equal(t, content, first.Data)

	pad := p.NextBuffer()
	require.NotNil(t, pad)
	assert.Equal(t, MinResponseSize-100, pad.Size())
	assert.Equal(t, bytes.Repeat([]byte{'0'}, MinResponseSize-100), pad.Data)

	assert.Nil(t, p.NextBuffer())
}

func TestFileChunkProducerPaddingTotalsMinResponseSize(t *testing.T) {
	for _, size := range []int{1, 37, 512, 1023} {
		path, _ := writeTempFile(t, size)

		p := NewFileChunkProducer(path, 256, true)
		require.NoError(t, p.Initialize())

		assert.Equal(t, MinResponseSize, len(drain(p)), "file size %d", size)
		p.Close()
	}
}

func TestFileChunkProducerNoPaddingAtThreshold(t *testing.T) {
	path, content := writeTempFile(t, MinResponseSize)

	p := NewFileChunkProducer(path, 256, true)
	require.NoError(t, p.Initialize())
	defer p.Close()

	assert.Equal(t, content, drain(p))
}

func TestFileChunkProducerPaddingDisabled(t *testing.T) {
	path, content := writeTempFile(t, 100)

	p := NewFileChunkProducer(path, 4096, false)
	require.NoError(t, p.Initialize())
	defer p.Close()

	assert.Equal(t, content, drain(p))
}

func TestFileChunkProducerExhaustionIsIdempotent(t *testing.T) {
	path, _ := writeTempFile(t, 10)

	p := NewFileChunkProducer(path, 4096, false)
	require.NoError(t, p.Initialize())
	defer p.Close()

	drain(p)
	for i := 0; i < 3; i++ {
		assert.Nil(t, p.NextBuffer())
	}
}

func TestFileChunkProducerInitializeMissingFile(t *testing.T) {
	p := NewFileChunkProducer(filepath.Join(t.TempDir(), "missing"), 4096, false)
	assert.Error(t, p.Initialize())
}
