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
	"io"
	"os"

	"github.com/caiflower/http-stream/pkg/e"
	"github.com/caiflower/http-stream/pkg/logger"
)

// MinResponseSize is the minimum number of body bytes delivered for padded
// responses. Some embedded clients stall on bodies below this size.
const MinResponseSize = 1024

// FileChunkProducer reads a file in fixed-size chunks.
type FileChunkProducer struct {
	path      string
	chunkSize int
	padding   bool

	file      *os.File
	totalRead int64
	exhausted bool
	err       error
}

func NewFileChunkProducer(path string, chunkSize int, padding bool) *FileChunkProducer {
	return &FileChunkProducer{
		path:      path,
		chunkSize: chunkSize,
		padding:   padding,
	}
}

func (p *FileChunkProducer) Initialize() error {
	file, err := os.Open(p.path)
	if err != nil {
		return e.NewStreamError(e.IOFailure, err.Error(), err)
	}
	p.file = file
	return nil
}

func (p *FileChunkProducer) NextBuffer() *StreamBuffer {
	if p.exhausted {
		return nil
	}

	buffer := make([]byte, p.chunkSize)
	read, err := p.file.Read(buffer)
	p.totalRead += int64(read)

	if read > 0 {
		return NewStreamBuffer(buffer[:read])
	}

	p.exhausted = true

	if err != nil && err != io.EOF {
		p.err = e.NewStreamError(e.IOFailure, err.Error(), err)
		logger.Error("read file %s failed. Error: %s", p.path, err.Error())
		return nil
	}

	// incomplete read, likely end-of-file reached
	if p.padding && p.totalRead < MinResponseSize {
		return makePaddingBuffer(MinResponseSize - p.totalRead)
	}

	return nil
}

func (p *FileChunkProducer) Err() error {
	return p.err
}

func (p *FileChunkProducer) Close() error {
	if p.file == nil {
		return nil
	}
	return p.file.Close()
}

func makePaddingBuffer(numPadding int64) *StreamBuffer {
	buffer := make([]byte, numPadding)
	for i := range buffer {
		buffer[i] = '0'
	}
	return NewStreamBuffer(buffer)
}
