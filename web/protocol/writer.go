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

package protocol

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/caiflower/http-stream/pkg/logger"
)

const defaultServerHeader = "http-stream"

// WriteTo serializes the response to the wire: status line, headers, then a
// length-declared literal body or a chunked transfer-encoded body drained
// from the producer chain. A mid-stream producer failure leaves the chunked
// body unterminated so the peer detects the truncation.
func (resp *Response) WriteTo(w io.Writer) (int64, error) {
	var written int64

	n, err := w.Write(resp.headerBytes())
	written += int64(n)
	if err != nil {
		return written, err
	}

	if resp.producer == nil {
		if len(resp.body) > 0 {
			n, err = w.Write(resp.body)
			written += int64(n)
		}
		return written, err
	}

	streamed, err := resp.writeChunked(w)
	written += streamed
	return written, err
}

func (resp *Response) headerBytes() []byte {
	var headerBuf bytes.Buffer

	fmt.Fprintf(&headerBuf, "HTTP/%d.%d %d %s\r\n",
		resp.httpVersionMajor, resp.httpVersionMinor, resp.statusCode, resp.StatusMessage())

	for _, header := range resp.headers {
		if strings.EqualFold(header.Name, "Content-Length") {
			continue
		}
		fmt.Fprintf(&headerBuf, "%s: %s\r\n", header.Name, header.Value)
	}

	if resp.headers.Get("Date") == "" {
		fmt.Fprintf(&headerBuf, "Date: %s\r\n", time.Now().UTC().Format(http.TimeFormat))
	}
	if resp.headers.Get("Server") == "" {
		fmt.Fprintf(&headerBuf, "Server: %s\r\n", defaultServerHeader)
	}

	// streamed bodies are chunked, so their length is not declared
	if resp.producer == nil {
		fmt.Fprintf(&headerBuf, "Content-Length: %d\r\n", len(resp.body))
	}
	headerBuf.WriteString("\r\n")

	return headerBuf.Bytes()
}

func (resp *Response) writeChunked(w io.Writer) (int64, error) {
	producer := resp.producer
	defer producer.Close()

	var written int64
	for {
		buffer := producer.NextBuffer()
		if buffer == nil {
			break
		}

		n, err := fmt.Fprintf(w, "%x\r\n", buffer.Size())
		written += int64(n)
		if err != nil {
			return written, err
		}
		n, err = w.Write(buffer.Data)
		written += int64(n)
		if err != nil {
			return written, err
		}
		n, err = io.WriteString(w, "\r\n")
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	if err := producer.Err(); err != nil {
		// leave the chunked body unterminated; the transport layer
		// detects the truncation
		logger.Error("stream aborted before completion. Error: %s", err.Error())
		return written, err
	}

	n, err := io.WriteString(w, "0\r\n\r\n")
	written += int64(n)
	return written, err
}
