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

package web

import (
	"io"
	"strconv"
	"time"

	"github.com/caiflower/http-stream/pkg/logger"
	"github.com/caiflower/http-stream/web/protocol"
	"github.com/caiflower/http-stream/web/server/config"
)

// Engine binds the response toolkit to a configuration: chunk size, framing
// policy, compression availability and metrics.
type Engine struct {
	options *config.Options
	logger  logger.ILog
	metric  *ResponseMetric
}

func NewEngine(opts ...config.Option) *Engine {
	options := config.NewOptions(opts)

	engine := &Engine{
		options: options,
		logger:  logger.DefaultLogger(),
	}
	if options.EnableMetrics {
		engine.metric = NewResponseMetric(options.Name)
	}
	return engine
}

func (e *Engine) Options() *config.Options {
	return e.options
}

// NewResponse builds a response carrying the engine-wide header policy.
func (e *Engine) NewResponse(req *protocol.Request) *protocol.Response {
	resp := protocol.NewResponse()
	resp.SetHeader("Server", e.options.ServerHeader)
	resp.SetFrameOptionHeaders(e.options.FrameOptions)
	resp.SetBrowserCompatible(req)
	return resp
}

// StreamFile serves a file on the response with the configured chunk size.
// When compression is disabled the encoding negotiation never sees the
// client's Accept-Encoding, so the plain file producer is used throughout.
func (e *Engine) StreamFile(resp *protocol.Response, req *protocol.Request, path string) {
	if e.options.DisableCompression {
		plain := *req
		plain.Headers = append(protocol.Headers{}, req.Headers...)
		plain.Headers.Remove("Accept-Encoding")
		req = &plain
	}
	resp.SetStreamFile(path, req, e.options.ChunkSize)
}

// WriteResponse drains the response to the writer and records metrics.
func (e *Engine) WriteResponse(w io.Writer, resp *protocol.Response) error {
	start := time.Now()
	written, err := resp.WriteTo(w)
	cost := time.Since(start).Milliseconds()

	if e.metric != nil {
		e.metric.saveMetric(strconv.Itoa(resp.StatusCode()), written, cost)
	}
	if err != nil {
		e.logger.Error("write response failed. Error: %s", err.Error())
	}
	return err
}
