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
	"bufio"
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caiflower/http-stream/web/protocol"
	"github.com/caiflower/http-stream/web/server/config"
)

func TestNewEngineDefaults(t *testing.T) {
	engine := NewEngine()

	assert.Equal(t, "http-stream", engine.Options().Name)
	assert.Equal(t, "http-stream", engine.Options().ServerHeader)
	assert.Equal(t, 8192, engine.Options().ChunkSize)
	assert.Equal(t, "none", engine.Options().FrameOptions)
	assert.False(t, engine.Options().DisableCompression)
}

func TestEngineNewResponseAppliesHeaderPolicy(t *testing.T) {
	engine := NewEngine(
		config.WithServerHeader("my-server"),
		config.WithFrameOptions("same"),
	)

	req := protocol.NewRequest(http.MethodGet, "/")
	req.SetHeader("User-Agent", "Mozilla/5.0 (Trident/7.0)")

	resp := engine.NewResponse(req)

	assert.Equal(t, "my-server", resp.HeaderValue("Server"))
	assert.Equal(t, "SAMEORIGIN", resp.HeaderValue("X-Frame-Options"))
	assert.Equal(t, "IE=edge", resp.HeaderValue("X-UA-Compatible"))
}

func TestEngineStreamFileHonorsDisableCompression(t *testing.T) {
	content := strings.Repeat("disable me ", 500)
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	req := protocol.NewRequest(http.MethodGet, "/data.txt")
	req.SetHeader("Accept-Encoding", "gzip, deflate")

	engine := NewEngine(config.WithDisableCompression(true))
	resp := engine.NewResponse(req)
	engine.StreamFile(resp, req, path)

	assert.Empty(t, resp.ContentEncoding())
	require.NotNil(t, resp.StreamProducer())
	require.NoError(t, resp.StreamProducer().Close())

	// the caller's request headers must not be touched
	assert.Equal(t, "gzip, deflate", req.HeaderValue("Accept-Encoding"))
}

func TestEngineStreamFileNegotiatesCompression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("zip me ", 500)), 0644))

	req := protocol.NewRequest(http.MethodGet, "/data.txt")
	req.SetHeader("Accept-Encoding", "gzip")

	engine := NewEngine()
	resp := engine.NewResponse(req)
	engine.StreamFile(resp, req, path)

	assert.Equal(t, protocol.GzipEncoding, resp.ContentEncoding())
	require.NoError(t, resp.StreamProducer().Close())
}

func TestEngineWriteResponse(t *testing.T) {
	engine := NewEngine()

	req := protocol.NewRequest(http.MethodGet, "/")
	resp := engine.NewResponse(req)
	require.NoError(t, resp.SetBody("payload"))

	var wire bytes.Buffer
	require.NoError(t, engine.WriteResponse(&wire, resp))

	parsed, err := http.ReadResponse(bufio.NewReader(&wire), nil)
	require.NoError(t, err)
	defer parsed.Body.Close()

	body, err := io.ReadAll(parsed.Body)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))
	assert.Equal(t, "http-stream", parsed.Header.Get("Server"))
}

func TestEngineWriteResponseWithMetrics(t *testing.T) {
	engine := NewEngine(
		config.WithName("metrics-engine"),
		config.WithEnableMetrics(true),
	)
	require.NotNil(t, engine.metric)

	resp := engine.NewResponse(protocol.NewRequest(http.MethodGet, "/"))
	require.NoError(t, resp.SetBody("counted"))

	var wire bytes.Buffer
	require.NoError(t, engine.WriteResponse(&wire, resp))
}
