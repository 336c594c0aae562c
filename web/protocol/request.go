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
	"strings"

	"github.com/caiflower/http-stream/pkg/tools"
)

// Request carries the slice of the parsed request the response engine
// consumes: header lookup, encoding negotiation and redirect resolution.
type Request struct {
	Method  string
	Uri     string
	Headers Headers

	// BaseUri is the absolute URI the request was served under, e.g.
	// "http://host:port/path". Redirect targets resolve against it.
	BaseUri string
	// RootPath is the application root relative locations resolve under.
	RootPath string

	id string
}

func NewRequest(method, uri string) *Request {
	return &Request{
		Method:   method,
		Uri:      uri,
		RootPath: "/",
		id:       tools.UUID(),
	}
}

// ID returns the generated request correlation id.
func (r *Request) ID() string {
	return r.id
}

func (r *Request) HeaderValue(name string) string {
	return r.Headers.Get(name)
}

func (r *Request) SetHeader(name, value string) {
	r.Headers.Set(name, value)
}

func (r *Request) UserAgent() string {
	return r.Headers.Get("User-Agent")
}

// AcceptsEncoding reports whether the Accept-Encoding header lists the given
// encoding token. Quality values are ignored.
func (r *Request) AcceptsEncoding(encoding string) bool {
	accept := r.Headers.Get("Accept-Encoding")
	if accept == "" {
		return false
	}
	for _, token := range strings.Split(accept, ",") {
		token = strings.TrimSpace(token)
		if i := strings.IndexByte(token, ';'); i >= 0 {
			token = strings.TrimSpace(token[:i])
		}
		if strings.EqualFold(token, encoding) {
			return true
		}
	}
	return false
}
