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
	"fmt"
	"hash/crc32"
	"html"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/caiflower/http-stream/pkg/cache"
	"github.com/caiflower/http-stream/pkg/tools"
	"github.com/caiflower/http-stream/web/stream"
)

const (
	GzipEncoding    = "gzip"
	DeflateEncoding = "deflate"
	BrotliEncoding  = "br"
)

// NotFoundHandler renders a custom not-found response.
type NotFoundHandler func(req *Request, resp *Response)

// Response aggregates status, headers, cookies and a body. The body is
// either literal bytes or a stream producer, never both. A Response and its
// producer chain are owned by one request-handling goroutine; many responses
// may be in flight concurrently with fully independent state.
type Response struct {
	httpVersionMajor int
	httpVersionMinor int
	statusCode       int
	statusMessage    string

	headers  Headers
	body     []byte
	producer stream.Producer

	notFoundHandler NotFoundHandler
}

func NewResponse() *Response {
	return &Response{
		httpVersionMajor: 1,
		httpVersionMinor: 1,
		statusCode:       http.StatusOK,
	}
}

func (resp *Response) StatusCode() int {
	return resp.statusCode
}

func (resp *Response) SetStatusCode(statusCode int) {
	resp.statusCode = statusCode
}

// StatusMessage returns the reason phrase, deriving it from the status code
// when none was set explicitly.
func (resp *Response) StatusMessage() string {
	if resp.statusMessage != "" {
		return resp.statusMessage
	}
	return StatusMessage(resp.statusCode)
}

func (resp *Response) SetStatusMessage(statusMessage string) {
	resp.statusMessage = statusMessage
}

func (resp *Response) Headers() Headers {
	return resp.headers
}

func (resp *Response) HeaderValue(name string) string {
	return resp.headers.Get(name)
}

func (resp *Response) SetHeader(name, value string) {
	resp.headers.Set(name, value)
}

func (resp *Response) AddHeader(name, value string) {
	resp.headers.Add(name, value)
}

func (resp *Response) RemoveHeader(name string) {
	resp.headers.Remove(name)
}

func (resp *Response) ContentType() string {
	return resp.headers.Get("Content-Type")
}

func (resp *Response) SetContentType(contentType string) {
	resp.SetHeader("Content-Type", contentType)
}

func (resp *Response) ContentEncoding() string {
	return resp.headers.Get("Content-Encoding")
}

func (resp *Response) SetContentEncoding(encoding string) {
	resp.SetHeader("Content-Encoding", encoding)
}

func (resp *Response) SetContentLength(length int) {
	resp.SetHeader("Content-Length", strconv.Itoa(length))
}

// Body returns the literal body bytes, nil for producer-backed responses.
func (resp *Response) Body() []byte {
	return resp.body
}

// StreamProducer returns the producer backing a streamed body, nil for
// literal bodies.
func (resp *Response) StreamProducer() stream.Producer {
	return resp.producer
}

// SetNotFoundHandler installs a handler consulted by SetNotFoundError.
func (resp *Response) SetNotFoundHandler(handler NotFoundHandler) {
	resp.notFoundHandler = handler
}

func httpDate(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}

func (resp *Response) SetCacheWithRevalidationHeaders() {
	resp.SetHeader("Expires", httpDate(time.Now()))
	resp.SetHeader("Cache-Control", "public, max-age=0, must-revalidate")
}

func (resp *Response) setCacheForeverHeaders(publicAccessibility bool) {
	yearDuration := 365 * 24 * time.Hour
	resp.SetHeader("Expires", httpDate(time.Now().Add(yearDuration)))

	accessibility := "private"
	if publicAccessibility {
		accessibility = "public"
	}
	seconds := int64(yearDuration / time.Second)
	resp.SetHeader("Cache-Control", fmt.Sprintf("%s, max-age=%d", accessibility, seconds))
}

func (resp *Response) SetCacheForeverHeaders() {
	resp.setCacheForeverHeaders(true)
}

func (resp *Response) SetPrivateCacheForeverHeaders() {
	resp.setCacheForeverHeaders(false)
}

func (resp *Response) SetNoCacheHeaders() {
	resp.SetHeader("Expires", "Fri, 01 Jan 1990 00:00:00 GMT")
	resp.SetHeader("Pragma", "no-cache")
	resp.SetHeader("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
}

func (resp *Response) RemoveCachingHeaders() {
	resp.RemoveHeader("Expires")
	resp.RemoveHeader("Pragma")
	resp.RemoveHeader("Cache-Control")
	resp.RemoveHeader("Last-Modified")
	resp.RemoveHeader("ETag")
}

// SetFrameOptionHeaders maps a framing policy to X-Frame-Options and
// Content-Security-Policy. "none" or empty denies all framing, "same"
// permits the same origin, "any" lifts the restriction and anything else is
// an explicit origin list. Chrome and Safari ignore ALLOW-FROM, so an
// equivalent frame-ancestors CSP is emitted alongside it.
func (resp *Response) SetFrameOptionHeaders(options string) {
	var option string

	switch {
	case options == "" || options == "none":
		option = "DENY"
	case options == "same":
		option = "SAMEORIGIN"
	case options == "any":
		// no restriction
	default:
		option = "ALLOW-FROM " + options
		resp.SetHeader("Content-Security-Policy", "frame-ancestors "+options)
	}

	// X-Frame-Options cannot express multiple space-separated origins; in
	// that case rely on the Content-Security-Policy alone
	if option != "" && !strings.Contains(strings.TrimSpace(options), " ") {
		resp.SetHeader("X-Frame-Options", option)
	}
}

// SetBrowserCompatible forces edge rendering for legacy Trident engines.
func (resp *Response) SetBrowserCompatible(req *Request) {
	if strings.Contains(req.UserAgent(), "Trident") {
		resp.SetHeader("X-UA-Compatible", "IE=edge")
	}
}

// AddCookie appends a Set-Cookie header. SameSite=None cookies get a second
// legacy-named Set-Cookie without the SameSite attribute, because some older
// browsers swallow cookies carrying SameSite=None. Order matters: modern
// first, legacy second.
func (resp *Response) AddCookie(cookie *Cookie) {
	resp.AddHeader("Set-Cookie", cookie.HeaderValue())

	if cookie.SameSite == SameSiteNone {
		legacy := *cookie
		legacy.Name = cookie.Name + LegacyCookieSuffix
		legacy.SameSite = SameSiteUndefined
		resp.AddHeader("Set-Cookie", legacy.HeaderValue())
	}
}

// GetCookies returns the Set-Cookie headers, all of them when names is
// empty, otherwise the ones whose value starts with a given name or its
// legacy variant.
func (resp *Response) GetCookies(names []string) Headers {
	var headers Headers
	for _, header := range resp.headers {
		if !strings.EqualFold(header.Name, "Set-Cookie") {
			continue
		}
		if len(names) == 0 {
			headers = append(headers, header)
			continue
		}
		for _, name := range names {
			if strings.HasPrefix(header.Value, name) ||
				strings.HasPrefix(header.Value, name+LegacyCookieSuffix) {
				headers = append(headers, header)
				break
			}
		}
	}
	return headers
}

func (resp *Response) ClearCookies() {
	resp.RemoveHeader("Set-Cookie")
}

// setBodyUnencoded installs a literal body, dropping any negotiated
// compression encoding and any streaming plan.
func (resp *Response) setBodyUnencoded(body string) {
	resp.RemoveHeader("Content-Encoding")
	resp.producer = nil
	resp.body = []byte(body)
	resp.SetContentLength(len(resp.body))
}

// SetBody installs a literal body, compressed according to the negotiated
// Content-Encoding header if one is set.
func (resp *Response) SetBody(content string) error {
	switch resp.ContentEncoding() {
	case GzipEncoding:
		compressed, err := tools.Gzip([]byte(content))
		if err != nil {
			return err
		}
		resp.body = compressed
	case BrotliEncoding:
		compressed, err := tools.Brotil([]byte(content))
		if err != nil {
			return err
		}
		resp.body = compressed
	default:
		resp.body = []byte(content)
	}

	resp.producer = nil
	resp.SetContentLength(len(resp.body))
	return nil
}

// SetCacheableBody serves a small file with ETag revalidation. File contents
// are kept in the process-local cache keyed by path and modification time.
func (resp *Response) SetCacheableBody(path string, req *Request) error {
	content, err := cachedFileContents(path)
	if err != nil {
		return err
	}
	return resp.SetCacheableContent(content, req)
}

// SetCacheableContent emits the content with an ETag and revalidation
// headers, answering 304 when the client already holds the current version.
func (resp *Response) SetCacheableContent(content string, req *Request) error {
	eTag := eTagForContent(content)
	resp.SetHeader("ETag", eTag)
	resp.SetCacheWithRevalidationHeaders()

	if req.HeaderValue("If-None-Match") == eTag {
		resp.SetStatusCode(http.StatusNotModified)
		return nil
	}
	return resp.SetBody(content)
}

func eTagForContent(content string) string {
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE([]byte(content)))
}

func cachedFileContents(path string) (string, error) {
	modTime, err := tools.FileModTime(path)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s:%d", path, modTime.UnixNano())
	if cached, ok := cache.LocalCache.Get(key); ok {
		return cached.(string), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	content := string(data)
	cache.LocalCache.Set(key, content, gocache.DefaultExpiration)
	return content, nil
}

// SetDynamicHtml serves generated html: never cached, gzip when accepted.
func (resp *Response) SetDynamicHtml(html string, req *Request) error {
	resp.SetContentType("text/html")
	resp.SetNoCacheHeaders()

	if req.AcceptsEncoding(GzipEncoding) {
		resp.SetContentEncoding(GzipEncoding)
	}

	return resp.SetBody(html)
}

// SetRangeableFile reads a file from disk and serves it honoring the
// request's Range header.
func (resp *Response) SetRangeableFile(path string, req *Request) error {
	data, err := os.ReadFile(path)
	if err != nil {
		resp.SetInternalError(err)
		return err
	}

	return resp.SetRangeableContent(string(data), mimeTypeByExtension(path, "application/octet-stream"), req)
}

// SetRangeableContent serves in-memory content honoring the Range header.
// An unparsable Range yields 416 with an empty body; compression negotiation
// proceeds independently of ranging.
func (resp *Response) SetRangeableContent(contents string, mimeType string, req *Request) error {
	resp.SetContentType(mimeType)

	r, ok := parseRange(req.HeaderValue("Range"), len(contents))
	if !ok {
		resp.SetStatusCode(http.StatusRequestedRangeNotSatisfiable)
		resp.AddHeader("Content-Range", fmt.Sprintf("bytes */%d", len(contents)))
		resp.setBodyUnencoded("")
		return nil
	}

	resp.SetStatusCode(http.StatusPartialContent)
	resp.AddHeader("Accept-Ranges", "bytes")
	resp.AddHeader("Content-Range", fmt.Sprintf("bytes %d-%d/%d", r.begin, r.end, r.total))

	// always attempt gzip
	if req.AcceptsEncoding(GzipEncoding) {
		resp.SetContentEncoding(GzipEncoding)
	}

	if r.spans() {
		return resp.SetBody(contents)
	}
	return resp.SetBody(r.slice(contents))
}

// SetError renders an error body. Caching headers are cleared and the
// message is html-escaped to prevent markup injection.
func (resp *Response) SetError(statusCode int, message string) {
	resp.SetStatusCode(statusCode)
	resp.RemoveCachingHeaders()
	resp.SetContentType("text/html")
	resp.setBodyUnencoded(html.EscapeString(message))
}

func (resp *Response) SetInternalError(err error) {
	resp.SetError(http.StatusInternalServerError, err.Error())
}

// SetNotFoundError delegates to the installed not-found handler when one is
// registered, otherwise renders the default message.
func (resp *Response) SetNotFoundError(req *Request) {
	if resp.notFoundHandler != nil {
		resp.notFoundHandler(req, resp)
		return
	}
	resp.SetError(http.StatusNotFound, req.Uri+" not found")
}

// safeLocation takes the location only up to the first newline to prevent
// http response splitting.
func safeLocation(location string) string {
	if i := strings.IndexAny(location, "\r\n"); i >= 0 {
		return location[:i]
	}
	return location
}

func (resp *Response) setRedirect(statusCode int, req *Request, location string) {
	target := safeLocation(location)

	if u, err := url.Parse(target); err != nil || u.Scheme == "" {
		target = strings.TrimSuffix(req.RootPath, "/") + "/" + strings.TrimPrefix(target, "/")
	}

	uri := target
	if base, err := url.Parse(req.BaseUri); err == nil && base.Scheme != "" {
		if ref, err := url.Parse(target); err == nil {
			uri = base.ResolveReference(ref).String()
		}
	}

	resp.SetError(statusCode, uri)
	resp.SetHeader("Location", uri)
}

func (resp *Response) SetMovedPermanently(req *Request, location string) {
	resp.setRedirect(http.StatusMovedPermanently, req, location)
}

func (resp *Response) SetMovedTemporarily(req *Request, location string) {
	resp.setRedirect(http.StatusFound, req, location)
}

// compressibleContentType reports whether a content type may be wrapped in a
// compression encoding. Archive containers are already compressed and Firefox
// mishandles double-encoded archives, so they are never wrapped again.
func compressibleContentType(contentType string) bool {
	switch contentType {
	case "application/x-gzip",
		"application/zip",
		"application/x-bzip",
		"application/x-bzip2",
		"application/x-tar":
		return false
	}
	return true
}

func mimeTypeByExtension(path string, fallback string) string {
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		return fallback
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return contentType
}

// usePadding pads small html responses for Qt-based clients whose rendering
// stalls below a minimum response size.
func usePadding(req *Request, contentType string) bool {
	return strings.Contains(req.UserAgent(), "Qt/") &&
		strings.HasPrefix(contentType, "text/html")
}

// SetStreamFile serves a file via chunked transfer encoding, compressing on
// the fly when the client negotiates an encoding. Initialization failures
// degrade the response to a 500 error; no fault reaches the caller.
func (resp *Response) SetStreamFile(path string, req *Request, chunkSize int) {
	contentType := mimeTypeByExtension(path, "application/octet-stream")
	resp.SetContentType(contentType)

	compress := compressibleContentType(contentType)

	selected := false
	var compressionType stream.CompressionType

	// prefer the inferior gzip to deflate: older browsers claim to
	// support deflate but cannot actually handle it
	if compress && req.AcceptsEncoding(GzipEncoding) {
		resp.SetContentEncoding(GzipEncoding)
		compressionType = stream.CompressionGzip
		selected = true
	} else if compress && req.AcceptsEncoding(DeflateEncoding) {
		resp.SetContentEncoding(DeflateEncoding)
		compressionType = stream.CompressionDeflate
		selected = true
	}

	// final compressed size is unknown ahead of time
	resp.SetHeader("Transfer-Encoding", "chunked")

	fileProducer := stream.NewFileChunkProducer(path, chunkSize, usePadding(req, contentType))

	var producer stream.Producer = fileProducer
	if selected {
		producer = stream.NewCompressingProducer(fileProducer, chunkSize, compressionType)
	}

	if err := producer.Initialize(); err != nil {
		_ = producer.Close()
		resp.producer = nil
		resp.SetError(http.StatusInternalServerError, err.Error())
		resp.RemoveHeader("Transfer-Encoding")
		return
	}

	resp.body = nil
	resp.producer = producer
}

// Reset restores the response to its initial state so it can be reused.
func (resp *Response) Reset() {
	resp.statusCode = http.StatusOK
	resp.statusMessage = ""
	resp.headers = resp.headers[:0]
	resp.body = nil
	resp.producer = nil
}
