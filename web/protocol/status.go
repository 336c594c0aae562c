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

import "net/http"

// statusMessages preserves the reason phrases historically sent on the wire,
// including the legacy wording for 302 and 416.
var statusMessages = map[int]string{
	http.StatusSwitchingProtocols:              "SwitchingProtocols",
	http.StatusOK:                              "OK",
	http.StatusCreated:                         "Created",
	http.StatusPartialContent:                  "Partial Content",
	http.StatusMovedPermanently:                "Moved Permanently",
	http.StatusFound:                           "Moved Temporarily",
	http.StatusSeeOther:                        "See Other",
	http.StatusNotModified:                     "Not Modified",
	http.StatusBadRequest:                      "Bad Request",
	http.StatusUnauthorized:                    "Unauthorized",
	http.StatusForbidden:                       "Forbidden",
	http.StatusNotFound:                        "Not Found",
	http.StatusMethodNotAllowed:                "Method Not Allowed",
	http.StatusRequestedRangeNotSatisfiable:    "Range Not Satisfyable",
	http.StatusInternalServerError:             "Internal Server Error",
	http.StatusNotImplemented:                  "Not Implemented",
	http.StatusBadGateway:                      "Bad Gateway",
	http.StatusServiceUnavailable:              "Service Unavailable",
	http.StatusGatewayTimeout:                  "Gateway Timeout",
}

// StatusMessage returns the reason phrase for a status code, falling back to
// the standard library text for codes outside the table.
func StatusMessage(statusCode int) string {
	if message, ok := statusMessages[statusCode]; ok {
		return message
	}
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return "Internal Server Error"
}
