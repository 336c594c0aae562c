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

import "strings"

// Header is a single name/value pair. Multiple entries with the same name
// are permitted and order is preserved, which matters for Set-Cookie.
type Header struct {
	Name  string
	Value string
}

type Headers []Header

// Add appends a header, keeping insertion order.
func (hs *Headers) Add(name, value string) {
	*hs = append(*hs, Header{Name: name, Value: value})
}

// Set replaces the first header with the given name and drops any other
// entries with that name. Missing headers are appended.
func (hs *Headers) Set(name, value string) {
	headers := *hs
	replaced := false
	kept := headers[:0]
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			if replaced {
				continue
			}
			h.Value = value
			replaced = true
		}
		kept = append(kept, h)
	}
	if !replaced {
		kept = append(kept, Header{Name: name, Value: value})
	}
	*hs = kept
}

// Remove drops every header with the given name.
func (hs *Headers) Remove(name string) {
	headers := *hs
	kept := headers[:0]
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			continue
		}
		kept = append(kept, h)
	}
	*hs = kept
}

// Get returns the value of the first header with the given name, or "".
func (hs Headers) Get(name string) string {
	for _, h := range hs {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// Values returns every value recorded for the given name, in order.
func (hs Headers) Values(name string) []string {
	var values []string
	for _, h := range hs {
		if strings.EqualFold(h.Name, name) {
			values = append(values, h.Value)
		}
	}
	return values
}

func (hs Headers) Contains(name string) bool {
	for _, h := range hs {
		if strings.EqualFold(h.Name, name) {
			return true
		}
	}
	return false
}
