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
	"regexp"
	"strconv"
)

var rangePattern = regexp.MustCompile(`bytes=(\d*)-(\d*)`)

type byteRange struct {
	begin int
	end   int
	total int
}

// parseRange matches a Range header value against bytes=(begin)-(end) and
// resolves the inclusive offsets against the total content length. When the
// begin group is omitted the end group holds a suffix length: bytes=-n
// selects the last n bytes. Existing clients depend on this exact
// interpretation, so it must not change.
func parseRange(rangeHeader string, total int) (byteRange, bool) {
	match := rangePattern.FindStringSubmatch(rangeHeader)
	if match == nil {
		return byteRange{total: total}, false
	}

	begin, end := -1, -1
	if match[1] != "" {
		begin, _ = strconv.Atoi(match[1])
	}
	if match[2] != "" {
		end, _ = strconv.Atoi(match[2])
	}

	if end == -1 {
		end = total - 1
	}
	if begin == -1 {
		begin = total - end
		end = total - 1
	}

	if end > total-1 {
		end = total - 1
	}
	if begin < 0 {
		begin = 0
	}
	if begin > total {
		begin = total
	}

	return byteRange{begin: begin, end: end, total: total}, true
}

// spans reports whether the range covers the entire content.
func (r byteRange) spans() bool {
	return r.begin == 0 && r.end == r.total-1
}

// slice returns the selected inclusive sub-range of content.
func (r byteRange) slice(content string) string {
	if r.begin >= len(content) || r.begin > r.end {
		return ""
	}
	return content[r.begin : r.end+1]
}
