// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package match locates fixed markers in text and binary buffers.
//
// Absence of a marker is never an error here: callers decide whether a
// missing marker means "skip" or "abort".
package match

import (
	"bytes"
	"strings"
)

// NotFound is returned by the index functions when the marker is absent.
const NotFound = -1

// IndexWindow returns the offset of the first window of len(marker) bytes in buf
// that equals marker, scanning left to right.
func IndexWindow(buf, marker []byte) int {
	if len(marker) == 0 || len(marker) > len(buf) {
		return NotFound
	}
	return bytes.Index(buf, marker)
}

// FindWindow is IndexWindow with a found flag.
func FindWindow(buf, marker []byte) (int, bool) {
	pos := IndexWindow(buf, marker)
	return pos, pos != NotFound
}

// CountWindow counts non-overlapping occurrences of marker in buf.
func CountWindow(buf, marker []byte) int {
	if len(marker) == 0 {
		return 0
	}
	return bytes.Count(buf, marker)
}

// ContainsText reports whether substr is within content. An empty substr never matches.
func ContainsText(content, substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(content, substr)
}

// IndexText returns the byte offset of the first occurrence of substr in content.
func IndexText(content, substr string) int {
	if substr == "" {
		return NotFound
	}
	return strings.Index(content, substr)
}
