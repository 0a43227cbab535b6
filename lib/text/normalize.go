/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Normalize enforces NFKC, collapses every whitespace run into a single
// space and trims the ends. Non-breaking spaces from OCR'd or copy-pasted
// text become ordinary spaces.
func Normalize(in string) string {
	if in == "" {
		return ""
	}
	in = norm.NFKC.String(in)

	var b strings.Builder
	b.Grow(len(in))
	pendingSpace := false
	for _, r := range in {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Fold is Normalize plus lower casing, used for lexicon lookups.
func Fold(in string) string {
	return strings.ToLower(Normalize(in))
}

// IsBlank reports whether s holds no printable content.
func IsBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}

// Valid reports whether s can be processed: it must be valid UTF-8.
func Valid(s string) bool {
	return utf8.ValidString(s)
}
