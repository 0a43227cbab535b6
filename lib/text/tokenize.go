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
	"unicode"
	"unicode/utf8"

	"github.com/blevesearch/segment"
)

// Word is a maximal run of non-whitespace characters. Start and End are byte
// offsets into the text Words was called with.
type Word struct {
	Text  string
	Start int
	End   int
}

/**
	Words splits text into whitespace-delimited words and records the byte
	offset of each one. Punctuation stays attached to its word, so "(SCA)." is
	a single word: chunk boundaries never fall inside a word.

	The UAX#29 segmenter walks the text; each segment is then scanned rune by
	rune because a segment may carry trailing whitespace (e.g. a space followed
	by a combining mark).
**/
func Words(text string) []Word {
	words := make([]Word, 0, len(text)/6)
	start := -1
	position := 0

	flush := func(end int) {
		if start >= 0 {
			words = append(words, Word{Text: text[start:end], Start: start, End: end})
			start = -1
		}
	}
	scan := func(segmentBytes []byte) {
		for len(segmentBytes) > 0 {
			r, size := utf8.DecodeRune(segmentBytes)
			if unicode.IsSpace(r) {
				flush(position)
			} else if start < 0 {
				start = position
			}
			position += size
			segmentBytes = segmentBytes[size:]
		}
	}

	segmenter := segment.NewWordSegmenterDirect([]byte(text))
	for segmenter.Segment() {
		scan(segmenter.Bytes())
	}
	// the segmenter stops early on malformed input; finish by hand
	if position < len(text) {
		scan([]byte(text[position:]))
	}
	flush(position)
	return words
}

// CountLetterWords counts the segments the UAX#29 segmenter classifies as
// letters or numbers.
func CountLetterWords(text string) int {
	n := 0
	segmenter := segment.NewWordSegmenterDirect([]byte(text))
	for segmenter.Segment() {
		switch segmenter.Type() {
		case segment.Letter, segment.Number:
			n++
		}
	}
	return n
}
