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

// Package chunk splits text into overlapping word windows for retrieval.
package chunk

import (
	"github.com/lexisa/legal-document-processor/lib/legal"
	"github.com/lexisa/legal-document-processor/lib/text"
)

/**
	Chunk splits source into windows of size words, each starting
	size-overlap words after the previous one. The last window may be shorter;
	no window is emitted once the text is exhausted.

	A chunk's text is the verbatim source slice from the start of its first
	word to the end of its last, so StartOffset and EndOffset always index
	source. A citation is attached to every chunk that one of its occurrences
	overlaps. Arguments are expected to satisfy legal.Config.Validate.
**/
func Chunk(source string, citations []legal.Citation, size, overlap int) []legal.Chunk {
	chunks := []legal.Chunk{}
	step := size - overlap
	if size <= 0 || step <= 0 {
		return chunks
	}

	words := text.Words(source)
	for first := 0; first < len(words); first += step {
		last := first + size
		if last > len(words) {
			last = len(words)
		}

		span := legal.Span{Start: words[first].Start, End: words[last-1].End}
		chunks = append(chunks, legal.Chunk{
			Index:       len(chunks),
			Text:        source[span.Start:span.End],
			StartOffset: span.Start,
			EndOffset:   span.End,
			Citations:   citationsIn(citations, span),
			LegalTerms:  LegalTerms(source[span.Start:span.End]),
			WordCount:   last - first,
		})

		if last == len(words) {
			break
		}
	}
	return chunks
}

func citationsIn(citations []legal.Citation, span legal.Span) []legal.Citation {
	attached := []legal.Citation{}
	for _, c := range citations {
		if c.IntersectsSpan(span) {
			attached = append(attached, c)
		}
	}
	return attached
}
