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

package citation

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/lexisa/legal-document-processor/lib/legal"
	"github.com/lexisa/legal-document-processor/lib/text"
)

// PatternError reports a pattern that failed while matching. The extractor
// skips the pattern and keeps going.
type PatternError struct {
	Pattern string
	Cause   interface{}
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("citation pattern %q failed: %v", e.Pattern, e.Cause)
}

// Extractor runs a Library over text. It holds no per-call state and is safe
// for concurrent use.
type Extractor struct {
	library Library
}

func NewExtractor(library Library) *Extractor {
	return &Extractor{library: library}
}

var defaultExtractor = NewExtractor(DefaultLibrary())

// Extract runs the built-in library over text.
func Extract(text string) []legal.Citation {
	return defaultExtractor.Extract(text)
}

type match struct {
	pattern  *Pattern
	priority int
	span     legal.Span
	groups   []string
	fields   Fields
}

func (m match) beats(other match) bool {
	if m.pattern.Weight != other.pattern.Weight {
		return m.pattern.Weight > other.pattern.Weight
	}
	return m.span.Len() > other.span.Len()
}

/**
	Extract returns the citations found in text, deduplicated by normalized text
	and format, in order of first occurrence. It never fails: unmatched text
	yields an empty slice.

	Every pattern runs over the full text independently. Matches are sorted by
	start offset and overlapping matches are resolved in favour of the higher
	weight, then the longer span. Each surviving occurrence is recorded in the
	Spans of its deduplicated citation so that chunks can be attributed later
	without re-extracting.
**/
func (e *Extractor) Extract(source string) []legal.Citation {
	var matches []match
	for i := range e.library {
		found, err := e.runPattern(i, source)
		if err != nil {
			log.Warn().Err(err).Str("pattern", e.library[i].Name).Msg("citation pattern skipped")
			continue
		}
		matches = append(matches, found...)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].span.Start != matches[j].span.Start {
			return matches[i].span.Start < matches[j].span.Start
		}
		if matches[i].beats(matches[j]) != matches[j].beats(matches[i]) {
			return matches[i].beats(matches[j])
		}
		return matches[i].priority < matches[j].priority
	})

	return e.collect(resolveOverlaps(matches))
}

// runPattern collects every match of one pattern. A panic inside the pattern
// (e.g. a faulty field extractor) becomes a PatternError and discards the
// pattern's matches.
func (e *Extractor) runPattern(index int, source string) (found []match, err error) {
	pattern := &e.library[index]
	defer func() {
		if r := recover(); r != nil {
			found = nil
			err = &PatternError{Pattern: pattern.Name, Cause: r}
		}
	}()

	for _, loc := range pattern.Regexp.FindAllStringSubmatchIndex(source, -1) {
		groups := make([]string, len(loc)/2)
		for g := range groups {
			if loc[2*g] >= 0 {
				groups[g] = source[loc[2*g]:loc[2*g+1]]
			}
		}
		m := match{
			pattern:  pattern,
			priority: index,
			span:     legal.Span{Start: loc[0], End: loc[1]},
			groups:   groups,
		}
		m.fields = pattern.fields(groups)
		found = append(found, m)
	}
	return found, nil
}

// resolveOverlaps expects matches sorted by start. The kept matches never
// overlap each other, so a new match can only collide with the last one kept.
func resolveOverlaps(sorted []match) []match {
	kept := make([]match, 0, len(sorted))
	for _, m := range sorted {
		if len(kept) == 0 {
			kept = append(kept, m)
			continue
		}
		last := &kept[len(kept)-1]
		if !m.span.Intersects(last.span) {
			kept = append(kept, m)
			continue
		}
		if m.beats(*last) {
			*last = m
		}
	}
	return kept
}

func (e *Extractor) collect(matches []match) []legal.Citation {
	citations := make([]legal.Citation, 0, len(matches))
	index := make(map[string]int, len(matches))

	for _, m := range matches {
		fields := m.fields
		c := legal.Citation{
			RawText:        m.groups[0],
			NormalizedText: text.Normalize(m.groups[0]),
			FormatKind:     m.pattern.Kind,
			Confidence:     validate(m.pattern.Weight, m.pattern.Kind, fields),
		}
		if i, ok := index[c.Key()]; ok {
			citations[i].Spans = append(citations[i].Spans, m.span)
			continue
		}
		if fields.Court != "" {
			court := fields.Court
			c.Court = &court
		}
		if fields.Year != 0 {
			year := fields.Year
			c.Year = &year
		}
		c.Spans = []legal.Span{m.span}
		index[c.Key()] = len(citations)
		citations = append(citations, c)
	}
	return citations
}
