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

// Package entity pulls parties, courts, identifiers and key dates out of
// legal text. Every entity is addressed by its span in the source text.
package entity

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lexisa/legal-document-processor/lib/blocklist"
	"github.com/lexisa/legal-document-processor/lib/citation"
	"github.com/lexisa/legal-document-processor/lib/legal"
)

const (
	nameWord     = `[A-Z][a-z][A-Za-z'’\-]*`
	capsNameWord = `[A-Z][A-Za-z'’\-]+`
	initials     = `(?:[A-Z]\.\s*|[A-Z]\s+)*`
	runWord      = `[A-Z][A-Za-z0-9&'’\-]*`
)

// rule is one entity pattern. The entity is capture group `group` (0 for the
// whole match); trim may narrow or reject the span.
type rule struct {
	name  string
	kind  legal.EntityKind
	re    *regexp.Regexp
	group int
	trim  func(source string, loc []int) (legal.Span, bool)
}

var rules = []rule{
	{
		name: "titled person",
		kind: legal.EntityPerson,
		re: regexp.MustCompile(`\b(?:` + alternation(personTitles, regexp.QuoteMeta) + `)\.?(?:\s+Justice)?\s+` +
			initials + nameWord + `(?:[ \t]+` + nameWord + `){0,2}`),
	},
	{
		name: "presiding judge",
		kind: legal.EntityPerson,
		re: regexp.MustCompile(`(?i:\bbefore\s+the\s+honourable)\s+` +
			`((?i:(?:(?:mr|mrs|ms|madam)\.?\s+)?(?:acting\s+)?(?:deputy\s+)?(?:judge\s+president|justice|judge))\s+` +
			initials + capsNameWord + `(?:[ \t]+` + capsNameWord + `){0,2})`),
		group: 1,
	},
	{
		name:  "coram",
		kind:  legal.EntityPerson,
		re:    regexp.MustCompile(`\b(?i:coram)\s*:\s*(` + initials + capsNameWord + `(?:[ \t]+` + capsNameWord + `){0,2})`),
		group: 1,
	},
	{
		name:  "practitioner",
		kind:  legal.EntityPerson,
		re:    regexp.MustCompile(`\b(` + nameWord + `(?:[ \t]+` + nameWord + `){1,3}),\s+(?:Attorney|Advocate)\b`),
		group: 1,
	},
	{
		name: "company",
		kind: legal.EntityCompany,
		re: regexp.MustCompile(`\b(` + runWord + `(?:[ \t]+(?:` + runWord + `|&|of)){0,6})[ \t]+(` +
			strings.Join(companySuffixes, "|") + `)`),
		trim: trimCompany,
	},
	{
		name: "court",
		kind: legal.EntityCourt,
		re:   regexp.MustCompile(`(?i)\b(?:` + alternation(courtNames, lexiconQuote) + `)\b`),
	},
	{
		name: "id number",
		kind: legal.EntityIDNumber,
		re:   regexp.MustCompile(`\b\d{13}\b`),
	},
	{
		name: "registration number",
		kind: legal.EntityRegistrationNumber,
		re:   regexp.MustCompile(`\b\d{4}/\d{6}/\d{2}\b`),
	},
}

var kindOrder = map[legal.EntityKind]int{
	legal.EntityPerson:             0,
	legal.EntityCompany:            1,
	legal.EntityCourt:              2,
	legal.EntityIDNumber:           3,
	legal.EntityRegistrationNumber: 4,
}

// Extractor finds entities and dates. The zero value has no blocklist.
type Extractor struct {
	blocklist *blocklist.Blocklist
}

type Option func(*Extractor)

// WithBlocklist drops entities whose text is blocklisted.
func WithBlocklist(bl *blocklist.Blocklist) Option {
	return func(e *Extractor) {
		e.blocklist = bl
	}
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultExtractor = NewExtractor()

// Extract runs the default extractor.
func Extract(text string) ([]legal.LegalEntity, []legal.KeyDate) {
	return defaultExtractor.Extract(text)
}

// Extract returns the entities and key dates in source, each sorted by span
// start. Both slices are non-nil.
func (e *Extractor) Extract(source string) ([]legal.LegalEntity, []legal.KeyDate) {
	return e.Entities(source), Dates(source)
}

func (e *Extractor) Entities(source string) []legal.LegalEntity {
	var found []legal.LegalEntity
	for i := range rules {
		matches, err := runRule(&rules[i], source)
		if err != nil {
			log.Warn().Err(err).Msg("entity pattern skipped")
			continue
		}
		found = append(found, matches...)
	}

	entities := FilterSubmatches(found)
	if e.blocklist != nil {
		entities = e.blocklist.FilterEntities(entities)
	}

	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		if a.Span.End != b.Span.End {
			return a.Span.End > b.Span.End
		}
		return kindOrder[a.Kind] < kindOrder[b.Kind]
	})
	return entities
}

func runRule(r *rule, source string) (found []legal.LegalEntity, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			found = nil
			err = &citation.PatternError{Pattern: r.name, Cause: rec}
		}
	}()

	for _, loc := range r.re.FindAllStringSubmatchIndex(source, -1) {
		span := legal.Span{Start: loc[2*r.group], End: loc[2*r.group+1]}
		if r.trim != nil {
			var ok bool
			if span, ok = r.trim(source, loc); !ok {
				continue
			}
		}
		if span.Start < 0 || span.Len() <= 0 {
			continue
		}
		found = append(found, legal.LegalEntity{
			Kind:    r.kind,
			RawText: source[span.Start:span.End],
			Span:    span,
		})
	}
	return found, nil
}

var runTokenRegexp = regexp.MustCompile(`[^ \t]+`)

// trimCompany drops everything up to and including the last function word
// of the capitalised run. A run of only function words is rejected.
func trimCompany(source string, loc []int) (legal.Span, bool) {
	runStart, runEnd := loc[2], loc[3]
	tokens := runTokenRegexp.FindAllStringIndex(source[runStart:runEnd], -1)

	first := 0
	for i, tok := range tokens {
		if companyStopwords[source[runStart+tok[0]:runStart+tok[1]]] {
			first = i + 1
		}
	}
	if first >= len(tokens) {
		return legal.Span{}, false
	}
	return legal.Span{Start: runStart + tokens[first][0], End: loc[1]}, true
}

// FilterSubmatches drops entities that overlap a longer entity of the same
// kind. Between equally long overlapping entities the earlier one is kept.
// The result is grouped by kind and sorted by start within each kind.
func FilterSubmatches(entities []legal.LegalEntity) []legal.LegalEntity {
	sorted := make([]legal.LegalEntity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Kind != b.Kind {
			if kindOrder[a.Kind] != kindOrder[b.Kind] {
				return kindOrder[a.Kind] < kindOrder[b.Kind]
			}
			return a.Kind < b.Kind
		}
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		return a.Span.Len() > b.Span.Len()
	})

	// kept entities of one kind never overlap, so a new entity can only
	// collide with the last one kept
	filtered := make([]legal.LegalEntity, 0, len(sorted))
	for _, candidate := range sorted {
		if n := len(filtered); n > 0 && filtered[n-1].Kind == candidate.Kind && filtered[n-1].Span.Intersects(candidate.Span) {
			if IsSubmatch(filtered[n-1], candidate, false) {
				filtered[n-1] = candidate
			}
			continue
		}
		filtered = append(filtered, candidate)
	}
	return filtered
}

// IsSubmatch reports whether candidate is shadowed by entity. seenLater
// breaks ties between identical spans.
func IsSubmatch(candidate, entity legal.LegalEntity, seenLater bool) bool {
	if candidate.Kind != entity.Kind || !candidate.Span.Intersects(entity.Span) {
		return false
	}
	switch {
	case candidate.Span.Len() != entity.Span.Len():
		return candidate.Span.Len() < entity.Span.Len()
	case candidate.Span.Start != entity.Span.Start:
		return candidate.Span.Start > entity.Span.Start
	default:
		return seenLater
	}
}
