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

package entity

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/rs/zerolog/log"

	"github.com/lexisa/legal-document-processor/lib/citation"
	"github.com/lexisa/legal-document-processor/lib/legal"
)

// roleWindow is how far before a date, in bytes, a role keyword may appear.
const roleWindow = 80

type dateRule struct {
	name  string
	re    *regexp.Regexp
	parse func(groups []string) *strfmt.Date
}

var dateRules = []dateRule{
	{
		name: "day month year",
		re: regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:day\s+of\s+)?(` +
			alternation(monthNames(), regexp.QuoteMeta) + `)\.?,?\s+(\d{4})\b`),
		parse: func(g []string) *strfmt.Date {
			return calendarDate(g[3], strconv.Itoa(months[strings.ToLower(g[2])]), g[1])
		},
	},
	{
		name: "numeric",
		re:   regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
		parse: func(g []string) *strfmt.Date {
			return calendarDate(g[3], g[2], g[1])
		},
	},
	{
		name: "iso",
		re:   regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`),
		parse: func(g []string) *strfmt.Date {
			return calendarDate(g[1], g[2], g[3])
		},
	},
	{
		name: "month year",
		re:   regexp.MustCompile(`\b(` + alternation(monthNamesCased(), regexp.QuoteMeta) + `)\.?\s+(\d{4})\b`),
		parse: func([]string) *strfmt.Date {
			return nil
		},
	},
}

var roleKeywords = []struct {
	role legal.DateRole
	re   *regexp.Regexp
}{
	{legal.RoleHearing, regexp.MustCompile(`(?i)\b(?:hearing|set\s+down|heard|enrolled|trial|argued)\b`)},
	{legal.RoleFiling, regexp.MustCompile(`(?i)\b(?:filed|filing|issued|served|lodged|delivered|launched)\b`)},
	{legal.RoleDeadline, regexp.MustCompile(`(?i)\b(?:deadline|no\s+later\s+than|not\s+later\s+than|on\s+or\s+before|due|expires?|expiry)\b`)},
	{legal.RoleExecution, regexp.MustCompile(`(?i)\b(?:signed|executed|entered\s+into|concluded|dated)\b`)},
}

// Dates returns the date references in source sorted by span start. Where two
// references overlap the longer one is kept, so "12 March 2021" is not also
// reported as "March 2021". Text that names an impossible day keeps a nil
// ParsedDate.
func Dates(source string) []legal.KeyDate {
	var found []legal.KeyDate
	for i := range dateRules {
		matches, err := runDateRule(&dateRules[i], source)
		if err != nil {
			log.Warn().Err(err).Msg("date pattern skipped")
			continue
		}
		found = append(found, matches...)
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Span.Start != found[j].Span.Start {
			return found[i].Span.Start < found[j].Span.Start
		}
		return found[i].Span.Len() > found[j].Span.Len()
	})

	dates := make([]legal.KeyDate, 0, len(found))
	for _, d := range found {
		if n := len(dates); n > 0 && dates[n-1].Span.Intersects(d.Span) {
			if d.Span.Len() > dates[n-1].Span.Len() {
				dates[n-1] = d
			}
			continue
		}
		dates = append(dates, d)
	}

	for i := range dates {
		dates[i].Role = RoleBefore(source, dates[i].Span.Start)
	}
	return dates
}

func runDateRule(r *dateRule, source string) (found []legal.KeyDate, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			found = nil
			err = &citation.PatternError{Pattern: r.name, Cause: rec}
		}
	}()

	for _, loc := range r.re.FindAllStringSubmatchIndex(source, -1) {
		groups := make([]string, len(loc)/2)
		for g := range groups {
			if loc[2*g] >= 0 {
				groups[g] = source[loc[2*g]:loc[2*g+1]]
			}
		}
		found = append(found, legal.KeyDate{
			RawText:    groups[0],
			ParsedDate: r.parse(groups),
			Role:       legal.RoleUnknown,
			Span:       legal.Span{Start: loc[0], End: loc[1]},
		})
	}
	return found, nil
}

// RoleBefore infers a date's role from the keyword ending closest to offset
// within the preceding roleWindow bytes.
func RoleBefore(source string, offset int) legal.DateRole {
	from := offset - roleWindow
	if from < 0 {
		from = 0
	}
	window := source[from:offset]

	role, bestEnd := legal.RoleUnknown, -1
	for _, kw := range roleKeywords {
		locs := kw.re.FindAllStringIndex(window, -1)
		if len(locs) == 0 {
			continue
		}
		if end := locs[len(locs)-1][1]; end > bestEnd {
			role, bestEnd = kw.role, end
		}
	}
	return role
}

// calendarDate resolves year, month and day strings, returning nil for
// anything that is not a real calendar day.
func calendarDate(year, month, day string) *strfmt.Date {
	y, err := strconv.Atoi(year)
	if err != nil {
		return nil
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return nil
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 {
		return nil
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
		return nil
	}
	date := strfmt.Date(t)
	return &date
}
