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
	"strings"
)

var courtNames = []string{
	"Constitutional Court",
	"Supreme Court of Appeal",
	"High Court of South Africa",
	"High Court",
	"Gauteng Division",
	"Gauteng Local Division",
	"Western Cape Division",
	"Western Cape High Court",
	"KwaZulu-Natal Division",
	"KwaZulu-Natal High Court",
	"Eastern Cape Division",
	"Free State Division",
	"Northern Cape Division",
	"North West Division",
	"Limpopo Division",
	"Mpumalanga Division",
	"Labour Appeal Court",
	"Labour Court",
	"Land Claims Court",
	"Competition Appeal Court",
	"Competition Tribunal",
	"Electoral Court",
	"Tax Court",
	"Equality Court",
	"Regional Court",
	"Small Claims Court",
	"Divorce Court",
	"Children's Court",
	"Magistrate's Court",
	"Magistrates' Court",
	"Magistrates Court",
}

var personTitles = []string{
	"Mr", "Mrs", "Ms", "Miss", "Madam", "Dr", "Prof", "Adv", "Advocate",
	"Judge", "Justice", "Attorney",
}

var companySuffixes = []string{
	`\(RF\)\s+\(Pty\)\s+Ltd\b`,
	`\((?:Pty|PTY)\)\s+(?:Ltd|LTD)\b`,
	`SOC\s+Ltd\b`,
	`\(RF\)`,
	`Limited\b`,
	`Incorporated\b`,
	`Attorneys\b`,
	`Ltd\b`,
	`NPC\b`,
	`Inc\b`,
	`CC\b`,
}

// companyStopwords are capitalised function words that precede a company
// name without being part of it.
var companyStopwords = map[string]bool{
	"The": true, "THE": true, "Between": true, "BETWEEN": true, "And": true,
	"AND": true, "In": true, "IN": true, "Re": true, "Versus": true, "V": true,
	"Vs": true, "For": true, "By": true, "Of": true, "With": true, "To": true,
	"From": true, "Whereas": true, "WHEREAS": true, "Dated": true, "Signed": true,
	"Applicant": true, "Respondent": true, "Plaintiff": true, "Defendant": true,
	"See": true, "Per": true, "Mr": true, "Ms": true, "Mrs": true, "Dr": true,
}

var months = map[string]int{
	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may": 5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sept": 9, "sep": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

// alternation returns words as a regexp alternation, longest first so that
// leftmost-first matching prefers the longest entry.
func alternation(words []string, quote func(string) string) string {
	sorted := append([]string(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = quote(w)
	}
	return strings.Join(quoted, "|")
}

// lexiconQuote escapes a lexicon entry, letting any run of whitespace match a
// space and either apostrophe match an apostrophe.
func lexiconQuote(w string) string {
	q := regexp.QuoteMeta(w)
	q = strings.ReplaceAll(q, " ", `\s+`)
	return strings.ReplaceAll(q, "'", `['’]`)
}

func monthNames() []string {
	names := make([]string, 0, len(months))
	for name := range months {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// monthNamesCased returns every month name in Title and UPPER case.
func monthNamesCased() []string {
	var names []string
	for _, name := range monthNames() {
		names = append(names, strings.ToUpper(name[:1])+name[1:], strings.ToUpper(name))
	}
	return names
}
