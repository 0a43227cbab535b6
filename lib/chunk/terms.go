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

package chunk

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lexisa/legal-document-processor/lib/text"
)

var legalTerms = []string{
	"affidavit", "appeal", "appellant", "applicant", "arbitration",
	"audi alteram partem", "bona fide", "breach", "business rescue",
	"condonation", "contempt of court", "costs", "curator ad litem", "damages",
	"defendant", "delict", "estoppel", "eviction", "ex parte", "exception",
	"in limine", "indemnity", "interdict", "joinder", "jurisdiction",
	"liquidation", "lis pendens", "locus standi", "mala fide",
	"mandament van spolie", "mediation", "negligence", "obiter dictum",
	"pacta sunt servanda", "plaintiff", "prescription", "ratio decidendi",
	"res judicata", "respondent", "review", "rule nisi", "sequestration",
	"stare decisis", "subpoena", "summons", "suspensive condition",
	"ultra vires", "urgent application", "warranty",
}

var legalTermRegexp = func() *regexp.Regexp {
	sorted := append([]string(nil), legalTerms...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	for i, term := range sorted {
		sorted[i] = strings.ReplaceAll(regexp.QuoteMeta(term), " ", `\s+`)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(sorted, "|") + `)\b`)
}()

// LegalTerms returns the lexicon terms in source, lowercased with single
// spaces, in order of first appearance.
func LegalTerms(source string) []string {
	terms := []string{}
	seen := map[string]bool{}
	for _, match := range legalTermRegexp.FindAllString(source, -1) {
		term := text.Fold(match)
		if !seen[term] {
			seen[term] = true
			terms = append(terms, term)
		}
	}
	return terms
}
