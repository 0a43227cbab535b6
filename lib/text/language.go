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

	"github.com/blevesearch/segment"

	"github.com/lexisa/legal-document-processor/lib/legal"
)

// minLanguageHits is the number of stopword hits below which no language is
// flagged.
const minLanguageHits = 3

var englishStopwords = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "to": {}, "that": {}, "for": {}, "with": {},
	"this": {}, "shall": {}, "which": {}, "be": {}, "or": {}, "as": {}, "it": {},
	"was": {}, "are": {}, "not": {}, "has": {}, "have": {}, "from": {},
}

var afrikaansStopwords = map[string]struct{}{
	"die": {}, "en": {}, "van": {}, "het": {}, "nie": {}, "te": {}, "vir": {},
	"wat": {}, "met": {}, "aan": {}, "word": {}, "sal": {}, "hierdie": {},
	"ook": {}, "deur": {}, "om": {}, "ons": {}, "hulle": {}, "ek": {}, "dat": {},
	"se": {}, "moet": {}, "kan": {}, "gee": {},
}

// DetectLanguage flags text as English or Afrikaans by counting function
// words. It is a flag only; nothing downstream changes behaviour on it.
func DetectLanguage(text string) legal.Language {
	var en, af int
	segmenter := segment.NewWordSegmenterDirect([]byte(text))
	for segmenter.Segment() {
		if segmenter.Type() != segment.Letter {
			continue
		}
		word := strings.ToLower(string(segmenter.Bytes()))
		if _, ok := englishStopwords[word]; ok {
			en++
		}
		if _, ok := afrikaansStopwords[word]; ok {
			af++
		}
	}

	switch {
	case en+af < minLanguageHits || en == af:
		return legal.LanguageUnknown
	case en > af:
		return legal.LanguageEnglish
	default:
		return legal.LanguageAfrikaans
	}
}
