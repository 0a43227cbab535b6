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

// Package citation recognises South African legal citations. Formats are
// declared as data in a Library; adding a format means appending a Pattern.
package citation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lexisa/legal-document-processor/lib/legal"
)

// Fields are the parts of a citation that can be derived from a match.
// Zero values mean "not derivable".
type Fields struct {
	Court string
	Year  int
}

// FieldExtractor maps the submatches of a pattern (index 0 is the whole
// match, unmatched groups are "") to Fields.
type FieldExtractor func(groups []string) Fields

// Pattern is one citation format.
type Pattern struct {
	Name   string
	Kind   legal.FormatKind
	Regexp *regexp.Regexp
	// Weight is the base confidence of a match and the first overlap
	// tie-breaker.
	Weight float64
	// CourtGroup and YearGroup are the capture groups holding the court and
	// year, 0 when absent. Fields overrides them when set.
	CourtGroup int
	YearGroup  int
	Fields     FieldExtractor
}

func (p *Pattern) fields(groups []string) Fields {
	if p.Fields != nil {
		return p.Fields(groups)
	}
	return groupFields(groups, p.CourtGroup, p.YearGroup)
}

// Library is an ordered set of patterns. Order only matters as the final
// tie-breaker between equally weighted, equally long matches.
type Library []Pattern

// Fingerprint changes whenever a pattern is added, removed, reordered or
// edited. The body of a custom Fields function is not covered.
func (l Library) Fingerprint() string {
	h := sha256.New()
	for _, p := range l {
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00%g\x00%d\x00%d\x00%t\n",
			p.Name, p.Kind, p.Regexp, p.Weight, p.CourtGroup, p.YearGroup, p.Fields != nil)
	}
	return hex.EncodeToString(h.Sum(nil))
}

const (
	minPlausibleYear = 1800
	maxPlausibleYear = 2100

	implausibleYearFactor = 0.5
	unknownCourtPenalty   = 0.1
)

var (
	lawReportRegexp       = regexp.MustCompile(`\b(\d{4})\s*\(\s*(\d{1,2})\s*\)\s*(SACR|SALLR|SATC|SA|BLLR|BPLR|ILJ|JOL)\s+(\d{1,5})\s*\(\s*([A-Z][A-Za-z]{0,5})\s*\)`)
	bclrRegexp            = regexp.MustCompile(`\b(\d{4})\s*\(\s*(\d{1,2})\s*\)\s*BCLR\s+(\d{1,5})\s*\(\s*([A-Z][A-Za-z]{0,5})\s*\)`)
	neutralRegexp         = regexp.MustCompile(`\[(\d{4})\]\s*(ZA[A-Z]{2,10})\s+(\d{1,5})\b`)
	bracketedReportRegexp = regexp.MustCompile(`\[(\d{4})\]\s*(\d{1,2})\s+(All\s+SA|BLLR|BCLR|JOL|SA)\s+(\d{1,5})\s*\(\s*([A-Z][A-Za-z]{0,5})\s*\)`)
	statuteRegexp         = regexp.MustCompile(`\b(?i:act)\s+(?:(?i:no)\.?\s*)?(\d{1,4})\s+(?i:of)\s+(\d{4})\b`)
	constitutionRegexp    = regexp.MustCompile(`(?i)\bConstitution\s+of\s+the\s+Republic\s+of\s+South\s+Africa(?:\s*,\s*(\d{4}))?\b`)
)

// DefaultLibrary returns a fresh copy of the built-in South African formats.
func DefaultLibrary() Library {
	return Library{
		{
			Name:       "SA law reports",
			Kind:       legal.FormatLawReport,
			Regexp:     lawReportRegexp,
			Weight:     0.90,
			CourtGroup: 5,
			YearGroup:  1,
		},
		{
			Name:       "Butterworths Constitutional Law Reports",
			Kind:       legal.FormatBCLR,
			Regexp:     bclrRegexp,
			Weight:     0.90,
			CourtGroup: 4,
			YearGroup:  1,
		},
		{
			Name:   "medium neutral citation",
			Kind:   legal.FormatNeutral,
			Regexp: neutralRegexp,
			Weight: 0.95,
			Fields: neutralFields,
		},
		{
			Name:       "bracketed law reports",
			Kind:       legal.FormatBracketedReport,
			Regexp:     bracketedReportRegexp,
			Weight:     0.85,
			CourtGroup: 5,
			YearGroup:  1,
		},
		{
			Name:      "statute",
			Kind:      legal.FormatStatute,
			Regexp:    statuteRegexp,
			Weight:    1.0,
			YearGroup: 2,
		},
		{
			Name:      "constitution",
			Kind:      legal.FormatConstitution,
			Regexp:    constitutionRegexp,
			Weight:    1.0,
			YearGroup: 1,
		},
	}
}

// groupFields reads the court and year from fixed capture groups. A group
// index of 0 means the field is not captured.
func groupFields(groups []string, courtGroup, yearGroup int) Fields {
	var f Fields
	if courtGroup > 0 {
		f.Court = strings.TrimSpace(groups[courtGroup])
	}
	if yearGroup > 0 {
		f.Year, _ = strconv.Atoi(groups[yearGroup])
	}
	return f
}

func neutralFields(groups []string) Fields {
	year, _ := strconv.Atoi(groups[1])
	return Fields{Court: courtForNeutralCode(groups[2]), Year: year}
}

// neutralCourtCodes maps medium neutral court codes to the abbreviation used
// in brackets at the end of a law report citation.
var neutralCourtCodes = map[string]string{
	"ZACC":     "CC",
	"ZASCA":    "SCA",
	"ZAGPJHC":  "GJ",
	"ZAGPPHC":  "GP",
	"ZAWCHC":   "WCC",
	"ZAKZDHC":  "KZD",
	"ZAKZPHC":  "KZP",
	"ZAECGHC":  "ECG",
	"ZAECMHC":  "ECM",
	"ZAECPEHC": "ECP",
	"ZAECBHC":  "ECB",
	"ZAECMKHC": "ECMk",
	"ZAFSHC":   "FB",
	"ZANCHC":   "NCK",
	"ZALMPPHC": "LP",
	"ZALMPTHC": "LT",
	"ZAMPMBHC": "MM",
	"ZAMPMHC":  "MN",
	"ZANWHC":   "NWM",
	"ZALCJHB":  "LC",
	"ZALCCT":   "LC",
	"ZALCD":    "LC",
	"ZALCPE":   "LC",
	"ZALAC":    "LAC",
	"ZALCC":    "LCC",
	"ZACAC":    "CAC",
	"ZACT":     "CT",
	"ZAEC":     "EC",
	"ZATC":     "TC",
}

// knownCourts are the court abbreviations accepted at the end of a report
// citation without a confidence penalty.
var knownCourts = map[string]struct{}{}

func init() {
	for _, court := range neutralCourtCodes {
		knownCourts[court] = struct{}{}
	}
	// provincial and pre-1994 division letters
	for _, court := range []string{
		"A", "AD", "T", "TPD", "W", "WLD", "C", "CPD", "N", "NPD", "D", "DCLD",
		"E", "ECD", "SE", "SECLD", "O", "OPD", "NC", "B", "BG", "BH", "Ck",
		"Tk", "V", "ZS", "ZH", "NmS", "NmHC", "GNP", "GSJ", "WCHC", "KZN",
		"ECP", "FB", "LT", "Mk",
	} {
		knownCourts[court] = struct{}{}
	}
}

func courtForNeutralCode(code string) string {
	if court, ok := neutralCourtCodes[code]; ok {
		return court
	}
	return strings.TrimPrefix(code, "ZA")
}

// IsKnownCourt reports whether abbreviation is a recognised court code.
func IsKnownCourt(abbreviation string) bool {
	_, ok := knownCourts[abbreviation]
	return ok
}

// validate applies the heuristic checks to a pattern's base weight.
func validate(weight float64, kind legal.FormatKind, f Fields) float64 {
	confidence := weight
	if f.Year != 0 && (f.Year < minPlausibleYear || f.Year > maxPlausibleYear) {
		confidence *= implausibleYearFactor
	}
	if f.Court != "" && kind != legal.FormatStatute && kind != legal.FormatConstitution && !IsKnownCourt(f.Court) {
		confidence -= unknownCourtPenalty
	}
	switch {
	case confidence < 0:
		return 0
	case confidence > 1:
		return 1
	}
	return confidence
}
