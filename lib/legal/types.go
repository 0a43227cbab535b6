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

// Package legal holds the records produced by the document processing
// pipeline. Every offset stored here indexes the original source text.
package legal

import (
	"github.com/go-openapi/strfmt"
)

// FormatKind names a citation style.
type FormatKind string

const (
	FormatLawReport       FormatKind = "law_report"
	FormatBCLR            FormatKind = "bclr"
	FormatNeutral         FormatKind = "neutral"
	FormatBracketedReport FormatKind = "bracketed_report"
	FormatStatute         FormatKind = "statute"
	FormatConstitution    FormatKind = "constitution"
)

// EntityKind classifies a LegalEntity.
type EntityKind string

const (
	EntityPerson             EntityKind = "person"
	EntityCompany            EntityKind = "company"
	EntityCourt              EntityKind = "court"
	EntityIDNumber           EntityKind = "id_number"
	EntityRegistrationNumber EntityKind = "registration_number"
)

// DateRole is the inferred purpose of a KeyDate.
type DateRole string

const (
	RoleFiling    DateRole = "filing"
	RoleHearing   DateRole = "hearing"
	RoleDeadline  DateRole = "deadline"
	RoleExecution DateRole = "execution"
	RoleUnknown   DateRole = "unknown"
)

// DocumentType is a classifier label.
type DocumentType string

const (
	TypeJudgment       DocumentType = "judgment"
	TypePleading       DocumentType = "pleading"
	TypeContract       DocumentType = "contract"
	TypeStatute        DocumentType = "statute"
	TypeOpinion        DocumentType = "opinion"
	TypeCorrespondence DocumentType = "correspondence"
	TypeOther          DocumentType = "other"
)

// TypePriority is the tie-break order used when two document types score
// within epsilon of each other. Earlier entries win.
var TypePriority = []DocumentType{
	TypeJudgment,
	TypePleading,
	TypeContract,
	TypeStatute,
	TypeOpinion,
	TypeCorrespondence,
	TypeOther,
}

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Intersects reports whether the two spans share at least one byte.
func (s Span) Intersects(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Citation is a deduplicated legal citation. Spans lists every place in the
// source text where the same normalized citation occurs.
type Citation struct {
	RawText        string     `json:"raw_text"`
	NormalizedText string     `json:"normalized_text"`
	FormatKind     FormatKind `json:"format_kind"`
	Court          *string    `json:"court,omitempty"`
	Year           *int       `json:"year,omitempty"`
	Confidence     float64    `json:"confidence"`
	Spans          []Span     `json:"spans"`
}

// Key is the identity of a citation within a document.
func (c Citation) Key() string {
	return string(c.FormatKind) + "|" + c.NormalizedText
}

// IntersectsSpan reports whether any occurrence of the citation overlaps span.
func (c Citation) IntersectsSpan(span Span) bool {
	for _, s := range c.Spans {
		if s.Intersects(span) {
			return true
		}
	}
	return false
}

type LegalEntity struct {
	Kind    EntityKind `json:"kind"`
	RawText string     `json:"raw_text"`
	Span    Span       `json:"span"`
}

// KeyDate is a date reference. ParsedDate is nil when the text could not be
// resolved to a calendar date.
type KeyDate struct {
	RawText    string       `json:"raw_text"`
	ParsedDate *strfmt.Date `json:"parsed_date"`
	Role       DateRole     `json:"date_role"`
	Span       Span         `json:"span"`
}

type DocumentClassification struct {
	PredictedType DocumentType             `json:"predicted_type"`
	Confidence    float64                  `json:"confidence"`
	TypeScores    map[DocumentType]float64 `json:"type_scores"`
	// Confident is set by the pipeline when Confidence reaches the configured
	// classification threshold.
	Confident bool `json:"confident"`
}

type Chunk struct {
	Index       int        `json:"index"`
	Text        string     `json:"text"`
	StartOffset int        `json:"start_offset"`
	EndOffset   int        `json:"end_offset"`
	Citations   []Citation `json:"citations"`
	LegalTerms  []string   `json:"legal_terms"`
	WordCount   int        `json:"word_count"`
}

// Span returns the chunk's range in the source text.
func (c Chunk) Span() Span {
	return Span{Start: c.StartOffset, End: c.EndOffset}
}

// ProcessedDocument is the result of one pipeline run. Callers treat it as a
// value; the pipeline never touches it after returning.
type ProcessedDocument struct {
	SourceTextHash string                 `json:"source_text_hash"`
	Language       Language               `json:"language"`
	Classification DocumentClassification `json:"classification"`
	Citations      []Citation             `json:"citations"`
	Entities       []LegalEntity          `json:"entities"`
	KeyDates       []KeyDate              `json:"key_dates"`
	Chunks         []Chunk                `json:"chunks"`
}

// Language is a coarse detection flag, not a translation hint.
type Language string

const (
	LanguageEnglish   Language = "en"
	LanguageAfrikaans Language = "af"
	LanguageUnknown   Language = "unknown"
)

// EmptyDocument returns a valid document with no content for the given hash.
func EmptyDocument(hash string) ProcessedDocument {
	return ProcessedDocument{
		SourceTextHash: hash,
		Language:       LanguageUnknown,
		Classification: DocumentClassification{
			PredictedType: TypeOther,
			TypeScores:    map[DocumentType]float64{},
		},
		Citations: []Citation{},
		Entities:  []LegalEntity{},
		KeyDates:  []KeyDate{},
		Chunks:    []Chunk{},
	}
}
