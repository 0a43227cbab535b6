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

// Package pipeline runs the full document pipeline: classification, citation,
// entity and date extraction, then chunking.
package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lexisa/legal-document-processor/lib/blocklist"
	"github.com/lexisa/legal-document-processor/lib/chunk"
	"github.com/lexisa/legal-document-processor/lib/citation"
	"github.com/lexisa/legal-document-processor/lib/classify"
	"github.com/lexisa/legal-document-processor/lib/entity"
	"github.com/lexisa/legal-document-processor/lib/legal"
	"github.com/lexisa/legal-document-processor/lib/text"
)

// Processor holds the compiled extractors. It keeps no state between calls
// and is safe for concurrent use.
type Processor struct {
	citations   *citation.Extractor
	entities    *entity.Extractor
	classifier  *classify.Classifier
	fingerprint string
}

type Option func(*processorOptions)

type processorOptions struct {
	library    citation.Library
	blocklist  *blocklist.Blocklist
	classifier *classify.Classifier
}

// WithCitationLibrary replaces the built-in citation formats.
func WithCitationLibrary(library citation.Library) Option {
	return func(o *processorOptions) {
		o.library = library
	}
}

func WithBlocklist(bl *blocklist.Blocklist) Option {
	return func(o *processorOptions) {
		o.blocklist = bl
	}
}

func WithClassifier(c *classify.Classifier) Option {
	return func(o *processorOptions) {
		o.classifier = c
	}
}

func New(opts ...Option) *Processor {
	o := processorOptions{
		library:    citation.DefaultLibrary(),
		classifier: classify.NewClassifier(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	var entityOpts []entity.Option
	if o.blocklist != nil {
		entityOpts = append(entityOpts, entity.WithBlocklist(o.blocklist))
	}

	fingerprint := o.library.Fingerprint() + "|" + o.classifier.Fingerprint()
	if o.blocklist != nil {
		fingerprint += "|" + o.blocklist.Fingerprint()
	}

	return &Processor{
		citations:   citation.NewExtractor(o.library),
		entities:    entity.NewExtractor(entityOpts...),
		classifier:  o.classifier,
		fingerprint: Hash(fingerprint)[:16],
	}
}

// Fingerprint identifies the citation library, classifier and blocklist the
// processor was built with.
func (p *Processor) Fingerprint() string {
	return p.fingerprint
}

// CacheKey is cfg.CacheKey of the source hash followed by the processor
// fingerprint.
func (p *Processor) CacheKey(source string, cfg legal.Config) string {
	return cfg.CacheKey(Hash(source)) + "|" + p.fingerprint
}

var defaultProcessor = New()

// Process runs the default processor.
func Process(source string, cfg legal.Config) (legal.ProcessedDocument, error) {
	return defaultProcessor.Process(source, cfg)
}

// Hash returns the hex SHA-256 of source.
func Hash(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

/**
	Process turns source into a ProcessedDocument.

	An invalid cfg is the only error: it is reported before any work is done.
	Blank text and text that is not valid UTF-8 are logged and produce an empty
	document carrying the source hash. Everything else always yields a
	document; a failing pattern only loses its own matches.
**/
func (p *Processor) Process(source string, cfg legal.Config) (legal.ProcessedDocument, error) {
	if err := cfg.Validate(); err != nil {
		return legal.ProcessedDocument{}, err
	}

	hash := Hash(source)
	if err := checkInput(source); err != nil {
		log.Warn().Err(err).Str("hash", hash).Msg("returning empty document")
		return legal.EmptyDocument(hash), nil
	}

	start := time.Now()

	classification := p.classify(source, cfg.ClassificationThreshold)
	citations := p.citations.Extract(source)
	entities, dates := p.entities.Extract(source)
	chunks := chunk.Chunk(source, citations, cfg.TargetChunkSize, cfg.Overlap)

	doc := legal.ProcessedDocument{
		SourceTextHash: hash,
		Language:       text.DetectLanguage(source),
		Classification: classification,
		Citations:      citations,
		Entities:       entities,
		KeyDates:       dates,
		Chunks:         chunks,
	}

	log.Debug().
		Str("hash", hash).
		Str("type", string(classification.PredictedType)).
		Int("citations", len(citations)).
		Int("entities", len(entities)).
		Int("dates", len(dates)).
		Int("chunks", len(chunks)).
		Dur("took", time.Since(start)).
		Msg("document processed")

	return doc, nil
}

// Classify runs only the classifier. Confident is set when the confidence
// reaches threshold. Blank or invalid text yields the empty classification.
func (p *Processor) Classify(source string, threshold float64) legal.DocumentClassification {
	if !usable(source) {
		return legal.EmptyDocument("").Classification
	}
	return p.classify(source, threshold)
}

// Citations runs only the citation extractor.
func (p *Processor) Citations(source string) []legal.Citation {
	if !usable(source) {
		return []legal.Citation{}
	}
	return p.citations.Extract(source)
}

// Entities runs only the entity and date extractor.
func (p *Processor) Entities(source string) ([]legal.LegalEntity, []legal.KeyDate) {
	if !usable(source) {
		return []legal.LegalEntity{}, []legal.KeyDate{}
	}
	return p.entities.Extract(source)
}

func (p *Processor) classify(source string, threshold float64) legal.DocumentClassification {
	classification := p.classifier.Classify(source)
	classification.Confident = classification.Confidence >= threshold
	return classification
}

func usable(source string) bool {
	if err := checkInput(source); err != nil {
		log.Warn().Err(err).Msg("returning empty result")
		return false
	}
	return true
}

func checkInput(source string) error {
	if !text.Valid(source) {
		return &legal.InputError{Reason: "text is not valid UTF-8"}
	}
	if text.IsBlank(source) {
		return &legal.InputError{Reason: "text is empty"}
	}
	return nil
}
