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

// Package classify predicts the kind of a legal document from weighted
// regular-expression indicators.
package classify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/lexisa/legal-document-processor/lib/legal"
	"github.com/lexisa/legal-document-processor/lib/text"
)

const (
	// DefaultSaturation is k in score/(score+k).
	DefaultSaturation = 2.0
	// DefaultEpsilon is the score difference under which types count as tied.
	DefaultEpsilon = 0.01
)

type Classifier struct {
	signatures Signatures
	saturation float64
	epsilon    float64
}

type Option func(*Classifier)

func WithSignatures(signatures Signatures) Option {
	return func(c *Classifier) {
		c.signatures = signatures
	}
}

func WithSaturation(k float64) Option {
	return func(c *Classifier) {
		c.saturation = k
	}
}

func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		signatures: DefaultSignatures(),
		saturation: DefaultSaturation,
		epsilon:    DefaultEpsilon,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultClassifier = NewClassifier()

// Fingerprint identifies the classifier's signatures and constants.
func (c *Classifier) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%g\x00%g\n", c.saturation, c.epsilon)
	for _, docType := range legal.TypePriority {
		for _, ind := range c.signatures[docType] {
			fmt.Fprintf(h, "%s\x00%s\x00%g\n", docType, ind.Regexp, ind.Weight)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Classify runs the default classifier.
func Classify(text string) legal.DocumentClassification {
	return defaultClassifier.Classify(text)
}

// Scores returns the length-normalised score of every document type.
func (c *Classifier) Scores(source string) map[legal.DocumentType]float64 {
	words := float64(len(text.Words(source)))
	norm := 1 + math.Log(1+words/1000)

	scores := make(map[legal.DocumentType]float64, len(legal.TypePriority))
	for _, docType := range legal.TypePriority {
		raw := 0.0
		for _, ind := range c.signatures[docType] {
			if ind.Regexp.MatchString(source) {
				raw += ind.Weight
			}
		}
		scores[docType] = raw / norm
	}
	return scores
}

/**
	Classify returns the highest scoring document type. Types whose scores lie
	within epsilon of the best are tied and the earliest in legal.TypePriority
	wins, so the result is deterministic. A document with no evidence at all is
	"other" with zero confidence.

	Confident is left false; the caller decides what confidence is enough.
**/
func (c *Classifier) Classify(source string) legal.DocumentClassification {
	scores := c.Scores(source)

	best := 0.0
	for _, score := range scores {
		if score > best {
			best = score
		}
	}
	if best == 0 {
		return legal.DocumentClassification{
			PredictedType: legal.TypeOther,
			Confidence:    0,
			TypeScores:    scores,
		}
	}

	predicted := legal.TypeOther
	for _, docType := range legal.TypePriority {
		if scores[docType] >= best-c.epsilon {
			predicted = docType
			break
		}
	}

	score := scores[predicted]
	return legal.DocumentClassification{
		PredictedType: predicted,
		Confidence:    score / (score + c.saturation),
		TypeScores:    scores,
	}
}
