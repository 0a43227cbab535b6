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

package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/lexisa/legal-document-processor/lib/cache"
	"github.com/lexisa/legal-document-processor/lib/legal"
	"github.com/lexisa/legal-document-processor/lib/pipeline"
)

type controller struct {
	processor *pipeline.Processor
	cache     cache.Client
	// store is an optional sink written after every processed document.
	store    cache.Client
	defaults legal.Config
	maxBytes int64
}

type entitiesResponse struct {
	Entities []legal.LegalEntity `json:"entities"`
	KeyDates []legal.KeyDate     `json:"key_dates"`
}

// Process returns the cached document for source under cfg, or processes and
// caches it. Cache and store failures are logged and never fail the request.
func (c controller) Process(ctx context.Context, source string, cfg legal.Config) (legal.ProcessedDocument, error) {
	if err := cfg.Validate(); err != nil {
		return legal.ProcessedDocument{}, err
	}

	key := c.processor.CacheKey(source, cfg)
	if c.cache != nil {
		cached, err := c.cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache lookup failed")
		} else if cached != nil {
			log.Debug().Str("key", key).Msg("cache hit")
			return *cached, nil
		}
	}

	doc, err := c.processor.Process(source, cfg)
	if err != nil {
		return legal.ProcessedDocument{}, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, doc); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("could not cache document")
		}
	}
	if c.store != nil {
		if err := c.store.Set(ctx, key, doc); err != nil {
			log.Error().Err(err).Str("key", key).Msg("could not persist document")
		}
	}
	return doc, nil
}

func (c controller) Classify(source string, threshold float64) legal.DocumentClassification {
	return c.processor.Classify(source, threshold)
}

func (c controller) Citations(source string) []legal.Citation {
	return c.processor.Citations(source)
}

func (c controller) Entities(source string) entitiesResponse {
	entities, dates := c.processor.Entities(source)
	return entitiesResponse{Entities: entities, KeyDates: dates}
}

func (c controller) Ready() bool {
	return c.cache == nil || c.cache.Ready()
}
