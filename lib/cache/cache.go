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

// Package cache stores processed documents keyed by pipeline.Processor.CacheKey.
package cache

import (
	"context"

	"github.com/lexisa/legal-document-processor/lib/legal"
)

type Type string

const (
	Local         Type = "local"
	Redis         Type = "redis"
	Elasticsearch Type = "elasticsearch"
)

// Client is implemented by every cache backend. Get returns nil without an
// error on a miss.
type Client interface {
	Get(ctx context.Context, key string) (*legal.ProcessedDocument, error)
	Set(ctx context.Context, key string, doc legal.ProcessedDocument) error
	Ready() bool
}

// Entry is the stored form of a cached document.
type Entry struct {
	Key      string                  `json:"key"`
	Document legal.ProcessedDocument `json:"document"`
}
