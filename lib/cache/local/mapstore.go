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

package local

import (
	"context"
	"sync"

	"github.com/lexisa/legal-document-processor/lib/cache"
	"github.com/lexisa/legal-document-processor/lib/legal"
)

// New returns an in-process cache. maxEntries bounds the store; when it is
// full an arbitrary entry is evicted. Zero means unbounded.
func New(maxEntries int) *Store {
	return &Store{
		store:      make(map[string]legal.ProcessedDocument),
		mut:        &sync.RWMutex{},
		maxEntries: maxEntries,
	}
}

var _ cache.Client = (*Store)(nil)

type Store struct {
	store      map[string]legal.ProcessedDocument
	mut        *sync.RWMutex
	maxEntries int
}

func (l *Store) Get(_ context.Context, key string) (*legal.ProcessedDocument, error) {
	l.mut.RLock()
	defer l.mut.RUnlock()

	doc, ok := l.store[key]
	if !ok {
		return nil, nil
	}

	return &doc, nil
}

func (l *Store) Set(_ context.Context, key string, doc legal.ProcessedDocument) error {
	l.mut.Lock()
	defer l.mut.Unlock()

	if _, ok := l.store[key]; !ok && l.maxEntries > 0 && len(l.store) >= l.maxEntries {
		for k := range l.store {
			delete(l.store, k)
			break
		}
	}
	l.store[key] = doc
	return nil
}

func (l *Store) Delete(key string) {
	l.mut.Lock()
	defer l.mut.Unlock()

	delete(l.store, key)
}

func (l *Store) Len() int {
	l.mut.RLock()
	defer l.mut.RUnlock()

	return len(l.store)
}

func (l *Store) Ready() bool {
	return true
}
