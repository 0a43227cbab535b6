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

package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis"

	"github.com/lexisa/legal-document-processor/lib/cache"
	"github.com/lexisa/legal-document-processor/lib/legal"
)

type RedisConfig struct {
	Host string
	Port int
	// TTL of each entry. Zero keeps entries until evicted by redis.
	TTL time.Duration
}

func NewRedisClient(conf RedisConfig) cache.Client {
	return &redisClient{
		Client: redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%d", conf.Host, conf.Port)}),
		ttl: conf.TTL,
	}
}

type redisClient struct {
	*redis.Client
	ttl time.Duration
}

func (r *redisClient) Ready() bool {
	return r.Ping().Err() == nil
}

func (r *redisClient) Get(ctx context.Context, key string) (*legal.ProcessedDocument, error) {
	b, err := r.WithContext(ctx).Get(key).Bytes()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}

	var entry cache.Entry
	if err := json.Unmarshal(b, &entry); err != nil {
		return nil, err
	}
	return &entry.Document, nil
}

func (r *redisClient) Set(ctx context.Context, key string, doc legal.ProcessedDocument) error {
	data, err := json.Marshal(cache.Entry{Key: key, Document: doc})
	if err != nil {
		return err
	}
	if err := r.WithContext(ctx).Set(key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}
