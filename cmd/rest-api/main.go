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
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/lexisa/legal-document-processor/lib"
	"github.com/lexisa/legal-document-processor/lib/blocklist"
	"github.com/lexisa/legal-document-processor/lib/cache"
	"github.com/lexisa/legal-document-processor/lib/cache/local"
	"github.com/lexisa/legal-document-processor/lib/cache/remote"
	"github.com/lexisa/legal-document-processor/lib/citation"
	"github.com/lexisa/legal-document-processor/lib/legal"
	"github.com/lexisa/legal-document-processor/lib/pipeline"
	"github.com/lexisa/legal-document-processor/lib/store"
)

// config structure
type restAPIConfig struct {
	LogLevel string `mapstructure:"log_level"`
	Server   struct {
		HttpPort     int      `mapstructure:"http_port"`
		AllowOrigins []string `mapstructure:"allow_origins"`
		// RateLimit is requests per second across all clients. Zero disables it.
		RateLimit    float64 `mapstructure:"rate_limit"`
		RateBurst    int     `mapstructure:"rate_burst"`
		MaxBodyBytes int64   `mapstructure:"max_body_bytes"`
	}
	Pipeline legal.Config `mapstructure:"pipeline"`
	Cache    struct {
		Type       cache.Type `mapstructure:"type"`
		MaxEntries int        `mapstructure:"max_entries"`
		Redis      struct {
			Host string
			Port int
			TTL  time.Duration `mapstructure:"ttl"`
		}
		Elasticsearch struct {
			Host  string
			Port  int
			Index string
		}
	}
	Postgres struct {
		DSN string `mapstructure:"dsn"`
	}
	// Patterns is an optional YAML file of extra citation formats.
	Patterns  string `mapstructure:"patterns"`
	Blocklist string `mapstructure:"blocklist"`
}

var config restAPIConfig

func initConfig() {
	if err := lib.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Send()
	}

	// Set default config values
	err := lib.InitializeConfig("./config/rest-api.yml", map[string]interface{}{
		"log_level": "info",
		"server": map[string]interface{}{
			"http_port":      8080,
			"allow_origins":  []string{"*"},
			"rate_limit":     50,
			"rate_burst":     100,
			"max_body_bytes": 10 << 20,
		},
		"pipeline": map[string]interface{}{
			"target_chunk_size":        legal.DefaultTargetChunkSize,
			"overlap":                  legal.DefaultOverlap,
			"classification_threshold": legal.DefaultClassificationThreshold,
		},
		"cache": map[string]interface{}{
			"type":        cache.Local,
			"max_entries": 1000,
			"redis": map[string]interface{}{
				"host": "localhost",
				"port": 6379,
				"ttl":  "24h",
			},
			"elasticsearch": map[string]interface{}{
				"host":  "localhost",
				"port":  9200,
				"index": "processed-documents",
			},
		},
		"postgres": map[string]interface{}{
			"dsn": "",
		},
		"patterns":  "",
		"blocklist": "",
	}, &config)
	if err != nil {
		panic(err)
	}

	if err := config.Pipeline.Validate(); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func newProcessor() (*pipeline.Processor, error) {
	var opts []pipeline.Option
	if config.Patterns != "" {
		extra, err := citation.LoadPatterns(config.Patterns)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithCitationLibrary(append(citation.DefaultLibrary(), extra...)))
	}
	if config.Blocklist != "" {
		bl, err := blocklist.Load(config.Blocklist)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithBlocklist(bl))
	}
	return pipeline.New(opts...), nil
}

func newCache() (cache.Client, error) {
	switch config.Cache.Type {
	case cache.Local:
		return local.New(config.Cache.MaxEntries), nil
	case cache.Redis:
		return remote.NewRedisClient(remote.RedisConfig{
			Host: config.Cache.Redis.Host,
			Port: config.Cache.Redis.Port,
			TTL:  config.Cache.Redis.TTL,
		}), nil
	case cache.Elasticsearch:
		return remote.NewElasticsearchClient(remote.ElasticsearchConfig{
			Host:  config.Cache.Elasticsearch.Host,
			Port:  config.Cache.Elasticsearch.Port,
			Index: config.Cache.Elasticsearch.Index,
		})
	default:
		return nil, fmt.Errorf("unknown cache type %q", config.Cache.Type)
	}
}

func main() {
	initConfig()

	processor, err := newProcessor()
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	cacheClient, err := newCache()
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	if !cacheClient.Ready() {
		log.Warn().Str("type", string(config.Cache.Type)).Msg("cache is not ready")
	}

	c := controller{
		processor: processor,
		cache:     cacheClient,
		defaults:  config.Pipeline,
		maxBytes:  config.Server.MaxBodyBytes,
	}

	if config.Postgres.DSN != "" {
		db, err := store.NewPostgres(context.Background(), config.Postgres.DSN)
		if err != nil {
			log.Fatal().Err(err).Send()
		}
		defer db.Close()
		c.store = db
	}

	var limiter *rate.Limiter
	if config.Server.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.Server.RateLimit), config.Server.RateBurst)
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(lib.JsonLogFormatter), gin.Recovery(), requestID, corsMiddleware(config.Server.AllowOrigins))
	s := server{controller: c, limiter: limiter}
	s.RegisterRoutes(r)

	log.Info().Int("port", config.Server.HttpPort).Str("cache", string(config.Cache.Type)).Msg("starting rest api")
	if err := r.Run(fmt.Sprintf(":%d", config.Server.HttpPort)); err != nil {
		log.Fatal().Err(err).Send()
	}
}
