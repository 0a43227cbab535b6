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

// Package store persists processed documents to PostgreSQL. A document row
// holds the full JSON result; citations and chunks are also written to their
// own tables so they can be queried directly.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/lexisa/legal-document-processor/lib/cache"
	"github.com/lexisa/legal-document-processor/lib/legal"
)

const schema = `
CREATE TABLE IF NOT EXISTS processed_documents (
	cache_key        TEXT PRIMARY KEY,
	source_text_hash TEXT NOT NULL,
	predicted_type   TEXT NOT NULL,
	confidence       DOUBLE PRECISION NOT NULL,
	language         TEXT NOT NULL,
	payload          JSONB NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS document_citations (
	cache_key       TEXT NOT NULL REFERENCES processed_documents (cache_key) ON DELETE CASCADE,
	position        INTEGER NOT NULL,
	normalized_text TEXT NOT NULL,
	format_kind     TEXT NOT NULL,
	court           TEXT,
	year            INTEGER,
	confidence      DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (cache_key, position)
);
CREATE TABLE IF NOT EXISTS document_chunks (
	cache_key    TEXT NOT NULL REFERENCES processed_documents (cache_key) ON DELETE CASCADE,
	chunk_index  INTEGER NOT NULL,
	start_offset INTEGER NOT NULL,
	end_offset   INTEGER NOT NULL,
	word_count   INTEGER NOT NULL,
	chunk_text   TEXT NOT NULL,
	legal_terms  TEXT[] NOT NULL,
	PRIMARY KEY (cache_key, chunk_index)
);`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Postgres struct {
	db *pgxpool.Pool
}

var _ cache.Client = (*Postgres)(nil)

// NewPostgres connects to dsn and creates the schema if needed.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if _, err := db.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	log.Info().Msg("postgres store ready")
	return &Postgres{db: db}, nil
}

func (p *Postgres) Close() {
	p.db.Close()
}

func (p *Postgres) Ready() bool {
	return p.db.Ping(context.Background()) == nil
}

// Set saves doc under key, replacing any earlier result for the same key.
func (p *Postgres) Set(ctx context.Context, key string, doc legal.ProcessedDocument) error {
	queries, err := saveQueries(key, doc)
	if err != nil {
		return err
	}

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, q := range queries {
		query, args, err := q.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to save document %s: %w", doc.SourceTextHash, err)
		}
	}
	return tx.Commit(ctx)
}

// Get loads the document stored under key, or nil if there is none.
func (p *Postgres) Get(ctx context.Context, key string) (*legal.ProcessedDocument, error) {
	query, args, err := loadQuery(key).ToSql()
	if err != nil {
		return nil, err
	}

	var payload []byte
	err = p.db.QueryRow(ctx, query, args...).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	var doc legal.ProcessedDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// saveQueries returns the statements that replace the stored result for key.
func saveQueries(key string, doc legal.ProcessedDocument) ([]sq.Sqlizer, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	queries := []sq.Sqlizer{
		psql.Insert("processed_documents").
			Columns("cache_key", "source_text_hash", "predicted_type", "confidence", "language", "payload").
			Values(key, doc.SourceTextHash, string(doc.Classification.PredictedType),
				doc.Classification.Confidence, string(doc.Language), payload).
			Suffix("ON CONFLICT (cache_key) DO UPDATE SET " +
				"predicted_type = EXCLUDED.predicted_type, confidence = EXCLUDED.confidence, " +
				"language = EXCLUDED.language, payload = EXCLUDED.payload, updated_at = now()"),
		psql.Delete("document_citations").Where(sq.Eq{"cache_key": key}),
		psql.Delete("document_chunks").Where(sq.Eq{"cache_key": key}),
	}

	if len(doc.Citations) > 0 {
		insert := psql.Insert("document_citations").
			Columns("cache_key", "position", "normalized_text", "format_kind", "court", "year", "confidence")
		for i, c := range doc.Citations {
			insert = insert.Values(key, i, c.NormalizedText, string(c.FormatKind), c.Court, c.Year, c.Confidence)
		}
		queries = append(queries, insert)
	}

	if len(doc.Chunks) > 0 {
		insert := psql.Insert("document_chunks").
			Columns("cache_key", "chunk_index", "start_offset", "end_offset", "word_count", "chunk_text", "legal_terms")
		for _, c := range doc.Chunks {
			insert = insert.Values(key, c.Index, c.StartOffset, c.EndOffset, c.WordCount, c.Text, c.LegalTerms)
		}
		queries = append(queries, insert)
	}
	return queries, nil
}

func loadQuery(key string) sq.SelectBuilder {
	return psql.Select("payload").From("processed_documents").Where(sq.Eq{"cache_key": key})
}
