package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexisa/legal-document-processor/lib/legal"
	"github.com/lexisa/legal-document-processor/lib/pipeline"
)

func TestSaveQueries(t *testing.T) {
	doc, err := pipeline.Process("The Companies Act 71 of 2008 applies to the respondent.", legal.DefaultConfig())
	require.NoError(t, err)
	key := legal.DefaultConfig().CacheKey(doc.SourceTextHash)

	queries, err := saveQueries(key, doc)
	require.NoError(t, err)
	require.Len(t, queries, 5)

	upsert, args, err := queries[0].ToSql()
	require.NoError(t, err)
	assert.Contains(t, upsert, "INSERT INTO processed_documents")
	assert.Contains(t, upsert, "ON CONFLICT (cache_key) DO UPDATE")
	assert.Contains(t, upsert, "$6")
	assert.Equal(t, key, args[0])

	deleteCitations, args, err := queries[1].ToSql()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM document_citations WHERE cache_key = $1", deleteCitations)
	assert.Equal(t, []interface{}{key}, args)

	citations, args, err := queries[3].ToSql()
	require.NoError(t, err)
	assert.Contains(t, citations, "INSERT INTO document_citations")
	assert.Len(t, args, 7)

	chunks, args, err := queries[4].ToSql()
	require.NoError(t, err)
	assert.Contains(t, chunks, "INSERT INTO document_chunks")
	assert.Len(t, args, 7*len(doc.Chunks))
}

func TestSaveQueriesEmptyDocument(t *testing.T) {
	queries, err := saveQueries("k", legal.EmptyDocument("h"))
	require.NoError(t, err)
	assert.Len(t, queries, 3)
}

func TestLoadQuery(t *testing.T) {
	query, args, err := loadQuery("k").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT payload FROM processed_documents WHERE cache_key = $1", query)
	assert.Equal(t, []interface{}{"k"}, args)
}

// Set POSTGRES_TEST_DSN to run against a live database.
func TestPostgres(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("set POSTGRES_TEST_DSN to run postgres tests")
	}

	ctx := context.Background()
	db, err := NewPostgres(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()
	assert.True(t, db.Ready())

	doc, err := pipeline.Process("Section 3 of Act 71 of 2008.", legal.DefaultConfig())
	require.NoError(t, err)
	key := legal.DefaultConfig().CacheKey(doc.SourceTextHash)

	require.NoError(t, db.Set(ctx, key, doc))
	require.NoError(t, db.Set(ctx, key, doc))

	loaded, err := db.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, doc, *loaded)

	missing, err := db.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
