package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexisa/legal-document-processor/lib/blocklist"
	"github.com/lexisa/legal-document-processor/lib/citation"
	"github.com/lexisa/legal-document-processor/lib/classify"
	"github.com/lexisa/legal-document-processor/lib/legal"
)

func TestHash(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Hash(""))
	assert.Len(t, Hash("Act 71 of 2008"), 64)
	assert.NotEqual(t, Hash("a"), Hash("b"))
}

func TestProcessorOptions(t *testing.T) {
	bl, err := blocklist.Parse([]byte("case_sensitive: [Beta Trading CC]\n"))
	require.NoError(t, err)

	library, err := citation.ParsePatterns([]byte(`
- name: Government Gazette
  kind: gazette
  regex: '\bGG\s+\d{4,6}\b'
  weight: 0.9
`))
	require.NoError(t, err)

	p := New(WithBlocklist(bl), WithCitationLibrary(library))
	doc, err := p.Process("Beta Trading CC relied on GG 43096 and Act 71 of 2008.", legal.DefaultConfig())
	require.NoError(t, err)

	require.Len(t, doc.Citations, 1)
	assert.Equal(t, legal.FormatKind("gazette"), doc.Citations[0].FormatKind)
	assert.Empty(t, doc.Entities)
	require.Len(t, doc.Chunks, 1)
	assert.Len(t, doc.Chunks[0].Citations, 1)
}

func TestProcessThreshold(t *testing.T) {
	source := "WHEREAS the parties agree."

	low := legal.DefaultConfig()
	low.ClassificationThreshold = 0
	doc, err := Process(source, low)
	require.NoError(t, err)
	assert.Equal(t, legal.TypeContract, doc.Classification.PredictedType)
	assert.True(t, doc.Classification.Confident)

	high := legal.DefaultConfig()
	high.ClassificationThreshold = 1
	doc, err = Process(source, high)
	require.NoError(t, err)
	assert.Equal(t, legal.TypeContract, doc.Classification.PredictedType)
	assert.False(t, doc.Classification.Confident)
}

func TestSingleStagesReturnEmptyResultsForUnusableText(t *testing.T) {
	p := New()
	for _, source := range []string{"", "  \n\t ", "Act 71 of 2008 \xff\xfe"} {
		classification := p.Classify(source, 0)
		assert.Equal(t, legal.TypeOther, classification.PredictedType, "%q", source)
		assert.Zero(t, classification.Confidence, "%q", source)
		assert.Empty(t, classification.TypeScores, "%q", source)
		assert.False(t, classification.Confident, "%q", source)

		citations := p.Citations(source)
		assert.NotNil(t, citations)
		assert.Empty(t, citations, "%q", source)

		entities, dates := p.Entities(source)
		assert.NotNil(t, entities)
		assert.Empty(t, entities, "%q", source)
		assert.NotNil(t, dates)
		assert.Empty(t, dates, "%q", source)
	}
}

func TestCacheKeyFollowsLoadedData(t *testing.T) {
	const source = "Act 71 of 2008"
	cfg := legal.DefaultConfig()

	bl, err := blocklist.Parse([]byte("case_sensitive: [Beta Trading CC]\n"))
	require.NoError(t, err)
	other, err := blocklist.Parse([]byte("case_sensitive: [Alpha Holdings]\n"))
	require.NoError(t, err)
	library, err := citation.ParsePatterns([]byte("- name: gazette\n  kind: gazette\n  regex: 'GG \\d+'\n  weight: 0.9\n"))
	require.NoError(t, err)

	base := New().CacheKey(source, cfg)
	assert.Equal(t, base, New().CacheKey(source, cfg))
	assert.Contains(t, base, cfg.CacheKey(Hash(source)))

	keys := map[string]bool{base: true}
	for _, p := range []*Processor{
		New(WithBlocklist(bl)),
		New(WithBlocklist(other)),
		New(WithCitationLibrary(append(citation.DefaultLibrary(), library...))),
		New(WithClassifier(classify.NewClassifier(classify.WithSaturation(3)))),
	} {
		key := p.CacheKey(source, cfg)
		assert.False(t, keys[key], key)
		keys[key] = true
	}
}
