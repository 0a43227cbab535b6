package classify

import (
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexisa/legal-document-processor/lib/legal"
)

func TestClassifyTypicalDocuments(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected legal.DocumentType
	}{
		{
			name: "judgment",
			text: "IN THE SUPREME COURT OF APPEAL OF SOUTH AFRICA\nJUDGMENT\nCORAM: Ponnan JA\n" +
				"In the result the appeal is dismissed with costs.",
			expected: legal.TypeJudgment,
		},
		{
			name: "pleading",
			text: "IN THE HIGH COURT OF SOUTH AFRICA\nCase No: 1234/2021\nNOTICE OF MOTION\n" +
				"TAKE NOTICE that the applicant intends to apply for an order.\nFOUNDING AFFIDAVIT",
			expected: legal.TypePleading,
		},
		{
			name: "contract",
			text: "MEMORANDUM OF AGREEMENT\nWHEREAS the parties agree to the terms of this Agreement.\n" +
				"Signed at Cape Town.",
			expected: legal.TypeContract,
		},
		{
			name: "statute",
			text: "BE IT ENACTED by the Parliament of the Republic of South Africa, as follows:\n1. Definitions\n" +
				"In this Act, unless the context indicates otherwise, the Minister means the Minister of Justice.\n" +
				"2. Short title and commencement\nThis Act is called the Example Act, 2024.",
			expected: legal.TypeStatute,
		},
		{
			name: "opinion",
			text: "We have been asked to advise on the prospects of the claim. We are of the view that " +
				"the claim will fail. Our advice is to settle.",
			expected: legal.TypeOpinion,
		},
		{
			name:     "correspondence",
			text:     "Dear Sir\nRE: OUTSTANDING FEES\nWe refer to your letter.\nYours faithfully",
			expected: legal.TypeCorrespondence,
		},
	}
	for _, tt := range tests {
		got := Classify(tt.text)
		assert.Equal(t, tt.expected, got.PredictedType, tt.name)
		assert.Greater(t, got.Confidence, 0.0, tt.name)
		assert.LessOrEqual(t, got.Confidence, 1.0, tt.name)
		assert.Len(t, got.TypeScores, len(legal.TypePriority), tt.name)
		assert.False(t, got.Confident, tt.name)
	}
}

func TestClassifyTieBreak(t *testing.T) {
	got := Classify("IN THE HIGH COURT OF SOUTH AFRICA\nWHEREAS the parties agree to settle.")

	assert.Equal(t, got.TypeScores[legal.TypeJudgment], got.TypeScores[legal.TypeContract])
	assert.Greater(t, got.TypeScores[legal.TypeJudgment], got.TypeScores[legal.TypePleading])
	assert.Equal(t, legal.TypeJudgment, got.PredictedType)
}

func TestClassifyNoEvidence(t *testing.T) {
	for _, source := range []string{"", "The quick brown fox jumps over the lazy dog."} {
		got := Classify(source)
		assert.Equal(t, legal.TypeOther, got.PredictedType)
		assert.Equal(t, 0.0, got.Confidence)
		for _, score := range got.TypeScores {
			assert.Equal(t, 0.0, score)
		}
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	source := "IN THE HIGH COURT OF SOUTH AFRICA\nJUDGMENT\nWHEREAS the parties agree. Dear Sir"
	first := Classify(source)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(source))
	}
}

func TestScoresNormaliseByLength(t *testing.T) {
	c := NewClassifier(WithSignatures(Signatures{
		legal.TypeContract: {{Regexp: regexp.MustCompile(`WHEREAS`), Weight: 2}},
	}))

	short := c.Scores("WHEREAS")
	assert.InDelta(t, 2/(1+math.Log(1+1.0/1000)), short[legal.TypeContract], 1e-9)

	long := "WHEREAS"
	for i := 0; i < 2000; i++ {
		long += " word"
	}
	assert.Less(t, c.Scores(long)[legal.TypeContract], short[legal.TypeContract])
}

func TestClassifyIndicatorCountsOnce(t *testing.T) {
	c := NewClassifier(WithSignatures(Signatures{
		legal.TypeContract: {{Regexp: regexp.MustCompile(`WHEREAS`), Weight: 2}},
	}), WithSaturation(1))

	once := c.Classify("WHEREAS one WHEREAS two")
	twice := c.Classify("WHEREAS one and two")
	require.Equal(t, legal.TypeContract, once.PredictedType)
	assert.InDelta(t, once.Confidence, twice.Confidence, 1e-9)
	score := once.TypeScores[legal.TypeContract]
	assert.InDelta(t, score/(score+1), once.Confidence, 1e-9)
}
