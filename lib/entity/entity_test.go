package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexisa/legal-document-processor/lib/blocklist"
	"github.com/lexisa/legal-document-processor/lib/legal"
)

func spanOf(t *testing.T, source, needle string) legal.Span {
	t.Helper()
	start := strings.Index(source, needle)
	require.GreaterOrEqual(t, start, 0, needle)
	return legal.Span{Start: start, End: start + len(needle)}
}

func TestExtractIDNumber(t *testing.T) {
	source := "The applicant, whose identity number is 8001015009087, resides in Durban."
	entities, dates := Extract(source)

	require.Len(t, entities, 1)
	assert.Equal(t, legal.EntityIDNumber, entities[0].Kind)
	assert.Equal(t, "8001015009087", entities[0].RawText)
	assert.Equal(t, spanOf(t, source, "8001015009087"), entities[0].Span)
	assert.Empty(t, dates)
	assert.NotNil(t, dates)
}

func TestExtractIDNumberNeedsExactLength(t *testing.T) {
	entities, _ := Extract("account 80010150090871 and reference 800101500908")
	assert.Empty(t, entities)
}

func TestExtractPersons(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "titles",
			text:     "Mr John Smith appeared for the applicant and Adv. T. Ngcukaitobi for the respondent.",
			expected: []string{"Mr John Smith", "Adv. T. Ngcukaitobi"},
		},
		{
			name:     "presiding judge",
			text:     "Heard before THE HONOURABLE MR JUSTICE DAMBUZA on 3 March 2020",
			expected: []string{"MR JUSTICE DAMBUZA"},
		},
		{
			name:     "coram",
			text:     "CORAM: Mogoeng CJ",
			expected: []string{"Mogoeng CJ"},
		},
		{
			name:     "practitioner",
			text:     "Instructed by Thandi Mokoena, Attorney",
			expected: []string{"Thandi Mokoena"},
		},
		{
			name:     "judge with title",
			text:     "as Madam Justice Mokgoro observed",
			expected: []string{"Madam Justice Mokgoro"},
		},
	}
	for _, tt := range tests {
		entities, _ := Extract(tt.text)
		var persons []string
		for _, e := range entities {
			if e.Kind == legal.EntityPerson {
				persons = append(persons, e.RawText)
				assert.Equal(t, e.RawText, tt.text[e.Span.Start:e.Span.End], tt.name)
			}
		}
		assert.Equal(t, tt.expected, persons, tt.name)
	}
}

func TestExtractCompanies(t *testing.T) {
	source := "between Acme Holdings (Pty) Ltd and Beta Trading CC, guaranteed by The Standard Bank of South Africa Limited"
	entities, _ := Extract(source)

	var companies []string
	for _, e := range entities {
		if e.Kind == legal.EntityCompany {
			companies = append(companies, e.RawText)
		}
	}
	assert.Equal(t, []string{
		"Acme Holdings (Pty) Ltd",
		"Beta Trading CC",
		"Standard Bank of South Africa Limited",
	}, companies)
}

func TestExtractCourtsAndRegistrationNumbers(t *testing.T) {
	source := "IN THE HIGH COURT OF SOUTH AFRICA\nGAUTENG DIVISION, PRETORIA\n" +
		"Beta Trading CC (Registration number 2001/012345/07)"
	entities, _ := Extract(source)

	require.Len(t, entities, 4)
	assert.Equal(t, legal.LegalEntity{
		Kind:    legal.EntityCourt,
		RawText: "HIGH COURT OF SOUTH AFRICA",
		Span:    spanOf(t, source, "HIGH COURT OF SOUTH AFRICA"),
	}, entities[0])
	assert.Equal(t, legal.EntityCourt, entities[1].Kind)
	assert.Equal(t, "GAUTENG DIVISION", entities[1].RawText)
	assert.Equal(t, legal.EntityCompany, entities[2].Kind)
	assert.Equal(t, legal.EntityRegistrationNumber, entities[3].Kind)
	assert.Equal(t, "2001/012345/07", entities[3].RawText)

	for i := 1; i < len(entities); i++ {
		assert.LessOrEqual(t, entities[i-1].Span.Start, entities[i].Span.Start)
	}
}

func TestExtractCourtApostrophes(t *testing.T) {
	for _, source := range []string{"the Magistrates' Court, Durban", "the Magistrates’ Court, Durban"} {
		entities, _ := Extract(source)
		require.Len(t, entities, 1, source)
		assert.Equal(t, legal.EntityCourt, entities[0].Kind)
		assert.True(t, strings.HasPrefix(entities[0].RawText, "Magistrates"))
	}
}

func TestExtractWithBlocklist(t *testing.T) {
	bl, err := blocklist.Parse([]byte("case_insensitive: [acme holdings (pty) ltd]\n"))
	require.NoError(t, err)

	entities, _ := NewExtractor(WithBlocklist(bl)).Extract("between Acme Holdings (Pty) Ltd and Beta Trading CC")
	require.Len(t, entities, 1)
	assert.Equal(t, "Beta Trading CC", entities[0].RawText)
}

func TestFilterSubmatches(t *testing.T) {
	long := legal.LegalEntity{Kind: legal.EntityPerson, RawText: "Mr Justice Smith", Span: legal.Span{Start: 0, End: 16}}
	short := legal.LegalEntity{Kind: legal.EntityPerson, RawText: "Justice Smith", Span: legal.Span{Start: 3, End: 16}}
	court := legal.LegalEntity{Kind: legal.EntityCourt, RawText: "Justice", Span: legal.Span{Start: 3, End: 10}}

	assert.Equal(t, []legal.LegalEntity{long, court}, FilterSubmatches([]legal.LegalEntity{short, long, court}))
	assert.Equal(t, []legal.LegalEntity{long}, FilterSubmatches([]legal.LegalEntity{long, long}))
}

func TestFilterSubmatchesChains(t *testing.T) {
	person := func(start, end int) legal.LegalEntity {
		return legal.LegalEntity{Kind: legal.EntityPerson, Span: legal.Span{Start: start, End: end}}
	}

	// each entity is shadowed by the next, longer one
	assert.Equal(t,
		[]legal.LegalEntity{person(15, 40)},
		FilterSubmatches([]legal.LegalEntity{person(0, 10), person(5, 17), person(15, 40)}))

	// a shorter overlap does not hide the entity after it
	assert.Equal(t,
		[]legal.LegalEntity{person(0, 20), person(22, 50)},
		FilterSubmatches([]legal.LegalEntity{person(22, 50), person(15, 25), person(0, 20)}))

	// equal lengths keep the earlier start
	assert.Equal(t,
		[]legal.LegalEntity{person(0, 10)},
		FilterSubmatches([]legal.LegalEntity{person(5, 15), person(0, 10)}))
}

func TestFilterSubmatchesScales(t *testing.T) {
	const n = 200000
	entities := make([]legal.LegalEntity, 0, 2*n)
	for i := 0; i < n; i++ {
		start := i * 20
		entities = append(entities,
			legal.LegalEntity{Kind: legal.EntityCompany, Span: legal.Span{Start: start, End: start + 15}},
			legal.LegalEntity{Kind: legal.EntityCompany, Span: legal.Span{Start: start + 5, End: start + 15}},
		)
	}

	began := time.Now()
	filtered := FilterSubmatches(entities)
	elapsed := time.Since(began)

	require.Len(t, filtered, n)
	for i, e := range filtered {
		assert.Equal(t, legal.Span{Start: i * 20, End: i*20 + 15}, e.Span)
	}
	// pairwise comparison of 400k entities takes minutes
	assert.Less(t, elapsed, 5*time.Second)
}

func TestEntitiesOnLongDocument(t *testing.T) {
	const repeats = 5000
	sentence := "The deponent, ID number 8001015009087, acts for registration number 2001/123456/07. "
	entities, _ := Extract(strings.Repeat(sentence, repeats))

	require.Len(t, entities, 2*repeats)
	for i := 0; i < repeats; i++ {
		assert.Equal(t, legal.EntityIDNumber, entities[2*i].Kind)
		assert.Equal(t, legal.EntityRegistrationNumber, entities[2*i+1].Kind)
		assert.Equal(t, i*len(sentence)+spanOf(t, sentence, "8001015009087").Start, entities[2*i].Span.Start)
	}
}

func TestExtractEmpty(t *testing.T) {
	entities, dates := Extract("")
	assert.NotNil(t, entities)
	assert.Empty(t, entities)
	assert.NotNil(t, dates)
	assert.Empty(t, dates)
}
