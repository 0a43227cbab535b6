package pipeline

import (
	"errors"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lexisa/legal-document-processor/lib/legal"
)

const judgment = `IN THE SUPREME COURT OF APPEAL OF SOUTH AFRICA
JUDGMENT
Reportable
Case No: 123/2020

In the matter between:
Acme Holdings (Pty) Ltd                                   Appellant
and
Beta Trading CC (Registration number 2001/012345/07)      Respondent

CORAM: Ponnan JA
Heard on: 3 March 2021
Delivered on: 20 April 2021

The appellant relied on Minister v Smith 2019 (2) SA 343 (SCA) and [2021] ZACC 13.
The respondent's director, identity number 8001015009087, relied on the
Companies Act 71 of 2008 read with the Constitution of the Republic of South Africa, 1996.
Counsel for the respondent again referred to [2021] ZACC 13 in reply.
In the result the appeal is dismissed with costs.`

var _ = Describe("Process", func() {

	cfg := legal.Config{TargetChunkSize: 40, Overlap: 10, ClassificationThreshold: 0.7}

	var _ = Describe("on a judgment", func() {
		var doc legal.ProcessedDocument

		var _ = BeforeEach(func() {
			var err error
			doc, err = Process(judgment, cfg)
			Ω(err).Should(BeNil())
		})

		var _ = It("is idempotent", func() {
			again, err := Process(judgment, cfg)
			Ω(err).Should(BeNil())
			Ω(again).Should(Equal(doc))
		})

		var _ = It("classifies the document", func() {
			Ω(doc.Classification.PredictedType).Should(Equal(legal.TypeJudgment))
			Ω(doc.Classification.Confident).Should(BeTrue())
			Ω(doc.Language).Should(Equal(legal.LanguageEnglish))
		})

		var _ = It("finds each citation once", func() {
			Ω(doc.Citations).Should(HaveLen(4))
			seen := map[string]bool{}
			for _, c := range doc.Citations {
				Ω(seen[c.Key()]).Should(BeFalse())
				seen[c.Key()] = true
			}
			Ω(doc.Citations[1].FormatKind).Should(Equal(legal.FormatNeutral))
			Ω(doc.Citations[1].Spans).Should(HaveLen(2))
		})

		var _ = It("never attaches a citation a chunk does not contain", func() {
			keys := map[string]bool{}
			for _, c := range doc.Citations {
				keys[c.Key()] = true
			}
			Ω(doc.Chunks).ShouldNot(BeEmpty())
			for _, ch := range doc.Chunks {
				for _, c := range ch.Citations {
					Ω(keys[c.Key()]).Should(BeTrue())
					Ω(c.IntersectsSpan(ch.Span())).Should(BeTrue())
				}
			}
		})

		var _ = It("keeps chunks inside the text and in order", func() {
			for i, ch := range doc.Chunks {
				Ω(ch.Index).Should(Equal(i))
				Ω(ch.StartOffset).Should(BeNumerically(">=", 0))
				Ω(ch.StartOffset).Should(BeNumerically("<", ch.EndOffset))
				Ω(ch.EndOffset).Should(BeNumerically("<=", len(judgment)))
				Ω(judgment[ch.StartOffset:ch.EndOffset]).Should(Equal(ch.Text))
				if i > 0 {
					Ω(doc.Chunks[i-1].StartOffset).Should(BeNumerically("<", ch.StartOffset))
				}
			}
		})

		var _ = It("extracts the identity number with its span", func() {
			var ids []legal.LegalEntity
			for _, e := range doc.Entities {
				if e.Kind == legal.EntityIDNumber {
					ids = append(ids, e)
				}
			}
			Ω(ids).Should(HaveLen(1))
			start := strings.Index(judgment, "8001015009087")
			Ω(ids[0].Span).Should(Equal(legal.Span{Start: start, End: start + 13}))
		})

		var _ = It("extracts dated events", func() {
			Ω(doc.KeyDates).Should(HaveLen(2))
			Ω(doc.KeyDates[0].Role).Should(Equal(legal.RoleHearing))
			Ω(doc.KeyDates[0].ParsedDate.String()).Should(Equal("2021-03-03"))
		})
	})

	var _ = Describe("boundaries", func() {

		var _ = It("returns an empty document for blank text", func() {
			for _, source := range []string{"", "   \n\t"} {
				doc, err := Process(source, cfg)
				Ω(err).Should(BeNil())
				Ω(doc).Should(Equal(legal.EmptyDocument(Hash(source))))
				Ω(doc.Classification.Confidence).Should(BeZero())
			}
		})

		var _ = It("returns an empty document for invalid UTF-8", func() {
			doc, err := Process("Act 71 of 2008 \xff\xfe", cfg)
			Ω(err).Should(BeNil())
			Ω(doc.Citations).Should(BeEmpty())
			Ω(doc.Chunks).Should(BeEmpty())
		})

		var _ = It("fails fast on an invalid config", func() {
			_, err := Process(judgment, legal.Config{TargetChunkSize: 10, Overlap: 10})
			Ω(errors.Is(err, legal.ErrInvalidConfig)).Should(BeTrue())

			var configErr *legal.ConfigError
			Ω(errors.As(err, &configErr)).Should(BeTrue())
			Ω(configErr.Field).Should(Equal("overlap"))
		})

		var _ = It("prefers judgment when judgment and contract tie", func() {
			doc, err := Process("IN THE HIGH COURT OF SOUTH AFRICA\nWHEREAS the parties agree to settle.", cfg)
			Ω(err).Should(BeNil())
			Ω(doc.Classification.PredictedType).Should(Equal(legal.TypeJudgment))
		})
	})

	var _ = It("is safe for concurrent use", func() {
		expected, err := Process(judgment, cfg)
		Ω(err).Should(BeNil())

		var wg sync.WaitGroup
		results := make([]legal.ProcessedDocument, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = Process(judgment, cfg)
			}(i)
		}
		wg.Wait()

		for _, doc := range results {
			Ω(doc).Should(Equal(expected))
		}
	})
})
