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

package classify

import (
	"regexp"

	"github.com/lexisa/legal-document-processor/lib/legal"
)

// Indicator is one piece of evidence for a document type. It contributes its
// weight once no matter how often it matches.
type Indicator struct {
	Regexp *regexp.Regexp
	Weight float64
}

// Signatures maps each document type to its indicators. A type without
// indicators can only win when every score is zero.
type Signatures map[legal.DocumentType][]Indicator

func indicator(expr string, weight float64) Indicator {
	return Indicator{Regexp: regexp.MustCompile(expr), Weight: weight}
}

// DefaultSignatures returns the built-in South African document signatures.
func DefaultSignatures() Signatures {
	return Signatures{
		legal.TypeJudgment: {
			indicator(`\bIN THE (?:HIGH COURT|SUPREME COURT OF APPEAL|CONSTITUTIONAL COURT|LABOUR (?:APPEAL )?COURT)`, 3.0),
			indicator(`(?i)\bjudgment\b`, 2.0),
			indicator(`(?i)\bcoram\b`, 1.0),
			indicator(`(?i)\bthe\s+(?:appeal|application)\s+is\s+(?:upheld|dismissed)`, 2.0),
			indicator(`(?i)\bin\s+the\s+result\b`, 1.5),
			indicator(`(?i)\bthe\s+following\s+order\b`, 1.5),
			indicator(`\b[A-Z]{2,}[ \t]+(?:J|JA|AJ|AJA|CJ|DCJ|JP|ADJP)\b`, 1.5),
			indicator(`(?i)\breportable\b`, 1.0),
		},
		legal.TypePleading: {
			indicator(`\bIN THE (?:HIGH COURT|MAGISTRATES?['’]?S? COURT|REGIONAL COURT)`, 2.0),
			indicator(`(?i)\bcase\s+no\b`, 1.0),
			indicator(`(?i)\bparticulars\s+of\s+claim\b`, 2.5),
			indicator(`(?i)\bnotice\s+of\s+motion\b`, 2.5),
			indicator(`(?i)\b(?:founding|answering|replying|supporting)\s+affidavit\b`, 2.5),
			indicator(`(?i)\bplaintiff\s+claims\b`, 1.5),
			indicator(`(?i)\bwherefore\b`, 1.5),
			indicator(`(?i)\btake\s+notice\b`, 1.5),
			indicator(`(?i)\bdeponent\b`, 1.0),
		},
		legal.TypeContract: {
			indicator(`\bWHEREAS\b`, 1.5),
			indicator(`(?i)\bthe\s+parties\s+agree`, 1.5),
			indicator(`(?i)\b(?:memorandum\s+of\s+agreement|this\s+agreement|lease\s+agreement|sale\s+agreement)\b`, 2.5),
			indicator(`(?i)\bsigned\s+at\b`, 1.5),
			indicator(`(?i)\b(?:hereinafter|hereto|hereby)\b`, 1.0),
			indicator(`(?i)\b(?:governing\s+law|termination|breach|warrant(?:y|ies)|indemnif(?:y|ies|ication))\b`, 1.5),
			indicator(`(?i)\bas\s+witnesses\b`, 1.0),
		},
		legal.TypeStatute: {
			indicator(`(?i)\bbe\s+it\s+(?:therefore\s+)?enacted\b`, 3.0),
			indicator(`(?i)\bshort\s+title\s+and\s+commencement\b`, 3.0),
			indicator(`(?i)\bin\s+this\s+Act,?\s+unless\s+the\s+context\b`, 2.5),
			indicator(`(?i)\bthis\s+Act\b`, 1.5),
			indicator(`(?i)\bMinister\s+may\s+(?:by\s+notice|make\s+regulations)\b`, 2.0),
			indicator(`(?i)\bGovernment\s+Gazette\b`, 1.5),
			indicator(`(?i)\bdefinitions\b`, 1.0),
		},
		legal.TypeOpinion: {
			indicator(`(?i)\b(?:we|I)\s+ha(?:ve|s)\s+been\s+(?:asked|instructed|requested)\s+to\s+advise\b`, 3.0),
			indicator(`(?i)\b(?:we|I)\s+(?:am|are)\s+of\s+the\s+(?:view|opinion)\b`, 2.0),
			indicator(`(?i)\bour\s+advice\b`, 2.0),
			indicator(`(?i)\blegal\s+opinion\b`, 2.0),
			indicator(`(?i)\bconsultation\b`, 1.0),
			indicator(`(?i)\bin\s+(?:summary|conclusion)\b`, 1.0),
		},
		legal.TypeCorrespondence: {
			indicator(`(?mi)^\s*dear\s+\w+`, 3.0),
			indicator(`(?i)\b(?:yours\s+(?:faithfully|sincerely|truly)|kind\s+regards)\b`, 3.0),
			indicator(`(?mi)^\s*(?:re|subject)\s*:`, 1.5),
			indicator(`(?i)\bwithout\s+prejudice\b`, 1.5),
			indicator(`(?i)\b(?:our|your)\s+ref(?:erence)?\b`, 1.5),
			indicator(`(?i)\bwe\s+refer\s+to\s+your\b`, 1.5),
		},
	}
}
