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

package text

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// disallowedNodes hide their content. Void elements such as <meta> have no
// end tag and must not be listed.
var disallowedNodes = map[string]struct{}{
	"audio":    {},
	"head":     {},
	"noscript": {},
	"script":   {},
	"style":    {},
	"textarea": {},
	"title":    {},
	"video":    {},
}

var nonBreakingNodes = map[string]struct{}{
	"span":   {},
	"sub":    {},
	"sup":    {},
	"b":      {},
	"del":    {},
	"i":      {},
	"ins":    {},
	"mark":   {},
	"q":      {},
	"s":      {},
	"strike": {},
	"strong": {},
	"u":      {},
	"big":    {},
	"small":  {},
	"a":      {},
	"em":     {},
	"emph":   {},
}

// HTMLToText extracts the visible text of an HTML document. Block level end
// tags and <br> become line breaks; inline tags are joined to their
// neighbours so "Con<em>stitution</em>" stays one word.
func HTMLToText(r io.Reader) (string, error) {
	tokenizer := html.NewTokenizer(r)
	var out strings.Builder
	disallowedDepth := 0

	newline := func() {
		s := out.String()
		if len(s) > 0 && s[len(s)-1] != '\n' {
			out.WriteByte('\n')
		}
	}

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != io.EOF {
				return "", err
			}
			return strings.TrimSpace(out.String()), nil
		case html.TextToken:
			if disallowedDepth == 0 {
				out.Write(tokenizer.Text())
			}
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if _, ok := disallowedNodes[string(tn)]; ok {
				disallowedDepth++
			} else if string(tn) == "br" && disallowedDepth == 0 {
				out.WriteByte('\n')
			}
		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			name := string(tn)
			if _, ok := disallowedNodes[name]; ok {
				if disallowedDepth > 0 {
					disallowedDepth--
				}
				continue
			}
			if _, ok := nonBreakingNodes[name]; !ok && disallowedDepth == 0 {
				newline()
			}
		case html.SelfClosingTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "br" && disallowedDepth == 0 {
				out.WriteByte('\n')
			}
		}
	}
}
