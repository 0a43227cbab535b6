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

// Package blocklist suppresses entity false positives, e.g. capitalised
// headings that look like company names.
package blocklist

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"

	"github.com/lexisa/legal-document-processor/lib/legal"
	"github.com/lexisa/legal-document-processor/lib/text"
)

type Blocklist struct {
	CaseSensitive   map[string]bool
	CaseInsensitive map[string]bool
	// Kinds restricts the blocklist to the listed entity kinds. Empty means
	// every kind.
	Kinds map[legal.EntityKind]bool
}

// Allowed returns true if entity is not blocklisted. Whitespace is collapsed
// before the lookup.
func (blocklist Blocklist) Allowed(entity string) bool {
	entity = text.Normalize(entity)
	if _, ok := blocklist.CaseSensitive[entity]; ok {
		return false
	}

	if _, ok := blocklist.CaseInsensitive[strings.ToLower(entity)]; ok {
		return false
	}

	return true
}

// FilterEntities drops blocklisted entities, keeping the order of the rest.
func (blocklist Blocklist) FilterEntities(entities []legal.LegalEntity) []legal.LegalEntity {
	res := make([]legal.LegalEntity, 0, len(entities))
	for _, entity := range entities {
		if len(blocklist.Kinds) > 0 && !blocklist.Kinds[entity.Kind] {
			res = append(res, entity)
			continue
		}
		if blocklist.Allowed(entity.RawText) {
			res = append(res, entity)
		}
	}
	return res
}

// Fingerprint identifies the blocklist's contents regardless of map order.
func (blocklist Blocklist) Fingerprint() string {
	h := sha256.New()
	section := func(name string, keys []string) {
		sort.Strings(keys)
		fmt.Fprintf(h, "%s:%d\n", name, len(keys))
		for _, k := range keys {
			fmt.Fprintf(h, "%s\n", k)
		}
	}
	section("case_sensitive", setKeys(blocklist.CaseSensitive))
	section("case_insensitive", setKeys(blocklist.CaseInsensitive))
	kinds := make([]string, 0, len(blocklist.Kinds))
	for k := range blocklist.Kinds {
		kinds = append(kinds, string(k))
	}
	section("kinds", kinds)
	return hex.EncodeToString(h.Sum(nil))
}

func setKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	return keys
}

type yamlBlocklist struct {
	CaseSensitive   []string `yaml:"case_sensitive"`
	CaseInsensitive []string `yaml:"case_insensitive"`
	Kinds           []string `yaml:"kinds"`
}

// Load returns an unmarshalled blocklist from a YAML file at the given path.
func Load(path string) (*Blocklist, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("could not find blocklist at %v", path))
		return nil, err
	}

	res, err := Parse(bytes)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("could not load blocklist from %v", path))
		return nil, err
	}

	log.Info().Msg(fmt.Sprintf("blocklist set from %v", path))
	return res, nil
}

// Parse reads a blocklist document:
//
//	case_sensitive: [ORDER]
//	case_insensitive: [the applicant]
//	kinds: [company, person]
func Parse(bytes []byte) (*Blocklist, error) {
	yamlBl := yamlBlocklist{}
	if err := yaml.Unmarshal(bytes, &yamlBl); err != nil {
		return nil, err
	}

	res := Blocklist{
		CaseSensitive:   map[string]bool{},
		CaseInsensitive: map[string]bool{},
		Kinds:           map[legal.EntityKind]bool{},
	}

	for _, v := range yamlBl.CaseSensitive {
		res.CaseSensitive[text.Normalize(v)] = true
	}
	for _, v := range yamlBl.CaseInsensitive {
		res.CaseInsensitive[text.Fold(v)] = true
	}
	for _, v := range yamlBl.Kinds {
		res.Kinds[legal.EntityKind(strings.ToLower(strings.TrimSpace(v)))] = true
	}

	return &res, nil
}
