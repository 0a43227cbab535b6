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

package citation

import (
	"fmt"
	"os"
	"regexp"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"

	"github.com/lexisa/legal-document-processor/lib/legal"
)

type yamlPattern struct {
	Name       string  `yaml:"name"`
	Kind       string  `yaml:"kind"`
	Regex      string  `yaml:"regex"`
	Weight     float64 `yaml:"weight"`
	CourtGroup int     `yaml:"court_group"`
	YearGroup  int     `yaml:"year_group"`
}

// LoadPatterns reads additional citation formats from a YAML file of the form
//
//	- name: Government Gazette
//	  kind: gazette
//	  regex: '\bGG\s+(\d{4,6})\b'
//	  weight: 0.9
//	  year_group: 0
//
// Regexes are compiled eagerly so a bad file fails at start-up rather than
// during processing.
func LoadPatterns(path string) (Library, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("could not find citation patterns at %v", path))
		return nil, err
	}
	return ParsePatterns(b)
}

// ParsePatterns is LoadPatterns over an in-memory document.
func ParsePatterns(b []byte) (Library, error) {
	var entries []yamlPattern
	if err := yaml.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("decode citation patterns: %w", err)
	}

	library := make(Library, 0, len(entries))
	for _, entry := range entries {
		if entry.Name == "" || entry.Kind == "" {
			return nil, fmt.Errorf("citation pattern %q: name and kind are required", entry.Name)
		}
		if entry.Weight <= 0 || entry.Weight > 1 {
			return nil, fmt.Errorf("citation pattern %q: weight must be within (0,1], got %g", entry.Name, entry.Weight)
		}
		re, err := regexp.Compile(entry.Regex)
		if err != nil {
			return nil, fmt.Errorf("citation pattern %q: %w", entry.Name, err)
		}
		if entry.CourtGroup > re.NumSubexp() || entry.YearGroup > re.NumSubexp() {
			return nil, fmt.Errorf("citation pattern %q: group index exceeds %d capture groups", entry.Name, re.NumSubexp())
		}
		library = append(library, Pattern{
			Name:       entry.Name,
			Kind:       legal.FormatKind(entry.Kind),
			Regexp:     re,
			Weight:     entry.Weight,
			CourtGroup: entry.CourtGroup,
			YearGroup:  entry.YearGroup,
		})
	}

	log.Info().Int("patterns", len(library)).Msg("citation patterns loaded")
	return library, nil
}
