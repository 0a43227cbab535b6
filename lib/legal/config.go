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

package legal

import (
	"fmt"
)

const (
	DefaultTargetChunkSize         = 500
	DefaultOverlap                 = 75
	DefaultClassificationThreshold = 0.7
)

// Config controls a single pipeline run. The mapstructure tags let binaries
// unmarshal it straight out of viper.
type Config struct {
	TargetChunkSize         int     `mapstructure:"target_chunk_size" json:"target_chunk_size"`
	Overlap                 int     `mapstructure:"overlap" json:"overlap"`
	ClassificationThreshold float64 `mapstructure:"classification_threshold" json:"classification_threshold"`
}

func DefaultConfig() Config {
	return Config{
		TargetChunkSize:         DefaultTargetChunkSize,
		Overlap:                 DefaultOverlap,
		ClassificationThreshold: DefaultClassificationThreshold,
	}
}

// Validate returns a *ConfigError describing the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.TargetChunkSize <= 0:
		return &ConfigError{Field: "target_chunk_size", Reason: fmt.Sprintf("must be positive, got %d", c.TargetChunkSize)}
	case c.Overlap < 0:
		return &ConfigError{Field: "overlap", Reason: fmt.Sprintf("must not be negative, got %d", c.Overlap)}
	case c.Overlap >= c.TargetChunkSize:
		return &ConfigError{Field: "overlap", Reason: fmt.Sprintf("must be smaller than target_chunk_size (%d), got %d", c.TargetChunkSize, c.Overlap)}
	case c.ClassificationThreshold < 0 || c.ClassificationThreshold > 1:
		return &ConfigError{Field: "classification_threshold", Reason: fmt.Sprintf("must be within [0,1], got %g", c.ClassificationThreshold)}
	}
	return nil
}

// CacheKey identifies a run of the given source hash under this config.
func (c Config) CacheKey(sourceHash string) string {
	return fmt.Sprintf("%s|%d|%d|%g", sourceHash, c.TargetChunkSize, c.Overlap, c.ClassificationThreshold)
}
