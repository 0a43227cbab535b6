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

package lib

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFlag = "config"

// BaseConfig holds the keys every binary understands.
type BaseConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

/**
	InitializeConfig standardises config initialization across all apps.

	Config can be specified in a yml file. By default this is located at the defaultPath argument, but can be
	overridden with the --config flag. Keys which exist on defaultConfig but NOT on the config yaml are also used.

	Env vars overwrite config keys when the env var has the same name as the key, uppercased, with "." replaced
	by "_": PIPELINE_OVERLAP sets pipeline.overlap. An env var is only read for keys viper already knows about,
	so every overridable key needs a default.

	targetStruct should be a pointer to a struct which the config can be unmarshalled to.
**/
func InitializeConfig(defaultPath string, defaultConfig map[string]interface{}, targetStruct interface{}) error {
	pflag.String(configFlag, defaultPath, "The config file path.")
	pflag.Parse()

	return LoadConfig(pflag.CommandLine, defaultConfig, targetStruct)
}

// LoadConfig is InitializeConfig for a flag set that has already been parsed,
// e.g. a cobra command's. The set must define a "config" flag.
func LoadConfig(flags *pflag.FlagSet, defaultConfig map[string]interface{}, targetStruct interface{}) error {
	if err := viper.BindPFlags(flags); err != nil {
		return err
	}

	for k, v := range defaultConfig {
		viper.SetDefault(k, v)
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configFile := viper.GetString(configFlag); configFile != "" {
		if !filepath.IsAbs(configFile) {
			abs, err := filepath.Abs(configFile)
			if err != nil {
				return err
			}
			configFile = abs
		}
		viper.SetConfigName(strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile)))
		viper.AddConfigPath(filepath.Dir(configFile))

		err := viper.ReadInConfig()
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Warn().Err(err).Msg("default settings applied")
		} else if err != nil {
			return err
		}
	}

	var bc BaseConfig
	if err := viper.Unmarshal(&bc); err != nil {
		return err
	}
	if err := ConfigureLogger(bc); err != nil {
		return err
	}

	return viper.Unmarshal(targetStruct)
}

// ConfigureLogger applies the log level and format to the global zerolog
// logger. An empty format keeps JSON output.
func ConfigureLogger(bc BaseConfig) error {
	lvl, err := zerolog.ParseLevel(bc.LogLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)

	if bc.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files into the environment
// without overriding variables that are already set. Missing files are
// skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		log.Debug().Str("path", path).Msg("environment loaded")
	}
	return nil
}
