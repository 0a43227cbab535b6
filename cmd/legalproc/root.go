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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexisa/legal-document-processor/lib"
	"github.com/lexisa/legal-document-processor/lib/blocklist"
	"github.com/lexisa/legal-document-processor/lib/citation"
	"github.com/lexisa/legal-document-processor/lib/legal"
	"github.com/lexisa/legal-document-processor/lib/pipeline"
	"github.com/lexisa/legal-document-processor/lib/source"
	"github.com/lexisa/legal-document-processor/lib/text"
)

type cliConfig struct {
	Pipeline  legal.Config    `mapstructure:"pipeline"`
	S3        source.S3Config `mapstructure:"s3"`
	Patterns  string          `mapstructure:"patterns"`
	Blocklist string          `mapstructure:"blocklist"`
}

var defaults = map[string]interface{}{
	"log_level": "warn",
	"pipeline": map[string]interface{}{
		"target_chunk_size":        legal.DefaultTargetChunkSize,
		"overlap":                  legal.DefaultOverlap,
		"classification_threshold": legal.DefaultClassificationThreshold,
	},
	"s3": map[string]interface{}{
		"region":     "eu-west-1",
		"endpoint":   "",
		"access_key": "",
		"secret_key": "",
		"max_bytes":  0,
	},
	"patterns":  "",
	"blocklist": "",
}

// app carries what every subcommand needs once the root's PersistentPreRunE
// has run.
type app struct {
	in  io.Reader
	out io.Writer

	conf      cliConfig
	processor *pipeline.Processor

	s3URI  string
	html   bool
	pretty bool
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	root := &cobra.Command{
		Use:           "legalproc",
		Short:         "Extract citations, entities, dates and chunks from South African legal documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "The config file path.")
	flags.StringVar(&a.s3URI, "s3-uri", "", "read the document from s3://bucket/key instead of a file")
	flags.BoolVar(&a.html, "html", false, "treat the input as html (implied by a .html or .htm file)")
	flags.BoolVar(&a.pretty, "pretty", false, "indent the json output")
	flags.Int("chunk-size", legal.DefaultTargetChunkSize, "target chunk size in words")
	flags.Int("overlap", legal.DefaultOverlap, "words shared by consecutive chunks")
	flags.Float64("threshold", legal.DefaultClassificationThreshold, "confidence at which a classification is marked confident")

	root.AddCommand(
		a.command("process", "Run the full pipeline and print the processed document", func(source string) (interface{}, error) {
			return a.processor.Process(source, a.conf.Pipeline)
		}),
		a.command("classify", "Print the document classification", func(source string) (interface{}, error) {
			return a.processor.Classify(source, a.conf.Pipeline.ClassificationThreshold), nil
		}),
		a.command("citations", "Print the citations found in the document", func(source string) (interface{}, error) {
			return a.processor.Citations(source), nil
		}),
		a.command("entities", "Print the entities and key dates found in the document", func(source string) (interface{}, error) {
			entities, dates := a.processor.Entities(source)
			return map[string]interface{}{
				"entities":  entities,
				"key_dates": dates,
			}, nil
		}),
	)
	return root
}

func (a *app) command(use, short string, run func(source string) (interface{}, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [file|-]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := a.read(cmd.Context(), args)
			if err != nil {
				return err
			}
			res, err := run(source)
			if err != nil {
				return err
			}
			return a.emit(res)
		},
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := lib.LoadDotEnv(); err != nil {
		return err
	}
	if err := lib.LoadConfig(cmd.Flags(), defaults, &a.conf); err != nil {
		return err
	}

	// explicit flags win over the config file
	flags := cmd.Flags()
	if flags.Changed("chunk-size") {
		a.conf.Pipeline.TargetChunkSize, _ = flags.GetInt("chunk-size")
	}
	if flags.Changed("overlap") {
		a.conf.Pipeline.Overlap, _ = flags.GetInt("overlap")
	}
	if flags.Changed("threshold") {
		a.conf.Pipeline.ClassificationThreshold, _ = flags.GetFloat64("threshold")
	}
	if err := a.conf.Pipeline.Validate(); err != nil {
		return err
	}

	var opts []pipeline.Option
	if a.conf.Patterns != "" {
		extra, err := citation.LoadPatterns(a.conf.Patterns)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithCitationLibrary(append(citation.DefaultLibrary(), extra...)))
	}
	if a.conf.Blocklist != "" {
		bl, err := blocklist.Load(a.conf.Blocklist)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithBlocklist(bl))
	}
	a.processor = pipeline.New(opts...)
	return nil
}

// read returns the document text from S3, a file, or stdin when the argument
// is "-" or missing.
func (a *app) read(ctx context.Context, args []string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		r    io.Reader
		html = a.html
	)
	switch {
	case a.s3URI != "":
		if len(args) > 0 {
			return "", fmt.Errorf("--s3-uri cannot be combined with a file argument")
		}
		reader, err := source.NewS3(ctx, a.conf.S3)
		if err != nil {
			return "", err
		}
		body, err := reader.ReadURI(ctx, a.s3URI)
		if err != nil {
			return "", err
		}
		html = html || isHTMLPath(a.s3URI)
		r = strings.NewReader(body)
	case len(args) == 0 || args[0] == "-":
		r = a.in
	default:
		f, err := os.Open(args[0])
		if err != nil {
			return "", err
		}
		defer f.Close()
		html = html || isHTMLPath(args[0])
		r = f
	}

	if html {
		return text.HTMLToText(r)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(b), nil
}

func isHTMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

func (a *app) emit(v interface{}) error {
	enc := json.NewEncoder(a.out)
	if a.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
