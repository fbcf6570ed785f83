// Package config loads dataset preparation defaults from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/go-codesplit/splitpoint"
)

// Config mirrors the prepare command flags. Zero values mean "not set".
type Config struct {
	Corpus    string   `yaml:"corpus"`
	Field     string   `yaml:"field"`
	Out       string   `yaml:"out"`
	Seed      *int64   `yaml:"seed"`
	TestRatio *float64 `yaml:"test_ratio"`
	Workers   int      `yaml:"workers"`
	Dedup     *bool    `yaml:"dedup"`

	Split struct {
		MinPrefixTokens           *int  `yaml:"min_prefix_tokens"`
		MinPrefixLineTokens       *int  `yaml:"min_prefix_line_tokens"`
		MinSuffixLineTokens       *int  `yaml:"min_suffix_line_tokens"`
		ExcludeCommentPrefixLines *bool `yaml:"exclude_comment_prefix_lines"`
	} `yaml:"split"`

	Filter struct {
		MaxASTErrors     *int `yaml:"max_ast_errors"`
		RequireSignature bool `yaml:"require_signature"`
	} `yaml:"filter"`
}

// Load reads a YAML config file. A missing file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data. Unknown keys are rejected; empty data
// yields an empty Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Constraints overlays the configured split settings on base.
func (c *Config) Constraints(base splitpoint.Constraints) splitpoint.Constraints {
	if c.Split.MinPrefixTokens != nil {
		base.MinPrefixTokens = *c.Split.MinPrefixTokens
	}
	if c.Split.MinPrefixLineTokens != nil {
		base.MinPrefixLineTokens = *c.Split.MinPrefixLineTokens
	}
	if c.Split.MinSuffixLineTokens != nil {
		base.MinSuffixLineTokens = *c.Split.MinSuffixLineTokens
	}
	if c.Split.ExcludeCommentPrefixLines != nil {
		base.ExcludeCommentPrefixLines = *c.Split.ExcludeCommentPrefixLines
	}
	return base
}
