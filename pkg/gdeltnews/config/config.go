// Package config loads the YAML configuration for the unified news
// pipeline. A minimal file enabling all three stages:
//
//	logging:
//	  level: info
//	download:
//	  enabled: true
//	  start: "2025-03-16 14:00:00"
//	  end: "2025-03-16 14:30:00"
//	reconstruct:
//	  enabled: true
//	  language: ITALIAN
//	filter:
//	  enabled: true
//	  query: (elezioni OR voto) AND NOT veneto
//	  database: articles.db
//
// Unset directories chain between stages: reconstruction reads the
// download directory, the filter stage reads the reconstruction
// directory.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/iandreafc/gdeltnews/internal/fetch"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/boolquery"
)

// Default locations used when the configuration leaves them unset.
const (
	DefaultDownloadDir = "gdeltdata"
	DefaultArticleDir  = "gdeltpreprocessed"
	DefaultOutputPath  = "articles.csv"
)

// Validation errors returned by Validate.
var (
	ErrNoStages      = errors.New("no pipeline stages enabled")
	ErrInvalidWindow = errors.New("invalid download window")
	ErrBadWorkers    = errors.New("negative worker count")
	ErrBadLogLevel   = errors.New("unknown log level")
)

// Config holds the full pipeline configuration.
type Config struct {
	Logging     Logging     `yaml:"logging"`
	Download    Download    `yaml:"download"`
	Reconstruct Reconstruct `yaml:"reconstruct"`
	Filter      Filter      `yaml:"filter"`
}

// Logging configures the pipeline logger.
type Logging struct {
	Level string `yaml:"level"`
}

// Download configures the ngrams download stage.
type Download struct {
	Enabled        bool   `yaml:"enabled"`
	Start          string `yaml:"start"`
	End            string `yaml:"end"`
	OutputDir      string `yaml:"output_dir"`
	Overwrite      bool   `yaml:"overwrite"`
	SkipDecompress bool   `yaml:"skip_decompress"`
}

// Window parses the configured start and end timestamps.
func (d Download) Window() (start, end time.Time, err error) {
	start, err = fetch.ParseTimestamp(d.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start: %v", ErrInvalidWindow, err)
	}
	end, err = fetch.ParseTimestamp(d.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end: %v", ErrInvalidWindow, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidWindow, d.End, d.Start)
	}
	return start, end, nil
}

// Reconstruct configures the article reconstruction stage.
type Reconstruct struct {
	Enabled    bool     `yaml:"enabled"`
	InputDir   string   `yaml:"input_dir"`
	OutputDir  string   `yaml:"output_dir"`
	Language   string   `yaml:"language"`
	URLFilters []string `yaml:"url_filters"`
	Workers    int      `yaml:"workers"`
	DeleteGz   bool     `yaml:"delete_gz"`
}

// Filter configures the filter and merge stage.
type Filter struct {
	Enabled     bool   `yaml:"enabled"`
	InputDir    string `yaml:"input_dir"`
	OutputPath  string `yaml:"output_path"`
	Query       string `yaml:"query"`
	SourceLabel string `yaml:"source_label"`
	KeepTemp    bool   `yaml:"keep_temp"`
	Database    string `yaml:"database"`
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Download.OutputDir == "" {
		c.Download.OutputDir = DefaultDownloadDir
	}
	if c.Reconstruct.InputDir == "" {
		c.Reconstruct.InputDir = c.Download.OutputDir
	}
	if c.Reconstruct.OutputDir == "" {
		c.Reconstruct.OutputDir = DefaultArticleDir
	}
	if c.Filter.InputDir == "" {
		c.Filter.InputDir = c.Reconstruct.OutputDir
	}
	if c.Filter.OutputPath == "" {
		c.Filter.OutputPath = DefaultOutputPath
	}
}

// Validate checks the configuration for the stages that are enabled.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w %q", ErrBadLogLevel, c.Logging.Level)
	}

	if !c.Download.Enabled && !c.Reconstruct.Enabled && !c.Filter.Enabled {
		return ErrNoStages
	}

	if c.Download.Enabled {
		if _, _, err := c.Download.Window(); err != nil {
			return err
		}
	}
	if c.Reconstruct.Enabled && c.Reconstruct.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrBadWorkers, c.Reconstruct.Workers)
	}
	if c.Filter.Enabled {
		if _, err := boolquery.Compile(c.Filter.Query); err != nil {
			return fmt.Errorf("filter query: %w", err)
		}
	}
	return nil
}
