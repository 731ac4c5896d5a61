// Package config loads run settings from an HCL or YAML file and the
// database connection from the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/darianmavgo/megasena/converters/common"
	"github.com/darianmavgo/megasena/draw"
	"github.com/darianmavgo/megasena/store"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// EnvDatabaseURL names the variable holding the connection string.
const EnvDatabaseURL = "DATABASE_URL"

// ErrMissing is wrapped by a ConfigError for a required value that is unset.
var ErrMissing = errors.New("not set")

// ConfigError reports a missing or malformed setting. It is always fatal.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Config represents the application configuration.
type Config struct {
	BatchSize   int    `hcl:"batch_size,optional" yaml:"batch_size"`
	Table       string `hcl:"table,optional" yaml:"table"`
	OutputDir   string `hcl:"output_dir,optional" yaml:"output_dir"`
	FilePrefix  string `hcl:"file_prefix,optional" yaml:"file_prefix"`
	Sheet       string `hcl:"sheet,optional" yaml:"sheet"`
	HeaderRows  int    `hcl:"header_rows,optional" yaml:"header_rows"`
	CreateTable bool   `hcl:"create_table,optional" yaml:"create_table"`
	LogLevel    string `hcl:"log_level,optional" yaml:"log_level"`
	LogFormat   string `hcl:"log_format,optional" yaml:"log_format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:  store.DefaultGroupSize,
		Table:      store.DefaultTable,
		OutputDir:  ".",
		FilePrefix: "mega-sena-dados",
		HeaderRows: 1,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads the configuration from the given file. Files ending in .yaml
// or .yml are read as YAML, anything else as HCL. Unset keys keep their
// defaults.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if isYAML(path) {
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	} else {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCL(content, path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse config file: %s", diags.Error())
		}

		diags = gohcl.DecodeBody(file.Body, nil, cfg)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode config: %s", diags.Error())
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.BatchSize < 1 {
		return &ConfigError{Key: "batch_size", Err: fmt.Errorf("must be positive, got %d", c.BatchSize)}
	}
	if c.HeaderRows < 0 {
		return &ConfigError{Key: "header_rows", Err: fmt.Errorf("must not be negative, got %d", c.HeaderRows)}
	}
	if _, err := store.TableName(c.Table); err != nil {
		return &ConfigError{Key: "table", Err: err}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return &ConfigError{Key: "log_level", Err: err}
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return &ConfigError{Key: "log_format", Err: fmt.Errorf("want text or json, got %q", c.LogFormat)}
	}
	return nil
}

// Conversion returns the spreadsheet reading options.
func (c *Config) Conversion() *common.ConversionConfig {
	conv := common.DefaultConversionConfig()
	conv.Sheet = c.Sheet
	conv.HeaderRows = c.HeaderRows
	conv.DateColumns = []int{draw.ColDate}
	return conv
}

// Export writes the configuration to the specified file, in YAML when the
// path ends in .yaml or .yml and HCL otherwise.
func Export(path string, cfg *Config) error {
	var content []byte
	if isYAML(path) {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		content = b
	} else {
		f := hclwrite.NewEmptyFile()
		root := f.Body()

		root.SetAttributeValue("batch_size", cty.NumberIntVal(int64(cfg.BatchSize)))
		root.SetAttributeValue("table", cty.StringVal(cfg.Table))
		root.SetAttributeValue("output_dir", cty.StringVal(cfg.OutputDir))
		root.SetAttributeValue("file_prefix", cty.StringVal(cfg.FilePrefix))
		root.SetAttributeValue("sheet", cty.StringVal(cfg.Sheet))
		root.SetAttributeValue("header_rows", cty.NumberIntVal(int64(cfg.HeaderRows)))
		root.SetAttributeValue("create_table", cty.BoolVal(cfg.CreateTable))
		root.SetAttributeValue("log_level", cty.StringVal(cfg.LogLevel))
		root.SetAttributeValue("log_format", cty.StringVal(cfg.LogFormat))
		content = f.Bytes()
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	return writeConfig(file, content)
}

// writeConfig writes content and closes w, reporting a failed close too.
func writeConfig(w io.WriteCloser, content []byte) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close config file: %w", cerr))
		}
	}()

	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("failed to write config to file: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from path into the environment when the file
// exists. Variables already set are not overridden.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return &ConfigError{Key: path, Err: err}
	}
	return nil
}

// DatabaseDSN parses DATABASE_URL.
func DatabaseDSN() (*store.DSN, error) {
	raw := os.Getenv(EnvDatabaseURL)
	if strings.TrimSpace(raw) == "" {
		return nil, &ConfigError{Key: EnvDatabaseURL, Err: ErrMissing}
	}
	dsn, err := store.ParseDSN(raw)
	if err != nil {
		return nil, &ConfigError{Key: EnvDatabaseURL, Err: err}
	}
	return dsn, nil
}
