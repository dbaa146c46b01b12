package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"

	"qtermtikz/quantikz"
)

// Config holds the defaults read from the options file. Command line flags
// override every field.
type Config struct {
	RowSep     string `yaml:"row_sep"`
	ColumnSep  string `yaml:"column_sep"`
	Border     string `yaml:"border"`
	Standalone bool   `yaml:"standalone"`
	Verbose    bool   `yaml:"verbose"`
}

const configFile = ".qtermtikz.yaml"

// defaultConfigPath returns $HOME/.qtermtikz.yaml.
func defaultConfigPath() string {
	return filepath.Join(os.Getenv("HOME"), configFile)
}

// loadConfig reads the options file at path. An empty path selects the
// default location, which is allowed to be missing.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return &Config{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	cfg := &Config{}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// options converts the configuration into translator options.
func (c *Config) options(log *zap.Logger) quantikz.Options {
	return quantikz.Options{
		RowSep:    c.RowSep,
		ColumnSep: c.ColumnSep,
		Logger:    log,
	}
}

// newLogger returns a console logger on stderr. Verbose output enables
// debug messages from the translator.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
