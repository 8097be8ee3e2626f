package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultOutputDir is used when neither the config file nor flags name one.
const DefaultOutputDir = "outputs"

// DefaultPaths are tried, in order, when no config path is given.
var DefaultPaths = []string{"anarcdr.json", "anarcdr.yaml", "anarcdr.yml"}

type Config struct {
	InputFasta string `json:"input_fasta" yaml:"input_fasta"`
	OutputDir  string `json:"output_dir" yaml:"output_dir"`
	JSON       bool   `json:"json" yaml:"json"`
	AnarciPath string `json:"anarci_path" yaml:"anarci_path"`
	LogFile    string `json:"log_file" yaml:"log_file"`
	LogLevel   string `json:"log_level" yaml:"log_level"`
}

// Defaults returns a Config with every default applied.
func Defaults() *Config {
	return &Config{OutputDir: DefaultOutputDir}
}

// LoadConfig loads a config from the given path, decoding YAML for .yaml/.yml
// files and JSON otherwise. If path is empty the DefaultPaths are tried and a
// missing file is not an error; an explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		for _, p := range DefaultPaths {
			c, err := LoadConfig(p)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return c, err
		}
		return Defaults(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := Defaults()
	if err := decode(f, filepath.Ext(path), c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	return c, nil
}

func decode(r io.Reader, ext string, c *Config) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err := yaml.NewDecoder(r).Decode(c)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	default:
		return json.NewDecoder(r).Decode(c)
	}
}
