package config

import (
	"fmt"
	"io"
	"os"

	"github.com/teatak/mtag/corpus"
	"github.com/teatak/mtag/eval"
	"github.com/teatak/mtag/lattice"
	"github.com/unixpickle/essentials"
	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration shared by the mtag commands and the server.
type Config struct {
	Model  ModelConfig  `yaml:"model"`
	Corpus CorpusConfig `yaml:"corpus"`
	Eval   EvalConfig   `yaml:"eval"`
	Train  TrainConfig  `yaml:"train"`
	Server ServerConfig `yaml:"server"`
}

type ModelConfig struct {
	Path   string `yaml:"path"`
	Levels int    `yaml:"levels"`
	Order  int    `yaml:"order"`
	Beam   int    `yaml:"beam"`
}

type CorpusConfig struct {
	Format    string `yaml:"format"`
	Normalize string `yaml:"normalize"`
}

type EvalConfig struct {
	Ranks   int    `yaml:"ranks"`
	Workers int    `yaml:"workers"`
	OOV     string `yaml:"oov"` // compare mode: dictionary or range
}

type TrainConfig struct {
	Iterations int `yaml:"iterations"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

// Default returns the configuration used when no file is given. Parse starts
// from it, so a file only needs the values it changes.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Path:   "data/model.txt",
			Levels: 2,
			Order:  1,
			Beam:   5,
		},
		Corpus: CorpusConfig{
			Format:    corpus.DefaultFormat,
			Normalize: corpus.ModeNone.String(),
		},
		Eval: EvalConfig{
			Ranks: eval.DefaultRanks,
			OOV:   eval.PolicyRange,
		},
		Train:  TrainConfig{Iterations: 10},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Validate checks values that cannot be fixed by defaults.
func (c *Config) Validate() error {
	if _, err := corpus.ParseFormat(c.Corpus.Format); err != nil {
		return err
	}
	if _, err := corpus.ParseMode(c.Corpus.Normalize); err != nil {
		return err
	}
	if c.Eval.OOV != eval.PolicyDictionary && c.Eval.OOV != eval.PolicyRange {
		return fmt.Errorf("config: unknown oov policy %q", c.Eval.OOV)
	}
	if c.Model.Beam < 1 {
		return fmt.Errorf("config: beam %d < 1", c.Model.Beam)
	}
	if c.Model.Levels < 1 || c.Model.Levels > lattice.MaxLevels {
		return fmt.Errorf("config: levels %d outside [1,%d]", c.Model.Levels, lattice.MaxLevels)
	}
	if c.Eval.Ranks < 1 {
		return fmt.Errorf("config: ranks %d < 1", c.Eval.Ranks)
	}
	if c.Model.Order < 0 || c.Model.Order > 1 {
		return fmt.Errorf("config: order %d not 0 or 1", c.Model.Order)
	}
	return nil
}

// Parse reads a YAML configuration over the defaults.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the configuration file at path. An empty path yields Default().
func Load(path string) (c *Config, err error) {
	defer essentials.AddCtxTo("load config", &err)
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Save writes c as YAML.
func (c *Config) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
