package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/gonuts/commander"
	"github.com/teatak/mtag/config"
	"github.com/teatak/mtag/corpus"
	"github.com/teatak/mtag/model"
	"github.com/teatak/mtag/util"
	"github.com/unixpickle/essentials"
)

// Flags shared by the subcommands. Zero values leave the configuration untouched.
var (
	configFile string
	modelFile  string
	inputFile  string
	outputFile string
	formatSpec string
	normMode   string
	beamSize   int
)

func addConfigFlags(cmd *commander.Command) {
	cmd.Flag.StringVar(&configFile, "config", "", "YAML configuration file")
	cmd.Flag.StringVar(&formatSpec, "format", "", "corpus column format, e.g. "+corpus.DefaultFormat)
	cmd.Flag.StringVar(&normMode, "normalize", "", "form normalization: none, bracket, lower, umlaut")
}

// VerifyFlags exits with usage when a required flag is empty.
func VerifyFlags(cmd *commander.Command, required []string) {
	for _, name := range required {
		f := cmd.Flag.Lookup(name)
		if f.Value.String() == "" {
			log.Printf("Required flag %s not set", f.Name)
			cmd.Usage()
			os.Exit(1)
		}
	}
}

// loadConfig reads the configuration file and applies the shared flag overrides.
func loadConfig() *config.Config {
	cfg, err := config.Load(configFile)
	if err != nil {
		essentials.Die(err)
	}
	if modelFile != "" {
		cfg.Model.Path = modelFile
	}
	if formatSpec != "" {
		cfg.Corpus.Format = formatSpec
	}
	if normMode != "" {
		cfg.Corpus.Normalize = normMode
	}
	if beamSize > 0 {
		cfg.Model.Beam = beamSize
	}
	if err := cfg.Validate(); err != nil {
		essentials.Die(err)
	}
	return cfg
}

// readCorpus reads and normalizes a tagged corpus file.
func readCorpus(cfg *config.Config, path string) ([]corpus.Sentence, error) {
	if !util.FileExists(path) {
		return nil, os.ErrNotExist
	}
	format, err := corpus.ParseFormat(cfg.Corpus.Format)
	if err != nil {
		return nil, err
	}
	mode, err := corpus.ParseMode(cfg.Corpus.Normalize)
	if err != nil {
		return nil, err
	}
	sentences, err := corpus.ReadFile(path, format)
	if err != nil {
		return nil, err
	}
	log.Printf("Read %d sentences, %d tokens from %s", len(sentences), corpus.CountTokens(sentences), path)
	return corpus.NormalizeSentences(sentences, mode), nil
}

// loadModel loads the configured model; a positive -beam overrides its beam size.
func loadModel(cfg *config.Config) *model.Model {
	m, err := model.LoadModel(cfg.Model.Path)
	if err != nil {
		essentials.Die(err)
	}
	if beamSize > 0 {
		m.Beam = beamSize
	}
	log.Printf("Loaded model %s: %d levels, order %d, beam %d, %d forms", cfg.Model.Path, m.Levels, m.Order, m.Beam, m.Words.Size())
	return m
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
