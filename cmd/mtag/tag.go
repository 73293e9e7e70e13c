package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/peterh/liner"
	"github.com/teatak/mtag/corpus"
	"github.com/teatak/mtag/model"
)

const historyFile = ".mtag_history"

func tagRun(cmd *commander.Command, args []string) error {
	cfg := loadConfig()
	m := loadModel(cfg)
	mode, err := corpus.ParseMode(cfg.Corpus.Normalize)
	if err != nil {
		return err
	}
	if inputFile == "" {
		return repl(m, mode)
	}

	format, err := corpus.ParseFormat(cfg.Corpus.Format)
	if err != nil {
		return err
	}
	sentences, err := readText(inputFile, mode)
	if err != nil {
		return err
	}
	for i, s := range sentences {
		if err := m.Annotate(s); err != nil {
			return fmt.Errorf("sentence %d: %w", i, err)
		}
	}
	if outputFile == "" {
		return corpus.Write(os.Stdout, sentences, format)
	}
	if err := corpus.WriteFile(outputFile, sentences, format); err != nil {
		return err
	}
	log.Printf("Tagged %d sentences into %s", len(sentences), outputFile)
	return nil
}

// readText reads raw text, one sentence per non-empty line.
func readText(path string, mode corpus.Mode) ([]corpus.Sentence, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var sentences []corpus.Sentence
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sentences = append(sentences, corpus.NormalizeSentence(corpus.TokenizeSentence(line), mode))
	}
	return sentences, scanner.Err()
}

func repl(m *model.Model, mode corpus.Mode) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Println("Enter a sentence to tag, :quit to exit.")
	for {
		line, err := ln.Prompt("mtag> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ":quit" {
			return nil
		}
		ln.AppendHistory(line)

		s := corpus.NormalizeSentence(corpus.TokenizeSentence(line), mode)
		if err := m.Annotate(s); err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		for _, w := range s {
			fmt.Printf("%s\t%s\n", w.Form, strings.Join(w.Tags, "\t"))
		}
	}
}

func tagCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       tagRun,
		UsageLine: "tag <file options> [arguments]",
		Short:     "tags raw text, interactively when no input is given",
		Long: `
tags raw text with a trained model. Without -input, reads sentences from an
interactive prompt.

	$ ./mtag tag -model <model file> [-input <text> -output <conll>]

`,
		Flag: *flag.NewFlagSet("tag", flag.ExitOnError),
	}
	addConfigFlags(cmd)
	cmd.Flag.StringVar(&modelFile, "model", "", "Model file")
	cmd.Flag.StringVar(&inputFile, "input", "", "Raw text, one sentence per line")
	cmd.Flag.StringVar(&outputFile, "output", "", "Tagged output; stdout when empty")
	cmd.Flag.IntVar(&beamSize, "beam", 0, "Override the model's beam size")
	return cmd
}
