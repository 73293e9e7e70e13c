package main

import (
	"log"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/teatak/mtag/dictionary"
)

var minFreq float64

func dictRun(cmd *commander.Command, args []string) error {
	VerifyFlags(cmd, []string{"input", "output"})
	cfg := loadConfig()
	sentences, err := readCorpus(cfg, inputFile)
	if err != nil {
		return err
	}
	words := dictionary.NewDictionary()
	for _, s := range sentences {
		for _, w := range s {
			words.Add(w.Form, 1)
		}
	}
	if minFreq > 1 {
		before := words.Size()
		words = words.Prune(minFreq)
		log.Printf("Pruned %d forms seen fewer than %g times", before-words.Size(), minFreq)
	}
	if err := words.Save(outputFile); err != nil {
		return err
	}
	log.Printf("Saved %d forms (%g tokens) to %s", words.Size(), words.Total, outputFile)
	return nil
}

func dictCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       dictRun,
		UsageLine: "dict <file options> [arguments]",
		Short:     "builds a word table from a corpus",
		Long: `
counts the word forms of a corpus into a dictionary usable by compare -oov range

	$ ./mtag dict -input <conll> -output <dictionary>

`,
		Flag: *flag.NewFlagSet("dict", flag.ExitOnError),
	}
	addConfigFlags(cmd)
	cmd.Flag.StringVar(&inputFile, "input", "", "Corpus to count")
	cmd.Flag.StringVar(&outputFile, "output", "", "Dictionary file to write")
	cmd.Flag.Float64Var(&minFreq, "min-freq", 1, "Drop forms seen fewer times")
	return cmd
}
