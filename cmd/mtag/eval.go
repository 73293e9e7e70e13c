package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/teatak/mtag/eval"
)

var (
	ranks   int
	workers int
	asJSON  bool
)

func evalRun(cmd *commander.Command, args []string) error {
	VerifyFlags(cmd, []string{"input"})
	cfg := loadConfig()
	if ranks > 0 {
		cfg.Eval.Ranks = ranks
	}
	if workers > 0 {
		cfg.Eval.Workers = workers
	}

	m := loadModel(cfg)
	sentences, err := readCorpus(cfg, inputFile)
	if err != nil {
		return err
	}
	m.Index(sentences)

	ctx, cancel := signalContext()
	defer cancel()
	result, err := eval.EvaluateCorpus(ctx, m, sentences, eval.Options{
		Ranks:   cfg.Eval.Ranks,
		Workers: cfg.Eval.Workers,
	})
	if err != nil {
		return err
	}
	return report(result)
}

func report(result *eval.Result) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Summary())
	}
	fmt.Println(result)
	return nil
}

func evalCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       evalRun,
		UsageLine: "eval <file options> [arguments]",
		Short:     "decodes a gold corpus and reports tagging accuracy",
		Long: `
decodes a gold corpus with a trained model and reports per-level, morph,
sentence and OOV accuracy together with the rank of the gold hypothesis

	$ ./mtag eval -model <model file> -input <conll> [options]

`,
		Flag: *flag.NewFlagSet("eval", flag.ExitOnError),
	}
	addConfigFlags(cmd)
	cmd.Flag.StringVar(&inputFile, "input", "", "Gold corpus to evaluate on")
	cmd.Flag.StringVar(&modelFile, "model", "", "Model file")
	cmd.Flag.IntVar(&beamSize, "beam", 0, "Override the model's beam size")
	cmd.Flag.IntVar(&ranks, "ranks", 0, "N-best depth for gold ranks")
	cmd.Flag.IntVar(&workers, "workers", 0, "Sentences decoded in parallel")
	cmd.Flag.BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}
