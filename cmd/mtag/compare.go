package main

import (
	"fmt"
	"log"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/teatak/mtag/config"
	"github.com/teatak/mtag/corpus"
	"github.com/teatak/mtag/dictionary"
	"github.com/teatak/mtag/eval"
)

var (
	predFile string
	dictFile string
	oovName  string
)

func compareRun(cmd *commander.Command, args []string) error {
	VerifyFlags(cmd, []string{"gold", "pred"})
	cfg := loadConfig()
	if oovName != "" {
		cfg.Eval.OOV = oovName
	}

	gold, err := readCorpus(cfg, inputFile)
	if err != nil {
		return err
	}
	predicted, err := readCorpus(cfg, predFile)
	if err != nil {
		return err
	}
	format, err := corpus.ParseFormat(cfg.Corpus.Format)
	if err != nil {
		return err
	}

	words, policy, err := comparePolicy(cfg)
	if err != nil {
		return err
	}
	tags := make([]*dictionary.TagSet, format.Levels())
	for l := range tags {
		tags[l] = dictionary.NewTagSet(64)
	}
	corpus.IndexGrow(gold, words, tags)
	corpus.IndexGrow(predicted, words, tags)

	result, err := eval.Compare(gold, predicted, policy, format.Levels(), eval.Options{Ranks: cfg.Eval.Ranks})
	if err != nil {
		return err
	}
	return report(result)
}

// comparePolicy picks the word table forms are indexed against and the OOV test.
// The dictionary policy needs the model; the range policy takes the table from
// -dict when given and from the model otherwise.
func comparePolicy(cfg *config.Config) (*dictionary.Dictionary, eval.OOVPolicy, error) {
	switch cfg.Eval.OOV {
	case eval.PolicyDictionary:
		m := loadModel(cfg)
		return m.Words, eval.DictionaryOOV(m), nil
	case eval.PolicyRange:
		if dictFile == "" {
			m := loadModel(cfg)
			return m.Words, eval.RangeOOV(m.Words.Size()), nil
		}
		words := dictionary.NewDictionary()
		if err := words.Load(dictFile); err != nil {
			return nil, eval.OOVPolicy{}, err
		}
		log.Printf("Loaded %d forms from %s", words.Size(), dictFile)
		return words, eval.RangeOOV(words.Size()), nil
	}
	return nil, eval.OOVPolicy{}, fmt.Errorf("unknown oov policy %q", cfg.Eval.OOV)
}

func compareCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       compareRun,
		UsageLine: "compare <file options> [arguments]",
		Short:     "scores a predicted corpus against gold without decoding",
		Long: `
scores a previously tagged corpus against the gold corpus it was tagged from

	$ ./mtag compare -gold <conll> -pred <conll> [-model <model file> | -oov range -dict <dictionary>]

`,
		Flag: *flag.NewFlagSet("compare", flag.ExitOnError),
	}
	addConfigFlags(cmd)
	cmd.Flag.StringVar(&inputFile, "gold", "", "Gold corpus")
	cmd.Flag.StringVar(&predFile, "pred", "", "Predicted corpus")
	cmd.Flag.StringVar(&modelFile, "model", "", "Model whose word table decides OOV")
	cmd.Flag.StringVar(&dictFile, "dict", "", "Word table for the range policy")
	cmd.Flag.StringVar(&oovName, "oov", "", "OOV policy: dictionary or range")
	cmd.Flag.BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}
