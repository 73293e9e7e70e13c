package main

import (
	"fmt"
	"log"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/teatak/mtag/model"
)

var (
	iterations int
	order      int
	levels     int
)

func trainRun(cmd *commander.Command, args []string) error {
	VerifyFlags(cmd, []string{"input"})
	log.SetPrefix("[TRAIN] ")
	cfg := loadConfig()
	if iterations > 0 {
		cfg.Train.Iterations = iterations
	}
	if order >= 0 {
		cfg.Model.Order = order
	}
	if levels > 0 {
		cfg.Model.Levels = levels
	}

	sentences, err := readCorpus(cfg, inputFile)
	if err != nil {
		return err
	}

	fmt.Printf("Training tagger...\n")
	fmt.Printf("Input: %s\n", inputFile)
	fmt.Printf("Output: %s\n", cfg.Model.Path)
	fmt.Printf("Levels: %d Order: %d Beam: %d Iterations: %d\n", cfg.Model.Levels, cfg.Model.Order, cfg.Model.Beam, cfg.Train.Iterations)

	m, err := model.Train(sentences, model.TrainOptions{
		Levels:     cfg.Model.Levels,
		Order:      cfg.Model.Order,
		Beam:       cfg.Model.Beam,
		Iterations: cfg.Train.Iterations,
	})
	if err != nil {
		return err
	}
	if err := m.Save(cfg.Model.Path); err != nil {
		return err
	}
	fmt.Printf("Successfully saved model to %s\n", cfg.Model.Path)
	return nil
}

func trainCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       trainRun,
		UsageLine: "train <file options> [arguments]",
		Short:     "trains a tagger with the structured perceptron",
		Long: `
trains a tagger with the structured perceptron

	$ ./mtag train -input <conll> -model <model file> [options]

`,
		Flag: *flag.NewFlagSet("train", flag.ExitOnError),
	}
	addConfigFlags(cmd)
	cmd.Flag.StringVar(&inputFile, "input", "", "Gold training corpus")
	cmd.Flag.StringVar(&modelFile, "model", "", "Path to save the model")
	cmd.Flag.IntVar(&iterations, "iter", 0, "Number of training iterations")
	cmd.Flag.IntVar(&order, "order", -1, "Model order: 0 zero-order, 1 sequence")
	cmd.Flag.IntVar(&levels, "levels", 0, "Number of tag levels")
	cmd.Flag.IntVar(&beamSize, "beam", 0, "Beam size")
	return cmd
}
