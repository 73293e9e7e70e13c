package main

import (
	"fmt"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

var cmd = &commander.Command{
	UsageLine: os.Args[0],
	Short:     "multi-level morphological tagger",
	Subcommands: []*commander.Command{
		trainCmd(),
		evalCmd(),
		compareCmd(),
		tagCmd(),
		dictCmd(),
	},
	Flag: *flag.NewFlagSet("mtag", flag.ExitOnError),
}

func main() {
	if err := cmd.Dispatch(os.Args[1:]); err != nil {
		fmt.Printf("**err**: %v\n", err)
		os.Exit(1)
	}
}
