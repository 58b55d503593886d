// Package main provides the onehead CLI, a replayable derivation of
// single-head self-attention.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/onehead-ml/onehead/internal/lesson"
)

const version = "v0.1.0"

func main() {
	seed := flag.Int64("seed", 1337, "seed for every random tensor in the walkthrough")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		if err := lesson.RunAll(lesson.NewContext(os.Stdout, *seed)); err != nil {
			fail(err)
		}
		return
	}

	switch args[0] {
	case "version":
		fmt.Printf("onehead %s\n", version)
	case "list":
		for i, s := range lesson.Steps() {
			fmt.Printf("  %d  %-16s %s\n", i+1, s.Name, s.Title)
		}
	case "run":
		if len(args) < 2 {
			fail(fmt.Errorf("run needs a step number or name, see 'onehead list'"))
		}
		step, err := lesson.Find(args[1])
		if err != nil {
			fail(err)
		}
		number := 0
		for i, s := range lesson.Steps() {
			if s.Name == step.Name {
				number = i + 1
			}
		}
		if err := lesson.RunOne(lesson.NewContext(os.Stdout, *seed), number, step); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "onehead derives single-head self-attention step by step.")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  onehead [-seed N]             run the full walkthrough")
	fmt.Fprintln(os.Stderr, "  onehead list                  list the steps")
	fmt.Fprintln(os.Stderr, "  onehead [-seed N] run <step>  run one step by number or name")
	fmt.Fprintln(os.Stderr, "  onehead version               show version")
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "onehead: %v\n", err)
	os.Exit(1)
}
