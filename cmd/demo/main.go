// Command demo runs a single-gene expression model end to end: a toy genome
// is transcribed by polymerases, the produced transcripts are registered
// mid-run and translated by ribosomes, and counts stream to stdout as TSV.
package main

import (
	"fmt"
	"os"

	"github.com/biocircuit/genesim/internal/genex"
)

func main() {
	model := genex.NewModel(genex.DefaultCellVolume)
	model.Seed(42)

	if err := model.AddPolymerase("rnapol", 10, 40, 5); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := model.AddRibosome(10, 30, 100); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	genome := newToyGenome(model.Registry(), "rnapol", 1e7)
	model.RegisterGenome(genome)

	sink := genex.NewTSVSink(os.Stdout)
	if err := model.Simulate(60, 5, sink); err != nil {
		fmt.Fprintf(os.Stderr, "simulation failed: %v\n", err)
		os.Exit(1)
	}
	if err := sink.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
