// Command loimos runs the Loimos distributed agent-based epidemic
// simulator (spec.md §1, §6). Grounded on the teacher's bin/contagion/
// main.go: a thin entry point that parses flags, builds a model, runs it,
// and logs timing, with the heavier construction work delegated to this
// package's buildCoordinator/loadRealDataScenario helpers the way the teacher
// delegates to contagiongo.NewSISimulation.
package main

import (
	"log"
	"os"
	"runtime"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/kentwait/loimos/internal/config"
	"github.com/kentwait/loimos/internal/output"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	cfg, err := config.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	runID := ksuid.New()
	log.Printf("run %s: starting", runID)

	start := time.Now()
	coord, err := buildCoordinator(cfg)
	if err != nil {
		log.Fatalf("error building simulation: %s", err)
	}
	log.Printf("built simulation in %s, starting %d-day run", time.Since(start), cfg.NumDays)

	runStart := time.Now()
	rows := coord.Run()
	coord.Router.Close()
	log.Printf("finished %d-day run in %s", cfg.NumDays, time.Since(runStart))

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Fatalf("error creating output directory: %s", err)
	}
	csvWriter, err := output.NewCSVWriter(cfg.OutputDir)
	if err != nil {
		log.Fatalf("error creating output writer: %s", err)
	}
	sqliteWriter, err := output.NewSQLiteWriter(cfg.OutputDir)
	if err != nil {
		log.Fatalf("error creating output writer: %s", err)
	}
	writer := output.MultiWriter{Writers: []output.Writer{csvWriter, sqliteWriter}}
	if err := output.WriteAll(writer, rows); err != nil {
		log.Fatalf("error writing summary output: %s", err)
	}
	log.Printf("run %s: wrote summary to %s", runID, cfg.OutputDir)
}
