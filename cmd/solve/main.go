package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"paxplan/internal/geo"
	"paxplan/internal/model"
	"paxplan/internal/report"
	"paxplan/internal/solver"
)

func main() {
	var (
		scenarioPath = flag.String("scenario", "", "scenario YAML file (required)")
		geoDir       = flag.String("geo", "config", "directory with distances.yaml, speeds.yaml, gangway.yaml")
		weightsPath  = flag.String("weights", "", "optional weights YAML overlay")
		outPath      = flag.String("out", "", "write the plan text here instead of stdout")
		verbose      = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "usage: solve -scenario FILE [-geo DIR] [-weights FILE] [-out FILE]")
		os.Exit(2)
	}

	matrix, err := geo.LoadMatrix(filepath.Join(*geoDir, "distances.yaml"))
	if err != nil {
		log.Fatalf("distances: %v", err)
	}
	speeds, err := geo.LoadSpeeds(filepath.Join(*geoDir, "speeds.yaml"))
	if err != nil {
		log.Fatalf("speeds: %v", err)
	}
	gangway, err := geo.LoadGangway(filepath.Join(*geoDir, "gangway.yaml"))
	if err != nil {
		log.Fatalf("gangway: %v", err)
	}

	wPath := *weightsPath
	if wPath == "" {
		wPath = filepath.Join(*geoDir, "weights.yaml")
	}
	weights, err := model.LoadWeights(wPath)
	if err != nil {
		log.Fatalf("weights: %v", err)
	}

	sc, err := model.LoadScenario(*scenarioPath, speeds)
	if err != nil {
		log.Fatalf("scenario: %v", err)
	}

	res := solver.New(matrix, gangway, weights, log).Solve(sc)
	text := report.RenderText(res.Plan)

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(text), 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		return
	}
	fmt.Print(text)
}
