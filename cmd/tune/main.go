// Package main provides CMA-ES tuning of the vehicle's handling parameters
// against a scripted headless drive.
//
// Usage:
//
//	go run ./cmd/tune -output runs/tune1 [-config path] [-max-evals 200] [-variants 0.8,1.0,1.2]
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/fmxar/racer/config"
)

// formatDuration formats a duration as 1h02m03s, or 2m03s under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h, m, s := d/time.Hour, d%time.Hour/time.Minute, d%time.Minute/time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// parseVariants parses a comma-separated list of steering multipliers.
func parseVariants(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing variant %q: %w", part, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no variants given")
	}
	return out, nil
}

// progress wraps the objective: it counts evaluations, keeps the best
// parameters seen, appends a tune_log.csv row and prints an ETA line.
type progress struct {
	params    *ParamVector
	evaluator *FitnessEvaluator
	maxEvals  int
	log       *csv.Writer

	evals       int
	bestFitness float64
	bestParams  []float64
	start       time.Time
}

func newProgress(params *ParamVector, evaluator *FitnessEvaluator, maxEvals int, w *csv.Writer) *progress {
	header := []string{"eval", "fitness", "distance", "quality"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	w.Write(header)

	return &progress{
		params:      params,
		evaluator:   evaluator,
		maxEvals:    maxEvals,
		log:         w,
		bestFitness: math.Inf(1),
		start:       time.Now(),
	}
}

// objective evaluates a normalized vector. CMA-ES calls it sequentially.
func (p *progress) objective(x []float64) float64 {
	raw := p.params.Clamp(p.params.Denormalize(x))
	fitness := p.evaluator.Evaluate(raw)
	p.evals++

	if fitness < p.bestFitness {
		p.bestFitness = fitness
		p.bestParams = raw
	}

	distance := p.evaluator.LastDistance()
	quality := p.evaluator.LastQuality()

	row := []string{
		strconv.Itoa(p.evals),
		strconv.FormatFloat(fitness, 'f', 6, 64),
		strconv.FormatFloat(distance, 'f', 3, 64),
		strconv.FormatFloat(quality, 'f', 4, 64),
	}
	for _, v := range raw {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	p.log.Write(row)
	p.log.Flush()

	elapsed := time.Since(p.start)
	eta := time.Duration(p.maxEvals-p.evals) * (elapsed / time.Duration(p.evals))
	fmt.Printf("Eval %d/%d: distance=%.0fm quality=%.2f (best=%.0f) | elapsed: %s, ETA: %s\n",
		p.evals, p.maxEvals, distance, quality, p.bestFitness,
		formatDuration(elapsed), formatDuration(eta))

	return fitness
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 3000, "Session length in ticks per evaluation")
	variantsFlag := flag.String("variants", "0.8,1.0,1.2", "Steering multipliers applied to the headless script, one run each")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	variants, err := parseVariants(*variantsFlag)
	if err != nil {
		log.Fatalf("invalid --variants: %v", err)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, int32(*maxTicks), variants, baseCfg)

	logFile, err := os.Create(filepath.Join(*outputDir, "tune_log.csv"))
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	prog := newProgress(params, evaluator, *maxEvals, logWriter)

	popSize := *population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	settings := &optimize.Settings{FuncEvaluations: *maxEvals}
	initX := params.Normalize(params.Clamp(params.ExtractFromConfig(baseCfg)))

	fmt.Printf("Starting CMA-ES tuning with %d parameters, population=%d, max_evals=%d\n",
		params.Dim(), popSize, *maxEvals)
	fmt.Printf("Variants per evaluation: %v, ticks per run: %d\n", variants, *maxTicks)

	result, err := optimize.Minimize(optimize.Problem{Func: prog.objective}, initX, settings, method)
	if err != nil {
		log.Printf("tuning ended: %v", err)
	}
	if prog.bestParams == nil && result != nil {
		prog.bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if prog.bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", prog.evals, formatDuration(time.Since(prog.start)))
	fmt.Printf("Best fitness: %.0f\n", prog.bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s (%s): %.6f\n", spec.Name, spec.Path, prog.bestParams[i])
	}

	if err := writeResults(*outputDir, *configPath, params, prog.bestParams, evaluator); err != nil {
		log.Printf("failed to write results: %v", err)
	}
}

// writeResults saves best_config.yaml and, when available, the best run's
// window stats as best_windows.csv.
func writeResults(dir, configPath string, params *ParamVector, best []float64, evaluator *FitnessEvaluator) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}
	params.ApplyToConfig(cfg, best)

	configOut := filepath.Join(dir, "best_config.yaml")
	if err := cfg.WriteYAML(configOut); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fmt.Printf("\nBest config saved to: %s\n", configOut)

	windows := evaluator.BestWindows()
	if len(windows) == 0 {
		return nil
	}
	windowsOut := filepath.Join(dir, "best_windows.csv")
	f, err := os.Create(windowsOut)
	if err != nil {
		return fmt.Errorf("creating window stats file: %w", err)
	}
	defer f.Close()
	if err := gocsv.Marshal(windows, f); err != nil {
		return fmt.Errorf("writing window stats: %w", err)
	}
	fmt.Printf("Best run window stats saved to: %s\n", windowsOut)
	return nil
}
