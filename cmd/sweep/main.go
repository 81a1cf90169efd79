// Command sweep runs an evaluation experiment for every combination of the
// selected pipeline config values, sequentially and in-process. A failing
// combination is reported and the sweep continues.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"resumerag/internal/app"
	"resumerag/internal/eval"
	"resumerag/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to the yaml configuration file")
	resume := flag.String("resume", "", "Path to resume (PDF/DOCX)")
	gold := flag.String("gold", "", "Path to YAML of QA gold answers")
	parsersList := flag.String("parsers", "", "Comma-separated parser backends (default: baseline)")
	chunkings := flag.String("chunkings", "", "Comma-separated chunking methods (default: recursive)")
	embeddingsList := flag.String("embeddings", "", "Comma-separated embedding models (default: text-embedding-3-small)")
	reranks := flag.String("reranks", "", "Comma-separated rerank strategies (default: none)")
	prompts := flag.String("prompts", "", "Comma-separated prompt variants (default: baseline)")
	ks := flag.String("ks", "", "Comma-separated k values (default: 5)")
	flag.Parse()

	if *resume == "" || *gold == "" {
		log.Fatal("-resume and -gold are required")
	}

	application, err := app.New(*configPath)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	runner, err := application.EvalRunner()
	if err != nil {
		log.Fatalf("Failed to build eval runner: %v", err)
	}

	spec := eval.SweepSpec{
		Parsers:    splitList(*parsersList),
		Chunkings:  splitList(*chunkings),
		Embeddings: splitList(*embeddingsList),
		Reranks:    splitList(*reranks),
		Prompts:    splitList(*prompts),
		Ks:         splitInts(*ks),
	}

	sweep := eval.NewSweep(runner, logger.New("sweep"))
	results := sweep.Run(context.Background(), *resume, *gold, spec)

	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Printf("FAIL %s/%s/%s/%s/%s k=%d: %v\n",
				res.Config.Parser, res.Config.Chunking, res.Config.Embedding,
				res.Config.Rerank, res.Config.Prompt, res.Config.K, res.Err)
			continue
		}
		fmt.Printf("OK   %s (%s)\n", res.Experiment.Name, res.Experiment.ID)
	}
	fmt.Printf("Sweep finished: %d combinations, %d failed\n", len(results), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func splitInts(s string) []int {
	var out []int
	for _, part := range splitList(s) {
		n, err := strconv.Atoi(part)
		if err != nil {
			log.Fatalf("Invalid k value %q: %v", part, err)
		}
		out = append(out, n)
	}
	return out
}
