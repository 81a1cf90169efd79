// Command eval runs one evaluation experiment for a single resume: ingest,
// answer every gold question, submit the outputs to LangSmith for scoring.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"resumerag/internal/app"
	"resumerag/internal/rag/schema"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to the yaml configuration file")
	resume := flag.String("resume", "", "Path to resume (PDF/DOCX)")
	gold := flag.String("gold", "", "Path to YAML of QA gold answers")
	ns := flag.String("namespace", "", "Namespace to ingest/query (e.g. docling_recursive_small)")
	parserBackend := flag.String("parser_backend", schema.ParserBaseline, "Parser backend: baseline or docling")
	chunking := flag.String("chunking", schema.ChunkingRecursive, "Chunking method: recursive or token")
	embeddingModel := flag.String("embedding_model", schema.EmbeddingSmall, "Embedding model name")
	rerank := flag.String("rerank", schema.RerankNone, "Rerank strategy: none, llm, bge or cohere")
	promptVariant := flag.String("prompt_variant", schema.PromptBaseline, "Prompt variant: baseline or strict")
	k := flag.Int("k", schema.DefaultTopK, "Number of chunks to retrieve")
	expLabel := flag.String("exp_label", "", "Optional experiment label suffix")
	flag.Parse()

	if *resume == "" || *gold == "" || *ns == "" {
		log.Fatal("-resume, -gold and -namespace are required")
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

	cfg := schema.PipelineConfig{
		Parser:    *parserBackend,
		Chunking:  *chunking,
		Embedding: *embeddingModel,
		Rerank:    *rerank,
		Prompt:    *promptVariant,
		K:         *k,
		Namespace: *ns,
	}

	experiment, err := runner.Run(context.Background(), *resume, *gold, cfg, *expLabel)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
	fmt.Printf("Experiment submitted: %s (%s)\n", experiment.Name, experiment.ID)
	fmt.Println("Open LangSmith > Experiments to compare scores.")
}
