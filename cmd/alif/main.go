package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/houshuang/alif/internal/autointro"
	"github.com/houshuang/alif/internal/cli"
	"github.com/houshuang/alif/internal/config"
	"github.com/houshuang/alif/internal/db"
	"github.com/houshuang/alif/internal/fsrs"
	"github.com/houshuang/alif/internal/identity"
	"github.com/houshuang/alif/internal/importer"
	"github.com/houshuang/alif/internal/llm"
	"github.com/houshuang/alif/internal/material"
	alifpipeline "github.com/houshuang/alif/internal/pipeline"
	"github.com/houshuang/alif/internal/repository"
	"github.com/houshuang/alif/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dbPath := os.Getenv("ALIF_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".alif", "alif.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	params, err := config.Load(os.Getenv("ALIF_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Wire repositories directly against *sql.DB. No UnitOfWork wraps any
	// write path, here or inside session.Builder, so each repository write
	// commits on its own.
	knowledgeRepo := repository.NewSQLiteKnowledgeRepo(database)
	lemmaRepo := repository.NewSQLiteLemmaRepo(database)
	sentenceRepo := repository.NewSQLiteSentenceRepo(database)
	reviewLogRepo := repository.NewSQLiteReviewLogRepo(database)
	rootRepo := repository.NewSQLiteRootRepo(database)
	variantRepo := repository.NewSQLiteVariantDecisionRepo(database)

	llmCfg := llm.LoadConfig()
	var observer llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		observer = llm.NewLogObserver(os.Stderr)
	}

	resolverOpts := []identity.Option{identity.WithKnowledgeRepo(knowledgeRepo)}
	var oracle llm.Oracle
	if llmCfg.Enabled {
		llmClient := llm.NewOllamaClient(llmCfg, observer)
		oracle = llm.NewOracle(llmClient)
		resolverOpts = append(resolverOpts, identity.WithOracle(oracle))
	}
	resolver := identity.NewResolver(lemmaRepo, rootRepo, variantRepo, resolverOpts...)

	var pipelineObserver alifpipeline.Observer = alifpipeline.NoopObserver{}
	if envEnabled("ALIF_LOG_PIPELINE") {
		pipelineObserver = alifpipeline.NewLogObserver(os.Stderr)
	}
	pipeline := material.New(sentenceRepo, knowledgeRepo, lemmaRepo, rootRepo, resolver, oracle, params.Material, params.Leech,
		material.WithObserver(pipelineObserver))

	fsrsScheduler := fsrs.New(knowledgeRepo, reviewLogRepo, params.FSRS, params.Leech)
	autoIntro := autointro.New(knowledgeRepo, reviewLogRepo, rootRepo, params.AutoIntro)
	builder := session.New(knowledgeRepo, sentenceRepo, lemmaRepo, reviewLogRepo, fsrsScheduler, pipeline, autoIntro, params)
	ingester := importer.NewIngester(lemmaRepo, rootRepo, knowledgeRepo, sentenceRepo, resolver)

	app := &cli.App{
		Builder:   builder,
		Pipeline:  pipeline,
		FSRS:      fsrsScheduler,
		Resolver:  resolver,
		Ingester:  ingester,
		Knowledge: knowledgeRepo,
		Lemmas:    lemmaRepo,
		Sentences: sentenceRepo,
		Logs:      reviewLogRepo,
		Params:    params,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	root := cli.NewRootCmd(app)
	return root.Execute()
}

func envEnabled(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "yes", "on":
		return true
	default:
		return false
	}
}
