// Command extract runs the classification and extraction pipeline over local
// PDF files and writes one JSON run per file to stdout. It needs no database
// or blob storage: prompts use the built-in defaults and few-shot examples
// come from an optional JSON seed file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/JaimeStill/lading/internal/config"
	"github.com/JaimeStill/lading/internal/extraction"
	"github.com/JaimeStill/lading/internal/knowledge"
	"github.com/JaimeStill/lading/internal/pipeline"
	"github.com/JaimeStill/lading/pkg/llm"
	"github.com/JaimeStill/lading/pkg/pdftext"
)

type fileRun struct {
	File string        `json:"file"`
	Run  *pipeline.Run `json:"run,omitempty"`
	Err  string        `json:"error,omitempty"`
}

func main() {
	var (
		configPath = flag.String("config", config.BaseConfigFile, "Base configuration file")
		examples   = flag.String("examples", "", "JSON file of knowledge examples to seed")
		verbose    = flag.Bool("v", false, "Debug logging")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: extract [-config config.toml] [-examples seed.json] [-v] file.pdf...")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *examples, flag.Args(), logger); err != nil {
		logger.Error("extract failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, seed string, files []string, logger *slog.Logger) error {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	provider, err := llm.New(ctx, &cfg.LLM)
	if err != nil {
		return err
	}

	pdf, err := pdftext.New(&cfg.OCR)
	if err != nil {
		return err
	}

	kb := knowledge.New(knowledge.NewMemoryStore(), logger, cfg.Knowledge, cfg.API.Pagination)
	if seed != "" {
		if err := seedExamples(ctx, kb, seed); err != nil {
			return err
		}
	}

	service := extraction.New(extraction.Runtime{
		Provider:  provider,
		Examples:  kb,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		Logger:    logger,
	}, cfg.Extraction)

	pipe := pipeline.New(pipeline.Runtime{
		PDF:          pdf,
		Extraction:   service,
		Examples:     kb,
		FewShotLimit: cfg.Knowledge.FewShotLimit,
		Logger:       logger,
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	failed := 0
	for _, file := range files {
		out := fileRun{File: filepath.Base(file)}

		data, err := os.ReadFile(file)
		if err == nil {
			out.Run, err = pipe.Process(ctx, data)
		}
		if err != nil {
			failed++
			out.Err = err.Error()
			logger.Warn("file failed", "file", file, "error", err)
		}

		if err := enc.Encode(out); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func seedExamples(ctx context.Context, kb knowledge.System, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read examples: %w", err)
	}

	var cmds []knowledge.AddCommand
	if err := json.Unmarshal(data, &cmds); err != nil {
		return fmt.Errorf("decode examples: %w", err)
	}

	for i, cmd := range cmds {
		if _, err := kb.AddExample(ctx, cmd); err != nil {
			return fmt.Errorf("example %d: %w", i, err)
		}
	}
	return nil
}
