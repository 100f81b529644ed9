package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/biocircuit/genesim/internal/genex"
	"github.com/biocircuit/genesim/internal/genex/sinks"
)

func main() {
	cfg, err := loadRunConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing flags: %v\n", err)
		os.Exit(1)
	}
	if cfg.ModelFile == "" {
		fmt.Fprintf(os.Stderr, "error: --model-file is required\n")
		flag.Usage()
		os.Exit(1)
	}

	logger := NewLogger(cfg.LogLevel)

	modelCfg, err := loadModelFromFile(cfg.ModelFile)
	if err != nil {
		logger.Errorf("loading model: %v", err)
		os.Exit(1)
	}
	if cfg.Seed != 0 {
		modelCfg.Seed = cfg.Seed
	}

	runSet, err := genex.NewRunSet(modelCfg, cfg.Replicates)
	if err != nil {
		logger.Errorf("preparing run set: %v", err)
		os.Exit(1)
	}
	runSet.SetLogger(logger)

	// A single stream sink is shared across replicates so clients see the
	// whole batch on one connection.
	var stream *sinks.WebSocketSink
	if cfg.StreamAddr != "" {
		stream = sinks.NewWebSocketSink()
		defer stream.Close()
		mux := http.NewServeMux()
		mux.HandleFunc("/stream", stream.Handler())
		go func() {
			logger.Infof("serving snapshot stream on %s/stream", cfg.StreamAddr)
			if err := http.ListenAndServe(cfg.StreamAddr, mux); err != nil {
				logger.Errorf("stream server: %v", err)
			}
		}()
	}

	sinkFor := func(replicate int) (genex.Sink, error) {
		var parts []genex.Sink

		tsv, err := tsvSink(cfg.OutputFile, replicate, cfg.Replicates)
		if err != nil {
			return nil, err
		}
		parts = append(parts, tsv)

		if cfg.SQLitePath != "" {
			name := modelCfg.Name
			if cfg.Replicates > 1 {
				name = fmt.Sprintf("%s (replicate %d)", name, replicate)
			}
			db, err := sinks.NewSQLiteSink(cfg.SQLitePath, name)
			if err != nil {
				return nil, err
			}
			parts = append(parts, db)
		}
		if cfg.WebhookURL != "" {
			parts = append(parts, sinks.NewWebhookSink(cfg.WebhookURL))
		}
		if stream != nil {
			parts = append(parts, noCloseSink{stream})
		}
		return genex.NewMultiSink(parts...), nil
	}

	if err := runSet.Run(cfg.Horizon, cfg.Interval, sinkFor); err != nil {
		logger.Errorf("simulation failed: %v", err)
		os.Exit(1)
	}
	logger.Infof("simulation finished: model=%s replicates=%d horizon=%g", modelCfg.Name, cfg.Replicates, cfg.Horizon)
}

func loadModelFromFile(path string) (genex.ModelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return genex.ModelConfig{}, fmt.Errorf("reading model file: %w", err)
	}
	var cfg genex.ModelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return genex.ModelConfig{}, fmt.Errorf("parsing model JSON: %w", err)
	}
	if err := genex.ValidateModelConfig(cfg); err != nil {
		return genex.ModelConfig{}, fmt.Errorf("validating model: %w", err)
	}
	return cfg, nil
}

func tsvSink(path string, replicate, replicates int) (genex.Sink, error) {
	if path == "-" {
		return genex.NewTSVSink(os.Stdout), nil
	}
	if replicates > 1 {
		ext := filepath.Ext(path)
		path = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(path, ext), replicate, ext)
	}
	return genex.NewTSVFileSink(path)
}

// noCloseSink shields a shared sink from the per-replicate Close.
type noCloseSink struct {
	genex.Sink
}

func (noCloseSink) Close() error { return nil }
