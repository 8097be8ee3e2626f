package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"anarcdr/internal/config"
	"anarcdr/internal/logging"
	"anarcdr/internal/pipeline"
)

// version is the program version. It can be overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

type flags struct {
	input      string
	output     string
	json       bool
	anarciPath string
	configPath string
	logLevel   string
	verbose    bool
	dryRun     bool
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:     "anarcdr",
		Short:   "CDR extraction tool using ANARCI",
		Long: `anarcdr numbers antibody sequences with ANARCI (IMGT scheme) and extracts
the CDR1, CDR2 and CDR3 sequences of each chain.

FASTA identifiers ending in _H or _L are used to label heavy and light
chains in the output.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.input, "input", "i", "", "input FASTA file")
	fl.StringVarP(&f.output, "output", "o", config.DefaultOutputDir, "output directory")
	fl.BoolVar(&f.json, "json", false, "write results as JSON to <output>/results.json")
	fl.StringVar(&f.anarciPath, "anarci-path", "", "path to the ANARCI executable (default: anarci from PATH)")
	fl.StringVar(&f.configPath, "config", "", "path to anarcdr.json or anarcdr.yaml (optional)")
	fl.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "enable verbose (debug) logging")
	fl.BoolVar(&f.dryRun, "dry-run", false, "scan the input and show the ANARCI command without running it")
	return cmd
}

func run(cmd *cobra.Command, f flags) error {
	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrConfig, err)
	}

	// flags override config when provided
	fl := cmd.Flags()
	if fl.Changed("input") || cfg.InputFasta == "" {
		cfg.InputFasta = f.input
	}
	if fl.Changed("output") {
		cfg.OutputDir = f.output
	}
	if f.json {
		cfg.JSON = true
	}
	if fl.Changed("anarci-path") {
		cfg.AnarciPath = f.anarciPath
	}
	if fl.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}

	logger, closeLog := logging.New(logging.Options{LogFile: cfg.LogFile, Level: cfg.LogLevel, Verbose: f.verbose})
	defer closeLog()
	if err := extract(cmd, f, cfg, logger); err != nil {
		logger.Error("anarcdr failed", "err", err)
		return loggedError{err}
	}
	return nil
}

// loggedError marks an error already written through the configured logger.
type loggedError struct{ error }

func (e loggedError) Unwrap() error { return e.error }

func extract(cmd *cobra.Command, f flags, cfg *config.Config, logger *log.Logger) error {
	logger.Debug("loaded config", "input_fasta", cfg.InputFasta, "output_dir", cfg.OutputDir, "json", cfg.JSON, "anarci_path", cfg.AnarciPath, "log_file", cfg.LogFile)

	if cfg.InputFasta == "" {
		_ = cmd.Usage()
		return fmt.Errorf("%w: --input is required", pipeline.ErrConfig)
	}

	opts := pipeline.Options{
		Input:      cfg.InputFasta,
		OutputDir:  cfg.OutputDir,
		JSON:       cfg.JSON,
		AnarciPath: cfg.AnarciPath,
		DryRun:     f.dryRun,
	}
	_, err := pipeline.Run(cmd.Context(), opts, pipeline.Deps{Stdout: cmd.OutOrStdout(), Logger: logger})
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var logged loggedError
		if !errors.As(err, &logged) {
			log.Error("anarcdr failed", "err", err)
		}
		os.Exit(pipeline.ExitCode(err))
	}
}
