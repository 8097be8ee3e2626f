// Package pipeline runs one extraction end to end:
//
//	validate tool -> scan FASTA -> invoke ANARCI -> parse table -> extract -> emit
//
// Each stage runs once, in order. The first failure stops the run and is
// returned wrapped in one of the error kinds below.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"anarcdr/internal/anarci"
	"anarcdr/internal/cdr"
	"anarcdr/internal/fasta"
	"anarcdr/internal/numbering"
	"anarcdr/internal/report"
)

// TableName is the file ANARCI writes into the output directory.
const TableName = "anarci.tsv"

var (
	ErrToolNotFound = errors.New("tool not found")
	ErrToolFailed   = errors.New("tool failed")
	ErrFileIO       = errors.New("file i/o")
	ErrConfig       = errors.New("invalid configuration")
)

// Options describes a single run.
type Options struct {
	Input      string
	OutputDir  string
	JSON       bool
	AnarciPath string
	DryRun     bool
}

// Deps are the collaborators of a run. Zero fields get production defaults.
type Deps struct {
	// Resolve turns the configured executable into a Runner.
	Resolve func(name string) (anarci.Runner, error)
	Stdout  io.Writer
	Logger  *log.Logger
}

func resolveTool(name string) (anarci.Runner, error) {
	return anarci.New(name)
}

// Run executes the pipeline and returns the extracted result. Nothing is
// returned in dry-run mode.
func Run(ctx context.Context, opts Options, deps Deps) (cdr.Result, error) {
	if deps.Resolve == nil {
		deps.Resolve = resolveTool
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	if opts.Input == "" {
		return nil, fmt.Errorf("%w: no input FASTA given", ErrConfig)
	}
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("%w: empty output directory", ErrConfig)
	}
	if fi, err := os.Stat(opts.OutputDir); err == nil && !fi.IsDir() {
		return nil, fmt.Errorf("%w: output path %s is not a directory", ErrConfig, opts.OutputDir)
	}

	name := opts.AnarciPath
	if name == "" {
		name = anarci.DefaultName
	}
	runner, err := deps.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrToolNotFound, err)
	}
	logger.Debug("anarci resolved", "name", name)

	ids, err := cdr.ScanChainsFile(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("%w: read input FASTA: %w", ErrFileIO, err)
	}
	logger.Info("scanned fasta", "path", opts.Input, "chains", len(ids))
	for chain, id := range ids {
		logger.Debug("chain identity", "chain", chain, "id", id)
	}

	tablePath := filepath.Join(opts.OutputDir, TableName)
	if opts.DryRun {
		if err := logRecords(logger, opts.Input); err != nil {
			return nil, fmt.Errorf("%w: read input FASTA: %w", ErrFileIO, err)
		}
		if t, ok := runner.(*anarci.Tool); ok {
			logger.Info("dry-run: would run anarci", "cmd", t.CommandLine(opts.Input, tablePath))
		} else {
			logger.Info("dry-run: skipping anarci invocation", "output", tablePath)
		}
		return nil, nil
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create output directory: %w", ErrFileIO, err)
	}

	logger.Info("running anarci", "input", opts.Input, "output", tablePath, "scheme", anarci.SchemeIMGT)
	if err := runner.Run(ctx, opts.Input, tablePath); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrToolFailed, err)
	}
	fmt.Fprintln(deps.Stdout, "ANARCI finished. Parsing output for CDR extraction...")

	table, err := numbering.ParseFile(tablePath)
	if err != nil {
		return nil, fmt.Errorf("%w: read ANARCI output: %w", ErrFileIO, err)
	}
	logger.Debug("parsed numbering table", "chains", strings.Join(table.Chains(), ","))

	res := cdr.Label(cdr.Extract(table, cdr.IMGT), ids)
	logger.Info("extracted cdrs", "sequences", len(res))

	if opts.JSON {
		jsonPath := filepath.Join(opts.OutputDir, report.JSONName)
		if err := report.SaveJSON(jsonPath, res); err != nil {
			return nil, fmt.Errorf("%w: write %s: %w", ErrFileIO, jsonPath, err)
		}
		fmt.Fprintf(deps.Stdout, "Saved CDR JSON output to: %s\n", jsonPath)
		return res, nil
	}
	if err := report.WriteText(deps.Stdout, res); err != nil {
		return nil, fmt.Errorf("%w: write results: %w", ErrFileIO, err)
	}
	fmt.Fprintf(deps.Stdout, "ANARCI output: %s\n", tablePath)
	return res, nil
}

// logRecords reports every record of the input FASTA with its length.
func logRecords(logger *log.Logger, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	records, err := fasta.ParseFasta(f)
	if err != nil {
		return err
	}
	for _, rec := range records {
		chain, _ := cdr.ChainOf(rec.Header)
		logger.Info("dry-run: input record", "id", rec.Header, "chain", chain, "length", len(rec.Sequence))
	}
	return nil
}

// ExitCode maps a Run error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
