package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"anarcdr/internal/pipeline"
)

func TestRootRequiresInput(t *testing.T) {
	wd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	if !errors.Is(err, pipeline.ErrConfig) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRootToolNotFound(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ab.fasta")
	if err := os.WriteFile(input, []byte(">Ab_H\nEVQL\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "outputs")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"-i", input, "-o", out, "--anarci-path", filepath.Join(dir, "missing-anarci"), "--config", writeConfig(t, dir)})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	if !errors.Is(err, pipeline.ErrToolNotFound) {
		t.Fatalf("expected tool not found, got %v", err)
	}
	if pipeline.ExitCode(err) != 1 {
		t.Fatalf("expected exit code 1")
	}
	if _, err := os.Stat(filepath.Join(out, pipeline.TableName)); !os.IsNotExist(err) {
		t.Fatalf("anarci.tsv must not be created")
	}
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "anarcdr.yaml")
	if err := os.WriteFile(p, []byte("log_level: error\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRootErrorReachesLogFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ab.fasta")
	if err := os.WriteFile(input, []byte(">Ab_H\nEVQL\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	logPath := filepath.Join(dir, "run.log")
	cfgPath := filepath.Join(dir, "anarcdr.json")
	if err := os.WriteFile(cfgPath, []byte(`{"log_file":"`+logPath+`"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{"-i", input, "-o", filepath.Join(dir, "outputs"), "--anarci-path", filepath.Join(dir, "missing-anarci"), "--config", cfgPath})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	if !errors.Is(err, pipeline.ErrToolNotFound) {
		t.Fatalf("expected tool not found, got %v", err)
	}
	var logged loggedError
	if !errors.As(err, &logged) {
		t.Fatalf("expected error to be marked as logged")
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "anarcdr failed") || !strings.Contains(string(data), "tool not found") {
		t.Fatalf("log file missing error: %q", data)
	}
}
