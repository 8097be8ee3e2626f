//go:build unix

package anarci

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeScript creates an executable shell script standing in for ANARCI.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "fake-anarci")
	if err := os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRunWritesOutputAndPassesStreams(t *testing.T) {
	// $4 is the -o argument
	script := writeScript(t, `echo "numbering $2"; echo "H 27 Q" > "$4"`)
	tool, err := New(script)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var stdout, stderr bytes.Buffer
	tool.Stdout, tool.Stderr = &stdout, &stderr

	out := filepath.Join(t.TempDir(), "anarci.tsv")
	if err := tool.Run(context.Background(), "in.fasta", out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if strings.TrimSpace(string(data)) != "H 27 Q" {
		t.Fatalf("unexpected output %q", data)
	}
	if !strings.Contains(stdout.String(), "numbering in.fasta") {
		t.Fatalf("stdout not passed through: %q", stdout.String())
	}
}

func TestRunNonZeroExit(t *testing.T) {
	script := writeScript(t, `echo boom >&2; exit 3`)
	tool, err := New(script)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var stderr bytes.Buffer
	tool.Stdout, tool.Stderr = &bytes.Buffer{}, &stderr

	err = tool.Run(context.Background(), "in.fasta", filepath.Join(t.TempDir(), "x.tsv"))
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 3 {
		t.Fatalf("expected exit code 3, got %v", err)
	}
	if !strings.Contains(stderr.String(), "boom") {
		t.Fatalf("stderr not passed through: %q", stderr.String())
	}
}
