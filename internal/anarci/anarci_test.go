package anarci

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-anarci")
	_, err := Resolve(missing)
	if err == nil {
		t.Fatalf("expected error for missing executable")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Path != missing {
		t.Fatalf("expected NotFoundError naming %q, got %v", missing, err)
	}
	if !strings.Contains(err.Error(), "--anarci-path") {
		t.Fatalf("expected remediation hint in %q", err.Error())
	}
}

func TestArgs(t *testing.T) {
	tool := &Tool{Path: "/opt/anarci"}
	got := strings.Join(tool.Args("in.fasta", "out/anarci.tsv"), " ")
	if got != "-i in.fasta -o out/anarci.tsv --scheme imgt" {
		t.Fatalf("unexpected args: %s", got)
	}
	if cl := tool.CommandLine("in.fasta", "o.tsv"); !strings.HasPrefix(cl, "/opt/anarci -i in.fasta") {
		t.Fatalf("unexpected command line: %s", cl)
	}
}

func TestExitErrorIs(t *testing.T) {
	err := error(&ExitError{Code: 3})
	if !errors.Is(err, ErrFailed) {
		t.Fatalf("expected ExitError to match ErrFailed")
	}
	if !strings.Contains(err.Error(), "exit code: 3") {
		t.Fatalf("unexpected message: %s", err)
	}
}
