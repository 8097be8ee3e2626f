package report

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"anarcdr/internal/cdr"
	"anarcdr/internal/numbering"
)

func sampleResult() cdr.Result {
	tbl := make(numbering.Table)
	tbl.Add(numbering.Entry{Chain: "H", Position: 27, Residue: 'Q'})
	tbl.Add(numbering.Entry{Chain: "H", Position: 38, Residue: 'S'})
	tbl.Add(numbering.Entry{Chain: "L", Position: 105, Residue: 'C'})
	return cdr.Label(cdr.Extract(tbl, cdr.IMGT), cdr.Identities{"H": "Ab_H", "L": "Ab_L"})
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "[Ab_H]\n" +
		"cdr1: Q----------S\n" +
		"cdr2: ----------\n" +
		"cdr3: -------------\n" +
		"\n" +
		"[Ab_L]\n" +
		"cdr1: ------------\n" +
		"cdr2: ----------\n" +
		"cdr3: C------------\n" +
		"\n"
	if buf.String() != want {
		t.Fatalf("unexpected text output:\n%s", buf.String())
	}
}

func TestWriteTextSkipsMissingNames(t *testing.T) {
	var buf bytes.Buffer
	res := cdr.Result{"x": {"cdr3": "AR"}}
	if err := WriteText(&buf, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "[x]\ncdr3: AR\n\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	res := sampleResult()
	path := filepath.Join(t.TempDir(), JSONName)
	if err := SaveJSON(path, res); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, res) {
		t.Fatalf("round trip mismatch:\n got %v\nwant %v", got, res)
	}
}

func TestWriteJSONSingleLine(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, cdr.Result{"Ab_H": {"cdr1": "Q-S"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != `{"Ab_H":{"cdr1":"Q-S"}}`+"\n" {
		t.Fatalf("unexpected json %q", buf.String())
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Fatalf("expected a single line")
	}
}

func TestLoadJSONErrors(t *testing.T) {
	if _, err := LoadJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
