// Package numbering reads the residue table written by ANARCI.
//
// Each data row starts with `<chain> <position> <residue>`; further columns
// are ignored. Rows that do not fit that shape are skipped rather than
// reported, since ANARCI mixes insertion codes and annotations into the
// same table.
package numbering

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Gap is the residue recorded for a row whose residue column is empty. It
// also marks positions missing from the table when CDRs are sliced.
const Gap = '-'

// Entry is one parsed row of the table.
type Entry struct {
	Chain    string
	Position int
	Residue  rune
}

// Table maps chain label to IMGT position to residue. Positions absent from
// the tool's output are absent from the map.
type Table map[string]map[int]rune

// Add folds e into t, overwriting any residue already at that position.
func (t Table) Add(e Entry) {
	pos, ok := t[e.Chain]
	if !ok {
		pos = make(map[int]rune)
		t[e.Chain] = pos
	}
	pos[e.Position] = e.Residue
}

// Chains returns the chain labels present in t in sorted order.
func (t Table) Chains() []string {
	chains := make([]string, 0, len(t))
	for c := range t {
		chains = append(chains, c)
	}
	sort.Strings(chains)
	return chains
}

// ParseLine parses a single table row. ok is false for blank lines, comments
// and malformed rows.
func ParseLine(line string) (e Entry, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Entry{}, false
	}
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Entry{}, false
	}
	pos, err := strconv.Atoi(fields[1])
	if err != nil || pos < 0 {
		return Entry{}, false
	}
	res := rune(Gap)
	for _, r := range fields[2] {
		res = r
		break
	}
	return Entry{Chain: fields[0], Position: pos, Residue: res}, true
}

// Parse reads a whole table from r.
func Parse(r io.Reader) (Table, error) {
	t := make(Table)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if e, ok := ParseLine(scanner.Text()); ok {
			t.Add(e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read numbering table: %w", err)
	}
	return t, nil
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
