// Package cdr slices complementarity-determining regions out of an
// IMGT-numbered residue table and maps chain labels back to the sequence
// identifiers they came from.
package cdr

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"anarcdr/internal/fasta"
	"anarcdr/internal/numbering"
)

// Gap fills positions the numbering table has no residue for.
const Gap = numbering.Gap

// Chain labels used by ANARCI.
const (
	Heavy = "H"
	Light = "L"
)

// Range is an inclusive span of IMGT positions.
type Range struct {
	Name       string
	Start, End int
}

// Len is the number of positions covered by r.
func (r Range) Len() int { return r.End - r.Start + 1 }

// IMGT is the fixed CDR table for the IMGT numbering scheme.
var IMGT = []Range{
	{Name: "cdr1", Start: 27, End: 38},
	{Name: "cdr2", Start: 56, End: 65},
	{Name: "cdr3", Start: 105, End: 117},
}

// Names lists the CDR names of IMGT in output order.
func Names() []string {
	names := make([]string, len(IMGT))
	for i, r := range IMGT {
		names[i] = r.Name
	}
	return names
}

// Identities maps a chain label to the FASTA identifier it was read from.
type Identities map[string]string

// Result maps a sequence identifier to CDR name to extracted sequence.
type Result map[string]map[string]string

// chainSuffixes decides the chain label of a FASTA identifier.
var chainSuffixes = []struct{ suffix, chain string }{
	{"_H", Heavy},
	{"_L", Light},
}

// ChainOf returns the chain label implied by id's suffix.
func ChainOf(id string) (string, bool) {
	for _, s := range chainSuffixes {
		if strings.HasSuffix(id, s.suffix) {
			return s.chain, true
		}
	}
	return "", false
}

// ScanChains reads FASTA headers from r and records which identifier each
// chain label came from. A later header with the same chain overwrites an
// earlier one; headers without a chain suffix are ignored.
func ScanChains(r io.Reader) (Identities, error) {
	ids := make(Identities)
	err := fasta.Headers(r, func(id string) {
		if chain, ok := ChainOf(id); ok {
			ids[chain] = id
		}
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ScanChainsFile is ScanChains over the file at path.
func ScanChainsFile(path string) (Identities, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ids, err := ScanChains(f)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return ids, nil
}

// Slice builds the residues of r from a chain's position map, one character
// per position.
func Slice(positions map[int]rune, r Range) string {
	var b strings.Builder
	b.Grow(r.Len())
	for pos := r.Start; pos <= r.End; pos++ {
		res, ok := positions[pos]
		if !ok {
			res = Gap
		}
		b.WriteRune(res)
	}
	return b.String()
}

// Extract slices every range out of every chain present in t. Chains absent
// from t produce no entry.
func Extract(t numbering.Table, ranges []Range) map[string]map[string]string {
	out := make(map[string]map[string]string, len(t))
	for chain, positions := range t {
		cdrs := make(map[string]string, len(ranges))
		for _, r := range ranges {
			cdrs[r.Name] = Slice(positions, r)
		}
		out[chain] = cdrs
	}
	return out
}

// Label re-keys extracted chains by their original identifier, falling back
// to the bare chain label. Chains are visited in sorted order; when two
// chains map to the same identifier the later one wins.
func Label(chains map[string]map[string]string, ids Identities) Result {
	labels := make([]string, 0, len(chains))
	for chain := range chains {
		labels = append(labels, chain)
	}
	sort.Strings(labels)

	res := make(Result, len(chains))
	for _, chain := range labels {
		id, ok := ids[chain]
		if !ok {
			id = chain
		}
		res[id] = chains[chain]
	}
	return res
}

// IDs returns the identifiers of r in sorted order.
func (r Result) IDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
