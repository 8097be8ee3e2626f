package fasta

// Package fasta contains minimal helpers to parse FASTA formatted data used
// by the project. It intentionally keeps parsing simple and conservative.

import (
	"bufio"
	"io"
	"strings"
)

// Record represents a single FASTA record (header and sequence).
type Record struct {
	Header   string
	Sequence string
}

// ParseFasta reads FASTA records from r and returns them in file order.
// Lines beginning with '>' denote headers; sequence lines are concatenated.
// Sequence data before the first header is dropped.
func ParseFasta(r io.Reader) ([]Record, error) {
	var records []Record
	var current *Record
	err := scanLines(r, func(line string) {
		if strings.HasPrefix(line, ">") {
			records = append(records, Record{Header: Header(line)})
			current = &records[len(records)-1]
			return
		}
		if current != nil {
			current.Sequence += strings.TrimSpace(line)
		}
	})
	return records, err
}

// Headers calls fn with every header line in r, in order, with the leading
// marker removed. Sequence lines are not buffered.
func Headers(r io.Reader, fn func(header string)) error {
	return scanLines(r, func(line string) {
		if strings.HasPrefix(line, ">") {
			fn(Header(line))
		}
	})
}

// Header strips the '>' marker and surrounding whitespace from a header line.
func Header(line string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, ">"))
}

// scanLines calls fn for every line of r without its line ending. Lines of
// any length are accepted.
func scanLines(r io.Reader, fn func(string)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			fn(strings.TrimRight(line, "\r\n"))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
