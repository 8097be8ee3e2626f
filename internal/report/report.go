// Package report renders extracted CDRs as text blocks or a JSON document.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"anarcdr/internal/cdr"
)

// JSONName is the file written into the output directory in JSON mode.
const JSONName = "results.json"

// WriteText prints one block per identifier:
//
//	[Trastuzumab_H]
//	cdr1: GFNIKDTY----
//	cdr2: ...
//
// CDR names missing from an identifier's map are skipped.
func WriteText(w io.Writer, res cdr.Result) error {
	bw := bufio.NewWriter(w)
	for _, id := range res.IDs() {
		fmt.Fprintf(bw, "[%s]\n", id)
		for _, name := range cdr.Names() {
			if seq, ok := res[id][name]; ok {
				fmt.Fprintf(bw, "%s: %s\n", name, seq)
			}
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// WriteJSON encodes res as a single JSON object followed by a newline.
func WriteJSON(w io.Writer, res cdr.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// SaveJSON creates or truncates path and writes res to it.
func SaveJSON(path string, res cdr.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadJSON reads a results file written by SaveJSON.
func LoadJSON(path string) (cdr.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var res cdr.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if res == nil {
		res = cdr.Result{}
	}
	return res, nil
}
