package main

import (
	"embed"
	"encoding/json"
	"flag"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"anarcdr/internal/cdr"
	"anarcdr/internal/logging"
	"anarcdr/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Row is one identifier with its CDRs in IMGT order.
type Row struct {
	ID   string
	Seqs []string
}

// Entries is the table rendered by sequences.html.
type Entries struct {
	Names []string
	Rows  []Row
}

// IndexPage is used to render the base page and to carry query state
type IndexPage struct {
	Query   string
	Entries Entries
}

// CDRView is one CDR of the detail page.
type CDRView struct {
	Name       string
	Start, End int
	Seq        string
}

// SequencePage renders a single identifier.
type SequencePage struct {
	ID   string
	CDRs []CDRView
}

// statusResponseWriter captures status and bytes written for logging
type statusResponseWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

// loggingMiddleware logs each request with method, path, status, size and duration
func loggingMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w}
		next.ServeHTTP(srw, r)
		if srw.status == 0 {
			srw.status = http.StatusOK
		}
		logger.Info("request", "remote", r.RemoteAddr, "method", r.Method, "uri", r.URL.RequestURI(),
			"status", srw.status, "bytes", srw.written, "duration", time.Since(start))
	})
}

// filterEntries keeps identifiers containing q (case-insensitive).
func filterEntries(res cdr.Result, q string) Entries {
	q = strings.ToLower(strings.TrimSpace(q))
	e := Entries{Names: cdr.Names()}
	for _, id := range res.IDs() {
		if q != "" && !strings.Contains(strings.ToLower(id), q) {
			continue
		}
		row := Row{ID: id}
		for _, name := range e.Names {
			row.Seqs = append(row.Seqs, res[id][name])
		}
		e.Rows = append(e.Rows, row)
	}
	return e
}

func indexHandler(resultsPath string, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		res, err := report.LoadJSON(resultsPath)
		if err != nil {
			logger.Warn("failed to read results for index", "path", resultsPath, "err", err)
			res = cdr.Result{}
		}
		q := r.URL.Query().Get("q")
		page := IndexPage{Query: q, Entries: filterEntries(res, q)}
		if err := templates.ExecuteTemplate(w, "base.html", page); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// sequenceID extracts the identifier following prefix in the request path.
func sequenceID(r *http.Request, prefix string) string {
	return strings.TrimPrefix(r.URL.Path, prefix)
}

func sequenceHandler(resultsPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := sequenceID(r, "/sequence/")
		if id == "" {
			http.Error(w, "missing sequence", http.StatusBadRequest)
			return
		}
		res, err := report.LoadJSON(resultsPath)
		if err != nil {
			http.Error(w, "failed to read results", http.StatusInternalServerError)
			return
		}
		cdrs, ok := res[id]
		if !ok {
			http.Error(w, "sequence not found", http.StatusNotFound)
			return
		}
		page := SequencePage{ID: id}
		for _, rg := range cdr.IMGT {
			if seq, ok := cdrs[rg.Name]; ok {
				page.CDRs = append(page.CDRs, CDRView{Name: rg.Name, Start: rg.Start, End: rg.End, Seq: seq})
			}
		}
		if err := templates.ExecuteTemplate(w, "sequence.html", page); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// apiResultsHandler returns the whole results document
func apiResultsHandler(resultsPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := report.LoadJSON(resultsPath)
		if err != nil {
			http.Error(w, "failed to read results", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = report.WriteJSON(w, res)
	}
}

// apiSequenceHandler returns JSON for a single identifier
func apiSequenceHandler(resultsPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := sequenceID(r, "/api/sequence/")
		if id == "" {
			http.Error(w, "missing sequence", http.StatusBadRequest)
			return
		}
		res, err := report.LoadJSON(resultsPath)
		if err != nil {
			http.Error(w, "failed to read results", http.StatusInternalServerError)
			return
		}
		cdrs, ok := res[id]
		if !ok {
			http.Error(w, "sequence not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(cdrs)
	}
}

func newMux(resultsPath string, logger *log.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", indexHandler(resultsPath, logger))
	mux.HandleFunc("/sequence/", sequenceHandler(resultsPath))
	mux.HandleFunc("/api/results", apiResultsHandler(resultsPath))
	mux.HandleFunc("/api/sequence/", apiSequenceHandler(resultsPath))
	return mux
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP address to serve on")
	resultsPath := flag.String("results", "outputs/"+report.JSONName, "results.json written by anarcdr --json")
	logFile := flag.String("log", "", "path to write access logs (optional)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger, closeLog := logging.New(logging.Options{Prefix: "anarcdr-web", LogFile: *logFile, Level: *logLevel})
	defer closeLog()

	handler := loggingMiddleware(logger, newMux(*resultsPath, logger))
	srv := &http.Server{Addr: *addr, Handler: handler, ReadTimeout: 5 * time.Second, WriteTimeout: 10 * time.Second}
	fmt.Printf("serving CDR results at http://%s/ (results=%s)\n", *addr, *resultsPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
		closeLog()
		os.Exit(1)
	}
}
