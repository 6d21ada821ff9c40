// Package web serves the single-page analysis UI.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"DayTradeAnalytics/internal/agent"
	"DayTradeAnalytics/internal/analysis"
)

// Analyzer runs one analysis request.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Report, error)
}

var exampleTickers = []string{"MSFT", "TSLA", "AMZN", "GOOG"}

type pageData struct {
	Title         string
	Ticker        string
	KeyConfigured bool
	Error         string
	Notice        string
	Analysis      template.HTML
	Charts        []string
	Examples      []string
}

// Server is the HTTP front end. Each request gets its own pipeline run; the
// server holds no per-user state.
type Server struct {
	Analyzer Analyzer
	router   *mux.Router
}

// NewServer creates a Server with its routes registered.
func NewServer(a Analyzer) *Server {
	s := &Server{Analyzer: a, router: mux.NewRouter()}
	s.router.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	s.router.HandleFunc("/analyze", s.handleAnalyzeForm).Methods(http.MethodGet)
	s.router.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Handler:           s,
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, homeTemplate, &pageData{Title: "Day Trade Analytics", Examples: exampleTickers})
}

func (s *Server) handleAnalyzeForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, analyzeTemplate, &pageData{
		Title:  "Stock analysis",
		Ticker: r.URL.Query().Get("ticker"),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, analyzeTemplate, &pageData{Title: "Stock analysis", Error: "invalid form"})
		return
	}
	cred := agent.Credential(strings.TrimSpace(r.PostFormValue("api_key")))
	data := &pageData{
		Title:         "Stock analysis",
		Ticker:        r.PostFormValue("ticker"),
		KeyConfigured: !cred.Empty(),
	}

	report, err := s.Analyzer.Analyze(r.Context(), analysis.Request{
		Ticker:     data.Ticker,
		Credential: cred,
		Source:     "web",
	})
	switch {
	case errors.Is(err, analysis.ErrEmptyTicker):
		data.Error = err.Error()
		s.render(w, http.StatusBadRequest, analyzeTemplate, data)
		return
	case err != nil:
		data.Error = fmt.Sprintf("analysis failed: %v", err)
		s.render(w, http.StatusBadGateway, analyzeTemplate, data)
		return
	}

	data.Ticker = report.Ticker
	if report.AgentErr != nil {
		data.Notice = report.AgentErr.Error()
	}
	if report.HasAnalysis() {
		html, err := renderMarkdown(report.Markdown)
		if err != nil {
			log.WithField("request_id", report.ID).Errorf("render markdown: %v", err)
		}
		data.Analysis = html
	}
	for _, fig := range report.Figures.All() {
		var buf bytes.Buffer
		if err := fig.Render(&buf); err != nil {
			log.WithField("request_id", report.ID).Errorf("render chart: %v", err)
			continue
		}
		data.Charts = append(data.Charts, buf.String())
	}
	s.render(w, http.StatusOK, analyzeTemplate, data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) render(w http.ResponseWriter, status int, tmpl *template.Template, data *pageData) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Errorf("execute template: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
