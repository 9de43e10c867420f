package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/fwojciec/linktext"
	"github.com/google/uuid"
)

// ShutdownTimeout is the time given for outstanding requests to finish
// before the server is forcibly closed.
const ShutdownTimeout = 5 * time.Second

// DefaultCORSOrigin is the allowed origin when none is configured.
const DefaultCORSOrigin = "http://localhost:5173"

// maxRequestBody caps JSON request bodies.
const maxRequestBody = 1 << 20

// RequestIDHeader carries the per-request identifier.
const RequestIDHeader = "X-Request-ID"

// Server serves the linktext JSON API.
type Server struct {
	ln     net.Listener
	server *http.Server
	mux    *http.ServeMux

	// Addr is the bind address, e.g. ":8000".
	Addr string

	// CORSOrigins lists the origins allowed to call the API. "*" allows any.
	CORSOrigins []string

	Logger *slog.Logger

	// Services used by the handlers. A nil service disables its route.
	ScrapeService linktext.Scraper
	SearchService linktext.Searcher
	AskService    linktext.Asker
}

// NewServer returns a new Server with routes registered.
func NewServer() *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		CORSOrigins: []string{DefaultCORSOrigin},
		Logger:      slog.New(slog.DiscardHandler),
	}
	s.server = &http.Server{
		Handler:           http.HandlerFunc(s.serveHTTP),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("POST /api/scrape", s.handleScrape)
	s.mux.HandleFunc("POST /api/search", s.handleSearch)
	s.mux.HandleFunc("POST /api/ask", s.handleAsk)
	s.mux.HandleFunc("POST /api/groq", s.handleAsk)

	return s
}

// Handler returns the server's root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Open binds Addr and starts serving in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("http server stopped", "err", err)
		}
	}()
	return nil
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// serveHTTP applies request IDs, request logging and CORS before routing.
func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	begin := time.Now()

	id := r.Header.Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, id)
	logger := s.Logger.With("request_id", id)
	r = r.WithContext(newContextWithLogger(r.Context(), logger))

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	defer func() {
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(begin),
		)
	}()

	if s.applyCORS(rec, r) {
		return
	}
	s.mux.ServeHTTP(rec, r)
}

// applyCORS sets CORS headers for allowed origins and answers preflight
// requests. It reports whether the request has been fully handled.
func (s *Server) applyCORS(w http.ResponseWriter, r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || !s.originAllowed(origin) {
		return false
	}

	h := w.Header()
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Credentials", "true")
	h.Add("Vary", "Origin")

	if r.Method != http.MethodOptions || r.Header.Get("Access-Control-Request-Method") == "" {
		return false
	}
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
		h.Set("Access-Control-Allow-Headers", reqHeaders)
	}
	h.Set("Access-Control-Max-Age", "600")
	w.WriteHeader(http.StatusNoContent)
	return true
}

func (s *Server) originAllowed(origin string) bool {
	return slices.ContainsFunc(s.CORSOrigins, func(o string) bool {
		return o == "*" || strings.EqualFold(o, origin)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/api/health", http.StatusFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type scrapeRequest struct {
	Links []string `json:"links"`
}

type scrapeResponse struct {
	Content string `json:"content"`
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if s.ScrapeService == nil {
		Error(w, r, linktext.Errorf(linktext.EUNAVAILABLE, "scraping not configured"))
		return
	}

	var req scrapeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}
	if req.Links == nil {
		Error(w, r, linktext.Errorf(linktext.EINVALID, "links required"))
		return
	}

	content, err := s.ScrapeService.Scrape(r.Context(), req.Links)
	if err != nil {
		writeError(w, r, "Error during scraping", err)
		return
	}
	writeJSON(w, http.StatusOK, scrapeResponse{Content: content})
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Links []string `json:"links"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.SearchService == nil {
		Error(w, r, linktext.Errorf(linktext.EUNAVAILABLE, "search not configured"))
		return
	}

	var req searchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}

	links, err := s.SearchService.Search(r.Context(), req.Query)
	if err != nil {
		writeError(w, r, "Error during search", err)
		return
	}
	if links == nil {
		links = []string{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Links: links})
}

type askRequest struct {
	Prompt  string `json:"prompt"`
	Content string `json:"content"`
}

type askResponse struct {
	Output string `json:"output"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.AskService == nil {
		Error(w, r, linktext.Errorf(linktext.EUNAVAILABLE, "language model not configured"))
		return
	}

	var req askRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}

	output, err := s.AskService.Ask(r.Context(), req.Prompt, req.Content)
	if err != nil {
		writeError(w, r, "Error processing prompt", err)
		return
	}
	writeJSON(w, http.StatusOK, askResponse{Output: output})
}

// Error writes err as a JSON {"detail": ...} body with the status mapped
// from its code. Internal errors are logged and reported generically.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, "", err)
}

// writeError is Error with prefix prepended to the detail of every error
// except validation failures.
func writeError(w http.ResponseWriter, r *http.Request, prefix string, err error) {
	code, message := linktext.ErrorCode(err), linktext.ErrorMessage(err)

	if code == linktext.EINTERNAL {
		LoggerFromContext(r.Context()).Error("http error",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
	}
	if prefix != "" && code != linktext.EINVALID {
		message = prefix + ": " + message
	}

	writeJSON(w, ErrorStatusCode(code), map[string]string{"detail": message})
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	linktext.EINVALID:     http.StatusBadRequest,
	linktext.ENOTFOUND:    http.StatusNotFound,
	linktext.EUNAVAILABLE: http.StatusServiceUnavailable,
	linktext.EINTERNAL:    http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return linktext.Errorf(linktext.EINVALID, "invalid JSON body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type loggerKey struct{}

func newContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext returns the request logger, or the default logger when
// none is attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
