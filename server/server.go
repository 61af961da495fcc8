// Package server exposes the AMR converters over HTTP for the visualization
// front end.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/martinemde/amrviz/amrgraph"
	"github.com/martinemde/amrviz/logging"
	"github.com/martinemde/amrviz/visnet"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options configures a Server.
type Options struct {
	Mode            amrgraph.Mode // default when a request names none
	AllowedOrigins  []string
	MaxStoredGraphs int
	MaxBodyBytes    int64
	MaxBatchSize    int
}

// DefaultOptions returns the settings used when none are given.
func DefaultOptions() Options {
	return Options{
		Mode:            amrgraph.ModeHeuristic,
		AllowedOrigins:  []string{"http://localhost:3001", "http://127.0.0.1:3001"},
		MaxStoredGraphs: 256,
		MaxBodyBytes:    1 << 20,
		MaxBatchSize:    64,
	}
}

// Server converts AMR text submitted over HTTP and keeps recent results.
type Server struct {
	opts     Options
	store    *Store
	logger   *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewServer creates a new Server. A nil logger discards logs.
func NewServer(opts Options, logger *zap.Logger) *Server {
	if opts.Mode == "" {
		opts.Mode = amrgraph.ModeHeuristic
	}
	return &Server{
		opts:     opts,
		store:    NewStore(opts.MaxStoredGraphs),
		logger:   logging.OrNop(logger),
		validate: validator.New(),
		now:      time.Now,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(s.logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/graph", s.handleConvert)
		r.Get("/graph/{id}", s.handleGetGraph)
		r.Post("/graphs", s.handleConvertBatch)
		r.Post("/compare", s.handleCompare)
	})

	return router
}

// ListenAndServe serves Handler on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr), zap.String("mode", s.opts.Mode.String()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// --- requests and responses ---

// graphRequest is the request body for POST /api/v1/graph. AMR must be present
// but may be empty, which converts to an empty graph.
type graphRequest struct {
	AMR  *string `json:"amr" validate:"required"`
	Mode string `json:"mode,omitempty" validate:"omitempty,oneof=heuristic nested"`
	Lint bool   `json:"lint,omitempty"`
}

// batchRequest mirrors the results page: one summary AMR plus one AMR per
// top sentence.
type batchRequest struct {
	SummaryAMR      string            `json:"summary_amr" validate:"required_without=TopSentenceAMRs"`
	TopSentenceAMRs map[string]string `json:"top_sentence_amrs" validate:"required_without=SummaryAMR"`
	Mode            string            `json:"mode,omitempty" validate:"omitempty,oneof=heuristic nested"`
}

type batchResponse struct {
	Summary   *visnet.Payload           `json:"summary,omitempty"`
	Sentences map[string]visnet.Payload `json:"sentences"`
}

// compareRequest is the request body for POST /api/v1/compare. AMR2 is scored
// as a summary of AMR1 plus any extra Sources.
type compareRequest struct {
	AMR1      *string  `json:"amr1" validate:"required"`
	AMR2      *string  `json:"amr2" validate:"required"`
	Sources   []string `json:"sources,omitempty"`
	Mode      string   `json:"mode,omitempty" validate:"omitempty,oneof=heuristic nested"`
	Threshold *float64 `json:"threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
}

type compareResponse struct {
	*amrgraph.Comparison
	Consistency amrgraph.ConsistencyResult `json:"consistency"`
}

// --- handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleConvert handles POST /api/v1/graph.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondRequestError(w, err)
		return
	}
	mode := s.mode(req.Mode)

	graph, diags := s.convert(*req.AMR, mode, req.Lint)
	result := &Result{
		ID:        uuid.NewString(),
		Mode:      mode,
		Payload:   visnet.FromGraph(graph, visnet.DefaultOptions()),
		CreatedAt: s.now().UTC(),
	}
	if req.Lint {
		result.Diagnostics = diags
	}
	if evicted := s.store.Put(result); evicted > 0 {
		storeEvictionsTotal.Add(float64(evicted))
	}

	s.respondJSON(w, http.StatusCreated, result)
}

// handleGetGraph handles GET /api/v1/graph/{id}.
func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, ok := s.store.Get(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "graph not found")
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// summaryKey cannot collide with sentence keys, which are all prefixed.
const summaryKey = "summary"

func sentenceKey(sentence string) string { return "sentence:" + sentence }

// handleConvertBatch handles POST /api/v1/graphs.
func (s *Server) handleConvertBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondRequestError(w, err)
		return
	}
	if len(req.TopSentenceAMRs) > s.opts.MaxBatchSize {
		s.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("too many sentences: %d (max %d)", len(req.TopSentenceAMRs), s.opts.MaxBatchSize))
		return
	}
	mode := s.mode(req.Mode)

	texts := make(map[string]string, len(req.TopSentenceAMRs)+1)
	if req.SummaryAMR != "" {
		texts[summaryKey] = req.SummaryAMR
	}
	for sentence, amr := range req.TopSentenceAMRs {
		texts[sentenceKey(sentence)] = amr
	}

	graphs, err := amrgraph.ConvertAll(r.Context(), texts, mode)
	if err != nil {
		s.logger.Warn("batch conversion aborted", zap.Error(err))
		s.respondError(w, http.StatusServiceUnavailable, "batch conversion aborted")
		return
	}

	for _, graph := range graphs {
		observeConversion(mode.String(), len(graph.Nodes), len(graph.Edges))
	}

	resp := batchResponse{Sentences: make(map[string]visnet.Payload, len(req.TopSentenceAMRs))}
	if graph, ok := graphs[summaryKey]; ok {
		payload := visnet.FromGraph(graph, visnet.DefaultOptions())
		resp.Summary = &payload
	}
	for sentence := range req.TopSentenceAMRs {
		resp.Sentences[sentence] = visnet.FromGraph(graphs[sentenceKey(sentence)], visnet.DefaultOptions())
	}

	s.respondJSON(w, http.StatusOK, resp)
}

// handleCompare handles POST /api/v1/compare.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondRequestError(w, err)
		return
	}
	if len(req.Sources) > s.opts.MaxBatchSize {
		s.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("too many sources: %d (max %d)", len(req.Sources), s.opts.MaxBatchSize))
		return
	}
	mode := s.mode(req.Mode)

	threshold := amrgraph.DefaultConsistencyThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	a, _ := s.convert(*req.AMR1, mode, false)
	b, _ := s.convert(*req.AMR2, mode, false)
	sources := []*amrgraph.Graph{a}
	for _, text := range req.Sources {
		g, _ := s.convert(text, mode, false)
		sources = append(sources, g)
	}

	s.respondJSON(w, http.StatusOK, compareResponse{
		Comparison:  amrgraph.Compare(a, b),
		Consistency: amrgraph.CheckConsistency(b, sources, threshold),
	})
}

// --- helpers ---

func (s *Server) mode(name string) amrgraph.Mode {
	if name == "" {
		return s.opts.Mode
	}
	return amrgraph.Mode(name)
}

// convert runs the converter for mode. Diagnostics are computed when requested
// or when debug logging is on; they never change the graph.
func (s *Server) convert(text string, mode amrgraph.Mode, lint bool) (*amrgraph.Graph, []amrgraph.Diagnostic) {
	debug := s.logger.Core().Enabled(zap.DebugLevel)
	if !lint && !debug {
		graph := mode.Convert(text)
		observeConversion(mode.String(), len(graph.Nodes), len(graph.Edges))
		return graph, nil
	}

	doc := amrgraph.NewDocument(text)
	graph := doc.Heuristic
	if mode == amrgraph.ModeNested {
		graph = doc.Nested
	}
	observeConversion(mode.String(), len(graph.Nodes), len(graph.Edges))

	diags := amrgraph.LintDocument(doc)
	for _, d := range diags {
		lintDiagnosticsTotal.WithLabelValues(d.Rule).Inc()
		s.logger.Debug("lint diagnostic",
			zap.String("rule", d.Rule),
			zap.Stringer("severity", d.Severity),
			zap.Int("line", d.Line),
			zap.String("message", d.Message),
		)
	}
	return graph, diags
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &RequestError{Status: http.StatusRequestEntityTooLarge, Message: "request body too large", Cause: err}
		}
		return &RequestError{Status: http.StatusBadRequest, Message: "invalid request body: " + err.Error(), Cause: err}
	}
	if err := s.validate.Struct(dst); err != nil {
		return newValidationError(err)
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]any{
		"error":   true,
		"message": message,
		"code":    status,
	})
}

func (s *Server) respondRequestError(w http.ResponseWriter, err error) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		s.respondError(w, reqErr.Status, reqErr.Message)
		return
	}
	s.logger.Error("unexpected request error", zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, "internal error")
}
