package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AntoC-dev/recipelens/internal/extract"
	"github.com/AntoC-dev/recipelens/internal/recognizer"
	"github.com/AntoC-dev/recipelens/internal/terms"
)

// extractorInterface defines the methods the server needs from an extractor.
type extractorInterface interface {
	Extract(ctx context.Context, image []byte, field extract.FieldKind, lang string, st extract.State) (extract.Patch, []string)
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	extractor   extractorInterface
	languages   []string
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int
	limiter     *ClientLimiter
}

// Config holds server configuration.
type Config struct {
	Host              string
	Port              int
	CORSOrigin        string
	MaxUploadMB       int64
	TimeoutSec        int
	RatePerMinute     int
	DailyUploadMB     int64
	Language          string
	RecognizerURL     string
	RecognizerAPIKey  string
	RecognizerTimeout time.Duration
	Heuristics        extract.Heuristics
	TermsDir          string
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// FieldsResponse lists the extractable fields and covered languages.
type FieldsResponse struct {
	Fields    []string `json:"fields"`
	Languages []string `json:"languages"`
}

// ExtractResponse is the /extract/{field} payload.
type ExtractResponse struct {
	Success  bool          `json:"success"`
	Field    string        `json:"field,omitempty"`
	Patch    extract.Patch `json:"patch"`
	Warnings []string      `json:"warnings,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// NewServer creates a new extraction server instance.
func NewServer(config Config) (*Server, error) {
	store, err := terms.NewStore()
	if err != nil {
		return nil, err
	}
	if config.TermsDir != "" {
		if err := store.LoadDir(config.TermsDir); err != nil {
			return nil, err
		}
	}

	client := recognizer.NewClient(recognizer.ClientConfig{
		BaseURL: config.RecognizerURL,
		APIKey:  config.RecognizerAPIKey,
		Timeout: config.RecognizerTimeout,
	})

	heur := config.Heuristics
	if heur == (extract.Heuristics{}) {
		heur = extract.DefaultHeuristics()
	}
	lang := config.Language
	if lang == "" {
		lang = "en"
	}

	extractor := extract.NewExtractor(client, store,
		extract.WithLanguage(lang),
		extract.WithHeuristics(heur),
	)

	var limiter *ClientLimiter
	if config.RatePerMinute > 0 || config.DailyUploadMB > 0 {
		limiter = NewClientLimiter(config.RatePerMinute, config.DailyUploadMB*1024*1024)
	}

	return &Server{
		extractor:   extractor,
		languages:   store.Languages(),
		corsOrigin:  config.CORSOrigin,
		maxUploadMB: config.MaxUploadMB,
		timeoutSec:  config.TimeoutSec,
		limiter:     limiter,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/fields", s.corsMiddleware(s.fieldsHandler))
	mux.HandleFunc("/extract/", s.corsMiddleware(s.extractHandler))
	mux.HandleFunc("/ws", s.extractWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
