package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"tamboon/internal/cache"
	"tamboon/internal/core"
	"tamboon/internal/scanning"
	"tamboon/internal/sheets"
	appweb "tamboon/web"
)

// Server serves the donation form, the HTMX partials and the CSV export.
type Server struct {
	http.Server
	templates   *template.Template
	appender    sheets.DonationAppender
	lister      sheets.DonationLister
	scanner     scanning.Scanner
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	// The donation list is the only read model; one cached copy serves
	// the stats, the table and the CSV export between writes.
	listCache *cache.TTL[[]core.Donation]

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server. The scanner may be nil when no OCR key is configured;
// slip scans then degrade to manual entry.
func NewServer(addr string, appender sheets.DonationAppender, lister sheets.DonationLister, scanner scanning.Scanner) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		appender:    appender,
		lister:      lister,
		scanner:     scanner,
		rateLimiter: newRateLimiter(),
		metrics:     &securityMetrics{},
		listCache:   cache.NewTTL[[]core.Donation](30 * time.Second),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/donations", s.withSecurityHeaders(s.handleCreateDonation))
	mux.HandleFunc("/donations.csv", s.withSecurityHeaders(s.handleExportCSV))
	mux.HandleFunc("/slip/scan", s.withSecurityHeaders(s.handleScanSlip))
	// UI partials
	mux.HandleFunc("/ui/stats", s.withSecurityHeaders(s.handleStats))
	mux.HandleFunc("/ui/recent", s.withSecurityHeaders(s.handleRecent))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		if s.scanner != nil {
			if err := s.scanner.Close(); err != nil {
				slog.Warn("Failed closing slip scanner", "error", err)
			}
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// donations returns the list through the TTL cache, bounding the backend
// call so a slow spreadsheet cannot hang a partial.
func (s *Server) donations(ctx context.Context) ([]core.Donation, error) {
	if items, found := s.listCache.Get(); found {
		out := make([]core.Donation, len(items))
		copy(out, items)
		return out, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	items, err := s.lister.ListDonations(cctx)
	if err != nil {
		return nil, err
	}

	s.listCache.Set(items)
	return items, nil
}
