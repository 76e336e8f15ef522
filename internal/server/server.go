// Package server serves documentation pages over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/agentflare-ai/go-restdoc/apidocs"
	"github.com/agentflare-ai/go-restdoc/internal/docerr"
	"github.com/agentflare-ai/go-restdoc/resource"
)

// DocsPrefix is the path under which resource pages are served.
const DocsPrefix = "/docs"

// Options configures a Server.
type Options struct {
	Root     string
	Verbs    resource.VerbTable
	Renderer apidocs.Renderer

	Title    string
	CSS      string
	Footer   string
	Template string
	// Index adds the navigation list of every resource to each page.
	Index bool
	// Language is used when a request carries no Accept-Language header.
	Language language.Tag

	Logger *zap.Logger
}

// Server renders resource pages on request.
type Server struct {
	opts     Options
	logger   *zap.Logger
	router   *mux.Router
	registry *prometheus.Registry
	pages    *prometheus.CounterVec
	latency  prometheus.Histogram
}

// New returns a Server with its routes and metrics registered.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		opts:     opts,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "restdoc_pages_rendered_total",
			Help: "Documentation page requests by response status.",
		}, []string{"status"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "restdoc_page_render_seconds",
			Help:    "Time spent assembling a documentation page.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	s.registry.MustRegister(s.pages, s.latency)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc(DocsPrefix+"/{uri:.*}", s.page).Methods(http.MethodGet, http.MethodHead)
	r.Use(s.requestID, s.accessLog, s.language)
	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr), zap.String("root", s.opts.Root))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	uri := resourceURI(mux.Vars(r)["uri"])
	tag := Language(r.Context())

	html, err := s.RenderPage(uri, tag)
	status := http.StatusOK
	if err != nil {
		status = StatusFor(err)
		fields := []zap.Field{zap.String("uri", uri), zap.String("request_id", RequestID(r.Context())), zap.Error(err)}
		if status >= http.StatusInternalServerError {
			s.logger.Error("page failed", fields...)
		} else {
			s.logger.Debug("page unavailable", fields...)
		}
		http.Error(w, http.StatusText(status), status)
	} else {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Language", tag.String())
		_, _ = w.Write([]byte(html))
	}
	s.pages.WithLabelValues(strconv.Itoa(status)).Inc()
	s.latency.Observe(time.Since(start).Seconds())
}

// RenderPage assembles the full HTML page of uri with labels in tag. A URI
// that does not name a directory inside the root is a not-found error.
func (s *Server) RenderPage(uri string, tag language.Tag) (string, error) {
	asm := apidocs.New(s.opts.Root,
		apidocs.WithVerbTable(s.opts.Verbs),
		apidocs.WithRenderer(s.opts.Renderer),
		apidocs.WithLocalizer(apidocs.NewLocalizer(tag)),
		apidocs.WithLogger(s.logger),
	)
	loc := asm.Locator()
	if !resource.IsContained(loc.Root, loc.Dir(uri)) {
		return "", docerr.New(docerr.KindNotFound, uri, "no such resource")
	}

	b, err := asm.CreateForURI(uri)
	if err != nil {
		return "", err
	}
	b.Title = s.opts.Title
	b.CSS = s.opts.CSS
	b.Footer = s.opts.Footer
	b.Template = s.opts.Template
	if s.opts.Index {
		uris, err := loc.Discover()
		if err != nil {
			return "", err
		}
		b.Index = apidocs.BuildIndex(apidocs.IndexEntries(DocsPrefix, uris), uri)
	}
	return b.GeneratePage(), nil
}

// resourceURI turns the captured path into a resource URI with leading and
// trailing slashes.
func resourceURI(captured string) string {
	captured = strings.Trim(captured, "/")
	if captured == "" {
		return "/"
	}
	return "/" + captured + "/"
}

// StatusFor maps an error to the HTTP status reported for it.
func StatusFor(err error) int {
	switch docerr.GetKind(err) {
	case docerr.KindNotFound:
		return http.StatusNotFound
	case docerr.KindUsage:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
