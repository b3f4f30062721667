// Package server provides the preview HTTP server for paginated listings,
// with live reload support when pagination groups or views change.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/aellingwood/pager/internal/config"
	"github.com/aellingwood/pager/internal/pagination"
	"github.com/aellingwood/pager/internal/request"
	"github.com/aellingwood/pager/internal/security"
	"github.com/aellingwood/pager/internal/seo"
	"github.com/aellingwood/pager/internal/store"
	tmpl "github.com/aellingwood/pager/internal/template"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// pagesPattern is the route of route-paginated listings. /pages serves its
// first page.
const pagesPattern = "/pages/page/{page}"

// DefaultTitleTemplate names pages after the first in <title>.
const DefaultTitleTemplate = "{title} (page {page} of {total})"

// ServeOptions contains the configurable settings for the preview server.
type ServeOptions struct {
	Port       int
	Bind       string
	ConfigPath string // group file reloaded on change; empty disables reloading
	Group      string // option group applied to every listing
	ViewDir    string
	BaseURL    string
	Title      string
	// TitleTemplate is expanded by seo.PageTitle for pages after the first.
	TitleTemplate string
	NoLiveReload  bool
	Verbose       bool
}

// Server is the preview HTTP server. It renders a paginated listing per
// request and provides WebSocket-based live reloading when the group file or
// the view directory changes.
type Server struct {
	options ServeOptions
	counter store.Counter

	mu     sync.RWMutex
	groups config.Source
	engine *tmpl.Engine

	hub     *Hub
	watcher *Watcher
	server  *http.Server
}

// NewServer creates a new Server. groups may be nil when no group file is in
// use.
func NewServer(groups config.Source, engine *tmpl.Engine, counter store.Counter, opts ServeOptions) *Server {
	if opts.Title == "" {
		opts.Title = "Items"
	}
	if opts.TitleTemplate == "" {
		opts.TitleTemplate = DefaultTitleTemplate
	}
	return &Server{
		options: opts,
		counter: counter,
		groups:  groups,
		engine:  engine,
		hub:     NewHub(),
	}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	if s.options.Verbose {
		r.Use(chimiddleware.Logger)
	}
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/sitemap.xml", s.handleSitemap)
	r.Get("/__pager/ws", s.hub.HandleWS)
	r.Get("/", s.handleList(false))
	r.Get("/pages", s.handleList(true))
	r.Get(pagesPattern, s.handleList(true))
	return r
}

// Start starts the HTTP server, WebSocket hub, and file watcher. It blocks
// until the provided context is cancelled or the server is stopped.
func (s *Server) Start(ctx context.Context) error {
	// Start the WebSocket hub.
	go s.hub.Run()

	addr := fmt.Sprintf("%s:%d", s.options.Bind, s.options.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the file watcher if paths are provided.
	if s.watcher != nil {
		go func() {
			if err := s.watcher.Start(); err != nil {
				log.Printf("watcher error: %v", err)
			}
		}()
	}

	// Listen for context cancellation to trigger graceful shutdown.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	fmt.Printf("Serving at http://%s\n", ln.Addr())

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server, watcher, and hub.
func (s *Server) Stop() error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.hub.Stop()
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// SetWatcher configures the file watcher for the server.
func (s *Server) SetWatcher(w *Watcher) {
	s.watcher = w
}

// WatchPaths returns the paths whose changes should trigger Reload.
func (s *Server) WatchPaths() []string {
	var paths []string
	if s.options.ConfigPath != "" {
		paths = append(paths, s.options.ConfigPath)
	}
	if s.options.ViewDir != "" {
		paths = append(paths, s.options.ViewDir)
	}
	return paths
}

// NotifyReload sends a reload message to all connected WebSocket clients.
func (s *Server) NotifyReload() {
	s.hub.Broadcast([]byte("reload"))
}

// Reload re-reads the group file and the view directory. On error the
// previous groups and views stay in use.
func (s *Server) Reload() error {
	var groups config.Source
	if s.options.ConfigPath != "" {
		if _, err := os.Stat(s.options.ConfigPath); err == nil {
			file, err := config.LoadFile(s.options.ConfigPath)
			if err != nil {
				return err
			}
			groups = file
		}
	}

	engine, err := tmpl.NewEngine(s.options.ViewDir)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.groups = groups
	s.engine = engine
	s.mu.Unlock()
	return nil
}

// OnChange is the watcher callback: it reloads and notifies clients.
func (s *Server) OnChange() {
	if err := s.Reload(); err != nil {
		log.Printf("reload failed, keeping previous configuration: %v", err)
		return
	}
	if s.options.Verbose {
		log.Printf("reloaded %v", s.WatchPaths())
	}
	if !s.options.NoLiveReload {
		s.NotifyReload()
	}
}

func (s *Server) current() (config.Source, *tmpl.Engine) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groups, s.engine
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// handleList renders one page of the listing. When route is set the page
// number is read from the {page} route parameter, otherwise from the page
// query parameter.
func (s *Server) handleList(route bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		groups, engine := s.current()
		req := request.FromHTTP(r, s.options.BaseURL)

		total, err := s.counter.Count(ctx)
		if err != nil {
			s.fail(w, "counting items", err)
			return
		}

		overrides := map[string]any{config.KeyTotalItems: total}
		if s.options.Group != "" {
			overrides[config.KeyGroup] = s.options.Group
		}
		if route {
			req = req.WithPattern(pagesPattern)
			overrides[config.KeyCurrentPage] = map[string]any{
				"source": config.SourceRoute,
				"key":    "page",
			}
		}

		p, err := pagination.New(pagination.Options{
			Request:  req,
			Groups:   groups,
			Renderer: engine,
		}, overrides)
		if err != nil {
			s.fail(w, "configuring pagination", err)
			return
		}

		if raw, ok := req.RouteParam("page"); route && ok && !p.IsValidPage(raw) {
			http.NotFound(w, r)
			return
		}

		items, err := s.counter.Items(ctx, p.Offset(), p.ItemsPerPage())
		if err != nil {
			s.fail(w, "listing items", err)
			return
		}

		nav, err := p.Render("")
		if err != nil {
			s.fail(w, "rendering pagination", err)
			return
		}

		nonce, err := security.GenerateNonce()
		if err != nil {
			s.fail(w, "generating nonce", err)
			return
		}

		out, err := engine.Execute("pages/list", &tmpl.PageContext{
			Title:      seo.PageTitle(s.options.Title, s.options.TitleTemplate, p.CurrentPage(), p.TotalPages()),
			Language:   p.Settings().Language,
			Head:       template.HTML(seo.HeadLinks(p)),
			Nonce:      nonce,
			LiveReload: !s.options.NoLiveReload,
			Items:      items,
			Offset:     p.Offset(),
			Pagination: template.HTML(nav),
			View:       p.View(),
		})
		if err != nil {
			s.fail(w, "rendering page", err)
			return
		}

		// The live reload script connects back to the host the page came from.
		wsOrigin := ""
		if !s.options.NoLiveReload {
			wsOrigin = "ws://" + r.Host
		}

		security.SetHeaders(w.Header(), security.PagePolicy(nonce, wsOrigin))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(out)
	}
}

// handleSitemap lists every page of the route-paginated listing.
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	groups, _ := s.current()

	total, err := s.counter.Count(r.Context())
	if err != nil {
		s.fail(w, "counting items", err)
		return
	}

	overrides := map[string]any{
		config.KeyTotalItems: total,
		config.KeyCurrentPage: map[string]any{
			"source": config.SourceRoute,
			"key":    "page",
		},
	}
	if s.options.Group != "" {
		overrides[config.KeyGroup] = s.options.Group
	}
	p, err := pagination.New(pagination.Options{
		Request: request.FromHTTP(r, s.options.BaseURL).WithPattern(pagesPattern),
		Groups:  groups,
	}, overrides)
	if err != nil {
		s.fail(w, "configuring pagination", err)
		return
	}

	out, err := seo.GenerateSitemap(seo.ListingEntries(p, time.Time{}))
	if err != nil {
		s.fail(w, "generating sitemap", err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

func (s *Server) fail(w http.ResponseWriter, what string, err error) {
	log.Printf("%s: %v", what, err)
	http.Error(w, "500 internal server error", http.StatusInternalServerError)
}
