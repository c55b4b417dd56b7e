// Package api provides the ChordShift HTTP and WebSocket server.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/ChordShift/internal/cache"
	"github.com/FocuswithJustin/ChordShift/internal/history"
	"github.com/FocuswithJustin/ChordShift/internal/logging"
	"github.com/FocuswithJustin/ChordShift/internal/server"
)

// Server serves transpositions over HTTP and WebSocket.
type Server struct {
	cfg       Config
	store     *history.Store // nil when history is off
	cache     *cache.TTLCache[string, TransposeResult]
	upgrader  websocket.Upgrader
	startTime time.Time
}

// NewServer creates a server. store may be nil.
func NewServer(cfg Config, store *history.Store) *Server {
	cfg = cfg.withDefaults()
	s := &Server{
		cfg:       cfg,
		store:     store,
		startTime: time.Now(),
	}
	if cfg.CacheTTL > 0 {
		s.cache = cache.New[string, TransposeResult](cfg.CacheTTL, cfg.CacheSize)
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = server.SecurityHeadersMiddleware(server.APIContentSecurityPolicy, s.routes())
	handler = server.CORSMiddlewareWithConfig(server.CORSConfig{AllowedOrigins: s.cfg.AllowedOrigins}, handler)
	return logging.CombinedMiddleware(handler)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if len(s.cfg.AllowedOrigins) > 0 {
		logging.Info("cors configured", "mode", "restricted", "allowed_origins_count", len(s.cfg.AllowedOrigins))
	} else {
		logging.Warn("cors configured", "mode", "permissive",
			"note", "allowing all origins (*) - consider restricting for production")
	}
	logging.ServerStartup("rest_api", "http", s.cfg.Port,
		"websocket_protocol", "ws",
		"mode", s.cfg.Mode.String(),
		"history", s.store != nil,
		"cache_ttl", s.cfg.CacheTTL.String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logging.Info("server stopped")
	return nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/keys", s.handleKeys)
	mux.HandleFunc("/transpose", s.handleTranspose)
	mux.HandleFunc("/transpose/musicxml", s.handleMusicXML)
	mux.HandleFunc("/ws", s.handleWebSocket)

	return mux
}
