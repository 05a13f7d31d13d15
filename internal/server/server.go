package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tidings-hq/tidings-feed-reader/internal/domain"
	"github.com/tidings-hq/tidings-feed-reader/internal/feed"
	"github.com/tidings-hq/tidings-feed-reader/internal/feedlist"
	"github.com/tidings-hq/tidings-feed-reader/internal/logger"
)

// BookmarkStore is the bookmark persistence surface the API needs.
type BookmarkStore interface {
	Bookmarks() ([]domain.Bookmark, error)
	ToggleBookmark(b domain.Bookmark) (added bool, err error)
	RemoveBookmark(link string) error
}

// Server exposes the reader's JSON API: the feed list, per-feed article
// batches, and bookmarks.
type Server struct {
	feeds     *feedlist.Service
	bookmarks BookmarkStore
	cache     *feed.Cache
	router    *mux.Router
	server    *http.Server
}

// NewServer wires the API over the given collaborators.
func NewServer(feeds *feedlist.Service, bookmarks BookmarkStore, cache *feed.Cache) *Server {
	s := &Server{
		feeds:     feeds,
		bookmarks: bookmarks,
		cache:     cache,
		router:    mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(requestLogging)

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/feeds", s.handleListFeeds).Methods(http.MethodGet)
	api.HandleFunc("/feeds", s.handleAddFeed).Methods(http.MethodPost)
	api.HandleFunc("/feeds", s.handleReorderFeeds).Methods(http.MethodPut)
	api.HandleFunc("/feeds", s.handleRemoveFeed).Methods(http.MethodDelete)
	api.HandleFunc("/feeds/reset", s.handleResetFeeds).Methods(http.MethodPost)

	api.HandleFunc("/articles", s.handleArticles).Methods(http.MethodGet)

	api.HandleFunc("/bookmarks", s.handleListBookmarks).Methods(http.MethodGet)
	api.HandleFunc("/bookmarks", s.handleToggleBookmark).Methods(http.MethodPost)
	api.HandleFunc("/bookmarks", s.handleRemoveBookmark).Methods(http.MethodDelete)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
}

// Handler returns the routed handler, primarily for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start launches the HTTP server and blocks until it stops.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.InfoObj("api server listening", "addr", addr)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
