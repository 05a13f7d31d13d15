package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tidings-hq/tidings-feed-reader/internal/domain"
	"github.com/tidings-hq/tidings-feed-reader/internal/feed"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListFeeds(w http.ResponseWriter, _ *http.Request) {
	feeds, err := s.feeds.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, feeds)
}

func (s *Server) handleAddFeed(w http.ResponseWriter, r *http.Request) {
	var f domain.Feed
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid feed payload")
		return
	}
	if err := s.feeds.Add(f); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) handleReorderFeeds(w http.ResponseWriter, r *http.Request) {
	var feeds []domain.Feed
	if err := json.NewDecoder(r.Body).Decode(&feeds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid feeds payload")
		return
	}
	if err := s.feeds.Reorder(feeds); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, feeds)
}

func (s *Server) handleRemoveFeed(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		writeError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}
	if err := s.feeds.Remove(url); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetFeeds(w http.ResponseWriter, _ *http.Request) {
	if err := s.feeds.Reset(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	feeds, err := s.feeds.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, feeds)
}

// handleArticles fetches the requested feed and returns its batch. Fetch
// errors keep the typed taxonomy: timeouts map to 504, transport and upstream
// HTTP failures to 502, converter parse failures to 422.
func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		writeError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	articles, err := s.cache.Refresh(r.Context(), url)
	if err != nil {
		writeError(w, fetchErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

func fetchErrorStatus(err error) int {
	var (
		timeout *feed.TimeoutError
		network *feed.NetworkError
		failed  *feed.FetchFailedError
		parse   *feed.ParseError
	)
	switch {
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &network), errors.As(err, &failed):
		return http.StatusBadGateway
	case errors.As(err, &parse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, _ *http.Request) {
	bookmarks, err := s.bookmarks.Bookmarks()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if bookmarks == nil {
		bookmarks = []domain.Bookmark{}
	}
	writeJSON(w, http.StatusOK, bookmarks)
}

// handleToggleBookmark accepts a full article and toggles its bookmark,
// persisting only the reduced projection.
func (s *Server) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	var article domain.Article
	if err := json.NewDecoder(r.Body).Decode(&article); err != nil {
		writeError(w, http.StatusBadRequest, "invalid article payload")
		return
	}
	if article.Link == "" {
		writeError(w, http.StatusUnprocessableEntity, "article link is required")
		return
	}

	added, err := s.bookmarks.ToggleBookmark(domain.NewBookmark(article))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"bookmarked": added})
}

func (s *Server) handleRemoveBookmark(w http.ResponseWriter, r *http.Request) {
	link := strings.TrimSpace(r.URL.Query().Get("link"))
	if link == "" {
		writeError(w, http.StatusBadRequest, "link query parameter is required")
		return
	}
	if err := s.bookmarks.RemoveBookmark(link); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
