package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/shametoflame/ministry/internal/bible"
	"github.com/shametoflame/ministry/internal/model"
	"github.com/shametoflame/ministry/internal/response"
	"github.com/shametoflame/ministry/internal/service"
)

type scriptureHandler struct {
	scripture *service.ScriptureService

	// last bulk download report, published from the download goroutine
	downloadProgress atomic.Pointer[service.DownloadProgress]
}

func NewScriptureHandler(scripture *service.ScriptureService) *scriptureHandler {
	return &scriptureHandler{
		scripture: scripture,
	}
}

// Chapter serves one cached chapter; "ref" accepts "JHN.3", "JHN 3", or
// "John 3".
func (h *scriptureHandler) Chapter(w http.ResponseWriter, r *http.Request) {
	book, chapter, err := bible.ParseChapterRef(r.PathValue("ref"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	cached, err := h.scripture.Chapter(r.Context(), book.ID, chapter)
	if err != nil {
		if errors.Is(err, service.ErrScriptureOffline) {
			response.Error(w, http.StatusServiceUnavailable, "chapter not cached and provider unreachable")
			return
		}
		response.Error(w, http.StatusBadGateway, "could not fetch chapter")
		return
	}

	response.Success(w, cached)
}

// Text serves verse text for book/chapter plus optional verse or start/end
// query parameters.
func (h *scriptureHandler) Text(w http.ResponseWriter, r *http.Request) {
	book, chapter, err := bible.ParseChapterRef(r.PathValue("ref"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ref := model.ScriptureReference{Book: book.ID, Chapter: chapter}
	q := r.URL.Query()
	if v := q.Get("verse"); v != "" {
		ref.Verse, _ = strconv.Atoi(v)
	}
	if v := q.Get("start"); v != "" {
		ref.StartVerse, _ = strconv.Atoi(v)
	}
	if v := q.Get("end"); v != "" {
		ref.EndVerse, _ = strconv.Atoi(v)
	}

	text, err := h.scripture.Text(r.Context(), ref)
	if err != nil {
		if errors.Is(err, service.ErrScriptureOffline) {
			response.Error(w, http.StatusServiceUnavailable, "passage not cached and provider unreachable")
			return
		}
		response.Error(w, http.StatusNotFound, "passage not found")
		return
	}

	response.Success(w, map[string]any{
		"book":    book.ID,
		"name":    book.Name,
		"chapter": chapter,
		"text":    text,
	})
}

// DownloadAll kicks off the bulk download in the background. A download
// already running gets 409.
func (h *scriptureHandler) DownloadAll(w http.ResponseWriter, r *http.Request) {
	if h.scripture.InProgress() {
		response.Error(w, http.StatusConflict, "download already in progress")
		return
	}

	h.downloadProgress.Store(&service.DownloadProgress{Total: bible.TotalChapters()})

	// Detach from the request context: the download outlives the request
	go func() {
		err := h.scripture.DownloadAll(context.Background(), func(p service.DownloadProgress) {
			h.downloadProgress.Store(&p)
		})
		if err != nil && !errors.Is(err, service.ErrDownloadInProgress) {
			slog.Warn("bulk download ended with error", "error", err)
		}
	}()

	response.Accepted(w, "download started")
}

// Status reports whether the cache counts as downloaded and how far along a
// running bulk download is.
func (h *scriptureHandler) Status(w http.ResponseWriter, r *http.Request) {
	downloaded, err := h.scripture.Downloaded()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not read cache status")
		return
	}

	status := map[string]any{
		"downloaded": downloaded,
		"inProgress": h.scripture.InProgress(),
	}
	if p := h.downloadProgress.Load(); p != nil {
		status["progress"] = p
	}

	response.Success(w, status)
}
