package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-breadcrumb/internal/pages"
)

type pageCreatePayload struct {
	ID         *uuid.UUID `json:"id,omitempty"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	ParentPath string     `json:"parent_path,omitempty"`
	Slug       string     `json:"slug"`
	Title      string     `json:"title,omitempty"`
	Kind       pages.Kind `json:"kind,omitempty"`
	Position   *int       `json:"position,omitempty"`
}

func (api *API) registerPageRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "pages")
	mux.HandleFunc("GET "+root, api.handlePageList)
	mux.HandleFunc("POST "+root, api.handlePageCreate)
	mux.HandleFunc("GET "+root+"/lookup", api.handlePageLookup)
}

func (api *API) pagesAvailable(w http.ResponseWriter) bool {
	if api == nil || api.pages == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return false
	}
	return true
}

// handlePageList returns every page ordered by path. ?documents=true keeps
// documents only.
func (api *API) handlePageList(w http.ResponseWriter, r *http.Request) {
	if !api.pagesAvailable(w) {
		return
	}
	list, err := api.pages.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if parseBoolQuery(r.URL.Query().Get("documents"), false) {
		documents := make([]*pages.Page, 0, len(list))
		for _, page := range list {
			if page.IsDocument() {
				documents = append(documents, page)
			}
		}
		list = documents
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *API) handlePageLookup(w http.ResponseWriter, r *http.Request) {
	if !api.pagesAvailable(w) {
		return
	}
	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" {
		badRequest(w, "path is required")
		return
	}
	record, err := api.pages.GetByPath(r.Context(), path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *API) handlePageCreate(w http.ResponseWriter, r *http.Request) {
	if !api.pagesAvailable(w) {
		return
	}
	var payload pageCreatePayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		badRequest(w, err.Error())
		return
	}
	record, err := api.pages.Create(r.Context(), pages.CreatePageInput{
		ID:         payload.ID,
		ParentID:   payload.ParentID,
		ParentPath: payload.ParentPath,
		Slug:       payload.Slug,
		Title:      payload.Title,
		Kind:       payload.Kind,
		Position:   payload.Position,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	api.logger.Info("http.pages.created", "path", record.Path)
	writeJSON(w, http.StatusCreated, record)
}
