package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-breadcrumb/internal/menus"
)

type menuCreatePayload struct {
	Code        string  `json:"code"`
	Location    string  `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
}

type menuItemPayload struct {
	ID           *uuid.UUID     `json:"id,omitempty"`
	ParentID     *uuid.UUID     `json:"parent_id,omitempty"`
	ParentCode   string         `json:"parent_code,omitempty"`
	ExternalCode string         `json:"external_code,omitempty"`
	Label        string         `json:"label"`
	Target       map[string]any `json:"target,omitempty"`
	Position     *int           `json:"position,omitempty"`
}

func (api *API) registerMenuRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "menus")
	mux.HandleFunc("GET "+root, api.handleMenuList)
	mux.HandleFunc("POST "+root, api.handleMenuCreate)
	mux.HandleFunc("GET "+root+"/{code}", api.handleMenuGet)
	mux.HandleFunc("GET "+root+"/{code}/navigation", api.handleMenuNavigation)
	mux.HandleFunc("POST "+root+"/{code}/items", api.handleMenuItemCreate)
}

func (api *API) menusAvailable(w http.ResponseWriter) bool {
	if api == nil || api.menus == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return false
	}
	return true
}

func (api *API) handleMenuList(w http.ResponseWriter, r *http.Request) {
	if !api.menusAvailable(w) {
		return
	}
	list, err := api.menus.ListMenus(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *API) handleMenuGet(w http.ResponseWriter, r *http.Request) {
	if !api.menusAvailable(w) {
		return
	}
	record, err := api.menus.GetMenuByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *API) handleMenuCreate(w http.ResponseWriter, r *http.Request) {
	if !api.menusAvailable(w) {
		return
	}
	var payload menuCreatePayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		badRequest(w, err.Error())
		return
	}
	record, err := api.menus.CreateMenu(r.Context(), menus.CreateMenuInput{
		Code:        payload.Code,
		Location:    payload.Location,
		Description: payload.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	api.logger.Info("http.menus.created", "menu", record.Code)
	writeJSON(w, http.StatusCreated, record)
}

// handleMenuNavigation returns the menu tree with selection and expansion
// flags for ?path=. With ?expanded=true only expanded branches are kept.
func (api *API) handleMenuNavigation(w http.ResponseWriter, r *http.Request) {
	if !api.menusAvailable(w) {
		return
	}
	query := r.URL.Query()
	path := strings.TrimSpace(query.Get("path"))
	nodes, err := api.menus.ResolveNavigation(r.Context(), r.PathValue("code"), path)
	if err != nil {
		writeError(w, err)
		return
	}
	if parseBoolQuery(query.Get("expanded"), false) {
		nodes = expandedOnly(nodes)
	}
	writeJSON(w, http.StatusOK, nodes)
}

func (api *API) handleMenuItemCreate(w http.ResponseWriter, r *http.Request) {
	if !api.menusAvailable(w) {
		return
	}
	var payload menuItemPayload
	if err := decodeJSON(r, &payload); err != nil {
		if errors.Is(err, io.EOF) {
			badRequest(w, "request body required")
			return
		}
		badRequest(w, err.Error())
		return
	}
	item, err := api.menus.AddMenuItem(r.Context(), menus.AddMenuItemInput{
		ID:           payload.ID,
		MenuCode:     r.PathValue("code"),
		ParentID:     payload.ParentID,
		ParentCode:   payload.ParentCode,
		ExternalCode: payload.ExternalCode,
		Label:        payload.Label,
		Target:       payload.Target,
		Position:     payload.Position,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func expandedOnly(nodes []menus.NavigationNode) []menus.NavigationNode {
	var out []menus.NavigationNode
	for _, node := range nodes {
		if !node.Expanded {
			continue
		}
		node.Children = expandedOnly(node.Children)
		out = append(out, node)
	}
	return out
}
