package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-breadcrumb/internal/breadcrumbs"
	"github.com/goliatone/go-breadcrumb/internal/menus"
	"github.com/goliatone/go-breadcrumb/internal/pages"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" || trimmedBase == "/" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message})
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var menuNotFound *menus.NotFoundError
	var pageNotFound *pages.NotFoundError
	if errors.Is(err, breadcrumbs.ErrMenuNotFound) ||
		errors.Is(err, menus.ErrMenuNotFound) ||
		errors.Is(err, menus.ErrMenuItemNotFound) ||
		errors.Is(err, pages.ErrPageNotFound) ||
		errors.As(err, &menuNotFound) ||
		errors.As(err, &pageNotFound) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: err.Error()}
	}

	if errors.Is(err, menus.ErrMenuCodeExists) ||
		errors.Is(err, menus.ErrMenuItemExternalCodeExists) ||
		errors.Is(err, pages.ErrPathExists) {
		return http.StatusConflict, errorResponse{Error: "conflict", Message: err.Error()}
	}

	if errors.Is(err, breadcrumbs.ErrInvalidParameters) ||
		errors.Is(err, menus.ErrMenuCodeRequired) ||
		errors.Is(err, menus.ErrMenuCodeInvalid) ||
		errors.Is(err, menus.ErrMenuItemLabelRequired) ||
		errors.Is(err, menus.ErrMenuItemPosition) ||
		errors.Is(err, menus.ErrMenuItemParentInvalid) ||
		errors.Is(err, pages.ErrParentNotFound) ||
		errors.Is(err, pages.ErrSlugRequired) ||
		errors.Is(err, pages.ErrSlugInvalid) ||
		errors.Is(err, pages.ErrKindInvalid) ||
		errors.Is(err, pages.ErrPositionInvalid) ||
		goerrors.IsCategory(err, goerrors.CategoryValidation) {
		return http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}
