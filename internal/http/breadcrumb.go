package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-breadcrumb/internal/breadcrumbs"
	"github.com/goliatone/go-breadcrumb/internal/logging"
)

func (api *API) registerBreadcrumbRoutes(mux *http.ServeMux, base string) {
	mux.HandleFunc("GET "+joinPath(base, "breadcrumb"), api.handleBreadcrumbJSON)
	mux.HandleFunc("GET "+joinPath(base, "breadcrumb.html"), api.handleBreadcrumbHTML)
}

func (api *API) handleBreadcrumbJSON(w http.ResponseWriter, r *http.Request) {
	trail, ok := api.trailFromQuery(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, trail)
}

func (api *API) handleBreadcrumbHTML(w http.ResponseWriter, r *http.Request) {
	if api.renderer == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable", Message: "renderer not configured"})
		return
	}
	trail, ok := api.trailFromQuery(w, r)
	if !ok {
		return
	}
	out, err := api.renderer.RenderString(trail)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

func (api *API) trailFromQuery(w http.ResponseWriter, r *http.Request) (*breadcrumbs.Breadcrumb, bool) {
	if api.builder == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable", Message: "builder not configured"})
		return nil, false
	}
	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" {
		badRequest(w, "path is required")
		return nil, false
	}
	trail, err := api.builder.Build(r.Context(), api.request(r, path))
	if err != nil {
		api.logger.Warn("http.breadcrumb.failed", "path", path, "error", err)
		writeError(w, err)
		return nil, false
	}
	return trail, true
}

func (api *API) request(r *http.Request, path string) breadcrumbs.Request {
	target := api.sitemap.Resolve(path)
	if query := r.URL.Query(); len(query) > 0 {
		target.Query = make(map[string]string, len(query))
		for key := range query {
			target.Query[key] = query.Get(key)
		}
	}
	return breadcrumbs.Request{Target: target}
}

// Middleware builds the trail for each request path and stores it on the
// request context. Build failures are logged and the request proceeds
// without a trail.
func (api *API) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.builder == nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := logging.ContextWithFields(r.Context(), map[string]any{"http_path": r.URL.Path})
		trail, err := api.builder.Build(ctx, api.request(r, r.URL.Path))
		if err != nil {
			api.logger.WithContext(ctx).Warn("http.middleware.breadcrumb_failed", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(breadcrumbs.ContextWithBreadcrumb(r.Context(), trail)))
	})
}
