// Package http exposes breadcrumb trails and the navigation data behind them
// over net/http.
//
// Routes mount under the configured base path (default "/"):
//   - Trails: GET /breadcrumb?path=, GET /breadcrumb.html?path=
//   - Menus: GET /menus, POST /menus, GET /menus/{code},
//     GET /menus/{code}/navigation?path=, POST /menus/{code}/items
//   - Pages: GET /pages, POST /pages, GET /pages/lookup?path=
//
// Middleware attaches the trail of every request to its context so host
// templates can render it. Host applications can register handlers on their
// own mux as needed.
package http
