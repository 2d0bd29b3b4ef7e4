package server

import (
	"net/http"
	"os"
	"strings"
)

// DashboardMiddleware wraps an http.Handler to serve the dashboard's
// static bundle. API routes, health and metrics pass through; anything
// else is served from the bundle, falling back to index.html for
// client-side routes.
func DashboardMiddleware(next http.Handler, staticPath, indexPath string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") ||
			r.URL.Path == "/healthz" ||
			r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		if r.URL.Path == "/" {
			http.ServeFile(w, r, indexPath)
			return
		}

		// Unknown paths get index.html so the dashboard router can
		// handle them.
		if _, err := os.Stat(staticPath + r.URL.Path); os.IsNotExist(err) {
			http.ServeFile(w, r, indexPath)
			return
		}

		http.FileServer(http.Dir(staticPath)).ServeHTTP(w, r)
	})
}
