package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

var skipPaths = map[string]struct{}{"/metrics": {}, "/ping": {}}

func isSkipPath(r *http.Request) bool {
	_, ok := skipPaths[r.URL.Path]
	return ok
}

// normalizePath labels by chi route pattern so unknown paths share one series.
func normalizePath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
