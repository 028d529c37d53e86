package logger

import (
	"net/http"
	"strings"
)

// AllowBodies enables request body logging for the given paths.
func (m *Middleware) AllowBodies(paths ...string) {
	m.bodyMu.Lock()
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p != "" {
			m.bodyPaths[p] = struct{}{}
		}
	}
	m.bodyMu.Unlock()
}

// Only log small JSON request bodies on allowlisted routes.
func (m *Middleware) shouldLogBody(r *http.Request, body []byte) bool {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		return false
	}
	if len(body) == 0 || len(body) > 1<<16 { // 64 KiB cap
		return false
	}
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "application/json") {
		return false
	}
	m.bodyMu.RLock()
	_, ok := m.bodyPaths[r.URL.Path]
	m.bodyMu.RUnlock()
	return ok
}
