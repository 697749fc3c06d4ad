package api

import (
	"codecompanion/config"
	"io"
	"net/http"
	"strings"
)

const (
	corsAllowMethods = "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT"
	corsMaxAge       = "600"
)

// CORS enforces an allow-list of browser origins. It is immutable once built.
type CORS struct {
	origins     map[string]struct{}
	anyOrigin   bool
	credentials bool
}

// NewCORS builds the policy from cfg.
func NewCORS(cfg config.CORSConfig) *CORS {
	c := &CORS{
		origins:     make(map[string]struct{}, len(cfg.AllowedOrigins)),
		credentials: cfg.AllowCredentials,
	}
	for _, origin := range cfg.AllowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "*" {
			c.anyOrigin = true
			continue
		}
		c.origins[origin] = struct{}{}
	}
	return c
}

// Allows reports whether origin is on the allow-list.
func (c *CORS) Allows(origin string) bool {
	if c.anyOrigin {
		return true
	}
	_, ok := c.origins[origin]
	return ok
}

// Handler wraps next with the cross-origin policy.
func (c *CORS) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			c.preflight(w, r, origin)
			return
		}

		if c.Allows(origin) {
			c.setOrigin(w.Header(), origin)
		}
		next.ServeHTTP(w, r)
	})
}

func (c *CORS) preflight(w http.ResponseWriter, r *http.Request, origin string) {
	h := w.Header()
	h.Add("Vary", "Access-Control-Request-Method")
	h.Add("Vary", "Access-Control-Request-Headers")

	if !c.Allows(origin) {
		h.Add("Vary", "Origin")
		LoggerFrom(r.Context()).Warnf("Rejected CORS preflight from origin %s", origin)
		h.Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, "Disallowed CORS origin")
		return
	}

	c.setOrigin(h, origin)
	h.Set("Access-Control-Allow-Methods", corsAllowMethods)
	if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
		h.Set("Access-Control-Allow-Headers", requested)
	}
	h.Set("Access-Control-Max-Age", corsMaxAge)
	h.Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "OK")
}

func (c *CORS) setOrigin(h http.Header, origin string) {
	if c.anyOrigin && !c.credentials {
		h.Set("Access-Control-Allow-Origin", "*")
		return
	}
	h.Set("Access-Control-Allow-Origin", origin)
	h.Add("Vary", "Origin")
	if c.credentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
}
