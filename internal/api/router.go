package api

import (
	"codecompanion/config"
	"net/http"

	"github.com/sirupsen/logrus"
)

// NewRouter assembles the routes and the middleware chain.
// Outermost first: request ID, access log, panic recovery, CORS.
func NewRouter(h *Handler, cors config.CORSConfig, logger *logrus.Logger) http.Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", h.Analyze)
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/", h.NotFound)

	var handler http.Handler = mux
	handler = NewCORS(cors).Handler(handler)
	handler = recoverPanics(handler)
	handler = accessLog(handler)
	handler = withRequestID(logger, handler)
	return handler
}
