// internal/handlers/router.go
package handlers

import (
	"net/http"

	"github.com/jason-s-yu/blanks/internal/game"
	"github.com/jason-s-yu/blanks/internal/middleware"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

// RouterConfig carries what the routes need beyond the session.
type RouterConfig struct {
	PublicURL      string
	OriginPatterns []string
}

// NewRouter registers every route and wraps them in request logging.
func NewRouter(logger *logrus.Logger, s *game.Session, cfg RouterConfig) http.Handler {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		logger.WithField("path", r.URL.Path).Errorf("panic serving request: %v", v)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}

	mux.HandlerFunc(http.MethodGet, "/ws", GameWSHandler(logger, s, cfg.OriginPatterns))
	mux.GET("/scores", ScoresHandler(logger, s))
	mux.GET("/state", StateHandler(logger, s))
	mux.GET("/healthz", HealthHandler(s))
	mux.GET("/qr", QRHandler(cfg.PublicURL))

	return middleware.LogMiddleware(logger)(mux)
}
