// internal/handlers/api.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jason-s-yu/blanks/internal/game"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

func writeJSON(logger logrus.FieldLogger, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warnf("Failed to write response: %v", err)
	}
}

// ScoresHandler serves the current score table.
func ScoresHandler(logger logrus.FieldLogger, s *game.Session) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(logger, w, s.Scores())
	}
}

// StateHandler serves a diagnostic snapshot of the session.
func StateHandler(logger logrus.FieldLogger, s *game.Session) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(logger, w, s.Snapshot())
	}
}

// HealthHandler reports whether the session still accepts mutations.
func HealthHandler(s *game.Session) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if failed := s.Snapshot().Failed; failed != "" {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("failed: " + failed + "\n"))
			return
		}
		_, _ = w.Write([]byte("ok\n"))
	}
}

// QRHandler serves a PNG QR code pointing players at joinURL.
func QRHandler(joinURL string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		url := joinURL
		if url == "" {
			scheme := "http"
			if r.TLS != nil {
				scheme = "https"
			}
			if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
				scheme = proto
			}
			url = scheme + "://" + r.Host + "/"
		}

		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}
