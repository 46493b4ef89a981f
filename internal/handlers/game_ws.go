// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/jason-s-yu/blanks/internal/game"
	"github.com/jason-s-yu/blanks/internal/middleware"
	"github.com/sirupsen/logrus"
)

// Subprotocol is the websocket subprotocol clients must request.
const Subprotocol = "game"

// GameWSHandler upgrades the HTTP connection to WebSocket and hands it to the session
// until either side goes away.
func GameWSHandler(logger *logrus.Logger, s *game.Session, originPatterns []string) http.HandlerFunc {
	if len(originPatterns) == 0 {
		originPatterns = []string{"*"}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{Subprotocol},
			OriginPatterns: originPatterns,
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != Subprotocol {
			c.Close(BadSubprotocolError, "client must speak the game subprotocol")
			return
		}
		c.SetReadLimit(readLimit)
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		ch := newWSChannel(c, logger.WithField("remote", r.RemoteAddr), cancel)

		go ch.writePump(ctx)
		go ch.readPump(ctx)

		// Blocks until the read pump closes the inbound stream or ctx ends.
		s.ServeClient(ctx, ch)

		ch.shutdown(websocket.StatusNormalClosure, "")
		c.Close(ch.closeCode, ch.closeMsg)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, nil)
	}
}
