package server

import (
	"context"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/meridianlake/fundbench/internal/events"
)

const wsWriteTimeout = 10 * time.Second

// handleEventsWS streams catalog events to connected dashboards over WebSocket.
// Authentication happens in the middleware via the _token query parameter,
// since browsers cannot set headers on WebSocket upgrades.
func (s *Server) handleEventsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// No origin check: the stream is read-only and already gated by the
		// _token session check in the auth middleware
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.log.Debug().Err(err).Msg("WebSocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	sub := s.cfg.EventBus.Subscribe(events.CatalogRefreshed, events.CatalogLoadFailed)
	defer s.cfg.EventBus.Unsubscribe(sub)

	s.log.Debug().Str("remote", r.RemoteAddr).Msg("Events WebSocket connected")

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
			err := wsjson.Write(writeCtx, conn, event)
			cancel()
			if err != nil {
				s.log.Debug().Err(err).Msg("Events WebSocket write failed, closing")
				return
			}
		}
	}
}
