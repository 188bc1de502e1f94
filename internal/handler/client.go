package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"trafficflow/internal/dto"
	"trafficflow/internal/logger"
	"trafficflow/internal/service"
)

// Upgrader upgrades HTTP connections to WebSocket; CheckOrigin allows all origins.
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ViewWebsocketHandler registers a viewer with the hub. Every message the
// viewer sends requests exactly one poll cycle. Its result reaches every
// viewer, the requester included, through the hub broadcast; only a failed
// cycle is answered directly.
func ViewWebsocketHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hub := manager.GetWebsocketService()
		if hub == nil {
			http.Error(w, "Viewer feed disabled", http.StatusServiceUnavailable)
			return
		}

		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}

		client := hub.Register(connection)
		defer hub.Unregister(client)

		for {
			_, _, err := connection.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Info("Viewer disconnected normally")
				} else {
					logger.Error("Viewer disconnected with error: %v", err)
				}
				break
			}

			_, err = manager.CaptureAndAnalyze()
			if err == nil {
				continue
			}

			msg, err := json.Marshal(dto.NewError(snapshotErrorMessage(err)))
			if err != nil {
				logger.Error("Error encoding viewer reply: %v", err)
				continue
			}
			if err := client.Send(msg); err != nil {
				logger.Error("Error sending to viewer: %v", err)
				break
			}
		}
	}
}
