package ws

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/nwestbury/lucky-draw-backend/internal/draw"
	"github.com/nwestbury/lucky-draw-backend/internal/notify"
	"github.com/nwestbury/lucky-draw-backend/internal/room"
	"github.com/nwestbury/lucky-draw-backend/internal/types"
)

// Handler upgrades to WebSocket, subscribes the connection to state
// snapshots, and accepts claim/reset commands over the same socket.
func Handler(r *room.Room, n *notify.Notifier, log *zap.Logger, claimTimeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		conn, err := websocket.Accept(w, req, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan notify.Snapshot, 8)
		clientID := randID(6)

		n.Inbox() <- notify.Subscribe{ID: clientID, Outbox: out}
		defer func() { n.Inbox() <- notify.Unsubscribe{ID: clientID} }()

		log.Debug("subscriber joined", zap.String("client_id", clientID))

		// Writer goroutine: drains snapshots, starting with the join baseline.
		writeCtx, writeCancel := context.WithCancel(req.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: &snap.State}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(req.Context())
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (Unsubscribe in defer):
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(req.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"bad json"}`))
				continue
			}

			reply := handleCommand(req.Context(), r, cm, claimTimeout)
			payload, _ := json.Marshal(reply)
			_ = conn.Write(req.Context(), websocket.MessageText, payload)
		}
	}
}

func handleCommand(parent context.Context, r *room.Room, cm types.ClientMessage, claimTimeout time.Duration) types.ServerMessage {
	ctx, cancel := context.WithTimeout(parent, claimTimeout)
	defer cancel()

	switch cm.Type {
	case "ClaimNumber":
		_, err := r.Claim(ctx, cm.Number, cm.TopicID, cm.UserName)
		return claimResult(err)
	case "Reset":
		err := r.Reset(ctx, cm.IsAdmin)
		return claimResult(err)
	default:
		return types.ServerMessage{Type: "Error", Error: "unknown type"}
	}
}

func claimResult(err error) types.ServerMessage {
	ok := err == nil
	msg := types.ServerMessage{Type: "ClaimResult", Success: &ok}
	if err != nil {
		msg.Message = ResultMessage(err)
	}
	return msg
}

// ResultMessage maps a claim error to the wording clients display.
func ResultMessage(err error) string {
	switch {
	case errors.Is(err, draw.ErrAlreadyClaimed):
		return "already claimed"
	case errors.Is(err, draw.ErrOutOfRange):
		return "number out of range"
	case errors.Is(err, draw.ErrForbidden):
		return "admin required"
	case errors.Is(err, room.ErrBusy):
		return "busy, try again"
	default:
		return "internal error"
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
