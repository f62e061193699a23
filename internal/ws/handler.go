package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/DoyleJ11/squad-randomizer/internal/hub"
	"github.com/DoyleJ11/squad-randomizer/internal/lobby"
	"github.com/DoyleJ11/squad-randomizer/internal/types"
)

var errBadJSON = errors.New("bad json")

// Handler upgrades to a websocket joined to the lobby named by ?code=. Every
// accepted command from any client produces a StateSnapshot for all of them;
// a rejected command produces an Error for the sender only.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		lb, err := h.Resume(r.Context(), code)
		if err != nil {
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		if lb == nil {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		log := log.With(zap.String("lobby", code), zap.String("client", clientID))
		out := make(chan lobby.Snapshot, 8)
		replies := make(chan types.ServerMessage, 8)

		if err := join(r.Context(), lb, clientID, out); err != nil {
			conn.Close(websocket.StatusGoingAway, "lobby closed")
			return
		}
		defer func() {
			select {
			case lb.Inbox() <- lobby.Leave{ClientID: clientID}:
			case <-lb.Done():
			}
		}()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			defer writeCancel()
			for {
				var msg types.ServerMessage
				select {
				case snap, ok := <-out:
					if !ok {
						// lobby dropped us or shut down
						conn.Close(websocket.StatusGoingAway, "lobby closed")
						return
					}
					msg = types.Snapshot(snap)
				case msg = <-replies:
				case <-writeCtx.Done():
					return
				}
				if err := write(writeCtx, conn, msg); err != nil {
					log.Debug("write failed", zap.Error(err))
					return
				}
			}
		}()

		// Reader loop
		for {
			// Watchers may stay idle for long stretches, so reads have no deadline.
			_, data, err := conn.Read(writeCtx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("read failed", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				reply(replies, types.Error(errBadJSON))
				continue
			}

			// Snapshots arrive through the outbox; only errors are answered here.
			if _, err := lb.Send(writeCtx, cm.Command()); err != nil {
				if errors.Is(err, lobby.ErrClosed) || errors.Is(err, context.Canceled) {
					return
				}
				reply(replies, types.Error(err))
			}
		}
	}
}

// join registers the client unless the lobby stops first.
func join(ctx context.Context, lb *lobby.Lobby, clientID string, out chan lobby.Snapshot) error {
	select {
	case lb.Inbox() <- lobby.Join{ClientID: clientID, Outbox: out}:
		return nil
	case <-lb.Done():
		return lobby.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// reply drops the message when the writer is backed up.
func reply(ch chan<- types.ServerMessage, msg types.ServerMessage) {
	select {
	case ch <- msg:
	default:
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}
