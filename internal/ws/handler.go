package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-randomizer/internal/hub"
	"github.com/DoyleJ11/lol-randomizer/internal/lobby"
	"github.com/DoyleJ11/lol-randomizer/pkg/types"
)

// Handler subscribes a websocket to a lobby. Connecting with ?participant=
// marks that player as present, like sitting in the voice channel.
func Handler(h *hub.Hub, logger *zap.Logger) http.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		lb := h.Get(code)
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

		out := make(chan lobby.Snapshot, 8)
		clientID := uuid.NewString()
		participantID := r.URL.Query().Get("participant")

		if !lb.Send(lobby.Join{ClientID: clientID, ParticipantID: participantID, Outbox: out}) {
			conn.Close(websocket.StatusGoingAway, "lobby closed")
			return
		}
		defer lb.Send(lobby.Leave{ClientID: clientID})

		log := logger.With(zap.String("lobby", code), zap.String("client_id", clientID), zap.String("participant_id", participantID))
		log.Debug("websocket joined")

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case snap, ok := <-out:
					if !ok {
						// Dropped as a slow client, or the lobby stopped.
						// Hang up so the client reconnects and is present again.
						log.Debug("outbox closed, closing websocket")
						conn.Close(websocket.StatusTryAgainLater, "reconnect")
						return
					}
					msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version}
					if snap.Roll != nil {
						msg.Roll = types.FromRoll(*snap.Roll)
					}
					writeJSON(writeCtx, conn, msg)
				}
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("websocket read ended", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeJSON(r.Context(), conn, types.ServerMessage{Type: "Error", Error: "bad json"})
				continue
			}

			msg, reply, ok := toLobbyMsg(cm)
			if !ok {
				writeJSON(r.Context(), conn, types.ServerMessage{Type: "Error", Error: "unknown type"})
				continue
			}

			// Successful rolls reach this client through the snapshot
			// broadcast; only failures need a direct answer.
			if !lb.Send(msg) {
				return
			}
			select {
			case res := <-reply:
				if res.Err != nil {
					writeJSON(r.Context(), conn, types.ServerMessage{Type: "Error", Error: res.Err.Error()})
				}
			case <-lb.Done():
				return
			case <-r.Context().Done():
				return
			}
		}
	}
}

func toLobbyMsg(m types.ClientMessage) (lobby.Msg, chan lobby.RollReply, bool) {
	reply := make(chan lobby.RollReply, 1)
	switch m.Type {
	case "Randomize":
		return lobby.Randomize{ParticipantIDs: m.ParticipantIDs, WithChampions: m.Champions, Reply: reply}, reply, true
	case "Reroll":
		return lobby.Reroll{Reply: reply}, reply, true
	default:
		return nil, nil, false
	}
}

func writeJSON(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_ = conn.Write(ctx, websocket.MessageText, payload)
}
