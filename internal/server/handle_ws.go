package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/playperu/ruleta/internal/game"
	"github.com/playperu/ruleta/internal/ruleta"
)

// Intent is a client message on the game socket.
type Intent struct {
	Type   string `json:"type"`
	Player int    `json:"player,omitempty"`
}

// WSMessage is a server message on the game socket: either a state
// snapshot or the error an intent produced.
type WSMessage struct {
	Type  string          `json:"type"`
	State json.RawMessage `json:"state,omitempty"`
	Error string          `json:"error,omitempty"`
}

const wsSessionTimeout = 30 * time.Minute

func handleGameWS(logger *slog.Logger, games *game.Registry, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := ownerFrom(r.Context())

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), wsSessionTimeout)
		defer cancel()

		ch := broker.Subscribe(owner.Key())
		defer broker.Unsubscribe(owner.Key(), ch)

		sess := games.Get(ctx, owner)
		if err := writeState(ctx, conn, sess.Snapshot()); err != nil {
			logger.Debug("websocket write failed", "error", err)
			return
		}

		go func() {
			defer cancel()
			for {
				var in Intent
				if err := wsjson.Read(ctx, conn, &in); err != nil {
					logger.Debug("websocket read ended", "error", err)
					return
				}
				if err := applyIntent(games.Get(ctx, owner), in); err != nil {
					if werr := wsjson.Write(ctx, conn, WSMessage{Type: "error", Error: err.Error()}); werr != nil {
						return
					}
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				conn.Close(websocket.StatusNormalClosure, "")
				return
			case data := <-ch:
				if err := wsjson.Write(ctx, conn, WSMessage{Type: "state", State: data}); err != nil {
					logger.Debug("websocket write failed", "error", err)
					return
				}
			}
		}
	}
}

func writeState(ctx context.Context, conn *websocket.Conn, snap game.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return wsjson.Write(ctx, conn, WSMessage{Type: "state", State: data})
}

// applyIntent runs one socket intent. State changes reach the socket
// through the broker, so only failures are reported here.
func applyIntent(sess *game.Session, in Intent) error {
	var err error
	switch in.Type {
	case "spin":
		_, _, err = sess.RequestSpin()
	case "finish":
		_, err = sess.FinishTurn()
	case "close":
		_, err = sess.CloseResult()
	case "player":
		_, err = sess.SetCurrentPlayer(in.Player)
	default:
		err = fmt.Errorf("%w: unknown intent %q", ruleta.ErrInvalidInput, in.Type)
	}
	return err
}
