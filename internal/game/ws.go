package game

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"example.com/mm-mvp/internal/auth"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // MVP
}

type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func (c *ClientConn) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
		_ = c.ws.Close()
	})
}

// matchIDFromWSPath extracts the match id from /ws/{matchID}.
// Ids are lowercase alnum, at most 64 chars, no extra segments.
func matchIDFromWSPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/ws/")
	if !ok || rest == "" || len(rest) > 64 {
		return "", false
	}
	for i := 0; i < len(rest); i++ {
		ch := rest[i]
		if (ch < 'a' || ch > 'z') && (ch < '0' || ch > '9') {
			return "", false
		}
	}
	return rest, true
}

// handleWS is the WebSocket entry into a match: /ws/{matchID}.
// The JWT arrives either as an Authorization: Bearer header, or as a
// first {"type":"auth"} envelope right after the upgrade (browser
// WebSocket clients cannot set headers).
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	matchID, ok := matchIDFromWSPath(r.URL.Path)
	if !ok {
		http.Error(w, "missing or malformed match id", http.StatusBadRequest)
		return
	}

	var claims *auth.Claims
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		c, err := s.verify.Verify(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		claims = c
	}

	// fetch the match (in-memory or restored from Redis)
	m, ok, err := s.matches.GetOrLoad(r.Context(), matchID)
	if err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "match not found", http.StatusNotFound)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	if claims == nil {
		claims, err = awaitAuthMessage(ws, s.verify)
		if err != nil {
			_ = ws.WriteJSON(Envelope{
				Type:    "error",
				Payload: mustJSON(ErrorPayload{Code: "unauthorized", Message: "invalid or missing auth"}),
			})
			_ = ws.Close()
			return
		}
	}

	cc := &ClientConn{
		ws:   ws,
		send: make(chan []byte, 64),
	}

	slot, errCode, errMsg := m.Attach(claims.UserID, claims.DisplayName, cc)
	if errCode != "" {
		_ = ws.WriteJSON(Envelope{
			Type:    "error",
			Payload: mustJSON(ErrorPayload{Code: errCode, Message: errMsg}),
		})
		cc.Close()
		return
	}

	// writer loop
	go func() {
		ticker := time.NewTicker(25 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case msg, ok := <-cc.send:
				if !ok {
					return
				}
				_ = ws.WriteMessage(websocket.TextMessage, msg)
			case <-ticker.C:
				_ = ws.WriteMessage(websocket.PingMessage, []byte{})
			}
		}
	}()

	// initial state
	m.SendStateTo(slot)
	m.BroadcastState()

	// reader loop
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			break
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			m.SendErrorTo(slot, "bad_json", "invalid json")
			continue
		}

		switch env.Type {
		case "auth":
			// already authenticated; ignore repeats

		case "set_secret":
			var p SetSecretPayload
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				m.SendErrorTo(slot, "bad_input", "invalid payload")
				continue
			}
			if err := m.SetSecret(slot, p.Secret); err != nil {
				m.SendErrorTo(slot, "bad_input", err.Error())
			}

		case "submit_guess":
			var p SubmitGuessPayload
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				m.SendErrorTo(slot, "bad_input", "invalid payload")
				continue
			}
			if err := m.SubmitGuess(slot, p.Guess); err != nil {
				m.SendErrorTo(slot, "bad_input", err.Error())
			}

		case "rematch_request":
			if err := m.RequestRematch(slot); err != nil {
				m.SendErrorTo(slot, "bad_input", err.Error())
			}

		default:
			m.SendErrorTo(slot, "unknown_type", "unknown message type")
		}
	}

	// disconnect
	m.Detach(slot)
	cc.Close()
	m.BroadcastState()
}

func awaitAuthMessage(ws *websocket.Conn, verify TokenVerifier) (*auth.Claims, error) {
	_ = ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	defer func() { _ = ws.SetReadDeadline(time.Time{}) }()

	_, data, err := ws.ReadMessage()
	if err != nil {
		return nil, err
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if env.Type != "auth" {
		return nil, errors.New("expected auth message")
	}

	var p AuthPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return nil, err
	}
	return verify.Verify(p.Token)
}

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
