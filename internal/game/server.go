package game

import (
	"crypto/rand"
	"encoding/json"
	"net/http"
	"time"

	"example.com/mm-mvp/internal/auth"
)

type Config struct {
	RoundDuration time.Duration // 0 => round timer disabled
}

// TokenVerifier is what the ws endpoint needs from the auth layer.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type Server struct {
	cfg     Config
	matches *MatchService
	verify  TokenVerifier
}

func NewServer(cfg Config, matches *MatchService, verify TokenVerifier) *Server {
	return &Server{
		cfg:     cfg,
		matches: matches,
		verify:  verify,
	}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/match", s.handleCreateMatch)
	mux.HandleFunc("/ws/", s.handleWS)
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	matchID := randID(10)

	_, err := s.matches.Create(r.Context(), matchID)
	if err != nil {
		http.Error(w, "failed to create match", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"matchId": matchID,
	})
}

// match ids live in URLs and redis keys, keep them lowercase alnum
const matchIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randID(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = matchIDAlphabet[int(b[i])%len(matchIDAlphabet)]
	}
	return string(b)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
