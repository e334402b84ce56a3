package game

import "encoding/json"

// Envelope WS envelope: {"type":"...","payload":{...}}
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AuthPayload first client message when the token was not sent as a header
type AuthPayload struct {
	Token string `json:"token"`
}

// SetSecretPayload incoming: the hidden code as color names
type SetSecretPayload struct {
	Secret []string `json:"secret"`
}

type SubmitGuessPayload struct {
	Guess []string `json:"guess"`
}

// RoundStartedPayload outgoing
type RoundStartedPayload struct {
	Round      int   `json:"round"`
	DeadlineMs int64 `json:"deadlineMs"`
}

// Attempt is one player's scored guess for a round. Pegs lists every
// "black" first, then every "white"; a miss carries a nil guess and no pegs.
type Attempt struct {
	Guess     *[]string `json:"guess"` // null on a missed round
	Pegs      []string  `json:"pegs"`  // "black"/"white", black-first
	Exact     int       `json:"exact"`
	Misplaced int       `json:"misplaced"`
	Missed    bool      `json:"missed"`
}

type RoundHistoryItem struct {
	Round int     `json:"round"`
	P1    Attempt `json:"p1"`
	P2    Attempt `json:"p2"`
}

type StatePayload struct {
	MatchID          string              `json:"matchId"`
	You              string              `json:"you"` // "p1" | "p2"
	PlayerNames      map[string]string   `json:"playerNames"`
	PlayersConnected int                 `json:"playersConnected"`
	Phase            string              `json:"phase"` // waiting_players|waiting_secrets|playing|finished
	Round            int                 `json:"round"`
	DeadlineMs       int64               `json:"deadlineMs"`
	SecretsReady     map[string]bool     `json:"secretsReady"` // p1/p2
	GuessesReady     map[string]bool     `json:"guessesReady"` // p1/p2 (current round)
	History          []RoundHistoryItem  `json:"history"`
	Winner           string              `json:"winner"`                    // p1|p2|draw|"" (while unfinished)
	RevealedSecrets  map[string][]string `json:"revealedSecrets,omitempty"` // only after finished
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
