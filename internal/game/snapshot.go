package game

import (
	"time"

	"example.com/mm-mvp/internal/mastermind"
)

// MatchSnapshot is the serializable match state kept in Redis. Codes are
// stored as color names so snapshots stay readable over redis-cli.
type MatchSnapshot struct {
	MatchID string `json:"matchId"`

	Phase string `json:"phase"`
	Round int    `json:"round"`

	P1ID   string `json:"p1Id"`
	P1Name string `json:"p1Name"`
	P2ID   string `json:"p2Id"`
	P2Name string `json:"p2Name"`

	P1Secret    []string `json:"p1Secret"`
	P1SecretSet bool     `json:"p1SecretSet"`
	P2Secret    []string `json:"p2Secret"`
	P2SecretSet bool     `json:"p2SecretSet"`

	P1Guess    []string `json:"p1Guess"`
	P1GuessSet bool     `json:"p1GuessSet"`
	P2Guess    []string `json:"p2Guess"`
	P2GuessSet bool     `json:"p2GuessSet"`

	DeadlineMs int64 `json:"deadlineMs"` // unix millis, 0 when no deadline

	Winner       string             `json:"winner"`
	History      []RoundHistoryItem `json:"history"`
	SeriesP1Wins int                `json:"seriesP1Wins"`
	SeriesP2Wins int                `json:"seriesP2Wins"`
	SeriesDraws  int                `json:"seriesDraws"`
}

func (m *Match) snapshotLocked() MatchSnapshot {
	var deadlineMs int64
	if !m.deadline.IsZero() {
		deadlineMs = m.deadline.UnixMilli()
	}

	return MatchSnapshot{
		MatchID: m.id,
		Phase:   m.phase,
		Round:   m.round,

		P1ID:   m.p1.id,
		P1Name: m.p1.name,
		P2ID:   m.p2.id,
		P2Name: m.p2.name,

		P1Secret:    codeNamesOrNil(m.p1.secret),
		P1SecretSet: m.p1.secretSet,
		P2Secret:    codeNamesOrNil(m.p2.secret),
		P2SecretSet: m.p2.secretSet,

		P1Guess:    codeNamesOrNil(m.p1.guess),
		P1GuessSet: m.p1.guessSet,
		P2Guess:    codeNamesOrNil(m.p2.guess),
		P2GuessSet: m.p2.guessSet,

		DeadlineMs: deadlineMs,

		Winner:       m.winner,
		History:      append([]RoundHistoryItem(nil), m.history...),
		SeriesP1Wins: m.seriesP1Wins,
		SeriesP2Wins: m.seriesP2Wins,
		SeriesDraws:  m.seriesDraws,
	}
}

func (m *Match) restoreLocked(s MatchSnapshot) {
	m.phase = s.Phase
	m.round = s.Round

	m.p1.id = s.P1ID
	m.p1.name = s.P1Name
	m.p2.id = s.P2ID
	m.p2.name = s.P2Name

	m.p1.secret = codeFromNamesOrNil(s.P1Secret)
	m.p1.secretSet = s.P1SecretSet
	m.p2.secret = codeFromNamesOrNil(s.P2Secret)
	m.p2.secretSet = s.P2SecretSet

	m.p1.guess = codeFromNamesOrNil(s.P1Guess)
	m.p1.guessSet = s.P1GuessSet
	m.p2.guess = codeFromNamesOrNil(s.P2Guess)
	m.p2.guessSet = s.P2GuessSet

	if s.DeadlineMs > 0 {
		m.deadline = time.UnixMilli(s.DeadlineMs)
	} else {
		m.deadline = time.Time{}
	}

	m.winner = s.Winner
	m.history = append([]RoundHistoryItem(nil), s.History...)
	m.seriesP1Wins = s.SeriesP1Wins
	m.seriesP2Wins = s.SeriesP2Wins
	m.seriesDraws = s.SeriesDraws

	// logically: a round is in flight whenever the match is playing
	m.roundActive = (m.phase == "playing")
}

func codeNamesOrNil(code []mastermind.Color) []string {
	if code == nil {
		return nil
	}
	return mastermind.CodeNames(code)
}

func codeFromNamesOrNil(names []string) []mastermind.Color {
	if names == nil {
		return nil
	}
	// snapshots are written by us; unknown names mean a corrupt record,
	// treat the field as unset rather than failing the whole restore
	code, err := mastermind.ParseCode(names)
	if err != nil {
		return nil
	}
	return code
}
