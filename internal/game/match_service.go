package game

import (
	"context"
	"sync"
	"time"
)

// ResultRecorder lets finished games feed the per-user stats. Optional.
type ResultRecorder interface {
	Record(ctx context.Context, userID, result string) error
}

// MatchService owns:
// - the in-memory match cache
// - restoring matches from persistent storage (Redis)
type MatchService struct {
	mu sync.Mutex
	in map[string]*Match

	cfg     Config
	persist MatchPersistence

	// Results, when set, receives a win/loss/draw per player per finished game.
	Results ResultRecorder
}

func NewMatchService(cfg Config, persist MatchPersistence) *MatchService {
	return &MatchService{
		in:      make(map[string]*Match),
		cfg:     cfg,
		persist: persist,
	}
}

func (s *MatchService) Create(ctx context.Context, matchID string) (*Match, error) {
	m := NewMatch(matchID, s.cfg.RoundDuration)

	// hook: every match mutation writes a fresh snapshot
	m.onPersist = func(snap MatchSnapshot) {
		_ = s.persist.Save(ctx, matchID, snap) // MVP: no logging here
	}
	m.onFinish = s.recordResult

	// initial save
	m.mu.Lock()
	snap := m.snapshotLocked()
	m.mu.Unlock()
	_ = s.persist.Save(ctx, matchID, snap)

	s.mu.Lock()
	s.in[matchID] = m
	s.mu.Unlock()

	return m, nil
}

func (s *MatchService) GetOrLoad(ctx context.Context, matchID string) (*Match, bool, error) {
	s.mu.Lock()
	m, ok := s.in[matchID]
	s.mu.Unlock()
	if ok {
		return m, true, nil
	}

	snap, found, err := s.persist.Load(ctx, matchID)
	if err != nil || !found {
		return nil, false, err
	}

	m = NewMatch(matchID, s.cfg.RoundDuration)
	m.mu.Lock()
	m.restoreLocked(snap)
	m.mu.Unlock()

	// reattach the hooks
	m.onPersist = func(snap MatchSnapshot) {
		_ = s.persist.Save(ctx, matchID, snap)
	}
	m.onFinish = s.recordResult

	// if the match was mid-round and the deadline is still ahead,
	// re-arm the round timer
	m.mu.Lock()
	if s.cfg.RoundDuration > 0 && m.phase == "playing" && m.roundActive && !m.deadline.IsZero() && time.Now().Before(m.deadline) {
		// fresh token so timers armed before the restart stay inert
		m.roundToken++
		token := m.roundToken

		if m.roundTimer != nil {
			m.roundTimer.Stop()
		}

		d := time.Until(m.deadline)
		m.roundTimer = time.AfterFunc(d, func() {
			m.onRoundTimeout(token)
		})
	}
	m.mu.Unlock()

	s.mu.Lock()
	s.in[matchID] = m
	s.mu.Unlock()

	return m, true, nil
}

// recordResult runs off the match lock; stats are best effort.
func (s *MatchService) recordResult(winner, p1ID, p2ID string) {
	if s.Results == nil || p1ID == "" || p2ID == "" {
		return
	}

	r1, r2 := "loss", "loss"
	switch winner {
	case "p1":
		r1 = "win"
	case "p2":
		r2 = "win"
	case "draw":
		r1, r2 = "draw", "draw"
	default:
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Results.Record(ctx, p1ID, r1)
		_ = s.Results.Record(ctx, p2ID, r2)
	}()
}
