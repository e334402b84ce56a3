// Package mastermind scores guesses against a hidden code, classical
// Mastermind rules: a black peg per exact position match, a white peg per
// color that appears elsewhere in the code, each code position counted at
// most once.
package mastermind

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is returned when a guess does not have the secret's length.
var ErrLengthMismatch = errors.New("guess length mismatch")

// Peg is a single feedback unit. Misses produce no peg at all.
type Peg uint8

const (
	PegBlack Peg = iota
	PegWhite
)

var pegNames = [...]string{"black", "white"}

func (p Peg) String() string {
	if int(p) < len(pegNames) {
		return pegNames[p]
	}
	return fmt.Sprintf("peg(%d)", uint8(p))
}

// PegNames renders feedback as lowercase peg names.
func PegNames(pegs []Peg) []string {
	names := make([]string, len(pegs))
	for i, p := range pegs {
		names[i] = p.String()
	}
	return names
}

// Scorer holds one immutable secret code and scores guesses against it.
// Check never mutates the secret and keeps all bookkeeping call-local,
// so a single Scorer is safe for concurrent use.
type Scorer struct {
	secret []Color
}

// NewScorer builds a scorer from an already-resolved code. The secret's
// length fixes the expected guess length.
func NewScorer(secret []Color) *Scorer {
	return &Scorer{secret: append([]Color(nil), secret...)}
}

// NewScorerFromText builds a scorer from color names, resolving each via
// ParseColor. Fails with ErrInvalidColor on any unknown name.
func NewScorerFromText(names []string) (*Scorer, error) {
	secret, err := ParseCode(names)
	if err != nil {
		return nil, err
	}
	return &Scorer{secret: secret}, nil
}

// Len reports the secret's length.
func (s *Scorer) Len() int {
	return len(s.secret)
}

// Check scores one guess. The result lists every black peg first, then
// every white peg; a position matching nothing contributes no peg, so
// len(result) <= len(secret).
//
// Blacks are purely positional. Whites come from frequency counting over
// the leftover positions: a color in the guess earns one white per unused
// secret peg of that color, capped by how often the guess itself still
// holds it. Each secret position feeds at most one peg.
func (s *Scorer) Check(guess []Color) ([]Peg, error) {
	n := len(s.secret)
	if len(guess) != n {
		return nil, fmt.Errorf("%w: secret has %d pegs, guess has %d", ErrLengthMismatch, n, len(guess))
	}

	black := 0
	usedS := make([]bool, n)
	usedG := make([]bool, n)

	for i := 0; i < n; i++ {
		if guess[i] == s.secret[i] {
			black++
			usedS[i] = true
			usedG[i] = true
		}
	}

	// counts for remaining
	var cntS, cntG [len(colorNames)]int
	for i := 0; i < n; i++ {
		if !usedS[i] {
			cntS[s.secret[i]]++
		}
		if !usedG[i] {
			cntG[guess[i]]++
		}
	}

	white := 0
	for c := range cntS {
		if cntS[c] < cntG[c] {
			white += cntS[c]
		} else {
			white += cntG[c]
		}
	}

	pegs := make([]Peg, 0, black+white)
	for i := 0; i < black; i++ {
		pegs = append(pegs, PegBlack)
	}
	for i := 0; i < white; i++ {
		pegs = append(pegs, PegWhite)
	}
	return pegs, nil
}

// CheckText scores a guess given as color names. ErrInvalidColor from
// parsing surfaces unchanged, before any scoring happens.
func (s *Scorer) CheckText(names []string) ([]Peg, error) {
	guess, err := ParseCode(names)
	if err != nil {
		return nil, err
	}
	return s.Check(guess)
}
