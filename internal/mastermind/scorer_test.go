package mastermind

import (
	"errors"
	"testing"
)

func mustCode(t *testing.T, names ...string) []Color {
	t.Helper()
	code, err := ParseCode(names)
	if err != nil {
		t.Fatalf("ParseCode(%v): %v", names, err)
	}
	return code
}

func pegCounts(pegs []Peg) (black, white int) {
	for _, p := range pegs {
		if p == PegBlack {
			black++
		} else {
			white++
		}
	}
	return black, white
}

func TestCheck_Scenarios(t *testing.T) {
	cases := []struct {
		name   string
		secret []string
		guess  []string
		want   []Peg
	}{
		{
			name:   "one color present elsewhere",
			secret: []string{"green", "blue", "blue", "blue"},
			guess:  []string{"red", "green", "red", "red"},
			want:   []Peg{PegWhite},
		},
		{
			name:   "two exact matches with duplicates",
			secret: []string{"blue", "blue", "blue", "blue"},
			guess:  []string{"blue", "blue", "red", "red"},
			want:   []Peg{PegBlack, PegBlack},
		},
		{
			name:   "identical guess is all black",
			secret: []string{"blue", "green", "red", "white"},
			guess:  []string{"blue", "green", "red", "white"},
			want:   []Peg{PegBlack, PegBlack, PegBlack, PegBlack},
		},
		{
			name:   "no color in common is empty",
			secret: []string{"blue", "blue", "blue", "blue"},
			guess:  []string{"red", "red", "red", "red"},
			want:   []Peg{},
		},
		{
			name:   "all colors misplaced",
			secret: []string{"red", "blue", "green", "yellow"},
			guess:  []string{"blue", "red", "yellow", "green"},
			want:   []Peg{PegWhite, PegWhite, PegWhite, PegWhite},
		},
		{
			name:   "duplicate guess color credited once",
			secret: []string{"red", "blue", "green", "yellow"},
			guess:  []string{"red", "red", "red", "red"},
			want:   []Peg{PegBlack},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewScorer(mustCode(t, tc.secret...))
			got, err := s.Check(mustCode(t, tc.guess...))
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %v want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("peg %d: got %v want %v", i, got, tc.want)
				}
			}
		})
	}
}

func TestCheck_MultiTurn(t *testing.T) {
	// one secret scored over a whole game of guesses
	s, err := NewScorerFromText([]string{"red", "blue", "green", "yellow"})
	if err != nil {
		t.Fatalf("NewScorerFromText: %v", err)
	}

	turns := []struct {
		guess     []string
		wantBlack int
		wantWhite int
	}{
		{[]string{"red", "orange", "yellow", "orange"}, 1, 1},
		{[]string{"blue", "red", "yellow", "green"}, 0, 4},
		{[]string{"red", "red", "red", "red"}, 1, 0},
		{[]string{"white", "white", "white", "white"}, 0, 0},
		{[]string{"red", "blue", "green", "yellow"}, 4, 0},
	}

	for _, turn := range turns {
		pegs, err := s.CheckText(turn.guess)
		if err != nil {
			t.Fatalf("CheckText(%v): %v", turn.guess, err)
		}
		b, w := pegCounts(pegs)
		if b != turn.wantBlack || w != turn.wantWhite {
			t.Fatalf("guess %v: got %d black %d white, want %d black %d white",
				turn.guess, b, w, turn.wantBlack, turn.wantWhite)
		}
		// blacks always come first
		for i := 1; i < len(pegs); i++ {
			if pegs[i-1] == PegWhite && pegs[i] == PegBlack {
				t.Fatalf("guess %v: black after white in %v", turn.guess, pegs)
			}
		}
	}
}

func TestCheck_PegCountNeverExceedsLength(t *testing.T) {
	colors := []Color{Red, Blue, Green, White, Yellow, Orange}

	// exhaustive over 2-peg codes is cheap and covers every duplicate shape
	var codes [][]Color
	for _, a := range colors {
		for _, b := range colors {
			codes = append(codes, []Color{a, b})
		}
	}

	for _, secret := range codes {
		s := NewScorer(secret)
		for _, guess := range codes {
			pegs, err := s.Check(guess)
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if len(pegs) > len(secret) {
				t.Fatalf("secret=%v guess=%v: %d pegs for %d positions",
					secret, guess, len(pegs), len(secret))
			}
		}
	}
}

func TestCheck_IsPure(t *testing.T) {
	secret := mustCode(t, "red", "blue", "blue", "orange")
	guess := mustCode(t, "blue", "blue", "red", "red")

	s := NewScorer(secret)
	first, err := s.Check(guess)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := s.Check(guess)
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("call %d: got %v want %v", i, again, first)
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("call %d: got %v want %v", i, again, first)
			}
		}
	}
}

func TestCheck_DoesNotMutateInputs(t *testing.T) {
	secret := mustCode(t, "red", "blue", "green", "yellow")
	guess := mustCode(t, "red", "red", "blue", "blue")

	s := NewScorer(secret)
	secret[0] = Orange // scorer must hold its own copy
	if _, err := s.Check(guess); err != nil {
		t.Fatalf("Check: %v", err)
	}

	wantGuess := mustCode(t, "red", "red", "blue", "blue")
	for i := range guess {
		if guess[i] != wantGuess[i] {
			t.Fatalf("guess mutated: %v", guess)
		}
	}

	pegs, err := s.Check(wantGuess)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	b, w := pegCounts(pegs)
	if b != 1 || w != 1 {
		t.Fatalf("got %d black %d white, want 1 black 1 white", b, w)
	}
}

func TestCheck_LengthMismatch(t *testing.T) {
	s := NewScorer(mustCode(t, "red", "blue", "green", "yellow"))

	for _, guess := range [][]Color{
		nil,
		{},
		{Red},
		{Red, Blue, Green},
		{Red, Blue, Green, Yellow, Orange},
	} {
		_, err := s.Check(guess)
		if !errors.Is(err, ErrLengthMismatch) {
			t.Fatalf("guess len %d: err=%v want ErrLengthMismatch", len(guess), err)
		}
	}
}
