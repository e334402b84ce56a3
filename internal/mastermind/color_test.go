package mastermind

import (
	"errors"
	"testing"
)

func TestParseColor_CaseInsensitive(t *testing.T) {
	for _, s := range []string{"red", "RED", "Red", " red "} {
		c, err := ParseColor(s)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", s, err)
		}
		if c != Red {
			t.Fatalf("ParseColor(%q)=%v want red", s, c)
		}
	}
}

func TestParseColor_AllNames(t *testing.T) {
	cases := []struct {
		name string
		want Color
	}{
		{"red", Red},
		{"blue", Blue},
		{"green", Green},
		{"white", White},
		{"yellow", Yellow},
		{"orange", Orange},
	}
	for _, tc := range cases {
		c, err := ParseColor(tc.name)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tc.name, err)
		}
		if c != tc.want {
			t.Fatalf("ParseColor(%q)=%v want %v", tc.name, c, tc.want)
		}
		if c.String() != tc.name {
			t.Fatalf("%v.String()=%q want %q", c, c.String(), tc.name)
		}
	}
}

func TestParseColor_Unrecognized(t *testing.T) {
	// black is a peg result, not a code color
	for _, s := range []string{"black", "unknown", "", "re d"} {
		_, err := ParseColor(s)
		if !errors.Is(err, ErrInvalidColor) {
			t.Fatalf("ParseColor(%q): err=%v want ErrInvalidColor", s, err)
		}
	}
}

func TestParseCode_PropagatesInvalidColor(t *testing.T) {
	_, err := ParseCode([]string{"red", "blue", "pink", "green"})
	if !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("err=%v want ErrInvalidColor", err)
	}

	if _, err := NewScorerFromText([]string{"red", "mauve"}); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("NewScorerFromText err=%v want ErrInvalidColor", err)
	}

	s := NewScorer([]Color{Red, Blue})
	if _, err := s.CheckText([]string{"red", "mauve"}); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("CheckText err=%v want ErrInvalidColor", err)
	}
}

func TestCodeNames_RoundTrip(t *testing.T) {
	names := []string{"orange", "white", "yellow", "blue"}
	code, err := ParseCode(names)
	if err != nil {
		t.Fatalf("ParseCode: %v", err)
	}
	got := CodeNames(code)
	for i := range names {
		if got[i] != names[i] {
			t.Fatalf("CodeNames=%v want %v", got, names)
		}
	}
}
