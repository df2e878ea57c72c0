package lottery

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

type BetType string

const (
	BetLo    BetType = "lo"        // 2-digit ending anywhere among prizes, pays per match
	BetDe    BetType = "de"        // exact 2-digit ending of the special prize
	Bet3Cang BetType = "3cang"     // exact 3-digit ending of the special prize
	BetXien2 BetType = "lo_xien_2" // combo: all picks must appear among endings
	BetXien3 BetType = "lo_xien_3"
	BetXien4 BetType = "lo_xien_4"
)

var ErrInvalidBetType = errors.New("invalid bet type")

func ParseBetType(s string) (BetType, error) {
	switch BetType(s) {
	case BetLo, BetDe, Bet3Cang, BetXien2, BetXien3, BetXien4:
		return BetType(s), nil
	}
	return "", ErrInvalidBetType
}

type BetStatus string

const (
	StatusPending BetStatus = "pending"
	StatusWon     BetStatus = "won"
	StatusLost    BetStatus = "lost"
)

// Bet is a wager on a draw. Created at placement with the multiplier
// snapshotted from the rates current at that moment; settlement only ever
// touches status, payout and settled_at.
type Bet struct {
	ID         string
	UserID     string
	Type       BetType
	Numbers    []string
	Stake      int64   // VND
	Multiplier float64 // payout rate captured at placement
	Region     Region
	DrawDate   time.Time
	Status     BetStatus
	Payout     int64
	CreatedAt  time.Time
	SettledAt  *time.Time
}

var (
	twoDigits   = regexp.MustCompile(`^[0-9]{2}$`)
	threeDigits = regexp.MustCompile(`^[0-9]{3}$`)
)

// Picks is a bet selection validated for its bet type: right digit width,
// zero-padded, right count, no duplicates. Constructed only via NewPicks so
// downstream code never re-checks arity.
type Picks struct {
	betType BetType
	numbers []string
}

// NewPicks validates numbers against the arity rules of the bet type:
// "de"/"3cang" take exactly one number, "lo" one or more, "lo_xien_N"
// exactly N. Digit width is 3 for "3cang" and 2 for everything else.
func NewPicks(t BetType, numbers []string) (Picks, error) {
	if _, err := ParseBetType(string(t)); err != nil {
		return Picks{}, err
	}
	if len(numbers) == 0 {
		return Picks{}, errors.New("empty selection")
	}

	var want int // exact pick count; 0 = any count >= 1
	switch t {
	case BetDe, Bet3Cang:
		want = 1
	case BetXien2:
		want = 2
	case BetXien3:
		want = 3
	case BetXien4:
		want = 4
	}
	if want > 0 && len(numbers) != want {
		return Picks{}, fmt.Errorf("bet type %s takes %d numbers, got %d", t, want, len(numbers))
	}

	pattern := twoDigits
	if t == Bet3Cang {
		pattern = threeDigits
	}

	seen := make(map[string]struct{}, len(numbers))
	for _, n := range numbers {
		if !pattern.MatchString(n) {
			return Picks{}, fmt.Errorf("invalid number %q for bet type %s", n, t)
		}
		if _, dup := seen[n]; dup {
			return Picks{}, fmt.Errorf("duplicate number %q", n)
		}
		seen[n] = struct{}{}
	}

	out := make([]string, len(numbers))
	copy(out, numbers)
	return Picks{betType: t, numbers: out}, nil
}

func (p Picks) Type() BetType     { return p.betType }
func (p Picks) Numbers() []string { return p.numbers }
