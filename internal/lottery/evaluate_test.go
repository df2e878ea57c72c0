package lottery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func endingsOf(two ...string) Endings {
	e := Endings{Two: make(map[string]struct{}), Three: make(map[string]struct{})}
	for _, n := range two {
		e.Two[n] = struct{}{}
	}
	return e
}

func TestEvaluateLoCountsMatches(t *testing.T) {
	bet := &Bet{
		Type:       BetLo,
		Numbers:    []string{"23", "45", "67"},
		Stake:      10000,
		Multiplier: 99.5,
	}
	out := Evaluate(bet, endingsOf("23", "67", "11"), "99923")

	assert.True(t, out.Won)
	assert.Equal(t, 2, out.Matches)
	// 10000 x 99.5 per matching pick
	assert.Equal(t, int64(1990000), out.Payout)
}

func TestEvaluateLoNoMatch(t *testing.T) {
	bet := &Bet{Type: BetLo, Numbers: []string{"45"}, Stake: 10000, Multiplier: 99.5}
	out := Evaluate(bet, endingsOf("23", "67"), "99923")

	assert.False(t, out.Won)
	assert.Zero(t, out.Payout)
}

func TestEvaluateDeExactSpecialEnding(t *testing.T) {
	bet := &Bet{Type: BetDe, Numbers: []string{"35"}, Stake: 10000, Multiplier: 80}
	out := Evaluate(bet, endingsOf("35"), "46935")

	assert.True(t, out.Won)
	assert.Equal(t, 1, out.Matches)
	assert.Equal(t, int64(800000), out.Payout)
}

func TestEvaluateDeIgnoresOtherTiers(t *testing.T) {
	// "35" hit in a lower tier but the special prize ends in "42":
	// a de bet only looks at the special prize.
	bet := &Bet{Type: BetDe, Numbers: []string{"35"}, Stake: 10000, Multiplier: 99}
	out := Evaluate(bet, endingsOf("35", "42"), "12342")

	assert.False(t, out.Won)
	assert.Zero(t, out.Payout)
}

func TestEvaluate3CangExactSpecialEnding(t *testing.T) {
	bet := &Bet{Type: Bet3Cang, Numbers: []string{"866"}, Stake: 5000, Multiplier: 700}
	out := Evaluate(bet, Endings{}, "08866")

	assert.True(t, out.Won)
	assert.Equal(t, int64(3500000), out.Payout)
}

func TestEvaluate3CangMiss(t *testing.T) {
	bet := &Bet{Type: Bet3Cang, Numbers: []string{"867"}, Stake: 5000, Multiplier: 700}
	out := Evaluate(bet, Endings{}, "08866")

	assert.False(t, out.Won)
}

func TestEvaluateXienAllOrNothing(t *testing.T) {
	bet := &Bet{Type: BetXien2, Numbers: []string{"23", "45"}, Stake: 20000, Multiplier: 17}

	// Only one of the two picks hit: no partial credit.
	out := Evaluate(bet, endingsOf("23", "99"), "10023")
	assert.False(t, out.Won)
	assert.Zero(t, out.Payout)

	// Both hit: flat multiplier once, regardless of pick count.
	out = Evaluate(bet, endingsOf("23", "45"), "10023")
	assert.True(t, out.Won)
	assert.Equal(t, 1, out.Matches)
	assert.Equal(t, int64(340000), out.Payout)
}

func TestEvaluateXien4(t *testing.T) {
	bet := &Bet{
		Type:       BetXien4,
		Numbers:    []string{"01", "02", "03", "04"},
		Stake:      10000,
		Multiplier: 150,
	}
	out := Evaluate(bet, endingsOf("01", "02", "03", "04", "05"), "88804")

	assert.True(t, out.Won)
	assert.Equal(t, int64(1500000), out.Payout)
}

func TestEvaluateUsesStoredMultiplier(t *testing.T) {
	// Two identical bets placed under different rates pay differently:
	// only the snapshot on the bet matters.
	old := &Bet{Type: BetDe, Numbers: []string{"35"}, Stake: 10000, Multiplier: 80}
	cur := &Bet{Type: BetDe, Numbers: []string{"35"}, Stake: 10000, Multiplier: 99}

	assert.Equal(t, int64(800000), Evaluate(old, Endings{}, "46935").Payout)
	assert.Equal(t, int64(990000), Evaluate(cur, Endings{}, "46935").Payout)
}

func TestEvaluateShortSpecialPrize(t *testing.T) {
	bet := &Bet{Type: Bet3Cang, Numbers: []string{"866"}, Stake: 5000, Multiplier: 700}
	out := Evaluate(bet, Endings{}, "66")

	assert.False(t, out.Won, "special prize shorter than the ending never matches")
}

func TestEvaluateAgainstFullDraw(t *testing.T) {
	r := sampleResult() // special 46935, seventh includes "42" and "35"
	e := ExtractEndings(r)

	lo := &Bet{Type: BetLo, Numbers: []string{"42", "99"}, Stake: 10000, Multiplier: 99.5}
	out := Evaluate(lo, e, r.Special)
	assert.True(t, out.Won)
	assert.Equal(t, 1, out.Matches)

	de := &Bet{Type: BetDe, Numbers: []string{"35"}, Stake: 10000, Multiplier: 99}
	assert.True(t, Evaluate(de, e, r.Special).Won)
}
