package lottery

import "math"

// Outcome is the result of evaluating one wager against a draw.
type Outcome struct {
	Won     bool
	Matches int   // matched picks for "lo"; 1 for exact-match and combo wins
	Payout  int64 // 0 when lost
}

// Evaluate applies the bet-type rule for a single wager. The same rules run
// regardless of which store the bet came from; this is the only place win
// conditions and payouts are computed.
//
//   - "lo": wins if any pick is among the 2-digit endings; pays
//     stake x multiplier once per matching pick.
//   - "de": wins only on an exact match of the special prize's last 2 digits.
//   - "3cang": exact match of the special prize's last 3 digits.
//   - "lo_xien_N": wins only if every pick is among the 2-digit endings.
//
// The multiplier used is the one stored on the bet at placement, never a
// current rate.
func Evaluate(b *Bet, e Endings, specialPrize string) Outcome {
	switch b.Type {
	case BetLo:
		matches := 0
		for _, n := range b.Numbers {
			if e.HasTwo(n) {
				matches++
			}
		}
		if matches == 0 {
			return Outcome{}
		}
		return Outcome{Won: true, Matches: matches, Payout: unitPayout(b) * int64(matches)}

	case BetDe:
		if !contains(b.Numbers, lastN(specialPrize, 2)) {
			return Outcome{}
		}
		return Outcome{Won: true, Matches: 1, Payout: unitPayout(b)}

	case Bet3Cang:
		if !contains(b.Numbers, lastN(specialPrize, 3)) {
			return Outcome{}
		}
		return Outcome{Won: true, Matches: 1, Payout: unitPayout(b)}

	case BetXien2, BetXien3, BetXien4:
		for _, n := range b.Numbers {
			if !e.HasTwo(n) {
				return Outcome{}
			}
		}
		return Outcome{Won: true, Matches: 1, Payout: unitPayout(b)}
	}

	return Outcome{}
}

// unitPayout is stake x snapshotted multiplier, rounded to whole VND.
func unitPayout(b *Bet) int64 {
	return int64(math.Round(float64(b.Stake) * b.Multiplier))
}

func contains(nums []string, s string) bool {
	if s == "" {
		return false
	}
	for _, n := range nums {
		if n == s {
			return true
		}
	}
	return false
}
