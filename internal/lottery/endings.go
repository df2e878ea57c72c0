package lottery

// Endings holds the winning tail digits derived from one draw. Membership is
// all that matters, so both classes are sets.
type Endings struct {
	Two   map[string]struct{}
	Three map[string]struct{}
}

func (e Endings) HasTwo(n string) bool {
	_, ok := e.Two[n]
	return ok
}

func (e Endings) HasThree(n string) bool {
	_, ok := e.Three[n]
	return ok
}

// ExtractEndings derives the winning endings from a draw. Every prize number
// in every tier contributes its last two digits; the special and first prizes
// also contribute their last three. Prizes shorter than the ending length
// contribute nothing.
func ExtractEndings(r *DrawResult) Endings {
	e := Endings{
		Two:   make(map[string]struct{}),
		Three: make(map[string]struct{}),
	}

	for _, prize := range r.Prizes() {
		if tail := lastN(prize, 2); tail != "" {
			e.Two[tail] = struct{}{}
		}
	}
	for _, prize := range []string{r.Special, r.First} {
		if tail := lastN(prize, 3); tail != "" {
			e.Three[tail] = struct{}{}
		}
	}

	return e
}

func lastN(s string, n int) string {
	if len(s) < n {
		return ""
	}
	return s[len(s)-n:]
}
