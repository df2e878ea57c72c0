package lottery

import (
	"errors"
	"time"
)

type Region string

const (
	RegionNorth   Region = "north"
	RegionCentral Region = "central"
	RegionSouth   Region = "south"
)

var ErrInvalidRegion = errors.New("invalid region")

func ParseRegion(s string) (Region, error) {
	switch Region(s) {
	case RegionNorth, RegionCentral, RegionSouth:
		return Region(s), nil
	}
	return "", ErrInvalidRegion
}

// DrawResult is one day's official draw for a region. Immutable once stored;
// unique per (draw date, region).
type DrawResult struct {
	ID        string
	DrawDate  time.Time
	Region    Region
	Special   string   // special prize, single number
	First     string   // first prize, single number
	Second    []string // second..seventh prizes are ordered sequences
	Third     []string
	Fourth    []string
	Fifth     []string
	Sixth     []string
	Seventh   []string
	CreatedAt time.Time
}

// Prizes returns every prize number in the draw, tier order.
func (r *DrawResult) Prizes() []string {
	out := make([]string, 0, 2+len(r.Second)+len(r.Third)+len(r.Fourth)+len(r.Fifth)+len(r.Sixth)+len(r.Seventh))
	out = append(out, r.Special, r.First)
	for _, tier := range [][]string{r.Second, r.Third, r.Fourth, r.Fifth, r.Sixth, r.Seventh} {
		out = append(out, tier...)
	}
	return out
}

// Day truncates t to its calendar day in UTC. Draw dates and bet draw dates
// are always compared at day granularity.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
