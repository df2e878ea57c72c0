package lottery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *DrawResult {
	return &DrawResult{
		DrawDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Region:   RegionNorth,
		Special:  "46935",
		First:    "69268",
		Second:   []string{"12345", "67890"},
		Third:    []string{"11122", "33344", "55566"},
		Fourth:   []string{"7788"},
		Fifth:    []string{"9901", "2210"},
		Sixth:    []string{"410", "523"},
		Seventh:  []string{"07", "42", "88", "35"},
	}
}

func TestExtractEndingsTwoDigit(t *testing.T) {
	e := ExtractEndings(sampleResult())

	// Last two digits of every prize in every tier count.
	for _, n := range []string{"35", "68", "45", "90", "22", "44", "66", "88", "01", "10", "23", "07", "42"} {
		assert.True(t, e.HasTwo(n), "expected 2-digit ending %s", n)
	}
	assert.False(t, e.HasTwo("99"))
	assert.False(t, e.HasTwo("46"), "leading digits are not endings")
}

func TestExtractEndingsThreeDigit(t *testing.T) {
	e := ExtractEndings(sampleResult())

	// Only the special and first prizes feed the 3-digit class.
	assert.True(t, e.HasThree("935"))
	assert.True(t, e.HasThree("268"))
	assert.False(t, e.HasThree("345"), "second prize must not contribute a 3-digit ending")
	require.Len(t, e.Three, 2)
}

func TestExtractEndingsShortPrizes(t *testing.T) {
	r := &DrawResult{
		Special: "5",              // too short for either class
		First:   "68",             // 2-digit ending only
		Seventh: []string{"7", ""}, // contribute nothing
	}
	e := ExtractEndings(r)

	assert.True(t, e.HasTwo("68"))
	require.Len(t, e.Two, 1)
	assert.Empty(t, e.Three)
}

func TestExtractEndingsDeduplicates(t *testing.T) {
	r := &DrawResult{
		Special: "10035",
		First:   "88835",
		Sixth:   []string{"135", "235"},
	}
	e := ExtractEndings(r)

	assert.True(t, e.HasTwo("35"))
	require.Len(t, e.Two, 1, "repeated endings collapse into the set")
}
