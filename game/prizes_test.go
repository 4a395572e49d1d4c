package game

import (
	"math"
	"testing"

	"github.com/bellapacxx/tombola-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumPrizes(prizes map[models.Tier]int) int {
	total := 0
	for _, v := range prizes {
		total += v
	}
	return total
}

func TestAllocatePrizesDefaults(t *testing.T) {
	prizes := AllocatePrizes(100, models.DefaultSplits())
	assert.Equal(t, map[models.Tier]int{
		models.TierAmbo:     15,
		models.TierTerno:    20,
		models.TierQuaterna: 20,
		models.TierCinquina: 20,
		models.TierTombola:  25,
	}, prizes)
}

func TestAllocatePrizesConservation(t *testing.T) {
	cases := []struct {
		name   string
		total  float64
		splits map[models.Tier]float64
	}{
		{"default splits odd total", 97, models.DefaultSplits()},
		{"fractional total floors", 33.7, models.DefaultSplits()},
		{"uneven weights", 101, map[models.Tier]float64{
			models.TierAmbo:     1,
			models.TierTerno:    1,
			models.TierQuaterna: 1,
			models.TierCinquina: 1,
			models.TierTombola:  96,
		}},
		{"all zero weights", 7, map[models.Tier]float64{}},
		{"single tier", 50, map[models.Tier]float64{models.TierTombola: 100}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prizes := AllocatePrizes(tc.total, tc.splits)
			assert.Equal(t, int(math.Floor(tc.total)), sumPrizes(prizes))
			for tier, v := range prizes {
				assert.GreaterOrEqual(t, v, 0, "tier %s", tier)
			}
		})
	}
}

func TestAllocatePrizesZeroAndNegative(t *testing.T) {
	assert.Equal(t, 0, sumPrizes(AllocatePrizes(0, models.DefaultSplits())))
	assert.Equal(t, 0, sumPrizes(AllocatePrizes(-10, models.DefaultSplits())))
}

func sumSplits(splits map[models.Tier]float64) float64 {
	total := 0.0
	for _, v := range splits {
		total += v
	}
	return total
}

func TestRebalanceSplitsSumInvariant(t *testing.T) {
	cases := []struct {
		name   string
		locks  map[models.Tier]bool
		edited models.Tier
		next   float64
	}{
		{"no locks raise ambo", nil, models.TierAmbo, 40},
		{"no locks drop terno", nil, models.TierTerno, 0},
		{"edit clamped above 100", nil, models.TierTombola, 250},
		{"edit clamped below 0", nil, models.TierCinquina, -30},
		{"tombola locked", map[models.Tier]bool{models.TierTombola: true}, models.TierAmbo, 60},
		{"two locked", map[models.Tier]bool{
			models.TierTerno:    true,
			models.TierCinquina: true,
		}, models.TierQuaterna, 55},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := RebalanceSplits(models.DefaultSplits(), tc.locks, tc.edited, tc.next)
			assert.InDelta(t, 100, sumSplits(out), 1e-9)
			for tier, v := range out {
				assert.GreaterOrEqual(t, v, 0.0, "tier %s", tier)
				assert.LessOrEqual(t, v, 100.0, "tier %s", tier)
			}
			// Locked tiers never move.
			for tier, locked := range tc.locks {
				if locked && tier != tc.edited {
					assert.Equal(t, models.DefaultSplits()[tier], out[tier], "tier %s", tier)
				}
			}
		})
	}
}

func TestRebalanceSplitsRedistributionOrder(t *testing.T) {
	// Raising ambo by 10 takes the surplus from the next tier in cyclic
	// order, terno.
	out := RebalanceSplits(models.DefaultSplits(), nil, models.TierAmbo, 25)
	assert.Equal(t, 25.0, out[models.TierAmbo])
	assert.Equal(t, 10.0, out[models.TierTerno])
	assert.Equal(t, 20.0, out[models.TierQuaterna])
	assert.Equal(t, 20.0, out[models.TierCinquina])
	assert.Equal(t, 25.0, out[models.TierTombola])
}

func TestRebalanceSplitsDrainsAcrossTiers(t *testing.T) {
	// An increase larger than the next tier holds spills onto the one
	// after it.
	out := RebalanceSplits(models.DefaultSplits(), nil, models.TierAmbo, 50)
	assert.Equal(t, 50.0, out[models.TierAmbo])
	assert.Equal(t, 0.0, out[models.TierTerno])
	assert.Equal(t, 5.0, out[models.TierQuaterna])
	assert.Equal(t, 20.0, out[models.TierCinquina])
	assert.Equal(t, 25.0, out[models.TierTombola])
}

func TestRebalanceSplitsLockedEdit(t *testing.T) {
	locks := map[models.Tier]bool{models.TierAmbo: true}
	out := RebalanceSplits(models.DefaultSplits(), locks, models.TierAmbo, 60)
	// A locked tier takes the edit but nothing is redistributed.
	assert.Equal(t, 60.0, out[models.TierAmbo])
	assert.Equal(t, 20.0, out[models.TierTerno])
	assert.InDelta(t, 145, sumSplits(out), 1e-9)
}

func TestRebalanceSplitsDriftAtClampBound(t *testing.T) {
	// Rounding a half-step edit leaves +1 drift while tombola, the
	// preferred discharge tier, already sits at 0 and cannot absorb it.
	splits := map[models.Tier]float64{
		models.TierAmbo:     50,
		models.TierTerno:    50,
		models.TierQuaterna: 0,
		models.TierCinquina: 0,
		models.TierTombola:  0,
	}
	out := RebalanceSplits(splits, nil, models.TierAmbo, 50.5)
	assert.Equal(t, 51.0, out[models.TierAmbo])
	assert.Equal(t, 49.0, out[models.TierTerno])
	assert.Equal(t, 0.0, out[models.TierTombola])
	assert.InDelta(t, 100, sumSplits(out), 1e-9)
}

func TestRebalanceSplitsAllOthersLocked(t *testing.T) {
	locks := map[models.Tier]bool{
		models.TierTerno:    true,
		models.TierQuaterna: true,
		models.TierCinquina: true,
		models.TierTombola:  true,
	}
	// With every other tier locked the edit is overridden so the sum
	// still lands on 100.
	out := RebalanceSplits(models.DefaultSplits(), locks, models.TierAmbo, 70)
	require.Equal(t, 15.0, out[models.TierAmbo])
	assert.InDelta(t, 100, sumSplits(out), 1e-9)
}
