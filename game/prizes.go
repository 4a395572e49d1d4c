package game

import (
	"math"
	"sort"

	"github.com/bellapacxx/tombola-backend/models"
)

func clamp(n, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, n))
}

// AllocatePrizes splits a BN pool across the tiers by percentage
// weight using the largest-remainder (Hamilton) method, so the parts
// always sum to floor(totalBN). An all-zero weight map falls back to a
// weight sum of 1, which degenerately routes the whole pool through
// the remainder cycle; callers rely only on conservation.
func AllocatePrizes(totalBN float64, splits map[models.Tier]float64) map[models.Tier]int {
	total := int(math.Floor(totalBN))
	if total < 0 {
		total = 0
	}

	weights := make([]float64, len(models.TierOrder))
	sumW := 0.0
	for i, tier := range models.TierOrder {
		weights[i] = splits[tier]
		sumW += weights[i]
	}
	if sumW == 0 {
		sumW = 1
	}

	base := make([]int, len(weights))
	type remainder struct {
		idx  int
		frac float64
	}
	fracs := make([]remainder, len(weights))
	used := 0
	for i, w := range weights {
		raw := float64(total) * w / sumW
		base[i] = int(math.Floor(raw))
		fracs[i] = remainder{idx: i, frac: raw - float64(base[i])}
		used += base[i]
	}

	sort.SliceStable(fracs, func(i, j int) bool {
		return fracs[i].frac > fracs[j].frac
	})

	remaining := total - used
	for i := 0; remaining > 0; i++ {
		base[fracs[i%len(fracs)].idx]++
		remaining--
	}

	out := make(map[models.Tier]int, len(models.TierOrder))
	for i, tier := range models.TierOrder {
		out[tier] = base[i]
	}
	return out
}

// RebalanceSplits applies a slider edit to one tier's percentage and
// redistributes the difference over the unlocked tiers, cycling from
// the tier just after the edited one. Each adjusted tier is clamped to
// [0,100]; if every other tier is locked the edited tier is forced to
// 100 minus the locked sum. Percentages are then rounded and any ±1
// drift is discharged across the unlocked tiers, tombola first, so the
// result sums to exactly 100 whenever at least one tier is unlocked.
func RebalanceSplits(splits map[models.Tier]float64, locks map[models.Tier]bool, edited models.Tier, next float64) map[models.Tier]float64 {
	cur := make(map[models.Tier]float64, len(models.TierOrder))
	for _, t := range models.TierOrder {
		cur[t] = splits[t]
	}
	cur[edited] = clamp(next, 0, 100)

	if locks[edited] {
		return cur
	}

	var editable []models.Tier
	for _, t := range models.TierOrder {
		if !locks[t] {
			editable = append(editable, t)
		}
	}

	sum := 0.0
	for _, t := range models.TierOrder {
		sum += cur[t]
	}
	diff := sum - 100

	// Redistribution order: cyclically after the edited tier, unlocked
	// tiers only.
	start := 0
	for i, t := range models.TierOrder {
		if t == edited {
			start = i
			break
		}
	}
	var seq []models.Tier
	for i := 1; i < len(models.TierOrder); i++ {
		t := models.TierOrder[(start+i)%len(models.TierOrder)]
		if t != edited && !locks[t] {
			seq = append(seq, t)
		}
	}

	if len(seq) == 0 {
		lockedSum := 0.0
		for _, t := range models.TierOrder {
			if locks[t] {
				lockedSum += cur[t]
			}
		}
		cur[edited] = clamp(100-lockedSum, 0, 100)
		return cur
	}

	if diff > 0 {
		d := diff
		for _, t := range seq {
			if d <= 0 {
				break
			}
			take := math.Min(d, cur[t])
			cur[t] -= take
			d -= take
		}
		if d > 0 {
			cur[edited] = clamp(cur[edited]-d, 0, 100)
		}
	} else if diff < 0 {
		d := -diff
		for _, t := range seq {
			if d <= 0 {
				break
			}
			room := 100 - cur[t]
			add := math.Min(d, room)
			cur[t] += add
			d -= add
		}
		if d > 0 {
			cur[edited] = clamp(cur[edited]+d, 0, 100)
		}
	}

	for _, t := range models.TierOrder {
		cur[t] = math.Round(cur[t])
	}

	drift := -100.0
	for _, t := range models.TierOrder {
		drift += cur[t]
	}
	if drift != 0 {
		// Discharge order: tombola, the other unlocked tiers, the
		// edited tier last. A tier pinned at a clamp bound passes the
		// remainder on instead of swallowing it.
		order := make([]models.Tier, 0, len(editable))
		if !locks[models.TierTombola] {
			order = append(order, models.TierTombola)
		}
		for _, t := range editable {
			if t != edited && t != models.TierTombola {
				order = append(order, t)
			}
		}
		if edited != models.TierTombola {
			order = append(order, edited)
		}
		for _, t := range order {
			if drift == 0 {
				break
			}
			next := clamp(cur[t]-drift, 0, 100)
			drift -= cur[t] - next
			cur[t] = next
		}
	}
	return cur
}
