package game

import (
	"time"

	"github.com/bellapacxx/tombola-backend/models"
)

// WinEvent reports a card reaching a tier for the first time. IsFirst
// is true when this was the first win of that tier in the whole
// session, decided by the winner history being empty immediately
// before the append.
type WinEvent struct {
	Tier       models.Tier `json:"type"`
	PlayerName string      `json:"playerName"`
	CardID     string      `json:"cardId"`
	IsFirst    bool        `json:"isFirst"`
}

// rowHitThresholds maps each row tier to the hits a single row needs.
var rowHitThresholds = map[models.Tier]int{
	models.TierAmbo:     2,
	models.TierTerno:    3,
	models.TierQuaterna: 4,
	models.TierCinquina: 5,
}

// rowCombos reports which row tiers the card satisfies: a tier is met
// when any one row has at least that many drawn numbers.
func rowCombos(numbers [][]int, drawnSet map[int]struct{}) map[models.Tier]bool {
	combos := make(map[models.Tier]bool, len(models.RowTiers))
	for _, row := range numbers {
		hits := 0
		for _, n := range row {
			if _, drawn := drawnSet[n]; drawn {
				hits++
			}
		}
		for tier, threshold := range rowHitThresholds {
			if hits >= threshold {
				combos[tier] = true
			}
		}
	}
	return combos
}

// isTombola reports whether every number on the card has been drawn.
func isTombola(numbers [][]int, drawnSet map[int]struct{}) bool {
	for _, row := range numbers {
		for _, n := range row {
			if _, drawn := drawnSet[n]; !drawn {
				return false
			}
		}
	}
	return true
}

// RecomputeWins walks every card against the current drawn set and
// flips win flags that are newly satisfied, appending to the winner
// history and collecting events. Flags already set are never
// re-emitted, so running it twice with unchanged state yields nothing.
// Players are enumerated in join order, cards in submission order; row
// tiers are checked before tombola on each card. A tombola win ends
// the session.
func RecomputeWins(s *models.Session, now time.Time) []WinEvent {
	drawnSet := s.State.DrawnSet
	atNumber := s.LastDrawn()
	var events []WinEvent

	for _, p := range s.PlayersInOrder() {
		for _, card := range p.Cards {
			combos := rowCombos(card.Numbers, drawnSet)
			for _, tier := range models.RowTiers {
				if !combos[tier] || card.Wins[tier] {
					continue
				}
				card.Wins[tier] = true
				isFirst := len(s.Winners[tier]) == 0
				s.Winners[tier] = append(s.Winners[tier], models.WinRecord{
					PlayerName: p.Name,
					CardID:     card.ID,
					AtNumber:   atNumber,
				})
				events = append(events, WinEvent{
					Tier:       tier,
					PlayerName: p.Name,
					CardID:     card.ID,
					IsFirst:    isFirst,
				})
			}

			if isTombola(card.Numbers, drawnSet) && !card.Wins[models.TierTombola] {
				card.Wins[models.TierTombola] = true
				isFirst := len(s.Winners[models.TierTombola]) == 0
				s.Winners[models.TierTombola] = append(s.Winners[models.TierTombola], models.WinRecord{
					PlayerName: p.Name,
					CardID:     card.ID,
					AtNumber:   atNumber,
				})
				events = append(events, WinEvent{
					Tier:       models.TierTombola,
					PlayerName: p.Name,
					CardID:     card.ID,
					IsFirst:    isFirst,
				})
				s.MarkEnded(now)
			}
		}
	}
	return events
}
