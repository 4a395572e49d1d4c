package models

import (
	"fmt"
	"sort"
)

// MaxNameLen caps free-text player and host names.
const MaxNameLen = 40

// ClampName trims a free-text name to MaxNameLen runes.
func ClampName(name string) string {
	runes := []rune(name)
	if len(runes) > MaxNameLen {
		return string(runes[:MaxNameLen])
	}
	return name
}

// Card is a player's 3x5 Tombola card.
type Card struct {
	ID      string        `json:"id"`
	Numbers [][]int       `json:"numbers"`
	Wins    map[Tier]bool `json:"wins"`

	// ManuallyMarked holds numbers the player ticked by hand in
	// self-tracking mode. Independent of the drawn set; never feeds
	// win detection. Serialized as a sorted slice at the boundary.
	ManuallyMarked map[int]struct{} `json:"-"`
}

// NewCard returns a card with all win flags cleared.
func NewCard(id string, numbers [][]int) *Card {
	return &Card{
		ID:      id,
		Numbers: numbers,
		Wins:    emptyWins(),
	}
}

func emptyWins() map[Tier]bool {
	wins := make(map[Tier]bool, len(TierOrder))
	for _, t := range TierOrder {
		wins[t] = false
	}
	return wins
}

// ResetWins clears every win flag on the card.
func (c *Card) ResetWins() {
	c.Wins = emptyWins()
}

// ToggleMark flips manual-mark membership for n.
func (c *Card) ToggleMark(n int) {
	if c.ManuallyMarked == nil {
		c.ManuallyMarked = make(map[int]struct{})
	}
	if _, ok := c.ManuallyMarked[n]; ok {
		delete(c.ManuallyMarked, n)
	} else {
		c.ManuallyMarked[n] = struct{}{}
	}
}

// MarkedNumbers returns the manual marks as a sorted slice.
func (c *Card) MarkedNumbers() []int {
	out := make([]int, 0, len(c.ManuallyMarked))
	for n := range c.ManuallyMarked {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Player is a joined participant. A player survives disconnects:
// SocketID goes empty but the player and cards stay.
type Player struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	SocketID string  `json:"socketId,omitempty"`
	Cards    []*Card `json:"cards"`
}

// CardByID returns the player's card with the given id, or nil.
func (p *Player) CardByID(cardID string) *Card {
	for _, c := range p.Cards {
		if c.ID == cardID {
			return c
		}
	}
	return nil
}

// NextCardID returns the id the player's next card gets.
func (p *Player) NextCardID() string {
	return fmt.Sprintf("C%d", len(p.Cards)+1)
}

// RemoveCard deletes the card and renumbers the rest so ids stay a
// dense C1..Cn.
func (p *Player) RemoveCard(cardID string) bool {
	idx := -1
	for i, c := range p.Cards {
		if c.ID == cardID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	p.Cards = append(p.Cards[:idx], p.Cards[idx+1:]...)
	for i, c := range p.Cards {
		c.ID = fmt.Sprintf("C%d", i+1)
	}
	return true
}
