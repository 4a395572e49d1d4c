package models

// Tier is a Tombola win tier.
type Tier string

const (
	TierAmbo     Tier = "ambo"
	TierTerno    Tier = "terno"
	TierQuaterna Tier = "quaterna"
	TierCinquina Tier = "cinquina"
	TierTombola  Tier = "tombola"
)

// TierOrder is the canonical tier ordering: row tiers by hit count,
// tombola last.
var TierOrder = []Tier{TierAmbo, TierTerno, TierQuaterna, TierCinquina, TierTombola}

// RowTiers are the tiers decided per row; tombola is decided on the
// whole card.
var RowTiers = []Tier{TierAmbo, TierTerno, TierQuaterna, TierCinquina}

// DefaultSplits returns the default prize percentage per tier.
func DefaultSplits() map[Tier]float64 {
	return map[Tier]float64{
		TierAmbo:     15,
		TierTerno:    20,
		TierQuaterna: 20,
		TierCinquina: 20,
		TierTombola:  25,
	}
}

// Settings are the host-tunable session settings.
type Settings struct {
	BNPerCard     float64          `json:"bnPerCard"`
	Splits        map[Tier]float64 `json:"splits"`
	AllowNewCards bool             `json:"allowNewCards"`
}

// DefaultSettings returns the settings a session starts with when the
// host doesn't override them.
func DefaultSettings() Settings {
	return Settings{
		BNPerCard:     2,
		Splits:        DefaultSplits(),
		AllowNewCards: true,
	}
}
