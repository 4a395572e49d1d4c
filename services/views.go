package services

import (
	"time"

	"github.com/bellapacxx/tombola-backend/models"
)

// StateView is the wire shape of the draw state.
type StateView struct {
	Started bool  `json:"started"`
	Ended   bool  `json:"ended"`
	Drawn   []int `json:"drawn"`
	Last5   []int `json:"last5"`
}

// StatsView carries the BN pool numbers shown on every screen.
type StatsView struct {
	TotalCards int     `json:"totalCards"`
	TotalBN    float64 `json:"totalBN"`
}

// PlayerSummary is what non-host subscribers see of other players:
// card counts only, never card contents.
type PlayerSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CardsCount int    `json:"cardsCount"`
}

// CardView is a serialized card; the manual-mark set crosses the
// boundary as a sorted slice.
type CardView struct {
	ID             string               `json:"id"`
	Numbers        [][]int              `json:"numbers"`
	Wins           map[models.Tier]bool `json:"wins"`
	ManuallyMarked []int                `json:"manuallyMarked"`
}

// PlayerFull is a player with full card contents. Host-facing, and the
// player's own "me" view.
type PlayerFull struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	SocketID string     `json:"socketId,omitempty"`
	Cards    []CardView `json:"cards"`
}

// PublicView is the session snapshot broadcast to every subscriber.
type PublicView struct {
	Code      string                             `json:"code"`
	CreatedAt time.Time                          `json:"createdAt"`
	HostName  string                             `json:"hostName"`
	Settings  models.Settings                    `json:"settings"`
	State     StateView                          `json:"state"`
	Stats     StatsView                          `json:"stats"`
	Winners   map[models.Tier][]models.WinRecord `json:"winners"`
	Players   []PlayerSummary                    `json:"players"`
}

// HostView extends the public view with every player's full cards and
// the event log.
type HostView struct {
	PublicView
	PlayersFull []PlayerFull   `json:"playersFull"`
	EventLog    []models.Event `json:"eventLog"`
}

// CalcBN returns the total card count and the BN pool it yields.
func CalcBN(s *models.Session) (int, float64) {
	totalCards := s.TotalCards()
	return totalCards, s.Settings.BNPerCard * float64(totalCards)
}

// buildPublicView assembles the public snapshot. Caller holds the
// session lock.
func buildPublicView(s *models.Session) PublicView {
	totalCards, totalBN := CalcBN(s)

	drawn := append([]int{}, s.State.Drawn...)
	last5 := drawn
	if len(drawn) > 5 {
		last5 = drawn[len(drawn)-5:]
	}

	winners := make(map[models.Tier][]models.WinRecord, len(s.Winners))
	for tier, records := range s.Winners {
		winners[tier] = append([]models.WinRecord{}, records...)
	}

	players := make([]PlayerSummary, 0, len(s.Order))
	for _, p := range s.PlayersInOrder() {
		players = append(players, PlayerSummary{ID: p.ID, Name: p.Name, CardsCount: len(p.Cards)})
	}

	return PublicView{
		Code:      s.Code,
		CreatedAt: s.CreatedAt,
		HostName:  s.Host.Name,
		Settings:  s.Settings,
		State: StateView{
			Started: s.State.Started,
			Ended:   s.State.Ended,
			Drawn:   drawn,
			Last5:   last5,
		},
		Stats:   StatsView{TotalCards: totalCards, TotalBN: totalBN},
		Winners: winners,
		Players: players,
	}
}

func buildCardView(c *models.Card) CardView {
	numbers := make([][]int, len(c.Numbers))
	for i, row := range c.Numbers {
		numbers[i] = append([]int{}, row...)
	}
	wins := make(map[models.Tier]bool, len(c.Wins))
	for tier, won := range c.Wins {
		wins[tier] = won
	}
	return CardView{
		ID:             c.ID,
		Numbers:        numbers,
		Wins:           wins,
		ManuallyMarked: c.MarkedNumbers(),
	}
}

func buildPlayerFull(p *models.Player) PlayerFull {
	cards := make([]CardView, 0, len(p.Cards))
	for _, c := range p.Cards {
		cards = append(cards, buildCardView(c))
	}
	return PlayerFull{ID: p.ID, Name: p.Name, SocketID: p.SocketID, Cards: cards}
}

// buildHostView assembles the host snapshot. Caller holds the session
// lock.
func buildHostView(s *models.Session) HostView {
	playersFull := make([]PlayerFull, 0, len(s.Order))
	for _, p := range s.PlayersInOrder() {
		playersFull = append(playersFull, buildPlayerFull(p))
	}
	return HostView{
		PublicView:  buildPublicView(s),
		PlayersFull: playersFull,
		EventLog:    append([]models.Event{}, s.EventLog...),
	}
}

// PublicSnapshot returns the public session view.
func (s *Store) PublicSnapshot(code string) (PublicView, error) {
	sess, err := s.session(code)
	if err != nil {
		return PublicView{}, err
	}
	sess.Lock()
	defer sess.Unlock()
	return buildPublicView(sess), nil
}

// HostSnapshot returns the host-facing session view.
func (s *Store) HostSnapshot(code string) (HostView, error) {
	sess, err := s.session(code)
	if err != nil {
		return HostView{}, err
	}
	sess.Lock()
	defer sess.Unlock()
	return buildHostView(sess), nil
}

// PlayerSnapshot returns a player's own full view.
func (s *Store) PlayerSnapshot(code, playerID string) (PlayerFull, error) {
	sess, err := s.session(code)
	if err != nil {
		return PlayerFull{}, err
	}
	sess.Lock()
	defer sess.Unlock()
	p, ok := sess.Players[playerID]
	if !ok {
		return PlayerFull{}, ErrPlayerNotFound
	}
	return buildPlayerFull(p), nil
}
