package models

import (
	"sync"
	"time"
)

// EventLogCap bounds the host event log.
const EventLogCap = 100

// Host is the session creator. SocketID is empty while disconnected;
// the session keeps running.
type Host struct {
	Name     string `json:"name"`
	SocketID string `json:"socketId,omitempty"`
}

// State is the draw state of a session.
type State struct {
	Started bool  `json:"started"`
	Ended   bool  `json:"ended"`
	Drawn   []int `json:"drawn"`

	// DrawnSet mirrors Drawn for O(1) membership checks. Derived,
	// kept in sync by the mutation helpers, never serialized.
	DrawnSet map[int]struct{} `json:"-"`
}

// WinRecord is one entry in a tier's winner history.
type WinRecord struct {
	PlayerName string `json:"playerName"`
	CardID     string `json:"cardId"`
	AtNumber   int    `json:"atNumber"`
}

// Event is a host-visible operational log entry.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

// Session is the authoritative in-memory state of one game. Every
// mutation must run with the session locked; the embedded mutex gives
// coarse per-session locking, cross-session operations are independent.
type Session struct {
	sync.Mutex

	Code      string
	CreatedAt time.Time
	EndedAt   *time.Time
	Host      Host
	Settings  Settings
	State     State
	Players   map[string]*Player
	Order     []string // player ids in join order
	Winners   map[Tier][]WinRecord
	EventLog  []Event // most recent first, capped at EventLogCap
}

// NewSession returns a fresh session with empty state.
func NewSession(code, hostName string, settings Settings, now time.Time) *Session {
	return &Session{
		Code:      code,
		CreatedAt: now,
		Host:      Host{Name: ClampName(hostName)},
		Settings:  settings,
		State: State{
			Drawn:    []int{},
			DrawnSet: make(map[int]struct{}),
		},
		Players: make(map[string]*Player),
		Winners: emptyWinners(),
	}
}

func emptyWinners() map[Tier][]WinRecord {
	w := make(map[Tier][]WinRecord, len(TierOrder))
	for _, t := range TierOrder {
		w[t] = []WinRecord{}
	}
	return w
}

// AddPlayer registers a player, preserving join order.
func (s *Session) AddPlayer(p *Player) {
	s.Players[p.ID] = p
	s.Order = append(s.Order, p.ID)
}

// RemovePlayer drops a player and their cards.
func (s *Session) RemovePlayer(playerID string) *Player {
	p, ok := s.Players[playerID]
	if !ok {
		return nil
	}
	delete(s.Players, playerID)
	for i, id := range s.Order {
		if id == playerID {
			s.Order = append(s.Order[:i], s.Order[i+1:]...)
			break
		}
	}
	return p
}

// PlayersInOrder returns players in join order.
func (s *Session) PlayersInOrder() []*Player {
	out := make([]*Player, 0, len(s.Order))
	for _, id := range s.Order {
		if p, ok := s.Players[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// TotalCards counts cards across all players.
func (s *Session) TotalCards() int {
	total := 0
	for _, p := range s.Players {
		total += len(p.Cards)
	}
	return total
}

// AppendDrawn records a drawn number, keeping Drawn and DrawnSet in sync.
func (s *Session) AppendDrawn(n int) {
	s.State.Drawn = append(s.State.Drawn, n)
	s.State.DrawnSet[n] = struct{}{}
	s.State.Started = true
}

// ReplaceDrawn swaps the whole drawn sequence.
func (s *Session) ReplaceDrawn(nums []int) {
	s.State.Drawn = append([]int{}, nums...)
	s.State.DrawnSet = make(map[int]struct{}, len(nums))
	for _, n := range nums {
		s.State.DrawnSet[n] = struct{}{}
	}
	s.State.Started = len(nums) > 0
}

// LastDrawn returns the most recently drawn number, 0 if none.
func (s *Session) LastDrawn() int {
	if len(s.State.Drawn) == 0 {
		return 0
	}
	return s.State.Drawn[len(s.State.Drawn)-1]
}

// ResetWins clears the winner history and every card's win flags.
func (s *Session) ResetWins() {
	s.Winners = emptyWinners()
	for _, p := range s.Players {
		for _, c := range p.Cards {
			c.ResetWins()
		}
	}
}

// MarkEnded flips the session to ended and stamps EndedAt once.
func (s *Session) MarkEnded(now time.Time) {
	s.State.Ended = true
	if s.EndedAt == nil {
		t := now
		s.EndedAt = &t
	}
}

// ClearEnded reopens the session (setDrawn / partial reset).
func (s *Session) ClearEnded() {
	s.State.Ended = false
	s.EndedAt = nil
}

// LogEvent prepends an event, keeping the log bounded.
func (s *Session) LogEvent(now time.Time, eventType, message string, data map[string]any) {
	ev := Event{Timestamp: now, Type: eventType, Message: message, Data: data}
	s.EventLog = append([]Event{ev}, s.EventLog...)
	if len(s.EventLog) > EventLogCap {
		s.EventLog = s.EventLog[:EventLogCap]
	}
}
