package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/bellapacxx/tombola-backend/game"
	"github.com/bellapacxx/tombola-backend/models"
	"github.com/bellapacxx/tombola-backend/utils/logger"
	"github.com/google/uuid"
)

// lockedRand makes a shared random source safe across sessions drawing
// concurrently.
type lockedRand struct {
	mu  sync.Mutex
	rng game.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Intn(n)
}

// SettingsPatch is a partial settings update; nil fields are left as
// they are.
type SettingsPatch struct {
	BNPerCard     *float64                `json:"bnPerCard"`
	Splits        map[models.Tier]float64 `json:"splits"`
	AllowNewCards *bool                   `json:"allowNewCards"`
}

// DrawOutcome reports a draw operation. Done means the number pool was
// exhausted; Ended reflects the session state after win detection.
type DrawOutcome struct {
	Done   bool
	Number int
	Ended  bool
	Events []game.WinEvent
}

// Store is the authoritative registry of all live sessions. The
// registry map is guarded by mu; each session carries its own mutex
// and every operation runs as an atomic unit against it, so
// cross-session operations proceed in parallel.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session

	rng *lockedRand
	now func() time.Time
	ttl time.Duration
}

// NewStore returns a store with the production clock and a seeded RNG.
func NewStore(ttl time.Duration) *Store {
	return NewStoreWith(rand.New(rand.NewSource(time.Now().UnixNano())), time.Now, ttl)
}

// NewStoreWith injects the random source and clock, for deterministic
// tests.
func NewStoreWith(rng game.Rand, now func() time.Time, ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*models.Session),
		rng:      &lockedRand{rng: rng},
		now:      now,
		ttl:      ttl,
	}
}

func (s *Store) session(code string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[code]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Count returns the number of registered sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CreateSession registers a new session under a fresh code.
func (s *Store) CreateSession(hostName string, patch SettingsPatch, hostSocketID string) *models.Session {
	if hostName == "" {
		hostName = "Host"
	}
	settings := models.DefaultSettings()
	applyPatch(&settings, patch)

	s.mu.Lock()
	code := game.NewCode(s.rng)
	for {
		if _, taken := s.sessions[code]; !taken {
			break
		}
		code = game.NewCode(s.rng)
	}
	sess := models.NewSession(code, hostName, settings, s.now())
	sess.Host.SocketID = hostSocketID
	s.sessions[code] = sess
	s.mu.Unlock()

	sess.Lock()
	sess.LogEvent(s.now(), "session_created", fmt.Sprintf("Session created by %s", sess.Host.Name), nil)
	sess.Unlock()

	logger.Infof("[Session %s] created by %s", code, sess.Host.Name)
	return sess
}

// JoinSession adds a player to a running session.
func (s *Store) JoinSession(code, name, socketID string) (*models.Player, error) {
	sess, err := s.session(code)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "Player"
	}

	sess.Lock()
	defer sess.Unlock()
	if sess.State.Ended {
		return nil, game.ErrSessionEnded
	}
	player := &models.Player{
		ID:       uuid.NewString(),
		Name:     models.ClampName(name),
		SocketID: socketID,
		Cards:    []*models.Card{},
	}
	sess.AddPlayer(player)
	sess.LogEvent(s.now(), "player_joined", fmt.Sprintf("%s joined the game", player.Name),
		map[string]any{"playerId": player.ID})
	return player, nil
}

// LeavePlayer removes a player and their cards for good. Disconnects
// don't go through here; a disconnected player persists.
func (s *Store) LeavePlayer(code, playerID string) error {
	sess, err := s.session(code)
	if err != nil {
		return err
	}
	sess.Lock()
	defer sess.Unlock()
	p := sess.RemovePlayer(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	sess.LogEvent(s.now(), "player_left", fmt.Sprintf("%s left the game", p.Name), nil)
	return nil
}

// AddCard validates and stores a player-submitted card.
func (s *Store) AddCard(code, playerID string, numbers [][]int) (string, error) {
	sess, err := s.session(code)
	if err != nil {
		return "", err
	}
	sess.Lock()
	defer sess.Unlock()
	if !sess.Settings.AllowNewCards {
		return "", ErrCardsClosed
	}
	player, ok := sess.Players[playerID]
	if !ok {
		return "", ErrPlayerNotFound
	}
	if err := game.ValidateCard(numbers); err != nil {
		return "", err
	}
	card := models.NewCard(player.NextCardID(), numbers)
	player.Cards = append(player.Cards, card)
	sess.LogEvent(s.now(), "card_added", fmt.Sprintf("%s added card %s", player.Name, card.ID),
		map[string]any{"playerId": player.ID, "cardId": card.ID})
	return card.ID, nil
}

// AddRandomCard generates a card for the player.
func (s *Store) AddRandomCard(code, playerID string) (string, [][]int, error) {
	sess, err := s.session(code)
	if err != nil {
		return "", nil, err
	}
	sess.Lock()
	defer sess.Unlock()
	if !sess.Settings.AllowNewCards {
		return "", nil, ErrCardsClosed
	}
	player, ok := sess.Players[playerID]
	if !ok {
		return "", nil, ErrPlayerNotFound
	}
	numbers := game.GenerateCard(s.rng)
	card := models.NewCard(player.NextCardID(), numbers)
	player.Cards = append(player.Cards, card)
	sess.LogEvent(s.now(), "card_added", fmt.Sprintf("%s added random card %s", player.Name, card.ID),
		map[string]any{"playerId": player.ID, "cardId": card.ID})
	return card.ID, numbers, nil
}

// DeleteCard removes a card (owner or host initiated) and renumbers
// the player's remaining cards densely.
func (s *Store) DeleteCard(code, playerID, cardID string, byHost bool) error {
	sess, err := s.session(code)
	if err != nil {
		return err
	}
	sess.Lock()
	defer sess.Unlock()
	player, ok := sess.Players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	if !player.RemoveCard(cardID) {
		return ErrCardNotFound
	}
	msg := fmt.Sprintf("%s deleted their card %s", player.Name, cardID)
	if byHost {
		msg = fmt.Sprintf("Host deleted card %s of %s", cardID, player.Name)
	}
	sess.LogEvent(s.now(), "card_deleted", msg, map[string]any{"playerId": playerID, "cardId": cardID})
	return nil
}

// Draw picks the next number at random and runs win detection.
func (s *Store) Draw(code string) (DrawOutcome, error) {
	sess, err := s.session(code)
	if err != nil {
		return DrawOutcome{}, err
	}
	sess.Lock()
	defer sess.Unlock()

	res, err := game.DrawNext(sess, s.rng, s.now())
	if err != nil {
		return DrawOutcome{}, err
	}
	if res.Done {
		sess.LogEvent(s.now(), "draw", "Draw attempted with no numbers left", nil)
		return DrawOutcome{Done: true, Ended: sess.State.Ended}, nil
	}
	sess.LogEvent(s.now(), "draw", fmt.Sprintf("Number drawn: %d", res.Number),
		map[string]any{"number": res.Number, "remaining": 90 - len(sess.State.Drawn)})
	events := s.detectWins(sess)
	return DrawOutcome{Number: res.Number, Ended: sess.State.Ended, Events: events}, nil
}

// DrawSpecific records a host-chosen number and runs win detection.
func (s *Store) DrawSpecific(code string, number int) (DrawOutcome, error) {
	sess, err := s.session(code)
	if err != nil {
		return DrawOutcome{}, err
	}
	sess.Lock()
	defer sess.Unlock()

	res, err := game.DrawSpecific(sess, number)
	if err != nil {
		return DrawOutcome{}, err
	}
	sess.LogEvent(s.now(), "draw", fmt.Sprintf("Number drawn manually: %d", res.Number),
		map[string]any{"number": res.Number, "manual": true})
	events := s.detectWins(sess)
	return DrawOutcome{Number: res.Number, Ended: sess.State.Ended, Events: events}, nil
}

// detectWins runs win detection and logs the fallout. Caller holds the
// session lock.
func (s *Store) detectWins(sess *models.Session) []game.WinEvent {
	events := game.RecomputeWins(sess, s.now())
	for _, ev := range events {
		sess.LogEvent(s.now(), "win", fmt.Sprintf("%s - %s on card %s", ev.PlayerName, ev.Tier, ev.CardID),
			map[string]any{"tier": ev.Tier, "playerId": ev.PlayerName, "cardId": ev.CardID, "isFirst": ev.IsFirst})
	}
	if sess.State.Ended {
		sess.LogEvent(s.now(), "game_end", "Tombola! Game over", nil)
	}
	return events
}

// SetDrawn replaces the drawn sequence and recomputes all wins from
// scratch, so the session looks as if exactly these numbers had been
// drawn in this order.
func (s *Store) SetDrawn(code string, numbers []int) ([]game.WinEvent, error) {
	sess, err := s.session(code)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	if err := game.SetDrawn(sess, numbers); err != nil {
		return nil, err
	}
	events := game.RecomputeWins(sess, s.now())
	sess.LogEvent(s.now(), "import", fmt.Sprintf("Imported %d drawn numbers", len(numbers)),
		map[string]any{"numbers": numbers})
	return events, nil
}

// ResetPartial clears draws, wins and manual marks but keeps every
// player and card.
func (s *Store) ResetPartial(code string) error {
	sess, err := s.session(code)
	if err != nil {
		return err
	}
	sess.Lock()
	defer sess.Unlock()
	game.ResetPartial(sess)
	sess.LogEvent(s.now(), "reset", "Partial reset - cards kept, numbers cleared", nil)
	return nil
}

// EndSession force-ends the session.
func (s *Store) EndSession(code string) error {
	sess, err := s.session(code)
	if err != nil {
		return err
	}
	sess.Lock()
	defer sess.Unlock()
	game.End(sess, s.now())
	sess.LogEvent(s.now(), "game_end", "Game ended manually by the host", nil)
	return nil
}

// ToggleNewCards flips (or sets, when allow is non-nil) whether players
// may add cards, returning the resulting flag.
func (s *Store) ToggleNewCards(code string, allow *bool) (bool, error) {
	sess, err := s.session(code)
	if err != nil {
		return false, err
	}
	sess.Lock()
	defer sess.Unlock()
	next := !sess.Settings.AllowNewCards
	if allow != nil {
		next = *allow
	}
	sess.Settings.AllowNewCards = next
	status := "CLOSED"
	if next {
		status = "OPEN"
	}
	sess.LogEvent(s.now(), "settings", "Card submissions "+status, nil)
	return next, nil
}

// UpdateSettings merges a partial settings update.
func (s *Store) UpdateSettings(code string, patch SettingsPatch) error {
	sess, err := s.session(code)
	if err != nil {
		return err
	}
	sess.Lock()
	defer sess.Unlock()
	applyPatch(&sess.Settings, patch)
	sess.LogEvent(s.now(), "settings", "Settings updated", nil)
	return nil
}

// MarkManual toggles a number in a card's manual self-tracking set.
// Never touches win detection.
func (s *Store) MarkManual(code, playerID, cardID string, number int) error {
	sess, err := s.session(code)
	if err != nil {
		return err
	}
	sess.Lock()
	defer sess.Unlock()
	player, ok := sess.Players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	card := player.CardByID(cardID)
	if card == nil {
		return ErrCardNotFound
	}
	card.ToggleMark(number)
	return nil
}

// SetPlayerSocket updates a player's connection handle. Empty means
// disconnected; the player and cards persist.
func (s *Store) SetPlayerSocket(code, playerID, socketID string) {
	sess, err := s.session(code)
	if err != nil {
		return
	}
	sess.Lock()
	defer sess.Unlock()
	if p, ok := sess.Players[playerID]; ok {
		p.SocketID = socketID
	}
}

// SetHostSocket updates the host's connection handle.
func (s *Store) SetHostSocket(code, socketID string) {
	sess, err := s.session(code)
	if err != nil {
		return
	}
	sess.Lock()
	defer sess.Unlock()
	sess.Host.SocketID = socketID
}

func applyPatch(settings *models.Settings, patch SettingsPatch) {
	if patch.BNPerCard != nil && *patch.BNPerCard >= 0 {
		settings.BNPerCard = *patch.BNPerCard
	}
	if patch.Splits != nil {
		splits := make(map[models.Tier]float64, len(models.TierOrder))
		for _, t := range models.TierOrder {
			splits[t] = patch.Splits[t]
		}
		settings.Splits = splits
	}
	if patch.AllowNewCards != nil {
		settings.AllowNewCards = *patch.AllowNewCards
	}
}

// Sweep evicts ended sessions whose retention window has passed,
// returning how many were removed. Safe against live operations: each
// candidate is checked under its own lock.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for code, sess := range s.sessions {
		sess.Lock()
		expired := sess.State.Ended && sess.EndedAt != nil && now.Sub(*sess.EndedAt) > s.ttl
		sess.Unlock()
		if expired {
			delete(s.sessions, code)
			removed++
			logger.Infof("[Session %s] evicted after retention window", code)
		}
	}
	return removed
}

// StartSweeper runs Sweep on a ticker until the context is cancelled.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(s.now()); n > 0 {
					logger.Infof("[Sweep] removed %d expired sessions", n)
				}
			}
		}
	}()
}
