package game

import (
	"testing"
	"time"

	"github.com/bellapacxx/tombola-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var winTestNumbers = [][]int{
	{1, 2, 3, 4, 5},
	{10, 20, 30, 40, 50},
	{61, 72, 83, 84, 85},
}

func addPlayerWithCard(s *models.Session, playerID, name string, numbers [][]int) *models.Card {
	p := &models.Player{ID: playerID, Name: name}
	s.AddPlayer(p)
	card := models.NewCard(p.NextCardID(), numbers)
	p.Cards = append(p.Cards, card)
	return card
}

func TestRecomputeWinsRowTiers(t *testing.T) {
	s := newTestSession()
	card := addPlayerWithCard(s, "p1", "Anna", winTestNumbers)
	now := time.Now()

	// Two hits on the first row, plus a number not on the card.
	require.NoError(t, SetDrawn(s, []int{1, 2, 90}))
	events := RecomputeWins(s, now)
	require.Len(t, events, 1)
	assert.Equal(t, models.TierAmbo, events[0].Tier)
	assert.Equal(t, "Anna", events[0].PlayerName)
	assert.Equal(t, "C1", events[0].CardID)
	assert.True(t, events[0].IsFirst)
	assert.True(t, card.Wins[models.TierAmbo])
	assert.False(t, card.Wins[models.TierTerno])

	// Unchanged state emits nothing.
	assert.Empty(t, RecomputeWins(s, now))

	// Third hit on the same row: terno only, ambo stays set.
	_, err := DrawSpecific(s, 3)
	require.NoError(t, err)
	events = RecomputeWins(s, now)
	require.Len(t, events, 1)
	assert.Equal(t, models.TierTerno, events[0].Tier)
	assert.True(t, card.Wins[models.TierAmbo])
	assert.True(t, card.Wins[models.TierTerno])

	require.Len(t, s.Winners[models.TierTerno], 1)
	assert.Equal(t, 3, s.Winners[models.TierTerno][0].AtNumber)
}

func TestRecomputeWinsFullRowAllTiers(t *testing.T) {
	s := newTestSession()
	card := addPlayerWithCard(s, "p1", "Bruno", winTestNumbers)

	// A full row at once satisfies every row tier in the same pass.
	require.NoError(t, SetDrawn(s, []int{10, 20, 30, 40, 50}))
	events := RecomputeWins(s, time.Now())
	require.Len(t, events, 4)
	tiers := make([]models.Tier, 0, len(events))
	for _, ev := range events {
		tiers = append(tiers, ev.Tier)
	}
	assert.Equal(t, []models.Tier{
		models.TierAmbo, models.TierTerno,
		models.TierQuaterna, models.TierCinquina,
	}, tiers)
	assert.False(t, card.Wins[models.TierTombola])
	assert.False(t, s.State.Ended)
}

func TestRecomputeWinsTombolaEndsSession(t *testing.T) {
	s := newTestSession()
	card := addPlayerWithCard(s, "p1", "Carla", winTestNumbers)

	all := make([]int, 0, 15)
	for _, row := range winTestNumbers {
		all = append(all, row...)
	}
	require.NoError(t, SetDrawn(s, all))

	events := RecomputeWins(s, time.Now())
	assert.True(t, card.Wins[models.TierTombola])
	assert.True(t, s.State.Ended)
	assert.NotNil(t, s.EndedAt)

	last := events[len(events)-1]
	assert.Equal(t, models.TierTombola, last.Tier)
	assert.True(t, last.IsFirst)
}

func TestRecomputeWinsFirstFlagJoinOrder(t *testing.T) {
	s := newTestSession()
	addPlayerWithCard(s, "p1", "Anna", winTestNumbers)
	addPlayerWithCard(s, "p2", "Bruno", [][]int{
		{1, 2, 13, 14, 15},
		{26, 27, 38, 39, 41},
		{52, 63, 64, 75, 86},
	})

	// Both cards complete ambo on the same draw; only the
	// earlier-joined player's win is first.
	require.NoError(t, SetDrawn(s, []int{1, 2}))
	events := RecomputeWins(s, time.Now())
	require.Len(t, events, 2)
	assert.Equal(t, "Anna", events[0].PlayerName)
	assert.True(t, events[0].IsFirst)
	assert.Equal(t, "Bruno", events[1].PlayerName)
	assert.False(t, events[1].IsFirst)

	require.Len(t, s.Winners[models.TierAmbo], 2)
}

func TestSetDrawnMatchesFreshDraws(t *testing.T) {
	seq := []int{1, 10, 20, 2, 30, 40, 3, 50}
	now := time.Now()

	// One session imports the sequence wholesale.
	imported := newTestSession()
	importedCard := addPlayerWithCard(imported, "p1", "Anna", winTestNumbers)
	require.NoError(t, SetDrawn(imported, seq))
	RecomputeWins(imported, now)

	// The other draws the same numbers one by one.
	fresh := newTestSession()
	freshCard := addPlayerWithCard(fresh, "p1", "Anna", winTestNumbers)
	for _, n := range seq {
		_, err := DrawSpecific(fresh, n)
		require.NoError(t, err)
		RecomputeWins(fresh, now)
	}

	assert.Equal(t, fresh.State.Drawn, imported.State.Drawn)
	assert.Equal(t, freshCard.Wins, importedCard.Wins)
	// Only AtNumber may differ: the import attributes every win to the
	// final number of the sequence.
	for _, tier := range models.TierOrder {
		assert.Len(t, imported.Winners[tier], len(fresh.Winners[tier]), "tier %s", tier)
	}
}

func TestRecomputeWinsAfterRewind(t *testing.T) {
	s := newTestSession()
	card := addPlayerWithCard(s, "p1", "Dario", winTestNumbers)
	now := time.Now()

	require.NoError(t, SetDrawn(s, []int{1, 2, 3}))
	RecomputeWins(s, now)
	require.True(t, card.Wins[models.TierTerno])

	// Rewinding below the threshold drops the flag; wins are a pure
	// function of the drawn sequence.
	require.NoError(t, SetDrawn(s, []int{1, 2}))
	events := RecomputeWins(s, now)
	require.Len(t, events, 1)
	assert.Equal(t, models.TierAmbo, events[0].Tier)
	assert.True(t, events[0].IsFirst)
	assert.False(t, card.Wins[models.TierTerno])
	assert.Empty(t, s.Winners[models.TierTerno])
}
