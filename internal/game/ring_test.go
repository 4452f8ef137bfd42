package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unolabs/uno-service/internal/models"
)

func newTestRing(t *testing.T, n int) (*Ring, []*models.Player) {
	t.Helper()
	players := make([]*models.Player, n)
	for i := 0; i < n; i++ {
		p, err := models.NewPlayer(testNames[i])
		require.NoError(t, err)
		players[i] = p
	}
	r := NewRing(players[0])
	for _, p := range players[1:] {
		r.Join(p)
	}
	return r, players
}

func TestRingAdvanceWraps(t *testing.T) {
	r, players := newTestRing(t, 3)

	r.Advance(1)
	assert.Equal(t, players[1], r.Current())
	r.Advance(2)
	assert.Equal(t, players[0], r.Current())
	r.Advance(7)
	assert.Equal(t, players[1], r.Current())
}

func TestRingReverseWrapsBackwards(t *testing.T) {
	r, players := newTestRing(t, 4)

	r.Reverse()
	assert.Equal(t, -1, r.Direction())
	r.Advance(1)
	assert.Equal(t, players[3], r.Current(), "stepping back from seat 0 wraps to the last seat")
	r.Advance(2)
	assert.Equal(t, players[1], r.Current())

	r.Reverse()
	r.Advance(1)
	assert.Equal(t, players[2], r.Current())
}

func TestRingCurrentAlwaysSeated(t *testing.T) {
	r, _ := newTestRing(t, 3)
	for i := 0; i < 20; i++ {
		if i%5 == 0 {
			r.Reverse()
		}
		r.Advance(1 + i%2)
		require.NotNil(t, r.Current())
		require.GreaterOrEqual(t, r.CurrentIndex(), 0)
		require.Less(t, r.CurrentIndex(), r.Size())
	}
}

func TestRingGet(t *testing.T) {
	r, players := newTestRing(t, 2)

	p, err := r.Get(players[1].ID)
	require.NoError(t, err)
	assert.Same(t, players[1], p)

	_, err = r.Get(uuid.New())
	require.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestRingLastPlayer(t *testing.T) {
	r, players := newTestRing(t, 2)

	_, err := r.LastPlayer()
	require.ErrorIs(t, err, ErrPlayerNotFound)

	r.SetLastPlayer(players[1])
	p, err := r.LastPlayer()
	require.NoError(t, err)
	assert.Same(t, players[1], p)
}
