package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionStore(t *testing.T) {
	store := NewSessionStore(30*time.Minute, zap.NewNop())

	cart := store.Start()
	require.NotEmpty(t, cart.ID)
	assert.Equal(t, 1, store.Len())

	found, err := store.Get(cart.ID)
	require.NoError(t, err)
	assert.Same(t, cart, found)

	_, err = store.Get("no-such-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	store.Drop(cart.ID)
	assert.Equal(t, 0, store.Len())
}

func TestSessionStoreSweep(t *testing.T) {
	store := NewSessionStore(time.Minute, zap.NewNop())

	idle := store.Start()
	active := store.Start()

	// age the idle cart past the cutoff
	idle.mu.Lock()
	idle.UpdatedAt = time.Now().Add(-2 * time.Minute)
	idle.mu.Unlock()

	swept := store.Sweep(time.Now().Add(-time.Minute))
	assert.Equal(t, 1, swept)
	assert.Equal(t, 1, store.Len())

	_, err := store.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(active.ID)
	assert.NoError(t, err)
}
