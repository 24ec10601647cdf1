package checkout

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerOpenGetClose(t *testing.T) {
	m := NewManager(time.Minute)
	defer m.Stop()
	userID := uuid.New()

	s := m.Open(userID, uuid.New(), DraftOrder{CustomerName: "Karim"})
	require.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	m.Close(s.ID)
	assert.Equal(t, 0, m.Len())

	_, err = m.Get(s.ID, userID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerRejectsForeignSessions(t *testing.T) {
	m := NewManager(time.Minute)
	defer m.Stop()

	s := m.Open(uuid.New(), uuid.New(), DraftOrder{})

	_, err := m.Get(s.ID, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerExpiresStaleSessions(t *testing.T) {
	m := NewManager(time.Nanosecond)
	defer m.Stop()
	userID := uuid.New()

	s := m.Open(userID, uuid.New(), DraftOrder{})
	time.Sleep(time.Millisecond)

	_, err := m.Get(s.ID, userID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, m.Len())
}

// Abandoned sessions must be reclaimed even when nobody ever reads them
// again, otherwise the registry grows without bound.
func TestManagerSweepReclaimsAbandonedSessions(t *testing.T) {
	m := NewManager(time.Nanosecond)
	defer m.Stop()
	userID := uuid.New()

	var ids []uuid.UUID
	for i := 0; i < 100; i++ {
		s := m.Open(userID, uuid.New(), DraftOrder{})
		ids = append(ids, s.ID)
	}
	require.Equal(t, 100, m.Len())

	time.Sleep(time.Millisecond)
	m.sweep()

	assert.Equal(t, 0, m.Len())
	for _, id := range ids {
		_, err := m.Get(id, userID)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	}
}

func TestManagerSweepKeepsLiveSessions(t *testing.T) {
	m := NewManager(time.Minute)
	defer m.Stop()
	userID := uuid.New()

	s := m.Open(userID, uuid.New(), DraftOrder{})
	m.sweep()

	require.Equal(t, 1, m.Len())
	got, err := m.Get(s.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
}

func TestManagerCloseUnknownIsNoOp(t *testing.T) {
	m := NewManager(time.Minute)
	defer m.Stop()
	m.Close(uuid.New())
	assert.Equal(t, 0, m.Len())
}
