package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

func TestStoreLifecycle(t *testing.T) {
	s := NewStore()
	id := s.Create(models.Session{UserID: 7, Role: models.RoleCountyAdmin, Expiry: time.Now().Add(time.Hour)})

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, int64(7), got.UserID)

	// Two sessions for the same seat are distinct entries.
	id2 := s.Create(models.Session{UserID: 7, Role: models.RoleCountyAdmin, Expiry: time.Now().Add(time.Hour)})
	assert.NotEqual(t, id, id2)
	assert.Len(t, s.List(), 2)

	s.Delete(id)
	_, ok = s.Get(id)
	assert.False(t, ok)
}

func TestStoreExpiredSessionDropped(t *testing.T) {
	s := NewStore()
	id := s.Create(models.Session{UserID: 1, Expiry: time.Now().Add(-time.Minute)})

	_, ok := s.Get(id)
	assert.False(t, ok)
	assert.Empty(t, s.List(), "expired entry is removed on access")
}
