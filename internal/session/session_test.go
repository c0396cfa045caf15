package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/domain"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(30 * time.Minute)

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)

	sess := New()
	sess.State = State("registration:name")
	sess.Mode = ModeRegister
	sess.Draft.DisplayName = "Ada"
	sess.Scratch.Skills = []domain.Skill{{Name: "Go", Kind: domain.SkillHard, Level: 5}}
	require.NoError(t, store.Put(ctx, 42, sess))

	got, err = store.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, State("registration:name"), got.State)
	assert.Equal(t, "Ada", got.Draft.DisplayName)
	require.Len(t, got.Scratch.Skills, 1)
	assert.Equal(t, "Go", got.Scratch.Skills[0].Name)

	// The store hands out copies, not shared state.
	got.Draft.DisplayName = "changed"
	again, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.Draft.DisplayName)

	require.NoError(t, store.Clear(ctx, 42))
	got, err = store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreEvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	sess := New()
	sess.State = State("search:role")
	sess.LastActivity = time.Now().UTC().Add(-2 * time.Minute)
	require.NoError(t, store.Put(ctx, 7, sess))

	// A timed-out flow surfaces ErrExpired exactly once.
	got, err := store.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrExpired)
	assert.Nil(t, got)

	got, err = store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)

	// An idle session times out silently.
	idle := New()
	idle.LastActivity = time.Now().UTC().Add(-2 * time.Minute)
	require.NoError(t, store.Put(ctx, 8, idle))

	got, err = store.Get(ctx, 8)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestExpired(t *testing.T) {
	s := New()
	assert.False(t, s.Expired(30*time.Minute))

	s.LastActivity = time.Now().UTC().Add(-31 * time.Minute)
	assert.True(t, s.Expired(30*time.Minute))
	assert.False(t, s.Expired(0))
}

func TestResetFlowKeepsProfileCache(t *testing.T) {
	s := New()
	s.State = State("edit:menu")
	s.Mode = ModeEdit
	s.ProfileCache = &domain.CandidateProfile{ID: "c-1", DisplayName: "Ada"}

	s.ResetFlow()

	assert.Equal(t, StateIdle, s.State)
	assert.Empty(t, s.Mode)
	require.NotNil(t, s.ProfileCache)
	assert.Equal(t, "c-1", s.ProfileCache.ID)
}
