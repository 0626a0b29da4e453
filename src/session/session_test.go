package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"micartera/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := NewStore(ttl)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestOpenGetEnd(t *testing.T) {
	s := newStore(t, time.Minute)

	sess, err := s.Open(1, "dashboard")
	require.NoError(t, err)
	assert.Equal(t, "dashboard", sess.Page)

	got, ok := s.Get(sess.ID, 1)
	require.True(t, ok)
	assert.Same(t, sess, got)

	_, ok = s.Get(sess.ID, 2)
	assert.False(t, ok, "other users must not see the session")

	s.End(sess.ID)
	_, ok = s.Get(sess.ID, 1)
	assert.False(t, ok)

	s.End("already-gone")
	_, ok = s.Get("not-a-uuid", 1)
	assert.False(t, ok)
}

func TestSessionExpires(t *testing.T) {
	s := newStore(t, 20*time.Millisecond)
	sess, err := s.Open(1, "expenses")
	require.NoError(t, err)

	time.Sleep(80 * time.Millisecond)
	_, ok := s.Get(sess.ID, 1)
	assert.False(t, ok)
}

func TestCategoriesLoadedOnce(t *testing.T) {
	sess := &PageSession{}
	calls := 0
	load := func(context.Context) ([]models.Category, error) {
		calls++
		return []models.Category{{ID: 1, Name: "Food", Type: models.CategoryExpense}}, nil
	}

	for i := 0; i < 3; i++ {
		cats, err := sess.Categories(context.Background(), load)
		require.NoError(t, err)
		assert.Len(t, cats, 1)
	}
	assert.Equal(t, 1, calls)

	sess.ForgetCategories()
	_, err := sess.Categories(context.Background(), load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCategoriesFailedLoadIsRetried(t *testing.T) {
	sess := &PageSession{}
	_, err := sess.Categories(context.Background(), func(context.Context) ([]models.Category, error) {
		return nil, errors.New("backend down")
	})
	require.Error(t, err)

	cats, err := sess.Categories(context.Background(), func(context.Context) ([]models.Category, error) {
		return []models.Category{}, nil
	})
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestOpenReportsRefusedSession(t *testing.T) {
	s, err := newStoreWithCapacity(time.Minute, 1)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	s.cost = 2
	sess, err := s.Open(1, "dashboard")
	assert.ErrorIs(t, err, ErrNotStored)
	assert.Nil(t, sess)
}
