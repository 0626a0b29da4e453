// Package session keeps per-page state between the shell request and the
// panel requests it triggers.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"micartera/src/models"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"
)

var ErrNotStored = errors.New("session was not admitted by the cache")

// PageSession lives from a page render until the user navigates away or the
// TTL runs out. It owns the page's reference data.
type PageSession struct {
	ID       string
	UserID   int64
	Page     string
	OpenedAt time.Time

	mu         sync.Mutex
	categories []models.Category
	loaded     bool
}

// Categories returns the category list, calling load only the first time.
// A failed load is not remembered.
func (s *PageSession) Categories(ctx context.Context, load func(context.Context) ([]models.Category, error)) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.categories, nil
	}
	cats, err := load(ctx)
	if err != nil {
		return nil, err
	}
	s.categories, s.loaded = cats, true
	return cats, nil
}

// ForgetCategories drops the cached list so the next call reloads it.
func (s *PageSession) ForgetCategories() {
	s.mu.Lock()
	s.categories, s.loaded = nil, false
	s.mu.Unlock()
}

const maxSessions = 10000

type Store struct {
	cache *ristretto.Cache[string, *PageSession]
	ttl   time.Duration
	cost  int64
}

func NewStore(ttl time.Duration) (*Store, error) {
	return newStoreWithCapacity(ttl, maxSessions)
}

func newStoreWithCapacity(ttl time.Duration, maxCost int64) (*Store, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, *PageSession]{
		NumCounters:        10 * maxCost, // number of keys to track frequency of
		MaxCost:            maxCost,      // one unit per session
		IgnoreInternalCost: true,
		BufferItems:        64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, err
	}
	return &Store{cache: cache, ttl: ttl, cost: 1}, nil
}

func (s *Store) Open(userID int64, page string) (*PageSession, error) {
	sess := &PageSession{
		ID:       uuid.NewString(),
		UserID:   userID,
		Page:     page,
		OpenedAt: time.Now(),
	}
	if !s.cache.SetWithTTL(sess.ID, sess, s.cost, s.ttl) {
		return nil, ErrNotStored
	}
	// A buffered set can still be refused by the admission policy.
	s.cache.Wait()
	if _, ok := s.cache.Get(sess.ID); !ok {
		return nil, ErrNotStored
	}
	return sess, nil
}

// Get returns the live session with id owned by userID.
func (s *Store) Get(id string, userID int64) (*PageSession, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	sess, ok := s.cache.Get(id)
	if !ok || sess.UserID != userID {
		return nil, false
	}
	return sess, true
}

// End destroys the session. Ending an unknown session is a no-op.
func (s *Store) End(id string) {
	s.cache.Del(id)
}

func (s *Store) Close() {
	s.cache.Close()
}
