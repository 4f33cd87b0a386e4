package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/pkg/apperrors"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var candidate = models.Principal{UserID: 7, Username: "candidate", Role: models.RoleCandidate}

func newTestManager(store Store) (*Manager, *clock) {
	c := &clock{now: time.Now().UTC().Truncate(time.Second)}
	return NewManager(store, DefaultTTL).WithClock(c.Now), c
}

func TestManager_TTLBoundary(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		elapsed time.Duration
		valid   bool
	}{
		{"just issued", 0, true},
		{"one minute before expiry", 23*time.Hour + 59*time.Minute, true},
		{"exactly at expiry", 24 * time.Hour, false},
		{"one minute after expiry", 24*time.Hour + time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, c := newTestManager(NewMemoryStore(0))
			s, err := m.Issue(ctx, candidate)
			require.NoError(t, err)

			c.Advance(tt.elapsed)
			principal, err := m.Verify(ctx, s.Token)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, candidate, principal)
				return
			}
			assert.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))
			assert.Equal(t, apperrors.ReasonInvalidOrExpired, apperrors.ReasonOf(err))
		})
	}
}

func TestManager_ExpiredTokenIsDropped(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	m, c := newTestManager(store)

	s, err := m.Issue(ctx, candidate)
	require.NoError(t, err)

	c.Advance(24 * time.Hour)
	_, err = m.Verify(ctx, s.Token)
	require.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestManager_UnknownAndEmptyToken(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(NewMemoryStore(0))

	for _, token := range []string{"", "does-not-exist"} {
		_, err := m.Verify(ctx, token)
		assert.Equal(t, apperrors.KindAuth, apperrors.KindOf(err), token)
	}
}

func TestManager_Revoke(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(NewMemoryStore(0))

	s, err := m.Issue(ctx, candidate)
	require.NoError(t, err)
	require.NoError(t, m.Revoke(ctx, s.Token))

	_, err = m.Verify(ctx, s.Token)
	assert.Equal(t, apperrors.ReasonInvalidOrExpired, apperrors.ReasonOf(err))
}

func TestManager_ConcurrentIssueKeepsEverySession(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(NewMemoryStore(0))

	const n = 50
	tokens := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := models.Principal{UserID: int64(i + 1), Username: "u", Role: models.RoleCandidate}
			s, err := m.Issue(ctx, p)
			assert.NoError(t, err)
			tokens[i] = s.Token
		}(i)
	}
	wg.Wait()

	for i, token := range tokens {
		p, err := m.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), p.UserID)
	}
}

func TestMemoryStore_CapacityEvictsExpiredThenOldest(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	put := func(token string, issued time.Time) {
		require.NoError(t, store.Put(ctx, &Session{Token: token, IssuedAt: issued, ExpiresAt: issued.Add(time.Hour)}))
	}

	put("a", base)
	put("b", base.Add(30*time.Minute))
	// a has expired by the time c is issued
	put("c", base.Add(time.Hour))

	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "b")
	assert.NoError(t, err)

	// nothing expired, so the oldest live session (b) goes
	put("d", base.Add(70*time.Minute))
	_, err = store.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, store.Len())
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Put(ctx, &Session{Token: "old", IssuedAt: base, ExpiresAt: base.Add(time.Hour)}))
	require.NoError(t, store.Put(ctx, &Session{Token: "new", IssuedAt: base, ExpiresAt: base.Add(3 * time.Hour)}))

	removed, err := store.Sweep(ctx, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())
}

func TestSweeper_SweepNow(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, store.Put(ctx, &Session{Token: "stale", IssuedAt: past, ExpiresAt: past.Add(DefaultTTL)}))

	sweeper, err := NewSweeper(store, time.Minute)
	require.NoError(t, err)
	sweeper.Start()
	defer sweeper.Stop(ctx)

	removed, err := sweeper.SweepNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestNewSweeper_RejectsZeroInterval(t *testing.T) {
	_, err := NewSweeper(NewMemoryStore(0), 0)
	assert.Error(t, err)
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, "admission:session:"), mr
}

func TestRedisStore_RoundTripAndDelete(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	m, _ := newTestManager(store)

	s, err := m.Issue(ctx, candidate)
	require.NoError(t, err)
	assert.True(t, mr.Exists("admission:session:"+s.Token))

	principal, err := m.Verify(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, candidate, principal)

	require.NoError(t, m.Revoke(ctx, s.Token))
	assert.False(t, mr.Exists("admission:session:"+s.Token))

	_, err = m.Verify(ctx, s.Token)
	assert.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))
}

func TestRedisStore_ExpiredByManagerClock(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)
	m, c := newTestManager(store)

	s, err := m.Issue(ctx, candidate)
	require.NoError(t, err)

	c.Advance(24*time.Hour + time.Minute)
	_, err = m.Verify(ctx, s.Token)
	assert.Equal(t, apperrors.ReasonInvalidOrExpired, apperrors.ReasonOf(err))
}

func TestRedisStore_MissingKey(t *testing.T) {
	store, _ := newRedisStore(t)
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
