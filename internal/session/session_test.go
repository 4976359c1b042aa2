package session

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
)

func newSQLiteBackend(t *testing.T, ttl time.Duration) *GormBackend {
	t.Helper()

	db, err := pkgdb.Open(context.Background(), pkgdb.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	b := NewGormBackend(db, ttl)
	require.NoError(t, b.Migrate(context.Background()))
	return b
}

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	out := map[string]Backend{
		"memory": NewMemoryBackend(time.Hour),
		"sql":    newSQLiteBackend(t, time.Hour),
	}

	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		dbIndex, _ := strconv.Atoi(os.Getenv("TEST_REDIS_DB"))
		client, err := NewRedisClient(context.Background(), RedisConfig{Addr: addr, DB: dbIndex})
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })
		out["redis"] = NewRedisBackend(client, time.Hour)
	}
	return out
}

func TestStore_Contract(t *testing.T) {
	for name, b := range backends(t) {
		b := b
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, b.Ping(ctx))

			visitor := "visitor-" + name + "-" + strconv.FormatInt(time.Now().UnixNano(), 10)
			s := b.Scope(visitor)
			other := b.Scope(visitor + "-other")

			_, err := s.Get(ctx, KeyToken)
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, KeyToken, "t1"))
			require.NoError(t, s.Set(ctx, KeyToken, "t2"))
			require.NoError(t, other.Set(ctx, KeyToken, "foreign"))

			got, err := s.Get(ctx, KeyToken)
			require.NoError(t, err)
			assert.Equal(t, "t2", got)

			require.NoError(t, s.Set(ctx, KeyUser, `{"id":1}`))
			require.NoError(t, s.Clear(ctx, KeyToken))

			_, err = s.Get(ctx, KeyToken)
			require.ErrorIs(t, err, ErrNotFound)
			got, err = s.Get(ctx, KeyUser)
			require.NoError(t, err)
			assert.Equal(t, `{"id":1}`, got)

			require.NoError(t, s.Clear(ctx))
			_, err = s.Get(ctx, KeyUser)
			require.ErrorIs(t, err, ErrNotFound)

			got, err = other.Get(ctx, KeyToken)
			require.NoError(t, err)
			assert.Equal(t, "foreign", got)

			require.NoError(t, s.Clear(ctx, KeyToken, KeyUser))
		})
	}
}

func TestSaveLoadDestroy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryBackend(0).Scope("v1")

	tok, err := Token(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, tok)

	_, err = Load(ctx, s)
	require.ErrorIs(t, err, ErrNotFound)

	user := &models.User{ID: 4, Email: "a@shop.test", Name: "Ann", Role: models.RoleUser}
	require.NoError(t, Save(ctx, s, models.Session{Token: "abc", User: user}))

	sess, err := Load(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "abc", sess.Token)
	assert.Equal(t, user, sess.User)

	require.NoError(t, Save(ctx, s, models.Session{Token: "def"}))
	sess, err = Load(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "def", sess.Token)
	assert.Nil(t, sess.User, "save replaces the session wholesale")

	require.NoError(t, Destroy(ctx, s))
	tok, err = Token(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestMemoryBackend_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b := NewMemoryBackend(time.Minute)
	b.now = func() time.Time { return now }

	s := b.Scope("v")
	require.NoError(t, s.Set(ctx, KeyToken, "x"))

	now = now.Add(2 * time.Minute)
	_, err := s.Get(ctx, KeyToken)
	require.ErrorIs(t, err, ErrNotFound)

	n, err := b.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGormBackend_PurgeExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newSQLiteBackend(t, time.Hour)

	require.NoError(t, b.Scope("fresh").Set(ctx, KeyToken, "a"))
	require.NoError(t, b.DB.Create(&Entry{
		VisitorID: "stale",
		Key:       KeyToken,
		Value:     "b",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}).Error)

	_, err := b.Scope("stale").Get(ctx, KeyToken)
	require.ErrorIs(t, err, ErrNotFound)

	n, err := b.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := b.Scope("fresh").Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "a", got)
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	assert.Nil(t, FromContext(context.Background()))

	s := NewMemoryBackend(0).Scope("v")
	ctx := IntoContext(context.Background(), s)
	assert.Same(t, s, FromContext(ctx))
}
