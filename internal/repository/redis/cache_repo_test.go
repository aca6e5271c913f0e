package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/triviago-api/internal/pkg/errors"
)

// newTestCacheRepo поднимает miniredis и создает CacheRepo поверх него
func newTestCacheRepo(t *testing.T) (*CacheRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	repo, err := NewCacheRepo(client)
	require.NoError(t, err)

	return repo, mr
}

func TestCacheRepo_SetGet(t *testing.T) {
	repo, _ := newTestCacheRepo(t)

	require.NoError(t, repo.Set("key", "value", time.Minute))

	val, err := repo.Get("key")
	require.NoError(t, err)
	assert.Equal(t, "value", val)
}

func TestCacheRepo_Get_Missing(t *testing.T) {
	repo, _ := newTestCacheRepo(t)

	// Отсутствующий ключ превращается в ErrNotFound, а не в redis.Nil
	_, err := repo.Get("missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCacheRepo_SetNX_Lock(t *testing.T) {
	repo, _ := newTestCacheRepo(t)

	// Первый захват блокировки успешен
	ok, err := repo.SetNX("lock:game:abc", "1", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	// Повторный захват до освобождения — нет
	ok, err = repo.SetNX("lock:game:abc", "1", time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	// После удаления ключ снова доступен
	require.NoError(t, repo.Delete("lock:game:abc"))
	ok, err = repo.SetNX("lock:game:abc", "1", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCacheRepo_SetNX_Expiration(t *testing.T) {
	repo, mr := newTestCacheRepo(t)

	ok, err := repo.SetNX("lock:game:ttl", "1", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	// Протухание TTL освобождает блокировку
	mr.FastForward(2 * time.Second)

	ok, err = repo.SetNX("lock:game:ttl", "1", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCacheRepo_Increment(t *testing.T) {
	repo, _ := newTestCacheRepo(t)

	n, err := repo.Increment("counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Increment("counter")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCacheRepo_Exists(t *testing.T) {
	repo, _ := newTestCacheRepo(t)

	found, err := repo.Exists("nope")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Set("yep", "1", 0))
	found, err = repo.Exists("yep")
	require.NoError(t, err)
	assert.True(t, found)
}
