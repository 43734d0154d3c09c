package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

type countingStores struct{ calls int }

func (s *countingStores) List(context.Context) ([]*entity.Store, error) {
	s.calls++
	return []*entity.Store{{ID: "s-1", Name: "Centro"}}, nil
}

func (s *countingStores) GetByID(context.Context, string) (*entity.Store, error) {
	return &entity.Store{ID: "s-1"}, nil
}

// unreachable cliente contra un puerto sin servidor: todas las operaciones fallan rápido.
func unreachable(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestCatalogCache_SinRedisConsultaLaBD(t *testing.T) {
	inner := &countingStores{}
	cache := NewCatalogCache(unreachable(t), time.Minute, zerolog.Nop())
	stores := cache.Stores(inner)

	list, err := stores.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Centro", list[0].Name)

	_, err = stores.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestSessionStore_ErrorDeConexion(t *testing.T) {
	st := NewSessionStore(unreachable(t))

	_, err := st.Get(context.Background(), "s-1")
	assert.Error(t, err)
	assert.Error(t, st.Save(context.Background(), &entity.Session{ID: "s-1"}, time.Minute))
}
