package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

// Claves del catálogo en caché.
const (
	StoresCacheKey     = "catalog:stores"
	UnitsCacheKey      = "catalog:units"
	CategoriesCacheKey = "catalog:categories"
)

// CatalogCache envuelve los repos de catálogo con lectura desde Redis.
// Un fallo de Redis se registra y se consulta la BD.
type CatalogCache struct {
	rdb redis.Cmdable
	ttl time.Duration
	log zerolog.Logger
}

// NewCatalogCache construye la caché. ttl <= 0 usa 5 minutos.
func NewCatalogCache(rdb redis.Cmdable, ttl time.Duration, log zerolog.Logger) *CatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogCache{rdb: rdb, ttl: ttl, log: log}
}

// Invalidate borra todas las claves del catálogo.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, StoresCacheKey, UnitsCacheKey, CategoriesCacheKey).Err()
}

func cached[T any](ctx context.Context, c *CatalogCache, key string, load func(context.Context) (T, error)) (T, error) {
	var out T
	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jerr := json.Unmarshal(b, &out); jerr == nil {
			return out, nil
		}
		c.log.Warn().Str("key", key).Msg("caché de catálogo corrupta, se recarga")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("leer caché de catálogo")
	}

	out, err = load(ctx)
	if err != nil {
		return out, err
	}
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("escribir caché de catálogo")
		}
	}
	return out, nil
}

// Stores envuelve el repo de almacenes. GetByID no se cachea.
func (c *CatalogCache) Stores(inner repository.StoreRepository) repository.StoreRepository {
	return &cachedStores{inner: inner, c: c}
}

// Units envuelve el repo de unidades.
func (c *CatalogCache) Units(inner repository.UnitRepository) repository.UnitRepository {
	return &cachedUnits{inner: inner, c: c}
}

// Categories envuelve el repo de categorías.
func (c *CatalogCache) Categories(inner repository.CategoryRepository) repository.CategoryRepository {
	return &cachedCategories{inner: inner, c: c}
}

type cachedStores struct {
	inner repository.StoreRepository
	c     *CatalogCache
}

func (s *cachedStores) List(ctx context.Context) ([]*entity.Store, error) {
	return cached(ctx, s.c, StoresCacheKey, s.inner.List)
}

func (s *cachedStores) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	return s.inner.GetByID(ctx, id)
}

type cachedUnits struct {
	inner repository.UnitRepository
	c     *CatalogCache
}

func (u *cachedUnits) List(ctx context.Context) ([]*entity.Unit, error) {
	return cached(ctx, u.c, UnitsCacheKey, u.inner.List)
}

type cachedCategories struct {
	inner repository.CategoryRepository
	c     *CatalogCache
}

func (k *cachedCategories) List(ctx context.Context) ([]*entity.Category, error) {
	return cached(ctx, k.c, CategoriesCacheKey, k.inner.List)
}
