package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skyorder/internal/dto"
	"skyorder/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CatalogKind selects the id space of a catalog lookup.
type CatalogKind string

const (
	KindDish    CatalogKind = "dish"
	KindSetmeal CatalogKind = "setmeal"
)

// CatalogService resolves current dish / setmeal metadata for the cart.
type CatalogService interface {
	Dish(ctx context.Context, id int64) (*dto.CatalogItem, error)
	Setmeal(ctx context.Context, id int64) (*dto.CatalogItem, error)
	Evict(ctx context.Context, kind CatalogKind, ids ...int64)
}

type catalogService struct {
	dishes   repository.DishRepository
	setmeals repository.SetmealRepository
	rdb      *redis.Client
	ttl      time.Duration
}

// NewCatalogService builds a read-through lookup. rdb may be nil, in which case
// every call goes to the database.
func NewCatalogService(dishes repository.DishRepository, setmeals repository.SetmealRepository, rdb *redis.Client, ttl time.Duration) CatalogService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &catalogService{dishes: dishes, setmeals: setmeals, rdb: rdb, ttl: ttl}
}

func cacheKey(kind CatalogKind, id int64) string {
	return fmt.Sprintf("catalog:%s:%d", kind, id)
}

func (s *catalogService) Dish(ctx context.Context, id int64) (*dto.CatalogItem, error) {
	return s.lookup(ctx, KindDish, id, func() (*dto.CatalogItem, error) {
		d, err := s.dishes.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &dto.CatalogItem{ID: d.ID, Name: d.Name, Image: d.Image, Price: d.Price, Status: d.Status}, nil
	})
}

func (s *catalogService) Setmeal(ctx context.Context, id int64) (*dto.CatalogItem, error) {
	return s.lookup(ctx, KindSetmeal, id, func() (*dto.CatalogItem, error) {
		sm, err := s.setmeals.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &dto.CatalogItem{ID: sm.ID, Name: sm.Name, Image: sm.Image, Price: sm.Price, Status: sm.Status}, nil
	})
}

func (s *catalogService) lookup(ctx context.Context, kind CatalogKind, id int64, load func() (*dto.CatalogItem, error)) (*dto.CatalogItem, error) {
	key := cacheKey(kind, id)

	// 1. Try Redis
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var item dto.CatalogItem
			if jsonErr := json.Unmarshal(cached, &item); jsonErr == nil {
				return &item, nil
			}
		}
	}

	// 2. Cache miss: query DB
	item, err := load()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(string(kind), id)
		}
		return nil, err
	}

	// 3. Populate cache, best effort
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(item); jsonErr == nil {
			if err := s.rdb.Set(ctx, key, b, s.ttl).Err(); err != nil {
				log.Debug().Err(err).Str("key", key).Msg("catalog cache write failed")
			}
		}
	}
	return item, nil
}

func (s *catalogService) Evict(ctx context.Context, kind CatalogKind, ids ...int64) {
	if s.rdb == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, cacheKey(kind, id))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("catalog cache eviction failed")
	}
}
