package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skyorder/internal/dto"
	"skyorder/internal/infra"
	"skyorder/internal/model"
	"skyorder/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ShoppingCartService keeps one aggregated line per (user, item) and resolves
// item metadata from the catalog on first add.
type ShoppingCartService interface {
	Add(ctx context.Context, userID int64, req dto.ShoppingCartRequest) error
	Sub(ctx context.Context, userID int64, req dto.ShoppingCartRequest) error
	List(ctx context.Context, userID int64) ([]dto.ShoppingCartResponse, error)
	Clean(ctx context.Context, userID int64) error
}

type shoppingCartService struct {
	repo    repository.ShoppingCartRepository
	catalog CatalogService
	locker  infra.Locker
	now     Clock
}

// NewShoppingCartService wires the cart aggregator. A nil locker falls back to
// an in-process keyed mutex; a nil clock to time.Now.
func NewShoppingCartService(repo repository.ShoppingCartRepository, catalog CatalogService, locker infra.Locker, now Clock) ShoppingCartService {
	if locker == nil {
		locker = infra.NewLocalLocker()
	}
	return &shoppingCartService{repo: repo, catalog: catalog, locker: locker, now: clockOrNow(now)}
}

// cartKey validates the request and derives the line identity for userID.
func cartKey(userID int64, req dto.ShoppingCartRequest) (model.CartKey, error) {
	if userID <= 0 {
		return model.CartKey{}, invalid("missing user")
	}
	hasDish := req.DishID != nil
	hasSetmeal := req.SetmealID != nil
	switch {
	case hasDish && hasSetmeal:
		return model.CartKey{}, invalid("dish_id and setmeal_id are mutually exclusive")
	case !hasDish && !hasSetmeal:
		return model.CartKey{}, invalid("one of dish_id or setmeal_id is required")
	case hasDish && *req.DishID <= 0, hasSetmeal && *req.SetmealID <= 0:
		return model.CartKey{}, invalid("item id must be positive")
	}

	flavor := req.DishFlavor
	if flavor != nil && strings.TrimSpace(*flavor) == "" {
		flavor = nil
	}
	if flavor != nil && !hasDish {
		return model.CartKey{}, invalid("dish_flavor only applies to dishes")
	}
	return model.CartKey{UserID: userID, DishID: req.DishID, SetmealID: req.SetmealID, DishFlavor: flavor}, nil
}

func lockName(k model.CartKey) string {
	if k.DishID != nil {
		flavor := ""
		if k.DishFlavor != nil {
			flavor = *k.DishFlavor
		}
		return fmt.Sprintf("cart:%d:dish:%d:%s", k.UserID, *k.DishID, flavor)
	}
	return fmt.Sprintf("cart:%d:setmeal:%d", k.UserID, *k.SetmealID)
}

// ── Add ───────────────────────────────────────────────────────────────────────
//   1. lock the (user, item) key
//   2. existing line → number + 1, snapshot untouched
//   3. otherwise resolve name/image/price from the catalog and insert number = 1
//   4. an insert that hits the unique index means another add won the race
//      (its lock outlived the TTL); fall back to step 2

func (s *shoppingCartService) Add(ctx context.Context, userID int64, req dto.ShoppingCartRequest) error {
	key, err := cartKey(userID, req)
	if err != nil {
		return err
	}

	unlock, err := s.locker.Lock(ctx, lockName(key))
	if err != nil {
		return fmt.Errorf("cart busy: %w", err)
	}
	defer unlock()

	merged, err := s.incrementExisting(ctx, key)
	if err != nil || merged {
		return err
	}

	item, err := s.resolve(ctx, key)
	if err != nil {
		return err
	}
	line := &model.ShoppingCart{
		Name:       item.Name,
		Image:      item.Image,
		UserID:     key.UserID,
		DishID:     key.DishID,
		SetmealID:  key.SetmealID,
		DishFlavor: key.DishFlavor,
		Number:     1,
		Amount:     item.Price,
		CreateTime: s.now(),
	}
	err = s.repo.Create(ctx, line)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		log.Warn().Int64("user_id", userID).Str("item", lockName(key)).Msg("cart line inserted concurrently, merging")
		merged, err = s.incrementExisting(ctx, key)
		if err == nil && !merged {
			err = fmt.Errorf("cart line %s vanished after duplicate insert", lockName(key))
		}
		return err
	}
	if err != nil {
		return err
	}
	log.Debug().Int64("user_id", userID).Str("item", lockName(key)).Msg("cart line created")
	return nil
}

// incrementExisting bumps the matching line by one. It reports false when the
// user has no such line yet.
func (s *shoppingCartService) incrementExisting(ctx context.Context, key model.CartKey) (bool, error) {
	merged := false
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		line, err := s.repo.FindByKeyTx(tx, key)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		merged = true
		return s.repo.UpdateNumberTx(tx, line.ID, 1)
	})
	return merged, err
}

func (s *shoppingCartService) resolve(ctx context.Context, key model.CartKey) (*dto.CatalogItem, error) {
	if key.DishID != nil {
		return s.catalog.Dish(ctx, *key.DishID)
	}
	return s.catalog.Setmeal(ctx, *key.SetmealID)
}

// ── Sub ───────────────────────────────────────────────────────────────────────
// Removing an item that is not in the cart is a silent no-op. A line at
// number 1 is deleted by its own id; the rest of the cart is untouched.

func (s *shoppingCartService) Sub(ctx context.Context, userID int64, req dto.ShoppingCartRequest) error {
	key, err := cartKey(userID, req)
	if err != nil {
		return err
	}

	unlock, err := s.locker.Lock(ctx, lockName(key))
	if err != nil {
		return fmt.Errorf("cart busy: %w", err)
	}
	defer unlock()

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		line, err := s.repo.FindByKeyTx(tx, key)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if line.Number > 1 {
			return s.repo.UpdateNumberTx(tx, line.ID, -1)
		}
		return s.repo.DeleteByIDTx(tx, line.ID)
	})
}

func (s *shoppingCartService) List(ctx context.Context, userID int64) ([]dto.ShoppingCartResponse, error) {
	lines, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ShoppingCartResponse, 0, len(lines))
	for _, l := range lines {
		result = append(result, mapShoppingCart(l))
	}
	return result, nil
}

func (s *shoppingCartService) Clean(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return invalid("missing user")
	}
	return s.repo.DeleteByUserID(ctx, userID)
}

func mapShoppingCart(l model.ShoppingCart) dto.ShoppingCartResponse {
	return dto.ShoppingCartResponse{
		ID:         l.ID,
		Name:       l.Name,
		Image:      l.Image,
		DishID:     l.DishID,
		SetmealID:  l.SetmealID,
		DishFlavor: l.DishFlavor,
		Number:     l.Number,
		Amount:     l.Amount,
		CreateTime: l.CreateTime,
	}
}
