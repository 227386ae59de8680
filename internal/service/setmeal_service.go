package service

import (
	"context"
	"errors"
	"fmt"

	"skyorder/internal/autofill"
	"skyorder/internal/dto"
	"skyorder/internal/model"
	"skyorder/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SetmealService manages setmeals together with their dish composition.
// Every write that touches both tables runs in one transaction.
type SetmealService interface {
	SaveWithDish(ctx context.Context, userID int64, req dto.SetmealRequest) (*dto.SetmealResponse, error)
	UpdateWithDish(ctx context.Context, userID, id int64, req dto.SetmealRequest) (*dto.SetmealResponse, error)
	DeleteBatch(ctx context.Context, ids []int64) error
	GetByIDWithDish(ctx context.Context, id int64) (*dto.SetmealResponse, error)
	PageQuery(ctx context.Context, filter dto.SetmealFilter) (*dto.SetmealListResponse, error)
	StartOrStop(ctx context.Context, userID, id int64, status int) error
}

type setmealService struct {
	repo        repository.SetmealRepository
	setmealDish repository.SetmealDishRepository
	dishes      repository.DishRepository
	catalog     CatalogService
	now         Clock
}

func NewSetmealService(
	repo repository.SetmealRepository,
	setmealDish repository.SetmealDishRepository,
	dishes repository.DishRepository,
	catalog CatalogService,
	now Clock,
) SetmealService {
	return &setmealService{
		repo:        repo,
		setmealDish: setmealDish,
		dishes:      dishes,
		catalog:     catalog,
		now:         clockOrNow(now),
	}
}

// checkComposition validates the requested items and returns their dish ids.
func checkComposition(items []dto.SetmealDishRequest) ([]int64, error) {
	ids := make([]int64, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, it := range items {
		if it.DishID <= 0 || it.Copies < 1 {
			return nil, invalid("setmeal dish needs a dish_id and copies >= 1")
		}
		if seen[it.DishID] {
			return nil, invalid("dish %d listed twice", it.DishID)
		}
		seen[it.DishID] = true
		ids = append(ids, it.DishID)
	}
	return ids, nil
}

// buildCompositionTx locks the referenced dishes and snapshots their name and
// price. The returned entries carry no setmeal id yet.
func (s *setmealService) buildCompositionTx(tx *gorm.DB, items []dto.SetmealDishRequest, dishIDs []int64) ([]model.SetmealDish, []model.Dish, error) {
	dishes, err := s.dishes.FindByIDsTx(tx, dishIDs)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[int64]model.Dish, len(dishes))
	for _, d := range dishes {
		byID[d.ID] = d
	}

	entries := make([]model.SetmealDish, 0, len(items))
	for _, it := range items {
		d, ok := byID[it.DishID]
		if !ok {
			return nil, nil, notFound("dish", it.DishID)
		}
		entries = append(entries, model.SetmealDish{
			DishID: d.ID,
			Name:   d.Name,
			Price:  d.Price,
			Copies: it.Copies,
		})
	}
	return entries, dishes, nil
}

func stampSetmealID(entries []model.SetmealDish, setmealID int64) {
	for i := range entries {
		entries[i].SetmealID = setmealID
	}
}

func requireSellable(dishes []model.Dish) error {
	for _, d := range dishes {
		if d.Status != model.StatusEnabled {
			return fmt.Errorf("%w: dish %d (%s)", ErrSetmealEnableFailed, d.ID, d.Name)
		}
	}
	return nil
}

func validateSetmeal(req dto.SetmealRequest) error {
	if req.Name == "" {
		return invalid("name is required")
	}
	if req.Price.IsNegative() {
		return invalid("price must not be negative")
	}
	if req.Status != nil && *req.Status != model.StatusEnabled && *req.Status != model.StatusDisabled {
		return invalid("unknown status %d", *req.Status)
	}
	return nil
}

// ── SaveWithDish ──────────────────────────────────────────────────────────────

func (s *setmealService) SaveWithDish(ctx context.Context, userID int64, req dto.SetmealRequest) (*dto.SetmealResponse, error) {
	if err := validateSetmeal(req); err != nil {
		return nil, err
	}
	dishIDs, err := checkComposition(req.SetmealDishes)
	if err != nil {
		return nil, err
	}

	setmeal := &model.Setmeal{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Price:       req.Price,
		Status:      model.StatusDisabled,
		Description: req.Description,
		Image:       req.Image,
	}
	if req.Status != nil {
		setmeal.Status = *req.Status
	}
	autofill.Apply(setmeal, autofill.Insert, userID, s.now())

	var entries []model.SetmealDish
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var dishes []model.Dish
		var err error
		entries, dishes, err = s.buildCompositionTx(tx, req.SetmealDishes, dishIDs)
		if err != nil {
			return err
		}
		if setmeal.Status == model.StatusEnabled {
			if err := requireSellable(dishes); err != nil {
				return err
			}
		}
		if err := s.repo.CreateTx(tx, setmeal); err != nil {
			return err
		}
		stampSetmealID(entries, setmeal.ID)
		return s.setmealDish.BatchCreateTx(tx, entries)
	})
	if err != nil {
		return nil, wrapStore(err, "saving setmeal")
	}

	log.Info().Int64("setmeal_id", setmeal.ID).Int("dishes", len(entries)).Msg("setmeal created")
	return mapSetmeal(*setmeal, entries), nil
}

// ── UpdateWithDish ────────────────────────────────────────────────────────────
// Full replace: the old composition is deleted and the new one inserted.
// The setmeal row stays locked from the first read to the last insert.

func (s *setmealService) UpdateWithDish(ctx context.Context, userID, id int64, req dto.SetmealRequest) (*dto.SetmealResponse, error) {
	if err := validateSetmeal(req); err != nil {
		return nil, err
	}
	dishIDs, err := checkComposition(req.SetmealDishes)
	if err != nil {
		return nil, err
	}

	var setmeal *model.Setmeal
	var entries []model.SetmealDish
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		if setmeal, err = s.lockSetmealTx(tx, id); err != nil {
			return err
		}
		var dishes []model.Dish
		if entries, dishes, err = s.buildCompositionTx(tx, req.SetmealDishes, dishIDs); err != nil {
			return err
		}

		setmeal.CategoryID = req.CategoryID
		setmeal.Name = req.Name
		setmeal.Price = req.Price
		setmeal.Description = req.Description
		setmeal.Image = req.Image
		if req.Status != nil {
			setmeal.Status = *req.Status
		}
		if setmeal.Status == model.StatusEnabled {
			if err := requireSellable(dishes); err != nil {
				return err
			}
		}
		autofill.Apply(setmeal, autofill.Update, userID, s.now())

		if err := s.repo.UpdateTx(tx, setmeal); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("setmeal", id)
			}
			return err
		}
		if err := s.setmealDish.DeleteBySetmealIDTx(tx, id); err != nil {
			return err
		}
		stampSetmealID(entries, id)
		return s.setmealDish.BatchCreateTx(tx, entries)
	})
	if err != nil {
		return nil, wrapStore(err, "updating setmeal %d", id)
	}

	s.catalog.Evict(ctx, KindSetmeal, id)
	log.Info().Int64("setmeal_id", id).Int("dishes", len(entries)).Msg("setmeal updated")
	return mapSetmeal(*setmeal, entries), nil
}

// ── DeleteBatch ───────────────────────────────────────────────────────────────
// The whole batch is locked and checked first; a single enabled setmeal
// rejects all of it. Composition rows and setmeals go in the same transaction.

func (s *setmealService) DeleteBatch(ctx context.Context, ids []int64) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return invalid("no setmeal ids given")
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		locked, err := s.repo.FindByIDsTx(tx, ids)
		if err != nil {
			return err
		}
		byID := make(map[int64]model.Setmeal, len(locked))
		for _, sm := range locked {
			byID[sm.ID] = sm
		}
		for _, id := range ids {
			sm, ok := byID[id]
			if !ok {
				return notFound("setmeal", id)
			}
			if sm.Status == model.StatusEnabled {
				return &DeletionNotAllowedError{Kind: "setmeal", ID: id, Reason: "setmeal is on sale"}
			}
		}

		for _, id := range ids {
			if err := s.setmealDish.DeleteBySetmealIDTx(tx, id); err != nil {
				return err
			}
			if err := s.repo.DeleteByIDTx(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrapStore(err, "deleting setmeals")
	}

	s.catalog.Evict(ctx, KindSetmeal, ids...)
	log.Info().Ints64("setmeal_ids", ids).Msg("setmeals deleted")
	return nil
}

func (s *setmealService) GetByIDWithDish(ctx context.Context, id int64) (*dto.SetmealResponse, error) {
	setmeal, err := s.findSetmeal(ctx, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.setmealDish.FindBySetmealID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapSetmeal(*setmeal, entries), nil
}

func (s *setmealService) PageQuery(ctx context.Context, filter dto.SetmealFilter) (*dto.SetmealListResponse, error) {
	normalizePage(&filter.Page, &filter.Limit)
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SetmealResponse, 0, len(list))
	for _, sm := range list {
		data = append(data, *mapSetmeal(sm, nil))
	}
	return &dto.SetmealListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// StartOrStop toggles sale status. Enabling requires every composed dish on sale.
func (s *setmealService) StartOrStop(ctx context.Context, userID, id int64, status int) error {
	if status != model.StatusEnabled && status != model.StatusDisabled {
		return invalid("unknown status %d", status)
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		setmeal, err := s.lockSetmealTx(tx, id)
		if err != nil {
			return err
		}
		if status == model.StatusEnabled {
			if err := s.requireComposedDishesOnSaleTx(tx, id); err != nil {
				return err
			}
		}

		setmeal.Status = status
		autofill.Apply(setmeal, autofill.Update, userID, s.now())
		if err := s.repo.UpdateStatusTx(tx, setmeal); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("setmeal", id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return wrapStore(err, "changing status of setmeal %d", id)
	}
	s.catalog.Evict(ctx, KindSetmeal, id)
	return nil
}

func (s *setmealService) requireComposedDishesOnSaleTx(tx *gorm.DB, id int64) error {
	entries, err := s.setmealDish.FindBySetmealIDTx(tx, id)
	if err != nil {
		return err
	}
	dishIDs := make([]int64, 0, len(entries))
	for _, e := range entries {
		dishIDs = append(dishIDs, e.DishID)
	}
	dishes, err := s.dishes.FindByIDsTx(tx, dishIDs)
	if err != nil {
		return err
	}
	if len(dishes) != len(dishIDs) {
		return fmt.Errorf("%w: a composed dish no longer exists", ErrSetmealEnableFailed)
	}
	return requireSellable(dishes)
}

// lockSetmealTx reads the setmeal FOR UPDATE.
func (s *setmealService) lockSetmealTx(tx *gorm.DB, id int64) (*model.Setmeal, error) {
	list, err := s.repo.FindByIDsTx(tx, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, notFound("setmeal", id)
	}
	return &list[0], nil
}

func (s *setmealService) findSetmeal(ctx context.Context, id int64) (*model.Setmeal, error) {
	setmeal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("setmeal", id)
		}
		return nil, err
	}
	return setmeal, nil
}

func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func mapSetmeal(sm model.Setmeal, entries []model.SetmealDish) *dto.SetmealResponse {
	resp := &dto.SetmealResponse{
		ID:          sm.ID,
		CategoryID:  sm.CategoryID,
		Name:        sm.Name,
		Price:       sm.Price,
		Status:      sm.Status,
		Description: sm.Description,
		Image:       sm.Image,
		UpdateTime:  sm.UpdateTime,
	}
	for _, e := range entries {
		resp.SetmealDishes = append(resp.SetmealDishes, dto.SetmealDishResponse{
			ID:        e.ID,
			SetmealID: e.SetmealID,
			DishID:    e.DishID,
			Name:      e.Name,
			Price:     e.Price,
			Copies:    e.Copies,
		})
	}
	return resp
}
