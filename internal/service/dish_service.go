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

// DishService defines business operations for standalone dishes.
type DishService interface {
	Save(ctx context.Context, userID int64, req dto.DishRequest) (*dto.DishResponse, error)
	Update(ctx context.Context, userID, id int64, req dto.DishRequest) (*dto.DishResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.DishResponse, error)
	List(ctx context.Context, filter dto.DishFilter) (*dto.DishListResponse, error)
	StartOrStop(ctx context.Context, userID, id int64, status int) error
	DeleteBatch(ctx context.Context, ids []int64) error
}

type dishService struct {
	repo        repository.DishRepository
	setmealDish repository.SetmealDishRepository
	catalog     CatalogService
	now         Clock
}

func NewDishService(repo repository.DishRepository, setmealDish repository.SetmealDishRepository, catalog CatalogService, now Clock) DishService {
	return &dishService{repo: repo, setmealDish: setmealDish, catalog: catalog, now: clockOrNow(now)}
}

func mapDish(d model.Dish) dto.DishResponse {
	return dto.DishResponse{
		ID:          d.ID,
		CategoryID:  d.CategoryID,
		Name:        d.Name,
		Price:       d.Price,
		Image:       d.Image,
		Description: d.Description,
		Status:      d.Status,
		UpdateTime:  d.UpdateTime,
	}
}

func (s *dishService) Save(ctx context.Context, userID int64, req dto.DishRequest) (*dto.DishResponse, error) {
	if req.Name == "" || req.Price.IsNegative() {
		return nil, invalid("dish needs a name and a non-negative price")
	}
	d := &model.Dish{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Price:       req.Price,
		Image:       req.Image,
		Description: req.Description,
		Status:      model.StatusEnabled,
	}
	if req.Status != nil {
		d.Status = *req.Status
	}
	autofill.Apply(d, autofill.Insert, userID, s.now())
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	resp := mapDish(*d)
	return &resp, nil
}

func (s *dishService) Update(ctx context.Context, userID, id int64, req dto.DishRequest) (*dto.DishResponse, error) {
	if req.Name == "" || req.Price.IsNegative() {
		return nil, invalid("dish needs a name and a non-negative price")
	}
	d, err := s.findDish(ctx, id)
	if err != nil {
		return nil, err
	}
	d.CategoryID = req.CategoryID
	d.Name = req.Name
	d.Price = req.Price
	d.Image = req.Image
	d.Description = req.Description
	if req.Status != nil {
		d.Status = *req.Status
	}
	autofill.Apply(d, autofill.Update, userID, s.now())
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, dishWriteErr(err, id)
	}
	s.catalog.Evict(ctx, KindDish, id)
	resp := mapDish(*d)
	return &resp, nil
}

func (s *dishService) GetByID(ctx context.Context, id int64) (*dto.DishResponse, error) {
	d, err := s.findDish(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapDish(*d)
	return &resp, nil
}

func (s *dishService) List(ctx context.Context, filter dto.DishFilter) (*dto.DishListResponse, error) {
	normalizePage(&filter.Page, &filter.Limit)
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.DishResponse, 0, len(list))
	for _, d := range list {
		data = append(data, mapDish(d))
	}
	return &dto.DishListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *dishService) StartOrStop(ctx context.Context, userID, id int64, status int) error {
	if status != model.StatusEnabled && status != model.StatusDisabled {
		return invalid("unknown status %d", status)
	}
	d, err := s.findDish(ctx, id)
	if err != nil {
		return err
	}
	d.Status = status
	autofill.Apply(d, autofill.Update, userID, s.now())
	if err := s.repo.UpdateStatus(ctx, d); err != nil {
		return dishWriteErr(err, id)
	}
	s.catalog.Evict(ctx, KindDish, id)
	return nil
}

// DeleteBatch refuses the whole batch if any dish is on sale or still part of a
// setmeal. The dishes stay locked from the check to the delete.
func (s *dishService) DeleteBatch(ctx context.Context, ids []int64) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return invalid("no dish ids given")
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		locked, err := s.repo.FindByIDsTx(tx, ids)
		if err != nil {
			return err
		}
		byID := make(map[int64]model.Dish, len(locked))
		for _, d := range locked {
			byID[d.ID] = d
		}
		for _, id := range ids {
			d, ok := byID[id]
			if !ok {
				return notFound("dish", id)
			}
			if d.Status == model.StatusEnabled {
				return &DeletionNotAllowedError{Kind: "dish", ID: id, Reason: "dish is on sale"}
			}
		}

		for _, id := range ids {
			setmealIDs, err := s.setmealDish.FindSetmealIDsByDishIDsTx(tx, []int64{id})
			if err != nil {
				return err
			}
			if len(setmealIDs) > 0 {
				return &DeletionNotAllowedError{
					Kind:   "dish",
					ID:     id,
					Reason: fmt.Sprintf("dish is part of setmeal %d", setmealIDs[0]),
				}
			}
		}
		return s.repo.DeleteByIDsTx(tx, ids)
	})
	if err != nil {
		return wrapStore(err, "deleting dishes")
	}
	s.catalog.Evict(ctx, KindDish, ids...)
	log.Info().Ints64("dish_ids", ids).Msg("dishes deleted")
	return nil
}

func (s *dishService) findDish(ctx context.Context, id int64) (*model.Dish, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("dish", id)
		}
		return nil, err
	}
	return d, nil
}

// dishWriteErr covers a dish deleted between the read and the write.
func dishWriteErr(err error, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("dish", id)
	}
	return err
}
