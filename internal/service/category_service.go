package service

import (
	"context"
	"errors"

	"skyorder/internal/autofill"
	"skyorder/internal/dto"
	"skyorder/internal/model"
	"skyorder/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CategoryService defines business operations for menu categories.
type CategoryService interface {
	Create(ctx context.Context, userID int64, req dto.CreateCategoryRequest) (dto.CategoryResponse, error)
	List(ctx context.Context, typ *int) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, userID, id int64, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error)
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	repo repository.CategoryRepository
	now  Clock
}

func NewCategoryService(repo repository.CategoryRepository, now Clock) CategoryService {
	return &categoryService{repo: repo, now: clockOrNow(now)}
}

func mapCategory(c model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:         c.ID,
		Type:       c.Type,
		Name:       c.Name,
		Sort:       c.Sort,
		Status:     c.Status,
		UpdateTime: c.UpdateTime,
	}
}

// ensureNameFree rejects a name already used by another category.
func (s *categoryService) ensureNameFree(ctx context.Context, name string, self int64) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != self {
		return invalid("category %q already exists", name)
	}
	return nil
}

func (s *categoryService) Create(ctx context.Context, userID int64, req dto.CreateCategoryRequest) (dto.CategoryResponse, error) {
	if req.Type != model.CategoryTypeDish && req.Type != model.CategoryTypeSetmeal {
		return dto.CategoryResponse{}, invalid("unknown category type %d", req.Type)
	}
	if err := s.ensureNameFree(ctx, req.Name, 0); err != nil {
		return dto.CategoryResponse{}, err
	}

	c := &model.Category{
		Type:   req.Type,
		Name:   req.Name,
		Sort:   req.Sort,
		Status: model.StatusEnabled,
	}
	autofill.Apply(c, autofill.Insert, userID, s.now())
	if err := s.repo.Create(ctx, c); err != nil {
		return dto.CategoryResponse{}, err
	}
	return mapCategory(*c), nil
}

func (s *categoryService) List(ctx context.Context, typ *int) ([]dto.CategoryResponse, error) {
	list, err := s.repo.List(ctx, typ)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategory(c))
	}
	return result, nil
}

func (s *categoryService) Update(ctx context.Context, userID, id int64, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error) {
	c, err := s.findCategory(ctx, id)
	if err != nil {
		return dto.CategoryResponse{}, err
	}

	if req.Name != nil && *req.Name != c.Name {
		if err := s.ensureNameFree(ctx, *req.Name, id); err != nil {
			return dto.CategoryResponse{}, err
		}
		c.Name = *req.Name
	}
	if req.Sort != nil {
		c.Sort = *req.Sort
	}
	if req.Status != nil {
		c.Status = *req.Status
	}
	autofill.Apply(c, autofill.Update, userID, s.now())

	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CategoryResponse{}, err
	}
	return mapCategory(*c), nil
}

// Delete refuses while any dish or setmeal is still filed under the category.
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.findCategory(ctx, id); err != nil {
		return err
	}
	dishes, err := s.repo.CountDishes(ctx, id)
	if err != nil {
		return err
	}
	if dishes > 0 {
		return &DeletionNotAllowedError{Kind: "category", ID: id, Reason: "category still has dishes"}
	}
	setmeals, err := s.repo.CountSetmeals(ctx, id)
	if err != nil {
		return err
	}
	if setmeals > 0 {
		return &DeletionNotAllowedError{Kind: "category", ID: id, Reason: "category still has setmeals"}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}

func (s *categoryService) findCategory(ctx context.Context, id int64) (*model.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("category", id)
		}
		return nil, err
	}
	return c, nil
}
