package repository

import (
	"context"

	"skyorder/internal/model"

	"gorm.io/gorm"
)

// CategoryRepository defines CRUD operations for Category.
type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	// List orders by sort then id; typ filters by category type when set.
	List(ctx context.Context, typ *int) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (*model.Category, error)
	FindByName(ctx context.Context, name string) (*model.Category, error)
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id int64) error

	// CountDishes and CountSetmeals report how many items still reference id.
	CountDishes(ctx context.Context, id int64) (int64, error)
	CountSetmeals(ctx context.Context, id int64) (int64, error)
}

type categoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepository) List(ctx context.Context, typ *int) ([]model.Category, error) {
	var list []model.Category
	q := r.db.WithContext(ctx)
	if typ != nil {
		q = q.Where("type = ?", *typ)
	}
	err := q.Order("sort ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"name":        c.Name,
		"sort":        c.Sort,
		"status":      c.Status,
		"update_time": c.UpdateTime,
		"update_user": c.UpdateUser,
	}).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Category{}).Error
}

func (r *categoryRepository) CountDishes(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Dish{}).Where("category_id = ?", id).Count(&n).Error
	return n, err
}

func (r *categoryRepository) CountSetmeals(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Setmeal{}).Where("category_id = ?", id).Count(&n).Error
	return n, err
}
