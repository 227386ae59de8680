package repository

import (
	"context"

	"skyorder/internal/dto"
	"skyorder/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DishRepository defines the data access contract for dishes.
type DishRepository interface {
	Create(ctx context.Context, d *model.Dish) error
	Update(ctx context.Context, d *model.Dish) error
	FindByID(ctx context.Context, id int64) (*model.Dish, error)
	List(ctx context.Context, filter dto.DishFilter) ([]model.Dish, int64, error)
	UpdateStatus(ctx context.Context, d *model.Dish) error

	// Used inside transactions; callers must pass the tx instance
	FindByIDsTx(tx *gorm.DB, ids []int64) ([]model.Dish, error)
	DeleteByIDsTx(tx *gorm.DB, ids []int64) error

	DB() *gorm.DB
}

type dishRepo struct{ db *gorm.DB }

func NewDishRepository(db *gorm.DB) DishRepository { return &dishRepo{db: db} }

func (r *dishRepo) Create(ctx context.Context, d *model.Dish) error {
	return r.db.WithContext(ctx).Create(d).Error
}

// Update and UpdateStatus return gorm.ErrRecordNotFound when the row is gone.
func (r *dishRepo) Update(ctx context.Context, d *model.Dish) error {
	return updatedOne(r.db.WithContext(ctx).Model(&model.Dish{}).Where("id = ?", d.ID).Updates(map[string]interface{}{
		"category_id": d.CategoryID,
		"name":        d.Name,
		"price":       d.Price,
		"image":       d.Image,
		"description": d.Description,
		"status":      d.Status,
		"update_time": d.UpdateTime,
		"update_user": d.UpdateUser,
	}))
}

func (r *dishRepo) FindByID(ctx context.Context, id int64) (*model.Dish, error) {
	var d model.Dish
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// FindByIDsTx locks the rows FOR UPDATE in id order so that combo writes and
// dish deletes touching the same dishes queue behind each other.
func (r *dishRepo) FindByIDsTx(tx *gorm.DB, ids []int64) ([]model.Dish, error) {
	var list []model.Dish
	if len(ids) == 0 {
		return list, nil
	}
	err := conn(r.db, tx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *dishRepo) List(ctx context.Context, filter dto.DishFilter) ([]model.Dish, int64, error) {
	var list []model.Dish
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Dish{})
	if filter.Name != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Name+"%")
	}
	if filter.CategoryID > 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("update_time DESC, id DESC").
		Limit(filter.Limit).Offset(offset(filter.Page, filter.Limit)).
		Find(&list).Error
	return list, total, err
}

func (r *dishRepo) UpdateStatus(ctx context.Context, d *model.Dish) error {
	return updatedOne(r.db.WithContext(ctx).Model(&model.Dish{}).Where("id = ?", d.ID).Updates(map[string]interface{}{
		"status":      d.Status,
		"update_time": d.UpdateTime,
		"update_user": d.UpdateUser,
	}))
}

func (r *dishRepo) DeleteByIDsTx(tx *gorm.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return conn(r.db, tx).Where("id IN ?", ids).Delete(&model.Dish{}).Error
}

func (r *dishRepo) DB() *gorm.DB { return r.db }
