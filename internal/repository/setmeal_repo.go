package repository

import (
	"context"

	"skyorder/internal/dto"
	"skyorder/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetmealRepository defines the data access contract for setmeals.
type SetmealRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Setmeal, error)
	List(ctx context.Context, filter dto.SetmealFilter) ([]model.Setmeal, int64, error)

	// Used inside transactions; callers must pass the tx instance
	FindByIDsTx(tx *gorm.DB, ids []int64) ([]model.Setmeal, error)
	CreateTx(tx *gorm.DB, s *model.Setmeal) error
	UpdateTx(tx *gorm.DB, s *model.Setmeal) error
	UpdateStatusTx(tx *gorm.DB, s *model.Setmeal) error
	DeleteByIDTx(tx *gorm.DB, id int64) error

	DB() *gorm.DB
}

type setmealRepo struct{ db *gorm.DB }

func NewSetmealRepository(db *gorm.DB) SetmealRepository { return &setmealRepo{db: db} }

func (r *setmealRepo) FindByID(ctx context.Context, id int64) (*model.Setmeal, error) {
	var s model.Setmeal
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByIDsTx locks the rows FOR UPDATE in id order; missing ids are simply absent.
func (r *setmealRepo) FindByIDsTx(tx *gorm.DB, ids []int64) ([]model.Setmeal, error) {
	var list []model.Setmeal
	if len(ids) == 0 {
		return list, nil
	}
	err := conn(r.db, tx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *setmealRepo) List(ctx context.Context, filter dto.SetmealFilter) ([]model.Setmeal, int64, error) {
	var list []model.Setmeal
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Setmeal{})
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

func (r *setmealRepo) CreateTx(tx *gorm.DB, s *model.Setmeal) error {
	return conn(r.db, tx).Create(s).Error
}

// UpdateTx writes the mutable columns only; create_time/create_user are left alone.
// Returns gorm.ErrRecordNotFound when the row is gone.
func (r *setmealRepo) UpdateTx(tx *gorm.DB, s *model.Setmeal) error {
	return updatedOne(conn(r.db, tx).Model(&model.Setmeal{}).Where("id = ?", s.ID).Updates(map[string]interface{}{
		"category_id": s.CategoryID,
		"name":        s.Name,
		"price":       s.Price,
		"status":      s.Status,
		"description": s.Description,
		"image":       s.Image,
		"update_time": s.UpdateTime,
		"update_user": s.UpdateUser,
	}))
}

func (r *setmealRepo) UpdateStatusTx(tx *gorm.DB, s *model.Setmeal) error {
	return updatedOne(conn(r.db, tx).Model(&model.Setmeal{}).Where("id = ?", s.ID).Updates(map[string]interface{}{
		"status":      s.Status,
		"update_time": s.UpdateTime,
		"update_user": s.UpdateUser,
	}))
}

func (r *setmealRepo) DeleteByIDTx(tx *gorm.DB, id int64) error {
	return conn(r.db, tx).Where("id = ?", id).Delete(&model.Setmeal{}).Error
}

func (r *setmealRepo) DB() *gorm.DB { return r.db }
