package repository

import (
	"context"

	"skyorder/internal/model"

	"gorm.io/gorm"
)

// SetmealDishRepository stores the setmeal → dish composition.
type SetmealDishRepository interface {
	FindBySetmealID(ctx context.Context, setmealID int64) ([]model.SetmealDish, error)
	FindBySetmealIDTx(tx *gorm.DB, setmealID int64) ([]model.SetmealDish, error)

	// FindSetmealIDsByDishIDsTx is the reverse lookup: which setmeals use any of these dishes.
	FindSetmealIDsByDishIDsTx(tx *gorm.DB, dishIDs []int64) ([]int64, error)
	BatchCreateTx(tx *gorm.DB, entries []model.SetmealDish) error
	DeleteBySetmealIDTx(tx *gorm.DB, setmealID int64) error
}

type setmealDishRepo struct{ db *gorm.DB }

func NewSetmealDishRepository(db *gorm.DB) SetmealDishRepository {
	return &setmealDishRepo{db: db}
}

func (r *setmealDishRepo) FindBySetmealID(ctx context.Context, setmealID int64) ([]model.SetmealDish, error) {
	var entries []model.SetmealDish
	err := r.db.WithContext(ctx).Where("setmeal_id = ?", setmealID).Order("id ASC").Find(&entries).Error
	return entries, err
}

func (r *setmealDishRepo) FindBySetmealIDTx(tx *gorm.DB, setmealID int64) ([]model.SetmealDish, error) {
	var entries []model.SetmealDish
	err := conn(r.db, tx).Where("setmeal_id = ?", setmealID).Order("id ASC").Find(&entries).Error
	return entries, err
}

func (r *setmealDishRepo) FindSetmealIDsByDishIDsTx(tx *gorm.DB, dishIDs []int64) ([]int64, error) {
	var ids []int64
	if len(dishIDs) == 0 {
		return ids, nil
	}
	err := conn(r.db, tx).Model(&model.SetmealDish{}).
		Where("dish_id IN ?", dishIDs).
		Distinct().
		Pluck("setmeal_id", &ids).Error
	return ids, err
}

func (r *setmealDishRepo) BatchCreateTx(tx *gorm.DB, entries []model.SetmealDish) error {
	if len(entries) == 0 {
		return nil
	}
	return conn(r.db, tx).Create(&entries).Error
}

func (r *setmealDishRepo) DeleteBySetmealIDTx(tx *gorm.DB, setmealID int64) error {
	return conn(r.db, tx).Where("setmeal_id = ?", setmealID).Delete(&model.SetmealDish{}).Error
}
