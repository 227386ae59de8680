package repository

import (
	"context"

	"skyorder/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShoppingCartRepository is the cart line store.
type ShoppingCartRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.ShoppingCart, error)
	Create(ctx context.Context, line *model.ShoppingCart) error
	DeleteByUserID(ctx context.Context, userID int64) error

	// Used inside transactions; callers must pass the tx instance
	FindByKeyTx(tx *gorm.DB, key model.CartKey) (*model.ShoppingCart, error)
	UpdateNumberTx(tx *gorm.DB, id int64, delta int) error
	DeleteByIDTx(tx *gorm.DB, id int64) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type shoppingCartRepo struct{ db *gorm.DB }

func NewShoppingCartRepository(db *gorm.DB) ShoppingCartRepository {
	return &shoppingCartRepo{db: db}
}

func (r *shoppingCartRepo) ListByUserID(ctx context.Context, userID int64) ([]model.ShoppingCart, error) {
	var lines []model.ShoppingCart
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("create_time ASC, id ASC").
		Find(&lines).Error
	return lines, err
}

func (r *shoppingCartRepo) Create(ctx context.Context, line *model.ShoppingCart) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *shoppingCartRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.ShoppingCart{}).Error
}

// FindByKeyTx locks and returns the line with exactly this identity.
// Returns gorm.ErrRecordNotFound when the user has no such line.
func (r *shoppingCartRepo) FindByKeyTx(tx *gorm.DB, key model.CartKey) (*model.ShoppingCart, error) {
	q := conn(r.db, tx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", key.UserID)
	q = whereNullable(q, "dish_id", key.DishID)
	q = whereNullable(q, "setmeal_id", key.SetmealID)
	q = whereNullable(q, "dish_flavor", key.DishFlavor)

	var line model.ShoppingCart
	if err := q.Order("id ASC").First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// UpdateNumberTx applies delta in SQL so concurrent writers never overwrite each other.
func (r *shoppingCartRepo) UpdateNumberTx(tx *gorm.DB, id int64, delta int) error {
	return conn(r.db, tx).Model(&model.ShoppingCart{}).Where("id = ?", id).
		Update("number", gorm.Expr("number + ?", delta)).Error
}

func (r *shoppingCartRepo) DeleteByIDTx(tx *gorm.DB, id int64) error {
	return conn(r.db, tx).Where("id = ?", id).Delete(&model.ShoppingCart{}).Error
}

func (r *shoppingCartRepo) DB() *gorm.DB { return r.db }
