package model

import "time"

// Audit holds the bookkeeping columns shared by catalog tables.
type Audit struct {
	CreateTime time.Time
	UpdateTime time.Time
	CreateUser int64
	UpdateUser int64
}

func (a *Audit) SetCreateTime(t time.Time) { a.CreateTime = t }
func (a *Audit) SetUpdateTime(t time.Time) { a.UpdateTime = t }
func (a *Audit) SetCreateUser(id int64)    { a.CreateUser = id }
func (a *Audit) SetUpdateUser(id int64)    { a.UpdateUser = id }

// All lists every persisted model, in dependency order, for migrations.
func All() []interface{} {
	return []interface{}{
		&Category{},
		&Dish{},
		&Setmeal{},
		&SetmealDish{},
		&ShoppingCart{},
	}
}
