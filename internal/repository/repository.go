package repository

import "gorm.io/gorm"

// conn returns tx when the caller is inside a transaction, else the base handle.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// whereNullable adds "col = ?" for a set pointer and "col IS NULL" otherwise.
func whereNullable[T any](q *gorm.DB, col string, v *T) *gorm.DB {
	if v == nil {
		return q.Where(col + " IS NULL")
	}
	return q.Where(col+" = ?", *v)
}

// updatedOne turns an UPDATE that matched no row into gorm.ErrRecordNotFound.
func updatedOne(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
