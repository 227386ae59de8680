package infra

import (
	"fmt"

	"skyorder/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and brings the schema
// up to date (AutoMigrate + the Postgres-only patches below).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate creates / updates the tables of every model. It is portable
// across dialects and is what the sqlite-backed tests use.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return nil
}

// RunMigrations applies AutoMigrate followed by the schema patches.
func RunMigrations(db *gorm.DB) error {
	if err := AutoMigrate(db); err != nil {
		return err
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that GORM tags cannot express:
// partial unique indexes, CHECK constraints and the composition foreign key.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// one line per (user, dish, flavour); NULL flavour folds to ''
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_shopping_cart_user_dish
		    ON shopping_cart (user_id, dish_id, COALESCE(dish_flavor, ''))
		    WHERE dish_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_shopping_cart_user_setmeal
		    ON shopping_cart (user_id, setmeal_id)
		    WHERE setmeal_id IS NOT NULL`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_shopping_cart_item_kind') THEN
		    ALTER TABLE shopping_cart
		      ADD CONSTRAINT chk_shopping_cart_item_kind
		      CHECK ((dish_id IS NULL) <> (setmeal_id IS NULL));
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_shopping_cart_number') THEN
		    ALTER TABLE shopping_cart ADD CONSTRAINT chk_shopping_cart_number CHECK (number > 0);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_setmeal_dish_copies') THEN
		    ALTER TABLE setmeal_dish ADD CONSTRAINT chk_setmeal_dish_copies CHECK (copies >= 1);
		  END IF;
		END $$`,
		// composition rows never outlive their setmeal
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_setmeal_dish_setmeal') THEN
		    ALTER TABLE setmeal_dish
		      ADD CONSTRAINT fk_setmeal_dish_setmeal
		      FOREIGN KEY (setmeal_id) REFERENCES setmeal (id);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
