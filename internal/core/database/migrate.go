package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate 建表/补列；models 由调用方汇总（domain + feature）
func Migrate(db *gorm.DB, models ...any) error {
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}
