package db

import (
	"fmt"

	"gorm.io/gorm"

	"zapmanager/internal/model"
)

// Tables lists every persisted model in migration order.
var Tables = []interface{}{
	&model.User{},
	&model.Instance{},
	&model.LLMConfig{},
	&model.AuditLog{},
}

// Migrate creates or updates the schema for all tables.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(Tables...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table. Missing tables are ignored.
func Reset(gormDB *gorm.DB) error {
	for i := len(Tables) - 1; i >= 0; i-- {
		if err := gormDB.Migrator().DropTable(Tables[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
