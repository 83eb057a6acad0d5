package db

import (
	"fmt"

	"github.com/meinhoongagan/bizmatch/models"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.TimeSlot{},
		&models.Meeting{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
