package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meinhoongagan/bizmatch/models"
	"gorm.io/gorm"
)

// PasswordHasher turns a plain password into its stored form.
type PasswordHasher func(plain string) (string, error)

const SeedPassword = "password123"

var seedUsers = []models.User{
	{Name: "Acme Components", Email: "acme@example.com", Role: models.RoleCompany,
		Description: "Precision parts for industrial machinery", Website: "https://acme.example.com"},
	{Name: "Borealis Logistics", Email: "borealis@example.com", Role: models.RoleCompany,
		Description: "Cold-chain freight across the Nordics", Website: "https://borealis.example.com"},
	{Name: "Cobalt Retail", Email: "cobalt@example.com", Role: models.RoleBuyer,
		Description: "Regional hardware store chain"},
	{Name: "Delta Foods", Email: "delta@example.com", Role: models.RoleBuyer,
		Description: "Wholesale grocery distributor"},
}

// SeedEvent is the event created by Seed, spanning today and tomorrow.
func SeedEvent(now time.Time) models.Event {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return models.Event{
		Name:               "B2B Matchmaking Day",
		StartDate:          today,
		EndDate:            today.AddDate(0, 0, 1),
		Venue:              "Main Exhibition Hall",
		HeaderText:         "Meet the right partners in 30 minutes",
		MeetingDuration:    30,
		OperationStartTime: "09:00",
		OperationEndTime:   "17:00",
		LunchStartTime:     "12:00",
		LunchEndTime:       "13:00",
		Status:             models.EventActive,
	}
}

// ResetData wipes meetings, slots, notifications, events and every non-admin
// user, then seeds the demo data. Everything runs in one transaction. The ids
// of removed users are returned so their sessions can be revoked.
func ResetData(ctx context.Context, gdb *gorm.DB, hash PasswordHasher, now time.Time) ([]uint, error) {
	var removed []uint
	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("role <> ?", models.RoleAdmin).Pluck("id", &removed).Error; err != nil {
			return err
		}

		for _, table := range []any{&models.Meeting{}, &models.TimeSlot{}, &models.Notification{}, &models.Event{}} {
			if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("role <> ?", models.RoleAdmin).Delete(&models.User{}).Error; err != nil {
			return err
		}

		return seed(tx, hash, now)
	})
	if err != nil {
		return nil, fmt.Errorf("reset data: %w", err)
	}
	return removed, nil
}

// Seed inserts the demo data unless an event already exists.
func Seed(ctx context.Context, gdb *gorm.DB, hash PasswordHasher, now time.Time) (bool, error) {
	seeded := false
	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var events int64
		if err := tx.Model(&models.Event{}).Count(&events).Error; err != nil {
			return err
		}
		if events > 0 {
			return nil
		}
		seeded = true
		return seed(tx, hash, now)
	})
	return seeded, err
}

func seed(tx *gorm.DB, hash PasswordHasher, now time.Time) error {
	password, err := hash(SeedPassword)
	if err != nil {
		return err
	}

	users := make([]models.User, len(seedUsers))
	copy(users, seedUsers)
	for i := range users {
		users[i].Password = password
	}
	if err := tx.Create(&users).Error; err != nil {
		return err
	}

	event := SeedEvent(now)
	return tx.Create(&event).Error
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func EnsureAdmin(ctx context.Context, gdb *gorm.DB, email, password string, hash PasswordHasher) (bool, error) {
	var existing models.User
	err := gdb.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hashed, err := hash(password)
	if err != nil {
		return false, err
	}
	admin := models.User{Name: "Administrator", Email: email, Password: hashed, Role: models.RoleAdmin}
	if err := gdb.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, err
	}
	return true, nil
}
