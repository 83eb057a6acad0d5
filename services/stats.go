package services

import (
	"context"

	"github.com/meinhoongagan/bizmatch/models"
	"github.com/meinhoongagan/bizmatch/utils"
	"gorm.io/gorm"
)

type Stats struct {
	Users    map[models.Role]int64          `json:"users"`
	Slots    map[models.SlotStatus]int64    `json:"slots"`
	Meetings map[models.MeetingStatus]int64 `json:"meetings"`
}

type statusCount struct {
	Label string
	Total int64
}

func countBy(db *gorm.DB, model any, column string) ([]statusCount, error) {
	var rows []statusCount
	err := db.Model(model).Select(column + " AS label, COUNT(*) AS total").Group(column).Scan(&rows).Error
	return rows, err
}

// CollectStats summarises users, slots and meetings for the admin dashboard.
func CollectStats(ctx context.Context, db *gorm.DB) (*Stats, error) {
	tx := db.WithContext(ctx)
	stats := &Stats{
		Users:    map[models.Role]int64{},
		Slots:    map[models.SlotStatus]int64{},
		Meetings: map[models.MeetingStatus]int64{},
	}

	users, err := countBy(tx, &models.User{}, "role")
	if err != nil {
		return nil, utils.FromDB(err, "User")
	}
	for _, r := range users {
		stats.Users[models.Role(r.Label)] = r.Total
	}

	slots, err := countBy(tx, &models.TimeSlot{}, "status")
	if err != nil {
		return nil, utils.FromDB(err, "Time slot")
	}
	for _, r := range slots {
		stats.Slots[models.SlotStatus(r.Label)] = r.Total
	}

	meetings, err := countBy(tx, &models.Meeting{}, "status")
	if err != nil {
		return nil, utils.FromDB(err, "Meeting")
	}
	for _, r := range meetings {
		stats.Meetings[models.MeetingStatus(r.Label)] = r.Total
	}
	return stats, nil
}
