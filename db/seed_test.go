package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/meinhoongagan/bizmatch/db"
	"github.com/meinhoongagan/bizmatch/models"
	"github.com/meinhoongagan/bizmatch/testutil"
)

func TestResetDataKeepsAdmins(t *testing.T) {
	gdb := testutil.NewDB(t)
	ctx := context.Background()

	admin := testutil.CreateUser(t, gdb, "root", models.RoleAdmin)
	company := testutil.CreateUser(t, gdb, "oldco", models.RoleCompany)
	buyer := testutil.CreateUser(t, gdb, "oldbuyer", models.RoleBuyer)

	slot := models.TimeSlot{UserID: company.ID, StartTime: time.Now(), EndTime: time.Now().Add(30 * time.Minute), Status: models.SlotHeld}
	if err := gdb.Create(&slot).Error; err != nil {
		t.Fatal(err)
	}
	meeting := models.Meeting{CompanyID: company.ID, BuyerID: buyer.ID, TimeSlotID: slot.ID}
	if err := gdb.Create(&meeting).Error; err != nil {
		t.Fatal(err)
	}
	if err := gdb.Create(&models.Notification{UserID: company.ID, Type: models.NotificationMeetingRequest, Title: "x"}).Error; err != nil {
		t.Fatal(err)
	}

	now := time.Date(2026, 6, 1, 15, 0, 0, 0, time.UTC)
	removed, err := db.ResetData(ctx, gdb, testutil.Hash, now)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(removed) != 2 {
		t.Errorf("removed = %v, want two ids", removed)
	}

	for _, table := range []any{&models.Meeting{}, &models.TimeSlot{}, &models.Notification{}} {
		var n int64
		gdb.Model(table).Count(&n)
		if n != 0 {
			t.Errorf("%T rows = %d, want 0", table, n)
		}
	}

	var users []models.User
	gdb.Order("id").Find(&users)
	if len(users) != 5 {
		t.Fatalf("users = %d, want admin + 4 seeded", len(users))
	}
	if users[0].ID != admin.ID {
		t.Errorf("admin was not preserved")
	}

	var events []models.Event
	gdb.Find(&events)
	if len(events) != 1 || events[0].Status != models.EventActive {
		t.Fatalf("events = %+v", events)
	}
	if got := events[0].StartDate.Format("2006-01-02"); got != "2026-06-01" {
		t.Errorf("event start = %s", got)
	}
	if got := events[0].EndDate.Format("2006-01-02"); got != "2026-06-02" {
		t.Errorf("event end = %s", got)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	gdb := testutil.NewDB(t)
	ctx := context.Background()

	seeded, err := db.Seed(ctx, gdb, testutil.Hash, time.Now())
	if err != nil || !seeded {
		t.Fatalf("first seed: %v %v", seeded, err)
	}
	seeded, err = db.Seed(ctx, gdb, testutil.Hash, time.Now())
	if err != nil || seeded {
		t.Fatalf("second seed: %v %v", seeded, err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	gdb := testutil.NewDB(t)
	ctx := context.Background()

	created, err := db.EnsureAdmin(ctx, gdb, "admin@example.com", "changeme", testutil.Hash)
	if err != nil || !created {
		t.Fatalf("first call: %v %v", created, err)
	}
	created, err = db.EnsureAdmin(ctx, gdb, "admin@example.com", "changeme", testutil.Hash)
	if err != nil || created {
		t.Fatalf("second call: %v %v", created, err)
	}

	var admin models.User
	gdb.Where("email = ?", "admin@example.com").First(&admin)
	if admin.Role != models.RoleAdmin {
		t.Errorf("role = %s", admin.Role)
	}
}
