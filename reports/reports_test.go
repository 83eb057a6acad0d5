package reports

import (
	"bytes"
	"testing"
	"time"

	"github.com/meinhoongagan/bizmatch/models"
	"github.com/xuri/excelize/v2"
)

func TestExportMeetings(t *testing.T) {
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	meetings := []models.Meeting{{
		ID:        7,
		Company:   &models.User{Name: "Acme Components"},
		Buyer:     &models.User{Name: "Cobalt Retail"},
		TimeSlot:  &models.TimeSlot{StartTime: start, EndTime: start.Add(30 * time.Minute)},
		Status:    models.MeetingConfirmed,
		Message:   "Looking for bearings",
		CreatedAt: start.Add(-24 * time.Hour),
	}}

	buf, err := ExportMeetings(meetings, time.FixedZone("CEST", 2*3600))
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(MeetingsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	want := []string{"7", "Acme Components", "Cobalt Retail", "2026-06-01 11:00", "2026-06-01 11:30", "CONFIRMED", "Looking for bearings"}
	for i, w := range want {
		if rows[1][i] != w {
			t.Errorf("col %d = %q, want %q", i, rows[1][i], w)
		}
	}
}

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestParseUsers(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Email", "Name", "Role", "Password"},
		{"acme@example.com", "Acme", "company", "password123"},
		{"", "", "", ""},
		{"cobalt@example.com", " Cobalt ", "BUYER"},
	})

	rows, err := ParseUsers(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Role != "COMPANY" || rows[0].Password != "password123" || rows[0].Line != 2 {
		t.Errorf("first row = %+v", rows[0])
	}
	if rows[1].Name != "Cobalt" || rows[1].Password != "" || rows[1].Line <= rows[0].Line {
		t.Errorf("second row = %+v", rows[1])
	}
}

func TestParseUsersRequiresColumns(t *testing.T) {
	buf := workbook(t, [][]any{{"Name", "Email"}, {"Acme", "acme@example.com"}})
	if _, err := ParseUsers(buf); err == nil {
		t.Fatal("expected missing role column error")
	}
	if _, err := ParseUsers(bytes.NewBufferString("not a zip")); err == nil {
		t.Fatal("expected error for non-xlsx input")
	}
}
