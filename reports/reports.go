// Package reports reads and writes the admin spreadsheets.
package reports

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/meinhoongagan/bizmatch/models"
	"github.com/xuri/excelize/v2"
)

const (
	MeetingsSheet = "Meetings"
	ContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var meetingHeader = []any{"ID", "Company", "Buyer", "Start", "End", "Status", "Message", "Requested At"}

// ExportMeetings renders meetings as an xlsx workbook. Times are shown in loc.
func ExportMeetings(meetings []models.Meeting, loc *time.Location) (*bytes.Buffer, error) {
	if loc == nil {
		loc = time.UTC
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", MeetingsSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(MeetingsSheet, "A1", &meetingHeader); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(MeetingsSheet, 1, 1, bold); err != nil {
		return nil, err
	}

	const layout = "2006-01-02 15:04"
	for i, m := range meetings {
		var company, buyer, start, end string
		if m.Company != nil {
			company = m.Company.Name
		}
		if m.Buyer != nil {
			buyer = m.Buyer.Name
		}
		if m.TimeSlot != nil {
			start = m.TimeSlot.StartTime.In(loc).Format(layout)
			end = m.TimeSlot.EndTime.In(loc).Format(layout)
		}
		row := []any{m.ID, company, buyer, start, end, string(m.Status), m.Message, m.CreatedAt.In(loc).Format(layout)}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(MeetingsSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(MeetingsSheet, "B", "C", 28); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(MeetingsSheet, "D", "E", 18); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

// UserRow is one line of the user import sheet.
type UserRow struct {
	Line        int
	Name        string
	Email       string
	Role        string
	Password    string
	Description string
	Website     string
}

var userColumns = []string{"name", "email", "role", "password", "description", "website"}

// ParseUsers reads the first sheet. The first row is a header naming the
// columns (name, email, role, password, description, website) in any order;
// name, email and role are required.
func ParseUsers(r io.Reader) ([]UserRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	index := map[string]int{}
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "email", "role"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing %q column", required)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []UserRow
	for n, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		out = append(out, UserRow{
			Line:        n + 2,
			Name:        cell(row, userColumns[0]),
			Email:       cell(row, userColumns[1]),
			Role:        strings.ToUpper(cell(row, userColumns[2])),
			Password:    cell(row, userColumns[3]),
			Description: cell(row, userColumns[4]),
			Website:     cell(row, userColumns[5]),
		})
	}
	return out, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
