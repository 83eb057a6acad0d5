package utils

import (
	"errors"
	"fmt"
	"time"
)

const (
	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"
)

// ScheduleParams describes an event window and its daily operating hours.
type ScheduleParams struct {
	StartDate       time.Time
	EndDate         time.Time
	OperationStart  string // "HH:MM"
	OperationEnd    string
	LunchStart      string // optional
	LunchEnd        string // optional
	MeetingDuration int    // minutes
}

// CandidateSlot is one bookable window on a given day.
type CandidateSlot struct {
	Date  string `json:"date"`  // "2006-01-02"
	Start string `json:"start"` // "HH:MM"
	End   string `json:"end"`
}

// Bounds resolves the candidate into absolute times in loc.
func (s CandidateSlot) Bounds(loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(DateLayout+" "+ClockLayout, s.Date+" "+s.Start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.ParseInLocation(DateLayout+" "+ClockLayout, s.Date+" "+s.End, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// ParseClock converts "HH:MM" into minutes after midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse(ClockLayout, value)
	if err != nil || len(value) != len(ClockLayout) {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// GenerateSlots lists the meeting windows for every day of the event. Steps
// run from the operation start on a fixed grid of MeetingDuration minutes;
// a step is kept only if [start, start+duration) fits before the operation
// end and does not intersect [LunchStart, LunchEnd).
func GenerateSlots(p ScheduleParams) ([]CandidateSlot, error) {
	if p.MeetingDuration <= 0 {
		return nil, errors.New("meeting duration must be positive")
	}

	opStart, err := ParseClock(p.OperationStart)
	if err != nil {
		return nil, fmt.Errorf("operation start: %w", err)
	}
	opEnd, err := ParseClock(p.OperationEnd)
	if err != nil {
		return nil, fmt.Errorf("operation end: %w", err)
	}
	if opEnd <= opStart {
		return nil, errors.New("operation end must be after operation start")
	}

	lunchStart, lunchEnd := -1, -1
	if p.LunchStart != "" || p.LunchEnd != "" {
		if lunchStart, err = ParseClock(p.LunchStart); err != nil {
			return nil, fmt.Errorf("lunch start: %w", err)
		}
		if lunchEnd, err = ParseClock(p.LunchEnd); err != nil {
			return nil, fmt.Errorf("lunch end: %w", err)
		}
		if lunchEnd < lunchStart {
			return nil, errors.New("lunch end must not be before lunch start")
		}
	}

	first := truncateDay(p.StartDate)
	last := truncateDay(p.EndDate)
	if last.Before(first) {
		return nil, errors.New("end date must not be before start date")
	}

	var daily []CandidateSlot
	for start := opStart; start+p.MeetingDuration <= opEnd; start += p.MeetingDuration {
		end := start + p.MeetingDuration
		if lunchStart >= 0 && start < lunchEnd && end > lunchStart {
			continue
		}
		daily = append(daily, CandidateSlot{Start: formatClock(start), End: formatClock(end)})
	}

	var slots []CandidateSlot
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		date := day.Format(DateLayout)
		for _, s := range daily {
			s.Date = date
			slots = append(slots, s)
		}
	}
	return slots, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
