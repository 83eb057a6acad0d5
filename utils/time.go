package utils

import "time"

// ParseDate accepts "2006-01-02" or RFC3339 and returns midnight UTC of that day.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return truncateDay(t), nil
}

// InZone converts t to the event location, falling back to UTC.
func InZone(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t.UTC()
	}
	return t.In(loc)
}
