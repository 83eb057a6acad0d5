package utils

import (
	"errors"
	"testing"
)

type eventInput struct {
	Name     string  `json:"name" validate:"required"`
	Opens    string  `json:"operationStartTime" validate:"omitempty,hhmm"`
	Duration *int    `json:"meetingDuration" validate:"omitempty,min=15,max=120"`
	Email    string  `json:"email" validate:"omitempty,email"`
	Status   *string `json:"status" validate:"omitempty,oneof=OPEN DISABLED"`
}

func intPtr(v int) *int { return &v }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      eventInput
		wantMsg string
	}{
		{"valid", eventInput{Name: "Expo", Opens: "09:00", Duration: intPtr(30)}, ""},
		{"missing name", eventInput{Opens: "09:00"}, "name is required"},
		{"unpadded clock", eventInput{Name: "Expo", Opens: "9:00"}, "operationStartTime must be in HH:MM 24-hour format"},
		{"hour out of range", eventInput{Name: "Expo", Opens: "24:00"}, "operationStartTime must be in HH:MM 24-hour format"},
		{"short meeting", eventInput{Name: "Expo", Duration: intPtr(10)}, "meetingDuration must be at least 15"},
		{"long meeting", eventInput{Name: "Expo", Duration: intPtr(121)}, "meetingDuration must be at most 120"},
		{"bad email", eventInput{Name: "Expo", Email: "nope"}, "email must be a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.in)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var appErr *AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.Status != 400 || appErr.Code != CodeValidation {
				t.Errorf("status/code = %d/%s", appErr.Status, appErr.Code)
			}
			if appErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", appErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestIsClock(t *testing.T) {
	for _, ok := range []string{"00:00", "09:30", "23:59"} {
		if !IsClock(ok) {
			t.Errorf("IsClock(%q) = false", ok)
		}
	}
	for _, bad := range []string{"", "9:30", "24:00", "12:60", "12-30", "12:3"} {
		if IsClock(bad) {
			t.Errorf("IsClock(%q) = true", bad)
		}
	}
}

type signup struct {
	Email string `json:"email" validate:"required,email"`
}

func (s *signup) Normalize() { s.Email = NormalizeEmail(s.Email) }

func TestValidateNormalizesFirst(t *testing.T) {
	in := signup{Email: "  Pad@Example.COM "}
	if err := Validate(&in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Email != "pad@example.com" {
		t.Errorf("email = %q", in.Email)
	}
}
