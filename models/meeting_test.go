package models

import "testing"

func TestMeetingTransitions(t *testing.T) {
	tests := []struct {
		from    MeetingStatus
		to      MeetingStatus
		allowed bool
	}{
		{MeetingPending, MeetingConfirmed, true},
		{MeetingPending, MeetingRejected, true},
		{MeetingPending, MeetingCancelled, true},
		{MeetingPending, MeetingPending, false},
		{MeetingConfirmed, MeetingPending, false},
		{MeetingConfirmed, MeetingCancelled, false},
		{MeetingConfirmed, MeetingRejected, false},
		{MeetingRejected, MeetingConfirmed, false},
		{MeetingRejected, MeetingPending, false},
		{MeetingCancelled, MeetingPending, false},
	}

	for _, tt := range tests {
		m := &Meeting{Status: tt.from}
		err := m.CanTransitionTo(tt.to)
		if tt.allowed && err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tt.from, tt.to, err)
		}
		if !tt.allowed && err == nil {
			t.Errorf("%s -> %s: expected an error", tt.from, tt.to)
		}
	}
}

func TestSlotStatusFor(t *testing.T) {
	cases := map[MeetingStatus]SlotStatus{
		MeetingPending:   SlotHeld,
		MeetingConfirmed: SlotBooked,
		MeetingRejected:  SlotOpen,
		MeetingCancelled: SlotOpen,
	}
	for in, want := range cases {
		if got := SlotStatusFor(in); got != want {
			t.Errorf("SlotStatusFor(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestStatusValidity(t *testing.T) {
	if !RoleBuyer.Valid() || Role("GUEST").Valid() {
		t.Error("role validity is wrong")
	}
	if !SlotDisabled.Valid() || SlotStatus("CLOSED").Valid() {
		t.Error("slot status validity is wrong")
	}
	if !MeetingCancelled.Valid() || MeetingStatus("DONE").Valid() {
		t.Error("meeting status validity is wrong")
	}
	if !MeetingConfirmed.Active() || MeetingRejected.Active() {
		t.Error("active statuses are wrong")
	}
}
