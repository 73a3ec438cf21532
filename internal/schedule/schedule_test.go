package schedule

import (
	"testing"
	"time"
)

func TestNewRejectsBadSpec(t *testing.T) {
	if _, err := New("not a cron spec", time.UTC, func() {}); err == nil {
		t.Error("expected error for invalid cron spec")
	}
}

func TestNewAcceptsDailySpec(t *testing.T) {
	s, err := New("0 8 * * *", time.UTC, func() {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Next().IsZero() {
		t.Error("expected a scheduled next fire time")
	}
}

func TestNextHonorsTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("timezone db unavailable: %v", err)
	}

	s, err := New("0 8 * * *", loc, func() {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	local := s.Next().In(loc)
	if local.Hour() != 8 || local.Minute() != 0 {
		t.Errorf("expected next fire at 08:00 local, got %v", local)
	}
}
