package booking

import "testing"

func TestDurationDays(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"2026-09-10", "2026-09-10", 1}, // 同日取还算 1 天
		{"2026-09-10", "2026-09-12", 3},
		{"2026-09-28", "2026-10-02", 5}, // 跨月
	}
	for _, c := range cases {
		b := &Booking{StartDate: day(c.start), EndDate: day(c.end)}
		if got := b.DurationDays(); got != c.want {
			t.Fatalf("%s..%s: got %d days, want %d", c.start, c.end, got, c.want)
		}
	}
}

func TestDerivedWindowHelpers(t *testing.T) {
	b := &Booking{Status: StatusConfirmed, StartDate: day("2026-09-10"), EndDate: day("2026-09-12")}

	if !b.IsUpcoming(day("2026-09-09")) || b.IsUpcoming(day("2026-09-10")) {
		t.Fatalf("IsUpcoming must be true strictly before start")
	}
	if !b.IsActiveWindow(day("2026-09-10")) || !b.IsActiveWindow(day("2026-09-12")) {
		t.Fatalf("IsActiveWindow covers both window endpoints")
	}
	if b.IsActiveWindow(day("2026-09-13")) {
		t.Fatalf("IsActiveWindow must end with the window")
	}
	if !b.IsCompletedByDate(day("2026-09-13")) || b.IsCompletedByDate(day("2026-09-12")) {
		t.Fatalf("IsCompletedByDate must be true strictly after end")
	}

	// 已取消的预订无论日期都不算 active / completed。
	cancelled := &Booking{Status: StatusCancelled, StartDate: day("2026-09-10"), EndDate: day("2026-09-12")}
	if cancelled.IsActiveWindow(day("2026-09-11")) {
		t.Fatalf("cancelled booking must not be active")
	}
	if cancelled.IsCompletedByDate(day("2026-09-13")) {
		t.Fatalf("cancelled booking must not be completed by date")
	}
}

func TestDaysUntilPickup(t *testing.T) {
	b := &Booking{StartDate: day("2026-09-10"), EndDate: day("2026-09-12")}
	if got := b.DaysUntilPickup(day("2026-09-07")); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
	if got := b.DaysUntilPickup(day("2026-09-10")); got != 0 {
		t.Fatalf("pickup day: got %d, want 0", got)
	}
	if got := b.DaysUntilPickup(day("2026-09-11")); got != 0 {
		t.Fatalf("after pickup: got %d, want 0", got)
	}
}
