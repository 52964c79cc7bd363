package booking

import "testing"

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"identical", "2026-09-10", "2026-09-12", "2026-09-10", "2026-09-12", true},
		{"contained", "2026-09-10", "2026-09-15", "2026-09-11", "2026-09-12", true},
		{"partial overlap", "2026-09-10", "2026-09-12", "2026-09-11", "2026-09-14", true},
		{"touch at end", "2026-09-10", "2026-09-12", "2026-09-12", "2026-09-14", true}, // 同日取还算冲突
		{"touch at start", "2026-09-12", "2026-09-14", "2026-09-10", "2026-09-12", true},
		{"adjacent after", "2026-09-10", "2026-09-12", "2026-09-13", "2026-09-14", false},
		{"adjacent before", "2026-09-13", "2026-09-14", "2026-09-10", "2026-09-12", false},
		{"disjoint", "2026-09-01", "2026-09-02", "2026-09-10", "2026-09-12", false},
	}
	for _, c := range cases {
		got := Overlaps(day(c.aStart), day(c.aEnd), day(c.bStart), day(c.bEnd))
		if got != c.want {
			t.Fatalf("%s: Overlaps = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestFirstConflict(t *testing.T) {
	existing := []Booking{
		{ID: "b1", Status: StatusConfirmed, StartDate: day("2026-09-03"), EndDate: day("2026-09-05")},
		{ID: "b2", Status: StatusPending, StartDate: day("2026-09-10"), EndDate: day("2026-09-12")},
	}

	// 与第一段重叠：返回 b1，available after 即其结束日。
	c := FirstConflict(existing, day("2026-09-04"), day("2026-09-06"), "")
	if c == nil || c.ID != "b1" {
		t.Fatalf("expected conflict with b1, got %+v", c)
	}
	if !c.EndDate.Equal(day("2026-09-05")) {
		t.Fatalf("expected end date 2026-09-05, got %s", c.EndDate)
	}

	// 空档内无冲突。
	if c := FirstConflict(existing, day("2026-09-06"), day("2026-09-09"), ""); c != nil {
		t.Fatalf("expected no conflict, got %s", c.ID)
	}

	// pending 同样阻塞。
	if c := FirstConflict(existing, day("2026-09-12"), day("2026-09-14"), ""); c == nil || c.ID != "b2" {
		t.Fatalf("expected conflict with pending b2, got %+v", c)
	}
}

func TestFirstConflictExcludesSelf(t *testing.T) {
	existing := []Booking{
		{ID: "b1", Status: StatusPending, StartDate: day("2026-09-10"), EndDate: day("2026-09-12")},
	}
	// 编辑自己的预订：与自身重叠不算冲突。
	if c := FirstConflict(existing, day("2026-09-11"), day("2026-09-13"), "b1"); c != nil {
		t.Fatalf("expected self to be excluded, got %s", c.ID)
	}
	if c := FirstConflict(existing, day("2026-09-11"), day("2026-09-13"), "other"); c == nil {
		t.Fatalf("expected conflict for a different booking")
	}
}

func TestBlockingStatuses(t *testing.T) {
	blocking := map[Status]bool{}
	for _, s := range BlockingStatuses() {
		blocking[s] = true
	}
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusActive} {
		if !blocking[s] {
			t.Fatalf("%s must block availability", s)
		}
	}
	for _, s := range []Status{StatusCompleted, StatusCancelled} {
		if blocking[s] {
			t.Fatalf("%s must not block availability", s)
		}
	}
}
