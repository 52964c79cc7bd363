package booking

import "testing"

func TestNeedsInvoiceAfterAction(t *testing.T) {
	cases := []struct {
		name    string
		status  Status
		invoice string
		action  Action
		today   string
		want    bool
	}{
		{"accept before window issues", StatusPending, "", ActionAccept, "2026-09-01", true},
		{"accept inside window skips", StatusPending, "", ActionAccept, "2026-09-11", false},
		{"re-accept keeps existing number", StatusConfirmed, "INV-2026-00007", ActionAccept, "2026-09-01", false},
		{"decline never issues", StatusPending, "", ActionDecline, "2026-09-01", false},
		{"complete never issues", StatusActive, "", ActionComplete, "2026-09-13", false},
	}
	for _, c := range cases {
		b := &Booking{
			ID:            "b1",
			Status:        c.status,
			InvoiceNumber: c.invoice,
			StartDate:     day("2026-09-10"),
			EndDate:       day("2026-09-12"),
		}
		if err := ApplyAction(b, c.action, day(c.today)); err != nil {
			t.Fatalf("%s: ApplyAction: %v", c.name, err)
		}
		if got := NeedsInvoice(b); got != c.want {
			t.Fatalf("%s: NeedsInvoice = %v (status %s), want %v", c.name, got, b.Status, c.want)
		}
	}
}

func TestNeedsInvoice(t *testing.T) {
	if NeedsInvoice(nil) {
		t.Fatalf("nil booking must not need an invoice")
	}
	if !NeedsInvoice(&Booking{Status: StatusConfirmed}) {
		t.Fatalf("confirmed without number must need an invoice")
	}
	for _, s := range []Status{StatusPending, StatusActive, StatusCompleted, StatusCancelled} {
		if NeedsInvoice(&Booking{Status: s}) {
			t.Fatalf("%s must not need an invoice", s)
		}
	}
	if NeedsInvoice(&Booking{Status: StatusConfirmed, InvoiceNumber: "INV-2026-00007"}) {
		t.Fatalf("already numbered booking must not be renumbered")
	}
}

func TestFormatInvoiceNumber(t *testing.T) {
	cases := []struct {
		year int
		seq  int64
		want string
	}{
		{2026, 1, "INV-2026-00001"},
		{2026, 42, "INV-2026-00042"},
		{2027, 99999, "INV-2027-99999"},
		{2027, 100000, "INV-2027-100000"}, // 超出 5 位不截断
	}
	for _, c := range cases {
		if got := FormatInvoiceNumber(c.year, c.seq); got != c.want {
			t.Fatalf("FormatInvoiceNumber(%d, %d) = %q, want %q", c.year, c.seq, got, c.want)
		}
	}
}

func TestParseInvoiceSequence(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"INV-2026-00042", 42},
		{"INV-2025-00001", 1},
		{"INV-2027-100000", 100000},
		{"", 0},
		{"INV-2026", 0},            // 段数不足
		{"INV-2026-00042-X", 0},    // 段数过多
		{"RCP-2026-00042", 0},      // 前缀不对
		{"INV-2026-abc", 0},        // 序号非数字
		{"legacy-invoice-7b2f", 0}, // 历史脏数据
	}
	for _, c := range cases {
		if got := ParseInvoiceSequence(c.in); got != c.want {
			t.Fatalf("ParseInvoiceSequence(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestMaxInvoiceSequence(t *testing.T) {
	if got := MaxInvoiceSequence(nil); got != 0 {
		t.Fatalf("empty history: got %d", got)
	}

	// 序号跨年份全局单调：不同年份的号一起参与取最大。
	numbers := []string{
		"INV-2025-00007",
		"INV-2026-00042",
		"INV-2026-00003",
		"not-an-invoice",
	}
	if got := MaxInvoiceSequence(numbers); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}
