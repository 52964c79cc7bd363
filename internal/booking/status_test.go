package booking

import (
	"errors"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestApplyActionAccept(t *testing.T) {
	b := &Booking{ID: "b1", Status: StatusPending, StartDate: day("2026-09-10"), EndDate: day("2026-09-12")}

	if err := ApplyAction(b, ActionAccept, day("2026-09-01")); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if b.Status != StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", b.Status)
	}
}

func TestApplyActionAcceptInsideWindowGoesActive(t *testing.T) {
	// 接受时租期已开始：跳过 confirmed 直接进入 active。
	for _, today := range []string{"2026-09-10", "2026-09-11", "2026-09-12"} {
		b := &Booking{ID: "b1", Status: StatusPending, StartDate: day("2026-09-10"), EndDate: day("2026-09-12")}
		if err := ApplyAction(b, ActionAccept, day(today)); err != nil {
			t.Fatalf("accept on %s: %v", today, err)
		}
		if b.Status != StatusActive {
			t.Fatalf("accept on %s: expected active, got %s", today, b.Status)
		}
	}

	// 租期前一天或后一天不算。
	b := &Booking{ID: "b1", Status: StatusPending, StartDate: day("2026-09-10"), EndDate: day("2026-09-12")}
	if err := ApplyAction(b, ActionAccept, day("2026-09-09")); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if b.Status != StatusConfirmed {
		t.Fatalf("expected confirmed before window, got %s", b.Status)
	}
}

func TestApplyActionDeclineAndComplete(t *testing.T) {
	b := &Booking{ID: "b1", Status: StatusPending, StartDate: day("2026-09-10"), EndDate: day("2026-09-12")}
	if err := ApplyAction(b, ActionDecline, day("2026-09-01")); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if b.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", b.Status)
	}

	b = &Booking{ID: "b2", Status: StatusActive, StartDate: day("2026-09-10"), EndDate: day("2026-09-12")}
	if err := ApplyAction(b, ActionComplete, day("2026-09-13")); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if b.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", b.Status)
	}
}

func TestApplyActionTerminalRejected(t *testing.T) {
	for _, status := range []Status{StatusCompleted, StatusCancelled} {
		for _, action := range []Action{ActionAccept, ActionDecline, ActionComplete} {
			b := &Booking{ID: "b1", Status: status, StartDate: day("2026-09-10"), EndDate: day("2026-09-12")}
			err := ApplyAction(b, action, day("2026-09-11"))
			if !errors.Is(err, ErrTerminalStatus) {
				t.Fatalf("%s on %s: expected ErrTerminalStatus, got %v", action, status, err)
			}
			if b.Status != status {
				t.Fatalf("%s on %s: status must not change, got %s", action, status, b.Status)
			}
		}
	}
}

func TestApplyActionUnknown(t *testing.T) {
	b := &Booking{ID: "b1", Status: StatusPending}
	if err := ApplyAction(b, Action("approve"), day("2026-09-01")); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestActionFreesCar(t *testing.T) {
	if ActionAccept.FreesCar() {
		t.Fatalf("accept must not free the car")
	}
	if !ActionDecline.FreesCar() || !ActionComplete.FreesCar() {
		t.Fatalf("decline and complete must free the car")
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusPending:   false,
		StatusConfirmed: false,
		StatusActive:    false,
		StatusCompleted: true,
		StatusCancelled: true,
	}
	for status, want := range terminal {
		if got := status.Terminal(); got != want {
			t.Fatalf("%s.Terminal() = %v, want %v", status, got, want)
		}
	}
}
