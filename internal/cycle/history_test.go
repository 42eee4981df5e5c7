package cycle

import "testing"

func TestHistoryMostRecentFirst(t *testing.T) {
	t.Parallel()

	entries := History(threeCycleLog())
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	latest := entries[0]
	if FormatDay(latest.Start) != "2025-02-26" || !latest.Ongoing || latest.CycleLength != 0 {
		t.Fatalf("unexpected latest entry: %+v", latest)
	}
	if latest.PeriodDays != 4 {
		t.Fatalf("expected 4 period days, got %d", latest.PeriodDays)
	}

	previous := entries[1]
	if FormatDay(previous.Start) != "2025-01-29" || previous.Ongoing || previous.CycleLength != 28 {
		t.Fatalf("unexpected previous entry: %+v", previous)
	}
}

func TestHistoryEmpty(t *testing.T) {
	t.Parallel()

	if entries := History(nil); len(entries) != 0 {
		t.Fatalf("expected empty history, got %v", entries)
	}
}
