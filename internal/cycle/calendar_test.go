package cycle

import (
	"testing"

	"github.com/terraincognita07/lunacycle/internal/models"
)

func TestBuildMonthGrid(t *testing.T) {
	t.Parallel()

	days := BuildMonth(mustDay(t, "2025-03-15"), threeCycleLog(), models.DefaultSettings(), mustDay(t, "2025-03-05"))
	if len(days) != 42 {
		t.Fatalf("expected 42 grid days, got %d", len(days))
	}
	if days[0].DateString != "2025-02-23" || days[len(days)-1].DateString != "2025-04-05" {
		t.Fatalf("unexpected grid bounds %s..%s", days[0].DateString, days[len(days)-1].DateString)
	}

	byDate := make(map[string]CalendarDay, len(days))
	for _, calendarDay := range days {
		byDate[calendarDay.DateString] = calendarDay
	}

	if !byDate["2025-02-26"].IsPeriod || byDate["2025-02-26"].Intensity != models.IntensityMedium {
		t.Fatal("expected logged period day with intensity")
	}
	if byDate["2025-02-23"].InMonth || !byDate["2025-03-01"].InMonth {
		t.Fatal("expected in-month flags to follow the calendar month")
	}
	if !byDate["2025-03-05"].IsToday {
		t.Fatal("expected today marker")
	}

	for _, key := range []string{"2025-03-26", "2025-03-27", "2025-03-28", "2025-03-29", "2025-03-30"} {
		if !byDate[key].IsPredicted {
			t.Errorf("expected %s to be a predicted period day", key)
		}
	}
	if byDate["2025-03-31"].IsPredicted || byDate["2025-03-25"].IsPredicted {
		t.Fatal("expected predicted period to last five days")
	}

	for _, key := range []string{"2025-03-06", "2025-03-07", "2025-03-08", "2025-03-09", "2025-03-10", "2025-03-11"} {
		if !byDate[key].IsFertile {
			t.Errorf("expected %s to be fertile", key)
		}
	}
	if byDate["2025-03-05"].IsFertile || byDate["2025-03-12"].IsFertile {
		t.Fatal("expected fertile window to span six days")
	}
	if !byDate["2025-03-11"].IsOvulation || byDate["2025-03-10"].IsOvulation {
		t.Fatal("expected ovulation marker on 2025-03-11 only")
	}

	if byDate["2025-02-23"].IsFertile {
		t.Fatal("expected no fertile projection before the latest start")
	}
	if byDate["2025-02-23"].Phase != PhaseLuteal {
		t.Fatalf("expected luteal on 2025-02-23, got %s", byDate["2025-02-23"].Phase)
	}
	if byDate["2025-03-26"].Phase != PhaseMenstrual {
		t.Fatalf("expected projected menstrual phase on 2025-03-26, got %s", byDate["2025-03-26"].Phase)
	}
}

func TestBuildMonthWithoutHistory(t *testing.T) {
	t.Parallel()

	days := BuildMonth(mustDay(t, "2025-03-01"), nil, models.DefaultSettings(), mustDay(t, "2025-03-05"))
	for _, calendarDay := range days {
		if calendarDay.IsPredicted || calendarDay.IsFertile || calendarDay.IsOvulation || calendarDay.IsPeriod {
			t.Fatalf("expected no markers without history, got %+v", calendarDay)
		}
		if calendarDay.Phase != PhaseFollicular {
			t.Fatalf("expected follicular default, got %s", calendarDay.Phase)
		}
	}
}

func TestBuildMonthStopsForecastAfterHorizon(t *testing.T) {
	t.Parallel()

	records := periodRecords("2025-01-01")
	// more than twelve cycles after the only start
	days := BuildMonth(mustDay(t, "2026-06-01"), records, models.DefaultSettings(), mustDay(t, "2025-01-05"))
	for _, calendarDay := range days {
		if calendarDay.IsPredicted || calendarDay.IsFertile {
			t.Fatalf("expected no forecast beyond the horizon, got %+v", calendarDay)
		}
	}
}
