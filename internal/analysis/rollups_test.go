package analysis

import (
	"math"
	"testing"
	"time"
)

func TestGetMonday(t *testing.T) {
	tests := []struct {
		date     time.Time
		expected time.Time
	}{
		// 2024-01-01 is a Monday
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 1, 3, 15, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		// Sunday belongs to the week that started the previous Monday
		{time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
		// Across a year boundary
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.date.Format("2006-01-02"), func(t *testing.T) {
			if got := getMonday(tt.date); !got.Equal(tt.expected) {
				t.Errorf("getMonday(%v) = %v, want %v", tt.date, got, tt.expected)
			}
		})
	}
}

func TestRollupWeekly(t *testing.T) {
	// Wednesday 2024-01-03 through Sunday 2024-01-14
	start := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	loads := []float64{60, 0, 90, 30, 120, 0, 45, 45, 0, 80, 0, 150}
	daily := make([]DailyLoad, len(loads))
	for i, l := range loads {
		daily[i] = DailyLoad{Date: start.AddDate(0, 0, i), Load: l}
	}

	weeks := RollupWeekly(daily)
	if len(weeks) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(weeks))
	}

	first := weeks[0]
	if !first.WeekStart.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("week 0 start = %v, want 2024-01-01", first.WeekStart)
	}
	if first.Days != 5 {
		t.Errorf("week 0 days = %d, want 5", first.Days)
	}
	if first.Total != 300 {
		t.Errorf("week 0 total = %v, want 300", first.Total)
	}
	if first.Peak != 120 {
		t.Errorf("week 0 peak = %v, want 120", first.Peak)
	}
	if first.AvgPerDay != 60 {
		t.Errorf("week 0 avg = %v, want 60", first.AvgPerDay)
	}

	second := weeks[1]
	if second.Days != 7 || second.Total != 320 || second.Peak != 150 {
		t.Errorf("week 1 = %+v, want 7 days, total 320, peak 150", second)
	}
	if math.Abs(second.AvgPerDay-320.0/7) > 1e-9 {
		t.Errorf("week 1 avg = %v, want %v", second.AvgPerDay, 320.0/7)
	}
}

func TestRollupMonthly(t *testing.T) {
	start := time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC)
	daily := []DailyLoad{
		{Date: start, Load: 100},
		{Date: start.AddDate(0, 0, 1), Load: 0},
		{Date: start.AddDate(0, 0, 2), Load: 40}, // Feb 1
		{Date: start.AddDate(0, 0, 3), Load: 0},
		{Date: start.AddDate(0, 0, 4), Load: 0},
		{Date: start.AddDate(0, 0, 5), Load: 80},
	}

	months := RollupMonthly(daily)
	if len(months) != 2 {
		t.Fatalf("expected 2 months, got %d", len(months))
	}

	jan := months[0]
	if jan.Year != 2024 || jan.Month != time.January {
		t.Errorf("month 0 = %d-%v, want 2024-January", jan.Year, jan.Month)
	}
	if jan.Days != 2 || jan.TrainingDays != 1 || jan.Total != 100 || jan.Peak != 100 {
		t.Errorf("january = %+v", jan)
	}
	if jan.AvgPerDay != 50 || jan.AvgPerTrainingDay != 100 {
		t.Errorf("january averages = %v/%v, want 50/100", jan.AvgPerDay, jan.AvgPerTrainingDay)
	}

	feb := months[1]
	if feb.Month != time.February || feb.Days != 4 || feb.TrainingDays != 2 || feb.Total != 120 {
		t.Errorf("february = %+v", feb)
	}
	if feb.AvgPerDay != 30 || feb.AvgPerTrainingDay != 60 {
		t.Errorf("february averages = %v/%v, want 30/60", feb.AvgPerDay, feb.AvgPerTrainingDay)
	}
}

func TestRollupMonthlyNoTrainingDays(t *testing.T) {
	daily := constantDays(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 10, 0)

	months := RollupMonthly(daily)
	if len(months) != 1 {
		t.Fatalf("expected 1 month, got %d", len(months))
	}
	if months[0].AvgPerTrainingDay != 0 {
		t.Errorf("AvgPerTrainingDay = %v, want 0", months[0].AvgPerTrainingDay)
	}
	if months[0].TrainingDays != 0 {
		t.Errorf("TrainingDays = %d, want 0", months[0].TrainingDays)
	}
}

func TestRollupsConserveTotal(t *testing.T) {
	start := time.Date(2023, 12, 18, 0, 0, 0, 0, time.UTC)
	daily := make([]DailyLoad, 120)
	for i := range daily {
		daily[i] = DailyLoad{Date: start.AddDate(0, 0, i), Load: float64((i * 29) % 110)}
	}
	total := TotalLoad(daily)

	var weeklyTotal, monthlyTotal float64
	var weeklyDays, monthlyDays int
	for _, w := range RollupWeekly(daily) {
		weeklyTotal += w.Total
		weeklyDays += w.Days
	}
	for _, m := range RollupMonthly(daily) {
		monthlyTotal += m.Total
		monthlyDays += m.Days
	}

	if math.Abs(weeklyTotal-total) > 1e-9 {
		t.Errorf("weekly total = %v, want %v", weeklyTotal, total)
	}
	if math.Abs(monthlyTotal-total) > 1e-9 {
		t.Errorf("monthly total = %v, want %v", monthlyTotal, total)
	}
	if weeklyDays != len(daily) || monthlyDays != len(daily) {
		t.Errorf("days = %d weekly, %d monthly, want %d", weeklyDays, monthlyDays, len(daily))
	}
}

func TestRollupsEmpty(t *testing.T) {
	if weeks := RollupWeekly(nil); len(weeks) != 0 {
		t.Errorf("RollupWeekly(nil) = %v, want empty", weeks)
	}
	if months := RollupMonthly(nil); len(months) != 0 {
		t.Errorf("RollupMonthly(nil) = %v, want empty", months)
	}
}
