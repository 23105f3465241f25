package model

import (
	"testing"
	"time"
)

func TestSparePartsTotalCost(t *testing.T) {
	s := SpareParts{Cost: 8000, TransitCost: 500, LoadingCost: 250}
	if got := s.TotalCost(); got != 8750 {
		t.Errorf("TotalCost() = %v, want 8750", got)
	}
}

func TestTotalDelayHours(t *testing.T) {
	a := MaintenanceAction{DelayCrewHours: 30, DelayOrgHours: 40}

	if got := a.TotalDelayHours(SpareParts{LeadTimeHours: 100}); got != 100 {
		t.Errorf("lead time should win: got %v, want 100", got)
	}
	if got := a.TotalDelayHours(SpareParts{LeadTimeHours: 50}); got != 70 {
		t.Errorf("mobilisation should win: got %v, want 70", got)
	}
}

func TestFailureModeAnnualRate(t *testing.T) {
	fm := FailureMode{Probability: 0.5}
	if got := fm.AnnualRate(0.6); got != 0.3 {
		t.Errorf("AnnualRate(0.6) = %v, want 0.3", got)
	}
}

func TestCalendarPolicyValid(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(5, 0, 0)

	cases := []struct {
		name   string
		policy *CalendarPolicy
		want   bool
	}{
		{"nil", nil, false},
		{"ok", &CalendarPolicy{Start: start, End: end, IntervalYears: 2}, true},
		{"zero start", &CalendarPolicy{End: end, IntervalYears: 2}, false},
		{"zero interval", &CalendarPolicy{Start: start, End: end}, false},
		{"end before start", &CalendarPolicy{Start: end, End: start, IntervalYears: 2}, false},
	}
	for _, tc := range cases {
		if got := tc.policy.Valid(); got != tc.want {
			t.Errorf("%s: Valid() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestConditionPolicyValid(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(5, 0, 0)

	cases := []struct {
		name   string
		policy *ConditionPolicy
		want   bool
	}{
		{"nil", nil, false},
		{"ok", &ConditionPolicy{Start: start, End: end, Threshold: 0.8}, true},
		{"threshold above one", &ConditionPolicy{Start: start, End: end, Threshold: 1.5}, false},
		{"negative threshold", &ConditionPolicy{Start: start, End: end, Threshold: -0.1}, false},
		{"zero end", &ConditionPolicy{Start: start, Threshold: 0.8}, false},
	}
	for _, tc := range cases {
		if got := tc.policy.Valid(); got != tc.want {
			t.Errorf("%s: Valid() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestComponentFailureModeLookup(t *testing.T) {
	c := &Component{
		FailureModes: []FailureMode{{Index: 1, ID: "MoS1"}, {Index: 3, ID: "MoS3"}},
	}

	fm, ok := c.FailureMode(3)
	if !ok || fm.ID != "MoS3" {
		t.Errorf("FailureMode(3) = (%v, %v), want MoS3", fm, ok)
	}
	if _, ok := c.FailureMode(2); ok {
		t.Error("FailureMode(2) should not exist")
	}
}

func TestWorkdaysForSeason(t *testing.T) {
	farm := FarmPolicy{WorkdaysSummer: 7, WorkdaysWinter: 5}

	july := time.Date(2020, time.July, 15, 0, 0, 0, 0, time.UTC)
	if got := farm.WorkdaysFor(july); got != 7 {
		t.Errorf("WorkdaysFor(July) = %v, want 7", got)
	}
	january := time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)
	if got := farm.WorkdaysFor(january); got != 5 {
		t.Errorf("WorkdaysFor(January) = %v, want 5", got)
	}
}

func TestReliabilityInputApply(t *testing.T) {
	c1 := &Component{ID: "pto001", AnnualFailureRate: 0.5}
	c2 := &Component{ID: "pto002", AnnualFailureRate: 0.5}

	in := ReliabilityInput{
		AnnualRates: map[string]float64{"pto001": 0.9},
		Breakdown:   map[string]BreakdownSet{"pto001": BreakdownOf("device001")},
	}
	in.Apply([]*Component{c1, c2})

	if c1.AnnualFailureRate != 0.9 {
		t.Errorf("pto001 rate = %v, want 0.9", c1.AnnualFailureRate)
	}
	if !c1.Breakdown.Contains("device001") {
		t.Error("pto001 breakdown should contain device001")
	}
	if c2.AnnualFailureRate != 0.5 {
		t.Errorf("pto002 rate = %v, want unchanged 0.5", c2.AnnualFailureRate)
	}
}
