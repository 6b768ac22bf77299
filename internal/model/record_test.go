package model

import (
	"testing"
	"time"
)

func TestReportDate(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		quarter int
		want    string
		wantErr bool
	}{
		{name: "Q1 ends March 31", year: 2023, quarter: 1, want: "2023-03-31"},
		{name: "Q2 ends June 30", year: 2023, quarter: 2, want: "2023-06-30"},
		{name: "Q3 ends September 30", year: 2023, quarter: 3, want: "2023-09-30"},
		{name: "Q4 ends December 31", year: 2023, quarter: 4, want: "2023-12-31"},
		{name: "quarter zero rejected", year: 2023, quarter: 0, wantErr: true},
		{name: "quarter five rejected", year: 2023, quarter: 5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReportDate(tt.year, tt.quarter)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ReportDate(%d, %d) expected error, got %v", tt.year, tt.quarter, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReportDate(%d, %d) unexpected error: %v", tt.year, tt.quarter, err)
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("ReportDate(%d, %d) = %s, want %s", tt.year, tt.quarter, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestCurrentQuarter(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2024-01-15", 1},
		{"2024-03-31", 1},
		{"2024-04-01", 2},
		{"2024-08-20", 3},
		{"2024-12-31", 4},
	}

	for _, tt := range tests {
		d, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatalf("bad test date %s: %v", tt.date, err)
		}
		if got := CurrentQuarter(d); got != tt.want {
			t.Errorf("CurrentQuarter(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestQuartersElapsed(t *testing.T) {
	now := time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		year int
		want int
	}{
		{2000, 4},
		{2023, 4},
		{2024, 3},
		{2025, 0},
		{2030, 0},
	}

	for _, tt := range tests {
		if got := QuartersElapsed(tt.year, now); got != tt.want {
			t.Errorf("QuartersElapsed(%d) = %d, want %d", tt.year, got, tt.want)
		}
	}
}

func TestLoadStatus_IsValid(t *testing.T) {
	valid := []LoadStatus{LoadCompleted, LoadNoData, LoadNoMatchingCodes}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("expected %q to be valid", s)
		}
	}

	if LoadStatus("failed").IsValid() {
		t.Error("expected unknown status to be invalid")
	}
	if LoadStatus("").IsValid() {
		t.Error("expected empty status to be invalid")
	}
}

func TestStatementType_IsValid(t *testing.T) {
	for _, s := range []StatementType{BalanceSheet, IncomeStatement, InsuranceSchedule, Memoranda} {
		if !s.IsValid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if StatementType("cash_flow").IsValid() {
		t.Error("expected unknown statement type to be invalid")
	}
}
