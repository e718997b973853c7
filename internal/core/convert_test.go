package core

import (
	"testing"
	"time"

	"github.com/JonMunkholm/pmis/internal/table"
)

func TestRound1(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{100.0 / 300 * 100, 33.3},
		{2.0 / 3 * 100, 66.7},
		{0.25, 0.2},
		{0.35, 0.3},
		{12.0, 12},
		{0, 0},
	}
	for _, tt := range tests {
		if got := round1(tt.in); got != tt.want {
			t.Errorf("round1(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := percent(5, 0); got != 0 {
		t.Errorf("percent(5, 0) = %v, want 0", got)
	}
	if got := percent(1, 8); got != 12.5 {
		t.Errorf("percent(1, 8) = %v, want 12.5", got)
	}
}

func TestParseDate(t *testing.T) {
	jan15 := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		in     table.Value
		want   time.Time
		wantOK bool
	}{
		{"iso", table.Text("2026-01-15"), jan15, true},
		{"iso with time", table.Text("2026-01-15 00:00:00"), jan15, true},
		{"slashes", table.Text("1/15/2026"), jan15, true},
		{"excel serial number", table.Number(46037), jan15, true},
		{"excel serial text", table.Text("46037"), jan15, true},
		{"garbage", table.Text("soon"), time.Time{}, false},
		{"null", table.Null(), time.Time{}, false},
		{"serial out of range", table.Number(0), time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			if ok != tt.wantOK || !got.Equal(tt.want) {
				t.Errorf("ParseDate = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseView(t *testing.T) {
	if ParseView("gantt") != ViewGantt {
		t.Error("ParseView(gantt)")
	}
	if ParseView("unknown") != ViewDashboard {
		t.Error("unknown view should default to the dashboard")
	}
}
