package timeutil

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateOfCrossesLocalMidnight(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	late := time.Date(2025, time.March, 9, 23, 30, 0, 0, loc)
	early := late.Add(20 * time.Hour)

	a := DateOf(late, loc)
	b := DateOf(early, loc)
	if a == b {
		t.Fatalf("expected different calendar days, got %s twice", a)
	}
	if got := a.DaysUntil(b); got != 1 {
		t.Fatalf("expected 1 day apart, got %d", got)
	}
}

func TestAddDaysAcrossMonthAndYear(t *testing.T) {
	d := Date{Year: 2024, Month: time.December, Day: 31}
	if got := d.AddDays(1).String(); got != "2025-01-01" {
		t.Fatalf("expected 2025-01-01, got %s", got)
	}
	if got := d.AddDays(-31).String(); got != "2024-11-30" {
		t.Fatalf("expected 2024-11-30, got %s", got)
	}
	leap := Date{Year: 2024, Month: time.March, Day: 1}
	if got := leap.AddDays(-1).String(); got != "2024-02-29" {
		t.Fatalf("expected 2024-02-29, got %s", got)
	}
}

func TestDateCompare(t *testing.T) {
	a := Date{Year: 2025, Month: time.May, Day: 2}
	b := Date{Year: 2025, Month: time.May, Day: 10}
	if !a.Before(b) || b.Before(a) || !b.After(a) {
		t.Fatalf("unexpected ordering between %s and %s", a, b)
	}
	if a.Compare(a) != 0 {
		t.Fatalf("expected equal compare")
	}
}

func TestDateJSON(t *testing.T) {
	d := Date{Year: 2025, Month: time.July, Day: 4}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-07-04"` {
		t.Fatalf("unexpected json %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Fatalf("expected %s, got %s", d, back)
	}
	if err := json.Unmarshal([]byte(`"not a date"`), &back); err == nil {
		t.Fatalf("expected error for invalid date")
	}
}

func TestParseDaysAgo(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "1d", want: 1},
		{in: "2w", want: 14},
		{in: "1w3d", want: 10},
		{in: "3 days", want: 3},
		{in: "soon", wantErr: true},
		{in: "4h", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDaysAgo(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("%q: expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
