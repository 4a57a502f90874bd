package cli

import (
	"testing"
	"time"
)

func TestResolveDay(t *testing.T) {
	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}
	now := time.Date(2025, 9, 3, 22, 15, 0, 0, loc)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "today", input: "today", want: "2025-09-03"},
		{name: "tomorrow", input: "tomorrow", want: "2025-09-04"},
		{name: "yesterday", input: "yesterday", want: "2025-09-02"},
		{name: "mixed case", input: "Today", want: "2025-09-03"},
		{name: "explicit date", input: "2025-09-01", want: "2025-09-01"},
		{name: "garbage", input: "someday", wantErr: true},
		{name: "wrong layout", input: "09/01/2025", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, err := resolveDay(tt.input, now, loc)
			if tt.wantErr {
				if err == nil {
					t.Errorf("resolveDay(%q) should fail", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveDay(%q) failed: %v", tt.input, err)
			}
			if got := day.Format("2006-01-02"); got != tt.want {
				t.Errorf("resolveDay(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "monday", want: "Mon"},
		{input: "Mon", want: "Mon"},
		{input: "WEDNESDAY", want: "Wed"},
		{input: " sun ", want: "Sun"},
		{input: "funday", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := normalizeWeekday(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("normalizeWeekday(%q) should fail", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("normalizeWeekday(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("normalizeWeekday(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseAfter(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "18:00", want: 18 * 60},
		{input: "7:30", want: 7*60 + 30},
		{input: "00:00", want: 0},
		{input: "23:59", want: 23*60 + 59},
		{input: "25:00", wantErr: true},
		{input: "6pm", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseAfter(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseAfter(%q) should fail", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAfter(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseAfter(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
