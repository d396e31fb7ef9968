package timeparse

import "testing"

func TestExtract_TrailingToken(t *testing.T) {
	cases := []struct {
		in       string
		stripped string
		start    string
	}{
		{"Call mom 3:30pm", "Call mom", "15:30"},
		{"Lunch 12:30pm", "Lunch", "12:30"},
		{"Standup 9am", "Standup", "09:00"},
		{"Midnight snack 12am", "Midnight snack", "00:00"},
		{"Gym 6:05 pm", "Gym", "18:05"},
	}
	for _, tc := range cases {
		cfg, stripped, ok := Extract(tc.in)
		if !ok {
			t.Fatalf("Extract(%q): expected a match", tc.in)
		}
		if stripped != tc.stripped {
			t.Fatalf("Extract(%q): stripped = %q, want %q", tc.in, stripped, tc.stripped)
		}
		if cfg.StartTime != tc.start {
			t.Fatalf("Extract(%q): startTime = %q, want %q", tc.in, cfg.StartTime, tc.start)
		}
	}
}

func TestExtract_LeadingToken(t *testing.T) {
	cfg, stripped, ok := Extract("7:15am workout")
	if !ok {
		t.Fatalf("expected a match")
	}
	if stripped != "workout" {
		t.Fatalf("stripped = %q, want %q", stripped, "workout")
	}
	if cfg.StartTime != "07:15" {
		t.Fatalf("startTime = %q, want %q", cfg.StartTime, "07:15")
	}
}

func TestExtract_NoToken(t *testing.T) {
	for _, in := range []string{
		"Buy milk",
		"Meet at the 5pm spot tomorrow", // mid-sentence times are left alone
		"",
		"24:00pm",
	} {
		if _, stripped, ok := Extract(in); ok {
			t.Fatalf("Extract(%q): unexpected match", in)
		} else if stripped != in {
			t.Fatalf("Extract(%q): text should be unchanged, got %q", in, stripped)
		}
	}
}
