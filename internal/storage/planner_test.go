package storage

import (
	"context"
	"testing"

	"daybook-cli/internal/model"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2026-08-31", "2026-08-31", true},
		{"  2026-01-05 ", "2026-01-05", true},
		{RecurringPlannerID, RecurringPlannerID, true},
		{"2026-13-01", "", false},
		{"31-08-2026", "", false},
		{"tomorrow", "", false},
	}
	for _, c := range cases {
		got, err := NormalizeDate(c.in)
		if c.ok && (err != nil || got != c.want) {
			t.Errorf("NormalizeDate(%q) = %q, %v; want %q", c.in, got, err, c.want)
		}
		if !c.ok && err == nil {
			t.Errorf("NormalizeDate(%q) accepted invalid input", c.in)
		}
	}
}

func TestPlanner_PersistLoadsSortedAndIsolatesDays(t *testing.T) {
	ctx := context.Background()
	s := PlannerStore{KV: NewMemoryKV()}

	day := "2026-08-31"
	events := []model.ListItem{
		{ID: "e2", ListID: day, Value: "Dinner", SortKey: "m", TimeConfig: &model.TimeConfig{StartTime: "18:00"}},
		{ID: "e1", ListID: day, Value: "Standup", SortKey: "c", TimeConfig: &model.TimeConfig{StartTime: "09:00"}},
		{ID: "e3", ListID: "2026-09-01", Value: "Other day", SortKey: "a"},
	}
	for _, ev := range events {
		if err := s.Persist(ctx, ev); err != nil {
			t.Fatalf("Persist: %v", err)
		}
	}

	got, err := s.LoadDay(ctx, day)
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("LoadDay returned %d events, want 2", len(got))
	}
	if got[0].Value != "Standup" || got[1].Value != "Dinner" {
		t.Fatalf("events not sorted by key: %v, %v", got[0].Value, got[1].Value)
	}
	if got[0].TimeConfig == nil || got[0].TimeConfig.StartTime != "09:00" {
		t.Fatalf("timeConfig lost in roundtrip: %+v", got[0].TimeConfig)
	}
}

func TestPlanner_PersistOneRowLeavesOthersUntouched(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := PlannerStore{KV: kv}
	day := "2026-08-31"

	_ = s.Persist(ctx, model.ListItem{ID: "e1", ListID: day, Value: "Standup", SortKey: "c"})
	_ = s.Persist(ctx, model.ListItem{ID: "e2", ListID: day, Value: "Dinner", SortKey: "m"})

	before, _, _ := kv.Get(ctx, plannerEventKey(day, "e2"))

	if err := s.Persist(ctx, model.ListItem{ID: "e1", ListID: day, Value: "Standup (moved)", SortKey: "c"}); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	after, _, _ := kv.Get(ctx, plannerEventKey(day, "e2"))
	if string(after) != string(before) {
		t.Fatalf("updating e1 rewrote e2's row")
	}
}

func TestPlanner_Remove(t *testing.T) {
	ctx := context.Background()
	s := PlannerStore{KV: NewMemoryKV()}
	day := "2026-08-31"

	_ = s.Persist(ctx, model.ListItem{ID: "e1", ListID: day, Value: "Standup", SortKey: "c"})
	if err := s.Remove(ctx, day, "e1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	got, err := s.LoadDay(ctx, day)
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("event survived remove: %+v", got)
	}
}

func TestRecurringTemplate_IsAPlannerList(t *testing.T) {
	ctx := context.Background()
	s := PlannerStore{KV: NewMemoryKV()}

	ev := model.ListItem{
		ID:              "r1",
		ListID:          RecurringPlannerID,
		Value:           "Standup",
		SortKey:         "c",
		TimeConfig:      &model.TimeConfig{StartTime: "09:00"},
		RecurringConfig: &model.RecurringConfig{RecurringID: "r1"},
	}
	if err := s.Persist(ctx, ev); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	got, err := s.LoadDay(ctx, RecurringPlannerID)
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if len(got) != 1 || got[0].RecurringConfig == nil || got[0].RecurringConfig.RecurringID != "r1" {
		t.Fatalf("recurring roundtrip = %+v", got)
	}
}
