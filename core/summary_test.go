package core

import (
	"context"
	"testing"
	"time"
)

func TestSummary_DashboardScenario(t *testing.T) {
	t.Parallel()

	store, svc, now := newTestService(t)

	// 5 open tasks: 2 overdue, 1 due within 3 days, 2 without a due date
	overdueA := store.putTask(Task{OwnerID: 1, Title: "overdue a", Status: StatusTodo, DueAt: timePtr(now.Add(-48 * time.Hour)), CreatedAt: now})
	overdueB := store.putTask(Task{OwnerID: 1, Title: "overdue b", Status: StatusInProgress, DueAt: timePtr(now.Add(-time.Hour)), CreatedAt: now})
	dueSoon := store.putTask(Task{OwnerID: 1, Title: "due soon", Status: StatusTodo, DueAt: timePtr(now.Add(24 * time.Hour)), CreatedAt: now})
	store.putTask(Task{OwnerID: 1, Title: "no due a", Status: StatusTodo, CreatedAt: now})
	store.putTask(Task{OwnerID: 1, Title: "no due b", Status: StatusInProgress, CreatedAt: now})

	// 3 done tasks with distinct completion times
	doneOld := store.putTask(Task{OwnerID: 1, Title: "done old", Status: StatusDone, CompletedAt: timePtr(now.Add(-72 * time.Hour)), CreatedAt: now})
	doneMid := store.putTask(Task{OwnerID: 1, Title: "done mid", Status: StatusDone, CompletedAt: timePtr(now.Add(-24 * time.Hour)), CreatedAt: now})
	doneNew := store.putTask(Task{OwnerID: 1, Title: "done new", Status: StatusDone, CompletedAt: timePtr(now.Add(-time.Hour)), CreatedAt: now})

	// another owner's tasks must not leak into the numbers
	store.putTask(Task{OwnerID: 2, Title: "foreign", Status: StatusTodo, DueAt: timePtr(now.Add(-time.Hour)), CreatedAt: now})

	s, err := svc.Summary(context.Background(), 1)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}

	want := SummaryCounts{Open: 5, Overdue: 2, DueSoon: 1, Done: 3}
	if s.Counts != want {
		t.Fatalf("expected counts %+v, got %+v", want, s.Counts)
	}

	wantNextUp := []int64{overdueA.ID, overdueB.ID, dueSoon.ID}
	if len(s.NextUp) != len(wantNextUp) {
		t.Fatalf("expected %d next_up tasks, got %d", len(wantNextUp), len(s.NextUp))
	}
	for i, id := range wantNextUp {
		if s.NextUp[i].ID != id {
			t.Fatalf("next_up[%d]: expected task %d, got %d", i, id, s.NextUp[i].ID)
		}
	}

	wantRecent := []int64{doneNew.ID, doneMid.ID, doneOld.ID}
	if len(s.RecentDone) != len(wantRecent) {
		t.Fatalf("expected %d recent_done tasks, got %d", len(wantRecent), len(s.RecentDone))
	}
	for i, id := range wantRecent {
		if s.RecentDone[i].ID != id {
			t.Fatalf("recent_done[%d]: expected task %d, got %d", i, id, s.RecentDone[i].ID)
		}
	}
}

func TestSummary_Limits(t *testing.T) {
	t.Parallel()

	store, svc, now := newTestService(t)

	for i := 0; i < nextUpLimit+3; i++ {
		store.putTask(Task{
			OwnerID:   1,
			Title:     "open",
			Status:    StatusTodo,
			DueAt:     timePtr(now.Add(time.Duration(i+1) * time.Hour)),
			CreatedAt: now,
		})
	}
	for i := 0; i < recentDoneLimit+2; i++ {
		store.putTask(Task{
			OwnerID:     1,
			Title:       "done",
			Status:      StatusDone,
			CompletedAt: timePtr(now.Add(-time.Duration(i+1) * time.Hour)),
			CreatedAt:   now,
		})
	}

	s, err := svc.Summary(context.Background(), 1)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}

	if len(s.NextUp) != nextUpLimit {
		t.Fatalf("expected next_up capped at %d, got %d", nextUpLimit, len(s.NextUp))
	}
	if len(s.RecentDone) != recentDoneLimit {
		t.Fatalf("expected recent_done capped at %d, got %d", recentDoneLimit, len(s.RecentDone))
	}
}

func TestSummary_EmptyOwner(t *testing.T) {
	t.Parallel()

	_, svc, _ := newTestService(t)

	s, err := svc.Summary(context.Background(), 1)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if s.Counts != (SummaryCounts{}) {
		t.Fatalf("expected zero counts, got %+v", s.Counts)
	}
	if len(s.NextUp) != 0 || len(s.RecentDone) != 0 {
		t.Fatalf("expected empty projections, got %v / %v", s.NextUp, s.RecentDone)
	}
}
