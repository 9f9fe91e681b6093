package core

import (
	"context"
	"sort"
)

const (
	nextUpLimit     = 8
	recentDoneLimit = 6
)

type SummaryCounts struct {
	Open    int `json:"open"`
	Overdue int `json:"overdue"`
	DueSoon int `json:"due_soon"`
	Done    int `json:"done"`
}

// Summary is the dashboard projection: headline counts, the next tasks due
// and the latest completions. It is recomputed on every request.
type Summary struct {
	Counts     SummaryCounts
	NextUp     []Task
	RecentDone []Task
}

func (s *Service) Summary(ctx context.Context, ownerID int64) (Summary, error) {
	tasks, err := s.store.ListTasks(ctx, ownerID, TaskFilter{Now: s.now()})
	if err != nil {
		return Summary{}, err
	}

	now := s.now()
	soon := now.Add(DueSoonWindow)

	var out Summary
	var open, done []Task

	for _, t := range tasks {
		if t.Status == StatusDone {
			out.Counts.Done++
			done = append(done, t)
			continue
		}

		out.Counts.Open++
		open = append(open, t)

		if t.DueAt == nil {
			continue
		}
		if t.DueAt.Before(now) {
			out.Counts.Overdue++
		} else if !t.DueAt.After(soon) {
			out.Counts.DueSoon++
		}
	}

	out.NextUp = nextUp(open)
	out.RecentDone = recentDone(done)
	return out, nil
}

// nextUp picks the open tasks that have a due date, soonest first.
func nextUp(open []Task) []Task {
	withDue := make([]Task, 0, len(open))
	for _, t := range open {
		if t.DueAt != nil {
			withDue = append(withDue, t)
		}
	}

	sort.SliceStable(withDue, func(i, j int) bool {
		return withDue[i].DueAt.Before(*withDue[j].DueAt)
	})

	if len(withDue) > nextUpLimit {
		withDue = withDue[:nextUpLimit]
	}
	return withDue
}

// recentDone orders finished tasks by completion time, newest first. A done
// task without a completion stamp can only come from a write that bypassed
// the service; it sorts last rather than crashing the dashboard.
func recentDone(done []Task) []Task {
	out := make([]Task, len(done))
	copy(out, done)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CompletedAt, out[j].CompletedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	if len(out) > recentDoneLimit {
		out = out[:recentDoneLimit]
	}
	return out
}
