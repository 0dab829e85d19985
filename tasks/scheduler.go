// Package tasks computes follow-up instances of repeating tasks and the
// ownership chain that links repeats together.
package tasks

import (
	"github.com/samber/mo"

	"github.com/camgitt/grace-crm-sub003/dates"
	"github.com/camgitt/grace-crm-sub003/model"
	"github.com/camgitt/grace-crm-sub003/recurrence"
)

// Advance returns the due date of the next instance after one interval of
// f, anchored at the completed instance's due date rather than today so
// late completion does not shift the schedule.
func Advance(due dates.Date, f recurrence.Frequency) dates.Date {
	return recurrence.Advance(due, f)
}

// NextInstance builds the successor record for a completed repeating task.
// All fields carry over except completion and due date; the chain
// back-reference points at the first instance of the chain. The completed
// task itself is never modified. newID is the identifier the caller
// allocated for the new record.
func NextInstance(completed model.Task, newID string) model.Task {
	next := completed
	next.ID = newID
	next.Completed = false
	next.DueDate = Advance(completed.DueDate, completed.Recurrence)
	next.RootTaskID = mo.Some(completed.Root())
	return next
}

// Chain groups tasks by their chain root, so every instance of a
// recurring task is directly queryable as one relation. Non-repeating
// tasks form single-element chains keyed by their own id.
func Chain(tasks []model.Task) map[string][]model.Task {
	chains := make(map[string][]model.Task)
	for _, t := range tasks {
		root := t.Root()
		chains[root] = append(chains[root], t)
	}
	return chains
}
