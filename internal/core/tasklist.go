package core

import (
	"fmt"
	"slices"

	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

// SortKey selects the date a task list is sorted by.
type SortKey string

const (
	SortByStart SortKey = "startDate"
	SortByEnd   SortKey = "endDate"
)

// ParseSortKey accepts the key names and the short CLI forms "start" and
// "end".
func ParseSortKey(s string) (SortKey, error) {
	switch s {
	case "start", string(SortByStart):
		return SortByStart, nil
	case "end", string(SortByEnd):
		return SortByEnd, nil
	}
	return "", fmt.Errorf("unknown sort key %q: want start or end", s)
}

// SortDirection is ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortState is an active date sort. A nil *SortState means list order.
type SortState struct {
	Key       SortKey       `json:"key"`
	Direction SortDirection `json:"direction"`
}

// Toggle advances the sort for a header click on key: none, ascending,
// descending, then none again. A different key restarts at ascending.
func (s *SortState) Toggle(key SortKey) *SortState {
	if s == nil || s.Key != key {
		return &SortState{Key: key, Direction: Ascending}
	}
	if s.Direction == Ascending {
		return &SortState{Key: key, Direction: Descending}
	}
	return nil
}

// Arrow returns the header indicator for key: ▲, ▼ or ↕ when key is not the
// active sort.
func (s *SortState) Arrow(key SortKey) string {
	if s == nil || s.Key != key {
		return "↕"
	}
	if s.Direction == Ascending {
		return "▲"
	}
	return "▼"
}

// SortTasks returns a sorted copy of tasks. Tasks with equal dates keep their
// list order in both directions.
func SortTasks(tasks []models.Task, s *SortState) []models.Task {
	out := slices.Clone(tasks)
	if s == nil {
		return out
	}
	date := func(t models.Task) models.Date {
		if s.Key == SortByEnd {
			return t.EndDate
		}
		return t.StartDate
	}
	slices.SortStableFunc(out, func(a, b models.Task) int {
		c := date(a).Compare(date(b))
		if s.Direction == Descending {
			return -c
		}
		return c
	})
	return out
}

// ReorderTasks moves the task fromID to the index currently held by toID.
// It returns the new list and whether anything moved; a missing ID or
// fromID == toID returns tasks unchanged.
func ReorderTasks(tasks []models.Task, fromID, toID string) ([]models.Task, bool) {
	from, to := -1, -1
	for i, t := range tasks {
		if t.ID == fromID {
			from = i
		}
		if t.ID == toID {
			to = i
		}
	}
	if from < 0 || to < 0 || from == to {
		return tasks, false
	}
	out := slices.Clone(tasks)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, moved)
	return out, true
}
