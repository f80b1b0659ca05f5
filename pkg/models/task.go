package models

// Task is a single scheduled item on a project timeline.
type Task struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	StartDate Date   `json:"startDate" yaml:"start_date"`
	EndDate   Date   `json:"endDate" yaml:"end_date"`
	Progress  int    `json:"progress" yaml:"progress"`
	Color     Color  `json:"color" yaml:"color"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// DurationDays returns the inclusive number of calendar days the task spans.
// A task whose end precedes its start reports 1.
func (t Task) DurationDays() int {
	n := t.EndDate.DaysSince(t.StartDate) + 1
	if n < 1 {
		return 1
	}
	return n
}

// TaskPatch is a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	StartDate *Date `json:"startDate,omitempty"`
	EndDate   *Date `json:"endDate,omitempty"`
	Progress  *int  `json:"progress,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.StartDate == nil && p.EndDate == nil && p.Progress == nil
}

// Apply returns a copy of t with the patch applied.
func (t Task) Apply(p TaskPatch) Task {
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.Progress != nil {
		t.Progress = *p.Progress
	}
	return t
}

// Equal reports whether t and o hold the same values.
func (t Task) Equal(o Task) bool {
	return t.ID == o.ID && t.Name == o.Name &&
		t.StartDate.Equal(o.StartDate) && t.EndDate.Equal(o.EndDate) &&
		t.Progress == o.Progress && t.Color == o.Color && t.Completed == o.Completed
}
