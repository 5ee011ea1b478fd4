package task

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ID identifies a task. IDs are assigned by a Store from a monotonic counter.
type ID int64

// ParseID parses a decimal task ID.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q: %w", s, err)
	}
	return ID(n), nil
}

// String returns the decimal form of the ID.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Collection names. Both collections exist in every Snapshot.
const (
	TodoList  = "Todo List"
	Completed = "Completed"
)

// dateLayout is the wire and display format of a Date.
const dateLayout = "2006-01-02"

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Task is a single to-do item.
type Task struct {
	ID             ID     `json:"id"`
	Title          string `json:"title"`
	Completed      bool   `json:"completed"`
	CompletionDate *Date  `json:"completionDate,omitempty"`
}

// clone returns a copy that shares no memory with t.
func (t Task) clone() Task {
	if t.CompletionDate != nil {
		d := *t.CompletionDate
		t.CompletionDate = &d
	}
	return t
}

// Snapshot is a read-only copy of both task collections.
// Neither slice is ever nil.
type Snapshot struct {
	TodoList  []Task `json:"Todo List"`
	Completed []Task `json:"Completed"`
}

// Collection returns the tasks of the named collection.
// Unknown names return nil.
func (s Snapshot) Collection(name string) []Task {
	switch name {
	case TodoList:
		return s.TodoList
	case Completed:
		return s.Completed
	}
	return nil
}

// UnmarshalJSON decodes a snapshot and normalizes missing collections to empty slices.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type plain Snapshot
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.TodoList == nil {
		p.TodoList = []Task{}
	}
	if p.Completed == nil {
		p.Completed = []Task{}
	}
	*s = Snapshot(p)
	return nil
}
