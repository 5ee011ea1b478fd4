package task

import (
	"sync"
	"time"
)

// ChangeKind names the mutation that produced a Change.
type ChangeKind string

const (
	ChangeAdded     ChangeKind = "added"
	ChangeEdited    ChangeKind = "edited"
	ChangeCompleted ChangeKind = "completed"
	ChangeDeleted   ChangeKind = "deleted"
)

// Change describes one effective mutation of a Store.
type Change struct {
	Kind ChangeKind
	// Task is the task after the mutation (before it, for deletions).
	Task Task
	// Snapshot is the state of the store right after the mutation.
	Snapshot Snapshot
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for completion dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithFirstID sets the ID assigned to the first added task.
func WithFirstID(id ID) Option {
	return func(s *Store) {
		s.nextID = id
	}
}

// Store holds the "Todo List" and "Completed" collections and is the only
// place they are mutated. Operations on ids that are not in "Todo List" are no-ops.
//
// Mutations are serialized together with the delivery of their Change, so
// subscribers observe changes in the order they were applied. Subscribers may
// read the store but must not mutate it.
type Store struct {
	// writeMu is held across a mutation and its notification; mu guards the data.
	writeMu sync.Mutex

	mu        sync.Mutex
	todo      []Task
	completed []Task
	nextID    ID
	now       func() time.Time

	subMu       sync.RWMutex
	subscribers map[int]func(Change)
	subOrder    []int
	nextSub     int
}

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		todo:        make([]Task, 0),
		completed:   make([]Task, 0),
		nextID:      1,
		now:         time.Now,
		subscribers: make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddTask appends a new active task with the given title and returns it.
// Empty titles are accepted.
func (s *Store) AddTask(title string) Task {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	t := Task{
		ID:    s.nextID,
		Title: title,
	}
	s.nextID++
	s.todo = append(s.todo, t)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeAdded, Task: t, Snapshot: snap})
	return t
}

// DeleteTask removes the task with the given id from "Todo List".
// It reports whether a task was removed.
func (s *Store) DeleteTask(id ID) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	removed := s.todo[i]
	s.todo = append(s.todo[:i], s.todo[i+1:]...)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeDeleted, Task: removed, Snapshot: snap})
	return true
}

// CompleteTask moves the task with the given id from "Todo List" to the end of
// "Completed" and stamps it with today's date. It returns the completed task and
// whether the task was found.
func (s *Store) CompleteTask(id ID) (Task, bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return Task{}, false
	}
	t := s.todo[i]
	s.todo = append(s.todo[:i], s.todo[i+1:]...)

	date := DateOf(s.now())
	t.Completed = true
	t.CompletionDate = &date
	s.completed = append(s.completed, t)

	out := t.clone()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeCompleted, Task: out.clone(), Snapshot: snap})
	return out, true
}

// EditTask replaces the title of the active task with the given id.
// Completed tasks cannot be edited.
func (s *Store) EditTask(id ID, title string) (Task, bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return Task{}, false
	}
	s.todo[i].Title = title
	t := s.todo[i]
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeEdited, Task: t, Snapshot: snap})
	return t, true
}

// Snapshot returns a copy of both collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to be called after every effective mutation.
// Subscribers run synchronously in registration order. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.subOrder = append(s.subOrder, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			delete(s.subscribers, id)
			for i, sid := range s.subOrder {
				if sid == id {
					s.subOrder = append(s.subOrder[:i], s.subOrder[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *Store) notify(c Change) {
	s.subMu.RLock()
	fns := make([]func(Change), 0, len(s.subOrder))
	for _, id := range s.subOrder {
		fns = append(fns, s.subscribers[id])
	}
	s.subMu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}

func (s *Store) indexLocked(id ID) int {
	for i, t := range s.todo {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		TodoList:  make([]Task, len(s.todo)),
		Completed: make([]Task, len(s.completed)),
	}
	for i, t := range s.todo {
		snap.TodoList[i] = t.clone()
	}
	for i, t := range s.completed {
		snap.Completed[i] = t.clone()
	}
	return snap
}
