// Package history implements a bounded, linear undo/redo log.
//
// Every Save after an Undo drops the entries beyond the cursor, so the log
// never branches. Once the log grows past its limit the oldest entry is
// evicted.
package history

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLimit is the number of entries kept when no limit is given.
const DefaultLimit = 50

// Entry is one point-in-time state recorded in the log.
type Entry[T any] struct {
	ID    string
	Time  time.Time
	State T
}

// Stack is a linear history of states with a cursor.
//
// The cursor is -1 for an empty stack and otherwise indexes the entry that
// reflects the current state.
type Stack[T any] struct {
	entries []Entry[T]
	index   int
	limit   int

	now func() time.Time
}

// New creates an empty history holding at most limit entries.
// A limit below 1 selects DefaultLimit.
func New[T any](limit int) *Stack[T] {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Stack[T]{
		index: -1,
		limit: limit,
		now:   time.Now,
	}
}

// Save records state as the newest entry and moves the cursor onto it.
// Entries after the cursor are discarded first.
func (s *Stack[T]) Save(state T) Entry[T] {
	if s.index < len(s.entries)-1 {
		clear(s.entries[s.index+1:])
		s.entries = s.entries[:s.index+1]
	}

	e := Entry[T]{
		ID:    uuid.NewString(),
		Time:  s.now(),
		State: state,
	}
	s.entries = append(s.entries, e)
	s.index++

	if len(s.entries) > s.limit {
		// Shift instead of reslicing so evicted states can be collected.
		n := copy(s.entries, s.entries[1:])
		var zero Entry[T]
		s.entries[n] = zero
		s.entries = s.entries[:n]
		s.index--
	}
	return e
}

// Undo moves the cursor back one entry and returns it.
// It reports false when there is nothing to undo.
func (s *Stack[T]) Undo() (Entry[T], bool) {
	if !s.CanUndo() {
		var zero Entry[T]
		return zero, false
	}
	s.index--
	return s.entries[s.index], true
}

// Redo moves the cursor forward one entry and returns it.
// It reports false when there is nothing to redo.
func (s *Stack[T]) Redo() (Entry[T], bool) {
	if !s.CanRedo() {
		var zero Entry[T]
		return zero, false
	}
	s.index++
	return s.entries[s.index], true
}

// CanUndo reports whether Undo would move the cursor.
func (s *Stack[T]) CanUndo() bool { return s.index > 0 }

// CanRedo reports whether Redo would move the cursor.
func (s *Stack[T]) CanRedo() bool { return s.index < len(s.entries)-1 }

// Clear drops every entry.
func (s *Stack[T]) Clear() {
	clear(s.entries)
	s.entries = s.entries[:0]
	s.index = -1
}

// Current returns the entry under the cursor.
func (s *Stack[T]) Current() (Entry[T], bool) {
	if s.index < 0 {
		var zero Entry[T]
		return zero, false
	}
	return s.entries[s.index], true
}

// Len returns the number of entries.
func (s *Stack[T]) Len() int { return len(s.entries) }

// Index returns the cursor position.
func (s *Stack[T]) Index() int { return s.index }

// Limit returns the maximum number of entries.
func (s *Stack[T]) Limit() int { return s.limit }

// Entries returns a copy of the log, oldest first.
func (s *Stack[T]) Entries() []Entry[T] {
	out := make([]Entry[T], len(s.entries))
	copy(out, s.entries)
	return out
}
