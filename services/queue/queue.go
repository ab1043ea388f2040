// Package queue implements the bounded FIFO slot queues embedded in a
// doctor's slot map. All operations mutate the map in memory; persisting
// the result atomically is the caller's job.
package queue

import (
	"errors"

	"mediq/models"
)

// ErrSlotFull is returned by Append when the queue is at capacity.
var ErrSlotFull = errors.New("slot is at capacity")

// Position describes where an appointment sits in its slot queue.
// Defaulted marks the backward-compatible fallback used when the
// appointment is not present in the queue (stale or legacy records, or
// slot data that has drifted) - not an error.
type Position struct {
	Position    int
	PeopleAhead int
	Total       int
	Defaulted   bool
}

// Remaining returns the number of free places in the (date, slot) queue.
func Remaining(m models.SlotMap, date, slot string, capacity int) int {
	free := capacity - len(m[date][slot])
	if free < 0 {
		return 0
	}
	return free
}

// Append adds an appointment id to the back of the (date, slot) queue and
// returns its 1-based position. Missing date/time levels are created on
// demand.
func Append(m models.SlotMap, date, slot, id string, capacity int) (int, error) {
	if len(m[date][slot]) >= capacity {
		return 0, ErrSlotFull
	}
	if m[date] == nil {
		m[date] = models.DaySlots{}
	}
	m[date][slot] = append(m[date][slot], id)
	return len(m[date][slot]), nil
}

// Remove deletes an appointment id from the (date, slot) queue, closing
// the gap. Removing an absent id is a no-op. Empty time queues and empty
// date maps are pruned immediately so no empty structures persist.
func Remove(m models.SlotMap, date, slot, id string) bool {
	q, ok := m[date][slot]
	if !ok {
		return false
	}

	removed := false
	kept := q[:0]
	for _, entry := range q {
		if entry == id {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	if !removed {
		return false
	}

	if len(kept) == 0 {
		delete(m[date], slot)
		if len(m[date]) == 0 {
			delete(m, date)
		}
	} else {
		m[date][slot] = kept
	}
	return true
}

// PositionOf resolves an appointment's live queue position. When the id is
// not present the front-of-queue default {1, 0, 1} is returned with
// Defaulted set, covering bookings created before queue tracking existed
// and slot data lost to drift.
func PositionOf(m models.SlotMap, date, slot, id string) Position {
	for i, entry := range m[date][slot] {
		if entry == id {
			return Position{
				Position:    i + 1,
				PeopleAhead: i,
				Total:       len(m[date][slot]),
			}
		}
	}
	return Position{Position: 1, PeopleAhead: 0, Total: 1, Defaulted: true}
}

// SecondInLine returns the appointment id at queue index 1, if the queue
// holds at least two entries. That appointment becomes eligible again for
// a "you're next" notification after a rebalance.
func SecondInLine(m models.SlotMap, date, slot string) (string, bool) {
	q := m[date][slot]
	if len(q) < 2 {
		return "", false
	}
	return q[1], true
}
