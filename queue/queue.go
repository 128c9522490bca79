// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package queue implements the mutex guarded hand-off queue that sits between
// a receive loop and the consumer draining it.
package queue

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Static errors for err113 compliance.
var (
	ErrQueueFull        = errors.New("queue full, item dropped")
	ErrOldestEvicted    = errors.New("queue full, oldest item evicted")
	ErrUnknownPolicy    = errors.New("unknown overflow policy")
	errNegativeCapacity = errors.New("negative capacity")
)

// Policy decides what happens when a bounded queue is full.
type Policy int

const (
	// Unbounded never drops; the queue grows until drained.
	Unbounded Policy = iota
	// DropOldest evicts the oldest pending item to make room.
	DropOldest
	// DropNewest discards the item being pushed.
	DropNewest
)

func (p Policy) String() string {
	switch p {
	case Unbounded:
		return "unbounded"
	case DropOldest:
		return "drop-oldest"
	case DropNewest:
		return "drop-newest"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps a configuration string to a Policy. The empty string is
// Unbounded.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unbounded":
		return Unbounded, nil
	case "drop-oldest", "drop_oldest", "oldest":
		return DropOldest, nil
	case "drop-newest", "drop_newest", "newest":
		return DropNewest, nil
	default:
		return Unbounded, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Queue is a FIFO shared by one producer and one consumer. The lock is only
// held for the duration of a push or a drain.
type Queue[T any] struct {
	mu       sync.Mutex
	items    []T
	capacity int
	policy   Policy
	dropped  uint64
}

// New creates a queue. A capacity <= 0 or the Unbounded policy disables the
// limit.
func New[T any](capacity int, policy Policy) *Queue[T] {
	if capacity <= 0 {
		policy = Unbounded
	}
	if policy == Unbounded {
		capacity = 0
	}

	return &Queue[T]{
		capacity: capacity,
		policy:   policy,
	}
}

// Validate reports whether capacity and policy form a usable combination.
func Validate(capacity int, policy Policy) error {
	if capacity < 0 {
		return fmt.Errorf("%w: %d", errNegativeCapacity, capacity)
	}
	switch policy {
	case Unbounded, DropOldest, DropNewest:
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrUnknownPolicy, policy)
	}
}

// Push appends item.
// If the queue is full it returns ErrOldestEvicted after storing item and
// discarding the oldest one, or ErrQueueFull after discarding item,
// depending on the policy.
func (q *Queue[T]) Push(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.capacity == 0 || len(q.items) < q.capacity {
		q.items = append(q.items, item)

		return nil
	}

	q.dropped++
	if q.policy == DropNewest {
		return ErrQueueFull
	}

	var zero T
	q.items[0] = zero
	q.items = append(q.items[1:], item)

	return ErrOldestEvicted
}

// Drain removes and returns every pending item in arrival order. It returns
// nil when nothing is pending.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.items
	q.items = nil

	return items
}

// Pop removes and returns the oldest pending item.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}

	return item, true
}

// Len returns the number of pending items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}

// Capacity returns the configured limit, 0 when unbounded.
func (q *Queue[T]) Capacity() int {
	return q.capacity
}

// Policy returns the overflow policy.
func (q *Queue[T]) Policy() Policy {
	return q.policy
}

// Dropped returns how many items were discarded because the queue was full.
func (q *Queue[T]) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.dropped
}
