// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_DrainPreservesOrder(t *testing.T) {
	q := New[int](0, Unbounded)

	for i := range 100 {
		require.NoError(t, q.Push(i))
	}
	assert.Equal(t, 100, q.Len())

	items := q.Drain()
	require.Len(t, items, 100)
	for i, item := range items {
		assert.Equal(t, i, item)
	}

	assert.Nil(t, q.Drain(), "second drain should be empty")
	assert.Equal(t, 0, q.Len())
}

func TestQueue_PopEmpty(t *testing.T) {
	q := New[string](0, Unbounded)

	item, ok := q.Pop()
	assert.False(t, ok)
	assert.Empty(t, item)
}

func TestQueue_PopThenDrain(t *testing.T) {
	q := New[string](0, Unbounded)
	require.NoError(t, q.Push("a"))
	require.NoError(t, q.Push("b"))
	require.NoError(t, q.Push("c"))

	item, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "a", item)

	assert.Equal(t, []string{"b", "c"}, q.Drain())
}

func TestQueue_DropOldest(t *testing.T) {
	q := New[int](3, DropOldest)

	for i := range 3 {
		require.NoError(t, q.Push(i))
	}
	err := q.Push(3)
	require.ErrorIs(t, err, ErrOldestEvicted)
	err = q.Push(4)
	require.ErrorIs(t, err, ErrOldestEvicted)

	assert.Equal(t, []int{2, 3, 4}, q.Drain())
	assert.Equal(t, uint64(2), q.Dropped())
}

func TestQueue_DropNewest(t *testing.T) {
	q := New[int](2, DropNewest)

	require.NoError(t, q.Push(1))
	require.NoError(t, q.Push(2))
	require.ErrorIs(t, q.Push(3), ErrQueueFull)

	assert.Equal(t, []int{1, 2}, q.Drain())
	assert.Equal(t, uint64(1), q.Dropped())

	// Room again after draining.
	require.NoError(t, q.Push(5))
	assert.Equal(t, []int{5}, q.Drain())
}

func TestQueue_ZeroCapacityIsUnbounded(t *testing.T) {
	q := New[int](0, DropNewest)
	assert.Equal(t, Unbounded, q.Policy())
	assert.Equal(t, 0, q.Capacity())

	for i := range 1000 {
		require.NoError(t, q.Push(i))
	}
	assert.Equal(t, 1000, q.Len())
	assert.Zero(t, q.Dropped())
}

func TestQueue_ConcurrentProducerConsumer(t *testing.T) {
	const total = 10000
	q := New[int](0, Unbounded)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range total {
			_ = q.Push(i)
		}
	}()

	received := make([]int, 0, total)
	for len(received) < total {
		received = append(received, q.Drain()...)
	}
	wg.Wait()

	for i, item := range received {
		require.Equal(t, i, item, "items must leave in push order")
	}
}

func TestParsePolicy(t *testing.T) {
	testCases := []struct {
		in       string
		expected Policy
		wantErr  bool
	}{
		{in: "", expected: Unbounded},
		{in: "unbounded", expected: Unbounded},
		{in: "drop-oldest", expected: DropOldest},
		{in: " Drop_Oldest ", expected: DropOldest},
		{in: "drop-newest", expected: DropNewest},
		{in: "newest", expected: DropNewest},
		{in: "lifo", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			policy, err := ParsePolicy(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnknownPolicy)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, policy)
		})
	}
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "unbounded", Unbounded.String())
	assert.Equal(t, "drop-oldest", DropOldest.String())
	assert.Equal(t, "drop-newest", DropNewest.String())
	assert.Equal(t, "Policy(9)", Policy(9).String())

	for _, p := range []Policy{Unbounded, DropOldest, DropNewest} {
		parsed, err := ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(0, Unbounded))
	assert.NoError(t, Validate(10, DropOldest))
	assert.Error(t, Validate(-1, DropOldest))
	assert.ErrorIs(t, Validate(1, Policy(7)), ErrUnknownPolicy)
}
