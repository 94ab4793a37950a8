package ordering

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func bucketOf(n int) []Entry {
	entries := make([]Entry, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range entries {
		entries[i] = Entry{
			ID:        uuid.New(),
			Order:     i + 1,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return entries
}

func orderByID(updates []Update) map[uuid.UUID]int {
	m := make(map[uuid.UUID]int, len(updates))
	for _, u := range updates {
		m[u.ID] = u.Order
	}
	return m
}

func TestPlan_MoveLastToFront(t *testing.T) {
	// Year 1784: A=1, B=2, C=3. Moving C to index 0 yields C=1, A=2, B=3.
	entries := bucketOf(3)
	a, b, c := entries[0], entries[1], entries[2]

	updates, err := Plan(entries, c.ID, 0, Reject)
	require.NoError(t, err)

	got := orderByID(updates)
	require.Equal(t, 1, got[c.ID])
	require.Equal(t, 2, got[a.ID])
	require.Equal(t, 3, got[b.ID])
}

func TestPlan_MoveFirstToEnd(t *testing.T) {
	entries := bucketOf(3)
	a, b, c := entries[0], entries[1], entries[2]

	updates, err := Plan(entries, a.ID, 2, Reject)
	require.NoError(t, err)

	got := orderByID(updates)
	require.Equal(t, 1, got[b.ID])
	require.Equal(t, 2, got[c.ID])
	require.Equal(t, 3, got[a.ID])
}

func TestPlan_ResultIsAlwaysDense(t *testing.T) {
	entries := bucketOf(7)
	for target := 0; target < len(entries); target++ {
		updates, err := Plan(entries, entries[3].ID, target, Reject)
		require.NoError(t, err)
		require.Len(t, updates, len(entries))

		seen := make(map[int]bool)
		for _, u := range updates {
			require.GreaterOrEqual(t, u.Order, 1)
			require.LessOrEqual(t, u.Order, len(entries))
			require.False(t, seen[u.Order], "duplicate order %d", u.Order)
			seen[u.Order] = true
		}
	}
}

func TestPlan_NoOpMoveKeepsOrders(t *testing.T) {
	entries := bucketOf(4)

	updates, err := Plan(entries, entries[2].ID, 2, Reject)
	require.NoError(t, err)

	got := orderByID(updates)
	for _, e := range entries {
		require.Equal(t, e.Order, got[e.ID])
	}
}

func TestPlan_CreatedAtBreaksOrderTies(t *testing.T) {
	// Entries never explicitly arranged carry order zero; creation time
	// decides their relative position.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := Entry{ID: uuid.New(), Order: 0, CreatedAt: base}
	newer := Entry{ID: uuid.New(), Order: 0, CreatedAt: base.Add(time.Minute)}

	updates, err := Plan([]Entry{newer, older}, newer.ID, 1, Reject)
	require.NoError(t, err)

	got := orderByID(updates)
	require.Equal(t, 1, got[older.ID])
	require.Equal(t, 2, got[newer.ID])
}

func TestPlan_UnknownEntryRejected(t *testing.T) {
	entries := bucketOf(3)
	_, err := Plan(entries, uuid.New(), 0, Reject)
	require.ErrorIs(t, err, ErrNotInBucket)
}

func TestPlan_EmptyBucketRejected(t *testing.T) {
	_, err := Plan(nil, uuid.New(), 0, Clamp)
	require.ErrorIs(t, err, ErrNotInBucket)
}

func TestPlan_NegativeIndexRejectedByBothPolicies(t *testing.T) {
	entries := bucketOf(3)
	for _, policy := range []BoundsPolicy{Clamp, Reject} {
		_, err := Plan(entries, entries[0].ID, -1, policy)
		require.ErrorIs(t, err, ErrIndexOutOfRange)
	}
}

func TestPlan_OvershootClampsToEnd(t *testing.T) {
	entries := bucketOf(3)

	updates, err := Plan(entries, entries[0].ID, 99, Clamp)
	require.NoError(t, err)

	got := orderByID(updates)
	require.Equal(t, 3, got[entries[0].ID])
}

func TestPlan_OvershootRejectedUnderRejectPolicy(t *testing.T) {
	entries := bucketOf(3)
	_, err := Plan(entries, entries[0].ID, 3, Reject)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestPlan_SingleEntryBucket(t *testing.T) {
	entries := bucketOf(1)

	updates, err := Plan(entries, entries[0].ID, 0, Reject)
	require.NoError(t, err)
	require.Equal(t, []Update{{ID: entries[0].ID, Order: 1}}, updates)
}

func TestPlan_DoesNotMutateInput(t *testing.T) {
	entries := bucketOf(3)
	snapshot := make([]Entry, len(entries))
	copy(snapshot, entries)

	_, err := Plan(entries, entries[2].ID, 0, Reject)
	require.NoError(t, err)
	require.Equal(t, snapshot, entries)
}

func TestRenumber_ClosesGaps(t *testing.T) {
	entries := bucketOf(4)
	// Simulate a departed sibling: orders 1, 3, 4, 6.
	entries[1].Order = 3
	entries[2].Order = 4
	entries[3].Order = 6

	got := orderByID(Renumber(entries))
	for i, e := range entries {
		require.Equal(t, i+1, got[e.ID])
	}
}

func TestRenumber_PreservesArrangement(t *testing.T) {
	entries := bucketOf(3)

	got := orderByID(Renumber(entries))
	require.Equal(t, 1, got[entries[0].ID])
	require.Equal(t, 2, got[entries[1].ID])
	require.Equal(t, 3, got[entries[2].ID])
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("clamp")
	require.NoError(t, err)
	require.Equal(t, Clamp, p)

	p, err = ParsePolicy("reject")
	require.NoError(t, err)
	require.Equal(t, Reject, p)

	_, err = ParsePolicy("truncate")
	require.Error(t, err)
}

func TestGuard_SerializesSameBucket(t *testing.T) {
	guard := NewGuard()

	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := guard.Lock("works", 1784)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	require.Equal(t, 50, counter)
}

func TestGuard_DistinctBucketsDoNotBlock(t *testing.T) {
	guard := NewGuard()

	unlockWorks := guard.Lock("works", 1784)
	defer unlockWorks()

	done := make(chan struct{})
	go func() {
		unlock := guard.Lock("chronicle", 1784)
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different kind blocked")
	}
}
