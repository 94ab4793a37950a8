// Package ordering maintains dense, manually arranged orderings for entries
// grouped into buckets (composition or event years). An entry participates
// only when it carries no finer-grained date than the bucket itself; moving
// one entry rewrites the order of every sibling in its bucket so the values
// stay the contiguous sequence 1..N.
package ordering

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotInBucket     = errors.New("entry not found in bucket")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// BoundsPolicy controls how an out-of-range target index is treated.
type BoundsPolicy string

const (
	// Clamp moves the entry to the nearest end on overshoot. Negative
	// indexes are still rejected.
	Clamp BoundsPolicy = "clamp"
	// Reject fails the move for any index outside [0, N-1].
	Reject BoundsPolicy = "reject"
)

func ParsePolicy(s string) (BoundsPolicy, error) {
	switch BoundsPolicy(s) {
	case Clamp, Reject:
		return BoundsPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown bounds policy %q", s)
	}
}

// Entry is one bucket sibling as loaded from storage. Order may be zero for
// entries that have never been explicitly arranged; CreatedAt breaks ties.
type Entry struct {
	ID        uuid.UUID
	Order     int
	CreatedAt time.Time
}

// Update is one (id, order) pair to persist. Plan returns a pair for every
// sibling so persistence rewrites the bucket exactly.
type Update struct {
	ID    uuid.UUID
	Order int
}

// Plan computes the dense 1-based ordering that results from moving moveID to
// newIndex within its bucket. The input is re-sorted by (Order asc,
// CreatedAt asc), so callers may pass siblings in storage order.
func Plan(entries []Entry, moveID uuid.UUID, newIndex int, policy BoundsPolicy) ([]Update, error) {
	if len(entries) == 0 {
		return nil, ErrNotInBucket
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	currentIndex := -1
	for i, e := range sorted {
		if e.ID == moveID {
			currentIndex = i
			break
		}
	}
	if currentIndex == -1 {
		return nil, ErrNotInBucket
	}

	if newIndex < 0 {
		return nil, ErrIndexOutOfRange
	}
	if newIndex > len(sorted)-1 {
		if policy == Reject {
			return nil, ErrIndexOutOfRange
		}
		newIndex = len(sorted) - 1
	}

	moved := sorted[currentIndex]
	rest := append(sorted[:currentIndex:currentIndex], sorted[currentIndex+1:]...)
	resequenced := make([]Entry, 0, len(sorted))
	resequenced = append(resequenced, rest[:newIndex]...)
	resequenced = append(resequenced, moved)
	resequenced = append(resequenced, rest[newIndex:]...)

	updates := make([]Update, len(resequenced))
	for i, e := range resequenced {
		updates[i] = Update{ID: e.ID, Order: i + 1}
	}
	return updates, nil
}

// Renumber returns the dense 1-based renumbering of the bucket without
// moving anything. Used to close the gap left when an entry departs a
// bucket (date refined, year changed, entry deleted).
func Renumber(entries []Entry) []Update {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	updates := make([]Update, len(sorted))
	for i, e := range sorted {
		updates[i] = Update{ID: e.ID, Order: i + 1}
	}
	return updates
}
