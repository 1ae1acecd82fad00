// Package rotation implements the featured-content selection logic for the
// spotlight rotation.
package rotation

import (
	"errors"
	"math/rand"
)

// ErrEmptySource indicates a selection was requested from an empty pool.
var ErrEmptySource = errors.New("at least one candidate must be provided")

// ErrInvalidCount indicates the requested selection size is outside the
// valid range for the pool.
var ErrInvalidCount = errors.New("count must be between 1 and the number of candidates")

// Pick selects count elements from source using the provided random source.
//
// # Determinism
//
// Pick is deterministic with respect to the state of rng. Given a source
// seeded identically and the same source slice (including order), Pick
// will always produce the same selection.
//
// # Ordering
//
// The first element of the selection is always source[0]; the newest entry
// is never rotated out. The remaining elements appear in the order they
// were drawn, not in source order.
//
// # Draw window
//
// Each draw picks from the front of the remaining candidates, bounded by
// the number of slots still left to fill. With a source of 10 and a count
// of 4 the second element always comes from source[1..3]; entries further
// back surface only as the ones ahead of them are consumed.
//
// # Errors
//
//   - ErrEmptySource when source has no elements.
//   - ErrInvalidCount when count < 1 or count > len(source).
func Pick[T any](rng *rand.Rand, source []T, count int) ([]T, error) {
	if len(source) == 0 {
		return nil, ErrEmptySource
	}
	if count < 1 || count > len(source) {
		return nil, ErrInvalidCount
	}

	selected := make([]T, 0, count)
	selected = append(selected, source[0])

	remaining := make([]T, len(source)-1)
	copy(remaining, source[1:])
	for len(selected) < count {
		index := rng.Intn(count - len(selected))
		selected = append(selected, remaining[index])
		remaining = append(remaining[:index], remaining[index+1:]...)
	}

	return selected, nil
}

// PickSeeded selects count elements from source using a generator seeded
// with seed. It is the reproducible entry point for callers that do not
// hold a random source of their own.
func PickSeeded[T any](seed int64, source []T, count int) ([]T, error) {
	rng := rand.New(rand.NewSource(seed))
	return Pick(rng, source, count)
}
