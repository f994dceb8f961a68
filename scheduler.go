package sfcmap

// scheduler.go holds the ordering policies that decide in what sequence the
// chain-user instances of a catalog are offered to a heuristic.
//
// Instances are first cut, in catalog order, into consecutive batches of a fixed
// size (the last batch holding the remainder).  Within a batch the heaviest
// demands go first: descending traffic rate, then descending cpu demand times
// rate.  The sort is stable, so instances equal on both keys keep catalog order,
// and a batch size of one reproduces the online order exactly.

import (
	"golang.org/x/exp/slices"
)

// OrderDemands partitions users into batches of batchSize and sorts each batch.
// A batchSize of zero or less puts every instance in a single batch.  The slice
// passed in is not modified.
func OrderDemands(users []*ChainUser, batchSize int) [][]*ChainUser {
	if batchSize <= 0 || batchSize > len(users) {
		batchSize = len(users)
	}
	batches := [][]*ChainUser{}
	for start := 0; start < len(users); start += batchSize {
		end := start + batchSize
		if end > len(users) {
			end = len(users)
		}
		batch := make([]*ChainUser, end-start)
		copy(batch, users[start:end])
		slices.SortStableFunc(batch, heavierFirst)
		batches = append(batches, batch)
	}
	return batches
}

// heavierFirst orders instances by descending rate, then descending weight
func heavierFirst(a, b *ChainUser) int {
	switch {
	case a.Rate > b.Rate:
		return -1
	case a.Rate < b.Rate:
		return 1
	}
	wa, wb := a.Weight(), b.Weight()
	switch {
	case wa > wb:
		return -1
	case wa < wb:
		return 1
	}
	return 0
}

// flatten concatenates batches in order
func flatten(batches [][]*ChainUser) []*ChainUser {
	users := []*ChainUser{}
	for _, batch := range batches {
		users = append(users, batch...)
	}
	return users
}
