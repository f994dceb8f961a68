package sfcmap

import (
	"testing"

	"golang.org/x/exp/slices"
)

// usersWithRates builds one instance per rate, numbered in order, each on its
// own chain of a single function with the given cpu cost
func usersWithRates(rates []float64, cpu []float64) []*ChainUser {
	users := []*ChainUser{}
	for idx, rate := range rates {
		chain := &Chain{ID: idx, Name: "c", Rate: rate,
			Functions: []*Function{{Name: "f", CPU: cpu[idx], Mem: 1}}}
		users = append(users, CreateChainUser(idx, chain, 0, 1))
	}
	return users
}

func numbers(users []*ChainUser) []int {
	nums := make([]int, len(users))
	for idx, cu := range users {
		nums[idx] = cu.Number
	}
	return nums
}

func TestOrderDemands(t *testing.T) {
	users := usersWithRates([]float64{1, 3, 2, 3, 1}, []float64{1, 1, 1, 2, 5})

	tests := []struct {
		batchSize int
		want      [][]int
	}{
		// rate 3 first, the heavier of the two (user 3) ahead; then rate 2, then rate 1 heaviest first
		{0, [][]int{{3, 1, 2, 4, 0}}},
		{2, [][]int{{1, 0}, {3, 2}, {4}}},
		{3, [][]int{{1, 2, 0}, {3, 4}}},
		{1, [][]int{{0}, {1}, {2}, {3}, {4}}},
		{10, [][]int{{3, 1, 2, 4, 0}}},
	}
	for _, test := range tests {
		batches := OrderDemands(users, test.batchSize)
		if len(batches) != len(test.want) {
			t.Fatalf("batch size %d: got %d batches want %d", test.batchSize, len(batches), len(test.want))
		}
		for idx, batch := range batches {
			if got := numbers(batch); !slices.Equal(got, test.want[idx]) {
				t.Errorf("batch size %d, batch %d: got %v want %v", test.batchSize, idx, got, test.want[idx])
			}
		}
	}

	// the input keeps catalog order
	if got := numbers(users); !slices.Equal(got, []int{0, 1, 2, 3, 4}) {
		t.Errorf("input reordered to %v", got)
	}
}

func TestOrderDemandsStable(t *testing.T) {
	users := usersWithRates([]float64{2, 2, 2, 2}, []float64{1, 1, 1, 1})
	if got := numbers(flatten(OrderDemands(users, 0))); !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Errorf("got %v for equal demands want catalog order", got)
	}
	if batches := OrderDemands(nil, 3); len(batches) != 0 {
		t.Errorf("got %d batches from no instances want 0", len(batches))
	}
}
