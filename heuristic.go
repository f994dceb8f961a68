package sfcmap

import (
	"fmt"
)

// Heuristic pairs a path-selection strategy with a node-placement strategy.
// Every algorithm variant is one such pairing sharing the same outer loop.
type Heuristic struct {
	Name     string
	Selector PathSelector
	Placer   NodePlacer

	// Alpha is reported with the placement cost of the chosen path
	Alpha float64
}

// NewHeuristic builds the strategy pair named by algorithm
func NewHeuristic(algorithm string, alpha, tolerance float64) (*Heuristic, error) {
	switch algorithm {
	case AlgBalanced:
		return &Heuristic{Name: algorithm, Alpha: alpha,
			Selector: &BalancedSelector{Alpha: alpha}, Placer: &WaterFilling{}}, nil
	case AlgBalancedShort:
		return &Heuristic{Name: algorithm, Alpha: alpha,
			Selector: &BalancedSelector{Alpha: alpha, ShortBias: true}, Placer: &WaterFilling{}}, nil
	case AlgLinkFirst:
		return &Heuristic{Name: algorithm, Alpha: alpha,
			Selector: &LinkOnlySelector{}, Placer: &WaterFilling{}}, nil
	case AlgCapacityChecked:
		return &Heuristic{Name: algorithm, Alpha: alpha,
			Selector: &CheckedSelector{Alpha: alpha, Tolerance: tolerance}, Placer: &Minimax{Tolerance: tolerance}}, nil
	}
	return nil, fmt.Errorf("unknown algorithm %q", algorithm)
}

// Placement records how one chain-user instance was embedded
type Placement struct {
	User *ChainUser
	Path Path

	// Assign[i] is the position on Path of the node hosting function i
	Assign []int

	// Cost is the path cost of Path at the moment it was selected
	Cost float64
}

// Hosts returns the ids of the nodes hosting each function, in chain order
func (pl *Placement) Hosts() []int {
	hosts := make([]int, len(pl.Assign))
	for idx, pos := range pl.Assign {
		hosts[idx] = pl.Path[pos]
	}
	return hosts
}

// Embed chooses a path for cu among candidates, plans the hosting of its functions,
// and commits both to the network: cu's rate is added to every link of the path,
// and each function's cpu and memory consumption to its host.  If either strategy
// refuses the instance the network is left untouched.
func (h *Heuristic) Embed(ns *NetworkState, cu *ChainUser, candidates []Path) (*Placement, error) {
	if len(candidates) == 0 {
		return nil, &InfeasibleError{User: cu.Name(), Reason: "no path between endpoints"}
	}

	pathIdx, err := h.Selector.SelectPath(ns, cu, candidates)
	if err != nil {
		return nil, err
	}
	chosen := candidates[pathIdx]

	minLen := chosen.Len()
	for _, p := range candidates {
		if p.Len() < minLen {
			minLen = p.Len()
		}
	}
	cost, err := PathCost(ns, chosen, h.Alpha, minLen, false)
	if err != nil {
		return nil, err
	}

	assign, err := h.Placer.Plan(ns, cu, chosen)
	if err != nil {
		return nil, err
	}
	if err := checkAssignment(assign, cu.NumFuncs(), chosen.Len()); err != nil {
		panic(fmt.Errorf("%s placer for %s: %w", h.Name, cu.Name(), err))
	}

	links, err := ns.PathLinks(chosen)
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		link.BwUsed += cu.Rate
	}

	for idx, pos := range assign {
		node := ns.Nodes[chosen[pos]]
		node.CPUUsed += cu.FuncCPU(idx)
		node.MemUsed += cu.FuncMem(idx)
	}

	return &Placement{User: cu, Path: chosen, Assign: assign, Cost: cost}, nil
}

// checkAssignment verifies that an assignment covers every function with a
// position on the path, and that positions never decrease
func checkAssignment(assign []int, numFuncs, pathLen int) error {
	if len(assign) != numFuncs {
		return fmt.Errorf("assignment of %d functions for a chain of %d", len(assign), numFuncs)
	}
	for idx, pos := range assign {
		if pos < 0 || pos >= pathLen {
			return fmt.Errorf("function %d assigned outside path", idx)
		}
		if idx > 0 && pos < assign[idx-1] {
			return fmt.Errorf("function %d placed before its predecessor", idx)
		}
	}
	return nil
}
