package sfcmap

// placement.go holds the path-selection half of the heuristics.  A PathSelector
// looks at the candidates the router produced for one chain-user instance and
// chooses one, reading the current usage in the NetworkState.  Selection never
// mutates the network; committing the choice is done by Heuristic.Embed.

import (
	"fmt"
)

// PathSelector chooses among candidate paths, returning the index of the chosen one
type PathSelector interface {
	SelectPath(ns *NetworkState, cu *ChainUser, candidates []Path) (int, error)
}

// BalancedSelector minimizes a weighted combination of link and node load on the path.
// Alpha weighs the node component; 1-Alpha the link component.  With ShortBias set
// the link component also carries a term favouring paths close in length to the
// shortest candidate.
type BalancedSelector struct {
	Alpha     float64
	ShortBias bool
}

// SelectPath returns the candidate of least PathCost, first one on ties
func (bs *BalancedSelector) SelectPath(ns *NetworkState, cu *ChainUser, candidates []Path) (int, error) {
	return leastCost(ns, cu, candidates, bs.Alpha, bs.ShortBias, nil)
}

// LinkOnlySelector ignores node load and picks the path whose most loaded link is least loaded
type LinkOnlySelector struct{}

// SelectPath returns the candidate minimizing the maximum link utilization, first one on ties
func (ls *LinkOnlySelector) SelectPath(ns *NetworkState, cu *ChainUser, candidates []Path) (int, error) {
	if len(candidates) == 0 {
		return -1, &InfeasibleError{User: cu.Name(), Reason: "no candidate path"}
	}
	bestIdx := -1
	bestLoad := 0.0
	for idx, p := range candidates {
		links, err := ns.PathLinks(p)
		if err != nil {
			return -1, err
		}
		peak := maxOf(linkLoads(links))
		if bestIdx == -1 || peak < bestLoad {
			bestIdx = idx
			bestLoad = peak
		}
	}
	return bestIdx, nil
}

// CheckedSelector discards every candidate on which some link would exceed
// Tolerance once the instance's rate is added, then chooses among the rest as
// the balanced selector does
type CheckedSelector struct {
	Alpha     float64
	Tolerance float64
}

// SelectPath returns the least-cost feasible candidate, or an *InfeasibleError if there is none
func (cs *CheckedSelector) SelectPath(ns *NetworkState, cu *ChainUser, candidates []Path) (int, error) {
	admit := func(links []*Link) bool {
		for _, link := range links {
			if (link.BwUsed+cu.Rate)/link.BwCap > cs.Tolerance+loadEpsilon {
				return false
			}
		}
		return true
	}
	idx, err := leastCost(ns, cu, candidates, cs.Alpha, false, admit)
	if err != nil {
		return -1, err
	}
	if idx == -1 {
		return -1, &InfeasibleError{User: cu.Name(),
			Reason: fmt.Sprintf("every candidate path has a link beyond %g utilization", cs.Tolerance)}
	}
	return idx, nil
}

// leastCost scans the candidates admitted by the filter (all of them when admit is nil)
// and returns the index of the first of least cost, or -1 if none was admitted
func leastCost(ns *NetworkState, cu *ChainUser, candidates []Path, alpha float64, shortBias bool,
	admit func([]*Link) bool) (int, error) {

	if len(candidates) == 0 {
		return -1, &InfeasibleError{User: cu.Name(), Reason: "no candidate path"}
	}

	minLen := candidates[0].Len()
	for _, p := range candidates[1:] {
		if p.Len() < minLen {
			minLen = p.Len()
		}
	}

	bestIdx := -1
	bestCost := 0.0
	for idx, p := range candidates {
		if admit != nil {
			links, err := ns.PathLinks(p)
			if err != nil {
				return -1, err
			}
			if !admit(links) {
				continue
			}
		}
		cost, err := PathCost(ns, p, alpha, minLen, shortBias)
		if err != nil {
			return -1, err
		}
		if bestIdx == -1 || cost < bestCost {
			bestIdx = idx
			bestCost = cost
		}
	}
	return bestIdx, nil
}

// PathCost scores a path by the current load it would route over:
//
//	(1-alpha)*linkComponent + alpha*nodeComponent
//
// where each component is the mean of the average and the maximum utilization
// fraction over the path's links (resp. the CPU of its nodes).  A path of a
// single node has no links, and a link component of zero.  With shortBias the link
// component averages in a third term, 1 - minLen/len, which is zero for paths
// as short as the shortest candidate and grows with the excess length.
func PathCost(ns *NetworkState, p Path, alpha float64, minLen int, shortBias bool) (float64, error) {
	links, err := ns.PathLinks(p)
	if err != nil {
		return 0, err
	}
	nodes, err := ns.PathNodes(p)
	if err != nil {
		return 0, err
	}

	linkComp := 0.0
	if len(links) > 0 {
		loads := linkLoads(links)
		linkComp = (meanOf(loads) + maxOf(loads)) / 2
		if shortBias {
			linkComp = (meanOf(loads) + maxOf(loads) + 1.0 - float64(minLen)/float64(p.Len())) / 3
		}
	}

	nodeComp := 0.0
	if len(nodes) > 0 {
		loads := nodeCPULoads(nodes)
		nodeComp = (meanOf(loads) + maxOf(loads)) / 2
	}

	return (1.0-alpha)*linkComp + alpha*nodeComp, nil
}

func linkLoads(links []*Link) []float64 {
	loads := make([]float64, len(links))
	for idx, link := range links {
		loads[idx] = link.Load()
	}
	return loads
}

func nodeCPULoads(nodes []*Node) []float64 {
	loads := make([]float64, len(nodes))
	for idx, node := range nodes {
		loads[idx] = node.CPULoad()
	}
	return loads
}
