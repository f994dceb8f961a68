package sfcmap

// waterfill.go holds the node-placement half of the heuristics.  Given the path
// chosen for an instance, a NodePlacer decides which path position hosts each
// function of the chain.  Positions never decrease along the chain: function i
// sits at or after the node hosting function i-1.  Plan only reads the network;
// the caller commits the plan.

import (
	"fmt"
	"math"
)

// NodePlacer plans the hosting of a chain's functions along a path.  The returned
// slice gives, for each function index, a position in the path.
type NodePlacer interface {
	Plan(ns *NetworkState, cu *ChainUser, p Path) ([]int, error)
}

// WaterFilling raises the CPU load of the path's nodes toward a common level before
// going above it.  It never refuses an instance, and may push nodes past capacity.
type WaterFilling struct{}

// Plan returns the water-filling assignment of cu's functions to positions on p
func (wf *WaterFilling) Plan(ns *NetworkState, cu *ChainUser, p Path) ([]int, error) {
	nodes, err := ns.PathNodes(p)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, &InfeasibleError{User: cu.Name(), Reason: "empty path"}
	}

	level := maxOf(nodeCPULoads(nodes))
	if !(level > 0) {
		return fillEmpty(cu, len(nodes)), nil
	}
	return fillToLevel(cu, nodes, level), nil
}

// fillEmpty places the functions on a path whose nodes carry no load.  With
// enough nodes every function gets its own; otherwise each node takes functions
// until its even share of the total demand is used, a function being admitted
// while half its cost still fits the share.
func fillEmpty(cu *ChainUser, pathLen int) []int {
	numFuncs := cu.NumFuncs()
	assign := make([]int, numFuncs)

	if pathLen >= numFuncs {
		for idx := range assign {
			assign[idx] = idx
		}
		return assign
	}

	share := cu.CPUDemand() / float64(pathLen)
	pos := 0
	onNode := 0.0
	hosted := 0
	for idx := 0; idx < numFuncs; idx++ {
		demand := cu.FuncCPU(idx)
		for pos < pathLen-1 && hosted > 0 && onNode+demand/2 > share+loadEpsilon {
			pos += 1
			onNode = 0.0
			hosted = 0
		}
		assign[idx] = pos
		onNode += demand
		hosted += 1
	}
	return assign
}

// fillToLevel places the functions on a path whose most loaded node is at level.
// Each node first takes what fits below level; past that, up to exCap more,
// where exCap spreads evenly over the path the demand that the headroom below
// level cannot absorb.  A function is admitted to the excess budget while half
// its cost still fits.  The last node takes whatever is left.
func fillToLevel(cu *ChainUser, nodes []*Node, level float64) []int {
	numFuncs := cu.NumFuncs()
	assign := make([]int, numFuncs)

	headroom := make([]float64, len(nodes))
	resCap := 0.0
	for idx, node := range nodes {
		headroom[idx] = math.Max(level*node.CPUCap-node.CPUUsed, 0)
		resCap += headroom[idx]
	}
	exCap := math.Max((cu.CPUDemand()-resCap)/float64(len(nodes)), 0)

	pos := 0
	remHead := headroom[0]
	remEx := exCap
	for idx := 0; idx < numFuncs; idx++ {
		demand := cu.FuncCPU(idx)
		for {
			if pos == len(nodes)-1 {
				break
			}
			if demand <= remHead+loadEpsilon {
				remHead -= demand
				break
			}
			budget := remHead + remEx
			if demand/2 <= budget+loadEpsilon {
				// the headroom is used up first, then the excess budget
				remEx -= demand - remHead
				remHead = 0
				break
			}
			pos += 1
			remHead = headroom[pos]
			remEx = exCap
		}
		assign[idx] = pos
	}
	return assign
}

// Minimax finds the ordered assignment minimizing the largest CPU utilization on
// the path after placement, among those keeping every node's CPU and memory
// utilization within Tolerance.  No such assignment yields an *InfeasibleError.
type Minimax struct {
	Tolerance float64
}

// Plan returns the minimax assignment of cu's functions to positions on p
func (mm *Minimax) Plan(ns *NetworkState, cu *ChainUser, p Path) ([]int, error) {
	nodes, err := ns.PathNodes(p)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, &InfeasibleError{User: cu.Name(), Reason: "empty path"}
	}

	numFuncs := cu.NumFuncs()
	numNodes := len(nodes)

	// prefix sums of per-function demand, so a contiguous block costs O(1)
	cpuSum := make([]float64, numFuncs+1)
	memSum := make([]float64, numFuncs+1)
	for idx := 0; idx < numFuncs; idx++ {
		cpuSum[idx+1] = cpuSum[idx] + cu.FuncCPU(idx)
		memSum[idx+1] = memSum[idx] + cu.FuncMem(idx)
	}

	// peak[j][i] is the least achievable maximum CPU load over the first j path
	// nodes once they host functions 0..i-1; from[j][i] is the first function
	// node j-1 hosts in that optimum
	inf := math.Inf(1)
	peak := make([][]float64, numNodes+1)
	from := make([][]int, numNodes+1)
	for j := range peak {
		peak[j] = make([]float64, numFuncs+1)
		from[j] = make([]int, numFuncs+1)
		for i := range peak[j] {
			peak[j][i] = inf
		}
	}
	peak[0][0] = 0

	for j := 0; j < numNodes; j++ {
		node := nodes[j]
		for last := 0; last <= numFuncs; last++ {
			for first := 0; first <= last; first++ {
				if math.IsInf(peak[j][first], 1) {
					continue
				}
				cpuLoad := (node.CPUUsed + cpuSum[last] - cpuSum[first]) / node.CPUCap
				memLoad := (node.MemUsed + memSum[last] - memSum[first]) / node.MemCap
				hosts := first < last
				if hosts && (cpuLoad > mm.Tolerance+loadEpsilon || memLoad > mm.Tolerance+loadEpsilon) {
					continue
				}
				cand := math.Max(peak[j][first], cpuLoad)
				if cand < peak[j+1][last] {
					peak[j+1][last] = cand
					from[j+1][last] = first
				}
			}
		}
	}

	if math.IsInf(peak[numNodes][numFuncs], 1) {
		return nil, &InfeasibleError{User: cu.Name(),
			Reason: fmt.Sprintf("no ordered placement within %g utilization on path %v", mm.Tolerance, ns.PathNames(p))}
	}

	assign := make([]int, numFuncs)
	last := numFuncs
	for j := numNodes; j > 0; j-- {
		first := from[j][last]
		for idx := first; idx < last; idx++ {
			assign[idx] = j - 1
		}
		last = first
	}
	return assign, nil
}
