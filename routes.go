package sfcmap

// routes.go provides the candidate paths a chain-user instance may be routed over.
//
// The general approach is to convert the NetworkState adjacency into the data structures
// used by the gonum graph package, which has built-in path discovery algorithms.
// Weighting each edge by 1, a shortest path minimizes the number of hops.  Yen's
// algorithm then gives the k loopless paths of least hop count between two nodes.

import (
	"math"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Path is a sequence of node ids from source to destination.  A path of
// one node traverses no links.
type Path []int

// Len returns the number of nodes on the path
func (p Path) Len() int {
	return len(p)
}

// Equal reports whether two paths visit the same nodes in the same order
func (p Path) Equal(q Path) bool {
	return slices.Equal(p, q)
}

// PathProvider is the routing service the placement layer consumes.  KShortestPaths
// returns up to k distinct simple paths from src to dst; an empty result means the
// pair is unreachable.  Callers must not assume the paths are strictly cost ordered.
type PathProvider interface {
	KShortestPaths(src, dst, k int) []Path
}

// rtKey identifies a cached query
type rtKey struct {
	srcID, dstID, k int
}

// KSPRouter answers k-shortest-path queries over a fixed topology
type KSPRouter struct {
	connGraph orderedGraph
	cache     map[rtKey][]Path
}

// orderedGraph presents the neighbours of a node in increasing id order.  The simple
// graph types iterate over maps, which would let ties between equal-length paths
// be broken differently from one run to the next.
type orderedGraph struct {
	*simple.WeightedUndirectedGraph
}

func (g orderedGraph) From(id int64) graph.Nodes {
	nodes := graph.NodesOf(g.WeightedUndirectedGraph.From(id))
	if len(nodes) == 0 {
		return graph.Empty
	}
	slices.SortFunc(nodes, func(a, b graph.Node) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
	return iterator.NewOrderedNodes(nodes)
}

// CreateKSPRouter builds the graph representation of the network once
func CreateKSPRouter(ns *NetworkState) *KSPRouter {
	return &KSPRouter{connGraph: buildConnGraph(ns.Adjacency()), cache: make(map[rtKey][]Path)}
}

// buildConnGraph returns a weighted undirected graph with a unit-weight edge
// for every adjacency of the network
func buildConnGraph(edges map[int][]int) orderedGraph {
	connGraph := simple.NewWeightedUndirectedGraph(0, math.Inf(1))

	// every node is present even if it has no links, so that queries on it
	// find the single-node path to itself
	ids := make([]int, 0, len(edges))
	for nodeID := range edges {
		ids = append(ids, nodeID)
	}
	slices.Sort(ids)
	for _, nodeID := range ids {
		connGraph.AddNode(simple.Node(nodeID))
	}

	for _, nodeID := range ids {
		for _, nbrID := range edges[nodeID] {
			if connGraph.HasEdgeBetween(int64(nodeID), int64(nbrID)) {
				continue
			}
			weightedEdge := simple.WeightedEdge{F: simple.Node(nodeID), T: simple.Node(nbrID), W: 1.0}
			connGraph.SetWeightedEdge(weightedEdge)
		}
	}
	return orderedGraph{connGraph}
}

// KShortestPaths returns up to k loopless paths from src to dst, fewest hops first.
// Results are remembered, so repeated queries return the identical slice.
func (rt *KSPRouter) KShortestPaths(src, dst, k int) []Path {
	key := rtKey{srcID: src, dstID: dst, k: k}
	if paths, found := rt.cache[key]; found {
		return paths
	}

	paths := []Path{}
	srcNode := rt.connGraph.Node(int64(src))
	dstNode := rt.connGraph.Node(int64(dst))

	switch {
	case k < 1 || srcNode == nil || dstNode == nil:
	case src == dst:
		paths = append(paths, Path{src})
	default:
		for _, nodeSeq := range path.YenKShortestPaths(rt.connGraph, k, math.Inf(1), srcNode, dstNode) {
			paths = append(paths, convertNodeSeq(nodeSeq))
		}
	}

	rt.cache[key] = paths
	return paths
}

// Connected reports whether every node can reach every other
func (rt *KSPRouter) Connected() bool {
	return len(topo.ConnectedComponents(rt.connGraph)) <= 1
}

// convertNodeSeq extracts node ids from a sequence of graph nodes
func convertNodeSeq(nsQ []graph.Node) Path {
	rtn := make(Path, 0, len(nsQ))
	for _, node := range nsQ {
		rtn = append(rtn, int(node.ID()))
	}
	return rtn
}
