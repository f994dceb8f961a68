package sfcmap

// net.go holds the run-time representation of the physical network: nodes with
// CPU/memory capacity and links with bandwidth capacity, along with the
// consumption accumulated by the chains embedded so far.

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Node is a physical host for network functions.  Usage is accumulated in the same
// units as capacity; CPULoad and MemLoad give the fraction of capacity in use.
type Node struct {
	ID      int
	Name    string
	CPUCap  float64
	MemCap  float64
	CPUUsed float64
	MemUsed float64
}

// CPULoad returns the fraction of CPU capacity in use
func (n *Node) CPULoad() float64 {
	return n.CPUUsed / n.CPUCap
}

// MemLoad returns the fraction of memory capacity in use
func (n *Node) MemLoad() float64 {
	return n.MemUsed / n.MemCap
}

// Link is an undirected physical link between nodes NodeA and NodeB
type Link struct {
	ID     int
	Name   string
	NodeA  int
	NodeB  int
	BwCap  float64
	BwUsed float64
}

// Load returns the fraction of bandwidth in use
func (l *Link) Load() float64 {
	return l.BwUsed / l.BwCap
}

// endpts is the key for link lookup; the smaller node id always comes first
type endpts struct {
	a, b int
}

func makeEndpts(a, b int) endpts {
	if b < a {
		a, b = b, a
	}
	return endpts{a: a, b: b}
}

// NetworkState holds the nodes and links of one topology and their current usage.
// It is passed by reference to every heuristic call; nothing about it is global.
type NetworkState struct {
	Name  string
	Nodes []*Node // Nodes[i].ID == i
	Links []*Link // Links[i].ID == i

	nodeByName   map[string]*Node
	linkByName   map[string]*Link
	linkByEndpts map[endpts]*Link

	// adjacency gives for each node id the ids of its neighbours, in link order
	adjacency map[int][]int
}

// CreateNetworkState builds the run-time network from its description.  All of the
// lookup indices are built here, once.  Every problem found in the description is
// reported in the returned error.
func CreateNetworkState(tc *TopoCfg) (*NetworkState, error) {
	ns := &NetworkState{
		Name:         tc.Name,
		Nodes:        make([]*Node, 0, len(tc.Nodes)),
		Links:        make([]*Link, 0, len(tc.Links)),
		nodeByName:   make(map[string]*Node),
		linkByName:   make(map[string]*Link),
		linkByEndpts: make(map[endpts]*Link),
		adjacency:    make(map[int][]int),
	}
	errs := []error{}

	for _, nd := range tc.Nodes {
		if _, present := ns.nodeByName[nd.Name]; present {
			errs = append(errs, fmt.Errorf("node name %s over-used", nd.Name))
			continue
		}
		if !(nd.CPU > 0) || !(nd.Mem > 0) {
			errs = append(errs, fmt.Errorf("node %s needs positive cpu and mem capacity", nd.Name))
			continue
		}
		node := &Node{ID: len(ns.Nodes), Name: nd.Name, CPUCap: nd.CPU, MemCap: nd.Mem}
		ns.Nodes = append(ns.Nodes, node)
		ns.nodeByName[node.Name] = node
		ns.adjacency[node.ID] = []int{}
	}

	for _, ld := range tc.Links {
		name := ld.Name
		if len(name) == 0 {
			name = DefaultLinkName(ld.NodeA, ld.NodeB)
		}
		nodeA, presentA := ns.nodeByName[ld.NodeA]
		nodeB, presentB := ns.nodeByName[ld.NodeB]
		if !presentA || !presentB {
			errs = append(errs, fmt.Errorf("link %s names unknown endpoint", name))
			continue
		}
		if nodeA == nodeB {
			errs = append(errs, fmt.Errorf("link %s connects %s to itself", name, ld.NodeA))
			continue
		}
		if !(ld.Bandwidth > 0) {
			errs = append(errs, fmt.Errorf("link %s needs positive bandwidth", name))
			continue
		}
		key := makeEndpts(nodeA.ID, nodeB.ID)
		if _, present := ns.linkByEndpts[key]; present {
			errs = append(errs, fmt.Errorf("duplicated link between %s and %s", ld.NodeA, ld.NodeB))
			continue
		}
		if _, present := ns.linkByName[name]; present {
			errs = append(errs, fmt.Errorf("link name %s over-used", name))
			continue
		}

		link := &Link{ID: len(ns.Links), Name: name, NodeA: nodeA.ID, NodeB: nodeB.ID, BwCap: ld.Bandwidth}
		ns.Links = append(ns.Links, link)
		ns.linkByName[name] = link
		ns.linkByEndpts[key] = link
		ns.adjacency[nodeA.ID] = append(ns.adjacency[nodeA.ID], nodeB.ID)
		ns.adjacency[nodeB.ID] = append(ns.adjacency[nodeB.ID], nodeA.ID)
	}

	if err := ReportErrs(errs); err != nil {
		return nil, err
	}
	return ns, nil
}

// NodeByName returns the node with the given name
func (ns *NetworkState) NodeByName(name string) (*Node, error) {
	node, present := ns.nodeByName[name]
	if !present {
		return nil, &NotFoundError{Kind: "node", Name: name}
	}
	return node, nil
}

// NodeByID returns the node with the given id
func (ns *NetworkState) NodeByID(id int) (*Node, error) {
	if id < 0 || id >= len(ns.Nodes) {
		return nil, &NotFoundError{Kind: "node", Name: fmt.Sprintf("#%d", id)}
	}
	return ns.Nodes[id], nil
}

// LinkByName returns the link with the given name
func (ns *NetworkState) LinkByName(name string) (*Link, error) {
	link, present := ns.linkByName[name]
	if !present {
		return nil, &NotFoundError{Kind: "link", Name: name}
	}
	return link, nil
}

// LinkByEndpoints returns the link joining nodes a and b, in either order
func (ns *NetworkState) LinkByEndpoints(a, b int) (*Link, error) {
	link, present := ns.linkByEndpts[makeEndpts(a, b)]
	if !present {
		return nil, &NotFoundError{Kind: "link", Name: fmt.Sprintf("#%d-#%d", a, b)}
	}
	return link, nil
}

// PathLinks returns the links traversed by a path, in order.  A single-node path has none.
func (ns *NetworkState) PathLinks(p Path) ([]*Link, error) {
	links := make([]*Link, 0, len(p))
	for idx := 1; idx < len(p); idx++ {
		link, err := ns.LinkByEndpoints(p[idx-1], p[idx])
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}

// PathNodes returns the nodes visited by a path, in order
func (ns *NetworkState) PathNodes(p Path) ([]*Node, error) {
	nodes := make([]*Node, 0, len(p))
	for _, id := range p {
		node, err := ns.NodeByID(id)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// PathNames renders a path as the list of its node names
func (ns *NetworkState) PathNames(p Path) []string {
	names := make([]string, 0, len(p))
	for _, id := range p {
		names = append(names, ns.Nodes[id].Name)
	}
	return names
}

// Adjacency returns, for every node id, the ids of the nodes it shares a link with
func (ns *NetworkState) Adjacency() map[int][]int {
	return ns.adjacency
}

// Reset zeroes all consumption so that an independent run can start from an empty network
func (ns *NetworkState) Reset() {
	for _, node := range ns.Nodes {
		node.CPUUsed = 0
		node.MemUsed = 0
	}
	for _, link := range ns.Links {
		link.BwUsed = 0
	}
}

// Utilization is a snapshot of per-node and per-link usage fractions, indexed by id
type Utilization struct {
	NodeCPU []float64
	NodeMem []float64
	LinkBw  []float64
}

// SnapshotUtilization copies out the current usage fractions
func (ns *NetworkState) SnapshotUtilization() Utilization {
	u := Utilization{
		NodeCPU: make([]float64, len(ns.Nodes)),
		NodeMem: make([]float64, len(ns.Nodes)),
		LinkBw:  make([]float64, len(ns.Links)),
	}
	for idx, node := range ns.Nodes {
		u.NodeCPU[idx] = node.CPULoad()
		u.NodeMem[idx] = node.MemLoad()
	}
	for idx, link := range ns.Links {
		u.LinkBw[idx] = link.Load()
	}
	return u
}

// UtilSummary aggregates a Utilization into percentages
type UtilSummary struct {
	MaxNodeCPU float64
	AvgNodeCPU float64
	MaxNodeMem float64
	AvgNodeMem float64
	MaxLinkBw  float64
	AvgLinkBw  float64
}

// Summary reduces the per-element fractions to max and mean percentages
func (u Utilization) Summary() UtilSummary {
	return UtilSummary{
		MaxNodeCPU: 100 * maxOf(u.NodeCPU),
		AvgNodeCPU: 100 * meanOf(u.NodeCPU),
		MaxNodeMem: 100 * maxOf(u.NodeMem),
		AvgNodeMem: 100 * meanOf(u.NodeMem),
		MaxLinkBw:  100 * maxOf(u.LinkBw),
		AvgLinkBw:  100 * meanOf(u.LinkBw),
	}
}

// Overloaded lists the nodes and links whose usage fraction exceeds tolerance
func (ns *NetworkState) Overloaded(tolerance float64) []string {
	over := []string{}
	for _, node := range ns.Nodes {
		if node.CPULoad() > tolerance+loadEpsilon || node.MemLoad() > tolerance+loadEpsilon {
			over = append(over, node.Name)
		}
	}
	for _, link := range ns.Links {
		if link.Load() > tolerance+loadEpsilon {
			over = append(over, link.Name)
		}
	}
	return over
}

// loadEpsilon absorbs floating point error when comparing usage fractions against limits
const loadEpsilon = 1e-9

// maxOf and meanOf guard the gonum reductions, which panic or return NaN on empty input
func maxOf(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Max(x)
}

func meanOf(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}
