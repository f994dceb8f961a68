package sfcmap

import "fmt"

// ChainUser is one concrete demand to embed: a chain, carried at the chain's
// rate from node Src to node Dst
type ChainUser struct {
	// Number is unique among the instances of a catalog, and gives catalog order
	Number int
	Chain  *Chain
	Src    int
	Dst    int
	Rate   float64
}

// CreateChainUser is a constructor
func CreateChainUser(number int, chain *Chain, src, dst int) *ChainUser {
	return &ChainUser{Number: number, Chain: chain, Src: src, Dst: dst, Rate: chain.Rate}
}

// Name identifies the instance in logs and errors
func (cu *ChainUser) Name() string {
	return fmt.Sprintf("%s#%d", cu.Chain.Name, cu.Number)
}

// FuncCPU is the CPU consumed by the idx-th function of the chain at this instance's rate
func (cu *ChainUser) FuncCPU(idx int) float64 {
	return cu.Chain.Functions[idx].CPU * cu.Rate
}

// FuncMem is the memory consumed by the idx-th function at this instance's rate
func (cu *ChainUser) FuncMem(idx int) float64 {
	return cu.Chain.Functions[idx].Mem * cu.Rate
}

// NumFuncs is the length of the chain
func (cu *ChainUser) NumFuncs() int {
	return len(cu.Chain.Functions)
}

// CPUDemand is the total CPU the instance consumes
func (cu *ChainUser) CPUDemand() float64 {
	total := 0.0
	for idx := range cu.Chain.Functions {
		total += cu.FuncCPU(idx)
	}
	return total
}

// MemDemand is the total memory the instance consumes
func (cu *ChainUser) MemDemand() float64 {
	total := 0.0
	for idx := range cu.Chain.Functions {
		total += cu.FuncMem(idx)
	}
	return total
}

// Weight is the secondary sort key of the batch schedulers: the summed cpu cost
// of the chain's functions times the traffic rate
func (cu *ChainUser) Weight() float64 {
	return cu.CPUDemand()
}
