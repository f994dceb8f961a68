package sfcmap

import "fmt"

// Function is a virtual network function; CPU and Mem are costs per unit of traffic
type Function struct {
	ID   int
	Name string
	CPU  float64
	Mem  float64
}

// Chain is an ordered function sequence with the demand pairs that use it
type Chain struct {
	ID        int
	Name      string
	Functions []*Function
	Rate      float64
	Users     []*ChainUser
}

// CPUDemand is the CPU one user of the chain consumes, summed over its functions
func (ch *Chain) CPUDemand() float64 {
	total := 0.0
	for _, fn := range ch.Functions {
		total += fn.CPU * ch.Rate
	}
	return total
}

// Catalog is the run-time chain catalog, resolved against one network
type Catalog struct {
	Name      string
	Functions []*Function
	Chains    []*Chain

	funcByName  map[string]*Function
	chainByName map[string]*Chain
}

// CreateCatalog resolves the function names and demand endpoints of a ChainCfg against
// the network.  A reference to anything absent is reported as a *NotFoundError; all
// problems found are joined in the returned error.
func CreateCatalog(cc *ChainCfg, ns *NetworkState) (*Catalog, error) {
	cat := &Catalog{
		Name:        cc.Name,
		Functions:   make([]*Function, 0, len(cc.Functions)),
		Chains:      make([]*Chain, 0, len(cc.Chains)),
		funcByName:  make(map[string]*Function),
		chainByName: make(map[string]*Chain),
	}
	errs := []error{}

	for _, fd := range cc.Functions {
		if _, present := cat.funcByName[fd.Name]; present {
			errs = append(errs, fmt.Errorf("function name %s over-used", fd.Name))
			continue
		}
		if !(fd.CPU > 0) || fd.Mem < 0 {
			errs = append(errs, fmt.Errorf("function %s needs positive cpu and non-negative mem cost", fd.Name))
			continue
		}
		fn := &Function{ID: len(cat.Functions), Name: fd.Name, CPU: fd.CPU, Mem: fd.Mem}
		cat.Functions = append(cat.Functions, fn)
		cat.funcByName[fn.Name] = fn
	}

	userNumber := 0
	for _, cd := range cc.Chains {
		if _, present := cat.chainByName[cd.Name]; present {
			errs = append(errs, fmt.Errorf("chain name %s over-used", cd.Name))
			continue
		}
		if !(cd.Rate > 0) {
			errs = append(errs, fmt.Errorf("chain %s needs a positive traffic rate", cd.Name))
			continue
		}
		chain := &Chain{ID: len(cat.Chains), Name: cd.Name, Rate: cd.Rate,
			Functions: make([]*Function, 0, len(cd.Functions)), Users: make([]*ChainUser, 0, len(cd.Users))}

		for _, fname := range cd.Functions {
			fn, present := cat.funcByName[fname]
			if !present {
				errs = append(errs, &NotFoundError{Kind: "function", Name: fname})
				continue
			}
			chain.Functions = append(chain.Functions, fn)
		}

		for _, ud := range cd.Users {
			src, serr := ns.NodeByName(ud.Src)
			dst, derr := ns.NodeByName(ud.Dst)
			if serr != nil || derr != nil {
				errs = append(errs, serr, derr)
				continue
			}
			chain.Users = append(chain.Users, CreateChainUser(userNumber, chain, src.ID, dst.ID))
			userNumber += 1
		}

		cat.Chains = append(cat.Chains, chain)
		cat.chainByName[chain.Name] = chain
	}

	if err := ReportErrs(errs); err != nil {
		return nil, err
	}
	return cat, nil
}

// FunctionByName returns the named function
func (cat *Catalog) FunctionByName(name string) (*Function, error) {
	fn, present := cat.funcByName[name]
	if !present {
		return nil, &NotFoundError{Kind: "function", Name: name}
	}
	return fn, nil
}

// ChainByName returns the named chain
func (cat *Catalog) ChainByName(name string) (*Chain, error) {
	chain, present := cat.chainByName[name]
	if !present {
		return nil, &NotFoundError{Kind: "chain", Name: name}
	}
	return chain, nil
}

// ChainUsers lists every chain-user instance in catalog order: chains in the order
// they were described, and the users of each chain in their order
func (cat *Catalog) ChainUsers() []*ChainUser {
	users := []*ChainUser{}
	for _, chain := range cat.Chains {
		users = append(users, chain.Users...)
	}
	return users
}
