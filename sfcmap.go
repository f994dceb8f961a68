package sfcmap

// sfcmap.go holds the entry points used by a program that runs experiments:
// Run embeds every chain-user instance of a catalog onto a network under one
// algorithm and discipline, and reports the utilization it leaves behind.
// BuildExperiment assembles the network, catalog and configuration from files.

import (
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Result summarizes one run.  Utilizations are percentages of capacity.
type Result struct {
	RunID      string
	Experiment string
	Algorithm  string
	Discipline string
	K          int
	Alpha      float64
	BatchSize  int

	MaxNodeCPU float64
	AvgNodeCPU float64
	MaxNodeMem float64
	AvgNodeMem float64
	MaxLinkBw  float64
	AvgLinkBw  float64

	Elapsed time.Duration

	// Feasible is false when the checked discipline stopped at an instance it could not embed
	Feasible bool
	Placed   int
	Rejected int

	Placements []*Placement
	Util       Utilization
}

// Run embeds the instances of catalog onto ns.  The network is used as found:
// call ns.Reset first for a run independent of earlier ones.  A nil logger is
// replaced by a null one; a nil trace records nothing.
func Run(ns *NetworkState, catalog *Catalog, router PathProvider, cfg *ExpCfg,
	trace *TraceManager, logger hclog.Logger) (*Result, error) {

	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	algorithm := cfg.Algorithm
	if cfg.Discipline == DiscChecked {
		algorithm = AlgCapacityChecked
	}
	heuristic, err := NewHeuristic(algorithm, cfg.Alpha, cfg.Tolerance)
	if err != nil {
		return nil, err
	}

	var users []*ChainUser
	switch cfg.Discipline {
	case DiscOnline:
		users = catalog.ChainUsers()
	case DiscSorted, DiscChecked:
		users = flatten(OrderDemands(catalog.ChainUsers(), cfg.BatchSize))
	default:
		panic(fmt.Errorf("unhandled discipline %q", cfg.Discipline))
	}

	runID := uuid.NewString()
	logger = logger.With("run", runID)
	if trace.Active() {
		trace.RunID = runID
	}
	logger.Info("run starting", "algorithm", algorithm, "discipline", cfg.Discipline,
		"instances", len(users), "k", cfg.K, "alpha", cfg.Alpha, "batchsize", cfg.BatchSize)

	rp := &replay{
		ns:                ns,
		router:            router,
		heuristic:         heuristic,
		k:                 cfg.K,
		abortOnInfeasible: cfg.Discipline == DiscChecked,
		trace:             trace,
		logger:            logger,
		placements:        make([]*Placement, 0, len(users)),
	}

	start := time.Now()
	rp.replayArrivals(users)
	elapsed := time.Since(start)

	if rp.err != nil {
		return nil, rp.err
	}

	util := ns.SnapshotUtilization()
	summary := util.Summary()
	res := &Result{
		RunID:      runID,
		Experiment: cfg.Name,
		Algorithm:  algorithm,
		Discipline: cfg.Discipline,
		K:          cfg.K,
		Alpha:      cfg.Alpha,
		BatchSize:  cfg.BatchSize,
		MaxNodeCPU: summary.MaxNodeCPU,
		AvgNodeCPU: summary.AvgNodeCPU,
		MaxNodeMem: summary.MaxNodeMem,
		AvgNodeMem: summary.AvgNodeMem,
		MaxLinkBw:  summary.MaxLinkBw,
		AvgLinkBw:  summary.AvgLinkBw,
		Elapsed:    elapsed,
		Feasible:   !rp.aborted,
		Placed:     len(rp.placements),
		Rejected:   rp.rejected,
		Placements: rp.placements,
		Util:       util,
	}

	if over := ns.Overloaded(1.0); len(over) > 0 {
		logger.Warn("capacity exceeded", "elements", over)
	}
	logger.Info("run complete", "placed", res.Placed, "rejected", res.Rejected, "feasible", res.Feasible,
		"maxcpu", res.MaxNodeCPU, "maxbw", res.MaxLinkBw, "elapsed", elapsed)
	return res, nil
}

// Experiment binds together everything a run needs
type Experiment struct {
	Network *NetworkState
	Catalog *Catalog
	Router  *KSPRouter
	Cfg     *ExpCfg
	Trace   *TraceManager
}

// BuildExperiment is called from the program that runs an experiment.  files
// binds pre-defined keys to file names:
//
//	"topo"   topology, yaml or json (or else "nodes" and "links", both csv)
//	"chains" chain catalog, yaml or json
//	"exp"    experiment configuration, yaml or json; defaults are used when absent
//
// Every file that cannot be read or parsed is reported in the returned error.
func BuildExperiment(files map[string]string) (*Experiment, error) {
	var empty []byte
	errs := []error{}

	if _, err := CheckReadableFiles([]string{files["topo"], files["nodes"], files["links"],
		files["chains"], files["exp"]}); err != nil {
		return nil, err
	}

	var tc *TopoCfg
	var err error
	switch {
	case len(files["topo"]) > 0:
		tc, err = ReadTopoCfg(files["topo"], useYAMLExt(files["topo"]), empty)
	case len(files["nodes"]) > 0 && len(files["links"]) > 0:
		tc, err = ReadTopoCSV(files["nodes"], files["links"])
	default:
		err = fmt.Errorf("no topology named")
	}
	errs = append(errs, err)

	var cc *ChainCfg
	if len(files["chains"]) > 0 {
		cc, err = ReadChainCfg(files["chains"], useYAMLExt(files["chains"]), empty)
		errs = append(errs, err)
	} else {
		errs = append(errs, fmt.Errorf("no chain catalog named"))
	}

	var ec *ExpCfg
	if len(files["exp"]) > 0 {
		ec, err = ReadExpCfg(files["exp"], useYAMLExt(files["exp"]), empty)
		errs = append(errs, err)
	} else {
		ec = CreateExpCfg("default", AlgBalanced, DiscOnline)
	}

	if err := ReportErrs(errs); err != nil {
		return nil, err
	}

	ns, err := CreateNetworkState(tc)
	if err != nil {
		return nil, fmt.Errorf("topology %s: %w", tc.Name, err)
	}
	catalog, err := CreateCatalog(cc, ns)
	if err != nil {
		return nil, fmt.Errorf("chains %s: %w", cc.Name, err)
	}
	if err := ec.Validate(); err != nil {
		return nil, fmt.Errorf("experiment %s: %w", ec.Name, err)
	}

	expName := ec.Name
	if len(expName) == 0 {
		expName = path.Base(files["exp"])
	}
	return &Experiment{
		Network: ns,
		Catalog: catalog,
		Router:  CreateKSPRouter(ns),
		Cfg:     ec,
		Trace:   CreateTraceManager(expName, ec.Trace),
	}, nil
}

// Run empties the network and runs the experiment on it, so that repeated
// calls produce the same result
func (exp *Experiment) Run(logger hclog.Logger) (*Result, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if !exp.Router.Connected() {
		logger.Warn("topology is not connected", "topology", exp.Network.Name)
	}
	exp.Network.Reset()
	if exp.Trace.Active() {
		exp.Trace.Records = exp.Trace.Records[:0]
	}
	return Run(exp.Network, exp.Catalog, exp.Router, exp.Cfg, exp.Trace, logger)
}
