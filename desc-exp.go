package sfcmap

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// names of the heuristic variants an experiment may select
const (
	AlgBalanced        = "balanced"
	AlgBalancedShort   = "balanced-short"
	AlgLinkFirst       = "link-first"
	AlgCapacityChecked = "capacity-checked"
)

// names of the processing disciplines
const (
	DiscOnline  = "online"
	DiscSorted  = "sorted"
	DiscChecked = "checked"
)

// Algorithms lists the recognized heuristic variant names
var Algorithms = []string{AlgBalanced, AlgBalancedShort, AlgLinkFirst, AlgCapacityChecked}

// Disciplines lists the recognized processing discipline names
var Disciplines = []string{DiscOnline, DiscSorted, DiscChecked}

// default experiment parameters
const (
	DefaultK         = 3
	DefaultAlpha     = 0.5
	DefaultTolerance = 1.0
)

// ExpCfg holds the parameters of one algorithm run over a network and chain catalog
type ExpCfg struct {
	Name string `json:"name" yaml:"name"`

	// Algorithm selects the path-cost and node-placement strategies
	Algorithm string `json:"algorithm" yaml:"algorithm"`

	// Discipline selects how chain-user instances are ordered and fed to the heuristic
	Discipline string `json:"discipline" yaml:"discipline"`

	// K is the number of candidate paths requested per instance
	K int `json:"k" yaml:"k"`

	// Alpha weighs node balancing against link balancing in the path cost
	Alpha float64 `json:"alpha" yaml:"alpha"`

	// BatchSize partitions the instances for sorting; 0 means a single batch
	BatchSize int `json:"batchsize" yaml:"batchsize"`

	// Tolerance is the utilization fraction the capacity-checked variant may reach
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`

	// Trace turns on recording of every placement
	Trace bool `json:"trace" yaml:"trace"`
}

// CreateExpCfg returns a configuration with default parameters
func CreateExpCfg(name, algorithm, discipline string) *ExpCfg {
	ec := &ExpCfg{Name: name, Algorithm: algorithm, Discipline: discipline, Alpha: DefaultAlpha}
	ec.applyDefaults()
	return ec
}

// applyDefaults fills in zero-valued fields that have a non-zero default.
// Alpha is not among them, zero being pure link balancing.
func (ec *ExpCfg) applyDefaults() {
	if len(ec.Algorithm) == 0 {
		ec.Algorithm = AlgBalanced
	}
	if len(ec.Discipline) == 0 {
		ec.Discipline = DiscOnline
	}
	if ec.K == 0 {
		ec.K = DefaultK
	}
	if ec.Tolerance == 0 {
		ec.Tolerance = DefaultTolerance
	}
	// the checked discipline only makes sense with the capacity-checked heuristic
	if ec.Discipline == DiscChecked {
		ec.Algorithm = AlgCapacityChecked
	}
}

// Validate reports every problem with the configuration in a single error
func (ec *ExpCfg) Validate() error {
	errs := []error{}
	if !slices.Contains(Algorithms, ec.Algorithm) {
		errs = append(errs, fmt.Errorf("unknown algorithm %q", ec.Algorithm))
	}
	if !slices.Contains(Disciplines, ec.Discipline) {
		errs = append(errs, fmt.Errorf("unknown discipline %q", ec.Discipline))
	}
	if ec.K < 1 {
		errs = append(errs, fmt.Errorf("k must be at least 1, got %d", ec.K))
	}
	if ec.Alpha < 0 || ec.Alpha > 1 {
		errs = append(errs, fmt.Errorf("alpha must lie in [0,1], got %g", ec.Alpha))
	}
	if ec.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("batch size must be non-negative, got %d", ec.BatchSize))
	}
	if !(ec.Tolerance > 0) {
		errs = append(errs, fmt.Errorf("tolerance must be positive, got %g", ec.Tolerance))
	}
	return ReportErrs(errs)
}

// WriteToFile stores the ExpCfg, json or yaml depending on extension
func (ec *ExpCfg) WriteToFile(filename string) error {
	return writeDesc(filename, ec)
}

// ReadExpCfg deserializes an ExpCfg from dict, or from the named file when dict
// is empty.  Defaults are applied to fields the file leaves out.
func ReadExpCfg(filename string, useYAML bool, dict []byte) (*ExpCfg, error) {
	// a file that leaves alpha out gets the default, one that sets it to zero keeps zero
	ec := ExpCfg{Alpha: DefaultAlpha}
	if err := readDesc(filename, useYAML, dict, &ec); err != nil {
		return nil, fmt.Errorf("experiment %s: %w", filename, err)
	}
	ec.applyDefaults()
	return &ec, nil
}
