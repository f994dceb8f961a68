package sfcmap

import (
	"fmt"

	"github.com/iti/evt/vrtime"
)

// PlacementRecord saves how one chain-user instance was embedded, for post-run analysis
type PlacementRecord struct {
	Time     float64  `json:"time" yaml:"time"`         // virtual time of the arrival, in seconds
	Ticks    int64    `json:"ticks" yaml:"ticks"`       // ticks variable of time
	Priority int64    `json:"priority" yaml:"priority"` // priority field of time-stamp
	User     int      `json:"user" yaml:"user"`
	Chain    string   `json:"chain" yaml:"chain"`
	Src      string   `json:"src" yaml:"src"`
	Dst      string   `json:"dst" yaml:"dst"`
	Rate     float64  `json:"rate" yaml:"rate"`
	Path     []string `json:"path" yaml:"path"`
	Hosts    []string `json:"hosts" yaml:"hosts"` // node hosting each function, in chain order
	Cost     float64  `json:"cost" yaml:"cost"`
	Outcome  string   `json:"outcome" yaml:"outcome"` // "placed", "rejected" or "aborted"
}

// TraceManager gathers a PlacementRecord for every instance a run offers to
// its heuristic.  Calls are embedded everywhere they are needed and do nothing
// when the manager is not in use.
type TraceManager struct {
	// experiment uses trace
	InUse bool `json:"inuse" yaml:"inuse"`

	// name of experiment
	ExpName string `json:"expname" yaml:"expname"`

	// identity of the run the records came from
	RunID string `json:"runid" yaml:"runid"`

	// all records, in processing order
	Records []PlacementRecord `json:"records" yaml:"records"`
}

// CreateTraceManager is a constructor.  It saves the name of the experiment
// and a flag indicating whether the trace manager is active.
func CreateTraceManager(expName string, active bool) *TraceManager {
	return &TraceManager{InUse: active, ExpName: expName, Records: []PlacementRecord{}}
}

// Active tells the caller whether the TraceManager is actively being used
func (tm *TraceManager) Active() bool {
	return tm != nil && tm.InUse
}

// AddPlacement records a successful embedding
func (tm *TraceManager) AddPlacement(vrt vrtime.Time, ns *NetworkState, pl *Placement) {
	if !tm.Active() {
		return
	}
	rec := tm.baseRecord(vrt, ns, pl.User, "placed")
	rec.Path = ns.PathNames(pl.Path)
	rec.Hosts = ns.PathNames(pl.Hosts())
	rec.Cost = pl.Cost
	tm.Records = append(tm.Records, rec)
}

// AddRefusal records an instance the heuristic did not embed; outcome says
// whether the run went on past it
func (tm *TraceManager) AddRefusal(vrt vrtime.Time, ns *NetworkState, cu *ChainUser, outcome string) {
	if !tm.Active() {
		return
	}
	tm.Records = append(tm.Records, tm.baseRecord(vrt, ns, cu, outcome))
}

func (tm *TraceManager) baseRecord(vrt vrtime.Time, ns *NetworkState, cu *ChainUser, outcome string) PlacementRecord {
	return PlacementRecord{
		Time:     vrt.Seconds(),
		Ticks:    vrt.Ticks(),
		Priority: vrt.Pri(),
		User:     cu.Number,
		Chain:    cu.Chain.Name,
		Src:      ns.Nodes[cu.Src].Name,
		Dst:      ns.Nodes[cu.Dst].Name,
		Rate:     cu.Rate,
		Outcome:  outcome,
	}
}

// WriteToFile stores the TraceManager to the file whose name is given.
// Serialization to json or to yaml is selected based on the extension of this name.
func (tm *TraceManager) WriteToFile(filename string) error {
	if !tm.Active() {
		return fmt.Errorf("trace for %s is not in use", filename)
	}
	return writeDesc(filename, tm)
}

// ReadTraceManager deserializes a trace written by WriteToFile
func ReadTraceManager(filename string, useYAML bool, dict []byte) (*TraceManager, error) {
	tm := TraceManager{}
	if err := readDesc(filename, useYAML, dict, &tm); err != nil {
		return nil, fmt.Errorf("trace %s: %w", filename, err)
	}
	return &tm, nil
}
