package sfcmap

// transition.go feeds chain-user instances to a heuristic as arrivals on a
// discrete-event manager.  Instances arrive one per virtual second in the order
// the discipline produced; each arrival handler runs to completion before the
// next is dispatched, so every embedding sees the network left by the ones before it.

import (
	"errors"

	"github.com/hashicorp/go-hclog"
	"github.com/iti/evt/evtm"
	"github.com/iti/evt/vrtime"
)

// arrivalGap is the virtual time between consecutive arrivals, in seconds
const arrivalGap = 1.0

// replay carries the state shared by the arrival handlers of one run
type replay struct {
	ns        *NetworkState
	router    PathProvider
	heuristic *Heuristic
	k         int

	// abortOnInfeasible stops the run at the first instance the heuristic refuses
	abortOnInfeasible bool

	trace  *TraceManager
	logger hclog.Logger

	placements []*Placement
	rejected   int
	aborted    bool

	// err holds a failure that is not a refusal, e.g. a missing network element
	err error
}

// arrival is the data carried by one scheduled arrival event
type arrival struct {
	user *ChainUser
}

// replayArrivals schedules one arrival per instance and runs the event manager
// until they have all been handled
func (rp *replay) replayArrivals(users []*ChainUser) {
	evtMgr := evtm.New()
	for idx, cu := range users {
		evtMgr.Schedule(rp, &arrival{user: cu}, handleArrival, vrtime.SecondsToTime(float64(idx+1)*arrivalGap))
	}
	evtMgr.Run(float64(len(users)+1) * arrivalGap)
}

// handleArrival is the event handler for an instance arriving to the network.
// Its signature is that of evtm.EventHandlerFunction.
func handleArrival(evtMgr *evtm.EventManager, context any, data any) any {
	rp := context.(*replay)
	cu := data.(*arrival).user

	// once a run has stopped the remaining arrivals are drained without effect
	if rp.aborted || rp.err != nil {
		return nil
	}

	now := evtMgr.CurrentTime()
	candidates := rp.router.KShortestPaths(cu.Src, cu.Dst, rp.k)
	pl, err := rp.heuristic.Embed(rp.ns, cu, candidates)
	if err == nil {
		rp.placements = append(rp.placements, pl)
		rp.trace.AddPlacement(now, rp.ns, pl)
		rp.logger.Debug("placed", "user", cu.Name(), "path", rp.ns.PathNames(pl.Path),
			"hosts", rp.ns.PathNames(pl.Hosts()), "cost", pl.Cost, "time", evtMgr.CurrentSeconds())
		return nil
	}

	var infeasible *InfeasibleError
	if !errors.As(err, &infeasible) {
		rp.err = err
		return nil
	}

	if rp.abortOnInfeasible {
		rp.aborted = true
		rp.trace.AddRefusal(now, rp.ns, cu, "aborted")
		rp.logger.Warn("run aborted", "user", cu.Name(), "reason", infeasible.Reason)
		return nil
	}
	rp.rejected += 1
	rp.trace.AddRefusal(now, rp.ns, cu, "rejected")
	rp.logger.Warn("instance rejected", "user", cu.Name(), "reason", infeasible.Reason)
	return nil
}
