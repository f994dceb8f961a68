package sfcmap

// demand-gen.go attaches synthetic demand to a chain catalog description:
// random (source, destination) pairs for every chain and, optionally, random
// traffic rates.  Samples are drawn from an rngstream stream, so a program that
// creates its streams in the same order generates the same demand every time.

import (
	"fmt"
	"math"

	"github.com/iti/rngstream"
)

// DemandGen holds the parameters of demand generation
type DemandGen struct {
	// PerChain is the number of demand pairs given to each chain
	PerChain int

	// MeanRate, when positive, replaces every chain's rate with a sample from the
	// exponential distribution of that mean
	MeanRate float64

	rngstrm *rngstream.RngStream
}

// CreateDemandGen is a constructor.  The named stream is created here and used
// for every sample the generator draws.
func CreateDemandGen(streamName string, perChain int, meanRate float64) *DemandGen {
	return &DemandGen{PerChain: perChain, MeanRate: meanRate, rngstrm: rngstream.New(streamName)}
}

// Generate appends PerChain demand pairs to every chain of cc, choosing the
// endpoints among nodes with the source different from the destination.
func (dg *DemandGen) Generate(cc *ChainCfg, nodes []string) error {
	if len(nodes) < 2 {
		return fmt.Errorf("demand generation needs at least two nodes, got %d", len(nodes))
	}
	if dg.PerChain < 0 {
		return fmt.Errorf("negative number of demand pairs %d", dg.PerChain)
	}

	for cidx := range cc.Chains {
		chain := &cc.Chains[cidx]
		if dg.MeanRate > 0 {
			chain.Rate = dg.sampleRate()
		}
		for n := 0; n < dg.PerChain; n++ {
			srcIdx := dg.rngstrm.RandInt(0, len(nodes)-1)
			// draw the destination from the other nodes and skip over the source
			dstIdx := dg.rngstrm.RandInt(0, len(nodes)-2)
			if dstIdx >= srcIdx {
				dstIdx += 1
			}
			chain.AddUser(nodes[srcIdx], nodes[dstIdx])
		}
	}
	return nil
}

// sampleRate draws a strictly positive rate, rounded to avoid non-sensical
// precision in the written catalog
func (dg *DemandGen) sampleRate() float64 {
	for {
		rate := roundFloat(expRV(dg.rngstrm.RandU01(), 1.0/dg.MeanRate), rdigits)
		if rate > 0 {
			return rate
		}
	}
}

var rdigits uint = 6

// roundFloat rounds val to the given number of decimal places
func roundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// expRV returns a sample of an exponentially distributed random number
func expRV(u01, rate float64) float64 {
	return -math.Log(1.0-u01) / rate
}
