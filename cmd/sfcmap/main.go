package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	sfcmap "github.com/zamaniali1995/load-balancing-4-SFC-Mapping-sub001"
)

func main() {
	topoFile := flag.String("topo", "", "topology file, yaml or json")
	nodesFile := flag.String("nodes", "", "node table, csv (with -links, instead of -topo)")
	linksFile := flag.String("links", "", "link table, csv")
	chainsFile := flag.String("chains", "", "chain catalog, yaml or json")
	expFile := flag.String("exp", "", "experiment configuration, yaml or json")
	algorithm := flag.String("algorithm", "", "override the configured algorithm; 'all' runs every one")
	traceFile := flag.String("trace", "", "write the placement trace here")
	resultsFile := flag.String("results", "", "write the results table here, csv")
	genUsers := flag.Int("gen", 0, "attach this many random demand pairs to every chain before running")
	genRate := flag.Float64("gen-rate", 0, "with -gen, also draw chain rates with this mean")
	genOut := flag.String("gen-out", "", "with -gen, write the generated catalog here")
	logLevel := flag.String("log-level", "INFO", "TRACE, DEBUG, INFO, WARN or ERROR")
	logPath := flag.String("log", "", "also append the log to this file")
	flag.Parse()

	var output io.Writer = os.Stderr
	if len(*logPath) > 0 {
		logFile, err := os.OpenFile(*logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			panic(err)
		}
		defer func() {
			if err := logFile.Close(); err != nil {
				panic(err)
			}
		}()
		output = io.MultiWriter(os.Stderr, logFile)
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "sfcmap",
		Level:  hclog.LevelFromString(*logLevel),
		Output: output,
	})

	if *genUsers > 0 {
		generated, err := generateDemand(*topoFile, *nodesFile, *linksFile, *chainsFile, *genOut, *genUsers, *genRate)
		if err != nil {
			logger.Error("demand generation failed", "error", err)
			os.Exit(1)
		}
		*chainsFile = generated
	}

	exp, err := sfcmap.BuildExperiment(map[string]string{
		"topo": *topoFile, "nodes": *nodesFile, "links": *linksFile,
		"chains": *chainsFile, "exp": *expFile,
	})
	if err != nil {
		logger.Error("unable to build experiment", "error", err)
		os.Exit(1)
	}

	algs := []string{exp.Cfg.Algorithm}
	switch {
	case *algorithm == "all":
		algs = sfcmap.Algorithms
	case len(*algorithm) > 0:
		algs = []string{*algorithm}
	}

	results := []*sfcmap.Result{}
	for _, alg := range algs {
		exp.Cfg.Algorithm = alg
		res, err := exp.Run(logger)
		if err != nil {
			logger.Error("run failed", "algorithm", alg, "error", err)
			os.Exit(1)
		}
		results = append(results, res)
		fmt.Printf("%-16s %-8s cpu max %6.2f%% avg %6.2f%%  bw max %6.2f%% avg %6.2f%%  mem max %6.2f%%  placed %d rejected %d feasible %t  %v\n",
			res.Algorithm, res.Discipline, res.MaxNodeCPU, res.AvgNodeCPU, res.MaxLinkBw, res.AvgLinkBw,
			res.MaxNodeMem, res.Placed, res.Rejected, res.Feasible, res.Elapsed)

		if len(*traceFile) > 0 && exp.Trace.Active() {
			if err := exp.Trace.WriteToFile(traceName(*traceFile, alg, len(algs))); err != nil {
				logger.Error("unable to write trace", "error", err)
			}
		}
	}

	if len(*resultsFile) > 0 {
		if err := sfcmap.WriteResultsCSV(*resultsFile, results); err != nil {
			logger.Error("unable to write results", "error", err)
			os.Exit(1)
		}
	}
}

// traceName gives each algorithm its own trace file when several are run
func traceName(filename, alg string, numAlgs int) string {
	if numAlgs == 1 {
		return filename
	}
	dot := strings.LastIndex(filename, ".")
	if dot < 0 {
		return filename + "-" + alg
	}
	return filename[:dot] + "-" + alg + filename[dot:]
}

// generateDemand attaches random demand pairs to the chains of chainsFile and
// returns the name of the file holding the result
func generateDemand(topoFile, nodesFile, linksFile, chainsFile, outFile string, perChain int, meanRate float64) (string, error) {
	var tc *sfcmap.TopoCfg
	var err error
	if len(topoFile) > 0 {
		tc, err = sfcmap.ReadTopoCfg(topoFile, isYAML(topoFile), nil)
	} else {
		tc, err = sfcmap.ReadTopoCSV(nodesFile, linksFile)
	}
	if err != nil {
		return "", err
	}

	cc, err := sfcmap.ReadChainCfg(chainsFile, isYAML(chainsFile), nil)
	if err != nil {
		return "", err
	}

	nodes := make([]string, 0, len(tc.Nodes))
	for _, nd := range tc.Nodes {
		nodes = append(nodes, nd.Name)
	}
	dg := sfcmap.CreateDemandGen("demand", perChain, meanRate)
	if err := dg.Generate(cc, nodes); err != nil {
		return "", err
	}

	if len(outFile) == 0 {
		outFile = "generated-chains.yaml"
	}
	if err := cc.WriteToFile(outFile); err != nil {
		return "", err
	}
	return outFile, nil
}

func isYAML(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") ||
		strings.HasSuffix(filename, ".YAML")
}
