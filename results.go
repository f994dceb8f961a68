package sfcmap

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// ResultRow is the flat projection of a Result written to a results table,
// one row per run
type ResultRow struct {
	RunID      string  `csv:"run_id"`
	Experiment string  `csv:"experiment"`
	Algorithm  string  `csv:"algorithm"`
	Discipline string  `csv:"discipline"`
	K          int     `csv:"k"`
	Alpha      float64 `csv:"alpha"`
	BatchSize  int     `csv:"batch_size"`
	MaxNodeCPU float64 `csv:"max_node_cpu_pct"`
	AvgNodeCPU float64 `csv:"avg_node_cpu_pct"`
	MaxNodeMem float64 `csv:"max_node_mem_pct"`
	AvgNodeMem float64 `csv:"avg_node_mem_pct"`
	MaxLinkBw  float64 `csv:"max_link_bw_pct"`
	AvgLinkBw  float64 `csv:"avg_link_bw_pct"`
	ElapsedSec float64 `csv:"elapsed_sec"`
	Feasible   bool    `csv:"feasible"`
	Placed     int     `csv:"placed"`
	Rejected   int     `csv:"rejected"`
}

// Row flattens a Result
func (res *Result) Row() *ResultRow {
	return &ResultRow{
		RunID:      res.RunID,
		Experiment: res.Experiment,
		Algorithm:  res.Algorithm,
		Discipline: res.Discipline,
		K:          res.K,
		Alpha:      res.Alpha,
		BatchSize:  res.BatchSize,
		MaxNodeCPU: res.MaxNodeCPU,
		AvgNodeCPU: res.AvgNodeCPU,
		MaxNodeMem: res.MaxNodeMem,
		AvgNodeMem: res.AvgNodeMem,
		MaxLinkBw:  res.MaxLinkBw,
		AvgLinkBw:  res.AvgLinkBw,
		ElapsedSec: res.Elapsed.Seconds(),
		Feasible:   res.Feasible,
		Placed:     res.Placed,
		Rejected:   res.Rejected,
	}
}

// WriteResultsCSV writes one row per result, with a header, replacing the file
func WriteResultsCSV(filename string, results []*Result) error {
	rows := make([]*ResultRow, 0, len(results))
	for _, res := range results {
		rows = append(rows, res.Row())
	}

	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := gocsv.MarshalFile(&rows, out); err != nil {
		out.Close()
		return fmt.Errorf("results %s: %w", filename, err)
	}
	return out.Close()
}

// ReadResultsCSV reads back a table written by WriteResultsCSV
func ReadResultsCSV(filename string) ([]*ResultRow, error) {
	rows := []*ResultRow{}
	if err := unmarshalCSVFile(filename, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
