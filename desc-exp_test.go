package sfcmap

import (
	"path/filepath"
	"testing"
)

func TestExpCfgDefaults(t *testing.T) {
	ec := CreateExpCfg("x", "", "")
	if ec.Algorithm != AlgBalanced || ec.Discipline != DiscOnline {
		t.Errorf("got %s/%s want %s/%s", ec.Algorithm, ec.Discipline, AlgBalanced, DiscOnline)
	}
	if ec.K != DefaultK || ec.Tolerance != DefaultTolerance || ec.BatchSize != 0 {
		t.Errorf("got k %d tolerance %g batch %d", ec.K, ec.Tolerance, ec.BatchSize)
	}
	if err := ec.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	checked := CreateExpCfg("x", AlgBalanced, DiscChecked)
	if checked.Algorithm != AlgCapacityChecked {
		t.Errorf("checked discipline kept algorithm %s", checked.Algorithm)
	}
}

func TestReadExpCfg(t *testing.T) {
	// alpha is given as zero on purpose: it must not be replaced by the default
	dict := []byte(`{"name": "links", "algorithm": "link-first", "alpha": 0, "batchsize": 4}`)
	ec, err := ReadExpCfg("exp.json", false, dict)
	if err != nil {
		t.Fatalf("ReadExpCfg: %v", err)
	}
	if ec.Algorithm != AlgLinkFirst || ec.Discipline != DiscOnline || ec.K != DefaultK {
		t.Errorf("got %+v", ec)
	}
	if ec.Alpha != 0 || ec.BatchSize != 4 {
		t.Errorf("got alpha %g batch %d want 0 and 4", ec.Alpha, ec.BatchSize)
	}

	unset, err := ReadExpCfg("exp.yaml", true, []byte("name: plain\n"))
	if err != nil {
		t.Fatalf("ReadExpCfg: %v", err)
	}
	if unset.Alpha != DefaultAlpha {
		t.Errorf("got alpha %g when left out want %g", unset.Alpha, DefaultAlpha)
	}

	filename := filepath.Join(t.TempDir(), "exp.yaml")
	ec.Trace = true
	if err := ec.WriteToFile(filename); err != nil {
		t.Fatalf("WriteToFile: %v", err)
	}
	back, err := ReadExpCfg(filename, true, nil)
	if err != nil {
		t.Fatalf("ReadExpCfg: %v", err)
	}
	if *back != *ec {
		t.Errorf("got %+v want %+v", back, ec)
	}
}

func TestExpCfgValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(ec *ExpCfg)
	}{
		{"algorithm", func(ec *ExpCfg) { ec.Algorithm = "greedy" }},
		{"discipline", func(ec *ExpCfg) { ec.Discipline = "parallel" }},
		{"k", func(ec *ExpCfg) { ec.K = 0 }},
		{"alpha", func(ec *ExpCfg) { ec.Alpha = 1.5 }},
		{"batch size", func(ec *ExpCfg) { ec.BatchSize = -1 }},
		{"tolerance", func(ec *ExpCfg) { ec.Tolerance = 0 }},
	}
	for _, test := range tests {
		ec := CreateExpCfg("x", AlgBalanced, DiscSorted)
		test.modify(ec)
		if err := ec.Validate(); err == nil {
			t.Errorf("%s: invalid configuration accepted", test.name)
		}
	}
}
