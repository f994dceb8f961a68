package sfcmap

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestTopoCfgRoundTrip(t *testing.T) {
	dir := t.TempDir()
	tc := meshTopo()
	for _, name := range []string{"topo.yaml", "topo.json"} {
		filename := filepath.Join(dir, name)
		if err := tc.WriteToFile(filename); err != nil {
			t.Fatalf("WriteToFile(%s): %v", name, err)
		}
		back, err := ReadTopoCfg(filename, useYAMLExt(filename), nil)
		if err != nil {
			t.Fatalf("ReadTopoCfg(%s): %v", name, err)
		}
		if !reflect.DeepEqual(tc, back) {
			t.Errorf("%s: got %+v want %+v", name, back, tc)
		}
	}

	if err := tc.WriteToFile(filepath.Join(dir, "topo.txt")); err == nil {
		t.Errorf("unknown extension accepted")
	}
}

func TestReadTopoCfgFromBytes(t *testing.T) {
	dict := []byte(`
name: tiny
nodes:
  - {name: A, cpu: 4, mem: 8}
  - {name: B, cpu: 2, mem: 8}
links:
  - {nodea: A, nodeb: B, bandwidth: 10}
`)
	tc, err := ReadTopoCfg("ignored.yaml", true, dict)
	if err != nil {
		t.Fatalf("ReadTopoCfg: %v", err)
	}
	ns := mustNetwork(t, tc)
	link, err := ns.LinkByEndpoints(0, 1)
	if err != nil {
		t.Fatalf("LinkByEndpoints: %v", err)
	}
	if link.Name != "A-B" || link.BwCap != 10 {
		t.Errorf("got link %s cap %g want A-B cap 10", link.Name, link.BwCap)
	}

	if _, err := ReadTopoCfg(filepath.Join(t.TempDir(), "absent.yaml"), true, nil); err == nil {
		t.Errorf("missing file accepted")
	}
}

func TestReadTopoCSV(t *testing.T) {
	dir := t.TempDir()
	nodesFile := filepath.Join(dir, "nodes.csv")
	linksFile := filepath.Join(dir, "links.csv")
	nodes := "name,cpu,mem\nA,10,10\nB,10,10\nC,5,20\n"
	links := "name,node_a,node_b,bw\nab,A,B,100\n,B,C,50\n"
	if err := os.WriteFile(nodesFile, []byte(nodes), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(linksFile, []byte(links), 0644); err != nil {
		t.Fatal(err)
	}

	tc, err := ReadTopoCSV(nodesFile, linksFile)
	if err != nil {
		t.Fatalf("ReadTopoCSV: %v", err)
	}
	if tc.Name != "nodes" {
		t.Errorf("got name %s want nodes", tc.Name)
	}
	ns := mustNetwork(t, tc)
	if c := mustNode(t, ns, "C"); c.CPUCap != 5 || c.MemCap != 20 {
		t.Errorf("got C caps %g,%g want 5,20", c.CPUCap, c.MemCap)
	}
	if _, err := ns.LinkByName("ab"); err != nil {
		t.Errorf("LinkByName(ab): %v", err)
	}
	if link, err := ns.LinkByName("B-C"); err != nil || link.BwCap != 50 {
		t.Errorf("got %v,%v want the unnamed link as B-C with cap 50", link, err)
	}
}

func TestChainCfgRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "chains.yml")
	cc := meshChains()
	if err := cc.WriteToFile(filename); err != nil {
		t.Fatalf("WriteToFile: %v", err)
	}
	back, err := ReadChainCfg(filename, true, nil)
	if err != nil {
		t.Fatalf("ReadChainCfg: %v", err)
	}
	if !reflect.DeepEqual(cc, back) {
		t.Errorf("got %+v want %+v", back, cc)
	}
}

func TestCreateCatalog(t *testing.T) {
	ns := mustNetwork(t, meshTopo())
	cat := mustCatalog(t, meshChains(), ns)

	if len(cat.Functions) != 4 || len(cat.Chains) != 3 {
		t.Fatalf("got %d functions and %d chains want 4 and 3", len(cat.Functions), len(cat.Chains))
	}
	sec, err := cat.ChainByName("secure")
	if err != nil {
		t.Fatalf("ChainByName: %v", err)
	}
	if len(sec.Functions) != 4 || sec.Functions[1].Name != "ids" {
		t.Errorf("got secure functions %v", sec.Functions)
	}
	// fw 1 + ids 2 + nat 0.5 + lb 1.5, at rate 2
	if !near(sec.CPUDemand(), 10) || !near(sec.Users[0].CPUDemand(), 10) || !near(sec.Users[0].MemDemand(), 6) {
		t.Errorf("got cpu demand %g,%g mem %g want 10,10,6", sec.CPUDemand(), sec.Users[0].CPUDemand(), sec.Users[0].MemDemand())
	}

	users := cat.ChainUsers()
	if len(users) != 8 {
		t.Fatalf("got %d instances want 8", len(users))
	}
	for idx, cu := range users {
		if cu.Number != idx {
			t.Errorf("instance %d numbered %d", idx, cu.Number)
		}
	}
	if users[3].Chain != sec || users[3].Src != mustNode(t, ns, "n0").ID || users[3].Name() != "secure#3" {
		t.Errorf("got fourth instance %s from %d", users[3].Name(), users[3].Src)
	}
	if _, err := cat.FunctionByName("lb"); err != nil {
		t.Errorf("FunctionByName(lb): %v", err)
	}
}

func TestCreateCatalogNotFound(t *testing.T) {
	ns := mustNetwork(t, lineTopo())
	var nf *NotFoundError

	cc := lineChains(1)
	cc.AddChain("broken", 1, "fw", "dpi")
	_, err := CreateCatalog(cc, ns)
	if !errors.As(err, &nf) || nf.Kind != "function" || nf.Name != "dpi" {
		t.Errorf("got %v want function dpi not found", err)
	}

	cc = lineChains(1)
	cc.Chains[0].AddUser("A", "Z")
	cc.Chains[0].AddUser("Y", "B")
	_, err = CreateCatalog(cc, ns)
	if !errors.As(err, &nf) || nf.Kind != "node" {
		t.Errorf("got %v want node not found", err)
	}

	cat := mustCatalog(t, lineChains(1), ns)
	if _, err := cat.ChainByName("video"); !errors.As(err, &nf) {
		t.Errorf("got %v want chain not found", err)
	}
}

func TestReportErrs(t *testing.T) {
	if err := ReportErrs([]error{nil, nil}); err != nil {
		t.Errorf("got %v from no errors want nil", err)
	}
	one := errors.New("one")
	if err := ReportErrs([]error{nil, one}); err != one {
		t.Errorf("got %v want the single error itself", err)
	}
	nf := &NotFoundError{Kind: "node", Name: "Q"}
	err := ReportErrs([]error{one, nf})
	if err.Error() != "one,node Q not found" {
		t.Errorf("got message %q", err.Error())
	}
	var target *NotFoundError
	if !errors.As(err, &target) || !errors.Is(err, one) {
		t.Errorf("constituent errors not reachable from %v", err)
	}
}

func TestCheckReadableFiles(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.yaml")
	if err := os.WriteFile(present, []byte("name: x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if ok, err := CheckReadableFiles([]string{present, ""}); !ok || err != nil {
		t.Errorf("got %t,%v want true,nil", ok, err)
	}
	if ok, _ := CheckReadableFiles([]string{present, filepath.Join(dir, "absent")}); ok {
		t.Errorf("absent file reported readable")
	}
	if ok, _ := CheckReadableFiles([]string{dir}); ok {
		t.Errorf("directory reported readable")
	}
}
