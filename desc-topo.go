package sfcmap

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// To serialize and deserialize the structures that describe an experiment we keep
// them free of pointers: every reference to another object is by name.  The 'Desc'
// structs below are what live in files; the run-time representations (NetworkState,
// Catalog) are built from them once, with indices for lookup by name or id.

// NodeDesc describes a physical node that can host virtual network functions.
// CPU and Mem are capacities, in whatever unit the function costs are expressed in.
type NodeDesc struct {
	Name string  `json:"name" yaml:"name" csv:"name"`
	CPU  float64 `json:"cpu" yaml:"cpu" csv:"cpu"`
	Mem  float64 `json:"mem" yaml:"mem" csv:"mem"`
}

// LinkDesc describes an undirected physical link between two named nodes
type LinkDesc struct {
	// Name is optional; a default is derived from the endpoints when empty
	Name string `json:"name" yaml:"name" csv:"name"`

	NodeA string `json:"nodea" yaml:"nodea" csv:"node_a"`
	NodeB string `json:"nodeb" yaml:"nodeb" csv:"node_b"`

	// Bandwidth is the link capacity, same unit as chain traffic rates
	Bandwidth float64 `json:"bandwidth" yaml:"bandwidth" csv:"bw"`
}

// TopoCfg is the serializable description of a physical network
type TopoCfg struct {
	Name  string     `json:"name" yaml:"name"`
	Nodes []NodeDesc `json:"nodes" yaml:"nodes"`
	Links []LinkDesc `json:"links" yaml:"links"`
}

// CreateTopoCfg is a constructor for an empty topology description
func CreateTopoCfg(name string) *TopoCfg {
	tc := new(TopoCfg)
	tc.Name = name
	tc.Nodes = make([]NodeDesc, 0)
	tc.Links = make([]LinkDesc, 0)
	return tc
}

// AddNode appends a node description
func (tc *TopoCfg) AddNode(name string, cpu, mem float64) {
	tc.Nodes = append(tc.Nodes, NodeDesc{Name: name, CPU: cpu, Mem: mem})
}

// AddLink appends a link description between nodes a and b
func (tc *TopoCfg) AddLink(a, b string, bandwidth float64) {
	tc.Links = append(tc.Links, LinkDesc{Name: DefaultLinkName(a, b), NodeA: a, NodeB: b, Bandwidth: bandwidth})
}

// DefaultLinkName generates a name for a link from the names of its endpoints
func DefaultLinkName(a, b string) string {
	return fmt.Sprintf("%s-%s", a, b)
}

// WriteToFile serializes the TopoCfg and writes to the file whose name is given as an input argument.
// Extension of the file name selects whether serialization is to json or to yaml format.
func (tc *TopoCfg) WriteToFile(filename string) error {
	return writeDesc(filename, tc)
}

// ReadTopoCfg deserializes a slice of bytes into a TopoCfg.  If the input arg of bytes
// is empty, the file whose name is given as an argument is read.
func ReadTopoCfg(topoFileName string, useYAML bool, dict []byte) (*TopoCfg, error) {
	tc := TopoCfg{}
	if err := readDesc(topoFileName, useYAML, dict, &tc); err != nil {
		return nil, fmt.Errorf("topology %s: %w", topoFileName, err)
	}
	return &tc, nil
}

// ReadTopoCSV builds a TopoCfg from a pair of csv tables, one row per node
// (name,cpu,mem) and one row per link (name,node_a,node_b,bw)
func ReadTopoCSV(nodesFile, linksFile string) (*TopoCfg, error) {
	tc := CreateTopoCfg(strings.TrimSuffix(filepath.Base(nodesFile), filepath.Ext(nodesFile)))

	nodes := []*NodeDesc{}
	if err := unmarshalCSVFile(nodesFile, &nodes); err != nil {
		return nil, err
	}
	for _, nd := range nodes {
		tc.Nodes = append(tc.Nodes, *nd)
	}

	links := []*LinkDesc{}
	if err := unmarshalCSVFile(linksFile, &links); err != nil {
		return nil, err
	}
	for _, ld := range links {
		if len(ld.Name) == 0 {
			ld.Name = DefaultLinkName(ld.NodeA, ld.NodeB)
		}
		tc.Links = append(tc.Links, *ld)
	}
	return tc, nil
}

func unmarshalCSVFile(filename string, out any) error {
	in, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := gocsv.UnmarshalFile(in, out); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

// FuncDesc describes a virtual network function.  CPU and Mem are the
// per-unit-of-traffic costs; a chain with rate r consumes CPU*r on the hosting node.
type FuncDesc struct {
	Name string  `json:"name" yaml:"name"`
	CPU  float64 `json:"cpu" yaml:"cpu"`
	Mem  float64 `json:"mem" yaml:"mem"`
}

// UserDesc is one demand pair for a chain
type UserDesc struct {
	Src string `json:"src" yaml:"src"`
	Dst string `json:"dst" yaml:"dst"`
}

// ChainDesc describes a service function chain template and the demand pairs using it
type ChainDesc struct {
	Name string `json:"name" yaml:"name"`

	// Functions lists function names in the order traffic must traverse them
	Functions []string `json:"functions" yaml:"functions"`

	// Rate is the traffic rate of every user of the chain
	Rate float64 `json:"rate" yaml:"rate"`

	Users []UserDesc `json:"users" yaml:"users"`
}

// ChainCfg is the serializable chain catalog: function costs and chain templates
type ChainCfg struct {
	Name      string      `json:"name" yaml:"name"`
	Functions []FuncDesc  `json:"functions" yaml:"functions"`
	Chains    []ChainDesc `json:"chains" yaml:"chains"`
}

// CreateChainCfg is a constructor for an empty chain catalog description
func CreateChainCfg(name string) *ChainCfg {
	cc := new(ChainCfg)
	cc.Name = name
	cc.Functions = make([]FuncDesc, 0)
	cc.Chains = make([]ChainDesc, 0)
	return cc
}

// AddFunction appends a function description
func (cc *ChainCfg) AddFunction(name string, cpu, mem float64) {
	cc.Functions = append(cc.Functions, FuncDesc{Name: name, CPU: cpu, Mem: mem})
}

// AddChain appends a chain template with no users, and returns a pointer
// to it so that users can be attached
func (cc *ChainCfg) AddChain(name string, rate float64, functions ...string) *ChainDesc {
	fl := make([]string, len(functions))
	copy(fl, functions)
	cc.Chains = append(cc.Chains, ChainDesc{Name: name, Functions: fl, Rate: rate, Users: []UserDesc{}})
	return &cc.Chains[len(cc.Chains)-1]
}

// AddUser attaches a (src,dst) demand pair to the chain
func (cd *ChainDesc) AddUser(src, dst string) {
	cd.Users = append(cd.Users, UserDesc{Src: src, Dst: dst})
}

// WriteToFile stores the ChainCfg to the file whose name is given,
// json or yaml depending on extension
func (cc *ChainCfg) WriteToFile(filename string) error {
	return writeDesc(filename, cc)
}

// ReadChainCfg deserializes a ChainCfg from dict, or from the named file when dict is empty
func ReadChainCfg(filename string, useYAML bool, dict []byte) (*ChainCfg, error) {
	cc := ChainCfg{}
	if err := readDesc(filename, useYAML, dict, &cc); err != nil {
		return nil, fmt.Errorf("chains %s: %w", filename, err)
	}
	return &cc, nil
}

// useYAMLExt reports whether the file extension selects yaml
func useYAMLExt(filename string) bool {
	ext := path.Ext(filename)
	return ext == ".yaml" || ext == ".YAML" || ext == ".yml"
}

// writeDesc serializes v to json or yaml, selected by the extension of filename
func writeDesc(filename string, v any) error {
	pathExt := path.Ext(filename)
	var bytes []byte
	var merr error

	switch pathExt {
	case ".yaml", ".YAML", ".yml":
		bytes, merr = yaml.Marshal(v)
	case ".json", ".JSON":
		bytes, merr = json.MarshalIndent(v, "", "\t")
	default:
		return fmt.Errorf("unrecognized output extension %q for %s", pathExt, filename)
	}
	if merr != nil {
		return merr
	}

	return os.WriteFile(filename, bytes, 0644)
}

// readDesc fills v from dict, reading the named file first if dict is empty
func readDesc(filename string, useYAML bool, dict []byte, v any) error {
	var err error

	// read from the file only if the byte slice is empty
	if len(dict) == 0 {
		fileInfo, serr := os.Stat(filename)
		if os.IsNotExist(serr) || (fileInfo != nil && fileInfo.IsDir()) {
			return fmt.Errorf("%s does not exist or cannot be read", filename)
		}
		dict, err = os.ReadFile(filename)
		if err != nil {
			return err
		}
	}

	if useYAML {
		return yaml.Unmarshal(dict, v)
	}
	return json.Unmarshal(dict, v)
}

// ReportErrs transforms a list of errors and transforms the non-nil ones into a single error
// with comma-separated report of all the constituent errors, and returns it.
// The constituents stay reachable through errors.Is and errors.As.
func ReportErrs(errs []error) error {
	found := make([]error, 0)
	for _, err := range errs {
		if err != nil {
			found = append(found, err)
		}
	}
	switch len(found) {
	case 0:
		return nil
	case 1:
		return found[0]
	}
	return &errList{errs: found}
}

// errList is the aggregate returned by ReportErrs
type errList struct {
	errs []error
}

func (el *errList) Error() string {
	errMsg := make([]string, 0, len(el.errs))
	for _, err := range el.errs {
		errMsg = append(errMsg, err.Error())
	}
	return strings.Join(errMsg, ",")
}

func (el *errList) Unwrap() []error {
	return el.errs
}

// CheckReadableFiles probes the file system to ensure that every
// one of the non-empty argument filenames exists and is readable
func CheckReadableFiles(names []string) (bool, error) {
	errs := make([]error, 0)
	for _, name := range names {
		if len(name) == 0 {
			continue
		}
		fileInfo, err := os.Stat(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if fileInfo.IsDir() {
			errs = append(errs, fmt.Errorf("%s is a directory", name))
		}
	}

	if len(errs) == 0 {
		return true, nil
	}
	return false, ReportErrs(errs)
}
