// Package config parses the two declarative documents §6 specifies:
// per-analysis options and the taint sources/sinks/transfers document,
// following the pack's common choice of gopkg.in/yaml.v3 for this kind of
// configuration (seen in the uber-go-nilaway and securego-gosec
// manifests) plus encoding/json for the taint document's JSON variant.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Selector names the PTA context selector (§6 "Analysis configuration").
type Selector string

const (
	SelectorCI     Selector = "ci"
	Selector1Call  Selector = "1-call"
	Selector2Call  Selector = "2-call"
	Selector1Obj   Selector = "1-obj"
	Selector2Obj   Selector = "2-obj"
	Selector1Type  Selector = "1-type"
	Selector2Type  Selector = "2-type"
)

// AnalysisOptions is one analysis id's option block, e.g.
//
//	pta:
//	  context: 2-obj
//	  heap-model: allocation-site
//	  taint-config: taint.yaml
type AnalysisOptions struct {
	ID          string   `yaml:"-"`
	Context     Selector `yaml:"context,omitempty"`
	HeapModel   string   `yaml:"heap-model,omitempty"`
	TaintConfig string   `yaml:"taint-config,omitempty"`
}

// Config is the top-level analysis configuration document: a map from
// analysis id ("constprop", "livevar", "inter-constprop", "deadcode",
// "pta") to its options.
type Config struct {
	Analyses map[string]*AnalysisOptions `yaml:"analyses"`
}

// Analysis returns the options for id, or an empty AnalysisOptions if the
// document doesn't mention it (every option then takes its zero value,
// the analysis's own default).
func (c *Config) Analysis(id string) *AnalysisOptions {
	if c == nil || c.Analyses == nil {
		return &AnalysisOptions{ID: id}
	}
	if opt, ok := c.Analyses[id]; ok {
		opt.ID = id
		return opt
	}
	return &AnalysisOptions{ID: id}
}

// LoadYAML reads an analysis-configuration document from path.
func LoadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &c, nil
}

// LoadTaintConfig reads a taint sources/sinks/transfers document. The
// format (YAML or JSON) is picked from path's extension, per §6's "JSON
// or YAML" allowance.
func LoadTaintConfig(path string) (*TaintConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var tc TaintConfig
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(data, &tc)
	} else {
		err = yaml.Unmarshal(data, &tc)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &tc, nil
}

// Endpoint names where a tainted value reads from or writes to at a call
// site: a non-negative argument index, BASE (the receiver), or RESULT
// (the call's return value).
type Endpoint struct {
	Kind EndpointKind
	Arg  int // meaningful only when Kind == ArgEndpoint
}

type EndpointKind int

const (
	ArgEndpoint EndpointKind = iota
	BaseEndpoint
	ResultEndpoint
)

// UnmarshalYAML parses "0", "1", ... as ArgEndpoint, "BASE" as
// BaseEndpoint, "RESULT" as ResultEndpoint (§6 "from and to are either
// non-negative argument indices, BASE, or RESULT").
func (e *Endpoint) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return e.parse(s)
}

func (e *Endpoint) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return e.parse(s)
}

func (e *Endpoint) parse(s string) error {
	switch strings.ToUpper(s) {
	case "BASE":
		*e = Endpoint{Kind: BaseEndpoint}
		return nil
	case "RESULT":
		*e = Endpoint{Kind: ResultEndpoint}
		return nil
	default:
		var n int
		if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n < 0 {
			return fmt.Errorf("config: invalid endpoint %q: want a non-negative index, BASE, or RESULT", s)
		}
		*e = Endpoint{Kind: ArgEndpoint, Arg: n}
		return nil
	}
}

// Source is (method-signature, return-type): a successful call fabricates
// a taint object (§4.10).
type Source struct {
	Method     string `yaml:"method" json:"method"`
	ReturnType string `yaml:"type" json:"type"`
}

// Sink is (method-signature, parameter-index); -1 denotes the base
// receiver (§6).
type Sink struct {
	Method string `yaml:"method" json:"method"`
	Param  int    `yaml:"param" json:"param"`
}

// Transfer re-tags a taint flowing from one endpoint to another with a
// declared type at a matching call (§4.10).
type Transfer struct {
	Method string   `yaml:"method" json:"method"`
	From   Endpoint `yaml:"from" json:"from"`
	To     Endpoint `yaml:"to" json:"to"`
	Type   string   `yaml:"type" json:"type"`
}

// TaintConfig is the declarative taint document §6 specifies.
type TaintConfig struct {
	Sources   []Source   `yaml:"sources" json:"sources"`
	Sinks     []Sink     `yaml:"sinks" json:"sinks"`
	Transfers []Transfer `yaml:"transfers" json:"transfers"`
}
