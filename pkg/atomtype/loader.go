package atomtype

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leaptype/pkg/molecule"
)

// SchemaVersion is the newest table format this package reads.
const SchemaVersion = 1

type tableFile struct {
	Version       int                `yaml:"version"`
	Hybridization HybridizationRules `yaml:"hybridization"`
	Types         []typeEntry        `yaml:"types"`
}

type typeEntry struct {
	Name        string `yaml:"name"`
	Element     string `yaml:"element"`
	Model       string `yaml:"model"`
	Description string `yaml:"description"`

	Charges       []int      `yaml:"charges"`
	Hybridization stringList `yaml:"hybridization"`

	Neighbors       *int   `yaml:"neighbors"`
	MaxNeighbors    *int   `yaml:"max_neighbors"`
	Connections     *int   `yaml:"connections"`
	Hydrogens       *int   `yaml:"hydrogens"`
	PiBonds         *int   `yaml:"pi_bonds"`
	RingSize        *int   `yaml:"ring_size"`
	MaxBondOrder    string `yaml:"max_bond_order"`
	MaxBondOrderSum *int   `yaml:"max_bond_order_sum"`

	Ring     *bool `yaml:"ring"`
	Aromatic *bool `yaml:"aromatic"`
	Amide    *bool `yaml:"amide"`
}

// stringList accepts either a scalar or a sequence of strings.
type stringList []string

func (s *stringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = stringList{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*s = list
	return nil
}

// LoadFile reads and validates a type definition table from a YAML file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Source: path, Message: "cannot read table", Err: err}
	}
	return Parse(data, path)
}

// Parse reads and validates a type definition table from YAML.
// Unknown keys are rejected so that typos surface as configuration errors.
func Parse(data []byte, source string) (*Table, error) {
	doc := tableFile{Hybridization: DefaultHybridizationRules()}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ConfigError{Source: source, Message: "table is empty"}
		}
		return nil, &ConfigError{Source: source, Message: "invalid YAML", Err: err}
	}
	if doc.Version > SchemaVersion {
		return nil, &ConfigError{Source: source, Message: fmt.Sprintf("unsupported table version %d", doc.Version)}
	}

	descriptors := make([]Descriptor, 0, len(doc.Types))
	for i, e := range doc.Types {
		d, err := e.descriptor()
		if err != nil {
			name := e.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i+1)
			}
			return nil, &ConfigError{Source: source, Descriptor: name, Message: err.Error()}
		}
		descriptors = append(descriptors, d)
	}
	return NewTable(source, doc.Hybridization, descriptors)
}

func (e typeEntry) descriptor() (Descriptor, error) {
	d := Descriptor{
		Name:            e.Name,
		Element:         e.Element,
		Model:           ModelKind(e.Model),
		Description:     e.Description,
		Charges:         e.Charges,
		Neighbors:       e.Neighbors,
		MaxNeighbors:    e.MaxNeighbors,
		Connections:     e.Connections,
		Hydrogens:       e.Hydrogens,
		PiBonds:         e.PiBonds,
		RingSize:        e.RingSize,
		MaxBondOrderSum: e.MaxBondOrderSum,
		Ring:            e.Ring,
		Aromatic:        e.Aromatic,
		Amide:           e.Amide,
	}
	if e.Hybridization != nil {
		d.Hybridizations = make([]Hybridization, 0, len(e.Hybridization))
		for _, name := range e.Hybridization {
			h, ok := ParseHybridization(name)
			if !ok {
				return Descriptor{}, fmt.Errorf("unknown hybridization %q", name)
			}
			d.Hybridizations = append(d.Hybridizations, h)
		}
	}
	if e.MaxBondOrder != "" {
		o, ok := molecule.ParseBondOrder(e.MaxBondOrder)
		if !ok {
			return Descriptor{}, fmt.Errorf("unknown bond order %q", e.MaxBondOrder)
		}
		d.MaxBondOrder = &o
	}
	return d, nil
}
