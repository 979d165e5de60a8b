package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaptype/pkg/atomtype"
)

// NewTypesCommand creates the types command.
func NewTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types [element]",
		Short: "List atom type descriptors in match order",
		Long: `List the descriptors of the active atom type catalog.

Descriptors are printed in the order the matcher tries them: the first one
accepting an atom names it. Pass an element symbol to list only its types.`,
		Example: `  # List the whole catalog
  leaptype types

  # List nitrogen types from a custom catalog
  leaptype types N --types my-types.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			element := ""
			if len(args) == 1 {
				element = args[0]
			}
			return runTypes(cmd, element)
		},
	}
}

type descriptorJSON struct {
	Name          string   `json:"name"`
	Element       string   `json:"element"`
	Model         string   `json:"model"`
	Charges       []int    `json:"charges"`
	Hybridization []string `json:"hybridization,omitempty"`
	Constraints   []string `json:"constraints,omitempty"`
	Description   string   `json:"description,omitempty"`
}

func runTypes(cmd *cobra.Command, element string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	table, err := cmdCtx.LoadTable()
	if err != nil {
		return err
	}

	descriptors := table.Descriptors()
	if element != "" {
		descriptors = table.ForElement(element)
		if len(descriptors) == 0 {
			return fmt.Errorf("no atom types for element %q in %s", element, table.Source())
		}
	}

	if r.IsJSON() {
		out := make([]descriptorJSON, len(descriptors))
		for i := range descriptors {
			d := &descriptors[i]
			out[i] = descriptorJSON{
				Name:          d.Name,
				Element:       d.Element,
				Model:         string(d.Model),
				Charges:       d.Charges,
				Hybridization: hybridizationNames(d),
				Constraints:   d.Constraints(),
				Description:   d.Description,
			}
		}
		return r.JSON(out)
	}

	rows := make([][]string, len(descriptors))
	for i := range descriptors {
		d := &descriptors[i]
		rows[i] = []string{
			strconv.Itoa(i + 1),
			d.Name,
			d.Element,
			string(d.Model),
			joinInts(d.Charges),
			strings.Join(hybridizationNames(d), ","),
			strings.Join(d.Constraints(), " "),
			d.Description,
		}
	}
	r.Header(fmt.Sprintf("Atom types (%s)", table.Source()))
	r.Table([]string{"#", "name", "element", "model", "charges", "hybridization", "constraints", "description"}, rows)
	r.Printf("%d descriptors\n", len(descriptors))
	return nil
}

func hybridizationNames(d *atomtype.Descriptor) []string {
	out := make([]string, len(d.Hybridizations))
	for i, h := range d.Hybridizations {
		out[i] = h.String()
	}
	return out
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
