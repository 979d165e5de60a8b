package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leaptype/pkg/atomtype"
)

// generateCatalogDocs writes a reference page for the built-in catalog.
func generateCatalogDocs(outDir string) error {
	log.Printf("Generating catalog docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	table, err := atomtype.Default()
	if err != nil {
		return err
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Atom Type Catalog", "Descriptors of the built-in atom type catalog")
	w.GeneratedMarker()

	w.Header(1, "Atom Type Catalog")
	w.Paragraph(fmt.Sprintf("The built-in catalog holds %d descriptors for %d elements. "+
		"Descriptors of an element are tried in the order listed; the first one whose "+
		"constraints all hold names the atom.", table.Len(), len(table.Elements())))
	w.Paragraph(fmt.Sprintf("Use %s to print this catalog from the command line and %s to check an edited copy.",
		commandLink("types"), commandLink("validate")))

	rules := table.Rules()
	w.Header(2, "Hybridization Rules")
	w.Table([]string{"Rule", "Value"}, [][]string{
		{InlineCode("sp_triple_bonds"), strconv.Itoa(rules.SPTripleBonds)},
		{InlineCode("sp_double_bonds"), strconv.Itoa(rules.SPDoubleBonds)},
		{InlineCode("sp2_double_bonds"), strconv.Itoa(rules.SP2DoubleBonds)},
		{InlineCode("planar_donors"), strings.Join(rules.PlanarDonors, ", ")},
		{InlineCode("conjugated_planar"), strings.Join(rules.ConjugatedPlanar, ", ")},
		{InlineCode("cation_planar"), strings.Join(rules.CationPlanar, ", ")},
		{InlineCode("cation_planar_connections"), strconv.Itoa(rules.CationPlanarConnections)},
	})

	for _, el := range table.Elements() {
		w.Header(2, el)
		var rows [][]string
		for _, d := range table.ForElement(el) {
			hyb := make([]string, len(d.Hybridizations))
			for i, h := range d.Hybridizations {
				hyb[i] = h.String()
			}
			charges := make([]string, len(d.Charges))
			for i, c := range d.Charges {
				charges[i] = strconv.Itoa(c)
			}
			rows = append(rows, []string{
				InlineCode(d.Name),
				string(d.Model),
				strings.Join(charges, ", "),
				strings.Join(hyb, ", "),
				strings.Join(d.Constraints(), " "),
				cleanDescription(d.Description),
			})
		}
		w.Table([]string{"Name", "Model", "Charges", "Hybridization", "Constraints", "Description"}, rows)
	}

	filename := filepath.Join(outDir, "index.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}
