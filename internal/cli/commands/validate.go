package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaptype/pkg/atomtype"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check an atom type catalog",
		Long: `Load an atom type catalog and report the first problem found.

Checks cover YAML syntax, unknown keys, duplicate names, unknown models or
hybridization states, inconsistent counts and descriptors that can never
match because an earlier descriptor accepts every atom they would.

With no argument the configured catalog is checked (--types, or the
embedded default).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			if len(args) == 1 {
				cfg := *cmdCtx.Cfg
				cfg.TypesFile = args[0]
				cmdCtx.Cfg = &cfg
			}
			return runValidate(cmdCtx)
		},
	}
}

type validateJSON struct {
	Source      string `json:"source"`
	Valid       bool   `json:"valid"`
	Descriptors int    `json:"descriptors,omitempty"`
	Elements    int    `json:"elements,omitempty"`
	Descriptor  string `json:"descriptor,omitempty"`
	Error       string `json:"error,omitempty"`
}

func runValidate(cmdCtx *CommandContext) error {
	r := cmdCtx.Renderer
	source := cmdCtx.Cfg.TypesFile
	if source == "" {
		source = atomtype.EmbeddedSource
	}

	table, err := cmdCtx.LoadTable()
	if err != nil {
		if r.IsJSON() {
			res := validateJSON{Source: source, Error: err.Error()}
			var cfgErr *atomtype.ConfigError
			if errors.As(err, &cfgErr) {
				res.Descriptor = cfgErr.Descriptor
			}
			if jerr := r.JSON(res); jerr != nil {
				return jerr
			}
		}
		return err
	}

	if r.IsJSON() {
		return r.JSON(validateJSON{
			Source:      table.Source(),
			Valid:       true,
			Descriptors: table.Len(),
			Elements:    len(table.Elements()),
		})
	}
	r.Printf("%s: ok (%d descriptors, %d elements)\n", table.Source(), table.Len(), len(table.Elements()))
	return nil
}
