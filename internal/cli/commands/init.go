package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaptype/internal/cli/config"
	"github.com/leapstack-labs/leaptype/pkg/atomtype"
)

const (
	configFileName  = "leaptype.yaml"
	catalogFileName = "atomtypes.yaml"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Force   bool
	Catalog bool
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a leaptype.yaml configuration",
		Long: `Create a leaptype.yaml configuration file with the default settings.

Use --catalog to also export the built-in atom type catalog to atomtypes.yaml
and point the configuration at it, so the catalog can be edited.`,
		Example: `  # Initialize in current directory
  leaptype init

  # Export an editable copy of the built-in catalog
  leaptype init --catalog

  # Force overwrite existing files
  leaptype init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(NewCommandContext(cmd), dir, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&opts.Catalog, "catalog", false, "Export the built-in atom type catalog")

	return cmd
}

func runInit(cmdCtx *CommandContext, dir string, opts *InitOptions) error {
	r := cmdCtx.Renderer
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	files := map[string][]byte{}
	typesFile := ""
	if opts.Catalog {
		typesFile = catalogFileName
		files[catalogFileName] = atomtype.DefaultCatalog()
	}
	files[configFileName] = []byte(renderConfig(typesFile))

	var created []string
	for _, name := range []string{configFileName, catalogFileName} {
		data, ok := files[name]
		if !ok {
			continue
		}
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil && !opts.Force {
			return fmt.Errorf("%s already exists. Use --force to overwrite", path)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		created = append(created, path)
	}

	if r.IsJSON() {
		return r.JSON(map[string][]string{"created": created})
	}
	for _, path := range created {
		r.Printf("created %s\n", path)
	}
	r.Println("")
	r.Println("Next steps:")
	r.Println("  leaptype perceive 'c1ccncc1'    Type a molecule")
	r.Println("  leaptype batch molecules.smi    Type a file of molecules")
	if opts.Catalog {
		r.Println("  leaptype validate               Check the edited catalog")
	}
	return nil
}

func renderConfig(typesFile string) string {
	d := config.Defaults()
	types := "# types_file: atomtypes.yaml"
	if typesFile != "" {
		types = "types_file: " + typesFile
	}
	return fmt.Sprintf(`# leaptype configuration
#
# Every key can also be set with a LEAPTYPE_ environment variable
# (for example LEAPTYPE_WORKERS=4) or the matching command line flag.

# Atom type catalog; the embedded catalog is used when unset.
%s

# Molecules perceived in parallel by batch; 0 uses every CPU.
workers: %d

# Output format: auto, text, markdown or json.
output: %s

# Per-atom columns printed by perceive.
columns: [%s]

# SQLite database used by batch --save and runs.
state_path: %s

# Delay before batch --watch re-runs after the input changes.
watch_debounce: %s
`, types, d.Workers, d.OutputFormat, strings.Join(d.Columns, ", "), d.StatePath, d.WatchDebounce)
}
