package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/leaptype/internal/cli"
	"github.com/leapstack-labs/leaptype/internal/cli/config"
)

// catalogCommands are the commands whose pages link to the catalog reference.
var catalogCommands = []string{"types", "validate", "init", "doctor"}

// cliDocs renders the CLI reference for one command tree.
type cliDocs struct {
	root *cobra.Command
	// keyFlags maps a configuration key to the flags that set it.
	keyFlags map[string][]string
}

func newCLIDocs(root *cobra.Command) *cliDocs {
	d := &cliDocs{root: root, keyFlags: make(map[string][]string)}
	seen := make(map[string]bool)
	collect := func(f *pflag.Flag) {
		key := config.FlagKey(f.Name)
		if _, ok := config.LookupOption(key); !ok || seen[f.Name] {
			return
		}
		seen[f.Name] = true
		d.keyFlags[key] = append(d.keyFlags[key], "--"+f.Name)
	}
	root.PersistentFlags().VisitAll(collect)
	for _, cmd := range d.commands() {
		cmd.LocalNonPersistentFlags().VisitAll(collect)
	}
	return d
}

// generateCLIDocs writes an index page plus one page per visible command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	d := newCLIDocs(cli.NewRootCmd())
	pages := map[string][]byte{"index.md": d.index()}
	for _, cmd := range d.commands() {
		pages[cmd.Name()+".md"] = d.commandPage(cmd)
	}
	for name, data := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name), data, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

func (d *cliDocs) commands() []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range d.root.Commands() {
		if cmd.IsAvailableCommand() {
			out = append(out, cmd)
		}
	}
	return out
}

func (d *cliDocs) index() []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for leaptype")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(cleanDescription(d.root.Long))
	w.CodeBlock("bash", "go install github.com/leapstack-labs/leaptype/cmd/leaptype@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range d.commands() {
		rows = append(rows, []string{commandLink(cmd.Name()), cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	d.flagTable(w, d.root.PersistentFlags())

	d.configSection(w)

	w.Header(2, "Exit Codes")
	w.Paragraph("leaptype exits with " + InlineCode("0") + " on success and " + InlineCode("1") +
		" on any error, including " + InlineCode("perceive --strict") + " with unmatched atoms.")
	return w.Bytes()
}

// configSection documents every configuration key with its environment
// variable, default and the flags that override it.
func (d *cliDocs) configSection(w *MarkdownWriter) {
	w.Header(2, "Configuration")
	w.Paragraph("Settings are read from " + InlineCode("leaptype.yaml") + ", then " +
		InlineCode(config.EnvPrefix+"*") + " environment variables, then flags. Later sources win.")

	defaults := config.DefaultValues()
	var rows [][]string
	for _, o := range config.Options {
		flags := make([]string, len(d.keyFlags[o.Key]))
		for i, f := range d.keyFlags[o.Key] {
			flags[i] = InlineCode(f)
		}
		rows = append(rows, []string{
			InlineCode(o.Key),
			InlineCode(o.EnvVar()),
			defaultCell(defaults[o.Key]),
			strings.Join(flags, ", "),
			cleanDescription(o.Description),
		})
	}
	w.Table([]string{"Key", "Environment", "Default", "Flags", "Description"}, rows)

	w.Header(3, "Columns")
	w.Paragraph("The " + InlineCode("columns") + " key selects what " + commandLink("perceive") +
		" prints per atom. Unknown names are rejected when the configuration loads.")
	rows = nil
	for _, col := range config.KnownColumns {
		def := ""
		if slices.Contains(config.DefaultColumns, col) {
			def = "yes"
		}
		rows = append(rows, []string{InlineCode(col), def})
	}
	w.Table([]string{"Column", "Default"}, rows)
}

func (d *cliDocs) commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	use := cmd.UseLine()
	if cmd.HasAvailableSubCommands() {
		use = cmd.CommandPath() + " <subcommand>"
	}
	w.CodeBlock("bash", use)

	if cmd.HasAvailableSubCommands() {
		w.Header(2, "Subcommands")
		var rows [][]string
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				rows = append(rows, []string{InlineCode(sub.Name()), cleanDescription(sub.Short)})
			}
		}
		w.Table([]string{"Subcommand", "Description"}, rows)
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		d.flagTable(w, cmd.LocalNonPersistentFlags())
	}
	if cmd.HasAvailableInheritedFlags() {
		w.Header(2, "Global Options")
		d.flagTable(w, cmd.InheritedFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}

	var related []string
	if slices.Contains(catalogCommands, cmd.Name()) {
		related = append(related, fmt.Sprintf("[Atom type catalog](%s) lists every built-in descriptor", catalogDocPath))
	}
	if cmd.Name() == "perceive" {
		related = append(related, fmt.Sprintf("[Columns](%s#columns) documents the per-atom columns", cliDocPath))
	}
	if len(related) > 0 {
		w.Header(2, "See Also")
		w.BulletList(related)
	}
	return w.Bytes()
}

// flagTable lists flags with the configuration key each one overrides.
func (d *cliDocs) flagTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}
		key := ""
		if o, ok := config.LookupOption(config.FlagKey(f.Name)); ok {
			key = InlineCode(o.Key)
		}
		rows = append(rows, []string{name, defaultCell(f.DefValue), key, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Flag", "Default", "Config key", "Description"}, rows)
}

// defaultCell renders a default value; zero values are left blank.
func defaultCell(v any) string {
	var s string
	switch v := v.(type) {
	case []string:
		s = strings.Join(v, ",")
	default:
		s = fmt.Sprint(v)
	}
	switch s {
	case "", "0", "false", "[]":
		return ""
	}
	return InlineCode(s)
}

func commandLink(name string) string {
	return fmt.Sprintf("[%s](%s/%s)", InlineCode(name), cliDocPath, name)
}

// dedent strips the indentation shared by every non-blank line.
func dedent(text string) string {
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	prefix := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if prefix < 0 || n < prefix {
			prefix = n
		}
	}
	for i, line := range lines {
		if len(line) >= prefix && prefix > 0 {
			lines[i] = line[prefix:]
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
