package commands

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaptype/internal/cli/config"
	"github.com/leapstack-labs/leaptype/internal/cli/output"
	"github.com/leapstack-labs/leaptype/pkg/atomtype"
	"github.com/leapstack-labs/leaptype/pkg/perception"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// LoadTable returns the configured atom type catalog, or the embedded one.
func (c *CommandContext) LoadTable() (*atomtype.Table, error) {
	if c.Cfg.TypesFile == "" {
		return atomtype.Default()
	}
	table, err := atomtype.LoadFile(c.Cfg.TypesFile)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded atom types", slog.String("source", table.Source()), slog.Int("descriptors", table.Len()))
	return table, nil
}

// NewPerceiver builds a perceiver over the configured catalog. Metrics are
// registered on reg when it is non-nil.
func (c *CommandContext) NewPerceiver(reg prometheus.Registerer) (*perception.Perceiver, error) {
	table, err := c.LoadTable()
	if err != nil {
		return nil, err
	}
	var metrics *perception.Metrics
	if reg != nil {
		metrics = perception.NewMetrics(reg)
	}
	p, err := perception.New(perception.Config{Table: table, Logger: c.Logger, Metrics: metrics})
	if err != nil {
		return nil, fmt.Errorf("failed to create perceiver: %w", err)
	}
	return p, nil
}

// getConfig returns the current configuration, or defaults when no
// configuration was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Defaults()
}
