package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrz1836/quorum/internal/config"
	"github.com/mrz1836/quorum/internal/output"
	"github.com/mrz1836/quorum/internal/shamir"
)

// CommandContext holds dependencies for CLI commands.
type CommandContext struct {
	Config    *config.Config
	Logger    *config.Logger
	Formatter *output.Formatter

	// NewSource returns the randomness for one polynomial. Each call must
	// return an independent source.
	NewSource func() shamir.RandomSource
}

// NewCommandContext creates a context with the given dependencies.
func NewCommandContext(
	cfg *config.Config,
	logger *config.Logger,
	formatter *output.Formatter,
) *CommandContext {
	return &CommandContext{
		Config:    cfg,
		Logger:    logger,
		Formatter: formatter,
		NewSource: defaultSource,
	}
}

// WithSource sets the random source factory.
func (c *CommandContext) WithSource(fn func() shamir.RandomSource) *CommandContext {
	c.NewSource = fn
	return c
}

func defaultSource() shamir.RandomSource {
	return shamir.NewCryptoSource()
}

type cmdContextKey struct{}

// SetCmdContext attaches cc to the command's context.
func SetCmdContext(cmd *cobra.Command, cc *CommandContext) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cmdContextKey{}, cc))
}

// GetCmdContext returns the CommandContext attached to cmd. Without one it
// falls back to the globals, filling anything still unset with safe defaults.
func GetCmdContext(cmd *cobra.Command) *CommandContext {
	if ctx := cmd.Context(); ctx != nil {
		if cc, ok := ctx.Value(cmdContextKey{}).(*CommandContext); ok && cc != nil {
			return cc
		}
	}

	cc := NewCommandContext(cfg, logger, formatter)
	if cc.Config == nil {
		cc.Config = config.Defaults()
	}
	if cc.Logger == nil {
		cc.Logger = config.NullLogger()
	}
	if cc.Formatter == nil {
		cc.Formatter = output.NewFormatter(output.FormatText, cmd.OutOrStdout())
	}
	return cc
}

// commandContext returns cmd's context, or Background for commands
// that were never executed through cobra.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
