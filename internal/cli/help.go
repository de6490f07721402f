package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// walkCommands visits every command in the tree depth-first.
func walkCommands(cmd *cobra.Command, fn func(*cobra.Command)) {
	fn(cmd)
	for _, sub := range cmd.Commands() {
		walkCommands(sub, fn)
	}
}

// subcommandsHeader marks a Long description that was already enriched.
const subcommandsHeader = "\n\nSubcommands:\n"

// enrichParentLong appends the visible subcommands to a parent command's
// Long description. Calling it again on the same command is a no-op.
func enrichParentLong(cmd *cobra.Command) {
	if !cmd.HasSubCommands() || strings.Contains(cmd.Long, subcommandsHeader) {
		return
	}

	var sb strings.Builder
	sb.WriteString(cmd.Long)
	sb.WriteString(subcommandsHeader)

	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			fmt.Fprintf(&sb, "  %-12s %s\n", sub.Name(), sub.Short)
		}
	}

	cmd.Long = sb.String()
}
